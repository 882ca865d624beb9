// Package model contains the core domain entities shared across the engine.
package model

import "time"

// Article is an immutable item from the upstream catalog. The engine never
// mutates article content; derived scores live in transient ScoredArticle
// values produced per request.
type Article struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	URL        string    `json:"url"`
	Topics     []string  `json:"topics"`
	Keywords   []string  `json:"keywords"`
	Summary    string    `json:"summary"`
	InsertedAt time.Time `json:"insertion_date"`
}

// LengthPreference categorizes how long the articles a user tends to read are.
type LengthPreference string

// Reading-length preference values.
const (
	LengthShort  LengthPreference = "short"
	LengthMedium LengthPreference = "medium"
	LengthLong   LengthPreference = "long"
)

// UserProfile summarizes a user's reading behavior. Profiles are derived on
// demand, cached without expiry, and recomputed on cache miss or explicit
// invalidation.
//
// Invariant: InteractionCount == 0 implies PreferredTopics is empty and
// LengthPreference is LengthMedium.
type UserProfile struct {
	UserID           string           `json:"user_id"`
	PreferredTopics  []string         `json:"preferred_topics"`
	LengthPreference LengthPreference `json:"reading_length_preference"`
	InteractionCount int              `json:"interaction_count"`
	LastActivity     time.Time        `json:"last_activity"`
}

// ScoredArticle annotates an article with a per-request relevance score.
type ScoredArticle struct {
	Article
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
}

// Recommendation is the ranked result of one recommend call.
type Recommendation struct {
	RequestID   string          `json:"request_id"`
	UserID      string          `json:"user_id"`
	Articles    []ScoredArticle `json:"recommendations"`
	Reason      string          `json:"reason"`
	GeneratedAt time.Time       `json:"generated_at"`
}
