// Package scoring computes the content-based relevance score for a candidate
// article against a user profile.
package scoring

import (
	"strings"
	"time"

	"github.com/infopulse/recommender/internal/domain/model"
	"github.com/infopulse/recommender/internal/domain/similarity"
)

// Default scoring configuration constants.
const (
	defaultTopicWeight     = 0.4
	defaultRecencyWeight   = 0.3
	defaultLengthBonus     = 0.2
	defaultDiversityWeight = 0.1
	defaultRecencyDays     = 30
	defaultShortMaxChars   = 1000
	defaultLongMinChars    = 3000

	hoursPerDay = 24
)

// Scorer sums four weighted components: topic overlap with the profile's
// preferred topics, insertion recency, reading-length fit, and a diversity
// bonus for articles dissimilar to what the user already read.
type Scorer struct {
	topicWeight     float64
	recencyWeight   float64
	lengthBonus     float64
	diversityWeight float64
	recencyWindow   time.Duration
	shortMaxChars   int
	longMinChars    int
	now             func() time.Time
}

// New creates a Scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		topicWeight:     defaultTopicWeight,
		recencyWeight:   defaultRecencyWeight,
		lengthBonus:     defaultLengthBonus,
		diversityWeight: defaultDiversityWeight,
		recencyWindow:   defaultRecencyDays * hoursPerDay * time.Hour,
		shortMaxChars:   defaultShortMaxChars,
		longMinChars:    defaultLongMinChars,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score returns a non-negative relevance score for article. Read IDs that do
// not resolve against catalog are skipped; an article with a zero insertion
// timestamp earns no recency component. There is no exclusion threshold:
// callers rank descending and truncate.
func (s *Scorer) Score(article model.Article, profile model.UserProfile, readIDs []string, catalog map[string]model.Article) float64 {
	score := s.topicWeight * s.topicMatch(article, profile)
	score += s.recencyWeight * s.recency(article)
	if s.lengthBucket(len(article.Content)) == profile.LengthPreference {
		score += s.lengthBonus
	}
	score += s.diversityWeight * s.diversity(article, readIDs, catalog)
	return score
}

// topicMatch is the fraction of the profile's preferred topics present on the
// article, compared case-insensitively. Zero when the profile has no topics.
func (s *Scorer) topicMatch(article model.Article, profile model.UserProfile) float64 {
	if len(profile.PreferredTopics) == 0 {
		return 0
	}
	topics := make(map[string]struct{}, len(article.Topics))
	for _, t := range article.Topics {
		topics[strings.ToLower(t)] = struct{}{}
	}
	matches := 0
	for _, p := range profile.PreferredTopics {
		if _, ok := topics[strings.ToLower(p)]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(profile.PreferredTopics))
}

// recency is max(0, 1 - age/window). Articles older than the window, and
// articles whose upstream timestamp did not parse (zero time), contribute 0.
func (s *Scorer) recency(article model.Article) float64 {
	if article.InsertedAt.IsZero() {
		return 0
	}
	age := s.now().Sub(article.InsertedAt)
	r := 1 - age.Hours()/s.recencyWindow.Hours()
	if r < 0 {
		return 0
	}
	return r
}

// lengthBucket maps a content length in characters to a preference bucket.
// The medium bucket is inclusive on both ends.
func (s *Scorer) lengthBucket(chars int) model.LengthPreference {
	switch {
	case chars < s.shortMaxChars:
		return model.LengthShort
	case chars <= s.longMinChars:
		return model.LengthMedium
	default:
		return model.LengthLong
	}
}

// diversity is 1 - max similarity to any resolved read article, rewarding
// articles unlike what the user already consumed. Zero when nothing resolves.
func (s *Scorer) diversity(article model.Article, readIDs []string, catalog map[string]model.Article) float64 {
	maxSim := -1.0
	for _, id := range readIDs {
		read, ok := catalog[id]
		if !ok {
			continue
		}
		if sim := similarity.Score(article, read); sim > maxSim {
			maxSim = sim
		}
	}
	if maxSim < 0 {
		return 0
	}
	return 1 - maxSim
}
