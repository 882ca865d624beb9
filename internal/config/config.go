// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ArticleSourceURL is the upstream endpoint serving the article catalog.
	ArticleSourceURL string `koanf:"article_source_url"`

	// InteractionSourceURL serves per-user read history.
	InteractionSourceURL string `koanf:"interaction_source_url"`

	// ReadingTimeSourceURL serves per-article reading durations.
	ReadingTimeSourceURL string `koanf:"reading_time_source_url"`

	// UpstreamTimeoutMS bounds each upstream HTTP call.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// CatalogTTLSeconds controls how long a catalog snapshot stays fresh.
	CatalogTTLSeconds int `koanf:"catalog_ttl_seconds"`

	// FetchConcurrency bounds parallel reading-time lookups per profile build.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// DefaultLimit and MaxLimit bound result set sizes.
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	// Ranking weights. They should sum to 1.0.
	TopicWeight     float64 `koanf:"topic_weight"`
	RecencyWeight   float64 `koanf:"recency_weight"`
	LengthWeight    float64 `koanf:"length_weight"`
	DiversityWeight float64 `koanf:"diversity_weight"`

	// RecencyWindowDays sets the horizon beyond which articles score zero
	// recency.
	RecencyWindowDays int `koanf:"recency_window_days"`

	// SimilarityThreshold gates collaborative expansion candidates.
	SimilarityThreshold float64 `koanf:"similarity_threshold"`

	// PreferredTopicCount caps how many topics a profile retains.
	PreferredTopicCount int `koanf:"preferred_topic_count"`

	// ExpansionSeedCount and ExpansionPerSeed bound collaborative expansion.
	ExpansionSeedCount int `koanf:"expansion_seed_count"`
	ExpansionPerSeed   int `koanf:"expansion_per_seed"`
}

// New creates a Config using defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":8080",
		ArticleSourceURL:     "http://localhost:7070/articles",
		InteractionSourceURL: "http://localhost:7070/interactions",
		ReadingTimeSourceURL: "http://localhost:7070/reading-times",
		UpstreamTimeoutMS:    3000,
		CatalogTTLSeconds:    300,
		FetchConcurrency:     8,
		DefaultLimit:         10,
		MaxLimit:             50,
		TopicWeight:          0.4,
		RecencyWeight:        0.3,
		LengthWeight:         0.2,
		DiversityWeight:      0.1,
		RecencyWindowDays:    30,
		SimilarityThreshold:  0.3,
		PreferredTopicCount:  3,
		ExpansionSeedCount:   5,
		ExpansionPerSeed:     2,
	}
}
