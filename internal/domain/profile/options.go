// Package profile derives and caches per-user reading profiles.
package profile

import (
	"time"

	"github.com/infopulse/recommender/pkg/logger"
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithTopTopics sets how many preferred topics a profile keeps.
func WithTopTopics(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.topTopics = n
		}
	}
}

// WithLengthBounds sets the average-reading-time boundaries between the
// short, medium, and long preferences.
func WithLengthBounds(shortMax, mediumMax time.Duration) Option {
	return func(b *Builder) {
		if shortMax > 0 && mediumMax > shortMax {
			b.shortMax = shortMax
			b.mediumMax = mediumMax
		}
	}
}

// WithConcurrency bounds the reading-time fetch fan-out.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithClock sets the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithLogger sets a custom logger for the builder.
func WithLogger(log logger.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}
