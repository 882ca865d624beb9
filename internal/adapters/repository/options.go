// Package repository holds the process-wide catalog snapshot.
package repository

import (
	"time"

	"github.com/infopulse/recommender/pkg/logger"
)

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithTTL sets how long a snapshot is served before it must be refreshed.
func WithTTL(ttl time.Duration) Option {
	return func(s *SnapshotStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock sets the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(s *SnapshotStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(log logger.Logger) Option {
	return func(s *SnapshotStore) {
		if log != nil {
			s.log = log
		}
	}
}
