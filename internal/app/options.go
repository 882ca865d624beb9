// Package app provides the core recommendation service.
package app

import (
	"time"

	"github.com/infopulse/recommender/internal/domain/expand"
	"github.com/infopulse/recommender/internal/domain/profile"
	"github.com/infopulse/recommender/internal/domain/scoring"
	"github.com/infopulse/recommender/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the upstream source the engine consumes. Required.
func WithSource(source Source) Option {
	return func(s *Service) {
		if source != nil {
			s.source = source
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCatalogTTL sets how long a catalog snapshot is served before refresh.
func WithCatalogTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.catalogTTL = ttl
		}
	}
}

// WithLimits sets the default and maximum recommendation list sizes.
func WithLimits(def, max int) Option {
	return func(s *Service) {
		if def > 0 {
			s.defaultLimit = def
		}
		if max >= def && max > 0 {
			s.maxLimit = max
		}
	}
}

// WithProfileOptions forwards options to the profile builder.
func WithProfileOptions(opts ...profile.Option) Option {
	return func(s *Service) {
		s.profileOpts = append(s.profileOpts, opts...)
	}
}

// WithScoringOptions forwards options to the scorer.
func WithScoringOptions(opts ...scoring.Option) Option {
	return func(s *Service) {
		s.scoringOpts = append(s.scoringOpts, opts...)
	}
}

// WithExpandOptions forwards options to the collaborative expander.
func WithExpandOptions(opts ...expand.Option) Option {
	return func(s *Service) {
		s.expandOpts = append(s.expandOpts, opts...)
	}
}
