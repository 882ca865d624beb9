// Package scoring computes the content-based relevance score for a candidate
// article against a user profile.
package scoring

import "time"

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights sets the component weights. Negative values are ignored so the
// score stays non-negative by construction.
func WithWeights(topic, recency, length, diversity float64) Option {
	return func(s *Scorer) {
		if topic >= 0 {
			s.topicWeight = topic
		}
		if recency >= 0 {
			s.recencyWeight = recency
		}
		if length >= 0 {
			s.lengthBonus = length
		}
		if diversity >= 0 {
			s.diversityWeight = diversity
		}
	}
}

// WithRecencyWindow sets the window after which articles earn no recency score.
func WithRecencyWindow(window time.Duration) Option {
	return func(s *Scorer) {
		if window > 0 {
			s.recencyWindow = window
		}
	}
}

// WithLengthBounds sets the character boundaries between the short, medium,
// and long buckets.
func WithLengthBounds(shortMax, longMin int) Option {
	return func(s *Scorer) {
		if shortMax > 0 && longMin >= shortMax {
			s.shortMaxChars = shortMax
			s.longMinChars = longMin
		}
	}
}

// WithClock sets the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}
