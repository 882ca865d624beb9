// Package expand implements the single-hop collaborative expansion step.
package expand

// Option applies a configuration option to the Expander.
type Option func(*Expander)

// WithSeedCount caps how many seed articles are considered per expansion.
func WithSeedCount(n int) Option {
	return func(e *Expander) {
		if n > 0 {
			e.maxSeeds = n
		}
	}
}

// WithPerSeedCount sets how many similar articles each seed may contribute.
func WithPerSeedCount(n int) Option {
	return func(e *Expander) {
		if n > 0 {
			e.perSeed = n
		}
	}
}

// WithMinSimilarity sets the similarity cutoff below which candidates are
// discarded.
func WithMinSimilarity(threshold float64) Option {
	return func(e *Expander) {
		if threshold >= 0 && threshold < 1 {
			e.minSimilarity = threshold
		}
	}
}
