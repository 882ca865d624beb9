// Package expand implements the single-hop collaborative expansion step:
// recommending unread catalog articles similar to recently-read seeds.
package expand

import (
	"sort"

	"github.com/infopulse/recommender/internal/domain/model"
	"github.com/infopulse/recommender/internal/domain/similarity"
)

// Default expansion configuration constants.
const (
	defaultMaxSeeds      = 5
	defaultPerSeed       = 2
	defaultMinSimilarity = 0.3
)

// Expander proposes topically similar unread articles for a set of seeds.
type Expander struct {
	maxSeeds      int
	perSeed       int
	minSimilarity float64
}

// New creates an Expander with configuration options.
func New(opts ...Option) *Expander {
	e := &Expander{
		maxSeeds:      defaultMaxSeeds,
		perSeed:       defaultPerSeed,
		minSimilarity: defaultMinSimilarity,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

type neighbor struct {
	article model.Article
	sim     float64
}

// Expand considers the first maxSeeds entries of seedIDs (most-recent-first
// ordering is the caller's responsibility), skips seeds that do not resolve
// against catalog, and for each seed collects the perSeed most similar
// catalog articles above the similarity threshold, excluding every
// considered seed and anything in excluded. Per-seed picks are concatenated in seed order,
// deduplicated keeping the first occurrence, and truncated to limit.
func (e *Expander) Expand(seedIDs []string, excluded map[string]struct{}, limit int, catalog map[string]model.Article) []model.Article {
	if limit <= 0 || len(seedIDs) == 0 || len(catalog) == 0 {
		return nil
	}

	seeds := seedIDs
	if len(seeds) > e.maxSeeds {
		seeds = seeds[:e.maxSeeds]
	}

	// No seed may surface in the result, including as another seed's
	// neighbor.
	seedSet := make(map[string]struct{}, len(seeds))
	for _, id := range seeds {
		seedSet[id] = struct{}{}
	}

	var out []model.Article
	picked := make(map[string]struct{})

	for _, seedID := range seeds {
		seed, ok := catalog[seedID]
		if !ok {
			continue
		}

		var neighbors []neighbor
		for id, candidate := range catalog {
			if _, isSeed := seedSet[id]; isSeed {
				continue
			}
			if _, skip := excluded[id]; skip {
				continue
			}
			if sim := similarity.Score(seed, candidate); sim > e.minSimilarity {
				neighbors = append(neighbors, neighbor{article: candidate, sim: sim})
			}
		}

		// Ties break on ID so output is stable across map iteration orders.
		sort.Slice(neighbors, func(i, j int) bool {
			if neighbors[i].sim != neighbors[j].sim {
				return neighbors[i].sim > neighbors[j].sim
			}
			return neighbors[i].article.ID < neighbors[j].article.ID
		})

		take := e.perSeed
		if take > len(neighbors) {
			take = len(neighbors)
		}
		for _, n := range neighbors[:take] {
			if _, dup := picked[n.article.ID]; dup {
				continue
			}
			picked[n.article.ID] = struct{}{}
			out = append(out, n.article)
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
