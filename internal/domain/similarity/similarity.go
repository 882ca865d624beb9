// Package similarity implements the topic/keyword overlap metric shared by
// content scoring and collaborative expansion.
package similarity

import (
	"strings"

	"github.com/infopulse/recommender/internal/domain/model"
)

// Relative contribution of topic vs keyword overlap.
const (
	topicWeight   = 0.7
	keywordWeight = 0.3
)

// Score compares two articles and returns a value in [0, 1]. It is the
// weighted sum of the Jaccard indices of the articles' topic sets and keyword
// sets, both compared case-insensitively. Symmetric: Score(a, b) == Score(b, a).
func Score(a, b model.Article) float64 {
	topics := jaccard(labelSet(a.Topics), labelSet(b.Topics))
	keywords := jaccard(labelSet(a.Keywords), labelSet(b.Keywords))
	return topicWeight*topics + keywordWeight*keywords
}

// labelSet lowercases and deduplicates labels, dropping blanks.
func labelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			set[l] = struct{}{}
		}
	}
	return set
}

// jaccard returns |a ∩ b| / |a ∪ b|. The denominator is clamped to 1 so two
// empty sets yield 0 rather than dividing by zero.
func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union < 1 {
		union = 1
	}
	return float64(intersection) / float64(union)
}
