// Package profile derives and caches per-user reading profiles from
// interaction history and the article catalog.
package profile

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/infopulse/recommender/internal/domain/model"
	"github.com/infopulse/recommender/pkg/logger"
	"github.com/infopulse/recommender/pkg/metrics"
)

// Default profile configuration constants.
const (
	defaultTopTopics        = 3
	defaultShortMaxSeconds  = 60
	defaultMediumMaxSeconds = 300
	defaultConcurrency      = 8
)

// InteractionSource returns the IDs of articles a user has read,
// most recent first.
type InteractionSource interface {
	ReadArticleIDs(ctx context.Context, userID string) ([]string, error)
}

// ReadingTimeSource returns the recorded reading time in seconds for an
// article. ok is false when no sample exists or the lookup failed; such
// lookups are excluded from the average rather than treated as errors.
type ReadingTimeSource interface {
	ReadingTime(ctx context.Context, articleID string) (seconds int, ok bool)
}

// CatalogSource resolves article IDs against the current catalog snapshot.
type CatalogSource interface {
	Catalog(ctx context.Context) map[string]model.Article
}

// Builder assembles UserProfile values and memoizes them in a process-wide
// cache with no automatic expiry. Cached profiles are returned as-is until
// Invalidate is called; they are never re-validated against newer interaction
// data.
type Builder struct {
	interactions InteractionSource
	times        ReadingTimeSource
	catalog      CatalogSource
	cache        *gocache.Cache

	topTopics   int
	shortMax    time.Duration
	mediumMax   time.Duration
	concurrency int
	now         func() time.Time
	log         logger.Logger
}

// NewBuilder creates a Builder with configuration options.
func NewBuilder(interactions InteractionSource, times ReadingTimeSource, catalog CatalogSource, opts ...Option) *Builder {
	b := &Builder{
		interactions: interactions,
		times:        times,
		catalog:      catalog,
		cache:        gocache.New(gocache.NoExpiration, 0),
		topTopics:    defaultTopTopics,
		shortMax:     defaultShortMaxSeconds * time.Second,
		mediumMax:    defaultMediumMaxSeconds * time.Second,
		concurrency:  defaultConcurrency,
		now:          time.Now,
		log:          logger.Get(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build returns the profile for userID, computing and caching it on a miss.
// An unreachable interaction source degrades to the default profile without
// caching it, so the user recovers on the next successful build.
func (b *Builder) Build(ctx context.Context, userID string) (model.UserProfile, error) {
	if cached, ok := b.cache.Get(userID); ok {
		metrics.RecordProfileCacheHit()
		return cached.(model.UserProfile), nil
	}
	metrics.RecordProfileCacheMiss()

	readIDs, err := b.interactions.ReadArticleIDs(ctx, userID)
	if err != nil {
		b.log.Warn(ctx, "interaction source unavailable; using default profile",
			logger.String("userID", userID),
			logger.Error(err),
		)
		return b.defaultProfile(userID), nil
	}

	if len(readIDs) == 0 {
		p := b.defaultProfile(userID)
		b.cache.Set(userID, p, gocache.NoExpiration)
		return p, nil
	}

	catalog := b.catalog.Catalog(ctx)

	// Resolve read IDs in order; unknown IDs are skipped silently.
	resolved := make([]model.Article, 0, len(readIDs))
	distinct := make(map[string]struct{}, len(readIDs))
	for _, id := range readIDs {
		distinct[id] = struct{}{}
		if a, ok := catalog[id]; ok {
			resolved = append(resolved, a)
		}
	}

	avg, hasSamples := b.averageReadingTime(ctx, resolved)
	p := model.UserProfile{
		UserID:           userID,
		PreferredTopics:  b.preferredTopics(resolved),
		LengthPreference: b.lengthPreference(avg, hasSamples),
		InteractionCount: len(distinct),
		LastActivity:     b.now(),
	}

	b.cache.Set(userID, p, gocache.NoExpiration)
	metrics.RecordProfileBuild()
	metrics.UpdateProfileCacheSize(b.cache.ItemCount())
	return p, nil
}

// Invalidate drops every cached profile, forcing a rebuild on next access.
func (b *Builder) Invalidate() {
	b.cache.Flush()
	metrics.UpdateProfileCacheSize(0)
}

// CachedCount reports how many profiles are currently memoized.
func (b *Builder) CachedCount() int {
	return b.cache.ItemCount()
}

func (b *Builder) defaultProfile(userID string) model.UserProfile {
	return model.UserProfile{
		UserID:           userID,
		PreferredTopics:  []string{},
		LengthPreference: model.LengthMedium,
		InteractionCount: 0,
		LastActivity:     b.now(),
	}
}

// preferredTopics counts topic frequency across the resolved articles in scan
// order and returns the top N, ties broken by first-seen order. Topics are
// counted case-insensitively but reported in their first-seen spelling.
func (b *Builder) preferredTopics(resolved []model.Article) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	display := make(map[string]string)

	order := 0
	for _, a := range resolved {
		for _, topic := range a.Topics {
			key := strings.ToLower(strings.TrimSpace(topic))
			if key == "" {
				continue
			}
			if _, seen := counts[key]; !seen {
				firstSeen[key] = order
				display[key] = strings.TrimSpace(topic)
				order++
			}
			counts[key]++
		}
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return firstSeen[keys[i]] < firstSeen[keys[j]]
	})

	if len(keys) > b.topTopics {
		keys = keys[:b.topTopics]
	}
	topics := make([]string, len(keys))
	for i, k := range keys {
		topics[i] = display[k]
	}
	return topics
}

// averageReadingTime fans out one reading-time lookup per resolved article
// with bounded concurrency. Each goroutine writes only its own slot, and the
// fold happens after all lookups complete, so the result is deterministic
// regardless of completion order. The second return is false when no article
// had a sample.
func (b *Builder) averageReadingTime(ctx context.Context, resolved []model.Article) (time.Duration, bool) {
	if len(resolved) == 0 {
		return 0, false
	}

	seconds := make([]int, len(resolved))
	sampled := make([]bool, len(resolved))

	sem := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup
	for i, a := range resolved {
		wg.Add(1)
		go func(i int, articleID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			seconds[i], sampled[i] = b.times.ReadingTime(ctx, articleID)
		}(i, a.ID)
	}
	wg.Wait()

	sum, n := 0, 0
	for i := range resolved {
		if sampled[i] {
			sum += seconds[i]
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return time.Duration(sum/n) * time.Second, true
}

// lengthPreference buckets the average reading time; medium when no samples
// exist.
func (b *Builder) lengthPreference(avg time.Duration, hasSamples bool) model.LengthPreference {
	switch {
	case !hasSamples:
		return model.LengthMedium
	case avg < b.shortMax:
		return model.LengthShort
	case avg < b.mediumMax:
		return model.LengthMedium
	default:
		return model.LengthLong
	}
}
