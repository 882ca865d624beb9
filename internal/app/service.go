// Package app provides the core recommendation service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/infopulse/recommender/internal/adapters/repository"
	"github.com/infopulse/recommender/internal/domain/expand"
	"github.com/infopulse/recommender/internal/domain/model"
	"github.com/infopulse/recommender/internal/domain/profile"
	"github.com/infopulse/recommender/internal/domain/scoring"
	"github.com/infopulse/recommender/pkg/logger"
	"github.com/infopulse/recommender/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultLimit      = 10
	defaultMaxLimit   = 50
	defaultCatalogTTL = 5 * time.Minute

	reasonTopicCount      = 2
	millisecondsPerSecond = 1000
)

// Ranking strategy labels used in metrics and stats.
const (
	strategyPersonalized = "personalized"
	strategyRecency      = "recency"
)

// Source is the full upstream surface the engine consumes.
type Source interface {
	Articles(ctx context.Context) ([]model.Article, error)
	ReadArticleIDs(ctx context.Context, userID string) ([]string, error)
	ReadingTime(ctx context.Context, articleID string) (seconds int, ok bool)
}

// Service orchestrates profile construction, content scoring, and
// collaborative expansion into ranked recommendations. It is stateless across
// requests; all memoized state lives in the catalog snapshot and the profile
// cache, each independently invalidatable through ClearCaches.
type Service struct {
	mu sync.RWMutex

	// Core components
	source   Source
	catalog  repository.Store
	profiles *profile.Builder
	scorer   *scoring.Scorer
	expander *expand.Expander

	// Configuration
	catalogTTL   time.Duration
	defaultLimit int
	maxLimit     int
	profileOpts  []profile.Option
	scoringOpts  []scoring.Option
	expandOpts   []expand.Option

	// State
	started bool

	// Counters for GetStats
	personalizedServed atomic.Int64
	recencyServed      atomic.Int64

	log logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalogTTL:   defaultCatalogTTL,
		defaultLimit: defaultLimit,
		maxLimit:     defaultMaxLimit,
		log:          nil, // resolved in Start
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start wires the engine components. A Source must have been configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.source == nil {
		return ErrNoSource
	}
	if s.log == nil {
		s.log = logger.Get()
	}

	s.catalog = repository.NewSnapshotStore(s.source,
		repository.WithTTL(s.catalogTTL),
	)
	s.profiles = profile.NewBuilder(s.source, s.source, s.catalog,
		append([]profile.Option{profile.WithLogger(s.log)}, s.profileOpts...)...,
	)
	s.scorer = scoring.New(s.scoringOpts...)
	s.expander = expand.New(s.expandOpts...)

	s.started = true
	s.log.Info(ctx, "recommendation service started",
		logger.Duration("catalogTTL", s.catalogTTL),
		logger.Int("maxLimit", s.maxLimit),
	)
	return nil
}

// Stop marks the service stopped. Caches are process-lifetime and need no
// teardown beyond being dropped with the process.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.log.Info(context.Background(), "recommendation service stopped")
}

// Recommend computes a ranked, deduplicated, limited result set for a user.
// Upstream failures degrade the ranking rather than failing the request;
// only an unexpected internal fault returns an error.
func (s *Service) Recommend(ctx context.Context, userID string, limit int, excludeRead bool) (model.Recommendation, error) {
	start := time.Now()

	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	// Profile, read IDs, and catalog are independent; fetch them together.
	var (
		wg      sync.WaitGroup
		prof    model.UserProfile
		readIDs []string
		catalog map[string]model.Article
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		prof, _ = s.profiles.Build(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		ids, err := s.source.ReadArticleIDs(ctx, userID)
		if err != nil {
			// Unreachable interaction source reads as "no history".
			s.log.Warn(ctx, "interaction source unavailable for recommend",
				logger.String("userID", userID),
				logger.Error(err),
			)
			return
		}
		readIDs = ids
	}()
	go func() {
		defer wg.Done()
		catalog = s.catalog.Catalog(ctx)
	}()
	wg.Wait()

	readSet := make(map[string]struct{}, len(readIDs))
	for _, id := range readIDs {
		readSet[id] = struct{}{}
	}

	candidates := make([]model.Article, 0, len(catalog))
	for id, a := range catalog {
		if excludeRead {
			if _, read := readSet[id]; read {
				continue
			}
		}
		candidates = append(candidates, a)
	}

	var (
		ranked   []model.ScoredArticle
		reason   string
		strategy string
		err      error
	)
	if prof.InteractionCount > 0 {
		ranked, err = s.personalized(ctx, userID, prof, readIDs, readSet, candidates, catalog, limit)
		if err != nil {
			return model.Recommendation{}, err
		}
		reason = fmt.Sprintf("based on reading history in %s and similar users' preferences",
			strings.Join(topN(prof.PreferredTopics, reasonTopicCount), ", "))
		strategy = strategyPersonalized
		s.personalizedServed.Add(1)
	} else {
		ranked = recentFirst(candidates, limit)
		reason = "popular recent articles for new users"
		strategy = strategyRecency
		s.recencyServed.Add(1)
	}

	metrics.RecordRecommendation(strategy)
	metrics.RecordRecommendationLatency(float64(time.Since(start).Seconds() * millisecondsPerSecond))

	return model.Recommendation{
		RequestID:   uuid.New().String(),
		UserID:      userID,
		Articles:    ranked,
		Reason:      reason,
		GeneratedAt: time.Now(),
	}, nil
}

// personalized merges the content-based ranking with the collaborative
// expansion. Scoring and expansion are pure computation over request-local
// data; a panic here is a bug, surfaced as a single generic failure with no
// partial result.
func (s *Service) personalized(
	ctx context.Context,
	userID string,
	prof model.UserProfile,
	readIDs []string,
	readSet map[string]struct{},
	candidates []model.Article,
	catalog map[string]model.Article,
	limit int,
) (ranked []model.ScoredArticle, err error) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordInternalFailure()
			s.log.Error(ctx, "recommendation computation failed",
				logger.String("userID", userID),
				logger.Any("panic", r),
			)
			ranked, err = nil, ErrInternal
		}
	}()

	half := limit / 2

	content := make([]model.ScoredArticle, 0, len(candidates))
	for _, a := range candidates {
		content = append(content, model.ScoredArticle{
			Article: a,
			Score:   s.scorer.Score(a, prof, readIDs, catalog),
			Reason:  "content match",
		})
	}
	sort.Slice(content, func(i, j int) bool {
		if content[i].Score != content[j].Score {
			return content[i].Score > content[j].Score
		}
		return content[i].ID < content[j].ID
	})
	if len(content) > half {
		content = content[:half]
	}

	excluded := make(map[string]struct{}, len(readSet)+len(content))
	for id := range readSet {
		excluded[id] = struct{}{}
	}
	for _, sa := range content {
		excluded[sa.ID] = struct{}{}
	}

	collaborative := s.expander.Expand(readIDs, excluded, half, catalog)
	metrics.RecordExpansionArticles(len(collaborative))

	ranked = content
	for _, a := range collaborative {
		ranked = append(ranked, model.ScoredArticle{
			Article: a,
			Reason:  "similar to recently read",
		})
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Profile returns the user's derived profile, building it if necessary.
func (s *Service) Profile(ctx context.Context, userID string) (model.UserProfile, error) {
	return s.profiles.Build(ctx, userID)
}

// Trending returns the most recent catalog articles, bypassing
// personalization entirely.
func (s *Service) Trending(ctx context.Context, limit int) ([]model.Article, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	catalog := s.catalog.Catalog(ctx)
	articles := make([]model.Article, 0, len(catalog))
	for _, a := range catalog {
		articles = append(articles, a)
	}
	return plain(recentFirst(articles, limit)), nil
}

// ByTopic returns recency-sorted articles whose topic set contains topic,
// compared case-insensitively.
func (s *Service) ByTopic(ctx context.Context, topic string, limit int) ([]model.Article, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	want := strings.ToLower(strings.TrimSpace(topic))
	catalog := s.catalog.Catalog(ctx)

	matched := make([]model.Article, 0)
	for _, a := range catalog {
		for _, t := range a.Topics {
			if strings.ToLower(t) == want {
				matched = append(matched, a)
				break
			}
		}
	}
	return plain(recentFirst(matched, limit)), nil
}

// ClearCaches evicts the catalog snapshot and the entire profile cache,
// forcing full recomputation on next access.
func (s *Service) ClearCaches(ctx context.Context) {
	s.catalog.Invalidate()
	s.profiles.Invalidate()
	metrics.RecordCacheClear()
	s.log.Info(ctx, "caches cleared")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"defaultLimit": s.defaultLimit,
		"maxLimit":     s.maxLimit,
	}
	if s.started {
		stats["catalogSize"] = s.catalog.Size()
		stats["catalogAgeSeconds"] = int(s.catalog.Age().Seconds())
		stats["cachedProfiles"] = s.profiles.CachedCount()
		stats["personalizedServed"] = s.personalizedServed.Load()
		stats["recencyServed"] = s.recencyServed.Load()
	}
	return stats
}

// recentFirst sorts by insertion timestamp descending (ties broken by ID for
// stable output) and truncates to limit.
func recentFirst(articles []model.Article, limit int) []model.ScoredArticle {
	sorted := make([]model.Article, len(articles))
	copy(sorted, articles)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].InsertedAt.Equal(sorted[j].InsertedAt) {
			return sorted[i].InsertedAt.After(sorted[j].InsertedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]model.ScoredArticle, len(sorted))
	for i, a := range sorted {
		out[i] = model.ScoredArticle{Article: a}
	}
	return out
}

// plain strips the transient scoring wrapper for endpoints that return bare
// articles.
func plain(scored []model.ScoredArticle) []model.Article {
	out := make([]model.Article, len(scored))
	for i, sa := range scored {
		out[i] = sa.Article
	}
	return out
}

// topN returns at most n leading elements of values.
func topN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
