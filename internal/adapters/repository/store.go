// Package repository holds the process-wide catalog snapshot and its
// time-bounded refresh logic.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/infopulse/recommender/internal/domain/model"
	"github.com/infopulse/recommender/pkg/logger"
	"github.com/infopulse/recommender/pkg/metrics"
)

// Default snapshot configuration constants.
const (
	defaultTTL = 5 * time.Minute
)

// Fetcher retrieves the full article catalog from the upstream source.
type Fetcher interface {
	Articles(ctx context.Context) ([]model.Article, error)
}

// Store provides read access to the catalog snapshot.
type Store interface {
	// Catalog returns the current catalog mapping, refreshing it first when
	// stale. The returned map must be treated as read-only.
	Catalog(ctx context.Context) map[string]model.Article

	// Invalidate drops the snapshot, forcing a refresh on next access.
	Invalidate()

	// Size reports the number of articles in the current snapshot.
	Size() int

	// Age reports how old the current snapshot is.
	Age() time.Duration
}

// snapshot is an immutable catalog generation. Replaced wholesale, never
// mutated in place, so concurrent readers cannot observe a torn value.
type snapshot struct {
	articles  map[string]model.Article
	fetchedAt time.Time
}

// SnapshotStore implements Store with a single atomically-published snapshot.
type SnapshotStore struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
	log     logger.Logger

	current atomic.Pointer[snapshot]

	// refreshMu coalesces concurrent refreshes of the same stale snapshot:
	// one caller fetches, the rest reuse its result.
	refreshMu sync.Mutex
}

// NewSnapshotStore creates a SnapshotStore with configuration options.
func NewSnapshotStore(fetcher Fetcher, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		fetcher: fetcher,
		ttl:     defaultTTL,
		now:     time.Now,
		log:     logger.Get(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Catalog returns a fresh snapshot, fetching synchronously when the current
// one is stale or empty. A failed fetch falls back to the previous snapshot
// when one exists, else an empty mapping; the failure is logged, not
// returned, so callers degrade to fewer recommendations instead of erroring.
func (s *SnapshotStore) Catalog(ctx context.Context) map[string]model.Article {
	if snap := s.current.Load(); s.fresh(snap) {
		metrics.RecordCatalogCacheHit()
		return snap.articles
	}
	metrics.RecordCatalogCacheMiss()

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Another caller may have refreshed while we waited on the gate.
	if snap := s.current.Load(); s.fresh(snap) {
		return snap.articles
	}

	articles, err := s.fetcher.Articles(ctx)
	if err != nil {
		metrics.RecordCatalogRefreshFailure()
		s.log.Warn(ctx, "catalog fetch failed; serving previous snapshot",
			logger.Error(err),
		)
		if snap := s.current.Load(); snap != nil {
			return snap.articles
		}
		return map[string]model.Article{}
	}

	m := make(map[string]model.Article, len(articles))
	for _, a := range articles {
		m[a.ID] = a
	}

	s.current.Store(&snapshot{articles: m, fetchedAt: s.now()})
	metrics.RecordCatalogRefresh()
	metrics.UpdateCatalogSize(len(m))
	s.log.Debug(ctx, "catalog snapshot refreshed", logger.Int("articles", len(m)))
	return m
}

// Invalidate drops the current snapshot.
func (s *SnapshotStore) Invalidate() {
	s.current.Store(nil)
	metrics.UpdateCatalogSize(0)
}

// Size reports the number of articles in the current snapshot.
func (s *SnapshotStore) Size() int {
	if snap := s.current.Load(); snap != nil {
		return len(snap.articles)
	}
	return 0
}

// Age reports the age of the current snapshot, or 0 when none exists.
func (s *SnapshotStore) Age() time.Duration {
	if snap := s.current.Load(); snap != nil {
		return s.now().Sub(snap.fetchedAt)
	}
	return 0
}

// fresh reports whether snap can be served without a refresh. Empty
// snapshots are always considered stale.
func (s *SnapshotStore) fresh(snap *snapshot) bool {
	return snap != nil && len(snap.articles) > 0 && s.now().Sub(snap.fetchedAt) < s.ttl
}
