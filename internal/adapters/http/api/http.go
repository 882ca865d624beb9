// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/infopulse/recommender/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Recommend computes a ranked result set for a user.
	Recommend(ctx context.Context, userID string, limit int, excludeRead bool) (model.Recommendation, error)

	// Profile returns the derived reading profile for a user.
	Profile(ctx context.Context, userID string) (model.UserProfile, error)

	// Read operations expose the article catalog.
	Trending(ctx context.Context, limit int) ([]model.Article, error)
	ByTopic(ctx context.Context, topic string, limit int) ([]model.Article, error)

	// ClearCaches drops all memoized state.
	ClearCaches(ctx context.Context)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recommendHandler *RecommendHandler
	profileHandler   *ProfileHandler
	trendingHandler  *TrendingHandler
	topicsHandler    *TopicsHandler
	cachesHandler    *CachesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		recommendHandler: NewRecommendHandler(deps, maxLimit),
		profileHandler:   NewProfileHandler(deps),
		trendingHandler:  NewTrendingHandler(deps, maxLimit),
		topicsHandler:    NewTopicsHandler(deps, maxLimit),
		cachesHandler:    NewCachesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/recommendations/", MetricsMiddleware(s.recommendHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/profile/", MetricsMiddleware(s.profileHandler.HandleGetProfile, "profile"))
	mux.HandleFunc("/trending", MetricsMiddleware(s.trendingHandler.HandleGetTrending, "trending"))
	mux.HandleFunc("/topics/", MetricsMiddleware(s.topicsHandler.HandleGetByTopic, "topics"))
	mux.HandleFunc("/caches/clear", MetricsMiddleware(s.cachesHandler.HandleClearCaches, "caches_clear"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// parseLimit validates an optional limit query parameter. An empty value
// returns 0, which handlers pass through so the service applies its default.
func parseLimit(raw string, maxLimit int) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	if n > maxLimit {
		return 0, fmt.Errorf("limit must not exceed %d", maxLimit)
	}
	return n, nil
}
