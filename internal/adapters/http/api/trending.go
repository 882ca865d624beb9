// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/infopulse/recommender/internal/domain/model"
)

// TrendingDependencies defines the interface for trending queries.
type TrendingDependencies interface {
	Trending(ctx context.Context, limit int) ([]model.Article, error)
}

// TrendingHandler handles trending article requests.
type TrendingHandler struct {
	deps     TrendingDependencies
	maxLimit int
}

// NewTrendingHandler creates a new trending handler.
func NewTrendingHandler(deps TrendingDependencies, maxLimit int) *TrendingHandler {
	return &TrendingHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetTrending handles GET /trending?limit=N requests.
func (h *TrendingHandler) HandleGetTrending(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trending"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	articles, err := h.deps.Trending(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, articles)
}
