// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/infopulse/recommender/internal/domain/model"
)

// RecommendDependencies defines the interface for recommendation operations.
type RecommendDependencies interface {
	Recommend(ctx context.Context, userID string, limit int, excludeRead bool) (model.Recommendation, error)
}

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps     RecommendDependencies
	maxLimit int
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps RecommendDependencies, maxLimit int) *RecommendHandler {
	return &RecommendHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetRecommendations handles GET /recommendations/{user_id} requests.
// Optional query parameters: limit (1..max) and exclude_read (default true).
func (h *RecommendHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/recommendations/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"), h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	excludeRead := true
	if raw := r.URL.Query().Get("exclude_read"); raw != "" {
		excludeRead, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	}

	rec, err := h.deps.Recommend(r.Context(), userID, limit, excludeRead)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
