// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/infopulse/recommender/internal/domain/model"
)

// TopicsDependencies defines the interface for topic queries.
type TopicsDependencies interface {
	ByTopic(ctx context.Context, topic string, limit int) ([]model.Article, error)
}

// TopicsHandler handles topic-filtered article requests.
type TopicsHandler struct {
	deps     TopicsDependencies
	maxLimit int
}

// NewTopicsHandler creates a new topics handler.
func NewTopicsHandler(deps TopicsDependencies, maxLimit int) *TopicsHandler {
	return &TopicsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetByTopic handles GET /topics/{topic}?limit=N requests.
func (h *TopicsHandler) HandleGetByTopic(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_by_topic"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	topic := strings.TrimPrefix(r.URL.Path, "/topics/")
	if topic == "" || strings.Contains(topic, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	articles, err := h.deps.ByTopic(r.Context(), topic, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, articles)
}
