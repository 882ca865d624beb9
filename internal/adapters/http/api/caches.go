// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// CachesDependencies defines the interface for cache administration.
type CachesDependencies interface {
	ClearCaches(ctx context.Context)
}

// CachesHandler handles cache administration requests.
type CachesHandler struct {
	deps CachesDependencies
}

// NewCachesHandler creates a new caches handler.
func NewCachesHandler(deps CachesDependencies) *CachesHandler {
	return &CachesHandler{deps: deps}
}

type clearResponse struct {
	Status string `json:"status"`
}

// HandleClearCaches handles POST /caches/clear requests.
func (h *CachesHandler) HandleClearCaches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.deps.ClearCaches(r.Context())
	writeJSON(w, http.StatusOK, clearResponse{Status: "cleared"})
}
