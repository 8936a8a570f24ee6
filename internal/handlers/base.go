package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"authapi/internal/cache"
)

const pingTimeout = 2 * time.Second

// BaseHandler serves the unauthenticated service endpoints.
type BaseHandler struct {
	DB    *sql.DB
	Cache cache.Cache
}

func NewBaseHandler(db *sql.DB, c cache.Cache) *BaseHandler {
	return &BaseHandler{
		DB:    db,
		Cache: c,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status string           `json:"status"`
	DB     dependencyStatus `json:"db"`
	Cache  dependencyStatus `json:"cache"`
}

func (h *BaseHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSONMessage(w, http.StatusOK, "accounts api")
}

// @Tags Health
// @Summary Dependency health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func (h *BaseHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	resp := healthResponse{
		Status: "ok",
		DB:     ping(ctx, h.DB.PingContext),
		Cache:  ping(ctx, h.Cache.Ping),
	}

	status := http.StatusOK
	if resp.DB.Status != "ok" || resp.Cache.Status != "ok" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func ping(ctx context.Context, fn func(context.Context) error) dependencyStatus {
	if err := fn(ctx); err != nil {
		return dependencyStatus{Status: "down", Error: err.Error()}
	}
	return dependencyStatus{Status: "ok"}
}
