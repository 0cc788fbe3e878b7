package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hospitalms/hospital-api/internal/cache"
	"github.com/hospitalms/hospital-api/internal/database"
)

// HealthHandler reports whether the patient database and the dashboard
// cache are reachable.
type HealthHandler struct {
	cache cache.Cache
}

func NewHealthHandler(c cache.Cache) *HealthHandler {
	return &HealthHandler{cache: c}
}

type healthResponse struct {
	Status     string            `json:"status"`
	Service    string            `json:"service"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// Health reports per-component status. Degraded responses carry a 503 so
// load balancers stop routing to this replica.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response := healthResponse{
		Status:     "healthy",
		Service:    "hospital-api",
		Timestamp:  time.Now(),
		Components: make(map[string]string),
	}

	if err := pingDatabase(ctx); err != nil {
		response.Components["database"] = "unreachable"
		response.Status = "degraded"
	} else {
		response.Components["database"] = "healthy"
	}

	if _, err := h.cache.Exists(ctx, cache.CacheKey("health")); err != nil {
		response.Components["cache"] = "unreachable"
		response.Status = "degraded"
	} else {
		response.Components["cache"] = "healthy"
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// Ready gates traffic on the database only: without it no patient record
// can be served, while a cold cache just recomputes.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := pingDatabase(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func pingDatabase(ctx context.Context) error {
	sqlDB, err := database.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
