package httpx

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// HealthHandlers serves the liveness endpoint.
type HealthHandlers struct {
	db *sql.DB
}

// NewHealthHandlers creates HealthHandlers. The database handle is optional;
// without one the endpoint only reports process liveness.
func NewHealthHandlers(db *sql.DB) *HealthHandlers {
	return &HealthHandlers{db: db}
}

// Health handles GET /healthz.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
