package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const serviceName = "education-backend"

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type SystemHandler struct {
	db Pinger
}

func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{db: db}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	response := map[string]interface{}{
		"status":    "ok",
		"service":   serviceName,
		"database":  "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if err := h.db.PingContext(ctx); err != nil {
		logrus.WithError(err).Error("Health check: database unavailable")
		status = http.StatusServiceUnavailable
		response["status"] = "degraded"
		response["database"] = "unavailable"
	}

	writeJSON(w, status, response)
}

// Index lists the resource endpoints.
func (h *SystemHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": serviceName,
		"endpoints": []string{
			"POST /groups",
			"GET /groups",
			"GET /groups/{id}",
			"PUT /groups/{id}",
			"DELETE /groups/{id}",
			"POST /students",
			"GET /students?query=",
			"GET /students/{id}",
			"PUT /students/{id}",
			"DELETE /students/{id}",
		},
	})
}
