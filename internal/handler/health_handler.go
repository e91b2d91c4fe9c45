package handlers

import (
	"log/slog"
	"net/http"
)

type HealthResponse struct {
	Status string `json:"status"`
	Users  int    `json:"users"`
	Posts  int    `json:"posts"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.HealthService.Check(r.Context())
	if err != nil {
		slog.Error("health check failed", slog.String("error", err.Error()))
		WriteError(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, HealthResponse{Status: "ok", Users: stats.Users, Posts: stats.Posts}, http.StatusOK)
}
