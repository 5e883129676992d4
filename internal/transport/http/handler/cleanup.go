package handler

import (
	"net/http"

	"github.com/Manemax937/HostelApp/internal/application/retention"
)

// CleanupHandler exposes the retention sweep for manual operation.
type CleanupHandler struct {
	svc retention.Service
}

func NewCleanupHandler(svc retention.Service) *CleanupHandler {
	return &CleanupHandler{svc: svc}
}

func (h *CleanupHandler) Run(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.Sweep(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, CleanupEnvelope{Deleted: deleted, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, CleanupEnvelope{Deleted: deleted})
}
