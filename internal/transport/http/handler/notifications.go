package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Manemax937/HostelApp/internal/application/dispatch"
	"github.com/Manemax937/HostelApp/internal/domain"
	"github.com/Manemax937/HostelApp/internal/pkg/validate"
)

// NotificationHandler handles the notification-created trigger.
type NotificationHandler struct {
	svc dispatch.Service
}

func NewNotificationHandler(svc dispatch.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// Create ingests a notification and runs the fan-out. The fan-out result is
// the response payload: a caught dispatch failure is reported as
// {success:false, error}, not as an HTTP error — only a failed store write is.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.svc.Ingest(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}

	if err := h.svc.HandleNotificationCreated(r.Context(), n); err != nil {
		writeJSON(w, http.StatusOK, ResultEnvelope{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ResultEnvelope{Success: true})
}
