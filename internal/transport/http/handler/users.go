package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Manemax937/HostelApp/internal/application/registration"
	"github.com/Manemax937/HostelApp/internal/application/verification"
	"github.com/Manemax937/HostelApp/internal/domain"
	"github.com/Manemax937/HostelApp/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// UserHandler handles the user-created trigger and code confirmation.
type UserHandler struct {
	svc    registration.Service
	issuer verification.Service
}

func NewUserHandler(svc registration.Service, issuer verification.Service) *UserHandler {
	return &UserHandler{svc: svc, issuer: issuer}
}

// RegisterEnvelope wraps a registration response.
type RegisterEnvelope struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// Register ingests a newly created user. Owner registrations additionally get
// a verification code issued; an email transport failure is reported in the
// structured result, never as an HTTP fault.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	if res.VerificationError != "" {
		writeJSON(w, http.StatusCreated, RegisterEnvelope{
			Success: false, User: res.User, Error: res.VerificationError,
		})
		return
	}
	writeJSON(w, http.StatusCreated, RegisterEnvelope{Success: true, User: res.User})
}

// ConfirmCode verifies the code an owner typed back in.
func (h *UserHandler) ConfirmCode(w http.ResponseWriter, r *http.Request) {
	var req domain.ConfirmCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.issuer.ConfirmCode(r.Context(), chi.URLParam(r, "id"), req.Code); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "account verified"})
}
