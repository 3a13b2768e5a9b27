package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/middleware"
	"github.com/ndavydov/loan-service/internal/scope"
	"github.com/ndavydov/loan-service/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// envelope is the standard API response wrapper.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Code: status, Message: message, Data: data}); err != nil {
		h.log.Errorf("encode response: %v", err)
	}
}

// writeError maps the error taxonomy to HTTP statuses. Untyped errors are
// logged and surfaced as a generic internal failure; store detail never
// reaches the client.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var status int
	message := err.Error()
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindConflict:
		status = http.StatusConflict
	case apperrors.KindAuthorization:
		status = http.StatusForbidden
	case apperrors.KindExpired:
		status = http.StatusGone
	case apperrors.KindTransient:
		status = http.StatusServiceUnavailable
		message = "temporary storage failure, retry later"
	default:
		status = http.StatusInternalServerError
		message = "internal error"
		h.log.Errorf("internal error: %v", err)
	}
	h.writeJSON(w, status, message, nil)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, apperrors.Validation("invalid request body"))
		return false
	}
	return true
}

// caller extracts the authenticated identity; routes behind the auth
// middleware always have one.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (scope.Caller, bool) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, "authentication required", nil)
		return scope.Caller{}, false
	}
	return caller, true
}
