package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/service"
)

// CreateLoan handles loan origination
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var terms service.LoanTerms
	if !h.decode(w, r, &terms) {
		return
	}
	loan, err := h.svc.CreateLoan(r.Context(), caller, terms)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, "loan created", loan)
}

// ListLoans returns the loans visible to the caller
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	loans, err := h.svc.ListLoans(r.Context(), caller, r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, "ok", loans)
}

// ListSchedules returns a loan's repayment periods
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	loanID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	schedules, err := h.svc.ListSchedules(r.Context(), caller, loanID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, "ok", schedules)
}

// pathID parses an integer path variable; non-integer identifiers are
// rejected as a validation failure.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("%s must be a positive integer", name)
	}
	return id, nil
}
