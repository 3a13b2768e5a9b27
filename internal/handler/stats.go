package handler

import (
	"net/http"

	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/models"
)

// GetCollectorStats serves collection rollups for a collector identity
func (h *Handler) GetCollectorStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	g, ok2 := models.ParseGranularity(r.URL.Query().Get("granularity"))
	if !ok2 {
		h.writeError(w, apperrors.Validation("granularity must be day, month or year"))
		return
	}
	stats, err := h.svc.CollectorStats(r.Context(), caller, r.URL.Query().Get("identity"), g)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, "ok", stats)
}

// GetPayeeStats serves settlement rollups for a payee identity
func (h *Handler) GetPayeeStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	g, ok2 := models.ParseGranularity(r.URL.Query().Get("granularity"))
	if !ok2 {
		h.writeError(w, apperrors.Validation("granularity must be day, month or year"))
		return
	}
	stats, err := h.svc.PayeeStats(r.Context(), caller, r.URL.Query().Get("identity"), g)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, "ok", stats)
}
