package handler

import (
	"net/http"
	"time"

	"github.com/ndavydov/loan-service/internal/middleware"
	"github.com/ndavydov/loan-service/internal/scope"
)

// RunOverdueScan triggers the overdue ledger scan. The route is public so
// cron callers can present the scan secret without a session; authenticated
// administrators may trigger it without the secret. Authorization is checked
// before any store access.
func (h *Handler) RunOverdueScan(w http.ResponseWriter, r *http.Request) {
	var caller *scope.Caller
	if c, ok := middleware.CallerFromContext(r.Context()); ok {
		caller = &c
	}
	if err := h.svc.AuthorizeScan(r.Header.Get("X-Scan-Secret"), caller); err != nil {
		h.writeError(w, err)
		return
	}
	inserted, err := h.svc.RunOverdueScan(r.Context(), time.Now())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, "scan completed", map[string]int64{"inserted_count": inserted})
}

// ListOverdueForCollector serves the overdue dashboard
func (h *Handler) ListOverdueForCollector(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	board, err := h.svc.ListOverdueForCollector(r.Context(), caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, "ok", board)
}
