package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

type createShareRequest struct {
	ScheduleIDs []int64 `json:"schedule_ids"`
}

// CreateShareLink freezes a balance snapshot behind an expiring token
func (h *Handler) CreateShareLink(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req createShareRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.svc.CreateShareLink(r.Context(), caller, req.ScheduleIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, "share link created", result)
}

// GetShareLink serves a live share snapshot. The token is the only
// credential; the route is public.
func (h *Handler) GetShareLink(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetShareLink(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, "ok", view)
}
