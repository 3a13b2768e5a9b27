package handler

import (
	"net/http"
	"time"

	"github.com/ndavydov/loan-service/internal/repository"
	"github.com/shopspring/decimal"
)

type updateScheduleRequest struct {
	Status     *string          `json:"status"`
	DueAmount  *decimal.Decimal `json:"due_amount"`
	Capital    *decimal.Decimal `json:"capital"`
	Interest   *decimal.Decimal `json:"interest"`
	PaidAmount *decimal.Decimal `json:"paid_amount"`
	PaidAt     *time.Time       `json:"paid_at"`
}

// UpdateSchedule applies a manual partial correction to one period
func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req updateScheduleRequest
	if !h.decode(w, r, &req) {
		return
	}
	patch := repository.SchedulePatch{
		Status:     req.Status,
		DueAmount:  req.DueAmount,
		Capital:    req.Capital,
		Interest:   req.Interest,
		PaidAmount: req.PaidAmount,
		PaidAt:     req.PaidAt,
	}
	sched, err := h.svc.UpdateSchedule(r.Context(), caller, id, patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, "schedule updated", sched)
}
