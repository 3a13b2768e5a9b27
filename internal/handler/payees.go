package handler

import "net/http"

type createPayeeRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	QRCodeURL string `json:"qr_code_url"`
}

// CreatePayee registers a funds recipient
func (h *Handler) CreatePayee(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req createPayeeRequest
	if !h.decode(w, r, &req) {
		return
	}
	payee, err := h.svc.CreatePayee(r.Context(), caller, req.Name, req.Phone, req.QRCodeURL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, "payee created", payee)
}

// ListPayees returns payees visible to the caller
func (h *Handler) ListPayees(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	payees, err := h.svc.ListPayees(r.Context(), caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, "ok", payees)
}
