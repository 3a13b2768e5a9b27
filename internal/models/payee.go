package models

import "time"

// Payee is a named funds recipient. The QR-code image itself lives in
// external blob storage; only its URL is kept here.
type Payee struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	QRCodeURL string    `json:"qr_code_url"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
