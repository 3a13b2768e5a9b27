package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShareSummary is the frozen balance snapshot embedded in a share link.
// It is computed once at creation and never recomputed, even if the
// underlying schedules change afterwards.
type ShareSummary struct {
	DebtorName    string          `json:"debtor_name"`
	PayeeName     string          `json:"payee_name"`
	QRCodeURL     string          `json:"qr_code_url,omitempty"`
	PeriodCount   int             `json:"period_count"`
	TotalDue      decimal.Decimal `json:"total_due"`
	TotalCapital  decimal.Decimal `json:"total_capital"`
	TotalInterest decimal.Decimal `json:"total_interest"`
}

// ShareLink is an expiring, token-addressed snapshot of selected periods.
// Possession of the token is the only access control.
type ShareLink struct {
	ID          int64        `json:"id"`
	Token       string       `json:"token"`
	LoanID      int64        `json:"loan_id"`
	ScheduleIDs []int64      `json:"schedule_ids"`
	Summary     ShareSummary `json:"summary"`
	ExpiresAt   time.Time    `json:"expires_at"`
	CreatedBy   int64        `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
}
