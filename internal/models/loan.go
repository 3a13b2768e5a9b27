package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan statuses
const (
	LoanStatusCollecting = "collecting"
	LoanStatusSettled    = "settled"
	LoanStatusWrittenOff = "written_off"
)

// LoanAccount represents one loan disbursement together with its role
// assignments. Loans are financial records and are never hard-deleted.
type LoanAccount struct {
	ID              int64           `json:"id"`
	DebtorName      string          `json:"debtor_name"`
	DebtorPhone     string          `json:"debtor_phone"`
	Principal       decimal.Decimal `json:"principal"`
	PerPeriodAmount decimal.Decimal `json:"per_period_amount"`
	Capital         decimal.Decimal `json:"capital"`  // per-period capital portion
	Interest        decimal.Decimal `json:"interest"` // per-period interest portion
	TotalPeriods    int             `json:"total_periods"`
	RepaidPeriods   int             `json:"repaid_periods"`
	DueStartDate    time.Time       `json:"due_start_date"`
	DueEndDate      time.Time       `json:"due_end_date"` // due_start_date + total_periods days
	Status          string          `json:"status"`
	Collector       string          `json:"collector"`
	Payee           string          `json:"payee"`
	RiskController  string          `json:"risk_controller"`
	Lender          string          `json:"lender"`
	HandlingFee     decimal.Decimal `json:"handling_fee"`
	CreatedBy       int64           `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
