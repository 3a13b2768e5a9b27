package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Schedule statuses
const (
	ScheduleStatusPending  = "pending"
	ScheduleStatusActive   = "active"
	ScheduleStatusPaid     = "paid"
	ScheduleStatusOverdue  = "overdue"
	ScheduleStatusOvertime = "overtime"
)

// KnownScheduleStatus reports whether s is a member of the schedule status set.
func KnownScheduleStatus(s string) bool {
	switch s {
	case ScheduleStatusPending, ScheduleStatusActive, ScheduleStatusPaid,
		ScheduleStatusOverdue, ScheduleStatusOvertime:
		return true
	}
	return false
}

// RepaymentSchedule represents one day's repayment obligation within a loan.
// Due windows of a loan's periods abut: [DueStart, DueEnd) is exactly 24h wide
// and period i+1 starts where period i ends.
type RepaymentSchedule struct {
	ID         int64           `json:"id"`
	LoanID     int64           `json:"loan_id"`
	PeriodNo   int             `json:"period_no"` // 1-based
	DueStart   time.Time       `json:"due_start"`
	DueEnd     time.Time       `json:"due_end"` // exclusive
	DueAmount  decimal.Decimal `json:"due_amount"`
	Capital    decimal.Decimal `json:"capital"`
	Interest   decimal.Decimal `json:"interest"`
	Status     string          `json:"status"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
