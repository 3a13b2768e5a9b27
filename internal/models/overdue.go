package models

import "time"

// OverdueRecord is one append-only overdue ledger entry. A schedule is
// recorded once ever: uniqueness is enforced on ScheduleID, not on
// schedule+date, so re-scans of an unchanged schedule set insert nothing.
type OverdueRecord struct {
	ID          int64     `json:"id"`
	ScheduleID  int64     `json:"schedule_id"`
	LoanID      int64     `json:"loan_id"`
	DebtorName  string    `json:"debtor_name"`
	Collector   string    `json:"collector"`
	OverdueDate time.Time `json:"overdue_date"` // scan day-bucket
	CreatedAt   time.Time `json:"created_at"`
}

// OverdueCustomer summarizes one loan's overdue exposure for the dashboard.
type OverdueCustomer struct {
	LoanID       int64     `json:"loan_id"`
	DebtorName   string    `json:"debtor_name"`
	DebtorPhone  string    `json:"debtor_phone"`
	Collector    string    `json:"collector"`
	OverdueCount int       `json:"overdue_count"`
	FirstOverdue time.Time `json:"first_overdue"`
}

// OverdueBoard is the collector-facing overdue dashboard.
type OverdueBoard struct {
	Customers  []OverdueCustomer `json:"customers"`
	TodayCount int               `json:"today_count"`
	MonthCount int               `json:"month_count"`
	YearCount  int               `json:"year_count"`
}
