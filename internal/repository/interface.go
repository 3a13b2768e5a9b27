package repository

import (
	"context"
	"time"

	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/scope"
	"github.com/shopspring/decimal"
)

// SchedulePatch is a partial schedule update; only non-nil fields change.
type SchedulePatch struct {
	Status     *string
	DueAmount  *decimal.Decimal
	Capital    *decimal.Decimal
	Interest   *decimal.Decimal
	PaidAmount *decimal.Decimal
	PaidAt     *time.Time
}

// Empty reports whether the patch changes nothing.
func (p SchedulePatch) Empty() bool {
	return p.Status == nil && p.DueAmount == nil && p.Capital == nil &&
		p.Interest == nil && p.PaidAmount == nil && p.PaidAt == nil
}

// OverdueCandidate is a schedule currently in an overdue-family status,
// joined to its loan for ledger row construction.
type OverdueCandidate struct {
	ScheduleID int64
	LoanID     int64
	DebtorName string
	Collector  string
}

// Store captures the persistence operations consumed by the service layer.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)

	// CreateLoanWithSchedule persists a loan and all its periods in one
	// transaction: a loan is never visible without its periods.
	CreateLoanWithSchedule(ctx context.Context, loan *models.LoanAccount, periods []models.RepaymentSchedule) error
	FindLoan(ctx context.Context, f scope.LoanFilter) (*models.LoanAccount, error)
	ListLoans(ctx context.Context, f scope.LoanFilter) ([]*models.LoanAccount, error)

	ListSchedulesByLoan(ctx context.Context, loanID int64) ([]*models.RepaymentSchedule, error)
	FindSchedulesByIDs(ctx context.Context, ids []int64) ([]*models.RepaymentSchedule, error)
	// UpdateSchedule applies the patch and recomputes the owning loan's
	// repaid counter and aggregate status in the same transaction.
	UpdateSchedule(ctx context.Context, id int64, patch SchedulePatch) (*models.RepaymentSchedule, error)

	ListOverdueCandidates(ctx context.Context) ([]OverdueCandidate, error)
	// InsertOverdueRecords bulk-inserts ledger rows with insert-or-skip
	// semantics on schedule_id and returns the rows actually inserted.
	InsertOverdueRecords(ctx context.Context, recs []models.OverdueRecord) (int64, error)
	OverdueBoard(ctx context.Context, f scope.LoanFilter, asOf time.Time) (*models.OverdueBoard, error)

	CreateShareLink(ctx context.Context, link *models.ShareLink) error
	FindShareLinkByToken(ctx context.Context, token string) (*models.ShareLink, error)

	CreatePayee(ctx context.Context, payee *models.Payee) error
	ListPayees(ctx context.Context, f scope.PayeeFilter) ([]*models.Payee, error)
	FindPayeeByName(ctx context.Context, name string) (*models.Payee, error)

	// SettlementSeries buckets paid amounts of settled periods by
	// granularity from the given instant forward. Empty buckets are omitted.
	SettlementSeries(ctx context.Context, f scope.LoanFilter, g models.Granularity, from time.Time) ([]models.StatsPoint, error)
	// SettlementTotal sums paid amounts of settled periods since from;
	// the zero time means all time. Absent rows sum to zero.
	SettlementTotal(ctx context.Context, f scope.LoanFilter, from time.Time) (decimal.Decimal, error)
	HandlingFeeTotal(ctx context.Context, f scope.LoanFilter) (decimal.Decimal, error)
}
