package service

import (
	"context"
	"time"

	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/repository"
	"github.com/ndavydov/loan-service/internal/scope"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// LoanTerms are the origination inputs for a loan and its schedule.
type LoanTerms struct {
	DebtorName      string          `json:"debtor_name"`
	DebtorPhone     string          `json:"debtor_phone"`
	Principal       decimal.Decimal `json:"principal"`
	PerPeriodAmount decimal.Decimal `json:"per_period_amount"`
	Capital         decimal.Decimal `json:"capital"`
	Interest        decimal.Decimal `json:"interest"`
	TotalPeriods    int             `json:"total_periods"`
	DueStartDate    time.Time       `json:"due_start_date"`
	Collector       string          `json:"collector"`
	Payee           string          `json:"payee"`
	RiskController  string          `json:"risk_controller"`
	Lender          string          `json:"lender"`
	HandlingFee     decimal.Decimal `json:"handling_fee"`
}

func (t LoanTerms) validate() error {
	if t.DebtorName == "" {
		return apperrors.Validation("debtor name is required")
	}
	if t.TotalPeriods < 1 {
		return apperrors.Validation("total periods must be at least 1")
	}
	if t.PerPeriodAmount.IsNegative() {
		return apperrors.Validation("per-period amount must not be negative")
	}
	if t.DueStartDate.IsZero() {
		return apperrors.Validation("due start date is required")
	}
	return nil
}

// GenerateSchedule produces the ordered period sequence for valid loan terms.
// Period i (0-indexed) spans [start + i days, start + i+1 days) at the
// canonical day boundary, so the windows abut and together cover exactly
// [due_start, due_start + total_periods days). The capital/interest split is
// copied verbatim from the terms onto every period. Pure function: the
// caller persists the result transactionally with the loan.
func GenerateSchedule(terms LoanTerms) []models.RepaymentSchedule {
	start := dayBucket(terms.DueStartDate)
	out := make([]models.RepaymentSchedule, 0, terms.TotalPeriods)
	for i := 0; i < terms.TotalPeriods; i++ {
		dueStart := start.AddDate(0, 0, i)
		out = append(out, models.RepaymentSchedule{
			PeriodNo:   i + 1,
			DueStart:   dueStart,
			DueEnd:     dueStart.AddDate(0, 0, 1),
			DueAmount:  terms.PerPeriodAmount,
			Capital:    terms.Capital,
			Interest:   terms.Interest,
			Status:     models.ScheduleStatusPending,
			PaidAmount: decimal.Zero,
		})
	}
	return out
}

// ListSchedules returns a loan's periods, provided the loan is visible to
// the caller. Visibility is resolved inside the store query.
func (s *Service) ListSchedules(ctx context.Context, caller scope.Caller, loanID int64) ([]*models.RepaymentSchedule, error) {
	f := scope.ForLoans(caller, scope.LoanFilter{LoanID: loanID})
	loan, err := s.repo.FindLoan(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSchedulesByLoan(ctx, loan.ID)
}

// UpdateSchedule applies a manual partial correction to one period. Only
// supplied fields change. A paid period is final and its status cannot be
// corrected away.
func (s *Service) UpdateSchedule(ctx context.Context, caller scope.Caller, id int64, patch repository.SchedulePatch) (*models.RepaymentSchedule, error) {
	if patch.Empty() {
		return nil, apperrors.Validation("no fields to update")
	}
	if patch.Status != nil && !models.KnownScheduleStatus(*patch.Status) {
		return nil, apperrors.Validation("unknown schedule status %q", *patch.Status)
	}
	if patch.DueAmount != nil && patch.DueAmount.IsNegative() {
		return nil, apperrors.Validation("due amount must not be negative")
	}
	if patch.PaidAmount != nil && patch.PaidAmount.IsNegative() {
		return nil, apperrors.Validation("paid amount must not be negative")
	}

	scheds, err := s.repo.FindSchedulesByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(scheds) == 0 {
		return nil, apperrors.NotFound("schedule %d not found", id)
	}
	current := scheds[0]

	// The loan lookup doubles as the authorization check.
	if _, err := s.repo.FindLoan(ctx, scope.ForLoans(caller, scope.LoanFilter{LoanID: current.LoanID})); err != nil {
		return nil, err
	}

	if current.Status == models.ScheduleStatusPaid &&
		patch.Status != nil && *patch.Status != models.ScheduleStatusPaid {
		return nil, apperrors.Validation("a settled period cannot change status")
	}
	if patch.Status != nil && *patch.Status == models.ScheduleStatusPaid && patch.PaidAt == nil {
		paidAt := s.now()
		patch.PaidAt = &paidAt
	}

	updated, err := s.repo.UpdateSchedule(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"schedule_id": updated.ID,
		"loan_id":     updated.LoanID,
		"status":      updated.Status,
	}).Info("Schedule updated")
	return updated, nil
}
