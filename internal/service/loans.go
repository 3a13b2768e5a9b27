package service

import (
	"context"

	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/scope"
	"github.com/sirupsen/logrus"
)

// CreateLoan originates a loan: it validates the terms, generates the full
// period sequence and persists both in one transaction. A crash mid-sequence
// leaves nothing behind; the loan and its periods appear together or not at
// all.
func (s *Service) CreateLoan(ctx context.Context, caller scope.Caller, terms LoanTerms) (*models.LoanAccount, error) {
	if err := terms.validate(); err != nil {
		return nil, err
	}

	start := dayBucket(terms.DueStartDate)
	loan := &models.LoanAccount{
		DebtorName:      terms.DebtorName,
		DebtorPhone:     terms.DebtorPhone,
		Principal:       terms.Principal,
		PerPeriodAmount: terms.PerPeriodAmount,
		Capital:         terms.Capital,
		Interest:        terms.Interest,
		TotalPeriods:    terms.TotalPeriods,
		DueStartDate:    start,
		DueEndDate:      start.AddDate(0, 0, terms.TotalPeriods),
		Status:          models.LoanStatusCollecting,
		Collector:       terms.Collector,
		Payee:           terms.Payee,
		RiskController:  terms.RiskController,
		Lender:          terms.Lender,
		HandlingFee:     terms.HandlingFee,
		CreatedBy:       caller.ID,
	}

	periods := GenerateSchedule(terms)
	if err := s.repo.CreateLoanWithSchedule(ctx, loan, periods); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id": loan.ID,
		"debtor":  loan.DebtorName,
		"periods": loan.TotalPeriods,
	}).Info("Loan created")
	return loan, nil
}

// GetLoan returns one loan within the caller's visibility.
func (s *Service) GetLoan(ctx context.Context, caller scope.Caller, loanID int64) (*models.LoanAccount, error) {
	return s.repo.FindLoan(ctx, scope.ForLoans(caller, scope.LoanFilter{LoanID: loanID}))
}

// ListLoans returns the loans visible to the caller, optionally narrowed by
// aggregate status.
func (s *Service) ListLoans(ctx context.Context, caller scope.Caller, status string) ([]*models.LoanAccount, error) {
	return s.repo.ListLoans(ctx, scope.ForLoans(caller, scope.LoanFilter{Status: status}))
}
