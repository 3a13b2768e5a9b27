package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/ndavydov/loan-service/internal/config"
	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/repository"
	"github.com/ndavydov/loan-service/internal/scope"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var adminCaller = scope.Caller{ID: 1, Username: "root", Role: models.RoleAdmin}

// testService builds a service over the given store with a settable clock.
// Mutating the returned *time.Time moves the service's notion of now.
func testService(store *mockStore, at time.Time) (*Service, *time.Time) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{
		JWTSecret:    "secret",
		ScanSecret:   "scan-secret",
		ShareLinkTTL: 3 * time.Hour,
		ShareBaseURL: "http://localhost:8080",
	}
	clock := at
	svc := NewService(store, logger, cfg).WithClock(func() time.Time { return clock })
	return svc, &clock
}

func testTerms(periods int, start time.Time) LoanTerms {
	return LoanTerms{
		DebtorName:      "Zhang Wei",
		DebtorPhone:     "13800000001",
		Principal:       decimal.NewFromInt(30000),
		PerPeriodAmount: decimal.NewFromInt(1100),
		Capital:         decimal.NewFromInt(1000),
		Interest:        decimal.NewFromInt(100),
		TotalPeriods:    periods,
		DueStartDate:    start,
		Collector:       "alice",
		Payee:           "bob",
		RiskController:  "carol",
		Lender:          "dave",
		HandlingFee:     decimal.NewFromInt(500),
	}
}

// seedLoan originates a loan and returns it with its periods in order.
func seedLoan(t *testing.T, svc *Service, store *mockStore, terms LoanTerms) (*models.LoanAccount, []*models.RepaymentSchedule) {
	t.Helper()
	loan, err := svc.CreateLoan(context.Background(), adminCaller, terms)
	require.NoError(t, err)
	scheds, err := store.ListSchedulesByLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	require.Len(t, scheds, terms.TotalPeriods)
	return loan, scheds
}

func patchStatus(status string) repository.SchedulePatch {
	return repository.SchedulePatch{Status: &status}
}

func patchPaid(amount decimal.Decimal) repository.SchedulePatch {
	status := models.ScheduleStatusPaid
	return repository.SchedulePatch{Status: &status, PaidAmount: &amount}
}

func setStatus(t *testing.T, svc *Service, id int64, status string) {
	t.Helper()
	_, err := svc.UpdateSchedule(context.Background(), adminCaller, id, patchStatus(status))
	require.NoError(t, err)
}
