package service

import (
	"context"
	"testing"
	"time"

	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeScan(t *testing.T) {
	store := newMockStore()
	svc, _ := testService(store, time.Now())

	collector := scope.Caller{ID: 2, Username: "alice", Role: models.RoleCollector}

	assert.NoError(t, svc.AuthorizeScan("scan-secret", nil))
	assert.NoError(t, svc.AuthorizeScan("", &adminCaller))
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(svc.AuthorizeScan("", &collector)))
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(svc.AuthorizeScan("wrong", nil)))
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(svc.AuthorizeScan("", nil)))
}

func TestOverdueScanIdempotent(t *testing.T) {
	store := newMockStore()
	now := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)
	svc, _ := testService(store, now)

	// Loan with 3 periods: one settled, two overdue.
	_, scheds := seedLoan(t, svc, store, testTerms(3, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)))
	setStatus(t, svc, scheds[0].ID, models.ScheduleStatusPaid)
	setStatus(t, svc, scheds[1].ID, models.ScheduleStatusOverdue)
	setStatus(t, svc, scheds[2].ID, models.ScheduleStatusOverdue)

	inserted, err := svc.RunOverdueScan(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)
	assert.Len(t, store.overdue, 2)

	// An immediate re-run reports its marginal effect: zero.
	inserted, err = svc.RunOverdueScan(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)
	assert.Len(t, store.overdue, 2, "ledger must hold exactly K rows, never 2K")
}

func TestOverdueScanDayBucket(t *testing.T) {
	store := newMockStore()
	now := time.Date(2025, 10, 5, 23, 45, 0, 0, time.UTC)
	svc, _ := testService(store, now)

	_, scheds := seedLoan(t, svc, store, testTerms(1, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)))
	setStatus(t, svc, scheds[0].ID, models.ScheduleStatusOvertime)

	_, err := svc.RunOverdueScan(context.Background(), now)
	require.NoError(t, err)

	rec := store.overdue[scheds[0].ID]
	want := time.Date(2025, 10, 5, DayBoundaryHour, 0, 0, 0, time.UTC)
	assert.True(t, rec.OverdueDate.Equal(want), "overdue_date is the scan day at the boundary hour")
	assert.Equal(t, "alice", rec.Collector)
	assert.Equal(t, "Zhang Wei", rec.DebtorName)
}

func TestOverdueScanNoCandidates(t *testing.T) {
	store := newMockStore()
	svc, _ := testService(store, time.Now())

	inserted, err := svc.RunOverdueScan(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)
}

func TestListOverdueForCollectorScoped(t *testing.T) {
	store := newMockStore()
	now := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)
	svc, _ := testService(store, now)

	// Two loans with different collectors, both overdue.
	_, scheds1 := seedLoan(t, svc, store, testTerms(1, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)))
	terms2 := testTerms(1, time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC))
	terms2.Collector = "erin"
	terms2.Payee = "erin"
	terms2.DebtorName = "Li Na"
	_, scheds2 := seedLoan(t, svc, store, terms2)

	setStatus(t, svc, scheds1[0].ID, models.ScheduleStatusOverdue)
	setStatus(t, svc, scheds2[0].ID, models.ScheduleStatusOverdue)

	_, err := svc.RunOverdueScan(context.Background(), now)
	require.NoError(t, err)

	// Collector alice only sees her own loan's records.
	alice := scope.Caller{ID: 5, Username: "alice", Role: models.RoleCollector}
	board, err := svc.ListOverdueForCollector(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, board.Customers, 1)
	assert.Equal(t, "Zhang Wei", board.Customers[0].DebtorName)
	assert.Equal(t, 1, board.TodayCount)
	assert.Equal(t, 1, board.MonthCount)
	assert.Equal(t, 1, board.YearCount)

	// The administrator sees both.
	board, err = svc.ListOverdueForCollector(context.Background(), adminCaller)
	require.NoError(t, err)
	assert.Len(t, board.Customers, 2)
	assert.Equal(t, 2, board.TodayCount)
}
