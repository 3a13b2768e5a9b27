package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/models"
)

const scheduleColumns = `s.id, s.loan_id, s.period_no, s.due_start, s.due_end,
	s.due_amount, s.capital, s.interest, s.status, s.paid_amount, s.paid_at,
	s.created_at, s.updated_at`

func scanSchedule(row interface{ Scan(...any) error }) (*models.RepaymentSchedule, error) {
	sched := &models.RepaymentSchedule{}
	err := row.Scan(&sched.ID, &sched.LoanID, &sched.PeriodNo, &sched.DueStart,
		&sched.DueEnd, &sched.DueAmount, &sched.Capital, &sched.Interest,
		&sched.Status, &sched.PaidAmount, &sched.PaidAt, &sched.CreatedAt,
		&sched.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return sched, nil
}

// ListSchedulesByLoan returns a loan's periods in period order.
func (r *Repository) ListSchedulesByLoan(ctx context.Context, loanID int64) ([]*models.RepaymentSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules s WHERE s.loan_id = $1 ORDER BY s.period_no`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, storeErr("list schedules", err)
	}
	defer rows.Close()
	return collectSchedules(rows)
}

// FindSchedulesByIDs returns the schedules for the given ids, in id order.
// Missing ids are simply absent from the result; the caller decides whether
// that is an error.
func (r *Repository) FindSchedulesByIDs(ctx context.Context, ids []int64) ([]*models.RepaymentSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules s WHERE s.id = ANY($1) ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, storeErr("find schedules", err)
	}
	defer rows.Close()
	return collectSchedules(rows)
}

func collectSchedules(rows *sql.Rows) ([]*models.RepaymentSchedule, error) {
	var out []*models.RepaymentSchedule
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, storeErr("scan schedule", err)
		}
		out = append(out, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("read schedules", err)
	}
	return out, nil
}

// UpdateSchedule applies a partial update to one schedule and recomputes the
// owning loan's repaid counter and aggregate status in the same transaction.
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, patch SchedulePatch) (*models.RepaymentSchedule, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin schedule update", err)
	}
	defer tx.Rollback()

	sets := []string{"updated_at = NOW()"}
	args := []any{}
	next := 1
	set := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, next))
		args = append(args, v)
		next++
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.DueAmount != nil {
		set("due_amount", *patch.DueAmount)
	}
	if patch.Capital != nil {
		set("capital", *patch.Capital)
	}
	if patch.Interest != nil {
		set("interest", *patch.Interest)
	}
	if patch.PaidAmount != nil {
		set("paid_amount", *patch.PaidAmount)
	}
	if patch.PaidAt != nil {
		set("paid_at", *patch.PaidAt)
	}

	query := fmt.Sprintf(`UPDATE schedules s SET %s WHERE s.id = $%d RETURNING `+scheduleColumns,
		strings.Join(sets, ", "), next)
	args = append(args, id)

	sched, err := scanSchedule(tx.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("schedule %d not found", id)
	}
	if err != nil {
		return nil, storeErr("update schedule", err)
	}

	loanQuery := `
		UPDATE loans SET
			repaid_periods = sub.paid_count,
			status = CASE WHEN sub.paid_count >= total_periods THEN 'settled' ELSE status END,
			updated_at = NOW()
		FROM (
			SELECT COUNT(*) AS paid_count FROM schedules WHERE loan_id = $1 AND status = 'paid'
		) sub
		WHERE id = $1`
	if _, err := tx.ExecContext(ctx, loanQuery, sched.LoanID); err != nil {
		return nil, storeErr("refresh loan progress", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("commit schedule update", err)
	}
	return sched, nil
}
