package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/scope"
)

// ListOverdueCandidates selects every schedule currently in an overdue-family
// status, joined to its loan for debtor and collector identity.
func (r *Repository) ListOverdueCandidates(ctx context.Context) ([]OverdueCandidate, error) {
	query := `
		SELECT s.id, s.loan_id, l.debtor_name, l.collector
		FROM schedules s
		JOIN loans l ON s.loan_id = l.id
		WHERE s.status IN ($1, $2)
		ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, query,
		models.ScheduleStatusOverdue, models.ScheduleStatusOvertime)
	if err != nil {
		return nil, storeErr("list overdue candidates", err)
	}
	defer rows.Close()

	var out []OverdueCandidate
	for rows.Next() {
		var c OverdueCandidate
		if err := rows.Scan(&c.ScheduleID, &c.LoanID, &c.DebtorName, &c.Collector); err != nil {
			return nil, storeErr("scan overdue candidate", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list overdue candidates", err)
	}
	return out, nil
}

// InsertOverdueRecords inserts ledger rows as one statement with
// insert-or-skip semantics: rows whose schedule was ever recorded before are
// skipped by the unique constraint. Returns the number actually inserted, so
// an idempotent re-run reports its marginal effect. The single statement is
// atomic; there is no per-row commit loop.
func (r *Repository) InsertOverdueRecords(ctx context.Context, recs []models.OverdueRecord) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO overdue_records (schedule_id, loan_id, debtor_name, collector, overdue_date) VALUES `)
	args := make([]any, 0, len(recs)*5)
	for i, rec := range recs {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)
		args = append(args, rec.ScheduleID, rec.LoanID, rec.DebtorName, rec.Collector, rec.OverdueDate)
	}
	sb.WriteString(" ON CONFLICT (schedule_id) DO NOTHING")

	res, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, storeErr("insert overdue records", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("count inserted overdue records", err)
	}
	return n, nil
}

// OverdueBoard builds the collector dashboard: per-loan debtor summaries and
// today/month/year record counts, all within the caller's visibility filter.
func (r *Repository) OverdueBoard(ctx context.Context, f scope.LoanFilter, asOf time.Time) (*models.OverdueBoard, error) {
	where, args := loanWhere(f, 1)

	customersQuery := `
		SELECT o.loan_id, l.debtor_name, l.debtor_phone, l.collector,
			COUNT(*), MIN(o.overdue_date)
		FROM overdue_records o
		JOIN loans l ON o.loan_id = l.id
		WHERE TRUE` + where + `
		GROUP BY o.loan_id, l.debtor_name, l.debtor_phone, l.collector
		ORDER BY o.loan_id`
	rows, err := r.db.QueryContext(ctx, customersQuery, args...)
	if err != nil {
		return nil, storeErr("list overdue customers", err)
	}
	defer rows.Close()

	board := &models.OverdueBoard{}
	for rows.Next() {
		var c models.OverdueCustomer
		if err := rows.Scan(&c.LoanID, &c.DebtorName, &c.DebtorPhone, &c.Collector,
			&c.OverdueCount, &c.FirstOverdue); err != nil {
			return nil, storeErr("scan overdue customer", err)
		}
		board.Customers = append(board.Customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list overdue customers", err)
	}

	dayStart := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	yearStart := time.Date(asOf.Year(), 1, 1, 0, 0, 0, 0, asOf.Location())

	where2, args2 := loanWhere(f, 4)
	countsQuery := `
		SELECT
			COUNT(*) FILTER (WHERE o.overdue_date >= $1),
			COUNT(*) FILTER (WHERE o.overdue_date >= $2),
			COUNT(*) FILTER (WHERE o.overdue_date >= $3)
		FROM overdue_records o
		JOIN loans l ON o.loan_id = l.id
		WHERE TRUE` + where2
	countArgs := append([]any{dayStart, monthStart, yearStart}, args2...)
	err = r.db.QueryRowContext(ctx, countsQuery, countArgs...).
		Scan(&board.TodayCount, &board.MonthCount, &board.YearCount)
	if err != nil {
		return nil, storeErr("count overdue records", err)
	}
	return board, nil
}
