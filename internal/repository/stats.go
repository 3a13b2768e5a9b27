package repository

import (
	"context"
	"time"

	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/scope"
	"github.com/shopspring/decimal"
)

func bucketFormat(g models.Granularity) string {
	switch g {
	case models.GranularityMonth:
		return "YYYY-MM"
	case models.GranularityYear:
		return "YYYY"
	default:
		return "YYYY-MM-DD"
	}
}

// SettlementSeries sums paid amounts of settled periods per bucket. Buckets
// with no settlements simply do not appear; they are never emitted as nulls.
func (r *Repository) SettlementSeries(ctx context.Context, f scope.LoanFilter, g models.Granularity, from time.Time) ([]models.StatsPoint, error) {
	where, filterArgs := loanWhere(f, 3)
	query := `
		SELECT to_char(s.paid_at, $1) AS bucket, COALESCE(SUM(s.paid_amount), 0)
		FROM schedules s
		JOIN loans l ON s.loan_id = l.id
		WHERE s.status = 'paid' AND s.paid_at >= $2` + where + `
		GROUP BY bucket
		ORDER BY bucket`
	args := append([]any{bucketFormat(g), from}, filterArgs...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("settlement series", err)
	}
	defer rows.Close()

	var series []models.StatsPoint
	for rows.Next() {
		var p models.StatsPoint
		if err := rows.Scan(&p.Label, &p.Total); err != nil {
			return nil, storeErr("scan settlement bucket", err)
		}
		series = append(series, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("settlement series", err)
	}
	return series, nil
}

// SettlementTotal sums paid amounts of settled periods since from; the zero
// time means all time. An empty result is zero, never null.
func (r *Repository) SettlementTotal(ctx context.Context, f scope.LoanFilter, from time.Time) (decimal.Decimal, error) {
	args := []any{}
	cutoff := ""
	if !from.IsZero() {
		args = append(args, from)
		cutoff = " AND s.paid_at >= $1"
	}
	where, filterArgs := loanWhere(f, len(args)+1)
	args = append(args, filterArgs...)

	query := `
		SELECT COALESCE(SUM(s.paid_amount), 0)
		FROM schedules s
		JOIN loans l ON s.loan_id = l.id
		WHERE s.status = 'paid'` + cutoff + where
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, storeErr("settlement total", err)
	}
	return total, nil
}

// HandlingFeeTotal sums handling fees over the loan records themselves,
// not over settlement rows.
func (r *Repository) HandlingFeeTotal(ctx context.Context, f scope.LoanFilter) (decimal.Decimal, error) {
	where, args := loanWhere(f, 1)
	query := `SELECT COALESCE(SUM(l.handling_fee), 0) FROM loans l WHERE TRUE` + where
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, storeErr("handling fee total", err)
	}
	return total, nil
}
