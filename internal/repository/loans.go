package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/scope"
)

const loanColumns = `l.id, l.debtor_name, l.debtor_phone, l.principal, l.per_period_amount,
	l.capital, l.interest, l.total_periods, l.repaid_periods, l.due_start_date,
	l.due_end_date, l.status, l.collector, l.payee, l.risk_controller, l.lender,
	l.handling_fee, l.created_by, l.created_at, l.updated_at`

func scanLoan(row interface{ Scan(...any) error }) (*models.LoanAccount, error) {
	loan := &models.LoanAccount{}
	err := row.Scan(&loan.ID, &loan.DebtorName, &loan.DebtorPhone, &loan.Principal,
		&loan.PerPeriodAmount, &loan.Capital, &loan.Interest, &loan.TotalPeriods,
		&loan.RepaidPeriods, &loan.DueStartDate, &loan.DueEndDate, &loan.Status,
		&loan.Collector, &loan.Payee, &loan.RiskController, &loan.Lender,
		&loan.HandlingFee, &loan.CreatedBy, &loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// CreateLoanWithSchedule persists the loan row and all of its periods in a
// single transaction. A failure at any point rolls back the whole batch, so
// a partially-created loan is never observable.
func (r *Repository) CreateLoanWithSchedule(ctx context.Context, loan *models.LoanAccount, periods []models.RepaymentSchedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin loan transaction", err)
	}
	defer tx.Rollback()

	loanQuery := `
		INSERT INTO loans (debtor_name, debtor_phone, principal, per_period_amount,
			capital, interest, total_periods, due_start_date, due_end_date, status,
			collector, payee, risk_controller, lender, handling_fee, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, repaid_periods, created_at, updated_at`
	err = tx.QueryRowContext(ctx, loanQuery,
		loan.DebtorName, loan.DebtorPhone, loan.Principal, loan.PerPeriodAmount,
		loan.Capital, loan.Interest, loan.TotalPeriods, loan.DueStartDate,
		loan.DueEndDate, loan.Status, loan.Collector, loan.Payee,
		loan.RiskController, loan.Lender, loan.HandlingFee, loan.CreatedBy).
		Scan(&loan.ID, &loan.RepaidPeriods, &loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		return storeErr("create loan", err)
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO schedules (loan_id, period_no, due_start, due_end,
		due_amount, capital, interest, status, paid_amount) VALUES `)
	args := make([]any, 0, len(periods)*9)
	for i, p := range periods {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 9
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9)
		args = append(args, loan.ID, p.PeriodNo, p.DueStart, p.DueEnd,
			p.DueAmount, p.Capital, p.Interest, p.Status, p.PaidAmount)
	}
	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return storeErr("create schedules", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit loan transaction", err)
	}
	return nil
}

// FindLoan returns the single loan matching the filter. The filter carries
// the caller's visibility, so an invisible loan surfaces as not found.
func (r *Repository) FindLoan(ctx context.Context, f scope.LoanFilter) (*models.LoanAccount, error) {
	where, args := loanWhere(f, 1)
	query := `SELECT ` + loanColumns + ` FROM loans l WHERE TRUE` + where + ` LIMIT 1`
	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("loan not found")
	}
	if err != nil {
		return nil, storeErr("find loan", err)
	}
	return loan, nil
}

// ListLoans returns loans matching the filter, newest first.
func (r *Repository) ListLoans(ctx context.Context, f scope.LoanFilter) ([]*models.LoanAccount, error) {
	where, args := loanWhere(f, 1)
	query := `SELECT ` + loanColumns + ` FROM loans l WHERE TRUE` + where + ` ORDER BY l.id DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list loans", err)
	}
	defer rows.Close()

	var loans []*models.LoanAccount
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, storeErr("scan loan", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list loans", err)
	}
	return loans, nil
}
