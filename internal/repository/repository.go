package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/scope"
)

// Ensure Repository satisfies the Store interface at compile time.
var _ Store = (*Repository)(nil)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository and applies migrations
func NewRepository(ctx context.Context, db *sql.DB) (*Repository, error) {
	r := &Repository{db: db}
	if err := r.migrate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'clerk',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS loans (
			id BIGSERIAL PRIMARY KEY,
			debtor_name TEXT NOT NULL,
			debtor_phone TEXT NOT NULL DEFAULT '',
			principal NUMERIC(18,2) NOT NULL,
			per_period_amount NUMERIC(18,2) NOT NULL,
			capital NUMERIC(18,2) NOT NULL DEFAULT 0,
			interest NUMERIC(18,2) NOT NULL DEFAULT 0,
			total_periods INT NOT NULL,
			repaid_periods INT NOT NULL DEFAULT 0,
			due_start_date TIMESTAMPTZ NOT NULL,
			due_end_date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'collecting',
			collector TEXT NOT NULL DEFAULT '',
			payee TEXT NOT NULL DEFAULT '',
			risk_controller TEXT NOT NULL DEFAULT '',
			lender TEXT NOT NULL DEFAULT '',
			handling_fee NUMERIC(18,2) NOT NULL DEFAULT 0,
			created_by BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT loans_repaid_le_total CHECK (repaid_periods <= total_periods)
		);`,
		`CREATE TABLE IF NOT EXISTS schedules (
			id BIGSERIAL PRIMARY KEY,
			loan_id BIGINT NOT NULL REFERENCES loans(id),
			period_no INT NOT NULL,
			due_start TIMESTAMPTZ NOT NULL,
			due_end TIMESTAMPTZ NOT NULL,
			due_amount NUMERIC(18,2) NOT NULL,
			capital NUMERIC(18,2) NOT NULL DEFAULT 0,
			interest NUMERIC(18,2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			paid_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
			paid_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (loan_id, period_no)
		);`,
		`CREATE INDEX IF NOT EXISTS schedules_status_idx ON schedules (status);`,
		`CREATE TABLE IF NOT EXISTS overdue_records (
			id BIGSERIAL PRIMARY KEY,
			schedule_id BIGINT NOT NULL UNIQUE REFERENCES schedules(id),
			loan_id BIGINT NOT NULL REFERENCES loans(id),
			debtor_name TEXT NOT NULL,
			collector TEXT NOT NULL DEFAULT '',
			overdue_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS overdue_collector_date_idx ON overdue_records (collector, overdue_date);`,
		`CREATE TABLE IF NOT EXISTS share_links (
			id BIGSERIAL PRIMARY KEY,
			token TEXT UNIQUE NOT NULL,
			loan_id BIGINT NOT NULL REFERENCES loans(id),
			schedule_ids JSONB NOT NULL,
			summary JSONB NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			created_by BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS payees (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT UNIQUE NOT NULL,
			qr_code_url TEXT NOT NULL DEFAULT '',
			created_by BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// storeErr wraps a database failure, tagging connectivity problems as
// transient so the boundary can signal retryability.
func storeErr(op string, err error) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Transient(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// loanWhere renders a scope.LoanFilter into additional WHERE conditions
// against the loans table aliased as l. Placeholders start at $next.
// The returned fragment begins with " AND " or is empty.
func loanWhere(f scope.LoanFilter, next int) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, vals ...any) {
		for _, v := range vals {
			cond = strings.Replace(cond, "?", "$"+strconv.Itoa(next), 1)
			args = append(args, v)
			next++
		}
		conds = append(conds, cond)
	}
	if f.CollectorOrPayee != "" {
		add("(l.collector = ? OR l.payee = ?)", f.CollectorOrPayee, f.CollectorOrPayee)
	}
	if f.Collector != "" {
		add("l.collector = ?", f.Collector)
	}
	if f.Payee != "" {
		add("l.payee = ?", f.Payee)
	}
	if f.RiskController != "" {
		add("l.risk_controller = ?", f.RiskController)
	}
	if f.Lender != "" {
		add("l.lender = ?", f.Lender)
	}
	if f.CreatedBy != 0 {
		add("l.created_by = ?", f.CreatedBy)
	}
	if f.LoanID != 0 {
		add("l.id = ?", f.LoanID)
	}
	if f.Status != "" {
		add("l.status = ?", f.Status)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(conds, " AND "), args
}
