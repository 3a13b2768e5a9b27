package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/scope"
)

// CreatePayee creates a payee; a duplicate phone surfaces as a conflict.
func (r *Repository) CreatePayee(ctx context.Context, payee *models.Payee) error {
	query := `
		INSERT INTO payees (name, phone, qr_code_url, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, payee.Name, payee.Phone,
		payee.QRCodeURL, payee.CreatedBy).
		Scan(&payee.ID, &payee.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("payee phone %q already registered", payee.Phone)
		}
		return storeErr("create payee", err)
	}
	return nil
}

// ListPayees returns payees visible through the filter.
func (r *Repository) ListPayees(ctx context.Context, f scope.PayeeFilter) ([]*models.Payee, error) {
	var conds []string
	var args []any
	if f.Name != "" {
		args = append(args, f.Name)
		conds = append(conds, "name = $"+strconv.Itoa(len(args)))
	}
	if f.CreatedBy != 0 {
		args = append(args, f.CreatedBy)
		conds = append(conds, "created_by = $"+strconv.Itoa(len(args)))
	}
	query := `SELECT id, name, phone, qr_code_url, created_by, created_at FROM payees`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list payees", err)
	}
	defer rows.Close()

	var out []*models.Payee
	for rows.Next() {
		p := &models.Payee{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.QRCodeURL, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, storeErr("scan payee", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list payees", err)
	}
	return out, nil
}

// FindPayeeByName fetches one payee by exact name.
func (r *Repository) FindPayeeByName(ctx context.Context, name string) (*models.Payee, error) {
	p := &models.Payee{}
	query := `
		SELECT id, name, phone, qr_code_url, created_by, created_at
		FROM payees
		WHERE name = $1
		LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, name).
		Scan(&p.ID, &p.Name, &p.Phone, &p.QRCodeURL, &p.CreatedBy, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("payee %q not found", name)
	}
	if err != nil {
		return nil, storeErr("find payee", err)
	}
	return p, nil
}
