package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/models"
)

// CreateShareLink stores a link with its frozen summary. Schedule ids and the
// summary are serialized as JSON; the summary is never recomputed on read.
func (r *Repository) CreateShareLink(ctx context.Context, link *models.ShareLink) error {
	ids, err := json.Marshal(link.ScheduleIDs)
	if err != nil {
		return storeErr("encode schedule ids", err)
	}
	summary, err := json.Marshal(link.Summary)
	if err != nil {
		return storeErr("encode share summary", err)
	}
	query := `
		INSERT INTO share_links (token, loan_id, schedule_ids, summary, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err = r.db.QueryRowContext(ctx, query, link.Token, link.LoanID, ids, summary,
		link.ExpiresAt, link.CreatedBy).
		Scan(&link.ID, &link.CreatedAt)
	if err != nil {
		return storeErr("create share link", err)
	}
	return nil
}

// FindShareLinkByToken fetches a link by direct token lookup. Expiry is the
// caller's concern; rows are kept past expires_at.
func (r *Repository) FindShareLinkByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	link := &models.ShareLink{}
	var ids, summary []byte
	query := `
		SELECT id, token, loan_id, schedule_ids, summary, expires_at, created_by, created_at
		FROM share_links
		WHERE token = $1`
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&link.ID, &link.Token, &link.LoanID, &ids, &summary,
			&link.ExpiresAt, &link.CreatedBy, &link.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("share link not found")
	}
	if err != nil {
		return nil, storeErr("find share link", err)
	}
	if err := json.Unmarshal(ids, &link.ScheduleIDs); err != nil {
		return nil, storeErr("decode schedule ids", err)
	}
	if err := json.Unmarshal(summary, &link.Summary); err != nil {
		return nil, storeErr("decode share summary", err)
	}
	return link, nil
}
