package service

import (
	"context"
	"strings"

	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/scope"
)

// CreatePayee registers a funds recipient. Phones are unique; the QR image
// lives in external storage and only its URL is recorded.
func (s *Service) CreatePayee(ctx context.Context, caller scope.Caller, name, phone, qrCodeURL string) (*models.Payee, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return nil, apperrors.Validation("payee name is required")
	}
	if phone == "" {
		return nil, apperrors.Validation("payee phone is required")
	}

	payee := &models.Payee{
		Name:      name,
		Phone:     phone,
		QRCodeURL: qrCodeURL,
		CreatedBy: caller.ID,
	}
	if err := s.repo.CreatePayee(ctx, payee); err != nil {
		return nil, err
	}
	s.log.Infof("Payee created: %s", payee.Name)
	return payee, nil
}

// ListPayees returns the payees visible to the caller.
func (s *Service) ListPayees(ctx context.Context, caller scope.Caller) ([]*models.Payee, error) {
	return s.repo.ListPayees(ctx, scope.ForPayees(caller, scope.PayeeFilter{}))
}
