package service

import (
	"context"
	"time"

	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/scope"
	"github.com/sirupsen/logrus"
)

// AuthorizeScan gates scan execution: either the shared scan secret or an
// authenticated administrator. Denial happens before any store access.
func (s *Service) AuthorizeScan(secret string, caller *scope.Caller) error {
	if secret != "" && secret == s.config.ScanSecret {
		return nil
	}
	if caller != nil && caller.Role == models.RoleAdmin {
		return nil
	}
	return apperrors.Authorization("overdue scan requires the scan secret or an administrator")
}

// RunOverdueScan records every schedule currently in overdue or overtime
// status into the overdue ledger, at most once ever per schedule. The scan
// never transitions schedule status; it only appends ledger rows. Returns
// the number of rows actually inserted, so an immediate re-run reports 0.
func (s *Service) RunOverdueScan(ctx context.Context, asOf time.Time) (int64, error) {
	candidates, err := s.repo.ListOverdueCandidates(ctx)
	if err != nil {
		return 0, err
	}
	if len(candidates) == 0 {
		s.log.Info("Overdue scan found no candidates")
		return 0, nil
	}

	bucket := dayBucket(asOf)
	records := make([]models.OverdueRecord, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, models.OverdueRecord{
			ScheduleID:  c.ScheduleID,
			LoanID:      c.LoanID,
			DebtorName:  c.DebtorName,
			Collector:   c.Collector,
			OverdueDate: bucket,
		})
	}

	inserted, err := s.repo.InsertOverdueRecords(ctx, records)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"inserted":   inserted,
		"bucket":     bucket.Format("2006-01-02"),
	}).Info("Overdue scan completed")
	return inserted, nil
}

// ListOverdueForCollector builds the overdue dashboard within the caller's
// visibility.
func (s *Service) ListOverdueForCollector(ctx context.Context, caller scope.Caller) (*models.OverdueBoard, error) {
	f := scope.ForLoans(caller, scope.LoanFilter{})
	return s.repo.OverdueBoard(ctx, f, s.now())
}
