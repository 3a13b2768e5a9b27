package service

import (
	"time"

	"github.com/ndavydov/loan-service/internal/config"
	"github.com/ndavydov/loan-service/internal/repository"
	"github.com/sirupsen/logrus"
)

// DayBoundaryHour is the canonical start-of-business-day hour. Due windows,
// the scan day-bucket and the share-summary cutoff all use this boundary.
const DayBoundaryHour = 6

// Service handles business logic
type Service struct {
	repo   repository.Store
	log    *logrus.Logger
	config *config.Config
	now    func() time.Time
}

// NewService initializes a new service
func NewService(repo repository.Store, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, log: log, config: cfg, now: time.Now}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// dayBucket returns t's calendar day at the canonical boundary hour.
func dayBucket(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), DayBoundaryHour, 0, 0, 0, t.Location())
}

// midnight returns t's calendar day at 00:00, the anchor for stats windows.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
