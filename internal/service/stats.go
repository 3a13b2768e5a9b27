package service

import (
	"context"
	"time"

	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/scope"
)

// CollectorStats rolls up collected amounts for one collector identity.
// Non-administrators may only query themselves.
func (s *Service) CollectorStats(ctx context.Context, caller scope.Caller, identity string, g models.Granularity) (*models.CollectionStats, error) {
	identity, err := s.resolveStatsIdentity(caller, identity)
	if err != nil {
		return nil, err
	}
	f := scope.LoanFilter{Collector: identity}
	stats, err := s.collectStats(ctx, f, g)
	if err != nil {
		return nil, err
	}
	// The handling-fee total comes from the loan records themselves,
	// not from settlement rows.
	fee, err := s.repo.HandlingFeeTotal(ctx, f)
	if err != nil {
		return nil, err
	}
	stats.HandlingFeeTotal = &fee
	return stats, nil
}

// PayeeStats rolls up settled amounts received by one payee identity.
func (s *Service) PayeeStats(ctx context.Context, caller scope.Caller, identity string, g models.Granularity) (*models.CollectionStats, error) {
	identity, err := s.resolveStatsIdentity(caller, identity)
	if err != nil {
		return nil, err
	}
	return s.collectStats(ctx, scope.LoanFilter{Payee: identity}, g)
}

func (s *Service) resolveStatsIdentity(caller scope.Caller, identity string) (string, error) {
	if identity == "" {
		identity = caller.Username
	}
	if caller.Role != models.RoleAdmin && identity != caller.Username {
		return "", apperrors.Authorization("stats for another identity require an administrator")
	}
	return identity, nil
}

func (s *Service) collectStats(ctx context.Context, f scope.LoanFilter, g models.Granularity) (*models.CollectionStats, error) {
	anchor := midnight(s.now())

	var from time.Time
	switch g {
	case models.GranularityMonth:
		from = anchor.AddDate(0, -12, 0)
	case models.GranularityYear:
		from = anchor.AddDate(-5, 0, 0)
	default:
		g = models.GranularityDay
		from = anchor.AddDate(0, 0, -30)
	}

	series, err := s.repo.SettlementSeries(ctx, f, g, from)
	if err != nil {
		return nil, err
	}
	allTime, err := s.repo.SettlementTotal(ctx, f, time.Time{})
	if err != nil {
		return nil, err
	}
	monthStart := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	monthTotal, err := s.repo.SettlementTotal(ctx, f, monthStart)
	if err != nil {
		return nil, err
	}
	dayTotal, err := s.repo.SettlementTotal(ctx, f, anchor)
	if err != nil {
		return nil, err
	}

	return &models.CollectionStats{
		Granularity:  g,
		Series:       series,
		AllTimeTotal: allTime,
		MonthTotal:   monthTotal,
		DayTotal:     dayTotal,
	}, nil
}
