package service

import (
	"context"
	"fmt"

	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/scope"
	"github.com/ndavydov/loan-service/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ShareLinkResult is returned from share creation.
type ShareLinkResult struct {
	URL       string            `json:"url"`
	Token     string            `json:"token"`
	ExpiresAt string            `json:"expires_at"`
	Link      *models.ShareLink `json:"-"`
}

// ShareView is the payload served for a live share token.
type ShareView struct {
	Summary   models.ShareSummary         `json:"summary"`
	Schedules []*models.RepaymentSchedule `json:"schedules"`
	ExpiresAt string                      `json:"expires_at"`
}

// CreateShareLink freezes a balance snapshot of the given periods behind a
// random token. All periods must belong to one loan and none may already be
// settled. Interest is only charged into the summary for periods whose due
// window has already closed at creation time; total due and capital sum
// unconditionally.
func (s *Service) CreateShareLink(ctx context.Context, caller scope.Caller, scheduleIDs []int64) (*ShareLinkResult, error) {
	if len(scheduleIDs) == 0 {
		return nil, apperrors.Validation("schedule ids are required")
	}

	scheds, err := s.repo.FindSchedulesByIDs(ctx, scheduleIDs)
	if err != nil {
		return nil, err
	}
	if len(scheds) != len(dedupe(scheduleIDs)) {
		return nil, apperrors.NotFound("one or more schedules not found")
	}

	loanID := scheds[0].LoanID
	for _, sched := range scheds {
		if sched.LoanID != loanID {
			return nil, apperrors.Validation("schedules must all belong to the same loan")
		}
		if sched.Status == models.ScheduleStatusPaid {
			return nil, apperrors.Validation("period %d is already settled", sched.PeriodNo)
		}
	}

	// The scoped loan lookup doubles as the authorization check.
	loan, err := s.repo.FindLoan(ctx, scope.ForLoans(caller, scope.LoanFilter{LoanID: loanID}))
	if err != nil {
		return nil, err
	}

	cutoff := dayBucket(s.now())
	totalDue, totalCapital, totalInterest := decimal.Zero, decimal.Zero, decimal.Zero
	for _, sched := range scheds {
		totalDue = totalDue.Add(sched.DueAmount)
		totalCapital = totalCapital.Add(sched.Capital)
		// Future-dated interest is not charged into the summary.
		if !sched.DueEnd.After(cutoff) {
			totalInterest = totalInterest.Add(sched.Interest)
		}
	}

	summary := models.ShareSummary{
		DebtorName:    loan.DebtorName,
		PayeeName:     loan.Payee,
		PeriodCount:   len(scheds),
		TotalDue:      totalDue,
		TotalCapital:  totalCapital,
		TotalInterest: totalInterest,
	}
	if loan.Payee != "" {
		if payee, err := s.repo.FindPayeeByName(ctx, loan.Payee); err == nil {
			summary.QRCodeURL = payee.QRCodeURL
		}
	}

	link := &models.ShareLink{
		Token:       utils.NewShareToken(),
		LoanID:      loanID,
		ScheduleIDs: scheduleIDs,
		Summary:     summary,
		ExpiresAt:   s.now().Add(s.config.ShareLinkTTL),
		CreatedBy:   caller.ID,
	}
	if err := s.repo.CreateShareLink(ctx, link); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id": loanID,
		"token":   link.Token,
		"periods": len(scheds),
	}).Info("Share link created")

	return &ShareLinkResult{
		URL:       fmt.Sprintf("%s/share/%s", s.config.ShareBaseURL, link.Token),
		Token:     link.Token,
		ExpiresAt: link.ExpiresAt.Format("2006-01-02 15:04:05"),
		Link:      link,
	}, nil
}

// GetShareLink resolves a token into its frozen summary and the current
// schedule rows. An unknown token is not found; a known token past its
// expiry fails distinctly as expired.
func (s *Service) GetShareLink(ctx context.Context, token string) (*ShareView, error) {
	if token == "" {
		return nil, apperrors.Validation("share token is required")
	}
	link, err := s.repo.FindShareLinkByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.now().After(link.ExpiresAt) {
		return nil, apperrors.Expired("share link has expired")
	}

	scheds, err := s.repo.FindSchedulesByIDs(ctx, link.ScheduleIDs)
	if err != nil {
		return nil, err
	}
	return &ShareView{
		Summary:   link.Summary,
		Schedules: scheds,
		ExpiresAt: link.ExpiresAt.Format("2006-01-02 15:04:05"),
	}, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
