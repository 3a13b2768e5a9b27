package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ndavydov/loan-service/internal/apperrors"
	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/repository"
	"github.com/ndavydov/loan-service/internal/scope"
	"github.com/shopspring/decimal"
)

// mockStore is an in-memory implementation of repository.Store for tests.
// Filter matching mirrors the SQL translation in the real repository.
type mockStore struct {
	mu        sync.Mutex
	users     map[int64]*models.User
	loans     map[int64]*models.LoanAccount
	schedules map[int64]*models.RepaymentSchedule
	overdue   map[int64]models.OverdueRecord // keyed by schedule id
	links     map[string]*models.ShareLink
	payees    map[int64]*models.Payee
	nextID    int64
}

var _ repository.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		users:     make(map[int64]*models.User),
		loans:     make(map[int64]*models.LoanAccount),
		schedules: make(map[int64]*models.RepaymentSchedule),
		overdue:   make(map[int64]models.OverdueRecord),
		links:     make(map[string]*models.ShareLink),
		payees:    make(map[int64]*models.Payee),
	}
}

func (m *mockStore) id() int64 {
	m.nextID++
	return m.nextID
}

func matchLoan(f scope.LoanFilter, l *models.LoanAccount) bool {
	if f.CollectorOrPayee != "" && l.Collector != f.CollectorOrPayee && l.Payee != f.CollectorOrPayee {
		return false
	}
	if f.Collector != "" && l.Collector != f.Collector {
		return false
	}
	if f.Payee != "" && l.Payee != f.Payee {
		return false
	}
	if f.RiskController != "" && l.RiskController != f.RiskController {
		return false
	}
	if f.Lender != "" && l.Lender != f.Lender {
		return false
	}
	if f.CreatedBy != 0 && l.CreatedBy != f.CreatedBy {
		return false
	}
	if f.LoanID != 0 && l.ID != f.LoanID {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	return true
}

func (m *mockStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperrors.Conflict("username %q is already taken", user.Username)
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *mockStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user %q not found", username)
}

func (m *mockStore) CreateLoanWithSchedule(_ context.Context, loan *models.LoanAccount, periods []models.RepaymentSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan.ID = m.id()
	m.loans[loan.ID] = loan
	for i := range periods {
		p := periods[i]
		p.ID = m.id()
		p.LoanID = loan.ID
		m.schedules[p.ID] = &p
	}
	return nil
}

func (m *mockStore) FindLoan(_ context.Context, f scope.LoanFilter) (*models.LoanAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.loans {
		if matchLoan(f, l) {
			return l, nil
		}
	}
	return nil, apperrors.NotFound("loan not found")
}

func (m *mockStore) ListLoans(_ context.Context, f scope.LoanFilter) ([]*models.LoanAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.LoanAccount
	for _, l := range m.loans {
		if matchLoan(f, l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockStore) ListSchedulesByLoan(_ context.Context, loanID int64) ([]*models.RepaymentSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.RepaymentSchedule
	for _, s := range m.schedules {
		if s.LoanID == loanID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodNo < out[j].PeriodNo })
	return out, nil
}

func (m *mockStore) FindSchedulesByIDs(_ context.Context, ids []int64) ([]*models.RepaymentSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[int64]struct{}, len(ids))
	var out []*models.RepaymentSchedule
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if s, ok := m.schedules[id]; ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStore) UpdateSchedule(_ context.Context, id int64, patch repository.SchedulePatch) (*models.RepaymentSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return nil, apperrors.NotFound("schedule %d not found", id)
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
	if patch.DueAmount != nil {
		s.DueAmount = *patch.DueAmount
	}
	if patch.Capital != nil {
		s.Capital = *patch.Capital
	}
	if patch.Interest != nil {
		s.Interest = *patch.Interest
	}
	if patch.PaidAmount != nil {
		s.PaidAmount = *patch.PaidAmount
	}
	if patch.PaidAt != nil {
		s.PaidAt = patch.PaidAt
	}
	s.UpdatedAt = time.Now()

	if loan, ok := m.loans[s.LoanID]; ok {
		paid := 0
		for _, sched := range m.schedules {
			if sched.LoanID == loan.ID && sched.Status == models.ScheduleStatusPaid {
				paid++
			}
		}
		loan.RepaidPeriods = paid
		if paid >= loan.TotalPeriods {
			loan.Status = models.LoanStatusSettled
		}
	}
	return s, nil
}

func (m *mockStore) ListOverdueCandidates(_ context.Context) ([]repository.OverdueCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.OverdueCandidate
	for _, s := range m.schedules {
		if s.Status != models.ScheduleStatusOverdue && s.Status != models.ScheduleStatusOvertime {
			continue
		}
		loan := m.loans[s.LoanID]
		out = append(out, repository.OverdueCandidate{
			ScheduleID: s.ID,
			LoanID:     s.LoanID,
			DebtorName: loan.DebtorName,
			Collector:  loan.Collector,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduleID < out[j].ScheduleID })
	return out, nil
}

func (m *mockStore) InsertOverdueRecords(_ context.Context, recs []models.OverdueRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var inserted int64
	for _, rec := range recs {
		if _, exists := m.overdue[rec.ScheduleID]; exists {
			continue
		}
		rec.ID = m.id()
		rec.CreatedAt = time.Now()
		m.overdue[rec.ScheduleID] = rec
		inserted++
	}
	return inserted, nil
}

func (m *mockStore) OverdueBoard(_ context.Context, f scope.LoanFilter, asOf time.Time) (*models.OverdueBoard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	board := &models.OverdueBoard{}
	dayStart := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	yearStart := time.Date(asOf.Year(), 1, 1, 0, 0, 0, 0, asOf.Location())

	perLoan := make(map[int64]*models.OverdueCustomer)
	for _, rec := range m.overdue {
		loan := m.loans[rec.LoanID]
		if loan == nil || !matchLoan(f, loan) {
			continue
		}
		c, ok := perLoan[rec.LoanID]
		if !ok {
			c = &models.OverdueCustomer{
				LoanID:       rec.LoanID,
				DebtorName:   loan.DebtorName,
				DebtorPhone:  loan.DebtorPhone,
				Collector:    loan.Collector,
				FirstOverdue: rec.OverdueDate,
			}
			perLoan[rec.LoanID] = c
		}
		c.OverdueCount++
		if rec.OverdueDate.Before(c.FirstOverdue) {
			c.FirstOverdue = rec.OverdueDate
		}
		if !rec.OverdueDate.Before(dayStart) {
			board.TodayCount++
		}
		if !rec.OverdueDate.Before(monthStart) {
			board.MonthCount++
		}
		if !rec.OverdueDate.Before(yearStart) {
			board.YearCount++
		}
	}
	for _, c := range perLoan {
		board.Customers = append(board.Customers, *c)
	}
	sort.Slice(board.Customers, func(i, j int) bool { return board.Customers[i].LoanID < board.Customers[j].LoanID })
	return board, nil
}

func (m *mockStore) CreateShareLink(_ context.Context, link *models.ShareLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	link.ID = m.id()
	link.CreatedAt = time.Now()
	m.links[link.Token] = link
	return nil
}

func (m *mockStore) FindShareLinkByToken(_ context.Context, token string) (*models.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.links[token]
	if !ok {
		return nil, apperrors.NotFound("share link not found")
	}
	return link, nil
}

func (m *mockStore) CreatePayee(_ context.Context, payee *models.Payee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payees {
		if p.Phone == payee.Phone {
			return apperrors.Conflict("payee phone %q already registered", payee.Phone)
		}
	}
	payee.ID = m.id()
	payee.CreatedAt = time.Now()
	m.payees[payee.ID] = payee
	return nil
}

func (m *mockStore) ListPayees(_ context.Context, f scope.PayeeFilter) ([]*models.Payee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Payee
	for _, p := range m.payees {
		if f.Name != "" && p.Name != f.Name {
			continue
		}
		if f.CreatedBy != 0 && p.CreatedBy != f.CreatedBy {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStore) FindPayeeByName(_ context.Context, name string) (*models.Payee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payees {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, apperrors.NotFound("payee %q not found", name)
}

func bucketLabel(g models.Granularity, t time.Time) string {
	switch g {
	case models.GranularityMonth:
		return t.Format("2006-01")
	case models.GranularityYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

func (m *mockStore) SettlementSeries(_ context.Context, f scope.LoanFilter, g models.Granularity, from time.Time) ([]models.StatsPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buckets := make(map[string]decimal.Decimal)
	for _, s := range m.schedules {
		if s.Status != models.ScheduleStatusPaid || s.PaidAt == nil || s.PaidAt.Before(from) {
			continue
		}
		loan := m.loans[s.LoanID]
		if loan == nil || !matchLoan(f, loan) {
			continue
		}
		label := bucketLabel(g, *s.PaidAt)
		buckets[label] = buckets[label].Add(s.PaidAmount)
	}
	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	var series []models.StatsPoint
	for _, label := range labels {
		series = append(series, models.StatsPoint{Label: label, Total: buckets[label]})
	}
	return series, nil
}

func (m *mockStore) SettlementTotal(_ context.Context, f scope.LoanFilter, from time.Time) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, s := range m.schedules {
		if s.Status != models.ScheduleStatusPaid || s.PaidAt == nil {
			continue
		}
		if !from.IsZero() && s.PaidAt.Before(from) {
			continue
		}
		loan := m.loans[s.LoanID]
		if loan == nil || !matchLoan(f, loan) {
			continue
		}
		total = total.Add(s.PaidAmount)
	}
	return total, nil
}

func (m *mockStore) HandlingFeeTotal(_ context.Context, f scope.LoanFilter) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, l := range m.loans {
		if matchLoan(f, l) {
			total = total.Add(l.HandlingFee)
		}
	}
	return total, nil
}
