package stats

import (
	"context"
	"time"

	"tripledger/internal/domain/category"
	"tripledger/internal/domain/expense"
	"tripledger/internal/domain/trip"
)

// TripAccess resolves a trip and the caller's role in it.
type TripAccess interface {
	GetTripForUser(ctx context.Context, tripID string, userID int64) (*trip.Trip, string, error)
}

// CategoryLister returns a trip's categories in display order.
type CategoryLister interface {
	ListByTripID(ctx context.Context, tripID string) ([]*category.Category, error)
}

// ExpenseLister returns a trip's full expense set.
type ExpenseLister interface {
	ListByTripID(ctx context.Context, tripID string, filter expense.ListFilter) ([]*expense.Expense, error)
}

// DailyStatistics pairs one day's figures with its display status.
type DailyStatistics struct {
	*DailyBudgetStatistics
	Status string `json:"status"`
}

// Service computes daily budget statistics for trips.
type Service struct {
	trips      TripAccess
	categories CategoryLister
	expenses   ExpenseLister
	cache      *dayTotalsCache
	now        func() time.Time
}

// NewService creates a new statistics service. The clock defaults to
// time.Now when nil.
func NewService(trips TripAccess, categories CategoryLister, expenses ExpenseLister, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		trips:      trips,
		categories: categories,
		expenses:   expenses,
		cache:      newDayTotalsCache(),
		now:        now,
	}
}

// Invalidate drops memoized day totals for a trip. The expense service
// calls this after every write.
func (s *Service) Invalidate(tripID string) {
	s.cache.Invalidate(tripID)
}

// DailyStatistics computes the statistics and status for one day of a
// trip on behalf of a member.
func (s *Service) DailyStatistics(ctx context.Context, tripID string, userID int64, date time.Time) (*DailyStatistics, error) {
	t, _, err := s.trips.GetTripForUser(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenses.ListByTripID(ctx, tripID, expense.ListFilter{})
	if err != nil {
		return nil, err
	}

	dayTotals := func(day time.Time) DayTotals {
		if cached, ok := s.cache.get(tripID, day); ok {
			return cached
		}
		totals := SpentOn(expenses, day)
		s.cache.put(tripID, day, totals)
		return totals
	}

	result, err := Compute(t, categories, expenses, date, dayTotals)
	if err != nil {
		return nil, err
	}

	return &DailyStatistics{
		DailyBudgetStatistics: result,
		Status:                Classify(result, s.now()),
	}, nil
}

// NewCursor builds a navigation cursor for a trip the user can see.
func (s *Service) NewCursor(ctx context.Context, tripID string, userID int64) (*DayCursor, error) {
	t, _, err := s.trips.GetTripForUser(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	return NewDayCursor(t, s.now), nil
}
