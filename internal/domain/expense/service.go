package expense

import (
	"context"
	"strings"
	"time"

	"tripledger/internal/domain/category"
	"tripledger/internal/domain/currency"
	"tripledger/internal/domain/trip"
)

// TripAccess resolves a trip and the caller's role in it.
type TripAccess interface {
	GetTripForUser(ctx context.Context, tripID string, userID int64) (*trip.Trip, string, error)
}

// CategoryLookup resolves a category by ID, used to verify it belongs
// to the expense's trip.
type CategoryLookup interface {
	GetByID(ctx context.Context, id string) (*category.Category, error)
}

// Invalidator is notified after any expense write so that derived
// per-day aggregates for the trip can be recomputed.
type Invalidator interface {
	Invalidate(tripID string)
}

// Service contains the business logic for expense operations
type Service struct {
	repo       Repository
	trips      TripAccess
	categories CategoryLookup
	rates      currency.RateSource
	cache      Invalidator
}

// NewService creates a new expense service
func NewService(repo Repository, trips TripAccess, categories CategoryLookup, rates currency.RateSource, cache Invalidator) *Service {
	return &Service{
		repo:       repo,
		trips:      trips,
		categories: categories,
		rates:      rates,
		cache:      cache,
	}
}

// CreateExpense validates and persists a new expense. The currency
// conversion is resolved once here and frozen on the stored row.
func (s *Service) CreateExpense(ctx context.Context, tripID string, userID int64, params CreateParams) (*Expense, error) {
	t, role, err := s.trips.GetTripForUser(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	if !trip.CanEdit(role) {
		return nil, trip.ErrForbidden
	}

	params.Title = strings.TrimSpace(params.Title)
	params.CurrencyCode = strings.ToUpper(strings.TrimSpace(params.CurrencyCode))
	if params.CurrencyCode == "" {
		params.CurrencyCode = t.CurrencyCode
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, tripID, params.CategoryID); err != nil {
		return nil, err
	}

	start := trip.DateOnly(params.StartDate)
	var end *time.Time
	if params.EndDate != nil {
		d := trip.DateOnly(*params.EndDate)
		end = &d
	}

	conv, err := currency.Normalize(ctx, params.Amount, params.CurrencyCode, t.CurrencyCode, start, s.rates)
	if err != nil {
		return nil, err
	}

	e := &Expense{
		TripID:               tripID,
		CategoryID:           params.CategoryID,
		Title:                params.Title,
		Description:          params.Description,
		Amount:               params.Amount,
		CurrencyCode:         params.CurrencyCode,
		ExchangeRate:         conv.ExchangeRate,
		AmountInTripCurrency: conv.AmountInTripCurrency,
		StartDate:            start,
		EndDate:              end,
		PaymentMethod:        params.PaymentMethod,
		Location:             params.Location,
		Notes:                params.Notes,
		CreatedBy:            userID,
	}

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}

	s.invalidate(tripID)
	return created, nil
}

// GetExpense returns an expense visible to the user.
func (s *Service) GetExpense(ctx context.Context, expenseID string, userID int64) (*Expense, error) {
	e, err := s.repo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	if _, _, err := s.trips.GetTripForUser(ctx, e.TripID, userID); err != nil {
		return nil, err
	}
	return e, nil
}

// ListExpenses returns a trip's expenses, optionally filtered.
func (s *Service) ListExpenses(ctx context.Context, tripID string, userID int64, filter ListFilter) ([]*Expense, error) {
	if _, _, err := s.trips.GetTripForUser(ctx, tripID, userID); err != nil {
		return nil, err
	}
	if filter.From != nil {
		d := trip.DateOnly(*filter.From)
		filter.From = &d
	}
	if filter.To != nil {
		d := trip.DateOnly(*filter.To)
		filter.To = &d
	}
	return s.repo.ListByTripID(ctx, tripID, filter)
}

// UpdateExpense applies partial changes to an expense. When the amount,
// the currency, or the start date changes, the conversion is resolved
// again and re-frozen; otherwise the stored rate is kept untouched so
// historical figures stay stable.
func (s *Service) UpdateExpense(ctx context.Context, expenseID string, userID int64, params UpdateParams) (*Expense, error) {
	e, t, err := s.authorizeWrite(ctx, expenseID, userID)
	if err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	refreeze := false

	if params.CategoryID != nil && *params.CategoryID != e.CategoryID {
		if err := s.checkCategory(ctx, e.TripID, *params.CategoryID); err != nil {
			return nil, err
		}
		e.CategoryID = *params.CategoryID
	}
	if params.Title != nil {
		e.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		e.Description = *params.Description
	}
	if params.Amount != nil && !params.Amount.Equal(e.Amount) {
		e.Amount = *params.Amount
		refreeze = true
	}
	if params.CurrencyCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*params.CurrencyCode))
		if code != e.CurrencyCode {
			e.CurrencyCode = code
			refreeze = true
		}
	}
	if params.StartDate != nil {
		d := trip.DateOnly(*params.StartDate)
		if !d.Equal(e.StartDate) {
			e.StartDate = d
			refreeze = true
		}
	}
	if params.ClearEndDate {
		e.EndDate = nil
	} else if params.EndDate != nil {
		d := trip.DateOnly(*params.EndDate)
		e.EndDate = &d
	}
	if params.PaymentMethod != nil {
		e.PaymentMethod = *params.PaymentMethod
	}
	if params.Location != nil {
		e.Location = *params.Location
	}
	if params.Notes != nil {
		e.Notes = *params.Notes
	}

	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return nil, ErrInvalidDateRange
	}

	if refreeze {
		conv, err := currency.Normalize(ctx, e.Amount, e.CurrencyCode, t.CurrencyCode, e.StartDate, s.rates)
		if err != nil {
			return nil, err
		}
		e.ExchangeRate = conv.ExchangeRate
		e.AmountInTripCurrency = conv.AmountInTripCurrency
	}

	updated, err := s.repo.Update(ctx, e)
	if err != nil {
		return nil, err
	}

	s.invalidate(e.TripID)
	return updated, nil
}

// DeleteExpense removes an expense from the trip and from all future
// aggregations.
func (s *Service) DeleteExpense(ctx context.Context, expenseID string, userID int64) error {
	e, _, err := s.authorizeWrite(ctx, expenseID, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, expenseID); err != nil {
		return err
	}

	s.invalidate(e.TripID)
	return nil
}

// authorizeWrite loads an expense and verifies the user may edit its trip.
func (s *Service) authorizeWrite(ctx context.Context, expenseID string, userID int64) (*Expense, *trip.Trip, error) {
	e, err := s.repo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	if e == nil {
		return nil, nil, ErrExpenseNotFound
	}

	t, role, err := s.trips.GetTripForUser(ctx, e.TripID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !trip.CanEdit(role) {
		return nil, nil, trip.ErrForbidden
	}

	return e, t, nil
}

// checkCategory verifies the category exists and belongs to the trip.
func (s *Service) checkCategory(ctx context.Context, tripID, categoryID string) error {
	c, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil || c.TripID != tripID {
		return ErrCategoryMismatch
	}
	return nil
}

func (s *Service) invalidate(tripID string) {
	if s.cache != nil {
		s.cache.Invalidate(tripID)
	}
}
