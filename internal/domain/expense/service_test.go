package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tripledger/internal/domain/category"
	"tripledger/internal/domain/currency"
	"tripledger/internal/domain/trip"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc       func(ctx context.Context, e *Expense) (*Expense, error)
	GetByIDFunc      func(ctx context.Context, id string) (*Expense, error)
	ListByTripIDFunc func(ctx context.Context, tripID string, filter ListFilter) ([]*Expense, error)
	UpdateFunc       func(ctx context.Context, e *Expense) (*Expense, error)
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockRepository) Create(ctx context.Context, e *Expense) (*Expense, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	return e, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Expense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) ListByTripID(ctx context.Context, tripID string, filter ListFilter) ([]*Expense, error) {
	if m.ListByTripIDFunc != nil {
		return m.ListByTripIDFunc(ctx, tripID, filter)
	}
	return nil, nil
}

func (m *MockRepository) Update(ctx context.Context, e *Expense) (*Expense, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, e)
	}
	return e, nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockTripAccess is a mock implementation of TripAccess
type MockTripAccess struct {
	Role string
	Err  error
}

func (m *MockTripAccess) GetTripForUser(ctx context.Context, tripID string, userID int64) (*trip.Trip, string, error) {
	if m.Err != nil {
		return nil, "", m.Err
	}
	return &trip.Trip{
		ID:           tripID,
		StartDate:    date(2025, 11, 10),
		EndDate:      date(2025, 11, 20),
		CurrencyCode: "USD",
		OwnerID:      1,
	}, m.Role, nil
}

// MockCategoryLookup is a mock implementation of CategoryLookup
type MockCategoryLookup struct {
	GetByIDFunc func(ctx context.Context, id string) (*category.Category, error)
}

func (m *MockCategoryLookup) GetByID(ctx context.Context, id string) (*category.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &category.Category{ID: id, TripID: "trip-1"}, nil
}

// MockRateSource is a mock implementation of currency.RateSource
type MockRateSource struct {
	RateFunc func(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error)
	Calls    int
}

func (m *MockRateSource) Rate(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error) {
	m.Calls++
	if m.RateFunc != nil {
		return m.RateFunc(ctx, from, to, on)
	}
	return decimal.Zero, errors.New("no rate")
}

type recordingInvalidator struct {
	tripIDs []string
}

func (r *recordingInvalidator) Invalidate(tripID string) {
	r.tripIDs = append(r.tripIDs, tripID)
}

func newTestService(repo *MockRepository, role string, rates *MockRateSource) (*Service, *recordingInvalidator) {
	inv := &recordingInvalidator{}
	return NewService(repo, &MockTripAccess{Role: role}, &MockCategoryLookup{}, rates, inv), inv
}

func TestCreateExpense_SameCurrencyFreeze(t *testing.T) {
	ctx := context.Background()
	rates := &MockRateSource{}
	repo := &MockRepository{}
	service, inv := newTestService(repo, trip.RoleMember, rates)

	amount := dec("123.45")
	created, err := service.CreateExpense(ctx, "trip-1", 1, CreateParams{
		CategoryID:   "cat-1",
		Title:        "Lunch",
		Amount:       amount,
		CurrencyCode: "usd",
		StartDate:    date(2025, 11, 12),
	})
	if err != nil {
		t.Fatalf("CreateExpense() unexpected error: %v", err)
	}

	if rates.Calls != 0 {
		t.Error("same-currency expense must not consult the rate source")
	}
	if !created.ExchangeRate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("ExchangeRate = %s, want 1", created.ExchangeRate)
	}
	if created.AmountInTripCurrency.String() != amount.String() {
		t.Errorf("AmountInTripCurrency = %s, want %s exactly", created.AmountInTripCurrency, amount)
	}
	if created.CurrencyCode != "USD" {
		t.Errorf("CurrencyCode = %q, want USD", created.CurrencyCode)
	}
	if len(inv.tripIDs) != 1 || inv.tripIDs[0] != "trip-1" {
		t.Errorf("cache invalidations = %v, want [trip-1]", inv.tripIDs)
	}
}

func TestCreateExpense_ForeignCurrencyFreeze(t *testing.T) {
	ctx := context.Background()
	rates := &MockRateSource{
		RateFunc: func(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error) {
			if from != "EUR" || to != "USD" {
				t.Errorf("rate lookup for %s->%s, want EUR->USD", from, to)
			}
			if !on.Equal(date(2025, 11, 12)) {
				t.Errorf("rate lookup on %s, want the expense start date", on.Format("2006-01-02"))
			}
			return dec("1.0842"), nil
		},
	}
	repo := &MockRepository{}
	service, _ := newTestService(repo, trip.RoleAdmin, rates)

	created, err := service.CreateExpense(ctx, "trip-1", 1, CreateParams{
		CategoryID:   "cat-1",
		Title:        "Museum",
		Amount:       dec("100"),
		CurrencyCode: "EUR",
		StartDate:    date(2025, 11, 12),
	})
	if err != nil {
		t.Fatalf("CreateExpense() unexpected error: %v", err)
	}

	if !created.ExchangeRate.Equal(dec("1.0842")) {
		t.Errorf("ExchangeRate = %s, want 1.0842", created.ExchangeRate)
	}
	if !created.AmountInTripCurrency.Equal(dec("108.42")) {
		t.Errorf("AmountInTripCurrency = %s, want 108.42", created.AmountInTripCurrency)
	}
}

func TestCreateExpense_Failures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		role    string
		params  CreateParams
		lookup  *MockCategoryLookup
		wantErr error
	}{
		{
			name: "Viewer Forbidden",
			role: trip.RoleViewer,
			params: CreateParams{
				CategoryID: "cat-1", Title: "Lunch", Amount: dec("10"),
				CurrencyCode: "USD", StartDate: date(2025, 11, 12),
			},
			wantErr: trip.ErrForbidden,
		},
		{
			name: "Rate Unavailable",
			role: trip.RoleOwner,
			params: CreateParams{
				CategoryID: "cat-1", Title: "Lunch", Amount: dec("10"),
				CurrencyCode: "THB", StartDate: date(2025, 11, 12),
			},
			wantErr: currency.ErrRateUnavailable,
		},
		{
			name: "Category From Other Trip",
			role: trip.RoleOwner,
			params: CreateParams{
				CategoryID: "cat-9", Title: "Lunch", Amount: dec("10"),
				CurrencyCode: "USD", StartDate: date(2025, 11, 12),
			},
			lookup: &MockCategoryLookup{
				GetByIDFunc: func(ctx context.Context, id string) (*category.Category, error) {
					return &category.Category{ID: id, TripID: "trip-other"}, nil
				},
			},
			wantErr: ErrCategoryMismatch,
		},
		{
			name: "Inverted Dates",
			role: trip.RoleOwner,
			params: CreateParams{
				CategoryID: "cat-1", Title: "Hotel", Amount: dec("10"),
				CurrencyCode: "USD", StartDate: date(2025, 11, 12), EndDate: datePtr(2025, 11, 11),
			},
			wantErr: ErrInvalidDateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := tt.lookup
			if lookup == nil {
				lookup = &MockCategoryLookup{}
			}
			inv := &recordingInvalidator{}
			service := NewService(&MockRepository{}, &MockTripAccess{Role: tt.role}, lookup, &MockRateSource{}, inv)

			_, err := service.CreateExpense(ctx, "trip-1", 1, tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateExpense() error = %v, want %v", err, tt.wantErr)
			}
			if len(inv.tripIDs) != 0 {
				t.Error("failed write must not invalidate cached aggregates")
			}
		})
	}
}

func TestUpdateExpense_RefreezesOnlyWhenConversionInputsChange(t *testing.T) {
	ctx := context.Background()

	stored := func() *Expense {
		return &Expense{
			ID:                   "exp-1",
			TripID:               "trip-1",
			CategoryID:           "cat-1",
			Title:                "Dinner",
			Amount:               dec("100"),
			CurrencyCode:         "EUR",
			ExchangeRate:         dec("1.0842"),
			AmountInTripCurrency: dec("108.42"),
			StartDate:            date(2025, 11, 12),
		}
	}

	t.Run("Title Change Keeps Frozen Rate", func(t *testing.T) {
		rates := &MockRateSource{}
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*Expense, error) { return stored(), nil },
		}
		service, _ := newTestService(repo, trip.RoleMember, rates)

		title := "Dinner out"
		updated, err := service.UpdateExpense(ctx, "exp-1", 1, UpdateParams{Title: &title})
		if err != nil {
			t.Fatalf("UpdateExpense() unexpected error: %v", err)
		}
		if rates.Calls != 0 {
			t.Error("update without conversion inputs must not consult the rate source")
		}
		if !updated.ExchangeRate.Equal(dec("1.0842")) {
			t.Errorf("ExchangeRate = %s, want frozen 1.0842", updated.ExchangeRate)
		}
	})

	t.Run("Amount Change Refreezes", func(t *testing.T) {
		rates := &MockRateSource{
			RateFunc: func(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error) {
				return dec("1.10"), nil
			},
		}
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*Expense, error) { return stored(), nil },
		}
		service, inv := newTestService(repo, trip.RoleMember, rates)

		amount := dec("200")
		updated, err := service.UpdateExpense(ctx, "exp-1", 1, UpdateParams{Amount: &amount})
		if err != nil {
			t.Fatalf("UpdateExpense() unexpected error: %v", err)
		}
		if rates.Calls != 1 {
			t.Errorf("rate source consulted %d times, want 1", rates.Calls)
		}
		if !updated.AmountInTripCurrency.Equal(dec("220")) {
			t.Errorf("AmountInTripCurrency = %s, want 220", updated.AmountInTripCurrency)
		}
		if len(inv.tripIDs) != 1 {
			t.Errorf("cache invalidations = %v, want one for trip-1", inv.tripIDs)
		}
	})

	t.Run("Start Date Change Refreezes", func(t *testing.T) {
		rates := &MockRateSource{
			RateFunc: func(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error) {
				if !on.Equal(date(2025, 11, 14)) {
					t.Errorf("rate lookup on %s, want the new start date", on.Format("2006-01-02"))
				}
				return dec("1.09"), nil
			},
		}
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*Expense, error) { return stored(), nil },
		}
		service, _ := newTestService(repo, trip.RoleMember, rates)

		start := date(2025, 11, 14)
		updated, err := service.UpdateExpense(ctx, "exp-1", 1, UpdateParams{StartDate: &start})
		if err != nil {
			t.Fatalf("UpdateExpense() unexpected error: %v", err)
		}
		if !updated.ExchangeRate.Equal(dec("1.09")) {
			t.Errorf("ExchangeRate = %s, want 1.09", updated.ExchangeRate)
		}
	})

	t.Run("Inverted Dates Rejected", func(t *testing.T) {
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*Expense, error) { return stored(), nil },
		}
		service, _ := newTestService(repo, trip.RoleMember, &MockRateSource{})

		end := date(2025, 11, 11)
		if _, err := service.UpdateExpense(ctx, "exp-1", 1, UpdateParams{EndDate: &end}); !errors.Is(err, ErrInvalidDateRange) {
			t.Errorf("UpdateExpense() error = %v, want %v", err, ErrInvalidDateRange)
		}
	})
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("Success Invalidates Cache", func(t *testing.T) {
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*Expense, error) {
				return &Expense{ID: id, TripID: "trip-1"}, nil
			},
		}
		service, inv := newTestService(repo, trip.RoleOwner, &MockRateSource{})

		if err := service.DeleteExpense(ctx, "exp-1", 1); err != nil {
			t.Fatalf("DeleteExpense() unexpected error: %v", err)
		}
		if len(inv.tripIDs) != 1 || inv.tripIDs[0] != "trip-1" {
			t.Errorf("cache invalidations = %v, want [trip-1]", inv.tripIDs)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		service, _ := newTestService(&MockRepository{}, trip.RoleOwner, &MockRateSource{})

		if err := service.DeleteExpense(ctx, "exp-404", 1); !errors.Is(err, ErrExpenseNotFound) {
			t.Errorf("DeleteExpense() error = %v, want %v", err, ErrExpenseNotFound)
		}
	})

	t.Run("Viewer Forbidden", func(t *testing.T) {
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*Expense, error) {
				return &Expense{ID: id, TripID: "trip-1"}, nil
			},
		}
		service, _ := newTestService(repo, trip.RoleViewer, &MockRateSource{})

		if err := service.DeleteExpense(ctx, "exp-1", 1); !errors.Is(err, trip.ErrForbidden) {
			t.Errorf("DeleteExpense() error = %v, want %v", err, trip.ErrForbidden)
		}
	})
}
