package category

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tripledger/internal/domain/trip"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc              func(ctx context.Context, tripID string, params CreateParams, isDefault bool, displayOrder int) (*Category, error)
	GetByIDFunc             func(ctx context.Context, id string) (*Category, error)
	ListByTripIDFunc        func(ctx context.Context, tripID string) ([]*Category, error)
	UpdateFunc              func(ctx context.Context, id string, params UpdateParams) (*Category, error)
	DeleteFunc              func(ctx context.Context, id string) error
	SumBudgetPercentageFunc func(ctx context.Context, tripID string, excludeID string) (decimal.Decimal, error)
	MaxDisplayOrderFunc     func(ctx context.Context, tripID string) (int, error)
	CountExpensesFunc       func(ctx context.Context, categoryID string) (int, error)
	SetDisplayOrderFunc     func(ctx context.Context, tripID string, orderedIDs []string) error
}

func (m *MockRepository) Create(ctx context.Context, tripID string, params CreateParams, isDefault bool, displayOrder int) (*Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tripID, params, isDefault, displayOrder)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) ListByTripID(ctx context.Context, tripID string) ([]*Category, error) {
	if m.ListByTripIDFunc != nil {
		return m.ListByTripIDFunc(ctx, tripID)
	}
	return nil, nil
}

func (m *MockRepository) Update(ctx context.Context, id string, params UpdateParams) (*Category, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockRepository) SumBudgetPercentage(ctx context.Context, tripID string, excludeID string) (decimal.Decimal, error) {
	if m.SumBudgetPercentageFunc != nil {
		return m.SumBudgetPercentageFunc(ctx, tripID, excludeID)
	}
	return decimal.Zero, nil
}

func (m *MockRepository) MaxDisplayOrder(ctx context.Context, tripID string) (int, error) {
	if m.MaxDisplayOrderFunc != nil {
		return m.MaxDisplayOrderFunc(ctx, tripID)
	}
	return -1, nil
}

func (m *MockRepository) CountExpenses(ctx context.Context, categoryID string) (int, error) {
	if m.CountExpensesFunc != nil {
		return m.CountExpensesFunc(ctx, categoryID)
	}
	return 0, nil
}

func (m *MockRepository) SetDisplayOrder(ctx context.Context, tripID string, orderedIDs []string) error {
	if m.SetDisplayOrderFunc != nil {
		return m.SetDisplayOrderFunc(ctx, tripID, orderedIDs)
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
		ID:        tripID,
		StartDate: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC),
		OwnerID:   1,
	}, m.Role, nil
}

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDailyBudget(t *testing.T) {
	c := &Category{BudgetPercentage: pct("35")}
	got := c.DailyBudget(decimal.NewFromInt(100))
	if !got.Equal(pct("35")) {
		t.Errorf("DailyBudget(100) = %s, want 35", got)
	}

	zero := &Category{BudgetPercentage: decimal.Zero}
	if !zero.DailyBudget(decimal.NewFromInt(100)).IsZero() {
		t.Error("DailyBudget with 0%% allocation should be zero")
	}
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		role        string
		params      CreateParams
		existingSum string
		wantErr     error
	}{
		{
			name:        "Success",
			role:        trip.RoleAdmin,
			params:      CreateParams{Name: "Souvenirs", Color: "#AABB01", BudgetPercentage: pct("10")},
			existingSum: "80",
		},
		{
			name:        "Percentage Sum Exceeded",
			role:        trip.RoleOwner,
			params:      CreateParams{Name: "Souvenirs", Color: "#AABB01", BudgetPercentage: pct("25")},
			existingSum: "80",
			wantErr:     ErrPercentageExceeded,
		},
		{
			name:    "Member Forbidden",
			role:    trip.RoleMember,
			params:  CreateParams{Name: "Souvenirs", Color: "#AABB01"},
			wantErr: trip.ErrForbidden,
		},
		{
			name:    "Invalid Color",
			role:    trip.RoleOwner,
			params:  CreateParams{Name: "Souvenirs", Color: "red"},
			wantErr: ErrInvalidColor,
		},
		{
			name:    "Percentage Above 100",
			role:    trip.RoleOwner,
			params:  CreateParams{Name: "Souvenirs", Color: "#AABB01", BudgetPercentage: pct("101")},
			wantErr: ErrInvalidPercentage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{
				SumBudgetPercentageFunc: func(ctx context.Context, tripID string, excludeID string) (decimal.Decimal, error) {
					if tt.existingSum == "" {
						return decimal.Zero, nil
					}
					return pct(tt.existingSum), nil
				},
				MaxDisplayOrderFunc: func(ctx context.Context, tripID string) (int, error) {
					return 7, nil
				},
				CreateFunc: func(ctx context.Context, tripID string, params CreateParams, isDefault bool, displayOrder int) (*Category, error) {
					if isDefault {
						t.Error("user-created category marked as default")
					}
					if displayOrder != 8 {
						t.Errorf("displayOrder = %d, want 8 (appended)", displayOrder)
					}
					return &Category{ID: "cat-new", TripID: tripID, Name: params.Name}, nil
				},
			}
			service := NewService(repo, &MockTripAccess{Role: tt.role})

			_, err := service.CreateCategory(ctx, "trip-1", 1, tt.params)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateCategory() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("CreateCategory() unexpected error: %v", err)
			}
		})
	}
}

func TestUpdateCategory_PercentageExcludesSelf(t *testing.T) {
	ctx := context.Background()

	var excluded string
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Category, error) {
			return &Category{ID: id, TripID: "trip-1", BudgetPercentage: pct("30")}, nil
		},
		SumBudgetPercentageFunc: func(ctx context.Context, tripID string, excludeID string) (decimal.Decimal, error) {
			excluded = excludeID
			return pct("70"), nil // everything except cat-1
		},
		UpdateFunc: func(ctx context.Context, id string, params UpdateParams) (*Category, error) {
			return &Category{ID: id, BudgetPercentage: *params.BudgetPercentage}, nil
		},
	}
	service := NewService(repo, &MockTripAccess{Role: trip.RoleOwner})

	// Raising cat-1 from 30 to 30 again must not count its old allocation twice.
	newPct := pct("30")
	if _, err := service.UpdateCategory(ctx, "cat-1", 1, UpdateParams{BudgetPercentage: &newPct}); err != nil {
		t.Fatalf("UpdateCategory() unexpected error: %v", err)
	}
	if excluded != "cat-1" {
		t.Errorf("SumBudgetPercentage excludeID = %q, want cat-1", excluded)
	}

	over := pct("31")
	if _, err := service.UpdateCategory(ctx, "cat-1", 1, UpdateParams{BudgetPercentage: &over}); !errors.Is(err, ErrPercentageExceeded) {
		t.Errorf("UpdateCategory() error = %v, want %v", err, ErrPercentageExceeded)
	}
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("With Expenses Rejected", func(t *testing.T) {
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*Category, error) {
				return &Category{ID: id, TripID: "trip-1"}, nil
			},
			CountExpensesFunc: func(ctx context.Context, categoryID string) (int, error) {
				return 3, nil
			},
		}
		service := NewService(repo, &MockTripAccess{Role: trip.RoleOwner})

		if err := service.DeleteCategory(ctx, "cat-1", 1); !errors.Is(err, ErrHasExpenses) {
			t.Errorf("DeleteCategory() error = %v, want %v", err, ErrHasExpenses)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		repo := &MockRepository{}
		service := NewService(repo, &MockTripAccess{Role: trip.RoleOwner})

		if err := service.DeleteCategory(ctx, "cat-404", 1); !errors.Is(err, ErrCategoryNotFound) {
			t.Errorf("DeleteCategory() error = %v, want %v", err, ErrCategoryNotFound)
		}
	})
}

func TestReorder(t *testing.T) {
	ctx := context.Background()

	existing := []*Category{
		{ID: "cat-1", TripID: "trip-1"},
		{ID: "cat-2", TripID: "trip-1"},
		{ID: "cat-3", TripID: "trip-1"},
	}

	tests := []struct {
		name    string
		ids     []string
		wantErr error
	}{
		{name: "Success", ids: []string{"cat-3", "cat-1", "cat-2"}},
		{name: "Missing ID", ids: []string{"cat-3", "cat-1"}, wantErr: ErrReorderMismatch},
		{name: "Unknown ID", ids: []string{"cat-3", "cat-1", "cat-9"}, wantErr: ErrReorderMismatch},
		{name: "Duplicate ID", ids: []string{"cat-3", "cat-1", "cat-1"}, wantErr: ErrReorderMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{
				ListByTripIDFunc: func(ctx context.Context, tripID string) ([]*Category, error) {
					return existing, nil
				},
			}
			service := NewService(repo, &MockTripAccess{Role: trip.RoleOwner})

			_, err := service.Reorder(ctx, "trip-1", 1, tt.ids)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Reorder() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Reorder() unexpected error: %v", err)
			}
		})
	}
}

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()

	var created []CreateParams
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, tripID string, params CreateParams, isDefault bool, displayOrder int) (*Category, error) {
			if !isDefault {
				t.Error("seeded category not marked as default")
			}
			if displayOrder != len(created) {
				t.Errorf("displayOrder = %d, want %d", displayOrder, len(created))
			}
			created = append(created, params)
			return &Category{ID: params.Name}, nil
		},
	}
	service := NewService(repo, &MockTripAccess{Role: trip.RoleOwner})

	if err := service.SeedDefaults(ctx, "trip-1"); err != nil {
		t.Fatalf("SeedDefaults() unexpected error: %v", err)
	}
	if len(created) != len(DefaultCategories) {
		t.Fatalf("seeded %d categories, want %d", len(created), len(DefaultCategories))
	}

	// Default allocations must respect the trip-wide 100% cap.
	sum := decimal.Zero
	for _, p := range created {
		sum = sum.Add(p.BudgetPercentage)
	}
	if sum.GreaterThan(decimal.NewFromInt(100)) {
		t.Errorf("default allocations sum to %s%%, must not exceed 100", sum)
	}
}
