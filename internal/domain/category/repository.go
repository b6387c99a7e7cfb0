package category

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines the persistence operations for categories.
type Repository interface {
	Create(ctx context.Context, tripID string, params CreateParams, isDefault bool, displayOrder int) (*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	ListByTripID(ctx context.Context, tripID string) ([]*Category, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Category, error)
	Delete(ctx context.Context, id string) error

	// SumBudgetPercentage returns the sum of budget percentages for a trip's
	// categories, optionally excluding one category (for updates).
	SumBudgetPercentage(ctx context.Context, tripID string, excludeID string) (decimal.Decimal, error)

	// MaxDisplayOrder returns the highest display order in use for a trip,
	// or -1 when the trip has no categories.
	MaxDisplayOrder(ctx context.Context, tripID string) (int, error)

	// CountExpenses returns the number of expenses assigned to a category.
	CountExpenses(ctx context.Context, categoryID string) (int, error)

	// SetDisplayOrder rewrites the display order of a trip's categories.
	SetDisplayOrder(ctx context.Context, tripID string, orderedIDs []string) error
}
