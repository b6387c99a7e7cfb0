package expense

import (
	"context"
)

// Repository defines the persistence operations for expenses.
type Repository interface {
	Create(ctx context.Context, e *Expense) (*Expense, error)
	GetByID(ctx context.Context, id string) (*Expense, error)

	// ListByTripID returns a trip's expenses, newest start date first.
	// The filter's date window matches expenses whose span overlaps it.
	ListByTripID(ctx context.Context, tripID string, filter ListFilter) ([]*Expense, error)

	Update(ctx context.Context, e *Expense) (*Expense, error)
	Delete(ctx context.Context, id string) error
}
