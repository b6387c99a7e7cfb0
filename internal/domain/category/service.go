package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tripledger/internal/domain/trip"
)

// TripAccess resolves a trip and the caller's role in it.
// Satisfied by the trip service.
type TripAccess interface {
	GetTripForUser(ctx context.Context, tripID string, userID int64) (*trip.Trip, string, error)
}

// Service contains the business logic for category operations
type Service struct {
	repo  Repository
	trips TripAccess
}

// NewService creates a new category service
func NewService(repo Repository, trips TripAccess) *Service {
	return &Service{repo: repo, trips: trips}
}

// SeedDefaults creates the default category set for a new trip.
// It implements trip.DefaultCategorySeeder.
func (s *Service) SeedDefaults(ctx context.Context, tripID string) error {
	for order, def := range DefaultCategories {
		params := CreateParams{
			Name:             def.Name,
			Color:            def.Color,
			Icon:             def.Icon,
			BudgetPercentage: def.BudgetPercentage,
		}
		if _, err := s.repo.Create(ctx, tripID, params, true, order); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", def.Name, err)
		}
	}
	return nil
}

// ListCategories returns a trip's categories ordered for display.
func (s *Service) ListCategories(ctx context.Context, tripID string, userID int64) ([]*Category, error) {
	if _, _, err := s.trips.GetTripForUser(ctx, tripID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByTripID(ctx, tripID)
}

// CreateCategory creates a new category at the end of the display order.
// The trip-wide budget percentage sum must stay at or below 100; this is
// enforced here, at write time, never during statistics computation.
func (s *Service) CreateCategory(ctx context.Context, tripID string, userID int64, params CreateParams) (*Category, error) {
	_, role, err := s.trips.GetTripForUser(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	if !trip.CanManage(role) {
		return nil, trip.ErrForbidden
	}

	params.Name = strings.TrimSpace(params.Name)
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkPercentageBudget(ctx, tripID, "", params.BudgetPercentage); err != nil {
		return nil, err
	}

	maxOrder, err := s.repo.MaxDisplayOrder(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, tripID, params, false, maxOrder+1)
}

// UpdateCategory updates a category after verifying access and the
// percentage budget.
func (s *Service) UpdateCategory(ctx context.Context, categoryID string, userID int64, params UpdateParams) (*Category, error) {
	c, err := s.authorizeWrite(ctx, categoryID, userID)
	if err != nil {
		return nil, err
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	if params.BudgetPercentage != nil {
		if err := s.checkPercentageBudget(ctx, c.TripID, c.ID, *params.BudgetPercentage); err != nil {
			return nil, err
		}
	}

	return s.repo.Update(ctx, categoryID, params)
}

// DeleteCategory deletes a category. Categories that still have expenses
// cannot be deleted; expenses must be deleted or reassigned first.
func (s *Service) DeleteCategory(ctx context.Context, categoryID string, userID int64) error {
	c, err := s.authorizeWrite(ctx, categoryID, userID)
	if err != nil {
		return err
	}

	count, err := s.repo.CountExpenses(ctx, c.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d expenses assigned", ErrHasExpenses, count)
	}

	return s.repo.Delete(ctx, categoryID)
}

// Reorder rewrites the display order of a trip's categories. The provided
// IDs must be exactly the trip's category IDs.
func (s *Service) Reorder(ctx context.Context, tripID string, userID int64, orderedIDs []string) ([]*Category, error) {
	_, role, err := s.trips.GetTripForUser(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	if !trip.CanManage(role) {
		return nil, trip.ErrForbidden
	}

	existing, err := s.repo.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(orderedIDs) {
		return nil, ErrReorderMismatch
	}
	existingIDs := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		existingIDs[c.ID] = struct{}{}
	}
	for _, id := range orderedIDs {
		if _, ok := existingIDs[id]; !ok {
			return nil, ErrReorderMismatch
		}
		delete(existingIDs, id)
	}

	if err := s.repo.SetDisplayOrder(ctx, tripID, orderedIDs); err != nil {
		return nil, err
	}

	return s.repo.ListByTripID(ctx, tripID)
}

// authorizeWrite loads a category and verifies the user may manage its trip.
func (s *Service) authorizeWrite(ctx context.Context, categoryID string, userID int64) (*Category, error) {
	c, err := s.repo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}

	_, role, err := s.trips.GetTripForUser(ctx, c.TripID, userID)
	if err != nil {
		return nil, err
	}
	if !trip.CanManage(role) {
		return nil, trip.ErrForbidden
	}

	return c, nil
}

// checkPercentageBudget verifies that setting pct on a category (excluding
// excludeID from the existing sum) keeps the trip total at or below 100.
func (s *Service) checkPercentageBudget(ctx context.Context, tripID, excludeID string, pct decimal.Decimal) error {
	sum, err := s.repo.SumBudgetPercentage(ctx, tripID, excludeID)
	if err != nil {
		return err
	}
	if sum.Add(pct).GreaterThan(hundred) {
		return fmt.Errorf("%w: allocating %s%% would bring the total to %s%%", ErrPercentageExceeded, pct, sum.Add(pct))
	}
	return nil
}
