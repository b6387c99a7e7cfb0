package trip

import (
	"context"
	"errors"
	"log"
	"strings"

	"tripledger/internal/domain/currency"
)

// DefaultCategorySeeder creates the default category set for a new trip.
// Implemented by the category service; kept as an interface here to avoid
// a dependency from trips onto categories.
type DefaultCategorySeeder interface {
	SeedDefaults(ctx context.Context, tripID string) error
}

// Service contains the business logic for trip operations
type Service struct {
	repo   Repository
	seeder DefaultCategorySeeder
}

// NewService creates a new trip service
func NewService(repo Repository, seeder DefaultCategorySeeder) *Service {
	return &Service{repo: repo, seeder: seeder}
}

// CreateTrip creates a new trip owned by ownerID, derives whichever budget
// figure was omitted, and seeds the default categories.
func (s *Service) CreateTrip(ctx context.Context, params CreateParams, ownerID int64) (*Trip, error) {
	params.CurrencyCode = strings.ToUpper(params.CurrencyCode)
	params.Name = strings.TrimSpace(params.Name)

	if err := params.Validate(); err != nil {
		return nil, err
	}

	params.StartDate = DateOnly(params.StartDate)
	params.EndDate = DateOnly(params.EndDate)

	tripDays := daysBetween(params.StartDate, params.EndDate) + 1
	params.TotalBudget, params.DailyBudget = DeriveBudgets(params.TotalBudget, params.DailyBudget, tripDays)

	t, err := s.repo.Create(ctx, params, ownerID)
	if err != nil {
		return nil, err
	}

	if s.seeder != nil {
		if err := s.seeder.SeedDefaults(ctx, t.ID); err != nil {
			// The trip itself is valid; categories can be added manually.
			log.Printf("Failed to seed default categories for trip %s: %v", t.ID, err)
		}
	}

	return t, nil
}

// GetTrip retrieves a trip by ID and verifies the user is a member.
// Non-members get ErrTripNotFound rather than ErrForbidden so that trip
// existence is not leaked.
func (s *Service) GetTrip(ctx context.Context, tripID string, userID int64) (*Trip, error) {
	t, _, err := s.GetTripForUser(ctx, tripID, userID)
	return t, err
}

// GetTripForUser retrieves a trip together with the user's role in it.
func (s *Service) GetTripForUser(ctx context.Context, tripID string, userID int64) (*Trip, string, error) {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, "", err
	}
	if t == nil {
		return nil, "", ErrTripNotFound
	}

	m, err := s.repo.GetMember(ctx, tripID, userID)
	if err != nil {
		return nil, "", err
	}
	if m == nil {
		return nil, "", ErrTripNotFound
	}

	return t, m.Role, nil
}

// ListTrips retrieves all trips the user owns or is a member of.
func (s *Service) ListTrips(ctx context.Context, userID int64) ([]*Trip, error) {
	if userID <= 0 {
		return nil, errors.New("valid user ID is required")
	}
	return s.repo.ListByUserID(ctx, userID)
}

// UpdateTrip updates a trip after verifying the user may manage it.
// Changing dates or budget never rewrites historical per-day figures;
// statistics are recomputed from current data on demand.
func (s *Service) UpdateTrip(ctx context.Context, tripID string, userID int64, params UpdateParams) (*Trip, error) {
	t, role, err := s.GetTripForUser(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	if !CanManage(role) {
		return nil, ErrForbidden
	}

	start := DateOnly(t.StartDate)
	end := DateOnly(t.EndDate)
	if params.StartDate != nil {
		start = DateOnly(*params.StartDate)
		params.StartDate = &start
	}
	if params.EndDate != nil {
		end = DateOnly(*params.EndDate)
		params.EndDate = &end
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	if params.CurrencyCode != nil {
		upper := strings.ToUpper(*params.CurrencyCode)
		if !currency.IsValid(upper) {
			return nil, currency.ErrInvalidCurrency
		}
		params.CurrencyCode = &upper
	}

	// Re-derive the paired budget figure when dates or one budget change.
	if params.StartDate != nil || params.EndDate != nil || params.TotalBudget != nil || params.DailyBudget != nil {
		tripDays := daysBetween(start, end) + 1

		switch {
		case params.TotalBudget != nil && params.DailyBudget == nil:
			_, params.DailyBudget = DeriveBudgets(params.TotalBudget, nil, tripDays)
		case params.DailyBudget != nil && params.TotalBudget == nil:
			params.TotalBudget, _ = DeriveBudgets(nil, params.DailyBudget, tripDays)
		case params.TotalBudget == nil && params.DailyBudget == nil && t.TotalBudget != nil:
			// Dates moved with budgets untouched: keep the total, refresh the daily.
			params.TotalBudget, params.DailyBudget = DeriveBudgets(t.TotalBudget, nil, tripDays)
		}
	}

	return s.repo.Update(ctx, tripID, params)
}

// DeleteTrip deletes a trip. Only the owner may delete.
func (s *Service) DeleteTrip(ctx context.Context, tripID string, userID int64) error {
	t, _, err := s.GetTripForUser(ctx, tripID, userID)
	if err != nil {
		return err
	}
	if t.OwnerID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, tripID)
}

// ListMembers retrieves all members of a trip. Any member may list.
func (s *Service) ListMembers(ctx context.Context, tripID string, userID int64) ([]*Member, error) {
	if _, _, err := s.GetTripForUser(ctx, tripID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, tripID)
}

// AddMember adds a user to a trip with the member role.
func (s *Service) AddMember(ctx context.Context, tripID string, newUserID, currentUserID int64) (*Member, error) {
	_, role, err := s.GetTripForUser(ctx, tripID, currentUserID)
	if err != nil {
		return nil, err
	}
	if !CanManage(role) {
		return nil, ErrForbidden
	}

	existing, err := s.repo.GetMember(ctx, tripID, newUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	return s.repo.AddMember(ctx, tripID, newUserID, RoleMember)
}

// UpdateMemberRole changes a member's role. Only the owner may change roles,
// and the owner's own role is immutable.
func (s *Service) UpdateMemberRole(ctx context.Context, tripID string, memberUserID int64, newRole string, currentUserID int64) (*Member, error) {
	t, _, err := s.GetTripForUser(ctx, tripID, currentUserID)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != currentUserID {
		return nil, ErrForbidden
	}
	if t.OwnerID == memberUserID {
		return nil, ErrOwnerImmutable
	}
	if !IsValidRole(newRole) || newRole == RoleOwner {
		return nil, errors.New("invalid member role")
	}

	existing, err := s.repo.GetMember(ctx, tripID, memberUserID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotMember
	}

	return s.repo.UpdateMemberRole(ctx, tripID, memberUserID, newRole)
}

// RemoveMember removes a user from a trip. Owners and admins may remove
// members; the owner cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, tripID string, memberUserID, currentUserID int64) error {
	t, role, err := s.GetTripForUser(ctx, tripID, currentUserID)
	if err != nil {
		return err
	}
	if !CanManage(role) {
		return ErrForbidden
	}
	if t.OwnerID == memberUserID {
		return ErrOwnerImmutable
	}

	existing, err := s.repo.GetMember(ctx, tripID, memberUserID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotMember
	}

	return s.repo.RemoveMember(ctx, tripID, memberUserID)
}
