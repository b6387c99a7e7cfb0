package trip

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tripledger/internal/domain/currency"
)

// Member roles, in decreasing order of privilege.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// Domain errors
var (
	ErrTripNotFound     = errors.New("trip not found")
	ErrForbidden        = errors.New("access forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidDateRange = errors.New("start date must be before or equal to end date")
	ErrAlreadyMember    = errors.New("user is already a member of this trip")
	ErrNotMember        = errors.New("user is not a member of this trip")
	ErrOwnerImmutable   = errors.New("trip owner cannot be removed or demoted")
)

// Trip represents a travel trip with a budget in a single trip currency.
// All budget figures and statistics are expressed in CurrencyCode.
type Trip struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	StartDate    time.Time        `json:"startDate"`
	EndDate      time.Time        `json:"endDate"`
	CurrencyCode string           `json:"currencyCode"`
	TotalBudget  *decimal.Decimal `json:"totalBudget"`
	DailyBudget  *decimal.Decimal `json:"dailyBudget"`
	OwnerID      int64            `json:"ownerId"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// Member is a user's membership in a trip.
type Member struct {
	ID       string    `json:"id"`
	TripID   string    `json:"tripId"`
	UserID   int64     `json:"userId"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// DateOnly truncates t to midnight UTC so day arithmetic stays integral.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TotalDays returns the inclusive number of calendar days in the trip.
func (t *Trip) TotalDays() int {
	return daysBetween(t.StartDate, t.EndDate) + 1
}

// Contains reports whether d falls within the trip's date range, inclusive.
func (t *Trip) Contains(d time.Time) bool {
	d = DateOnly(d)
	return !d.Before(DateOnly(t.StartDate)) && !d.After(DateOnly(t.EndDate))
}

// Clamp returns d constrained to the trip's date range.
func (t *Trip) Clamp(d time.Time) time.Time {
	d = DateOnly(d)
	if start := DateOnly(t.StartDate); d.Before(start) {
		return start
	}
	if end := DateOnly(t.EndDate); d.After(end) {
		return end
	}
	return d
}

// DayIndex returns the 1-based position of d within the trip
// (the trip's first day is 1).
func (t *Trip) DayIndex(d time.Time) int {
	return daysBetween(t.StartDate, d) + 1
}

func daysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// CreateParams contains parameters for creating a new trip
type CreateParams struct {
	Name         string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	CurrencyCode string
	TotalBudget  *decimal.Decimal
	DailyBudget  *decimal.Decimal
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: trip name is required", ErrInvalidInput)
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if DateOnly(p.EndDate).Before(DateOnly(p.StartDate)) {
		return ErrInvalidDateRange
	}
	if !currency.IsValid(strings.ToUpper(p.CurrencyCode)) {
		return currency.ErrInvalidCurrency
	}
	if p.TotalBudget != nil && p.TotalBudget.IsNegative() {
		return fmt.Errorf("%w: total budget must not be negative", ErrInvalidInput)
	}
	if p.DailyBudget != nil && p.DailyBudget.IsNegative() {
		return fmt.Errorf("%w: daily budget must not be negative", ErrInvalidInput)
	}
	return nil
}

// UpdateParams contains parameters for updating a trip
type UpdateParams struct {
	Name         *string
	Description  *string
	StartDate    *time.Time
	EndDate      *time.Time
	CurrencyCode *string
	TotalBudget  *decimal.Decimal
	DailyBudget  *decimal.Decimal
}

// DeriveBudgets fills in whichever of total/daily budget was omitted, given
// the inclusive trip length. When the total is provided the daily budget is
// total divided by trip days, rounded to currency precision; when the daily
// budget is provided the total is daily times trip days. When both or neither
// are provided they are left untouched.
func DeriveBudgets(totalBudget, dailyBudget *decimal.Decimal, tripDays int) (total, daily *decimal.Decimal) {
	if tripDays <= 0 {
		return totalBudget, dailyBudget
	}

	switch {
	case totalBudget != nil && dailyBudget == nil:
		d := totalBudget.Div(decimal.NewFromInt(int64(tripDays))).Round(2)
		return totalBudget, &d
	case dailyBudget != nil && totalBudget == nil:
		t := dailyBudget.Mul(decimal.NewFromInt(int64(tripDays)))
		return &t, dailyBudget
	default:
		return totalBudget, dailyBudget
	}
}

// CanManage reports whether the role may modify the trip itself
// (dates, budget, members).
func CanManage(role string) bool {
	return role == RoleOwner || role == RoleAdmin
}

// CanEdit reports whether the role may create, update, or delete expenses.
func CanEdit(role string) bool {
	return role == RoleOwner || role == RoleAdmin || role == RoleMember
}

// IsValidRole checks if the provided role is one of the known member roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}
