package category

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrInvalidColor       = errors.New("color must be a hex value like #FF5733")
	ErrInvalidPercentage  = errors.New("budget percentage must be between 0 and 100")
	ErrPercentageExceeded = errors.New("budget percentages for a trip must not exceed 100")
	ErrHasExpenses        = errors.New("cannot delete a category that has expenses")
	ErrReorderMismatch    = errors.New("category IDs must match exactly with the trip's categories")
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var hundred = decimal.NewFromInt(100)

// Category represents a budget category within a trip. Its share of the
// trip's daily budget is BudgetPercentage of the whole.
type Category struct {
	ID               string          `json:"id"`
	TripID           string          `json:"tripId"`
	Name             string          `json:"name"`
	Color            string          `json:"color"`
	Icon             string          `json:"icon"`
	BudgetPercentage decimal.Decimal `json:"budgetPercentage"`
	IsDefault        bool            `json:"isDefault"`
	DisplayOrder     int             `json:"displayOrder"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// DailyBudget returns this category's slice of the trip's daily budget.
func (c *Category) DailyBudget(tripDailyBudget decimal.Decimal) decimal.Decimal {
	return tripDailyBudget.Mul(c.BudgetPercentage).Div(hundred)
}

// CreateParams contains parameters for creating a new category
type CreateParams struct {
	Name             string
	Color            string
	Icon             string
	BudgetPercentage decimal.Decimal
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("category name is required")
	}
	if len(p.Name) > 100 {
		return errors.New("category name must be at most 100 characters")
	}
	if !hexColor.MatchString(p.Color) {
		return ErrInvalidColor
	}
	if p.BudgetPercentage.IsNegative() || p.BudgetPercentage.GreaterThan(hundred) {
		return ErrInvalidPercentage
	}
	return nil
}

// UpdateParams contains parameters for updating a category
type UpdateParams struct {
	Name             *string
	Color            *string
	Icon             *string
	BudgetPercentage *decimal.Decimal
}

// Validate validates the update parameters
func (p UpdateParams) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errors.New("category name must not be empty")
	}
	if p.Color != nil && !hexColor.MatchString(*p.Color) {
		return ErrInvalidColor
	}
	if p.BudgetPercentage != nil && (p.BudgetPercentage.IsNegative() || p.BudgetPercentage.GreaterThan(hundred)) {
		return ErrInvalidPercentage
	}
	return nil
}

// DefaultCategory describes one entry of the default category set
// seeded into every new trip.
type DefaultCategory struct {
	Name             string
	Color            string
	Icon             string
	BudgetPercentage decimal.Decimal
}

// DefaultCategories is the category set every new trip starts with.
var DefaultCategories = []DefaultCategory{
	{Name: "Accommodation", Color: "#3B82F6", Icon: "home", BudgetPercentage: decimal.NewFromInt(35)},
	{Name: "Transportation", Color: "#10B981", Icon: "car", BudgetPercentage: decimal.NewFromInt(20)},
	{Name: "Food & Dining", Color: "#F59E0B", Icon: "utensils", BudgetPercentage: decimal.NewFromInt(25)},
	{Name: "Activities", Color: "#8B5CF6", Icon: "ticket", BudgetPercentage: decimal.NewFromInt(15)},
	{Name: "Shopping", Color: "#EC4899", Icon: "shopping-bag", BudgetPercentage: decimal.NewFromInt(5)},
	{Name: "Health & Medical", Color: "#EF4444", Icon: "heart-pulse", BudgetPercentage: decimal.Zero},
	{Name: "Entertainment", Color: "#06B6D4", Icon: "music", BudgetPercentage: decimal.Zero},
	{Name: "Other", Color: "#6B7280", Icon: "more-horizontal", BudgetPercentage: decimal.Zero},
}
