package expense

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tripledger/internal/domain/trip"
)

// Domain errors
var (
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrCategoryMismatch = errors.New("category does not belong to the trip")
)

// Expense represents a single spend logged against a trip. Amount and
// ExchangeRate are captured once at write time; AmountInTripCurrency is
// their frozen product and is never recomputed from later rates.
type Expense struct {
	ID                   string          `json:"id"`
	TripID               string          `json:"tripId"`
	CategoryID           string          `json:"categoryId"`
	Title                string          `json:"title"`
	Description          string          `json:"description,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	CurrencyCode         string          `json:"currencyCode"`
	ExchangeRate         decimal.Decimal `json:"exchangeRate"`
	AmountInTripCurrency decimal.Decimal `json:"amountInTripCurrency"`
	StartDate            time.Time       `json:"startDate"`
	EndDate              *time.Time      `json:"endDate,omitempty"`
	PaymentMethod        string          `json:"paymentMethod,omitempty"`
	Location             string          `json:"location,omitempty"`
	Notes                string          `json:"notes,omitempty"`
	CreatedBy            int64           `json:"createdBy"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// lastDate returns the expense's effective end date. A nil EndDate means
// a single-day expense ending on StartDate.
func (e *Expense) lastDate() time.Time {
	if e.EndDate == nil {
		return e.StartDate
	}
	return *e.EndDate
}

// DayCount returns the inclusive number of days the expense spans.
// A single-day expense has a day count of 1.
func (e *Expense) DayCount() int {
	return int(e.lastDate().Sub(e.StartDate).Hours()/24) + 1
}

// ContributionOn returns the expense's share attributed to one calendar
// day: the frozen trip-currency amount divided evenly across the days it
// spans, or zero when the date falls outside the span. The division keeps
// full decimal precision; rounding is left to display.
func (e *Expense) ContributionOn(date time.Time) decimal.Decimal {
	d := trip.DateOnly(date)
	if d.Before(trip.DateOnly(e.StartDate)) || d.After(trip.DateOnly(e.lastDate())) {
		return decimal.Zero
	}
	return e.AmountInTripCurrency.Div(decimal.NewFromInt(int64(e.DayCount())))
}

// CreateParams contains parameters for creating a new expense
type CreateParams struct {
	CategoryID    string
	Title         string
	Description   string
	Amount        decimal.Decimal
	CurrencyCode  string
	StartDate     time.Time
	EndDate       *time.Time
	PaymentMethod string
	Location      string
	Notes         string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("expense title is required")
	}
	if p.CategoryID == "" {
		return errors.New("category is required")
	}
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	if p.EndDate != nil && trip.DateOnly(*p.EndDate).Before(trip.DateOnly(p.StartDate)) {
		return ErrInvalidDateRange
	}
	return nil
}

// UpdateParams contains parameters for updating an expense. Nil fields
// are left unchanged. ClearEndDate collapses a multi-day expense back to
// a single day.
type UpdateParams struct {
	CategoryID    *string
	Title         *string
	Description   *string
	Amount        *decimal.Decimal
	CurrencyCode  *string
	StartDate     *time.Time
	EndDate       *time.Time
	ClearEndDate  bool
	PaymentMethod *string
	Location      *string
	Notes         *string
}

// Validate validates the update parameters
func (p UpdateParams) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return errors.New("expense title must not be empty")
	}
	if p.Amount != nil && !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// ListFilter narrows an expense listing. An expense matches the date
// window when its own span overlaps [From, To]. Limit zero means no
// pagination.
type ListFilter struct {
	CategoryID    string
	CreatedBy     int64
	PaymentMethod string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}
