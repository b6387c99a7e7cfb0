package stats

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tripledger/internal/domain/category"
	"tripledger/internal/domain/expense"
	"tripledger/internal/domain/trip"
)

// ErrDateOutOfRange is returned when statistics are requested for a date
// outside the trip's span. Callers are expected to clamp via DayCursor.
var ErrDateOutOfRange = errors.New("date is outside the trip's date range")

var hundred = decimal.NewFromInt(100)

// CategoryDayStatistics is one category's slice of a single day.
type CategoryDayStatistics struct {
	CategoryID      string          `json:"categoryId"`
	Name            string          `json:"name"`
	Color           string          `json:"color"`
	Icon            string          `json:"icon"`
	DailyBudget     decimal.Decimal `json:"dailyBudget"`
	TotalSpent      decimal.Decimal `json:"totalSpent"`
	RemainingBudget decimal.Decimal `json:"remainingBudget"`
	ExpenseCount    int             `json:"expenseCount"`
}

// DailyBudgetStatistics is the full picture for one day of a trip. It is
// derived on demand and never stored.
type DailyBudgetStatistics struct {
	Date                time.Time               `json:"date"`
	DailyBudget         decimal.Decimal         `json:"dailyBudget"`
	AdjustedDailyBudget decimal.Decimal         `json:"adjustedDailyBudget"`
	CumulativeSavings   decimal.Decimal         `json:"cumulativeSavings"`
	TotalSpentToday     decimal.Decimal         `json:"totalSpentToday"`
	RemainingToday      decimal.Decimal         `json:"remainingToday"`
	PercentageUsedToday decimal.Decimal         `json:"percentageUsedToday"`
	ExpenseCountToday   int                     `json:"expenseCountToday"`
	ByCategoryToday     []CategoryDayStatistics `json:"byCategoryToday"`
	IsOverBudget        bool                    `json:"isOverBudget"`
	DaysIntoTrip        int                     `json:"daysIntoTrip"`
	TotalDays           int                     `json:"totalDays"`
}

// DayTotals is the minimal per-day aggregate needed for rollover.
type DayTotals struct {
	Spent decimal.Decimal
	Count int
}

// SpentOn sums every expense's contribution to one day.
func SpentOn(expenses []*expense.Expense, date time.Time) DayTotals {
	totals := DayTotals{Spent: decimal.Zero}
	for _, e := range expenses {
		c := e.ContributionOn(date)
		if c.IsZero() {
			continue
		}
		totals.Spent = totals.Spent.Add(c)
		totals.Count++
	}
	return totals
}

// Compute builds the full statistics for one day of a trip.
//
// Rollover is an explicit forward scan from the trip start: each prior
// day contributes (daily budget - that day's spend) to a running savings
// total, savings and overspends alike, with no floor. A large early
// overspend can push a later adjusted budget below zero; that is the
// model, a single rolling allowance rather than independent day buckets.
//
// The dayTotals lookup supplies per-day spend; pass SpentOn over the
// trip's expense set, or a memoized wrapper of it.
func Compute(t *trip.Trip, categories []*category.Category, expenses []*expense.Expense, date time.Time, dayTotals func(time.Time) DayTotals) (*DailyBudgetStatistics, error) {
	d := trip.DateOnly(date)
	if !t.Contains(d) {
		return nil, fmt.Errorf("%w: %s not in [%s, %s]", ErrDateOutOfRange,
			d.Format("2006-01-02"), t.StartDate.Format("2006-01-02"), t.EndDate.Format("2006-01-02"))
	}

	dailyBudget := decimal.Zero
	if t.DailyBudget != nil {
		dailyBudget = *t.DailyBudget
	}

	if dayTotals == nil {
		dayTotals = func(day time.Time) DayTotals {
			return SpentOn(expenses, day)
		}
	}

	savings := decimal.Zero
	for day := trip.DateOnly(t.StartDate); day.Before(d); day = day.AddDate(0, 0, 1) {
		savings = savings.Add(dailyBudget.Sub(dayTotals(day).Spent))
	}

	today := dayTotals(d)
	adjusted := dailyBudget.Add(savings)
	remaining := adjusted.Sub(today.Spent)

	return &DailyBudgetStatistics{
		Date:                d,
		DailyBudget:         dailyBudget,
		AdjustedDailyBudget: adjusted,
		CumulativeSavings:   savings,
		TotalSpentToday:     today.Spent,
		RemainingToday:      remaining,
		PercentageUsedToday: percentageUsed(today.Spent, adjusted),
		ExpenseCountToday:   today.Count,
		ByCategoryToday:     byCategory(categories, expenses, d, dailyBudget),
		IsOverBudget:        today.Spent.GreaterThan(adjusted),
		DaysIntoTrip:        t.DayIndex(d),
		TotalDays:           t.TotalDays(),
	}, nil
}

// percentageUsed guards the division: when the adjusted budget is zero or
// negative there is nothing to divide by, so any spending at all reports
// the 100% sentinel and no spending reports zero.
func percentageUsed(spent, adjusted decimal.Decimal) decimal.Decimal {
	if adjusted.IsPositive() {
		return spent.Div(adjusted).Mul(hundred)
	}
	if spent.IsPositive() {
		return hundred
	}
	return decimal.Zero
}

// byCategory groups the day's contributions by category. Categories with
// no spending still appear so the caller can render the full breakdown.
func byCategory(categories []*category.Category, expenses []*expense.Expense, d time.Time, dailyBudget decimal.Decimal) []CategoryDayStatistics {
	out := make([]CategoryDayStatistics, 0, len(categories))
	index := make(map[string]int, len(categories))

	for _, c := range categories {
		index[c.ID] = len(out)
		budget := c.DailyBudget(dailyBudget)
		out = append(out, CategoryDayStatistics{
			CategoryID:      c.ID,
			Name:            c.Name,
			Color:           c.Color,
			Icon:            c.Icon,
			DailyBudget:     budget,
			TotalSpent:      decimal.Zero,
			RemainingBudget: budget,
		})
	}

	for _, e := range expenses {
		contribution := e.ContributionOn(d)
		if contribution.IsZero() {
			continue
		}
		i, ok := index[e.CategoryID]
		if !ok {
			continue
		}
		out[i].TotalSpent = out[i].TotalSpent.Add(contribution)
		out[i].RemainingBudget = out[i].DailyBudget.Sub(out[i].TotalSpent)
		out[i].ExpenseCount++
	}

	return out
}
