package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"tripledger/internal/domain/trip"
)

// Display statuses for a single trip day.
const (
	StatusNotStarted = "Not Started"
	StatusOverBudget = "Over Budget"
	StatusWarning    = "Warning"
	StatusCompleted  = "Completed"
	StatusOnTrack    = "On Track"
)

var warningThreshold = decimal.NewFromInt(80)

// Classify labels one day's statistics relative to today. Budget state
// outranks temporal position: a future day with a pre-logged overspend
// reports Over Budget, not Not Started.
func Classify(s *DailyBudgetStatistics, today time.Time) string {
	d := trip.DateOnly(s.Date)
	now := trip.DateOnly(today)

	if d.After(now) && s.ExpenseCountToday == 0 {
		return StatusNotStarted
	}
	if s.IsOverBudget {
		return StatusOverBudget
	}
	if s.PercentageUsedToday.GreaterThanOrEqual(warningThreshold) {
		return StatusWarning
	}
	if d.Before(now) {
		return StatusCompleted
	}
	return StatusOnTrack
}
