package stats

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	today := date(2025, 11, 15)

	tests := []struct {
		name  string
		stats *DailyBudgetStatistics
		want  string
	}{
		{
			name: "Future Without Expenses",
			stats: &DailyBudgetStatistics{
				Date: date(2025, 11, 18), AdjustedDailyBudget: dec("100"),
			},
			want: StatusNotStarted,
		},
		{
			name: "Future With Pre-Logged Overspend",
			stats: &DailyBudgetStatistics{
				Date: date(2025, 11, 18), AdjustedDailyBudget: dec("100"),
				TotalSpentToday: dec("150"), ExpenseCountToday: 1, IsOverBudget: true,
				PercentageUsedToday: dec("150"),
			},
			want: StatusOverBudget,
		},
		{
			name: "Today Over Budget",
			stats: &DailyBudgetStatistics{
				Date: today, AdjustedDailyBudget: dec("100"),
				TotalSpentToday: dec("120"), ExpenseCountToday: 2, IsOverBudget: true,
				PercentageUsedToday: dec("120"),
			},
			want: StatusOverBudget,
		},
		{
			name: "Today In Warning Band",
			stats: &DailyBudgetStatistics{
				Date: today, AdjustedDailyBudget: dec("100"),
				TotalSpentToday: dec("85"), ExpenseCountToday: 1,
				PercentageUsedToday: dec("85"),
			},
			want: StatusWarning,
		},
		{
			name: "Warning Threshold Exact",
			stats: &DailyBudgetStatistics{
				Date: today, AdjustedDailyBudget: dec("100"),
				TotalSpentToday: dec("80"), ExpenseCountToday: 1,
				PercentageUsedToday: dec("80"),
			},
			want: StatusWarning,
		},
		{
			name: "Past Under Budget",
			stats: &DailyBudgetStatistics{
				Date: date(2025, 11, 12), AdjustedDailyBudget: dec("100"),
				TotalSpentToday: dec("30"), ExpenseCountToday: 1,
				PercentageUsedToday: dec("30"),
			},
			want: StatusCompleted,
		},
		{
			name: "Past Over Budget Outranks Completed",
			stats: &DailyBudgetStatistics{
				Date: date(2025, 11, 12), AdjustedDailyBudget: dec("100"),
				TotalSpentToday: dec("130"), ExpenseCountToday: 1, IsOverBudget: true,
				PercentageUsedToday: dec("130"),
			},
			want: StatusOverBudget,
		},
		{
			name: "Today Under Budget",
			stats: &DailyBudgetStatistics{
				Date: today, AdjustedDailyBudget: dec("100"),
				TotalSpentToday: dec("30"), ExpenseCountToday: 1,
				PercentageUsedToday: dec("30"),
			},
			want: StatusOnTrack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.stats, today); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify_NormalizesTimeOfDay(t *testing.T) {
	// A wall-clock "now" late in the day still classifies that calendar
	// day as today, not the past.
	now := time.Date(2025, 11, 15, 23, 45, 0, 0, time.UTC)
	s := &DailyBudgetStatistics{
		Date: date(2025, 11, 15), AdjustedDailyBudget: dec("100"),
		TotalSpentToday: dec("30"), ExpenseCountToday: 1,
		PercentageUsedToday: dec("30"),
	}
	if got := Classify(s, now); got != StatusOnTrack {
		t.Errorf("Classify() = %q, want %q", got, StatusOnTrack)
	}
}
