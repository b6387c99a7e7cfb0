package expense

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDayCount(t *testing.T) {
	single := &Expense{StartDate: date(2025, 11, 5)}
	if got := single.DayCount(); got != 1 {
		t.Errorf("DayCount() single-day = %d, want 1", got)
	}

	multi := &Expense{StartDate: date(2025, 11, 5), EndDate: datePtr(2025, 11, 7)}
	if got := multi.DayCount(); got != 3 {
		t.Errorf("DayCount() 11-05 to 11-07 = %d, want 3", got)
	}
}

func TestContributionOn(t *testing.T) {
	tests := []struct {
		name    string
		expense *Expense
		date    time.Time
		want    string
	}{
		{
			name: "Single Day Match",
			expense: &Expense{
				AmountInTripCurrency: dec("30"),
				StartDate:            date(2025, 11, 2),
			},
			date: date(2025, 11, 2),
			want: "30",
		},
		{
			name: "Single Day Miss",
			expense: &Expense{
				AmountInTripCurrency: dec("30"),
				StartDate:            date(2025, 11, 2),
			},
			date: date(2025, 11, 3),
			want: "0",
		},
		{
			name: "Three Day Spread",
			expense: &Expense{
				AmountInTripCurrency: dec("450"),
				StartDate:            date(2025, 11, 5),
				EndDate:              datePtr(2025, 11, 7),
			},
			date: date(2025, 11, 6),
			want: "150",
		},
		{
			name: "Before Span",
			expense: &Expense{
				AmountInTripCurrency: dec("450"),
				StartDate:            date(2025, 11, 5),
				EndDate:              datePtr(2025, 11, 7),
			},
			date: date(2025, 11, 4),
			want: "0",
		},
		{
			name: "After Span",
			expense: &Expense{
				AmountInTripCurrency: dec("450"),
				StartDate:            date(2025, 11, 5),
				EndDate:              datePtr(2025, 11, 7),
			},
			date: date(2025, 11, 8),
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.expense.ContributionOn(tt.date)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("ContributionOn(%s) = %s, want %s", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

// Daily shares of a multi-day expense must add back up to the frozen
// trip-currency amount even when the day count does not divide it evenly.
func TestContributionConservation(t *testing.T) {
	e := &Expense{
		AmountInTripCurrency: dec("100"),
		StartDate:            date(2025, 11, 10),
		EndDate:              datePtr(2025, 11, 16), // 7 days, 100/7 is not exact
	}

	sum := decimal.Zero
	for d := e.StartDate; !d.After(*e.EndDate); d = d.AddDate(0, 0, 1) {
		sum = sum.Add(e.ContributionOn(d))
	}

	diff := sum.Sub(e.AmountInTripCurrency).Abs()
	if diff.GreaterThan(dec("0.0000000001")) {
		t.Errorf("sum of daily contributions = %s, want %s within epsilon", sum, e.AmountInTripCurrency)
	}
}

func TestCreateParamsValidate(t *testing.T) {
	valid := CreateParams{
		CategoryID:   "cat-1",
		Title:        "Hotel",
		Amount:       dec("450"),
		CurrencyCode: "USD",
		StartDate:    date(2025, 11, 5),
		EndDate:      datePtr(2025, 11, 7),
	}

	tests := []struct {
		name    string
		mutate  func(p *CreateParams)
		wantErr error
	}{
		{name: "Valid", mutate: func(p *CreateParams) {}},
		{name: "Single Day Valid", mutate: func(p *CreateParams) { p.EndDate = nil }},
		{name: "Zero Amount", mutate: func(p *CreateParams) { p.Amount = decimal.Zero }, wantErr: ErrInvalidAmount},
		{name: "Negative Amount", mutate: func(p *CreateParams) { p.Amount = dec("-1") }, wantErr: ErrInvalidAmount},
		{name: "End Before Start", mutate: func(p *CreateParams) { p.EndDate = datePtr(2025, 11, 4) }, wantErr: ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
