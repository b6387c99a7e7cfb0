package stats

import (
	"testing"
	"time"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewDayCursor_InitialState(t *testing.T) {
	tr := testTrip() // 2025-11-10 to 2025-11-20

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{name: "Today Inside Trip", now: date(2025, 11, 15), want: date(2025, 11, 15)},
		{name: "Before Trip Clamps To Start", now: date(2025, 11, 1), want: date(2025, 11, 10)},
		{name: "After Trip Clamps To End", now: date(2025, 12, 1), want: date(2025, 11, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewDayCursor(tr, fixedNow(tt.now))
			if !c.Selected().Equal(tt.want) {
				t.Errorf("Selected() = %s, want %s", c.Selected().Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestDayCursor_BoundaryNoOps(t *testing.T) {
	tr := testTrip()

	c := NewDayCursor(tr, fixedNow(date(2025, 11, 15)))

	c.GoToStart()
	if got := c.Prev(); !got.Equal(date(2025, 11, 10)) {
		t.Errorf("Prev() at start = %s, want no-op at 2025-11-10", got.Format("2006-01-02"))
	}
	if !c.IsAtTripStart() {
		t.Error("IsAtTripStart() = false at trip start")
	}

	c.GoToEnd()
	if got := c.Next(); !got.Equal(date(2025, 11, 20)) {
		t.Errorf("Next() at end = %s, want no-op at 2025-11-20", got.Format("2006-01-02"))
	}
	if !c.IsAtTripEnd() {
		t.Error("IsAtTripEnd() = false at trip end")
	}
}

func TestDayCursor_Stepping(t *testing.T) {
	c := NewDayCursor(testTrip(), fixedNow(date(2025, 11, 15)))

	if got := c.Next(); !got.Equal(date(2025, 11, 16)) {
		t.Errorf("Next() = %s, want 2025-11-16", got.Format("2006-01-02"))
	}
	if got := c.Prev(); !got.Equal(date(2025, 11, 15)) {
		t.Errorf("Prev() = %s, want 2025-11-15", got.Format("2006-01-02"))
	}
}

func TestDayCursor_GoToToday(t *testing.T) {
	c := NewDayCursor(testTrip(), fixedNow(date(2025, 11, 15)))
	c.GoToEnd()

	if got := c.GoToToday(); !got.Equal(date(2025, 11, 15)) {
		t.Errorf("GoToToday() = %s, want 2025-11-15", got.Format("2006-01-02"))
	}

	// With today past the trip, GoToToday clamps to the end boundary.
	c2 := NewDayCursor(testTrip(), fixedNow(date(2025, 12, 25)))
	c2.GoToStart()
	if got := c2.GoToToday(); !got.Equal(date(2025, 11, 20)) {
		t.Errorf("GoToToday() = %s, want clamped 2025-11-20", got.Format("2006-01-02"))
	}
}

func TestDayCursor_IsTodayInTripRange(t *testing.T) {
	if !NewDayCursor(testTrip(), fixedNow(date(2025, 11, 10))).IsTodayInTripRange() {
		t.Error("IsTodayInTripRange() = false on the first trip day")
	}
	if !NewDayCursor(testTrip(), fixedNow(date(2025, 11, 20))).IsTodayInTripRange() {
		t.Error("IsTodayInTripRange() = false on the last trip day")
	}
	if NewDayCursor(testTrip(), fixedNow(date(2025, 11, 21))).IsTodayInTripRange() {
		t.Error("IsTodayInTripRange() = true the day after the trip ends")
	}
}
