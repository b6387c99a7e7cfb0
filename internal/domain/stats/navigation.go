package stats

import (
	"time"

	"tripledger/internal/domain/trip"
)

// DayCursor tracks the currently viewed day of a trip, always clamped to
// the trip's date range. Transitions never fail; stepping past a boundary
// is a no-op. The clock is injected so tests can pin "today".
type DayCursor struct {
	start    time.Time
	end      time.Time
	selected time.Time
	now      func() time.Time
}

// NewDayCursor creates a cursor positioned on today when today falls
// inside the trip, otherwise on the nearest trip boundary.
func NewDayCursor(t *trip.Trip, now func() time.Time) *DayCursor {
	if now == nil {
		now = time.Now
	}
	c := &DayCursor{
		start: trip.DateOnly(t.StartDate),
		end:   trip.DateOnly(t.EndDate),
		now:   now,
	}
	c.GoToToday()
	return c
}

// Selected returns the currently viewed day.
func (c *DayCursor) Selected() time.Time {
	return c.selected
}

// Next advances one day, stopping at the trip end.
func (c *DayCursor) Next() time.Time {
	if !c.selected.Equal(c.end) {
		c.selected = c.selected.AddDate(0, 0, 1)
	}
	return c.selected
}

// Prev steps back one day, stopping at the trip start.
func (c *DayCursor) Prev() time.Time {
	if !c.selected.Equal(c.start) {
		c.selected = c.selected.AddDate(0, 0, -1)
	}
	return c.selected
}

// GoToToday moves to today clamped into the trip range.
func (c *DayCursor) GoToToday() time.Time {
	c.selected = c.clamp(trip.DateOnly(c.now()))
	return c.selected
}

// GoToStart moves to the first day of the trip.
func (c *DayCursor) GoToStart() time.Time {
	c.selected = c.start
	return c.selected
}

// GoToEnd moves to the last day of the trip.
func (c *DayCursor) GoToEnd() time.Time {
	c.selected = c.end
	return c.selected
}

// IsAtTripStart reports whether the cursor sits on the first trip day.
func (c *DayCursor) IsAtTripStart() bool {
	return c.selected.Equal(c.start)
}

// IsAtTripEnd reports whether the cursor sits on the last trip day.
func (c *DayCursor) IsAtTripEnd() bool {
	return c.selected.Equal(c.end)
}

// IsTodayInTripRange reports whether today falls inside the trip.
func (c *DayCursor) IsTodayInTripRange() bool {
	today := trip.DateOnly(c.now())
	return !today.Before(c.start) && !today.After(c.end)
}

func (c *DayCursor) clamp(d time.Time) time.Time {
	if d.Before(c.start) {
		return c.start
	}
	if d.After(c.end) {
		return c.end
	}
	return d
}
