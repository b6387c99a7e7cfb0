package stats

import (
	"sync"
	"time"
)

// dayTotalsCache memoizes per-day spend totals keyed by trip. The forward
// rollover scan touches every prior trip day, so without memoization a
// request for day N costs O(N) proration passes. Entries for a trip are
// dropped wholesale on any expense write; stale days must be recomputed,
// never served.
type dayTotalsCache struct {
	mu    sync.RWMutex
	trips map[string]map[time.Time]DayTotals
}

func newDayTotalsCache() *dayTotalsCache {
	return &dayTotalsCache{trips: make(map[string]map[time.Time]DayTotals)}
}

func (c *dayTotalsCache) get(tripID string, day time.Time) (DayTotals, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	days, ok := c.trips[tripID]
	if !ok {
		return DayTotals{}, false
	}
	t, ok := days[day]
	return t, ok
}

func (c *dayTotalsCache) put(tripID string, day time.Time, t DayTotals) {
	c.mu.Lock()
	defer c.mu.Unlock()
	days, ok := c.trips[tripID]
	if !ok {
		days = make(map[time.Time]DayTotals)
		c.trips[tripID] = days
	}
	days[day] = t
}

// Invalidate drops all memoized days for a trip. Satisfies the expense
// service's write hook.
func (c *dayTotalsCache) Invalidate(tripID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.trips, tripID)
}
