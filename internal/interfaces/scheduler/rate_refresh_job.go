package scheduler

import (
	"context"
	"fmt"
	"log"
)

// RateRefresher refreshes stored exchange rates for a set of currency pairs.
type RateRefresher interface {
	Refresh(ctx context.Context, pairs [][2]string) error
}

// PairSource lists the currency pairs currently in use.
type PairSource interface {
	ActivePairs(ctx context.Context) ([][2]string, error)
}

// RateRefreshJob implements the Job interface for refreshing the exchange
// rate of a single currency pair.
type RateRefreshJob struct {
	from      string
	to        string
	refresher RateRefresher
}

// NewRateRefreshJob creates a new rate refresh job for a currency pair.
func NewRateRefreshJob(from, to string, refresher RateRefresher) *RateRefreshJob {
	return &RateRefreshJob{
		from:      from,
		to:        to,
		refresher: refresher,
	}
}

// Execute runs the rate refresh job.
func (j *RateRefreshJob) Execute(ctx context.Context) error {
	log.Printf("Starting rate refresh for %s/%s", j.from, j.to)

	if err := j.refresher.Refresh(ctx, [][2]string{{j.from, j.to}}); err != nil {
		log.Printf("Rate refresh failed for %s/%s: %v", j.from, j.to, err)
		return fmt.Errorf("refresh failed: %w", err)
	}

	log.Printf("Rate refresh for %s/%s completed successfully", j.from, j.to)
	return nil
}

// Key returns the currency pair this job refreshes.
func (j *RateRefreshJob) Key() string {
	return j.from + "/" + j.to
}

// Description returns a human-readable description of the job.
func (j *RateRefreshJob) Description() string {
	return fmt.Sprintf("Exchange rate refresh for %s/%s", j.from, j.to)
}

// RateRefreshJobProvider builds the job batch for a scheduler run. It lists
// the currency pairs active across all trips and produces one refresh job
// per pair.
func RateRefreshJobProvider(pairs PairSource, refresher RateRefresher) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		active, err := pairs.ActivePairs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list active currency pairs: %w", err)
		}

		jobs := make([]Job, 0, len(active))
		for _, p := range active {
			jobs = append(jobs, NewRateRefreshJob(p[0], p[1], refresher))
		}
		return jobs, nil
	}
}
