package exchangerate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"tripledger/internal/domain/currency"
	"tripledger/internal/domain/trip"
)

// RateStore is the persistence surface for historical rates.
type RateStore interface {
	GetRate(ctx context.Context, from, to string, on time.Time) (*decimal.Decimal, error)
	SaveRate(ctx context.Context, from, to string, rate decimal.Decimal, on time.Time) error
}

// Service resolves exchange rates for a currency pair and date. It
// implements currency.RateSource.
//
// Resolution order: the stored rate for the pair and date, the inverse
// of a stored reverse-pair rate, a fresh fetch for that date (persisted
// for next time), and finally a fetch of today's rate when the provider
// has nothing for the requested date.
type Service struct {
	store  RateStore
	client ClientInterface
	now    func() time.Time
}

var _ currency.RateSource = (*Service)(nil)

// NewService creates a new exchange rate service. The clock defaults to
// time.Now when nil.
func NewService(store RateStore, client ClientInterface, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, client: client, now: now}
}

// Rate returns the exchange rate from one currency to another on a date.
func (s *Service) Rate(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error) {
	day := trip.DateOnly(on)

	stored, err := s.store.GetRate(ctx, from, to, day)
	if err != nil {
		return decimal.Zero, err
	}
	if stored != nil {
		return *stored, nil
	}

	reverse, err := s.store.GetRate(ctx, to, from, day)
	if err != nil {
		return decimal.Zero, err
	}
	if reverse != nil && reverse.IsPositive() {
		return currency.One.Div(*reverse), nil
	}

	rate, err := s.client.GetRate(ctx, from, to, day)
	if err == nil {
		if saveErr := s.store.SaveRate(ctx, from, to, rate, day); saveErr != nil {
			log.Printf("Failed to persist %s/%s rate for %s: %v", from, to, day.Format("2006-01-02"), saveErr)
		}
		return rate, nil
	}

	// The provider may not publish rates for the requested date yet.
	// Fall back to today's rate so the expense write can still succeed.
	today := trip.DateOnly(s.now())
	if !today.Equal(day) {
		rate, todayErr := s.client.GetRate(ctx, from, to, today)
		if todayErr == nil {
			if saveErr := s.store.SaveRate(ctx, from, to, rate, day); saveErr != nil {
				log.Printf("Failed to persist %s/%s rate for %s: %v", from, to, day.Format("2006-01-02"), saveErr)
			}
			return rate, nil
		}
	}

	return decimal.Zero, fmt.Errorf("failed to fetch %s/%s rate for %s: %w", from, to, day.Format("2006-01-02"), err)
}

// Refresh fetches and stores today's rate for each pair. The scheduler
// runs this daily so expense writes rarely need a live fetch.
func (s *Service) Refresh(ctx context.Context, pairs [][2]string) error {
	today := trip.DateOnly(s.now())

	var failed int
	for _, p := range pairs {
		rate, err := s.client.GetRate(ctx, p[0], p[1], today)
		if err != nil {
			log.Printf("Failed to refresh %s/%s rate: %v", p[0], p[1], err)
			failed++
			continue
		}
		if err := s.store.SaveRate(ctx, p[0], p[1], rate, today); err != nil {
			log.Printf("Failed to store %s/%s rate: %v", p[0], p[1], err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to refresh %d of %d currency pairs", failed, len(pairs))
	}
	return nil
}
