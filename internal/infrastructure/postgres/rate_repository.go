package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateRepository stores historical exchange rates, one row per
// (from, to, date) pair.
type RateRepository struct {
	db *DB
}

func NewRateRepository(db *DB) *RateRepository {
	return &RateRepository{db: db}
}

// GetRate returns the stored rate for a pair on a date, or nil when no
// row exists.
func (r *RateRepository) GetRate(ctx context.Context, from, to string, on time.Time) (*decimal.Decimal, error) {
	query := `
		SELECT rate
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2 AND rate_date = $3
	`

	var rate decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, from, to, on).Scan(&rate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}

	return &rate, nil
}

// SaveRate upserts the rate for a pair on a date.
func (r *RateRepository) SaveRate(ctx context.Context, from, to string, rate decimal.Decimal, on time.Time) error {
	query := `
		INSERT INTO exchange_rates (id, from_currency, to_currency, rate, rate_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (from_currency, to_currency, rate_date)
		DO UPDATE SET rate = EXCLUDED.rate
	`

	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), from, to, rate, on); err != nil {
		return fmt.Errorf("failed to save exchange rate: %w", err)
	}

	return nil
}

// ActivePairs returns the distinct (from, to) currency pairs in use by
// trips with expenses in a foreign currency. The refresh job fetches
// fresh rates for exactly these pairs.
func (r *RateRepository) ActivePairs(ctx context.Context) ([][2]string, error) {
	query := `
		SELECT DISTINCT e.currency_code, t.currency_code
		FROM expenses e
		JOIN trips t ON t.id = e.trip_id
		WHERE e.currency_code != t.currency_code
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active currency pairs: %w", err)
	}
	defer rows.Close()

	var pairs [][2]string
	for rows.Next() {
		var from, to string
		if err := rows.Scan(&from, &to); err != nil {
			return nil, fmt.Errorf("failed to scan currency pair: %w", err)
		}
		pairs = append(pairs, [2]string{from, to})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency pairs: %w", err)
	}

	return pairs, nil
}
