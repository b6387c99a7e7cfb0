package currency

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RateSource looks up the historical exchange rate for a currency pair on a
// given date. Implementations may hit a database, an external API, or both.
type RateSource interface {
	Rate(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error)
}

// Conversion is the result of normalizing an amount into the trip currency.
// Both fields are frozen onto the expense at write time and never recomputed,
// so historical statistics stay stable even as market rates are revised.
type Conversion struct {
	ExchangeRate         decimal.Decimal
	AmountInTripCurrency decimal.Decimal
}

// Normalize converts amount from its original currency into the trip currency
// using the rate effective on the given date.
//
// When the currencies match, the rate is exactly 1 and the amount passes
// through untouched: no lookup, no rounding drift. A failed lookup is an
// error; an expense must never be persisted half-converted.
func Normalize(ctx context.Context, amount decimal.Decimal, fromCurrency, tripCurrency string, on time.Time, rates RateSource) (Conversion, error) {
	if !IsValid(fromCurrency) {
		return Conversion{}, ErrInvalidCurrency
	}
	if !IsValid(tripCurrency) {
		return Conversion{}, ErrInvalidCurrency
	}

	if fromCurrency == tripCurrency {
		return Conversion{
			ExchangeRate:         One,
			AmountInTripCurrency: amount,
		}, nil
	}

	rate, err := rates.Rate(ctx, fromCurrency, tripCurrency, on)
	if err != nil {
		return Conversion{}, fmt.Errorf("%w: %s to %s: %v", ErrRateUnavailable, fromCurrency, tripCurrency, err)
	}
	if !rate.IsPositive() {
		return Conversion{}, fmt.Errorf("%w: non-positive rate %s for %s to %s", ErrRateUnavailable, rate, fromCurrency, tripCurrency)
	}

	return Conversion{
		ExchangeRate:         rate,
		AmountInTripCurrency: amount.Mul(rate),
	}, nil
}
