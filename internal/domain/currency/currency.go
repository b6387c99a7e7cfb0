package currency

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// Common ISO 4217 currency codes
	validCurrencies = map[string]struct{}{
		"USD": {}, "EUR": {}, "GBP": {}, "PLN": {}, "THB": {},
		"JPY": {}, "AUD": {}, "CAD": {}, "CHF": {}, "NZD": {},
		"CNY": {}, "INR": {}, "MXN": {}, "ZAR": {}, "SEK": {},
		"NOK": {}, "DKK": {}, "CZK": {}, "HUF": {}, "TRY": {},
		"KRW": {}, "SGD": {}, "HKD": {}, "BRL": {}, "VND": {},
	}

	// One is the exchange rate used when no conversion is needed.
	One = decimal.NewFromInt(1)
)

// Domain errors
var (
	ErrInvalidCurrency = errors.New("valid ISO 4217 currency is required")
	ErrRateUnavailable = errors.New("exchange rate unavailable")
)

// IsValid checks if the provided currency is a supported ISO 4217 code.
func IsValid(c string) bool {
	if len(c) != 3 {
		return false
	}
	_, ok := validCurrencies[c]
	return ok
}

// Supported returns the list of supported currency codes.
func Supported() []string {
	codes := make([]string, 0, len(validCurrencies))
	for c := range validCurrencies {
		codes = append(codes, c)
	}
	return codes
}
