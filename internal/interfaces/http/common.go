package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"tripledger/internal/domain/category"
	"tripledger/internal/domain/currency"
	"tripledger/internal/domain/expense"
	"tripledger/internal/domain/stats"
	"tripledger/internal/domain/trip"
	"tripledger/internal/shared/middleware"
)

const dateLayout = "2006-01-02"

// userID extracts the authenticated user from the request context.
func userID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(middleware.UserIDKey).(int64)
	return id, ok
}

// parseDate parses a YYYY-MM-DD value into a UTC midnight time.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// parseMemberID reads the member's user ID from the request path.
func parseMemberID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("userId"), 10, 64)
}

// respondError maps domain errors to HTTP status codes. Unknown errors
// are logged and reported as a generic 500 so internals never leak.
func respondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, trip.ErrTripNotFound),
		errors.Is(err, category.ErrCategoryNotFound),
		errors.Is(err, expense.ErrExpenseNotFound),
		errors.Is(err, trip.ErrNotMember):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, trip.ErrForbidden),
		errors.Is(err, trip.ErrOwnerImmutable):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, trip.ErrAlreadyMember):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, trip.ErrInvalidInput),
		errors.Is(err, trip.ErrInvalidDateRange),
		errors.Is(err, category.ErrInvalidColor),
		errors.Is(err, category.ErrInvalidPercentage),
		errors.Is(err, category.ErrPercentageExceeded),
		errors.Is(err, category.ErrHasExpenses),
		errors.Is(err, category.ErrReorderMismatch),
		errors.Is(err, expense.ErrInvalidAmount),
		errors.Is(err, expense.ErrInvalidDateRange),
		errors.Is(err, expense.ErrCategoryMismatch),
		errors.Is(err, currency.ErrInvalidCurrency),
		errors.Is(err, stats.ErrDateOutOfRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, currency.ErrRateUnavailable):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		log.Printf("%s: %v", fallback, err)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
