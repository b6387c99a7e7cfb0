package main

import (
	"log"
	"net/http"

	httphandlers "tripledger/internal/interfaces/http"
	"tripledger/internal/shared/config"
	"tripledger/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	// Trips and membership
	mux.Handle("/api/trips", authMiddleware(http.HandlerFunc(deps.TripHandler.HandleTrips)))
	mux.Handle("/api/trips/{id}", authMiddleware(http.HandlerFunc(deps.TripHandler.HandleTripByID)))
	mux.Handle("/api/trips/{id}/members", authMiddleware(http.HandlerFunc(deps.TripHandler.HandleMembers)))
	mux.Handle("/api/trips/{id}/members/{userId}", authMiddleware(http.HandlerFunc(deps.TripHandler.HandleMemberByID)))

	// Categories
	mux.Handle("/api/trips/{id}/categories", authMiddleware(http.HandlerFunc(deps.CategoryHandler.HandleCategories)))
	mux.Handle("/api/trips/{id}/categories/reorder", authMiddleware(http.HandlerFunc(deps.CategoryHandler.HandleReorder)))
	mux.Handle("/api/categories/{id}", authMiddleware(http.HandlerFunc(deps.CategoryHandler.HandleCategoryByID)))

	// Expenses
	mux.Handle("/api/trips/{id}/expenses", authMiddleware(http.HandlerFunc(deps.ExpenseHandler.HandleExpenses)))
	mux.Handle("/api/expenses/{id}", authMiddleware(http.HandlerFunc(deps.ExpenseHandler.HandleExpenseByID)))

	// Daily statistics
	mux.Handle("/api/trips/{id}/statistics/daily", authMiddleware(http.HandlerFunc(deps.StatisticsHandler.HandleDailyStatistics)))

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(handler)
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
