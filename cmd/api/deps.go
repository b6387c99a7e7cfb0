package main

import (
	"context"
	"log"

	"tripledger/internal/domain/category"
	"tripledger/internal/domain/expense"
	"tripledger/internal/domain/stats"
	"tripledger/internal/domain/trip"
	"tripledger/internal/infrastructure/exchangerate"
	"tripledger/internal/infrastructure/postgres"
	httphandlers "tripledger/internal/interfaces/http"
	"tripledger/internal/shared/auth"
	"tripledger/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	TripHandler       *httphandlers.TripHandler
	CategoryHandler   *httphandlers.CategoryHandler
	ExpenseHandler    *httphandlers.ExpenseHandler
	StatisticsHandler *httphandlers.StatisticsHandler

	// Auth
	JWT *auth.JWT

	// Rate refresh (for scheduler)
	RateService *exchangerate.Service
	RateRepo    *postgres.RateRepository
}

// seederFunc adapts a closure to trip.DefaultCategorySeeder. The trip
// and category services reference each other, so the seeder is bound
// late through a closure filled in after both exist.
type seederFunc func(ctx context.Context, tripID string) error

func (f seederFunc) SeedDefaults(ctx context.Context, tripID string) error {
	return f(ctx, tripID)
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize repositories
	tripRepo := postgres.NewTripRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)
	rateRepo := postgres.NewRateRepository(db)

	// Exchange rate lookup chain: stored rates, then the external API
	rateClient := exchangerate.NewClient(cfg.ExchangeRate.BaseURL)
	rateService := exchangerate.NewService(rateRepo, rateClient, nil)

	// Initialize domain services
	var categoryService *category.Service
	tripService := trip.NewService(tripRepo, seederFunc(func(ctx context.Context, tripID string) error {
		return categoryService.SeedDefaults(ctx, tripID)
	}))
	categoryService = category.NewService(categoryRepo, tripService)

	statsService := stats.NewService(tripService, categoryRepo, expenseRepo, nil)
	expenseService := expense.NewService(expenseRepo, tripService, categoryRepo, rateService, statsService)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)

	// Initialize handlers
	tripHandler := httphandlers.NewTripHandler(tripService)
	categoryHandler := httphandlers.NewCategoryHandler(categoryService)
	expenseHandler := httphandlers.NewExpenseHandler(expenseService)
	statisticsHandler := httphandlers.NewStatisticsHandler(statsService)

	return &Dependencies{
		DB:                db,
		TripHandler:       tripHandler,
		CategoryHandler:   categoryHandler,
		ExpenseHandler:    expenseHandler,
		StatisticsHandler: statisticsHandler,
		JWT:               jwt,
		RateService:       rateService,
		RateRepo:          rateRepo,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
