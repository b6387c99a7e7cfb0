package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"tripledger/internal/domain/user"
	"tripledger/internal/infrastructure/exchangerate"
	"tripledger/internal/infrastructure/postgres"
	"tripledger/internal/shared/auth"
	"tripledger/internal/shared/config"
)

const usage = `TripLedger Admin CLI - Management commands for the TripLedger API

Usage:
  admin <command> [options]

Commands:
  create-user     Create a user account
  issue-token     Issue a JWT access token for an existing user
  refresh-rates   Refresh stored exchange rates for all active currency pairs

Examples:
  # Create a user
  admin create-user --email=ana@example.com --name="Ana" --password=secret

  # Issue a token for API access
  admin issue-token --email=ana@example.com

  # Refresh exchange rates outside the scheduled run
  admin refresh-rates --timeout=5m
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create-user":
		runCreateUser(os.Args[2:])
	case "issue-token":
		runIssueToken(os.Args[2:])
	case "refresh-rates":
		runRefreshRates(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		fmt.Print(usage)
		os.Exit(1)
	}
}

func connect(cfg *config.Config) *postgres.DB {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")
	return db
}

func runCreateUser(args []string) {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	email := fs.String("email", "", "Email address (required)")
	name := fs.String("name", "", "Display name (required)")
	password := fs.String("password", "", "Password (required)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *email == "" || *name == "" || *password == "" {
		fmt.Println("Error: --email, --name and --password are required")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db := connect(cfg)
	defer db.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	params := user.CreateParams{Email: *email, Name: *name, PasswordHash: hash}
	if err := params.Validate(); err != nil {
		log.Fatalf("Invalid user: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := postgres.NewUserRepository(db)
	if existing, err := repo.GetByEmail(ctx, *email); err != nil {
		log.Fatalf("Failed to check existing user: %v", err)
	} else if existing != nil {
		log.Fatalf("User with email %s already exists (id %d)", *email, existing.ID)
	}

	u, err := repo.Create(ctx, params)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created user %d (%s)\n", u.ID, u.Email)
}

func runIssueToken(args []string) {
	fs := flag.NewFlagSet("issue-token", flag.ExitOnError)
	email := fs.String("email", "", "Email of an existing user (required)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *email == "" {
		fmt.Println("Error: --email is required")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db := connect(cfg)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	u, err := postgres.NewUserRepository(db).GetByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("Failed to look up user: %v", err)
	}
	if u == nil {
		log.Fatalf("No user with email %s", *email)
	}

	token, err := auth.NewJWT(cfg.JWT.Secret).Generate(u.ID, u.Email)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
}

func runRefreshRates(args []string) {
	fs := flag.NewFlagSet("refresh-rates", flag.ExitOnError)
	timeoutStr := fs.String("timeout", "5m", "Timeout for the operation (e.g., 30s, 5m)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db := connect(cfg)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rateRepo := postgres.NewRateRepository(db)
	rateService := exchangerate.NewService(rateRepo, exchangerate.NewClient(cfg.ExchangeRate.BaseURL), nil)

	pairs, err := rateRepo.ActivePairs(ctx)
	if err != nil {
		log.Fatalf("Failed to list active currency pairs: %v", err)
	}
	if len(pairs) == 0 {
		log.Println("No active currency pairs to refresh")
		return
	}

	start := time.Now()
	if err := rateService.Refresh(ctx, pairs); err != nil {
		log.Fatalf("Rate refresh finished with errors: %v", err)
	}
	log.Printf("Refreshed %d currency pair(s) in %v", len(pairs), time.Since(start))
}
