package main

import (
	"context"
	"log"
	"os"
	"time"

	"sheetchat/adapters/postgres"
	"sheetchat/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Applies the usage-ledger schema and prints totals for the last day.
// Usage: migrate [database_url]   (falls back to DATABASE_URL)
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate <database_url> (or set DATABASE_URL)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema at version %s", runner.Version())

	totals, err := postgres.NewLLMUsageRepository(db).Totals(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		log.Fatalf("Failed to read usage totals: %v", err)
	}
	log.Printf("Last 24h: %d calls (%d failed), %d prompt + %d completion = %d tokens",
		totals.Calls, totals.FailedCalls, totals.PromptTokens, totals.CompletionTokens, totals.TotalTokens)
}
