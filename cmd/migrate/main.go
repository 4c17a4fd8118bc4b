package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [up|drop|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("activities table created")

	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("activities table dropped")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("sample activities seeded")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS activities (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			date DATE NOT NULL,
			location TEXT NOT NULL,
			category TEXT NOT NULL,
			short_description TEXT NOT NULL DEFAULT '',
			detailed_narrative TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			metrics JSONB NOT NULL DEFAULT '[]'::jsonb,
			photos JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities (created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_activities_status ON activities (status);
	`)
	return err
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `DROP TABLE IF EXISTS activities`)
	return err
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	type seed struct {
		title    string
		date     string
		location string
		category string
		status   string
		metrics  string
	}

	seeds := []seed{
		{
			title:    "Village Data Literacy Workshop",
			date:     "2024-03-16",
			location: "Sidemen",
			category: "Education",
			status:   "accepted",
			metrics:  `[{"label":"Beneficiaries","value":45,"unit":"people"},{"label":"Sessions","value":3,"unit":"classes"}]`,
		},
		{
			title:    "River Cleanup Drive",
			date:     "2024-05-04",
			location: "Telaga Waja",
			category: "Environment",
			status:   "accepted",
			metrics:  `[{"label":"Waste collected","value":120,"unit":"kg"}]`,
		},
		{
			title:    "Community Health Screening",
			date:     "2024-06-22",
			location: "Sidemen",
			category: "Health",
			status:   "pending",
			metrics:  `[{"label":"Total beneficiaries","value":80,"unit":"people"}]`,
		},
	}

	for _, s := range seeds {
		_, err := conn.Exec(ctx, `
			INSERT INTO activities (id, title, date, location, category, status, metrics, photos, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, '[]'::jsonb, $8)
			ON CONFLICT (id) DO NOTHING
		`, uuid.New().String(), s.title, s.date, s.location, s.category, s.status, s.metrics, time.Now().UTC())
		if err != nil {
			return err
		}
	}
	return nil
}
