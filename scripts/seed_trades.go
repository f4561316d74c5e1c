package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var defaultTrades = []string{
	"Bricklayer",
	"Carpenter",
	"Electrician",
	"Plumber",
	"Roofer",
	"Plasterer",
	"Tiler",
	"Painter & Decorator",
	"Heating Engineer",
	"Groundworker",
	"Landscaper",
	"Scaffolder",
	"Joiner",
	"Glazier",
	"Site Manager",
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	return strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			os.Getenv("DB_PASSWORD"),
			getEnv("DB_NAME", "creator_marketplace"),
			getEnv("DB_SSLMODE", "disable"))
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	inserted := 0
	for _, name := range defaultTrades {
		res, err := db.Exec(
			`INSERT INTO trades (id, name, slug, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT (slug) DO NOTHING`,
			uuid.New(), name, slugify(name), time.Now().UTC(),
		)
		if err != nil {
			log.Fatalf("Failed to insert trade %q: %v", name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	log.Printf("Seeded %d new trades (%d already present)", inserted, len(defaultTrades)-inserted)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
