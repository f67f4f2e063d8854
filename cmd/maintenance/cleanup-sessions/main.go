// Command cleanup-sessions removes expired refresh-token sessions. Intended
// to run periodically from cron.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/conectando/booking-backend/internal/config"
	"github.com/conectando/booking-backend/internal/database"
)

func main() {
	var dbURLFlag string
	var graceHours int
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.IntVar(&graceHours, "grace-hours", 24, "keep expired sessions around for this many hours")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	// Build minimal database config without loading full app config
	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	sessions := database.NewSessionRepository(db)

	deleted, err := sessions.DeleteExpired(time.Duration(graceHours) * time.Hour)
	if err != nil {
		log.Fatalf("failed to delete expired sessions: %v", err)
	}

	fmt.Printf("Deleted %d expired sessions (grace period %dh)\n", deleted, graceHours)
}
