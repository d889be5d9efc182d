// internal/database/db.go
package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the process-wide connection pool, set once by ConnectDB.
var DB *pgxpool.Pool

// ConnectDB opens the pgx pool from DATABASE_URL, or assembles the URL from
// the POSTGRES_USER / POSTGRES_PASSWORD / PG_HOST / PG_PORT / PG_DATABASE
// variables. The process exits if the database is unreachable; users, game
// results and replay states all live here.
func ConnectDB() {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			os.Getenv("POSTGRES_USER"),
			os.Getenv("POSTGRES_PASSWORD"),
			os.Getenv("PG_HOST"),
			os.Getenv("PG_PORT"),
			os.Getenv("PG_DATABASE"),
		)
	}

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		log.Fatalf("invalid postgres config: %v", err)
	}

	DB, err = pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatalf("failed to open postgres pool: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := DB.Ping(ctx); err != nil {
		log.Fatalf("postgres ping failed: %v", err)
	}

	log.Printf("Connected to postgres database %q on %s", config.ConnConfig.Database, config.ConnConfig.Host)
}
