package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"

	appconfig "github.com/productmanager/manager_api/internal/config"
)

// Retry policy: up to 5 attempts, exponential backoff starting at 500ms.
const (
	maxAttempts = 5
	baseDelay   = 500 * time.Millisecond
	maxDelay    = 5 * time.Second
)

// DSN builds the PostgreSQL connection URL for cfg.
func DSN(cfg *appconfig.DatabaseConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)
}

// Connect opens the PostgreSQL database backing the document store. Startup
// often races the database container, so opening and pinging are retried
// with backoff before giving up. The returned *sqlx.DB has pool settings
// applied and answered a ping.
func Connect(cfg *appconfig.DatabaseConfig) (*sqlx.DB, error) {
	if cfg == nil {
		return nil, errors.New("nil database config")
	}
	dsn := DSN(cfg)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := sqlx.Open("postgres", dsn)
		if err == nil {
			setPool(db.DB)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = db.PingContext(ctx)
			cancel()
			if err == nil {
				return db, nil
			}
			_ = db.Close()
		}

		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Str("host", cfg.Host).Msg("database not ready")
		if attempt < maxAttempts {
			time.Sleep(backoff(attempt))
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxAttempts, lastErr)
}

func setPool(db *sql.DB) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
}

// backoff returns baseDelay * 2^(attempt-1), capped to maxDelay.
func backoff(attempt int) time.Duration {
	d := baseDelay << (attempt - 1)
	if d > maxDelay {
		return maxDelay
	}
	return d
}
