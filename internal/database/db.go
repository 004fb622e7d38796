package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/online-bookstore/internal/config"
)

const maxOpenAttempts = 5

// Open connects to MySQL, sizes the connection pool and verifies the
// connection with a ping.
func Open(cfg config.Config) (*sql.DB, error) {
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(cfg.DBPoolSize)
	db.SetMaxIdleConns(cfg.DBPoolSize)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenWithRetry calls Open up to maxOpenAttempts times, sleeping an
// exponentially growing delay (capped at 16s) between attempts. The
// process cannot serve requests without a pool, so the caller is
// expected to treat an error here as fatal.
func OpenWithRetry(cfg config.Config) (*sql.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= maxOpenAttempts; attempt++ {
		db, err := Open(cfg)
		if err == nil {
			log.Printf("database pool ready (size=%d)", cfg.DBPoolSize)
			return db, nil
		}
		lastErr = err
		wait := backoffDelay(attempt)
		log.Printf("database connect attempt %d/%d failed: %v; retrying in %s",
			attempt, maxOpenAttempts, err, wait)
		time.Sleep(wait)
	}
	return nil, fmt.Errorf("connect database after %d attempts: %w", maxOpenAttempts, lastErr)
}

// backoffDelay returns min(16s, 2^attempt seconds).
func backoffDelay(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > 16*time.Second {
		d = 16 * time.Second
	}
	return d
}
