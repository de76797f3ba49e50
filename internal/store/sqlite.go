package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kwieczorek/cvchat/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite. Increments use a
// single UPDATE ... RETURNING statement, so concurrent requests cannot
// lose counts to a read-modify-write race.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository. The counter row is
// created at zero on first use, so a fresh deployment's first increment
// yields 1.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		count INTEGER NOT NULL DEFAULT 0
	);
	INSERT INTO visits (id, count) VALUES (1, 0) ON CONFLICT(id) DO NOTHING;
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// IncrementVisits atomically increments the visit counter and returns
// the new value. SQLITE_BUSY conflicts are retried with exponential
// backoff.
func (s *SQLiteStore) IncrementVisits(ctx context.Context) (int64, error) {
	const maxRetries = 3
	baseDelay := 50 * time.Millisecond

	var count int64
	var err error
	for i := 0; i < maxRetries; i++ {
		row := s.db.QueryRowContext(ctx,
			`UPDATE visits SET count = count + 1 WHERE id = 1 RETURNING count`)
		if err = row.Scan(&count); err == nil {
			return count, nil
		}

		if shared.IsSQLiteBusy(err) && i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i)
			slog.Debug("Visit counter update hit a busy database, retrying",
				"attempt", i+1,
				"delay", delay)
			time.Sleep(delay)
			continue
		}
		break
	}
	return 0, fmt.Errorf("increment visits: %w", err)
}

// Visits returns the current counter value without incrementing.
func (s *SQLiteStore) Visits(ctx context.Context) (int64, error) {
	var count int64
	row := s.db.QueryRowContext(ctx, `SELECT count FROM visits WHERE id = 1`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("read visits: %w", err)
	}
	return count, nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
