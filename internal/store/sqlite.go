package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists fund data to a local SQLite database. It is the
// default backend when no document store is configured.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the daily write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_history (
			fund_id    TEXT NOT NULL,
			date       TEXT NOT NULL,
			price      REAL NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (fund_id, date)
		)`,
		`CREATE TABLE IF NOT EXISTS funds (
			fund_id    TEXT PRIMARY KEY,
			unit       REAL NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) UpsertHistorical(ctx context.Context, fundID, date string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO price_history (fund_id, date, price, updated_at)
		VALUES (?,?,?,?)
		ON CONFLICT(fund_id, date) DO UPDATE SET price=excluded.price, updated_at=excluded.updated_at`,
		fundID, date, price, time.Now().Unix(),
	)
	return err
}

func (s *SQLiteStore) SetLatestUnit(ctx context.Context, fundID string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO funds (fund_id, unit, updated_at)
		VALUES (?,?,?)
		ON CONFLICT(fund_id) DO UPDATE SET unit=excluded.unit, updated_at=excluded.updated_at`,
		fundID, price, time.Now().Unix(),
	)
	return err
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
