package store

import (
	"context"
	"fmt"
	"log"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// SurrealConfig holds the SurrealDB connection settings.
type SurrealConfig struct {
	Address   string `yaml:"address"`
	Namespace string `yaml:"namespace"`
	Database  string `yaml:"database"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

// SurrealStore persists fund data to SurrealDB, the document-store
// backend. Historical entries live in price_history under a compound
// [fund, date] record id; latest units live on the funds table.
type SurrealStore struct {
	db *surrealdb.DB
}

// NewSurrealStore connects, signs in and ensures the tables exist.
func NewSurrealStore(cfg SurrealConfig) (*SurrealStore, error) {
	ctx := context.Background()

	db, err := surrealdb.New(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("connect to surrealdb: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": cfg.Username,
		"pass": cfg.Password,
	}); err != nil {
		return nil, fmt.Errorf("sign in to surrealdb: %w", err)
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		return nil, fmt.Errorf("select namespace/database: %w", err)
	}

	// SurrealDB v3 errors on querying tables that don't exist yet.
	for _, table := range []string{"price_history", "funds"} {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("define table %s: %w", table, err)
		}
	}

	log.Printf("[INFO] surrealdb store initialized: %s %s/%s", cfg.Address, cfg.Namespace, cfg.Database)
	return &SurrealStore{db: db}, nil
}

func (s *SurrealStore) UpsertHistorical(ctx context.Context, fundID, date string, price float64) error {
	sql := "UPSERT $rid MERGE { fund: $fund, date: $date, price: $price }"
	vars := map[string]any{
		"rid":   surrealmodels.NewRecordID("price_history", []any{fundID, date}),
		"fund":  fundID,
		"date":  date,
		"price": price,
	}
	return s.query(ctx, sql, vars)
}

func (s *SurrealStore) SetLatestUnit(ctx context.Context, fundID string, price float64) error {
	sql := "UPSERT $rid MERGE { unit: $price }"
	vars := map[string]any{
		"rid":   surrealmodels.NewRecordID("funds", fundID),
		"price": price,
	}
	return s.query(ctx, sql, vars)
}

func (s *SurrealStore) query(ctx context.Context, sql string, vars map[string]any) error {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[any](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("surrealdb write failed after retries: %w", lastErr)
}

func (s *SurrealStore) Close() error {
	s.db.Close(context.Background())
	return nil
}
