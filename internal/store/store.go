// Package store persists normalized fund records: a historical series
// keyed by (fund, date) with merge-upsert semantics, and a latest-unit
// value per fund that is unconditionally overwritten.
package store

import (
	"context"
	"log"

	"FondoSync/internal/model"
)

// Store is the persistence backend contract.
type Store interface {
	// UpsertHistorical writes {date, price} under (fundID, date) with
	// merge semantics, so re-writing the same date is idempotent.
	UpsertHistorical(ctx context.Context, fundID, date string, price float64) error
	// SetLatestUnit overwrites the fund's current unit price.
	SetLatestUnit(ctx context.Context, fundID string, price float64) error
	Close() error
}

// Writer persists batches of fund records with per-record failure
// isolation.
type Writer struct {
	store Store
}

// NewWriter creates a Writer over the given backend.
func NewWriter(s Store) *Writer {
	return &Writer{store: s}
}

// Persist writes each record: historical upsert first, then the
// latest-unit overwrite. Records missing an id or date, or without a
// positive price, are counted as errors; the boundary re-checks them
// independently of the normalizer. Per-record failures never abort
// the batch.
func (w *Writer) Persist(ctx context.Context, records []model.FundRecord) *model.PersistResult {
	result := &model.PersistResult{TotalProcessed: len(records)}

	for _, rec := range records {
		if rec.FundID == "" || rec.Date == "" || rec.Price <= 0 {
			log.Printf("[WARN] incomplete record skipped: id=%q date=%q price=%v", rec.FundID, rec.Date, rec.Price)
			result.ErrorCount++
			continue
		}

		if err := w.store.UpsertHistorical(ctx, rec.FundID, rec.Date, rec.Price); err != nil {
			log.Printf("[ERROR] save historical %s/%s: %v", rec.FundID, rec.Date, err)
			result.ErrorCount++
			continue
		}
		if err := w.store.SetLatestUnit(ctx, rec.FundID, rec.Price); err != nil {
			log.Printf("[ERROR] update latest unit %s: %v", rec.FundID, err)
			result.ErrorCount++
			continue
		}

		result.SavedCount++
	}

	log.Printf("[INFO] persisted %d/%d records (%d errors)", result.SavedCount, result.TotalProcessed, result.ErrorCount)
	return result
}
