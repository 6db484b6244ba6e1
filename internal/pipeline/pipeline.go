// Package pipeline composes a batch collector with the persistence
// writer and reports a combined run summary.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"FondoSync/internal/model"
	"FondoSync/internal/store"
)

// Collector is the batch-collection entry point a Runner drives.
type Collector interface {
	CollectDaily(ctx context.Context) (*model.BatchResult, error)
	Source() string
}

// Runner runs one source's collect-then-persist pipeline.
type Runner struct {
	Collector Collector
	Writer    *store.Writer
}

// NewRunner creates a Runner.
func NewRunner(c Collector, w *store.Writer) *Runner {
	return &Runner{Collector: c, Writer: w}
}

// Run executes one full ingestion pass. Per-record failures are already
// absorbed by the collector and writer; only source-level failures
// (authentication, configuration) surface here, and they too are folded
// into the summary so the caller always gets a structured result.
func (r *Runner) Run(ctx context.Context) model.RunSummary {
	summary := model.RunSummary{
		RunID:     uuid.NewString(),
		Source:    r.Collector.Source(),
		StartedAt: time.Now(),
	}
	log.Printf("[INFO] run %s started (source=%s)", summary.RunID, summary.Source)

	batch, err := r.Collector.CollectDaily(ctx)
	if err != nil {
		summary.FinishedAt = time.Now()
		summary.Message = fmt.Sprintf("collection failed: %v", err)
		log.Printf("[ERROR] run %s: %s", summary.RunID, summary.Message)
		return summary
	}

	summary.Attempted = batch.Attempted
	summary.Collected = batch.Succeeded

	if len(batch.Records) == 0 {
		summary.FinishedAt = time.Now()
		summary.Message = "no records collected"
		log.Printf("[WARN] run %s: %s", summary.RunID, summary.Message)
		return summary
	}

	persisted := r.Writer.Persist(ctx, batch.Records)
	summary.Saved = persisted.SavedCount
	summary.Errors = persisted.ErrorCount + (batch.Attempted - batch.Succeeded)
	summary.FinishedAt = time.Now()

	if persisted.Success() {
		summary.Success = true
		summary.Message = fmt.Sprintf("saved %d of %d records", persisted.SavedCount, persisted.TotalProcessed)
	} else {
		summary.Message = "all persistence writes failed"
	}
	log.Printf("[INFO] run %s finished: success=%v %s", summary.RunID, summary.Success, summary.Message)
	return summary
}
