package model

import "time"

// BatchResult is the outcome of one collection pass over a source.
// Attempted counts every item the collector tried; Records holds only
// the successfully normalized ones, in source iteration order.
type BatchResult struct {
	Records   []FundRecord `json:"records"`
	Attempted int          `json:"attempted"`
	Succeeded int          `json:"succeeded"`
}

// PersistResult is the aggregate outcome of writing one batch.
type PersistResult struct {
	SavedCount     int `json:"savedCount"`
	ErrorCount     int `json:"errorCount"`
	TotalProcessed int `json:"totalProcessed"`
}

// Success reports whether at least one record was saved.
func (r *PersistResult) Success() bool { return r.SavedCount > 0 }

// RunSummary is the combined collect+persist outcome reported to the
// caller. A run with zero records end-to-end has Success=false and a
// descriptive Message, never a silent empty success.
type RunSummary struct {
	RunID      string    `json:"runId"`
	Source     string    `json:"source"`
	Attempted  int       `json:"attempted"`
	Collected  int       `json:"collected"`
	Saved      int       `json:"saved"`
	Errors     int       `json:"errors"`
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}
