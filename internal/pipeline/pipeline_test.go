package pipeline

import (
	"context"
	"fmt"
	"testing"

	"FondoSync/internal/model"
	"FondoSync/internal/store"
)

type stubCollector struct {
	batch *model.BatchResult
	err   error
}

func (s *stubCollector) CollectDaily(_ context.Context) (*model.BatchResult, error) {
	return s.batch, s.err
}

func (s *stubCollector) Source() string { return "stub" }

func validRecord(fundID string) model.FundRecord {
	return model.FundRecord{FundID: fundID, Date: "2025-06-18", Price: 100}
}

func TestRunner_SuccessfulRun(t *testing.T) {
	col := &stubCollector{batch: &model.BatchResult{
		Records:   []model.FundRecord{validRecord("fund-a"), validRecord("fund-b")},
		Attempted: 2,
		Succeeded: 2,
	}}
	r := NewRunner(col, store.NewWriter(store.NewMemoryStore()))

	summary := r.Run(context.Background())
	if !summary.Success {
		t.Fatalf("expected success, got %+v", summary)
	}
	if summary.Saved != 2 || summary.Errors != 0 {
		t.Errorf("saved/errors = %d/%d, want 2/0", summary.Saved, summary.Errors)
	}
	if summary.RunID == "" {
		t.Error("run id must be set")
	}
	if summary.Source != "stub" {
		t.Errorf("source = %q, want stub", summary.Source)
	}
	if summary.FinishedAt.Before(summary.StartedAt) {
		t.Error("finished before started")
	}
}

func TestRunner_CollectionFailure(t *testing.T) {
	col := &stubCollector{err: fmt.Errorf("authenticate: status 401")}
	r := NewRunner(col, store.NewWriter(store.NewMemoryStore()))

	summary := r.Run(context.Background())
	if summary.Success {
		t.Fatal("a failed collection must not be a successful run")
	}
	if summary.Message == "" {
		t.Error("failure reason must be carried in the summary")
	}
	if summary.Saved != 0 {
		t.Errorf("saved = %d, want 0", summary.Saved)
	}
}

func TestRunner_ZeroRecords(t *testing.T) {
	col := &stubCollector{batch: &model.BatchResult{Attempted: 6, Succeeded: 0}}
	r := NewRunner(col, store.NewWriter(store.NewMemoryStore()))

	summary := r.Run(context.Background())
	if summary.Success {
		t.Fatal("zero collected records must not be a successful run")
	}
	if summary.Message != "no records collected" {
		t.Errorf("message = %q", summary.Message)
	}
	if summary.Attempted != 6 {
		t.Errorf("attempted = %d, want 6", summary.Attempted)
	}
}

func TestRunner_CombinedErrorCount(t *testing.T) {
	// Six attempted, five collected, one of the five rejected by the
	// writer: the summary reports two errors in total.
	col := &stubCollector{batch: &model.BatchResult{
		Records: []model.FundRecord{
			validRecord("fund-a"),
			validRecord("fund-b"),
			validRecord("fund-c"),
			validRecord("fund-d"),
			{FundID: "fund-e", Date: "2025-06-18", Price: 0},
		},
		Attempted: 6,
		Succeeded: 5,
	}}
	r := NewRunner(col, store.NewWriter(store.NewMemoryStore()))

	summary := r.Run(context.Background())
	if !summary.Success {
		t.Fatalf("expected success, got %+v", summary)
	}
	if summary.Saved != 4 {
		t.Errorf("saved = %d, want 4", summary.Saved)
	}
	if summary.Errors != 2 {
		t.Errorf("errors = %d, want 2", summary.Errors)
	}
}

func TestRunner_AllWritesFailed(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.FailUpsert = map[string]bool{"fund-a": true}
	col := &stubCollector{batch: &model.BatchResult{
		Records:   []model.FundRecord{validRecord("fund-a")},
		Attempted: 1,
		Succeeded: 1,
	}}
	r := NewRunner(col, store.NewWriter(mem))

	summary := r.Run(context.Background())
	if summary.Success {
		t.Fatal("a run with zero saves must not be successful")
	}
	if summary.Message != "all persistence writes failed" {
		t.Errorf("message = %q", summary.Message)
	}
}
