package store

import (
	"context"
	"testing"

	"FondoSync/internal/model"
)

func record(fundID, date string, price float64) model.FundRecord {
	return model.FundRecord{FundID: fundID, Date: date, Price: price}
}

func TestWriter_AggregateCounts(t *testing.T) {
	mem := NewMemoryStore()
	w := NewWriter(mem)

	records := []model.FundRecord{
		record("fund-a", "2025-06-18", 1234.54),
		record("", "2025-06-18", 100), // missing fund id
		record("fund-b", "2025-06-18", 980.77),
	}

	result := w.Persist(context.Background(), records)
	if result.SavedCount != 2 || result.ErrorCount != 1 || result.TotalProcessed != 3 {
		t.Fatalf("got {saved:%d errors:%d total:%d}, want {saved:2 errors:1 total:3}",
			result.SavedCount, result.ErrorCount, result.TotalProcessed)
	}
	if !result.Success() {
		t.Error("a run that saved records must be successful")
	}

	if got := mem.Latest["fund-a"]; got != 1234.54 {
		t.Errorf("latest unit for fund-a = %v, want 1234.54", got)
	}
	if _, ok := mem.Historical["fund-b"]["2025-06-18"]; !ok {
		t.Error("historical entry for fund-b missing")
	}
}

func TestWriter_DefensiveValidation(t *testing.T) {
	tests := []struct {
		name string
		rec  model.FundRecord
	}{
		{"missing fund id", record("", "2025-06-18", 1)},
		{"missing date", record("fund-a", "", 1)},
		{"zero price", record("fund-a", "2025-06-18", 0)},
		{"negative price", record("fund-a", "2025-06-18", -5)},
	}
	for _, tt := range tests {
		mem := NewMemoryStore()
		result := NewWriter(mem).Persist(context.Background(), []model.FundRecord{tt.rec})
		if result.ErrorCount != 1 || result.SavedCount != 0 {
			t.Errorf("%s: got {saved:%d errors:%d}, want {saved:0 errors:1}", tt.name, result.SavedCount, result.ErrorCount)
		}
		if len(mem.Historical) != 0 {
			t.Errorf("%s: invalid record must not reach the store", tt.name)
		}
	}
}

func TestWriter_IdempotentRepersist(t *testing.T) {
	mem := NewMemoryStore()
	w := NewWriter(mem)
	records := []model.FundRecord{record("fund-a", "2025-06-18", 1234.54)}

	first := w.Persist(context.Background(), records)
	second := w.Persist(context.Background(), records)

	if first.SavedCount != 1 || second.SavedCount != 1 {
		t.Fatalf("both passes must save: got %d then %d", first.SavedCount, second.SavedCount)
	}
	if len(mem.Historical["fund-a"]) != 1 {
		t.Errorf("re-persisting the same date must not add entries, got %d", len(mem.Historical["fund-a"]))
	}
	if mem.Latest["fund-a"] != 1234.54 {
		t.Errorf("latest unit = %v, want 1234.54", mem.Latest["fund-a"])
	}
}

func TestWriter_StoreFailureIsolation(t *testing.T) {
	mem := NewMemoryStore()
	mem.FailUpsert = map[string]bool{"fund-b": true}
	w := NewWriter(mem)

	result := w.Persist(context.Background(), []model.FundRecord{
		record("fund-a", "2025-06-18", 100),
		record("fund-b", "2025-06-18", 200),
		record("fund-c", "2025-06-18", 300),
	})

	if result.SavedCount != 2 || result.ErrorCount != 1 {
		t.Fatalf("got {saved:%d errors:%d}, want {saved:2 errors:1}", result.SavedCount, result.ErrorCount)
	}
	if _, ok := mem.Latest["fund-b"]; ok {
		t.Error("failed historical write must not update the latest unit")
	}
	if mem.Latest["fund-c"] != 300 {
		t.Error("failure on fund-b must not block fund-c")
	}
}

func TestWriter_LatestFailureCountsAsError(t *testing.T) {
	mem := NewMemoryStore()
	mem.FailLatest = map[string]bool{"fund-a": true}

	result := NewWriter(mem).Persist(context.Background(), []model.FundRecord{
		record("fund-a", "2025-06-18", 100),
	})

	if result.SavedCount != 0 || result.ErrorCount != 1 {
		t.Fatalf("got {saved:%d errors:%d}, want {saved:0 errors:1}", result.SavedCount, result.ErrorCount)
	}
	if result.Success() {
		t.Error("a run with zero saves must not be successful")
	}
}
