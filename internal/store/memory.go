package store

import (
	"context"
	"sync"
)

// HistoricalEntry is one stored (date, price) point.
type HistoricalEntry struct {
	Date  string
	Price float64
}

// MemoryStore keeps everything in maps. Used in tests and dry runs.
type MemoryStore struct {
	mu         sync.Mutex
	Historical map[string]map[string]HistoricalEntry // fundID -> date -> entry
	Latest     map[string]float64                    // fundID -> unit

	FailUpsert map[string]bool // fundIDs whose historical write fails
	FailLatest map[string]bool // fundIDs whose latest write fails
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Historical: make(map[string]map[string]HistoricalEntry),
		Latest:     make(map[string]float64),
	}
}

func (m *MemoryStore) UpsertHistorical(_ context.Context, fundID, date string, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUpsert[fundID] {
		return errInjected
	}
	if m.Historical[fundID] == nil {
		m.Historical[fundID] = make(map[string]HistoricalEntry)
	}
	m.Historical[fundID][date] = HistoricalEntry{Date: date, Price: price}
	return nil
}

func (m *MemoryStore) SetLatestUnit(_ context.Context, fundID string, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailLatest[fundID] {
		return errInjected
	}
	m.Latest[fundID] = price
	return nil
}

func (m *MemoryStore) Close() error { return nil }

type injectedError struct{}

func (injectedError) Error() string { return "injected store failure" }

var errInjected = injectedError{}
