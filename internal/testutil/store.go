package testutil

import (
	"testing"

	"bugtracker/internal/bugs"
	"bugtracker/internal/store"
)

// StoreFactory builds a fresh, empty store for one test.
type StoreFactory func(t *testing.T) bugs.Store

// StoreBackends lists every bugs.Store implementation by name, so behavioral
// tests can run against each one.
func StoreBackends() map[string]StoreFactory {
	return map[string]StoreFactory{
		"memory": NewTestMemoryStore,
		"sqlite": NewTestSQLiteStore,
	}
}

// NewTestMemoryStore creates an empty MemoryStore.
func NewTestMemoryStore(t *testing.T) bugs.Store {
	t.Helper()
	s := store.NewMemoryStore()
	t.Cleanup(func() { s.Close() })
	return s
}

// NewTestSQLiteStore creates an empty, migrated in-memory SQLite store.
// The store is closed when the test completes.
func NewTestSQLiteStore(t *testing.T) bugs.Store {
	t.Helper()
	s, err := store.NewSQLiteStore()
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// NewTestService creates a BugService over a fresh memory store with a
// fixed clock and a discarding logger.
func NewTestService(t *testing.T) (*bugs.BugService, *StubClock) {
	t.Helper()
	clock := FixedClock()
	return bugs.NewBugService(NewTestMemoryStore(t), bugs.NewNopLogger(), clock), clock
}
