package store

import (
	"context"
	"sync"
	"time"

	"bugtracker/internal/bugs"
)

// MemoryStore is a slice-backed implementation of bugs.Store.
// Records are kept in insertion order and copied on the way in and out,
// so callers never share memory with the store.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	bugs   []*bugs.Bug
	nextID int64
}

// NewMemoryStore creates an empty store whose first id is 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) Insert(_ context.Context, bug *bugs.Bug) (*bugs.Bug, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := bug.Clone()
	stored.ID = m.nextID
	m.nextID++
	m.bugs = append(m.bugs, stored)
	return stored.Clone(), nil
}

func (m *MemoryStore) List(_ context.Context) ([]*bugs.Bug, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*bugs.Bug, len(m.bugs))
	for i, b := range m.bugs {
		list[i] = b.Clone()
	}
	return list, nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (*bugs.Bug, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	return m.bugs[i].Clone(), nil
}

func (m *MemoryStore) Update(_ context.Context, id int64, update bugs.BugUpdate, now time.Time) (*bugs.Bug, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	update.ApplyTo(m.bugs[i], now)
	return m.bugs[i].Clone(), nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) (*bugs.Bug, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	removed := m.bugs[i]
	m.bugs = append(m.bugs[:i], m.bugs[i+1:]...)
	return removed, nil
}

// Close is a no-op; the records go away with the store.
func (m *MemoryStore) Close() error { return nil }

// indexOf returns the position of id in m.bugs, or -1. Callers hold m.mu.
func (m *MemoryStore) indexOf(id int64) int {
	for i, b := range m.bugs {
		if b.ID == id {
			return i
		}
	}
	return -1
}
