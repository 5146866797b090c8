package store

import (
	"fmt"

	"bugtracker/internal/bugs"
	"bugtracker/internal/config"
)

// NewStoreFromConfig creates a Store implementation based on the store config type.
// An empty type selects the memory store.
func NewStoreFromConfig(cfg config.StoreConfig) (bugs.Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		s, err := NewSQLiteStore()
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
