package bugs

import (
	"context"
	"time"
)

// Store holds bug records in insertion order and allocates their ids.
// Ids are never reused, even after the record they belonged to is deleted.
// Implementations must be safe for concurrent use.
type Store interface {
	// Insert stores a new bug, assigning it the next id.
	// bug.ID is ignored. Returns the stored record.
	Insert(ctx context.Context, bug *Bug) (*Bug, error)

	// List returns every bug in insertion order.
	List(ctx context.Context) ([]*Bug, error)

	// Get returns the bug with the given id, or nil if there is none.
	Get(ctx context.Context, id int64) (*Bug, error)

	// Update applies update to the bug with the given id, stamping it with now.
	// Returns nil if there is no such bug.
	Update(ctx context.Context, id int64, update BugUpdate, now time.Time) (*Bug, error)

	// Delete removes the bug with the given id and returns it.
	// Returns nil if there is no such bug.
	Delete(ctx context.Context, id int64) (*Bug, error)

	// Close releases any resources held by the store.
	Close() error
}
