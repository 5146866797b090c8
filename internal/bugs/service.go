package bugs

import (
	"context"
	"fmt"
)

// BugService implements the bug tracker's operations on top of a Store.
type BugService struct {
	store  Store
	logger Logger
	clock  Clock
}

// NewBugService creates a BugService with the provided dependencies.
func NewBugService(store Store, logger Logger, clock Clock) *BugService {
	return &BugService{
		store:  store,
		logger: logger,
		clock:  clock,
	}
}

// Create validates nb and stores it as a new open bug.
// Returns a *ValidationError if title, description or priority is empty.
func (s *BugService) Create(ctx context.Context, nb NewBug) (*Bug, error) {
	var missing []string
	if nb.Title == "" {
		missing = append(missing, "title")
	}
	if nb.Description == "" {
		missing = append(missing, "description")
	}
	if nb.Priority == "" {
		missing = append(missing, "priority")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	bug, err := s.store.Insert(ctx, &Bug{
		Title:       nb.Title,
		Description: nb.Description,
		Priority:    nb.Priority,
		Status:      StatusOpen,
		CreatedAt:   s.clock.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("inserting bug: %w", err)
	}

	s.logger.Info("bug created", "id", bug.ID, "priority", bug.Priority)
	return bug, nil
}

// List returns every bug in the order they were created.
func (s *BugService) List(ctx context.Context) ([]*Bug, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing bugs: %w", err)
	}
	if list == nil {
		list = []*Bug{}
	}
	return list, nil
}

// Get returns the bug with the given id, or ErrNotFound.
func (s *BugService) Get(ctx context.Context, id int64) (*Bug, error) {
	bug, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding bug %d: %w", id, err)
	}
	if bug == nil {
		return nil, ErrNotFound
	}
	return bug, nil
}

// Update applies the supplied fields of update to the bug with the given id.
// An empty update still stamps UpdatedAt.
func (s *BugService) Update(ctx context.Context, id int64, update BugUpdate) (*Bug, error) {
	bug, err := s.store.Update(ctx, id, update, s.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("updating bug %d: %w", id, err)
	}
	if bug == nil {
		return nil, ErrNotFound
	}

	s.logger.Info("bug updated", "id", bug.ID, "status", bug.Status)
	return bug, nil
}

// Delete removes the bug with the given id and returns it.
func (s *BugService) Delete(ctx context.Context, id int64) (*Bug, error) {
	bug, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deleting bug %d: %w", id, err)
	}
	if bug == nil {
		return nil, ErrNotFound
	}

	s.logger.Info("bug deleted", "id", bug.ID)
	return bug, nil
}
