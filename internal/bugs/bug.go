package bugs

import "time"

// StatusOpen is the status every bug starts with.
const StatusOpen = "open"

// Bug is a tracked defect.
type Bug struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"` // nil until the first update
}

// Clone returns a deep copy of b.
func (b *Bug) Clone() *Bug {
	c := *b
	if b.UpdatedAt != nil {
		t := *b.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

// NewBug holds the fields a caller supplies when reporting a bug.
type NewBug struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// BugUpdate is a partial update. Nil fields are left untouched.
type BugUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ApplyTo copies the supplied fields onto b and stamps UpdatedAt with now.
func (u BugUpdate) ApplyTo(b *Bug, now time.Time) {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Description != nil {
		b.Description = *u.Description
	}
	if u.Priority != nil {
		b.Priority = *u.Priority
	}
	if u.Status != nil {
		b.Status = *u.Status
	}
	b.UpdatedAt = &now
}
