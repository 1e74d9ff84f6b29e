package task

import (
	"fmt"
	"strings"
	"time"
)

// Patch is a partial update to a task. Nil fields are left untouched.
// ClearDueDate removes the due date; it wins over DueDate when both are set.
type Patch struct {
	Title        *string    `json:"title,omitempty"`
	Completed    *bool      `json:"completed,omitempty"`
	Priority     *Priority  `json:"priority,omitempty"`
	Category     *string    `json:"category,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
	Order        *int       `json:"order,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Title == nil && p.Completed == nil && p.Priority == nil &&
		p.Category == nil && p.DueDate == nil && !p.ClearDueDate && p.Order == nil
}

// Validate checks the fields the patch would set.
func (p Patch) Validate() error {
	if p.IsZero() {
		return &ValidationError{Field: "patch", Reason: "no fields to update"}
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		if len(title) > maxTitleLen {
			return &ValidationError{Field: "title", Reason: fmt.Sprintf("must be %d characters or less", maxTitleLen)}
		}
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", *p.Priority)}
	}
	return nil
}

// ApplyTo returns a copy of t with the patch applied and UpdatedAt set to now.
func (p Patch) ApplyTo(t Task, now time.Time) Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = NormalizeCategory(*p.Category)
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	t.UpdatedAt = now
	return t
}
