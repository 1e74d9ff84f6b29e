// Package task defines the task domain model shared by the sync coordinator,
// the local cache, and the remote store adapter.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a task does not exist in the working set.
	ErrNotFound = errors.New("task not found")
)

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank maps priorities to a sortable weight, higher is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// CategoryOther is the fallback bucket for unrecognized categories.
const CategoryOther = "other"

// Categories is the fixed set of category identifiers.
var Categories = []string{"work", "personal", "shopping", "health", CategoryOther}

// NormalizeCategory lowercases the input and folds anything outside the
// fixed category set to CategoryOther. Empty input also folds to other.
func NormalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if s == c {
			return c
		}
	}
	return CategoryOther
}

// LocalIDPrefix marks ids assigned locally while offline. A local id is
// replaced by the server-assigned id once the create replays successfully.
const LocalIDPrefix = "local-"

// IsLocalID reports whether id was generated locally and is not yet known
// to the remote store.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// maxTitleLen caps titles at the same limit the remote store enforces.
const maxTitleLen = 500

// dueSoonWindow is how far ahead a due date counts as "due soon".
const dueSoonWindow = 24 * time.Hour

// Task is a single task item owned by exactly one user.
//
// Overdue and due-soon are derived at read time from DueDate and are never
// part of the serialized form; see Overdue and DueSoon.
type Task struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	Priority  Priority   `json:"priority"`
	Category  string     `json:"category"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Order     int        `json:"order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ValidationError reports a task field that was rejected before any queue
// or remote interaction took place.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the user-settable fields of a task.
func (t *Task) Validate() error {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len(title) > maxTitleLen {
		return &ValidationError{Field: "title", Reason: fmt.Sprintf("must be %d characters or less", maxTitleLen)}
	}
	if t.Priority != "" && !t.Priority.Valid() {
		return &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", t.Priority)}
	}
	return nil
}

// Overdue reports whether the task's due date is strictly before now.
// Always false without a due date.
func (t Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}

// DueSoon reports whether the task is due within the next 24 hours.
// Always false without a due date, and false once the task is overdue.
func (t Task) DueSoon(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	d := t.DueDate.Sub(now)
	return d > 0 && d <= dueSoonWindow
}

// NextOrder returns the manual-order value for a task appended to the list.
func NextOrder(tasks []Task) int {
	next := 0
	for _, t := range tasks {
		if t.Order >= next {
			next = t.Order + 1
		}
	}
	return next
}

// Clone returns a deep copy of the task list. Callers hand copies across
// goroutine boundaries so the coordinator's working set is never aliased.
func Clone(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		if t.DueDate != nil {
			due := *t.DueDate
			t.DueDate = &due
		}
		out[i] = t
	}
	return out
}
