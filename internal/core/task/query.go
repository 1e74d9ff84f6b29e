package task

import (
	"sort"
	"time"
)

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	// SortByOrder sorts by the manual order value, ascending.
	SortByOrder SortKey = "order"
	// SortByDueDate sorts ascending by due date; tasks without one sort last.
	SortByDueDate SortKey = "due"
	// SortByPriority sorts high before medium before low.
	SortByPriority SortKey = "priority"
)

// Query describes a filtered, sorted view of a task list. Filters compose
// with AND semantics; the zero Query returns everything in manual order.
type Query struct {
	Status   StatusFilter
	Category string
	Priority Priority
	Sort     SortKey
}

// Apply returns the tasks matching the query, sorted. The input slice is
// not modified; sorting is stable so equal keys keep their relative order.
func (q Query) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !q.matches(t) {
			continue
		}
		out = append(out, t)
	}

	switch q.Sort {
	case SortByDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	case SortByPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() > out[j].Priority.Rank()
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Order < out[j].Order
		})
	}

	return out
}

func (q Query) matches(t Task) bool {
	switch q.Status {
	case StatusActive:
		if t.Completed {
			return false
		}
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	}
	if q.Category != "" && t.Category != q.Category {
		return false
	}
	if q.Priority != "" && t.Priority != q.Priority {
		return false
	}
	return true
}

// Annotated is a task plus its time-derived flags, computed at read time
// and handed to presentation. The flags are never persisted.
type Annotated struct {
	Task
	Overdue bool `json:"overdue"`
	DueSoon bool `json:"due_soon"`
}

// Annotate computes the derived flags for each task relative to now.
func Annotate(tasks []Task, now time.Time) []Annotated {
	out := make([]Annotated, len(tasks))
	for i, t := range tasks {
		out[i] = Annotated{
			Task:    t,
			Overdue: t.Overdue(now),
			DueSoon: t.DueSoon(now),
		}
	}
	return out
}
