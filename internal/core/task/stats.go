package task

import "time"

// Stats aggregates counts over the full (unfiltered) task list.
type Stats struct {
	Total      int              `json:"total"`
	Active     int              `json:"active"`
	Completed  int              `json:"completed"`
	Overdue    int              `json:"overdue"`
	DueSoon    int              `json:"due_soon"`
	ByPriority map[Priority]int `json:"by_priority"`
	ByCategory map[string]int   `json:"by_category"`
}

// Collect computes aggregate statistics relative to now.
func Collect(tasks []Task, now time.Time) Stats {
	s := Stats{
		ByPriority: make(map[Priority]int),
		ByCategory: make(map[string]int),
	}
	for _, t := range tasks {
		s.Total++
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
		if t.Overdue(now) {
			s.Overdue++
		}
		if t.DueSoon(now) {
			s.DueSoon++
		}
		s.ByPriority[t.Priority]++
		s.ByCategory[t.Category]++
	}
	return s
}
