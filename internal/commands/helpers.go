package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/skiff/internal/core/task"
)

// dueLayouts are the accepted --due formats, tried in order.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDue parses a --due flag value into a timestamp. A date without a
// time component means end of that day, local time.
func parseDue(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Second)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized due date %q (want YYYY-MM-DD, YYYY-MM-DD HH:MM, or RFC3339)", s)
}

// formatDue renders a due date for table output, with flag markers for
// overdue and due-soon tasks.
func formatDue(t task.Annotated) string {
	if t.DueDate == nil {
		return "-"
	}
	due := t.DueDate.Local().Format("2006-01-02 15:04")
	switch {
	case t.Overdue:
		return due + " !"
	case t.DueSoon:
		return due + " ~"
	}
	return due
}

func statusString(completed bool) string {
	if completed {
		return "done"
	}
	return "open"
}
