package task_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/skiff/internal/core/task"
)

func tsk(id, title string) task.Task {
	return task.Task{
		ID:       id,
		Title:    title,
		Priority: task.PriorityMedium,
		Category: task.CategoryOther,
	}
}

func due(t time.Time) *time.Time { return &t }

func TestDerivedFlags(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		dueDate     *time.Time
		wantOverdue bool
		wantDueSoon bool
	}{
		{"no due date", nil, false, false},
		{"due in the past", due(now.Add(-time.Minute)), true, false},
		{"due exactly now", due(now), false, false},
		{"due in an hour", due(now.Add(time.Hour)), false, true},
		{"due in exactly 24h", due(now.Add(24 * time.Hour)), false, true},
		{"due in just over 24h", due(now.Add(24*time.Hour + time.Second)), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tsk("t1", "check flags")
			item.DueDate = tt.dueDate
			assert.Equal(t, tt.wantOverdue, item.Overdue(now), "overdue")
			assert.Equal(t, tt.wantDueSoon, item.DueSoon(now), "due soon")
		})
	}
}

func TestQuery_SortByDueDate_NilLast(t *testing.T) {
	a := tsk("a", "march fifth")
	a.DueDate = due(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	b := tsk("b", "no due date")
	c := tsk("c", "march first")
	c.DueDate = due(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	got := task.Query{Sort: task.SortByDueDate}.Apply([]task.Task{a, b, c})

	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestQuery_SortByPriority(t *testing.T) {
	input := []task.Task{}
	for i, p := range []task.Priority{task.PriorityMedium, task.PriorityHigh, task.PriorityLow, task.PriorityHigh} {
		item := tsk(string(rune('a'+i)), "p")
		item.Priority = p
		input = append(input, item)
	}

	got := task.Query{Sort: task.SortByPriority}.Apply(input)

	prios := make([]task.Priority, len(got))
	for i, item := range got {
		prios[i] = item.Priority
	}
	assert.Equal(t, []task.Priority{task.PriorityHigh, task.PriorityHigh, task.PriorityMedium, task.PriorityLow}, prios)
	// Stable sort keeps the two highs in input order.
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "d", got[1].ID)
}

func TestQuery_FilterByCategory_PreservesOrder(t *testing.T) {
	a := tsk("a", "one")
	a.Category = "work"
	b := tsk("b", "two")
	b.Category = "personal"
	c := tsk("c", "three")
	c.Category = "work"

	got := task.Query{Category: "work"}.Apply([]task.Task{a, b, c})

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestQuery_FiltersCompose(t *testing.T) {
	items := []task.Task{}
	for i := 0; i < 4; i++ {
		item := tsk(string(rune('a'+i)), "x")
		item.Category = "work"
		items = append(items, item)
	}
	items[0].Completed = true
	items[1].Priority = task.PriorityHigh
	items[2].Completed = true
	items[2].Priority = task.PriorityHigh
	items[3].Category = "personal"

	got := task.Query{
		Status:   task.StatusCompleted,
		Category: "work",
		Priority: task.PriorityHigh,
	}.Apply(items)

	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "work", task.NormalizeCategory("Work"))
	assert.Equal(t, "health", task.NormalizeCategory(" health "))
	assert.Equal(t, task.CategoryOther, task.NormalizeCategory("gardening"))
	assert.Equal(t, task.CategoryOther, task.NormalizeCategory(""))
}

func TestTaskValidate(t *testing.T) {
	item := tsk("t1", "  ")
	err := item.Validate()
	var verr *task.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	item.Title = "buy milk"
	require.NoError(t, item.Validate())

	item.Priority = "urgent"
	err = item.Validate()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "priority", verr.Field)
}

func TestPatchApplyTo(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	item := tsk("t1", "original")
	item.DueDate = due(now.Add(48 * time.Hour))

	title := "  renamed  "
	completed := true
	p := task.Patch{Title: &title, Completed: &completed, ClearDueDate: true}
	require.NoError(t, p.Validate())

	got := p.ApplyTo(item, now)

	assert.Equal(t, "renamed", got.Title)
	assert.True(t, got.Completed)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, now, got.UpdatedAt)
	// Original is untouched.
	assert.Equal(t, "original", item.Title)
	assert.NotNil(t, item.DueDate)
}

func TestPatchValidate_Empty(t *testing.T) {
	var verr *task.ValidationError
	require.ErrorAs(t, task.Patch{}.Validate(), &verr)
	assert.Equal(t, "patch", verr.Field)
}

func TestNextOrder(t *testing.T) {
	assert.Equal(t, 0, task.NextOrder(nil))

	a := tsk("a", "x")
	a.Order = 3
	b := tsk("b", "y")
	b.Order = 1
	assert.Equal(t, 4, task.NextOrder([]task.Task{a, b}))
}

func TestCollectStats(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	overdue := tsk("a", "late")
	overdue.DueDate = due(now.Add(-time.Hour))
	overdue.Priority = task.PriorityHigh
	overdue.Category = "work"

	soon := tsk("b", "soon")
	soon.DueDate = due(now.Add(time.Hour))

	finished := tsk("c", "done")
	finished.Completed = true
	finished.Category = "work"

	s := task.Collect([]task.Task{overdue, soon, finished}, now)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Active)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 1, s.Overdue)
	assert.Equal(t, 1, s.DueSoon)
	assert.Equal(t, 1, s.ByPriority[task.PriorityHigh])
	assert.Equal(t, 2, s.ByPriority[task.PriorityMedium])
	assert.Equal(t, 2, s.ByCategory["work"])
	assert.Equal(t, 1, s.ByCategory[task.CategoryOther])
}
