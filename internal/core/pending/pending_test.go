package pending_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/skiff/internal/core/pending"
	"github.com/colonyops/skiff/internal/core/task"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func tsk(id, title string) task.Task {
	return task.Task{ID: id, Title: title, Priority: task.PriorityMedium, Category: task.CategoryOther}
}

func TestOperationValidate(t *testing.T) {
	tests := []struct {
		name    string
		op      pending.Operation
		wantErr bool
	}{
		{"valid add", pending.NewAdd(tsk("local-abc", "x"), now), false},
		{"valid update", pending.NewUpdate("t1", task.Patch{ClearDueDate: true}, now), false},
		{"valid delete", pending.NewDelete("t1", now), false},
		{"valid reorder", pending.NewReorder([]string{"a", "b"}, now), false},
		{"add without task", pending.Operation{Version: 1, Kind: pending.KindAdd}, true},
		{"update without patch", pending.Operation{Version: 1, Kind: pending.KindUpdate, TargetID: "t1"}, true},
		{"delete without target", pending.Operation{Version: 1, Kind: pending.KindDelete}, true},
		{"unknown kind", pending.Operation{Version: 1, Kind: "merge"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOperationValidate_FutureVersion(t *testing.T) {
	op := pending.NewDelete("t1", now)
	op.Version = pending.SchemaVersion + 1
	assert.ErrorIs(t, op.Validate(), pending.ErrUnknownVersion)
}

func TestApply_Add(t *testing.T) {
	base := []task.Task{tsk("a", "one")}
	got := pending.Apply(base, pending.NewAdd(tsk("b", "two"), now))

	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].ID)
	assert.Len(t, base, 1, "input must not be modified")
}

func TestApply_AddExistingReplaces(t *testing.T) {
	base := []task.Task{tsk("a", "old title")}
	got := pending.Apply(base, pending.NewAdd(tsk("a", "new title"), now))

	require.Len(t, got, 1)
	assert.Equal(t, "new title", got[0].Title)
}

func TestApply_UpdateMissingTargetIsNoop(t *testing.T) {
	title := "renamed"
	base := []task.Task{tsk("a", "one")}
	got := pending.Apply(base, pending.NewUpdate("ghost", task.Patch{Title: &title}, now))
	assert.Equal(t, base, got)
}

func TestApply_Delete(t *testing.T) {
	base := []task.Task{tsk("a", "one"), tsk("b", "two")}
	got := pending.Apply(base, pending.NewDelete("a", now))

	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestApply_Reorder(t *testing.T) {
	a, b, c := tsk("a", "1"), tsk("b", "2"), tsk("c", "3")
	a.Order, b.Order, c.Order = 0, 1, 2

	got := pending.Apply([]task.Task{a, b, c}, pending.NewReorder([]string{"c", "a", "b"}, now))

	orders := map[string]int{}
	for _, item := range got {
		orders[item.ID] = item.Order
	}
	assert.Equal(t, map[string]int{"c": 0, "a": 1, "b": 2}, orders)
}

func TestApplyAll_LaterOpsSeeEarlierResults(t *testing.T) {
	completed := true
	ops := []pending.Operation{
		pending.NewAdd(tsk("local-1", "offline task"), now),
		pending.NewUpdate("local-1", task.Patch{Completed: &completed}, now),
	}

	got := pending.ApplyAll(nil, ops)

	require.Len(t, got, 1)
	assert.True(t, got[0].Completed)
}

func TestRemapID(t *testing.T) {
	completed := true
	update := pending.NewUpdate("local-1", task.Patch{Completed: &completed}, now)
	reorder := pending.NewReorder([]string{"a", "local-1", "b"}, now)
	add := pending.NewAdd(tsk("local-1", "x"), now)

	got := update.RemapID("local-1", "srv-9")
	assert.Equal(t, "srv-9", got.TargetID)

	got = reorder.RemapID("local-1", "srv-9")
	assert.Equal(t, []string{"a", "srv-9", "b"}, got.Order)
	assert.Equal(t, []string{"a", "local-1", "b"}, reorder.Order, "original untouched")

	got = add.RemapID("local-1", "srv-9")
	assert.Equal(t, "srv-9", got.Task.ID)
	assert.Equal(t, "local-1", add.Task.ID, "original untouched")
}
