package pending

import (
	"github.com/colonyops/skiff/internal/core/task"
)

// Apply projects a queued operation onto a task list and returns the result.
// The input slice is not modified.
//
// Apply is used both for optimistic local mutation and for reapplying the
// unconfirmed queue on top of a fresh remote snapshot, so it is forgiving:
// an update or delete whose target is missing is a no-op, and an add whose
// id already exists replaces the existing entry instead of duplicating it.
func Apply(tasks []task.Task, op Operation) []task.Task {
	switch op.Kind {
	case KindAdd:
		if op.Task == nil {
			return tasks
		}
		out := task.Clone(tasks)
		for i := range out {
			if out[i].ID == op.Task.ID {
				out[i] = *op.Task
				return out
			}
		}
		return append(out, *op.Task)

	case KindUpdate:
		if op.Patch == nil {
			return tasks
		}
		out := task.Clone(tasks)
		for i := range out {
			if out[i].ID == op.TargetID {
				out[i] = op.Patch.ApplyTo(out[i], op.EnqueuedAt)
				break
			}
		}
		return out

	case KindDelete:
		out := make([]task.Task, 0, len(tasks))
		for _, t := range task.Clone(tasks) {
			if t.ID == op.TargetID {
				continue
			}
			out = append(out, t)
		}
		return out

	case KindReorder:
		pos := make(map[string]int, len(op.Order))
		for i, id := range op.Order {
			pos[id] = i
		}
		out := task.Clone(tasks)
		for i := range out {
			if p, ok := pos[out[i].ID]; ok {
				out[i].Order = p
			}
		}
		return out
	}

	return tasks
}

// ApplyAll applies each operation in order.
func ApplyAll(tasks []task.Task, ops []Operation) []task.Task {
	for _, op := range ops {
		tasks = Apply(tasks, op)
	}
	return tasks
}
