// Package pending defines the durable FIFO queue of mutations awaiting
// remote confirmation, and the operations it holds.
package pending

import (
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/skiff/internal/core/task"
)

var (
	// ErrUnknownVersion is returned when a stored operation was written by a
	// newer schema than this build understands.
	ErrUnknownVersion = errors.New("pending operation has unknown schema version")
)

// SchemaVersion is written into every enqueued operation so future builds
// can detect entries they cannot safely replay.
const SchemaVersion = 1

// Kind tags the operation variant.
type Kind string

const (
	KindAdd     Kind = "add"
	KindUpdate  Kind = "update"
	KindDelete  Kind = "delete"
	KindReorder Kind = "reorder"
)

// Operation is one queued mutation. Exactly one of Task, Patch, or Order is
// set, matching Kind:
//
//	add     -> Task (full task, possibly with a local id)
//	update  -> TargetID + Patch
//	delete  -> TargetID
//	reorder -> Order (full id list in the desired manual order)
type Operation struct {
	// Seq is assigned by the queue on enqueue and orders replay. Not part
	// of the serialized payload.
	Seq int64 `json:"-"`

	Version    int         `json:"version"`
	Kind       Kind        `json:"kind"`
	TargetID   string      `json:"target_id,omitempty"`
	Task       *task.Task  `json:"task,omitempty"`
	Patch      *task.Patch `json:"patch,omitempty"`
	Order      []string    `json:"order,omitempty"`
	EnqueuedAt time.Time   `json:"enqueued_at"`
}

// NewAdd builds an add operation for a task created locally.
func NewAdd(t task.Task, now time.Time) Operation {
	return Operation{
		Version:    SchemaVersion,
		Kind:       KindAdd,
		TargetID:   t.ID,
		Task:       &t,
		EnqueuedAt: now,
	}
}

// NewUpdate builds an update operation.
func NewUpdate(targetID string, p task.Patch, now time.Time) Operation {
	return Operation{
		Version:    SchemaVersion,
		Kind:       KindUpdate,
		TargetID:   targetID,
		Patch:      &p,
		EnqueuedAt: now,
	}
}

// NewDelete builds a delete operation.
func NewDelete(targetID string, now time.Time) Operation {
	return Operation{
		Version:    SchemaVersion,
		Kind:       KindDelete,
		TargetID:   targetID,
		EnqueuedAt: now,
	}
}

// NewReorder builds a reorder operation holding the full desired id order.
func NewReorder(ids []string, now time.Time) Operation {
	order := make([]string, len(ids))
	copy(order, ids)
	return Operation{
		Version:    SchemaVersion,
		Kind:       KindReorder,
		Order:      order,
		EnqueuedAt: now,
	}
}

// Validate checks structural consistency of the operation.
func (op Operation) Validate() error {
	if op.Version > SchemaVersion {
		return fmt.Errorf("version %d: %w", op.Version, ErrUnknownVersion)
	}
	switch op.Kind {
	case KindAdd:
		if op.Task == nil {
			return fmt.Errorf("add operation missing task")
		}
	case KindUpdate:
		if op.TargetID == "" || op.Patch == nil {
			return fmt.Errorf("update operation missing target or patch")
		}
	case KindDelete:
		if op.TargetID == "" {
			return fmt.Errorf("delete operation missing target")
		}
	case KindReorder:
		if len(op.Order) == 0 {
			return fmt.Errorf("reorder operation missing id order")
		}
	default:
		return fmt.Errorf("unknown operation kind %q", op.Kind)
	}
	return nil
}

// RemapID rewrites every reference to oldID with newID. Used during replay
// when a queued add receives its server-assigned id and later queued
// operations still point at the local one.
func (op Operation) RemapID(oldID, newID string) Operation {
	if op.TargetID == oldID {
		op.TargetID = newID
	}
	if op.Task != nil && op.Task.ID == oldID {
		t := *op.Task
		t.ID = newID
		op.Task = &t
	}
	if len(op.Order) > 0 {
		order := make([]string, len(op.Order))
		copy(order, op.Order)
		for i, id := range order {
			if id == oldID {
				order[i] = newID
			}
		}
		op.Order = order
	}
	return op
}
