package pending

import "context"

// Queue is the durable, per-user FIFO of operations awaiting remote
// confirmation. It must survive process restarts; offline periods can
// outlast a single session.
//
// Drain returns entries without removing them. The caller removes an entry
// only after its remote replay succeeded, and clears the queue wholesale
// after a fully successful pass, so a halt mid-replay preserves exactly the
// untried tail.
type Queue interface {
	// Enqueue appends op and returns it with Seq assigned.
	Enqueue(ctx context.Context, userID string, op Operation) (Operation, error)

	// Drain returns all queued operations in enqueue order without
	// removing them.
	Drain(ctx context.Context, userID string) ([]Operation, error)

	// Remove deletes a single confirmed entry by sequence number.
	Remove(ctx context.Context, userID string, seq int64) error

	// Clear empties the user's queue.
	Clear(ctx context.Context, userID string) error

	// Len reports the number of queued operations.
	Len(ctx context.Context, userID string) (int, error)
}
