package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/colonyops/skiff/internal/core/pending"
	"github.com/colonyops/skiff/internal/data/db"
)

// QueueStore implements pending.Queue using SQLite. Sequence numbers come
// from the AUTOINCREMENT column, so enqueue order survives restarts and is
// never reused after removal.
type QueueStore struct {
	db *db.DB
}

var _ pending.Queue = (*QueueStore)(nil)

// NewQueueStore creates a new SQLite-backed pending-operation queue.
func NewQueueStore(db *db.DB) *QueueStore {
	return &QueueStore{db: db}
}

// Enqueue appends op for the user and returns it with Seq assigned.
func (s *QueueStore) Enqueue(ctx context.Context, userID string, op pending.Operation) (pending.Operation, error) {
	if err := op.Validate(); err != nil {
		return op, fmt.Errorf("queue enqueue: %w", err)
	}

	payload, err := json.Marshal(op)
	if err != nil {
		return op, fmt.Errorf("queue enqueue marshal: %w", err)
	}

	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO pending_ops (user_id, version, kind, target_id, payload, enqueued_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, userID, op.Version, string(op.Kind), op.TargetID, payload, op.EnqueuedAt.UnixNano())
		if err != nil {
			return err
		}

		seq, err := res.LastInsertId()
		if err != nil {
			return err
		}
		op.Seq = seq
		return nil
	})
	if err != nil {
		return op, fmt.Errorf("queue enqueue: %w", err)
	}

	return op, nil
}

// Drain returns the user's queued operations in enqueue order without
// removing them.
func (s *QueueStore) Drain(ctx context.Context, userID string) ([]pending.Operation, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT seq, payload FROM pending_ops
		WHERE user_id = ?
		ORDER BY seq
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("queue drain: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ops []pending.Operation
	for rows.Next() {
		var (
			seq     int64
			payload []byte
		)
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("queue drain scan: %w", err)
		}

		var op pending.Operation
		if err := json.Unmarshal(payload, &op); err != nil {
			return nil, fmt.Errorf("queue drain unmarshal seq %d: %w", seq, err)
		}
		op.Seq = seq
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("queue drain: %w", err)
	}

	return ops, nil
}

// Remove deletes a single confirmed entry by sequence number.
func (s *QueueStore) Remove(ctx context.Context, userID string, seq int64) error {
	if _, err := s.db.Conn().ExecContext(ctx,
		"DELETE FROM pending_ops WHERE user_id = ? AND seq = ?", userID, seq,
	); err != nil {
		return fmt.Errorf("queue remove seq %d: %w", seq, err)
	}
	return nil
}

// Clear empties the user's queue.
func (s *QueueStore) Clear(ctx context.Context, userID string) error {
	if _, err := s.db.Conn().ExecContext(ctx,
		"DELETE FROM pending_ops WHERE user_id = ?", userID,
	); err != nil {
		return fmt.Errorf("queue clear: %w", err)
	}
	return nil
}

// Len reports the number of queued operations for the user.
func (s *QueueStore) Len(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.Conn().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pending_ops WHERE user_id = ?", userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("queue len: %w", err)
	}
	return count, nil
}
