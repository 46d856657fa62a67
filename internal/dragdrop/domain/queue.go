package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// QueuedOperation is a persisted FIFO entry awaiting a connectivity-
// restored retry.
type QueuedOperation struct {
	ID          int64
	OperationID uuid.UUID
	UserID      uuid.UUID
	Kind        OperationKind
	Payload     []byte
	RetryCount  int
	LastError   string
	EnqueuedAt  time.Time
}

// QueueRepository persists operations that could not be performed while
// offline. Entries are drained in insertion order and removed only after
// their effect succeeds.
type QueueRepository interface {
	// Enqueue appends an operation to the queue.
	Enqueue(ctx context.Context, userID uuid.UUID, op *Operation) error

	// List returns the oldest pending entries in FIFO order.
	List(ctx context.Context, limit int) ([]*QueuedOperation, error)

	// Remove deletes an entry after its effect succeeded.
	Remove(ctx context.Context, id int64) error

	// MarkFailed records a drain failure, leaving the entry in place.
	MarkFailed(ctx context.Context, id int64, errMsg string) error

	// Size returns the number of pending entries.
	Size(ctx context.Context) (int, error)
}
