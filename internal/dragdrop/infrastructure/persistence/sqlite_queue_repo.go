package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	sharedPersistence "github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteQueueRepository persists the offline operation queue in SQLite.
type SQLiteQueueRepository struct {
	db *sql.DB
}

// NewSQLiteQueueRepository creates a new SQLiteQueueRepository.
func NewSQLiteQueueRepository(db *sql.DB) *SQLiteQueueRepository {
	return &SQLiteQueueRepository{db: db}
}

// Enqueue appends an operation to the queue.
func (r *SQLiteQueueRepository) Enqueue(ctx context.Context, userID uuid.UUID, op *domain.Operation) error {
	payload, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to marshal operation: %w", err)
	}

	q := sharedPersistence.SQLiteQuerier(ctx, r.db)
	_, err = q.ExecContext(ctx, `
		INSERT INTO offline_queue (operation_id, user_id, kind, payload, enqueued_at)
		VALUES (?, ?, ?, ?, ?)`,
		op.ID.String(), userID.String(), string(op.Kind), string(payload),
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to enqueue operation: %w", err)
	}
	return nil
}

// List returns the oldest pending entries in FIFO order.
func (r *SQLiteQueueRepository) List(ctx context.Context, limit int) ([]*domain.QueuedOperation, error) {
	q := sharedPersistence.SQLiteQuerier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, operation_id, user_id, kind, payload, retry_count, COALESCE(last_error, ''), enqueued_at
		FROM offline_queue
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list queued operations: %w", err)
	}
	defer rows.Close()

	var entries []*domain.QueuedOperation
	for rows.Next() {
		var (
			entry       domain.QueuedOperation
			operationID string
			userID      string
			kind        string
			payload     string
			enqueuedAt  string
		)
		if err := rows.Scan(&entry.ID, &operationID, &userID, &kind, &payload,
			&entry.RetryCount, &entry.LastError, &enqueuedAt); err != nil {
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}

		if entry.OperationID, err = uuid.Parse(operationID); err != nil {
			return nil, fmt.Errorf("invalid operation id %q: %w", operationID, err)
		}
		if entry.UserID, err = uuid.Parse(userID); err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
		}
		if entry.EnqueuedAt, err = time.Parse(time.RFC3339Nano, enqueuedAt); err != nil {
			return nil, fmt.Errorf("invalid enqueued_at %q: %w", enqueuedAt, err)
		}
		entry.Kind = domain.OperationKind(kind)
		entry.Payload = []byte(payload)
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Remove deletes an entry after its effect succeeded.
func (r *SQLiteQueueRepository) Remove(ctx context.Context, id int64) error {
	q := sharedPersistence.SQLiteQuerier(ctx, r.db)
	if _, err := q.ExecContext(ctx, `DELETE FROM offline_queue WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove queue entry: %w", err)
	}
	return nil
}

// MarkFailed records a drain failure, leaving the entry in place.
func (r *SQLiteQueueRepository) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	q := sharedPersistence.SQLiteQuerier(ctx, r.db)
	_, err := q.ExecContext(ctx, `
		UPDATE offline_queue
		SET retry_count = retry_count + 1, last_error = ?
		WHERE id = ?`, errMsg, id)
	if err != nil {
		return fmt.Errorf("failed to mark queue entry failed: %w", err)
	}
	return nil
}

// Size returns the number of pending entries.
func (r *SQLiteQueueRepository) Size(ctx context.Context) (int, error) {
	q := sharedPersistence.SQLiteQuerier(ctx, r.db)
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM offline_queue`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count queue entries: %w", err)
	}
	return count, nil
}
