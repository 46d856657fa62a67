package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	sharedPersistence "github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresQueueRepository persists the offline operation queue in PostgreSQL.
type PostgresQueueRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresQueueRepository creates a new PostgresQueueRepository.
func NewPostgresQueueRepository(pool *pgxpool.Pool) *PostgresQueueRepository {
	return &PostgresQueueRepository{pool: pool}
}

// Enqueue appends an operation to the queue.
func (r *PostgresQueueRepository) Enqueue(ctx context.Context, userID uuid.UUID, op *domain.Operation) error {
	payload, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to marshal operation: %w", err)
	}

	exec := sharedPersistence.Executor(ctx, r.pool)
	_, err = exec.Exec(ctx, `
		INSERT INTO offline_queue (operation_id, user_id, kind, payload, enqueued_at)
		VALUES ($1, $2, $3, $4, $5)`,
		op.ID, userID, string(op.Kind), payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to enqueue operation: %w", err)
	}
	return nil
}

// List returns the oldest pending entries in FIFO order.
func (r *PostgresQueueRepository) List(ctx context.Context, limit int) ([]*domain.QueuedOperation, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, `
		SELECT id, operation_id, user_id, kind, payload, retry_count, COALESCE(last_error, ''), enqueued_at
		FROM offline_queue
		ORDER BY id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list queued operations: %w", err)
	}
	defer rows.Close()

	var entries []*domain.QueuedOperation
	for rows.Next() {
		var (
			entry domain.QueuedOperation
			kind  string
		)
		if err := rows.Scan(&entry.ID, &entry.OperationID, &entry.UserID, &kind,
			&entry.Payload, &entry.RetryCount, &entry.LastError, &entry.EnqueuedAt); err != nil {
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		entry.Kind = domain.OperationKind(kind)
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Remove deletes an entry after its effect succeeded.
func (r *PostgresQueueRepository) Remove(ctx context.Context, id int64) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM offline_queue WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to remove queue entry: %w", err)
	}
	return nil
}

// MarkFailed records a drain failure, leaving the entry in place.
func (r *PostgresQueueRepository) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `
		UPDATE offline_queue
		SET retry_count = retry_count + 1, last_error = $1
		WHERE id = $2`, errMsg, id)
	if err != nil {
		return fmt.Errorf("failed to mark queue entry failed: %w", err)
	}
	return nil
}

// Size returns the number of pending entries.
func (r *PostgresQueueRepository) Size(ctx context.Context) (int, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	var count int
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM offline_queue`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count queue entries: %w", err)
	}
	return count, nil
}
