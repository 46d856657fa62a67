package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sharedPersistence "github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite outbox repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const sqliteInsertEvent = `
	INSERT INTO outbox_events (
		event_id, aggregate_type, aggregate_id, event_type, routing_key,
		payload, metadata, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// Save stores a new outbox message.
func (r *SQLiteRepository) Save(ctx context.Context, msg *Message) error {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	result, err := querier.ExecContext(ctx, sqliteInsertEvent,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID.String(),
		msg.EventType,
		msg.RoutingKey,
		string(msg.Payload),
		string(msg.Metadata),
		msg.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	msg.ID = id
	return nil
}

// SaveBatch stores multiple outbox messages atomically.
// When a transaction is already in the context (via UnitOfWork) it is reused;
// otherwise a dedicated transaction is opened.
func (r *SQLiteRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}

	if _, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		for _, msg := range msgs {
			if err := r.Save(ctx, msg); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	txCtx := sharedPersistence.WithSQLiteTx(ctx, tx, true)
	for _, msg := range msgs {
		if err := r.Save(txCtx, msg); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetUnpublished retrieves unpublished messages ordered by creation time.
// Messages whose next retry is still in the future are skipped.
func (r *SQLiteRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	rows, err := querier.QueryContext(ctx, `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
		       payload, metadata, created_at, retry_count, next_retry_at, last_error
		FROM outbox_events
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at
		LIMIT ?
	`, time.Now().UTC().Format(time.RFC3339Nano), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		msg, err := scanSQLiteMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// MarkPublished marks a message as successfully published.
func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64) error {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	_, err := querier.ExecContext(ctx,
		`UPDATE outbox_events SET published_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	return err
}

// MarkFailed records a publish failure with error message.
func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	_, err := querier.ExecContext(ctx, `
		UPDATE outbox_events
		SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?
	`, errMsg, nextRetryAt.UTC().Format(time.RFC3339Nano), id)
	return err
}

// MarkDead marks a message as dead-lettered.
func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	_, err := querier.ExecContext(ctx, `
		UPDATE outbox_events
		SET dead_lettered_at = ?, dead_letter_reason = ?
		WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339Nano), reason, id)
	return err
}

// DeleteOld removes successfully published messages older than the retention period.
func (r *SQLiteRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	result, err := querier.ExecContext(ctx, `
		DELETE FROM outbox_events
		WHERE published_at IS NOT NULL AND published_at < ?
	`, cutoff.Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanSQLiteMessage(rows *sql.Rows) (*Message, error) {
	var (
		msg         Message
		eventID     sql.NullString
		payload     string
		metadata    sql.NullString
		aggregateID string
		createdAt   string
		nextRetryAt sql.NullString
		lastError   sql.NullString
	)

	err := rows.Scan(&msg.ID, &eventID, &msg.AggregateType, &aggregateID,
		&msg.EventType, &msg.RoutingKey, &payload, &metadata, &createdAt,
		&msg.RetryCount, &nextRetryAt, &lastError)
	if err != nil {
		return nil, err
	}

	if eventID.Valid {
		if msg.EventID, err = uuid.Parse(eventID.String); err != nil {
			return nil, fmt.Errorf("invalid event id %q: %w", eventID.String, err)
		}
	}
	if msg.AggregateID, err = uuid.Parse(aggregateID); err != nil {
		return nil, fmt.Errorf("invalid aggregate id %q: %w", aggregateID, err)
	}
	if msg.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if nextRetryAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, nextRetryAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid next_retry_at %q: %w", nextRetryAt.String, err)
		}
		msg.NextRetryAt = &t
	}
	if lastError.Valid {
		msg.LastError = &lastError.String
	}
	msg.Payload = json.RawMessage(payload)
	if metadata.Valid {
		msg.Metadata = json.RawMessage(metadata.String)
	}
	return &msg, nil
}
