package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
)

const (
	// DefaultDrainInterval is how often the background loop drains.
	DefaultDrainInterval = 30 * time.Second
	// DefaultDrainBatchSize bounds one drain pass.
	DefaultDrainBatchSize = 50
)

// QueueDrainer replays offline-queued operations once connectivity
// returns. Entries are drained strictly in insertion order: an entry is
// removed only after its effect succeeds, and the first failure stops the
// pass so later operations never overtake earlier ones.
type QueueDrainer struct {
	queue     domain.QueueRepository
	performer domain.Performer
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

// NewQueueDrainer creates a drainer over the given queue and performer.
func NewQueueDrainer(queue domain.QueueRepository, performer domain.Performer, logger *slog.Logger) *QueueDrainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueueDrainer{
		queue:     queue,
		performer: performer,
		interval:  DefaultDrainInterval,
		batchSize: DefaultDrainBatchSize,
		logger:    logger,
	}
}

// SetInterval overrides the background drain interval.
func (d *QueueDrainer) SetInterval(interval time.Duration) {
	if interval > 0 {
		d.interval = interval
	}
}

// SetBatchSize bounds how many entries one drain pass lists.
func (d *QueueDrainer) SetBatchSize(size int) {
	if size > 0 {
		d.batchSize = size
	}
}

// Start runs periodic drain passes until the context is cancelled.
func (d *QueueDrainer) Start(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("queue drainer started", "interval", d.interval)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("queue drainer stopped")
			return
		case <-ticker.C:
			if _, err := d.Drain(ctx); err != nil {
				d.logger.Error("drain pass failed", "error", err)
			}
		}
	}
}

// Drain replays pending entries in FIFO order and returns how many were
// successfully replayed. It stops at the first failed entry.
func (d *QueueDrainer) Drain(ctx context.Context) (int, error) {
	entries, err := d.queue.List(ctx, d.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list queued operations: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	drained := 0
	for _, entry := range entries {
		var op domain.Operation
		if err := json.Unmarshal(entry.Payload, &op); err != nil {
			// An undecodable payload can never succeed; drop it.
			d.logger.Error("dropping corrupt queue entry",
				"queue_id", entry.ID,
				"error", err)
			if err := d.queue.Remove(ctx, entry.ID); err != nil {
				return drained, err
			}
			continue
		}

		if err := d.performer.Perform(ctx, &op); err != nil {
			d.logger.Warn("queued operation failed, stopping pass",
				"queue_id", entry.ID,
				"operation_id", op.ID,
				"error", err)
			if markErr := d.queue.MarkFailed(ctx, entry.ID, err.Error()); markErr != nil {
				return drained, markErr
			}
			return drained, nil
		}

		if err := d.queue.Remove(ctx, entry.ID); err != nil {
			return drained, err
		}
		drained++
		d.logger.Info("queued operation replayed",
			"queue_id", entry.ID,
			"operation_id", op.ID)
	}
	return drained, nil
}
