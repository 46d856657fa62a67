package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	"github.com/google/uuid"
)

// RemoteSync mirrors committed operations to a remote itinerary store.
// Implementations are best-effort; the local store stays authoritative.
type RemoteSync interface {
	SyncOperation(ctx context.Context, userID uuid.UUID, op *domain.Operation) error
}

// CompositePerformer commits an operation locally, then mirrors it to the
// remote store. A local failure aborts the operation. A remote failure
// never does: recoverable failures are parked in the offline queue and
// replayed later, so the caller still observes success.
type CompositePerformer struct {
	userID uuid.UUID
	local  domain.Performer
	remote RemoteSync
	queue  domain.QueueRepository
	logger *slog.Logger
}

// NewCompositePerformer chains the local performer with remote sync.
// Remote and queue may be nil for a purely local setup.
func NewCompositePerformer(
	userID uuid.UUID,
	local domain.Performer,
	remote RemoteSync,
	queue domain.QueueRepository,
	logger *slog.Logger,
) *CompositePerformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompositePerformer{
		userID: userID,
		local:  local,
		remote: remote,
		queue:  queue,
		logger: logger,
	}
}

// NewRemoteSyncPerformer adapts the remote store to the performer
// interface for offline-queue replay. Queued entries were already
// committed locally before they were parked, so replaying one must only
// re-attempt the remote mirror, never the local commit.
func NewRemoteSyncPerformer(userID uuid.UUID, remote RemoteSync) domain.Performer {
	return domain.PerformerFunc(func(ctx context.Context, op *domain.Operation) error {
		return remote.SyncOperation(ctx, userID, op)
	})
}

// Perform implements domain.Performer.
func (p *CompositePerformer) Perform(ctx context.Context, op *domain.Operation) error {
	if err := p.local.Perform(ctx, op); err != nil {
		return err
	}

	if p.remote == nil {
		return nil
	}

	if err := p.remote.SyncOperation(ctx, p.userID, op); err != nil {
		kind := domain.Classify(err)
		p.logger.Warn("remote sync failed",
			"operation_id", op.ID,
			"kind", string(kind),
			"error", err)

		if kind.IsRecoverable() && p.queue != nil {
			if qErr := p.queue.Enqueue(ctx, p.userID, op); qErr != nil {
				p.logger.Error("failed to queue operation for replay",
					"operation_id", op.ID,
					"error", qErr)
			}
		}
	}
	return nil
}
