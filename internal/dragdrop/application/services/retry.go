package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
)

// DefaultRetryBaseDelay is the first backoff interval.
const DefaultRetryBaseDelay = time.Second

// RetryScheduler re-attempts recoverable operation failures with
// exponential backoff. Non-recoverable failures are never retried, and
// once the budget is spent the error is marked terminal.
type RetryScheduler struct {
	performer domain.Performer
	baseDelay time.Duration
	onSuccess func(op *domain.Operation)
	logger    *slog.Logger
}

// NewRetryScheduler creates a scheduler over the given performer. A
// non-positive baseDelay falls back to one second.
func NewRetryScheduler(performer domain.Performer, baseDelay time.Duration, logger *slog.Logger) *RetryScheduler {
	if baseDelay <= 0 {
		baseDelay = DefaultRetryBaseDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryScheduler{
		performer: performer,
		baseDelay: baseDelay,
		logger:    logger,
	}
}

// SetOnSuccess installs a callback invoked with the operation once a
// retry finally succeeds, before Retry returns. The owning engine hooks
// this to record the recovered operation into its history.
func (s *RetryScheduler) SetOnSuccess(fn func(op *domain.Operation)) {
	s.onSuccess = fn
}

// Retry re-performs the failed operation until it succeeds, the retry
// budget is spent, or the context is cancelled. The error's retry count
// is advanced before every attempt, so the delays grow as base, 2x base,
// 4x base.
func (s *RetryScheduler) Retry(ctx context.Context, dragErr *domain.DragError) error {
	if dragErr == nil || dragErr.Operation == nil {
		return nil
	}
	if !dragErr.Recoverable {
		return dragErr
	}

	for !dragErr.Exhausted() {
		delay := s.baseDelay << dragErr.RetryCount
		dragErr.RetryCount++

		s.logger.Debug("retrying operation",
			"operation_id", dragErr.Operation.ID,
			"attempt", dragErr.RetryCount,
			"delay", delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		err := s.performer.Perform(ctx, dragErr.Operation)
		if err == nil {
			s.logger.Info("retry succeeded",
				"operation_id", dragErr.Operation.ID,
				"attempt", dragErr.RetryCount)
			if s.onSuccess != nil {
				s.onSuccess(dragErr.Operation)
			}
			return nil
		}

		kind := domain.Classify(err)
		dragErr.Kind = kind
		dragErr.Message = err.Error()
		if !kind.IsRecoverable() {
			dragErr.Recoverable = false
			return dragErr
		}
	}

	dragErr.MarkExhausted()
	s.logger.Warn("retry budget exhausted",
		"operation_id", dragErr.Operation.ID,
		"attempts", dragErr.RetryCount)
	return dragErr
}
