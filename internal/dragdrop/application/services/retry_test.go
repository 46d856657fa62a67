package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/application/services"
	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyPerformer fails a fixed number of times before succeeding.
type flakyPerformer struct {
	failures int
	calls    int
	err      error
}

func (f *flakyPerformer) Perform(context.Context, *domain.Operation) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func retryItem() domain.DragItem {
	return domain.DragItem{
		ID:              uuid.New(),
		Kind:            domain.ItemKindWishlist,
		Source:          domain.SourceWishlist,
		Title:           "Louvre",
		PlaceID:         uuid.New(),
		DurationMinutes: 60,
	}
}

func retrySlot() *domain.TargetSlot {
	return &domain.TargetSlot{
		ZoneID: "day-2026-06-10",
		Date:   time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		Start:  schedulingDomain.MustTimeOfDay(10, 0),
	}
}

func failedOp(cause error) *domain.DragError {
	op := domain.NewOperation(domain.OpSchedule, retryItem(), retrySlot())
	return domain.NewDragError(op, cause)
}

func TestRetryScheduler_SucceedsAfterFailures(t *testing.T) {
	performer := &flakyPerformer{failures: 1, err: domain.ErrRemoteUnavailable}
	scheduler := services.NewRetryScheduler(performer, time.Millisecond, nil)

	dragErr := failedOp(domain.ErrRemoteUnavailable)
	err := scheduler.Retry(context.Background(), dragErr)

	require.NoError(t, err)
	assert.Equal(t, 2, performer.calls)
	assert.Equal(t, 2, dragErr.RetryCount)
}

func TestRetryScheduler_ExhaustsBudget(t *testing.T) {
	performer := &flakyPerformer{failures: 100, err: domain.ErrRemoteUnavailable}
	scheduler := services.NewRetryScheduler(performer, time.Millisecond, nil)

	dragErr := failedOp(domain.ErrRemoteUnavailable)
	err := scheduler.Retry(context.Background(), dragErr)

	require.Error(t, err)
	// Exactly the budget, never a fourth attempt.
	assert.Equal(t, domain.DefaultMaxRetries, performer.calls)
	assert.False(t, dragErr.Recoverable)
	assert.Contains(t, dragErr.Message, "(Max retries exceeded)")
}

func TestRetryScheduler_NotifiesOnSuccess(t *testing.T) {
	performer := &flakyPerformer{failures: 1, err: domain.ErrRemoteUnavailable}
	scheduler := services.NewRetryScheduler(performer, time.Millisecond, nil)

	var recovered *domain.Operation
	scheduler.SetOnSuccess(func(op *domain.Operation) { recovered = op })

	dragErr := failedOp(domain.ErrRemoteUnavailable)
	require.NoError(t, scheduler.Retry(context.Background(), dragErr))
	require.NotNil(t, recovered)
	assert.Equal(t, dragErr.Operation.ID, recovered.ID)
}

func TestRetryScheduler_NoCallbackWhenExhausted(t *testing.T) {
	performer := &flakyPerformer{failures: 100, err: domain.ErrRemoteUnavailable}
	scheduler := services.NewRetryScheduler(performer, time.Millisecond, nil)

	called := false
	scheduler.SetOnSuccess(func(*domain.Operation) { called = true })

	require.Error(t, scheduler.Retry(context.Background(), failedOp(domain.ErrRemoteUnavailable)))
	assert.False(t, called)
}

func TestRetryScheduler_SkipsNonRecoverable(t *testing.T) {
	performer := &flakyPerformer{failures: 100, err: domain.ErrPlacementRejected}
	scheduler := services.NewRetryScheduler(performer, time.Millisecond, nil)

	dragErr := failedOp(domain.ErrPlacementRejected)
	err := scheduler.Retry(context.Background(), dragErr)

	require.Error(t, err)
	assert.Equal(t, 0, performer.calls)
}

// reclassifyingPerformer turns a transient failure into a hard rejection.
type reclassifyingPerformer struct{ calls int }

func (p *reclassifyingPerformer) Perform(context.Context, *domain.Operation) error {
	p.calls++
	return schedulingDomain.ErrActivityOverlap
}

func TestRetryScheduler_StopsWhenFailureBecomesTerminal(t *testing.T) {
	performer := &reclassifyingPerformer{}
	scheduler := services.NewRetryScheduler(performer, time.Millisecond, nil)

	dragErr := failedOp(domain.ErrRemoteUnavailable)
	err := scheduler.Retry(context.Background(), dragErr)

	require.Error(t, err)
	assert.Equal(t, 1, performer.calls)
	assert.Equal(t, domain.ConflictError, dragErr.Kind)
	assert.False(t, dragErr.Recoverable)
}

func TestRetryScheduler_HonorsContext(t *testing.T) {
	performer := &flakyPerformer{failures: 100, err: domain.ErrRemoteUnavailable}
	scheduler := services.NewRetryScheduler(performer, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := scheduler.Retry(ctx, failedOp(domain.ErrRemoteUnavailable))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, performer.calls)
}

func TestRetryScheduler_NilError(t *testing.T) {
	scheduler := services.NewRetryScheduler(&flakyPerformer{}, time.Millisecond, nil)
	assert.NoError(t, scheduler.Retry(context.Background(), nil))
}
