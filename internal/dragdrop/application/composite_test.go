package application_test

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/application"
	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRemote struct {
	calls int
	err   error
}

func (r *stubRemote) SyncOperation(context.Context, uuid.UUID, *domain.Operation) error {
	r.calls++
	return r.err
}

type stubQueue struct {
	enqueued []*domain.Operation
}

func (q *stubQueue) Enqueue(_ context.Context, _ uuid.UUID, op *domain.Operation) error {
	q.enqueued = append(q.enqueued, op)
	return nil
}

func (q *stubQueue) List(context.Context, int) ([]*domain.QueuedOperation, error) { return nil, nil }
func (q *stubQueue) Remove(context.Context, int64) error                          { return nil }
func (q *stubQueue) MarkFailed(context.Context, int64, string) error              { return nil }
func (q *stubQueue) Size(context.Context) (int, error)                            { return len(q.enqueued), nil }

func compositeOp(t *testing.T) *domain.Operation {
	t.Helper()
	return domain.NewOperation(domain.OpSchedule, wishlistItem(), nil)
}

func TestCompositePerformer_LocalAndRemote(t *testing.T) {
	local := &stubPerformer{}
	remote := &stubRemote{}
	performer := application.NewCompositePerformer(uuid.New(), local, remote, &stubQueue{}, nil)

	err := performer.Perform(context.Background(), compositeOp(t))
	require.NoError(t, err)
	assert.Len(t, local.performed, 1)
	assert.Equal(t, 1, remote.calls)
}

func TestCompositePerformer_LocalFailureAborts(t *testing.T) {
	local := &stubPerformer{failWith: domain.ErrPlacementRejected}
	remote := &stubRemote{}
	performer := application.NewCompositePerformer(uuid.New(), local, remote, &stubQueue{}, nil)

	err := performer.Perform(context.Background(), compositeOp(t))
	assert.ErrorIs(t, err, domain.ErrPlacementRejected)
	assert.Equal(t, 0, remote.calls)
}

func TestCompositePerformer_RemoteFailureIsQueued(t *testing.T) {
	local := &stubPerformer{}
	remote := &stubRemote{err: domain.ErrRemoteUnavailable}
	queue := &stubQueue{}
	performer := application.NewCompositePerformer(uuid.New(), local, remote, queue, nil)

	op := compositeOp(t)
	err := performer.Perform(context.Background(), op)

	// The local commit succeeded, so the caller sees success.
	require.NoError(t, err)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, op.ID, queue.enqueued[0].ID)
}

func TestCompositePerformer_NonRecoverableRemoteFailureNotQueued(t *testing.T) {
	local := &stubPerformer{}
	remote := &stubRemote{err: domain.ErrPlacementRejected}
	queue := &stubQueue{}
	performer := application.NewCompositePerformer(uuid.New(), local, remote, queue, nil)

	err := performer.Perform(context.Background(), compositeOp(t))
	require.NoError(t, err)
	assert.Empty(t, queue.enqueued)
}

func TestCompositePerformer_NoRemote(t *testing.T) {
	local := &stubPerformer{}
	performer := application.NewCompositePerformer(uuid.New(), local, nil, nil, nil)

	require.NoError(t, performer.Perform(context.Background(), compositeOp(t)))
	assert.Len(t, local.performed, 1)
}
