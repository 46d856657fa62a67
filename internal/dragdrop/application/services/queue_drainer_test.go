package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/application"
	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/application/services"
	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryQueue is an in-memory FIFO queue repository.
type memoryQueue struct {
	nextID  int64
	entries []*domain.QueuedOperation
}

func (q *memoryQueue) Enqueue(_ context.Context, userID uuid.UUID, op *domain.Operation) error {
	payload, err := json.Marshal(op)
	if err != nil {
		return err
	}
	q.nextID++
	q.entries = append(q.entries, &domain.QueuedOperation{
		ID:          q.nextID,
		OperationID: op.ID,
		UserID:      userID,
		Kind:        op.Kind,
		Payload:     payload,
		EnqueuedAt:  time.Now().UTC(),
	})
	return nil
}

func (q *memoryQueue) List(_ context.Context, limit int) ([]*domain.QueuedOperation, error) {
	if limit > len(q.entries) {
		limit = len(q.entries)
	}
	out := make([]*domain.QueuedOperation, limit)
	copy(out, q.entries[:limit])
	return out, nil
}

func (q *memoryQueue) Remove(_ context.Context, id int64) error {
	for i, e := range q.entries {
		if e.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (q *memoryQueue) MarkFailed(_ context.Context, id int64, errMsg string) error {
	for _, e := range q.entries {
		if e.ID == id {
			e.RetryCount++
			e.LastError = errMsg
		}
	}
	return nil
}

func (q *memoryQueue) Size(context.Context) (int, error) {
	return len(q.entries), nil
}

// recordingPerformer records operation IDs and fails on selected ones.
type recordingPerformer struct {
	performed []uuid.UUID
	failOn    map[uuid.UUID]error
}

func (p *recordingPerformer) Perform(_ context.Context, op *domain.Operation) error {
	if err, ok := p.failOn[op.ID]; ok {
		return err
	}
	p.performed = append(p.performed, op.ID)
	return nil
}

func queuedOp(t *testing.T, q *memoryQueue, userID uuid.UUID) *domain.Operation {
	t.Helper()
	op := domain.NewOperation(domain.OpSchedule, retryItem(), retrySlot())
	require.NoError(t, q.Enqueue(context.Background(), userID, op))
	return op
}

func TestQueueDrainer_DrainsInOrder(t *testing.T) {
	queue := &memoryQueue{}
	userID := uuid.New()
	first := queuedOp(t, queue, userID)
	second := queuedOp(t, queue, userID)
	third := queuedOp(t, queue, userID)

	performer := &recordingPerformer{}
	drainer := services.NewQueueDrainer(queue, performer, nil)

	drained, err := drainer.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, drained)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, performer.performed)

	size, err := queue.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestQueueDrainer_StopsAtFirstFailure(t *testing.T) {
	queue := &memoryQueue{}
	userID := uuid.New()
	first := queuedOp(t, queue, userID)
	second := queuedOp(t, queue, userID)
	third := queuedOp(t, queue, userID)

	performer := &recordingPerformer{
		failOn: map[uuid.UUID]error{second.ID: domain.ErrRemoteUnavailable},
	}
	drainer := services.NewQueueDrainer(queue, performer, nil)

	drained, err := drainer.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, drained)
	// Only the first entry was replayed; the third never overtakes the
	// failed second.
	assert.Equal(t, []uuid.UUID{first.ID}, performer.performed)

	size, err := queue.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, size)
	assert.Equal(t, 1, queue.entries[0].RetryCount)
	assert.NotEmpty(t, queue.entries[0].LastError)
	_ = third
}

// onceLocalPerformer commits each operation once and rejects a replay
// the way the schedule aggregate would.
type onceLocalPerformer struct {
	seen map[uuid.UUID]bool
}

func (p *onceLocalPerformer) Perform(_ context.Context, op *domain.Operation) error {
	if p.seen[op.ID] {
		return schedulingDomain.ErrActivityOverlap
	}
	p.seen[op.ID] = true
	return nil
}

// flakyRemote fails the first failures sync calls, then recovers.
type flakyRemote struct {
	failures int
	synced   []uuid.UUID
}

func (r *flakyRemote) SyncOperation(_ context.Context, _ uuid.UUID, op *domain.Operation) error {
	if r.failures > 0 {
		r.failures--
		return domain.ErrRemoteUnavailable
	}
	r.synced = append(r.synced, op.ID)
	return nil
}

func TestQueueDrainer_ReplaySkipsLocalCommit(t *testing.T) {
	queue := &memoryQueue{}
	userID := uuid.New()
	local := &onceLocalPerformer{seen: map[uuid.UUID]bool{}}
	remote := &flakyRemote{failures: 1}
	composite := application.NewCompositePerformer(userID, local, remote, queue, nil)

	// Local commit succeeds, the remote mirror fails, the entry is parked.
	op := domain.NewOperation(domain.OpSchedule, retryItem(), retrySlot())
	require.NoError(t, composite.Perform(context.Background(), op))
	size, err := queue.Size(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, size)

	// Replay after the remote recovers only re-attempts the mirror; the
	// already-committed local slot is never re-scheduled into itself.
	drainer := services.NewQueueDrainer(queue, application.NewRemoteSyncPerformer(userID, remote), nil)
	drained, err := drainer.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, drained)
	assert.Equal(t, []uuid.UUID{op.ID}, remote.synced)
	assert.Len(t, local.seen, 1)

	size, err = queue.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestQueueDrainer_BatchSizeBoundsPass(t *testing.T) {
	queue := &memoryQueue{}
	userID := uuid.New()
	queuedOp(t, queue, userID)
	queuedOp(t, queue, userID)
	queuedOp(t, queue, userID)

	drainer := services.NewQueueDrainer(queue, &recordingPerformer{}, nil)
	drainer.SetBatchSize(2)

	drained, err := drainer.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, drained)

	size, err := queue.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

func TestQueueDrainer_DropsCorruptPayload(t *testing.T) {
	queue := &memoryQueue{}
	userID := uuid.New()
	queue.nextID++
	queue.entries = append(queue.entries, &domain.QueuedOperation{
		ID:      queue.nextID,
		UserID:  userID,
		Payload: []byte("{not json"),
	})
	healthy := queuedOp(t, queue, userID)

	performer := &recordingPerformer{}
	drainer := services.NewQueueDrainer(queue, performer, nil)

	drained, err := drainer.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, drained)
	assert.Equal(t, []uuid.UUID{healthy.ID}, performer.performed)

	size, err := queue.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestQueueDrainer_EmptyQueue(t *testing.T) {
	drainer := services.NewQueueDrainer(&memoryQueue{}, &recordingPerformer{}, nil)
	drained, err := drainer.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, drained)
}

func TestQueueDrainer_PayloadRoundTrip(t *testing.T) {
	queue := &memoryQueue{}
	op := queuedOp(t, queue, uuid.New())

	var decoded domain.Operation
	require.NoError(t, json.Unmarshal(queue.entries[0].Payload, &decoded))
	assert.Equal(t, op.ID, decoded.ID)
	assert.Equal(t, op.Kind, decoded.Kind)
	require.NotNil(t, decoded.Target)
	assert.Equal(t, "10:00", decoded.Target.Start.String())
}
