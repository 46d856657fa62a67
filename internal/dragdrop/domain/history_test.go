package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem() domain.DragItem {
	return domain.DragItem{
		ID:              uuid.New(),
		Kind:            domain.ItemKindWishlist,
		Source:          domain.SourceWishlist,
		Title:           "Louvre",
		PlaceID:         uuid.New(),
		DurationMinutes: 60,
	}
}

func testSlot(clock string) *domain.TargetSlot {
	tod, err := schedulingDomain.ParseTimeOfDay(clock)
	if err != nil {
		panic(err)
	}
	return &domain.TargetSlot{
		ZoneID: "day-2026-06-10",
		Date:   time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		Start:  tod,
	}
}

func committedOp() *domain.Operation {
	op := domain.NewOperation(domain.OpSchedule, testItem(), testSlot("10:00"))
	op.Result = domain.ResultSuccess
	op.Rollback = &domain.RollbackData{ActivityID: uuid.New()}
	return op
}

func TestHistoryLog_RecordAndCursor(t *testing.T) {
	log := domain.NewHistoryLog(50)

	assert.False(t, log.CanUndo())
	assert.False(t, log.CanRedo())
	assert.Equal(t, -1, log.Cursor())

	first := committedOp()
	log.RecordAfterCommit(first)

	assert.Equal(t, 0, log.Cursor())
	assert.True(t, log.CanUndo())
	assert.False(t, log.CanRedo())
	assert.Equal(t, first, log.PeekUndo())
}

func TestHistoryLog_UndoRedoCursorMovement(t *testing.T) {
	log := domain.NewHistoryLog(50)
	first := committedOp()
	second := committedOp()
	log.RecordAfterCommit(first)
	log.RecordAfterCommit(second)

	before := log.Cursor()

	log.CommitUndo()
	assert.Equal(t, before-1, log.Cursor())
	assert.True(t, log.CanRedo())
	assert.Equal(t, second, log.PeekRedo())

	log.CommitRedo()
	assert.Equal(t, before, log.Cursor())
	assert.Equal(t, second, log.PeekUndo())

	// Entries are never removed by cursor movement.
	assert.Equal(t, 2, log.Len())
}

func TestHistoryLog_BranchPruning(t *testing.T) {
	log := domain.NewHistoryLog(50)
	for i := 0; i < 4; i++ {
		log.RecordAfterCommit(committedOp())
	}

	log.CommitUndo()
	log.CommitUndo()
	cursorBefore := log.Cursor()
	require.Equal(t, 1, cursorBefore)

	replacement := committedOp()
	log.RecordAfterCommit(replacement)

	// Stale redo branch is discarded: length is cursor_before + 2.
	assert.Equal(t, cursorBefore+2, log.Len())
	assert.Equal(t, replacement, log.PeekUndo())
	assert.False(t, log.CanRedo())
}

func TestHistoryLog_Eviction(t *testing.T) {
	log := domain.NewHistoryLog(3)
	ops := make([]*domain.Operation, 0, 5)
	for i := 0; i < 5; i++ {
		op := committedOp()
		ops = append(ops, op)
		log.RecordAfterCommit(op)
		assert.LessOrEqual(t, log.Len(), 3)
	}

	assert.Equal(t, 3, log.Len())
	assert.Equal(t, 2, log.Cursor())
	// The oldest two were evicted.
	assert.Equal(t, ops[2], log.Entries()[0])
	assert.Equal(t, ops[4], log.PeekUndo())
}

func TestHistoryLog_EvictionClampsCursor(t *testing.T) {
	log := domain.NewHistoryLog(2)
	log.RecordAfterCommit(committedOp())
	log.RecordAfterCommit(committedOp())

	log.CommitUndo()
	log.CommitUndo()
	require.Equal(t, -1, log.Cursor())

	// Recording prunes the branch first, so the log never overflows.
	log.RecordAfterCommit(committedOp())
	assert.Equal(t, 1, log.Len())
	assert.Equal(t, 0, log.Cursor())
}

func TestOperation_Reverse(t *testing.T) {
	t.Run("schedule reverses to remove", func(t *testing.T) {
		activityID := uuid.New()
		op := domain.NewOperation(domain.OpSchedule, testItem(), testSlot("10:00"))
		op.Rollback = &domain.RollbackData{ActivityID: activityID}

		rev, err := op.Reverse()
		require.NoError(t, err)
		assert.Equal(t, domain.OpRemove, rev.Kind)
		assert.Equal(t, activityID, rev.Item.ActivityID)
		require.NotNil(t, rev.Rollback)
		assert.Equal(t, op.Target, rev.Rollback.PreviousSlot)
	})

	t.Run("remove reverses to schedule at previous slot", func(t *testing.T) {
		prev := testSlot("14:00")
		op := domain.NewOperation(domain.OpRemove, testItem(), nil)
		op.Rollback = &domain.RollbackData{ActivityID: uuid.New(), PreviousSlot: prev}

		rev, err := op.Reverse()
		require.NoError(t, err)
		assert.Equal(t, domain.OpSchedule, rev.Kind)
		assert.Equal(t, prev, rev.Target)
	})

	t.Run("move reverses to move back", func(t *testing.T) {
		prev := testSlot("09:00")
		target := testSlot("15:00")
		op := domain.NewOperation(domain.OpMove, testItem(), target)
		op.Rollback = &domain.RollbackData{ActivityID: uuid.New(), PreviousSlot: prev}

		rev, err := op.Reverse()
		require.NoError(t, err)
		assert.Equal(t, domain.OpMove, rev.Kind)
		assert.Equal(t, prev, rev.Target)
		assert.Equal(t, target, rev.Rollback.PreviousSlot)
	})

	t.Run("missing rollback data", func(t *testing.T) {
		op := domain.NewOperation(domain.OpSchedule, testItem(), testSlot("10:00"))
		_, err := op.Reverse()
		assert.ErrorIs(t, err, domain.ErrNoRollbackData)
	})
}
