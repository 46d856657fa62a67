package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// OperationKind tags a scheduling operation.
type OperationKind string

const (
	OpSchedule OperationKind = "schedule"
	OpMove     OperationKind = "move"
	OpRemove   OperationKind = "remove"
)

// OperationResult records how an operation concluded.
type OperationResult string

const (
	ResultSuccess   OperationResult = "success"
	ResultError     OperationResult = "error"
	ResultCancelled OperationResult = "cancelled"
)

var (
	ErrNoRollbackData = errors.New("operation carries no rollback data")
	ErrNotReversible  = errors.New("operation cannot be reversed")
)

// RollbackData captures what is needed to reverse a committed operation.
type RollbackData struct {
	// ActivityID is the scheduled activity the operation created or touched.
	ActivityID uuid.UUID `json:"activity_id"`
	// PreviousSlot is the slot the item occupied before a move or remove.
	PreviousSlot *TargetSlot `json:"previous_slot,omitempty"`
}

// Operation is the append-only unit of the history log: one committed
// (or failed, or cancelled) scheduling action.
type Operation struct {
	ID        uuid.UUID       `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Kind      OperationKind   `json:"kind"`
	Item      DragItem        `json:"item"`
	Target    *TargetSlot     `json:"target,omitempty"`
	Result    OperationResult `json:"result"`
	Rollback  *RollbackData   `json:"rollback,omitempty"`
}

// NewOperation creates an operation for the given action.
func NewOperation(kind OperationKind, item DragItem, target *TargetSlot) *Operation {
	return &Operation{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Item:      item,
		Target:    target,
	}
}

// Reverse synthesizes the operation that undoes this one. Schedule and
// remove swap kinds; a move swaps its target with the previous slot.
func (o *Operation) Reverse() (*Operation, error) {
	if o.Rollback == nil {
		return nil, ErrNoRollbackData
	}

	switch o.Kind {
	case OpSchedule:
		item := o.Item
		item.Kind = ItemKindActivity
		item.ActivityID = o.Rollback.ActivityID
		rev := NewOperation(OpRemove, item, o.Target)
		rev.Rollback = &RollbackData{ActivityID: o.Rollback.ActivityID, PreviousSlot: o.Target}
		return rev, nil

	case OpRemove:
		if o.Rollback.PreviousSlot == nil {
			return nil, ErrNoRollbackData
		}
		item := o.Item
		rev := NewOperation(OpSchedule, item, o.Rollback.PreviousSlot)
		return rev, nil

	case OpMove:
		if o.Rollback.PreviousSlot == nil {
			return nil, ErrNoRollbackData
		}
		rev := NewOperation(OpMove, o.Item, o.Rollback.PreviousSlot)
		rev.Rollback = &RollbackData{ActivityID: o.Rollback.ActivityID, PreviousSlot: o.Target}
		return rev, nil

	default:
		return nil, ErrNotReversible
	}
}

// Performer executes an operation against storage. It is the only place
// persistence happens and must tolerate retried calls. Implementations may
// fill in the operation's rollback data on success.
type Performer interface {
	Perform(ctx context.Context, op *Operation) error
}

// PerformerFunc adapts a function to the Performer interface.
type PerformerFunc func(ctx context.Context, op *Operation) error

// Perform calls f.
func (f PerformerFunc) Perform(ctx context.Context, op *Operation) error {
	return f(ctx, op)
}
