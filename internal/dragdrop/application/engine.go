package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Callbacks let the presentation layer react to gesture lifecycle events.
// Nil callbacks are skipped.
type Callbacks struct {
	OnDragStart func(item domain.DragItem)
	OnDragEnd   func(item domain.DragItem, result domain.OperationResult)
}

// Engine coordinates the drag lifecycle: the session state machine, the
// validation pipeline, the performer that commits operations, the history
// log, and error tracking. It is safe for concurrent use.
type Engine struct {
	machine   *domain.StateMachine
	history   *domain.HistoryLog
	pipeline  *schedulingDomain.Pipeline
	performer domain.Performer
	callbacks Callbacks
	logger    *slog.Logger

	retryMax int

	// mu guards the preferences, the tracked error, and the history log;
	// effect invocations stay serialized by the machine's processing flag.
	mu        sync.Mutex
	prefs     domain.Preferences
	lastError *domain.DragError
}

// EngineOption customizes engine construction.
type EngineOption func(*Engine)

// WithCallbacks installs lifecycle callbacks.
func WithCallbacks(cb Callbacks) EngineOption {
	return func(e *Engine) { e.callbacks = cb }
}

// WithPreferences overrides the default gesture preferences.
func WithPreferences(prefs domain.Preferences) EngineOption {
	return func(e *Engine) { e.prefs = prefs }
}

// WithHistorySize bounds the undo log.
func WithHistorySize(size int) EngineOption {
	return func(e *Engine) { e.history = domain.NewHistoryLog(size) }
}

// WithPipeline replaces the default validation pipeline.
func WithPipeline(p *schedulingDomain.Pipeline) EngineOption {
	return func(e *Engine) { e.pipeline = p }
}

// WithMaxRetries overrides the retry budget of tracked failures.
func WithMaxRetries(max int) EngineOption {
	return func(e *Engine) {
		if max > 0 {
			e.retryMax = max
		}
	}
}

// NewEngine creates a drag engine backed by the given performer.
func NewEngine(performer domain.Performer, logger *slog.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		machine:   domain.NewStateMachine(),
		history:   domain.NewHistoryLog(domain.DefaultHistorySize),
		pipeline:  schedulingDomain.DefaultPipeline(),
		performer: performer,
		logger:    logger,
		prefs:     domain.DefaultPreferences(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartDrag begins a gesture for the given item.
func (e *Engine) StartDrag(item domain.DragItem) error {
	e.mu.Lock()
	showPreview := e.prefs.ShowPreview
	e.mu.Unlock()

	if err := e.machine.StartDrag(item, showPreview); err != nil {
		return err
	}

	e.logger.Debug("drag started", "item_id", item.ID, "kind", string(item.Kind))
	if e.callbacks.OnDragStart != nil {
		e.callbacks.OnDragStart(item)
	}
	return nil
}

// UpdateDrag validates the hovered slot and records it as the current
// target. The host supplies the validation context for the slot's day.
// When snap-to-grid is enabled the slot is rounded before validation.
func (e *Engine) UpdateDrag(slot domain.TargetSlot, vc schedulingDomain.ValidationContext) (schedulingDomain.ValidationResult, error) {
	snap := e.machine.Snapshot()
	if !snap.IsDragging {
		return schedulingDomain.ValidationResult{}, domain.ErrNoActiveDrag
	}
	item := *snap.ActiveItem

	e.mu.Lock()
	if e.prefs.SnapToGrid {
		slot = slot.Snapped()
	}
	e.mu.Unlock()

	result := e.pipeline.Validate(schedulingDomain.Candidate{
		Date:            slot.Date,
		Start:           slot.Start,
		DurationMinutes: item.DurationMinutes,
		ExcludeID:       item.ActivityID,
		Location:        item.Location,
		PreferredPeriod: item.PreferredPeriod,
	}, vc)

	if err := e.machine.UpdateTarget(slot, result); err != nil {
		return schedulingDomain.ValidationResult{}, err
	}
	return result, nil
}

// SetPreviewPosition forwards the floating preview intent.
func (e *Engine) SetPreviewPosition(pos domain.PreviewPosition) {
	e.machine.SetPreviewPosition(pos)
}

// SetValidDropZones replaces the advisory highlight set.
func (e *Engine) SetValidDropZones(zoneIDs []string) {
	e.machine.SetValidDropZones(zoneIDs)
}

// ValidateDropZone reports whether a zone is in the highlight set.
func (e *Engine) ValidateDropZone(zoneID string) bool {
	return e.machine.IsZoneValid(zoneID)
}

// EndDrag commits the gesture at its current target. A wishlist item is
// scheduled, a calendar item is moved. The drop is rejected when the last
// validation failed or no target was ever hovered. A commit failure is
// tracked as the engine's last error and returned; it is never silently
// swallowed.
func (e *Engine) EndDrag(ctx context.Context) (*domain.Operation, error) {
	item, target, validation, err := e.machine.BeginCommit()
	if err != nil {
		return nil, err
	}
	defer e.machine.FinishCommit()

	if target == nil || validation == nil || !validation.Valid {
		reason := "no drop target"
		if validation != nil && !validation.Valid {
			reason = validation.Reason
		}
		e.notifyEnd(item, domain.ResultCancelled)
		return nil, fmt.Errorf("%w: %s", domain.ErrPlacementRejected, reason)
	}

	kind := domain.OpSchedule
	if item.Kind == domain.ItemKindActivity {
		kind = domain.OpMove
	}
	op := domain.NewOperation(kind, item, target)

	if err := e.commit(ctx, op); err != nil {
		e.notifyEnd(item, domain.ResultError)
		return nil, err
	}

	e.notifyEnd(item, domain.ResultSuccess)
	return op, nil
}

// CancelDrag abandons the gesture without side effects.
func (e *Engine) CancelDrag() error {
	item, err := e.machine.Cancel()
	if err != nil {
		return err
	}
	e.logger.Debug("drag cancelled", "item_id", item.ID)
	e.notifyEnd(item, domain.ResultCancelled)
	return nil
}

// RemoveActivity takes a scheduled activity off its day outside of a drag
// gesture, for example via a delete control. The removal is recorded in
// the history log and can be undone.
func (e *Engine) RemoveActivity(ctx context.Context, item domain.DragItem, slot domain.TargetSlot) (*domain.Operation, error) {
	if item.Kind != domain.ItemKindActivity {
		return nil, domain.ErrInvalidDragItem
	}
	if !e.machine.TryAcquireProcessing() {
		return nil, domain.ErrOperationInFlight
	}
	defer e.machine.ReleaseProcessing()

	op := domain.NewOperation(domain.OpRemove, item, &slot)
	if err := e.commit(ctx, op); err != nil {
		return nil, err
	}
	return op, nil
}

// Undo reverses the last applied operation. The reverse effect goes
// through the same performer as a regular commit; the cursor only moves
// once the effect succeeds.
func (e *Engine) Undo(ctx context.Context) error {
	if !e.machine.TryAcquireProcessing() {
		return domain.ErrOperationInFlight
	}
	defer e.machine.ReleaseProcessing()

	e.mu.Lock()
	op := e.history.PeekUndo()
	e.mu.Unlock()
	if op == nil {
		return ErrNothingToUndo
	}

	rev, err := op.Reverse()
	if err != nil {
		return err
	}

	if err := e.performer.Perform(ctx, rev); err != nil {
		e.trackError(rev, err)
		return err
	}

	e.mu.Lock()
	e.history.CommitUndo()
	e.lastError = nil
	e.mu.Unlock()
	e.logger.Info("operation undone", "operation_id", op.ID, "kind", string(op.Kind))
	return nil
}

// Redo re-applies the next undone operation in place, refreshing its
// rollback data for the following undo.
func (e *Engine) Redo(ctx context.Context) error {
	if !e.machine.TryAcquireProcessing() {
		return domain.ErrOperationInFlight
	}
	defer e.machine.ReleaseProcessing()

	e.mu.Lock()
	op := e.history.PeekRedo()
	e.mu.Unlock()
	if op == nil {
		return ErrNothingToRedo
	}

	if err := e.performer.Perform(ctx, op); err != nil {
		e.trackError(op, err)
		return err
	}

	e.mu.Lock()
	e.history.CommitRedo()
	e.lastError = nil
	e.mu.Unlock()
	e.logger.Info("operation redone", "operation_id", op.ID, "kind", string(op.Kind))
	return nil
}

// ResolveRetry records an operation whose commit succeeded on a later
// retry and clears the tracked error, so the recovered placement can be
// undone like any first-attempt success.
func (e *Engine) ResolveRetry(op *domain.Operation) error {
	if op == nil {
		return nil
	}
	if !e.machine.TryAcquireProcessing() {
		return domain.ErrOperationInFlight
	}
	defer e.machine.ReleaseProcessing()

	op.Result = domain.ResultSuccess
	e.mu.Lock()
	e.history.RecordAfterCommit(op)
	e.lastError = nil
	e.mu.Unlock()

	e.logger.Info("operation recovered",
		"operation_id", op.ID,
		"kind", string(op.Kind))
	return nil
}

// CanUndo reports whether an operation is available to undo.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo reports whether an operation is available to redo.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// History returns a snapshot of the operation log.
func (e *Engine) History() []*domain.Operation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Entries()
}

// Snapshot returns the live session state.
func (e *Engine) Snapshot() domain.SessionSnapshot { return e.machine.Snapshot() }

// IsDragging reports whether a gesture is active.
func (e *Engine) IsDragging() bool { return e.machine.IsDragging() }

// LastError returns the tracked failure of the most recent effect, nil
// when the last effect succeeded.
func (e *Engine) LastError() *domain.DragError {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastError
}

// Preferences returns the current gesture preferences.
func (e *Engine) Preferences() domain.Preferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs
}

// UpdatePreferences merges the patch into the gesture preferences.
func (e *Engine) UpdatePreferences(patch domain.PreferencesPatch) domain.Preferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prefs = e.prefs.Apply(patch)
	return e.prefs
}

// commit performs the operation, tags its result, and records it.
func (e *Engine) commit(ctx context.Context, op *domain.Operation) error {
	if err := e.performer.Perform(ctx, op); err != nil {
		op.Result = domain.ResultError
		e.trackError(op, err)
		e.logger.Warn("operation failed",
			"operation_id", op.ID,
			"kind", string(op.Kind),
			"error", err)
		return err
	}

	op.Result = domain.ResultSuccess
	e.mu.Lock()
	e.history.RecordAfterCommit(op)
	e.lastError = nil
	e.mu.Unlock()
	e.logger.Info("operation committed",
		"operation_id", op.ID,
		"kind", string(op.Kind),
		"item", op.Item.Title)
	return nil
}

func (e *Engine) trackError(op *domain.Operation, err error) {
	dragErr := domain.NewDragError(op, err)
	if e.retryMax > 0 {
		dragErr.MaxRetries = e.retryMax
	}
	e.mu.Lock()
	e.lastError = dragErr
	e.mu.Unlock()
}

func (e *Engine) notifyEnd(item domain.DragItem, result domain.OperationResult) {
	if e.callbacks.OnDragEnd != nil {
		e.callbacks.OnDragEnd(item, result)
	}
}
