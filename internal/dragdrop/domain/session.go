package domain

import (
	"errors"
	"sort"
	"sync"
	"time"

	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
)

var (
	ErrDragInProgress    = errors.New("a drag is already in progress")
	ErrNoActiveDrag      = errors.New("no drag in progress")
	ErrOperationInFlight = errors.New("another operation is already committing")
)

// PreviewPosition is an intent for the presentation layer; the engine
// never touches the viewport itself.
type PreviewPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SessionSnapshot is a read-only view of the live drag state handed to
// callers. Views never mutate the session directly.
type SessionSnapshot struct {
	ActiveItem      *DragItem
	IsDragging      bool
	StartedAt       time.Time
	ActiveTarget    *TargetSlot
	LastValidation  *schedulingDomain.ValidationResult
	ValidDropZones  []string
	PreviewVisible  bool
	PreviewPosition *PreviewPosition
	IsProcessing    bool
}

// StateMachine owns the single source of truth for the drag gesture.
// Exactly one session may be active at a time, and every transition
// mutates the session atomically.
type StateMachine struct {
	mu sync.Mutex

	activeItem      *DragItem
	dragging        bool
	startedAt       time.Time
	target          *TargetSlot
	lastValidation  *schedulingDomain.ValidationResult
	validZones      map[string]struct{}
	previewVisible  bool
	previewPosition *PreviewPosition
	processing      bool
}

// NewStateMachine creates an idle state machine.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		validZones: make(map[string]struct{}),
	}
}

// StartDrag begins a session. Rejected while another drag is active,
// leaving the existing session untouched.
func (m *StateMachine) StartDrag(item DragItem, showPreview bool) error {
	if err := item.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dragging {
		return ErrDragInProgress
	}

	m.activeItem = &item
	m.dragging = true
	m.startedAt = time.Now().UTC()
	m.target = nil
	m.lastValidation = nil
	m.previewVisible = showPreview
	m.previewPosition = nil
	return nil
}

// UpdateTarget replaces the hovered slot and its validation verdict.
// The machine does not validate; callers supply the pipeline's result.
func (m *StateMachine) UpdateTarget(slot TargetSlot, result schedulingDomain.ValidationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dragging {
		return ErrNoActiveDrag
	}

	m.target = &slot
	m.lastValidation = &result
	return nil
}

// SetPreviewPosition records the floating preview intent.
func (m *StateMachine) SetPreviewPosition(pos PreviewPosition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dragging && m.previewVisible {
		m.previewPosition = &pos
	}
}

// SetValidDropZones replaces the advisory highlight set. Purely
// presentational.
func (m *StateMachine) SetValidDropZones(zoneIDs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.validZones = make(map[string]struct{}, len(zoneIDs))
	for _, id := range zoneIDs {
		m.validZones[id] = struct{}{}
	}
}

// IsZoneValid reports whether a zone is in the highlight set.
func (m *StateMachine) IsZoneValid(zoneID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.validZones[zoneID]
	return ok
}

// BeginCommit transitions into the committing phase and returns the
// session's item, target, and last validation. At most one commit may
// run at a time; a second call is loudly rejected.
func (m *StateMachine) BeginCommit() (DragItem, *TargetSlot, *schedulingDomain.ValidationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dragging {
		return DragItem{}, nil, nil, ErrNoActiveDrag
	}
	if m.processing {
		return DragItem{}, nil, nil, ErrOperationInFlight
	}

	m.processing = true
	return *m.activeItem, m.target, m.lastValidation, nil
}

// FinishCommit unconditionally clears the session back to idle. It is
// called on success, failure, and panic paths alike.
func (m *StateMachine) FinishCommit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	m.processing = false
}

// Cancel clears the session without any side effects. Rejected while a
// commit is in flight.
func (m *StateMachine) Cancel() (DragItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dragging {
		return DragItem{}, ErrNoActiveDrag
	}
	if m.processing {
		return DragItem{}, ErrOperationInFlight
	}

	item := *m.activeItem
	m.clearLocked()
	return item, nil
}

// TryAcquireProcessing claims the commit flag for undo/redo effects so
// they serialize with endDrag commits. Returns false when already busy.
func (m *StateMachine) TryAcquireProcessing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processing {
		return false
	}
	m.processing = true
	return true
}

// ReleaseProcessing frees the commit flag.
func (m *StateMachine) ReleaseProcessing() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processing = false
}

// IsDragging reports whether a session is active.
func (m *StateMachine) IsDragging() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dragging
}

// Snapshot returns a consistent read-only view of the session.
func (m *StateMachine) Snapshot() SessionSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	zones := make([]string, 0, len(m.validZones))
	for id := range m.validZones {
		zones = append(zones, id)
	}
	sort.Strings(zones)

	return SessionSnapshot{
		ActiveItem:      m.activeItem,
		IsDragging:      m.dragging,
		StartedAt:       m.startedAt,
		ActiveTarget:    m.target,
		LastValidation:  m.lastValidation,
		ValidDropZones:  zones,
		PreviewVisible:  m.previewVisible,
		PreviewPosition: m.previewPosition,
		IsProcessing:    m.processing,
	}
}

// clearLocked resets the drag fields. Caller holds the lock.
func (m *StateMachine) clearLocked() {
	m.activeItem = nil
	m.dragging = false
	m.startedAt = time.Time{}
	m.target = nil
	m.lastValidation = nil
	m.validZones = make(map[string]struct{})
	m.previewVisible = false
	m.previewPosition = nil
}
