package domain

// DefaultHistorySize bounds the operation log.
const DefaultHistorySize = 50

// HistoryLog is a bounded linear undo/redo log. The cursor points at the
// index of the last applied operation, -1 when none. Undo and redo move
// the cursor; they never delete entries. Recording a new operation after
// an undo prunes the stale redo branch.
type HistoryLog struct {
	entries []*Operation
	cursor  int
	maxSize int
}

// NewHistoryLog creates an empty log bounded to maxSize entries.
func NewHistoryLog(maxSize int) *HistoryLog {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &HistoryLog{
		entries: make([]*Operation, 0),
		cursor:  -1,
		maxSize: maxSize,
	}
}

// RecordAfterCommit appends a committed operation: everything past the
// cursor is discarded, the operation becomes the new last applied entry,
// and the oldest entries are evicted once the log exceeds its bound.
func (h *HistoryLog) RecordAfterCommit(op *Operation) {
	h.entries = append(h.entries[:h.cursor+1], op)
	h.cursor = len(h.entries) - 1

	if excess := len(h.entries) - h.maxSize; excess > 0 {
		h.entries = h.entries[excess:]
		h.cursor -= excess
		if h.cursor < -1 {
			h.cursor = -1
		}
	}
}

// CanUndo reports whether an applied operation exists to reverse.
func (h *HistoryLog) CanUndo() bool {
	return h.cursor >= 0
}

// CanRedo reports whether an undone operation exists to re-apply.
func (h *HistoryLog) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// PeekUndo returns the operation an undo would reverse, nil when none.
func (h *HistoryLog) PeekUndo() *Operation {
	if !h.CanUndo() {
		return nil
	}
	return h.entries[h.cursor]
}

// PeekRedo returns the operation a redo would re-apply, nil when none.
func (h *HistoryLog) PeekRedo() *Operation {
	if !h.CanRedo() {
		return nil
	}
	return h.entries[h.cursor+1]
}

// CommitUndo moves the cursor back after a successful reverse effect.
func (h *HistoryLog) CommitUndo() {
	if h.CanUndo() {
		h.cursor--
	}
}

// CommitRedo moves the cursor forward after a successful re-apply.
func (h *HistoryLog) CommitRedo() {
	if h.CanRedo() {
		h.cursor++
	}
}

// Len returns the number of logged operations.
func (h *HistoryLog) Len() int { return len(h.entries) }

// Cursor returns the index of the last applied operation, -1 when none.
func (h *HistoryLog) Cursor() int { return h.cursor }

// Entries returns a snapshot of the log.
func (h *HistoryLog) Entries() []*Operation {
	snapshot := make([]*Operation, len(h.entries))
	copy(snapshot, h.entries)
	return snapshot
}
