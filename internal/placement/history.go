package placement

// History is an array-plus-cursor undo stack. The cursor always indexes a
// valid entry; entry zero is the placement the history was created with.
type History struct {
	entries []Placement
	cursor  int
	locked  bool
}

// NewHistory seeds a history with the default placement.
func NewHistory() *History {
	return &History{entries: []Placement{Default()}}
}

// Current returns the effective placement.
func (h *History) Current() Placement {
	return h.entries[h.cursor]
}

// Apply records a new placement. It truncates any redo branch before
// appending. A locked history ignores the edit and reports false.
func (h *History) Apply(next Placement) (bool, error) {
	if h.locked {
		return false, nil
	}
	if err := next.Validate(); err != nil {
		return false, err
	}
	h.entries = append(h.entries[:h.cursor+1:h.cursor+1], next)
	h.cursor = len(h.entries) - 1
	return true, nil
}

// Reset records the default placement as a regular edit, so it can be undone.
func (h *History) Reset() (bool, error) {
	return h.Apply(Default())
}

// Undo moves the cursor back one entry. At the oldest entry it is a no-op.
func (h *History) Undo() (Placement, bool) {
	if h.cursor == 0 {
		return h.Current(), false
	}
	h.cursor--
	return h.Current(), true
}

// Redo moves the cursor forward one entry when a redo branch exists.
func (h *History) Redo() (Placement, bool) {
	if h.cursor >= len(h.entries)-1 {
		return h.Current(), false
	}
	h.cursor++
	return h.Current(), true
}

// Lock blocks new edits; undo and redo stay available.
func (h *History) Lock() { h.locked = true }

func (h *History) Unlock() { h.locked = false }

func (h *History) Locked() bool { return h.locked }

func (h *History) CanUndo() bool { return h.cursor > 0 }

func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Len reports the number of recorded snapshots.
func (h *History) Len() int { return len(h.entries) }

// Cursor reports the index of the effective snapshot.
func (h *History) Cursor() int { return h.cursor }
