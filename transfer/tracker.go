package transfer

import "sync"

// Tracker remembers the path of the drag in progress for drop targets that
// cannot read the payload before the drop completes.
type Tracker struct {
	mu   sync.Mutex
	path string
}

// DefaultTracker is shared by the whole process.
var DefaultTracker = &Tracker{}

// Begin records path at drag start.
func (t *Tracker) Begin(path string) {
	t.mu.Lock()
	t.path = path
	t.mu.Unlock()
}

// End clears the path when the drag finishes or is cancelled.
func (t *Tracker) End() {
	t.Begin("")
}

func (t *Tracker) Path() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// Decode is the package Decode falling back to this tracker.
func (t *Tracker) Decode(p Payload) string {
	if path := decodePrimary(p); path != "" {
		return path
	}
	return t.Path()
}

// DecodePaths is the package DecodePaths falling back to this tracker.
func (t *Tracker) DecodePaths(p Payload) []string {
	if all := decodeAll(p); len(all) > 0 {
		return all
	}
	if path := t.Decode(p); path != "" {
		return []string{path}
	}
	return nil
}
