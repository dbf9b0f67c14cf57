// Package history provides a linear undo/redo timeline over immutable
// snapshots.
//
// A Timeline holds past, present and future. Set pushes the present onto
// past and clears future, so there is no redo branching: a fresh change
// after an undo discards whatever could have been redone.
//
// Timeline does no copying. Callers must treat snapshots as immutable
// values, which the graph package guarantees for Nodes and Edges.
package history

// Timeline is a past/present/future triple for one store.
// The zero value is a usable timeline whose present is the zero T.
type Timeline[T any] struct {
	past    []T
	present T
	future  []T
	limit   int
}

// Option configures a Timeline.
type Option func(*config)

type config struct {
	limit int
}

// WithLimit caps how many past snapshots are retained.
// When the cap is reached the oldest snapshot is dropped on Set.
// A limit of zero or less means unlimited.
func WithLimit(n int) Option {
	return func(c *config) {
		c.limit = n
	}
}

// New creates a timeline whose present is initial, with empty past and
// future.
func New[T any](initial T, opts ...Option) *Timeline[T] {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Timeline[T]{present: initial, limit: cfg.limit}
}

// Present returns the current snapshot.
func (t *Timeline[T]) Present() T {
	return t.present
}

// Set installs snap as the present, pushing the old present onto past and
// clearing future.
func (t *Timeline[T]) Set(snap T) {
	t.past = append(t.past, t.present)
	if t.limit > 0 && len(t.past) > t.limit {
		drop := len(t.past) - t.limit
		t.past = append([]T(nil), t.past[drop:]...)
	}
	t.present = snap
	t.future = nil
}

// Undo moves one step back. Returns false (no-op) if past is empty.
func (t *Timeline[T]) Undo() bool {
	if len(t.past) == 0 {
		return false
	}
	last := len(t.past) - 1
	prev := t.past[last]
	t.past = t.past[:last]

	// future is kept newest-undone last, so Redo pops from the end
	t.future = append(t.future, t.present)
	t.present = prev
	return true
}

// Redo moves one step forward. Returns false (no-op) if future is empty.
func (t *Timeline[T]) Redo() bool {
	if len(t.future) == 0 {
		return false
	}
	last := len(t.future) - 1
	next := t.future[last]
	t.future = t.future[:last]

	t.past = append(t.past, t.present)
	t.present = next
	return true
}

// Reset installs snap as the present and forgets past and future.
func (t *Timeline[T]) Reset(snap T) {
	t.past = nil
	t.present = snap
	t.future = nil
}

// CanUndo reports whether past is non-empty.
func (t *Timeline[T]) CanUndo() bool {
	return len(t.past) > 0
}

// CanRedo reports whether future is non-empty.
func (t *Timeline[T]) CanRedo() bool {
	return len(t.future) > 0
}

// Depth returns the number of past and future snapshots.
func (t *Timeline[T]) Depth() (past, future int) {
	return len(t.past), len(t.future)
}
