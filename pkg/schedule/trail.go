// Package schedule: backtrackable state.
//
// This file provides the trail, the undo log through which every mutation of
// solver state must go so that the search driver can restore state exactly on
// backtracking. Raw, untrailed writes to shared state are never permitted:
// correctness of the surrounding backtracking search depends on exact undo of
// every change the propagators make.
//
// Reversible cells (RevInt, RevBool) are small typed wrappers over a value
// that record the old value on the trail once per write. They replace the
// untyped save-through-pointer trail APIs found in older CP solvers with a
// type-safe equivalent.
package schedule

// Trail is an undo log. Mark captures the current depth; BacktrackTo unwinds
// every write recorded since that mark, newest first.
//
// A Trail is not safe for concurrent use; all propagation is single-threaded.
type Trail struct {
	undo []func()
}

// NewTrail creates an empty trail.
func NewTrail() *Trail {
	return &Trail{}
}

// Mark returns the current trail depth for a later BacktrackTo.
func (t *Trail) Mark() int {
	return len(t.undo)
}

// BacktrackTo unwinds the trail to a mark previously returned by Mark.
// Entries recorded after the mark are undone in reverse order.
func (t *Trail) BacktrackTo(mark int) {
	for i := len(t.undo) - 1; i >= mark; i-- {
		t.undo[i]()
	}
	t.undo = t.undo[:mark]
}

// Len returns the number of recorded writes.
func (t *Trail) Len() int {
	return len(t.undo)
}

// record saves the current value of cell so BacktrackTo can restore it.
func record[T any](t *Trail, cell *T) {
	old := *cell
	t.undo = append(t.undo, func() { *cell = old })
}

// RevInt is a reversible integer cell. The zero value holds 0.
type RevInt struct {
	v int
}

// NewRevInt creates a cell holding v. No trail entry is recorded: the
// initial value is the value restored by backtracking past all writes.
func NewRevInt(v int) RevInt {
	return RevInt{v: v}
}

// Value returns the current value.
func (r *RevInt) Value() int {
	return r.v
}

// SetValue writes v, recording the old value on the trail.
// Writing the current value is a no-op and records nothing.
func (r *RevInt) SetValue(t *Trail, v int) {
	if v == r.v {
		return
	}
	record(t, &r.v)
	r.v = v
}

// RevBool is a reversible boolean cell. The zero value holds false.
type RevBool struct {
	v bool
}

// NewRevBool creates a cell holding v.
func NewRevBool(v bool) RevBool {
	return RevBool{v: v}
}

// Value returns the current value.
func (r *RevBool) Value() bool {
	return r.v
}

// SetValue writes v, recording the old value on the trail.
func (r *RevBool) SetValue(t *Trail, v bool) {
	if v == r.v {
		return
	}
	record(t, &r.v)
	r.v = v
}
