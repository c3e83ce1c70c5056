package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mkTasks(views ...IntervalView) []*indexedTask {
	tasks := make([]*indexedTask, len(views))
	for i, v := range views {
		tasks[i] = &indexedTask{view: v}
	}
	return tasks
}

// Three mandatory tasks of duration 4 due by 10 need 12 time units.
func TestOverloadChecking_DetectsOverload(t *testing.T) {
	s := NewSolver()
	a := fixed(t, s, 0, 6, 4, "a")
	b := fixed(t, s, 0, 6, 4, "b")
	c := fixed(t, s, 0, 6, 4, "c")

	ef := newEdgeFinder(3)
	require.NoError(t, ef.overloadChecking(mkTasks(a, b)))
	require.ErrorIs(t, ef.overloadChecking(mkTasks(a, b, c)), ErrResourceOverload)
}

// B must wait for A: A completes no earlier than 2 and must start before B's
// earliest end.
func TestDetectablePrecedences_RaisesStart(t *testing.T) {
	s := NewSolver()
	a := fixed(t, s, 0, 1, 2, "a")
	b := fixed(t, s, 0, 10, 3, "b")

	ef := newEdgeFinder(2)
	modified, err := ef.detectablePrecedences(mkTasks(a, b))
	require.NoError(t, err)
	require.True(t, modified)
	require.Equal(t, 2, b.StartMin())
	require.Equal(t, 0, a.StartMin())

	// Re-running at the fixpoint reports no change.
	modified, err = ef.detectablePrecedences(mkTasks(a, b))
	require.NoError(t, err)
	require.False(t, modified)
}

// A and B fill [0..8] entirely, so C must start at their completion even
// though no pairwise precedence is detectable.
func TestEdgeFinding_RaisesStartOfExcludedTask(t *testing.T) {
	s := NewSolver()
	a := fixed(t, s, 0, 4, 4, "a")
	b := fixed(t, s, 0, 4, 4, "b")
	c := fixed(t, s, 0, 16, 4, "c")

	ef := newEdgeFinder(3)
	modified, err := ef.edgeFinding(mkTasks(a, b, c))
	require.NoError(t, err)
	require.True(t, modified)
	require.Equal(t, 8, c.StartMin())
	require.Equal(t, 0, a.StartMin())
	require.Equal(t, 0, b.StartMin())

	modified, err = ef.edgeFinding(mkTasks(a, b, c))
	require.NoError(t, err)
	require.False(t, modified)
}

// With B1 fixed at [0..3] and B2 fixed at [5..9], A cannot run last and must
// end by B2's latest start.
func TestNotLast_LowersEnd(t *testing.T) {
	s := NewSolver()
	b1 := fixed(t, s, 0, 0, 3, "b1")
	b2 := fixed(t, s, 5, 5, 4, "b2")
	a := fixed(t, s, 0, 6, 2, "a")

	nl := newNotLast(3)
	modified, err := nl.propagate(mkTasks(b1, b2, a))
	require.NoError(t, err)
	require.True(t, modified)
	require.Equal(t, 5, a.EndMax())

	modified, err = nl.propagate(mkTasks(b1, b2, a))
	require.NoError(t, err)
	require.False(t, modified)
}

func addDisjunctive(t *testing.T, s *Solver, intervals []*IntervalVar) {
	t.Helper()
	d, err := NewDisjunctive(s, intervals, "machine")
	require.NoError(t, err)
	s.AddConstraint(d)
}

func TestDisjunctive_OverloadFails(t *testing.T) {
	s := NewSolver()
	a := fixed(t, s, 0, 6, 4, "a")
	b := fixed(t, s, 0, 6, 4, "b")
	c := fixed(t, s, 0, 6, 4, "c")
	addDisjunctive(t, s, []*IntervalVar{a, b, c})

	require.ErrorIs(t, s.Propagate(), ErrResourceOverload)
}

func TestDisjunctive_PropagatesToFixpoint(t *testing.T) {
	s := NewSolver()
	a := fixed(t, s, 0, 4, 4, "a")
	b := fixed(t, s, 0, 4, 4, "b")
	c := fixed(t, s, 0, 16, 4, "c")
	addDisjunctive(t, s, []*IntervalVar{a, b, c})

	require.NoError(t, s.Propagate())
	require.Equal(t, 8, c.StartMin())
	require.Equal(t, 0, a.StartMin())
	require.Equal(t, 4, a.StartMax())
	require.Equal(t, 0, b.StartMin())

	// Quiescent on re-propagation.
	require.NoError(t, s.Propagate())
	require.Equal(t, 8, c.StartMin())
}

// The mirrored instance of the same sweeps tightens latest ends.
func TestDisjunctive_MirrorTightensEnds(t *testing.T) {
	s := NewSolver()
	a := fixed(t, s, 12, 16, 4, "a")
	b := fixed(t, s, 12, 16, 4, "b")
	c := fixed(t, s, 0, 16, 4, "c")
	addDisjunctive(t, s, []*IntervalVar{a, b, c})

	require.NoError(t, s.Propagate())
	require.Equal(t, 12, c.EndMax())
	require.Equal(t, 8, c.StartMax())
	require.Equal(t, 12, a.StartMin())
	require.Equal(t, 12, b.StartMin())
}

func TestDisjunctive_DetectablePrecedenceThroughConstraint(t *testing.T) {
	s := NewSolver()
	a := fixed(t, s, 0, 1, 2, "a")
	b := fixed(t, s, 0, 10, 3, "b")
	addDisjunctive(t, s, []*IntervalVar{a, b})

	require.NoError(t, s.Propagate())
	require.Equal(t, 2, b.StartMin())
	require.Equal(t, 0, a.StartMin())
	require.Equal(t, 1, a.StartMax())
}

// The not-last rule combined with the mirrored sweeps pins A into the gap
// between two fixed neighbors.
func TestDisjunctive_NotLastPinsTaskIntoGap(t *testing.T) {
	s := NewSolver()
	b1 := fixed(t, s, 0, 0, 3, "b1")
	b2 := fixed(t, s, 5, 5, 4, "b2")
	a := fixed(t, s, 0, 6, 2, "a")
	addDisjunctive(t, s, []*IntervalVar{b1, b2, a})

	require.NoError(t, s.Propagate())
	require.Equal(t, 3, a.StartMin())
	require.Equal(t, 3, a.StartMax())
	require.Equal(t, 5, a.EndMax())
}

// An undecided optional task neither overloads the resource nor pushes the
// mandatory ones; committing it to be performed does both.
func TestDisjunctive_OptionalConstrainsOnlyWhenPerformed(t *testing.T) {
	s := NewSolver()
	b := fixed(t, s, 0, 0, 4, "b")
	opt := optionalFixed(t, s, 0, 0, 4, "opt")
	addDisjunctive(t, s, []*IntervalVar{b, opt})

	require.NoError(t, s.Propagate())
	require.Equal(t, 0, b.StartMin())
	require.Equal(t, 4, b.EndMax())
	require.True(t, opt.MayBePerformed())
	require.False(t, opt.MustBePerformed())

	// Both fixed to [0..4] on the same machine: overload.
	require.NoError(t, opt.SetPerformed(true))
	require.ErrorIs(t, s.Propagate(), ErrResourceOverload)
}

// An excluded interval leaves the constraint entirely.
func TestDisjunctive_ExcludedIntervalDoesNotParticipate(t *testing.T) {
	s := NewSolver()
	a := fixed(t, s, 0, 6, 4, "a")
	b := fixed(t, s, 0, 6, 4, "b")
	opt := optionalFixed(t, s, 0, 6, 4, "opt")
	addDisjunctive(t, s, []*IntervalVar{a, b, opt})

	require.NoError(t, opt.SetPerformed(false))
	require.NoError(t, s.Propagate())
}

func TestDisjunctive_BacktrackRestoresBounds(t *testing.T) {
	s := NewSolver()
	a := fixed(t, s, 0, 4, 4, "a")
	b := fixed(t, s, 0, 4, 4, "b")
	c := fixed(t, s, 0, 16, 4, "c")
	addDisjunctive(t, s, []*IntervalVar{a, b, c})
	require.NoError(t, s.Propagate())

	mark := s.Mark()
	require.NoError(t, c.SetStartMin(10))
	require.NoError(t, s.Propagate())
	require.Equal(t, 10, c.StartMin())

	s.BacktrackTo(mark)
	require.Equal(t, 8, c.StartMin())
}

func TestNewDisjunctive_Validation(t *testing.T) {
	s := NewSolver()
	v := fixed(t, s, 0, 10, 2, "v")

	_, err := NewDisjunctive(nil, []*IntervalVar{v}, "nil solver")
	require.Error(t, err)

	_, err = NewDisjunctive(s, nil, "no intervals")
	require.Error(t, err)

	_, err = NewDisjunctive(s, []*IntervalVar{v, nil}, "nil interval")
	require.Error(t, err)
}

func (d *Disjunctive) boundsSnapshot() [][4]int {
	snap := make([][4]int, len(d.intervals))
	for i, v := range d.intervals {
		snap[i] = [4]int{v.StartMin(), v.StartMax(), v.EndMin(), v.EndMax()}
	}
	return snap
}

// Propagation must be idempotent: immediately re-running the fixpoint loop
// changes nothing.
func TestDisjunctive_PropagateIsIdempotent(t *testing.T) {
	s := NewSolver()
	intervals := []*IntervalVar{
		fixed(t, s, 0, 0, 3, "b1"),
		fixed(t, s, 5, 5, 4, "b2"),
		fixed(t, s, 0, 6, 2, "a"),
		fixed(t, s, 0, 30, 4, "free"),
	}
	d, err := NewDisjunctive(s, intervals, "machine")
	require.NoError(t, err)
	s.AddConstraint(d)
	require.NoError(t, s.Propagate())

	snap := d.boundsSnapshot()
	require.NoError(t, d.propagate())
	require.Equal(t, snap, d.boundsSnapshot())
}
