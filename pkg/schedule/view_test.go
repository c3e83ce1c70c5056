package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMirrorView_ReflectsBounds(t *testing.T) {
	s := NewSolver()
	v := fixed(t, s, 2, 5, 3, "v") // end in [5..8]
	m := NewMirrorView(v)

	require.Equal(t, -8, m.StartMin())
	require.Equal(t, -5, m.StartMax())
	require.Equal(t, -5, m.EndMin())
	require.Equal(t, -2, m.EndMax())
	require.Equal(t, 3, m.DurationMin())
	require.True(t, m.MustBePerformed())
}

func TestMirrorView_WritesReachTheOppositeBound(t *testing.T) {
	s := NewSolver()
	v := fixed(t, s, 2, 5, 3, "v")
	m := NewMirrorView(v)

	// Raising the mirrored start lowers the real end.
	require.NoError(t, m.SetStartMin(-7))
	require.Equal(t, 7, v.EndMax())
	require.Equal(t, 4, v.StartMax())

	// Lowering the mirrored end raises the real start.
	require.NoError(t, m.SetEndMax(-4))
	require.Equal(t, 4, v.StartMin())
	require.Equal(t, 7, v.EndMin())
}

func TestStartRelaxedView_RelaxesMinSideUntilMandatory(t *testing.T) {
	s := NewSolver()
	v := optionalFixed(t, s, 2, 5, 3, "v")
	r := NewStartRelaxedView(v)

	require.Equal(t, minTime, r.StartMin())
	require.Equal(t, minTime, r.EndMin())
	require.Equal(t, 5, r.StartMax())
	require.Equal(t, 8, r.EndMax())

	require.NoError(t, v.SetPerformed(true))
	require.Equal(t, 2, r.StartMin())
	require.Equal(t, 5, r.EndMin())
}

func TestEndRelaxedView_RelaxesMaxSideUntilMandatory(t *testing.T) {
	s := NewSolver()
	v := optionalFixed(t, s, 2, 5, 3, "v")
	r := NewEndRelaxedView(v)

	require.Equal(t, maxTime, r.EndMax())
	require.Equal(t, maxTime, r.StartMax())
	require.Equal(t, 2, r.StartMin())
	require.Equal(t, 5, r.EndMin())

	require.NoError(t, v.SetPerformed(true))
	require.Equal(t, 8, r.EndMax())
	require.Equal(t, 5, r.StartMax())
}

func TestRelaxedView_WritesPassThrough(t *testing.T) {
	s := NewSolver()
	v := optionalFixed(t, s, 2, 5, 3, "v")
	r := NewStartRelaxedView(v)

	require.NoError(t, r.SetStartMin(3))
	require.Equal(t, 3, v.StartMin())
	// The relaxed read stays relaxed while the interval is optional.
	require.Equal(t, minTime, r.StartMin())
}

func TestMirrorOfRelaxed_SentinelsNegateCleanly(t *testing.T) {
	s := NewSolver()
	v := optionalFixed(t, s, 2, 5, 3, "v")
	m := NewMirrorView(NewStartRelaxedView(NewEndRelaxedView(v)))

	require.Equal(t, minTime, m.StartMin())
	require.Equal(t, minTime, m.EndMin())
	require.Equal(t, maxTime, m.StartMax())
	require.Equal(t, maxTime, m.EndMax())
}
