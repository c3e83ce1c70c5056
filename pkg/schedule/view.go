// Package schedule: time-direction views over interval variables.
//
// Every disjunctive sweep in this package is written in "push right"
// semantics: it only raises earliest starts and lowers latest ends in the
// direction it observes. Instead of duplicating each sweep for the opposite
// direction, the sweeps read and write intervals through the IntervalView
// capability. The identity view is the IntervalVar itself; MirrorView
// reflects time through zero (the mirrored start is the negated end), so the
// same start-tightening code run over mirrored views tightens ends of the
// underlying variables.
//
// The relaxed views serve optional intervals: a StartRelaxedView reports an
// unconstrained min side (earliest start and earliest end) and an
// EndRelaxedView an unconstrained max side (latest start and latest end)
// while the interval's performed status is still open. Observed through both,
// an undecided optional activity supplies no deadline and no completion-time
// contribution to a tree sweep, so it never spuriously constrains the
// mandatory activities; once the interval becomes mandatory the relaxation
// disables itself. Writes pass through to the underlying interval unchanged.
package schedule

// IntervalView is the capability the sweeps use to observe and tighten one
// interval in the active time direction.
type IntervalView interface {
	StartMin() int
	StartMax() int
	EndMin() int
	EndMax() int
	DurationMin() int
	MayBePerformed() bool
	MustBePerformed() bool

	// SetStartMin raises the earliest start in the view's direction.
	SetStartMin(t int) error
	// SetEndMax lowers the latest end in the view's direction.
	SetEndMax(t int) error
}

// MirrorView presents an interval reflected through time zero: the mirrored
// interval starts when the original ends, negated. Straight and mirrored
// views share the same underlying variable, so a bound tightened through the
// mirror is a bound tightened on the original.
type MirrorView struct {
	v IntervalView
}

// NewMirrorView wraps v in a time-reflected view.
func NewMirrorView(v IntervalView) *MirrorView {
	return &MirrorView{v: v}
}

func (m *MirrorView) StartMin() int         { return -m.v.EndMax() }
func (m *MirrorView) StartMax() int         { return -m.v.EndMin() }
func (m *MirrorView) EndMin() int           { return -m.v.StartMax() }
func (m *MirrorView) EndMax() int           { return -m.v.StartMin() }
func (m *MirrorView) DurationMin() int      { return m.v.DurationMin() }
func (m *MirrorView) MayBePerformed() bool  { return m.v.MayBePerformed() }
func (m *MirrorView) MustBePerformed() bool { return m.v.MustBePerformed() }

// SetStartMin raises the mirrored earliest start, lowering the underlying
// latest end.
func (m *MirrorView) SetStartMin(t int) error { return m.v.SetEndMax(-t) }

// SetEndMax lowers the mirrored latest end, raising the underlying earliest
// start.
func (m *MirrorView) SetEndMax(t int) error { return m.v.SetStartMin(-t) }

// StartRelaxedView reports an unconstrained min side (earliest start and
// earliest end) while the underlying interval is not yet mandatory. All other
// reads and all writes pass through.
type StartRelaxedView struct {
	v IntervalView
}

// NewStartRelaxedView wraps v with a relaxed min side.
func NewStartRelaxedView(v IntervalView) *StartRelaxedView {
	return &StartRelaxedView{v: v}
}

func (r *StartRelaxedView) StartMin() int {
	if !r.v.MustBePerformed() {
		return minTime
	}
	return r.v.StartMin()
}
func (r *StartRelaxedView) EndMin() int {
	if !r.v.MustBePerformed() {
		return minTime
	}
	return r.v.EndMin()
}
func (r *StartRelaxedView) StartMax() int           { return r.v.StartMax() }
func (r *StartRelaxedView) EndMax() int             { return r.v.EndMax() }
func (r *StartRelaxedView) DurationMin() int        { return r.v.DurationMin() }
func (r *StartRelaxedView) MayBePerformed() bool    { return r.v.MayBePerformed() }
func (r *StartRelaxedView) MustBePerformed() bool   { return r.v.MustBePerformed() }
func (r *StartRelaxedView) SetStartMin(t int) error { return r.v.SetStartMin(t) }
func (r *StartRelaxedView) SetEndMax(t int) error   { return r.v.SetEndMax(t) }

// EndRelaxedView reports an unconstrained max side (latest start and latest
// end) while the underlying interval is not yet mandatory. All other reads and
// all writes pass through.
type EndRelaxedView struct {
	v IntervalView
}

// NewEndRelaxedView wraps v with a relaxed max side.
func NewEndRelaxedView(v IntervalView) *EndRelaxedView {
	return &EndRelaxedView{v: v}
}

func (r *EndRelaxedView) EndMax() int {
	if !r.v.MustBePerformed() {
		return maxTime
	}
	return r.v.EndMax()
}
func (r *EndRelaxedView) StartMax() int {
	if !r.v.MustBePerformed() {
		return maxTime
	}
	return r.v.StartMax()
}
func (r *EndRelaxedView) StartMin() int           { return r.v.StartMin() }
func (r *EndRelaxedView) EndMin() int             { return r.v.EndMin() }
func (r *EndRelaxedView) DurationMin() int        { return r.v.DurationMin() }
func (r *EndRelaxedView) MayBePerformed() bool    { return r.v.MayBePerformed() }
func (r *EndRelaxedView) MustBePerformed() bool   { return r.v.MustBePerformed() }
func (r *EndRelaxedView) SetStartMin(t int) error { return r.v.SetStartMin(t) }
func (r *EndRelaxedView) SetEndMax(t int) error   { return r.v.SetEndMax(t) }
