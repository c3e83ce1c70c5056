// Package schedule: interval activity variables.
//
// An IntervalVar models one activity with integer start, end and duration
// bounds linked by the invariant duration = end - start, plus a tri-state
// performed status:
//   - mandatory:  MustBePerformed() is true
//   - optional:   MayBePerformed() && !MustBePerformed()
//   - excluded:   !MayBePerformed()
//
// All bounds and the status are trailed: every write goes through the
// solver's trail so that backtracking restores the variable exactly.
//
// Bound writes maintain the duration = end - start closure internally: after
// any write the six bounds are tightened against each other until stable.
// When the closure empties a domain, a mandatory interval fails with
// ErrEmptyInterval while an optional interval is excluded instead. Bound
// writes on an excluded interval are no-ops.
//
// Constraints register wake-up demons per bound group (start range, end
// range, duration range, performed status); a demon fires only when its
// group actually changed.
package schedule

import "fmt"

// IntervalVar is an interval activity with trailed bounds and performed
// status. Create instances with NewIntervalVar or
// NewFixedDurationIntervalVar.
type IntervalVar struct {
	solver *Solver
	name   string

	startMin, startMax RevInt
	endMin, endMax     RevInt
	durMin, durMax     RevInt

	mayBe RevBool // false = excluded
	must  RevBool // true = mandatory

	startRangeDemons    []*Demon
	endRangeDemons      []*Demon
	durationRangeDemons []*Demon
	performedDemons     []*Demon
}

// NewIntervalVar creates an interval with the given start and duration
// ranges; the end range is derived from them. An optional interval may still
// be excluded by propagation; a non-optional one is mandatory from the start.
//
// Returns an error when the ranges are inverted or the duration is negative.
func NewIntervalVar(s *Solver, startMin, startMax, durationMin, durationMax int, optional bool, name string) (*IntervalVar, error) {
	if s == nil {
		return nil, fmt.Errorf("NewIntervalVar: nil solver")
	}
	if startMin > startMax {
		return nil, fmt.Errorf("NewIntervalVar %q: start range [%d..%d] is empty", name, startMin, startMax)
	}
	if durationMin < 0 {
		return nil, fmt.Errorf("NewIntervalVar %q: negative duration min %d", name, durationMin)
	}
	if durationMin > durationMax {
		return nil, fmt.Errorf("NewIntervalVar %q: duration range [%d..%d] is empty", name, durationMin, durationMax)
	}
	v := &IntervalVar{
		solver:   s,
		name:     name,
		startMin: NewRevInt(startMin),
		startMax: NewRevInt(startMax),
		endMin:   NewRevInt(startMin + durationMin),
		endMax:   NewRevInt(startMax + durationMax),
		durMin:   NewRevInt(durationMin),
		durMax:   NewRevInt(durationMax),
		mayBe:    NewRevBool(true),
		must:     NewRevBool(!optional),
	}
	return v, nil
}

// NewFixedDurationIntervalVar creates an interval with a fixed duration.
func NewFixedDurationIntervalVar(s *Solver, startMin, startMax, duration int, optional bool, name string) (*IntervalVar, error) {
	return NewIntervalVar(s, startMin, startMax, duration, duration, optional, name)
}

// Name returns the interval's name.
func (v *IntervalVar) Name() string { return v.name }

// StartMin returns the earliest start time.
func (v *IntervalVar) StartMin() int { return v.startMin.Value() }

// StartMax returns the latest start time.
func (v *IntervalVar) StartMax() int { return v.startMax.Value() }

// EndMin returns the earliest end time.
func (v *IntervalVar) EndMin() int { return v.endMin.Value() }

// EndMax returns the latest end time.
func (v *IntervalVar) EndMax() int { return v.endMax.Value() }

// DurationMin returns the minimal duration.
func (v *IntervalVar) DurationMin() int { return v.durMin.Value() }

// DurationMax returns the maximal duration.
func (v *IntervalVar) DurationMax() int { return v.durMax.Value() }

// MayBePerformed reports whether the interval is not excluded.
func (v *IntervalVar) MayBePerformed() bool { return v.mayBe.Value() }

// MustBePerformed reports whether the interval is mandatory.
func (v *IntervalVar) MustBePerformed() bool { return v.must.Value() && v.mayBe.Value() }

// SetPerformed fixes the performed status. Performing an excluded interval
// or excluding a mandatory one is an inconsistency.
func (v *IntervalVar) SetPerformed(performed bool) error {
	if performed {
		if !v.mayBe.Value() {
			return fmt.Errorf("interval %s: cannot perform excluded interval: %w", v.name, ErrEmptyInterval)
		}
		if v.must.Value() {
			return nil
		}
		v.must.SetValue(v.solver.trail, true)
	} else {
		if v.must.Value() {
			return fmt.Errorf("interval %s: cannot exclude mandatory interval: %w", v.name, ErrEmptyInterval)
		}
		if !v.mayBe.Value() {
			return nil
		}
		v.mayBe.SetValue(v.solver.trail, false)
	}
	v.enqueue(v.performedDemons)
	return nil
}

// SetStartMin raises the earliest start time to t.
func (v *IntervalVar) SetStartMin(t int) error {
	return v.tighten(func(tr *Trail) {
		if t > v.startMin.Value() {
			v.startMin.SetValue(tr, t)
		}
	})
}

// SetStartMax lowers the latest start time to t.
func (v *IntervalVar) SetStartMax(t int) error {
	return v.tighten(func(tr *Trail) {
		if t < v.startMax.Value() {
			v.startMax.SetValue(tr, t)
		}
	})
}

// SetStartRange intersects the start range with [min..max].
func (v *IntervalVar) SetStartRange(min, max int) error {
	return v.tighten(func(tr *Trail) {
		if min > v.startMin.Value() {
			v.startMin.SetValue(tr, min)
		}
		if max < v.startMax.Value() {
			v.startMax.SetValue(tr, max)
		}
	})
}

// SetEndMin raises the earliest end time to t.
func (v *IntervalVar) SetEndMin(t int) error {
	return v.tighten(func(tr *Trail) {
		if t > v.endMin.Value() {
			v.endMin.SetValue(tr, t)
		}
	})
}

// SetEndMax lowers the latest end time to t.
func (v *IntervalVar) SetEndMax(t int) error {
	return v.tighten(func(tr *Trail) {
		if t < v.endMax.Value() {
			v.endMax.SetValue(tr, t)
		}
	})
}

// SetEndRange intersects the end range with [min..max].
func (v *IntervalVar) SetEndRange(min, max int) error {
	return v.tighten(func(tr *Trail) {
		if min > v.endMin.Value() {
			v.endMin.SetValue(tr, min)
		}
		if max < v.endMax.Value() {
			v.endMax.SetValue(tr, max)
		}
	})
}

// RemoveInterval removes [lo..hi] from the start range. With a bounds-only
// representation an inner gap is not representable and is ignored; removals
// covering a bound tighten that bound, and removing the whole range empties
// the interval.
func (v *IntervalVar) RemoveInterval(lo, hi int) error {
	if lo > hi || !v.MayBePerformed() {
		return nil
	}
	switch {
	case lo <= v.StartMin() && v.StartMax() <= hi:
		if v.MustBePerformed() {
			return fmt.Errorf("interval %s: start range [%d..%d] removed entirely: %w",
				v.name, v.StartMin(), v.StartMax(), ErrEmptyInterval)
		}
		return v.SetPerformed(false)
	case lo <= v.StartMin():
		return v.SetStartMin(hi + 1)
	case hi >= v.StartMax():
		return v.SetStartMax(lo - 1)
	default:
		return nil
	}
}

// WhenStartRange registers d to fire when the start range changes.
func (v *IntervalVar) WhenStartRange(d *Demon) {
	v.startRangeDemons = append(v.startRangeDemons, d)
}

// WhenEndRange registers d to fire when the end range changes.
func (v *IntervalVar) WhenEndRange(d *Demon) {
	v.endRangeDemons = append(v.endRangeDemons, d)
}

// WhenDurationRange registers d to fire when the duration range changes.
func (v *IntervalVar) WhenDurationRange(d *Demon) {
	v.durationRangeDemons = append(v.durationRangeDemons, d)
}

// WhenPerformedBound registers d to fire when the performed status changes.
func (v *IntervalVar) WhenPerformedBound(d *Demon) {
	v.performedDemons = append(v.performedDemons, d)
}

// WhenAnything registers d on every bound group of the interval.
func (v *IntervalVar) WhenAnything(d *Demon) {
	v.WhenStartRange(d)
	v.WhenEndRange(d)
	v.WhenDurationRange(d)
	v.WhenPerformedBound(d)
}

// String returns a human-readable representation.
func (v *IntervalVar) String() string {
	status := "optional"
	switch {
	case !v.MayBePerformed():
		status = "excluded"
	case v.MustBePerformed():
		status = "performed"
	}
	return fmt.Sprintf("%s(start=[%d..%d], duration=[%d..%d], end=[%d..%d], %s)",
		v.name, v.StartMin(), v.StartMax(), v.DurationMin(), v.DurationMax(),
		v.EndMin(), v.EndMax(), status)
}

// tighten applies write, restores the duration = end - start closure and
// fires the demons of every bound group that changed. Writes on excluded
// intervals are no-ops.
func (v *IntervalVar) tighten(write func(*Trail)) error {
	if !v.MayBePerformed() {
		return nil
	}
	oldStartMin, oldStartMax := v.startMin.Value(), v.startMax.Value()
	oldEndMin, oldEndMax := v.endMin.Value(), v.endMax.Value()
	oldDurMin, oldDurMax := v.durMin.Value(), v.durMax.Value()

	write(v.solver.trail)
	if err := v.closeBounds(); err != nil {
		return err
	}
	if !v.MayBePerformed() {
		// closeBounds excluded an optional interval; the performed demons
		// already fired and the stale bounds are unobservable.
		return nil
	}
	if v.startMin.Value() != oldStartMin || v.startMax.Value() != oldStartMax {
		v.enqueue(v.startRangeDemons)
	}
	if v.endMin.Value() != oldEndMin || v.endMax.Value() != oldEndMax {
		v.enqueue(v.endRangeDemons)
	}
	if v.durMin.Value() != oldDurMin || v.durMax.Value() != oldDurMax {
		v.enqueue(v.durationRangeDemons)
	}
	return nil
}

// closeBounds tightens the six bounds against each other until stable.
func (v *IntervalVar) closeBounds() error {
	tr := v.solver.trail
	for {
		changed := false
		raise := func(cell *RevInt, t int) {
			if t > cell.Value() {
				cell.SetValue(tr, t)
				changed = true
			}
		}
		lower := func(cell *RevInt, t int) {
			if t < cell.Value() {
				cell.SetValue(tr, t)
				changed = true
			}
		}
		raise(&v.endMin, v.startMin.Value()+v.durMin.Value())
		lower(&v.endMax, v.startMax.Value()+v.durMax.Value())
		raise(&v.startMin, v.endMin.Value()-v.durMax.Value())
		lower(&v.startMax, v.endMax.Value()-v.durMin.Value())
		raise(&v.durMin, v.endMin.Value()-v.startMax.Value())
		lower(&v.durMax, v.endMax.Value()-v.startMin.Value())
		if !changed {
			break
		}
	}
	if v.startMin.Value() > v.startMax.Value() ||
		v.endMin.Value() > v.endMax.Value() ||
		v.durMin.Value() > v.durMax.Value() {
		if v.MustBePerformed() {
			return fmt.Errorf("interval %s: bounds emptied (start=[%d..%d], end=[%d..%d], duration=[%d..%d]): %w",
				v.name, v.startMin.Value(), v.startMax.Value(),
				v.endMin.Value(), v.endMax.Value(),
				v.durMin.Value(), v.durMax.Value(), ErrEmptyInterval)
		}
		// Optional interval: exclude instead of failing.
		return v.SetPerformed(false)
	}
	return nil
}

func (v *IntervalVar) enqueue(demons []*Demon) {
	for _, d := range demons {
		v.solver.EnqueueDemon(d)
	}
}
