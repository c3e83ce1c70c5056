// Package schedule: the disjunctive (unary) resource constraint.
//
// This file implements the Theta-tree sweeps over one time direction:
//   - overload checking: fail as soon as a task set provably cannot complete
//     by its latest deadline (pure feasibility check, no tightening);
//   - detectable precedences: when the earliest completion of the tasks
//     provably ordered before a task already exceeds its earliest start,
//     raise that start;
//   - not-last: when a task provably cannot be the last of an implied
//     ordering, lower its latest end to the predecessor's latest start;
//   - edge-finding: when a task set collectively forces a task to start after
//     the set completes even absent a pairwise precedence, raise that start
//     using the Lambda-Theta tree's responsible-task mechanism.
//
// Each sweep rebuilds its task wrappers, re-sorts and rebuilds its tree from
// scratch at the start of every call, which guarantees that one call observes
// a single consistent snapshot of all interval bounds. Recorded bound updates
// are applied after the sweep, never interleaved, so the sweep's tree state
// stays consistent. A "modified" result always corresponds to a strictly
// smaller domain observable through the sweep's views; this is what
// guarantees termination of the fixpoint loop.
//
// The Disjunctive constraint wires straight and mirrored instances of all
// sweeps into a least-fixpoint loop that exhausts the cheaper sweeps before
// each more expensive one is allowed to run.
package schedule

import (
	"fmt"
	"sort"
)

// indexedTask pairs an interval view with its stable position index for the
// duration of one sweep. The index is the task's rank when sorted by
// (StartMin, EndMax, StartMax, EndMin) and is recomputed by updateEST at the
// start of every sweep.
type indexedTask struct {
	view  IntervalView
	index int
}

// sweepState holds the per-sweep sorted task vectors shared by all
// disjunctive sweeps. The four slices alias the same wrappers, each sorted
// by the key its sweep consumes.
type sweepState struct {
	size       int
	byStartMin []*indexedTask
	byEndMax   []*indexedTask
	byStartMax []*indexedTask
	byEndMin   []*indexedTask
}

func newSweepState(n int) sweepState {
	return sweepState{
		byStartMin: make([]*indexedTask, 0, n),
		byEndMax:   make([]*indexedTask, 0, n),
		byStartMax: make([]*indexedTask, 0, n),
		byEndMin:   make([]*indexedTask, 0, n),
	}
}

// reset loads the active tasks for one sweep.
func (s *sweepState) reset(tasks []*indexedTask) {
	s.size = len(tasks)
	s.byStartMin = append(s.byStartMin[:0], tasks...)
	s.byEndMax = append(s.byEndMax[:0], tasks...)
	s.byStartMax = append(s.byStartMax[:0], tasks...)
	s.byEndMin = append(s.byEndMin[:0], tasks...)
}

// updateEST assigns every task its position index: its rank under the
// (StartMin, EndMax, StartMax, EndMin) order. Tree leaves are addressed by
// this index so that subtree boundaries follow the active time direction.
func (s *sweepState) updateEST() {
	sort.SliceStable(s.byStartMin, func(i, j int) bool {
		return startMinSortLess(s.byStartMin[i].view, s.byStartMin[j].view)
	})
	for i, t := range s.byStartMin {
		t.index = i
	}
}

func startMinSortLess(a, b IntervalView) bool {
	if a.StartMin() != b.StartMin() {
		return a.StartMin() < b.StartMin()
	}
	if a.EndMax() != b.EndMax() {
		return a.EndMax() < b.EndMax()
	}
	if a.StartMax() != b.StartMax() {
		return a.StartMax() < b.StartMax()
	}
	return a.EndMin() < b.EndMin()
}

func sortByEndMax(tasks []*indexedTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].view.EndMax() < tasks[j].view.EndMax()
	})
}

func sortByStartMax(tasks []*indexedTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].view.StartMax() < tasks[j].view.StartMax()
	})
}

func sortByEndMin(tasks []*indexedTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].view.EndMin() < tasks[j].view.EndMin()
	})
}

// edgeFinder runs the three start-tightening sweeps over one time direction.
type edgeFinder struct {
	sweepState
	theta  *ThetaTree
	lambda *LambdaThetaTree
	newEst []int
}

func newEdgeFinder(n int) *edgeFinder {
	return &edgeFinder{
		sweepState: newSweepState(n),
		theta:      NewThetaTree(n),
		lambda:     NewLambdaThetaTree(n),
		newEst:     make([]int, n),
	}
}

// overloadChecking inserts the tasks in EndMax order and fails as soon as the
// Theta set's earliest completion time exceeds the deadline just inserted:
// the resource cannot process everything that must finish by then. No bound
// is tightened.
func (e *edgeFinder) overloadChecking(tasks []*indexedTask) error {
	if len(tasks) < 2 {
		return nil
	}
	e.reset(tasks)
	e.updateEST()
	sortByEndMax(e.byEndMax)
	e.theta.Clear()
	for _, t := range e.byEndMax {
		e.theta.Insert(t.view, t.index)
		if ect := e.theta.ECT(); ect > t.view.EndMax() {
			return fmt.Errorf("disjunctive: tasks due by %d complete earliest at %d: %w",
				t.view.EndMax(), ect, ErrResourceOverload)
		}
	}
	return nil
}

// detectablePrecedences sweeps the tasks in EndMin order, inserting into the
// Theta set every task whose latest start provably precedes the current
// task's earliest end. The earliest completion of that set, excluding the
// current task itself, is a valid new earliest start for it.
func (e *edgeFinder) detectablePrecedences(tasks []*indexedTask) (bool, error) {
	if len(tasks) < 2 {
		return false, nil
	}
	e.reset(tasks)
	e.updateEST()
	sortByEndMin(e.byEndMin)
	sortByStartMax(e.byStartMax)
	e.theta.Clear()
	for i := 0; i < e.size; i++ {
		e.newEst[i] = minTime
	}
	j := 0
	for _, twi := range e.byEndMin {
		if j < e.size {
			twj := e.byStartMax[j]
			for twi.view.EndMin() > twj.view.StartMax() {
				e.theta.Insert(twj.view, twj.index)
				j++
				if j == e.size {
					break
				}
				twj = e.byStartMax[j]
			}
		}
		inserted := e.theta.IsInserted(twi.index)
		if inserted {
			e.theta.Remove(twi.index)
		}
		ect := e.theta.ECT()
		if inserted {
			e.theta.Insert(twi.view, twi.index)
		}
		if ect > twi.view.StartMin() {
			e.newEst[twi.index] = ect
		}
	}
	return e.applyNewEst()
}

// edgeFinding sweeps the tasks in decreasing EndMax order over the
// Lambda-Theta tree. At each step the just-skipped task is greyed; while the
// optimistic earliest completion exceeds the current deadline, the
// responsible grey task cannot run before the resource is freed, so its
// earliest start is raised to the Theta set's completion time and the task
// is dropped from both sets.
func (e *edgeFinder) edgeFinding(tasks []*indexedTask) (bool, error) {
	if len(tasks) < 2 {
		return false, nil
	}
	e.reset(tasks)
	e.updateEST()
	for i, t := range e.byStartMin {
		e.newEst[i] = t.view.StartMin()
	}
	e.lambda.Clear()
	for _, t := range e.byStartMin {
		e.lambda.Insert(t.view, t.index)
	}
	sortByEndMax(e.byEndMax)
	j := e.size - 1
	taskJ := e.byEndMax[j]
	for j > 0 {
		e.lambda.Grey(taskJ.index)
		j--
		taskJ = e.byEndMax[j]
		// Should be unreachable after overload checking; kept as a safety
		// net against true overloads.
		if ect := e.lambda.ECT(); ect > taskJ.view.EndMax() {
			return false, fmt.Errorf("disjunctive: tasks due by %d complete earliest at %d: %w",
				taskJ.view.EndMax(), ect, ErrResourceOverload)
		}
		for e.lambda.ECTOpt() > taskJ.view.EndMax() {
			i := e.lambda.ResponsibleOpt()
			if ect := e.lambda.ECT(); ect > e.newEst[i] {
				e.newEst[i] = ect
			}
			e.lambda.Reset(i)
		}
	}
	return e.applyNewEst()
}

// applyNewEst writes the recorded earliest starts back after a sweep.
// A task is reported modified only when its view observably changed; a write
// that merely excluded an optional interval wakes that interval's demons
// instead.
func (e *edgeFinder) applyNewEst() (bool, error) {
	modified := false
	for i := 0; i < e.size; i++ {
		t := e.byStartMin[i]
		before := t.view.StartMin()
		if e.newEst[i] == minTime || e.newEst[i] <= before {
			continue
		}
		if err := t.view.SetStartMin(e.newEst[i]); err != nil {
			return modified, err
		}
		if t.view.StartMin() > before {
			modified = true
		}
	}
	return modified, nil
}

// notLast tightens latest ends: when the tasks that provably start before a
// task's latest end complete, without it, later than that latest end, the
// task cannot be last among them and must end by the predecessor's latest
// start.
type notLast struct {
	sweepState
	theta  *ThetaTree
	newLct []int
}

func newNotLast(n int) *notLast {
	return &notLast{
		sweepState: newSweepState(n),
		theta:      NewThetaTree(n),
		newLct:     make([]int, n),
	}
}

func (nl *notLast) propagate(tasks []*indexedTask) (bool, error) {
	if len(tasks) < 2 {
		return false, nil
	}
	nl.reset(tasks)
	nl.updateEST()
	sortByStartMax(nl.byStartMax)
	sortByEndMax(nl.byEndMax)
	nl.theta.Clear()
	for i := 0; i < nl.size; i++ {
		nl.newLct[i] = maxTime
	}
	j := 0
	for _, twi := range nl.byEndMax {
		for j < nl.size && twi.view.EndMax() > nl.byStartMax[j].view.StartMax() {
			if j > 0 && nl.theta.ECT() > nl.byStartMax[j].view.StartMax() {
				prev := nl.byStartMax[j-1].view.StartMax()
				if prev < nl.newLct[nl.byStartMax[j].index] {
					nl.newLct[nl.byStartMax[j].index] = prev
				}
			}
			nl.theta.Insert(nl.byStartMax[j].view, nl.byStartMax[j].index)
			j++
		}
		inserted := nl.theta.IsInserted(twi.index)
		if inserted {
			nl.theta.Remove(twi.index)
		}
		ectLessI := nl.theta.ECT()
		if inserted {
			nl.theta.Insert(twi.view, twi.index)
		}
		if ectLessI > twi.view.EndMax() && j > 0 {
			prev := nl.byStartMax[j-1].view.StartMax()
			if prev < nl.newLct[twi.index] {
				nl.newLct[twi.index] = prev
			}
		}
	}

	modified := false
	for i := 0; i < nl.size; i++ {
		t := nl.byStartMin[i]
		before := t.view.EndMax()
		if nl.newLct[i] >= before {
			continue
		}
		if err := t.view.SetEndMax(nl.newLct[i]); err != nil {
			return modified, err
		}
		if t.view.EndMax() < before {
			modified = true
		}
	}
	return modified, nil
}

// Disjunctive enforces that the intervals sharing a unary resource never
// overlap. Straight and mirrored instances of every sweep run over the same
// underlying variables; the mirrored direction tightens ends with the same
// code that tightens starts.
//
// Only intervals that may be performed participate in a given call. Optional
// intervals are observed through min- and max-relaxed views, so an undecided
// interval neither supplies a deadline nor pushes any mandatory task; its own
// bounds still receive sound conditional tightening, and an optional interval
// whose bounds empty under propagation is excluded rather than failed.
type Disjunctive struct {
	solver    *Solver
	name      string
	intervals []*IntervalVar

	straightTasks []*indexedTask
	mirrorTasks   []*indexedTask
	scratchS      []*indexedTask
	scratchM      []*indexedTask

	straight        *edgeFinder
	mirror          *edgeFinder
	straightNotLast *notLast
	mirrorNotLast   *notLast

	demon *Demon
}

// NewDisjunctive creates a disjunctive resource constraint over the
// intervals. Register it with Solver.AddConstraint.
func NewDisjunctive(s *Solver, intervals []*IntervalVar, name string) (*Disjunctive, error) {
	if s == nil {
		return nil, fmt.Errorf("NewDisjunctive: nil solver")
	}
	n := len(intervals)
	if n == 0 {
		return nil, fmt.Errorf("NewDisjunctive %q: requires at least one interval", name)
	}
	d := &Disjunctive{
		solver:          s,
		name:            name,
		intervals:       make([]*IntervalVar, n),
		straightTasks:   make([]*indexedTask, n),
		mirrorTasks:     make([]*indexedTask, n),
		scratchS:        make([]*indexedTask, 0, n),
		scratchM:        make([]*indexedTask, 0, n),
		straight:        newEdgeFinder(n),
		mirror:          newEdgeFinder(n),
		straightNotLast: newNotLast(n),
		mirrorNotLast:   newNotLast(n),
	}
	for i, v := range intervals {
		if v == nil {
			return nil, fmt.Errorf("NewDisjunctive %q: intervals[%d] is nil", name, i)
		}
		d.intervals[i] = v
		relaxed := NewStartRelaxedView(NewEndRelaxedView(v))
		d.straightTasks[i] = &indexedTask{view: relaxed}
		d.mirrorTasks[i] = &indexedTask{view: NewMirrorView(relaxed)}
	}
	return d, nil
}

// Post registers a delayed demon on every interval.
func (d *Disjunctive) Post() error {
	d.demon = NewDemon(d.propagate, Delayed)
	for _, v := range d.intervals {
		v.WhenAnything(d.demon)
	}
	return nil
}

// InitialPropagate runs the fixpoint loop once.
func (d *Disjunctive) InitialPropagate() error {
	return d.propagate()
}

// String returns a human-readable representation.
func (d *Disjunctive) String() string {
	return fmt.Sprintf("Disjunctive(%s, n=%d)", d.name, len(d.intervals))
}

// propagate runs the sweeps to a local fixpoint: detectable precedences are
// exhausted before not-last, and not-last before edge-finding, so cheaper
// propagators run until quiescent before each more expensive one. Overload
// checking is symmetric and runs once per inner pass on the straight
// direction only. Termination follows from monotone domain shrinkage.
func (d *Disjunctive) propagate() error {
	for {
		for {
			for {
				if err := d.straight.overloadChecking(d.activeStraight()); err != nil {
					return err
				}
				s, err := d.straight.detectablePrecedences(d.activeStraight())
				if err != nil {
					return err
				}
				m, err := d.mirror.detectablePrecedences(d.activeMirror())
				if err != nil {
					return err
				}
				if !s && !m {
					break
				}
			}
			s, err := d.straightNotLast.propagate(d.activeStraight())
			if err != nil {
				return err
			}
			m, err := d.mirrorNotLast.propagate(d.activeMirror())
			if err != nil {
				return err
			}
			if !s && !m {
				break
			}
		}
		s, err := d.straight.edgeFinding(d.activeStraight())
		if err != nil {
			return err
		}
		m, err := d.mirror.edgeFinding(d.activeMirror())
		if err != nil {
			return err
		}
		if !s && !m {
			return nil
		}
	}
}

func (d *Disjunctive) activeStraight() []*indexedTask {
	d.scratchS = d.scratchS[:0]
	for _, t := range d.straightTasks {
		if t.view.MayBePerformed() {
			d.scratchS = append(d.scratchS, t)
		}
	}
	return d.scratchS
}

func (d *Disjunctive) activeMirror() []*indexedTask {
	d.scratchM = d.scratchM[:0]
	for _, t := range d.mirrorTasks {
		if t.view.MayBePerformed() {
			d.scratchM = append(d.scratchM, t)
		}
	}
	return d.scratchM
}
