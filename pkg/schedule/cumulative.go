// Package schedule: the cumulative resource constraint.
//
// A cumulative resource has an integer capacity; the sum of the demands of
// the tasks running at any time may never exceed it. The propagator here is
// the one-sided energetic overload check over the capacity-scaled
// Lambda-Theta tree: inserting the tasks in EndMax order, it fails as soon as
// the aggregate energetic end-min of the tasks due by some deadline exceeds
// capacity x deadline, which proves no schedule can fit their energy in the
// available area. Straight and mirrored checkers cover both time directions;
// the surrounding solver's re-propagation on wake-up supplies the outer
// fixpoint, so the two directions need no dedicated fixpoint loop of their
// own.
package schedule

import (
	"fmt"
	"sort"
)

// CumulativeTask is an interval activity plus its demand on a cumulative
// resource.
type CumulativeTask struct {
	Interval IntervalView
	Demand   int
}

// EnergyMin returns the minimal energy the task consumes: DurationMin x
// demand.
func (t *CumulativeTask) EnergyMin() int {
	return t.Interval.DurationMin() * t.Demand
}

// cumulativeIndexedTask pairs a task with its per-sweep position index.
type cumulativeIndexedTask struct {
	task  *CumulativeTask
	index int
}

// cumulativeChecker runs the energetic overload check over one time
// direction.
type cumulativeChecker struct {
	capacity   int
	tree       *CumulativeLambdaThetaTree
	byStartMin []*cumulativeIndexedTask
	byEndMax   []*cumulativeIndexedTask
}

func newCumulativeChecker(n, capacity int) *cumulativeChecker {
	return &cumulativeChecker{
		capacity:   capacity,
		tree:       NewCumulativeLambdaThetaTree(n, capacity),
		byStartMin: make([]*cumulativeIndexedTask, 0, n),
		byEndMax:   make([]*cumulativeIndexedTask, 0, n),
	}
}

// overloadChecking inserts the tasks in EndMax order and fails as soon as
// the energetic end-min of the tasks due by the deadline just inserted
// exceeds capacity x deadline. Deadlines still relaxed by an open performed
// status are skipped.
func (c *cumulativeChecker) overloadChecking(tasks []*cumulativeIndexedTask) error {
	if len(tasks) == 0 {
		return nil
	}
	c.byStartMin = append(c.byStartMin[:0], tasks...)
	c.byEndMax = append(c.byEndMax[:0], tasks...)
	sort.SliceStable(c.byStartMin, func(i, j int) bool {
		return startMinSortLess(c.byStartMin[i].task.Interval, c.byStartMin[j].task.Interval)
	})
	for i, t := range c.byStartMin {
		t.index = i
	}
	sort.SliceStable(c.byEndMax, func(i, j int) bool {
		return c.byEndMax[i].task.Interval.EndMax() < c.byEndMax[j].task.Interval.EndMax()
	})
	c.tree.Clear()
	for _, t := range c.byEndMax {
		c.tree.Insert(t.task, t.index)
		endMax := t.task.Interval.EndMax()
		if endMax >= maxTime {
			continue
		}
		if e := c.tree.EnergeticEndMin(); e > c.capacity*endMax {
			return fmt.Errorf("cumulative: energy due by %d needs area %d, capacity allows %d: %w",
				endMax, e, c.capacity*endMax, ErrResourceOverload)
		}
	}
	// TODO: tighten start mins from the lambda tree here (the edge-finding
	// rule); only the overload check is implemented.
	return nil
}

// Cumulative enforces the capacity of a cumulative resource shared by the
// intervals with the given demands. Only intervals that may be performed
// participate in a given call.
type Cumulative struct {
	solver    *Solver
	name      string
	intervals []*IntervalVar
	demands   []int
	capacity  int

	straightTasks []*cumulativeIndexedTask
	mirrorTasks   []*cumulativeIndexedTask
	scratch       []*cumulativeIndexedTask

	straight *cumulativeChecker
	mirror   *cumulativeChecker

	demon *Demon
}

// NewCumulative creates a cumulative resource constraint.
//
// Parameters:
//   - intervals: the activities (length n > 0)
//   - demands: non-negative demands (length n)
//   - capacity: total resource capacity (must be > 0)
//
// Returns an error if inputs are invalid.
func NewCumulative(s *Solver, intervals []*IntervalVar, demands []int, capacity int, name string) (*Cumulative, error) {
	if s == nil {
		return nil, fmt.Errorf("NewCumulative: nil solver")
	}
	n := len(intervals)
	if n == 0 {
		return nil, fmt.Errorf("NewCumulative %q: requires at least one task", name)
	}
	if len(demands) != n {
		return nil, fmt.Errorf("NewCumulative %q: mismatched lengths (intervals=%d, demands=%d)", name, n, len(demands))
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("NewCumulative %q: capacity must be > 0, got %d", name, capacity)
	}
	c := &Cumulative{
		solver:        s,
		name:          name,
		intervals:     make([]*IntervalVar, n),
		demands:       make([]int, n),
		capacity:      capacity,
		straightTasks: make([]*cumulativeIndexedTask, n),
		mirrorTasks:   make([]*cumulativeIndexedTask, n),
		scratch:       make([]*cumulativeIndexedTask, 0, n),
		straight:      newCumulativeChecker(n, capacity),
		mirror:        newCumulativeChecker(n, capacity),
	}
	for i, v := range intervals {
		if v == nil {
			return nil, fmt.Errorf("NewCumulative %q: intervals[%d] is nil", name, i)
		}
		if demands[i] < 0 {
			return nil, fmt.Errorf("NewCumulative %q: demands[%d] must be >= 0, got %d", name, i, demands[i])
		}
		c.intervals[i] = v
		c.demands[i] = demands[i]
		relaxed := NewStartRelaxedView(NewEndRelaxedView(v))
		c.straightTasks[i] = &cumulativeIndexedTask{
			task: &CumulativeTask{Interval: relaxed, Demand: demands[i]},
		}
		c.mirrorTasks[i] = &cumulativeIndexedTask{
			task: &CumulativeTask{Interval: NewMirrorView(relaxed), Demand: demands[i]},
		}
	}
	return c, nil
}

// Post registers a delayed demon on every interval.
func (c *Cumulative) Post() error {
	c.demon = NewDemon(c.propagate, Delayed)
	for _, v := range c.intervals {
		v.WhenAnything(c.demon)
	}
	return nil
}

// InitialPropagate runs both direction checks once.
func (c *Cumulative) InitialPropagate() error {
	return c.propagate()
}

// String returns a human-readable representation.
func (c *Cumulative) String() string {
	return fmt.Sprintf("Cumulative(%s, n=%d, capacity=%d)", c.name, len(c.intervals), c.capacity)
}

func (c *Cumulative) propagate() error {
	if err := c.straight.overloadChecking(c.active(c.straightTasks)); err != nil {
		return err
	}
	return c.mirror.overloadChecking(c.active(c.mirrorTasks))
}

func (c *Cumulative) active(tasks []*cumulativeIndexedTask) []*cumulativeIndexedTask {
	c.scratch = c.scratch[:0]
	for _, t := range tasks {
		if t.task.Interval.MayBePerformed() {
			c.scratch = append(c.scratch, t)
		}
	}
	return c.scratch
}
