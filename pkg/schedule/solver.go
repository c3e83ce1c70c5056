// Package schedule: the propagation substrate.
//
// This file implements the Solver, the single-threaded driver that owns the
// trail, registers constraints and runs their propagators to a fixpoint.
//
// Constraints attach demons (wake-up callbacks) to the interval variables
// they watch. When a variable's bounds change, its demons are enqueued; the
// Solver drains the queue until no demon is pending, which is the fixpoint of
// the registered propagators. Demons have two priorities: normal demons run
// before delayed ones, so cheap filtering is exhausted before expensive
// sweeps re-run.
//
// Failure is an error value, not a panic: the first error returned by a
// propagator aborts the round and is handed back to the caller, which is
// expected to backtrack via BacktrackTo. No partial retry happens inside
// the solver.
package schedule

import "fmt"

// Time bounds used as +/- infinity for interval bounds and tree aggregates.
// A quarter of the int range keeps additions of bounds and processing times
// far from overflow.
const (
	minTime = (-1 << 61)
	maxTime = 1 << 61
)

// DemonPriority orders demon execution: all Normal demons run before any
// Delayed demon. Expensive sweep propagators register Delayed demons.
type DemonPriority int

const (
	Normal DemonPriority = iota
	Delayed
)

// Demon is a wake-up callback registered on interval variables. A demon is
// enqueued at most once at a time; re-triggering a queued demon is a no-op.
type Demon struct {
	run      func() error
	priority DemonPriority
	queued   bool
}

// NewDemon wraps run as a demon with the given priority.
func NewDemon(run func() error, priority DemonPriority) *Demon {
	return &Demon{run: run, priority: priority}
}

// Constraint is the contract between the solver and a propagator.
//
// Post registers the constraint's demons on the variables it watches.
// InitialPropagate performs the first full propagation. Both are invoked by
// Solver.Propagate the first time the queue is drained after AddConstraint.
type Constraint interface {
	// Post attaches demons to watched variables.
	Post() error

	// InitialPropagate runs the constraint's filtering once.
	// Returns an error when an inconsistency is detected.
	InitialPropagate() error

	// String returns a human-readable representation.
	String() string
}

// Solver owns the trail, the registered constraints and the demon queue.
// All propagation runs synchronously inside Propagate; there is no internal
// parallelism and no suspension mid-sweep.
type Solver struct {
	trail       *Trail
	constraints []Constraint
	pending     []Constraint
	queue       [2][]*Demon
}

// NewSolver creates a solver with an empty trail and no constraints.
func NewSolver() *Solver {
	return &Solver{trail: NewTrail()}
}

// Trail returns the solver's trail. Reversible cells owned by constraints
// must record their writes here.
func (s *Solver) Trail() *Trail {
	return s.trail
}

// AddConstraint registers c. The constraint is posted and initially
// propagated on the next call to Propagate.
func (s *Solver) AddConstraint(c Constraint) {
	s.constraints = append(s.constraints, c)
	s.pending = append(s.pending, c)
}

// Constraints returns the registered constraints.
func (s *Solver) Constraints() []Constraint {
	return s.constraints
}

// EnqueueDemon schedules d for execution unless it is already queued.
func (s *Solver) EnqueueDemon(d *Demon) {
	if d == nil || d.queued {
		return
	}
	d.queued = true
	s.queue[d.priority] = append(s.queue[d.priority], d)
}

// Mark captures the current search state for a later BacktrackTo.
func (s *Solver) Mark() int {
	return s.trail.Mark()
}

// BacktrackTo restores all trailed state to a mark previously returned by
// Mark and discards any pending demons: after an undo, wake-ups recorded for
// the abandoned branch are meaningless.
func (s *Solver) BacktrackTo(mark int) {
	s.trail.BacktrackTo(mark)
	s.clearQueue()
}

// Propagate posts pending constraints and drains the demon queue until a
// fixpoint is reached, or returns the first inconsistency. On error the
// remaining queue is discarded; the caller is expected to backtrack.
func (s *Solver) Propagate() error {
	for {
		if len(s.pending) > 0 {
			c := s.pending[0]
			s.pending = s.pending[1:]
			if err := c.Post(); err != nil {
				s.clearQueue()
				return fmt.Errorf("post %s: %w", c.String(), err)
			}
			if err := c.InitialPropagate(); err != nil {
				s.clearQueue()
				return err
			}
			continue
		}
		d := s.nextDemon()
		if d == nil {
			return nil
		}
		d.queued = false
		if err := d.run(); err != nil {
			s.clearQueue()
			return err
		}
	}
}

// nextDemon pops the next demon, normal priority first.
func (s *Solver) nextDemon() *Demon {
	for p := Normal; p <= Delayed; p++ {
		if n := len(s.queue[p]); n > 0 {
			d := s.queue[p][0]
			s.queue[p] = s.queue[p][1:]
			return d
		}
	}
	return nil
}

func (s *Solver) clearQueue() {
	for p := range s.queue {
		for _, d := range s.queue[p] {
			d.queued = false
		}
		s.queue[p] = s.queue[p][:0]
	}
}
