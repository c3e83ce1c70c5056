package schedule_test

import (
	"errors"
	"fmt"

	"github.com/gitrdm/goschedule/pkg/schedule"
)

// ExampleIntervalVar shows the duration = end - start closure at work.
func ExampleIntervalVar() {
	solver := schedule.NewSolver()
	v, err := schedule.NewIntervalVar(solver, 0, 10, 2, 5, false, "task")
	if err != nil {
		panic(err)
	}

	if err := v.SetEndMax(7); err != nil {
		panic(err)
	}
	fmt.Println(v)
	// Output:
	// task(start=[0..5], duration=[2..5], end=[2..7], performed)
}

// ExampleNewDisjunctive shows edge-finding pushing a task after a set that
// fills the machine, with no single pairwise precedence forcing it.
func ExampleNewDisjunctive() {
	solver := schedule.NewSolver()
	a, _ := schedule.NewFixedDurationIntervalVar(solver, 0, 4, 4, false, "A")
	b, _ := schedule.NewFixedDurationIntervalVar(solver, 0, 4, 4, false, "B")
	c, _ := schedule.NewFixedDurationIntervalVar(solver, 0, 16, 4, false, "C")

	machine, err := schedule.NewDisjunctive(solver, []*schedule.IntervalVar{a, b, c}, "machine")
	if err != nil {
		panic(err)
	}
	solver.AddConstraint(machine)

	if err := solver.Propagate(); err != nil {
		panic(err)
	}
	fmt.Println(c)
	// Output:
	// C(start=[8..16], duration=[4..4], end=[12..20], performed)
}

// ExampleNewCumulative shows the energetic overload check refuting a branch.
func ExampleNewCumulative() {
	solver := schedule.NewSolver()
	t1, _ := schedule.NewFixedDurationIntervalVar(solver, 0, 0, 4, false, "T1")
	t2, _ := schedule.NewFixedDurationIntervalVar(solver, 0, 0, 4, false, "T2")

	cum, err := schedule.NewCumulative(solver, []*schedule.IntervalVar{t1, t2}, []int{3, 4}, 5, "resource")
	if err != nil {
		panic(err)
	}
	solver.AddConstraint(cum)

	err = solver.Propagate()
	fmt.Println("overload:", errors.Is(err, schedule.ErrResourceOverload))
	// Output:
	// overload: true
}

// ExampleSequenceVar_TryToDecide shows a precedence committed from bounds
// alone.
func ExampleSequenceVar_TryToDecide() {
	solver := schedule.NewSolver()
	a, _ := schedule.NewFixedDurationIntervalVar(solver, 0, 0, 2, false, "A")
	b, _ := schedule.NewFixedDurationIntervalVar(solver, 5, 10, 3, false, "B")

	seq, err := schedule.NewSequenceVar(solver, []*schedule.IntervalVar{a, b}, "order")
	if err != nil {
		panic(err)
	}

	if err := seq.TryToDecide(0, 1); err != nil {
		panic(err)
	}
	fmt.Println(seq.State(0, 1))
	// Output:
	// OneBeforeTwo
}
