// This example walks through the core goschedule workflow: building
// interval variables, posting resource constraints, propagating to a
// fixpoint and backtracking away from failed branches.
package main

import (
	"errors"
	"fmt"

	"github.com/gitrdm/goschedule/pkg/schedule"
)

func main() {
	fmt.Println("=== GoSchedule Examples ===")
	fmt.Println()

	boundPropagation()
	edgeFinding()
	overloadAndBacktrack()
	optionalIntervals()
}

// boundPropagation demonstrates the duration = end - start closure.
func boundPropagation() {
	fmt.Println("1. Interval Bound Propagation:")

	solver := schedule.NewSolver()
	v, err := schedule.NewIntervalVar(solver, 0, 10, 2, 5, false, "task")
	if err != nil {
		panic(err)
	}
	fmt.Printf("   fresh:          %v\n", v)

	if err := v.SetEndMax(7); err != nil {
		panic(err)
	}
	fmt.Printf("   after end<=7:   %v\n", v)
	fmt.Println()
}

// edgeFinding demonstrates start tightening beyond pairwise reasoning.
func edgeFinding() {
	fmt.Println("2. Disjunctive Edge-Finding:")

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
	// A and B fill [0..8] entirely, so C starts at 8.
	fmt.Printf("   %v\n   %v\n   %v\n", a, b, c)
	fmt.Println()
}

// overloadAndBacktrack demonstrates failure as a first-class outcome.
func overloadAndBacktrack() {
	fmt.Println("3. Overload Detection and Backtracking:")

	solver := schedule.NewSolver()
	a, _ := schedule.NewFixedDurationIntervalVar(solver, 0, 6, 4, false, "A")
	b, _ := schedule.NewFixedDurationIntervalVar(solver, 0, 6, 4, false, "B")

	machine, err := schedule.NewDisjunctive(solver, []*schedule.IntervalVar{a, b}, "machine")
	if err != nil {
		panic(err)
	}
	solver.AddConstraint(machine)
	if err := solver.Propagate(); err != nil {
		panic(err)
	}

	mark := solver.Mark()
	if err := a.SetStartMax(0); err != nil {
		panic(err)
	}
	if err := b.SetStartMax(0); err != nil {
		panic(err)
	}
	err = solver.Propagate()
	if errors.Is(err, schedule.ErrResourceOverload) {
		fmt.Printf("   branch refuted: %v\n", err)
	}

	solver.BacktrackTo(mark)
	fmt.Printf("   restored: %v\n", a)
	fmt.Println()
}

// optionalIntervals demonstrates the tri-state performed status.
func optionalIntervals() {
	fmt.Println("4. Optional Intervals:")

	solver := schedule.NewSolver()
	opt, err := schedule.NewFixedDurationIntervalVar(solver, 0, 10, 4, true, "opt")
	if err != nil {
		panic(err)
	}
	fmt.Printf("   fresh:                %v\n", opt)

	// Emptying an optional interval's domain excludes it instead of failing.
	if err := opt.SetStartMin(11); err != nil {
		panic(err)
	}
	fmt.Printf("   after start>=11:      %v\n", opt)
	fmt.Println()
}
