// Package schedule implements constraint propagation for resource
// constraints in a backtracking constraint-programming solver.
//
// The package enforces two families of resource constraints over
// time-interval activities:
//   - Disjunctive (unary) resources: a set of possibly optional interval
//     activities may never overlap on a machine that processes one activity
//     at a time.
//   - Cumulative resources: the simultaneous demand of the activities may
//     never exceed a fixed integer capacity.
//
// Given partial knowledge of each activity's start/end/duration bounds and
// performed status, the propagators deduce the tightest bounds consistent
// with the resource and detect overloads as early as possible. The
// disjunctive reasoning is built on Vilim's Theta-tree and Lambda-Theta-tree
// algorithms: overload checking, detectable precedences, not-last and
// edge-finding, each an O(n log n) sweep over an augmented balanced tree,
// combined into a least-fixpoint loop. The cumulative reasoning uses the
// capacity-scaled energetic variant of the same tree.
//
// The package also carries the minimal substrate the propagators consume:
//   - Trail: an undo log with typed reversible cells, so every state change
//     made during propagation is restored exactly on backtracking.
//   - Solver: constraint registration and a demon queue that re-invokes
//     propagators when watched interval bounds change.
//   - IntervalVar: an interval activity with trailed start/end/duration
//     bounds, the duration = end - start closure, and a tri-state performed
//     status (mandatory, optional, excluded).
//
// Propagators never retry internally: the first inconsistency aborts the
// propagation round with an error wrapping ErrResourceOverload or
// ErrPrecedenceConflict, and the search driver is expected to backtrack.
// All propagation is single-threaded and runs synchronously inside one
// Solver.Propagate call.
package schedule
