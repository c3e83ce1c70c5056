// Package schedule: sentinel errors for propagation failures.
//
// Resource overloads and precedence conflicts are expected, first-class
// outcomes of propagation: they prune a search branch. Callers classify them
// with errors.Is; the descriptive message around the sentinel carries the
// constraint/variable context the way the rest of the package reports errors.
package schedule

import "errors"

var (
	// ErrResourceOverload reports that a resource cannot process everything
	// that must run on it (the earliest completion time of a task set exceeds
	// a deadline, or the energetic bound exceeds capacity x deadline).
	ErrResourceOverload = errors.New("resource overload")

	// ErrPrecedenceConflict reports an attempt to decide a pairwise
	// precedence opposite to one already decided on the current branch.
	ErrPrecedenceConflict = errors.New("precedence conflict")

	// ErrEmptyInterval reports that a mandatory interval's domain became
	// empty. Optional intervals never produce this error: emptying their
	// domain excludes them instead.
	ErrEmptyInterval = errors.New("empty interval domain")
)
