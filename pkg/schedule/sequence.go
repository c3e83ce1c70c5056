// Package schedule: explicit pairwise sequencing on a unary resource.
//
// SequenceVar maintains, for every pair of intervals sharing a resource, a
// reversible precedence state (Undecided, OneBeforeTwo, TwoBeforeOne) plus
// the rank bookkeeping consumed by search heuristics (RankFirst,
// RankNotFirst). The matrix is stored flat (i*size+j) in reversible cells so
// that backtracking restores every decision exactly.
//
// A decided cell is only ever confirmed, never flipped: deciding the opposite
// order of an already-decided pair is a conflict that fails the branch.
// Deciding the same order again is a no-op. Each fresh decision immediately
// applies its consequence to the interval bounds (the later task starts after
// the earlier completes, the earlier ends before the later starts),
// conditioned on the pair's performed statuses.
package schedule

import "fmt"

// PrecedenceState is the decision state of one ordered pair of intervals.
type PrecedenceState int

const (
	// Undecided means no order has been committed for the pair.
	Undecided PrecedenceState = iota
	// OneBeforeTwo commits the first interval of the pair before the second.
	OneBeforeTwo
	// TwoBeforeOne commits the second interval of the pair before the first.
	TwoBeforeOne
)

// String returns the state name.
func (ps PrecedenceState) String() string {
	switch ps {
	case Undecided:
		return "Undecided"
	case OneBeforeTwo:
		return "OneBeforeTwo"
	case TwoBeforeOne:
		return "TwoBeforeOne"
	default:
		return "?"
	}
}

const unranked = -1

// SequenceVar is the pairwise precedence state and ranking bookkeeping of a
// unary resource. It is a decision object for search heuristics, layered on
// top of the same intervals a Disjunctive constraint propagates.
type SequenceVar struct {
	solver    *Solver
	name      string
	intervals []*IntervalVar
	size      int

	states       []RevInt // size*size, canonical cell at i*size+j for i < j
	ranks        []RevInt // rank assigned to each interval, or unranked
	notFirstRank []RevInt // rank an interval was excluded from, or unranked
	currentRank  RevInt
}

// NewSequenceVar creates the sequencing object over the intervals.
func NewSequenceVar(s *Solver, intervals []*IntervalVar, name string) (*SequenceVar, error) {
	if s == nil {
		return nil, fmt.Errorf("NewSequenceVar: nil solver")
	}
	n := len(intervals)
	if n == 0 {
		return nil, fmt.Errorf("NewSequenceVar %q: requires at least one interval", name)
	}
	sv := &SequenceVar{
		solver:       s,
		name:         name,
		intervals:    make([]*IntervalVar, n),
		size:         n,
		states:       make([]RevInt, n*n),
		ranks:        make([]RevInt, n),
		notFirstRank: make([]RevInt, n),
	}
	for i, v := range intervals {
		if v == nil {
			return nil, fmt.Errorf("NewSequenceVar %q: intervals[%d] is nil", name, i)
		}
		sv.intervals[i] = v
		sv.ranks[i] = NewRevInt(unranked)
		sv.notFirstRank[i] = NewRevInt(unranked)
	}
	return sv, nil
}

// Size returns the number of intervals.
func (sv *SequenceVar) Size() int { return sv.size }

// Interval returns the interval at index.
func (sv *SequenceVar) Interval(index int) *IntervalVar { return sv.intervals[index] }

// State returns the committed precedence between the pair (i, j).
func (sv *SequenceVar) State(i, j int) PrecedenceState {
	if i == j {
		return Undecided
	}
	if i < j {
		return PrecedenceState(sv.states[i*sv.size+j].Value())
	}
	return flip(PrecedenceState(sv.states[j*sv.size+i].Value()))
}

// Ranked returns the number of intervals already ranked first.
func (sv *SequenceVar) Ranked() int { return sv.currentRank.Value() }

// NotRanked returns the number of may-be-performed intervals not yet ranked.
func (sv *SequenceVar) NotRanked() int {
	count := 0
	for i := range sv.intervals {
		if sv.ranks[i].Value() == unranked && sv.intervals[i].MayBePerformed() {
			count++
		}
	}
	return count
}

// Active returns the number of candidates for the current rank: unranked
// may-be-performed intervals not excluded from this rank.
func (sv *SequenceVar) Active() int {
	count := 0
	for i := range sv.intervals {
		if sv.candidate(i) {
			count++
		}
	}
	return count
}

// Rank returns the rank assigned to the interval at index, or -1.
func (sv *SequenceVar) Rank(index int) int { return sv.ranks[index].Value() }

// TryToDecide commits an order for the pair (i, j) when their bounds already
// force one: when both may be performed, at least one must be, and one's
// earliest end exceeds the other's latest start, the former cannot run first.
func (sv *SequenceVar) TryToDecide(i, j int) error {
	if err := sv.checkPair(i, j); err != nil {
		return err
	}
	vi, vj := sv.intervals[i], sv.intervals[j]
	if !vi.MayBePerformed() || !vj.MayBePerformed() {
		return nil
	}
	if !vi.MustBePerformed() && !vj.MustBePerformed() {
		return nil
	}
	if sv.State(i, j) != Undecided {
		return nil
	}
	switch {
	case vi.EndMin() > vj.StartMax():
		return sv.Decide(TwoBeforeOne, i, j)
	case vj.EndMin() > vi.StartMax():
		return sv.Decide(OneBeforeTwo, i, j)
	default:
		return nil
	}
}

// Decide commits state for the pair (i, j) and immediately applies its
// consequence to the interval bounds. Re-deciding the same order is a no-op;
// deciding the opposite of a committed order fails with
// ErrPrecedenceConflict.
func (sv *SequenceVar) Decide(state PrecedenceState, i, j int) error {
	if state == Undecided {
		return fmt.Errorf("sequence %s: Decide(Undecided, %d, %d) is not a decision", sv.name, i, j)
	}
	if err := sv.checkPair(i, j); err != nil {
		return err
	}
	if i > j {
		i, j = j, i
		state = flip(state)
	}
	cell := &sv.states[i*sv.size+j]
	current := PrecedenceState(cell.Value())
	if current == state {
		return nil
	}
	if current != Undecided {
		return fmt.Errorf("sequence %s: %s already committed for (%s, %s), cannot commit %s: %w",
			sv.name, current, sv.intervals[i].Name(), sv.intervals[j].Name(), state, ErrPrecedenceConflict)
	}
	cell.SetValue(sv.solver.trail, int(state))
	if state == OneBeforeTwo {
		return sv.apply(i, j)
	}
	return sv.apply(j, i)
}

// RankFirst assigns the current rank to the interval at index: it is marked
// performed and every unranked may-be-performed interval is committed to
// follow it.
func (sv *SequenceVar) RankFirst(index int) error {
	if err := sv.checkIndex(index); err != nil {
		return err
	}
	if sv.ranks[index].Value() != unranked {
		return fmt.Errorf("sequence %s: interval %s is already ranked", sv.name, sv.intervals[index].Name())
	}
	if err := sv.intervals[index].SetPerformed(true); err != nil {
		return err
	}
	for k := range sv.intervals {
		if k == index || sv.ranks[k].Value() != unranked || !sv.intervals[k].MayBePerformed() {
			continue
		}
		var err error
		if index < k {
			err = sv.Decide(OneBeforeTwo, index, k)
		} else {
			err = sv.Decide(TwoBeforeOne, k, index)
		}
		if err != nil {
			return err
		}
	}
	sv.ranks[index].SetValue(sv.solver.trail, sv.currentRank.Value())
	sv.currentRank.SetValue(sv.solver.trail, sv.currentRank.Value()+1)
	return nil
}

// RankNotFirst excludes the interval at index from the current rank. When
// exactly one candidate remains for this rank and it is mandatory, it is
// ranked first; when none remains while a mandatory interval is still
// unranked, the branch fails.
func (sv *SequenceVar) RankNotFirst(index int) error {
	if err := sv.checkIndex(index); err != nil {
		return err
	}
	if sv.ranks[index].Value() != unranked {
		return fmt.Errorf("sequence %s: interval %s is already ranked", sv.name, sv.intervals[index].Name())
	}
	sv.notFirstRank[index].SetValue(sv.solver.trail, sv.currentRank.Value())

	last := -1
	count := 0
	for k := range sv.intervals {
		if sv.candidate(k) {
			last = k
			count++
		}
	}
	if count == 1 && sv.intervals[last].MustBePerformed() {
		return sv.RankFirst(last)
	}
	if count == 0 {
		for k := range sv.intervals {
			if sv.ranks[k].Value() == unranked && sv.intervals[k].MustBePerformed() {
				return fmt.Errorf("sequence %s: no candidate left for rank %d but %s must be performed: %w",
					sv.name, sv.currentRank.Value(), sv.intervals[k].Name(), ErrPrecedenceConflict)
			}
		}
	}
	return nil
}

// String returns a human-readable representation.
func (sv *SequenceVar) String() string {
	return fmt.Sprintf("Sequence(%s, n=%d, ranked=%d)", sv.name, sv.size, sv.Ranked())
}

// apply tightens the bounds implied by "first runs before second":
// a mandatory predecessor pushes the successor's earliest start, a mandatory
// successor pulls the predecessor's latest end. An undecided optional on
// either side constrains nothing yet.
func (sv *SequenceVar) apply(first, second int) error {
	a, b := sv.intervals[first], sv.intervals[second]
	if a.MustBePerformed() && b.MayBePerformed() {
		if err := b.SetStartMin(a.EndMin()); err != nil {
			return err
		}
	}
	if b.MustBePerformed() && a.MayBePerformed() {
		if err := a.SetEndMax(b.StartMax()); err != nil {
			return err
		}
	}
	return nil
}

// candidate reports whether the interval at k can still take the current
// rank.
func (sv *SequenceVar) candidate(k int) bool {
	return sv.ranks[k].Value() == unranked &&
		sv.intervals[k].MayBePerformed() &&
		sv.notFirstRank[k].Value() != sv.currentRank.Value()
}

func (sv *SequenceVar) checkPair(i, j int) error {
	if err := sv.checkIndex(i); err != nil {
		return err
	}
	if err := sv.checkIndex(j); err != nil {
		return err
	}
	if i == j {
		return fmt.Errorf("sequence %s: pair (%d, %d) is not a pair", sv.name, i, j)
	}
	return nil
}

func (sv *SequenceVar) checkIndex(i int) error {
	if i < 0 || i >= sv.size {
		return fmt.Errorf("sequence %s: index %d out of range [0..%d)", sv.name, i, sv.size)
	}
	return nil
}

func flip(s PrecedenceState) PrecedenceState {
	switch s {
	case OneBeforeTwo:
		return TwoBeforeOne
	case TwoBeforeOne:
		return OneBeforeTwo
	default:
		return Undecided
	}
}
