// Package schedule: Theta trees.
//
// A Theta tree maintains, for a set Theta of interval activities on a unary
// resource, the total scheduled processing time and the earliest completion
// time (ECT) of the set: the maximum over all nonempty subsets of
// (earliest start of the subset + total processing of the subset). Leaves are
// keyed by a stable position index assigned in earliest-start order, which is
// what lets the associative merge encode temporal order.
//
// OverloadChecking and NotLast run on a plain Theta tree; the edge-finding
// propagators use the Lambda extension in lambda_theta_tree.go.
package schedule

// ThetaNode is the aggregate of one subtree: total processing time and
// earliest completion time of the inserted activities it covers.
type ThetaNode struct {
	processing int
	ect        int
}

// thetaIdentity is the aggregate of an empty set.
func thetaIdentity() ThetaNode {
	return ThetaNode{processing: 0, ect: minTime}
}

// mergeTheta combines two adjacent subtrees; left covers the earlier
// positions. The merge is associative but not commutative.
func mergeTheta(left, right ThetaNode) ThetaNode {
	return ThetaNode{
		processing: left.processing + right.processing,
		ect:        max(right.ect, left.ect+right.processing),
	}
}

// ThetaTree maintains the ECT aggregate of a Theta set under O(log n)
// insertion and removal by position.
type ThetaTree struct {
	tree     *monoidTree[ThetaNode]
	inserted []bool
}

// NewThetaTree creates a tree with capacity for size positions.
func NewThetaTree(size int) *ThetaTree {
	return &ThetaTree{
		tree:     newMonoidTree(size, thetaIdentity(), mergeTheta),
		inserted: make([]bool, size),
	}
}

// Clear removes every activity from the Theta set.
func (t *ThetaTree) Clear() {
	t.tree.Clear()
	for i := range t.inserted {
		t.inserted[i] = false
	}
}

// Insert adds the activity to the Theta set at its position, contributing
// (DurationMin, EndMin) to the aggregates.
func (t *ThetaTree) Insert(task IntervalView, pos int) {
	t.tree.Set(pos, ThetaNode{processing: task.DurationMin(), ect: task.EndMin()})
	t.inserted[pos] = true
}

// Remove takes the activity at pos out of the Theta set.
func (t *ThetaTree) Remove(pos int) {
	t.tree.Reset(pos)
	t.inserted[pos] = false
}

// IsInserted reports whether the position currently holds an activity.
func (t *ThetaTree) IsInserted(pos int) bool {
	return t.inserted[pos]
}

// ECT returns the earliest completion time of the Theta set, or a value
// below any feasible time when the set is empty.
func (t *ThetaTree) ECT() int {
	return t.tree.Result().ect
}
