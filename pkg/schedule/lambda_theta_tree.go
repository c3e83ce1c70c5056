// Package schedule: Lambda-Theta trees.
//
// The Lambda extension of the Theta tree additionally tracks, next to the
// plain (processing, ect) aggregate of the Theta set, the optimistic
// aggregate obtainable by adding the single most favorable activity from a
// second set Lambda of "grey" activities, together with the position of the
// activity responsible for that optimum. Edge-finding moves one activity at a
// time from Theta to Lambda ("greying" it) and, whenever the optimistic ECT
// exceeds a deadline, pushes the responsible activity after the whole Theta
// set.
//
// The three-way tie-break in mergeLambdaTheta is load-bearing: it determines
// which activity is reported responsible when several choices achieve the
// same optimistic ECT, and therefore which bound is tightened first. The
// branches are evaluated with >= in a fixed order; do not reorder them.
//
// The cumulative variant scales the same machinery by the resource capacity:
// a leaf contributes its minimal energy (duration x demand) and the
// energetic end-min capacity*StartMin + energy, so the root aggregate bounds
// capacity * (earliest feasible completion) of any subset.
package schedule

// noneResponsible marks an aggregate whose optimistic fields involve no
// Lambda activity.
const noneResponsible = -1

// LambdaThetaNode extends ThetaNode with the optimistic pair obtained by
// adding at most one Lambda activity, and the positions responsible for the
// optimistic processing and optimistic ECT.
type LambdaThetaNode struct {
	processing    int
	ect           int
	processingOpt int
	ectOpt        int
	respProc      int
	respECT       int
}

func lambdaThetaIdentity() LambdaThetaNode {
	return LambdaThetaNode{
		processing:    0,
		ect:           minTime,
		processingOpt: 0,
		ectOpt:        minTime,
		respProc:      noneResponsible,
		respECT:       noneResponsible,
	}
}

// thetaLeaf is a leaf fully counted in the Theta set.
func thetaLeaf(processing, ect int) LambdaThetaNode {
	return LambdaThetaNode{
		processing:    processing,
		ect:           ect,
		processingOpt: processing,
		ectOpt:        ect,
		respProc:      noneResponsible,
		respECT:       noneResponsible,
	}
}

// greyLeaf is a leaf counted only optimistically, with itself responsible.
func greyLeaf(processing, ect, pos int) LambdaThetaNode {
	return LambdaThetaNode{
		processing:    0,
		ect:           minTime,
		processingOpt: processing,
		ectOpt:        ect,
		respProc:      pos,
		respECT:       pos,
	}
}

// mergeLambdaTheta combines two adjacent subtrees; left covers the earlier
// positions. At most one Lambda activity contributes to the optimistic
// fields, so the grey choice comes from exactly one side per candidate.
func mergeLambdaTheta(left, right LambdaThetaNode) LambdaThetaNode {
	n := LambdaThetaNode{
		processing: left.processing + right.processing,
		ect:        max(right.ect, left.ect+right.processing),
	}

	po1 := left.processing + right.processingOpt
	po2 := left.processingOpt + right.processing
	if po1 >= po2 {
		n.processingOpt = po1
		n.respProc = right.respProc
	} else {
		n.processingOpt = po2
		n.respProc = left.respProc
	}

	// ect1: carry the optimism from the right subtree only.
	// ect2: the right subtree's grey choice combined with the left's plain ECT.
	// ect3: the left subtree's grey choice combined with the right's plain
	//       processing.
	// First satisfying branch wins on ties.
	ect1 := right.ectOpt
	ect2 := left.ect + right.processingOpt
	ect3 := left.ectOpt + right.processing
	switch {
	case ect1 >= ect2 && ect1 >= ect3:
		n.ectOpt = ect1
		n.respECT = right.respECT
	case ect2 >= ect3:
		n.ectOpt = ect2
		n.respECT = right.respProc
	default:
		n.ectOpt = ect3
		n.respECT = left.respECT
	}
	return n
}

// LambdaThetaTree maintains the Theta and Lambda aggregates of a set of
// interval activities under O(log n) Insert, Grey and Reset by position.
type LambdaThetaTree struct {
	tree *monoidTree[LambdaThetaNode]
}

// NewLambdaThetaTree creates a tree with capacity for size positions.
func NewLambdaThetaTree(size int) *LambdaThetaTree {
	return &LambdaThetaTree{
		tree: newMonoidTree(size, lambdaThetaIdentity(), mergeLambdaTheta),
	}
}

// Clear removes every activity from both sets.
func (t *LambdaThetaTree) Clear() {
	t.tree.Clear()
}

// Insert adds the activity to the Theta set at its position.
func (t *LambdaThetaTree) Insert(task IntervalView, pos int) {
	t.tree.Set(pos, thetaLeaf(task.DurationMin(), task.EndMin()))
}

// Grey moves the activity at pos from the Theta set to the Lambda set: it
// stops contributing to the plain aggregates but keeps contributing to the
// optimistic ones, with itself responsible.
func (t *LambdaThetaTree) Grey(pos int) {
	leaf := t.tree.Leaf(pos)
	t.tree.Set(pos, greyLeaf(leaf.processingOpt, leaf.ectOpt, pos))
}

// Reset removes the activity at pos from both sets.
func (t *LambdaThetaTree) Reset(pos int) {
	t.tree.Reset(pos)
}

// ECT returns the earliest completion time of the Theta set alone.
func (t *LambdaThetaTree) ECT() int {
	return t.tree.Result().ect
}

// ECTOpt returns the earliest completion time of the Theta set plus the
// single most favorable Lambda activity.
func (t *LambdaThetaTree) ECTOpt() int {
	return t.tree.Result().ectOpt
}

// ResponsibleOpt returns the position of the Lambda activity achieving
// ECTOpt, or noneResponsible when no Lambda activity contributes.
func (t *LambdaThetaTree) ResponsibleOpt() int {
	return t.tree.Result().respECT
}

// CumulativeLambdaThetaTree is the capacity-scaled variant used by the
// cumulative overload check. Leaves contribute energies instead of
// durations; aggregates are energetic end-mins on the capacity-scaled time
// axis.
type CumulativeLambdaThetaTree struct {
	tree     *monoidTree[LambdaThetaNode]
	capacity int
}

// NewCumulativeLambdaThetaTree creates a tree with capacity for size
// positions over a resource of the given capacity. The capacity must be
// validated (> 0) by the caller.
func NewCumulativeLambdaThetaTree(size, capacity int) *CumulativeLambdaThetaTree {
	return &CumulativeLambdaThetaTree{
		tree:     newMonoidTree(size, lambdaThetaIdentity(), mergeLambdaTheta),
		capacity: capacity,
	}
}

// Clear removes every task from both sets.
func (t *CumulativeLambdaThetaTree) Clear() {
	t.tree.Clear()
}

// Insert adds the task to the Theta set at its position, contributing its
// minimal energy and energetic end-min. A relaxed earliest start contributes
// the identity end-min directly: scaling the sentinel would overflow.
func (t *CumulativeLambdaThetaTree) Insert(task *CumulativeTask, pos int) {
	energy := task.EnergyMin()
	ect := minTime
	if start := task.Interval.StartMin(); start > minTime {
		ect = t.capacity*start + energy
	}
	t.tree.Set(pos, thetaLeaf(energy, ect))
}

// Grey moves the task at pos from the Theta set to the Lambda set.
func (t *CumulativeLambdaThetaTree) Grey(pos int) {
	leaf := t.tree.Leaf(pos)
	t.tree.Set(pos, greyLeaf(leaf.processingOpt, leaf.ectOpt, pos))
}

// Reset removes the task at pos from both sets.
func (t *CumulativeLambdaThetaTree) Reset(pos int) {
	t.tree.Reset(pos)
}

// EnergeticEndMin returns the energetic end-min aggregate of the Theta set.
func (t *CumulativeLambdaThetaTree) EnergeticEndMin() int {
	return t.tree.Result().ect
}

// EnergeticEndMinOpt returns the energetic end-min of the Theta set plus the
// single most favorable Lambda task.
func (t *CumulativeLambdaThetaTree) EnergeticEndMinOpt() int {
	return t.tree.Result().ectOpt
}

// ResponsibleOpt returns the position of the Lambda task achieving
// EnergeticEndMinOpt, or noneResponsible.
func (t *CumulativeLambdaThetaTree) ResponsibleOpt() int {
	return t.tree.Result().respECT
}

// ConvertEnergeticEndMinToEndMin converts an energetic end-min back to a
// time value: ceil(e / capacity). The caller must ensure e >= 0.
func (t *CumulativeLambdaThetaTree) ConvertEnergeticEndMinToEndMin(e int) int {
	return (e + t.capacity - 1) / t.capacity
}
