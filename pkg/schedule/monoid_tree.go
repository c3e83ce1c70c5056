// Package schedule: balanced aggregation tree.
//
// monoidTree caches the bottom-up aggregation of an associative (but not
// necessarily commutative) merge over a fixed number of leaf positions. The
// trees built on it (ThetaTree, LambdaThetaTree) key their leaves by a stable
// position index assigned per sweep; the merge order is fixed by position
// (left operand = smaller position = earlier in the active time direction),
// never by task identity.
//
// Set and Reset are O(log n); reading the root aggregate is O(1).
package schedule

// monoidTree is a complete binary tree over a power-of-two number of leaves,
// stored as a 1-based heap: node 1 is the root, node i has children 2i and
// 2i+1, leaves occupy [leaves .. 2*leaves-1].
type monoidTree[T any] struct {
	identity T
	combine  func(left, right T) T
	leaves   int
	nodes    []T
}

// newMonoidTree creates a tree with capacity for size leaf positions, every
// leaf holding the identity.
func newMonoidTree[T any](size int, identity T, combine func(left, right T) T) *monoidTree[T] {
	leaves := 1
	for leaves < size {
		leaves <<= 1
	}
	t := &monoidTree[T]{
		identity: identity,
		combine:  combine,
		leaves:   leaves,
		nodes:    make([]T, 2*leaves),
	}
	t.Clear()
	return t
}

// Clear resets every leaf (and hence every aggregate) to the identity.
func (t *monoidTree[T]) Clear() {
	for i := range t.nodes {
		t.nodes[i] = t.identity
	}
}

// Set writes value at the leaf position pos and recomputes all ancestors.
func (t *monoidTree[T]) Set(pos int, value T) {
	i := t.leaves + pos
	t.nodes[i] = value
	for i >>= 1; i >= 1; i >>= 1 {
		t.nodes[i] = t.combine(t.nodes[2*i], t.nodes[2*i+1])
	}
}

// Reset writes the identity at the leaf position pos.
func (t *monoidTree[T]) Reset(pos int) {
	t.Set(pos, t.identity)
}

// Leaf returns the value stored at the leaf position pos.
func (t *monoidTree[T]) Leaf(pos int) T {
	return t.nodes[t.leaves+pos]
}

// Result returns the aggregate over all leaves.
func (t *monoidTree[T]) Result() T {
	return t.nodes[1]
}
