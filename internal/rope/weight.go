package rope

// Splitter splits a single item's value at offset w (0 < w < the item's own
// weight) into a left and right part, each re-wrapped as a valid T. Callers
// whose T can straddle a weight boundary (e.g. a text chunk split mid-byte)
// supply this; callers whose items are always weight-1 atoms can ignore the
// weight-splitting API entirely.
type Splitter[T any] func(item T, w uint64) (left, right T)

// WeightFinger remembers the last leaf index reached by a weight-based
// lookup, plus the cumulative weight at that leaf's start. FindByWeight
// records it after each lookup and Rope.setRoot drops it on any mutation;
// no lookup reads it, so every search descends from the root.
type WeightFinger[T Item[T, M], M Metrics[M]] struct {
	leafIndex    uint64
	weightAtLeaf uint64
}

func weightOfNode[T Item[T, M], M Metrics[M]](n *node[T, M]) uint64 {
	return weightOf[M](n.metrics)
}

// TotalWeight returns the Weight() projection summed over the whole rope,
// or 0 if M does not implement WeightedMetrics.
func (r *Rope[T, M]) TotalWeight() uint64 {
	return weightOfNode[T, M](r.root)
}

// FindByWeight locates the leaf containing weight-offset w: it returns that
// leaf's index, the residual offset within the leaf's own weight span
// (0 <= offsetInLeaf < leaf weight, or == 0 for a zero-weight leaf), and
// true. It returns ok=false if w is >= TotalWeight().
func (r *Rope[T, M]) FindByWeight(w uint64) (index uint64, offsetInLeaf uint64, ok bool) {
	if w >= r.TotalWeight() {
		return 0, 0, false
	}
	idx, off := findByWeight[T, M](r.root, w)
	r.finger = &WeightFinger[T, M]{leafIndex: idx, weightAtLeaf: w - off}
	return idx, off, true
}

func findByWeight[T Item[T, M], M Metrics[M]](n *node[T, M], w uint64) (index uint64, offset uint64) {
	if n.leaf {
		return 0, w
	}
	lw := weightOfNode[T, M](n.left)
	if w < lw {
		return findByWeight[T, M](n.left, w)
	}
	idx, off := findByWeight[T, M](n.right, w-lw)
	return n.left.count() + idx, off
}

// splitNodeByWeight splits n into [0, w) and [w, totalWeight) by weight,
// using splitter to divide any single leaf that straddles w. splitter may
// be nil if the caller guarantees w always lands on a leaf boundary; a nil
// splitter on a straddled leaf is an invariant violation.
func splitNodeByWeight[T Item[T, M], M Metrics[M]](n *node[T, M], w uint64, splitter Splitter[T]) (*node[T, M], *node[T, M]) {
	total := weightOfNode[T, M](n)
	if w == 0 {
		return emptyNode[T, M](), n
	}
	if w >= total {
		return n, emptyNode[T, M]()
	}
	if n.leaf {
		if splitter == nil {
			invariantViolation("weight split straddles a leaf with no splitter supplied")
		}
		lv, rv := splitter(n.value, w)
		left := newLeaf[T, M](lv)
		right := newLeaf[T, M](rv)
		return left, right
	}
	lw := weightOfNode[T, M](n.left)
	if w <= lw {
		ll, lr := splitNodeByWeight[T, M](n.left, w, splitter)
		return ll, rebalance[T, M](concatNodes[T, M](lr, n.right))
	}
	rl, rr := splitNodeByWeight[T, M](n.right, w-lw, splitter)
	return rebalance[T, M](concatNodes[T, M](n.left, rl)), rr
}

// SplitByWeight splits the rope at weight-offset w, dividing a leaf that
// straddles w via splitter. The receiver becomes the left portion [0, w);
// the returned Rope is the right portion [w, TotalWeight()).
func (r *Rope[T, M]) SplitByWeight(w uint64, splitter Splitter[T]) *Rope[T, M] {
	left, right := splitNodeByWeight[T, M](r.root, w, splitter)
	r.setRoot(left)
	return &Rope[T, M]{root: right}
}

// DeleteRangeByWeight removes the weight span [lo, hi), splitting any
// straddled leaves via splitter. An inverted or empty range is a no-op.
func (r *Rope[T, M]) DeleteRangeByWeight(lo, hi uint64, splitter Splitter[T]) {
	total := r.TotalWeight()
	if lo >= total || lo >= hi {
		return
	}
	if hi > total {
		hi = total
	}
	left, mid := splitNodeByWeight[T, M](r.root, lo, splitter)
	_, right := splitNodeByWeight[T, M](mid, hi-lo, splitter)
	r.setRoot(concatNodes[T, M](left, right))
}

// InsertSliceByWeight inserts items at weight-offset w, splitting a
// straddled leaf via splitter.
func (r *Rope[T, M]) InsertSliceByWeight(w uint64, items []T, splitter Splitter[T]) {
	if len(items) == 0 {
		return
	}
	other := FromSlice[T, M](items)
	if other.IsEmpty() {
		return
	}
	left, right := splitNodeByWeight[T, M](r.root, w, splitter)
	r.setRoot(concatNodes[T, M](concatNodes[T, M](left, other.root), right))
}
