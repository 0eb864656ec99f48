package rope

// Cursor is a resumable forward iterator over a Rope's leaves, for callers
// that want to pull values one at a time instead of supplying a callback to
// Walk.
type Cursor[T Item[T, M], M Metrics[M]] struct {
	stack []*node[T, M]
	next  uint64
}

// Cursor returns an iterator positioned just before the start-th leaf.
func (r *Rope[T, M]) Cursor(start uint64) *Cursor[T, M] {
	c := &Cursor[T, M]{next: start}
	c.descend(r.root, start)
	return c
}

// descend pushes the path to the start-th leaf onto the stack, left-to-
// right, so repeated pops from the end yield leaves in order.
func (c *Cursor[T, M]) descend(n *node[T, M], start uint64) {
	if n.count() == 0 {
		return
	}
	if n.leaf {
		c.stack = append(c.stack, n)
		return
	}
	lc := n.left.count()
	if start < lc {
		c.stack = append(c.stack, n.right)
		c.descend(n.left, start)
		return
	}
	c.descend(n.right, start-lc)
}

// Next returns the next leaf's value and index, or ok=false when exhausted.
func (c *Cursor[T, M]) Next() (value T, index uint64, ok bool) {
	for len(c.stack) > 0 {
		n := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if n.count() == 0 {
			continue
		}
		if n.leaf {
			idx := c.next
			c.next++
			return n.value, idx, true
		}
		c.stack = append(c.stack, n.right, n.left)
	}
	var zero T
	return zero, 0, false
}
