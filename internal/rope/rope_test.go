package rope

import (
	"testing"
	"testing/quick"
)

// testMetrics is a minimal Metrics[M] + WeightedMetrics implementation used
// across the rope tests: Count tracks leaf count, Bytes tracks a
// caller-chosen weight dimension (e.g. rune count).
type testMetrics struct {
	n     uint64
	bytes uint64
}

func (m testMetrics) Add(o testMetrics) testMetrics {
	return testMetrics{n: m.n + o.n, bytes: m.bytes + o.bytes}
}
func (m testMetrics) Count() uint64  { return m.n }
func (m testMetrics) Weight() uint64 { return m.bytes }

// testItem is a rune value plus an optional marker tag, used to exercise
// both the plain index API and the marker cache.
type testItem struct {
	r   rune
	tag Tag
}

func (v testItem) Metrics() testMetrics {
	if v.r == 0 {
		return testMetrics{}
	}
	return testMetrics{n: 1, bytes: 1}
}
func (v testItem) IsEmpty() bool      { return v.r == 0 }
func (v testItem) Empty() testItem    { return testItem{} }
func (v testItem) MarkerTag() (Tag, bool) {
	if v.tag == "" {
		return "", false
	}
	return v.tag, true
}

func runeSlice(s string) []testItem {
	out := make([]testItem, 0, len(s))
	for _, r := range s {
		out = append(out, testItem{r: r})
	}
	return out
}

func ropeString(r *Rope[testItem, testMetrics]) string {
	out := make([]rune, 0, r.Count())
	for _, v := range r.ToArray() {
		out = append(out, v.r)
	}
	return string(out)
}

func TestFromSliceRoundTrips(t *testing.T) {
	r := FromSlice[testItem, testMetrics](runeSlice("hello world"))
	if got := ropeString(r); got != "hello world" {
		t.Fatalf("got %q", got)
	}
	if r.Count() != 11 {
		t.Fatalf("count = %d", r.Count())
	}
	if !r.IsBalanced() {
		t.Fatal("not balanced after FromSlice")
	}
}

func TestInsertDeleteClamped(t *testing.T) {
	r := FromSlice[testItem, testMetrics](runeSlice("abc"))
	r.Insert(100, testItem{r: 'd'}) // past end clamps to append
	if got := ropeString(r); got != "abcd" {
		t.Fatalf("got %q", got)
	}
	r.Delete(100) // out of range, no-op
	if got := ropeString(r); got != "abcd" {
		t.Fatalf("got %q after no-op delete", got)
	}
	r.Delete(0)
	if got := ropeString(r); got != "bcd" {
		t.Fatalf("got %q", got)
	}
}

func TestSplitConcatRoundTrip(t *testing.T) {
	r := FromSlice[testItem, testMetrics](runeSlice("abcdefgh"))
	right := r.Split(3)
	if got := ropeString(r); got != "abc" {
		t.Fatalf("left = %q", got)
	}
	if got := ropeString(right); got != "defgh" {
		t.Fatalf("right = %q", got)
	}
	r.Concat(right)
	if got := ropeString(r); got != "abcdefgh" {
		t.Fatalf("concat = %q", got)
	}
	if !r.IsBalanced() {
		t.Fatal("not balanced after concat")
	}
}

func TestMarkerCache(t *testing.T) {
	r := New[testItem, testMetrics]()
	r.Append(testItem{r: 'a'})
	r.Append(testItem{r: 'b', tag: "line"})
	r.Append(testItem{r: 'c'})
	r.Append(testItem{r: 'd', tag: "line"})

	if n := r.MarkerCount("line"); n != 2 {
		t.Fatalf("marker count = %d", n)
	}
	if idx, ok := r.GetMarker("line", 1); !ok || idx != 3 {
		t.Fatalf("GetMarker(line,1) = %d,%v", idx, ok)
	}

	r.Delete(1) // removes the first "line" marker
	if n := r.MarkerCount("line"); n != 1 {
		t.Fatalf("marker count after delete = %d", n)
	}
	if idx, ok := r.GetMarker("line", 0); !ok || idx != 2 {
		t.Fatalf("GetMarker(line,0) after delete = %d,%v", idx, ok)
	}
}

func TestFindByWeight(t *testing.T) {
	r := FromSlice[testItem, testMetrics](runeSlice("abcdef"))
	idx, off, ok := r.FindByWeight(3)
	if !ok || idx != 3 || off != 0 {
		t.Fatalf("FindByWeight(3) = %d,%d,%v", idx, off, ok)
	}
	if _, _, ok := r.FindByWeight(100); ok {
		t.Fatal("expected out-of-range FindByWeight to fail")
	}
}

func TestUndoRedo(t *testing.T) {
	r := FromSlice[testItem, testMetrics](runeSlice("abc"))
	r.StoreUndo("insert-d")
	r.Append(testItem{r: 'd'})
	if got := ropeString(r); got != "abcd" {
		t.Fatalf("got %q", got)
	}

	tag, err := r.Undo("redo-point")
	if err != nil || tag != "insert-d" {
		t.Fatalf("Undo = %q, %v", tag, err)
	}
	if got := ropeString(r); got != "abc" {
		t.Fatalf("after undo = %q", got)
	}

	tag, err = r.Redo()
	if err != nil || tag != "redo-point" {
		t.Fatalf("Redo = %q, %v", tag, err)
	}
	if got := ropeString(r); got != "abcd" {
		t.Fatalf("after redo = %q", got)
	}

	if _, err := r.Redo(); err != ErrStop {
		t.Fatalf("expected ErrStop, got %v", err)
	}

	// A fresh edit after Undo discards the redo branch.
	if _, err := r.Undo("edit2"); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	r.StoreUndo("edit3")
	r.Append(testItem{r: 'x'})
	if _, err := r.Redo(); err != ErrStop {
		t.Fatalf("expected redo discarded, got %v", err)
	}
}

func TestBalanceUnderRandomOps(t *testing.T) {
	f := func(ops []uint8) bool {
		r := New[testItem, testMetrics]()
		for i, op := range ops {
			c := r.Count()
			switch op % 3 {
			case 0:
				r.Append(testItem{r: rune('a' + i%26)})
			case 1:
				if c > 0 {
					r.Delete(uint64(op) % c)
				}
			case 2:
				if c > 0 {
					r.Insert(uint64(op)%c, testItem{r: rune('A' + i%26)})
				}
			}
			if !r.IsBalanced() {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 200}); err != nil {
		t.Fatal(err)
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder[testItem, testMetrics](0)
	b.PushAll(runeSlice("xyz"))
	r := b.Build()
	if got := ropeString(r); got != "xyz" {
		t.Fatalf("got %q", got)
	}
}

func TestCursor(t *testing.T) {
	r := FromSlice[testItem, testMetrics](runeSlice("abcdef"))
	c := r.Cursor(2)
	var got []rune
	for {
		v, _, ok := c.Next()
		if !ok {
			break
		}
		got = append(got, v.r)
	}
	if string(got) != "cdef" {
		t.Fatalf("got %q", string(got))
	}
}

func TestToTextDebugShape(t *testing.T) {
	r := New[testItem, testMetrics]()
	if got := r.ToText(); got != "_" {
		t.Fatalf("empty rope ToText = %q", got)
	}
	r.Append(testItem{r: 'a'})
	r.Append(testItem{r: 'b'})
	if got := r.ToText(); got != "[1 1]" {
		t.Fatalf("two-leaf ToText = %q", got)
	}
}
