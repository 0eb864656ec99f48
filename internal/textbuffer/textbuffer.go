package textbuffer

import (
	"bytes"
	"sync"

	"github.com/dshills/textrope/internal/grapheme"
	"github.com/dshills/textrope/internal/rope"
)

// TextBuffer holds a Rope[Segment] plus per-line highlight storage. It
// exclusively owns both; a TextBufferView holds only a non-owning pointer
// to it. Locking mirrors the teacher engine's buffer.Buffer: an RWMutex
// guards the root swap and the highlight maps, since callers may read
// (render) from one goroutine while another schedules edits.
type TextBuffer struct {
	mu sync.RWMutex

	r    *rope.Rope[Segment, segMetrics]
	gsvc *grapheme.Service

	highlights map[uint32][]Highlight
	refIndex   map[string]map[uint32]struct{}
	spansCache map[uint32][]StyleSpan
	provider   HighlightProvider

	epoch uint64
}

// New creates an empty TextBuffer (a single LineStart, the one-empty-line
// document) using gsvc for grapheme measurement.
func New(gsvc *grapheme.Service) *TextBuffer {
	tb := &TextBuffer{
		r:          rope.New[Segment, segMetrics](),
		gsvc:       gsvc,
		highlights: map[uint32][]Highlight{},
		refIndex:   map[string]map[uint32]struct{}{},
		spansCache: map[uint32][]StyleSpan{},
	}
	tb.r.Append(lineStartSeg())
	return tb
}

// DirtyEpoch returns a monotone counter bumped on every mutation; views
// compare it against their last-seen value to decide whether to rebuild.
func (tb *TextBuffer) DirtyEpoch() uint64 {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return tb.epoch
}

func (tb *TextBuffer) bump() {
	tb.epoch++
	tb.spansCache = map[uint32][]StyleSpan{}
}

// splitSegment implements rope.Splitter[Segment] for byte-weight splits: a
// TextChunk is the only segment kind that can straddle a byte offset.
func (tb *TextBuffer) splitSegment(s Segment, w uint64) (left, right Segment) {
	if s.kind != segTextChunk {
		invariantViolation("weight split landed inside a non-chunk segment")
	}
	lb := []byte(s.text)[:w]
	rb := []byte(s.text)[w:]
	return tb.measureChunk(string(lb)), tb.measureChunk(string(rb))
}

func (tb *TextBuffer) measureChunk(text string) Segment {
	if text == "" {
		return textChunkSeg("", 0, 0)
	}
	return textChunkSeg(text, tb.gsvc.Width(text), tb.gsvc.Count(text))
}

// buildPieces splits data on '\n' into HardBreak/LineStart-separated
// segments, WITHOUT a leading LineStart (the caller decides whether one is
// needed: SetText wants one, InsertBytes does not since insertion always
// lands inside an already-existing line).
func (tb *TextBuffer) buildPieces(data []byte) []Segment {
	var out []Segment
	pieces := bytes.Split(data, []byte{'\n'})
	for i, piece := range pieces {
		if i > 0 {
			out = append(out, hardBreakSeg(), lineStartSeg())
		}
		if len(piece) > 0 {
			out = append(out, tb.measureChunk(string(piece)))
		}
	}
	return out
}

// SetText replaces the buffer's entire contents with data, in one pass.
func (tb *TextBuffer) SetText(data []byte) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	segs := append([]Segment{lineStartSeg()}, tb.buildPieces(data)...)
	tb.r = rope.FromSlice[Segment, segMetrics](segs)
	tb.highlights = map[uint32][]Highlight{}
	tb.refIndex = map[string]map[uint32]struct{}{}
	tb.bump()
}

// InsertBytes inserts data at logical byte offset pos, splitting the
// containing chunk and introducing LineStart/HardBreak pairs for any
// newlines in data.
func (tb *TextBuffer) InsertBytes(pos uint64, data []byte) {
	if len(data) == 0 {
		return
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	segs := tb.buildPieces(data)
	right := tb.r.SplitByWeight(pos, tb.splitSegment)
	// A LineStart weighs nothing, so the byte split may leave the one at pos
	// on the right; it belongs before the inserted text.
	if first, ok := right.Get(0); ok && first.kind == segLineStart {
		right.Delete(0)
		segs = append([]Segment{first}, segs...)
	}
	tb.r.InsertSlice(tb.r.Count(), segs)
	tb.r.Concat(right)
	tb.bump()
}

// DeleteRange removes the logical byte range [lo, hi). The zero-weight
// LineStarts at the cut are then reduced to exactly one when the cut
// follows a HardBreak or is the document start, and to none otherwise (a
// deleted newline joins the two lines).
func (tb *TextBuffer) DeleteRange(lo, hi uint64) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.r.DeleteRangeByWeight(lo, hi, tb.splitSegment)
	p := tb.r.Count()
	if idx, _, ok := tb.r.FindByWeight(lo); ok {
		p = idx
	}
	q := p
	for s, ok := tb.r.Get(q - 1); ok && s.kind == segLineStart; s, ok = tb.r.Get(q - 1) {
		q--
	}
	tb.r.DeleteRange(q, p)
	if prev, ok := tb.r.Get(q - 1); !ok || prev.kind == segHardBreak {
		tb.r.Insert(q, lineStartSeg())
	}
	tb.bump()
}

// GetLineCount returns the number of logical lines.
func (tb *TextBuffer) GetLineCount() uint32 {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return uint32(tb.r.MarkerCount(tagLineStart))
}

// LineCount is an alias for GetLineCount, matching spec.md naming.
func (tb *TextBuffer) LineCount() uint32 { return tb.GetLineCount() }

// GetLineStart returns the char offset (newlines counted as one char) of
// the start of logical line i.
func (tb *TextBuffer) GetLineStart(i uint32) uint64 {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	leafIdx, ok := tb.r.GetMarker(tagLineStart, uint64(i))
	if !ok {
		return 0
	}
	var offset uint64
	tb.r.WalkFrom(0, func(v Segment, idx uint64) bool {
		if idx >= leafIdx {
			return false
		}
		offset += v.graphemeWeight()
		return true
	})
	return offset
}

// lineGraphemeCount returns a logical line's length in grapheme clusters —
// the unit highlight columns (AddHighlight/AddHighlightByCharRange) and
// GetLineSpans are addressed in, per spec.md §4.3. This differs from the
// line's display width (terminal columns) whenever it contains a wide
// (2-cell) or zero-width grapheme. Caller must hold tb.mu.
func (tb *TextBuffer) lineGraphemeCount(line uint32) int {
	n := 0
	tb.walkLineLocked(line, func(s Segment) bool {
		if s.kind == segTextChunk {
			n += s.graphemes
		}
		return true
	})
	return n
}

// lineTextLocked reconstructs a logical line's raw text. Caller must hold
// tb.mu.
func (tb *TextBuffer) lineTextLocked(line uint32) string {
	var sb bytes.Buffer
	tb.walkLineLocked(line, func(s Segment) bool {
		if s.kind == segTextChunk {
			sb.WriteString(s.text)
		}
		return true
	})
	return sb.String()
}

// walkLineLocked visits every segment belonging to logical line `line`
// (its LineStart, any TextChunks, up to but excluding its terminating
// HardBreak). Caller must hold tb.mu (R or W).
func (tb *TextBuffer) walkLineLocked(line uint32, fn func(Segment) bool) {
	leafIdx, ok := tb.r.GetMarker(tagLineStart, uint64(line))
	if !ok {
		return
	}
	tb.r.WalkFrom(leafIdx, func(v Segment, idx uint64) bool {
		if idx == leafIdx {
			return fn(v)
		}
		if v.kind == segLineStart || v.kind == segHardBreak {
			return false
		}
		return fn(v)
	})
}

// ByteOffsetAt returns the byte offset of grapheme column col within
// logical line row, for callers (editbuffer) that track cursors in
// grapheme columns but must address InsertBytes/DeleteRange in bytes. col
// past the line's end clamps to the line's byte length.
func (tb *TextBuffer) ByteOffsetAt(row uint32, col int) uint64 {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	leafIdx, ok := tb.r.GetMarker(tagLineStart, uint64(row))
	if !ok {
		return 0
	}
	var byteOff uint64
	tb.r.WalkFrom(0, func(v Segment, idx uint64) bool {
		if idx >= leafIdx {
			return false
		}
		byteOff += v.Metrics().bytes
		return true
	})

	remainingCol := col
	tb.r.WalkFrom(leafIdx, func(v Segment, idx uint64) bool {
		if idx == leafIdx {
			return true
		}
		if v.kind != segTextChunk {
			return false
		}
		if remainingCol <= v.graphemes {
			clusters := tb.gsvc.Boundaries(v.text)
			if remainingCol < len(clusters) {
				byteOff += uint64(clusters[remainingCol].Start)
			} else {
				byteOff += uint64(len(v.text))
			}
			return false
		}
		byteOff += uint64(len(v.text))
		remainingCol -= v.graphemes
		return true
	})
	return byteOff
}

// SetMaxUndoDepth bounds how many undo frames are retained; 0 means
// unbounded.
func (tb *TextBuffer) SetMaxUndoDepth(depth int) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.r.SetMaxUndoDepth(depth)
}

// StoreUndo snapshots the current tree under tag, for a later Undo.
func (tb *TextBuffer) StoreUndo(tag rope.Tag) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.r.StoreUndo(tag)
}

// Undo restores the most recently stored snapshot and bumps the dirty
// epoch so dependent views rebuild.
func (tb *TextBuffer) Undo(nowTag rope.Tag) (rope.Tag, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tag, err := tb.r.Undo(nowTag)
	if err == nil {
		tb.bump()
	}
	return tag, err
}

// Redo restores the most recently undone snapshot.
func (tb *TextBuffer) Redo() (rope.Tag, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tag, err := tb.r.Redo()
	if err == nil {
		tb.bump()
	}
	return tag, err
}

// CanUndo reports whether Undo has a frame to restore.
func (tb *TextBuffer) CanUndo() bool {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return tb.r.CanUndo()
}

// CanRedo reports whether Redo has a frame to restore.
func (tb *TextBuffer) CanRedo() bool {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return tb.r.CanRedo()
}

// ClearHistory discards undo/redo history.
func (tb *TextBuffer) ClearHistory() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.r.ClearHistory()
}

// ToText renders the underlying rope's bracketed debug shape.
func (tb *TextBuffer) ToText() string {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return tb.r.ToText()
}

// PlainText reconstructs the full buffer contents as a string, newlines
// included.
func (tb *TextBuffer) PlainText() string {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	var sb bytes.Buffer
	for _, s := range tb.r.ToArray() {
		switch s.kind {
		case segTextChunk:
			sb.WriteString(s.text)
		case segHardBreak:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// GetSelectedTextIntoBuffer walks the rope in char order from start to end
// (char units, newlines counted as one char) and returns the covered text.
func (tb *TextBuffer) GetSelectedTextIntoBuffer(start, end uint64) string {
	if start >= end {
		return ""
	}
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	var sb bytes.Buffer
	var pos uint64
	tb.r.Walk(func(s Segment, _ uint64) bool {
		w := s.graphemeWeight()
		segStart, segEnd := pos, pos+w
		pos = segEnd
		if segEnd <= start {
			return true
		}
		if segStart >= end {
			return false
		}
		switch s.kind {
		case segHardBreak:
			sb.WriteByte('\n')
		case segTextChunk:
			sb.WriteString(clipChunkByGraphemes(tb.gsvc, s.text, segStart, segEnd, start, end))
		}
		return true
	})
	return sb.String()
}

// clipChunkByGraphemes returns the substring of chunk text (spanning char
// offsets [segStart, segEnd)) that falls within [wantStart, wantEnd).
func clipChunkByGraphemes(gsvc *grapheme.Service, text string, segStart, segEnd, wantStart, wantEnd uint64) string {
	clusters := gsvc.Boundaries(text)
	var sb bytes.Buffer
	for i, c := range clusters {
		charIdx := segStart + uint64(i)
		if charIdx < wantStart || charIdx >= wantEnd {
			continue
		}
		if charIdx >= segEnd {
			break
		}
		sb.WriteString(text[c.Start:c.End])
	}
	return sb.String()
}
