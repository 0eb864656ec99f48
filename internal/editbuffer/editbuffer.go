// Package editbuffer owns a textbuffer.TextBuffer plus a set of cursors
// and exposes logical, grapheme-column edit operations on top of it.
package editbuffer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/textrope/internal/grapheme"
	"github.com/dshills/textrope/internal/rope"
	"github.com/dshills/textrope/internal/textbuffer"
)

// Cursor is a logical (row, col) position, with an optional desired visual
// column sticky across vertical moves (-1 means unset).
type Cursor struct {
	Row, Col   uint32
	DesiredCol int
}

// EditBuffer exclusively owns a TextBuffer and a list of cursors; cursor
// 0 is primary.
type EditBuffer struct {
	buf     *textbuffer.TextBuffer
	gsvc    *grapheme.Service
	cursors []Cursor
	tagSeq  uint64
}

// New creates an EditBuffer over buf with a single cursor at (0, 0).
func New(buf *textbuffer.TextBuffer, gsvc *grapheme.Service) *EditBuffer {
	return &EditBuffer{buf: buf, gsvc: gsvc, cursors: []Cursor{{DesiredCol: -1}}}
}

// Buffer exposes the underlying TextBuffer for callers (e.g. a view) that
// need read access.
func (eb *EditBuffer) Buffer() *textbuffer.TextBuffer { return eb.buf }

// Cursors returns the current cursor list, primary first.
func (eb *EditBuffer) Cursors() []Cursor { return append([]Cursor(nil), eb.cursors...) }

// Primary returns the primary cursor.
func (eb *EditBuffer) Primary() Cursor { return eb.cursors[0] }

func (eb *EditBuffer) nextTag(label string) rope.Tag {
	eb.tagSeq++
	return rope.Tag(label + ":" + strconv.FormatUint(eb.tagSeq, 10))
}

// withUndo wraps a mutation in StoreUndo/op per spec.md's grouped-undo
// convention: every user-visible edit gets its own undo frame.
func (eb *EditBuffer) withUndo(label string, op func()) {
	eb.buf.StoreUndo(eb.nextTag(label))
	op()
	eb.reclampCursors()
}

// InsertText inserts s at each cursor, advancing it past the inserted
// graphemes. Cursors are processed in (row, col) order, and a cursor that
// sits on the same original line as an earlier one, after it, is shifted
// by the row/column delta the earlier insert caused — per spec.md §4.5,
// a later cursor must account for an earlier same-line edit rather than
// land at its now-stale (row, col).
func (eb *EditBuffer) InsertText(s string) {
	if s == "" {
		return
	}
	nlCount := strings.Count(s, "\n")
	graphemeLen := eb.gsvc.Count(s)
	var tailLen int
	if nlCount > 0 {
		tailLen = eb.gsvc.Count(s[strings.LastIndex(s, "\n")+1:])
	}

	eb.withUndo("insert", func() {
		order := sortedCursorIndices(eb.cursors)

		var rowShift, colShift int32
		var shiftRow uint32
		haveShiftRow := false

		for _, i := range order {
			c := eb.cursors[i]
			origRow := c.Row
			adjRow := uint32(int32(origRow) + rowShift)
			adjCol := c.Col
			sameRowAsPrev := haveShiftRow && origRow == shiftRow
			if sameRowAsPrev {
				adjCol = uint32(int32(c.Col) + colShift)
			} else {
				colShift = 0
			}

			off := eb.buf.ByteOffsetAt(adjRow, int(adjCol))
			eb.buf.InsertBytes(off, []byte(s))
			eb.cursors[i] = advanceCursor(Cursor{Row: adjRow, Col: adjCol}, s, eb.gsvc)

			if nlCount == 0 {
				colShift += int32(graphemeLen)
			} else {
				colShift = int32(tailLen) - int32(adjCol)
				rowShift += int32(nlCount)
			}
			shiftRow = origRow
			haveShiftRow = true
		}
	})
}

// sortedCursorIndices returns cursor indices ordered by (row, col)
// ascending, so InsertText can sweep left-to-right/top-to-bottom and
// accumulate the shift each insert causes for cursors that follow.
func sortedCursorIndices(cursors []Cursor) []int {
	idx := make([]int, len(cursors))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		ca, cb := cursors[idx[a]], cursors[idx[b]]
		if ca.Row != cb.Row {
			return ca.Row < cb.Row
		}
		return ca.Col < cb.Col
	})
	return idx
}

// advanceCursor returns the cursor position after inserting s at c,
// advancing past s's grapheme clusters (not runes), so combining
// sequences in the inserted text advance the cursor by one column each.
func advanceCursor(c Cursor, s string, gsvc *grapheme.Service) Cursor {
	nlCount := strings.Count(s, "\n")
	if nlCount == 0 {
		return Cursor{Row: c.Row, Col: c.Col + uint32(gsvc.Count(s)), DesiredCol: -1}
	}
	last := s[strings.LastIndex(s, "\n")+1:]
	return Cursor{Row: c.Row + uint32(nlCount), Col: uint32(gsvc.Count(last)), DesiredCol: -1}
}

// Backspace deletes the grapheme before the primary cursor, or joins with
// the previous line at column 0.
func (eb *EditBuffer) Backspace() {
	eb.withUndo("backspace", func() {
		c := eb.cursors[0]
		if c.Col > 0 {
			off := eb.buf.ByteOffsetAt(c.Row, int(c.Col)-1)
			end := eb.buf.ByteOffsetAt(c.Row, int(c.Col))
			eb.buf.DeleteRange(off, end)
			eb.cursors[0] = Cursor{Row: c.Row, Col: c.Col - 1, DesiredCol: -1}
			return
		}
		if c.Row == 0 {
			return
		}
		prevLineEndByte := eb.buf.ByteOffsetAt(c.Row, 0)
		if prevLineEndByte > 0 {
			prevLineEndByte--
		}
		prevLen := lineGraphemeLen(eb.buf, eb.gsvc, c.Row-1)
		eb.buf.DeleteRange(prevLineEndByte, prevLineEndByte+1) // remove the joining HardBreak
		eb.cursors[0] = Cursor{Row: c.Row - 1, Col: uint32(prevLen), DesiredCol: -1}
	})
}

// DeleteForward deletes the grapheme after the cursor, or joins with the
// next line if the cursor is at the line's end.
func (eb *EditBuffer) DeleteForward() {
	eb.withUndo("delete-forward", func() {
		c := eb.cursors[0]
		lineLen := lineGraphemeLen(eb.buf, eb.gsvc, c.Row)
		if int(c.Col) < lineLen {
			off := eb.buf.ByteOffsetAt(c.Row, int(c.Col))
			end := eb.buf.ByteOffsetAt(c.Row, int(c.Col)+1)
			eb.buf.DeleteRange(off, end)
			return
		}
		if c.Row+1 >= eb.buf.GetLineCount() {
			return
		}
		off := eb.buf.ByteOffsetAt(c.Row, int(c.Col))
		eb.buf.DeleteRange(off, off+1)
	})
}

// DeleteRange removes the byte range [a, b).
func (eb *EditBuffer) DeleteRange(a, b uint64) {
	eb.withUndo("delete-range", func() {
		eb.buf.DeleteRange(a, b)
	})
}

// DeleteLine removes the cursor's entire logical line, including its
// trailing HardBreak when present.
func (eb *EditBuffer) DeleteLine() {
	eb.withUndo("delete-line", func() {
		c := eb.cursors[0]
		start := eb.buf.ByteOffsetAt(c.Row, 0)
		var end uint64
		if c.Row+1 < eb.buf.GetLineCount() {
			end = eb.buf.ByteOffsetAt(c.Row+1, 0)
		} else {
			end = eb.buf.ByteOffsetAt(c.Row, lineGraphemeLen(eb.buf, eb.gsvc, c.Row))
		}
		eb.buf.DeleteRange(start, end)
		eb.cursors[0] = Cursor{Row: c.Row, Col: 0, DesiredCol: -1}
	})
}

// GotoLine moves the primary cursor to the start of line n.
func (eb *EditBuffer) GotoLine(n uint32) {
	eb.SetCursor(n, 0)
}

// SetCursor sets the primary cursor's position, clamped to the buffer.
func (eb *EditBuffer) SetCursor(row, col uint32) {
	eb.cursors[0] = eb.clamp(Cursor{Row: row, Col: col, DesiredCol: -1})
}

func (eb *EditBuffer) clamp(c Cursor) Cursor {
	lineCount := eb.buf.GetLineCount()
	if lineCount == 0 {
		return Cursor{DesiredCol: -1}
	}
	if c.Row >= lineCount {
		c.Row = lineCount - 1
	}
	lineLen := uint32(lineGraphemeLen(eb.buf, eb.gsvc, c.Row))
	if c.Col > lineLen {
		c.Col = lineLen
	}
	return c
}

func (eb *EditBuffer) reclampCursors() {
	for i, c := range eb.cursors {
		eb.cursors[i] = eb.clamp(c)
	}
}

// MoveLeft moves the primary cursor one grapheme left, wrapping to the end
// of the previous line at column 0.
func (eb *EditBuffer) MoveLeft() {
	c := eb.cursors[0]
	if c.Col > 0 {
		eb.cursors[0] = Cursor{Row: c.Row, Col: c.Col - 1, DesiredCol: -1}
		return
	}
	if c.Row == 0 {
		return
	}
	prevLen := lineGraphemeLen(eb.buf, eb.gsvc, c.Row-1)
	eb.cursors[0] = Cursor{Row: c.Row - 1, Col: uint32(prevLen), DesiredCol: -1}
}

// MoveRight moves the primary cursor one grapheme right, wrapping to the
// start of the next line at the end of a line.
func (eb *EditBuffer) MoveRight() {
	c := eb.cursors[0]
	lineLen := lineGraphemeLen(eb.buf, eb.gsvc, c.Row)
	if int(c.Col) < lineLen {
		eb.cursors[0] = Cursor{Row: c.Row, Col: c.Col + 1, DesiredCol: -1}
		return
	}
	if c.Row+1 >= eb.buf.GetLineCount() {
		return
	}
	eb.cursors[0] = Cursor{Row: c.Row + 1, Col: 0, DesiredCol: -1}
}

// MoveUp moves the primary cursor one logical line up, preserving the
// desired column across repeated vertical moves.
func (eb *EditBuffer) MoveUp() {
	c := eb.cursors[0]
	if c.Row == 0 {
		return
	}
	desired := c.DesiredCol
	if desired < 0 {
		desired = int(c.Col)
	}
	eb.cursors[0] = eb.clamp(Cursor{Row: c.Row - 1, Col: uint32(desired), DesiredCol: desired})
}

// MoveDown is MoveUp's symmetric counterpart.
func (eb *EditBuffer) MoveDown() {
	c := eb.cursors[0]
	if c.Row+1 >= eb.buf.GetLineCount() {
		return
	}
	desired := c.DesiredCol
	if desired < 0 {
		desired = int(c.Col)
	}
	eb.cursors[0] = eb.clamp(Cursor{Row: c.Row + 1, Col: uint32(desired), DesiredCol: desired})
}

// SetText replaces the buffer's contents. preserveCursor false resets the
// primary cursor to (0, 0).
func (eb *EditBuffer) SetText(s string, preserveCursor bool) {
	eb.buf.SetText([]byte(s))
	if !preserveCursor {
		eb.cursors = []Cursor{{DesiredCol: -1}}
		return
	}
	eb.reclampCursors()
}

func lineGraphemeLen(buf *textbuffer.TextBuffer, gsvc *grapheme.Service, row uint32) int {
	start := buf.GetLineStart(row)
	var end uint64
	if row+1 < buf.GetLineCount() {
		end = buf.GetLineStart(row + 1)
		if end > 0 {
			end--
		}
	} else {
		end = uint64(gsvc.Count(buf.PlainText()))
	}
	if end < start {
		end = start
	}
	return int(end - start)
}
