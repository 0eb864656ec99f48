// Package editorview wraps a textview.View and an editbuffer.EditBuffer,
// translating between logical and visual cursor coordinates and pursuing
// the cursor with the viewport under configurable scroll margins.
package editorview

import (
	"github.com/dshills/textrope/internal/editbuffer"
	"github.com/dshills/textrope/internal/textview"
)

// VisualCursor is logicalToVisualCursor's / visualToLogicalCursor's result
// shape, carrying both coordinate spaces at once.
type VisualCursor struct {
	VisualRow, VisualCol   int
	LogicalRow, LogicalCol int
}

// EditorView exclusively owns its View and holds a non-owning reference to
// an EditBuffer (spec.md §5's resource-ownership rule).
type EditorView struct {
	view *textview.View
	eb   *editbuffer.EditBuffer

	scrollMarginV float64
	scrollMarginH float64
}

// New wraps the given view and eb in an EditorView; it does not build or
// check the view against eb's buffer. The
// default scroll margin is 0 (no pursuit headroom) until SetScrollMargins
// is called.
func New(view *textview.View, eb *editbuffer.EditBuffer) *EditorView {
	return &EditorView{view: view, eb: eb}
}

// View exposes the underlying TextBufferView for render consumers.
func (ev *EditorView) View() *textview.View { return ev.view }

// SetScrollMargins sets the fractional vertical/horizontal scroll margins
// (e.g. 0.2 reserves 20% of the viewport as pursuit headroom).
func (ev *EditorView) SetScrollMargins(vertical, horizontal float64) {
	ev.scrollMarginV = vertical
	ev.scrollMarginH = horizontal
}

// SetViewportSize updates the viewport's size without scrolling.
func (ev *EditorView) SetViewportSize(w, h int) {
	vp := ev.view.GetViewport()
	if vp == nil {
		ev.view.SetViewport(textview.Viewport{Width: w, Height: h})
		return
	}
	ev.view.SetViewport(textview.Viewport{X: vp.X, Y: vp.Y, Width: w, Height: h})
}

// vlineIndexForLogical finds the vline index whose source_line == row and
// whose col_offset is the largest <= col.
func (ev *EditorView) vlineIndexForLogical(row uint32, col int) int {
	vlines := ev.view.GetVirtualLines()
	best := -1
	for i, vl := range vlines {
		if vl.SourceLine != row {
			continue
		}
		if int(vl.ColOffset) <= col {
			best = i
		}
		if int(vl.ColOffset) > col {
			break
		}
	}
	if best == -1 {
		for i, vl := range vlines {
			if vl.SourceLine == row {
				return i
			}
		}
	}
	return best
}

// LogicalToVisualCursor finds the vline at (row, col) and reports the
// visual coordinates, viewport-relative when a viewport is set.
func (ev *EditorView) LogicalToVisualCursor(row uint32, col int) VisualCursor {
	idx := ev.vlineIndexForLogical(row, col)
	if idx == -1 {
		return VisualCursor{LogicalRow: int(row), LogicalCol: col}
	}
	vlines := ev.view.GetVirtualLines()
	vl := vlines[idx]
	visualRow := idx
	if vp := ev.view.GetViewport(); vp != nil {
		visualRow -= vp.Y
	}
	return VisualCursor{
		VisualRow:  visualRow,
		VisualCol:  col - int(vl.ColOffset),
		LogicalRow: int(row),
		LogicalCol: col,
	}
}

// VisualToLogicalCursor is LogicalToVisualCursor's inverse.
func (ev *EditorView) VisualToLogicalCursor(vrow, vcol int) VisualCursor {
	row := vrow
	if vp := ev.view.GetViewport(); vp != nil {
		row += vp.Y
	}
	vlines := ev.view.GetVirtualLines()
	if row < 0 {
		row = 0
	}
	if row >= len(vlines) {
		row = len(vlines) - 1
	}
	if row < 0 {
		return VisualCursor{}
	}
	vl := vlines[row]
	logicalCol := int(vl.ColOffset) + vcol
	if logicalCol > int(vl.ColOffset)+vl.Graphemes {
		logicalCol = int(vl.ColOffset) + vl.Graphemes
	}
	return VisualCursor{
		VisualRow:  vrow,
		VisualCol:  vcol,
		LogicalRow: int(vl.SourceLine),
		LogicalCol: logicalCol,
	}
}

// MoveUpVisual steps the primary cursor one vline up, preserving the
// desired visual column.
func (ev *EditorView) MoveUpVisual() {
	ev.moveVisual(-1)
}

// MoveDownVisual steps the primary cursor one vline down.
func (ev *EditorView) MoveDownVisual() {
	ev.moveVisual(1)
}

func (ev *EditorView) moveVisual(delta int) {
	c := ev.eb.Primary()
	idx := ev.vlineIndexForLogical(c.Row, int(c.Col))
	vlines := ev.view.GetVirtualLines()
	if idx == -1 {
		return
	}
	desired := c.DesiredCol
	if desired < 0 {
		desired = int(c.Col) - int(vlines[idx].ColOffset)
	}
	newIdx := idx + delta
	if newIdx < 0 || newIdx >= len(vlines) {
		ev.EnsureCursorVisible()
		return
	}
	vl := vlines[newIdx]
	col := int(vl.ColOffset) + desired
	if col > int(vl.ColOffset)+vl.Graphemes {
		col = int(vl.ColOffset) + vl.Graphemes
	}
	ev.eb.SetCursor(vl.SourceLine, uint32(col))
	ev.EnsureCursorVisible()
}

// EnsureCursorVisible scrolls the viewport so the primary cursor's vline
// stays within the configured scroll margins (spec.md §4.6). It must be
// called after every cursor change.
func (ev *EditorView) EnsureCursorVisible() {
	vp := ev.view.GetViewport()
	if vp == nil {
		return
	}
	c := ev.eb.Primary()
	vlines := ev.view.GetVirtualLines()
	cursorVline := ev.vlineIndexForLogical(c.Row, int(c.Col))
	if cursorVline == -1 {
		return
	}

	margin := int(ev.scrollMarginV * float64(vp.Height))
	newY := vp.Y
	if cursorVline < vp.Y+margin {
		newY = cursorVline - margin
		if newY < 0 {
			newY = 0
		}
	} else if cursorVline >= vp.Y+vp.Height-margin {
		newY = cursorVline - vp.Height + margin + 1
	}
	maxY := len(vlines) - vp.Height
	if maxY < 0 {
		maxY = 0
	}
	if newY > maxY {
		newY = maxY
	}
	if newY < 0 {
		newY = 0
	}

	newX := vp.X
	wrapped := ev.view.GetVirtualLineCount() != int(countNoWrapLines(vlines))
	if !wrapped {
		hmargin := int(ev.scrollMarginH * float64(vp.Width))
		vl := vlines[cursorVline]
		col := int(c.Col) - int(vl.ColOffset)
		if col < vp.X+hmargin {
			newX = col - hmargin
			if newX < 0 {
				newX = 0
			}
		} else if col >= vp.X+vp.Width-hmargin {
			newX = col - vp.Width + hmargin + 1
		}
	} else {
		newX = 0
	}

	ev.view.SetViewport(textview.Viewport{X: newX, Y: newY, Width: vp.Width, Height: vp.Height})
}

// countNoWrapLines is a cheap proxy for "is wrapping currently producing
// more than one vline per logical line": counts distinct source lines.
func countNoWrapLines(vlines []textview.VLine) int {
	seen := map[uint32]bool{}
	for _, vl := range vlines {
		seen[vl.SourceLine] = true
	}
	return len(seen)
}
