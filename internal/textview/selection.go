package textview

// SetSelection stores a selection directly in logical char units
// (newlines counted as one char). start==end clears the selection.
func (v *View) SetSelection(start, end uint32, bg, fg *Color) {
	if start == end {
		v.ResetLocalSelection()
		return
	}
	if start > end {
		start, end = end, start
	}
	v.selActive = true
	v.selStart, v.selEnd = start, end
	v.selBG, v.selFG = bg, fg
}

// ResetLocalSelection clears any active selection.
func (v *View) ResetLocalSelection() {
	v.selActive = false
	v.selStart, v.selEnd = 0, 0
}

// SetLocalSelection converts viewport-local (visual) coordinates to a
// logical char-range selection, per spec.md §4.4: viewport y always adds
// to visual y; x is ignored (columns are within-vline) when wrapping is
// active, otherwise viewport x adds to the column.
func (v *View) SetLocalSelection(x0, y0, x1, y1 int, bg, fg *Color) {
	startRow, startCol := v.localToVisual(x0, y0)
	endRow, endCol := v.localToVisual(x1, y1)

	sr, sc := v.visualToLogical(startRow, startCol)
	er, ec := v.visualToLogical(endRow, endCol)

	start := v.logicalToChar(sr, sc)
	end := v.logicalToChar(er, ec)
	if start > end {
		start, end = end, start
	}
	v.SetSelection(uint32(start), uint32(end), bg, fg)
}

func (v *View) localToVisual(x, y int) (row, col int) {
	vpY, vpX := 0, 0
	if v.viewport != nil {
		vpY = v.viewport.Y
	}
	if v.wrapMode == WrapNone && v.viewport != nil {
		vpX = v.viewport.X
	}
	row = vpY + y
	if v.wrapMode == WrapNone {
		col = vpX + x
	} else {
		col = x
	}
	return row, col
}

// visualToLogical maps a visual (row, col) to logical (source_line, col),
// per spec.md's EditorView.visualToLogicalCursor rule (duplicated here for
// selection mapping, which doesn't go through EditorView).
func (v *View) visualToLogical(row, col int) (logicalLine uint32, logicalCol int) {
	v.ensureFresh()
	if row < 0 {
		row = 0
	}
	if row >= len(v.vlines) {
		row = len(v.vlines) - 1
	}
	if row < 0 {
		return 0, 0
	}
	vl := v.vlines[row]
	c := int(vl.ColOffset) + col
	if c > int(vl.ColOffset)+vl.Graphemes {
		c = int(vl.ColOffset) + vl.Graphemes
	}
	return vl.SourceLine, c
}

// logicalToChar maps logical (row, col) to a global char offset: the sum
// of every prior line's (grapheme count + 1 newline) plus col.
func (v *View) logicalToChar(row uint32, col int) uint64 {
	v.ensureFresh()
	if int(row) >= len(v.lineInfoStarts) {
		if len(v.lineInfoStarts) == 0 {
			return 0
		}
		row = uint32(len(v.lineInfoStarts) - 1)
	}
	start := v.lineInfoStarts[row]
	width := v.lineInfoWidths[row]
	if col > width {
		col = width
	}
	if col < 0 {
		col = 0
	}
	return start + uint64(col)
}

// PackSelectionInfo returns (start<<32)|end, or the sentinel 0xFFFFFFFF_FFFFFFFF
// if there is no active selection.
func (v *View) PackSelectionInfo() uint64 {
	if !v.selActive {
		return selSentinel
	}
	return (uint64(v.selStart) << 32) | uint64(v.selEnd)
}

// GetSelectedTextIntoBuffer returns the text covered by the active
// selection, or "" if none is active.
func (v *View) GetSelectedTextIntoBuffer() string {
	if !v.selActive {
		return ""
	}
	return v.buf.GetSelectedTextIntoBuffer(uint64(v.selStart), uint64(v.selEnd))
}

// SelectionColors returns the active selection's background/foreground,
// which may be nil (use the renderer's default blend).
func (v *View) SelectionColors() (bg, fg *Color) {
	return v.selBG, v.selFG
}
