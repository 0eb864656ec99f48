// Package textview produces wrapped virtual lines, viewport projection,
// and selection/highlight mapping over a textbuffer.TextBuffer.
package textview

import (
	"github.com/dshills/textrope/internal/grapheme"
	"github.com/dshills/textrope/internal/textbuffer"
)

// WrapMode selects how logical lines are broken into virtual lines.
type WrapMode int

const (
	WrapNone WrapMode = iota
	WrapChar
	WrapWord
)

// VLine is one visual row of a wrapped view.
type VLine struct {
	SourceLine uint32
	ColOffset  uint32
	Width      int
	Graphemes  int
}

// Viewport is the visible window into the view's virtual lines.
type Viewport struct {
	X, Y, Width, Height int
}

// selSentinel packs to 0xFFFFFFFF_FFFFFFFF, the "no selection" marker.
const selSentinel = ^uint64(0)

// View is a TextBufferView: wrapping, viewport projection, and selection
// state layered over a single TextBuffer. Not internally locked —
// single-threaded cooperative use per the buffer's concurrency model.
type View struct {
	buf  *textbuffer.TextBuffer
	gsvc *grapheme.Service

	wrapMode  WrapMode
	wrapWidth int
	viewport  *Viewport

	selActive    bool
	selStart     uint32
	selEnd       uint32
	selBG, selFG *Color

	vlines         []VLine
	lineInfoStarts []uint64
	lineInfoWidths []int

	viewEpoch uint64
	builtBuf  uint64
	builtView uint64
	built     bool
}

// Color is a terminal RGB color; shared shape with cellgrid.Color so
// callers can convert trivially without an import cycle (textview is
// lower in the dependency graph than cellgrid, which renders views).
type Color struct{ R, G, B uint8 }

// New creates a view over buf.
func New(buf *textbuffer.TextBuffer, gsvc *grapheme.Service) *View {
	return &View{buf: buf, gsvc: gsvc, wrapMode: WrapNone}
}

// SetWrapMode sets the wrap mode, bumping the view's own epoch.
func (v *View) SetWrapMode(m WrapMode) {
	v.wrapMode = m
	v.viewEpoch++
}

// SetWrapWidth sets the wrap width (ignored in WrapNone mode).
func (v *View) SetWrapWidth(w int) {
	v.wrapWidth = w
	v.viewEpoch++
}

// SetViewport installs vp. The view never clamps it; that's the editor
// layer's job.
func (v *View) SetViewport(vp Viewport) {
	v.viewport = &vp
	v.viewEpoch++
}

// GetViewport returns the current viewport, or nil if none was set.
func (v *View) GetViewport() *Viewport {
	return v.viewport
}

// Grapheme returns the view's grapheme measurement service, so rendering
// collaborators (cellgrid) can segment VlineText's output into clusters
// without constructing their own service.
func (v *View) Grapheme() *grapheme.Service {
	return v.gsvc
}

// ensureFresh rebuilds the virtual-line and line-info caches if the
// buffer's dirty_epoch has advanced, this view's own config epoch has, or
// no build has happened yet (a freshly constructed view over an
// unmutated, dirty_epoch==0 buffer must still produce its initial vline
// table).
func (v *View) ensureFresh() {
	be := v.buf.DirtyEpoch()
	if v.built && be == v.builtBuf && v.viewEpoch == v.builtView {
		return
	}
	v.rebuild()
	v.builtBuf = be
	v.builtView = v.viewEpoch
	v.built = true
}

func (v *View) rebuild() {
	lineCount := v.buf.GetLineCount()
	v.vlines = v.vlines[:0]
	starts := make([]uint64, 0, lineCount)
	widths := make([]int, 0, lineCount)

	var charOffset uint64
	for line := uint32(0); line < lineCount; line++ {
		text := v.lineText(line)
		width := v.gsvc.Width(text)
		starts = append(starts, charOffset)
		widths = append(widths, width)
		charOffset += uint64(v.gsvc.Count(text)) + 1 // +1 for the newline this line contributes

		switch v.wrapMode {
		case WrapNone:
			v.vlines = append(v.vlines, VLine{SourceLine: line, ColOffset: 0, Width: width, Graphemes: v.gsvc.Count(text)})
		case WrapChar:
			v.vlines = append(v.vlines, wrapChar(line, text, v.gsvc, v.wrapWidth)...)
		case WrapWord:
			v.vlines = append(v.vlines, wrapWord(line, text, v.gsvc, v.wrapWidth)...)
		}
	}
	v.lineInfoStarts = starts
	v.lineInfoWidths = widths
}

// lineText reconstructs a logical line's text for wrapping purposes. The
// textbuffer package doesn't expose this directly, so we derive it from
// GetLineStart's char offsets plus a GetSelectedTextIntoBuffer char-range
// extraction, which is simpler than threading a new textbuffer export
// through for this effort.
func (v *View) lineText(line uint32) string {
	start := v.buf.GetLineStart(line)
	var end uint64
	if line+1 < v.buf.GetLineCount() {
		end = v.buf.GetLineStart(line + 1)
		if end > 0 {
			end--
		}
	} else {
		end = start + uint64(v.remainingLineChars(line))
	}
	return v.buf.GetSelectedTextIntoBuffer(start, end)
}

// remainingLineChars measures the last line by counting the whole buffer's
// grapheme length past its start (there is no following LineStart to
// subtract from).
func (v *View) remainingLineChars(line uint32) int {
	full := v.buf.PlainText()
	return v.gsvc.Count(full) - int(v.buf.GetLineStart(line))
}

// GetVirtualLineCount returns the number of virtual lines, rebuilding
// caches first if stale.
func (v *View) GetVirtualLineCount() int {
	v.ensureFresh()
	return len(v.vlines)
}

// GetVirtualLines returns the virtual-line table, rebuilding first if
// stale.
func (v *View) GetVirtualLines() []VLine {
	v.ensureFresh()
	return v.vlines
}

// GetCachedLineInfo returns parallel starts/widths arrays, one entry per
// logical line.
func (v *View) GetCachedLineInfo() (starts []uint64, widths []int) {
	v.ensureFresh()
	return v.lineInfoStarts, v.lineInfoWidths
}

// GetVirtualLineSpans returns the source line's cached style spans
// wholesale along with the vline's col_offset, for the renderer to clip.
func (v *View) GetVirtualLineSpans(vlineIndex int) (sourceLine uint32, colOffset uint32, spans []textbuffer.StyleSpan) {
	v.ensureFresh()
	if vlineIndex < 0 || vlineIndex >= len(v.vlines) {
		return 0, 0, nil
	}
	vl := v.vlines[vlineIndex]
	return vl.SourceLine, vl.ColOffset, v.buf.GetLineSpans(vl.SourceLine)
}

// VlineText returns the rendered text a vline covers: its source line's
// graphemes [col_offset, col_offset+graphemes), clipped to that span.
// Rendering collaborators (cellgrid) use this to lay out cells without
// re-deriving grapheme boundaries themselves.
func (v *View) VlineText(vlineIndex int) string {
	v.ensureFresh()
	if vlineIndex < 0 || vlineIndex >= len(v.vlines) {
		return ""
	}
	vl := v.vlines[vlineIndex]
	full := v.lineText(vl.SourceLine)
	clusters := v.gsvc.Boundaries(full)
	lo := int(vl.ColOffset)
	hi := lo + vl.Graphemes
	if lo < 0 {
		lo = 0
	}
	if hi > len(clusters) {
		hi = len(clusters)
	}
	if lo >= hi {
		return ""
	}
	return full[clusters[lo].Start:clusters[hi-1].End]
}
