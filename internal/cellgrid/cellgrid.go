// Package cellgrid implements the terminal rendering sink contract: a 2D
// cell grid that a view's virtual lines, style spans, and selection get
// drawn into.
package cellgrid

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/textrope/internal/grapheme"
	"github.com/dshills/textrope/internal/textbuffer"
	"github.com/dshills/textrope/internal/textview"
)

// stringToCluster returns a cluster's base rune (its byte range's first
// rune); any combining marks after it are not carried into the cell.
func stringToCluster(text string, start, end int) rune {
	for _, r := range text[start:end] {
		return r
	}
	return 0
}

// Color is a 24-bit terminal color.
type Color struct{ R, G, B uint8 }

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Attr is a bitmask of text attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrItalic
	AttrUnderline
	AttrReverse
)

// Style is a cell's paint: foreground, background, and attribute bits.
type Style struct {
	FG, BG Color
	Attrs  Attr
}

// Cell is one terminal cell: a rune plus its style and wide-rune
// continuation flag.
type Cell struct {
	Rune         rune
	Width        int
	Continuation bool
	Style        Style
}

// Grid is the rendering sink contract of spec.md §6.
type Grid interface {
	Get(x, y int) Cell
	Set(x, y int, c Cell)
	Width() int
	Height() int
}

// BlendSelection mixes a cell's background toward selBG in CIE-Lab space
// (go-colorful's perceptually even blend) rather than flatly overwriting
// it, so a selection drawn over an already-styled cell still shows some of
// the underlying color.
func BlendSelection(base, selBG Color, amount float64) Color {
	return fromColorful(base.colorful().BlendLab(selBG.colorful(), amount))
}

// StyleResolver maps a textbuffer style_id (plus the default style) to a
// concrete cellgrid.Style. Callers own their style_id -> Style mapping;
// cellgrid only knows how to paint cells, not what a style_id means.
type StyleResolver func(styleID int) Style

// DrawTextBuffer iterates view's visible vlines, lays out graphemes into
// grid cells starting at (x0, y0), applies resolved style spans as
// foreground/background, and blends the view's selection background
// within [selection.start, selection.end). 2-cell graphemes occupy two
// adjacent cells; the right cell is marked as a continuation.
func DrawTextBuffer(grid Grid, view *textview.View, x0, y0 int, resolve StyleResolver) {
	vp := view.GetViewport()
	startV, height, width := 0, grid.Height()-y0, grid.Width()-x0
	if vp != nil {
		startV, height, width = vp.Y, vp.Height, vp.Width
	}

	vlines := view.GetVirtualLines()
	selStart, selEnd, hasSel := selectionRange(view)
	selBGView, _ := view.SelectionColors()
	var selBG Color
	if selBGView != nil {
		selBG = Color{R: selBGView.R, G: selBGView.G, B: selBGView.B}
	}
	gsvc := view.Grapheme()
	lineStarts, _ := view.GetCachedLineInfo()

	for row := 0; row < height; row++ {
		vi := startV + row
		if vi < 0 || vi >= len(vlines) {
			continue
		}
		srcLine, colOffset, spans := view.GetVirtualLineSpans(vi)
		var lineStart uint64
		if int(srcLine) < len(lineStarts) {
			lineStart = lineStarts[srcLine]
		}
		text := view.VlineText(vi)
		drawRow(grid, x0, y0+row, width, text, gsvc, lineStart, colOffset, spans, resolve, selStart, selEnd, hasSel, selBG)
	}
}

func selectionRange(view *textview.View) (start, end uint64, ok bool) {
	packed := view.PackSelectionInfo()
	if packed == ^uint64(0) {
		return 0, 0, false
	}
	return packed >> 32, packed & 0xFFFFFFFF, true
}

func styleAt(spans []textbuffer.StyleSpan, col uint32) int {
	for _, sp := range spans {
		if col >= sp.Col && col < sp.End {
			return sp.StyleID
		}
	}
	return textbuffer.DefaultStyleID
}

// drawRow lays out text's grapheme clusters (not runes) into grid cells
// starting at (x0, y): a 2-cell-wide cluster occupies two adjacent cells,
// the second marked Continuation; a 0-cell-wide cluster (e.g. a standalone
// combining mark the segmenter didn't fold into its base) consumes no
// column at all. logicalCol advances one per cluster, matching the
// grapheme-column addressing the rest of the engine uses; style spans are
// looked up by it directly, and selection membership by lineStart (the
// source line's global char offset) plus it.
func drawRow(grid Grid, x0, y int, width int, text string, gsvc *grapheme.Service, lineStart uint64, colOffset uint32, spans []textbuffer.StyleSpan, resolve StyleResolver, selStart, selEnd uint64, hasSel bool, selBG Color) {
	cellCol := 0
	for clusterIdx, cl := range gsvc.Boundaries(text) {
		if cellCol >= width {
			break
		}
		if cl.Width <= 0 {
			continue
		}

		logicalCol := colOffset + uint32(clusterIdx)
		styleID := styleAt(spans, logicalCol)
		style := Style{}
		if resolve != nil {
			style = resolve(styleID)
		}
		charIdx := lineStart + uint64(logicalCol)
		if hasSel && charIdx >= selStart && charIdx < selEnd {
			style.BG = BlendSelection(style.BG, selBG, 0.6)
		}

		r := stringToCluster(text, cl.Start, cl.End)
		if cl.Width >= 2 {
			grid.Set(x0+cellCol, y, Cell{Rune: r, Width: 2, Style: style})
			cellCol++
			if cellCol < width {
				grid.Set(x0+cellCol, y, Cell{Width: 1, Continuation: true, Style: style})
				cellCol++
			}
			continue
		}
		grid.Set(x0+cellCol, y, Cell{Rune: r, Width: 1, Style: style})
		cellCol++
	}
}
