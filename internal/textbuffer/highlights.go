package textbuffer

import (
	"sort"

	"github.com/google/uuid"
)

// DefaultStyleID is the style painted into columns no highlight covers.
const DefaultStyleID = 0

// NewHighlightRef mints a ref_id for AddHighlight/AddHighlightByCharRange
// callers that don't want to manage their own ref namespace.
func NewHighlightRef() string {
	return uuid.NewString()
}

// Highlight is one entry in a logical line's highlight list (spec.md §4.3).
type Highlight struct {
	ColStart, ColEnd uint32
	StyleID          int
	Priority         int
	RefID            string
}

// StyleSpan is one entry of getLineSpans' non-overlapping output.
type StyleSpan struct {
	Col, End uint32
	StyleID  int
}

// HighlightProvider lets a caller supply computed highlights (e.g. the
// scripting package's Lua-driven highlighter) that getLineSpans folds in
// alongside manually added highlights.
type HighlightProvider interface {
	Highlights(line uint32, text string) []Highlight
}

// SetHighlightProvider installs (or clears, with nil) the optional
// highlight provider consulted by getLineSpans.
func (tb *TextBuffer) SetHighlightProvider(p HighlightProvider) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.provider = p
	tb.spansCache = map[uint32][]StyleSpan{}
}

// AddHighlight inserts a highlight range for a single logical line.
func (tb *TextBuffer) AddHighlight(line uint32, colStart, colEnd uint32, styleID, priority int, refID string) {
	if colStart >= colEnd {
		return
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	h := Highlight{ColStart: colStart, ColEnd: colEnd, StyleID: styleID, Priority: priority, RefID: refID}
	tb.highlights[line] = append(tb.highlights[line], h)
	if refID != "" {
		lines := tb.refIndex[refID]
		if lines == nil {
			lines = map[uint32]struct{}{}
			tb.refIndex[refID] = lines
		}
		lines[line] = struct{}{}
	}
	delete(tb.spansCache, line)
}

// AddHighlightByCharRange decomposes a global grapheme-offset range across
// lines and adds a per-line Highlight for each, clamped at line ends.
func (tb *TextBuffer) AddHighlightByCharRange(start, end uint64, styleID, priority int, refID string) {
	if start >= end {
		return
	}
	lineCount := tb.GetLineCount()
	for line := uint32(0); line < lineCount; line++ {
		lineStart := tb.GetLineStart(line)
		tb.mu.RLock()
		lineLen := tb.lineGraphemeCount(line)
		tb.mu.RUnlock()
		lineEnd := lineStart + uint64(lineLen)
		segStart := max64(start, lineStart)
		segEnd := min64(end, lineEnd)
		if segStart >= segEnd {
			continue
		}
		tb.AddHighlight(line, uint32(segStart-lineStart), uint32(segEnd-lineStart), styleID, priority, refID)
	}
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// RemoveHighlightsByRef removes every highlight carrying refID, across all
// lines, via the ref index.
func (tb *TextBuffer) RemoveHighlightsByRef(refID string) {
	if refID == "" {
		return
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	lines := tb.refIndex[refID]
	for line := range lines {
		kept := tb.highlights[line][:0]
		for _, h := range tb.highlights[line] {
			if h.RefID != refID {
				kept = append(kept, h)
			}
		}
		tb.highlights[line] = kept
		delete(tb.spansCache, line)
	}
	delete(tb.refIndex, refID)
}

// ClearLineHighlights removes every highlight on a single line.
func (tb *TextBuffer) ClearLineHighlights(line uint32) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	delete(tb.highlights, line)
	delete(tb.spansCache, line)
}

// ClearAllHighlights drops every highlight on every line.
func (tb *TextBuffer) ClearAllHighlights() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.highlights = map[uint32][]Highlight{}
	tb.refIndex = map[string]map[uint32]struct{}{}
	tb.spansCache = map[uint32][]StyleSpan{}
}

// GetLineHighlights returns the stored highlight list for line (empty for
// an absent line).
func (tb *TextBuffer) GetLineHighlights(line uint32) []Highlight {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return append([]Highlight(nil), tb.highlights[line]...)
}

// GetLineSpans returns an ordered, non-overlapping cover of [0, width) for
// line — width in grapheme columns, the unit AddHighlight/
// AddHighlightByCharRange address (spec.md §4.3; display-column mapping
// for wide/zero-width graphemes is the renderer's job, not this sweep's) —
// sweeping stored highlights (priority ascending, then start ascending)
// plus anything the optional HighlightProvider contributes, and coalescing
// adjacent equal-style runs. The result is cached until the line's
// highlights or the buffer itself changes.
func (tb *TextBuffer) GetLineSpans(line uint32) []StyleSpan {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if cached, ok := tb.spansCache[line]; ok {
		return cached
	}
	width := tb.lineGraphemeCount(line)
	painted := make([]int, width)
	for i := range painted {
		painted[i] = DefaultStyleID
	}

	all := append([]Highlight(nil), tb.highlights[line]...)
	if tb.provider != nil {
		text := tb.lineTextLocked(line)
		all = append(all, tb.provider.Highlights(line, text)...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Priority != all[j].Priority {
			return all[i].Priority < all[j].Priority
		}
		return all[i].ColStart < all[j].ColStart
	})
	for _, h := range all {
		lo := int(h.ColStart)
		hi := int(h.ColEnd)
		if hi > width {
			hi = width
		}
		for c := lo; c < hi; c++ {
			if c >= 0 && c < width {
				painted[c] = h.StyleID
			}
		}
	}

	spans := make([]StyleSpan, 0, 4)
	for c := 0; c < width; {
		start := c
		style := painted[c]
		for c < width && painted[c] == style {
			c++
		}
		spans = append(spans, StyleSpan{Col: uint32(start), End: uint32(c), StyleID: style})
	}
	if width == 0 {
		spans = []StyleSpan{}
	}
	tb.spansCache[line] = spans
	return spans
}
