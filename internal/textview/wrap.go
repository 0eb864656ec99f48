package textview

import (
	"unicode"

	"github.com/dshills/textrope/internal/grapheme"
)

// wrapChar implements spec.md §4.4's char wrap algorithm: walk graphemes
// left to right, accumulating width; when the next grapheme would push
// width over wrapWidth, finalize the current vline and start the next. A
// single grapheme wider than wrapWidth occupies its own vline.
func wrapChar(line uint32, text string, gsvc *grapheme.Service, wrapWidth int) []VLine {
	clusters := gsvc.Boundaries(text)
	if len(clusters) == 0 {
		return []VLine{{SourceLine: line, ColOffset: 0, Width: 0, Graphemes: 0}}
	}
	if wrapWidth <= 0 {
		return []VLine{{SourceLine: line, ColOffset: 0, Width: gsvc.Width(text), Graphemes: len(clusters)}}
	}

	var out []VLine
	colOffset, width, count := 0, 0, 0
	flush := func() {
		out = append(out, VLine{SourceLine: line, ColOffset: uint32(colOffset), Width: width, Graphemes: count})
		colOffset += count
		width, count = 0, 0
	}
	for _, c := range clusters {
		if width+c.Width > wrapWidth && count > 0 {
			flush()
		}
		width += c.Width
		count++
	}
	flush()
	return out
}

// isWordBreakRune reports whether r belongs to spec.md's word-break class:
// whitespace and common punctuation.
func isWordBreakRune(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '-', '/', '\\', '(', ')', '[', ']', '{', '}', '<', '>', '.', ',', ';', ':', '!', '?', '"', '\'':
		return true
	}
	return false
}

// wrapWord implements spec.md §4.4's word wrap algorithm: greedily fill
// each vline up to the last break opportunity before overflow, falling
// back to a char-mode break for runs with no opportunity.
func wrapWord(line uint32, text string, gsvc *grapheme.Service, wrapWidth int) []VLine {
	clusters := gsvc.Boundaries(text)
	if len(clusters) == 0 {
		return []VLine{{SourceLine: line, ColOffset: 0, Width: 0, Graphemes: 0}}
	}
	if wrapWidth <= 0 {
		return []VLine{{SourceLine: line, ColOffset: 0, Width: gsvc.Width(text), Graphemes: len(clusters)}}
	}

	var out []VLine
	colOffset := 0
	i := 0
	for i < len(clusters) {
		width, count := 0, 0
		lastBreak := -1 // index (relative to i) of the last break opportunity seen
		j := i
		for j < len(clusters) {
			c := clusters[j]
			if width+c.Width > wrapWidth {
				break
			}
			width += c.Width
			count++
			r := firstRune(text, c)
			if isWordBreakRune(r) {
				lastBreak = count
			}
			j++
		}
		if count == 0 {
			// A single grapheme wider than wrapWidth: char-mode fallback of one.
			c := clusters[j]
			out = append(out, VLine{SourceLine: line, ColOffset: uint32(colOffset), Width: c.Width, Graphemes: 1})
			colOffset++
			i = j + 1
			continue
		}
		if j < len(clusters) && lastBreak > 0 && lastBreak < count {
			// Rewind to the last break opportunity so the overflowing word
			// moves to the next vline.
			width, count = 0, 0
			for k := 0; k < lastBreak; k++ {
				width += clusters[i+k].Width
			}
			count = lastBreak
		}
		out = append(out, VLine{SourceLine: line, ColOffset: uint32(colOffset), Width: width, Graphemes: count})
		colOffset += count
		i += count
	}
	return out
}

func firstRune(text string, c grapheme.Cluster) rune {
	for _, r := range text[c.Start:c.End] {
		return r
	}
	return 0
}
