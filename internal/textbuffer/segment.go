// Package textbuffer layers a line/chunk segmentation over internal/rope,
// maintaining byte/column/grapheme invariants across edits.
package textbuffer

import (
	"fmt"

	"github.com/dshills/textrope/internal/rope"
)

type segKind uint8

const (
	segSentinel segKind = iota
	segLineStart
	segTextChunk
	segHardBreak
)

// Segment is the Rope leaf type backing a TextBuffer: a LineStart or
// HardBreak marker (width 0, weight accounted below), or a TextChunk
// carrying literal bytes plus its precomputed display width and grapheme
// count.
type Segment struct {
	kind      segKind
	text      string
	width     int
	graphemes int
}

func lineStartSeg() Segment { return Segment{kind: segLineStart} }
func hardBreakSeg() Segment { return Segment{kind: segHardBreak} }
func textChunkSeg(text string, width, graphemes int) Segment {
	return Segment{kind: segTextChunk, text: text, width: width, graphemes: graphemes}
}

// segMetrics is the Rope M for TextBuffer: Count is the usual non-empty
// leaf count, bytes is the weight projection used for all byte-offset
// addressed operations (insertBytes/deleteRange locate chunks by summed
// byte length; a HardBreak contributes 1 for its own '\n' byte).
type segMetrics struct {
	n     uint64
	bytes uint64
}

func (m segMetrics) Add(o segMetrics) segMetrics {
	return segMetrics{n: m.n + o.n, bytes: m.bytes + o.bytes}
}
func (m segMetrics) Count() uint64  { return m.n }
func (m segMetrics) Weight() uint64 { return m.bytes }

func (s Segment) Metrics() segMetrics {
	switch s.kind {
	case segSentinel:
		return segMetrics{}
	case segTextChunk:
		return segMetrics{n: 1, bytes: uint64(len(s.text))}
	case segHardBreak:
		return segMetrics{n: 1, bytes: 1}
	default: // LineStart
		return segMetrics{n: 1, bytes: 0}
	}
}

func (s Segment) IsEmpty() bool   { return s.kind == segSentinel }
func (s Segment) Empty() Segment  { return Segment{kind: segSentinel} }

// MarkerTag implements rope.MarkerItem: LineStart and HardBreak are the
// buffer's two marker variants (spec.md §3, "TextBuffer segment").
func (s Segment) MarkerTag() (rope.Tag, bool) {
	switch s.kind {
	case segLineStart:
		return tagLineStart, true
	case segHardBreak:
		return tagHardBreak, true
	default:
		return "", false
	}
}

const (
	tagLineStart rope.Tag = "line-start"
	tagHardBreak rope.Tag = "hard-break"
)

// DebugTag implements the rope package's optional debug-tagger interface
// for ToText().
func (s Segment) DebugTag() string {
	switch s.kind {
	case segSentinel:
		return "_"
	case segLineStart:
		return "line"
	case segHardBreak:
		return "brk"
	default:
		return fmt.Sprintf("txt(w%d,g%d)", s.width, s.graphemes)
	}
}

// graphemeWeight is the char-offset contribution of this segment, treating
// HardBreak as one char (the newline) per spec.md's line-offset
// projection; used by lineOffsets, not by the rope's own byte weight.
func (s Segment) graphemeWeight() uint64 {
	switch s.kind {
	case segTextChunk:
		return uint64(s.graphemes)
	case segHardBreak:
		return 1
	default:
		return 0
	}
}
