package textbuffer

import (
	"testing"

	"github.com/dshills/textrope/internal/grapheme"
)

func newTestBuffer() *TextBuffer {
	return New(grapheme.New(grapheme.ModeUnicode))
}

func TestSetTextRoundTrip(t *testing.T) {
	tb := newTestBuffer()
	tb.SetText([]byte("Line 1\nLine 2\nLine 3"))
	if got := tb.PlainText(); got != "Line 1\nLine 2\nLine 3" {
		t.Fatalf("got %q", got)
	}
	if n := tb.GetLineCount(); n != 3 {
		t.Fatalf("line count = %d", n)
	}
}

func TestSetTextTrailingNewline(t *testing.T) {
	tb := newTestBuffer()
	tb.SetText([]byte("a\n"))
	if n := tb.GetLineCount(); n != 2 {
		t.Fatalf("line count = %d, want 2", n)
	}
}

func TestSetTextEmpty(t *testing.T) {
	tb := newTestBuffer()
	tb.SetText(nil)
	if n := tb.GetLineCount(); n != 1 {
		t.Fatalf("line count = %d, want 1", n)
	}
}

func TestGetSelectedTextScenario3(t *testing.T) {
	tb := newTestBuffer()
	tb.SetText([]byte("Line 1\nLine 2\nLine 3"))
	got := tb.GetSelectedTextIntoBuffer(0, 9)
	if got != "Line 1\nLi" {
		t.Fatalf("got %q", got)
	}
}

func TestInsertBytesSplitsLine(t *testing.T) {
	tb := newTestBuffer()
	tb.SetText([]byte("hello world"))
	tb.InsertBytes(5, []byte(",\nnew line"))
	if got := tb.PlainText(); got != "hello,\nnew line world" {
		t.Fatalf("got %q", got)
	}
	if n := tb.GetLineCount(); n != 2 {
		t.Fatalf("line count = %d", n)
	}
}

func TestDeleteRangeAcrossLines(t *testing.T) {
	tb := newTestBuffer()
	tb.SetText([]byte("abc\ndef\nghi"))
	tb.DeleteRange(2, 6) // removes "c\nde"
	if got := tb.PlainText(); got != "abf\nghi" {
		t.Fatalf("got %q", got)
	}
}

func TestHighlightsAndSpans(t *testing.T) {
	tb := newTestBuffer()
	tb.SetText([]byte("ABCDEFGHIJKLMNOPQRST"))
	tb.AddHighlight(0, 5, 15, 1, 1, "")
	spans := tb.GetLineSpans(0)
	var total uint32
	for _, sp := range spans {
		total += sp.End - sp.Col
	}
	if total != 20 {
		t.Fatalf("spans don't cover the full line: %d", total)
	}
	foundHighlight := false
	for _, sp := range spans {
		if sp.StyleID == 1 && sp.Col == 5 && sp.End == 15 {
			foundHighlight = true
		}
	}
	if !foundHighlight {
		t.Fatalf("expected a [5,15) style-1 span, got %+v", spans)
	}
}

func TestRemoveHighlightsByRef(t *testing.T) {
	tb := newTestBuffer()
	tb.SetText([]byte("hello"))
	tb.AddHighlight(0, 0, 3, 2, 1, "ref-a")
	tb.RemoveHighlightsByRef("ref-a")
	if got := tb.GetLineHighlights(0); len(got) != 0 {
		t.Fatalf("expected highlights cleared, got %+v", got)
	}
}
