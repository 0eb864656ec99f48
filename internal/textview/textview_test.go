package textview

import (
	"testing"

	"github.com/dshills/textrope/internal/grapheme"
	"github.com/dshills/textrope/internal/textbuffer"
)

func newTestView(text string) (*textbuffer.TextBuffer, *View) {
	gsvc := grapheme.New(grapheme.ModeUnicode)
	buf := textbuffer.New(gsvc)
	buf.SetText([]byte(text))
	return buf, New(buf, gsvc)
}

func TestCharWrapScenario1(t *testing.T) {
	_, v := newTestView("ABCDEFGHIJKLMNOPQRST")
	v.SetWrapMode(WrapChar)
	v.SetWrapWidth(10)
	if n := v.GetVirtualLineCount(); n != 2 {
		t.Fatalf("vline count = %d", n)
	}
	vlines := v.GetVirtualLines()
	if vlines[0].Width != 10 || vlines[1].Width != 10 {
		t.Fatalf("widths = %d,%d", vlines[0].Width, vlines[1].Width)
	}
}

func TestNoWrapSingleVlinePerLogicalLine(t *testing.T) {
	_, v := newTestView("line one\nline two")
	if n := v.GetVirtualLineCount(); n != 2 {
		t.Fatalf("vline count = %d", n)
	}
}

func TestPackSelectionSentinel(t *testing.T) {
	_, v := newTestView("hello")
	if got := v.PackSelectionInfo(); got != selSentinel {
		t.Fatalf("expected sentinel, got %x", got)
	}
	v.SetSelection(1, 3, nil, nil)
	if got := v.PackSelectionInfo(); got != (uint64(1)<<32)|3 {
		t.Fatalf("packed = %x", got)
	}
	if got := v.GetSelectedTextIntoBuffer(); got != "el" {
		t.Fatalf("selected text = %q", got)
	}
}

func TestLineInfoMonotone(t *testing.T) {
	_, v := newTestView("aa\nbb\ncc")
	starts, _ := v.GetCachedLineInfo()
	for i := 1; i < len(starts); i++ {
		if starts[i] < starts[i-1] {
			t.Fatalf("starts not monotone: %v", starts)
		}
	}
}
