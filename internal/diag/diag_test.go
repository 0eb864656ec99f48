package diag

import (
	"testing"

	"github.com/dshills/textrope/internal/grapheme"
	"github.com/dshills/textrope/internal/textbuffer"
	"github.com/dshills/textrope/internal/textview"
)

func TestDumpBufferRoundTrip(t *testing.T) {
	tb := textbuffer.New(grapheme.New(grapheme.ModeUnicode))
	tb.SetText([]byte("alpha\nbeta\ngamma"))

	js, err := DumpBuffer(tb)
	if err != nil {
		t.Fatalf("DumpBuffer: %v", err)
	}
	if got := Query(js, "line_count").Int(); got != 3 {
		t.Fatalf("line_count = %d, want 3", got)
	}
	if got := Query(js, "text").String(); got != "alpha\nbeta\ngamma" {
		t.Fatalf("text = %q", got)
	}
	if got := Query(js, "shape").String(); got == "" {
		t.Fatalf("shape was empty")
	}
}

func TestDumpViewRoundTrip(t *testing.T) {
	tb := textbuffer.New(grapheme.New(grapheme.ModeUnicode))
	tb.SetText([]byte("a line of text"))
	v := textview.New(tb, grapheme.New(grapheme.ModeUnicode))
	v.SetWrapMode(textview.WrapChar)
	v.SetWrapWidth(5)

	js, err := DumpView(v)
	if err != nil {
		t.Fatalf("DumpView: %v", err)
	}
	wantCount := v.GetVirtualLineCount()
	if got := Query(js, "vline_count").Int(); got != int64(wantCount) {
		t.Fatalf("vline_count = %d, want %d", got, wantCount)
	}
	if got := Query(js, "vlines.0.width").Int(); got <= 0 {
		t.Fatalf("vlines.0.width = %d, want > 0", got)
	}
	if got := Query(js, "selection_packed").Uint(); got != ^uint64(0) {
		t.Fatalf("selection_packed = %d, want sentinel", got)
	}
}
