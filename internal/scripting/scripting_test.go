package scripting

import (
	"testing"

	"github.com/dshills/textrope/internal/grapheme"
	"github.com/dshills/textrope/internal/textbuffer"
)

func TestLuaHighlighterFeedsGetLineSpans(t *testing.T) {
	tb := textbuffer.New(grapheme.New(grapheme.ModeUnicode))
	tb.SetText([]byte("TODO fix this"))

	h := NewLuaHighlighter(`
		local s, e = string.find(line_text, "TODO")
		if s then
			add_span(s - 1, e, 9)
		end
	`)
	tb.SetHighlightProvider(h)

	spans := tb.GetLineSpans(0)
	found := false
	for _, sp := range spans {
		if sp.StyleID == 9 && sp.Col == 0 && sp.End == 4 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a [0,4) style-9 span from the Lua script, got %+v", spans)
	}
}

func TestLuaHighlighterBadScriptContributesNothing(t *testing.T) {
	tb := textbuffer.New(grapheme.New(grapheme.ModeUnicode))
	tb.SetText([]byte("hello"))

	h := NewLuaHighlighter("this is not valid lua (")
	tb.SetHighlightProvider(h)

	spans := tb.GetLineSpans(0)
	for _, sp := range spans {
		if sp.StyleID != textbuffer.DefaultStyleID {
			t.Fatalf("expected only default-style spans, got %+v", spans)
		}
	}
}

func TestString(t *testing.T) {
	h := NewLuaHighlighter("add_span(0, 1, 0)")
	if got := h.String(); got == "" {
		t.Fatalf("String() returned empty")
	}
}
