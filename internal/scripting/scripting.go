// Package scripting provides an optional Lua-driven highlight provider:
// a pluggable textbuffer.HighlightProvider that runs a small Lua snippet
// over a line's text and collects the spans it reports.
package scripting

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textrope/internal/textbuffer"
)

// LuaHighlighter implements textbuffer.HighlightProvider by running a Lua
// script once per Highlights() call. The script sees a global `line_text`
// string and calls `add_span(start, end, style)` for each span it wants
// painted; the collected spans are returned sorted by ColStart (stable, so
// spans with equal starts keep script order).
//
// This is a call-out hook, not a bundled parser: Non-goals still exclude
// real syntax highlighting logic, which the script author supplies.
type LuaHighlighter struct {
	source string
}

// NewLuaHighlighter stores source; each Highlights call compiles and runs
// it in a fresh Lua state (gopher-lua states are cheap and not safe to
// share across goroutines).
func NewLuaHighlighter(source string) *LuaHighlighter {
	return &LuaHighlighter{source: source}
}

// Highlights implements textbuffer.HighlightProvider.
func (h *LuaHighlighter) Highlights(line uint32, text string) []textbuffer.Highlight {
	L := lua.NewState()
	defer L.Close()

	var spans []textbuffer.Highlight
	L.SetGlobal("line_text", lua.LString(text))
	L.SetGlobal("line_number", lua.LNumber(line))
	L.SetGlobal("add_span", L.NewFunction(func(L *lua.LState) int {
		start := L.CheckInt(1)
		end := L.CheckInt(2)
		style := L.CheckInt(3)
		if start < end {
			spans = append(spans, textbuffer.Highlight{
				ColStart: uint32(start),
				ColEnd:   uint32(end),
				StyleID:  style,
				Priority: 0,
			})
		}
		return 0
	}))

	if err := L.DoString(h.source); err != nil {
		// A misbehaving script contributes no highlights rather than
		// aborting the caller's render path.
		return nil
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].ColStart < spans[j].ColStart })
	return spans
}

// String implements fmt.Stringer for debug logging.
func (h *LuaHighlighter) String() string {
	return fmt.Sprintf("LuaHighlighter(%d bytes)", len(h.source))
}
