// Package diag produces JSON debug snapshots of rope/view state,
// supplementing the rope package's bracketed toText() format with a
// structured representation queryable by tests and tooling.
package diag

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/textrope/internal/textbuffer"
	"github.com/dshills/textrope/internal/textview"
)

// DumpBuffer renders a TextBuffer's line structure as a JSON document:
// {"line_count": N, "text": "...", "shape": "<bracketed toText()>"}.
func DumpBuffer(tb *textbuffer.TextBuffer) (string, error) {
	var js string
	var err error
	js, err = sjson.Set(js, "line_count", tb.GetLineCount())
	if err != nil {
		return "", err
	}
	js, err = sjson.Set(js, "text", tb.PlainText())
	if err != nil {
		return "", err
	}
	js, err = sjson.Set(js, "shape", tb.ToText())
	if err != nil {
		return "", err
	}
	return js, nil
}

// DumpView renders a TextBufferView's virtual-line table and selection as
// JSON: {"vline_count": N, "vlines": [{"source_line", "col_offset",
// "width", "graphemes"}, ...], "selection_packed": <u64>}.
func DumpView(v *textview.View) (string, error) {
	var js string
	var err error
	vlines := v.GetVirtualLines()
	js, err = sjson.Set(js, "vline_count", len(vlines))
	if err != nil {
		return "", err
	}
	for _, vl := range vlines {
		js, err = sjson.Set(js, "vlines.-1", map[string]any{
			"source_line": vl.SourceLine,
			"col_offset":  vl.ColOffset,
			"width":       vl.Width,
			"graphemes":   vl.Graphemes,
		})
		if err != nil {
			return "", err
		}
	}
	js, err = sjson.Set(js, "selection_packed", v.PackSelectionInfo())
	if err != nil {
		return "", err
	}
	return js, nil
}

// Query extracts a field from a diag-produced JSON document via a gjson
// path expression (e.g. "vlines.0.width").
func Query(json, path string) gjson.Result {
	return gjson.Get(json, path)
}
