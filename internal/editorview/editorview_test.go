package editorview

import (
	"testing"

	"github.com/dshills/textrope/internal/editbuffer"
	"github.com/dshills/textrope/internal/grapheme"
	"github.com/dshills/textrope/internal/textbuffer"
	"github.com/dshills/textrope/internal/textview"
)

func newTestEditorView(text string) (*editbuffer.EditBuffer, *EditorView) {
	gsvc := grapheme.New(grapheme.ModeUnicode)
	buf := textbuffer.New(gsvc)
	buf.SetText([]byte(text))
	eb := editbuffer.New(buf, gsvc)
	v := textview.New(buf, gsvc)
	return eb, New(v, eb)
}

func TestScrollPursuitScrollsDownPastMargin(t *testing.T) {
	eb, ev := newTestEditorView("l0\nl1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9")
	ev.View().SetViewport(textview.Viewport{Width: 10, Height: 3})
	ev.SetScrollMargins(0, 0)
	eb.SetCursor(8, 0)
	ev.EnsureCursorVisible()
	vp := ev.View().GetViewport()
	if vp.Y < 6 {
		t.Fatalf("expected viewport to scroll near cursor, got y=%d", vp.Y)
	}
}

func TestLogicalVisualRoundTripNoWrap(t *testing.T) {
	_, ev := newTestEditorView("hello\nworld")
	vc := ev.LogicalToVisualCursor(1, 3)
	if vc.LogicalRow != 1 || vc.LogicalCol != 3 {
		t.Fatalf("round trip = %+v", vc)
	}
	back := ev.VisualToLogicalCursor(vc.VisualRow, vc.VisualCol)
	if back.LogicalRow != 1 || back.LogicalCol != 3 {
		t.Fatalf("visual->logical = %+v", back)
	}
}
