package editbuffer

import (
	"testing"

	"github.com/dshills/textrope/internal/grapheme"
	"github.com/dshills/textrope/internal/textbuffer"
)

func newTestEditBuffer(text string) *EditBuffer {
	gsvc := grapheme.New(grapheme.ModeUnicode)
	buf := textbuffer.New(gsvc)
	buf.SetText([]byte(text))
	return New(buf, gsvc)
}

func TestInsertTextAdvancesCursor(t *testing.T) {
	eb := newTestEditBuffer("hello")
	eb.SetCursor(0, 5)
	eb.InsertText(" world")
	if got := eb.Buffer().PlainText(); got != "hello world" {
		t.Fatalf("got %q", got)
	}
	if c := eb.Primary(); c.Row != 0 || c.Col != 11 {
		t.Fatalf("cursor = %+v", c)
	}
}

func TestInsertTextWithNewline(t *testing.T) {
	eb := newTestEditBuffer("ab")
	eb.SetCursor(0, 1)
	eb.InsertText("\nX")
	if got := eb.Buffer().PlainText(); got != "a\nXb" {
		t.Fatalf("got %q", got)
	}
	if c := eb.Primary(); c.Row != 1 || c.Col != 1 {
		t.Fatalf("cursor = %+v", c)
	}
}

func TestBackspaceJoinsLines(t *testing.T) {
	eb := newTestEditBuffer("ab\ncd")
	eb.SetCursor(1, 0)
	eb.Backspace()
	if got := eb.Buffer().PlainText(); got != "abcd" {
		t.Fatalf("got %q", got)
	}
	if c := eb.Primary(); c.Row != 0 || c.Col != 2 {
		t.Fatalf("cursor = %+v", c)
	}
}

func TestUndoRedoViaEditBuffer(t *testing.T) {
	eb := newTestEditBuffer("abc")
	eb.SetCursor(0, 3)
	eb.InsertText("d")
	if got := eb.Buffer().PlainText(); got != "abcd" {
		t.Fatalf("got %q", got)
	}
	if _, err := eb.Buffer().Undo("redo-point"); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := eb.Buffer().PlainText(); got != "abc" {
		t.Fatalf("after undo: %q", got)
	}
}

func TestInsertTextShiftsLaterSameLineCursor(t *testing.T) {
	eb := newTestEditBuffer("ab|cd")
	eb.cursors = []Cursor{
		{Row: 0, Col: 5, DesiredCol: -1}, // after "cd", at the end
		{Row: 0, Col: 2, DesiredCol: -1}, // right after "ab", before '|'
	}
	eb.InsertText("XX")
	if got := eb.Buffer().PlainText(); got != "abXX|cdXX" {
		t.Fatalf("got %q", got)
	}
	// cursor 0 (originally col 5, after the insertion point) must have
	// shifted right by the first insert's length.
	if c := eb.cursors[0]; c.Row != 0 || c.Col != 9 {
		t.Fatalf("trailing cursor = %+v, want (0,9)", c)
	}
	if c := eb.cursors[1]; c.Row != 0 || c.Col != 4 {
		t.Fatalf("leading cursor = %+v, want (0,4)", c)
	}
}

func TestMoveUpDownPreservesDesiredColumn(t *testing.T) {
	eb := newTestEditBuffer("longline\nab\nlongline")
	eb.SetCursor(0, 6)
	eb.MoveDown() // row1 only has 2 chars, clamps
	if c := eb.Primary(); c.Row != 1 || c.Col != 2 {
		t.Fatalf("cursor after first move = %+v", c)
	}
	eb.MoveDown() // row2 is long again, should return toward desired column 6
	if c := eb.Primary(); c.Row != 2 || c.Col != 6 {
		t.Fatalf("cursor after second move = %+v", c)
	}
}
