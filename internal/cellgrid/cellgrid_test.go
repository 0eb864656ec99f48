package cellgrid

import (
	"testing"

	"github.com/dshills/textrope/internal/grapheme"
	"github.com/dshills/textrope/internal/textbuffer"
	"github.com/dshills/textrope/internal/textview"
)

// fakeGrid is a minimal in-memory Grid for tests.
type fakeGrid struct {
	w, h  int
	cells map[[2]int]Cell
}

func newFakeGrid(w, h int) *fakeGrid {
	return &fakeGrid{w: w, h: h, cells: map[[2]int]Cell{}}
}

func (g *fakeGrid) Get(x, y int) Cell    { return g.cells[[2]int{x, y}] }
func (g *fakeGrid) Set(x, y int, c Cell) { g.cells[[2]int{x, y}] = c }
func (g *fakeGrid) Width() int           { return g.w }
func (g *fakeGrid) Height() int          { return g.h }

func TestDrawTextBufferWideGraphemeOccupiesTwoCells(t *testing.T) {
	gsvc := grapheme.New(grapheme.ModeUnicode)
	tb := textbuffer.New(gsvc)
	tb.SetText([]byte("a中b")) // a, a wide CJK ideograph, b
	v := textview.New(tb, gsvc)
	v.SetViewport(textview.Viewport{Width: 10, Height: 1})

	grid := newFakeGrid(10, 1)
	DrawTextBuffer(grid, v, 0, 0, func(int) Style { return Style{} })

	c0 := grid.Get(0, 0)
	if c0.Rune != 'a' || c0.Width != 1 || c0.Continuation {
		t.Fatalf("cell 0 = %+v, want plain 'a'", c0)
	}
	c1 := grid.Get(1, 0)
	if c1.Rune != '中' || c1.Width != 2 || c1.Continuation {
		t.Fatalf("cell 1 = %+v, want wide lead cell", c1)
	}
	c2 := grid.Get(2, 0)
	if !c2.Continuation || c2.Width != 1 {
		t.Fatalf("cell 2 = %+v, want continuation cell", c2)
	}
	c3 := grid.Get(3, 0)
	if c3.Rune != 'b' || c3.Width != 1 || c3.Continuation {
		t.Fatalf("cell 3 = %+v, want plain 'b'", c3)
	}
}

func TestDrawTextBufferEmptyBufferProducesNoPanic(t *testing.T) {
	gsvc := grapheme.New(grapheme.ModeUnicode)
	tb := textbuffer.New(gsvc)
	v := textview.New(tb, gsvc)
	v.SetViewport(textview.Viewport{Width: 10, Height: 3})

	grid := newFakeGrid(10, 3)
	DrawTextBuffer(grid, v, 0, 0, func(int) Style { return Style{} })
}
