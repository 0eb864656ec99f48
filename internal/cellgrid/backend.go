package cellgrid

import (
	"github.com/gdamore/tcell/v2"
)

// TerminalBackend is a Grid backed by a live tcell.Screen, for the demo
// binary. It buffers nothing itself: Set writes straight through to the
// screen's content buffer, and Show flushes it.
type TerminalBackend struct {
	screen tcell.Screen
}

// NewTerminalBackend wraps an already-initialized tcell.Screen.
func NewTerminalBackend(screen tcell.Screen) *TerminalBackend {
	return &TerminalBackend{screen: screen}
}

func (b *TerminalBackend) Width() int {
	w, _ := b.screen.Size()
	return w
}

func (b *TerminalBackend) Height() int {
	_, h := b.screen.Size()
	return h
}

func (b *TerminalBackend) Get(x, y int) Cell {
	r, _, style, _ := b.screen.GetContent(x, y)
	fg, bg, attrs := style.Decompose()
	return Cell{Rune: r, Width: 1, Style: styleFromTcell(fg, bg, attrs)}
}

func (b *TerminalBackend) Set(x, y int, c Cell) {
	b.screen.SetContent(x, y, c.Rune, nil, tcellStyle(c.Style))
}

// Show flushes pending cell writes to the terminal.
func (b *TerminalBackend) Show() { b.screen.Show() }

func tcellStyle(s Style) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(s.FG.R), int32(s.FG.G), int32(s.FG.B))).
		Background(tcell.NewRGBColor(int32(s.BG.R), int32(s.BG.G), int32(s.BG.B)))
	if s.Attrs&AttrBold != 0 {
		st = st.Bold(true)
	}
	if s.Attrs&AttrItalic != 0 {
		st = st.Italic(true)
	}
	if s.Attrs&AttrUnderline != 0 {
		st = st.Underline(true)
	}
	if s.Attrs&AttrReverse != 0 {
		st = st.Reverse(true)
	}
	return st
}

func styleFromTcell(fg, bg tcell.Color, attrs tcell.AttrMask) Style {
	s := Style{FG: colorFromTcell(fg), BG: colorFromTcell(bg)}
	if attrs&tcell.AttrBold != 0 {
		s.Attrs |= AttrBold
	}
	if attrs&tcell.AttrItalic != 0 {
		s.Attrs |= AttrItalic
	}
	if attrs&tcell.AttrUnderline != 0 {
		s.Attrs |= AttrUnderline
	}
	if attrs&tcell.AttrReverse != 0 {
		s.Attrs |= AttrReverse
	}
	return s
}

func colorFromTcell(c tcell.Color) Color {
	r, g, b := c.RGB()
	return Color{R: uint8(r), G: uint8(g), B: uint8(b)}
}
