// Command textrope is a minimal interactive demo wiring a TextBuffer,
// TextBufferView, EditBuffer, and EditorView to a tcell terminal.
package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textrope/internal/cellgrid"
	"github.com/dshills/textrope/internal/diag"
	"github.com/dshills/textrope/internal/editbuffer"
	"github.com/dshills/textrope/internal/editorview"
	"github.com/dshills/textrope/internal/grapheme"
	"github.com/dshills/textrope/internal/logx"
	"github.com/dshills/textrope/internal/scripting"
	"github.com/dshills/textrope/internal/textbuffer"
	"github.com/dshills/textrope/internal/textconfig"
	"github.com/dshills/textrope/internal/textview"
)

// todoHighlightScript is the demo's highlight-provider script: it paints
// the first "TODO" occurrence on each line in style 1.
const todoHighlightScript = `
local s, e = string.find(line_text, "TODO")
if s then
	add_span(s - 1, e, 1)
end
`

func main() {
	log := logx.Default("textrope")
	cfg := textconfig.Default()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "textrope: new screen:", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "textrope: init screen:", err)
		os.Exit(1)
	}
	defer screen.Fini()

	mode := grapheme.ModeUnicode
	if cfg.MeasurementMode == "wcwidth" {
		mode = grapheme.ModeWCWidth
	}
	gsvc := grapheme.New(mode)

	buf := textbuffer.New(gsvc)
	buf.StoreUndo("initial")
	buf.SetText([]byte("welcome to textrope\npress ctrl-c to quit\n"))
	buf.SetMaxUndoDepth(cfg.MaxUndoDepth)
	buf.SetHighlightProvider(scripting.NewLuaHighlighter(todoHighlightScript))

	eb := editbuffer.New(buf, gsvc)
	view := textview.New(buf, gsvc)
	view.SetWrapMode(textview.WrapChar)
	view.SetWrapWidth(cfg.DefaultWrapWidth)

	w, h := screen.Size()
	view.SetViewport(textview.Viewport{Width: w, Height: h})

	ev := editorview.New(view, eb)
	ev.SetScrollMargins(cfg.ScrollMarginV, cfg.ScrollMarginH)

	backend := cellgrid.NewTerminalBackend(screen)
	resolve := func(styleID int) cellgrid.Style {
		if styleID == 1 {
			return cellgrid.Style{FG: cellgrid.Color{R: 80, G: 200, B: 255}}
		}
		return cellgrid.Style{FG: cellgrid.Color{R: 220, G: 220, B: 220}}
	}

	draw := func() {
		screen.Clear()
		cellgrid.DrawTextBuffer(backend, view, 0, 0, resolve)
		backend.Show()
	}
	draw()

	log.Infof("textrope demo running, %d lines loaded", buf.GetLineCount())

	for {
		e := screen.PollEvent()
		switch ev2 := e.(type) {
		case *tcell.EventResize:
			w, h := screen.Size()
			ev.SetViewportSize(w, h)
			draw()
		case *tcell.EventKey:
			switch {
			case ev2.Key() == tcell.KeyCtrlC, ev2.Key() == tcell.KeyEscape:
				return
			case ev2.Key() == tcell.KeyCtrlD:
				if snap, err := diag.DumpBuffer(buf); err != nil {
					log.Errorf("dump buffer: %v", err)
				} else {
					log.Infof("buffer snapshot: %s", snap)
				}
				if snap, err := diag.DumpView(view); err != nil {
					log.Errorf("dump view: %v", err)
				} else {
					log.Infof("view snapshot: %s", snap)
				}
			case ev2.Key() == tcell.KeyEnter:
				eb.InsertText("\n")
			case ev2.Key() == tcell.KeyBackspace, ev2.Key() == tcell.KeyBackspace2:
				eb.Backspace()
			case ev2.Key() == tcell.KeyLeft:
				eb.MoveLeft()
			case ev2.Key() == tcell.KeyRight:
				eb.MoveRight()
			case ev2.Key() == tcell.KeyUp:
				ev.MoveUpVisual()
			case ev2.Key() == tcell.KeyDown:
				ev.MoveDownVisual()
			case ev2.Key() == tcell.KeyRune:
				eb.InsertText(string(ev2.Rune()))
			}
			ev.EnsureCursorVisible()
			draw()
		}
	}
}
