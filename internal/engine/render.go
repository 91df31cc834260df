package engine

import (
	"github.com/dshills/pageview/internal/layout"
	"github.com/dshills/pageview/internal/scene"
	"github.com/dshills/pageview/internal/term"
)

// renderAll repaints the composed scene tree from scratch: clear, paint
// every element in composition order, show. Positions resolve against
// the current terminal size, so a resize needs nothing beyond marking
// the engine dirty.
func (e *EngineContext) renderAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	viewW, viewH := e.drv.Size()
	e.drv.Clear()

	for _, pe := range e.graph.Compose() {
		e.paintElement(pe, viewW, viewH)
	}

	e.drv.Show()

	// Momentary press visuals live for exactly one painted frame.
	if len(e.pressedButtons) > 0 || len(e.pressedViewports) > 0 {
		for _, b := range e.pressedButtons {
			b.Pressed = false
		}
		for _, vp := range e.pressedViewports {
			vp.SetPressed("")
		}
		e.pressedButtons = nil
		e.pressedViewports = nil
		e.dirty.Store(true)
	}
}

// paintElement resolves one composed element's position and paints it,
// recording its absolute bounds for hit-testing.
func (e *EngineContext) paintElement(pe scene.PlacedElement, viewW, viewH int) {
	el := pe.Element
	w, h := el.Size()
	x, y := el.Position().Resolve(w, h, viewW, viewH)
	x += pe.OffX
	y += pe.OffY
	el.SetBounds(scene.Rect{X: x, Y: y, W: w, H: h})

	d := e.drv
	switch t := el.(type) {
	case *scene.Label:
		d.SetForeground(t.FG)
		d.SetBackground(t.BG)
		d.SetCursor(x, y)
		d.WriteText(t.Text)

	case *scene.Button:
		fg, bg := t.FG, t.BG
		if t.Pressed {
			fg, bg = t.PressFG, t.PressBG
		}
		d.SetForeground(fg)
		d.SetBackground(bg)
		d.SetCursor(x, y)
		d.WriteText(" " + t.Text + " ")

	case *scene.Checkbox:
		d.SetForeground(t.FG)
		d.SetBackground(t.BG)
		d.SetCursor(x, y)
		d.WriteText(t.Glyph() + " " + t.Text)

	case *scene.TextField:
		d.SetForeground(t.FG)
		d.SetBackground(t.BG)
		d.SetCursor(x, y)
		d.WriteText(layout.InputDisplay(t.Text, t.Width))

	case *scene.Rectangle:
		d.SetForeground(term.ColorDefault)
		d.SetBackground(t.BG)
		for row := 0; row < t.H; row++ {
			d.SetCursor(x, y+row)
			d.WriteText(spaces(t.W))
		}

	case *scene.Viewport:
		t.Render(d, x, y)
	}

	d.SetForeground(term.ColorDefault)
	d.SetBackground(term.ColorDefault)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
