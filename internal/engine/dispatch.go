package engine

import (
	"github.com/dshills/pageview/internal/render"
	"github.com/dshills/pageview/internal/scene"
	"github.com/dshills/pageview/internal/term"
)

// HandleEvent dispatches one host event. Runs on the input goroutine;
// registered callbacks and script emissions run after the graph lock is
// released, so they may call back into the engine freely.
func (e *EngineContext) HandleEvent(ev term.Event) {
	switch ev.Type {
	case term.EventKey:
		e.handleKey(ev)
	case term.EventMouse:
		e.handleMouse(ev)
	case term.EventResize:
		e.handleResize(ev)
	case term.EventQuit:
		e.Stop()
	}
	e.runDeferred()
}

func (e *EngineContext) handleMouse(ev term.Event) {
	switch ev.MouseButton {
	case term.MouseLeft:
		e.handleClick(ev.MouseX, ev.MouseY)
	case term.MouseWheelUp:
		e.scrollAt(ev.MouseX, ev.MouseY, -e.scrollSpeed)
	case term.MouseWheelDown:
		e.scrollAt(ev.MouseX, ev.MouseY, e.scrollSpeed)
	}
}

// handleClick hit-tests the composed tree topmost-first and routes the
// click to the element under the cursor. A click that lands on nothing
// interactive clears focus.
func (e *EngineContext) handleClick(x, y int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	placed := e.graph.Compose()
	for i := len(placed) - 1; i >= 0; i-- {
		el := placed[i].Element
		if !el.Bounds().Contains(x, y) {
			continue
		}
		if e.clickElement(el, x, y) {
			e.dirty.Store(true)
			return
		}
		// The element consumed the point but nothing interactive is
		// under it; elements are opaque, so stop searching lower ones.
		break
	}

	e.blurLocked()
	e.dirty.Store(true)
}

// clickElement routes a click to one element. Returns false when the
// element occupies the point but carries nothing interactive there.
func (e *EngineContext) clickElement(el scene.Element, x, y int) bool {
	switch t := el.(type) {
	case *scene.Button:
		e.blurLocked()
		if t.Toggle {
			t.Pressed = !t.Pressed
		} else {
			t.Pressed = true
			e.pressedButtons = append(e.pressedButtons, t)
		}
		e.queueCallback(e.onClick[t.ID()])
		e.emitLocked("click", t.ID())
		return true

	case *scene.Checkbox:
		e.blurLocked()
		t.Checked = !t.Checked
		if fn := e.onToggle[t.ID()]; fn != nil {
			checked := t.Checked
			e.queueCallback(func() { fn(checked) })
		}
		e.emitLocked("toggle", t.ID())
		return true

	case *scene.TextField:
		e.focusFieldLocked(t)
		e.emitLocked("focus", t.ID())
		return true

	case *scene.Viewport:
		return e.clickViewport(t, x, y)
	}
	return false
}

// clickViewport routes a click inside a viewport through the registry
// built by the last paint.
func (e *EngineContext) clickViewport(vp *scene.Viewport, x, y int) bool {
	region := vp.HitRegistry(x, y)
	if region == nil {
		return false
	}

	switch region.Type {
	case render.RegionLink:
		e.blurLocked()
		vp.Pending = region.Target
		e.emitLocked("click", region.ID)
		if fn := e.onNavigate; fn != nil {
			target := region.Target
			e.queueCallback(func() { fn(vp, target) })
		}

	case render.RegionButton:
		e.blurLocked()
		vp.SetPressed(region.ID)
		e.pressedViewports = append(e.pressedViewports, vp)
		e.queueCallback(e.onClick[region.ID])
		e.invokeLocked(region.OnClick, region.ID)
		e.emitLocked("click", region.ID)

	case render.RegionCheckbox:
		e.blurLocked()
		checked := vp.ToggleChecked(region.ID)
		if fn := e.onToggle[region.ID]; fn != nil {
			e.queueCallback(func() { fn(checked) })
		}
		e.emitLocked("toggle", region.ID)

	case render.RegionTextInput:
		e.focusInputLocked(vp, region.ID)
		e.emitLocked("focus", region.ID)
	}
	return true
}

// scrollAt scrolls the topmost viewport under the cursor by delta rows.
func (e *EngineContext) scrollAt(x, y, delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	placed := e.graph.Compose()
	for i := len(placed) - 1; i >= 0; i-- {
		vp, ok := placed[i].Element.(*scene.Viewport)
		if !ok || !vp.Bounds().Contains(x, y) {
			continue
		}
		vp.ApplyScroll(delta)
		e.dirty.Store(true)
		return
	}
}

func (e *EngineContext) handleKey(ev term.Event) {
	switch ev.Key {
	case term.KeyCtrlC, term.KeyCtrlQ:
		e.userQuit.Store(true)
		e.Stop()
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch ev.Key {
	case term.KeyEscape:
		e.blurLocked()
		e.dirty.Store(true)

	case term.KeyEnter:
		e.submitLocked()

	case term.KeyBackspace:
		if e.focusField != nil {
			e.focusField.Backspace()
			e.dirty.Store(true)
		} else if e.focusVP != nil {
			in := e.focusVP.Input(e.focusInput)
			runes := []rune(in.Text)
			if len(runes) > 0 {
				in.Text = string(runes[:len(runes)-1])
			}
			e.dirty.Store(true)
		}

	case term.KeyRune:
		if e.focusField != nil {
			e.focusField.Append(ev.Rune)
			e.dirty.Store(true)
		} else if e.focusVP != nil {
			in := e.focusVP.Input(e.focusInput)
			in.Text += string(ev.Rune)
			e.dirty.Store(true)
		}

	case term.KeyUp:
		e.scrollFirstLocked(-e.scrollSpeed)
	case term.KeyDown:
		e.scrollFirstLocked(e.scrollSpeed)
	case term.KeyPageUp:
		e.scrollFirstLocked(-e.pageStepLocked())
	case term.KeyPageDown:
		e.scrollFirstLocked(e.pageStepLocked())
	}
}

// submitLocked fires the submit handler for the focused field or input.
// Enter carries no other meaning; focus is kept so the user may keep
// typing.
func (e *EngineContext) submitLocked() {
	var id, text string
	switch {
	case e.focusField != nil:
		id, text = e.focusField.ID(), e.focusField.Text
	case e.focusVP != nil:
		id, text = e.focusInput, e.focusVP.InputText(e.focusInput)
	default:
		return
	}
	if fn := e.onSubmit[id]; fn != nil {
		submitted := text
		e.queueCallback(func() { fn(submitted) })
	}
	e.emitLocked("submit", id)
}

// scrollFirstLocked scrolls the topmost viewport in the composed tree,
// for keyboard scrolling with no cursor position.
func (e *EngineContext) scrollFirstLocked(delta int) {
	vps := e.graph.Viewports()
	if len(vps) == 0 {
		return
	}
	vps[len(vps)-1].ApplyScroll(delta)
	e.dirty.Store(true)
}

// pageStepLocked is the keyboard paging distance: the topmost
// viewport's height, falling back to the scroll speed.
func (e *EngineContext) pageStepLocked() int {
	vps := e.graph.Viewports()
	if len(vps) == 0 {
		return e.scrollSpeed
	}
	_, h := vps[len(vps)-1].Size()
	if h <= 0 {
		return e.scrollSpeed
	}
	return h
}

func (e *EngineContext) handleResize(ev term.Event) {
	e.mu.Lock()
	fn := e.onResize
	e.mu.Unlock()

	if fn != nil {
		fn(ev.Width, ev.Height)
	}
	e.dirty.Store(true)
}
