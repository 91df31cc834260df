package scene

import (
	"github.com/dshills/pageview/internal/layout"
	"github.com/dshills/pageview/internal/markup"
	"github.com/dshills/pageview/internal/render"
	"github.com/dshills/pageview/internal/term"
)

// InputState is the live state of one markup text input, keyed by the
// input token's id and owned by the viewport.
type InputState struct {
	Text    string
	Focused bool
}

// Viewport is the element that embeds the markup pipeline: it owns a
// parsed page, its scroll position, the live state of the page's
// interactive elements, and the registry produced by the last paint.
type Viewport struct {
	elem
	W, H int

	// Source is the page name this viewport displays.
	Source string

	// Scroll is the vertical scroll offset in rows, clamped to
	// [0, max(0, ContentHeight-H)] on every mutation.
	Scroll int

	// ContentHeight is the total content height computed by the last
	// layout pass.
	ContentHeight int

	// Pending is the navigation target recorded by the last link click,
	// for the host to act on.
	Pending string

	// InputWidth is the default width for textbox tokens that do not
	// specify one. Zero keeps the markup default.
	InputWidth int

	lines   []markup.Line
	scripts map[string]string
	checks  map[string]bool
	inputs  map[string]*InputState

	pressedID string
	registry  *render.Registry
}

func (v *Viewport) Size() (int, int) {
	return v.W, v.H
}

// SetContent parses markup source into the viewport, resetting scroll
// and interactive state. Pass "" for a missing page: the viewport
// renders empty rather than failing.
func (v *Viewport) SetContent(src string) {
	page := markup.ParsePageWidth(src, v.InputWidth)
	v.lines = page.Lines
	v.scripts = page.Scripts
	v.checks = make(map[string]bool)
	v.inputs = make(map[string]*InputState)
	v.Scroll = 0
	v.ContentHeight = 0
	v.Pending = ""
	v.pressedID = ""
	v.registry = nil
}

// Scripts returns the script blocks extracted from the current page.
func (v *Viewport) Scripts() map[string]string {
	return v.scripts
}

// Checked reports the live checked state of a markup checkbox.
// Implements layout.State.
func (v *Viewport) Checked(id string) bool {
	return v.checks[id]
}

// SetChecked sets a markup checkbox's state.
func (v *Viewport) SetChecked(id string, checked bool) {
	if v.checks == nil {
		v.checks = make(map[string]bool)
	}
	v.checks[id] = checked
}

// ToggleChecked flips a markup checkbox and returns the new state.
func (v *Viewport) ToggleChecked(id string) bool {
	checked := !v.Checked(id)
	v.SetChecked(id, checked)
	return checked
}

// InputText returns the live text of a markup text input.
// Implements layout.State.
func (v *Viewport) InputText(id string) string {
	if in, ok := v.inputs[id]; ok {
		return in.Text
	}
	return ""
}

// Input returns the state for a markup text input, creating it on
// first use.
func (v *Viewport) Input(id string) *InputState {
	if v.inputs == nil {
		v.inputs = make(map[string]*InputState)
	}
	in, ok := v.inputs[id]
	if !ok {
		in = &InputState{}
		v.inputs[id] = in
	}
	return in
}

// Inputs returns all live input states keyed by id.
func (v *Viewport) Inputs() map[string]*InputState {
	return v.inputs
}

// TokenByID returns the interactive markup token with the given id, or
// nil. Used to address page elements from outside the layout pass.
func (v *Viewport) TokenByID(id string) *markup.Token {
	for li := range v.lines {
		toks := v.lines[li].Tokens
		for ti := range toks {
			if toks[ti].Interactive() && toks[ti].ID == id {
				return &toks[ti]
			}
		}
	}
	return nil
}

// SetPressed marks a markup button pressed for the next paint. Pass ""
// to clear.
func (v *Viewport) SetPressed(id string) {
	v.pressedID = id
}

// PressedID returns the markup button currently painted pressed.
func (v *Viewport) PressedID() string {
	return v.pressedID
}

// ApplyScroll adjusts the scroll offset by delta rows, clamping to the
// valid range. Out-of-range adjustments are silently clamped.
func (v *Viewport) ApplyScroll(delta int) {
	v.Scroll = layout.ClampScroll(v.Scroll+delta, v.ContentHeight, v.H)
}

// Render lays out and paints the page at the given absolute origin,
// rebuilding the viewport's registry and content height.
func (v *Viewport) Render(d term.Driver, originX, originY int) {
	res := layout.Flow(v.lines, v.W, v.H, v.Scroll, v)
	v.ContentHeight = res.ContentHeight
	// Layout may have shrunk the content below the current offset.
	v.Scroll = layout.ClampScroll(v.Scroll, v.ContentHeight, v.H)
	v.registry = render.Paint(d, res.Placed, originX, originY, v.pressedID, v)
}

// HitRegistry returns the interactive region of the last paint under
// the absolute point, or nil.
func (v *Viewport) HitRegistry(x, y int) *render.Region {
	return v.registry.Hit(x, y)
}

// Registry returns the registry produced by the last paint.
func (v *Viewport) Registry() *render.Registry {
	return v.registry
}
