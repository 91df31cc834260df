package scene

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/pageview/internal/term"
)

// Element is a persistent scene member. Concrete types are Label,
// Button, Checkbox, TextField, Rectangle, and Viewport; render and
// hit-test code switches over them exhaustively.
type Element interface {
	// ID returns the element's stable identity.
	ID() string

	// Position returns the element's placement spec.
	Position() Position

	// SetPosition replaces the placement spec.
	SetPosition(Position)

	// Size returns the element's current width and height in cells.
	Size() (w, h int)

	// Bounds returns the absolute screen rect recorded by the last
	// render pass; used for hit-testing.
	Bounds() Rect

	// SetBounds records the painted rect. Called by the renderer.
	SetBounds(Rect)
}

// elem carries the fields every element shares.
type elem struct {
	id     string
	pos    Position
	bounds Rect
}

func (e *elem) ID() string             { return e.id }
func (e *elem) Position() Position     { return e.pos }
func (e *elem) SetPosition(p Position) { e.pos = p }
func (e *elem) Bounds() Rect           { return e.bounds }
func (e *elem) SetBounds(r Rect)       { e.bounds = r }

// Label is a one-line static text element.
type Label struct {
	elem
	Text string
	FG   term.Color
	BG   term.Color
}

func (l *Label) Size() (int, int) {
	return runewidth.StringWidth(l.Text), 1
}

// Button is a clickable element. Pressed is a transient visual flag for
// momentary buttons and a persistent state for toggle buttons.
type Button struct {
	elem
	Text    string
	FG      term.Color
	BG      term.Color
	PressFG term.Color
	PressBG term.Color
	Pressed bool
	Toggle  bool
}

func (b *Button) Size() (int, int) {
	return runewidth.StringWidth(b.Text) + 2, 1
}

// Checkbox is a toggleable element.
type Checkbox struct {
	elem
	Text           string
	Checked        bool
	FG             term.Color
	BG             term.Color
	CheckedGlyph   string
	UncheckedGlyph string
}

func (c *Checkbox) Size() (int, int) {
	glyph := c.UncheckedGlyph
	if runewidth.StringWidth(c.CheckedGlyph) > runewidth.StringWidth(glyph) {
		glyph = c.CheckedGlyph
	}
	return runewidth.StringWidth(glyph) + 1 + runewidth.StringWidth(c.Text), 1
}

// Glyph returns the glyph for the current checked state.
func (c *Checkbox) Glyph() string {
	if c.Checked {
		return c.CheckedGlyph
	}
	return c.UncheckedGlyph
}

// TextField is a single-line editable field.
type TextField struct {
	elem
	Text    string
	Width   int
	Focused bool
	FG      term.Color
	BG      term.Color
}

func (t *TextField) Size() (int, int) {
	return t.Width, 1
}

// Append adds a rune to the field text.
func (t *TextField) Append(r rune) {
	t.Text += string(r)
}

// Backspace removes the last rune. No-op on empty text.
func (t *TextField) Backspace() {
	runes := []rune(t.Text)
	if len(runes) == 0 {
		return
	}
	t.Text = string(runes[:len(runes)-1])
}

// Rectangle is a filled background block.
type Rectangle struct {
	elem
	W, H int
	BG   term.Color
}

func (r *Rectangle) Size() (int, int) {
	return r.W, r.H
}
