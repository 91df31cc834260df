// Package markup parses the pageview tag language: a flat, line-oriented
// format where <key:value ...> markers select colors and declare
// interactive elements. Markers use angle brackets exclusively; the
// square-bracket convention of older page sources is not recognized.
//
// Parsing never fails on content. Unknown directives and attributes are
// dropped silently and the surrounding text survives.
package markup

import "github.com/dshills/pageview/internal/term"

// DefaultTextboxWidth is used when a textbox directive omits its width
// or supplies something non-numeric.
const DefaultTextboxWidth = 10

// Default checkbox glyphs.
const (
	DefaultCheckedGlyph   = "[x]"
	DefaultUncheckedGlyph = "[ ]"
)

// Align is the horizontal alignment of a logical line.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns the string representation of the alignment.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// TokenKind identifies the kind of a scanned token.
type TokenKind int

const (
	// TokenText is a plain text run colored by scanner state.
	TokenText TokenKind = iota
	// TokenLink is a clickable navigation target.
	TokenLink
	// TokenButton is a clickable button.
	TokenButton
	// TokenCheckbox is a toggleable checkbox.
	TokenCheckbox
	// TokenTextInput is a single-line text input placeholder.
	TokenTextInput
)

// Token is one scanned unit of a markup line. Kind selects which
// fields are meaningful.
type Token struct {
	Kind TokenKind

	// Content is the text of a TokenText run.
	Content string

	// Label is the visible text of a link, button, or checkbox.
	Label string

	// Target is the navigation target of a link.
	Target string

	// ID addresses the element from callbacks and scripts. Interactive
	// tokens without an explicit id receive a generated one during
	// page parsing.
	ID string

	// OnClick names the script event fired when the element is
	// activated.
	OnClick string

	// Colors captured from scanner state (or directive attributes) at
	// the time the token was produced.
	FG, BG term.Color

	// Button press colors, painted for the one-frame pressed visual.
	PressFG, PressBG term.Color

	// Checkbox glyphs.
	CheckedGlyph   string
	UncheckedGlyph string

	// Width of a text input in cells.
	Width int
}

// Interactive reports whether the token produces a UI registry region.
func (t Token) Interactive() bool {
	return t.Kind != TokenText
}

// Line is one parsed source line: either a blank spacer row or a
// logical line of aligned tokens.
type Line struct {
	Blank  bool
	Align  Align
	Tokens []Token
}

// Page is a fully parsed markup source: renderable lines plus any
// extracted script blocks keyed by name. Script bodies are never
// rendered.
type Page struct {
	Lines   []Line
	Scripts map[string]string
}
