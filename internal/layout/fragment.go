// Package layout turns parsed markup lines into absolutely positioned
// fragments for a fixed-width viewport: word/space expansion, greedy
// line packing with forced splitting of over-wide fragments, alignment,
// and vertical scroll bookkeeping.
package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/pageview/internal/markup"
	"github.com/dshills/pageview/internal/term"
)

// Kind identifies the kind of a layout fragment.
type Kind int

const (
	KindWord Kind = iota
	KindSpace
	KindLink
	KindButton
	KindCheckbox
	KindTextInput
)

// Fragment is the atomic placement unit: a word, a space run, or one
// interactive element rendered as a single run of cells.
type Fragment struct {
	Kind  Kind
	Text  string
	Width int
	FG    term.Color
	BG    term.Color

	// PressFG/PressBG are the one-frame press colors of a button
	// fragment, already resolved against the effective normal colors.
	PressFG term.Color
	PressBG term.Color

	// Token is the source token for interactive fragments; nil for
	// plain words and spaces.
	Token *markup.Token
}

// State supplies live interactive values during expansion: checkbox
// checked flags and text-input contents, keyed by token id. A nil State
// behaves as all-unchecked, all-empty.
type State interface {
	Checked(id string) bool
	InputText(id string) string
}

// Expand converts a logical line's tokens into fragments. Text tokens
// split on whitespace boundaries preserving space runs; interactive
// tokens become one atomic fragment each.
func Expand(tokens []markup.Token, st State) []Fragment {
	var frags []Fragment
	for i := range tokens {
		tok := &tokens[i]
		switch tok.Kind {
		case markup.TokenText:
			frags = append(frags, expandText(tok)...)
		default:
			frags = append(frags, interactiveFragment(tok, st))
		}
	}
	return frags
}

// expandText splits a text run into alternating space and word
// fragments. A leading space run is its own fragment; every interior
// run of spaces is one fragment.
func expandText(tok *markup.Token) []Fragment {
	var frags []Fragment
	content := tok.Content
	for len(content) > 0 {
		isSpace := content[0] == ' ' || content[0] == '\t'
		end := 0
		for end < len(content) {
			c := content[end]
			if (c == ' ' || c == '\t') != isSpace {
				break
			}
			end++
		}
		run := content[:end]
		content = content[end:]

		kind := KindWord
		if isSpace {
			kind = KindSpace
			// Tabs carry no column semantics on the grid; they render
			// as single spaces.
			run = strings.Repeat(" ", len(run))
		}
		frags = append(frags, Fragment{
			Kind:  kind,
			Text:  run,
			Width: runewidth.StringWidth(run),
			FG:    tok.FG,
			BG:    tok.BG,
		})
	}
	return frags
}

// interactiveFragment renders one interactive token as an atomic
// fragment, pulling live state for checkboxes and text inputs.
func interactiveFragment(tok *markup.Token, st State) Fragment {
	f := Fragment{FG: tok.FG, BG: tok.BG, Token: tok}

	switch tok.Kind {
	case markup.TokenLink:
		f.Kind = KindLink
		f.Text = tok.Label
		if f.FG.IsDefault() {
			f.FG = term.ColorBlue
		}

	case markup.TokenButton:
		f.Kind = KindButton
		f.Text = " " + tok.Label + " "
		if f.FG.IsDefault() {
			f.FG = term.ColorWhite
		}
		if f.BG.IsDefault() {
			f.BG = term.ColorGray
		}
		// Press colors default to the effective colors swapped, so an
		// unstyled button still inverts while pressed.
		f.PressFG, f.PressBG = tok.PressFG, tok.PressBG
		if f.PressFG.IsDefault() {
			f.PressFG = f.BG
		}
		if f.PressBG.IsDefault() {
			f.PressBG = f.FG
		}

	case markup.TokenCheckbox:
		f.Kind = KindCheckbox
		glyph := tok.UncheckedGlyph
		if st != nil && st.Checked(tok.ID) {
			glyph = tok.CheckedGlyph
		}
		f.Text = glyph + " " + tok.Label

	case markup.TokenTextInput:
		f.Kind = KindTextInput
		text := ""
		if st != nil {
			text = st.InputText(tok.ID)
		}
		f.Text = InputDisplay(text, tok.Width)
		if f.BG.IsDefault() {
			f.BG = term.ColorGray
		}
		if f.FG.IsDefault() {
			f.FG = term.ColorWhite
		}
	}

	f.Width = runewidth.StringWidth(f.Text)
	return f
}

// InputDisplay clips input text to the field width (keeping the tail,
// where the cursor lives) and pads with spaces. The scene renderer
// uses the same treatment for standalone text fields.
func InputDisplay(text string, width int) string {
	if width <= 0 {
		width = markup.DefaultTextboxWidth
	}
	runes := []rune(text)
	for runewidth.StringWidth(string(runes)) > width {
		runes = runes[1:]
	}
	display := string(runes)
	if pad := width - runewidth.StringWidth(display); pad > 0 {
		display += strings.Repeat(" ", pad)
	}
	return display
}
