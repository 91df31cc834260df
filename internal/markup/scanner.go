package markup

import (
	"strconv"
	"strings"

	"github.com/dshills/pageview/internal/term"
)

// Scanner turns one raw markup line into an ordered token list.
// Color directives mutate scanner state and apply to every subsequent
// token on the line; state resets at the start of each line.
type Scanner struct {
	fg        term.Color
	bg        term.Color
	pendingID string

	// TextboxWidth is the width given to textbox tokens that do not
	// specify one. Zero means DefaultTextboxWidth.
	TextboxWidth int
}

// NewScanner creates a scanner with default colors.
func NewScanner() *Scanner {
	return &Scanner{fg: term.ColorDefault, bg: term.ColorDefault}
}

// ScanLine scans a single line (alignment prefix already stripped) into
// tokens. Malformed markers are skipped; ScanLine never fails.
func (s *Scanner) ScanLine(line string) []Token {
	s.fg = term.ColorDefault
	s.bg = term.ColorDefault
	s.pendingID = ""

	var tokens []Token
	var text strings.Builder

	flush := func() {
		if text.Len() == 0 {
			return
		}
		tokens = append(tokens, Token{
			Kind:    TokenText,
			Content: text.String(),
			FG:      s.fg,
			BG:      s.bg,
		})
		text.Reset()
	}

	runes := []rune(line)
	i := 0
	for i < len(runes) {
		r := runes[i]

		// Escapes resolve before marker scanning: \< \> \" \\ become
		// literal characters that never open or close a marker.
		if r == '\\' && i+1 < len(runes) {
			next := runes[i+1]
			if next == '<' || next == '>' || next == '"' || next == '\\' {
				text.WriteRune(next)
				i += 2
				continue
			}
		}

		if r == '<' {
			body, end, ok := scanMarkerBody(runes, i+1)
			if !ok {
				// Unterminated marker: keep the '<' as text.
				text.WriteRune(r)
				i++
				continue
			}
			flush()
			if tok, emit := s.directive(body); emit {
				tokens = append(tokens, tok)
			}
			i = end
			continue
		}

		text.WriteRune(r)
		i++
	}
	flush()
	return tokens
}

// scanMarkerBody collects the marker body starting after '<'. Quoted
// sections may contain '>' without closing the marker. Returns the body,
// the index just past the closing '>', and whether the marker closed.
func scanMarkerBody(runes []rune, start int) (string, int, bool) {
	var body strings.Builder
	inQuote := false
	for j := start; j < len(runes); j++ {
		c := runes[j]
		if c == '\\' && j+1 < len(runes) {
			body.WriteRune(c)
			j++
			body.WriteRune(runes[j])
			continue
		}
		if c == '"' {
			inQuote = !inQuote
		}
		if c == '>' && !inQuote {
			return body.String(), j + 1, true
		}
		body.WriteRune(c)
	}
	return "", 0, false
}

// directive interprets one marker body. Color and id directives mutate
// scanner state and emit nothing; element directives return a token.
// Unrecognized bodies are dropped.
func (s *Scanner) directive(body string) (Token, bool) {
	name := body
	rest := ""
	if idx := strings.IndexByte(body, ':'); idx >= 0 {
		name = body[:idx]
		rest = body[idx+1:]
	}
	name = strings.ToLower(strings.TrimSpace(name))

	switch name {
	case "reset":
		s.fg = term.ColorDefault
		s.bg = term.ColorDefault
		s.pendingID = ""
		return Token{}, false

	case "text", "fg":
		s.fg = colorValue(rest)
		return Token{}, false

	case "background", "bg":
		s.bg = colorValue(rest)
		return Token{}, false

	case "id":
		s.pendingID = unquote(strings.TrimSpace(rest))
		return Token{}, false

	case "link":
		return s.linkDirective(rest)

	case "button":
		return s.buttonDirective(rest)

	case "checkbox":
		return s.checkboxDirective(rest)

	case "textbox":
		return s.textboxDirective(rest)

	default:
		return Token{}, false
	}
}

// colorValue resolves a color directive argument. "reset" restores the
// default; unknown names fall back to the default as well.
func colorValue(arg string) term.Color {
	arg = strings.ToLower(strings.TrimSpace(unquote(strings.TrimSpace(arg))))
	if arg == "reset" || arg == "" {
		return term.ColorDefault
	}
	return term.ColorByName(arg)
}

func (s *Scanner) linkDirective(rest string) (Token, bool) {
	args, attrs := splitArgs(rest)
	if len(args) == 0 {
		return Token{}, false
	}
	target := args[0]
	label := target
	if len(args) > 1 {
		label = args[1]
	}
	return Token{
		Kind:   TokenLink,
		Target: target,
		Label:  label,
		ID:     s.takeID(attrs),
		FG:     s.fg,
		BG:     s.bg,
	}, true
}

func (s *Scanner) buttonDirective(rest string) (Token, bool) {
	args, attrs := splitArgs(rest)
	if len(args) == 0 {
		return Token{}, false
	}
	tok := Token{
		Kind:    TokenButton,
		Label:   args[0],
		ID:      s.takeID(attrs),
		OnClick: attrs["onclick"],
		FG:      s.fg,
		BG:      s.bg,
	}
	// Press colors left default are resolved at layout time, against
	// the effective normal colors after style defaults apply.
	tok.PressFG = term.ColorDefault
	tok.PressBG = term.ColorDefault
	if v, ok := attrs["pressfg"]; ok {
		tok.PressFG = term.ColorByName(strings.ToLower(v))
	}
	if v, ok := attrs["pressbg"]; ok {
		tok.PressBG = term.ColorByName(strings.ToLower(v))
	}
	return tok, true
}

func (s *Scanner) checkboxDirective(rest string) (Token, bool) {
	args, attrs := splitArgs(rest)
	if len(args) == 0 {
		return Token{}, false
	}
	tok := Token{
		Kind:           TokenCheckbox,
		Label:          args[0],
		ID:             s.takeID(attrs),
		OnClick:        attrs["onclick"],
		CheckedGlyph:   DefaultCheckedGlyph,
		UncheckedGlyph: DefaultUncheckedGlyph,
		FG:             s.fg,
		BG:             s.bg,
	}
	if v, ok := attrs["checked"]; ok && v != "" {
		tok.CheckedGlyph = v
	}
	if v, ok := attrs["unchecked"]; ok && v != "" {
		tok.UncheckedGlyph = v
	}
	return tok, true
}

func (s *Scanner) textboxDirective(rest string) (Token, bool) {
	args, attrs := splitArgs(rest)
	width := s.TextboxWidth
	if width <= 0 {
		width = DefaultTextboxWidth
	}
	if len(args) > 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(args[0])); err == nil && n > 0 {
			width = n
		}
	}
	return Token{
		Kind:  TokenTextInput,
		Width: width,
		ID:    s.takeID(attrs),
		FG:    s.fg,
		BG:    s.bg,
	}, true
}

// takeID picks the element id: an explicit id attribute wins, otherwise
// a pending <id:...> directive is consumed.
func (s *Scanner) takeID(attrs map[string]string) string {
	if id, ok := attrs["id"]; ok && id != "" {
		return id
	}
	id := s.pendingID
	s.pendingID = ""
	return id
}

// splitArgs parses a directive argument list: comma-separated items,
// each either a positional value (usually quoted) or a key:value
// attribute. Quotes protect commas and colons. Attribute keys are
// lowercased; unknown keys are simply left for callers to ignore.
func splitArgs(rest string) ([]string, map[string]string) {
	var args []string
	attrs := make(map[string]string)

	for _, item := range splitTop(rest, ',') {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if item[0] == '"' {
			args = append(args, unquote(item))
			continue
		}
		if idx := indexTop(item, ':'); idx >= 0 {
			key := strings.ToLower(strings.TrimSpace(item[:idx]))
			val := unquote(strings.TrimSpace(item[idx+1:]))
			if key != "" {
				attrs[key] = val
			}
			continue
		}
		args = append(args, unquote(item))
	}
	return args, attrs
}

// splitTop splits on sep outside quoted sections.
func splitTop(s string, sep rune) []string {
	var parts []string
	var cur strings.Builder
	inQuote := false
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\\' && i+1 < len(runes) {
			cur.WriteRune(c)
			i++
			cur.WriteRune(runes[i])
			continue
		}
		if c == '"' {
			inQuote = !inQuote
		}
		if c == sep && !inQuote {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(c)
	}
	parts = append(parts, cur.String())
	return parts
}

// indexTop finds sep outside quoted sections, or -1.
func indexTop(s string, sep rune) int {
	inQuote := false
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\\' && i+1 < len(runes) {
			i++
			continue
		}
		if c == '"' {
			inQuote = !inQuote
		}
		if c == sep && !inQuote {
			return i
		}
	}
	return -1
}

// unquote strips surrounding double quotes and resolves \" and \\
// escapes. Unquoted input is returned with escapes resolved.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var out strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			i++
		}
		out.WriteRune(runes[i])
	}
	return out.String()
}
