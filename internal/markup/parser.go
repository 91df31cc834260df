package markup

import (
	"fmt"
	"strings"
)

// ParseLine decodes one source line into a Line: the leading #/##/###
// prefix selects left/center/right alignment, then the remainder is
// scanned for tokens. Whitespace-only lines become blank spacer rows.
func ParseLine(s *Scanner, line string) Line {
	if strings.TrimSpace(line) == "" {
		return Line{Blank: true}
	}

	align := AlignLeft
	count := 0
	for count < len(line) && line[count] == '#' {
		count++
	}
	switch {
	case count >= 3:
		align = AlignRight
	case count == 2:
		align = AlignCenter
	case count == 1:
		align = AlignLeft
	}
	if count > 3 {
		count = 3
	}
	rest := line[count:]
	if count > 0 {
		// Only the separator after an alignment prefix is swallowed;
		// leading spaces on an unprefixed line are content.
		rest = strings.TrimPrefix(rest, " ")
	}

	return Line{Align: align, Tokens: s.ScanLine(rest)}
}

// ParsePage parses a whole markup source. Script blocks are extracted
// first and never rendered; the remaining lines are parsed in order.
// Interactive tokens without an explicit id receive a generated one,
// stable for the life of the parsed page.
func ParsePage(src string) Page {
	return ParsePageWidth(src, 0)
}

// ParsePageWidth parses a page with an overridden default textbox
// width. Zero keeps DefaultTextboxWidth.
func ParsePageWidth(src string, textboxWidth int) Page {
	body, scripts := ExtractScripts(src)

	s := NewScanner()
	s.TextboxWidth = textboxWidth
	var lines []Line
	seq := 0
	for _, raw := range strings.Split(body, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		line := ParseLine(s, raw)
		for i := range line.Tokens {
			tok := &line.Tokens[i]
			if tok.Interactive() && tok.ID == "" {
				seq++
				tok.ID = fmt.Sprintf("el%d", seq)
			}
		}
		lines = append(lines, line)
	}

	return Page{Lines: lines, Scripts: scripts}
}

// ExtractScripts removes <script:"name"> ... </script> blocks from the
// source and returns the stripped body plus the blocks keyed by name.
// An unterminated block swallows the rest of the source; a block with
// no parsable name is discarded.
func ExtractScripts(src string) (string, map[string]string) {
	scripts := make(map[string]string)
	var body strings.Builder

	const closeTag = "</script>"
	for {
		idx := strings.Index(src, "<script:")
		if idx < 0 {
			body.WriteString(src)
			break
		}
		body.WriteString(src[:idx])
		rest := src[idx+len("<script:"):]

		name, after, ok := scriptName(rest)
		end := strings.Index(after, closeTag)
		if end < 0 {
			// Unterminated: drop the remainder rather than render it.
			break
		}
		if ok && name != "" {
			scripts[name] = strings.TrimSpace(after[:end])
		}
		src = after[end+len(closeTag):]
	}

	return body.String(), scripts
}

// scriptName parses the quoted name and closing '>' of a script open
// tag, returning the name and the source following the tag.
func scriptName(s string) (string, string, bool) {
	s = strings.TrimLeft(s, " ")
	if len(s) == 0 || s[0] != '"' {
		// Tolerate an unquoted name up to '>'.
		gt := strings.IndexByte(s, '>')
		if gt < 0 {
			return "", s, false
		}
		return strings.TrimSpace(s[:gt]), s[gt+1:], true
	}
	endQuote := strings.IndexByte(s[1:], '"')
	if endQuote < 0 {
		return "", s, false
	}
	name := s[1 : 1+endQuote]
	rest := s[endQuote+2:]
	gt := strings.IndexByte(rest, '>')
	if gt < 0 {
		return "", rest, false
	}
	return name, rest[gt+1:], true
}
