package layout

import (
	"testing"

	"github.com/dshills/pageview/internal/markup"
	"github.com/dshills/pageview/internal/term"
)

func parseLines(t *testing.T, src string) []markup.Line {
	t.Helper()
	return markup.ParsePage(src).Lines
}

func TestFlowSimpleLine(t *testing.T) {
	res := Flow(parseLines(t, "hello world"), 80, 24, 0, nil)

	if len(res.Placed) != 3 {
		t.Fatalf("expected 3 fragments (word, space, word), got %d", len(res.Placed))
	}
	if res.Placed[0].Col != 1 || res.Placed[0].Row != 1 {
		t.Errorf("first fragment at (%d,%d), want (1,1)", res.Placed[0].Col, res.Placed[0].Row)
	}
	if res.Placed[1].Text != " " || res.Placed[1].Col != 6 {
		t.Errorf("space fragment wrong: %+v", res.Placed[1])
	}
	if res.Placed[2].Col != 7 {
		t.Errorf("second word at col %d, want 7", res.Placed[2].Col)
	}
	if res.ContentHeight != 1 {
		t.Errorf("content height = %d, want 1", res.ContentHeight)
	}
}

func TestFlowWrapNeverOverflows(t *testing.T) {
	const width = 20
	src := "the quick brown fox jumps over the lazy dog again and again and again"
	res := Flow(parseLines(t, src), width, 100, 0, nil)

	rowWidth := map[int]int{}
	for _, p := range res.Placed {
		rowWidth[p.Row] += p.Width
		if p.Col+p.Width-1 > width {
			t.Errorf("fragment %q ends at col %d beyond width %d", p.Text, p.Col+p.Width-1, width)
		}
	}
	for row, w := range rowWidth {
		if w > width {
			t.Errorf("row %d total width %d exceeds %d", row, w, width)
		}
	}
	if res.ContentHeight < 2 {
		t.Errorf("expected wrapping, content height = %d", res.ContentHeight)
	}
}

func TestFlowForceSplitTextbox(t *testing.T) {
	// A width-5 textbox in a 3-column viewport splits into chunks of
	// width 3 and 2 on consecutive rows.
	res := Flow(parseLines(t, "<textbox:5>"), 3, 24, 0, nil)

	if len(res.Placed) != 2 {
		t.Fatalf("expected 2 placed chunks, got %d", len(res.Placed))
	}
	first, second := res.Placed[0], res.Placed[1]
	if first.Width != 3 || second.Width != 2 {
		t.Errorf("chunk widths = %d,%d, want 3,2", first.Width, second.Width)
	}
	if first.Row != 1 || second.Row != 2 {
		t.Errorf("chunk rows = %d,%d, want 1,2", first.Row, second.Row)
	}
	if first.Kind != KindTextInput || second.Kind != KindTextInput {
		t.Errorf("chunks lost their kind: %v %v", first.Kind, second.Kind)
	}
	if first.Token == nil || first.Token != second.Token {
		t.Errorf("chunks should share the source token")
	}
}

func TestFlowForceSplitLongWord(t *testing.T) {
	res := Flow(parseLines(t, "abcdefghij"), 4, 24, 0, nil)

	if len(res.Placed) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(res.Placed))
	}
	want := []string{"abcd", "efgh", "ij"}
	for i, p := range res.Placed {
		if p.Text != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, p.Text, want[i])
		}
		if p.Row != i+1 {
			t.Errorf("chunk %d on row %d, want %d", i, p.Row, i+1)
		}
	}
}

func TestFlowAlignment(t *testing.T) {
	const width = 21

	tests := []struct {
		src     string
		wantCol int
	}{
		{"# hello", 1},    // left
		{"## hello", 9},   // center: floor((21-5)/2)+1
		{"### hello", 17}, // right: 21-5+1
		// Wider than the viewport clamps to column 1.
		{"## 0123456789012345678901234567890", 1},
	}
	for _, tt := range tests {
		res := Flow(parseLines(t, tt.src), width, 24, 0, nil)
		if len(res.Placed) == 0 {
			t.Fatalf("%q: nothing placed", tt.src)
		}
		if res.Placed[0].Col != tt.wantCol {
			t.Errorf("%q: start col = %d, want %d", tt.src, res.Placed[0].Col, tt.wantCol)
		}
	}
}

func TestFlowRightAlignmentEndsAtWidth(t *testing.T) {
	const width = 30
	res := Flow(parseLines(t, "### edge"), width, 24, 0, nil)

	if len(res.Placed) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(res.Placed))
	}
	p := res.Placed[0]
	if p.Col+p.Width-1 != width {
		t.Errorf("right-aligned line ends at %d, want %d", p.Col+p.Width-1, width)
	}
}

func TestFlowBlankLineAdvances(t *testing.T) {
	res := Flow(parseLines(t, "one\n\ntwo"), 80, 24, 0, nil)

	rows := map[string]int{}
	for _, p := range res.Placed {
		rows[p.Text] = p.Row
	}
	if rows["one"] != 1 || rows["two"] != 3 {
		t.Errorf("rows = %v, want one=1 two=3", rows)
	}
	if res.ContentHeight != 3 {
		t.Errorf("content height = %d, want 3", res.ContentHeight)
	}
}

func TestFlowScrollSkipsRowsButCountsThem(t *testing.T) {
	res := Flow(parseLines(t, "one\ntwo\nthree"), 80, 24, 1, nil)

	for _, p := range res.Placed {
		if p.Text == "one" {
			t.Errorf("scrolled-off row should not be placed")
		}
	}
	rows := map[string]int{}
	for _, p := range res.Placed {
		rows[p.Text] = p.Row
	}
	if rows["two"] != 1 || rows["three"] != 2 {
		t.Errorf("rows = %v, want two=1 three=2", rows)
	}
	if res.ContentHeight != 3 {
		t.Errorf("content height must include scrolled rows, got %d", res.ContentHeight)
	}
}

func TestFlowRowsBelowViewportSkipped(t *testing.T) {
	res := Flow(parseLines(t, "one\ntwo\nthree"), 80, 2, 0, nil)

	for _, p := range res.Placed {
		if p.Row > 2 {
			t.Errorf("fragment %q placed beyond viewport height", p.Text)
		}
	}
	if res.ContentHeight != 3 {
		t.Errorf("content height = %d, want 3", res.ContentHeight)
	}
}

func TestFlowCenteredScenario(t *testing.T) {
	// "## <text:yellow>Hello <link:"Home","Go Home">" in an 80-column
	// viewport produces one centered physical line.
	res := Flow(parseLines(t, `## <text:yellow>Hello <link:"Home","Go Home">`), 80, 24, 0, nil)

	if len(res.Placed) == 0 {
		t.Fatal("nothing placed")
	}
	total := 0
	for _, p := range res.Placed {
		if p.Row != 1 {
			t.Errorf("fragment %q not on row 1", p.Text)
		}
		total += p.Width
	}
	wantCol := (80-total)/2 + 1
	if res.Placed[0].Col != wantCol {
		t.Errorf("start col = %d, want %d", res.Placed[0].Col, wantCol)
	}
	var link *Placed
	for i := range res.Placed {
		if res.Placed[i].Kind == KindLink {
			link = &res.Placed[i]
		}
	}
	if link == nil {
		t.Fatal("link fragment missing")
	}
	if link.Text != "Go Home" || link.Token.Target != "Home" {
		t.Errorf("link fragment wrong: %+v", link)
	}
}

func TestClampScroll(t *testing.T) {
	tests := []struct {
		offset, content, height, want int
	}{
		{0, 12, 10, 0},
		{2, 12, 10, 2},
		{5, 12, 10, 2},
		{10, 12, 10, 2},
		{-3, 12, 10, 0},
		{4, 5, 10, 0},
	}
	for _, tt := range tests {
		got := ClampScroll(tt.offset, tt.content, tt.height)
		if got != tt.want {
			t.Errorf("ClampScroll(%d,%d,%d) = %d, want %d", tt.offset, tt.content, tt.height, got, tt.want)
		}
		// Idempotence.
		if again := ClampScroll(got, tt.content, tt.height); again != got {
			t.Errorf("clamping not idempotent: %d -> %d", got, again)
		}
	}
}

type fakeState struct {
	checks map[string]bool
	texts  map[string]string
}

func (f *fakeState) Checked(id string) bool     { return f.checks[id] }
func (f *fakeState) InputText(id string) string { return f.texts[id] }

func TestExpandCheckboxUsesState(t *testing.T) {
	lines := parseLines(t, `<checkbox:"Agree",id:"agree">`)
	st := &fakeState{checks: map[string]bool{"agree": true}}

	frags := Expand(lines[0].Tokens, st)
	if len(frags) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(frags))
	}
	if frags[0].Text != "[x] Agree" {
		t.Errorf("checked checkbox text = %q", frags[0].Text)
	}

	frags = Expand(lines[0].Tokens, nil)
	if frags[0].Text != "[ ] Agree" {
		t.Errorf("nil state should render unchecked, got %q", frags[0].Text)
	}
}

func TestExpandInputClipsTail(t *testing.T) {
	lines := parseLines(t, `<textbox:4,id:"name">`)
	st := &fakeState{texts: map[string]string{"name": "abcdef"}}

	frags := Expand(lines[0].Tokens, st)
	if len(frags) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(frags))
	}
	if frags[0].Text != "cdef" {
		t.Errorf("input display = %q, want tail %q", frags[0].Text, "cdef")
	}
	if frags[0].Width != 4 {
		t.Errorf("input width = %d, want 4", frags[0].Width)
	}
}

func TestExpandButtonPressColorsInvertEffective(t *testing.T) {
	lines := parseLines(t, `<button:"OK",id:"ok">`)

	frags := Expand(lines[0].Tokens, nil)
	if len(frags) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(frags))
	}
	f := frags[0]
	if !f.FG.Equals(term.ColorWhite) || !f.BG.Equals(term.ColorGray) {
		t.Fatalf("unstyled button colors fg=%v bg=%v", f.FG, f.BG)
	}
	// The press visual inverts the effective colors, not the raw
	// (default) token colors.
	if !f.PressFG.Equals(term.ColorGray) || !f.PressBG.Equals(term.ColorWhite) {
		t.Errorf("press colors fg=%v bg=%v, want gray on white", f.PressFG, f.PressBG)
	}

	lines = parseLines(t, `<button:"Go",id:"go",pressfg:black,pressbg:white>`)
	f = Expand(lines[0].Tokens, nil)[0]
	if !f.PressFG.Equals(term.ColorBlack) || !f.PressBG.Equals(term.ColorWhite) {
		t.Errorf("explicit press colors lost: fg=%v bg=%v", f.PressFG, f.PressBG)
	}
}

func TestExpandLeadingSpaceRun(t *testing.T) {
	lines := parseLines(t, "  indented")
	frags := Expand(lines[0].Tokens, nil)

	if len(frags) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(frags))
	}
	if frags[0].Kind != KindSpace || frags[0].Width != 2 {
		t.Errorf("leading space run wrong: %+v", frags[0])
	}
	if frags[1].Kind != KindWord || frags[1].Text != "indented" {
		t.Errorf("word fragment wrong: %+v", frags[1])
	}
}
