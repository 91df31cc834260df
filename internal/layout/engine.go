package layout

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/pageview/internal/markup"
)

// Placed is a fragment with its assigned viewport-local position.
// Col and Row are 1-based; Row is within (0, height] for every placed
// fragment; rows scrolled off-screen are skipped during placement.
type Placed struct {
	Fragment
	Col int
	Row int
}

// Result is the output of a layout pass.
type Result struct {
	Placed []Placed

	// ContentHeight is the total number of rows the content occupies,
	// including rows scrolled out of view. Used for scroll clamping.
	ContentHeight int
}

// Flow lays out parsed lines into a width×height viewport with the
// given vertical scroll offset (rows already scrolled past).
func Flow(lines []markup.Line, width, height, scroll int, st State) Result {
	var res Result
	if width < 1 {
		return res
	}

	row := 1 - scroll
	emit := func(frags []Fragment, align markup.Align) {
		total := 0
		for _, f := range frags {
			total += f.Width
		}
		col := startColumn(align, total, width)
		for _, f := range frags {
			if row > 0 && row <= height && f.Width > 0 {
				res.Placed = append(res.Placed, Placed{Fragment: f, Col: col, Row: row})
			}
			col += f.Width
		}
		row++
	}

	for _, line := range lines {
		if line.Blank {
			row++
			continue
		}

		frags := Expand(line.Tokens, st)
		if len(frags) == 0 {
			// A logical line with nothing to place still occupies a row.
			row++
			continue
		}

		var cur []Fragment
		curWidth := 0
		for _, f := range frags {
			if curWidth+f.Width <= width {
				cur = append(cur, f)
				curWidth += f.Width
				continue
			}

			// Overflow: flush the current physical line.
			if len(cur) > 0 {
				emit(cur, line.Align)
				cur = nil
				curWidth = 0
			}

			if f.Width <= width {
				cur = []Fragment{f}
				curWidth = f.Width
				continue
			}

			// A single fragment wider than the viewport is force-split
			// into character-level chunks so layout always progresses.
			chunks := forceSplit(f, width)
			for _, chunk := range chunks[:len(chunks)-1] {
				emit([]Fragment{chunk}, line.Align)
			}
			last := chunks[len(chunks)-1]
			cur = []Fragment{last}
			curWidth = last.Width
		}
		if len(cur) > 0 {
			emit(cur, line.Align)
		}
	}

	res.ContentHeight = row + scroll - 1
	return res
}

// startColumn computes the 1-based starting column for a packed
// physical line of the given total width.
func startColumn(align markup.Align, total, width int) int {
	switch align {
	case markup.AlignCenter:
		col := (width-total)/2 + 1
		if col < 1 {
			col = 1
		}
		return col
	case markup.AlignRight:
		col := width - total + 1
		if col < 1 {
			col = 1
		}
		return col
	default:
		return 1
	}
}

// forceSplit slices an over-wide fragment into chunks of at most width
// cells. Every chunk keeps the source fragment's kind, colors, and
// token reference, so a split interactive fragment yields one registry
// region per chunk.
func forceSplit(f Fragment, width int) []Fragment {
	var chunks []Fragment
	runes := []rune(f.Text)
	for len(runes) > 0 {
		w := 0
		i := 0
		for i < len(runes) {
			rw := runewidth.RuneWidth(runes[i])
			if w+rw > width {
				break
			}
			w += rw
			i++
		}
		if i == 0 {
			// A single rune wider than the viewport; place it anyway.
			i = 1
			w = runewidth.RuneWidth(runes[0])
		}
		chunk := f
		chunk.Text = string(runes[:i])
		chunk.Width = w
		chunks = append(chunks, chunk)
		runes = runes[i:]
	}
	if len(chunks) == 0 {
		chunks = []Fragment{f}
	}
	return chunks
}

// ClampScroll clamps a scroll offset to [0, max(0, contentHeight -
// viewportHeight)]. Clamping is idempotent.
func ClampScroll(offset, contentHeight, viewportHeight int) int {
	maxScroll := contentHeight - viewportHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if offset < 0 {
		return 0
	}
	if offset > maxScroll {
		return maxScroll
	}
	return offset
}
