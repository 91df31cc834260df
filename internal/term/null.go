package term

// NullCell is one recorded grid cell in a NullDriver.
type NullCell struct {
	Rune rune
	FG   Color
	BG   Color
}

// NullDriver is an in-memory Driver for testing. It records every cell
// write so tests can assert on the resulting grid.
type NullDriver struct {
	width, height int
	cells         [][]NullCell

	penX, penY int // 0-based
	fg, bg     Color

	events chan Event
}

// NewNullDriver creates a null driver with the given dimensions.
func NewNullDriver(width, height int) *NullDriver {
	d := &NullDriver{
		width:  width,
		height: height,
		fg:     ColorDefault,
		bg:     ColorDefault,
		events: make(chan Event, 100),
	}
	d.reset()
	return d
}

func (d *NullDriver) reset() {
	d.cells = make([][]NullCell, d.height)
	for y := range d.cells {
		d.cells[y] = make([]NullCell, d.width)
		for x := range d.cells[y] {
			d.cells[y][x] = NullCell{Rune: ' ', FG: ColorDefault, BG: ColorDefault}
		}
	}
}

func (d *NullDriver) Init() error { return nil }
func (d *NullDriver) Fini()       {}

func (d *NullDriver) Size() (int, int) {
	return d.width, d.height
}

func (d *NullDriver) SetCursor(col, row int) {
	d.penX = col - 1
	d.penY = row - 1
}

func (d *NullDriver) SetForeground(c Color) { d.fg = c }
func (d *NullDriver) SetBackground(c Color) { d.bg = c }

func (d *NullDriver) WriteText(text string) {
	for _, r := range text {
		if d.penY >= 0 && d.penY < d.height && d.penX >= 0 && d.penX < d.width {
			d.cells[d.penY][d.penX] = NullCell{Rune: r, FG: d.fg, BG: d.bg}
		}
		d.penX++
	}
}

func (d *NullDriver) Clear() { d.reset() }
func (d *NullDriver) Show()  {}

func (d *NullDriver) PollEvent() Event {
	return <-d.events
}

func (d *NullDriver) PostEvent(ev Event) {
	select {
	case d.events <- ev:
	default:
		// Event dropped if queue is full (non-blocking for testing)
	}
}

// Cell returns the recorded cell at a 1-based column and row.
// Out-of-range positions return an empty cell.
func (d *NullDriver) Cell(col, row int) NullCell {
	x, y := col-1, row-1
	if y < 0 || y >= d.height || x < 0 || x >= d.width {
		return NullCell{Rune: ' ', FG: ColorDefault, BG: ColorDefault}
	}
	return d.cells[y][x]
}

// Row returns the text of a 1-based row with trailing spaces trimmed.
func (d *NullDriver) Row(row int) string {
	y := row - 1
	if y < 0 || y >= d.height {
		return ""
	}
	runes := make([]rune, d.width)
	for x, c := range d.cells[y] {
		runes[x] = c.Rune
	}
	end := len(runes)
	for end > 0 && runes[end-1] == ' ' {
		end--
	}
	return string(runes[:end])
}

// Resize changes the grid dimensions and clears the grid.
func (d *NullDriver) Resize(width, height int) {
	d.width = width
	d.height = height
	d.reset()
}
