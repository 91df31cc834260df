// Package term provides the terminal driver abstraction for pageview.
// Drivers own the character grid: a pen position, a current foreground
// and background color, and a blocking event source. All coordinates
// are 1-based columns and rows.
package term

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventQuit
)

// Key represents a keyboard key.
type Key int

// Key constants for special keys. Printable input arrives as KeyRune
// with the character in the Rune field.
const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyEscape
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyCtrlC
	KeyCtrlQ
)

// MouseButton represents mouse button state for a mouse event.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Event represents a host input event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune

	// Mouse event fields (1-based grid coordinates)
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize event fields
	Width, Height int
}

// Driver is the terminal surface the renderer paints through and the
// event loop reads from. Implementations are expected to tolerate
// out-of-range writes by clipping silently.
type Driver interface {
	// Init prepares the terminal for use. Must be called before any
	// other method.
	Init() error

	// Fini releases the terminal and restores its prior state.
	Fini()

	// Size returns the current grid dimensions in columns and rows.
	Size() (cols, rows int)

	// SetCursor moves the pen to a 1-based column and row.
	SetCursor(col, row int)

	// SetForeground sets the pen foreground color.
	SetForeground(c Color)

	// SetBackground sets the pen background color.
	SetBackground(c Color)

	// WriteText writes s at the pen position using the pen colors,
	// advancing the pen by the display width of s.
	WriteText(s string)

	// Clear erases the whole grid to the default colors.
	Clear()

	// Show flushes buffered writes to the visible screen.
	Show()

	// PollEvent blocks until the next host input event.
	PollEvent() Event

	// PostEvent injects a synthetic event into the queue. Used to wake
	// the input loop during shutdown.
	PostEvent(ev Event)
}
