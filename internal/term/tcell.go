package term

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Screen implements Driver using tcell for terminal output.
type Screen struct {
	screen tcell.Screen

	mu   sync.Mutex
	penX int // 0-based tcell column
	penY int // 0-based tcell row
	fg   Color
	bg   Color
}

// NewScreen creates a tcell-backed driver.
func NewScreen() (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Screen{screen: screen, fg: ColorDefault, bg: ColorDefault}, nil
}

func (s *Screen) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.screen.Init(); err != nil {
		return err
	}
	s.screen.EnableMouse()
	return nil
}

func (s *Screen) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Fini()
}

func (s *Screen) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.screen.Size()
}

func (s *Screen) SetCursor(col, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.penX = col - 1
	s.penY = row - 1
}

func (s *Screen) SetForeground(c Color) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fg = c
}

func (s *Screen) SetBackground(c Color) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bg = c
}

func (s *Screen) WriteText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	style := penStyle(s.fg, s.bg)
	width, height := s.screen.Size()
	for _, r := range text {
		if s.penY >= 0 && s.penY < height && s.penX >= 0 && s.penX < width {
			s.screen.SetContent(s.penX, s.penY, r, nil, style)
		}
		s.penX++
	}
}

func (s *Screen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Clear()
}

func (s *Screen) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Show()
}

func (s *Screen) PollEvent() Event {
	ev := s.screen.PollEvent()
	return convertEvent(ev)
}

func (s *Screen) PostEvent(ev Event) {
	if ev.Type == EventQuit {
		// tcell has no quit event; an interrupt unblocks PollEvent and
		// converts to EventQuit below.
		_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
		return
	}
	if ev.Type == EventKey {
		tev := tcell.NewEventKey(convertToTcellKey(ev.Key), ev.Rune, tcell.ModNone)
		_ = s.screen.PostEvent(tev) // best-effort; queue may be full
	}
}

// penStyle converts pen colors to a tcell.Style.
func penStyle(fg, bg Color) tcell.Style {
	style := tcell.StyleDefault
	if !fg.IsDefault() {
		style = style.Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B)))
	}
	if !bg.IsDefault() {
		style = style.Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
	}
	return style
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
		}

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:        EventMouse,
			MouseX:      x + 1,
			MouseY:      y + 1,
			MouseButton: convertMouseButton(e.Buttons()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventInterrupt:
		return Event{Type: EventQuit}

	default:
		return Event{Type: EventNone}
	}
}

// convertKey converts tcell key to our Key type.
func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyPgUp:
		return KeyPageUp
	case tcell.KeyPgDn:
		return KeyPageDown
	case tcell.KeyCtrlC:
		return KeyCtrlC
	case tcell.KeyCtrlQ:
		return KeyCtrlQ
	default:
		return KeyNone
	}
}

// convertToTcellKey converts our Key to tcell.Key.
func convertToTcellKey(k Key) tcell.Key {
	switch k {
	case KeyEnter:
		return tcell.KeyEnter
	case KeyBackspace:
		return tcell.KeyBackspace2
	case KeyEscape:
		return tcell.KeyEscape
	case KeyTab:
		return tcell.KeyTab
	case KeyUp:
		return tcell.KeyUp
	case KeyDown:
		return tcell.KeyDown
	case KeyLeft:
		return tcell.KeyLeft
	case KeyRight:
		return tcell.KeyRight
	case KeyPageUp:
		return tcell.KeyPgUp
	case KeyPageDown:
		return tcell.KeyPgDn
	case KeyCtrlC:
		return tcell.KeyCtrlC
	case KeyCtrlQ:
		return tcell.KeyCtrlQ
	default:
		return tcell.KeyRune
	}
}

// convertMouseButton converts tcell button mask to our MouseButton.
func convertMouseButton(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return MouseLeft
	case b&tcell.Button2 != 0:
		return MouseMiddle
	case b&tcell.Button3 != 0:
		return MouseRight
	case b&tcell.WheelUp != 0:
		return MouseWheelUp
	case b&tcell.WheelDown != 0:
		return MouseWheelDown
	default:
		return MouseNone
	}
}
