package preview

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ColorMode selects how a TcellTerminal colours cells.
type ColorMode int

const (
	TrueColor ColorMode = iota
	Palette256
)

func (m ColorMode) String() string {
	if m == Palette256 {
		return "256"
	}
	return "truecolor"
}

// ParseColorMode accepts "truecolor" (or "24bit") and "256".
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "truecolor", "24bit":
		return TrueColor, nil
	case "256":
		return Palette256, nil
	}
	return TrueColor, fmt.Errorf("unknown color mode %q", s)
}

// TcellTerminal draws frames through a tcell screen.
type TcellTerminal struct {
	Color ColorMode

	screen    tcell.Screen
	newScreen func() (tcell.Screen, error)
	resized   bool
}

// NewTcellTerminal returns a terminal that opens the controlling terminal
// when acquired.
func NewTcellTerminal(mode ColorMode) *TcellTerminal {
	return &TcellTerminal{Color: mode, newScreen: tcell.NewScreen}
}

// NewTcellTerminalScreen returns a terminal drawing on s, which must not
// have been initialised yet.
func NewTcellTerminalScreen(s tcell.Screen, mode ColorMode) *TcellTerminal {
	return &TcellTerminal{Color: mode, screen: s}
}

func (t *TcellTerminal) Acquire() error {
	if t.screen == nil {
		s, err := t.newScreen()
		if err != nil {
			return fmt.Errorf("creating screen: %w", err)
		}
		t.screen = s
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	t.screen.HideCursor()
	return nil
}

func (t *TcellTerminal) Release() error {
	t.screen.Fini()
	return nil
}

func (t *TcellTerminal) Size() (int, int, error) {
	cols, rows := t.screen.Size()
	return cols, rows, nil
}

func (t *TcellTerminal) style(c Cell) tcell.Style {
	if t.Color == Palette256 {
		return tcell.StyleDefault.Foreground(tcell.PaletteColor(int(c.Index)))
	}
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

func (t *TcellTerminal) Draw(frame Frame) error {
	t.screen.Clear()
	for y, line := range frame {
		for x, c := range line {
			t.screen.SetContent(x, y, BlockRune, nil, t.style(c))
		}
	}

	// A resize can leave stale cells behind, repaint everything
	if t.resized {
		t.resized = false
		t.screen.Sync()
	} else {
		t.screen.Show()
	}
	return nil
}

func (t *TcellTerminal) convert(ev tcell.Event) Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyRune {
			return Event{Kind: KeyPress, Rune: ev.Rune()}
		}
		return Event{Kind: KeyPress}
	case *tcell.EventResize:
		t.resized = true
		return Event{Kind: Resize}
	default:
		return Event{Kind: Other}
	}
}

func (t *TcellTerminal) Wait() ([]Event, error) {
	ev := t.screen.PollEvent()
	if ev == nil {
		return nil, ErrInputClosed
	}

	events := []Event{t.convert(ev)}
	for t.screen.HasPendingEvent() {
		ev := t.screen.PollEvent()
		if ev == nil {
			break
		}
		events = append(events, t.convert(ev))
	}
	return events, nil
}
