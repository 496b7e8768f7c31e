package preview

import "errors"

// QuitKey ends an interactive preview when pressed.
const QuitKey = 'q'

// ErrInputClosed is returned by Wait when the input source has gone away.
var ErrInputClosed = errors.New("preview: input closed")

// EventKind classifies terminal input.
type EventKind int

const (
	KeyPress EventKind = iota + 1
	KeyRelease
	Resize
	Other
)

func (k EventKind) String() string {
	switch k {
	case KeyPress:
		return "press"
	case KeyRelease:
		return "release"
	case Resize:
		return "resize"
	default:
		return "other"
	}
}

// Event is a single input event. Rune is zero for keys without a character.
type Event struct {
	Kind EventKind
	Rune rune
}

// IsQuit reports whether e is a press of QuitKey.
func (e Event) IsQuit() bool {
	return e.Kind == KeyPress && e.Rune == QuitKey
}

// Terminal is the display a Viewer draws on.
type Terminal interface {
	// Acquire takes over the display: alternate screen and raw input.
	Acquire() error
	// Release undoes Acquire.
	Release() error
	// Size returns the current size in character cells.
	Size() (cols, rows int, err error)
	// Draw clears the display and shows frame.
	Draw(frame Frame) error
	// Wait blocks until at least one event is queued and returns every
	// queued event.
	Wait() ([]Event, error)
}
