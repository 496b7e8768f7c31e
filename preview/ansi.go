package preview

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	enterAltScreen = "\x1b[?1049h"
	leaveAltScreen = "\x1b[?1049l"
	clearScreen    = "\x1b[2J\x1b[1;1H"
)

// ANSITerminal writes frames as plain escape sequences and reads keys
// straight from the input. It does not notice a resize until the next key.
type ANSITerminal struct {
	in    io.Reader
	out   io.Writer
	inFd  int
	outFd int

	makeRaw func(fd int) (*term.State, error)
	restore func(fd int, state *term.State) error
	getSize func(fd int) (int, int, error)

	state   *term.State
	buf     [256]byte
	partial []byte
}

// NewANSITerminal returns a terminal reading keys from in and drawing on out.
func NewANSITerminal(in, out *os.File) *ANSITerminal {
	return &ANSITerminal{
		in:      in,
		out:     out,
		inFd:    int(in.Fd()),
		outFd:   int(out.Fd()),
		makeRaw: term.MakeRaw,
		restore: term.Restore,
		getSize: term.GetSize,
	}
}

func (t *ANSITerminal) Acquire() error {
	if _, err := io.WriteString(t.out, enterAltScreen); err != nil {
		return fmt.Errorf("entering alternate screen: %w", err)
	}

	state, err := t.makeRaw(t.inFd)
	if err != nil {
		_, _ = io.WriteString(t.out, leaveAltScreen)
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.state = state
	return nil
}

func (t *ANSITerminal) Release() error {
	var errs []error
	if t.state != nil {
		if err := t.restore(t.inFd, t.state); err != nil {
			errs = append(errs, fmt.Errorf("exiting raw mode: %w", err))
		}
		t.state = nil
	}
	if _, err := io.WriteString(t.out, leaveAltScreen); err != nil {
		errs = append(errs, fmt.Errorf("leaving alternate screen: %w", err))
	}
	return errors.Join(errs...)
}

func (t *ANSITerminal) Size() (int, int, error) {
	cols, rows, err := t.getSize(t.outFd)
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return cols, rows, nil
}

func (t *ANSITerminal) Draw(frame Frame) error {
	var b bytes.Buffer
	b.WriteString(clearScreen)
	if _, err := frame.WriteTo(&b); err != nil {
		return err
	}
	_, err := t.out.Write(b.Bytes())
	return err
}

// Wait reads whatever input is queued, blocking for at least one complete
// character. Every character is reported as a key press.
func (t *ANSITerminal) Wait() ([]Event, error) {
	for {
		n, err := t.in.Read(t.buf[:])
		data := append(t.partial, t.buf[:n]...)

		var events []Event
		for len(data) > 0 && utf8.FullRune(data) {
			r, size := utf8.DecodeRune(data)
			events = append(events, Event{Kind: KeyPress, Rune: r})
			data = data[size:]
		}
		t.partial = append([]byte(nil), data...)

		if len(events) > 0 {
			return events, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrInputClosed
			}
			return nil, err
		}
	}
}
