/*
Package preview renders images as coloured character cells and shows them in
an interactive terminal loop.

Rendering fits the image into the terminal with Fit, averages each block of
pixels behind a cell with Render and quantizes the mean colour onto the
256-colour palette while keeping the true colour alongside. A Viewer redraws
the image at the current terminal size until the quit key is pressed and
always hands the terminal back, whichever way the loop ends.
*/
package preview

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ErrEmptyImage is returned for an image without pixels.
var ErrEmptyImage = errors.New("preview: empty image")

// DefaultSignals release the terminal and end the process while a Viewer
// holds it. SIGKILL cannot be caught and leaves the terminal as it was.
var DefaultSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}

// Viewer shows an image on a Terminal until QuitKey is pressed.
type Viewer struct {
	Terminal Terminal
	Logger   *log.Logger
	Signals  []os.Signal

	exit func(code int)
}

// NewViewer returns a Viewer drawing on t. A nil logger discards messages.
func NewViewer(t Terminal, logger *log.Logger) *Viewer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Viewer{
		Terminal: t,
		Logger:   logger,
		Signals:  DefaultSignals,
		exit:     os.Exit,
	}
}

// noCopy makes go vet flag copies of the struct embedding it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// session is the hold on an acquired Terminal. It is released exactly once,
// either by the viewer loop or by the signal guard.
type session struct {
	noCopy noCopy

	term Terminal
	once sync.Once
	err  error
	stop chan struct{}
}

func (v *Viewer) acquire() (*session, error) {
	if err := v.Terminal.Acquire(); err != nil {
		return nil, fmt.Errorf("acquiring terminal: %w", err)
	}
	s := &session{
		term: v.Terminal,
		stop: make(chan struct{}),
	}
	if len(v.Signals) > 0 {
		s.guard(v.Signals, v.exit, v.Logger)
	}
	return s, nil
}

func (s *session) release() error {
	s.once.Do(func() {
		close(s.stop)
		if err := s.term.Release(); err != nil {
			s.err = fmt.Errorf("releasing terminal: %w", err)
		}
	})
	return s.err
}

func exitCode(sig os.Signal) int {
	if n, ok := sig.(syscall.Signal); ok {
		return 128 + int(n)
	}
	return 1
}

// guard restores the terminal and exits when one of sigs arrives before the
// session is released.
func (s *session) guard(sigs []os.Signal, exit func(int), logger *log.Logger) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			logger.Printf("Received signal: %v", sig)
			if err := s.release(); err != nil {
				logger.Printf("Error restoring terminal: %v", err)
			}
			exit(exitCode(sig))
		case <-s.stop:
		}
	}()
}

func (v *Viewer) draw(img *image.RGBA) error {
	cols, rows, err := v.Terminal.Size()
	if err != nil {
		return fmt.Errorf("querying terminal size: %w", err)
	}

	frame := Approximate(img, cols, rows)
	v.Logger.Printf("Terminal %dx%d, frame %dx%d", cols, rows, frame.Cols(), len(frame))

	if err := v.Terminal.Draw(frame); err != nil {
		return fmt.Errorf("drawing frame: %w", err)
	}
	return nil
}

func quitRequested(events []Event) bool {
	for _, ev := range events {
		if ev.IsQuit() {
			return true
		}
	}
	return false
}

// Run takes over the terminal and redraws img after every batch of input
// until QuitKey is pressed. The terminal size is read again for every frame.
// The terminal is released before Run returns, also when drawing or waiting
// fails or panics.
func (v *Viewer) Run(img *image.RGBA) (err error) {
	if img == nil || img.Rect.Empty() {
		return ErrEmptyImage
	}

	s, err := v.acquire()
	if err != nil {
		return err
	}
	defer func() {
		if rerr := s.release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	for frames := 1; ; frames++ {
		if err := v.draw(img); err != nil {
			return err
		}

		events, err := v.Terminal.Wait()
		if err != nil {
			return fmt.Errorf("waiting for input: %w", err)
		}
		if quitRequested(events) {
			v.Logger.Printf("Quit after %d frames", frames)
			return nil
		}
	}
}
