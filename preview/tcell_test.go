package preview

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simTerminal(t *testing.T, mode ColorMode, cols, rows int) (*TcellTerminal, tcell.SimulationScreen) {
	t.Helper()

	s := tcell.NewSimulationScreen("UTF-8")
	term := NewTcellTerminalScreen(s, mode)
	require.NoError(t, term.Acquire())
	s.SetSize(cols, rows)
	return term, s
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{
		"truecolor": TrueColor,
		"24bit":     TrueColor,
		"TrueColor": TrueColor,
		"256":       Palette256,
	} {
		got, err := ParseColorMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		assert.NotEmpty(t, got.String())
	}

	_, err := ParseColorMode("16")
	assert.Error(t, err)
}

func TestTcellSize(t *testing.T) {
	term, _ := simTerminal(t, TrueColor, 20, 6)
	defer term.Release()

	cols, rows, err := term.Size()
	require.NoError(t, err)
	assert.Equal(t, 20, cols)
	assert.Equal(t, 6, rows)
}

func TestTcellDraw(t *testing.T) {
	frame := Frame{{
		{R: 255, G: 0, B: 0, Index: 196},
		{R: 0, G: 0, B: 255, Index: 21},
	}}

	tests := []struct {
		mode  ColorMode
		first tcell.Color
		next  tcell.Color
	}{
		{TrueColor, tcell.NewRGBColor(255, 0, 0), tcell.NewRGBColor(0, 0, 255)},
		{Palette256, tcell.PaletteColor(196), tcell.PaletteColor(21)},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			term, s := simTerminal(t, tt.mode, 4, 2)
			defer term.Release()

			require.NoError(t, term.Draw(frame))

			cells, w, h := s.GetContents()
			require.Equal(t, 4, w)
			require.Equal(t, 2, h)

			assert.Equal(t, BlockRune, cells[0].Runes[0])
			fg, _, _ := cells[0].Style.Decompose()
			assert.Equal(t, tt.first, fg)

			assert.Equal(t, BlockRune, cells[1].Runes[0])
			fg, _, _ = cells[1].Style.Decompose()
			assert.Equal(t, tt.next, fg)

			assert.Equal(t, ' ', cells[2].Runes[0])
			assert.Equal(t, ' ', cells[4].Runes[0])
		})
	}
}

func TestTcellResizeSyncs(t *testing.T) {
	term, _ := simTerminal(t, TrueColor, 4, 2)
	defer term.Release()

	ev := term.convert(tcell.NewEventResize(4, 2))
	assert.Equal(t, Resize, ev.Kind)
	assert.True(t, term.resized)

	require.NoError(t, term.Draw(Frame{{{R: 1}}}))
	assert.False(t, term.resized)
}

func TestTcellWait(t *testing.T) {
	term, s := simTerminal(t, TrueColor, 10, 4)

	s.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	events, err := term.Wait()
	require.NoError(t, err)
	assert.Equal(t, []Event{
		{Kind: KeyPress, Rune: 'x'},
		{Kind: KeyPress},
		{Kind: KeyPress, Rune: 'q'},
	}, events)

	require.NoError(t, term.Release())

	_, err = term.Wait()
	assert.ErrorIs(t, err, ErrInputClosed)
}

// scriptedTcell queues keys as soon as the screen is up.
type scriptedTcell struct {
	*TcellTerminal
	screen tcell.SimulationScreen
	keys   []rune
}

func (s *scriptedTcell) Acquire() error {
	if err := s.TcellTerminal.Acquire(); err != nil {
		return err
	}
	s.screen.SetSize(30, 8)
	for _, r := range s.keys {
		s.screen.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
	return nil
}

func TestViewerOnTcell(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	term := &scriptedTcell{
		TcellTerminal: NewTcellTerminalScreen(s, TrueColor),
		screen:        s,
		keys:          []rune{'a', 'b', QuitKey},
	}

	v := NewViewer(term, nil)
	v.Signals = nil
	require.NoError(t, v.Run(testImage()))

	_, w, h := s.GetContents()
	assert.Zero(t, w)
	assert.Zero(t, h)
}
