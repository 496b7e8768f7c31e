package preview

import (
	"fmt"
	"image"
	"io"
	"strings"
)

// BlockRune is the glyph drawn for every cell.
const BlockRune = '█'

// Cell is one character cell of a rendered frame: the mean colour of the
// image block behind it and the nearest 256-colour palette index.
type Cell struct {
	R, G, B uint8
	Index   uint8
}

// String returns the cell as an escape sequence selecting the palette index
// and then the true colour as foreground, followed by BlockRune. Terminals
// without true colour keep the palette colour.
func (c Cell) String() string {
	return fmt.Sprintf("\x1b[38;5;%d;38;2;%d;%d;%dm%c", c.Index, c.R, c.G, c.B, BlockRune)
}

// Frame is a rendered image, one slice of cells per terminal row from top to
// bottom.
type Frame [][]Cell

// Cols returns the width of the frame in cells.
func (f Frame) Cols() int {
	if len(f) == 0 {
		return 0
	}
	return len(f[0])
}

// Lines returns every row of the frame as a string of escape sequences.
func (f Frame) Lines() []string {
	lines := make([]string, 0, len(f))
	for _, row := range f {
		var b strings.Builder
		for _, c := range row {
			b.WriteString(c.String())
		}
		lines = append(lines, b.String())
	}
	return lines
}

// WriteTo writes every line followed by "\r\n"; raw mode terminals do not
// return the carriage on a bare newline.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range f.Lines() {
		n, err := io.WriteString(w, line+"\r\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// RGBTo256 maps a colour onto the 6×6×6 cube of the 256-colour palette. The
// result is always in [16, 231].
func RGBTo256(r, g, b uint8) uint8 {
	level := func(c uint8) uint8 {
		return uint8((int(c) * 3) >> 7)
	}
	return level(r)*36 + level(g)*6 + level(b) + 16
}

// blockRange returns the inclusive range of image rows (or columns) behind
// output row i of n when the image is size pixels tall. Neighbouring ranges
// share their boundary pixel and the last one is clamped to the image.
func blockRange(i, n, size int) (lo, hi int) {
	return i * size / n, min((i+1)*size/n, size-1)
}

func average(img *image.RGBA, x0, y0, x1, y1 int) Cell {
	var r, g, b, n int
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			i := img.PixOffset(x, y)
			r += int(img.Pix[i+0])
			g += int(img.Pix[i+1])
			b += int(img.Pix[i+2])
			n++
		}
	}
	n = max(n, 1)

	c := Cell{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}
	c.Index = RGBTo256(c.R, c.G, c.B)
	return c
}

// Render splits img into a cols×rows grid of blocks and averages each one
// into a Cell. The bottom row is left out to keep the cursor off the last
// terminal line, so the frame has rows-1 lines of cols cells each.
func Render(img *image.RGBA, cols, rows int) Frame {
	b := img.Rect
	w, h := b.Dx(), b.Dy()
	if w < 1 || h < 1 || cols < 1 || rows < 2 {
		return Frame{}
	}

	frame := make(Frame, 0, rows-1)
	for row := 0; row < rows-1; row++ {
		y0, y1 := blockRange(row, rows, h)
		line := make([]Cell, cols)
		for col := range line {
			x0, x1 := blockRange(col, cols, w)
			line[col] = average(img, b.Min.X+x0, b.Min.Y+y0, b.Min.X+x1, b.Min.Y+y1)
		}
		frame = append(frame, line)
	}
	return frame
}

// Approximate renders img for a terminal of termCols×termRows cells. The
// image is fitted into one column less than the terminal width, which keeps
// a full line from wrapping. Sizes below 2×1 are treated as 2×1.
func Approximate(img *image.RGBA, termCols, termRows int) Frame {
	cols, rows := Fit(img.Rect.Dx()*2, img.Rect.Dy(), max(termCols-1, 1), max(termRows, 1))
	return Render(img, cols, rows)
}
