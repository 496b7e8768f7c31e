package preview

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/mattn/go-sixel"
	"golang.org/x/image/draw"
)

// ErrEmptyViewport is returned when there is no room to draw into.
var ErrEmptyViewport = errors.New("preview: empty viewport")

// CellSize is the size of one character cell in pixels.
type CellSize struct {
	Width  int
	Height int
}

// DefaultCellSize is used when the terminal cannot report its cell size.
var DefaultCellSize = CellSize{Width: 8, Height: 16}

// WriteSixel writes img to w as a sixel graphic no larger than cols×rows
// cells. The image keeps its aspect ratio and is never enlarged.
func WriteSixel(w io.Writer, img image.Image, cols, rows int, cell CellSize) error {
	b := img.Bounds()
	if b.Empty() {
		return ErrEmptyImage
	}

	width, height := Fit(b.Dx(), b.Dy(), cols*cell.Width, rows*cell.Height)
	if width == 0 || height == 0 {
		return ErrEmptyViewport
	}

	// Scaling also moves the top-left corner to (0, 0)
	src := img
	if width != b.Dx() || height != b.Dy() || b.Min != (image.Point{}) {
		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)
		src = scaled
	}

	enc := sixel.NewEncoder(w)
	enc.Width = width
	enc.Height = height

	if err := enc.Encode(src); err != nil {
		return fmt.Errorf("encoding sixel: %w", err)
	}
	return nil
}
