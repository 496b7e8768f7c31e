/*
Package codec reads and writes the image files imgmask works on.

Decoded images are converted to an opaque *image.RGBA so the stored red,
green and blue bytes are the plain colour channels the mask operates on.
The output format is chosen from the file extension.
*/
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned by Save for an unknown file extension.
var ErrUnsupportedFormat = errors.New("codec: unsupported output format")

type format struct {
	encode   func(io.Writer, image.Image) error
	lossless bool
}

var formats = map[string]format{
	".png":  {png.Encode, true},
	".bmp":  {bmp.Encode, true},
	".tif":  {encodeTIFF, true},
	".tiff": {encodeTIFF, true},
	".jpg":  {encodeJPEG, false},
	".jpeg": {encodeJPEG, false},
	".gif":  {encodeGIF, false},
}

func encodeTIFF(w io.Writer, m image.Image) error {
	return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
}

func encodeJPEG(w io.Writer, m image.Image) error {
	return jpeg.Encode(w, m, &jpeg.Options{Quality: 100})
}

// GIF is limited to 256 colours, build the palette with a median cut
func encodeGIF(w io.Writer, m image.Image) error {
	return gif.Encode(w, m, &gif.Options{
		NumColors: 256,
		Quantizer: &quantize.MedianCutQuantizer{},
		Drawer:    draw.FloydSteinberg,
	})
}

func lookup(path string) (format, bool) {
	f, ok := formats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Supported reports whether Save can write to path.
func Supported(path string) bool {
	_, ok := lookup(path)
	return ok
}

// Lossless reports whether an image saved to path reads back bit for bit.
// Only then can a masked image be unmasked again.
func Lossless(path string) bool {
	f, ok := lookup(path)
	return ok && f.lossless
}

// RGB returns a copy of m as an opaque RGBA image with its top-left corner at
// (0, 0). Alpha is discarded rather than composited.
func RGB(m image.Image) *image.RGBA {
	b := m.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if o, ok := m.(interface{ Opaque() bool }); ok && o.Opaque() {
		draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
		return dst
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{c.R, c.G, c.B, 0xff})
		}
	}
	return dst
}

// Decode reads an image from r and converts it with RGB.
func Decode(r io.Reader) (*image.RGBA, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return RGB(m), nil
}

// Load opens and decodes the image file at path.
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Save encodes m to path in the format implied by its extension.
func Save(path string, m image.Image) (err error) {
	f, ok := lookup(path)
	if !ok {
		return fmt.Errorf("encoding %s: %w", path, ErrUnsupportedFormat)
	}

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := f.encode(w, m); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
