package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 7), uint8(y * 13), uint8(x ^ y), 0xff})
		}
	}
	return img
}

func TestSaveLoadLossless(t *testing.T) {
	dir := t.TempDir()
	want := gradient(23, 11)

	for _, name := range []string{"out.png", "out.bmp", "out.tif", "OUT.TIFF"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.True(t, Lossless(path))
			require.NoError(t, Save(path, want))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want.Rect, got.Rect)
			assert.Equal(t, want.Pix, got.Pix)
		})
	}
}

func TestSaveLossy(t *testing.T) {
	dir := t.TempDir()
	img := gradient(16, 16)

	for _, name := range []string{"out.jpg", "out.jpeg", "out.gif"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			assert.True(t, Supported(path))
			assert.False(t, Lossless(path))
			require.NoError(t, Save(path, img))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, img.Rect, got.Rect)
		})
	}
}

func TestSaveUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xyz")
	err := Save(path, gradient(2, 2))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), path)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadErrorsNamePath(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.png")
	_, err := Load(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening "+missing)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = Load(garbage)
	require.ErrorIs(t, err, image.ErrFormat)
	assert.Contains(t, err.Error(), "decoding "+garbage)
}

func TestRGBDropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{10, 20, 30, 0x80})
	src.SetNRGBA(6, 5, color.NRGBA{200, 100, 50, 0})

	got := RGB(src)
	assert.Equal(t, image.Rect(0, 0, 2, 1), got.Rect)
	assert.Equal(t, color.RGBA{10, 20, 30, 0xff}, got.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{200, 100, 50, 0xff}, got.RGBAAt(1, 0))
}

func TestRGBOpaque(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 1))
	src.SetGray(1, 0, color.Gray{0x42})

	got := RGB(src)
	assert.Equal(t, color.RGBA{0x42, 0x42, 0x42, 0xff}, got.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, got.RGBAAt(0, 0))
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradient(4, 3)))

	img, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
}
