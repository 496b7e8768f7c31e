/*
Package mask implements a password-keyed, reversible pixel mask.

A password is hashed to a 64-bit seed which keys a ChaCha8 generator. The
generator yields one byte triple per pixel and each colour channel is XORed
with its byte, so applying the mask twice with the same password restores the
original image. This hides an image from casual viewing; it is not
encryption.
*/
package mask

import (
	"encoding/binary"
	"image"
	"math/bits"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// PCG32 multiplier and increment used to expand a 64-bit seed into a key
const (
	pcgMul = 6364136223846793005
	pcgInc = 11634580027462260723
)

// Stream is a deterministic source of byte triples derived from a password.
// A Stream is stateful and must not be shared between masking operations.
type Stream struct {
	src *rand.ChaCha8
}

// Seed returns the 64-bit seed derived from password.
func Seed(password string) uint64 {
	return xxhash.Sum64String(password)
}

func expandSeed(seed uint64) (key [32]byte) {
	state := seed
	for i := 0; i < len(key); i += 4 {
		state = state*pcgMul + pcgInc
		xorshifted := uint32(((state >> 18) ^ state) >> 27)
		rot := int(state >> 59)
		binary.LittleEndian.PutUint32(key[i:], bits.RotateLeft32(xorshifted, -rot))
	}
	return key
}

// New returns a Stream keyed by password. Any string, including the empty
// string, is a valid password.
func New(password string) *Stream {
	return NewFromSeed(Seed(password))
}

// NewFromSeed returns a Stream keyed directly by a 64-bit seed.
func NewFromSeed(seed uint64) *Stream {
	return &Stream{src: rand.NewChaCha8(expandSeed(seed))}
}

// Next returns the next triple and advances the stream.
func (s *Stream) Next() (r, g, b byte) {
	v := s.src.Uint64()
	return byte(v), byte(v >> 8), byte(v >> 16)
}

// Apply XORs the red, green and blue channels of every pixel in img with the
// next triple from s. Pixels are visited row by row, left to right, which is
// part of the key: unmasking must use a fresh Stream built from the same
// password. Alpha is left alone.
func Apply(img *image.RGBA, s *Stream) {
	b := img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			r, g, bl := s.Next()
			img.Pix[i+0] ^= r
			img.Pix[i+1] ^= g
			img.Pix[i+2] ^= bl
		}
	}
}

// Mask applies the mask for password to img in place. Calling it a second
// time with the same password undoes it.
func Mask(img *image.RGBA, password string) {
	Apply(img, New(password))
}
