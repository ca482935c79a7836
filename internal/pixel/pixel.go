package pixel

import (
	"image"
	"image/color"
)

// DefaultCount is the number of LEDs on the ring.
const DefaultCount = 16

type Color struct {
	R, G, B uint8
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
)

// Gray returns a neutral color with all channels at v.
func Gray(v uint8) Color { return Color{R: v, G: v, B: v} }

// Fraction scales every channel by num/den using integer math.
func (c Color) Fraction(num, den int) Color {
	if den <= 0 {
		return Black
	}
	return Color{
		R: uint8(int(c.R) * num / den),
		G: uint8(int(c.G) * num / den),
		B: uint8(int(c.B) * num / den),
	}
}

func (c Color) IsBlack() bool { return c == Black }

func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Scale8 dims a single channel value by brightness b, where 255 leaves it unchanged.
func Scale8(v, b uint8) uint8 {
	return uint8((uint16(v) * (1 + uint16(b))) >> 8)
}

func (c Color) Scale(b uint8) Color {
	return Color{R: Scale8(c.R, b), G: Scale8(c.G, b), B: Scale8(c.B, b)}
}

// Buffer is the in-memory frame, one Color per physical LED position.
type Buffer []Color

func New(n int) Buffer {
	if n <= 0 {
		n = DefaultCount
	}
	return make(Buffer, n)
}

func (b Buffer) Len() int { return len(b) }

// Set writes c at index i, wrapping i onto the ring.
func (b Buffer) Set(i int, c Color) {
	n := len(b)
	if n == 0 {
		return
	}
	b[((i%n)+n)%n] = c
}

func (b Buffer) At(i int) Color {
	n := len(b)
	return b[((i%n)+n)%n]
}

func (b Buffer) Fill(c Color) {
	for i := range b {
		b[i] = c
	}
}

func (b Buffer) Clone() Buffer {
	out := make(Buffer, len(b))
	copy(out, b)
	return out
}

// Scaled returns a copy with global brightness applied. The buffer itself is untouched.
func (b Buffer) Scaled(brightness uint8) Buffer {
	out := make(Buffer, len(b))
	for i, c := range b {
		out[i] = c.Scale(brightness)
	}
	return out
}

// Image lays the ring out as an N x 1 strip, the shape periph drawers expect.
func (b Buffer) Image() *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, len(b), 1))
	for x, c := range b {
		im.SetNRGBA(x, 0, c.NRGBA())
	}
	return im
}

// RGB flattens the buffer into r,g,b byte triples.
func (b Buffer) RGB() []byte {
	out := make([]byte, 0, len(b)*3)
	for _, c := range b {
		out = append(out, c.R, c.G, c.B)
	}
	return out
}
