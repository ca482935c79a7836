package display

import (
	"errors"
	"image"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledring/internal/pixel"
)

// Sink receives finished frames, brightness already applied.
type Sink interface {
	Show(frame pixel.Buffer) error
	Halt() error
}

// drawer is the part of periph's display.Drawer the strip needs. Both the
// nrzled device and the console screen satisfy it.
type drawer interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// Layout maps logical ring positions to physical LED indices, for rings
// mounted rotated or wired in the opposite direction.
type Layout struct {
	Offset  int
	Reverse bool
}

func (l Layout) Index(i, n int) int {
	if n == 0 {
		return 0
	}
	if l.Reverse {
		i = -i
	}
	return (((i + l.Offset) % n) + n) % n
}

// Apply returns frame rearranged into physical order.
func (l Layout) Apply(frame pixel.Buffer) pixel.Buffer {
	if l == (Layout{}) {
		return frame
	}
	out := make(pixel.Buffer, len(frame))
	for i, c := range frame {
		out[l.Index(i, len(frame))] = c
	}
	return out
}

// Strip pushes frames through a periph drawer as an N x 1 image.
type Strip struct {
	Name     string
	Hardware bool
	Layout   Layout
	d        drawer
	closer   io.Closer
}

func (s *Strip) Show(frame pixel.Buffer) error {
	img := s.Layout.Apply(frame).Image()
	return s.d.Draw(s.d.Bounds(), img, image.Point{})
}

// Halt blanks the LEDs and releases the port, if the strip owns one.
func (s *Strip) Halt() error {
	err := s.d.Halt()
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
		s.closer = nil
	}
	return err
}

// Sim stands in for hardware. It only counts and logs frames.
type Sim struct {
	Count int
	Last  pixel.Buffer
}

func NewSim() *Sim { return &Sim{} }

func (d *Sim) Show(frame pixel.Buffer) error {
	d.Count++
	d.Last = frame.Clone()
	if e := log.Trace(); e.Enabled() {
		var r, g, b int
		for _, c := range frame {
			r += int(c.R)
			g += int(c.G)
			b += int(c.B)
		}
		n := len(frame)
		if n == 0 {
			n = 1
		}
		e.Int("frame", d.Count).Ints("avg", []int{r / n, g / n, b / n}).Msg("sim frame")
	}
	return nil
}

func (d *Sim) Halt() error { return nil }

// Multi fans a frame out to several sinks. Every sink is tried; errors are joined.
type Multi []Sink

func (m Multi) Show(frame pixel.Buffer) error {
	var errs []error
	for _, s := range m {
		if err := s.Show(frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Halt() error {
	var errs []error
	for _, s := range m {
		if err := s.Halt(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
