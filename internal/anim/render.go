package anim

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/ledring/internal/pixel"
)

const (
	BlinkHold    = 500 * time.Millisecond
	FadeStep     = 5
	RainbowDelta = 7
	StreakLength = 4
)

// Frame describes what one Render call produced.
type Frame struct {
	Kind Kind
	// Hold is extra time the frame wants to stay up. For ordinary frames it
	// is added to the loop interval; sub-frames use it instead of the interval.
	Hold time.Duration
	// Sub marks a frame that belongs to a multi-frame sequence.
	Sub bool
}

// Render draws the next frame for the session's mode into buf.
func Render(s *Session, buf pixel.Buffer) Frame {
	if s.active != nil {
		return s.step(buf)
	}

	k := s.Kind()
	f := Frame{Kind: k}
	switch k {
	case Off:
		buf.Fill(pixel.Black)
	case Steady:
		buf.Fill(pixel.White)
	case Blink:
		f.Hold = s.renderBlink(buf)
	case Fade:
		s.renderFade(buf)
	case Rainbow:
		s.renderRainbow(buf)
	case Chase:
		s.renderChase(buf)
	case Shutter, Pulse:
		s.active = &sequenceState{kind: k, seq: NewSequence(k, buf.Len())}
		return s.step(buf)
	case Idle:
	}
	return f
}

func (s *Session) step(buf pixel.Buffer) Frame {
	a := s.active
	hold := a.seq.Frame(a.idx, buf)
	a.idx++
	if a.idx >= a.seq.Len() {
		s.active = nil
	}
	return Frame{Kind: a.kind, Hold: hold, Sub: true}
}

func (s *Session) renderBlink(buf pixel.Buffer) time.Duration {
	if s.blink.on {
		buf.Fill(pixel.White)
	} else {
		buf.Fill(pixel.Black)
	}
	s.blink.on = !s.blink.on
	return BlinkHold
}

func (s *Session) renderFade(buf pixel.Buffer) {
	s.fade.value = uint8(int(s.fade.value) + s.fade.dir*FadeStep)
	if s.fade.value == 0 || s.fade.value == 255 {
		s.fade.dir = -s.fade.dir
	}
	buf.Fill(pixel.Gray(s.fade.value))
}

func (s *Session) renderRainbow(buf pixel.Buffer) {
	FillRainbow(buf, s.rainbow.hue, RainbowDelta)
	s.rainbow.hue++
}

func (s *Session) renderChase(buf pixel.Buffer) {
	head := s.chase.head
	buf.Set(head-StreakLength, pixel.Black)
	for i := 0; i < StreakLength; i++ {
		buf.Set(head-i, s.ChaseColor.Fraction(StreakLength-i, StreakLength))
	}
	s.chase.head = (head + 1) % buf.Len()
}

// FillRainbow paints a hue gradient starting at hue, stepping delta per pixel.
// Hues are on a 0..255 wheel.
func FillRainbow(buf pixel.Buffer, hue, delta uint8) {
	h := hue
	for i := range buf {
		buf[i] = Hue(h)
		h += delta
	}
}

// Hue converts a 0..255 wheel position to a fully saturated color.
func Hue(h uint8) pixel.Color {
	r, g, b := colorful.Hsv(float64(h)*360.0/256.0, 1, 1).RGB255()
	return pixel.Color{R: r, G: g, B: b}
}
