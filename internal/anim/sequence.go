package anim

import (
	"time"

	"github.com/coreman2200/ledring/internal/pixel"
)

// Sequence is a finite run of sub-frames. Frames are computed on demand
// from their index, so replaying from 0 restarts the sequence.
type Sequence interface {
	Len() int
	// Frame draws sub-frame i into buf and returns how long it should stay up.
	Frame(i int, buf pixel.Buffer) time.Duration
}

const (
	ShutterStepHold  = 40 * time.Millisecond
	ShutterFlashHold = 60 * time.Millisecond
	ShutterDarkHold  = 200 * time.Millisecond
	ShutterFlashes   = 3

	PulseStep = 17
	PulseHold = 20 * time.Millisecond
)

func NewSequence(k Kind, n int) Sequence {
	switch k {
	case Shutter:
		return shutter{n: n}
	case Pulse:
		return pulse{}
	}
	return nil
}

// shutter closes the ring like an iris from the pixel opposite index 0,
// fires a few white flash frames and ends dark.
type shutter struct {
	n int
}

func (s shutter) closeSteps() int { return s.n/2 + 2 }

func (s shutter) Len() int { return s.closeSteps() + ShutterFlashes + 1 }

func (s shutter) Frame(i int, buf pixel.Buffer) time.Duration {
	steps := s.closeSteps()
	switch {
	case i < steps:
		bottom := s.n / 2
		for p := range buf {
			if ringDistance(p, bottom, s.n) < i {
				buf[p] = pixel.Black
			} else {
				buf[p] = pixel.White
			}
		}
		return ShutterStepHold
	case i < steps+ShutterFlashes:
		buf.Fill(pixel.White)
		return ShutterFlashHold
	default:
		buf.Fill(pixel.Black)
		return ShutterDarkHold
	}
}

// pulse ramps white up from black to full and back down again.
type pulse struct{}

func (pulse) rise() int { return 255/PulseStep + 1 }

func (p pulse) Len() int { return 2*p.rise() - 1 }

func (p pulse) Frame(i int, buf pixel.Buffer) time.Duration {
	top := p.rise() - 1
	level := i
	if i > top {
		level = 2*top - i
	}
	buf.Fill(pixel.Gray(uint8(level * PulseStep)))
	return PulseHold
}

func ringDistance(a, b, n int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if n-d < d {
		return n - d
	}
	return d
}
