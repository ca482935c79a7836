package anim

import "github.com/coreman2200/ledring/internal/pixel"

const (
	DefaultBrightness uint8 = 154
	DefaultMode             = 0
)

type blinkState struct {
	on bool
}

type fadeState struct {
	value uint8
	dir   int
}

type rainbowState struct {
	hue uint8
}

type chaseState struct {
	head int
}

// sequenceState tracks the multi-frame animation currently playing, if any.
type sequenceState struct {
	kind Kind
	seq  Sequence
	idx  int
}

// Session is everything the render step needs between iterations: the two
// values commands change and the private progress of each animation.
type Session struct {
	Brightness uint8
	Mode       int
	Variant    Variant
	ChaseColor pixel.Color

	blink   blinkState
	fade    fadeState
	rainbow rainbowState
	chase   chaseState
	active  *sequenceState
}

func NewSession(v Variant) *Session {
	if _, ok := tables[v]; !ok {
		v = Classic
	}
	return &Session{
		Brightness: DefaultBrightness,
		Mode:       DefaultMode,
		Variant:    v,
		ChaseColor: pixel.White,
		fade:       fadeState{value: 0, dir: 1},
	}
}

// Kind is the behavior the current mode number resolves to.
func (s *Session) Kind() Kind { return s.Variant.Resolve(s.Mode) }

// Busy reports whether a multi-frame animation is mid-flight. Commands
// are not read while it is.
func (s *Session) Busy() bool { return s.active != nil }
