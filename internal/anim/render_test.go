package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledring/internal/pixel"
)

func allEqual(t *testing.T, buf pixel.Buffer, c pixel.Color) {
	t.Helper()
	for i := range buf {
		if buf[i] != c {
			t.Fatalf("pixel %d: expected %+v, got %+v", i, c, buf[i])
		}
	}
}

func TestSteadyAndOff(t *testing.T) {
	s := NewSession(Extended)
	buf := pixel.New(16)

	s.Mode = 1
	f := Render(s, buf)
	assert.Equal(t, Steady, f.Kind)
	allEqual(t, buf, pixel.White)

	s.Mode = 0
	Render(s, buf)
	allEqual(t, buf, pixel.Black)
}

func TestClassicModeZeroIsSteady(t *testing.T) {
	s := NewSession(Classic)
	buf := pixel.New(16)
	f := Render(s, buf)
	assert.Equal(t, Steady, f.Kind)
	assert.Zero(t, f.Hold)
	allEqual(t, buf, pixel.White)
}

func TestBlinkTogglesWithExtraHold(t *testing.T) {
	s := NewSession(Classic)
	s.Mode = 1
	buf := pixel.New(16)

	f := Render(s, buf)
	assert.Equal(t, BlinkHold, f.Hold)
	allEqual(t, buf, pixel.Black)

	Render(s, buf)
	allEqual(t, buf, pixel.White)

	Render(s, buf)
	allEqual(t, buf, pixel.Black)
}

func TestFadeSequence(t *testing.T) {
	s := NewSession(Classic)
	s.Mode = 2
	buf := pixel.New(16)

	for i := 1; i <= 51; i++ {
		Render(s, buf)
		require.Equal(t, uint8(i*5), s.fade.value)
		if i < 51 {
			require.Equal(t, 1, s.fade.dir, "direction flipped early at call %d", i)
		}
	}
	assert.Equal(t, uint8(255), s.fade.value)
	assert.Equal(t, -1, s.fade.dir)
	allEqual(t, buf, pixel.Gray(255))

	Render(s, buf)
	assert.Equal(t, uint8(250), s.fade.value)

	// Run several full periods; the value must only ever step by 5.
	last := int(s.fade.value)
	for i := 0; i < 500; i++ {
		Render(s, buf)
		v := int(s.fade.value)
		d := v - last
		if d != 5 && d != -5 {
			t.Fatalf("fade stepped by %d (from %d to %d)", d, last, v)
		}
		last = v
	}
}

func TestRainbowScenario(t *testing.T) {
	s := NewSession(Classic)
	buf := pixel.New(16)
	s.Mode = 3

	f := Render(s, buf)
	assert.Equal(t, Rainbow, f.Kind)
	assert.Equal(t, uint8(1), s.rainbow.hue)

	assert.Equal(t, pixel.Color{R: 255}, buf[0])
	for i := range buf {
		assert.Equal(t, Hue(uint8(i*RainbowDelta)), buf[i], "pixel %d", i)
	}

	// The frame at hue 7 is the hue-0 frame shifted by one pixel.
	s.rainbow.hue = 7
	next := pixel.New(16)
	Render(s, next)
	for i := 0; i < 15; i++ {
		assert.Equal(t, buf[i+1], next[i])
	}
}

func TestRainbowHueWraps(t *testing.T) {
	s := NewSession(Classic)
	s.Mode = 3
	buf := pixel.New(16)
	for i := 0; i < 256; i++ {
		require.Equal(t, uint8(i), s.rainbow.hue)
		Render(s, buf)
	}
	assert.Equal(t, uint8(0), s.rainbow.hue)
}

func TestChaseStreak(t *testing.T) {
	s := NewSession(Extended)
	s.Mode = 4
	buf := pixel.New(16)

	for n := 0; n < 40; n++ {
		head := s.chase.head
		require.Equal(t, n%16, head)
		Render(s, buf)
		lit := 0
		for i := range buf {
			if !buf[i].IsBlack() {
				lit++
			}
		}
		require.Equal(t, StreakLength, lit, "frame %d", n)
		assert.Equal(t, pixel.Gray(255), buf.At(head))
		assert.Equal(t, pixel.Gray(191), buf.At(head-1))
		assert.Equal(t, pixel.Gray(127), buf.At(head-2))
		assert.Equal(t, pixel.Gray(63), buf.At(head-3))
	}
}

func TestIdleLeavesBufferAlone(t *testing.T) {
	s := NewSession(Classic)
	buf := pixel.New(16)
	Render(s, buf) // steady white

	for _, m := range []int{-1, 4, 99, 1 << 20} {
		s.Mode = m
		f := Render(s, buf)
		assert.Equal(t, Idle, f.Kind)
		allEqual(t, buf, pixel.White)
	}
}

func TestShutterPlaysToCompletion(t *testing.T) {
	s := NewSession(Extended)
	s.Mode = 5
	buf := pixel.New(16)
	seq := NewSequence(Shutter, 16)

	for i := 0; i < seq.Len(); i++ {
		f := Render(s, buf)
		assert.True(t, f.Sub)
		assert.Equal(t, Shutter, f.Kind)
		if i == 0 {
			allEqual(t, buf, pixel.White)
			// a mode change mid-animation does not interrupt it
			s.Mode = 0
		}
		assert.Equal(t, i < seq.Len()-1, s.Busy(), "sub-frame %d", i)
	}
	allEqual(t, buf, pixel.Black)

	f := Render(s, buf)
	assert.Equal(t, Off, f.Kind)
	assert.False(t, f.Sub)
}

func TestShutterRestartsWhileSelected(t *testing.T) {
	s := NewSession(Extended)
	s.Mode = 5
	buf := pixel.New(16)
	n := NewSequence(Shutter, 16).Len()
	for i := 0; i < n; i++ {
		Render(s, buf)
	}
	require.False(t, s.Busy())
	Render(s, buf)
	assert.True(t, s.Busy())
	allEqual(t, buf, pixel.White)
}

func TestPulseRamp(t *testing.T) {
	s := NewSession(Extended)
	s.Mode = 6
	buf := pixel.New(16)
	seq := NewSequence(Pulse, 16)
	require.Equal(t, 31, seq.Len())

	var levels []uint8
	for i := 0; i < seq.Len(); i++ {
		f := Render(s, buf)
		assert.Equal(t, PulseHold, f.Hold)
		levels = append(levels, buf[0].R)
	}
	assert.Equal(t, uint8(0), levels[0])
	assert.Equal(t, uint8(255), levels[15])
	assert.Equal(t, uint8(238), levels[16])
	assert.Equal(t, uint8(0), levels[30])
	assert.False(t, s.Busy())
}
