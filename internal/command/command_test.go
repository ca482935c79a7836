package command

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledring/internal/anim"
	"github.com/coreman2200/ledring/internal/pixel"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"42", 42},
		{"255;", 255},
		{"  17", 17},
		{"-5", -5},
		{"+8", 8},
		{"abc", 0},
		{"12abc", 12},
		{"1 2", 1},
		{"-", 0},
		{"99999999999", math.MaxInt32},
		{"-99999999999", math.MinInt32},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseInt(tt.in), "ParseInt(%q)", tt.in)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		ok   bool
		want Command
	}{
		{"brightness 100", true, Command{Brightness, 100}},
		{"brightness 200;", true, Command{Brightness, 200}},
		{"brightness", true, Command{Brightness, 0}},
		{"brightness x", true, Command{Brightness, 0}},
		{"brightness:77", true, Command{Brightness, 77}},
		{"mode 3", true, Command{Mode, 3}},
		{"mode 4;\r", true, Command{Mode, 4}},
		{"mode -2", true, Command{Mode, -2}},
		{"mode", true, Command{Mode, 0}},
		{"Mode 3", false, Command{}},
		{" mode 3", false, Command{}},
		{"hello", false, Command{}},
		{"", false, Command{}},
	}
	for _, tt := range tests {
		c, ok := Parse(tt.line)
		require.Equal(t, tt.ok, ok, "Parse(%q)", tt.line)
		assert.Equal(t, tt.want, c, "Parse(%q)", tt.line)
	}
}

func TestBrightnessClamps(t *testing.T) {
	for _, b := range []int{-1000, -1, 0, 1, 154, 255, 256, 300, 1 << 30} {
		s := anim.NewSession(anim.Classic)
		Command{Brightness, b}.Apply(s)
		assert.Equal(t, uint8(Clamp(b, 0, 255)), s.Brightness, "brightness %d", b)
	}
}

func TestModeIsNotValidated(t *testing.T) {
	for _, m := range []int{-7, 0, 3, 6, 99, math.MaxInt32} {
		s := anim.NewSession(anim.Extended)
		ack := Command{Mode, m}.Apply(s)
		assert.Equal(t, m, s.Mode)
		assert.Contains(t, ack, "Mode set to")
	}
}

func TestInterpreterAcknowledges(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(&out)
	s := anim.NewSession(anim.Classic)

	_, ok := in.Handle(s, "brightness 300")
	require.True(t, ok)
	_, ok = in.Handle(s, "mode 3")
	require.True(t, ok)
	_, ok = in.Handle(s, "volume 11")
	require.False(t, ok)

	assert.Equal(t, "Brightness set to 255\r\nMode set to 3\r\n", out.String())
	assert.Equal(t, uint8(255), s.Brightness)
	assert.Equal(t, 3, s.Mode)
}

func TestNonNumericBrightnessIsZero(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(&out)
	s := anim.NewSession(anim.Classic)
	in.Handle(s, "brightness high")
	assert.Equal(t, uint8(0), s.Brightness)
	assert.Equal(t, "Brightness set to 0\r\n", out.String())
}

func TestOffThenBrightnessKeepsBufferDark(t *testing.T) {
	in := NewInterpreter(nil)
	s := anim.NewSession(anim.Extended)
	buf := pixel.New(16)

	in.Handle(s, "mode 0")
	in.Handle(s, "brightness 300")
	anim.Render(s, buf)

	assert.Equal(t, uint8(255), s.Brightness)
	assert.Equal(t, 0, s.Mode)
	for i := range buf {
		assert.True(t, buf[i].IsBlack())
	}
}
