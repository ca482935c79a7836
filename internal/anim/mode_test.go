package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTables(t *testing.T) {
	tests := []struct {
		v    Variant
		mode int
		want Kind
	}{
		{Classic, 0, Steady},
		{Classic, 1, Blink},
		{Classic, 2, Fade},
		{Classic, 3, Rainbow},
		{Classic, 4, Idle},
		{Extended, 0, Off},
		{Extended, 1, Steady},
		{Extended, 3, Rainbow},
		{Extended, 4, Chase},
		{Extended, 5, Shutter},
		{Extended, 6, Pulse},
		{Extended, 7, Idle},
		{Extended, -3, Idle},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.Resolve(tt.mode), "%s mode %d", tt.v, tt.mode)
	}
}

func TestBlinkUnreachableInExtended(t *testing.T) {
	for _, m := range Extended.Modes() {
		assert.NotEqual(t, Blink, Extended.Resolve(m))
	}
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, Classic, v)

	v, err = ParseVariant(" Extended ")
	require.NoError(t, err)
	assert.Equal(t, Extended, v)

	_, err = ParseVariant("disco")
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "rainbow", Rainbow.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
	assert.True(t, Pulse.Multiframe())
	assert.False(t, Chase.Multiframe())
}
