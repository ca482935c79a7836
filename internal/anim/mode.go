package anim

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the animation behavior a mode number resolves to.
type Kind int

const (
	// Idle is the explicit no-op for mode numbers with no matching behavior.
	// The buffer keeps whatever the last real mode left in it.
	Idle Kind = iota
	Off
	Steady
	Blink
	Fade
	Rainbow
	Chase
	Shutter
	Pulse
)

var kindNames = map[Kind]string{
	Idle:    "idle",
	Off:     "off",
	Steady:  "steady",
	Blink:   "blink",
	Fade:    "fade",
	Rainbow: "rainbow",
	Chase:   "chase",
	Shutter: "shutter",
	Pulse:   "pulse",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Multiframe reports whether the kind plays as a sequence of sub-frames.
func (k Kind) Multiframe() bool { return k == Shutter || k == Pulse }

// Variant selects which dispatch table maps mode numbers to kinds.
// The two tables come from two generations of the ring firmware and
// intentionally disagree: blink is unreachable in the extended one.
type Variant string

const (
	Classic  Variant = "classic"
	Extended Variant = "extended"
)

var tables = map[Variant]map[int]Kind{
	Classic: {
		0: Steady,
		1: Blink,
		2: Fade,
		3: Rainbow,
	},
	Extended: {
		0: Off,
		1: Steady,
		2: Fade,
		3: Rainbow,
		4: Chase,
		5: Shutter,
		6: Pulse,
	},
}

func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return Classic, nil
	}
	if _, ok := tables[v]; !ok {
		return "", fmt.Errorf("unknown variant %q", s)
	}
	return v, nil
}

// Resolve maps a raw mode number onto a kind. Unknown numbers, negative
// ones included, resolve to Idle.
func (v Variant) Resolve(mode int) Kind {
	t, ok := tables[v]
	if !ok {
		t = tables[Classic]
	}
	if k, ok := t[mode]; ok {
		return k
	}
	return Idle
}

// Modes lists the mode numbers the variant knows about, in order.
func (v Variant) Modes() []int {
	t := tables[v]
	out := make([]int, 0, len(t))
	for m := range t {
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}
