package command

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledring/internal/anim"
)

// Field is the piece of state a command changes.
type Field int

const (
	Brightness Field = iota + 1
	Mode
)

func (f Field) String() string {
	switch f {
	case Brightness:
		return "brightness"
	case Mode:
		return "mode"
	}
	return "unknown"
}

const (
	brightnessToken = "brightness"
	modeToken       = "mode"
)

type Command struct {
	Field Field
	Value int
}

// Parse recognizes a brightness or mode line. The value starts one byte
// past the keyword, whatever that byte is. It is read as a leading integer,
// and anything unparseable counts as 0.
func Parse(line string) (Command, bool) {
	switch {
	case strings.HasPrefix(line, brightnessToken):
		return Command{Field: Brightness, Value: ParseInt(after(line, len(brightnessToken)+1))}, true
	case strings.HasPrefix(line, modeToken):
		return Command{Field: Mode, Value: ParseInt(after(line, len(modeToken)+1))}, true
	}
	return Command{}, false
}

func after(s string, i int) string {
	if i >= len(s) {
		return ""
	}
	return s[i:]
}

// ParseInt reads a leading decimal integer the way C's atol does: leading
// whitespace and one sign are allowed, and parsing stops at the first
// non-digit. No digits means 0. Results saturate at the 32-bit range.
func ParseInt(s string) int {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	var n int64
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int64(s[i]-'0')
		if n > math.MaxInt32+1 {
			n = math.MaxInt32 + 1
		}
	}
	if neg {
		n = -n
	}
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	return int(n)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Apply mutates the session and returns the acknowledgement text.
func (c Command) Apply(s *anim.Session) string {
	switch c.Field {
	case Brightness:
		b := Clamp(c.Value, 0, 255)
		s.Brightness = uint8(b)
		return fmt.Sprintf("Brightness set to %d", b)
	case Mode:
		s.Mode = c.Value
		return fmt.Sprintf("Mode set to %d", c.Value)
	}
	return ""
}

// Interpreter applies command lines to a session and writes an
// acknowledgement for each one it recognizes.
type Interpreter struct {
	out io.Writer
	// EOL terminates each acknowledgement.
	EOL string
}

func NewInterpreter(out io.Writer) *Interpreter {
	if out == nil {
		out = io.Discard
	}
	return &Interpreter{out: out, EOL: "\r\n"}
}

// Handle parses one line and applies it. Unrecognized lines are dropped
// without output.
func (in *Interpreter) Handle(s *anim.Session, line string) (Command, bool) {
	c, ok := Parse(line)
	if !ok {
		return c, false
	}
	ack := c.Apply(s)
	log.Debug().Str("field", c.Field.String()).Int("value", c.Value).Msg(ack)
	if _, err := io.WriteString(in.out, ack+in.EOL); err != nil {
		log.Warn().Err(err).Msg("write acknowledgement")
	}
	return c, true
}
