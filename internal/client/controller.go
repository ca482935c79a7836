package client

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledring/internal/command"
	"github.com/coreman2200/ledring/internal/link"
)

const (
	// firstMode is where CycleMode starts counting; the first cycle sends 1.
	firstMode  = 4
	cycleModes = 4
)

// Controller sends commands to a ring. A Controller without a port is
// disabled and silently drops everything.
type Controller struct {
	mu         sync.Mutex
	w          io.Writer
	mode       int
	brightness int
}

// New wraps an already opened writer. A nil writer disables the controller.
func New(w io.Writer) *Controller {
	return &Controller{w: w, mode: firstMode, brightness: 255}
}

// Open connects to the named serial port. "" and "COM" disable control
// instead of failing.
func Open(port string, baud int) (*Controller, error) {
	if link.Disabled(port) {
		log.Info().Msg("no serial port given; LED control disabled")
		return New(nil), nil
	}
	p, err := link.OpenSerial(port, baud)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", port, err)
	}
	log.Info().Str("port", port).Int("baud", baud).Msg("connected")
	return New(p), nil
}

func (c *Controller) Enabled() bool { return c.w != nil }

// Send writes one command line, terminated with a newline.
func (c *Controller) Send(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(line)
}

func (c *Controller) send(line string) error {
	if c.w == nil {
		return nil
	}
	if _, err := io.WriteString(c.w, line+"\n"); err != nil {
		return fmt.Errorf("send %q: %w", line, err)
	}
	return nil
}

func (c *Controller) SetMode(m int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
	return c.send("mode " + strconv.Itoa(m) + ";")
}

func (c *Controller) SetBrightness(b int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.brightness = command.Clamp(b, 0, 255)
	return c.send("brightness " + strconv.Itoa(c.brightness) + ";")
}

// CycleMode advances through modes 1..4 and sends the new one.
func (c *Controller) CycleMode() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = (c.mode % cycleModes) + 1
	return c.mode, c.send("mode " + strconv.Itoa(c.mode) + ";")
}

func (c *Controller) Mode() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Brightness() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.brightness
}

func (c *Controller) Close() error {
	if cl, ok := c.w.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
