//go:build tinygo

package main

import (
	"image/color"
	"machine"
	"time"

	"github.com/rs/zerolog/log"
	"tinygo.org/x/drivers/ws2812"

	"github.com/coreman2200/ledring/internal/anim"
	"github.com/coreman2200/ledring/internal/command"
	"github.com/coreman2200/ledring/internal/pixel"
)

const (
	frameInterval = 50 * time.Millisecond
	maxLine       = 64
)

// lineReader collects UART bytes into lines without blocking.
type lineReader struct {
	uart *machine.UART
	buf  []byte
}

func (r *lineReader) poll() (string, bool) {
	for r.uart.Buffered() > 0 {
		b, err := r.uart.ReadByte()
		if err != nil {
			return "", false
		}
		switch b {
		case '\n':
			line := string(r.buf)
			r.buf = r.buf[:0]
			return line, true
		case '\r':
		default:
			if len(r.buf) < maxLine {
				r.buf = append(r.buf, b)
			}
		}
	}
	return "", false
}

func main() {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 9600,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	pin := machine.GP2
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	strip := ws2812.New(pin)

	session := anim.NewSession(anim.Classic)
	buf := pixel.New(pixel.DefaultCount)
	colors := make([]color.RGBA, buf.Len())
	in := &lineReader{uart: uart}
	ackFailed := false

	for {
		if !session.Busy() {
			if line, ok := in.poll(); ok {
				if c, ok := command.Parse(line); ok {
					if _, err := uart.Write([]byte(c.Apply(session) + "\r\n")); err != nil && !ackFailed {
						log.Debug().Err(err).Msg("ack write")
						ackFailed = true
					}
				}
			}
		}

		f := anim.Render(session, buf)
		for i, c := range buf.Scaled(session.Brightness) {
			colors[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
		}
		strip.WriteColors(colors)

		if f.Sub {
			time.Sleep(f.Hold)
		} else {
			time.Sleep(frameInterval + f.Hold)
		}
	}
}
