package display

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"
)

const DefaultFreq = 2500 * physic.KiloHertz

// NewNRZ drives WS2812-style LEDs through an already opened SPI port.
func NewNRZ(p spi.Port, n int, freq physic.Frequency) (*Strip, error) {
	if freq == 0 {
		freq = DefaultFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: n,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &Strip{Name: "spi", Hardware: true, d: d}, nil
}

// NewConsole renders the ring as a row of colored blocks on the terminal.
func NewConsole(n int) *Strip {
	return &Strip{Name: "console", d: screen.New(n)}
}

// OpenSPI initializes the host, opens the named SPI port (empty picks the
// first one) and wraps it in an NRZ strip. When no port is available the
// console strip is returned instead, with Hardware unset.
func OpenSPI(dev string, n int, freq physic.Frequency) (*Strip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(dev)
	if err != nil {
		log.Warn().Err(err).Str("dev", dev).Msg("no SPI port found; drawing to the console")
		return NewConsole(n), nil
	}
	s, err := NewNRZ(p, n, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	if err := s.d.Halt(); err != nil {
		log.Warn().Err(err).Msg("initial halt")
	}
	s.closer = p
	return s, nil
}
