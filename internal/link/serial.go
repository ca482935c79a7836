package link

import (
	"fmt"
	"io"

	"github.com/tarm/serial"
)

const DefaultBaud = 9600

// OpenSerial opens a serial port at baud, 8N1.
func OpenSerial(name string, baud int) (io.ReadWriteCloser, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	p, err := serial.OpenPort(&serial.Config{
		Name:     name,
		Baud:     baud,
		Size:     8,
		Parity:   serial.ParityNone,
		StopBits: serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	return p, nil
}

// Disabled reports whether a port name means "no port", the way the
// desktop client leaves it when nothing was configured.
func Disabled(name string) bool {
	return name == "" || name == "COM"
}
