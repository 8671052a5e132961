package report

import (
	"fmt"

	"github.com/tarm/serial"
)

// Serial implements Reporter on a serial console.
type Serial struct {
	port   *serial.Port
	device string
}

// NewSerial opens device at baud.
func NewSerial(device string, baud int) (*Serial, error) {
	c := &serial.Config{
		Name: device,
		Baud: baud,
	}
	port, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}

	return &Serial{port: port, device: device}, nil
}

// Report implements Reporter.Report. Lines end in CRLF for terminal emulators.
func (s *Serial) Report(readings []Reading) error {
	if _, err := s.port.Write([]byte(Format(readings) + "\r\n")); err != nil {
		return fmt.Errorf("write serial %s: %w", s.device, err)
	}
	return nil
}

// Release implements Reporter.Release.
func (s *Serial) Release() error {
	return s.port.Close()
}
