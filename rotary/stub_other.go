//go:build !linux

package rotary

import "time"

// Cdev is a stub for non-linux platforms.
type Cdev struct{}

// NewCdev returns ErrNotSupported on non-linux platforms.
func NewCdev(chip string, debounce time.Duration) (*Cdev, error) {
	return nil, ErrNotSupported
}

func (c *Cdev) Attach(pinA, pinB int, isr func()) (Lines, error) {
	return nil, ErrNotSupported
}

// GPIOMem is a stub for non-linux platforms.
type GPIOMem struct{}

// OpenGPIOMem returns ErrNotSupported on non-linux platforms.
func OpenGPIOMem() (*GPIOMem, error) {
	return nil, ErrNotSupported
}

func (g *GPIOMem) Attach(pinA, pinB int, isr func()) (Lines, error) {
	return nil, ErrNotSupported
}

func (g *GPIOMem) Close() error { return nil }
