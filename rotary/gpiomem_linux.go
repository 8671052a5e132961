//go:build linux

package rotary

import (
	"fmt"

	"github.com/warthog618/gpio"

	"rotenc/quadrature"
)

// GPIOMem attaches encoders through the Raspberry Pi memory-mapped GPIO
// registers. Edges are watched through sysfs by the gpio package.
type GPIOMem struct{}

// OpenGPIOMem maps the GPIO registers. Close unmaps them.
func OpenGPIOMem() (*GPIOMem, error) {
	if err := gpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpiomem: %w", err)
	}
	return &GPIOMem{}, nil
}

// Close releases the register mapping.
func (g *GPIOMem) Close() error {
	return gpio.Close()
}

type memLines struct {
	a     *gpio.Pin
	b     *gpio.Pin
	edges *edgeQueue
}

// checkMemPins rejects pins the register map does not cover.
func checkMemPins(pins ...int) error {
	for _, p := range pins {
		if p < 0 || p >= gpio.MaxGPIOPin {
			return fmt.Errorf("%w: pin %d outside 0-%d", ErrInvalidPin, p, gpio.MaxGPIOPin-1)
		}
	}
	return nil
}

// Attach implements Driver.Attach.
func (g *GPIOMem) Attach(pinA, pinB int, isr func()) (Lines, error) {
	if err := checkMemPins(pinA, pinB); err != nil {
		return nil, err
	}
	a := gpio.NewPin(pinA)
	b := gpio.NewPin(pinB)
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: a=%d b=%d", ErrInvalidPin, pinA, pinB)
	}
	a.Input()
	a.PullUp()
	b.Input()
	b.PullUp()

	// The gpio package runs every handler call on its own goroutine.
	edges := newEdgeQueue(isr)
	handler := func(*gpio.Pin) { edges.notify() }

	if err := a.Watch(gpio.EdgeBoth, handler); err != nil {
		edges.close()
		return nil, fmt.Errorf("%w: watch pin %d: %v", ErrInvalidPin, pinA, err)
	}
	if err := b.Watch(gpio.EdgeBoth, handler); err != nil {
		a.Unwatch()
		edges.close()
		return nil, fmt.Errorf("%w: watch pin %d: %v", ErrInvalidPin, pinB, err)
	}
	return &memLines{a: a, b: b, edges: edges}, nil
}

// Levels implements Lines.Levels.
func (l *memLines) Levels() quadrature.State {
	return quadrature.Levels(level(l.a), level(l.b))
}

// Close implements Lines.Close.
func (l *memLines) Close() error {
	l.a.Unwatch()
	l.b.Unwatch()
	l.edges.close()
	return nil
}

func level(p *gpio.Pin) int {
	if p.Read() == gpio.High {
		return 1
	}
	return 0
}
