//go:build linux

package rotary

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"rotenc/quadrature"
)

// Cdev attaches encoders through the GPIO character device.
type Cdev struct {
	chip     string
	debounce time.Duration
}

// NewCdev creates a character device driver for chip. A zero debounce
// leaves edge filtering entirely to the decoder.
func NewCdev(chip string, debounce time.Duration) (*Cdev, error) {
	if chip == "" {
		chip = "gpiochip0"
	}
	return &Cdev{chip: chip, debounce: debounce}, nil
}

type cdevLines struct {
	lines  *gpiocdev.Lines
	pinA   int
	pinB   int
	isr    func()
	levels atomic.Uint32
}

// Attach implements Driver.Attach. Both lines are requested together as
// pulled-up inputs reporting both edges.
func (c *Cdev) Attach(pinA, pinB int, isr func()) (Lines, error) {
	l := &cdevLines{
		pinA: pinA,
		pinB: pinB,
		isr:  isr,
	}

	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(l.handleEvent),
	}
	if c.debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(c.debounce))
	}

	var err error
	l.lines, err = gpiocdev.RequestLines(c.chip, []int{pinA, pinB}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s lines %d,%d: %v", ErrInvalidPin, c.chip, pinA, pinB, err)
	}

	vals := make([]int, 2)
	if err := l.lines.Values(vals); err != nil {
		l.lines.Close()
		return nil, fmt.Errorf("read %s lines %d,%d: %w", c.chip, pinA, pinB, err)
	}
	l.levels.Store(uint32(quadrature.Levels(vals[0], vals[1])))

	return l, nil
}

// handleEvent tracks the level of the line that moved, then runs the
// encoder's edge handler.
func (l *cdevLines) handleEvent(evt gpiocdev.LineEvent) {
	var level int
	if evt.Type == gpiocdev.LineEventRisingEdge {
		level = 1
	} else if evt.Type != gpiocdev.LineEventFallingEdge {
		return
	}

	cur := quadrature.State(l.levels.Load())
	a, b := cur.A(), cur.B()
	switch evt.Offset {
	case l.pinA:
		a = level
	case l.pinB:
		b = level
	default:
		return
	}
	l.levels.Store(uint32(quadrature.Levels(a, b)))

	l.isr()
}

// Levels implements Lines.Levels.
func (l *cdevLines) Levels() quadrature.State {
	return quadrature.State(l.levels.Load())
}

// Close implements Lines.Close.
func (l *cdevLines) Close() error {
	return l.lines.Close()
}
