package rotary

import (
	"errors"
	"fmt"
	"sync/atomic"

	"rotenc/quadrature"
)

const (
	// NoPin marks an absent button pin.
	NoPin = -1

	// DefaultCountsPerDetent matches PEC11-style parts: four raw steps per click.
	DefaultCountsPerDetent = 4
)

// DebugFunc is called once by Begin with the encoder's identity and channel pins.
type DebugFunc func(id, pinA, pinB int)

// Driver configures encoder lines and invokes isr on every edge of either channel.
type Driver interface {
	Attach(pinA, pinB int, isr func()) (Lines, error)
}

// Lines is an attached pair of channel lines.
type Lines interface {
	// Levels samples both channels.
	Levels() quadrature.State
	Close() error
}

// Config holds configuration for one encoder.
type Config struct {
	ID              int  `yaml:"id"`
	PinA            int  `yaml:"pin_a"`
	PinB            int  `yaml:"pin_b"`
	PinSW           *int `yaml:"pin_sw"`
	CountsPerDetent *int `yaml:"counts_per_detent"`
}

// Encoder decodes one quadrature encoder into a detent count.
//
// Clockwise rotation (00 -> 01 -> 11 -> 10) increments the count. If the
// wiring reports the opposite sense, swap PinA and PinB.
type Encoder struct {
	id              int
	pinA            int
	pinB            int
	pinSW           int
	countsPerDetent int64
	driver          Driver

	// Set once by Begin, before the encoder is registered.
	lines    Lines
	released bool

	// Owned by the edge handler once registered.
	dec quadrature.Decoder
	raw atomic.Int64
}

// New validates the configuration and returns an inactive encoder.
// pinSW may be NoPin. Call Begin to start decoding.
func New(id, pinA, pinB, pinSW, countsPerDetent int, d Driver) (*Encoder, error) {
	if id < 0 || id >= MaxEncoders {
		return nil, fmt.Errorf("%w: %d", ErrIdentity, id)
	}
	if pinA < 0 || pinB < 0 || pinA == pinB {
		return nil, fmt.Errorf("%w: a=%d b=%d", ErrInvalidPin, pinA, pinB)
	}
	if pinSW < NoPin || pinSW == pinA || pinSW == pinB {
		return nil, fmt.Errorf("%w: sw=%d", ErrInvalidPin, pinSW)
	}
	if countsPerDetent < 1 {
		return nil, fmt.Errorf("%w: %d", ErrCountsPerDetent, countsPerDetent)
	}
	if d == nil {
		return nil, ErrNoDriver
	}
	return &Encoder{
		id:              id,
		pinA:            pinA,
		pinB:            pinB,
		pinSW:           pinSW,
		countsPerDetent: int64(countsPerDetent),
		driver:          d,
	}, nil
}

// FromConfig builds an encoder from its file configuration.
// A missing pin_sw means no button; a missing counts_per_detent means the default.
func FromConfig(cfg Config, d Driver) (*Encoder, error) {
	sw := NoPin
	if cfg.PinSW != nil {
		sw = *cfg.PinSW
	}
	cpd := DefaultCountsPerDetent
	if cfg.CountsPerDetent != nil {
		cpd = *cfg.CountsPerDetent
	}
	return New(cfg.ID, cfg.PinA, cfg.PinB, sw, cpd, d)
}

// Begin attaches the channel lines, publishes the encoder for its identity
// and calls debug, if non-nil.
func (e *Encoder) Begin(debug DebugFunc) error {
	if e.lines != nil {
		return ErrAlreadyActive
	}
	if current := registry[e.id].Load(); current != nil {
		return fmt.Errorf("%w: %d", ErrIdentityInUse, e.id)
	}

	lines, err := e.driver.Attach(e.pinA, e.pinB, trampolines[e.id])
	if err != nil {
		return fmt.Errorf("attach encoder %d: %w", e.id, err)
	}
	e.lines = lines
	e.dec = quadrature.NewDecoder(lines.Levels())

	if !register(e) {
		// Lost the identity to a concurrent Begin; leave e retryable.
		e.lines = nil
		err := fmt.Errorf("%w: %d", ErrIdentityInUse, e.id)
		if cerr := lines.Close(); cerr != nil {
			return errors.Join(err, fmt.Errorf("close lines: %w", cerr))
		}
		return err
	}

	if debug != nil {
		debug(e.id, e.pinA, e.pinB)
	}
	return nil
}

// Release detaches the lines and frees the identity.
// A released encoder cannot be started again.
func (e *Encoder) Release() error {
	if e.lines == nil || e.released {
		return nil
	}
	unregister(e)
	e.released = true
	return e.lines.Close()
}

// Value returns the detent count. It is safe to call from any goroutine.
func (e *Encoder) Value() int64 {
	return e.raw.Load() / e.countsPerDetent
}

// Raw returns the count of single quadrature steps.
func (e *Encoder) Raw() int64 {
	return e.raw.Load()
}

// ID returns the encoder identity.
func (e *Encoder) ID() int { return e.id }

// Pins returns the channel and button pins.
func (e *Encoder) Pins() (pinA, pinB, pinSW int) {
	return e.pinA, e.pinB, e.pinSW
}

// CountsPerDetent returns the number of raw steps per detent.
func (e *Encoder) CountsPerDetent() int {
	return int(e.countsPerDetent)
}

// update runs on the edge handler.
func (e *Encoder) update(levels quadrature.State) {
	if dir := e.dec.Update(levels); dir != quadrature.None {
		e.raw.Add(int64(dir))
	}
}
