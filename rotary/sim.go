package rotary

import (
	"fmt"
	"sync"

	"rotenc/quadrature"
)

// Sim is an in-memory Driver. Its lines idle high, as with pull-ups, and
// changing a level runs the owning encoder's edge handler on the caller's
// goroutine.
type Sim struct {
	mu     sync.Mutex
	levels map[int]int
	owners map[int]*simLines
	reject map[int]bool
}

type simLines struct {
	sim  *Sim
	pinA int
	pinB int
	isr  func()
}

// NewSim creates a simulated driver.
func NewSim() *Sim {
	return &Sim{
		levels: make(map[int]int),
		owners: make(map[int]*simLines),
		reject: make(map[int]bool),
	}
}

// Reject makes Attach fail for the given pins.
func (s *Sim) Reject(pins ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range pins {
		s.reject[p] = true
	}
}

// Attach implements Driver.Attach.
func (s *Sim) Attach(pinA, pinB int, isr func()) (Lines, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range []int{pinA, pinB} {
		if s.reject[p] {
			return nil, fmt.Errorf("%w: pin %d rejected", ErrInvalidPin, p)
		}
		if s.owners[p] != nil {
			return nil, fmt.Errorf("%w: pin %d busy", ErrInvalidPin, p)
		}
	}

	l := &simLines{sim: s, pinA: pinA, pinB: pinB, isr: isr}
	for _, p := range []int{pinA, pinB} {
		if _, ok := s.levels[p]; !ok {
			s.levels[p] = 1
		}
		s.owners[p] = l
	}
	return l, nil
}

// Level returns the simulated level of pin.
func (s *Sim) Level(pin int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level(pin)
}

func (s *Sim) level(pin int) int {
	if v, ok := s.levels[pin]; ok {
		return v
	}
	return 1
}

// Set drives pin to level and raises an edge if the level changed.
func (s *Sim) Set(pin, level int) {
	s.mu.Lock()
	changed := s.store(pin, level)
	l := s.owners[pin]
	s.mu.Unlock()

	if changed && l != nil {
		l.isr()
	}
}

// SetLevels drives both pins at once and raises a single edge.
func (s *Sim) SetLevels(pinA, pinB, a, b int) {
	s.mu.Lock()
	changedA := s.store(pinA, a)
	changedB := s.store(pinB, b)
	l := s.owners[pinA]
	if l == nil {
		l = s.owners[pinB]
	}
	s.mu.Unlock()

	if (changedA || changedB) && l != nil {
		l.isr()
	}
}

// Turn walks steps single-channel Gray code transitions on the pair.
// Positive steps turn clockwise, negative counter-clockwise.
func (s *Sim) Turn(pinA, pinB, steps int) {
	dir := quadrature.Clockwise
	if steps < 0 {
		dir = quadrature.CounterClockwise
		steps = -steps
	}
	for i := 0; i < steps; i++ {
		cur := quadrature.Levels(s.Level(pinA), s.Level(pinB))
		next := quadrature.Next(cur, dir)
		if next.A() != cur.A() {
			s.Set(pinA, next.A())
		} else {
			s.Set(pinB, next.B())
		}
	}
}

func (s *Sim) store(pin, level int) bool {
	if level != 0 {
		level = 1
	}
	if s.level(pin) == level {
		return false
	}
	s.levels[pin] = level
	return true
}

// Levels implements Lines.Levels.
func (l *simLines) Levels() quadrature.State {
	l.sim.mu.Lock()
	defer l.sim.mu.Unlock()
	return quadrature.Levels(l.sim.level(l.pinA), l.sim.level(l.pinB))
}

// Close implements Lines.Close.
func (l *simLines) Close() error {
	l.sim.mu.Lock()
	defer l.sim.mu.Unlock()
	for _, p := range []int{l.pinA, l.pinB} {
		if l.sim.owners[p] == l {
			delete(l.sim.owners, p)
		}
	}
	return nil
}
