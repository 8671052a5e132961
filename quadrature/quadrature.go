// Package quadrature decodes two-channel Gray code from a rotary encoder.
package quadrature

// State holds the levels of both channels as A<<1 | B.
type State uint8

// Direction is the result of a single transition.
type Direction int8

const (
	None             Direction = 0
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

// String returns a short name for the direction.
func (d Direction) String() string {
	switch d {
	case Clockwise:
		return "cw"
	case CounterClockwise:
		return "ccw"
	default:
		return "none"
	}
}

// Levels packs two channel levels into a State. Any non-zero level is high.
func Levels(a, b int) State {
	var s State
	if a != 0 {
		s |= 2
	}
	if b != 0 {
		s |= 1
	}
	return s
}

// A returns the level of channel A.
func (s State) A() int { return int(s>>1) & 1 }

// B returns the level of channel B.
func (s State) B() int { return int(s) & 1 }

// Clockwise order is 00 -> 01 -> 11 -> 10 -> 00.
// Indexed by prev<<2 | next.
var table = [16]Direction{
	None, Clockwise, CounterClockwise, None,
	CounterClockwise, None, None, Clockwise,
	Clockwise, None, None, CounterClockwise,
	None, CounterClockwise, Clockwise, None,
}

// Step returns the direction of the transition from prev to next.
// Unchanged levels and changes of both channels at once return None.
func Step(prev, next State) Direction {
	return table[(prev&3)<<2|next&3]
}

// Next returns the state one step away from s in direction d.
func Next(s State, d Direction) State {
	i := cycleIndex[s&3]
	switch d {
	case Clockwise:
		i = (i + 1) % 4
	case CounterClockwise:
		i = (i + 3) % 4
	}
	return cycle[i]
}

var (
	cycle      = [4]State{0, 1, 3, 2}
	cycleIndex = [4]int{0, 1, 3, 2}
)

// Decoder tracks the previous channel state.
// It is not safe for concurrent use; one goroutine owns Update.
type Decoder struct {
	prev State
}

// NewDecoder returns a decoder starting from the given state.
func NewDecoder(initial State) Decoder {
	return Decoder{prev: initial & 3}
}

// Update consumes newly read levels and returns the resulting direction.
// The stored state follows next even when the transition is rejected.
func (d *Decoder) Update(next State) Direction {
	next &= 3
	dir := Step(d.prev, next)
	d.prev = next
	return dir
}

// State returns the last processed levels.
func (d *Decoder) State() State {
	return d.prev
}
