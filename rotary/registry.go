package rotary

import "sync/atomic"

// MaxEncoders is the number of encoder identities.
const MaxEncoders = 8

// registry maps each identity to its live encoder. Edge handlers have no
// context argument, so they reach their encoder through this table.
var registry [MaxEncoders]atomic.Pointer[Encoder]

// trampolines holds one edge handler per identity. Drivers call these.
var trampolines [MaxEncoders]func()

func init() {
	for id := range trampolines {
		id := id // per-iteration copy; go.mod targets go 1.21 loop semantics
		trampolines[id] = func() { dispatch(id) }
	}
}

// Interrupt runs the edge handler for identity id. It does nothing when id is
// out of range or no encoder has been started for it.
func Interrupt(id int) {
	if id < 0 || id >= MaxEncoders {
		return
	}
	trampolines[id]()
}

func dispatch(id int) {
	e := registry[id].Load()
	if e == nil {
		// Edge before Begin published the encoder.
		return
	}
	e.update(e.lines.Levels())
}

func register(e *Encoder) bool {
	return registry[e.id].CompareAndSwap(nil, e)
}

func unregister(e *Encoder) {
	registry[e.id].CompareAndSwap(e, nil)
}
