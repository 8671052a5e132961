package quadrature

import (
	"math/rand"
	"testing"
)

func TestStep_Table(t *testing.T) {
	tests := []struct {
		prev, next State
		want       Direction
	}{
		{Levels(0, 0), Levels(0, 1), Clockwise},
		{Levels(0, 1), Levels(1, 1), Clockwise},
		{Levels(1, 1), Levels(1, 0), Clockwise},
		{Levels(1, 0), Levels(0, 0), Clockwise},
		{Levels(0, 0), Levels(1, 0), CounterClockwise},
		{Levels(1, 0), Levels(1, 1), CounterClockwise},
		{Levels(1, 1), Levels(0, 1), CounterClockwise},
		{Levels(0, 1), Levels(0, 0), CounterClockwise},
		{Levels(0, 0), Levels(1, 1), None},
		{Levels(1, 1), Levels(0, 0), None},
		{Levels(0, 1), Levels(1, 0), None},
		{Levels(1, 0), Levels(0, 1), None},
	}
	for _, tt := range tests {
		if got := Step(tt.prev, tt.next); got != tt.want {
			t.Errorf("Step(%02b, %02b): expected %v, got %v", tt.prev, tt.next, tt.want, got)
		}
	}
	for s := State(0); s < 4; s++ {
		if got := Step(s, s); got != None {
			t.Errorf("Step(%02b, %02b): expected none for unchanged levels, got %v", s, s, got)
		}
	}
}

func TestLevels(t *testing.T) {
	s := Levels(1, 0)
	if s.A() != 1 || s.B() != 0 {
		t.Errorf("expected A=1 B=0, got A=%d B=%d", s.A(), s.B())
	}
	if Levels(5, -1) != Levels(1, 1) {
		t.Errorf("expected non-zero levels to read as high")
	}
}

func TestNext_WalksCycle(t *testing.T) {
	s := Levels(0, 0)
	want := []State{Levels(0, 1), Levels(1, 1), Levels(1, 0), Levels(0, 0)}
	for i, w := range want {
		s = Next(s, Clockwise)
		if s != w {
			t.Fatalf("cw step %d: expected %02b, got %02b", i, w, s)
		}
	}
	for i := 3; i >= 0; i-- {
		prev := s
		s = Next(s, CounterClockwise)
		if Step(prev, s) != CounterClockwise {
			t.Fatalf("ccw step from %02b to %02b not counter-clockwise", prev, s)
		}
	}
	if s != Levels(0, 0) {
		t.Errorf("expected to return to 00, got %02b", s)
	}
	if Next(s, None) != s {
		t.Errorf("expected None to keep state")
	}
}

func TestDecoder_InterleavedSteps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := NewDecoder(Levels(1, 1))
	s := d.State()
	var sum, cw, ccw int
	for i := 0; i < 1000; i++ {
		dir := Clockwise
		if rng.Intn(2) == 0 {
			dir = CounterClockwise
			ccw++
		} else {
			cw++
		}
		s = Next(s, dir)
		sum += int(d.Update(s))
	}
	if sum != cw-ccw {
		t.Errorf("expected %d, got %d", cw-ccw, sum)
	}
}

func TestDecoder_ResyncAfterGlitch(t *testing.T) {
	d := NewDecoder(Levels(0, 0))
	if dir := d.Update(Levels(1, 1)); dir != None {
		t.Errorf("expected dual-channel change to be ignored, got %v", dir)
	}
	if d.State() != Levels(1, 1) {
		t.Errorf("expected state to follow latest levels, got %02b", d.State())
	}
	// From 11, the next clockwise step is 10.
	if dir := d.Update(Levels(1, 0)); dir != Clockwise {
		t.Errorf("expected clockwise after resync, got %v", dir)
	}
}

func TestDirection_String(t *testing.T) {
	if Clockwise.String() != "cw" || CounterClockwise.String() != "ccw" || None.String() != "none" {
		t.Errorf("unexpected direction names: %s %s %s", Clockwise, CounterClockwise, None)
	}
}
