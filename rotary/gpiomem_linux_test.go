//go:build linux

package rotary

import (
	"errors"
	"testing"

	"github.com/warthog618/gpio"
)

func TestCheckMemPins(t *testing.T) {
	tests := []struct {
		pins []int
		ok   bool
	}{
		{[]int{0, 1}, true},
		{[]int{17, 27}, true},
		{[]int{gpio.MaxGPIOPin - 1, 2}, true},
		{[]int{gpio.MaxGPIOPin, 2}, false},
		{[]int{2, 60}, false},
		{[]int{-1, 2}, false},
	}
	for _, tt := range tests {
		err := checkMemPins(tt.pins...)
		if tt.ok && err != nil {
			t.Errorf("%v: unexpected error: %v", tt.pins, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidPin) {
			t.Errorf("%v: expected ErrInvalidPin, got %v", tt.pins, err)
		}
	}
}

func TestGPIOMem_AttachOutOfRange(t *testing.T) {
	// Rejected before any register access, so no mapping is needed.
	var g GPIOMem
	if _, err := g.Attach(60, 61, func() {}); !errors.Is(err, ErrInvalidPin) {
		t.Errorf("expected ErrInvalidPin, got %v", err)
	}

	e, err := New(5, 2, 60, NoPin, 4, &g)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Begin(nil); !errors.Is(err, ErrInvalidPin) {
		t.Errorf("expected ErrInvalidPin from Begin, got %v", err)
	}
	if registry[5].Load() != nil {
		t.Errorf("expected no registry entry after failed Begin")
	}
}
