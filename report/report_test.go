package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	got := Format([]Reading{{ID: 0, Value: 3}, {ID: 1, Value: -12}})
	want := "Encoder0:    3 | Encoder1:  -12"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if Format(nil) != "" {
		t.Errorf("expected empty line for no readings")
	}
}

func TestConsole_Report(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	if err := c.Report([]Reading{{ID: 2, Value: 10}}); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if buf.String() != "Encoder2:   10\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestNew_Selection(t *testing.T) {
	off := false
	r, err := New(Config{Stdout: &off})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := r.(*Noop); !ok {
		t.Errorf("expected Noop with no outputs, got %T", r)
	}

	r, err = New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := r.(*Console); !ok {
		t.Errorf("expected Console by default, got %T", r)
	}

	if _, err := New(Config{Serial: "/nonexistent/tty"}); err == nil {
		t.Errorf("expected error opening missing serial device")
	}
}

func TestConfig_Interval(t *testing.T) {
	if got := (Config{}).Interval(); got != 100*time.Millisecond {
		t.Errorf("expected default 100ms, got %v", got)
	}
	if got := (Config{PollMS: 250}).Interval(); got != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", got)
	}
}

type failing struct{}

func (failing) Report([]Reading) error { return errors.New("broken") }
func (failing) Release() error         { return errors.New("stuck") }

func TestMulti_JoinsErrors(t *testing.T) {
	var buf bytes.Buffer
	m := &Multi{reporters: []Reporter{NewConsole(&buf), failing{}}}
	err := m.Report([]Reading{{ID: 0, Value: 1}})
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Errorf("expected joined error, got %v", err)
	}
	if buf.Len() == 0 {
		t.Errorf("expected console output despite failing reporter")
	}
	if err := m.Release(); err == nil {
		t.Errorf("expected release error")
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRun(t *testing.T) {
	var out lockedBuffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Run(ctx, NewConsole(&out), 5*time.Millisecond, func() []Reading {
			return []Reading{{ID: 0, Value: 7}}
		})
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for strings.Count(out.String(), "\n") < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least two report lines, got %q", out.String())
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if !strings.HasPrefix(out.String(), "Encoder0:    7\n") {
		t.Errorf("unexpected output %q", out.String())
	}
}
