package report

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Reading is the detent count of one encoder.
type Reading struct {
	ID    int
	Value int64
}

// Reporter is the interface for value reporting implementations (console, serial port).
type Reporter interface {
	// Report emits one line of readings.
	Report(readings []Reading) error

	// Release releases any resources.
	Release() error
}

// Source returns the current readings.
type Source func() []Reading

// Config holds configuration for reporter implementations.
type Config struct {
	PollMS int    `yaml:"poll_ms"` // Report interval (default 100)
	Stdout *bool  `yaml:"stdout"`  // Print to stdout (default true)
	Serial string `yaml:"serial"`  // Serial console device (empty = not configured)
	Baud   int    `yaml:"baud"`    // Serial console baud rate (default 115200)
}

const (
	defaultPollMS = 100
	defaultBaud   = 115200
)

// Interval returns the configured report interval.
func (c Config) Interval() time.Duration {
	if c.PollMS <= 0 {
		return defaultPollMS * time.Millisecond
	}
	return time.Duration(c.PollMS) * time.Millisecond
}

// New creates a Reporter based on the provided configuration.
// Returns a Multi reporter if both stdout and a serial console are configured.
func New(cfg Config) (Reporter, error) {
	var reporters []Reporter

	if cfg.Stdout == nil || *cfg.Stdout {
		reporters = append(reporters, NewStdout())
	}

	if cfg.Serial != "" {
		baud := cfg.Baud
		if baud == 0 {
			baud = defaultBaud
		}
		s, err := NewSerial(cfg.Serial, baud)
		if err != nil {
			return nil, err
		}
		reporters = append(reporters, s)
	}

	if len(reporters) == 0 {
		return &Noop{}, nil
	}
	if len(reporters) == 1 {
		return reporters[0], nil
	}
	return &Multi{reporters: reporters}, nil
}

// Format renders readings as "Encoder0:    3 | Encoder1:   -1".
func Format(readings []Reading) string {
	var sb strings.Builder
	for i, r := range readings {
		if i > 0 {
			sb.WriteString(" | ")
		}
		fmt.Fprintf(&sb, "Encoder%d: %4d", r.ID, r.Value)
	}
	return sb.String()
}

// Run reports the source's readings every interval until ctx is cancelled.
func Run(ctx context.Context, r Reporter, interval time.Duration, src Source) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Report(src()); err != nil {
				log.Printf("Report: %v", err)
			}
		}
	}
}
