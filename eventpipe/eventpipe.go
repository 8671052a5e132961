package eventpipe

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Config holds configuration for the event pipe.
type Config struct {
	Path string `yaml:"path"` // Path to named pipe (e.g., "/tmp/rotenc-events")
}

// CommandType identifies a pipe command.
type CommandType int

const (
	// CommandLevels sets both channels of an encoder at once.
	CommandLevels CommandType = iota
	// CommandSet sets one channel of an encoder.
	CommandSet
	// CommandTurn walks a number of Gray code steps.
	CommandTurn
)

// Channel names one encoder channel.
type Channel int

const (
	ChannelA Channel = iota
	ChannelB
)

// Command is one parsed line from the pipe.
type Command struct {
	Type    CommandType
	ID      int
	Channel Channel // CommandSet
	A, B    int     // CommandLevels: both levels; CommandSet: level in A
	Steps   int     // CommandTurn
}

// Handler is called for each command received from the pipe.
type Handler func(Command) error

// EventPipe listens for commands on a named pipe.
type EventPipe struct {
	path    string
	handler Handler
}

// New creates a new EventPipe. Returns nil if path is empty.
func New(cfg Config, handler Handler) (*EventPipe, error) {
	if cfg.Path == "" {
		return nil, nil
	}

	// Remove existing pipe if it exists
	os.Remove(cfg.Path)

	if err := syscall.Mkfifo(cfg.Path, 0666); err != nil {
		return nil, fmt.Errorf("create named pipe %s: %w", cfg.Path, err)
	}

	return &EventPipe{
		path:    cfg.Path,
		handler: handler,
	}, nil
}

// Run reads commands until ctx is cancelled. Each writer session is read to
// EOF, then the pipe is reopened for the next writer.
func (ep *EventPipe) Run(ctx context.Context) {
	log.Printf("Event pipe listening on %s", ep.path)

	stopped := make(chan struct{})
	defer close(stopped)

	// Opening a fifo blocks until a writer connects; keep poking it on
	// shutdown until Run has returned.
	go func() {
		<-ctx.Done()
		for {
			if f, err := os.OpenFile(ep.path, os.O_WRONLY|syscall.O_NONBLOCK, 0); err == nil {
				f.Close()
			}
			select {
			case <-stopped:
				return
			case <-time.After(10 * time.Millisecond):
			}
		}
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		file, err := os.OpenFile(ep.path, os.O_RDONLY, 0)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Event pipe open error: %v", err)
			continue
		}

		ep.read(ctx, file)
		file.Close()
	}
}

func (ep *EventPipe) read(ctx context.Context, file *os.File) {
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cmd, err := ParseLine(line)
		if err != nil {
			log.Printf("Event pipe parse error: %v", err)
			continue
		}

		if ep.handler != nil {
			if err := ep.handler(cmd); err != nil {
				log.Printf("Event pipe command %q: %v", line, err)
			}
		}
	}
}

// Close removes the pipe.
func (ep *EventPipe) Close() error {
	return os.Remove(ep.path)
}

// ParseLine parses a command line into a Command.
// Command format:
//
//	levels <id> <a> <b>    - Set both channels at once
//	set <id> <a|b> <0|1>   - Set one channel
//	turn <id> <steps>      - Walk Gray code steps (negative = counter-clockwise)
func ParseLine(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "levels":
		if len(parts) != 4 {
			return Command{}, fmt.Errorf("levels requires <id> <a> <b>")
		}
		id, err := parseID(parts[1])
		if err != nil {
			return Command{}, err
		}
		a, err := parseLevel(parts[2])
		if err != nil {
			return Command{}, err
		}
		b, err := parseLevel(parts[3])
		if err != nil {
			return Command{}, err
		}
		return Command{Type: CommandLevels, ID: id, A: a, B: b}, nil

	case "set":
		if len(parts) != 4 {
			return Command{}, fmt.Errorf("set requires <id> <a|b> <0|1>")
		}
		id, err := parseID(parts[1])
		if err != nil {
			return Command{}, err
		}
		var ch Channel
		switch strings.ToLower(parts[2]) {
		case "a":
			ch = ChannelA
		case "b":
			ch = ChannelB
		default:
			return Command{}, fmt.Errorf("unknown channel: %s", parts[2])
		}
		level, err := parseLevel(parts[3])
		if err != nil {
			return Command{}, err
		}
		return Command{Type: CommandSet, ID: id, Channel: ch, A: level}, nil

	case "turn":
		if len(parts) != 3 {
			return Command{}, fmt.Errorf("turn requires <id> <steps>")
		}
		id, err := parseID(parts[1])
		if err != nil {
			return Command{}, err
		}
		steps, err := strconv.Atoi(parts[2])
		if err != nil {
			return Command{}, fmt.Errorf("invalid steps: %s", parts[2])
		}
		return Command{Type: CommandTurn, ID: id, Steps: steps}, nil

	default:
		return Command{}, fmt.Errorf("unknown command: %s", cmd)
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid encoder id: %s", s)
	}
	return id, nil
}

func parseLevel(s string) (int, error) {
	switch strings.ToLower(s) {
	case "0", "low", "false":
		return 0, nil
	case "1", "high", "true":
		return 1, nil
	default:
		return 0, fmt.Errorf("invalid level: %s", s)
	}
}
