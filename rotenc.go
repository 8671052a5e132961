package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"rotenc/eventpipe"
	"rotenc/report"
	"rotenc/rotary"
)

var myBuild string

// App holds the application state and dependencies.
type App struct {
	cfg         *Config
	sim         *rotary.Sim
	closeDriver func() error
	encoders    []*rotary.Encoder
	byID        map[int]*rotary.Encoder
	reporter    report.Reporter
	pipe        *eventpipe.EventPipe
}

func main() {
	fmt.Printf("rotenc build %s\n", myBuild)

	cfgfile := flag.String("cfg", "rotenc.cfg", "Config file")
	flag.Parse()

	cfg, err := LoadConfig(*cfgfile)
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Init: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	fmt.Println("Shutting down...")
	cancel()
	<-done
	app.Release()
	fmt.Println("Shutdown complete")
}

// NewApp attaches every configured encoder and opens the reporter.
func NewApp(cfg *Config) (*App, error) {
	driver, sim, closeDriver, err := newDriver(cfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("init driver: %w", err)
	}

	app := &App{
		cfg:         cfg,
		sim:         sim,
		closeDriver: closeDriver,
		byID:        make(map[int]*rotary.Encoder),
	}

	for _, ec := range cfg.Encoders {
		e, err := rotary.FromConfig(ec, driver)
		if err != nil {
			app.Release()
			return nil, fmt.Errorf("encoder %d: %w", ec.ID, err)
		}
		if err := e.Begin(logEncoder); err != nil {
			app.Release()
			return nil, fmt.Errorf("begin encoder %d: %w", ec.ID, err)
		}
		app.encoders = append(app.encoders, e)
		app.byID[e.ID()] = e
	}

	app.reporter, err = report.New(cfg.Report)
	if err != nil {
		app.Release()
		return nil, fmt.Errorf("init report: %w", err)
	}

	app.pipe, err = eventpipe.New(cfg.EventPipe, app.handleCommand)
	if err != nil {
		app.Release()
		return nil, fmt.Errorf("init event pipe: %w", err)
	}

	return app, nil
}

// Run drives the event pipe and the reporter until ctx is cancelled, and
// returns once both have stopped. Call Release only after Run returns.
func (app *App) Run(ctx context.Context) {
	var wg sync.WaitGroup
	if app.pipe != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.pipe.Run(ctx)
		}()
	}
	report.Run(ctx, app.reporter, app.cfg.Report.Interval(), app.Readings)
	wg.Wait()
}

func logEncoder(id, pinA, pinB int) {
	log.Printf("Rotary encoder %d initialized on pins A=%d, B=%d", id, pinA, pinB)
}

// Readings returns the current value of every encoder, in config order.
func (app *App) Readings() []report.Reading {
	readings := make([]report.Reading, len(app.encoders))
	for i, e := range app.encoders {
		readings[i] = report.Reading{ID: e.ID(), Value: e.Value()}
	}
	return readings
}

// handleCommand drives the simulated lines of one encoder.
func (app *App) handleCommand(cmd eventpipe.Command) error {
	if app.sim == nil {
		return fmt.Errorf("event pipe needs the sim driver")
	}
	e, ok := app.byID[cmd.ID]
	if !ok {
		return fmt.Errorf("no encoder %d", cmd.ID)
	}
	pinA, pinB, _ := e.Pins()

	switch cmd.Type {
	case eventpipe.CommandLevels:
		app.sim.SetLevels(pinA, pinB, cmd.A, cmd.B)
	case eventpipe.CommandSet:
		pin := pinA
		if cmd.Channel == eventpipe.ChannelB {
			pin = pinB
		}
		app.sim.Set(pin, cmd.A)
	case eventpipe.CommandTurn:
		app.sim.Turn(pinA, pinB, cmd.Steps)
	default:
		return fmt.Errorf("unknown command type %d", cmd.Type)
	}
	return nil
}

// Release detaches all encoders and closes outputs.
func (app *App) Release() {
	if app.pipe != nil {
		app.pipe.Close()
	}
	if app.reporter != nil {
		app.reporter.Release()
	}
	for _, e := range app.encoders {
		if err := e.Release(); err != nil {
			log.Printf("Release encoder %d: %v", e.ID(), err)
		}
	}
	if app.closeDriver != nil {
		app.closeDriver()
	}
}
