package main

import (
	"fmt"
	"time"

	"rotenc/rotary"
)

// newDriver returns the configured driver and a function releasing it.
// The *rotary.Sim is non-nil only for the sim driver.
func newDriver(cfg DriverConfig) (rotary.Driver, *rotary.Sim, func() error, error) {
	nop := func() error { return nil }

	switch cfg.Type {
	case "", "cdev":
		d, err := rotary.NewCdev(cfg.Chip, time.Duration(cfg.DebounceUS)*time.Microsecond)
		if err != nil {
			return nil, nil, nil, err
		}
		return d, nil, nop, nil
	case "gpiomem":
		d, err := rotary.OpenGPIOMem()
		if err != nil {
			return nil, nil, nil, err
		}
		return d, nil, d.Close, nil
	case "sim":
		s := rotary.NewSim()
		return s, s, nop, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown driver type %q", cfg.Type)
	}
}
