package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"rotenc/eventpipe"
	"rotenc/report"
	"rotenc/rotary"
)

// Config is the main configuration structure for rotenc.
type Config struct {
	// GPIO driver settings
	Driver DriverConfig `yaml:"driver"`

	// One entry per wired encoder
	Encoders []rotary.Config `yaml:"encoders"`

	// Value reporting
	Report report.Config `yaml:"report"`

	// Simulated transitions (sim driver only)
	EventPipe eventpipe.Config `yaml:"event_pipe"`
}

// DriverConfig selects how encoder lines are attached.
type DriverConfig struct {
	Type       string `yaml:"type"`        // "cdev" (default), "gpiomem", "sim"
	Chip       string `yaml:"chip"`        // cdev only, default "gpiochip0"
	DebounceUS int    `yaml:"debounce_us"` // cdev only, 0 = none
}

// LoadConfig reads and checks a YAML config file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) check() error {
	if len(c.Encoders) == 0 {
		return fmt.Errorf("no encoders in config file")
	}
	if c.EventPipe.Path != "" && c.Driver.Type != "sim" {
		return fmt.Errorf("event_pipe requires the sim driver, have %q", c.Driver.Type)
	}
	if c.Driver.DebounceUS < 0 {
		return fmt.Errorf("debounce_us must not be negative")
	}
	return nil
}
