// Package config loads the buttond configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/tgould/buttond/internal/button"
	"github.com/tgould/buttond/internal/gpio"
)

// Config defines the struct of the global config and of the
// configuration file. All times are milliseconds, matching the tick
// base of the state machine.
type Config struct {
	// PollMs is the GPIO polling interval.
	PollMs int `yaml:"poll"`
	// HeartbeatMs is the interval of the retained heartbeat message.
	// Zero disables the heartbeat.
	HeartbeatMs int `yaml:"heartbeat"`
	// Broker is the MQTT broker address, e.g. tcp://192.168.1.200:1883.
	Broker string `yaml:"broker"`
	// HTTPAddr is the status server listen address. Empty disables it.
	HTTPAddr string `yaml:"http"`
	// Chip is the GPIO character device used by cdev-backed buttons.
	Chip string `yaml:"chip"`

	Buttons []ButtonConfig `yaml:"buttons"`
}

// ButtonConfig configures one physical button.
type ButtonConfig struct {
	Name string `yaml:"name"`
	// Pin is the BCM line offset.
	Pin int `yaml:"pin"`
	// Backend selects the pin access mechanism: cdev (default) or rpio.
	Backend string `yaml:"backend"`
	// ActiveHigh inverts the polarity; the default wiring is a
	// pulled-up line shorted to ground when pressed.
	ActiveHigh bool `yaml:"active_high"`

	// Zero timings fall back to the state machine defaults.
	DebounceMs        int `yaml:"debounce"`
	LongPressMs       int `yaml:"long_press"`
	RepeatMs          int `yaml:"repeat"`
	ReleaseDebounceMs int `yaml:"release_debounce"`
	BetweenClicksMs   int `yaml:"between_clicks"`
	IdleTimeoutMs     int `yaml:"idle_timeout"`

	// MultiClick is off (default), normal or combined.
	MultiClick string `yaml:"multi_click"`
	// OverflowReset discards combined-mode sequences beyond three
	// clicks instead of clamping them to a triple.
	OverflowReset      bool `yaml:"overflow_reset"`
	ReleaseAfterRepeat bool `yaml:"release_after_repeat"`
}

// NewConfig returns a Config with usable defaults.
func NewConfig() *Config {
	return &Config{
		PollMs:      5,
		HeartbeatMs: 15 * 60 * 1000,
		Broker:      "tcp://127.0.0.1:1883",
		HTTPAddr:    ":8080",
		Chip:        gpio.DefaultChip,
	}
}

// LoadConfig reads and validates the yaml configuration file, keeping
// defaults for fields the file does not set.
func (c *Config) LoadConfig(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", file, err)
	}
	return c.Validate()
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.PollMs <= 0 {
		return fmt.Errorf("poll must be positive, got %d", c.PollMs)
	}
	if len(c.Buttons) == 0 {
		return fmt.Errorf("no buttons configured")
	}

	seen := make(map[string]bool)
	for i, b := range c.Buttons {
		if b.Name == "" {
			return fmt.Errorf("button %d: name is required", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("button %d: duplicate name %q", i, b.Name)
		}
		seen[b.Name] = true
		if b.Pin < 0 {
			return fmt.Errorf("button %q: invalid pin %d", b.Name, b.Pin)
		}
		switch gpio.Backend(b.Backend) {
		case "", gpio.BackendCdev, gpio.BackendRpio:
		default:
			return fmt.Errorf("button %q: unknown backend %q", b.Name, b.Backend)
		}
		if _, err := b.MachineConfig(); err != nil {
			return fmt.Errorf("button %q: %w", b.Name, err)
		}
	}
	return nil
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

// HeartbeatInterval returns the heartbeat interval as a duration.
func (c *Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatMs) * time.Millisecond
}

// GpioBackend returns the configured backend, defaulting to cdev.
func (b ButtonConfig) GpioBackend() gpio.Backend {
	if b.Backend == "" {
		return gpio.BackendCdev
	}
	return gpio.Backend(b.Backend)
}

// MachineConfig translates the yaml entry into a state machine
// configuration, applying stock timings where the file is silent.
func (b ButtonConfig) MachineConfig() (button.Config, error) {
	cfg := button.DefaultConfig()

	if b.ActiveHigh {
		cfg.Polarity = button.ActiveHigh
	}
	if b.DebounceMs > 0 {
		cfg.Debounce = button.Ticks(b.DebounceMs)
	}
	if b.LongPressMs > 0 {
		cfg.LongPress = button.Ticks(b.LongPressMs)
	}
	if b.RepeatMs > 0 {
		cfg.Repeat = button.Ticks(b.RepeatMs)
	}
	if b.BetweenClicksMs > 0 {
		cfg.BetweenClicks = button.Ticks(b.BetweenClicksMs)
	}
	cfg.ReleaseDebounce = button.Ticks(b.ReleaseDebounceMs)
	cfg.IdleTimeout = button.Ticks(b.IdleTimeoutMs)
	cfg.ReleaseAfterRepeat = b.ReleaseAfterRepeat
	cfg.OverflowAsTriple = !b.OverflowReset

	switch b.MultiClick {
	case "", "off":
		cfg.MultiClick = button.MultiClickOff
	case "normal":
		cfg.MultiClick = button.MultiClickNormal
	case "combined":
		cfg.MultiClick = button.MultiClickCombined
	default:
		return cfg, fmt.Errorf("unknown multi_click mode %q", b.MultiClick)
	}
	return cfg, nil
}
