// Package config loads the daemon configuration from a YAML file.
// Every field has a default so the daemon runs with no config file at
// all; command-line flags override whatever the file provides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/medbox/internal/logic"
)

// ButtonPins holds the BCM line numbers for the four buttons.
type ButtonPins struct {
	Up     int `yaml:"up"`
	Down   int `yaml:"down"`
	Ok     int `yaml:"ok"`
	Cancel int `yaml:"cancel"`
}

// Bands are the healthy environment ranges, inclusive.
type Bands struct {
	TempMin     float64 `yaml:"temp_min"`
	TempMax     float64 `yaml:"temp_max"`
	HumidityMin float64 `yaml:"humidity_min"`
	HumidityMax float64 `yaml:"humidity_max"`
}

// Logic converts the YAML band config to the monitor's form.
func (b Bands) Logic() logic.Bands {
	return logic.Bands{
		TempMin:     b.TempMin,
		TempMax:     b.TempMax,
		HumidityMin: b.HumidityMin,
		HumidityMax: b.HumidityMax,
	}
}

// Config is the full daemon configuration.
type Config struct {
	Broker    string `yaml:"broker"`
	HTTPAddr  string `yaml:"http_addr"`
	StateFile string `yaml:"state_file"`

	PollMs     int64 `yaml:"poll_ms"`
	DebounceMs int64 `yaml:"debounce_ms"`
	SnoozeMs   int64 `yaml:"snooze_ms"`
	NoticeMs   int64 `yaml:"notice_ms"`

	// Timezone is the default offset in hours relative to UTC, applied
	// until the user sets one from the menu or a saved state overrides it.
	Timezone float64 `yaml:"timezone_offset_hours"`

	GPIOChip  string     `yaml:"gpio_chip"`
	I2CBus    string     `yaml:"i2c_bus"`
	Display   string     `yaml:"display"` // "oled" or "console"
	Buttons   ButtonPins `yaml:"buttons"`
	LEDPin    int        `yaml:"led_pin"`
	BuzzerPin int        `yaml:"buzzer_pin"`

	Bands Bands `yaml:"bands"`
}

// Default returns the configuration the daemon uses when no file or
// flags override it.
func Default() Config {
	bands := logic.DefaultBands()
	return Config{
		Broker:     "tcp://localhost:1883",
		HTTPAddr:   ":8080",
		StateFile:  "/var/lib/medbox/state.json",
		PollMs:     50,
		DebounceMs: 250,
		SnoozeMs:   5 * 60 * 1000,
		NoticeMs:   2000,
		Timezone:   0,
		GPIOChip:   "gpiochip0",
		I2CBus:     "1",
		Display:    "oled",
		Buttons:    ButtonPins{Up: 5, Down: 6, Ok: 13, Cancel: 19},
		LEDPin:     17,
		BuzzerPin:  27,
		Bands: Bands{
			TempMin:     bands.TempMin,
			TempMax:     bands.TempMax,
			HumidityMin: bands.HumidityMin,
			HumidityMax: bands.HumidityMax,
		},
	}
}

// Load reads a YAML config file. Missing keys keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config as YAML with owner-only permissions.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the daemon cannot run with.
func (c Config) Validate() error {
	if c.PollMs <= 0 {
		return fmt.Errorf("poll_ms must be positive, got %d", c.PollMs)
	}
	if c.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.DebounceMs)
	}
	if c.SnoozeMs <= 0 {
		return fmt.Errorf("snooze_ms must be positive, got %d", c.SnoozeMs)
	}
	if c.NoticeMs <= 0 {
		return fmt.Errorf("notice_ms must be positive, got %d", c.NoticeMs)
	}
	if c.Timezone < -12 || c.Timezone > 12 {
		return fmt.Errorf("timezone_offset_hours must be within [-12, 12], got %v", c.Timezone)
	}
	if c.Display != "oled" && c.Display != "console" {
		return fmt.Errorf("display must be %q or %q, got %q", "oled", "console", c.Display)
	}
	if c.Bands.TempMin > c.Bands.TempMax {
		return fmt.Errorf("bands: temp_min %v exceeds temp_max %v", c.Bands.TempMin, c.Bands.TempMax)
	}
	if c.Bands.HumidityMin > c.Bands.HumidityMax {
		return fmt.Errorf("bands: humidity_min %v exceeds humidity_max %v", c.Bands.HumidityMin, c.Bands.HumidityMax)
	}
	for _, pin := range []int{c.Buttons.Up, c.Buttons.Down, c.Buttons.Ok, c.Buttons.Cancel, c.LEDPin, c.BuzzerPin} {
		if pin < 0 {
			return fmt.Errorf("gpio pins must not be negative, got %d", pin)
		}
	}
	return nil
}
