//go:build linux

package actuator

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealDriver drives the LED and buzzer on actual hardware using the
// Linux GPIO character device.
type RealDriver struct {
	chip   *gpiocdev.Chip
	led    *gpiocdev.Line
	buzzer *gpiocdev.Line
}

// NewRealDriver requests both output lines, initially low.
func NewRealDriver(chipName string, pins Pins) (*RealDriver, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	led, err := chip.RequestLine(pins.LED, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request LED pin %d: %w", pins.LED, err)
	}

	buzzer, err := chip.RequestLine(pins.Buzzer, gpiocdev.AsOutput(0))
	if err != nil {
		led.Close()
		chip.Close()
		return nil, fmt.Errorf("request buzzer pin %d: %w", pins.Buzzer, err)
	}

	return &RealDriver{chip: chip, led: led, buzzer: buzzer}, nil
}

// SetLED drives the indicator LED.
func (d *RealDriver) SetLED(on bool) error {
	if err := d.led.SetValue(level(on)); err != nil {
		return fmt.Errorf("set LED: %w", err)
	}
	return nil
}

// SetBuzzer drives the buzzer.
func (d *RealDriver) SetBuzzer(on bool) error {
	if err := d.buzzer.SetValue(level(on)); err != nil {
		return fmt.Errorf("set buzzer: %w", err)
	}
	return nil
}

// Close drives both outputs low, reconfigures the lines back to inputs
// so nothing keeps sounding across a restart, and releases resources.
func (d *RealDriver) Close() error {
	var errs []error

	for _, out := range []struct {
		name string
		line *gpiocdev.Line
	}{
		{"LED", d.led},
		{"buzzer", d.buzzer},
	} {
		if out.line == nil {
			continue
		}
		if err := out.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("silence %s: %w", out.name, err))
		}
		if err := out.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s: %w", out.name, err))
		}
		if err := out.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", out.name, err))
		}
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func level(on bool) int {
	if on {
		return 1
	}
	return 0
}
