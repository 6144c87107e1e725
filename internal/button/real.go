//go:build linux

package button

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/medbox/internal/logic"
)

// RealReader reads the buttons from actual hardware using the Linux
// GPIO character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines [4]*gpiocdev.Line // up, down, ok, cancel
}

// NewRealReader requests the four button lines as pulled-up inputs.
func NewRealReader(chipName string, pins Pins) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealReader{chip: chip}
	order := [4]struct {
		name string
		pin  int
	}{
		{"up", pins.Up},
		{"down", pins.Down},
		{"ok", pins.Ok},
		{"cancel", pins.Cancel},
	}

	for i, o := range order {
		line, err := chip.RequestLine(o.pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", o.name, o.pin, err)
		}
		r.lines[i] = line
	}
	return r, nil
}

// Read returns the logical button levels.
// Inverts raw GPIO: the lines are pulled up, so raw 0 = pressed.
func (r *RealReader) Read() (logic.Levels, error) {
	var raw [4]int
	names := [4]string{"up", "down", "ok", "cancel"}
	for i, line := range r.lines {
		v, err := line.Value()
		if err != nil {
			return logic.Levels{}, fmt.Errorf("read %s pin: %w", names[i], err)
		}
		raw[i] = v
	}
	return logic.Levels{
		Up:     raw[0] == 0,
		Down:   raw[1] == 0,
		Ok:     raw[2] == 0,
		Cancel: raw[3] == 0,
	}, nil
}

// Close releases GPIO resources. Lines are left as pulled-up inputs,
// which is already their requested configuration.
func (r *RealReader) Close() error {
	var errs []error
	for i, line := range r.lines {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button line %d: %w", i, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
