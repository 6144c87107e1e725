// Package button provides button input reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package button

import "github.com/sweeney/medbox/internal/logic"

// Reader reads the raw levels of the four front-panel buttons.
type Reader interface {
	// Read returns the logical button levels (true = pressed).
	// The buttons are wired active-low with pull-ups: raw 0 = pressed.
	Read() (logic.Levels, error)

	// Close releases GPIO resources.
	Close() error
}

// Pins holds the BCM line numbers for the four buttons.
type Pins struct {
	Up     int
	Down   int
	Ok     int
	Cancel int
}

// DefaultPins returns the default wiring (BCM numbering).
func DefaultPins() Pins {
	return Pins{Up: 5, Down: 6, Ok: 13, Cancel: 19}
}
