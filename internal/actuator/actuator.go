// Package actuator drives the indicator LED and the buzzer.
// The real implementation uses the Linux GPIO character device.
// The fake implementation records levels for tests.
package actuator

// Driver sets the LED and buzzer output levels.
type Driver interface {
	// SetLED drives the indicator LED.
	SetLED(on bool) error

	// SetBuzzer drives the buzzer.
	SetBuzzer(on bool) error

	// Close silences both outputs and releases GPIO resources.
	Close() error
}

// Pins holds the BCM line numbers for the outputs.
type Pins struct {
	LED    int
	Buzzer int
}

// DefaultPins returns the default wiring (BCM numbering).
func DefaultPins() Pins {
	return Pins{LED: 17, Buzzer: 27}
}
