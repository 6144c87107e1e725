//go:build !linux

package actuator

import "errors"

// RealDriver is not available on non-Linux platforms.
type RealDriver struct{}

// NewRealDriver returns an error on non-Linux platforms.
func NewRealDriver(chipName string, pins Pins) (*RealDriver, error) {
	return nil, errors.New("actuator: not supported on this platform (requires Linux)")
}

// SetLED is not implemented on non-Linux platforms.
func (d *RealDriver) SetLED(on bool) error {
	return errors.New("actuator: not supported")
}

// SetBuzzer is not implemented on non-Linux platforms.
func (d *RealDriver) SetBuzzer(on bool) error {
	return errors.New("actuator: not supported")
}

// Close is not implemented on non-Linux platforms.
func (d *RealDriver) Close() error {
	return nil
}
