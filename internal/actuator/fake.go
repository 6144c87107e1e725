package actuator

// FakeDriver records output levels for tests.
type FakeDriver struct {
	// LED and Buzzer hold the most recent levels set.
	LED    bool
	Buzzer bool

	// LEDChanges and BuzzerChanges record every level set, in order.
	LEDChanges    []bool
	BuzzerChanges []bool

	// Closed tracks if Close was called
	Closed bool

	// SetError, if set, will be returned by SetLED and SetBuzzer
	SetError error
}

// NewFakeDriver creates a FakeDriver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// SetLED records the LED level.
func (f *FakeDriver) SetLED(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.LED = on
	f.LEDChanges = append(f.LEDChanges, on)
	return nil
}

// SetBuzzer records the buzzer level.
func (f *FakeDriver) SetBuzzer(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Buzzer = on
	f.BuzzerChanges = append(f.BuzzerChanges, on)
	return nil
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.Closed = true
	return nil
}
