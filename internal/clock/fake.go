package clock

import "time"

// Fake is a test double with a settable current time.
type Fake struct {
	// Current is the UTC time Now() derives from.
	Current time.Time

	// Err, if set, will be returned by Now()
	Err error

	offset float64

	// Offsets records every offset set, in order.
	Offsets []float64
}

// NewFake creates a fake clock starting at the given UTC instant.
func NewFake(current time.Time) *Fake {
	return &Fake{Current: current}
}

// Now returns the current fake time with the offset applied.
func (f *Fake) Now() (time.Time, error) {
	if f.Err != nil {
		return time.Time{}, f.Err
	}
	return f.Current.UTC().Add(offsetDuration(f.offset)), nil
}

// SetOffset records the offset change.
func (f *Fake) SetOffset(hours float64) {
	f.offset = hours
	f.Offsets = append(f.Offsets, hours)
}

// Offset returns the configured offset.
func (f *Fake) Offset() float64 {
	return f.offset
}

// Advance moves the fake time forward.
func (f *Fake) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}
