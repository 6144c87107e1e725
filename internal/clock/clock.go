// Package clock provides the wall-clock source for alarm matching and
// the clock screen. The device has no battery-backed RTC: until NTP has
// disciplined the system clock, time is reported as unavailable and the
// daemon keeps running without alarm matching.
package clock

import (
	"errors"
	"sync"
	"time"
)

// ErrNotSynced is returned while the system clock is still at its
// un-disciplined boot value.
var ErrNotSynced = errors.New("clock: not synced")

// Source supplies local wall-clock time.
type Source interface {
	// Now returns the local time with the configured offset applied,
	// or ErrNotSynced while the clock is unusable.
	Now() (time.Time, error)

	// SetOffset changes the UTC offset, in hours.
	SetOffset(hours float64)

	// Offset returns the configured UTC offset, in hours.
	Offset() float64
}

// A clock still near the epoch has not been disciplined yet. Boards
// without an RTC boot in 1970.
const syncFloorYear = 2020

// System reads the operating system clock and applies a fixed UTC
// offset. An optional resync hook runs after every offset change.
type System struct {
	mu     sync.Mutex
	offset float64
	resync func(hours float64)
}

// NewSystem creates a system clock source with the given initial
// offset. resync may be nil.
func NewSystem(offset float64, resync func(hours float64)) *System {
	return &System{offset: offset, resync: resync}
}

// Now returns the offset-adjusted wall time, or ErrNotSynced while the
// OS clock is still at its boot value.
func (s *System) Now() (time.Time, error) {
	now := time.Now()
	if now.Year() < syncFloorYear {
		return time.Time{}, ErrNotSynced
	}
	s.mu.Lock()
	offset := s.offset
	s.mu.Unlock()
	return now.UTC().Add(offsetDuration(offset)), nil
}

// SetOffset changes the UTC offset and triggers the resync hook.
func (s *System) SetOffset(hours float64) {
	s.mu.Lock()
	s.offset = hours
	hook := s.resync
	s.mu.Unlock()
	if hook != nil {
		hook(hours)
	}
}

// Offset returns the configured UTC offset.
func (s *System) Offset() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

func offsetDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
