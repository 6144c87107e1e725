package logic

import "math"

// Monitor evaluates environment readings against healthy bands and
// tracks the active warning state.
type Monitor struct {
	bands Bands
	state WarningState
	last  Reading
}

// MonitorUpdate is the outcome of evaluating one reading.
type MonitorUpdate struct {
	State   WarningState
	Raised  bool // entered a warning, or the warning kind changed
	Cleared bool // returned to the healthy range
	Skipped bool // reading invalid, evaluation skipped
}

// NewMonitor creates a monitor with the given healthy bands.
func NewMonitor(bands Bands) *Monitor {
	return &Monitor{bands: bands}
}

// Evaluate classifies one reading. An invalid reading (failed read, or
// NaN on either channel) is a transient failure: the cycle is skipped
// and the previous warning state is kept.
func (m *Monitor) Evaluate(r Reading) MonitorUpdate {
	if !r.Valid || math.IsNaN(r.Temperature) || math.IsNaN(r.Humidity) {
		return MonitorUpdate{State: m.state, Skipped: true}
	}
	m.last = r

	tempBad := r.Temperature < m.bands.TempMin || r.Temperature > m.bands.TempMax
	humBad := r.Humidity < m.bands.HumidityMin || r.Humidity > m.bands.HumidityMax

	next := WarningNone
	switch {
	case tempBad && humBad:
		next = WarningBoth
	case tempBad:
		next = WarningTemp
	case humBad:
		next = WarningHumidity
	}

	prev := m.state
	m.state = next
	return MonitorUpdate{
		State:   next,
		Raised:  next != WarningNone && next != prev,
		Cleared: next == WarningNone && prev != WarningNone,
	}
}

// State returns the current warning state.
func (m *Monitor) State() WarningState {
	return m.state
}

// LastReading returns the most recent valid reading.
func (m *Monitor) LastReading() Reading {
	return m.last
}

// Bands returns the configured healthy bands.
func (m *Monitor) Bands() Bands {
	return m.bands
}
