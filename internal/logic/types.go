// Package logic contains pure business logic for the medicine reminder:
// button debouncing, the alarm registry and scheduler, the menu state
// machine and the environment monitor. This package has NO external
// dependencies (no GPIO, MQTT, OS, or time.Sleep). Time is always
// injectable via time.Time parameters.
package logic

import "time"

// Button identifies a debounced button press event.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonUp
	ButtonDown
	ButtonOk
	ButtonCancel
)

func (b Button) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	case ButtonOk:
		return "ok"
	case ButtonCancel:
		return "cancel"
	default:
		return "INVALID"
	}
}

// Levels is a raw sample of the four button lines, already converted to
// logical form (true = pressed).
type Levels struct {
	Up     bool
	Down   bool
	Ok     bool
	Cancel bool
}

// Slot identifies one of the two alarm slots (1-based, matching the UI).
type Slot int

// NumSlots is the number of alarm slots the device supports.
const NumSlots = 2

// Alarm is one alarm slot. Clearing a slot deactivates it but keeps the
// stored time so re-opening the wizard preloads the previous value.
type Alarm struct {
	Hour   int
	Minute int
	Active bool
}

// RingPhase is the scheduler's lifecycle state.
type RingPhase uint8

const (
	RingIdle RingPhase = iota
	RingActive
	RingSnoozing
)

func (p RingPhase) String() string {
	switch p {
	case RingIdle:
		return "idle"
	case RingActive:
		return "ringing"
	case RingSnoozing:
		return "snoozing"
	default:
		return "INVALID"
	}
}

// WarningState classifies which environment bands are violated.
type WarningState uint8

const (
	WarningNone WarningState = iota
	WarningTemp
	WarningHumidity
	WarningBoth
)

func (w WarningState) String() string {
	switch w {
	case WarningNone:
		return "NONE"
	case WarningTemp:
		return "TEMP"
	case WarningHumidity:
		return "HUMIDITY"
	case WarningBoth:
		return "TEMP+HUMIDITY"
	default:
		return "INVALID"
	}
}

// Reading is one environment sample. Valid is false when the sensor read
// failed outright; NaN values on either channel are treated the same way.
type Reading struct {
	Temperature float64 // degrees Celsius
	Humidity    float64 // percent relative humidity
	Valid       bool
}

// Bands are the healthy environment ranges, inclusive.
type Bands struct {
	TempMin     float64
	TempMax     float64
	HumidityMin float64
	HumidityMax float64
}

// DefaultBands returns the healthy storage ranges for medicine:
// 24–32 degrees C and 65–80 %RH.
func DefaultBands() Bands {
	return Bands{TempMin: 24.0, TempMax: 32.0, HumidityMin: 65.0, HumidityMax: 80.0}
}

// EventType labels a controller event for telemetry.
type EventType string

const (
	EventAlarmRing    EventType = "ALARM_RING"
	EventAlarmStop    EventType = "ALARM_STOP"
	EventAlarmSnooze  EventType = "ALARM_SNOOZE"
	EventAlarmSet     EventType = "ALARM_SET"
	EventAlarmCleared EventType = "ALARM_CLEARED"
	EventTimezoneSet  EventType = "TZ_SET"
	EventEnvWarning   EventType = "ENV_WARNING"
	EventEnvCleared   EventType = "ENV_CLEARED"
)

// Event is a controller occurrence to be published.
// Only the fields relevant to the Type are populated.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Slot      Slot         // alarm events
	Hour      int          // AlarmSet
	Minute    int          // AlarmSet
	Offset    float64      // TimezoneSet (hours relative to UTC)
	Warning   WarningState // env events
	Reading   Reading      // env events
}

// EventCounts tracks the number of notable events since startup.
type EventCounts struct {
	Rings    int
	Stops    int
	Snoozes  int
	Sets     int
	Clears   int
	Warnings int
}
