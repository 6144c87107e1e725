// Package screen defines declarative descriptions of what the device display
// should show. Screens are plain values produced by the controller and
// consumed by render sinks; they carry no pixel-level detail.
package screen

import (
	"time"
)

// Screen is a tagged variant over everything the display can show.
type Screen interface {
	isScreen()
}

// Phase identifies which field of the alarm wizard is being edited.
type Phase uint8

const (
	PhaseHour Phase = iota
	PhaseMinute
)

func (p Phase) String() string {
	switch p {
	case PhaseHour:
		return "hour"
	case PhaseMinute:
		return "minute"
	default:
		return "INVALID"
	}
}

// Clock is the normal display: current wall-clock time, or a
// "time unavailable" form when the clock source is not synced.
type Clock struct {
	Time  time.Time
	Valid bool
}

// Menu is a cursor-driven list of entries.
type Menu struct {
	Title  string
	Items  []string
	Cursor int
}

// AlarmWizard is the hour/minute editing screen for one alarm slot.
type AlarmWizard struct {
	Slot   int
	Phase  Phase
	Hour   int
	Minute int
}

// AlarmEntry is one row of the alarm list.
type AlarmEntry struct {
	Slot   int
	Hour   int
	Minute int
}

// AlarmList is the read-only view of active alarms.
type AlarmList struct {
	Alarms []AlarmEntry
}

// DeleteMenu lists deletable alarms plus a Back entry.
type DeleteMenu struct {
	Items  []string
	Cursor int
}

// Confirm asks the user to confirm a destructive action.
type Confirm struct {
	Text string
}

// Notice is transient feedback ("Alarm 1 set for 09:30") that the
// controller clears on its own after a short hold.
type Notice struct {
	Text string
}

// Timezone is the UTC-offset editing screen.
type Timezone struct {
	Offset float64
}

// Warning reports an out-of-band environment reading together with the
// healthy bands that were violated.
type Warning struct {
	TempWarning     bool
	HumidityWarning bool
	Temperature     float64
	Humidity        float64
	TempMin         float64
	TempMax         float64
	HumidityMin     float64
	HumidityMax     float64
}

// Ringing is the alarm screen. It pre-empts everything else.
type Ringing struct {
	Slot int
}

func (Clock) isScreen()       {}
func (Menu) isScreen()        {}
func (AlarmWizard) isScreen() {}
func (AlarmList) isScreen()   {}
func (DeleteMenu) isScreen()  {}
func (Confirm) isScreen()     {}
func (Notice) isScreen()      {}
func (Timezone) isScreen()    {}
func (Warning) isScreen()     {}
func (Ringing) isScreen()     {}

// Equal reports whether two screens would display identically.
// Used by sinks and the controller to gate redraws.
func Equal(a, b Screen) bool {
	switch av := a.(type) {
	case Clock:
		bv, ok := b.(Clock)
		if !ok {
			return false
		}
		if av.Valid != bv.Valid {
			return false
		}
		if !av.Valid {
			return true
		}
		return av.Time.Truncate(time.Second).Equal(bv.Time.Truncate(time.Second))
	case Menu:
		bv, ok := b.(Menu)
		return ok && av.Title == bv.Title && av.Cursor == bv.Cursor && stringsEqual(av.Items, bv.Items)
	case AlarmWizard:
		bv, ok := b.(AlarmWizard)
		return ok && av == bv
	case AlarmList:
		bv, ok := b.(AlarmList)
		if !ok || len(av.Alarms) != len(bv.Alarms) {
			return false
		}
		for i := range av.Alarms {
			if av.Alarms[i] != bv.Alarms[i] {
				return false
			}
		}
		return true
	case DeleteMenu:
		bv, ok := b.(DeleteMenu)
		return ok && av.Cursor == bv.Cursor && stringsEqual(av.Items, bv.Items)
	case Confirm:
		bv, ok := b.(Confirm)
		return ok && av == bv
	case Notice:
		bv, ok := b.(Notice)
		return ok && av == bv
	case Timezone:
		bv, ok := b.(Timezone)
		return ok && av == bv
	case Warning:
		bv, ok := b.(Warning)
		return ok && av == bv
	case Ringing:
		bv, ok := b.(Ringing)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		return false
	}
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
