package logic

import (
	"fmt"
	"time"

	"github.com/sweeney/medbox/internal/screen"
)

// Main menu entries, in display order.
const (
	menuTimezone = iota
	menuAlarm1
	menuAlarm2
	menuViewAlarms
	menuDeleteAlarm
	menuBack
)

var mainMenuItems = []string{
	"Set Time Zone",
	"Set Alarm 1",
	"Set Alarm 2",
	"View Alarms",
	"Delete Alarm",
	"Back",
}

// Timezone offset limits and step, in hours relative to UTC.
const (
	tzStep = 0.5
	tzMin  = -12.0
	tzMax  = 12.0
)

// focus is the tagged variant of menu states. Exactly one focus is
// active at a time; ringing pre-empts focus without replacing it.
type focus interface {
	isFocus()
}

type focusNormal struct{}

type focusMainMenu struct {
	cursor int
}

type focusTimezone struct {
	pending float64
}

type focusSetAlarm struct {
	slot   Slot
	phase  screen.Phase
	hour   int
	minute int
}

type focusViewAlarms struct{}

type focusDeleteMenu struct {
	cursor int
}

type focusConfirmDelete struct {
	slot Slot
}

// focusNotice shows transient feedback and hands focus to next once the
// deadline passes. Button input is ignored while it is up.
type focusNotice struct {
	text  string
	until time.Time
	next  focus
}

func (focusNormal) isFocus()        {}
func (focusMainMenu) isFocus()      {}
func (focusTimezone) isFocus()      {}
func (focusSetAlarm) isFocus()      {}
func (focusViewAlarms) isFocus()    {}
func (focusDeleteMenu) isFocus()    {}
func (focusConfirmDelete) isFocus() {}
func (focusNotice) isFocus()        {}

// handleButton applies one debounced press to the current focus and
// returns any events the transition produced.
func (c *Controller) handleButton(btn Button, now time.Time) []Event {
	switch f := c.focus.(type) {
	case focusNormal:
		if btn == ButtonOk {
			c.focus = focusMainMenu{cursor: 0}
		}

	case focusMainMenu:
		switch btn {
		case ButtonUp:
			if f.cursor > 0 {
				f.cursor--
			}
			c.focus = f
		case ButtonDown:
			if f.cursor < len(mainMenuItems)-1 {
				f.cursor++
			}
			c.focus = f
		case ButtonOk:
			c.selectMainMenu(f.cursor)
		case ButtonCancel:
			c.focus = focusNormal{}
		}

	case focusTimezone:
		switch btn {
		case ButtonUp:
			f.pending = clampOffset(f.pending + tzStep)
			c.focus = f
		case ButtonDown:
			f.pending = clampOffset(f.pending - tzStep)
			c.focus = f
		case ButtonOk:
			c.timezone = f.pending
			c.focus = focusMainMenu{cursor: menuTimezone}
			return []Event{{Timestamp: now, Type: EventTimezoneSet, Offset: f.pending}}
		case ButtonCancel:
			c.focus = focusMainMenu{cursor: menuTimezone}
		}

	case focusSetAlarm:
		return c.handleSetAlarm(f, btn, now)

	case focusViewAlarms:
		if btn == ButtonOk || btn == ButtonCancel {
			c.focus = focusMainMenu{cursor: menuViewAlarms}
		}

	case focusDeleteMenu:
		return c.handleDeleteMenu(f, btn)

	case focusConfirmDelete:
		switch btn {
		case ButtonOk:
			c.registry.Clear(f.slot)
			c.counts.Clears++
			c.focus = focusNotice{
				text:  fmt.Sprintf("Alarm %d deleted", f.slot),
				until: now.Add(c.cfg.NoticeHold),
				next:  focusMainMenu{cursor: menuDeleteAlarm},
			}
			return []Event{{Timestamp: now, Type: EventAlarmCleared, Slot: f.slot}}
		case ButtonCancel:
			c.focus = focusDeleteMenu{cursor: 0}
		}

	case focusNotice:
		// Ignored; the notice clears itself on its deadline.
	}
	return nil
}

func (c *Controller) selectMainMenu(cursor int) {
	switch cursor {
	case menuTimezone:
		c.focus = focusTimezone{pending: c.timezone}
	case menuAlarm1, menuAlarm2:
		slot := Slot(cursor) // menuAlarm1 == 1, menuAlarm2 == 2
		stored := c.registry.Get(slot)
		c.focus = focusSetAlarm{
			slot:   slot,
			phase:  screen.PhaseHour,
			hour:   stored.Hour,
			minute: stored.Minute,
		}
	case menuViewAlarms:
		c.focus = focusViewAlarms{}
	case menuDeleteAlarm:
		c.focus = focusDeleteMenu{cursor: 0}
	case menuBack:
		c.focus = focusNormal{}
	}
}

func (c *Controller) handleSetAlarm(f focusSetAlarm, btn Button, now time.Time) []Event {
	switch f.phase {
	case screen.PhaseHour:
		switch btn {
		case ButtonUp:
			f.hour = (f.hour + 1) % 24
			c.focus = f
		case ButtonDown:
			f.hour = (f.hour + 23) % 24
			c.focus = f
		case ButtonOk:
			f.phase = screen.PhaseMinute
			c.focus = f
		case ButtonCancel:
			c.focus = focusMainMenu{cursor: int(f.slot)}
		}

	case screen.PhaseMinute:
		switch btn {
		case ButtonUp:
			f.minute = (f.minute + 1) % 60
			c.focus = f
		case ButtonDown:
			f.minute = (f.minute + 59) % 60
			c.focus = f
		case ButtonOk:
			c.registry.Set(f.slot, f.hour, f.minute)
			c.counts.Sets++
			c.focus = focusNotice{
				text:  fmt.Sprintf("Alarm %d set for %02d:%02d", f.slot, f.hour, f.minute),
				until: now.Add(c.cfg.NoticeHold),
				next:  focusMainMenu{cursor: int(f.slot)},
			}
			return []Event{{
				Timestamp: now,
				Type:      EventAlarmSet,
				Slot:      f.slot,
				Hour:      f.hour,
				Minute:    f.minute,
			}}
		case ButtonCancel:
			c.focus = focusMainMenu{cursor: int(f.slot)}
		}
	}
	return nil
}

func (c *Controller) handleDeleteMenu(f focusDeleteMenu, btn Button) []Event {
	items, slots := c.deleteEntries()
	if f.cursor >= len(items) {
		f.cursor = 0
	}

	switch btn {
	case ButtonUp:
		f.cursor = (f.cursor + len(items) - 1) % len(items)
		c.focus = f
	case ButtonDown:
		f.cursor = (f.cursor + 1) % len(items)
		c.focus = f
	case ButtonOk:
		if slots[f.cursor] == 0 {
			c.focus = focusMainMenu{cursor: menuDeleteAlarm}
		} else {
			c.focus = focusConfirmDelete{slot: slots[f.cursor]}
		}
	case ButtonCancel:
		c.focus = focusMainMenu{cursor: menuDeleteAlarm}
	}
	return nil
}

// deleteEntries builds the delete menu: one entry per active slot, then
// Back. Slot 0 marks the Back entry. Inactive slots never appear, so
// the cursor lands on Back when nothing is active.
func (c *Controller) deleteEntries() ([]string, []Slot) {
	var items []string
	var slots []Slot
	for _, s := range c.registry.ActiveSlots() {
		items = append(items, fmt.Sprintf("Alarm %d", s))
		slots = append(slots, s)
	}
	items = append(items, "Back")
	slots = append(slots, 0)
	return items, slots
}

func clampOffset(v float64) float64 {
	if v < tzMin {
		return tzMin
	}
	if v > tzMax {
		return tzMax
	}
	return v
}
