package logic

import (
	"fmt"
	"time"

	"github.com/sweeney/medbox/internal/screen"
)

// Defaults for the controller's timing knobs.
const (
	DefaultDebounce   = 250 * time.Millisecond
	DefaultSnooze     = 5 * time.Minute
	DefaultNoticeHold = 2 * time.Second
)

// warnPulse is the on-time of the single LED+buzzer pulse emitted when
// an environment warning is raised. The matching off-time is simply the
// absence that follows.
const warnPulse = 500 * time.Millisecond

// Config carries the controller's tunable parameters. Zero values fall
// back to the defaults above (bands fall back to DefaultBands).
type Config struct {
	Debounce   time.Duration
	Snooze     time.Duration
	NoticeHold time.Duration
	Bands      Bands
	Timezone   float64 // initial offset, hours relative to UTC
}

// Input is everything the controller sees on one tick.
type Input struct {
	// Now is the process time used for all duration arithmetic
	// (debounce, snooze, notices, pulses).
	Now time.Time
	// Wall is the local wall-clock time (timezone offset applied) used
	// for alarm matching and the clock screen. Ignored when WallValid
	// is false.
	Wall      time.Time
	WallValid bool
	Levels    Levels
	Env       Reading
}

// Output is the controller's decision for one tick.
type Output struct {
	Screen screen.Screen
	LED    bool
	Buzzer bool
	// Redraw is true when Screen differs from the previous tick's;
	// sinks should not repaint otherwise.
	Redraw bool
	Events []Event
}

// Controller owns all reminder state: the debouncer, alarm registry,
// scheduler, menu focus and environment monitor. It performs no I/O
// and never blocks; each Tick maps one input sample to one output.
type Controller struct {
	cfg       Config
	debouncer *Debouncer
	registry  Registry
	scheduler *Scheduler
	monitor   *Monitor
	focus     focus
	timezone  float64
	counts    EventCounts

	warnPulseAt time.Time
	warnPulseOn bool
	lastScreen  screen.Screen
}

// NewController creates a controller. It starts on a short boot notice,
// then falls through to the normal clock display.
func NewController(cfg Config) *Controller {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Snooze <= 0 {
		cfg.Snooze = DefaultSnooze
	}
	if cfg.NoticeHold <= 0 {
		cfg.NoticeHold = DefaultNoticeHold
	}
	if cfg.Bands == (Bands{}) {
		cfg.Bands = DefaultBands()
	}
	return &Controller{
		cfg:       cfg,
		debouncer: NewDebouncer(cfg.Debounce),
		scheduler: NewScheduler(cfg.Snooze),
		monitor:   NewMonitor(cfg.Bands),
		focus:     focusNotice{text: "Medibox ready", next: focusNormal{}},
		timezone:  cfg.Timezone,
	}
}

// Restore loads persisted alarms and timezone offset. Call before the
// first Tick.
func (c *Controller) Restore(alarms [NumSlots]Alarm, offset float64) {
	c.registry.Restore(alarms)
	c.timezone = clampOffset(offset)
}

// Tick advances the controller by one poll cycle:
// debounce input, scheduler, menu, monitor, render decision.
func (c *Controller) Tick(in Input) Output {
	var events []Event

	btn := c.debouncer.Step(in.Levels, in.Now)

	// Boot notice gets its deadline on the first tick; later notices
	// carry one already.
	if n, ok := c.focus.(focusNotice); ok {
		if n.until.IsZero() {
			n.until = in.Now.Add(c.cfg.NoticeHold)
			c.focus = n
		} else if !in.Now.Before(n.until) {
			c.focus = n.next
		}
	}

	if c.scheduler.Step(&c.registry, in.Wall, in.WallValid, in.Now) {
		c.counts.Rings++
		events = append(events, Event{
			Timestamp: in.Now,
			Type:      EventAlarmRing,
			Slot:      c.scheduler.Slot(),
		})
	}

	if c.scheduler.Ringing() {
		// Ringing pre-empts the menu: Cancel stops, Up snoozes,
		// everything else is ignored.
		switch btn {
		case ButtonCancel:
			slot := c.scheduler.Slot()
			c.scheduler.Stop()
			c.counts.Stops++
			c.focus = focusNormal{}
			events = append(events, Event{Timestamp: in.Now, Type: EventAlarmStop, Slot: slot})
		case ButtonUp:
			slot := c.scheduler.Slot()
			c.scheduler.Snooze(in.Now)
			c.counts.Snoozes++
			c.focus = focusNormal{}
			events = append(events, Event{Timestamp: in.Now, Type: EventAlarmSnooze, Slot: slot})
		}
	} else if btn != ButtonNone {
		events = append(events, c.handleButton(btn, in.Now)...)
	}

	upd := c.monitor.Evaluate(in.Env)
	if upd.Raised {
		c.counts.Warnings++
		c.warnPulseAt = in.Now
		c.warnPulseOn = true
		events = append(events, Event{
			Timestamp: in.Now,
			Type:      EventEnvWarning,
			Warning:   upd.State,
			Reading:   in.Env,
		})
	}
	if upd.Cleared {
		c.warnPulseOn = false
		events = append(events, Event{Timestamp: in.Now, Type: EventEnvCleared, Reading: in.Env})
	}

	scr := c.currentScreen(in)
	led, buzzer := c.actuation(in.Now)
	redraw := !screen.Equal(scr, c.lastScreen)
	c.lastScreen = scr

	return Output{
		Screen: scr,
		LED:    led,
		Buzzer: buzzer,
		Redraw: redraw,
		Events: events,
	}
}

func (c *Controller) currentScreen(in Input) screen.Screen {
	if c.scheduler.Ringing() {
		return screen.Ringing{Slot: int(c.scheduler.Slot())}
	}

	switch f := c.focus.(type) {
	case focusNormal:
		if st := c.monitor.State(); st != WarningNone {
			r := c.monitor.LastReading()
			b := c.monitor.Bands()
			return screen.Warning{
				TempWarning:     st == WarningTemp || st == WarningBoth,
				HumidityWarning: st == WarningHumidity || st == WarningBoth,
				Temperature:     r.Temperature,
				Humidity:        r.Humidity,
				TempMin:         b.TempMin,
				TempMax:         b.TempMax,
				HumidityMin:     b.HumidityMin,
				HumidityMax:     b.HumidityMax,
			}
		}
		return screen.Clock{Time: in.Wall.Truncate(time.Second), Valid: in.WallValid}

	case focusMainMenu:
		return screen.Menu{Title: "Menu", Items: mainMenuItems, Cursor: f.cursor}

	case focusTimezone:
		return screen.Timezone{Offset: f.pending}

	case focusSetAlarm:
		return screen.AlarmWizard{
			Slot:   int(f.slot),
			Phase:  f.phase,
			Hour:   f.hour,
			Minute: f.minute,
		}

	case focusViewAlarms:
		var entries []screen.AlarmEntry
		for _, s := range c.registry.ActiveSlots() {
			a := c.registry.Get(s)
			entries = append(entries, screen.AlarmEntry{Slot: int(s), Hour: a.Hour, Minute: a.Minute})
		}
		return screen.AlarmList{Alarms: entries}

	case focusDeleteMenu:
		items, _ := c.deleteEntries()
		cursor := f.cursor
		if cursor >= len(items) {
			cursor = 0
		}
		return screen.DeleteMenu{Items: items, Cursor: cursor}

	case focusConfirmDelete:
		return screen.Confirm{Text: fmt.Sprintf("Delete Alarm %d?", f.slot)}

	case focusNotice:
		return screen.Notice{Text: f.text}
	}

	return screen.Clock{Time: in.Wall.Truncate(time.Second), Valid: in.WallValid}
}

func (c *Controller) actuation(now time.Time) (led, buzzer bool) {
	if c.scheduler.Ringing() {
		return true, c.scheduler.Buzzing(now)
	}
	if c.warnPulseOn {
		if now.Sub(c.warnPulseAt) < warnPulse {
			return true, true
		}
		c.warnPulseOn = false
	}
	return false, false
}

// Timezone returns the committed offset in hours relative to UTC.
func (c *Controller) Timezone() float64 {
	return c.timezone
}

// Alarms returns a copy of all alarm slots.
func (c *Controller) Alarms() [NumSlots]Alarm {
	return c.registry.Snapshot()
}

// RingState returns the scheduler phase and the slot it concerns.
func (c *Controller) RingState() (RingPhase, Slot) {
	return c.scheduler.Phase(), c.scheduler.Slot()
}

// Warning returns the current environment warning state.
func (c *Controller) Warning() WarningState {
	return c.monitor.State()
}

// LastReading returns the most recent valid environment reading.
func (c *Controller) LastReading() Reading {
	return c.monitor.LastReading()
}

// Counts returns the event counters since startup.
func (c *Controller) Counts() EventCounts {
	return c.counts
}

// FocusName names the active focus state, for the status page.
func (c *Controller) FocusName() string {
	switch c.focus.(type) {
	case focusNormal:
		return "clock"
	case focusMainMenu:
		return "main-menu"
	case focusTimezone:
		return "set-timezone"
	case focusSetAlarm:
		return "set-alarm"
	case focusViewAlarms:
		return "view-alarms"
	case focusDeleteMenu:
		return "delete-menu"
	case focusConfirmDelete:
		return "confirm-delete"
	case focusNotice:
		return "notice"
	default:
		return "unknown"
	}
}
