package logic

import "time"

// Debouncer turns raw button levels into discrete press events.
// A press is reported on the rising edge only, and only if the global
// debounce window has elapsed since the previous reported event.
// Holding a button produces nothing further until it is released.
type Debouncer struct {
	window    time.Duration
	last      Levels
	lastEvent time.Time
	fired     bool
}

// NewDebouncer creates a debouncer with the given global cooldown window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Step consumes one raw sample and returns at most one button event.
// When several lines rise in the same sample the priority order is
// Up, Down, Ok, Cancel. An edge that falls inside the cooldown window
// is swallowed entirely, not deferred.
func (d *Debouncer) Step(levels Levels, now time.Time) Button {
	edges := [4]struct {
		btn  Button
		now  bool
		prev bool
	}{
		{ButtonUp, levels.Up, d.last.Up},
		{ButtonDown, levels.Down, d.last.Down},
		{ButtonOk, levels.Ok, d.last.Ok},
		{ButtonCancel, levels.Cancel, d.last.Cancel},
	}
	d.last = levels

	for _, e := range edges {
		if !e.now || e.prev {
			continue
		}
		if d.fired && now.Sub(d.lastEvent) < d.window {
			continue
		}
		d.lastEvent = now
		d.fired = true
		return e.btn
	}
	return ButtonNone
}
