package logic

import "time"

// buzzPeriod is the on/off half-period of the buzzer duty cycle while
// an alarm is ringing. The LED stays solid.
const buzzPeriod = 200 * time.Millisecond

// Scheduler decides when alarms ring. It matches active registry slots
// against the wall clock at the top of each minute, at most once per
// matching minute, and owns the snooze lifecycle.
type Scheduler struct {
	snooze time.Duration

	phase       RingPhase
	slot        Slot
	startedAt   time.Time
	snoozeUntil time.Time

	// lastFired is the wall minute a fresh ring fired in, so stopping
	// an alarm mid-minute does not re-trigger it on the next tick.
	lastFired time.Time
}

// NewScheduler creates a scheduler with the given snooze interval.
func NewScheduler(snooze time.Duration) *Scheduler {
	return &Scheduler{snooze: snooze}
}

// Step advances the scheduler by one tick. wall is the current local
// wall-clock time, meaningful only when wallValid is true; now is the
// monotonic-ish process time used for the snooze countdown. It returns
// true when a ring starts on this tick (fresh match or snooze expiry).
//
// The snooze countdown runs on process time alone, so a snoozed alarm
// re-rings on schedule even while the wall clock is unavailable; only
// the fresh hour:minute match needs a valid wall time.
func (s *Scheduler) Step(reg *Registry, wall time.Time, wallValid bool, now time.Time) bool {
	switch s.phase {
	case RingSnoozing:
		if !now.Before(s.snoozeUntil) {
			s.phase = RingActive
			s.startedAt = now
			return true
		}
		return false

	case RingActive:
		return false

	default: // RingIdle
		if !wallValid || wall.Second() != 0 {
			return false
		}
		minute := wall.Truncate(time.Minute)
		if minute.Equal(s.lastFired) {
			return false
		}
		for _, slot := range reg.ActiveSlots() {
			a := reg.Get(slot)
			if a.Hour == wall.Hour() && a.Minute == wall.Minute() {
				s.phase = RingActive
				s.slot = slot
				s.startedAt = now
				s.lastFired = minute
				return true
			}
		}
		return false
	}
}

// Stop ends the current ring and returns the scheduler to idle.
func (s *Scheduler) Stop() {
	s.phase = RingIdle
	s.slot = 0
}

// Snooze silences the current ring and schedules a re-ring of the same
// slot after the snooze interval.
func (s *Scheduler) Snooze(now time.Time) {
	if s.phase != RingActive {
		return
	}
	s.phase = RingSnoozing
	s.snoozeUntil = now.Add(s.snooze)
}

// Ringing reports whether an alarm is actively sounding.
func (s *Scheduler) Ringing() bool {
	return s.phase == RingActive
}

// Phase returns the current lifecycle phase.
func (s *Scheduler) Phase() RingPhase {
	return s.phase
}

// Slot returns the slot of the current (or snoozed) ring, 0 when idle.
func (s *Scheduler) Slot() Slot {
	return s.slot
}

// Buzzing returns the buzzer level for the ring duty cycle.
func (s *Scheduler) Buzzing(now time.Time) bool {
	if s.phase != RingActive {
		return false
	}
	return (now.Sub(s.startedAt)/buzzPeriod)%2 == 0
}
