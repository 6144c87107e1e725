// Package status provides a thread-safe status tracker for the medbox daemon.
// It is designed to be read by HTTP handlers while the run loop writes to it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/medbox/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs     int64
	DebounceMs int64
	SnoozeMs   int64
	Broker     string
	HTTPAddr   string
}

// DeviceState is the controller-derived state refreshed on every tick.
type DeviceState struct {
	Wall      time.Time
	WallValid bool
	Offset    float64 // timezone offset in hours relative to UTC
	Alarms    [logic.NumSlots]logic.Alarm
	RingPhase logic.RingPhase
	RingSlot  logic.Slot
	Warning   logic.WarningState
	Reading   logic.Reading
	Focus     string
	Counts    logic.EventCounts
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Device        DeviceState
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update replaces the device state. Called from runLoop on every tick.
func (t *Tracker) Update(ds DeviceState) {
	t.mu.Lock()
	t.snap.Device = ds
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
