// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/medbox/internal/logic"
)

// Topic is the MQTT topic for reminder events.
const Topic = "home/medbox/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/medbox/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a controller event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp time.Time
	Event     string        // e.g., "STARTUP", "SHUTDOWN"
	Reason    string        // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Config    *SystemConfig // startup only
	Retained  bool          // Whether the message should be retained by the broker
}

// SystemConfig is the effective configuration announced at startup.
type SystemConfig struct {
	PollMs     int    `json:"poll_ms"`
	DebounceMs int    `json:"debounce_ms"`
	SnoozeMs   int    `json:"snooze_ms"`
	Broker     string `json:"broker"`
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Medbox EventPayload `json:"medbox"`
}

// EventPayload contains the reminder event details. Only the fields
// relevant to the event type are present.
type EventPayload struct {
	Timestamp   string   `json:"timestamp"`
	Event       string   `json:"event"`
	Slot        int      `json:"slot,omitempty"`
	Alarm       string   `json:"alarm,omitempty"`
	OffsetHours *float64 `json:"offset_hours,omitempty"`
	Warning     string   `json:"warning,omitempty"`
	Temperature *float64 `json:"temperature_c,omitempty"`
	Humidity    *float64 `json:"humidity_pct,omitempty"`
}

// FormatPayload creates the JSON payload for a controller event.
func FormatPayload(event logic.Event) ([]byte, error) {
	p := EventPayload{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Event:     string(event.Type),
	}

	switch event.Type {
	case logic.EventAlarmRing, logic.EventAlarmStop, logic.EventAlarmSnooze, logic.EventAlarmCleared:
		p.Slot = int(event.Slot)
	case logic.EventAlarmSet:
		p.Slot = int(event.Slot)
		p.Alarm = fmt.Sprintf("%02d:%02d", event.Hour, event.Minute)
	case logic.EventTimezoneSet:
		offset := event.Offset
		p.OffsetHours = &offset
	case logic.EventEnvWarning, logic.EventEnvCleared:
		if event.Type == logic.EventEnvWarning {
			p.Warning = event.Warning.String()
		}
		temp := event.Reading.Temperature
		hum := event.Reading.Humidity
		p.Temperature = &temp
		p.Humidity = &hum
	}

	return json.Marshal(Payload{Medbox: p})
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string        `json:"timestamp"`
	Event     string        `json:"event"`
	Reason    string        `json:"reason,omitempty"`
	Config    *SystemConfig `json:"config,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
			Config:    event.Config,
		},
	}
	return json.Marshal(payload)
}
