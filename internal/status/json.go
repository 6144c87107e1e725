package status

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Time           string      `json:"time,omitempty"`
	TimeValid      bool        `json:"time_valid"`
	TimezoneOffset float64     `json:"timezone_offset_hours"`
	Alarms         []AlarmJSON `json:"alarms"`
	Ring           RingJSON    `json:"ring"`
	Environment    EnvJSON     `json:"environment"`
	Focus          string      `json:"focus"`
	UptimeSeconds  int64       `json:"uptime_seconds"`
	StartTime      string      `json:"start_time"`
	Timestamp      string      `json:"timestamp"`
	MQTT           MQTTStatus  `json:"mqtt"`
	Counts         CountsJSON  `json:"event_counts"`
	Config         ConfigJSON  `json:"config"`
}

// AlarmJSON is the JSON representation of one alarm slot.
type AlarmJSON struct {
	Slot   int    `json:"slot"`
	Active bool   `json:"active"`
	Time   string `json:"time"`
}

// RingJSON reports the scheduler state.
type RingJSON struct {
	Phase string `json:"phase"`
	Slot  int    `json:"slot,omitempty"`
}

// EnvJSON reports the latest environment sample. The reading fields are
// omitted when no valid sample has been taken yet.
type EnvJSON struct {
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	HumidityPct  *float64 `json:"humidity_pct,omitempty"`
	Warning      string   `json:"warning"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Rings    int `json:"rings"`
	Stops    int `json:"stops"`
	Snoozes  int `json:"snoozes"`
	Sets     int `json:"sets"`
	Clears   int `json:"clears"`
	Warnings int `json:"warnings"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs     int64  `json:"poll_ms"`
	DebounceMs int64  `json:"debounce_ms"`
	SnoozeMs   int64  `json:"snooze_ms"`
	Broker     string `json:"broker"`
	HTTPAddr   string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	d := snap.Device

	inner := StatusInner{
		TimeValid:      d.WallValid,
		TimezoneOffset: d.Offset,
		Ring:           RingJSON{Phase: d.RingPhase.String(), Slot: int(d.RingSlot)},
		Environment:    EnvJSON{Warning: d.Warning.String()},
		Focus:          d.Focus,
		UptimeSeconds:  int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:      snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:      snap.Now.UTC().Format(time.RFC3339),
		MQTT:           MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Rings:    d.Counts.Rings,
			Stops:    d.Counts.Stops,
			Snoozes:  d.Counts.Snoozes,
			Sets:     d.Counts.Sets,
			Clears:   d.Counts.Clears,
			Warnings: d.Counts.Warnings,
		},
		Config: ConfigJSON{
			PollMs:     snap.Config.PollMs,
			DebounceMs: snap.Config.DebounceMs,
			SnoozeMs:   snap.Config.SnoozeMs,
			Broker:     snap.Config.Broker,
			HTTPAddr:   snap.Config.HTTPAddr,
		},
	}

	if d.WallValid {
		inner.Time = d.Wall.Format(time.RFC3339)
	}
	if d.Reading.Valid {
		temp := d.Reading.Temperature
		hum := d.Reading.Humidity
		inner.Environment.TemperatureC = &temp
		inner.Environment.HumidityPct = &hum
	}

	for i, a := range d.Alarms {
		inner.Alarms = append(inner.Alarms, AlarmJSON{
			Slot:   i + 1,
			Active: a.Active,
			Time:   fmt.Sprintf("%02d:%02d", a.Hour, a.Minute),
		})
	}

	return inner
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
