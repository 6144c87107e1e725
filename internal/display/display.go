// Package display turns screen values into text lines and pushes them
// to a render sink. The real sink is an SSD1306 OLED; the fake records
// screens for tests and the console sink writes to a terminal.
package display

import (
	"fmt"
	"math"

	"github.com/sweeney/medbox/internal/screen"
)

// Renderer paints one screen. The poll loop only calls it when the
// screen actually changed.
type Renderer interface {
	Render(s screen.Screen) error
	Close() error
}

// visibleMenuRows is how many list entries fit under a title line on
// the 128x64 panel with the 7x13 face.
const visibleMenuRows = 3

// Lines formats a screen as display text, one string per row.
func Lines(s screen.Screen) []string {
	switch v := s.(type) {
	case screen.Clock:
		if !v.Valid {
			return []string{"Medibox", "time unavailable"}
		}
		return []string{
			v.Time.Format("Monday 02 January"),
			v.Time.Format("15:04:05"),
		}

	case screen.Menu:
		return append([]string{v.Title}, listRows(v.Items, v.Cursor)...)

	case screen.AlarmWizard:
		title := fmt.Sprintf("Set Alarm %d", v.Slot)
		var value string
		if v.Phase == screen.PhaseHour {
			value = fmt.Sprintf("[%02d]:%02d", v.Hour, v.Minute)
		} else {
			value = fmt.Sprintf("%02d:[%02d]", v.Hour, v.Minute)
		}
		return []string{title, value, "OK next  CANCEL back"}

	case screen.AlarmList:
		if len(v.Alarms) == 0 {
			return []string{"Alarms", "no active alarms"}
		}
		rows := []string{"Alarms"}
		for _, a := range v.Alarms {
			rows = append(rows, fmt.Sprintf("%d: %02d:%02d", a.Slot, a.Hour, a.Minute))
		}
		return rows

	case screen.DeleteMenu:
		return append([]string{"Delete Alarm"}, listRows(v.Items, v.Cursor)...)

	case screen.Confirm:
		return []string{v.Text, "OK yes  CANCEL no"}

	case screen.Notice:
		return []string{v.Text}

	case screen.Timezone:
		return []string{"Set Time Zone", formatOffset(v.Offset), "OK save  CANCEL back"}

	case screen.Warning:
		rows := []string{"CHECK STORAGE!"}
		temp := fmt.Sprintf("T %.1fC  [%g-%g]", v.Temperature, v.TempMin, v.TempMax)
		if v.TempWarning {
			temp += " !"
		}
		hum := fmt.Sprintf("H %.1f%%  [%g-%g]", v.Humidity, v.HumidityMin, v.HumidityMax)
		if v.HumidityWarning {
			hum += " !"
		}
		return append(rows, temp, hum)

	case screen.Ringing:
		return []string{
			"MEDICINE TIME!",
			fmt.Sprintf("Alarm %d", v.Slot),
			"UP snooze CANCEL stop",
		}
	}
	return nil
}

// listRows renders a cursor marker over a window of items so the
// cursor row is always on the panel.
func listRows(items []string, cursor int) []string {
	start := 0
	if cursor >= visibleMenuRows {
		start = cursor - visibleMenuRows + 1
	}
	end := start + visibleMenuRows
	if end > len(items) {
		end = len(items)
	}

	var rows []string
	for i := start; i < end; i++ {
		marker := "  "
		if i == cursor {
			marker = "> "
		}
		rows = append(rows, marker+items[i])
	}
	return rows
}

// formatOffset renders a UTC offset like "UTC+05:30".
func formatOffset(hours float64) string {
	sign := "+"
	if hours < 0 {
		sign = "-"
	}
	abs := math.Abs(hours)
	h := int(abs)
	m := int(math.Round((abs - float64(h)) * 60))
	return fmt.Sprintf("UTC%s%02d:%02d", sign, h, m)
}
