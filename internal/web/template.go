package web

import (
	"fmt"
	"html/template"
	"io"
	"math"
	"time"

	"github.com/sweeney/medbox/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"inc": func(i int) int {
		return i + 1
	},
	"alarmTime": func(h, m int) string {
		return fmt.Sprintf("%02d:%02d", h, m)
	},
	"offset": func(hours float64) string {
		sign := "+"
		if hours < 0 {
			sign = "-"
			hours = -hours
		}
		whole := int(hours)
		minutes := int(math.Round((hours - float64(whole)) * 60))
		return fmt.Sprintf("UTC%s%02d:%02d", sign, whole, minutes)
	},
	"celsius": func(v *float64) string {
		if v == nil {
			return "no reading"
		}
		return fmt.Sprintf("%.1f C", *v)
	},
	"percent": func(v *float64) string {
		if v == nil {
			return "no reading"
		}
		return fmt.Sprintf("%.1f %%", *v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Medbox</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.warn { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Medbox</h1>

<h2>Clock</h2>
<table>
<tr><th>Time</th><td>{{if .Device.WallValid}}{{.Device.Wall.Format "Mon 02 Jan 15:04:05"}}{{else}}not synced{{end}}</td></tr>
<tr><th>Time Zone</th><td>{{offset .Device.Offset}}</td></tr>
</table>

<h2>Alarms</h2>
<table>
{{range $i, $a := .Device.Alarms}}<tr><th>Alarm {{inc $i}}</th><td class="{{if $a.Active}}on{{else}}off{{end}}">{{if $a.Active}}{{alarmTime $a.Hour $a.Minute}}{{else}}off{{end}}</td></tr>
{{end}}<tr><th>Ring</th><td class="{{if eq (printf "%s" .Device.RingPhase) "ringing"}}warn{{end}}">{{.Device.RingPhase}}{{if gt .Device.RingSlot 0}} (alarm {{.Device.RingSlot}}){{end}}</td></tr>
</table>

<h2>Environment</h2>
<table>
<tr><th>Temperature</th><td>{{celsius .Environment.TemperatureC}}</td></tr>
<tr><th>Humidity</th><td>{{percent .Environment.HumidityPct}}</td></tr>
<tr><th>Warning</th><td class="{{if ne (printf "%s" .Device.Warning) "NONE"}}warn{{end}}">{{.Device.Warning}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Rings</th><td>{{.Device.Counts.Rings}}</td></tr>
<tr><th>Stops</th><td>{{.Device.Counts.Stops}}</td></tr>
<tr><th>Snoozes</th><td>{{.Device.Counts.Snoozes}}</td></tr>
<tr><th>Sets</th><td>{{.Device.Counts.Sets}}</td></tr>
<tr><th>Clears</th><td>{{.Device.Counts.Clears}}</td></tr>
<tr><th>Env Warnings</th><td>{{.Device.Counts.Warnings}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Screen</th><td>{{.Device.Focus}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Snooze</th><td>{{.Config.SnoozeMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs plain fields.
	// Environment uses pointer fields so "no reading" renders cleanly.
	data := struct {
		status.Snapshot
		Uptime      time.Duration
		Environment envView
	}{
		Snapshot:    snap,
		Uptime:      snap.Uptime(),
		Environment: envFromSnapshot(snap),
	}
	indexTmpl.Execute(w, data)
}

type envView struct {
	TemperatureC *float64
	HumidityPct  *float64
}

func envFromSnapshot(snap status.Snapshot) envView {
	if !snap.Device.Reading.Valid {
		return envView{}
	}
	temp := snap.Device.Reading.Temperature
	hum := snap.Device.Reading.Humidity
	return envView{TemperatureC: &temp, HumidityPct: &hum}
}
