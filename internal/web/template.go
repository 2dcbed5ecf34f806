package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/debounce-button/internal/printarray"
	"github.com/sweeney/debounce-button/internal/status"
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
	"samples":   printarray.Format[bool],
	"emissions": printarray.Format[string],
	"ms": func(v float64) string {
		return fmt.Sprintf("%.1fms", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Debounce Button</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.idle { color: #888; }
.active { color: green; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Debounce Button</h1>

<h2>State</h2>
<table>
<tr><th>State</th><td id="state" class="{{if eq .State.String "IDLE"}}idle{{else}}active{{end}}">{{.State}}</td></tr>
<tr><th>Hold counter</th><td>{{.HoldCount}}</td></tr>
<tr><th>Ticks</th><td>{{.Ticks}}</td></tr>
<tr><th>Transitions</th><td>{{.Transitions}}</td></tr>
<tr><th>Recent input</th><td>{{samples .RecentSamples}}</td></tr>
<tr><th>Recent output</th><td>{{emissions .RecentEmissions}}</td></tr>
</table>

<h2>Emissions</h2>
<table>
<tr><th>?</th><td>{{.Emissions.ShortPress}}</td></tr>
<tr><th>@</th><td>{{.Emissions.LongHold}}</td></tr>
<tr><th>!</th><td>{{.Emissions.ReleaseHold}}</td></tr>
</table>

<h2>Tick interval</h2>
<table>
{{if .Jitter.Count}}<tr><th>Mean</th><td>{{ms .Jitter.Mean}}</td></tr>
<tr><th>Std dev</th><td>{{ms .Jitter.StdDev}}</td></tr>
<tr><th>Min / Max</th><td>{{ms .Jitter.Min}} / {{ms .Jitter.Max}}</td></tr>{{else}}<tr><th>Mean</th><td>n/a</td></tr>{{end}}
<tr><th>GPIO read errors</th><td>{{.ReadErrors}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Long press</th><td>{{.Config.ShortPressTicks}} ticks</td></tr>
<tr><th>Release hold</th><td>{{.Config.ReleaseHoldTicks}} ticks</td></tr>
<tr><th>Button pin</th><td>{{.Config.PinButton}}</td></tr>
<tr><th>Wave pin</th><td>{{if lt .Config.PinWave 0}}disabled{{else}}{{.Config.PinWave}}{{end}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
