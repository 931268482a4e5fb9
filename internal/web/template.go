package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/KargJonas/button-handler/internal/status"
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
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Button Handler</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.pressed { color: green; font-weight: bold; }
.released { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Button Handler</h1>

<h2>Buttons</h2>
<table>
<tr><th>Pin</th><th>State</th><th>Presses</th><th>Releases</th></tr>
{{$ready := .Ready}}{{range .Rows}}<tr>
<td>GPIO{{.Pin}}</td>
{{if not $ready}}<td class="unknown">UNKNOWN</td>{{else if .Pressed}}<td class="pressed">PRESSED</td>{{else}}<td class="released">RELEASED</td>{{end}}
<td>{{.Presses}}</td>
<td>{{.Releases}}</td>
</tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} — {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Ready</th><td>{{if .Ready}}yes{{else}}no{{end}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Chip</th><td>{{.Config.Chip}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

// row flattens one button for the template.
type row struct {
	Pin      int
	Pressed  bool
	Presses  int
	Releases int
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	rows := make([]row, 0, len(snap.Pins))
	for _, pin := range snap.Pins {
		b := snap.Buttons[pin]
		rows = append(rows, row{Pin: pin, Pressed: b.Pressed, Presses: b.Presses, Releases: b.Releases})
	}
	data := struct {
		status.Snapshot
		Rows   []row
		Uptime time.Duration
	}{
		Snapshot: snap,
		Rows:     rows,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
