package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/greenhouse/internal/state"
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
	"onOff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Greenhouse</title>
<style>
body { font-family: monospace; max-width: 640px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.alarm { color: #fff; background: #c0392b; padding: 8px 12px; border-radius: 4px; }
.connected { color: green; }
.disconnected { color: red; }
button { font-family: monospace; margin-right: 6px; padding: 4px 10px; }
</style>
</head>
<body>
<h1>Greenhouse</h1>

<div id="alarm-banner" {{if not .Alarm}}hidden{{end}}><p class="alarm" id="alarm-text">{{.Alarm}}</p></div>

<h2>Readings</h2>
<table>
<tr><th>Temperature</th><td><span id="temp">{{printf "%.2f" .Temperature}}</span> &deg;C (setpoint {{printf "%.1f" .Setpoint}})</td></tr>
<tr><th>Air humidity</th><td><span id="hum">{{printf "%.2f" .Humidity}}</span> %</td></tr>
<tr><th>Soil moisture</th><td><span id="soil">{{printf "%.2f" .SoilMoisture}}</span> %</td></tr>
<tr><th>PID output</th><td id="pid">{{printf "%.2f" .PIDOutput}}</td></tr>
</table>

<h2>Actuators</h2>
<table>
<tr><th>Heater</th><td id="heater" class="{{if .HeaterOn}}on{{else}}off{{end}}">{{onOff .HeaterOn}}</td></tr>
<tr><th>Fan</th><td id="fan" class="{{if .FanOn}}on{{else}}off{{end}}">{{onOff .FanOn}}</td></tr>
<tr><th>Pump</th><td id="pump" class="{{if .PumpOn}}on{{else}}off{{end}}">{{onOff .PumpOn}} {{if .PumpOn}}({{.PumpRunSeconds}}s){{end}}</td></tr>
<tr><th>Mode</th><td id="mode">{{if .AutoMode}}automatic{{else}}manual{{end}}</td></tr>
</table>

<h2>Controls</h2>
<p>
<button onclick="cmd({heater:true})">Heater on</button>
<button onclick="cmd({heater:false})">Heater off</button>
<button onclick="cmd({fan:true})">Fan on</button>
<button onclick="cmd({fan:false})">Fan off</button>
</p>
<p>
<button onclick="cmd({pump:true})">Pump on</button>
<button onclick="cmd({pump:false})">Pump off</button>
<button onclick="cmd({auto:true})">Automatic</button>
<button onclick="cmd({reset_alarm:true})">Reset alarm</button>
</p>

<h2>System</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
</table>

<p><a href="/api/state">JSON</a> &middot; <a href="/history.csv">History CSV</a></p>

<script>
function cmd(c) {
  fetch("/api/command", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify(c)
  }).then(function(r) { return r.json(); }).then(render);
}

function render(data) {
  var s = data.state;
  document.getElementById("temp").textContent = s.temperature.toFixed(2);
  document.getElementById("hum").textContent = s.humidity.toFixed(2);
  document.getElementById("soil").textContent = s.soil_moisture.toFixed(2);
  document.getElementById("pid").textContent = s.pid_output.toFixed(2);
  setFlag("heater", s.heater);
  setFlag("fan", s.fan);
  setFlag("pump", s.pump);
  document.getElementById("mode").textContent = s.auto ? "automatic" : "manual";
  var banner = document.getElementById("alarm-banner");
  banner.hidden = !s.alarm;
  document.getElementById("alarm-text").textContent = s.alarm;
}

function setFlag(id, on) {
  var el = document.getElementById(id);
  el.textContent = on ? "ON" : "OFF";
  el.className = on ? "on" : "off";
}

setInterval(function() {
  fetch("/api/state").then(function(r) { return r.json(); }).then(render);
}, 1000);
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap state.Snapshot) {
	// Best-effort: template errors surface as truncated output, not 500s.
	_ = indexTmpl.Execute(w, snap)
}
