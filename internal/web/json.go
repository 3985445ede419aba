package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/greenhouse/internal/state"
)

// StateJSON is the top-level JSON envelope for the state API.
type StateJSON struct {
	State StateInner `json:"state"`
}

// StateInner contains the full greenhouse state.
type StateInner struct {
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
	SoilMoisture   float64 `json:"soil_moisture"`
	Heater         bool    `json:"heater"`
	Fan            bool    `json:"fan"`
	Pump           bool    `json:"pump"`
	PumpRunSeconds int     `json:"pump_run_seconds"`
	Auto           bool    `json:"auto"`
	Alarm          string  `json:"alarm"`
	PIDOutput      float64 `json:"pid_output"`
	Setpoint       float64 `json:"setpoint"`

	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs         int64   `json:"tick_ms"`
	SetpointC      float64 `json:"setpoint_c"`
	PWMPeriod      int     `json:"pwm_period"`
	SoilLow        float64 `json:"soil_low"`
	SoilHigh       float64 `json:"soil_high"`
	MaxPumpSeconds int     `json:"max_pump_seconds"`
	HTTPAddr       string  `json:"http_addr"`
	Broker         string  `json:"broker,omitempty"`
}

func formatJSON(snap state.Snapshot) []byte {
	sj := StateJSON{
		State: StateInner{
			Temperature:    snap.Temperature,
			Humidity:       snap.Humidity,
			SoilMoisture:   snap.SoilMoisture,
			Heater:         snap.HeaterOn,
			Fan:            snap.FanOn,
			Pump:           snap.PumpOn,
			PumpRunSeconds: snap.PumpRunSeconds,
			Auto:           snap.AutoMode,
			Alarm:          snap.Alarm,
			PIDOutput:      snap.PIDOutput,
			Setpoint:       snap.Setpoint,
			UptimeSeconds:  int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:      snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:      snap.Now.UTC().Format(time.RFC3339),
			MQTT:           MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
			Config: ConfigJSON{
				TickMs:         snap.Config.TickMs,
				SetpointC:      snap.Config.SetpointC,
				PWMPeriod:      snap.Config.PWMPeriod,
				SoilLow:        snap.Config.SoilLow,
				SoilHigh:       snap.Config.SoilHigh,
				MaxPumpSeconds: snap.Config.MaxPumpSecs,
				HTTPAddr:       snap.Config.HTTPAddr,
				Broker:         snap.Config.Broker,
			},
		},
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
