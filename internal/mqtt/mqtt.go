// Package mqtt publishes greenhouse telemetry and accepts commands over
// MQTT, with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/greenhouse/internal/state"
)

// Topics.
const (
	// TopicTelemetry carries one state snapshot per tick (QoS 0).
	TopicTelemetry = "greenhouse/telemetry"

	// TopicAlarms carries alarm transitions (QoS 1).
	TopicAlarms = "greenhouse/alarms"

	// TopicSystem carries lifecycle events (QoS 1, retained).
	TopicSystem = "greenhouse/system"

	// TopicCommand is the inbound sparse command topic.
	TopicCommand = "greenhouse/command"
)

// Publisher publishes greenhouse messages to a broker.
type Publisher interface {
	// PublishTelemetry sends a per-tick snapshot. Failure is non-fatal
	// to the control loop.
	PublishTelemetry(t Telemetry) error

	// PublishAlarm sends an alarm transition.
	PublishAlarm(a AlarmEvent) error

	// PublishSystem sends a lifecycle event (STARTUP, SHUTDOWN).
	PublishSystem(e SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Telemetry is the per-tick snapshot payload.
type Telemetry struct {
	Timestamp    time.Time
	Temperature  float64
	Humidity     float64
	SoilMoisture float64
	HeaterOn     bool
	FanOn        bool
	PumpOn       bool
	AutoMode     bool
	Alarm        string
	PIDOutput    float64
	Setpoint     float64
}

// TelemetryFromSnapshot builds the telemetry payload from a state snapshot.
func TelemetryFromSnapshot(s state.Snapshot) Telemetry {
	return Telemetry{
		Timestamp:    s.Now,
		Temperature:  s.Temperature,
		Humidity:     s.Humidity,
		SoilMoisture: s.SoilMoisture,
		HeaterOn:     s.HeaterOn,
		FanOn:        s.FanOn,
		PumpOn:       s.PumpOn,
		AutoMode:     s.AutoMode,
		Alarm:        s.Alarm,
		PIDOutput:    s.PIDOutput,
		Setpoint:     s.Setpoint,
	}
}

// AlarmEvent is published when the alarm message changes.
type AlarmEvent struct {
	Timestamp time.Time
	Alarm     string // new value; empty means cleared
	Previous  string
}

// SystemEvent is a daemon lifecycle event.
type SystemEvent struct {
	Timestamp time.Time
	Event     string // "STARTUP", "SHUTDOWN"
	Reason    string // e.g. "SIGTERM" (shutdown only)
	Retained  bool
}

// telemetryPayload is the wire form of Telemetry.
type telemetryPayload struct {
	Greenhouse telemetryInner `json:"greenhouse"`
}

type telemetryInner struct {
	Timestamp    string  `json:"timestamp"`
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	SoilMoisture float64 `json:"soil_moisture"`
	Heater       bool    `json:"heater"`
	Fan          bool    `json:"fan"`
	Pump         bool    `json:"pump"`
	Auto         bool    `json:"auto"`
	Alarm        string  `json:"alarm"`
	PIDOutput    float64 `json:"pid_output"`
	Setpoint     float64 `json:"setpoint"`
}

// FormatTelemetry creates the JSON payload for a telemetry snapshot.
func FormatTelemetry(t Telemetry) ([]byte, error) {
	return json.Marshal(telemetryPayload{
		Greenhouse: telemetryInner{
			Timestamp:    t.Timestamp.UTC().Format(time.RFC3339),
			Temperature:  t.Temperature,
			Humidity:     t.Humidity,
			SoilMoisture: t.SoilMoisture,
			Heater:       t.HeaterOn,
			Fan:          t.FanOn,
			Pump:         t.PumpOn,
			Auto:         t.AutoMode,
			Alarm:        t.Alarm,
			PIDOutput:    t.PIDOutput,
			Setpoint:     t.Setpoint,
		},
	})
}

type alarmPayload struct {
	Alarm alarmInner `json:"alarm"`
}

type alarmInner struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Previous  string `json:"previous,omitempty"`
	Cleared   bool   `json:"cleared"`
}

// FormatAlarm creates the JSON payload for an alarm transition.
func FormatAlarm(a AlarmEvent) ([]byte, error) {
	return json.Marshal(alarmPayload{
		Alarm: alarmInner{
			Timestamp: a.Timestamp.UTC().Format(time.RFC3339),
			Message:   a.Alarm,
			Previous:  a.Previous,
			Cleared:   a.Alarm == "",
		},
	})
}

type systemPayload struct {
	System systemInner `json:"system"`
}

type systemInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystem creates the JSON payload for a lifecycle event.
func FormatSystem(e SystemEvent) ([]byte, error) {
	return json.Marshal(systemPayload{
		System: systemInner{
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			Event:     e.Event,
			Reason:    e.Reason,
		},
	})
}
