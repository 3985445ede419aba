// Package state provides the shared greenhouse state behind a mutex.
// The control loop mutates it once per tick; the HTTP and MQTT layers
// read snapshots and apply sparse commands. The lock makes each tick's
// read-modify-write atomic with respect to external commands.
package state

import (
	"sync"
	"time"
)

// Config contains resolved daemon configuration for display.
type Config struct {
	TickMs        int64
	SetpointC     float64
	PWMPeriod     int
	SoilLow       float64
	SoilHigh      float64
	MaxPumpSecs   int
	Broker        string
	HTTPAddr      string
	HistoryPath   string
}

// Snapshot is a point-in-time view of the greenhouse state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Temperature  float64 // deg C, rounded for display
	Humidity     float64 // % relative, rounded
	SoilMoisture float64 // %, rounded

	HeaterOn bool
	FanOn    bool
	PumpOn   bool

	// PumpRunSeconds counts consecutive seconds the pump has been on;
	// zero whenever the pump has been off for at least one full tick.
	PumpRunSeconds int

	// AutoMode selects who drives the actuators: the control loop (true)
	// or external commands (false).
	AutoMode bool

	// Alarm is empty or one of the control.Alarm* messages.
	Alarm string

	// PIDOutput is the last computed control signal (diagnostic only).
	PIDOutput float64

	// Setpoint is the target temperature.
	Setpoint float64

	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds the mutable greenhouse state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot

	// pidResetPending is raised when a command re-enables automatic mode
	// and consumed by the loop at the start of the next tick, so the PID
	// instance stays owned by the loop goroutine.
	pidResetPending bool
}

// NewTracker creates a Tracker with the given start time, initial
// readings, and config.
func NewTracker(startTime time.Time, initial Snapshot) *Tracker {
	initial.StartTime = startTime
	return &Tracker{snap: initial}
}

// Update runs fn with exclusive access to the state. The control loop
// performs its whole tick inside one Update call so external commands
// apply either fully before or fully after the tick, never interleaved.
func (t *Tracker) Update(fn func(*Snapshot)) {
	t.mu.Lock()
	fn(&t.snap)
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the state. The Now field is
// set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// ConsumePIDReset reports whether a PID reset was requested since the
// last call, clearing the flag.
func (t *Tracker) ConsumePIDReset() bool {
	t.mu.Lock()
	pending := t.pidResetPending
	t.pidResetPending = false
	t.mu.Unlock()
	return pending
}
