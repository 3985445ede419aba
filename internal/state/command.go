package state

import "encoding/json"

// Command is the sparse external command document accepted over HTTP
// and MQTT. Absent fields leave the corresponding state untouched.
type Command struct {
	Heater     *bool `json:"heater,omitempty"`
	Fan        *bool `json:"fan,omitempty"`
	Pump       *bool `json:"pump,omitempty"`
	Auto       *bool `json:"auto,omitempty"`
	ResetAlarm *bool `json:"reset_alarm,omitempty"`
}

// DecodeCommand parses a command document. A malformed document yields
// an error and no state change; unknown fields are ignored.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	err := json.Unmarshal(data, &cmd)
	return cmd, err
}

// Apply applies a sparse command atomically.
//
// Setting any actuator switches to manual mode (the command interface
// takes over). Turning the pump off zeroes its run counter. Re-enabling
// automatic mode schedules a PID reset for the next tick. Resetting the
// alarm clears it for this instant only; the next tick re-evaluates.
func (t *Tracker) Apply(cmd Command) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cmd.Heater != nil {
		t.snap.HeaterOn = *cmd.Heater
		t.snap.AutoMode = false
	}
	if cmd.Fan != nil {
		t.snap.FanOn = *cmd.Fan
		t.snap.AutoMode = false
	}
	if cmd.Pump != nil {
		t.snap.PumpOn = *cmd.Pump
		if !*cmd.Pump {
			t.snap.PumpRunSeconds = 0
		}
		t.snap.AutoMode = false
	}
	if cmd.Auto != nil {
		wasAuto := t.snap.AutoMode
		t.snap.AutoMode = *cmd.Auto
		if *cmd.Auto && !wasAuto {
			t.pidResetPending = true
		}
	}
	if cmd.ResetAlarm != nil && *cmd.ResetAlarm {
		t.snap.Alarm = ""
	}

	return t.snap
}
