// Package control contains pure control logic for the greenhouse:
// the PID temperature controller, the PWM actuation scheduler, the
// irrigation hysteresis controller, and the alarm evaluator.
// This package has NO external dependencies (no MQTT, OS, or time.Sleep).
// Time enters only as a dt parameter.
package control

// Alarm messages. The alarm field is either empty or exactly one of these.
const (
	AlarmLowTemp  = "Temperature low!"
	AlarmHighTemp = "Temperature high!"
	AlarmDrySoil  = "Soil dry!"
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
