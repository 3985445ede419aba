package control

// Alarm thresholds.
const (
	alarmLowTempC   = 18.0
	alarmHighTempC  = 35.0
	alarmDrySoilPct = 20.0
)

// EvaluateAlarm derives the alarm message from the current readings.
// Priority-ordered, first match wins. It is evaluated fresh each tick
// with no latching: the alarm clears on its own once the condition no
// longer holds, and any manual reset only lasts until the next tick.
func EvaluateAlarm(temperature, soilMoisture float64) string {
	switch {
	case temperature < alarmLowTempC:
		return AlarmLowTemp
	case temperature > alarmHighTempC:
		return AlarmHighTemp
	case soilMoisture < alarmDrySoilPct:
		return AlarmDrySoil
	default:
		return ""
	}
}
