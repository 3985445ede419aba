package control

// Irrigation is a two-threshold hysteresis controller for the water
// pump with a maximum-runtime safety cutoff. The band between Low and
// High prevents rapid on/off chattering near a single threshold.
type Irrigation struct {
	// Low and High are soil moisture percentages; Low < High.
	Low  float64
	High float64

	// MaxRunSeconds forces the pump off after this many consecutive
	// seconds on, even if the soil is still dry.
	MaxRunSeconds int
}

// Decide returns the pump command for the next tick given the current
// soil moisture, pump state, and consecutive run time.
//
// The runSeconds guard on the turn-on branch prevents re-activation
// immediately after a safety cutoff within the same tick sequence.
func (c Irrigation) Decide(soilMoisture float64, pumpOn bool, runSeconds int) bool {
	if pumpOn {
		if runSeconds >= c.MaxRunSeconds {
			return false
		}
		if soilMoisture >= c.High {
			return false
		}
		return true
	}
	if soilMoisture < c.Low && runSeconds < c.MaxRunSeconds {
		return true
	}
	return false
}
