// Package physics advances a simplified greenhouse model: heat exchange
// between the actuators and the ambient, and the water cycle coupling
// soil moisture to air humidity.
package physics

import "math"

// Bounds for the simulated readings.
const (
	TempMin = 0.0
	TempMax = 60.0
	HumMin  = 10.0
	HumMax  = 100.0
	SoilMin = 0.0
	SoilMax = 100.0
)

// Params are the physical coefficients of the model.
type Params struct {
	// AmbientTempC is the outside temperature the greenhouse relaxes toward.
	AmbientTempC float64
	// HeaterRate / FanRate are the actuator effects in degrees C per second.
	HeaterRate float64
	FanRate    float64
	// HeatLossFactor scales the exponential relaxation toward ambient.
	HeatLossFactor float64

	// PumpRate is soil moisture gain in % per second while the pump runs.
	PumpRate float64
	// EvapBase is the soil evaporation floor in % per second.
	EvapBase float64
	// SoilEvapFactor adds evaporation per degree of air temperature.
	SoilEvapFactor float64

	// AirDryingFactor is humidity loss per degree per second.
	AirDryingFactor float64
	// SoilToAirTransfer is the fraction of evaporated soil water that
	// becomes air humidity.
	SoilToAirTransfer float64
	// HumidityDrift is a constant humidity gain in % per second.
	HumidityDrift float64
}

// DefaultParams returns the stock greenhouse coefficients.
func DefaultParams() Params {
	return Params{
		AmbientTempC:      20.0,
		HeaterRate:        0.5,
		FanRate:           0.4,
		HeatLossFactor:    0.05,
		PumpRate:          0.6,
		EvapBase:          0.02,
		SoilEvapFactor:    0.005,
		AirDryingFactor:   0.005,
		SoilToAirTransfer: 0.4,
		HumidityDrift:     0.05,
	}
}

// Conditions is the simulated environment state. Values accumulate
// unrounded across ticks; round only the externally visible copy.
type Conditions struct {
	Temperature    float64 // deg C
	Humidity       float64 // % relative
	SoilMoisture   float64 // %
	PumpRunSeconds int     // consecutive seconds the pump has been on
}

// Actuators are the inputs to the model for one step.
type Actuators struct {
	Heater bool
	Fan    bool
	Pump   bool
}

// Model advances Conditions one time step at a time.
type Model struct {
	params Params
	noise  Noise
}

// New creates a model with the given coefficients and noise source.
func New(params Params, noise Noise) *Model {
	return &Model{params: params, noise: noise}
}

// Advance computes the next Conditions for the given actuator flags and
// elapsed time dt (seconds). Heater and fan effects are both applied if
// both flags are set; manual commands can produce that combination and
// the model does not special-case it.
func (m *Model) Advance(c Conditions, a Actuators, dt float64) Conditions {
	p := m.params

	// Temperature: actuator effects, relaxation toward ambient, sensor noise.
	temp := c.Temperature
	if a.Heater {
		temp += p.HeaterRate * dt
	}
	if a.Fan {
		temp -= p.FanRate * dt
	}
	temp -= (temp - p.AmbientTempC) * p.HeatLossFactor * dt
	temp += m.noise.Uniform(-0.05, 0.05) * dt
	temp = clamp(temp, TempMin, TempMax)

	// Soil moisture: evaporation scales with the new temperature; the pump
	// replenishes and the safety counter tracks continuous run time.
	evapRate := p.EvapBase + temp*p.SoilEvapFactor
	waterEvaporated := evapRate * dt

	soil := c.SoilMoisture - waterEvaporated
	runSeconds := 0
	if a.Pump {
		soil += p.PumpRate * dt
		runSeconds = c.PumpRunSeconds + 1
	}
	soil = clamp(soil, SoilMin, SoilMax)

	// Air humidity: warmer air dries out, but the exact amount of water
	// evaporated from the soil transfers back as humidity gain.
	hum := c.Humidity
	hum -= temp * p.AirDryingFactor * dt
	hum += waterEvaporated * p.SoilToAirTransfer
	hum += p.HumidityDrift * dt
	hum += m.noise.Uniform(-0.1, 0.1) * dt
	hum = clamp(hum, HumMin, HumMax)

	return Conditions{
		Temperature:    temp,
		Humidity:       hum,
		SoilMoisture:   soil,
		PumpRunSeconds: runSeconds,
	}
}

// Round2 rounds to 2 decimal places for display and storage. Internal
// accumulation stays unrounded to avoid compounding rounding error.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
