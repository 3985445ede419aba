package physics

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func quietModel() *Model {
	return New(DefaultParams(), FixedNoise{Value: 0})
}

func TestAdvanceHeaterRaisesTemperature(t *testing.T) {
	m := quietModel()
	c := Conditions{Temperature: 20, Humidity: 60, SoilMoisture: 50}

	// 20 + 0.5 heater, then relaxation: 20.5 - 0.5*0.05 = 20.475.
	next := m.Advance(c, Actuators{Heater: true}, 1)
	if !almostEqual(next.Temperature, 20.475) {
		t.Fatalf("temp=%v want 20.475", next.Temperature)
	}
}

func TestAdvanceFanLowersTemperature(t *testing.T) {
	m := quietModel()
	c := Conditions{Temperature: 20, Humidity: 60, SoilMoisture: 50}

	// 20 - 0.4 fan, then relaxation pulls back up: 19.6 + 0.4*0.05 = 19.62.
	next := m.Advance(c, Actuators{Fan: true}, 1)
	if !almostEqual(next.Temperature, 19.62) {
		t.Fatalf("temp=%v want 19.62", next.Temperature)
	}
}

func TestAdvanceBothActuatorsApplyAdditively(t *testing.T) {
	// Manual commands can set both flags; the model applies both effects.
	m := quietModel()
	c := Conditions{Temperature: 20, Humidity: 60, SoilMoisture: 50}

	// 20 + 0.5 - 0.4 = 20.1, then relaxation: 20.1 - 0.1*0.05 = 20.095.
	next := m.Advance(c, Actuators{Heater: true, Fan: true}, 1)
	if !almostEqual(next.Temperature, 20.095) {
		t.Fatalf("temp=%v want 20.095", next.Temperature)
	}
}

func TestAdvanceRelaxesTowardAmbient(t *testing.T) {
	m := quietModel()

	// Above ambient: 30 - (30-20)*0.05 = 29.5
	next := m.Advance(Conditions{Temperature: 30, Humidity: 60, SoilMoisture: 50}, Actuators{}, 1)
	if !almostEqual(next.Temperature, 29.5) {
		t.Fatalf("temp=%v want 29.5", next.Temperature)
	}

	// Below ambient: 10 - (10-20)*0.05 = 10.5
	next = m.Advance(Conditions{Temperature: 10, Humidity: 60, SoilMoisture: 50}, Actuators{}, 1)
	if !almostEqual(next.Temperature, 10.5) {
		t.Fatalf("temp=%v want 10.5", next.Temperature)
	}
}

func TestAdvanceSoilEvaporationAndPump(t *testing.T) {
	m := quietModel()
	c := Conditions{Temperature: 20, Humidity: 60, SoilMoisture: 50}

	// Pump off: evap = 0.02 + 20*0.005 = 0.12, soil = 49.88
	next := m.Advance(c, Actuators{}, 1)
	if !almostEqual(next.SoilMoisture, 49.88) {
		t.Fatalf("soil=%v want 49.88", next.SoilMoisture)
	}
	if next.PumpRunSeconds != 0 {
		t.Fatalf("pumpRunSeconds=%d want 0", next.PumpRunSeconds)
	}

	// Pump on: soil = 50 - 0.12 + 0.6 = 50.48, counter increments.
	next = m.Advance(c, Actuators{Pump: true}, 1)
	if !almostEqual(next.SoilMoisture, 50.48) {
		t.Fatalf("soil=%v want 50.48", next.SoilMoisture)
	}
	if next.PumpRunSeconds != 1 {
		t.Fatalf("pumpRunSeconds=%d want 1", next.PumpRunSeconds)
	}
}

func TestAdvancePumpRunSecondsAccumulatesAndResets(t *testing.T) {
	m := quietModel()
	c := Conditions{Temperature: 20, Humidity: 60, SoilMoisture: 50}

	for i := 1; i <= 3; i++ {
		c = m.Advance(c, Actuators{Pump: true}, 1)
		if c.PumpRunSeconds != i {
			t.Fatalf("tick %d: pumpRunSeconds=%d want %d", i, c.PumpRunSeconds, i)
		}
	}

	c = m.Advance(c, Actuators{}, 1)
	if c.PumpRunSeconds != 0 {
		t.Fatalf("pumpRunSeconds=%d want 0 after pump off", c.PumpRunSeconds)
	}
}

func TestAdvanceWaterCycleCoupling(t *testing.T) {
	// Humidity gain from the soil must use the same waterEvaporated value
	// computed for the soil subsystem: evap*0.4, not an independent term.
	m := quietModel()
	c := Conditions{Temperature: 20, Humidity: 60, SoilMoisture: 50}

	next := m.Advance(c, Actuators{}, 1)

	// hum = 60 - 20*0.005 + 0.12*0.4 + 0.05 = 60 - 0.1 + 0.048 + 0.05 = 59.998
	if !almostEqual(next.Humidity, 59.998) {
		t.Fatalf("hum=%v want 59.998", next.Humidity)
	}

	soilLoss := c.SoilMoisture - next.SoilMoisture
	humGainFromSoil := next.Humidity - c.Humidity + 20*0.005 - 0.05
	if !almostEqual(humGainFromSoil, soilLoss*0.4) {
		t.Fatalf("humidity gain %v != soil loss %v * 0.4", humGainFromSoil, soilLoss)
	}
}

func TestAdvancePumpDoesNotRaiseHumidity(t *testing.T) {
	// Pump-driven soil gain must not leak into humidity: with identical
	// temperature, humidity is the same whether the pump runs or not.
	m := quietModel()
	c := Conditions{Temperature: 20, Humidity: 60, SoilMoisture: 50}

	withPump := m.Advance(c, Actuators{Pump: true}, 1)
	withoutPump := m.Advance(c, Actuators{}, 1)
	if !almostEqual(withPump.Humidity, withoutPump.Humidity) {
		t.Fatalf("pump changed humidity: %v vs %v", withPump.Humidity, withoutPump.Humidity)
	}
}

func TestAdvanceClampsAllFields(t *testing.T) {
	// Exaggerated coefficients drive every variable past its bound in a
	// single step; the clamps must catch all of them.
	params := DefaultParams()
	params.HeaterRate = 1000
	params.PumpRate = 1000
	params.HumidityDrift = 1000
	m := New(params, FixedNoise{Value: 0})

	hot := m.Advance(Conditions{Temperature: 59, Humidity: 99.9, SoilMoisture: 99}, Actuators{Heater: true, Pump: true}, 1)
	if hot.Temperature != TempMax {
		t.Fatalf("temp=%v want clamped to %v", hot.Temperature, TempMax)
	}
	if hot.SoilMoisture != SoilMax {
		t.Fatalf("soil=%v want clamped to %v", hot.SoilMoisture, SoilMax)
	}
	if hot.Humidity != HumMax {
		t.Fatalf("hum=%v want clamped to %v", hot.Humidity, HumMax)
	}

	params = DefaultParams()
	params.FanRate = 1000
	params.EvapBase = 200
	params.SoilToAirTransfer = 0
	params.HumidityDrift = -1000
	m = New(params, FixedNoise{Value: 0})

	cold := m.Advance(Conditions{Temperature: 30, Humidity: 15, SoilMoisture: 5}, Actuators{Fan: true}, 1)
	if cold.Temperature != TempMin {
		t.Fatalf("temp=%v want clamped to %v", cold.Temperature, TempMin)
	}
	if cold.Humidity != HumMin {
		t.Fatalf("hum=%v want clamped to %v", cold.Humidity, HumMin)
	}
	if cold.SoilMoisture != SoilMin {
		t.Fatalf("soil=%v want clamped to %v", cold.SoilMoisture, SoilMin)
	}
}

func TestAdvanceBoundsHoldUnderNoise(t *testing.T) {
	m := New(DefaultParams(), NewRandNoise(1))
	c := Conditions{Temperature: 25, Humidity: 60, SoilMoisture: 50}

	for i := 0; i < 5000; i++ {
		c = m.Advance(c, Actuators{Heater: i%3 == 0, Fan: i%7 == 0, Pump: i%5 == 0}, 1)
		if c.Temperature < TempMin || c.Temperature > TempMax {
			t.Fatalf("tick %d: temp=%v out of bounds", i, c.Temperature)
		}
		if c.Humidity < HumMin || c.Humidity > HumMax {
			t.Fatalf("tick %d: hum=%v out of bounds", i, c.Humidity)
		}
		if c.SoilMoisture < SoilMin || c.SoilMoisture > SoilMax {
			t.Fatalf("tick %d: soil=%v out of bounds", i, c.SoilMoisture)
		}
	}
}

func TestRandNoiseBounds(t *testing.T) {
	n := NewRandNoise(42)
	for i := 0; i < 1000; i++ {
		v := n.Uniform(-0.05, 0.05)
		if v < -0.05 || v >= 0.05 {
			t.Fatalf("draw %d: %v outside [-0.05, 0.05)", i, v)
		}
	}
}

func TestRandNoiseDeterministicPerSeed(t *testing.T) {
	a := NewRandNoise(7)
	b := NewRandNoise(7)
	for i := 0; i < 10; i++ {
		if av, bv := a.Uniform(0, 1), b.Uniform(0, 1); av != bv {
			t.Fatalf("draw %d: %v != %v for identical seeds", i, av, bv)
		}
	}
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{59.998, 60.0},
		{49.884999, 49.88},
		{2.71828, 2.72},
		{-0.005, -0.01},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); !almostEqual(got, tc.want) {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
