// Package config loads and validates greenhouse daemon configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration. All fields have working defaults;
// a missing config file yields a fully defaulted Config.
type Config struct {
	// Tick is the control loop period. Must be > 0.
	Tick time.Duration `yaml:"tick"`

	// HTTPAddr is the web listen address; empty disables the web server.
	HTTPAddr string `yaml:"http_addr"`

	// Broker is the MQTT broker address; empty disables MQTT.
	Broker string `yaml:"broker"`

	// HistoryPath is the CSV history file; empty disables history.
	HistoryPath string `yaml:"history_path"`

	// NoiseSeed seeds the simulation noise source; 0 means seed from
	// the wall clock.
	NoiseSeed int64 `yaml:"noise_seed"`

	Control ControlConfig `yaml:"control"`
	Physics PhysicsConfig `yaml:"physics"`
}

// ControlConfig tunes the controllers.
type ControlConfig struct {
	SetpointC     float64 `yaml:"setpoint_c"`
	Kp            float64 `yaml:"kp"`
	Ki            float64 `yaml:"ki"`
	Kd            float64 `yaml:"kd"`
	IntegralLimit float64 `yaml:"integral_limit"`

	// PWMPeriod is the PWM cycle length in ticks.
	PWMPeriod int `yaml:"pwm_period"`

	SoilLow        float64 `yaml:"soil_low"`
	SoilHigh       float64 `yaml:"soil_high"`
	MaxPumpSeconds int     `yaml:"max_pump_seconds"`
}

// PhysicsConfig tunes the simulated environment.
type PhysicsConfig struct {
	InitialTempC  float64 `yaml:"initial_temp_c"`
	InitialHum    float64 `yaml:"initial_humidity"`
	InitialSoil   float64 `yaml:"initial_soil"`
	AmbientTempC  float64 `yaml:"ambient_temp_c"`
	HeaterRate    float64 `yaml:"heater_rate"`
	FanRate       float64 `yaml:"fan_rate"`
	HeatLoss      float64 `yaml:"heat_loss"`
	PumpRate      float64 `yaml:"pump_rate"`
	EvapBase      float64 `yaml:"evap_base"`
	SoilEvap      float64 `yaml:"soil_evap"`
	AirDrying     float64 `yaml:"air_drying"`
	SoilToAir     float64 `yaml:"soil_to_air"`
	HumidityDrift float64 `yaml:"humidity_drift"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Tick:        1 * time.Second,
		HTTPAddr:    ":8080",
		Broker:      "",
		HistoryPath: "history.csv",
		Control: ControlConfig{
			SetpointC:      25.0,
			Kp:             10.0,
			Ki:             0.2,
			Kd:             5.0,
			IntegralLimit:  50.0,
			PWMPeriod:      10,
			SoilLow:        40.0,
			SoilHigh:       60.0,
			MaxPumpSeconds: 600,
		},
		Physics: PhysicsConfig{
			InitialTempC:  25.0,
			InitialHum:    60.0,
			InitialSoil:   50.0,
			AmbientTempC:  20.0,
			HeaterRate:    0.5,
			FanRate:       0.4,
			HeatLoss:      0.05,
			PumpRate:      0.6,
			EvapBase:      0.02,
			SoilEvap:      0.005,
			AirDrying:     0.005,
			SoilToAir:     0.4,
			HumidityDrift: 0.05,
		},
	}
}

// Load reads the YAML file at path on top of the defaults and validates
// the result. An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the startup preconditions. Violations are fatal: the
// loop cannot recover from them mid-run.
func (c Config) Validate() error {
	if c.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %v", c.Tick)
	}
	if c.Control.PWMPeriod <= 0 {
		return fmt.Errorf("control.pwm_period must be positive, got %d", c.Control.PWMPeriod)
	}
	if c.Control.SoilLow >= c.Control.SoilHigh {
		return fmt.Errorf("control.soil_low (%v) must be below control.soil_high (%v)", c.Control.SoilLow, c.Control.SoilHigh)
	}
	if c.Control.MaxPumpSeconds <= 0 {
		return fmt.Errorf("control.max_pump_seconds must be positive, got %d", c.Control.MaxPumpSeconds)
	}
	if c.Control.IntegralLimit <= 0 {
		return fmt.Errorf("control.integral_limit must be positive, got %v", c.Control.IntegralLimit)
	}
	return nil
}
