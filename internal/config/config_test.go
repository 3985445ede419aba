package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tick != time.Second {
		t.Errorf("tick=%v want 1s", cfg.Tick)
	}
	if cfg.Control.SetpointC != 25.0 {
		t.Errorf("setpoint=%v want 25", cfg.Control.SetpointC)
	}
	if cfg.Control.PWMPeriod != 10 {
		t.Errorf("pwm_period=%d want 10", cfg.Control.PWMPeriod)
	}
	if cfg.Physics.SoilToAir != 0.4 {
		t.Errorf("soil_to_air=%v want 0.4", cfg.Physics.SoilToAir)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "greenhouse.yaml")
	data := `
tick: 500ms
broker: tcp://localhost:1883
control:
  setpoint_c: 22.5
  soil_low: 30
  soil_high: 70
`
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tick != 500*time.Millisecond {
		t.Errorf("tick=%v want 500ms", cfg.Tick)
	}
	if cfg.Broker != "tcp://localhost:1883" {
		t.Errorf("broker=%q", cfg.Broker)
	}
	if cfg.Control.SetpointC != 22.5 {
		t.Errorf("setpoint=%v want 22.5", cfg.Control.SetpointC)
	}
	if cfg.Control.SoilLow != 30 || cfg.Control.SoilHigh != 70 {
		t.Errorf("soil thresholds: %v/%v", cfg.Control.SoilLow, cfg.Control.SoilHigh)
	}

	// Untouched fields keep their defaults.
	if cfg.Control.Kp != 10.0 {
		t.Errorf("kp=%v want default 10", cfg.Control.Kp)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("http_addr=%q want default", cfg.HTTPAddr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tick", func(c *Config) { c.Tick = 0 }},
		{"negative tick", func(c *Config) { c.Tick = -time.Second }},
		{"zero pwm period", func(c *Config) { c.Control.PWMPeriod = 0 }},
		{"inverted soil thresholds", func(c *Config) { c.Control.SoilLow = 60; c.Control.SoilHigh = 40 }},
		{"equal soil thresholds", func(c *Config) { c.Control.SoilLow = 50; c.Control.SoilHigh = 50 }},
		{"zero max pump seconds", func(c *Config) { c.Control.MaxPumpSeconds = 0 }},
		{"zero integral limit", func(c *Config) { c.Control.IntegralLimit = 0 }},
	}

	for _, tc := range cases {
		cfg := Default()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(p, []byte("tick: [not a duration"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}
