package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `ring:
  stations: 6
  vehicles: ["t1", "t2", "t3"]
  lookahead_moves: 5
server:
  address: ":9999"
metrics:
  prometheus_enabled: true
  prometheus_port: ":9091"
telemetry:
  enabled: true
  broker: "tcp://localhost:1883"
  topic: "depot/state"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"ring.stations", cfg.Ring.Stations, 6},
		{"ring.vehicles", len(cfg.Ring.Vehicles), 3},
		{"ring.lookahead_moves", cfg.Ring.LookaheadMoves, 5},
		{"server.address", cfg.Server.Address, ":9999"},
		{"metrics.prometheus_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"metrics.prometheus_port", cfg.Metrics.PrometheusPort, ":9091"},
		{"telemetry.enabled", cfg.Telemetry.Enabled, true},
		{"telemetry.topic", cfg.Telemetry.Topic, "depot/state"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `ring:
  stations: 4
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RR_SERVER__ADDRESS", ":7777")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Server.Address != ":7777" {
		t.Errorf("env override ignored: %s", cfg.Server.Address)
	}
}

func TestLoadAppliesMetricsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `metrics:
  prometheus_enabled: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Metrics.PrometheusPort != ":9090" {
		t.Errorf("prometheus port default not applied, got %q", cfg.Metrics.PrometheusPort)
	}
	if Default().Metrics.PrometheusPort == "" {
		t.Errorf("default config missing prometheus port")
	}
}

func TestLoadRejectsInvalidRing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `ring:
  stations: 3
  vehicles: ["a", "b", "c"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for full ring")
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Ring.Stations != 4 || len(cfg.Ring.Vehicles) != 3 {
		t.Fatalf("unexpected ring defaults: %+v", cfg.Ring)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
