package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Addr() != ":8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DatabasePath != "portfolio.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.AuthFile != "auth.secret" {
		t.Errorf("AuthFile = %q", cfg.AuthFile)
	}
	if cfg.ProximityKm != 10 {
		t.Errorf("ProximityKm = %v", cfg.ProximityKm)
	}
	if !cfg.OTelEnabled || cfg.OTelEndpoint != "" {
		t.Errorf("Unexpected otel settings: %v %q", cfg.OTelEnabled, cfg.OTelEndpoint)
	}
	if cfg.VisitorRetention != 365*24*time.Hour {
		t.Errorf("VisitorRetention = %v", cfg.VisitorRetention)
	}
	if cfg.MascotInterval != 8*time.Second {
		t.Errorf("MascotInterval = %v", cfg.MascotInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MAP_DATA_PATH", "static/map.json")
	t.Setenv("PROXIMITY_KM", "25.5")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("MASCOT_INTERVAL", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr() != ":9000" || cfg.MapDataPath != "static/map.json" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.ProximityKm != 25.5 || cfg.OTelEnabled || cfg.MascotInterval != 2*time.Second {
		t.Errorf("Unexpected config: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparsable threshold", "PROXIMITY_KM", "far"},
		{"zero threshold", "PROXIMITY_KM", "0"},
		{"negative interval", "MASCOT_INTERVAL", "-1s"},
		{"bad retention", "VISITOR_RETENTION", "forever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
