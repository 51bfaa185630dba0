package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.History.Backend != HistoryBackendMemory {
		t.Errorf("expected backend %q, got %q", HistoryBackendMemory, cfg.History.Backend)
	}
	if cfg.History.Capacity != 50 {
		t.Errorf("expected history capacity 50, got %d", cfg.History.Capacity)
	}
	if cfg.Forecast.Months != 6 {
		t.Errorf("expected forecast months 6, got %d", cfg.Forecast.Months)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected addr :8080, got %q", cfg.HTTP.Addr)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := Default()
	want.Database.Path = filepath.Join(dir, "plan.db")
	want.History.Backend = HistoryBackendSQLite
	want.History.Session = "yard-a"

	if err := SaveConfig(dir, want); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.Database.Path != want.Database.Path {
		t.Errorf("expected path %q, got %q", want.Database.Path, got.Database.Path)
	}
	if got.History.Backend != HistoryBackendSQLite {
		t.Errorf("expected backend sqlite, got %q", got.History.Backend)
	}
	if got.History.Session != "yard-a" {
		t.Errorf("expected session yard-a, got %q", got.History.Session)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, Dir), 0755); err != nil {
		t.Fatal(err)
	}
	yml := "history:\n  capacity: 10\nforecast:\n  months: 3\n"
	if err := os.WriteFile(filepath.Join(dir, Dir, "config.yaml"), []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.History.Capacity != 10 {
		t.Errorf("expected capacity 10, got %d", cfg.History.Capacity)
	}
	if cfg.Forecast.Months != 3 {
		t.Errorf("expected months 3, got %d", cfg.Forecast.Months)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHOPPLAN_HTTP__ADDR", "127.0.0.1:9999")
	t.Setenv("SHOPPLAN_HISTORY__CAPACITY", "20")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.Addr != "127.0.0.1:9999" {
		t.Errorf("expected env addr, got %q", cfg.HTTP.Addr)
	}
	if cfg.History.Capacity != 20 {
		t.Errorf("expected env capacity 20, got %d", cfg.History.Capacity)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}, wantErr: false},
		{name: "unknown backend", mutate: func(c *Config) { c.History.Backend = "redis" }, wantErr: true},
		{name: "negative capacity", mutate: func(c *Config) { c.History.Capacity = -1 }, wantErr: true},
		{name: "negative months", mutate: func(c *Config) { c.Forecast.Months = -2 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
