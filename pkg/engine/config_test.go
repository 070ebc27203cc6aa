package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxGoals != 8 {
		t.Errorf("MaxGoals = %d, want 8", cfg.MaxGoals)
	}
	if cfg.HTFTMaxGoals != 6 {
		t.Errorf("HTFTMaxGoals = %d, want 6", cfg.HTFTMaxGoals)
	}
	if cfg.FirstHalfShare <= 0 || cfg.FirstHalfShare >= 1 {
		t.Errorf("FirstHalfShare = %v, want in (0,1)", cfg.FirstHalfShare)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("embedded defaults must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero max goals", func(c *Config) { c.MaxGoals = 0 }, true},
		{"half bound above matrix bound", func(c *Config) { c.HTFTMaxGoals = c.MaxGoals + 1 }, true},
		{"half share at one", func(c *Config) { c.FirstHalfShare = 1 }, true},
		{"negative half share", func(c *Config) { c.FirstHalfShare = -0.2 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	data := "max_goals: 10\nhome_advantage: 1.25\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxGoals != 10 {
		t.Errorf("MaxGoals = %d, want 10", cfg.MaxGoals)
	}
	if cfg.HomeAdvantage != 1.25 {
		t.Errorf("HomeAdvantage = %v, want 1.25", cfg.HomeAdvantage)
	}
	// Untouched fields keep the embedded values.
	if cfg.LeagueAvgGoals != DefaultConfig().LeagueAvgGoals {
		t.Errorf("LeagueAvgGoals = %v, want default", cfg.LeagueAvgGoals)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
