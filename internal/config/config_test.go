package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/physbox/internal/session"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Step.Hz != 60 {
		t.Errorf("expected hz 60, got %v", cfg.Step.Hz)
	}
	if cfg.Interaction.BombScale != 30 {
		t.Errorf("expected bomb scale 30, got %v", cfg.Interaction.BombScale)
	}
	if cfg.Trails.Length != session.DefaultTrailLength {
		t.Errorf("expected trail length %d, got %d", session.DefaultTrailLength, cfg.Trails.Length)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		file string
		body string
	}{
		{"run.yaml", "seed: 9\nstep:\n  hz: 120\n  velocity_iterations: 6\n  position_iterations: 2\ninteraction:\n  right_mode: delete\ntrails:\n  enabled: true\n  length: 50\n"},
		{"run.toml", "seed = 9\n[step]\nhz = 120.0\nvelocity_iterations = 6\nposition_iterations = 2\n[interaction]\nright_mode = \"delete\"\n[trails]\nenabled = true\nlength = 50\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if cfg.Seed != 9 || cfg.Step.Hz != 120 || cfg.Step.VelocityIterations != 6 {
				t.Errorf("values not loaded: %+v", cfg)
			}
			if cfg.Interaction.BombScale != 30 {
				t.Errorf("default lost: bomb scale %v", cfg.Interaction.BombScale)
			}

			sc, err := cfg.ToSession()
			if err != nil {
				t.Fatal(err)
			}
			if sc.RightMode != session.RightDelete || !sc.TrailsEnabled || sc.TrailLength != 50 || sc.Seed != 9 {
				t.Errorf("session config %+v", sc)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad mode", "interaction:\n  right_mode: explode\n"},
		{"negative hz", "step:\n  hz: -1\n"},
		{"zero trail", "trails:\n  length: 0\n"},
		{"syntax", "step: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			os.WriteFile(path, []byte(tt.body), 0644)
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Session.Name = "pyramid"
	cfg.Step.SubStepping = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Session.Name != "pyramid" || !loaded.Step.SubStepping {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestToSettings(t *testing.T) {
	cfg := DefaultConfig()
	st := cfg.ToSettings()
	if st.Hz != 60 || st.VelocityIterations != 8 || st.PositionIterations != 3 {
		t.Errorf("settings %+v", st)
	}
	if st.Pause || st.SingleStep {
		t.Error("settings start paused")
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != 4 || names[0] != "default" {
		t.Errorf("presets %v", names)
	}

	cfg := DefaultConfig()
	if !cfg.ApplyPreset("precise") {
		t.Fatal("precise preset missing")
	}
	if cfg.Step.Hz != 240 || !cfg.Step.SubStepping {
		t.Errorf("preset not applied: %+v", cfg.Step)
	}
	if cfg.ApplyPreset("nonexistent") {
		t.Error("unknown preset applied")
	}
	if _, ok := GetPreset("fast"); !ok {
		t.Error("fast preset missing")
	}
}
