package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/wheel"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Radius != 56 || cfg.Revolutions != 10 {
		t.Errorf("unexpected default wheel %v x %v", cfg.Radius, cfg.Revolutions)
	}
	if cfg.PiMode != "3.14" {
		t.Errorf("expected pi 3.14, got %s", cfg.PiMode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero radius", func(c *Config) { c.Radius = 0 }},
		{"negative revolutions", func(c *Config) { c.Revolutions = -1 }},
		{"odd speed", func(c *Config) { c.Speed = 3 }},
		{"bad pi", func(c *Config) { c.PiMode = "3" }},
		{"flat viewport", func(c *Config) { c.Viewport.Height = 0 }},
		{"no fps", func(c *Config) { c.FPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestValidate_PiError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PiMode = "pi"
	if err := cfg.Validate(); !errors.Is(err, wheel.ErrUnknownPiMode) {
		t.Errorf("expected wrapped ErrUnknownPiMode, got %v", err)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheel.yaml")
	cfg := DefaultConfig()
	cfg.Radius = 20
	cfg.PiMode = "22/7"
	cfg.Sound = true

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Radius != 20 || got.PiMode != "22/7" || !got.Sound {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheel.yaml")
	if err := os.WriteFile(path, []byte("radius: 12.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Radius != 12.5 || cfg.Revolutions != 10 || cfg.FPS != DefaultFPS {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheel.yaml")
	if err := os.WriteFile(path, []byte("speed: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestApply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Radius = 20
	cfg.Revolutions = 3
	cfg.Speed = 2
	cfg.PiMode = "22/7"
	cfg.Viewport = ViewportConfig{Width: 640, Height: 480}

	s := sim.New()
	if err := cfg.Apply(s); err != nil {
		t.Fatal(err)
	}
	if s.Radius() != 20 || s.TargetRevolutions() != 3 || s.SpeedMultiplier() != 2 {
		t.Error("wheel settings not applied")
	}
	if s.PiMode() != wheel.PiFraction {
		t.Errorf("expected 22/7, got %v", s.PiMode())
	}
	if s.Viewport().Width != 640 {
		t.Error("viewport not applied")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("bicycle")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Radius != 34 {
		t.Errorf("expected radius 34, got %v", cfg.Radius)
	}
	if cfg.PiMode != "3.14" {
		t.Error("preset should keep defaults for other fields")
	}
	if GetPreset("unicycle") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d names, got %d", len(Presets), len(names))
	}
	if names[0] != "bicycle" {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestLoadOver_Preset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheel.yaml")
	if err := os.WriteFile(path, []byte("revolutions: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadOver(path, GetPreset("coin"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Radius != 1.16 || cfg.Revolutions != 3 {
		t.Errorf("file should override only the keys it sets: %+v", cfg)
	}
}
