package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/wheel"
)

const (
	DefaultFPS      = 60
	DefaultTheme    = "chalk"
	DefaultLogLevel = "info"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Radius      float64        `yaml:"radius"`
	Revolutions float64        `yaml:"revolutions"`
	Speed       float64        `yaml:"speed"`
	PiMode      string         `yaml:"pi_mode"`
	Viewport    ViewportConfig `yaml:"viewport"`
	FPS         int            `yaml:"fps"`
	Theme       string         `yaml:"theme"`
	Sound       bool           `yaml:"sound"`
	Seed        int64          `yaml:"seed"`
	LogLevel    string         `yaml:"log_level"`
	EventLog    string         `yaml:"event_log,omitempty"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Radius:      sim.DefaultRadius,
		Revolutions: sim.DefaultRevolutions,
		Speed:       sim.DefaultSpeed,
		PiMode:      string(wheel.DefaultPiMode),
		Viewport: ViewportConfig{
			Width:  sim.DefaultWidth,
			Height: sim.DefaultHeight,
		},
		FPS:      DefaultFPS,
		Theme:    DefaultTheme,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over base, which it modifies and returns.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field the session would reject.
func (c *Config) Validate() error {
	switch {
	case !(c.Radius > 0):
		return fmt.Errorf("%w: radius %v", ErrInvalid, c.Radius)
	case !(c.Revolutions > 0):
		return fmt.Errorf("%w: revolutions %v", ErrInvalid, c.Revolutions)
	case !slices.Contains(sim.SpeedMultipliers, c.Speed):
		return fmt.Errorf("%w: speed %v", ErrInvalid, c.Speed)
	case !(c.Viewport.Width > 0 && c.Viewport.Height > 0):
		return fmt.Errorf("%w: viewport %vx%v", ErrInvalid, c.Viewport.Width, c.Viewport.Height)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.FPS)
	}
	if _, err := wheel.ParsePiMode(c.PiMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Apply pushes the wheel settings into s. The first rejected value stops it.
func (c *Config) Apply(s *sim.Session) error {
	mode, err := wheel.ParsePiMode(c.PiMode)
	if err != nil {
		return err
	}
	if err := s.ResizeViewport(c.Viewport.Width, c.Viewport.Height); err != nil {
		return err
	}
	if err := s.SetRadius(c.Radius); err != nil {
		return err
	}
	if err := s.SetTargetRevolutions(c.Revolutions); err != nil {
		return err
	}
	if err := s.SetSpeedMultiplier(c.Speed); err != nil {
		return err
	}
	return s.SetPiMode(mode)
}
