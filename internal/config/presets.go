package config

import "sort"

// Preset is a named wheel setup.
type Preset struct {
	Description string
	Radius      float64
	Revolutions float64
	Speed       float64
}

var Presets = map[string]Preset{
	"coin": {
		Description: "a one euro coin rolled along a desk",
		Radius:      1.16, Revolutions: 5, Speed: 0.5,
	},
	"toy_car": {
		Description: "toy car wheel across the floor",
		Radius:      2, Revolutions: 20, Speed: 1,
	},
	"default": {
		Description: "classroom demo wheel",
		Radius:      56, Revolutions: 10, Speed: 1,
	},
	"bicycle": {
		Description: "700c road bike wheel",
		Radius:      34, Revolutions: 12, Speed: 2,
	},
	"car_tire": {
		Description: "passenger car tire",
		Radius:      32, Revolutions: 25, Speed: 2,
	},
	"ferris_wheel": {
		Description: "a 40 m ferris wheel, if it could roll",
		Radius:      2000, Revolutions: 1, Speed: 2,
	},
}

// GetPreset returns the default config with the named preset applied, or
// nil for an unknown name.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.ApplyTo(cfg)
	return cfg
}

// ApplyTo overwrites the wheel fields of cfg.
func (p Preset) ApplyTo(cfg *Config) {
	cfg.Radius = p.Radius
	cfg.Revolutions = p.Revolutions
	cfg.Speed = p.Speed
}

// ListPresets returns the preset names sorted.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
