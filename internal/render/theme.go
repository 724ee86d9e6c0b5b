package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the colors of one scene style.
type Theme struct {
	Name       string
	Background color.RGBA
	Ground     color.RGBA
	Tick       color.RGBA
	Label      color.RGBA
	Trail      color.RGBA
	RevMarker  color.RGBA
	Rim        color.RGBA
	Spoke      color.RGBA
	Hub        color.RGBA
	Valve      color.RGBA
}

// Available themes
var (
	ThemeChalk = mustTheme("chalk", map[string]string{
		"background": "#1e2b24",
		"ground":     "#e8e4d8",
		"tick":       "#bfbaa8",
		"label":      "#f4f1e6",
		"trail":      "#f2c14e",
		"rev":        "#f25f5c",
		"rim":        "#ffffff",
		"spoke":      "#d0d0d0",
		"hub":        "#9a9a9a",
		"valve":      "#5fb3f2",
	})

	ThemePaper = mustTheme("paper", map[string]string{
		"background": "#fbfaf5",
		"ground":     "#333333",
		"tick":       "#555555",
		"label":      "#222222",
		"trail":      "#2a7de1",
		"rev":        "#d7263d",
		"rim":        "#222222",
		"spoke":      "#666666",
		"hub":        "#444444",
		"valve":      "#e98a15",
	})

	ThemeMidnight = mustTheme("midnight", map[string]string{
		"background": "#0a0a0a",
		"ground":     "#b4b4b4",
		"tick":       "#7a7a7a",
		"label":      "#dddddd",
		"trail":      "#00ffff",
		"rev":        "#ff00ff",
		"rim":        "#ffffff",
		"spoke":      "#8c8c8c",
		"hub":        "#5a5a5a",
		"valve":      "#ffff00",
	})

	// DefaultTheme is used when no theme is named.
	DefaultTheme = ThemeChalk

	// Themes lists the built-in themes in cycling order.
	Themes = []Theme{ThemeChalk, ThemePaper, ThemeMidnight}
)

// GetTheme returns a theme by name, falling back to DefaultTheme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return DefaultTheme
}

// NextTheme returns the theme after the named one.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return DefaultTheme
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Hex parses a #rrggbb color.
func Hex(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func mustTheme(name string, hex map[string]string) Theme {
	get := func(key string) color.RGBA {
		c, err := Hex(hex[key])
		if err != nil {
			panic("render: bad color for " + name + "." + key + ": " + err.Error())
		}
		return c
	}
	return Theme{
		Name:       name,
		Background: get("background"),
		Ground:     get("ground"),
		Tick:       get("tick"),
		Label:      get("label"),
		Trail:      get("trail"),
		RevMarker:  get("rev"),
		Rim:        get("rim"),
		Spoke:      get("spoke"),
		Hub:        get("hub"),
		Valve:      get("valve"),
	}
}
