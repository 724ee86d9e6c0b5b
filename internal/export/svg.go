package export

import (
	"fmt"
	"html"
	"image/color"
	"io"
	"strings"

	"github.com/san-kum/wheelsim/internal/render"
)

// SVG is a render.Surface that builds an SVG document.
type SVG struct {
	width, height float64
	sb            strings.Builder
}

// NewSVG creates an empty document of the given pixel size.
func NewSVG(width, height float64) *SVG {
	return &SVG{width: width, height: height}
}

func (s *SVG) Size() (float64, float64) { return s.width, s.height }

func (s *SVG) Clear(c color.RGBA) {
	s.sb.Reset()
	s.sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>
`, hex(c)))
}

func (s *SVG) Line(x0, y0, x1, y1, width float64, c color.RGBA) {
	s.sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-linecap="round"/>
`, x0, y0, x1, y1, hex(c), width))
}

func (s *SVG) Circle(cx, cy, r, width float64, c color.RGBA) {
	s.sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>
`, cx, cy, r, hex(c), width))
}

func (s *SVG) FillCircle(cx, cy, r float64, c color.RGBA) {
	s.sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, cx, cy, r, hex(c)))
}

func (s *SVG) Text(x, y float64, str string, style render.TextStyle) {
	anchor := "start"
	switch style.Align {
	case render.AlignCenter:
		anchor = "middle"
	case render.AlignRight:
		anchor = "end"
	}
	weight := "normal"
	if style.Bold {
		weight = "bold"
	}
	s.sb.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" font-weight="%s" text-anchor="%s" fill="%s">%s</text>
`, x, y, style.Size, weight, anchor, hex(style.Color), html.EscapeString(str)))
}

// String returns the complete document.
func (s *SVG) String() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
%s</svg>
`, s.width, s.height, s.width, s.height, s.sb.String())
}

// WriteTo writes the document to w.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
