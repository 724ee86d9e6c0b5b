package export

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/san-kum/wheelsim/internal/render"
)

// Raster is a render.Surface backed by a gg drawing context.
type Raster struct {
	dc *gg.Context
}

// NewRaster creates a width x height RGBA image surface.
func NewRaster(width, height int) *Raster {
	return &Raster{dc: gg.NewContext(width, height)}
}

func (r *Raster) Size() (float64, float64) {
	return float64(r.dc.Width()), float64(r.dc.Height())
}

func (r *Raster) Clear(c color.RGBA) {
	r.dc.SetColor(c)
	r.dc.Clear()
}

func (r *Raster) Line(x0, y0, x1, y1, width float64, c color.RGBA) {
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width)
	r.dc.DrawLine(x0, y0, x1, y1)
	r.dc.Stroke()
}

func (r *Raster) Circle(cx, cy, rad, width float64, c color.RGBA) {
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width)
	r.dc.DrawCircle(cx, cy, rad)
	r.dc.Stroke()
}

func (r *Raster) FillCircle(cx, cy, rad float64, c color.RGBA) {
	r.dc.SetColor(c)
	r.dc.DrawCircle(cx, cy, rad)
	r.dc.Fill()
}

// Text uses gg's built-in face; bold is drawn as a one pixel double strike.
func (r *Raster) Text(x, y float64, s string, style render.TextStyle) {
	ax := 0.0
	switch style.Align {
	case render.AlignCenter:
		ax = 0.5
	case render.AlignRight:
		ax = 1
	}
	r.dc.SetColor(style.Color)
	r.dc.DrawStringAnchored(s, x, y, ax, 0)
	if style.Bold {
		r.dc.DrawStringAnchored(s, x+1, y, ax, 0)
	}
}

// Image returns the rendered image.
func (r *Raster) Image() image.Image {
	return r.dc.Image()
}

// EncodePNG writes the image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}
