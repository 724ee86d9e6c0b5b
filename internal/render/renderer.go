// Package render draws a rolling-wheel frame onto an abstract Surface.
//
// The renderer keeps no state between frames: everything it draws comes from
// the sim.Snapshot it is given and the camera helpers.
package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/san-kum/wheelsim/internal/camera"
	"github.com/san-kum/wheelsim/internal/sim"
)

const (
	tickMargin     = 60.0
	tickHeight     = 8.0
	labelOffset    = 22.0
	labelSize      = 12.0
	revMarkerAbove = 14.0
	revMarkerBelow = 12.0
	groundWidth    = 2.0
	trailWidth     = 4.0
	rimWidth       = 3.0
	spokeWidth     = 1.5
	maxTicks       = 512
)

// Renderer draws frames in one theme.
type Renderer struct {
	Theme Theme
}

// New returns a renderer using theme.
func New(theme Theme) *Renderer {
	return &Renderer{Theme: theme}
}

// Draw renders snap onto dst. The scene is laid out for snap.Viewport.
func (r *Renderer) Draw(dst Surface, snap sim.Snapshot) {
	th := r.Theme
	dst.Clear(th.Background)

	vw := snap.Viewport.Width
	layout := camera.NewLayout(snap.Viewport, snap.Radius, snap.Scale)
	offset := camera.ComputeCameraOffset(snap.Distance, snap.Scale, vw, layout.StartX)
	groundY := layout.GroundY

	dst.Line(0, groundY, vw, groundY, groundWidth, th.Ground)
	r.drawTicks(dst, snap, layout, offset)

	contactX := layout.ScreenX(snap.Distance, snap.Scale, offset)
	if snap.Distance > 0 {
		dst.Line(layout.ScreenX(0, snap.Scale, offset), groundY, contactX, groundY, trailWidth, th.Trail)
	}

	r.drawRevolutionMarkers(dst, snap, layout, offset)
	r.drawWheel(dst, contactX, groundY-layout.WheelRadius, layout.WheelRadius, snap.Rotation)
}

func (r *Renderer) drawTicks(dst Surface, snap sim.Snapshot, layout camera.Layout, offset float64) {
	lo, hi := camera.VisibleRange(offset, snap.Viewport.Width, layout.StartX, snap.Scale, tickMargin)
	first := math.Ceil(math.Max(lo, 0) / snap.Interval)
	last := math.Floor(hi / snap.Interval)
	if last-first > maxTicks {
		last = first + maxTicks
	}

	for k := first; k <= last; k++ {
		pos := k * snap.Interval
		x := layout.ScreenX(pos, snap.Scale, offset)
		dst.Line(x, layout.GroundY, x, layout.GroundY+tickHeight, 1, r.Theme.Tick)

		text, bold := TickLabel(pos)
		dst.Text(x, layout.GroundY+labelOffset, text, TextStyle{
			Size:  labelSize,
			Bold:  bold,
			Align: AlignCenter,
			Color: r.Theme.Label,
		})
	}
}

func (r *Renderer) drawRevolutionMarkers(dst Surface, snap sim.Snapshot, layout camera.Layout, offset float64) {
	done := snap.CompletedRevolutions()
	if done <= 0 {
		return
	}
	lo, hi := camera.VisibleRange(offset, snap.Viewport.Width, layout.StartX, snap.Scale, tickMargin)
	first := int(math.Max(1, math.Ceil(lo/snap.Circumference)))
	last := int(math.Min(float64(done), math.Floor(hi/snap.Circumference)))
	for i := first; i <= last; i++ {
		x := layout.ScreenX(float64(i)*snap.Circumference, snap.Scale, offset)
		y := layout.GroundY
		dst.Line(x, y-revMarkerAbove, x, y+revMarkerBelow, 2, r.Theme.RevMarker)
		dst.Text(x, y-revMarkerAbove-4, strconv.Itoa(i), TextStyle{
			Size:  labelSize - 2,
			Align: AlignCenter,
			Color: r.Theme.RevMarker,
		})
	}
}

// drawWheel draws rim, spokes, hub and valve around (cx, cy). In the wheel's
// own frame the valve sits at the bottom, so at rotation 0 it touches the ground.
func (r *Renderer) drawWheel(dst Surface, cx, cy, radius, angle float64) {
	th := r.Theme
	sin, cos := math.Sincos(angle)
	rot := func(x, y float64) (float64, float64) {
		return cx + x*cos - y*sin, cy + x*sin + y*cos
	}

	dst.Circle(cx, cy, radius, rimWidth, th.Rim)

	x0, y0 := rot(0, -radius)
	x1, y1 := rot(0, radius)
	dst.Line(x0, y0, x1, y1, spokeWidth, th.Spoke)
	x0, y0 = rot(-radius, 0)
	x1, y1 = rot(radius, 0)
	dst.Line(x0, y0, x1, y1, spokeWidth, th.Spoke)

	dst.FillCircle(cx, cy, math.Max(2, radius*0.08), th.Hub)

	vx, vy := rot(0, radius)
	dst.FillCircle(vx, vy, math.Max(3, radius*0.06), th.Valve)
}

// TickLabel formats a ground position. Whole metres from 1 m upwards are
// shown in metres and emphasised; everything else is shown in centimetres.
func TickLabel(posCm float64) (text string, bold bool) {
	if posCm >= 100 && isMultiple(posCm, 100) {
		return fmt.Sprintf("%s m", formatNumber(posCm/100)), true
	}
	return fmt.Sprintf("%s cm", formatNumber(posCm)), false
}

func isMultiple(v, of float64) bool {
	return math.Abs(math.Remainder(v, of)) < 1e-6
}

func formatNumber(v float64) string {
	v = math.Round(v*1e6) / 1e6
	return strconv.FormatFloat(v, 'f', -1, 64)
}
