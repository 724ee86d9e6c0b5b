// Package camera maps centimetres on the ground to pixels on screen.
//
// Scale and marker interval depend only on the wheel radius and the viewport
// and are recomputed when either changes. The pan offset depends on the
// distance travelled and is recomputed every frame.
package camera

import "math"

const (
	// MinScale and MaxScale bound the pixels-per-cm factor.
	MinScale = 0.001
	MaxScale = 100.0

	// VerticalPadding and HorizontalPadding are subtracted from the viewport
	// before fitting the wheel.
	VerticalPadding   = 70.0
	HorizontalPadding = 40.0

	// FitFactor leaves a margin around the wheel diameter.
	FitFactor = 2.2

	// TargetTickSpacing is the on-screen tick spacing the interval aims for.
	TargetTickSpacing = 180.0

	// MinMarkerInterval is the smallest tick spacing in cm.
	MinMarkerInterval = 1.0

	// PanThreshold is the fraction of the viewport width the wheel may reach
	// before the camera starts following it.
	PanThreshold = 0.6

	// LeftMargin is the gap between the left edge and the wheel at rest.
	LeftMargin = 50.0

	// BottomMargin is the gap between the ground line and the bottom edge.
	BottomMargin = 40.0
)

// Viewport is the size of the drawing target in pixels.
type Viewport struct {
	Width  float64
	Height float64
}

// Valid reports whether both dimensions are positive.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// ComputeScale returns pixels per cm such that the wheel diameter plus a
// margin fits both viewport dimensions.
func ComputeScale(radius, viewportWidth, viewportHeight float64) float64 {
	availableHeight := viewportHeight - VerticalPadding
	availableWidth := viewportWidth - HorizontalPadding
	scale := math.Min(availableHeight, availableWidth) / (radius * FitFactor)
	return clamp(scale, MinScale, MaxScale)
}

// ComputeMarkerInterval picks a tick spacing in cm near TargetTickSpacing
// pixels, rounded to 1, 2 or 10 times a power of ten.
func ComputeMarkerInterval(pixelScale float64) float64 {
	approxCm := TargetTickSpacing / pixelScale
	magnitude := math.Pow(10, math.Floor(math.Log10(approxCm)))
	leading := approxCm / magnitude

	var interval float64
	switch {
	case leading < 1.6:
		interval = magnitude
	case leading < 4.5:
		interval = 2 * magnitude
	default:
		interval = 10 * magnitude
	}
	return math.Max(interval, MinMarkerInterval)
}

// ComputeCameraOffset returns how far the scene must pan left so the wheel
// never passes PanThreshold of the viewport width.
func ComputeCameraOffset(currentDistanceCm, pixelScale, viewportWidth, startX float64) float64 {
	wheelX := startX + currentDistanceCm*pixelScale
	threshold := viewportWidth * PanThreshold
	if wheelX > threshold {
		return wheelX - threshold
	}
	return 0
}

// Layout places the scene inside a viewport.
type Layout struct {
	// StartX is the screen x of the ground position 0 cm before panning.
	StartX float64
	// GroundY is the screen y of the ground line.
	GroundY float64
	// WheelRadius is the wheel radius in pixels.
	WheelRadius float64
}

// NewLayout positions the wheel so it is fully visible at rest.
func NewLayout(vp Viewport, radius, pixelScale float64) Layout {
	r := radius * pixelScale
	return Layout{
		StartX:      LeftMargin + r,
		GroundY:     vp.Height - BottomMargin,
		WheelRadius: r,
	}
}

// ScreenX converts a ground position in cm to a screen x coordinate.
func (l Layout) ScreenX(posCm, pixelScale, offset float64) float64 {
	return l.StartX + posCm*pixelScale - offset
}

// VisibleRange returns the ground positions, in cm, shown between the left
// and right edges widened by margin pixels on each side.
func VisibleRange(offset, viewportWidth, startX, pixelScale, margin float64) (lo, hi float64) {
	lo = (offset - margin - startX) / pixelScale
	hi = (offset + viewportWidth + margin - startX) / pixelScale
	return lo, hi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
