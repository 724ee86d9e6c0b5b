package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/wheelsim/internal/render"
)

const textSpacing = 1

// Surface draws render calls straight to the raylib frame buffer. It must be
// used between rl.BeginDrawing and rl.EndDrawing.
type Surface struct {
	Font rl.Font
}

func (s *Surface) Size() (float64, float64) {
	return float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
}

func (s *Surface) Clear(c color.RGBA) {
	rl.ClearBackground(c)
}

func (s *Surface) Line(x0, y0, x1, y1, width float64, c color.RGBA) {
	rl.DrawLineEx(vec(x0, y0), vec(x1, y1), float32(width), c)
}

func (s *Surface) Circle(cx, cy, r, width float64, c color.RGBA) {
	inner := r - width/2
	if inner < 0 {
		inner = 0
	}
	rl.DrawRing(vec(cx, cy), float32(inner), float32(r+width/2), 0, 360, ringSegments(r), c)
}

func (s *Surface) FillCircle(cx, cy, r float64, c color.RGBA) {
	rl.DrawCircleV(vec(cx, cy), float32(r), c)
}

func (s *Surface) Text(x, y float64, str string, style render.TextStyle) {
	size := float32(style.Size)
	w := rl.MeasureTextEx(s.Font, str, size, textSpacing).X
	ox, oy := textOrigin(x, y, float64(w), style.Size, style.Align)
	rl.DrawTextEx(s.Font, str, vec(ox, oy), size, textSpacing, style.Color)
	if style.Bold {
		rl.DrawTextEx(s.Font, str, vec(ox+1, oy), size, textSpacing, style.Color)
	}
}

// textOrigin converts a baseline anchor into raylib's top-left text origin.
func textOrigin(x, y, width, size float64, align render.Align) (float64, float64) {
	switch align {
	case render.AlignCenter:
		x -= width / 2
	case render.AlignRight:
		x -= width
	}
	return x, y - size*0.8
}

func ringSegments(r float64) int32 {
	n := int32(r / 2)
	if n < 24 {
		return 24
	}
	if n > 180 {
		return 180
	}
	return n
}

func vec(x, y float64) rl.Vector2 {
	return rl.NewVector2(float32(x), float32(y))
}
