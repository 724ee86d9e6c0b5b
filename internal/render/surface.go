package render

import "image/color"

// Align positions text relative to its anchor point.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle describes how a label is drawn.
type TextStyle struct {
	Size  float64
	Bold  bool
	Align Align
	Color color.RGBA
}

// Surface is a 2D drawing target sized in pixels with the origin at the top
// left and y growing downwards.
type Surface interface {
	Size() (width, height float64)
	Clear(c color.RGBA)
	Line(x0, y0, x1, y1, width float64, c color.RGBA)
	Circle(cx, cy, r, width float64, c color.RGBA)
	FillCircle(cx, cy, r float64, c color.RGBA)
	// Text draws s with its baseline at y.
	Text(x, y float64, s string, style TextStyle)
}

// Scaled draws a scene laid out in virtual pixels onto a smaller or larger
// target by multiplying every coordinate by Factor.
type Scaled struct {
	Target Surface
	Factor float64
}

// Scale wraps dst so callers can draw in virtual pixels. A non-positive
// factor is treated as 1.
func Scale(dst Surface, factor float64) *Scaled {
	if factor <= 0 {
		factor = 1
	}
	return &Scaled{Target: dst, Factor: factor}
}

func (s *Scaled) Size() (float64, float64) {
	w, h := s.Target.Size()
	return w / s.Factor, h / s.Factor
}

func (s *Scaled) Clear(c color.RGBA) { s.Target.Clear(c) }

func (s *Scaled) Line(x0, y0, x1, y1, width float64, c color.RGBA) {
	f := s.Factor
	s.Target.Line(x0*f, y0*f, x1*f, y1*f, width*f, c)
}

func (s *Scaled) Circle(cx, cy, r, width float64, c color.RGBA) {
	f := s.Factor
	s.Target.Circle(cx*f, cy*f, r*f, width*f, c)
}

func (s *Scaled) FillCircle(cx, cy, r float64, c color.RGBA) {
	f := s.Factor
	s.Target.FillCircle(cx*f, cy*f, r*f, c)
}

func (s *Scaled) Text(x, y float64, str string, style TextStyle) {
	style.Size *= s.Factor
	s.Target.Text(x*s.Factor, y*s.Factor, str, style)
}

// Op is one recorded draw call.
type Op struct {
	Kind   string
	X0, Y0 float64
	X1, Y1 float64
	R      float64
	Width  float64
	Color  color.RGBA
	Text   string
	Style  TextStyle
}

// Recorder is a Surface that keeps every call, for tests and debugging.
type Recorder struct {
	W, H float64
	Ops  []Op
}

// NewRecorder returns an empty recorder of the given size.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }

func (r *Recorder) Clear(c color.RGBA) {
	r.Ops = append(r.Ops[:0], Op{Kind: "clear", Color: c})
}

func (r *Recorder) Line(x0, y0, x1, y1, width float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "line", X0: x0, Y0: y0, X1: x1, Y1: y1, Width: width, Color: c})
}

func (r *Recorder) Circle(cx, cy, rad, width float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "circle", X0: cx, Y0: cy, R: rad, Width: width, Color: c})
}

func (r *Recorder) FillCircle(cx, cy, rad float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "fill", X0: cx, Y0: cy, R: rad, Color: c})
}

func (r *Recorder) Text(x, y float64, s string, style TextStyle) {
	r.Ops = append(r.Ops, Op{Kind: "text", X0: x, Y0: y, Text: s, Style: style, Color: style.Color})
}

// Filter returns the recorded calls of one kind drawn in color c.
func (r *Recorder) Filter(kind string, c color.RGBA) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind && op.Color == c {
			out = append(out, op)
		}
	}
	return out
}
