package viz

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/wheelsim/internal/render"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille dot grid with a text layer on top. It implements
// render.Surface in dot coordinates: (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	text   [][]rune
	bold   [][]bool
	colors [][]color.RGBA
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		text:   make([][]rune, h),
		bold:   make([][]bool, h),
		colors: make([][]color.RGBA, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.text[i] = make([]rune, w)
		c.bold[i] = make([]bool, w)
		c.colors[i] = make([]color.RGBA, w)
	}
	c.reset()
	return c
}

// Set sets a dot at (x, y) in sub-cell coordinates.
func (c *Canvas) Set(x, y int) {
	c.set(x, y, color.RGBA{})
}

func (c *Canvas) set(x, y int, col color.RGBA) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][cx] |= rune(pixelMap[y%4][x%2])
	if col.A != 0 {
		c.colors[row][cx] = col
	}
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) reset() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.text[i][j] = 0
			c.bold[i][j] = false
			c.colors[i][j] = color.RGBA{}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	c.drawLine(x0, y0, x1, y1, color.RGBA{})
}

func (c *Canvas) drawLine(x0, y0, x1, y1 int, col color.RGBA) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) Size() (float64, float64) {
	return float64(c.Width * 2), float64(c.Height * 4)
}

// Clear empties the canvas. The terminal background stays as it is.
func (c *Canvas) Clear(color.RGBA) { c.reset() }

func (c *Canvas) Line(x0, y0, x1, y1, _ float64, col color.RGBA) {
	if !finite(x0, y0, x1, y1) {
		return
	}
	// clip far off-screen endpoints so Bresenham stays short
	w, h := c.Size()
	x0, x1 = clampf(x0, -w, 2*w), clampf(x1, -w, 2*w)
	y0, y1 = clampf(y0, -h, 2*h), clampf(y1, -h, 2*h)
	c.drawLine(iround(x0), iround(y0), iround(x1), iround(y1), col)
}

func (c *Canvas) Circle(cx, cy, r, _ float64, col color.RGBA) {
	if !finite(cx, cy, r) || r > 4*float64(c.Width+c.Height) {
		return
	}
	if r < 1 {
		c.set(iround(cx), iround(cy), col)
		return
	}
	steps := int(math.Max(12, 2*math.Pi*r))
	px, py := iround(cx+r), iround(cy)
	for i := 1; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x, y := iround(cx+r*math.Cos(a)), iround(cy+r*math.Sin(a))
		c.drawLine(px, py, x, y, col)
		px, py = x, y
	}
}

func (c *Canvas) FillCircle(cx, cy, r float64, col color.RGBA) {
	if !finite(cx, cy, r) || r > 4*float64(c.Width+c.Height) {
		return
	}
	if r < 1 {
		c.set(iround(cx), iround(cy), col)
		return
	}
	for dy := -r; dy <= r; dy++ {
		half := math.Sqrt(r*r - dy*dy)
		y := iround(cy + dy)
		c.drawLine(iround(cx-half), y, iround(cx+half), y, col)
	}
}

// Text writes s into the text layer on the cell row containing y.
func (c *Canvas) Text(x, y float64, s string, style render.TextStyle) {
	if !finite(x, y) {
		return
	}
	runes := []rune(s)
	col := int(math.Floor(x / 2))
	switch style.Align {
	case render.AlignCenter:
		col -= len(runes) / 2
	case render.AlignRight:
		col -= len(runes)
	}
	row := int(math.Floor(y / 4))
	if row < 0 || row >= c.Height {
		return
	}
	for i, r := range runes {
		cx := col + i
		if cx < 0 || cx >= c.Width {
			continue
		}
		c.text[row][cx] = r
		c.bold[row][cx] = style.Bold
		c.colors[row][cx] = style.Color
	}
}

// String returns the canvas without styling.
func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if t := c.text[i][j]; t != 0 {
				r = t
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render returns the canvas with colors and bold labels, one lipgloss style
// per run of identically styled cells.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		var run strings.Builder
		var runColor color.RGBA
		runBold := false
		flush := func() {
			if run.Len() == 0 {
				return
			}
			style := lipgloss.NewStyle().Bold(runBold)
			if runColor.A != 0 {
				style = style.Foreground(lipgloss.Color(hexOf(runColor)))
			}
			b.WriteString(style.Render(run.String()))
			run.Reset()
		}
		for j, r := range row {
			col, bold := c.colors[i][j], c.bold[i][j]
			if t := c.text[i][j]; t != 0 {
				r = t
			}
			if col != runColor || bold != runBold {
				flush()
				runColor, runBold = col, bold
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func hexOf(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func iround(v float64) int { return int(math.Round(v)) }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
