package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/physbox/internal/physics"
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

// Layer tags a cell with what was drawn into it. When several layers touch
// the same cell the highest one decides its colour.
type Layer uint8

const (
	LayerNone Layer = iota
	LayerTrail
	LayerStatic
	LayerDynamic
	LayerSelected
	LayerContact
	LayerCursor
)

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Layers        [][]Layer
	// Overlay holds text drawn on top of the dots; zero means none.
	Overlay [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:   w,
		Height:  h,
		Grid:    make([][]rune, h),
		Layers:  make([][]Layer, h),
		Overlay: make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Layers[i] = make([]Layer, w)
		c.Overlay[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Plot sets the pixel at sub-pixel (x, y) and raises the layer of its cell.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Plot(x, y int, layer Layer) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if layer > c.Layers[row][col] {
		c.Layers[row][col] = layer
	}
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Layers[i][j] = LayerNone
			c.Overlay[i][j] = 0
		}
	}
}

// Line draws a line using Bresenham's algorithm
func (c *Canvas) Line(x0, y0, x1, y1 int, layer Layer) {
	x0, y0, x1, y1, ok := clipLine(x0, y0, x1, y1, c.Width*2, c.Height*4)
	if !ok {
		return
	}
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
		c.Plot(x0, y0, layer)
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

// clipLine cuts a segment to the w x h sub-pixel area (Liang-Barsky).
func clipLine(x0, y0, x1, y1, w, h int) (int, int, int, int, bool) {
	fx, fy := float64(x0), float64(y0)
	dx, dy := float64(x1-x0), float64(y1-y0)
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, fx},
		{dx, float64(w-1) - fx},
		{-dy, fy},
		{dy, float64(h-1) - fy},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	round := func(v float64) int { return int(math.Round(v)) }
	return round(fx + t0*dx), round(fy + t0*dy), round(fx + t1*dx), round(fy + t1*dy), true
}

// Circle draws a circle outline with the midpoint algorithm.
func (c *Canvas) Circle(cx, cy, r int, layer Layer) {
	if r <= 0 {
		c.Plot(cx, cy, layer)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			c.Plot(cx+p[0], cy+p[1], layer)
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// Text writes s starting at cell (col, row), clipped to the canvas.
func (c *Canvas) Text(col, row int, s string) {
	if row < 0 || row >= c.Height {
		return
	}
	for _, r := range s {
		if col >= c.Width {
			return
		}
		if col >= 0 {
			c.Overlay[row][col] = r
		}
		col++
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if o := c.Overlay[i][j]; o != 0 {
				r = o
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render is String with each run of same-layer cells coloured by t.
func (c *Canvas) Render(t Theme) string {
	var b strings.Builder
	for i, row := range c.Grid {
		var run strings.Builder
		cur := LayerNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(lipgloss.NewStyle().Foreground(t.Color(cur)).Render(run.String()))
			run.Reset()
		}
		for j, r := range row {
			layer := c.Layers[i][j]
			if o := c.Overlay[i][j]; o != 0 {
				r, layer = o, LayerCursor
			}
			if layer != cur {
				flush()
				cur = layer
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world coordinates onto canvas sub-pixels. World y points up,
// screen y points down.
type Viewport struct {
	Center physics.Vec2
	// Scale is sub-pixels per metre.
	Scale         float64
	Width, Height int
}

func NewViewport(c *Canvas) Viewport {
	return Viewport{
		Center: physics.V(0, 12),
		Scale:  3.5,
		Width:  c.Width * 2,
		Height: c.Height * 4,
	}
}

func (v Viewport) ToScreen(p physics.Vec2) (int, int) {
	x := float64(v.Width)/2 + (p.X-v.Center.X)*v.Scale
	y := float64(v.Height)/2 - (p.Y-v.Center.Y)*v.Scale
	return int(math.Round(x)), int(math.Round(y))
}

func (v Viewport) ToWorld(x, y int) physics.Vec2 {
	return physics.V(
		v.Center.X+(float64(x)-float64(v.Width)/2)/v.Scale,
		v.Center.Y-(float64(y)-float64(v.Height)/2)/v.Scale,
	)
}

func (v *Viewport) Zoom(f float64) {
	v.Scale = math.Min(40, math.Max(0.5, v.Scale*f))
}

// Pan moves the view by a fraction of its visible extent.
func (v *Viewport) Pan(fx, fy float64) {
	v.Center.X += fx * float64(v.Width) / v.Scale
	v.Center.Y += fy * float64(v.Height) / v.Scale
}
