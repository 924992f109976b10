package viz

import (
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/geom"
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

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// SubWidth and SubHeight are the canvas size in dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set sets the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

// Plot sets one dot per point, mapped through vp.
func (c *Canvas) Plot(points []geom.Point, vp Viewport) {
	for _, p := range points {
		if x, y, ok := vp.Project(p, c.SubWidth(), c.SubHeight()); ok {
			c.Set(x, y)
		}
	}
}

// Trace joins consecutive positions of one body across frames.
func (c *Canvas) Trace(path []geom.Point, vp Viewport) {
	w, h := c.SubWidth(), c.SubHeight()
	px, py, prev := 0, 0, false
	for _, p := range path {
		x, y, ok := vp.Project(p, w, h)
		if ok && prev {
			c.DrawLine(px, py, x, y)
		} else if ok {
			c.Set(x, y)
		}
		px, py, prev = x, y, ok
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport is the world-space rectangle shown on a canvas.
type Viewport struct {
	Min, Max geom.Point
}

// Fit returns a square viewport around every finite point, padded by 10%.
func Fit(frames ...[]geom.Point) Viewport {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, f := range frames {
		for _, p := range f {
			if !p.IsFinite() {
				continue
			}
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return Viewport{Min: geom.NewPoint(-1, -1), Max: geom.NewPoint(1, 1)}
	}

	half := math.Max(maxX-minX, maxY-minY) / 2 * 1.1
	if half == 0 {
		half = 1
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	return Viewport{
		Min: geom.NewPoint(cx-half, cy-half),
		Max: geom.NewPoint(cx+half, cy+half),
	}
}

func (v Viewport) Center() geom.Point {
	return geom.NewPoint((v.Min.X+v.Max.X)/2, (v.Min.Y+v.Max.Y)/2)
}

// Zoom scales the viewport about its center. f > 1 zooms in.
func (v Viewport) Zoom(f float64) Viewport {
	c := v.Center()
	hx := (v.Max.X - v.Min.X) / 2 / f
	hy := (v.Max.Y - v.Min.Y) / 2 / f
	return Viewport{
		Min: geom.NewPoint(c.X-hx, c.Y-hy),
		Max: geom.NewPoint(c.X+hx, c.Y+hy),
	}
}

// Project maps p to dot coordinates on a w x h dot grid, y pointing down.
func (v Viewport) Project(p geom.Point, w, h int) (int, int, bool) {
	if !p.IsFinite() || p.X < v.Min.X || p.X > v.Max.X || p.Y < v.Min.Y || p.Y > v.Max.Y {
		return 0, 0, false
	}
	fx := (p.X - v.Min.X) / (v.Max.X - v.Min.X)
	fy := (p.Y - v.Min.Y) / (v.Max.Y - v.Min.Y)
	x := int(fx * float64(w-1))
	y := int((1 - fy) * float64(h-1))
	return x, y, true
}
