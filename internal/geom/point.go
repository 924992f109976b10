package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

type Point struct {
	X, Y float64
}

func NewPoint(x, y float64) Point { return Point{X: x, Y: y} }

func Origin() Point { return Point{} }

func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

func PointOf(v r2.Vec) Point { return Point{X: v.X, Y: v.Y} }

// Add translates p by v.
func (p Point) Add(v Vector) Point {
	return PointOf(r2.Add(p.Vec(), v.Vec()))
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Vector {
	return VectorOf(r2.Sub(p.Vec(), q.Vec()))
}

func (p Point) Distance(q Point) float64 {
	return r2.Norm(r2.Sub(p.Vec(), q.Vec()))
}

func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}
