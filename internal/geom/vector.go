package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

type Vector struct {
	DX, DY float64
}

func NewVector(dx, dy float64) Vector { return Vector{DX: dx, DY: dy} }

func Zero() Vector { return Vector{} }

func (v Vector) Vec() r2.Vec { return r2.Vec{X: v.DX, Y: v.DY} }

func VectorOf(v r2.Vec) Vector { return Vector{DX: v.X, DY: v.Y} }

func (v Vector) Add(o Vector) Vector {
	return VectorOf(r2.Add(v.Vec(), o.Vec()))
}

func (v Vector) Sub(o Vector) Vector {
	return VectorOf(r2.Sub(v.Vec(), o.Vec()))
}

func (v Vector) Scale(f float64) Vector {
	return VectorOf(r2.Scale(f, v.Vec()))
}

func (v Vector) Neg() Vector { return Vector{DX: -v.DX, DY: -v.DY} }

func (v Vector) Dot(o Vector) float64 { return r2.Dot(v.Vec(), o.Vec()) }

// Cross is the z component of the 3-D cross product.
func (v Vector) Cross(o Vector) float64 { return r2.Cross(v.Vec(), o.Vec()) }

func (v Vector) Norm() float64 { return r2.Norm(v.Vec()) }

func (v Vector) Norm2() float64 { return r2.Norm2(v.Vec()) }

func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.DX) && !math.IsNaN(v.DY) && !math.IsInf(v.DX, 0) && !math.IsInf(v.DY, 0)
}

func (v Vector) IsZero() bool { return v.DX == 0 && v.DY == 0 }

func (v Vector) String() string {
	return fmt.Sprintf("<%g, %g>", v.DX, v.DY)
}
