// Package geom adapts chipmunk's vector and bounding box types to stage
// coordinates (y grows downward; BB.B is the top edge, BB.T the bottom edge).
package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

type Vector = cp.Vector

type Box = cp.BB

// Vec builds a vector.
func Vec(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// BoxFromRect builds a box from its top-left corner and size.
func BoxFromRect(pos, size Vector) Box {
	x0, x1 := pos.X, pos.X+size.X
	y0, y1 := pos.Y, pos.Y+size.Y
	return Box{L: math.Min(x0, x1), B: math.Min(y0, y1), R: math.Max(x0, x1), T: math.Max(y0, y1)}
}

// BoxAround builds a box of the given size centred on center.
func BoxAround(center, size Vector) Box {
	return cp.NewBBForExtents(center, math.Abs(size.X)/2, math.Abs(size.Y)/2)
}

// RotatedBounds returns the axis-aligned bounds of box rotated by radians
// around origin.
func RotatedBounds(box Box, origin Vector, radians float64) Box {
	if radians == 0 {
		return box
	}
	rot := cp.ForAngle(radians)
	corners := []Vector{{X: box.L, Y: box.B}, {X: box.R, Y: box.B}, {X: box.R, Y: box.T}, {X: box.L, Y: box.T}}
	out := Box{L: math.Inf(1), B: math.Inf(1), R: math.Inf(-1), T: math.Inf(-1)}
	for _, c := range corners {
		p := c.Sub(origin).Rotate(rot).Add(origin)
		out.L = math.Min(out.L, p.X)
		out.R = math.Max(out.R, p.X)
		out.B = math.Min(out.B, p.Y)
		out.T = math.Max(out.T, p.Y)
	}
	return out
}

// Contains reports whether p lies inside box, edges included.
func Contains(box Box, p Vector) bool {
	return box.ContainsVect(p)
}

// Union merges two boxes.
func Union(a, b Box) Box {
	return a.Merge(b)
}

// Size returns the width and height of box.
func Size(box Box) Vector {
	return Vector{X: box.R - box.L, Y: box.T - box.B}
}

// TopLeft returns the minimum corner of box.
func TopLeft(box Box) Vector {
	return Vector{X: box.L, Y: box.B}
}

// Snap rounds v to the nearest multiple of grid. grid <= 0 returns v.
func Snap(v Vector, grid float64) Vector {
	if grid <= 0 {
		return v
	}
	return Vector{X: math.Round(v.X/grid) * grid, Y: math.Round(v.Y/grid) * grid}
}

// DegreesToRadians converts an angle.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadiansToDegrees converts an angle.
func RadiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
