// internal/tracer/vec.go
//
// Minimal 2-D vector support for the ray tracer.

package tracer

import "math"

// Vec2 is a 2-D direction vector.
type Vec2 struct {
	X float64
	Y float64
}

// Normalize returns the unit vector; the zero vector stays zero.
func (v Vec2) Normalize() Vec2 {
	length := math.Sqrt(v.X*v.X + v.Y*v.Y)
	if length == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / length, Y: v.Y / length}
}

// Dot returns the dot product with o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Reflect mirrors v across the given normal: r = d - 2(d·n)n.
func (v Vec2) Reflect(n Vec2) Vec2 {
	d := v.Dot(n)
	return Vec2{X: v.X - 2*d*n.X, Y: v.Y - 2*d*n.Y}
}
