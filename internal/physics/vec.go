package physics

import "math"

type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{X: v.X * f, Y: v.Y * f} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

func (v Vec2) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) DistanceSquared(o Vec2) float64 { return v.Sub(o).LengthSquared() }

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec2
}

func (b AABB) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Around returns a square box of half-size d centred on p.
func Around(p Vec2, d float64) AABB {
	return AABB{Min: Vec2{X: p.X - d, Y: p.Y - d}, Max: Vec2{X: p.X + d, Y: p.Y + d}}
}
