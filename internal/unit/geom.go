package unit

import "math"

// Vec2 is a board position. X runs along the lateral axis, Y along depth.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// Norm returns the unit vector of v, or the zero vector when v has no length.
func (v Vec2) Norm() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// MoveToward returns the point reached by moving from v toward dst by at most step.
func (v Vec2) MoveToward(dst Vec2, step float64) Vec2 {
	d := dst.Sub(v)
	l := d.Len()
	if l <= step || l == 0 {
		return dst
	}
	return v.Add(d.Mul(step / l))
}
