// Package geom provides the small 3D math kit used by the simulation:
// vectors in a Y-up, right-handed world frame and unit quaternions for
// aircraft attitude.
package geom

import "math"

// Vec3 is a point or direction in world space, meters.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Up is the world up axis.
var Up = Vec3{Y: 1}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

// DistSq returns the squared distance to o. Collision checks compare
// squared distances to avoid the sqrt.
func (v Vec3) DistSq(o Vec3) float64 {
	return v.Sub(o).LenSq()
}

// Normalize returns the unit vector in the direction of v. A zero or
// near-zero vector normalizes to zero rather than propagating NaN.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// IsFinite reports whether all components are finite numbers.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b by t in [0,1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp(t, 0, 1)
}

// ClosestPointSegSq returns the squared distance from point p to the
// segment a-b. Degenerate segments (a == b) fall back to point distance.
func ClosestPointSegSq(p, a, b Vec3) float64 {
	ab := b.Sub(a)
	abLenSq := ab.LenSq()
	if abLenSq < 1e-12 {
		return p.DistSq(a)
	}
	t := Clamp(p.Sub(a).Dot(ab)/abLenSq, 0, 1)
	return p.DistSq(a.Add(ab.Scale(t)))
}
