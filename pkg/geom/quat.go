package geom

import "math"

// Quat is a unit quaternion representing an orientation. The identity
// orientation faces +Z with +Y up. Quaternions are used instead of Euler
// angles so continuous rolling never hits gimbal lock.
type Quat struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// IdentityQuat returns the no-rotation orientation.
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle builds a rotation of angle radians around axis.
// The axis is normalized internally; a zero axis yields identity.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	if axis == (Vec3{}) {
		return IdentityQuat()
	}
	half := angle / 2
	s := math.Sin(half)
	return Quat{
		W: math.Cos(half),
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
	}
}

// Mul returns the composition q*o (o applied first, then q).
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Normalize renormalizes q to unit length. Integrating many small
// rotations drifts the norm, so callers renormalize once per tick.
// A degenerate quaternion normalizes to identity.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if l < 1e-9 {
		return IdentityQuat()
	}
	return Quat{q.W / l, q.X / l, q.Y / l, q.Z / l}
}

// Rotate applies the rotation to vector v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2*cross(q.xyz, cross(q.xyz, v) + w*v)
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Forward returns the +Z body axis in world space.
func (q Quat) Forward() Vec3 {
	return q.Rotate(Vec3{Z: 1})
}

// UpAxis returns the +Y body axis in world space.
func (q Quat) UpAxis() Vec3 {
	return q.Rotate(Vec3{Y: 1})
}

// RightAxis returns the +X body axis in world space.
func (q Quat) RightAxis() Vec3 {
	return q.Rotate(Vec3{X: 1})
}

// Dot returns the four-dimensional dot product of two quaternions.
func (q Quat) Dot(o Quat) float64 {
	return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
}

// Slerp spherically interpolates from q toward o by t in [0,1].
// Near-coincident orientations fall back to normalized linear
// interpolation to avoid dividing by a vanishing sine.
func (q Quat) Slerp(o Quat, t float64) Quat {
	t = Clamp(t, 0, 1)
	d := q.Dot(o)
	// Take the short way around.
	if d < 0 {
		o = Quat{-o.W, -o.X, -o.Y, -o.Z}
		d = -d
	}
	if d > 0.9995 {
		return Quat{
			W: q.W + (o.W-q.W)*t,
			X: q.X + (o.X-q.X)*t,
			Y: q.Y + (o.Y-q.Y)*t,
			Z: q.Z + (o.Z-q.Z)*t,
		}.Normalize()
	}
	theta := math.Acos(Clamp(d, -1, 1))
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return Quat{
		W: q.W*wa + o.W*wb,
		X: q.X*wa + o.X*wb,
		Y: q.Y*wa + o.Y*wb,
		Z: q.Z*wa + o.Z*wb,
	}.Normalize()
}

// LookRotation builds the orientation whose forward axis points along
// dir with the up axis as close to world up as possible. Degenerate
// inputs (zero dir, dir parallel to up) are guarded so the result is
// always a valid unit quaternion.
func LookRotation(dir Vec3) Quat {
	f := dir.Normalize()
	if f == (Vec3{}) {
		return IdentityQuat()
	}
	up := Up
	// dir straight up or down: pick an arbitrary horizontal up reference.
	if math.Abs(f.Dot(up)) > 0.9999 {
		up = Vec3{Z: -f.Y}
		if up == (Vec3{}) {
			up = Vec3{Z: 1}
		}
	}
	right := up.Cross(f).Normalize()
	up = f.Cross(right)

	// Rotation matrix (right, up, f) to quaternion.
	m00, m01, m02 := right.X, up.X, f.X
	m10, m11, m12 := right.Y, up.Y, f.Y
	m20, m21, m22 := right.Z, up.Z, f.Z

	trace := m00 + m11 + m22
	var q Quat
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quat{
			W: 0.25 / s,
			X: (m21 - m12) * s,
			Y: (m02 - m20) * s,
			Z: (m10 - m01) * s,
		}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = Quat{
			W: (m21 - m12) / s,
			X: 0.25 * s,
			Y: (m01 + m10) / s,
			Z: (m02 + m20) / s,
		}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = Quat{
			W: (m02 - m20) / s,
			X: (m01 + m10) / s,
			Y: 0.25 * s,
			Z: (m12 + m21) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = Quat{
			W: (m10 - m01) / s,
			X: (m02 + m20) / s,
			Y: (m12 + m21) / s,
			Z: 0.25 * s,
		}
	}
	return q.Normalize()
}

// Heading returns the compass heading of the forward axis in degrees
// [0,360), 0 along +Z increasing toward +X.
func (q Quat) Heading() float64 {
	f := q.Forward()
	h := math.Atan2(f.X, f.Z) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

// Pitch returns the climb angle of the forward axis in radians,
// positive nose-up.
func (q Quat) Pitch() float64 {
	f := q.Forward()
	return math.Asin(Clamp(f.Y, -1, 1))
}

// Bank returns the roll attitude in radians, positive when the right
// wing drops.
func (q Quat) Bank() float64 {
	r := q.RightAxis()
	return math.Asin(Clamp(-r.Y, -1, 1))
}
