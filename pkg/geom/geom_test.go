package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeZeroVector(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
	assert.Equal(t, Vec3{}, Vec3{X: 1e-12}.Normalize())
}

func TestQuatRotateBasis(t *testing.T) {
	// 90 degrees around Y takes +Z to +X.
	q := QuatFromAxisAngle(Up, math.Pi/2)
	f := q.Forward()
	assert.InDelta(t, 1, f.X, 1e-9)
	assert.InDelta(t, 0, f.Y, 1e-9)
	assert.InDelta(t, 0, f.Z, 1e-9)
}

func TestHeading(t *testing.T) {
	tests := []struct {
		name    string
		yaw     float64
		heading float64
	}{
		{"north", 0, 0},
		{"east", math.Pi / 2, 90},
		{"south", math.Pi, 180},
		{"west", -math.Pi / 2, 270},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := QuatFromAxisAngle(Up, tc.yaw)
			assert.InDelta(t, tc.heading, q.Heading(), 1e-6)
		})
	}
}

func TestLookRotationGuards(t *testing.T) {
	// Zero direction must not produce NaN.
	q := LookRotation(Vec3{})
	assert.Equal(t, IdentityQuat(), q)

	// Straight up is parallel to the up reference and still valid.
	q = LookRotation(Vec3{Y: 1})
	f := q.Forward()
	assert.InDelta(t, 1, f.Y, 1e-9)
	assert.True(t, f.IsFinite())
}

func TestLookRotationPointsForward(t *testing.T) {
	dir := Vec3{X: 3, Y: 1, Z: -2}.Normalize()
	f := LookRotation(dir).Forward()
	assert.InDelta(t, dir.X, f.X, 1e-9)
	assert.InDelta(t, dir.Y, f.Y, 1e-9)
	assert.InDelta(t, dir.Z, f.Z, 1e-9)
}

func TestSlerpEndpointsAndGuards(t *testing.T) {
	a := IdentityQuat()
	b := QuatFromAxisAngle(Up, math.Pi/2)

	assert.InDelta(t, 1, a.Slerp(b, 0).Dot(a), 1e-9)
	assert.InDelta(t, 1, a.Slerp(b, 1).Dot(b), 1e-9)

	// Coincident quaternions take the nlerp path without dividing by zero.
	mid := a.Slerp(a, 0.5)
	assert.InDelta(t, 1, mid.Dot(a), 1e-9)
}

func TestSlerpTakesShortArc(t *testing.T) {
	a := QuatFromAxisAngle(Up, 0.1)
	b := QuatFromAxisAngle(Up, 0.3)
	// Negated representation of the same rotation must not flip the path.
	bNeg := Quat{-b.W, -b.X, -b.Y, -b.Z}
	m1 := a.Slerp(b, 0.5)
	m2 := a.Slerp(bNeg, 0.5)
	assert.InDelta(t, math.Abs(m1.Dot(m2)), 1, 1e-9)
}

func TestPitchAndBank(t *testing.T) {
	noseUp := QuatFromAxisAngle(Vec3{X: 1}, -0.3)
	assert.InDelta(t, 0.3, noseUp.Pitch(), 1e-9)

	// Roll right wing down: positive bank.
	rolled := QuatFromAxisAngle(Vec3{Z: 1}, -0.4)
	assert.InDelta(t, 0.4, rolled.Bank(), 1e-9)
}

func TestClosestPointSegSq(t *testing.T) {
	a := Vec3{Z: -10}
	b := Vec3{Z: 10}

	// Closest point in the middle of the segment.
	assert.InDelta(t, 4, ClosestPointSegSq(Vec3{X: 2}, a, b), 1e-9)
	// Beyond an endpoint clamps to the endpoint.
	assert.InDelta(t, 25, ClosestPointSegSq(Vec3{Z: 15}, a, b), 1e-9)
	// Degenerate segment.
	assert.InDelta(t, 9, ClosestPointSegSq(Vec3{X: 3}, a, a), 1e-9)
}
