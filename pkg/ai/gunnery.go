package ai

import (
	"math"

	"github.com/Chiawei92/WW1-Skies/pkg/geom"
	"github.com/Chiawei92/WW1-Skies/pkg/terrain"
)

// Shared combat constants for both AI variants.
const (
	// WeaponRange is the maximum firing distance for every AI gun.
	WeaponRange = 220.0

	// aiFloorMargin keeps AI aircraft from clipping into the terrain;
	// they fly, they do not land.
	aiFloorMargin = 10.0

	decisionIntervalMin = 0.4
	decisionIntervalMax = 1.2
)

// turnToward slerps an orientation toward facing dir at the given rate.
// A zero direction leaves the orientation unchanged.
func turnToward(orient geom.Quat, dir geom.Vec3, rate, dt float64) geom.Quat {
	if dir.Normalize() == (geom.Vec3{}) {
		return orient
	}
	return orient.Slerp(geom.LookRotation(dir), math.Min(1, rate*dt))
}

// aimedAt reports whether the bearing from forward to the target
// direction is within tolerance radians. Degenerate directions never
// count as aimed.
func aimedAt(forward, toTarget geom.Vec3, tolerance float64) bool {
	n := toTarget.Normalize()
	if n == (geom.Vec3{}) {
		return false
	}
	angle := math.Acos(geom.Clamp(forward.Dot(n), -1, 1))
	return angle < tolerance
}

// clampAboveTerrain floors a position to the terrain plus the AI safety
// margin.
func clampAboveTerrain(pos geom.Vec3) geom.Vec3 {
	minY := terrain.HeightAt(pos.X, pos.Z) + aiFloorMargin
	if pos.Y < minY {
		pos.Y = minY
	}
	return pos
}
