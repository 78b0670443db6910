// Package sim implements the player flight model, the shared aircraft
// state types and the throttled telemetry publisher. The model is an
// arcade approximation: stable, forgiving, and tuned for feel rather
// than aerodynamic truth.
package sim

import "github.com/Chiawei92/WW1-Skies/pkg/geom"

// Flight tuning constants. Every consumer of MaxSpeed and StallSpeed
// (AI difficulty scaling, telemetry display) reads them from here.
const (
	// MaxSpeed is the player's top forward speed, m/s.
	MaxSpeed = 43.0
	// StallSpeed is the speed generating exactly 1g of lift.
	StallSpeed = 20.0
	// RotationSpeed is the ground speed at which the full pitch-up
	// ceiling becomes available during takeoff.
	RotationSpeed = 26.0

	Gravity = 9.8
	// LiftCap bounds the climb bias so excess speed does not turn into
	// unbounded vertical rate.
	LiftCap = 12.0

	// ThrottleRate is how fast the throttle setting follows the input,
	// fraction per second.
	ThrottleRate = 0.6
	// Asymmetric speed inertia: spooling up is slower than coasting down.
	speedAccelRate = 0.35
	speedDecelRate = 0.7

	inputSmoothRate = 8.0

	maxPitchRate = 1.6
	maxRollRate  = 2.4
	// yawCoupling converts bank attitude into turn rate; there is no
	// direct yaw input, turning requires banking.
	yawCoupling = 0.9

	// groundPitchCeiling is the maximum nose-up attitude available at
	// rotation speed while near the ground, radians (about 18 degrees).
	groundPitchCeiling = 0.32
	groundProximity    = 6.0
	// uprightMinY is the minimum up-vector Y component for a survivable
	// runway contact.
	uprightMinY   = 0.75
	levelDampRate = 3.0
)

// Pose is the renderable state of one aircraft.
type Pose struct {
	Position    geom.Vec3 `json:"position"`
	Orientation geom.Quat `json:"orientation"`
}

// Controls is the normalized control signal consumed by the flight
// model. The physics core is agnostic to which input device produced it.
type Controls struct {
	// Pitch and Roll intents in [-1,1]; positive pitch is nose-up,
	// positive roll banks right.
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
	// Throttle is the absolute target in [0,1].
	Throttle float64 `json:"throttle"`
	Firing   bool    `json:"firing"`
}

// Clamped returns a copy with every channel limited to its legal range.
func (c Controls) Clamped() Controls {
	return Controls{
		Pitch:    geom.Clamp(c.Pitch, -1, 1),
		Roll:     geom.Clamp(c.Roll, -1, 1),
		Throttle: geom.Clamp(c.Throttle, 0, 1),
		Firing:   c.Firing,
	}
}
