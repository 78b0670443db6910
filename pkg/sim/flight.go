package sim

import (
	"math"

	"github.com/Chiawei92/WW1-Skies/pkg/geom"
	"github.com/Chiawei92/WW1-Skies/pkg/terrain"
)

// FlightDynamics integrates the player's control input into attitude and
// position. The state machine is implicit: grounded, airborne and
// crashed are all driven by the same physical model.
type FlightDynamics struct {
	pos    geom.Vec3
	orient geom.Quat
	speed  float64

	throttle      float64
	smoothedPitch float64
	smoothedRoll  float64

	grounded bool
	crashed  bool

	spawn Pose
}

// NewFlightDynamics creates a player aircraft at the given spawn pose,
// on the ground with engines at idle.
func NewFlightDynamics(spawn Pose) *FlightDynamics {
	f := &FlightDynamics{spawn: spawn}
	f.Reset()
	return f
}

// Reset returns the aircraft to its spawn pose. This is the only way
// out of the crashed state.
func (f *FlightDynamics) Reset() {
	f.pos = f.spawn.Position
	f.orient = f.spawn.Orientation
	f.speed = 0
	f.throttle = 0
	f.smoothedPitch = 0
	f.smoothedRoll = 0
	f.grounded = true
	f.crashed = false
}

// Pose returns the current renderable state.
func (f *FlightDynamics) Pose() Pose {
	return Pose{Position: f.pos, Orientation: f.orient}
}

// Position returns the current world position.
func (f *FlightDynamics) Position() geom.Vec3 { return f.pos }

// Orientation returns the current attitude.
func (f *FlightDynamics) Orientation() geom.Quat { return f.orient }

// Speed returns the scalar forward speed in m/s.
func (f *FlightDynamics) Speed() float64 { return f.speed }

// Velocity returns the world-space velocity used as carrier velocity
// for fired projectiles.
func (f *FlightDynamics) Velocity() geom.Vec3 {
	return f.orient.Forward().Scale(f.speed)
}

// Grounded reports runway contact.
func (f *FlightDynamics) Grounded() bool { return f.grounded }

// Crashed reports the terminal crash state.
func (f *FlightDynamics) Crashed() bool { return f.crashed }

// Crash forces the terminal crash state. Calling it while already
// crashed has no effect; the first transition reports true.
func (f *FlightDynamics) Crash() bool {
	if f.crashed {
		return false
	}
	f.crashed = true
	f.speed = 0
	return true
}

// Update advances the flight model by dt seconds under the given
// control input. It returns true when this update crashed the aircraft;
// once crashed, further updates are no-ops until Reset.
func (f *FlightDynamics) Update(ctl Controls, dt float64) bool {
	if f.crashed || dt <= 0 {
		return false
	}
	ctl = ctl.Clamped()

	f.integrateThrottle(ctl.Throttle, dt)
	f.smoothInputs(ctl, dt)
	f.integrateAttitude(dt)
	f.integratePosition(dt)
	return f.resolveGroundContact(dt)
}

func (f *FlightDynamics) integrateThrottle(target, dt float64) {
	step := ThrottleRate * dt
	f.throttle += geom.Clamp(target-f.throttle, -step, step)
	f.throttle = geom.Clamp(f.throttle, 0, 1)

	// Speed approaches throttle*MaxSpeed exponentially; spooling up
	// uses the slower constant.
	targetSpeed := f.throttle * MaxSpeed
	rate := speedDecelRate
	if targetSpeed > f.speed {
		rate = speedAccelRate
	}
	f.speed += (targetSpeed - f.speed) * rate * dt
	if f.speed < 0 {
		f.speed = 0
	}
}

func (f *FlightDynamics) smoothInputs(ctl Controls, dt float64) {
	// Low-pass filter raw intents so noisy input sampling does not
	// jitter the attitude.
	blend := math.Min(1, inputSmoothRate*dt)
	f.smoothedPitch += (ctl.Pitch - f.smoothedPitch) * blend
	f.smoothedRoll += (ctl.Roll - f.smoothedRoll) * blend
}

// authority is the aerodynamic control effectiveness at the current
// speed. Near-zero speed yields near-zero authority.
func (f *FlightDynamics) authority() float64 {
	r := geom.Clamp(f.speed/MaxSpeed, 0, 1)
	return r * r * r
}

func (f *FlightDynamics) integrateAttitude(dt float64) {
	auth := f.authority()

	rollAuth := auth
	if f.grounded {
		// Wheels on the runway: no rolling.
		rollAuth *= 0.05
	}

	// Body-frame pitch and roll deltas.
	pitchDelta := geom.QuatFromAxisAngle(geom.Vec3{X: 1}, -f.smoothedPitch*maxPitchRate*auth*dt)
	rollDelta := geom.QuatFromAxisAngle(geom.Vec3{Z: 1}, -f.smoothedRoll*maxRollRate*rollAuth*dt)
	f.orient = f.orient.Mul(pitchDelta).Mul(rollDelta)

	// Bank-induced yaw about the world up axis: turning requires
	// banking.
	bank := f.orient.Bank()
	yawDelta := geom.QuatFromAxisAngle(geom.Up, bank*yawCoupling*auth*dt)
	f.orient = yawDelta.Mul(f.orient)

	f.clampGroundPitch()
	f.orient = f.orient.Normalize()
}

// clampGroundPitch prevents climb-outs before sufficient airspeed: near
// the ground the available nose-up attitude ramps from zero to the
// ceiling as speed approaches rotation speed.
func (f *FlightDynamics) clampGroundPitch() {
	agl := f.pos.Y - terrain.HeightAt(f.pos.X, f.pos.Z)
	if agl > groundProximity {
		return
	}
	maxPitch := geom.Lerp(0, groundPitchCeiling, f.speed/RotationSpeed)
	pitch := f.orient.Pitch()
	if pitch > maxPitch {
		// Rotate nose back down around the body right axis.
		correct := geom.QuatFromAxisAngle(geom.Vec3{X: 1}, pitch-maxPitch)
		f.orient = f.orient.Mul(correct)
	}
}

func (f *FlightDynamics) integratePosition(dt float64) {
	// Lift balances gravity at stall speed; below it the aircraft
	// sinks regardless of attitude.
	lift := Gravity * (f.speed / StallSpeed) * (f.speed / StallSpeed)
	if lift > LiftCap {
		lift = LiftCap
	}
	f.pos = f.pos.Add(f.orient.Forward().Scale(f.speed * dt))
	f.pos.Y += (lift - Gravity) * dt
}

func (f *FlightDynamics) resolveGroundContact(dt float64) bool {
	h := terrain.HeightAt(f.pos.X, f.pos.Z)
	if f.pos.Y >= h {
		f.grounded = f.pos.Y-h < 0.05
		return false
	}

	upright := f.orient.UpAxis().Y > uprightMinY
	if terrain.InRunwayCorridor(f.pos.X, f.pos.Z) && upright {
		// Survivable runway contact: clamp to the surface and let
		// friction level the attitude toward the current heading.
		f.pos.Y = h
		f.grounded = true
		heading := math.Atan2(f.orient.Forward().X, f.orient.Forward().Z)
		level := geom.QuatFromAxisAngle(geom.Up, heading)
		f.orient = f.orient.Slerp(level, math.Min(1, levelDampRate*dt))
		return false
	}

	return f.Crash()
}
