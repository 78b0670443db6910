package ai

import (
	"math"
	"math/rand"

	"github.com/Chiawei92/WW1-Skies/pkg/geom"
	"github.com/Chiawei92/WW1-Skies/pkg/projectile"
	"github.com/Chiawei92/WW1-Skies/pkg/sim"
)

// AllyState is the behavior state of a friendly aircraft. The machine
// is one-directional: an ally never reverts to an earlier state.
type AllyState int

const (
	AllyWait AllyState = iota
	AllyTakeoff
	AllyCombat
)

func (s AllyState) String() string {
	switch s {
	case AllyWait:
		return "WAIT"
	case AllyTakeoff:
		return "TAKEOFF"
	case AllyCombat:
		return "COMBAT"
	default:
		return "UNKNOWN"
	}
}

// TargetPick selects which live enemy an ally hunts. Two allies with
// different picks avoid dogfighting the same target.
type TargetPick int

const (
	PickNearest TargetPick = iota
	PickFarthest
)

// Ally tuning. Allies use fixed stats, never difficulty-scaled, and
// take no damage.
const (
	// allyTakeoffSpeed is the player speed that releases waiting allies.
	allyTakeoffSpeed = 25.0

	allySpeed          = 36.0
	allyAccel          = 6.0
	allyTurnRate       = 1.0
	allyCombatAltitude = 40.0
	allyTakeoffPitch   = 0.35
	allyFireInterval   = 0.9
	allyAimTolerance   = 0.3
	allyBulletSpread   = 0.03
)

// Ally is one AI-controlled friendly aircraft. It persists for the
// whole mission.
type Ally struct {
	pos    geom.Vec3
	orient geom.Quat
	speed  float64
	state  AllyState
	pick   TargetPick

	patrolAnchor geom.Vec3
	clock        float64
	fireCooldown float64

	rng  *rand.Rand
	pool *projectile.Pool
}

// NewAlly parks an ally at spawn facing down the runway (+Z), waiting
// for the player to roll.
func NewAlly(spawn geom.Vec3, pick TargetPick, anchor geom.Vec3, pool *projectile.Pool, rng *rand.Rand) *Ally {
	return &Ally{
		pos:          spawn,
		orient:       geom.IdentityQuat(),
		state:        AllyWait,
		pick:         pick,
		patrolAnchor: anchor,
		rng:          rng,
		pool:         pool,
	}
}

// State returns the active behavior state.
func (a *Ally) State() AllyState { return a.state }

// Position returns the current world position.
func (a *Ally) Position() geom.Vec3 { return a.pos }

// Pose returns the renderable state.
func (a *Ally) Pose() sim.Pose {
	return sim.Pose{Position: a.pos, Orientation: a.orient}
}

// Pool returns this ally's projectile pool.
func (a *Ally) Pool() *projectile.Pool { return a.pool }

// Update advances the ally by dt seconds. enemies is the current-tick
// snapshot of live enemy positions; ally fire resolves against it only,
// allies themselves are invulnerable. Returns true when the ally fired.
func (a *Ally) Update(dt float64, playerSpeed float64, enemies []projectile.Target) bool {
	a.clock += dt
	a.fireCooldown -= dt

	switch a.state {
	case AllyWait:
		if playerSpeed > allyTakeoffSpeed {
			a.state = AllyTakeoff
		}
		return false

	case AllyTakeoff:
		a.updateTakeoff(dt)
		return false

	default:
		return a.updateCombat(dt, enemies)
	}
}

// updateTakeoff rolls down the runway with constant acceleration,
// pitching up in proportion to speed progress until combat altitude.
// The spawn heading (straight down the runway) is held throughout.
func (a *Ally) updateTakeoff(dt float64) {
	a.speed = math.Min(allySpeed, a.speed+allyAccel*dt)
	pitch := allyTakeoffPitch * (a.speed / allySpeed)
	a.orient = geom.QuatFromAxisAngle(geom.Vec3{X: 1}, -pitch)
	a.pos = a.pos.Add(a.orient.Forward().Scale(a.speed * dt))
	if a.pos.Y > allyCombatAltitude {
		a.state = AllyCombat
	}
}

func (a *Ally) updateCombat(dt float64, enemies []projectile.Target) bool {
	a.speed = allySpeed

	target, ok := a.selectTarget(enemies)
	var dir geom.Vec3
	if ok {
		dir = target.Position.Sub(a.pos)
	} else {
		// Nothing left to fight: orbit the patrol point.
		angle := a.clock * patrolAngularSpeed
		orbit := a.patrolAnchor.Add(geom.Vec3{
			X: math.Cos(angle) * patrolRadius,
			Z: math.Sin(angle) * patrolRadius,
		})
		dir = orbit.Sub(a.pos)
	}

	a.orient = turnToward(a.orient, dir, allyTurnRate, dt)
	a.pos = clampAboveTerrain(a.pos.Add(a.orient.Forward().Scale(a.speed * dt)))

	if !ok || a.fireCooldown > 0 {
		return false
	}
	toTarget := target.Position.Sub(a.pos)
	if toTarget.LenSq() > WeaponRange*WeaponRange {
		return false
	}
	if !aimedAt(a.orient.Forward(), toTarget, allyAimTolerance) {
		return false
	}
	carrier := a.orient.Forward().Scale(a.speed)
	if !a.pool.Fire(a.pos, a.orient, carrier, 0, allyBulletSpread, a.rng) {
		return false
	}
	a.fireCooldown = allyFireInterval
	return true
}

// selectTarget picks the nearest or farthest live enemy per the ally's
// variant.
func (a *Ally) selectTarget(enemies []projectile.Target) (projectile.Target, bool) {
	if len(enemies) == 0 {
		return projectile.Target{}, false
	}
	best := enemies[0]
	bestD := a.pos.DistSq(best.Position)
	for _, e := range enemies[1:] {
		d := a.pos.DistSq(e.Position)
		if (a.pick == PickNearest && d < bestD) || (a.pick == PickFarthest && d > bestD) {
			best, bestD = e, d
		}
	}
	return best, true
}
