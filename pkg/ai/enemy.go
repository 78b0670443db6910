package ai

import (
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/Chiawei92/WW1-Skies/pkg/geom"
	"github.com/Chiawei92/WW1-Skies/pkg/projectile"
	"github.com/Chiawei92/WW1-Skies/pkg/sim"
)

// EnemyState is the behavior state of an enemy aircraft. Exactly one
// state is active at a time; transitions happen only at decision ticks.
type EnemyState int

const (
	EnemyPatrol EnemyState = iota
	EnemyAttack
	EnemyEvade
)

func (s EnemyState) String() string {
	switch s {
	case EnemyPatrol:
		return "PATROL"
	case EnemyAttack:
		return "ATTACK"
	case EnemyEvade:
		return "EVADE"
	default:
		return "UNKNOWN"
	}
}

// Enemy patrol/evade tuning.
const (
	patrolRadius       = 160.0
	patrolAngularSpeed = 0.35
	patrolBobAmp       = 12.0

	evadeTriggerDist = 120.0
	evadeProb        = 0.5
	evadeMinDuration = 1.0
	evadeMaxDuration = 3.0
	evadeJitterAmp   = 0.5
)

// Enemy is one AI-controlled hostile aircraft. It is destroyed on kill
// and replaced with a fresh instance, never reused.
type Enemy struct {
	ID uuid.UUID

	pos    geom.Vec3
	orient geom.Quat
	state  EnemyState

	diff         Difficulty
	patrolAnchor geom.Vec3
	// phase desynchronizes patrol weaving between instances.
	phase float64

	clock        float64
	nextDecision float64
	evadeUntil   float64
	evadeDir     geom.Vec3
	fireCooldown float64

	rng  *rand.Rand
	pool *projectile.Pool
}

// NewEnemy spawns an enemy at a point above its patrol anchor with a
// fresh identity. The pool holds the projectiles this enemy fires.
func NewEnemy(diff Difficulty, anchor geom.Vec3, pool *projectile.Pool, rng *rand.Rand) *Enemy {
	phase := rng.Float64() * 2 * math.Pi
	pos := anchor.Add(geom.Vec3{
		X: math.Cos(phase) * patrolRadius,
		Y: 0,
		Z: math.Sin(phase) * patrolRadius,
	})
	return &Enemy{
		ID:           uuid.New(),
		pos:          clampAboveTerrain(pos),
		orient:       geom.QuatFromAxisAngle(geom.Up, rng.Float64()*2*math.Pi),
		state:        EnemyPatrol,
		diff:         diff,
		patrolAnchor: anchor,
		phase:        phase,
		nextDecision: rng.Float64() * decisionIntervalMax,
		rng:          rng,
		pool:         pool,
	}
}

// State returns the active behavior state.
func (e *Enemy) State() EnemyState { return e.state }

// Position returns the current world position.
func (e *Enemy) Position() geom.Vec3 { return e.pos }

// Pose returns the renderable state.
func (e *Enemy) Pose() sim.Pose {
	return sim.Pose{Position: e.pos, Orientation: e.orient}
}

// Pool returns this enemy's projectile pool.
func (e *Enemy) Pool() *projectile.Pool { return e.pool }

// Update advances the enemy by dt seconds. Decisions are re-evaluated
// on a randomized interval, not every tick, so squadrons do not flock
// in lockstep. Returns true when the enemy fired this tick.
func (e *Enemy) Update(dt float64, playerPos geom.Vec3, playerAlive bool) bool {
	e.clock += dt
	e.fireCooldown -= dt

	if e.clock >= e.nextDecision {
		e.Decide(playerPos, playerAlive)
		e.nextDecision = e.clock + decisionIntervalMin +
			e.rng.Float64()*(decisionIntervalMax-decisionIntervalMin)
	}

	toPlayer := playerPos.Sub(e.pos)
	dir, rate := e.steering(toPlayer)
	e.orient = turnToward(e.orient, dir, rate, dt)
	e.pos = clampAboveTerrain(e.pos.Add(e.orient.Forward().Scale(e.diff.Speed * dt)))

	return e.tryFire(toPlayer, playerAlive)
}

// Decide runs one decision tick against the player's position. Exposed
// so scenario tests can force a decision boundary.
func (e *Enemy) Decide(playerPos geom.Vec3, playerAlive bool) {
	if !playerAlive {
		e.state = EnemyPatrol
		return
	}
	dist := playerPos.Sub(e.pos).Len()

	// A running evade holds until its randomized duration elapses,
	// then reverts to attack.
	if e.state == EnemyEvade {
		if e.clock < e.evadeUntil {
			return
		}
		e.state = EnemyAttack
		return
	}

	// Top tier may break into evade when the player is on its tail.
	if e.diff.EvadeEnabled && e.state == EnemyAttack && dist < evadeTriggerDist &&
		e.rng.Float64() < evadeProb {
		e.state = EnemyEvade
		e.evadeUntil = e.clock + evadeMinDuration + e.rng.Float64()*(evadeMaxDuration-evadeMinDuration)
		e.evadeDir = e.pickEvadeDir(playerPos)
		return
	}

	if dist < e.diff.AggressionDist && e.rng.Float64() <= e.diff.AttackProb {
		e.state = EnemyAttack
		return
	}
	e.state = EnemyPatrol
}

// pickEvadeDir chooses a direction perpendicular to the player bearing
// with vertical jitter, so evades break sideways rather than away.
func (e *Enemy) pickEvadeDir(playerPos geom.Vec3) geom.Vec3 {
	toPlayer := playerPos.Sub(e.pos).Normalize()
	perp := toPlayer.Cross(geom.Up).Normalize()
	if perp == (geom.Vec3{}) {
		perp = geom.Vec3{X: 1}
	}
	if e.rng.Float64() < 0.5 {
		perp = perp.Scale(-1)
	}
	perp.Y = (e.rng.Float64()*2 - 1) * evadeJitterAmp
	return perp.Normalize()
}

// steering returns the desired heading direction and turn rate for the
// active state.
func (e *Enemy) steering(toPlayer geom.Vec3) (geom.Vec3, float64) {
	switch e.state {
	case EnemyAttack:
		return toPlayer, e.diff.TurnRate
	case EnemyEvade:
		return e.evadeDir, e.diff.EvadeTurnRate
	default:
		// Weave around the patrol anchor; the per-instance phase keeps
		// squadron mates desynchronized.
		angle := e.clock*patrolAngularSpeed + e.phase
		target := e.patrolAnchor.Add(geom.Vec3{
			X: math.Cos(angle) * patrolRadius,
			Y: math.Sin(angle*1.7) * patrolBobAmp,
			Z: math.Sin(angle) * patrolRadius,
		})
		return target.Sub(e.pos), e.diff.TurnRate
	}
}

func (e *Enemy) tryFire(toPlayer geom.Vec3, playerAlive bool) bool {
	if !playerAlive || e.fireCooldown > 0 {
		return false
	}
	switch e.state {
	case EnemyAttack:
		// Attack fires at any tier.
	case EnemyEvade:
		if !e.diff.EvadeEnabled {
			return false
		}
	default:
		return false
	}
	if toPlayer.LenSq() > WeaponRange*WeaponRange {
		return false
	}
	if !aimedAt(e.orient.Forward(), toPlayer, e.diff.AimTolerance) {
		return false
	}
	carrier := e.orient.Forward().Scale(e.diff.Speed)
	if !e.pool.Fire(e.pos, e.orient, carrier, 0, e.diff.BulletSpread, e.rng) {
		return false
	}
	e.fireCooldown = e.diff.FireInterval
	return true
}
