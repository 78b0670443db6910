// Package projectile implements the fixed-capacity bullet pools and the
// swept collision tests that resolve hits against moving aircraft and
// static terrain.
package projectile

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/Chiawei92/WW1-Skies/pkg/geom"
	"github.com/Chiawei92/WW1-Skies/pkg/terrain"
)

const (
	// MaxBullets is the pool capacity per emitter. Firing with no free
	// slot drops the shot; rate limiting is the emitter's cooldown.
	MaxBullets = 24

	// MuzzleSpeed is added along the emitter's forward axis, on top of
	// the carrier's own velocity.
	MuzzleSpeed = 140.0

	// BulletLife is the flight time in seconds before a slot expires.
	BulletLife = 2.0

	// HitRadiusSq is the canonical squared hit radius, identical for
	// every emitter. Checks compare squared distances against it.
	HitRadiusSq = 12.0

	// gravityDropRate is the downward velocity bias per second applied
	// to pools configured with drop (the player's weapon).
	gravityDropRate = 9.0

	// muzzleHeight lifts the spawn point above the carrier position, so
	// a round fired during the takeoff roll starts above the runway
	// surface instead of inside it.
	muzzleHeight = 0.8
)

// Projectile is one pool slot. Inactive slots are free for reuse.
type Projectile struct {
	Position      geom.Vec3
	PrevPosition  geom.Vec3
	Velocity      geom.Vec3
	RemainingLife float64
	Active        bool
}

// Target is a position snapshot a projectile can hit this tick.
type Target struct {
	ID       uuid.UUID
	Position geom.Vec3
}

// Hit is emitted once per consumed projectile.
type Hit struct {
	TargetID uuid.UUID
	Point    geom.Vec3
}

// Pool owns the projectiles of a single emitter.
type Pool struct {
	slots       [MaxBullets]Projectile
	gravityDrop bool
}

// NewPool creates an empty pool. gravityDrop enables the per-tick
// downward velocity bias used by the player's weapon.
func NewPool(gravityDrop bool) *Pool {
	return &Pool{gravityDrop: gravityDrop}
}

// ActiveCount returns the number of live projectiles.
func (p *Pool) ActiveCount() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].Active {
			n++
		}
	}
	return n
}

// Slots exposes the backing array for pose publishing. Callers must not
// mutate entries.
func (p *Pool) Slots() []Projectile {
	return p.slots[:]
}

// Fire activates a free slot at origin offset laterally and raised to
// muzzle height in the emitter's frame, moving at carrierVel plus
// muzzle velocity along the forward axis. spread, when non-zero,
// perturbs the direction by up to spread radians per axis using rng.
// Returns false when the pool is saturated; the shot is silently
// dropped.
func (p *Pool) Fire(origin geom.Vec3, orient geom.Quat, carrierVel geom.Vec3, lateralOffset, spread float64, rng *rand.Rand) bool {
	slot := -1
	for i := range p.slots {
		if !p.slots[i].Active {
			slot = i
			break
		}
	}
	if slot < 0 {
		return false
	}

	dir := orient.Forward()
	if spread > 0 && rng != nil {
		jitter := geom.Vec3{
			X: (rng.Float64()*2 - 1) * spread,
			Y: (rng.Float64()*2 - 1) * spread,
			Z: (rng.Float64()*2 - 1) * spread,
		}
		dir = dir.Add(jitter).Normalize()
		if dir == (geom.Vec3{}) {
			dir = orient.Forward()
		}
	}

	pos := origin.
		Add(orient.RightAxis().Scale(lateralOffset)).
		Add(orient.UpAxis().Scale(muzzleHeight))
	p.slots[slot] = Projectile{
		Position:      pos,
		PrevPosition:  pos,
		Velocity:      carrierVel.Add(dir.Scale(MuzzleSpeed)),
		RemainingLife: BulletLife,
		Active:        true,
	}
	return true
}

// Advance integrates every active projectile by dt, records previous
// positions for the swept test, and expires slots on lifetime or ground
// impact.
func (p *Pool) Advance(dt float64) {
	for i := range p.slots {
		b := &p.slots[i]
		if !b.Active {
			continue
		}
		b.PrevPosition = b.Position
		if p.gravityDrop {
			b.Velocity.Y -= gravityDropRate * dt
		}
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		b.RemainingLife -= dt
		if b.RemainingLife <= 0 || b.Position.Y < terrain.HeightAt(b.Position.X, b.Position.Z) {
			b.Active = false
		}
	}
}

// ResolveHits tests every active projectile's travel segment for this
// tick against each target position and returns at most one hit per
// projectile. A hit deactivates the slot immediately so it cannot be
// reused or double-counted within the same tick.
func (p *Pool) ResolveHits(targets []Target) []Hit {
	var hits []Hit
	for i := range p.slots {
		b := &p.slots[i]
		if !b.Active {
			continue
		}
		for _, t := range targets {
			d := geom.ClosestPointSegSq(t.Position, b.PrevPosition, b.Position)
			if d <= HitRadiusSq {
				b.Active = false
				hits = append(hits, Hit{TargetID: t.ID, Point: t.Position})
				break
			}
		}
	}
	return hits
}

// Clear deactivates every slot, used on mission reset.
func (p *Pool) Clear() {
	for i := range p.slots {
		p.slots[i].Active = false
	}
}
