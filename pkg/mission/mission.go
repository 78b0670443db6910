// Package mission wires the flight model, AI squadrons, projectile
// pools and combat coordination into a single fixed-tick simulation.
package mission

import (
	"log/slog"
	"math"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/Chiawei92/WW1-Skies/pkg/ai"
	"github.com/Chiawei92/WW1-Skies/pkg/combat"
	"github.com/Chiawei92/WW1-Skies/pkg/geom"
	"github.com/Chiawei92/WW1-Skies/pkg/projectile"
	"github.com/Chiawei92/WW1-Skies/pkg/sim"
)

const (
	// MaxStepDelta caps a single integration step. Longer host stalls
	// are truncated rather than integrated in one jump.
	MaxStepDelta = 0.1

	// Twin guns alternate between lateral mounts.
	gunOffset          = 1.1
	playerFireInterval = 0.12

	enemyRingRadius   = 600.0
	enemyRingAltitude = 70.0
	enemyRingCenterZ  = 400.0

	allySpawnGapX = 22.0
	allySpawnGapZ = 14.0
	allySpawnZ    = -40.0
)

// Params configures a mission.
type Params struct {
	SquadronSize      int
	AllyCount         int
	Tier              ai.Tier
	Combat            combat.Settings
	TelemetryInterval float64
	// GravityDrop makes the player's rounds arc downward; AI rounds
	// always fly straight.
	GravityDrop bool
	Seed        int64
}

// DefaultParams returns the standard mission setup.
func DefaultParams() Params {
	return Params{
		SquadronSize:      4,
		AllyCount:         2,
		Tier:              ai.TierVeteran,
		Combat:            combat.DefaultSettings(),
		TelemetryInterval: 0.1,
		GravityDrop:       true,
		Seed:              1,
	}
}

// Mission holds the complete simulation state and advances it tick by
// tick. All methods are safe for concurrent use; the tick loop and the
// serving layer share one instance.
type Mission struct {
	mu sync.Mutex

	log    *slog.Logger
	params Params
	diff   ai.Difficulty
	rng    *rand.Rand

	player   *sim.FlightDynamics
	playerID uuid.UUID
	controls sim.Controls

	// playerPool holds the player's rounds; every AI aircraft owns its
	// own pool, so one emitter saturating cannot eat another's shots.
	playerPool *projectile.Pool

	enemies []*ai.Enemy
	allies  []*ai.Ally

	registry *combat.Registry
	coord    *combat.Coordinator

	telemetry *sim.TelemetryPublisher

	paused      bool
	elapsed     float64
	gunCooldown float64
	gunSide     float64
}

// New builds a mission from params. sink receives combat events and
// telemetrySink periodic flight telemetry; either may be nil.
func New(log *slog.Logger, params Params, sink combat.EventSink, telemetrySink sim.TelemetrySink) (*Mission, error) {
	if log == nil {
		log = slog.Default()
	}
	diff, err := ai.ForTier(params.Tier)
	if err != nil {
		return nil, err
	}

	m := &Mission{
		log:        log,
		params:     params,
		diff:       diff,
		rng:        rand.New(rand.NewSource(params.Seed)),
		player:     sim.NewFlightDynamics(sim.Pose{Orientation: geom.IdentityQuat()}),
		playerID:   uuid.New(),
		playerPool: projectile.NewPool(params.GravityDrop),
		registry:   combat.NewRegistry(),
		gunSide:    gunOffset,
	}
	m.coord = combat.NewCoordinator(log, sink, m.registry, m.spawnReplacement, params.Combat)
	if telemetrySink != nil {
		m.telemetry = sim.NewTelemetryPublisher(telemetrySink, params.TelemetryInterval)
	}
	m.populate()
	return m, nil
}

// populate builds the enemy squadron and the ally flight from scratch.
// Each aircraft gets its own projectile pool.
func (m *Mission) populate() {
	m.enemies = m.enemies[:0]
	for i := 0; i < m.params.SquadronSize; i++ {
		e := ai.NewEnemy(m.diff, m.enemyAnchor(i), projectile.NewPool(false), m.rng)
		m.enemies = append(m.enemies, e)
		m.coord.RegisterEnemy(e.ID, e.Position())
	}

	m.allies = m.allies[:0]
	anchor := geom.Vec3{Y: enemyRingAltitude, Z: enemyRingCenterZ}
	for i := 0; i < m.params.AllyCount; i++ {
		side := 1.0
		pick := ai.PickNearest
		if i%2 == 1 {
			side = -1.0
			pick = ai.PickFarthest
		}
		spawn := geom.Vec3{
			X: side * allySpawnGapX,
			Z: allySpawnZ - float64(i)*allySpawnGapZ,
		}
		m.allies = append(m.allies, ai.NewAlly(spawn, pick, anchor, projectile.NewPool(false), m.rng))
	}
}

func (m *Mission) enemyAnchor(i int) geom.Vec3 {
	n := m.params.SquadronSize
	if n < 1 {
		n = 1
	}
	a := 2 * math.Pi * float64(i) / float64(n)
	return geom.Vec3{
		X: enemyRingRadius * math.Cos(a),
		Y: enemyRingAltitude,
		Z: enemyRingCenterZ + enemyRingRadius*math.Sin(a),
	}
}

// spawnReplacement creates a fresh enemy at a randomized ring slot.
// Called by the coordinator while routing a destruction, so the
// replacement is registered within the same tick.
func (m *Mission) spawnReplacement() (uuid.UUID, geom.Vec3) {
	slot := m.rng.Intn(maxInt(m.params.SquadronSize, 1))
	e := ai.NewEnemy(m.diff, m.enemyAnchor(slot), projectile.NewPool(false), m.rng)
	m.enemies = append(m.enemies, e)
	return e.ID, e.Position()
}

// SetControls replaces the player control input used by subsequent
// ticks. Values are clamped at integration time.
func (m *Mission) SetControls(c sim.Controls) {
	m.mu.Lock()
	m.controls = c
	m.mu.Unlock()
}

// SetPaused freezes or resumes the simulation.
func (m *Mission) SetPaused(p bool) {
	m.mu.Lock()
	m.paused = p
	m.mu.Unlock()
}

func (m *Mission) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Reset restores the mission to its initial state immediately.
func (m *Mission) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Mission) resetLocked() {
	m.player.Reset()
	m.playerPool.Clear()
	m.coord.Reset()
	m.populate()
	m.controls = sim.Controls{}
	m.elapsed = 0
	m.gunCooldown = 0
	m.gunSide = gunOffset
}

// Step advances the simulation by dt seconds. Oversized deltas are
// clamped to MaxStepDelta; non-positive deltas and paused missions are
// no-ops.
func (m *Mission) Step(dt float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dt <= 0 {
		return
	}
	if dt > MaxStepDelta {
		dt = MaxStepDelta
	}
	if m.paused {
		return
	}
	m.elapsed += dt

	if m.coord.Tick(dt) {
		m.resetLocked()
		return
	}

	if m.player.Update(m.controls, dt) {
		m.coord.OnPlayerCrashed(m.player.Position())
	}
	m.firePlayerGuns(dt)

	playerAlive := !m.coord.PlayerDown()
	for _, e := range m.enemies {
		e.Update(dt, m.player.Position(), playerAlive)
		m.registry.Set(e.ID, e.Position())
	}

	// Every reader below this point sees the same view of the squadron.
	snapshot := m.registry.TakeSnapshot()

	for _, a := range m.allies {
		if a.Update(dt, m.player.Speed(), snapshot) {
			m.coord.NoteShots(1)
		}
	}

	m.playerPool.Advance(dt)
	for _, a := range m.allies {
		a.Pool().Advance(dt)
	}
	for _, e := range m.enemies {
		e.Pool().Advance(dt)
	}

	for _, h := range m.playerPool.ResolveHits(snapshot) {
		m.coord.OnEnemyHit(h.TargetID, h.Point)
	}
	for _, a := range m.allies {
		for _, h := range a.Pool().ResolveHits(snapshot) {
			m.coord.OnEnemyHit(h.TargetID, h.Point)
		}
	}
	playerTarget := []projectile.Target{{ID: m.playerID, Position: m.player.Position()}}
	for _, e := range m.enemies {
		for _, h := range e.Pool().ResolveHits(playerTarget) {
			m.coord.OnPlayerHit(h.Point)
		}
	}

	// A shoot-down grounds the flight model immediately, so the downed
	// player stops integrating under live controls until the reset.
	if m.coord.PlayerDown() {
		m.player.Crash()
	}

	m.pruneEnemies()

	if m.telemetry != nil {
		m.telemetry.Tick(dt, m.player)
	}
}

func (m *Mission) firePlayerGuns(dt float64) {
	m.gunCooldown -= dt
	if !m.controls.Firing || m.gunCooldown > 0 || m.player.Crashed() || m.coord.PlayerDown() {
		return
	}
	m.gunCooldown = playerFireInterval
	if m.playerPool.Fire(m.player.Position(), m.player.Orientation(), m.player.Velocity(), m.gunSide, 0, m.rng) {
		m.coord.NoteShots(1)
	}
	m.gunSide = -m.gunSide
}

// pruneEnemies drops aircraft whose identity left the registry.
// Replacements spawned while routing hits stay; they were registered
// before this runs.
func (m *Mission) pruneEnemies() {
	live := m.enemies[:0]
	for _, e := range m.enemies {
		if m.registry.Contains(e.ID) {
			live = append(live, e)
		}
	}
	m.enemies = live
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
