package combat

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/Chiawei92/WW1-Skies/pkg/geom"
)

// Settings holds the tunable combat rules.
type Settings struct {
	PlayerHealth int
	EnemyHealth  int
	KillReward   int
	// ResetDelay is the pause, in seconds, between the player going
	// down and the automatic mission reset.
	ResetDelay float64
}

// DefaultSettings returns the standard mission rules.
func DefaultSettings() Settings {
	return Settings{
		PlayerHealth: 10,
		EnemyHealth:  3,
		KillReward:   100,
		ResetDelay:   3.0,
	}
}

// RespawnFunc creates a replacement enemy and returns its identity and
// spawn position. The mission owns aircraft construction; the
// coordinator only decides when a replacement is due.
type RespawnFunc func() (uuid.UUID, geom.Vec3)

// Stats accumulates mission counters since the last reset.
type Stats struct {
	ShotsFired   int `json:"shots_fired"`
	HitsLanded   int `json:"hits_landed"`
	Kills        int `json:"kills"`
	PlayerDeaths int `json:"player_deaths"`
}

// Coordinator routes hit reports into health, score, respawn and reset
// effects. All methods are called from the simulation tick; the
// coordinator itself is not safe for concurrent use.
type Coordinator struct {
	log     *slog.Logger
	sink    EventSink
	reg     *Registry
	respawn RespawnFunc
	cfg     Settings

	enemyHealth  map[uuid.UUID]int
	playerHealth int
	score        int
	playerDown   bool
	resetTimer   float64
	stats        Stats
}

func NewCoordinator(log *slog.Logger, sink EventSink, reg *Registry, respawn RespawnFunc, cfg Settings) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Coordinator{
		log:          log,
		sink:         sink,
		reg:          reg,
		respawn:      respawn,
		cfg:          cfg,
		enemyHealth:  make(map[uuid.UUID]int),
		playerHealth: cfg.PlayerHealth,
	}
}

// RegisterEnemy adds id to the registry with full health.
func (c *Coordinator) RegisterEnemy(id uuid.UUID, pos geom.Vec3) {
	c.reg.Set(id, pos)
	c.enemyHealth[id] = c.cfg.EnemyHealth
}

// OnEnemyHit applies one hit to the enemy with the given identity.
// A hit on an identity that is no longer registered is dropped; this
// happens when two projectiles strike in the same tick and the first
// already destroyed the aircraft. Returns true when this hit destroyed
// the enemy, in which case a replacement has already been registered.
func (c *Coordinator) OnEnemyHit(id uuid.UUID, point geom.Vec3) bool {
	hp, ok := c.enemyHealth[id]
	if !ok {
		return false
	}
	c.stats.HitsLanded++
	hp--
	if hp > 0 {
		c.enemyHealth[id] = hp
		c.sink.Publish(Event{Type: EventHitSpark, Position: point})
		return false
	}

	delete(c.enemyHealth, id)
	c.reg.Remove(id)
	c.stats.Kills++
	c.score += c.cfg.KillReward
	c.sink.Publish(Event{Type: EventExplosion, Position: point})
	c.sink.Publish(Event{Type: EventScoreChanged, Score: c.score})
	c.log.Info("enemy destroyed", "id", id, "score", c.score)

	if c.respawn != nil {
		newID, pos := c.respawn()
		c.RegisterEnemy(newID, pos)
	}
	return true
}

// OnPlayerHit applies one hit to the player. Health never goes below
// zero; the hit that reaches zero marks the player down and arms the
// reset timer. Hits while already down are ignored. Returns true when
// this hit downed the player.
func (c *Coordinator) OnPlayerHit(point geom.Vec3) bool {
	if c.playerDown {
		return false
	}
	c.sink.Publish(Event{Type: EventHitSpark, Position: point})
	if c.playerHealth > 0 {
		c.playerHealth--
	}
	if c.playerHealth > 0 {
		return false
	}
	c.markPlayerDown(point)
	return true
}

// OnPlayerCrashed reports terrain impact. Health drops to zero and the
// reset timer is armed. Idempotent.
func (c *Coordinator) OnPlayerCrashed(point geom.Vec3) {
	if c.playerDown {
		return
	}
	c.playerHealth = 0
	c.markPlayerDown(point)
}

func (c *Coordinator) markPlayerDown(point geom.Vec3) {
	c.playerDown = true
	c.resetTimer = c.cfg.ResetDelay
	c.stats.PlayerDeaths++
	c.sink.Publish(Event{Type: EventExplosion, Position: point})
	c.sink.Publish(Event{Type: EventPlayerCrashed, Health: 0})
	c.log.Info("player down", "score", c.score)
}

// NoteShots adds n to the fired-rounds counter.
func (c *Coordinator) NoteShots(n int) {
	c.stats.ShotsFired += n
}

// Tick advances the reset timer. Returns true exactly once per player
// death, when the delay has elapsed and the mission should reset.
func (c *Coordinator) Tick(dt float64) bool {
	if !c.playerDown {
		return false
	}
	c.resetTimer -= dt
	return c.resetTimer <= 0
}

// Reset restores health, score and stats to their initial values and
// clears all enemy records. The mission re-registers its fresh
// squadron afterwards.
func (c *Coordinator) Reset() {
	c.enemyHealth = make(map[uuid.UUID]int)
	for _, t := range c.reg.TakeSnapshot() {
		c.reg.Remove(t.ID)
	}
	c.playerHealth = c.cfg.PlayerHealth
	c.score = 0
	c.playerDown = false
	c.resetTimer = 0
	c.stats = Stats{}
	c.sink.Publish(Event{Type: EventMissionReset, Health: c.playerHealth})
	c.log.Info("mission reset")
}

func (c *Coordinator) PlayerHealth() int { return c.playerHealth }
func (c *Coordinator) Score() int        { return c.score }
func (c *Coordinator) PlayerDown() bool  { return c.playerDown }
func (c *Coordinator) Stats() Stats      { return c.stats }
