package combat

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chiawei92/WW1-Skies/pkg/geom"
)

type recordingSink struct {
	events []Event
}

func (s *recordingSink) Publish(e Event) {
	s.events = append(s.events, e)
}

func (s *recordingSink) count(t EventType) int {
	n := 0
	for _, e := range s.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func newTestCoordinator(respawn RespawnFunc) (*Coordinator, *Registry, *recordingSink) {
	reg := NewRegistry()
	sink := &recordingSink{}
	c := NewCoordinator(nil, sink, reg, respawn, DefaultSettings())
	return c, reg, sink
}

func TestEnemyDestroyedAfterConfiguredHits(t *testing.T) {
	c, reg, sink := newTestCoordinator(nil)
	id := uuid.New()
	c.RegisterEnemy(id, geom.Vec3{X: 100, Y: 50})

	require.False(t, c.OnEnemyHit(id, geom.Vec3{}))
	require.False(t, c.OnEnemyHit(id, geom.Vec3{}))
	assert.True(t, reg.Contains(id))

	require.True(t, c.OnEnemyHit(id, geom.Vec3{}))
	assert.False(t, reg.Contains(id))
	assert.Equal(t, DefaultSettings().KillReward, c.Score())
	assert.Equal(t, 1, sink.count(EventExplosion))
	assert.Equal(t, 1, sink.count(EventScoreChanged))
	assert.Equal(t, 2, sink.count(EventHitSpark))
}

func TestHitOnRemovedEnemyIsDropped(t *testing.T) {
	c, _, sink := newTestCoordinator(nil)
	id := uuid.New()
	c.RegisterEnemy(id, geom.Vec3{})

	for i := 0; i < 3; i++ {
		c.OnEnemyHit(id, geom.Vec3{})
	}
	// A second projectile from the same volley reports the same id.
	require.False(t, c.OnEnemyHit(id, geom.Vec3{}))
	assert.Equal(t, DefaultSettings().KillReward, c.Score())
	assert.Equal(t, 1, sink.count(EventExplosion))
}

func TestDestroyedEnemyIsReplaced(t *testing.T) {
	replacement := uuid.New()
	respawn := func() (uuid.UUID, geom.Vec3) {
		return replacement, geom.Vec3{X: -200, Y: 60, Z: 300}
	}
	c, reg, _ := newTestCoordinator(respawn)
	id := uuid.New()
	c.RegisterEnemy(id, geom.Vec3{})

	for i := 0; i < 3; i++ {
		c.OnEnemyHit(id, geom.Vec3{})
	}
	assert.False(t, reg.Contains(id))
	assert.True(t, reg.Contains(replacement))
	assert.Equal(t, 1, reg.Len())
}

func TestPlayerHealthFloorsAtZero(t *testing.T) {
	c, _, sink := newTestCoordinator(nil)
	require.Equal(t, 10, c.PlayerHealth())

	for i := 0; i < 9; i++ {
		require.False(t, c.OnPlayerHit(geom.Vec3{}))
	}
	require.Equal(t, 1, c.PlayerHealth())
	require.True(t, c.OnPlayerHit(geom.Vec3{}))
	assert.Equal(t, 0, c.PlayerHealth())
	assert.True(t, c.PlayerDown())

	// Further hits while down change nothing.
	require.False(t, c.OnPlayerHit(geom.Vec3{}))
	assert.Equal(t, 0, c.PlayerHealth())
	assert.Equal(t, 1, sink.count(EventPlayerCrashed))
}

func TestCrashIsIdempotent(t *testing.T) {
	c, _, sink := newTestCoordinator(nil)
	c.OnPlayerCrashed(geom.Vec3{X: 500})
	c.OnPlayerCrashed(geom.Vec3{X: 500})
	assert.Equal(t, 0, c.PlayerHealth())
	assert.Equal(t, 1, sink.count(EventPlayerCrashed))
	assert.Equal(t, 1, c.Stats().PlayerDeaths)
}

func TestResetTimerFiresOnceAfterDelay(t *testing.T) {
	c, _, _ := newTestCoordinator(nil)
	require.False(t, c.Tick(1.0), "no reset while player alive")

	c.OnPlayerCrashed(geom.Vec3{})
	require.False(t, c.Tick(1.0))
	require.False(t, c.Tick(1.0))
	require.True(t, c.Tick(1.5))
}

func TestResetRestoresEverything(t *testing.T) {
	c, reg, sink := newTestCoordinator(nil)
	id := uuid.New()
	c.RegisterEnemy(id, geom.Vec3{})
	for i := 0; i < 3; i++ {
		c.OnEnemyHit(id, geom.Vec3{})
	}
	c.OnPlayerCrashed(geom.Vec3{})

	c.Reset()
	assert.Equal(t, 10, c.PlayerHealth())
	assert.Equal(t, 0, c.Score())
	assert.False(t, c.PlayerDown())
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, Stats{}, c.Stats())
	assert.Equal(t, 1, sink.count(EventMissionReset))
}

func TestSnapshotIsStableAcrossRemoval(t *testing.T) {
	reg := NewRegistry()
	a, b := uuid.New(), uuid.New()
	reg.Set(a, geom.Vec3{X: 1})
	reg.Set(b, geom.Vec3{X: 2})

	snap := reg.TakeSnapshot()
	require.Len(t, snap, 2)

	reg.Remove(a)
	assert.Len(t, reg.Snapshot(), 2, "readers keep the tick-start view")
	assert.Equal(t, 1, reg.Len())
}
