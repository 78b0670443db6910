package mission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chiawei92/WW1-Skies/pkg/combat"
	"github.com/Chiawei92/WW1-Skies/pkg/geom"
	"github.com/Chiawei92/WW1-Skies/pkg/sim"
)

type recordingSink struct {
	events []combat.Event
}

func (s *recordingSink) Publish(e combat.Event) {
	s.events = append(s.events, e)
}

func (s *recordingSink) count(t combat.EventType) int {
	n := 0
	for _, e := range s.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func newTestMission(t *testing.T) (*Mission, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	m, err := New(nil, DefaultParams(), sink, nil)
	require.NoError(t, err)
	return m, sink
}

func TestRejectsUnknownTier(t *testing.T) {
	p := DefaultParams()
	p.Tier = "legendary"
	_, err := New(nil, p, nil, nil)
	require.Error(t, err)
}

func TestStepClampsOversizedDelta(t *testing.T) {
	m, _ := newTestMission(t)
	m.Step(10.0)
	assert.InDelta(t, MaxStepDelta, m.Frame().Elapsed, 1e-9)

	m.Step(-1.0)
	assert.InDelta(t, MaxStepDelta, m.Frame().Elapsed, 1e-9)
}

func TestPausedMissionDoesNotAdvance(t *testing.T) {
	m, _ := newTestMission(t)
	m.Step(0.02)
	before := m.Frame()

	m.SetPaused(true)
	for i := 0; i < 50; i++ {
		m.Step(0.02)
	}
	after := m.Frame()
	assert.Equal(t, before.Elapsed, after.Elapsed)
	assert.Equal(t, before.Player.Position, after.Player.Position)
	assert.True(t, after.Paused)

	m.SetPaused(false)
	m.Step(0.02)
	assert.Greater(t, m.Frame().Elapsed, before.Elapsed)
}

func TestFrameContainsFullSquadron(t *testing.T) {
	m, _ := newTestMission(t)
	f := m.Frame()
	assert.Len(t, f.Enemies, 4)
	assert.Len(t, f.Allies, 2)
	assert.Equal(t, 10, f.Player.Health)
	assert.Equal(t, 0, f.Score)
	for _, e := range f.Enemies {
		assert.NotEmpty(t, e.ID)
		assert.NotEmpty(t, e.State)
	}
}

func TestPlayerGunsFireOnCooldown(t *testing.T) {
	m, _ := newTestMission(t)
	m.SetControls(sim.Controls{Firing: true})

	for i := 0; i < 50; i++ {
		m.Step(0.02)
	}
	shots := m.Frame().Stats.ShotsFired
	assert.GreaterOrEqual(t, shots, 7, "one second of held trigger")
	assert.LessOrEqual(t, shots, 10)
	assert.NotEmpty(t, m.Frame().Bullets)
}

func TestOnlyPlayerRoundsArc(t *testing.T) {
	m, _ := newTestMission(t)
	origin, orient := geom.Vec3{Y: 200}, geom.IdentityQuat()
	require.True(t, m.playerPool.Fire(origin, orient, geom.Vec3{}, 0, 0, nil))
	require.True(t, m.enemies[0].Pool().Fire(origin, orient, geom.Vec3{}, 0, 0, nil))
	require.True(t, m.allies[0].Pool().Fire(origin, orient, geom.Vec3{}, 0, 0, nil))

	m.playerPool.Advance(0.5)
	m.enemies[0].Pool().Advance(0.5)
	m.allies[0].Pool().Advance(0.5)

	assert.Negative(t, m.playerPool.Slots()[0].Velocity.Y, "player rounds drop")
	assert.Zero(t, m.enemies[0].Pool().Slots()[0].Velocity.Y, "enemy rounds fly straight")
	assert.Zero(t, m.allies[0].Pool().Slots()[0].Velocity.Y, "ally rounds fly straight")
}

func TestShotDownPlayerEntersCrashedState(t *testing.T) {
	m, _ := newTestMission(t)
	for i := 0; i < DefaultParams().Combat.PlayerHealth; i++ {
		m.coord.OnPlayerHit(geom.Vec3{Y: 40})
	}
	m.Step(0.02)

	f := m.Frame()
	assert.Equal(t, 0, f.Player.Health)
	assert.True(t, f.Player.Crashed, "a shot-down player must be in the crashed state")
}

func TestSaturatedAllyPoolDoesNotBlockPlayerGuns(t *testing.T) {
	m, _ := newTestMission(t)
	for m.allies[0].Pool().Fire(geom.Vec3{Y: 60}, geom.IdentityQuat(), geom.Vec3{}, 0, 0, nil) {
	}
	require.Zero(t, m.playerPool.ActiveCount())

	m.SetControls(sim.Controls{Firing: true})
	m.Step(0.02)

	assert.Equal(t, 1, m.playerPool.ActiveCount())
	assert.Equal(t, 1, m.Frame().Stats.ShotsFired)
}

func TestDestroyedEnemyIsReplacedKeepingSquadronSize(t *testing.T) {
	m, sink := newTestMission(t)
	victim := m.enemies[0].ID

	for i := 0; i < DefaultParams().Combat.EnemyHealth; i++ {
		m.coord.OnEnemyHit(victim, geom.Vec3{X: 100, Y: 60})
	}
	m.pruneEnemies()

	assert.Len(t, m.enemies, DefaultParams().SquadronSize)
	assert.Equal(t, DefaultParams().SquadronSize, m.registry.Len())
	for _, e := range m.enemies {
		assert.NotEqual(t, victim, e.ID)
	}
	assert.Equal(t, DefaultParams().Combat.KillReward, m.Frame().Score)
	assert.Equal(t, 1, sink.count(combat.EventExplosion))
}

func TestCrashLeadsToDelayedFullReset(t *testing.T) {
	m, sink := newTestMission(t)
	m.Step(0.05)
	m.coord.OnPlayerCrashed(geom.Vec3{X: 300})
	require.Equal(t, 0, m.Frame().Player.Health)

	// The mission holds during the reset delay, then restores itself.
	steps := int(DefaultParams().Combat.ResetDelay/0.1) + 2
	for i := 0; i < steps; i++ {
		m.Step(0.1)
	}
	f := m.Frame()
	assert.Equal(t, 10, f.Player.Health)
	assert.Equal(t, 0, f.Score)
	assert.False(t, f.Player.Crashed)
	assert.Equal(t, geom.Vec3{}, f.Player.Position)
	assert.Len(t, f.Enemies, DefaultParams().SquadronSize)
	assert.Equal(t, combat.Stats{}, f.Stats)
	assert.Equal(t, 1, sink.count(combat.EventMissionReset))
}

func TestManualResetRestoresInitialState(t *testing.T) {
	m, _ := newTestMission(t)
	m.SetControls(sim.Controls{Throttle: 1, Firing: true})
	for i := 0; i < 100; i++ {
		m.Step(0.02)
	}
	require.NotEqual(t, geom.Vec3{}, m.Frame().Player.Position)

	m.Reset()
	f := m.Frame()
	assert.Equal(t, geom.Vec3{}, f.Player.Position)
	assert.Zero(t, f.Elapsed)
	assert.Empty(t, f.Bullets)
	assert.Equal(t, combat.Stats{}, f.Stats)
}
