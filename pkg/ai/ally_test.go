package ai

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chiawei92/WW1-Skies/pkg/geom"
	"github.com/Chiawei92/WW1-Skies/pkg/projectile"
)

func newTestAlly(pick TargetPick) *Ally {
	return NewAlly(geom.Vec3{X: 8, Z: -20}, pick, geom.Vec3{Y: 150}, projectile.NewPool(false), fixedRand(0.3))
}

func TestAllyWaitsForPlayerRoll(t *testing.T) {
	a := newTestAlly(PickNearest)
	const dt = 1.0 / 60.0

	for i := 0; i < 120; i++ {
		a.Update(dt, 10, nil)
	}
	assert.Equal(t, AllyWait, a.State())
	assert.Equal(t, geom.Vec3{X: 8, Z: -20}, a.Position(), "waiting ally stays parked")

	a.Update(dt, allyTakeoffSpeed+1, nil)
	assert.Equal(t, AllyTakeoff, a.State())
}

func TestAllyProgressionIsOneDirectional(t *testing.T) {
	a := newTestAlly(PickNearest)
	const dt = 1.0 / 60.0

	a.Update(dt, 30, nil)
	require.Equal(t, AllyTakeoff, a.State())

	// Player speed dropping back to zero must not return the ally to
	// WAIT; it climbs out regardless.
	reached := false
	for i := 0; i < 60*30; i++ {
		a.Update(dt, 0, nil)
		require.NotEqual(t, AllyWait, a.State())
		if a.State() == AllyCombat {
			reached = true
			break
		}
	}
	assert.True(t, reached, "takeoff should reach combat altitude")
	assert.Greater(t, a.Position().Y, allyCombatAltitude)
}

func climbToCombat(t *testing.T, a *Ally) {
	t.Helper()
	const dt = 1.0 / 60.0
	for i := 0; i < 60*30 && a.State() != AllyCombat; i++ {
		a.Update(dt, 30, nil)
	}
	require.Equal(t, AllyCombat, a.State())
}

func TestAllyTargetSelectionVariants(t *testing.T) {
	near := projectile.Target{ID: uuid.New(), Position: geom.Vec3{X: 50, Y: 100}}
	far := projectile.Target{ID: uuid.New(), Position: geom.Vec3{X: 4000, Y: 100}}
	enemies := []projectile.Target{far, near}

	a := newTestAlly(PickNearest)
	got, ok := a.selectTarget(enemies)
	require.True(t, ok)
	assert.Equal(t, near.ID, got.ID)

	b := newTestAlly(PickFarthest)
	got, ok = b.selectTarget(enemies)
	require.True(t, ok)
	assert.Equal(t, far.ID, got.ID)
}

func TestAllyOrbitsWithoutTargets(t *testing.T) {
	a := newTestAlly(PickNearest)
	climbToCombat(t, a)

	const dt = 1.0 / 60.0
	for i := 0; i < 600; i++ {
		fired := a.Update(dt, 30, nil)
		require.False(t, fired, "no live enemies, nothing to shoot")
	}
	assert.Zero(t, a.Pool().ActiveCount())
}

func TestAllyEngagesEnemy(t *testing.T) {
	a := newTestAlly(PickNearest)
	climbToCombat(t, a)

	// Park a target straight ahead of wherever the climb ended.
	target := projectile.Target{
		ID:       uuid.New(),
		Position: a.Position().Add(a.Pose().Orientation.Forward().Scale(100)),
	}

	fired := false
	const dt = 1.0 / 60.0
	for i := 0; i < 600 && !fired; i++ {
		fired = a.Update(dt, 30, []projectile.Target{target})
	}
	assert.True(t, fired, "ally in combat should engage a target in range")
	assert.Equal(t, 1, a.Pool().ActiveCount())
}
