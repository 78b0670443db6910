// Package ai implements the finite-state controllers for enemy and ally
// aircraft. All randomness flows through an injected source so behavior
// is reproducible under test.
package ai

import (
	"fmt"

	"github.com/Chiawei92/WW1-Skies/pkg/sim"
)

// Tier names a difficulty preset selected before a mission starts.
type Tier string

const (
	TierRookie  Tier = "rookie"
	TierVeteran Tier = "veteran"
	TierAce     Tier = "ace"
)

// Difficulty is the pure parameter table tuning enemy behavior. The
// three tiers scale roughly 50%/75%/100% of the player's maximum
// performance.
type Difficulty struct {
	Tier Tier

	// Speed is the enemy's constant forward speed, m/s.
	Speed float64
	// TurnRate and EvadeTurnRate are slerp rates toward the desired
	// heading, 1/s; evading aircraft turn harder.
	TurnRate      float64
	EvadeTurnRate float64

	// AggressionDist is the radius within which the enemy may choose
	// to attack the player.
	AggressionDist float64
	// AttackProb gates the PATROL to ATTACK transition at each
	// decision tick.
	AttackProb float64

	// FireInterval is the weapon cooldown in seconds.
	FireInterval float64
	// AimTolerance is the maximum angle in radians between heading and
	// target bearing under which the enemy shoots; better pilots take
	// wider snap shots.
	AimTolerance float64
	// BulletSpread perturbs fired projectiles, radians per axis.
	BulletSpread float64

	// EvadeEnabled marks the top tier, which may break into EVADE when
	// the player gets close and keeps shooting while evading.
	EvadeEnabled bool
}

var difficulties = map[Tier]Difficulty{
	TierRookie: {
		Tier:           TierRookie,
		Speed:          0.5 * sim.MaxSpeed,
		TurnRate:       0.6,
		EvadeTurnRate:  0.9,
		AggressionDist: 300,
		AttackProb:     0.35,
		FireInterval:   1.4,
		AimTolerance:   0.22,
		BulletSpread:   0.06,
	},
	TierVeteran: {
		Tier:           TierVeteran,
		Speed:          0.75 * sim.MaxSpeed,
		TurnRate:       0.9,
		EvadeTurnRate:  1.3,
		AggressionDist: 500,
		AttackProb:     0.5,
		FireInterval:   1.0,
		AimTolerance:   0.32,
		BulletSpread:   0.04,
	},
	TierAce: {
		Tier:           TierAce,
		Speed:          sim.MaxSpeed,
		TurnRate:       1.3,
		EvadeTurnRate:  1.9,
		AggressionDist: 650,
		AttackProb:     0.7,
		FireInterval:   0.7,
		AimTolerance:   0.45,
		BulletSpread:   0.02,
		EvadeEnabled:   true,
	},
}

// ForTier returns the parameter table for a named tier.
func ForTier(t Tier) (Difficulty, error) {
	d, ok := difficulties[t]
	if !ok {
		return Difficulty{}, fmt.Errorf("unknown difficulty tier %q", t)
	}
	return d, nil
}
