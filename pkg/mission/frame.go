package mission

import (
	"github.com/Chiawei92/WW1-Skies/pkg/combat"
	"github.com/Chiawei92/WW1-Skies/pkg/geom"
	"github.com/Chiawei92/WW1-Skies/pkg/projectile"
)

// PlayerFrame is the player slice of a Frame.
type PlayerFrame struct {
	Position    geom.Vec3 `json:"position"`
	Orientation geom.Quat `json:"orientation"`
	Speed       float64   `json:"speed"`
	Heading     float64   `json:"heading"`
	Health      int       `json:"health"`
	Crashed     bool      `json:"crashed"`
}

// AircraftFrame is one AI aircraft in a Frame.
type AircraftFrame struct {
	ID          string    `json:"id,omitempty"`
	Position    geom.Vec3 `json:"position"`
	Orientation geom.Quat `json:"orientation"`
	State       string    `json:"state"`
}

// Frame is a self-contained snapshot of the visible mission state,
// serialized to clients once per render interval.
type Frame struct {
	Elapsed float64         `json:"elapsed"`
	Paused  bool            `json:"paused"`
	Score   int             `json:"score"`
	Player  PlayerFrame     `json:"player"`
	Enemies []AircraftFrame `json:"enemies"`
	Allies  []AircraftFrame `json:"allies"`
	Bullets []geom.Vec3     `json:"bullets"`
	Stats   combat.Stats    `json:"stats"`
}

// Frame captures the current mission state. The returned value shares
// nothing with the live simulation.
func (m *Mission) Frame() Frame {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := Frame{
		Elapsed: m.elapsed,
		Paused:  m.paused,
		Score:   m.coord.Score(),
		Player: PlayerFrame{
			Position:    m.player.Position(),
			Orientation: m.player.Orientation(),
			Speed:       m.player.Speed(),
			Heading:     m.player.Orientation().Heading(),
			Health:      m.coord.PlayerHealth(),
			Crashed:     m.player.Crashed(),
		},
		Stats: m.coord.Stats(),
	}
	for _, e := range m.enemies {
		p := e.Pose()
		f.Enemies = append(f.Enemies, AircraftFrame{
			ID:          e.ID.String(),
			Position:    p.Position,
			Orientation: p.Orientation,
			State:       e.State().String(),
		})
	}
	for _, a := range m.allies {
		p := a.Pose()
		f.Allies = append(f.Allies, AircraftFrame{
			Position:    p.Position,
			Orientation: p.Orientation,
			State:       a.State().String(),
		})
	}
	f.Bullets = appendActive(f.Bullets, m.playerPool)
	for _, a := range m.allies {
		f.Bullets = appendActive(f.Bullets, a.Pool())
	}
	for _, e := range m.enemies {
		f.Bullets = appendActive(f.Bullets, e.Pool())
	}
	return f
}

func appendActive(dst []geom.Vec3, p *projectile.Pool) []geom.Vec3 {
	for _, s := range p.Slots() {
		if s.Active {
			dst = append(dst, s.Position)
		}
	}
	return dst
}
