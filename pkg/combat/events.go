// Package combat owns the shared registry of live enemy positions,
// routes hit events into health, score and respawn effects, and drives
// the mission reset cycle. Cross-component signaling goes through an
// injected EventSink; there is no global trigger state.
package combat

import "github.com/Chiawei92/WW1-Skies/pkg/geom"

// EventType classifies a transient mission event for presentation.
type EventType string

const (
	// EventHitSpark marks a projectile impact on an aircraft.
	EventHitSpark EventType = "hit_spark"
	// EventExplosion marks an aircraft destruction.
	EventExplosion EventType = "explosion"
	// EventScoreChanged carries the new score after a kill.
	EventScoreChanged EventType = "score_changed"
	// EventPlayerCrashed signals terminal player destruction.
	EventPlayerCrashed EventType = "player_crashed"
	// EventMissionReset signals that the mission state was fully reset.
	EventMissionReset EventType = "mission_reset"
)

// Event is a transient occurrence published for visual and audio
// feedback. Position is meaningful for spark and explosion events,
// Score and Health for the state-change events.
type Event struct {
	Type     EventType `json:"type"`
	Position geom.Vec3 `json:"position,omitempty"`
	Score    int       `json:"score,omitempty"`
	Health   int       `json:"health,omitempty"`
}

// EventSink receives mission events. Implementations must not block;
// the sink is called from inside the simulation tick.
type EventSink interface {
	Publish(e Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(Event)

func (f EventSinkFunc) Publish(e Event) { f(e) }

// NopSink discards events, for tests and headless runs.
type NopSink struct{}

func (NopSink) Publish(Event) {}
