package combat

import (
	"github.com/google/uuid"

	"github.com/Chiawei92/WW1-Skies/pkg/geom"
	"github.com/Chiawei92/WW1-Skies/pkg/projectile"
)

// Registry tracks the current position of every live enemy. Writers
// publish positions as they move; readers never walk the live map but
// consume an explicit snapshot taken once per tick, so removal and
// replacement of an enemy appear atomic to everything downstream.
type Registry struct {
	positions map[uuid.UUID]geom.Vec3
	snapshot  []projectile.Target
}

func NewRegistry() *Registry {
	return &Registry{positions: make(map[uuid.UUID]geom.Vec3)}
}

// Set publishes the position for id, adding it if unknown.
func (r *Registry) Set(id uuid.UUID, pos geom.Vec3) {
	r.positions[id] = pos
}

// Remove drops id from the registry. Removing an absent id is a no-op.
func (r *Registry) Remove(id uuid.UUID) {
	delete(r.positions, id)
}

// Contains reports whether id is currently registered.
func (r *Registry) Contains(id uuid.UUID) bool {
	_, ok := r.positions[id]
	return ok
}

// Len returns the number of registered enemies.
func (r *Registry) Len() int {
	return len(r.positions)
}

// TakeSnapshot captures the registered positions into the reusable
// snapshot slice and returns it. The returned slice is valid until the
// next TakeSnapshot call.
func (r *Registry) TakeSnapshot() []projectile.Target {
	r.snapshot = r.snapshot[:0]
	for id, pos := range r.positions {
		r.snapshot = append(r.snapshot, projectile.Target{ID: id, Position: pos})
	}
	return r.snapshot
}

// Snapshot returns the targets captured by the last TakeSnapshot.
func (r *Registry) Snapshot() []projectile.Target {
	return r.snapshot
}
