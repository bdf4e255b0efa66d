// Package selection resolves stage points to entities and manages the
// selected entity.
package selection

import (
	"slices"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/render"
)

// Resolver finds the entity under a stage point. The topmost entity in
// render order wins.
type Resolver struct {
	entities *entitysystem.Service
	priority *render.PriorityService
	boxes    *entitysystem.EntityBoxService
}

func NewResolver(entities *entitysystem.Service, priority *render.PriorityService, boxes *entitysystem.EntityBoxService) *Resolver {
	return &Resolver{entities: entities, priority: priority, boxes: boxes}
}

// GetEntityKey returns the key of the entity under point in the current
// entity system.
func (r *Resolver) GetEntityKey(point geom.Vector) (ecs.EntityKey, bool) {
	return r.KeyAt(r.entities.EntitySystem(), point)
}

// KeyAt resolves point against sys. Entities without a box are never hit.
// Box edges count as inside.
func (r *Resolver) KeyAt(sys ecs.System, point geom.Vector) (ecs.EntityKey, bool) {
	keys := r.priority.SortKeys(sys)
	for _, key := range slices.Backward(keys) {
		e, _ := sys.Get(key)
		box, ok := r.boxes.GetEntityBox(e)
		if ok && geom.Contains(box, point) {
			return key, true
		}
	}
	return "", false
}
