package entitysystem

import (
	"fmt"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/registry"
	"github.com/milk9111/duckling/state"
)

// PositionSetter returns e moved to pos as far as its attribute is
// concerned.
type PositionSetter func(e ecs.Entity, pos geom.Vector) ecs.Entity

// PositionGetter reads the position an attribute stores.
type PositionGetter func(e ecs.Entity) (geom.Vector, bool)

// EntityPositionService moves entities without knowing which attributes carry a
// position.
type EntityPositionService struct {
	entities *Service
	setters  *registry.Registry[PositionSetter]
	getters  *registry.Registry[PositionGetter]
}

func NewEntityPositionService(entities *Service, setters *registry.Registry[PositionSetter], getters *registry.Registry[PositionGetter]) *EntityPositionService {
	return &EntityPositionService{entities: entities, setters: setters, getters: getters}
}

// Move applies every registered setter of e's attributes.
func (s *EntityPositionService) Move(e ecs.Entity, pos geom.Vector) ecs.Entity {
	for _, key := range e.Keys() {
		if set, ok := s.setters.GetImplementation(key); ok && set != nil {
			e = set(e, pos)
		}
	}
	return e
}

// SetPosition moves the entity at key and dispatches the result under
// mergeKey.
func (s *EntityPositionService) SetPosition(key ecs.EntityKey, pos geom.Vector, mergeKey state.MergeKey) error {
	e, ok := s.entities.GetEntity(key)
	if !ok {
		return fmt.Errorf("set position of %q: %w", key, ecs.ErrEntityNotFound)
	}
	return s.entities.UpdateEntity(key, s.Move(e, pos), mergeKey)
}

// GetPosition returns the position of e from the first attribute, in key
// order, that reports one.
func (s *EntityPositionService) GetPosition(e ecs.Entity) (geom.Vector, bool) {
	for _, key := range e.Keys() {
		get, ok := s.getters.GetImplementation(key)
		if !ok || get == nil {
			continue
		}
		if pos, ok := get(e); ok {
			return pos, true
		}
	}
	return geom.Vector{}, false
}
