package entitysystem

import (
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/registry"
)

// BoxFunc returns the stage-space bounding box an attribute contributes to
// its entity. ok is false when the attribute has no extent for this entity.
type BoxFunc func(e ecs.Entity) (box geom.Box, ok bool)

// EntityBoxService computes entity bounding boxes from per-attribute behaviour.
type EntityBoxService struct {
	boxes *registry.Registry[BoxFunc]
}

func NewEntityBoxService(boxes *registry.Registry[BoxFunc]) *EntityBoxService {
	return &EntityBoxService{boxes: boxes}
}

// GetEntityBox merges the boxes of every attribute of e. ok is false when no
// attribute provides one, which makes the entity untargetable.
func (s *EntityBoxService) GetEntityBox(e ecs.Entity) (geom.Box, bool) {
	var (
		out   geom.Box
		found bool
	)
	for _, key := range e.Keys() {
		fn, ok := s.boxes.GetImplementation(key)
		if !ok || fn == nil {
			continue
		}
		box, ok := fn(e)
		if !ok {
			continue
		}
		if !found {
			out, found = box, true
			continue
		}
		out = geom.Union(out, box)
	}
	return out, found
}
