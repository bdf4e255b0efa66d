// Package render decides the order entities are drawn in and turns entities
// into backend independent draw directives.
package render

import (
	"math"
	"sort"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/registry"
)

// DefaultPriority is used for entities without any attribute that reports a
// priority.
const DefaultPriority = 0.0

// PriorityFunc returns the render priority an attribute asks for. Higher
// priorities draw later, on top.
type PriorityFunc func(e ecs.Entity) float64

// PriorityService orders entities for drawing.
type PriorityService struct {
	priorities *registry.Registry[PriorityFunc]
}

func NewPriorityService(priorities *registry.Registry[PriorityFunc]) *PriorityService {
	return &PriorityService{priorities: priorities}
}

// Priority returns the highest priority any attribute of e reports.
func (s *PriorityService) Priority(e ecs.Entity) float64 {
	p, found := DefaultPriority, false
	for _, key := range e.Keys() {
		fn, ok := s.priorities.GetImplementation(key)
		if !ok || fn == nil {
			continue
		}
		v := fn(e)
		if math.IsNaN(v) {
			// NaN is unordered and would scramble the sort.
			continue
		}
		if !found || v > p {
			p, found = v, true
		}
	}
	return p
}

// SortKeys returns the keys of sys in draw order: ascending priority, ties
// broken by insertion order.
func (s *PriorityService) SortKeys(sys ecs.System) []ecs.EntityKey {
	keys := sys.Keys()
	prio := make(map[ecs.EntityKey]float64, len(keys))
	for _, k := range keys {
		e, _ := sys.Get(k)
		prio[k] = s.Priority(e)
	}
	// keys are already in insertion order, so a stable sort keeps it for ties.
	sort.SliceStable(keys, func(i, j int) bool {
		return prio[keys[i]] < prio[keys[j]]
	})
	return keys
}

// SortEntities returns the entities of sys in draw order.
func (s *PriorityService) SortEntities(sys ecs.System) []ecs.Entity {
	keys := s.SortKeys(sys)
	out := make([]ecs.Entity, 0, len(keys))
	for _, k := range keys {
		e, _ := sys.Get(k)
		out = append(out, e)
	}
	return out
}
