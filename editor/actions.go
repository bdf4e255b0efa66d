package editor

import (
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/state"
)

type SelectAction struct {
	Entity ecs.EntityKey
}

type SetMapNameAction struct {
	Name string
}

type SetMapDimensionAction struct {
	Dimension geom.Vector
}

type SetGridSizeAction struct {
	GridSize float64
}

// LoadMapAction replaces entities and map settings in one step.
type LoadMapAction struct {
	Map      MapSettings
	Entities ecs.System
}

func (SelectAction) ActionType() string          { return "selection/select" }
func (SetMapNameAction) ActionType() string      { return "map/name" }
func (SetMapDimensionAction) ActionType() string { return "map/dimension" }
func (SetGridSizeAction) ActionType() string     { return "map/grid" }
func (LoadMapAction) ActionType() string         { return "map/load" }

// Reduce is the root reducer. Entity actions are delegated to
// ecs.ReduceSystem; selection follows renames and deletes of the selected
// entity.
func Reduce(s State, action state.Action) State {
	if a, ok := action.(LoadMapAction); ok {
		return State{Entities: a.Entities, Map: a.Map}
	}
	prevEntities := s.Entities
	s.Entities = ecs.ReduceSystem(s.Entities, action)
	s.Selection = reduceSelection(s.Selection, prevEntities, s.Entities, action)
	s.Map = reduceMap(s.Map, action)
	return s
}

func reduceSelection(sel Selection, prev, next ecs.System, action state.Action) Selection {
	switch a := action.(type) {
	case SelectAction:
		if a.Entity != "" && !next.Has(a.Entity) {
			return sel
		}
		return Selection{Entity: a.Entity}
	case ecs.RenameEntityAction:
		if sel.Entity == a.OldKey && next.Has(a.NewKey) && !next.Has(a.OldKey) {
			return Selection{Entity: a.NewKey}
		}
	case ecs.DeleteEntityAction:
		if sel.Entity == a.Key && prev.Has(a.Key) {
			return Selection{}
		}
	case ecs.ReplaceSystemAction:
		if !next.Has(sel.Entity) {
			return Selection{}
		}
	}
	return sel
}

func reduceMap(m MapSettings, action state.Action) MapSettings {
	switch a := action.(type) {
	case SetMapNameAction:
		m.Name = a.Name
	case SetMapDimensionAction:
		if a.Dimension.X > 0 && a.Dimension.Y > 0 {
			m.Dimension = a.Dimension
		}
	case SetGridSizeAction:
		if a.GridSize > 0 {
			m.GridSize = a.GridSize
		}
	}
	return m
}
