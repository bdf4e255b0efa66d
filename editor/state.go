// Package editor defines the root state of an edit session and the reducer
// that every dispatch goes through.
package editor

import (
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/state"
)

// Default map settings for a new map.
const (
	DefaultGridSize = 16
	DefaultWidth    = 1200
	DefaultHeight   = 800
)

// Selection is the entity currently selected in the editor, if any.
type Selection struct {
	Entity ecs.EntityKey
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return s.Entity == ""
}

// MapSettings describes the map being edited.
type MapSettings struct {
	Name      string
	Dimension geom.Vector
	GridSize  float64
}

// State is the whole editor state. It is a value: reducers build a new one
// for every transition and share unchanged parts.
type State struct {
	Entities  ecs.System
	Selection Selection
	Map       MapSettings
}

// NewState returns the state of an empty, unnamed map.
func NewState() State {
	return State{
		Entities: ecs.NewSystem(),
		Map: MapSettings{
			Dimension: geom.Vec(DefaultWidth, DefaultHeight),
			GridSize:  DefaultGridSize,
		},
	}
}

// Same reports whether other is s itself rather than an edited copy.
// Reduce returns its input this way when it ignores an action.
func (s State) Same(other State) bool {
	return s.Selection == other.Selection && s.Map == other.Map && s.Entities.Same(other.Entities)
}

// Store is the store type used by an edit session.
type Store = state.Store[State]

// NewStore creates a session store over initial. Actions Reduce ignores,
// such as updating a missing entity, do not become undo steps.
func NewStore(initial State, opts ...state.Option) *Store {
	opts = append([]state.Option{state.WithUnchanged(State.Same)}, opts...)
	return state.New(initial, Reduce, opts...)
}
