// Package hooks bundles the per-attribute behaviour registries of a
// session. Attribute modules fill them in; the core only ever looks
// behaviour up by attribute key.
package hooks

import (
	"github.com/milk9111/duckling/assets"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/forms"
	"github.com/milk9111/duckling/levels"
	"github.com/milk9111/duckling/registry"
	"github.com/milk9111/duckling/render"
)

type Registries struct {
	Defaults        *registry.Registry[entitysystem.AttributeDefault]
	Boxes           *registry.Registry[entitysystem.BoxFunc]
	PositionSetters *registry.Registry[entitysystem.PositionSetter]
	PositionGetters *registry.Registry[entitysystem.PositionGetter]
	Drawers         *registry.Registry[render.AttributeDrawer]
	Priorities      *registry.Registry[render.PriorityFunc]
	RequiredAssets  *registry.Registry[assets.RequiredAssetsFunc]
	Codecs          *registry.Registry[levels.Codec]
	Forms           *registry.Registry[forms.Form]
}

// New returns empty registries.
func New() *Registries {
	return &Registries{
		Defaults:        registry.New[entitysystem.AttributeDefault](),
		Boxes:           registry.New[entitysystem.BoxFunc](),
		PositionSetters: registry.New[entitysystem.PositionSetter](),
		PositionGetters: registry.New[entitysystem.PositionGetter](),
		Drawers:         registry.New[render.AttributeDrawer](),
		Priorities:      registry.New[render.PriorityFunc](),
		RequiredAssets:  registry.New[assets.RequiredAssetsFunc](),
		Codecs:          registry.New[levels.Codec](),
		Forms:           registry.New[forms.Form](),
	}
}
