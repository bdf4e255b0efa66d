package render

import (
	"github.com/milk9111/duckling/assets"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/registry"
)

// AssetSource is what drawers need from the asset loader.
type AssetSource interface {
	IsLoaded(key string) bool
	Add(a assets.Asset)
	TextureSize(key string) (geom.Vector, bool)
	TextSize(font, text string, size float64) (geom.Vector, bool)
}

// AttributeDrawer draws one attribute of e. It is only called once every
// asset the attribute requires is loaded.
type AttributeDrawer func(e ecs.Entity, src AssetSource) []Directive

// EntityDrawer turns entity systems into directives.
type EntityDrawer struct {
	drawers  *registry.Registry[AttributeDrawer]
	required *registry.Registry[assets.RequiredAssetsFunc]
	assets   AssetSource
	priority *PriorityService
	boxes    *entitysystem.EntityBoxService
}

func NewEntityDrawer(
	drawers *registry.Registry[AttributeDrawer],
	required *registry.Registry[assets.RequiredAssetsFunc],
	src AssetSource,
	priority *PriorityService,
	boxes *entitysystem.EntityBoxService,
) *EntityDrawer {
	return &EntityDrawer{
		drawers:  drawers,
		required: required,
		assets:   src,
		priority: priority,
		boxes:    boxes,
	}
}

// DrawAttribute draws attribute key of e. Missing assets are requested and
// the attribute is skipped until they are loaded.
func (d *EntityDrawer) DrawAttribute(key ecs.AttributeKey, e ecs.Entity) []Directive {
	draw, ok := d.drawers.GetImplementation(key)
	if !ok || draw == nil {
		return nil
	}
	if req, ok := d.required.GetImplementation(key); ok && req != nil {
		ready := true
		for _, a := range req(e) {
			if !d.assets.IsLoaded(a.Key) {
				ready = false
				d.assets.Add(a)
			}
		}
		if !ready {
			return nil
		}
	}
	return draw(e, d.assets)
}

// DrawEntity draws every attribute of e in key order, followed by a
// selection outline when selected.
func (d *EntityDrawer) DrawEntity(e ecs.Entity, selected bool) []Directive {
	var out []Directive
	for _, key := range e.Keys() {
		out = append(out, d.DrawAttribute(key, e)...)
	}
	if selected {
		if box, ok := d.boxes.GetEntityBox(e); ok {
			out = append(out, Rect(box, SelectionColor, false))
		}
	}
	return out
}

// DrawSystem draws sys in render order. selected may be empty.
func (d *EntityDrawer) DrawSystem(sys ecs.System, selected ecs.EntityKey) []Directive {
	var out []Directive
	for _, key := range d.priority.SortKeys(sys) {
		e, _ := sys.Get(key)
		out = append(out, d.DrawEntity(e, key == selected)...)
	}
	return out
}

// DrawState draws the entities of st with its selection.
func (d *EntityDrawer) DrawState(st editor.State) []Directive {
	return d.DrawSystem(st.Entities, st.Selection.Entity)
}
