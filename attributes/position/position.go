// Package position is the attribute placing an entity on the stage.
package position

import (
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/forms"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/hooks"
	"github.com/milk9111/duckling/levels"
)

const Key = "position"

type Position struct {
	Position geom.Vector `json:"position"`
	Velocity geom.Vector `json:"velocity"`
}

// Get returns the position attribute of e.
func Get(e ecs.Entity) (Position, bool) {
	return ecs.Attr[Position](e, Key)
}

// Of returns where e is, or the origin when it has no position.
func Of(e ecs.Entity) geom.Vector {
	p, _ := Get(e)
	return p.Position
}

func setPosition(e ecs.Entity, pos geom.Vector) ecs.Entity {
	p, ok := Get(e)
	if !ok {
		return e
	}
	p.Position = pos
	return e.With(Key, p)
}

func getPosition(e ecs.Entity) (geom.Vector, bool) {
	p, ok := Get(e)
	return p.Position, ok
}

func Register(r *hooks.Registries) {
	r.Defaults.Register(Key, entitysystem.AttributeDefault{
		CreateByDefault: true,
		New:             func() ecs.Attribute { return Position{} },
	})
	r.PositionSetters.Register(Key, setPosition)
	r.PositionGetters.Register(Key, getPosition)
	r.Codecs.Register(Key, levels.JSONCodec[Position]())
	r.Forms.Register(Key, forms.Form{
		forms.Vector("Position",
			func(p Position) geom.Vector { return p.Position },
			func(p Position, v geom.Vector) Position { p.Position = v; return p }),
		forms.Vector("Velocity",
			func(p Position) geom.Vector { return p.Velocity },
			func(p Position, v geom.Vector) Position { p.Velocity = v; return p }),
	})
}
