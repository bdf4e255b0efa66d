// Package collision is the physics body attribute.
package collision

import (
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/duckling/attributes/position"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/forms"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/hooks"
	"github.com/milk9111/duckling/levels"
	"github.com/milk9111/duckling/render"
)

const Key = "collision"

// Body types mirror the chipmunk body kinds the game uses at runtime.
const (
	BodyStatic    = "static"
	BodyDynamic   = "dynamic"
	BodyKinematic = "kinematic"
)

var (
	BodyTypes      = []string{BodyStatic, BodyDynamic, BodyKinematic}
	CollisionTypes = []string{"none", "ground", "player", "enemy", "trigger"}
)

type Collision struct {
	Dimension     geom.Vector `json:"dimension"`
	OneWayNormal  geom.Vector `json:"oneWayNormal"`
	BodyType      string      `json:"bodyType"`
	CollisionType string      `json:"collisionType"`
}

func Default() Collision {
	return Collision{
		Dimension:     geom.Vec(16, 16),
		BodyType:      BodyStatic,
		CollisionType: "none",
	}
}

func Get(e ecs.Entity) (Collision, bool) {
	return ecs.Attr[Collision](e, Key)
}

// BodyKind maps the body type onto chipmunk's body kinds.
func (c Collision) BodyKind() int {
	switch c.BodyType {
	case BodyDynamic:
		return cp.BODY_DYNAMIC
	case BodyKinematic:
		return cp.BODY_KINEMATIC
	}
	return cp.BODY_STATIC
}

// Box is the collision rectangle with its top-left corner at the entity
// position.
func Box(e ecs.Entity) (geom.Box, bool) {
	c, ok := Get(e)
	if !ok || c.Dimension.X <= 0 || c.Dimension.Y <= 0 {
		return geom.Box{}, false
	}
	return geom.BoxFromRect(position.Of(e), c.Dimension), true
}

func draw(e ecs.Entity, _ render.AssetSource) []render.Directive {
	box, ok := Box(e)
	if !ok {
		return nil
	}
	out := []render.Directive{render.Rect(box, colornames.Lime, false)}
	c, _ := Get(e)
	if c.OneWayNormal.LengthSq() > 0 {
		center := box.Center()
		tip := center.Add(c.OneWayNormal.Normalize().Mult(geom.Size(box).Y / 2))
		out = append(out, render.Line(center, tip, colornames.Yellow, 1))
	}
	return out
}

func Register(r *hooks.Registries) {
	r.Defaults.Register(Key, entitysystem.AttributeDefault{
		CreateByDefault: true,
		New:             func() ecs.Attribute { return Default() },
	})
	r.Boxes.Register(Key, Box)
	r.Drawers.Register(Key, draw)
	r.Codecs.Register(Key, levels.JSONCodec[Collision]())
	r.Forms.Register(Key, forms.Form{
		forms.Vector("Dimension",
			func(c Collision) geom.Vector { return c.Dimension },
			func(c Collision, v geom.Vector) Collision { c.Dimension = v; return c }),
		forms.Vector("One Way Normal",
			func(c Collision) geom.Vector { return c.OneWayNormal },
			func(c Collision, v geom.Vector) Collision { c.OneWayNormal = v; return c }),
		forms.Choice("Body Type", BodyTypes,
			func(c Collision) string { return c.BodyType },
			func(c Collision, v string) Collision { c.BodyType = v; return c }),
		forms.Choice("Collision Type", CollisionTypes,
			func(c Collision) string { return c.CollisionType },
			func(c Collision, v string) Collision { c.CollisionType = v; return c }),
	})
}
