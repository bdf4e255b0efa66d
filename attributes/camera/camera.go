// Package camera marks an entity as the game camera.
package camera

import (
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/forms"
	"github.com/milk9111/duckling/hooks"
	"github.com/milk9111/duckling/levels"
)

const Key = "camera"

type Camera struct {
	// FollowsEntity is the key of the entity the camera tracks, if any.
	FollowsEntity string  `json:"followsEntity"`
	Scale         float64 `json:"scale"`
}

func Register(r *hooks.Registries) {
	r.Defaults.Register(Key, entitysystem.AttributeDefault{
		New: func() ecs.Attribute { return Camera{Scale: 1} },
	})
	r.Codecs.Register(Key, levels.JSONCodec[Camera]())
	r.Forms.Register(Key, forms.Form{
		forms.Text("Follows Entity",
			func(c Camera) string { return c.FollowsEntity },
			func(c Camera, v string) Camera { c.FollowsEntity = v; return c }),
		forms.Number("Scale",
			func(c Camera) float64 { return c.Scale },
			func(c Camera, v float64) Camera { c.Scale = v; return c }),
	})
}
