// Package rotate spins an entity at a constant speed in game.
package rotate

import (
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/forms"
	"github.com/milk9111/duckling/hooks"
	"github.com/milk9111/duckling/levels"
)

const Key = "rotate"

type Rotate struct {
	// Speed is in degrees per second.
	Speed float64 `json:"speed"`
}

func Register(r *hooks.Registries) {
	r.Defaults.Register(Key, entitysystem.AttributeDefault{
		New: func() ecs.Attribute { return Rotate{} },
	})
	r.Codecs.Register(Key, levels.JSONCodec[Rotate]())
	r.Forms.Register(Key, forms.Form{
		forms.Number("Speed",
			func(r Rotate) float64 { return r.Speed },
			func(r Rotate, v float64) Rotate { r.Speed = v; return r }),
	})
}
