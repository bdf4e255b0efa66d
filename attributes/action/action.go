// Package action lists the named actions an entity can perform.
package action

import (
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/forms"
	"github.com/milk9111/duckling/hooks"
	"github.com/milk9111/duckling/levels"
)

const Key = "action"

type Action struct {
	Actions []string `json:"actions"`
}

func Register(r *hooks.Registries) {
	r.Defaults.Register(Key, entitysystem.AttributeDefault{
		New: func() ecs.Attribute { return Action{Actions: []string{}} },
	})
	r.Codecs.Register(Key, levels.JSONCodec[Action]())
	r.Forms.Register(Key, forms.Form{
		forms.List("Actions",
			func(a Action) []string { return a.Actions },
			func(a Action, v []string) Action { a.Actions = v; return a }),
	})
}
