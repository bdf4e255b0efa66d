// Package attributes registers the built-in attribute types.
package attributes

import (
	"github.com/milk9111/duckling/attributes/action"
	"github.com/milk9111/duckling/attributes/camera"
	"github.com/milk9111/duckling/attributes/collision"
	"github.com/milk9111/duckling/attributes/drawable"
	"github.com/milk9111/duckling/attributes/position"
	"github.com/milk9111/duckling/attributes/rotate"
	"github.com/milk9111/duckling/hooks"
	"github.com/milk9111/duckling/render"
)

// Bootstrap fills r with every built-in attribute.
func Bootstrap(r *hooks.Registries, src render.AssetSource) {
	position.Register(r)
	collision.Register(r)
	camera.Register(r)
	drawable.Register(r, src)
	action.Register(r)
	rotate.Register(r)
}
