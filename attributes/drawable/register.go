package drawable

import (
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/forms"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/hooks"
	"github.com/milk9111/duckling/levels"
	"github.com/milk9111/duckling/render"
)

// Register installs the drawable behaviours. src sizes images and text for
// bounding boxes.
func Register(r *hooks.Registries, src render.AssetSource) {
	r.Defaults.Register(Key, entitysystem.AttributeDefault{
		CreateByDefault: true,
		New:             func() ecs.Attribute { return Default() },
	})
	r.Drawers.Register(Key, Directives)
	r.Boxes.Register(Key, BoxFunc(src))
	r.Priorities.Register(Key, priority)
	r.RequiredAssets.Register(Key, RequiredAssets)
	r.Codecs.Register(Key, levels.JSONCodec[Drawable]())
	r.Forms.Register(Key, form())
}

func form() forms.Form {
	return forms.Form{
		forms.Choice("Kind", Kinds,
			func(d Drawable) string { return d.Kind },
			func(d Drawable, v string) Drawable { d.Kind = v; return d }),
		forms.Bool("Inactive",
			func(d Drawable) bool { return d.Inactive },
			func(d Drawable, v bool) Drawable { d.Inactive = v; return d }),
		forms.Number("Render Priority",
			func(d Drawable) float64 { return d.RenderPriority },
			func(d Drawable, v float64) Drawable { d.RenderPriority = v; return d }),
		forms.Vector("Scale",
			func(d Drawable) geom.Vector { return d.Scale },
			func(d Drawable, v geom.Vector) Drawable { d.Scale = v; return d }),
		forms.Vector("Position Offset",
			func(d Drawable) geom.Vector { return d.PositionOffset },
			func(d Drawable, v geom.Vector) Drawable { d.PositionOffset = v; return d }),
		forms.Number("Rotation",
			func(d Drawable) float64 { return d.Rotation },
			func(d Drawable, v float64) Drawable { d.Rotation = v; return d }),
		forms.Choice("Shape", ShapeTypes,
			func(d Drawable) string { return d.Shape.Type },
			func(d Drawable, v string) Drawable { d.Shape.Type = v; return d }),
		forms.Vector("Dimension",
			func(d Drawable) geom.Vector { return d.Shape.Dimension },
			func(d Drawable, v geom.Vector) Drawable { d.Shape.Dimension = v; return d }),
		forms.Number("Radius",
			func(d Drawable) float64 { return d.Shape.Radius },
			func(d Drawable, v float64) Drawable { d.Shape.Radius = v; return d }),
		forms.Text("Shape Color",
			func(d Drawable) string { return d.Shape.Color },
			func(d Drawable, v string) Drawable { d.Shape.Color = v; return d }),
		forms.Bool("Fill",
			func(d Drawable) bool { return d.Shape.Fill },
			func(d Drawable, v bool) Drawable { d.Shape.Fill = v; return d }),
		forms.Text("Texture",
			func(d Drawable) string { return d.Image.TextureKey },
			func(d Drawable, v string) Drawable { d.Image.TextureKey = v; return d }),
		forms.Text("Text",
			func(d Drawable) string { return d.Text.Text },
			func(d Drawable, v string) Drawable { d.Text.Text = v; return d }),
		forms.Text("Font",
			func(d Drawable) string { return d.Text.FontKey },
			func(d Drawable, v string) Drawable { d.Text.FontKey = v; return d }),
		forms.Number("Text Size",
			func(d Drawable) float64 { return d.Text.Size },
			func(d Drawable, v float64) Drawable { d.Text.Size = v; return d }),
		forms.Text("Text Color",
			func(d Drawable) string { return d.Text.Color },
			func(d Drawable, v string) Drawable { d.Text.Color = v; return d }),
	}
}
