// Package drawable is the attribute describing how an entity looks: a
// shape, an image or a line of text.
package drawable

import (
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/milk9111/duckling/assets"
	"github.com/milk9111/duckling/attributes/position"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/render"
)

const Key = "drawable"

// DefaultFont is the font key used by text without one.
const DefaultFont = "default"

const (
	KindShape = "shape"
	KindImage = "image"
	KindText  = "text"
)

const (
	ShapeRectangle = "rectangle"
	ShapeCircle    = "circle"
)

var (
	Kinds      = []string{KindShape, KindImage, KindText}
	ShapeTypes = []string{ShapeRectangle, ShapeCircle}
)

type Drawable struct {
	Kind           string      `json:"kind"`
	Inactive       bool        `json:"inactive"`
	RenderPriority float64     `json:"renderPriority"`
	Scale          geom.Vector `json:"scale"`
	PositionOffset geom.Vector `json:"positionOffset"`
	// Rotation is in degrees.
	Rotation float64 `json:"rotation"`

	Shape Shape `json:"shape"`
	Image Image `json:"image"`
	Text  Text  `json:"text"`
}

type Shape struct {
	Type      string      `json:"type"`
	Dimension geom.Vector `json:"dimension"`
	Radius    float64     `json:"radius"`
	Color     string      `json:"color"`
	Fill      bool        `json:"fill"`
}

type Image struct {
	TextureKey string `json:"textureKey"`
}

type Text struct {
	Text    string  `json:"text"`
	FontKey string  `json:"fontKey"`
	Size    float64 `json:"size"`
	Color   string  `json:"color"`
}

func Default() Drawable {
	return Drawable{
		Kind:  KindShape,
		Scale: geom.Vec(1, 1),
		Shape: Shape{Type: ShapeRectangle, Dimension: geom.Vec(16, 16), Color: "steelblue", Fill: true},
		Text:  Text{Size: 16, Color: "white"},
	}
}

func Get(e ecs.Entity) (Drawable, bool) {
	return ecs.Attr[Drawable](e, Key)
}

func (d Drawable) fontKey() string {
	if d.Text.FontKey == "" {
		return DefaultFont
	}
	return assets.CleanKey(d.Text.FontKey)
}

// RequiredAssets lists the texture or font d needs.
func RequiredAssets(e ecs.Entity) []assets.Asset {
	d, ok := Get(e)
	if !ok || d.Inactive {
		return nil
	}
	switch d.Kind {
	case KindImage:
		if d.Image.TextureKey == "" {
			return nil
		}
		return []assets.Asset{assets.Texture(d.Image.TextureKey)}
	case KindText:
		return []assets.Asset{assets.Font(d.fontKey())}
	}
	return nil
}

func priority(e ecs.Entity) float64 {
	d, _ := Get(e)
	return d.RenderPriority
}

// Directives returns what e's drawable draws. Scale multiplies the base size
// of the shape, image or text, and rotation turns it around its origin.
func Directives(e ecs.Entity, src render.AssetSource) []render.Directive {
	d, ok := Get(e)
	if !ok || d.Inactive {
		return nil
	}
	origin := position.Of(e).Add(d.PositionOffset)
	scale := d.Scale
	radians := geom.DegreesToRadians(d.Rotation)

	var out render.Directive
	switch d.Kind {
	case KindShape:
		clr := parseColor(d.Shape.Color, colornames.Steelblue)
		switch d.Shape.Type {
		case ShapeCircle:
			r := d.Shape.Radius * max(scale.X, scale.Y)
			if r <= 0 {
				return nil
			}
			out = render.Circle(origin, r, clr, d.Shape.Fill)
		default:
			size := geom.Vec(d.Shape.Dimension.X*scale.X, d.Shape.Dimension.Y*scale.Y)
			if size.X == 0 || size.Y == 0 {
				return nil
			}
			out = render.Rect(geom.BoxFromRect(origin, size), clr, d.Shape.Fill)
		}
	case KindImage:
		key := assets.CleanKey(d.Image.TextureKey)
		size, ok := src.TextureSize(key)
		if !ok {
			return nil
		}
		out = render.Image(key, geom.BoxFromRect(origin, geom.Vec(size.X*scale.X, size.Y*scale.Y)))
	case KindText:
		if d.Text.Text == "" {
			return nil
		}
		size, ok := src.TextSize(d.fontKey(), d.Text.Text, d.Text.Size)
		if !ok {
			return nil
		}
		box := geom.BoxFromRect(origin, geom.Vec(size.X*scale.X, size.Y*scale.Y))
		out = render.Text(d.fontKey(), d.Text.Text, d.Text.Size, box, parseColor(d.Text.Color, colornames.White))
	default:
		return nil
	}
	return []render.Directive{out.Rotated(origin, radians)}
}

// BoxFunc returns the bounding box function for drawables. Images and text
// only have a box once their asset is loaded.
func BoxFunc(src render.AssetSource) func(e ecs.Entity) (geom.Box, bool) {
	return func(e ecs.Entity) (geom.Box, bool) {
		ds := Directives(e, src)
		if len(ds) == 0 {
			return geom.Box{}, false
		}
		box := ds[0].Bounds()
		for _, d := range ds[1:] {
			box = geom.Union(box, d.Bounds())
		}
		return box, true
	}
}

func parseColor(s string, fallback color.RGBA) color.RGBA {
	if s == "" {
		return fallback
	}
	c, err := render.ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}
