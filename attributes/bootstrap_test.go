package attributes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/duckling/assets"
	"github.com/milk9111/duckling/attributes/collision"
	"github.com/milk9111/duckling/attributes/drawable"
	"github.com/milk9111/duckling/attributes/position"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/hooks"
	"github.com/milk9111/duckling/levels"
	"github.com/milk9111/duckling/render"
)

type stubAssets struct {
	textures map[string]geom.Vector
}

func (s stubAssets) IsLoaded(key string) bool { _, ok := s.textures[key]; return ok }
func (s stubAssets) Add(assets.Asset)         {}
func (s stubAssets) TextureSize(key string) (geom.Vector, bool) {
	v, ok := s.textures[key]
	return v, ok
}
func (s stubAssets) TextSize(_, text string, size float64) (geom.Vector, bool) {
	return geom.Vec(float64(len(text))*size/2, size), true
}

func bootstrapped() *hooks.Registries {
	r := hooks.New()
	Bootstrap(r, stubAssets{textures: map[string]geom.Vector{"hero": geom.Vec(10, 20)}})
	return r
}

func TestBootstrapRegistersEveryAttribute(t *testing.T) {
	r := bootstrapped()
	want := []string{"action", "camera", "collision", "drawable", "position", "rotate"}
	assert.Equal(t, want, r.Defaults.Keys())
	assert.Equal(t, want, r.Codecs.Keys())
	assert.Equal(t, want, r.Forms.Keys())
	assert.Equal(t, []string{"collision", "drawable"}, r.Boxes.Keys())
	assert.Equal(t, []string{"drawable"}, r.Priorities.Keys())
	assert.Equal(t, []string{"position"}, r.PositionSetters.Keys())
}

func TestDefaultEntity(t *testing.T) {
	r := bootstrapped()
	defaults := entitysystem.NewAttributeDefaultService(r.Defaults)

	e := defaults.CreateEntity()
	assert.Equal(t, []string{"collision", "drawable", "position"}, e.Keys())
	assert.Equal(t, []string{"action", "camera", "rotate"}, defaults.AvailableAttributes(e))

	encoded, err := levels.EncodeEntity(r.Codecs, e)
	require.NoError(t, err)
	decoded, err := levels.DecodeEntity(r.Codecs, encoded)
	require.NoError(t, err)
	assert.True(t, decoded.Equal(e))
}

func TestCollisionBoxFollowsPosition(t *testing.T) {
	r := bootstrapped()
	boxes := entitysystem.NewEntityBoxService(r.Boxes)
	e := ecs.NewEntity(map[string]ecs.Attribute{
		position.Key:  position.Position{Position: geom.Vec(5, 5)},
		collision.Key: collision.Collision{Dimension: geom.Vec(10, 4)},
	})
	box, ok := boxes.GetEntityBox(e)
	require.True(t, ok)
	assert.Equal(t, geom.Box{L: 5, B: 5, R: 15, T: 9}, box)

	empty := ecs.NewEntity(map[string]ecs.Attribute{collision.Key: collision.Collision{}})
	_, ok = boxes.GetEntityBox(empty)
	assert.False(t, ok)
}

func TestDrawableDirectives(t *testing.T) {
	src := stubAssets{textures: map[string]geom.Vector{"hero": geom.Vec(10, 20)}}
	at := position.Position{Position: geom.Vec(100, 50)}

	tests := []struct {
		name  string
		d     drawable.Drawable
		shape render.Shape
		box   geom.Box
	}{
		{
			name:  "rectangle scaled",
			d:     func() drawable.Drawable { d := drawable.Default(); d.Scale = geom.Vec(2, 1); return d }(),
			shape: render.ShapeRect,
			box:   geom.Box{L: 100, B: 50, R: 132, T: 66},
		},
		{
			name: "circle",
			d: drawable.Drawable{Kind: drawable.KindShape, Scale: geom.Vec(1, 1),
				Shape: drawable.Shape{Type: drawable.ShapeCircle, Radius: 3}},
			shape: render.ShapeCircle,
			box:   geom.Box{L: 97, B: 47, R: 103, T: 53},
		},
		{
			name: "image with offset",
			d: drawable.Drawable{Kind: drawable.KindImage, Scale: geom.Vec(1, 1), PositionOffset: geom.Vec(-5, 0),
				Image: drawable.Image{TextureKey: "hero.png"}},
			shape: render.ShapeImage,
			box:   geom.Box{L: 95, B: 50, R: 105, T: 70},
		},
		{
			name: "text",
			d: drawable.Drawable{Kind: drawable.KindText, Scale: geom.Vec(1, 1),
				Text: drawable.Text{Text: "hi", Size: 10}},
			shape: render.ShapeText,
			box:   geom.Box{L: 100, B: 50, R: 110, T: 60},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ecs.NewEntity(map[string]ecs.Attribute{position.Key: at, drawable.Key: tt.d})
			ds := drawable.Directives(e, src)
			require.Len(t, ds, 1)
			assert.Equal(t, tt.shape, ds[0].Shape)
			assert.Equal(t, tt.box, ds[0].Bounds())

			box, ok := drawable.BoxFunc(src)(e)
			require.True(t, ok)
			assert.Equal(t, tt.box, box)
		})
	}
}

func TestDrawableInactiveAndMissingTexture(t *testing.T) {
	src := stubAssets{}
	inactive := drawable.Default()
	inactive.Inactive = true
	e := ecs.NewEntity(map[string]ecs.Attribute{drawable.Key: inactive})
	assert.Empty(t, drawable.Directives(e, src))
	assert.Empty(t, drawable.RequiredAssets(e))

	img := drawable.Drawable{Kind: drawable.KindImage, Scale: geom.Vec(1, 1), Image: drawable.Image{TextureKey: "tiles/wall"}}
	e = ecs.NewEntity(map[string]ecs.Attribute{drawable.Key: img})
	assert.Equal(t, []assets.Asset{assets.Texture("tiles/wall")}, drawable.RequiredAssets(e))
	_, ok := drawable.BoxFunc(src)(e)
	assert.False(t, ok)

	text := drawable.Drawable{Kind: drawable.KindText, Text: drawable.Text{Text: "x"}}
	e = ecs.NewEntity(map[string]ecs.Attribute{drawable.Key: text})
	assert.Equal(t, []assets.Asset{assets.Font(drawable.DefaultFont)}, drawable.RequiredAssets(e))
}

func TestDrawablePriority(t *testing.T) {
	r := bootstrapped()
	prio := render.NewPriorityService(r.Priorities)
	d := drawable.Default()
	d.RenderPriority = 4
	assert.Equal(t, 4.0, prio.Priority(ecs.NewEntity(map[string]ecs.Attribute{drawable.Key: d})))
	assert.Equal(t, render.DefaultPriority, prio.Priority(ecs.NewEntity(map[string]ecs.Attribute{position.Key: position.Position{}})))
}

func TestPositionSetterKeepsOtherAttributes(t *testing.T) {
	r := bootstrapped()
	positions := entitysystem.NewEntityPositionService(nil, r.PositionSetters, r.PositionGetters)
	e := ecs.NewEntity(map[string]ecs.Attribute{
		position.Key:  position.Position{Velocity: geom.Vec(1, 0)},
		collision.Key: collision.Default(),
	})
	moved := positions.Move(e, geom.Vec(7, 8))
	p, _ := position.Get(moved)
	assert.Equal(t, geom.Vec(7, 8), p.Position)
	assert.Equal(t, geom.Vec(1, 0), p.Velocity)
	assert.True(t, moved.Has(collision.Key))

	got, ok := positions.GetPosition(moved)
	require.True(t, ok)
	assert.Equal(t, geom.Vec(7, 8), got)
}
