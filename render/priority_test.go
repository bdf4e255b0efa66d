package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/registry"
)

type position struct{ At geom.Vector }

type drawable struct{ RenderPriority float64 }

type layer struct{ Z float64 }

func newPriorities() *registry.Registry[PriorityFunc] {
	reg := registry.New[PriorityFunc]()
	reg.Register("drawable", func(e ecs.Entity) float64 {
		d, _ := ecs.Attr[drawable](e, "drawable")
		return d.RenderPriority
	})
	reg.Register("layer", func(e ecs.Entity) float64 {
		l, _ := ecs.Attr[layer](e, "layer")
		return l.Z
	})
	return reg
}

func systemOf(t *testing.T, pairs ...any) ecs.System {
	t.Helper()
	sys := ecs.NewSystem()
	for i := 0; i < len(pairs); i += 2 {
		var err error
		sys, err = sys.Add(ecs.EntityKey(pairs[i].(string)), pairs[i+1].(ecs.Entity))
		require.NoError(t, err)
	}
	return sys
}

func entity(attrs map[string]ecs.Attribute) ecs.Entity { return ecs.NewEntity(attrs) }

func TestPriority(t *testing.T) {
	svc := NewPriorityService(newPriorities())
	tests := []struct {
		name string
		e    ecs.Entity
		want float64
	}{
		{"no attributes", ecs.Entity{}, DefaultPriority},
		{"unregistered only", entity(map[string]ecs.Attribute{"position": position{}}), DefaultPriority},
		{"single", entity(map[string]ecs.Attribute{"drawable": drawable{RenderPriority: 2}}), 2},
		{"negative", entity(map[string]ecs.Attribute{"drawable": drawable{RenderPriority: -3}}), -3},
		{"max of several", entity(map[string]ecs.Attribute{
			"drawable": drawable{RenderPriority: 2},
			"layer":    layer{Z: 7},
		}), 7},
		{"nan ignored", entity(map[string]ecs.Attribute{"drawable": drawable{RenderPriority: math.NaN()}}), DefaultPriority},
		{"nan beside finite", entity(map[string]ecs.Attribute{
			"drawable": drawable{RenderPriority: math.NaN()},
			"layer":    layer{Z: 4},
		}), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Priority(tt.e))
		})
	}
}

func TestSortKeysTiesKeepInsertionOrder(t *testing.T) {
	svc := NewPriorityService(newPriorities())
	sys := systemOf(t,
		"top", entity(map[string]ecs.Attribute{"drawable": drawable{RenderPriority: 5}}),
		"a", entity(map[string]ecs.Attribute{"position": position{}}),
		"bottom", entity(map[string]ecs.Attribute{"drawable": drawable{RenderPriority: -1}}),
		"b", entity(map[string]ecs.Attribute{"drawable": drawable{}}),
		"c", entity(map[string]ecs.Attribute{"position": position{}}),
	)
	want := []ecs.EntityKey{"bottom", "a", "b", "c", "top"}
	assert.Equal(t, want, svc.SortKeys(sys))
	assert.Equal(t, want, svc.SortKeys(sys), "deterministic")
	assert.Equal(t, []ecs.EntityKey{"top", "a", "bottom", "b", "c"}, sys.Keys(), "input untouched")
}

func TestSortEntitiesEmpty(t *testing.T) {
	svc := NewPriorityService(newPriorities())
	assert.Empty(t, svc.SortEntities(ecs.NewSystem()))
}

// Priority changes made during one gesture are a single undo step and undo
// restores the previous draw order.
func TestRenderPriorityWithMergedHistory(t *testing.T) {
	store := editor.NewStore(editor.NewState())
	entities := entitysystem.NewService(store, nil)
	prio := NewPriorityService(newPriorities())

	a := entity(map[string]ecs.Attribute{"position": position{At: geom.Vec(0, 0)}})
	b := entity(map[string]ecs.Attribute{
		"position": position{At: geom.Vec(5, 5)},
		"drawable": drawable{RenderPriority: 2},
	})
	require.NoError(t, entities.AddEntity("A", a, store.NewMergeKey()))
	require.NoError(t, entities.AddEntity("B", b, store.NewMergeKey()))

	sorted := prio.SortEntities(entities.EntitySystem())
	require.Len(t, sorted, 2)
	assert.True(t, sorted[0].Same(a))
	assert.True(t, sorted[1].Same(b))

	m1 := store.NewMergeKey()
	before := store.HistoryLen()
	for _, p := range []float64{5, 9} {
		cur, _ := entities.GetEntity("A")
		require.NoError(t, entities.UpdateEntity("A", cur.With("drawable", drawable{RenderPriority: p}), m1))
	}
	assert.Equal(t, before+1, store.HistoryLen())
	assert.Equal(t, []ecs.EntityKey{"B", "A"}, prio.SortKeys(entities.EntitySystem()))

	store.Undo()
	restored, _ := entities.GetEntity("A")
	assert.True(t, restored.Same(a))
	assert.Equal(t, []ecs.EntityKey{"A", "B"}, prio.SortKeys(entities.EntitySystem()))
}
