package script

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/levels"
	"github.com/milk9111/duckling/registry"
	"github.com/milk9111/duckling/state"
)

type health struct {
	HP float64 `json:"hp"`
}

type fixture struct {
	store    *editor.Store
	entities *entitysystem.Service
	runner   *Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	codecs := registry.New[levels.Codec]()
	codecs.Register("health", levels.JSONCodec[health]())
	store := editor.NewStore(editor.NewState())
	entities := entitysystem.NewService(store, nil)
	for _, k := range []ecs.EntityKey{"goblin", "orc", "rock"} {
		attrs := map[string]ecs.Attribute{"health": health{HP: 10}}
		if k == "rock" {
			attrs = map[string]ecs.Attribute{"tag": levels.RawAttribute(`"scenery"`)}
		}
		require.NoError(t, entities.AddEntity(k, ecs.NewEntity(attrs), state.NoMerge))
	}
	return &fixture{store: store, entities: entities, runner: NewRunner(store, entities, codecs, nil)}
}

func hp(t *testing.T, f *fixture, key ecs.EntityKey) float64 {
	t.Helper()
	e, ok := f.entities.GetEntity(key)
	require.True(t, ok)
	h, ok := ecs.Attr[health](e, "health")
	require.True(t, ok)
	return h.HP
}

func TestRunBatchEditIsOneUndoStep(t *testing.T) {
	f := newFixture(t)
	before := f.store.HistoryLen()

	res, err := f.runner.Run(context.Background(), `
for key, e in entities {
	if e.health != undefined {
		e.health.hp = e.health.hp * 2
	}
}
entities["troll"] = {health: {hp: 99}}
delete(entities, "rock")
print("done", len(entities))
`)
	require.NoError(t, err)
	assert.Equal(t, []ecs.EntityKey{"troll"}, res.Added)
	assert.Equal(t, []ecs.EntityKey{"goblin", "orc"}, res.Updated)
	assert.Equal(t, []ecs.EntityKey{"rock"}, res.Deleted)
	assert.Equal(t, []string{"done 3"}, res.Output)

	assert.Equal(t, 20.0, hp(t, f, "goblin"))
	assert.Equal(t, 99.0, hp(t, f, "troll"))
	assert.Equal(t, []ecs.EntityKey{"goblin", "orc", "troll"}, f.entities.EntitySystem().Keys())
	assert.Equal(t, before+1, f.store.HistoryLen())

	f.store.Undo()
	assert.Equal(t, []ecs.EntityKey{"goblin", "orc", "rock"}, f.entities.EntitySystem().Keys())
	assert.Equal(t, 10.0, hp(t, f, "goblin"))
}

func TestRunWithoutChanges(t *testing.T) {
	f := newFixture(t)
	before := f.store.HistoryLen()
	res, err := f.runner.Run(context.Background(), `x := len(entities)`)
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, before, f.store.HistoryLen())
}

func TestRunCollectsPrintOutput(t *testing.T) {
	f := newFixture(t)
	res, err := f.runner.Run(context.Background(), `
print("count", len(entities))
print(entities.goblin.health.hp)
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"count 3", "10"}, res.Output)
	assert.False(t, res.Changed())
}

func TestRunFailuresDispatchNothing(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", `for {`},
		{"runtime error", `x := entities.goblin.health.hp; x()`},
		{"bad attribute", `entities.goblin.health = "lots"`},
		{"entity not a map", `entities.goblin = 5`},
		{"entities replaced", `entities = 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			before := f.entities.EntitySystem()
			_, err := f.runner.Run(context.Background(), tt.src)
			assert.Error(t, err)
			assert.True(t, before.Equal(f.entities.EntitySystem()))
		})
	}
}

func TestRunHonoursContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.runner.Run(ctx, `for { }`)
	assert.Error(t, err)
}
