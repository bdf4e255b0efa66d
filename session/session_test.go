package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milk9111/duckling/attributes/collision"
	"github.com/milk9111/duckling/attributes/drawable"
	"github.com/milk9111/duckling/attributes/position"
	"github.com/milk9111/duckling/config"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/levels"
	"github.com/milk9111/duckling/selection"
	"github.com/milk9111/duckling/state"
	"github.com/milk9111/duckling/tools"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, levels.SaveProject(dir, levels.Project{Name: "test"}))
	cfg := config.Default()
	cfg.Project = dir
	s, err := New(cfg, zap.NewNop(), &selection.MemoryClipboard{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// addBox adds a default entity at pos with the given render priority.
func addBox(t *testing.T, s *Session, key ecs.EntityKey, pos geom.Vector, prio float64) {
	t.Helper()
	e := s.Positions.Move(s.Defaults.CreateEntity(), pos)
	d, ok := drawable.Get(e)
	require.True(t, ok)
	d.RenderPriority = prio
	require.NoError(t, s.Entities.AddEntity(key, e.With(drawable.Key, d), state.NoMerge))
}

func TestNewSession(t *testing.T) {
	s := newSession(t)

	assert.True(t, s.Levels.IsOpen())
	assert.True(t, s.Assets.IsLoaded(drawable.DefaultFont))
	assert.Equal(t, tools.EntityMoveToolKey, s.Tools.Current().Key())
	assert.Equal(t, 0, s.Entities.EntitySystem().Len())

	e := s.Defaults.CreateEntity()
	for _, key := range []ecs.AttributeKey{position.Key, collision.Key, drawable.Key} {
		assert.True(t, e.Has(key), key)
	}
}

func TestRenderOrderFollowsPriorityEdits(t *testing.T) {
	s := newSession(t)
	addBox(t, s, "a", geom.Vec(0, 0), 0)
	addBox(t, s, "b", geom.Vec(0, 0), 2)
	point := geom.Vec(8, 8)

	assert.Equal(t, []ecs.EntityKey{"a", "b"}, s.Priority.SortKeys(s.Entities.EntitySystem()))
	key, ok := s.Resolver.GetEntityKey(point)
	require.True(t, ok)
	assert.Equal(t, ecs.EntityKey("b"), key)

	before := s.Store.HistoryLen()
	m1 := s.Store.NewMergeKey()
	require.NoError(t, s.SetField("a", drawable.Key, 2, "4", m1))
	require.NoError(t, s.SetField("a", drawable.Key, 2, "5", m1))
	assert.Equal(t, before+1, s.Store.HistoryLen())

	assert.Equal(t, []ecs.EntityKey{"b", "a"}, s.Priority.SortKeys(s.Entities.EntitySystem()))
	key, _ = s.Resolver.GetEntityKey(point)
	assert.Equal(t, ecs.EntityKey("a"), key)

	s.Store.Undo()
	assert.Equal(t, []ecs.EntityKey{"a", "b"}, s.Priority.SortKeys(s.Entities.EntitySystem()))
	key, _ = s.Resolver.GetEntityKey(point)
	assert.Equal(t, ecs.EntityKey("b"), key)
}

func TestNonFinitePriorityRejected(t *testing.T) {
	s := newSession(t)
	s.Levels.NewMap("level1")
	addBox(t, s, "a", geom.Vec(0, 0), 5)
	addBox(t, s, "n", geom.Vec(0, 0), 0)
	addBox(t, s, "b", geom.Vec(0, 0), 1)

	for _, input := range []string{"NaN", "Inf", "-inf"} {
		assert.Error(t, s.SetField("n", drawable.Key, 2, input, state.NoMerge), input)
	}
	assert.Equal(t, []ecs.EntityKey{"n", "b", "a"}, s.Priority.SortKeys(s.Entities.EntitySystem()))
	require.NoError(t, s.Levels.SaveMap())
}

func TestSetField(t *testing.T) {
	s := newSession(t)
	addBox(t, s, "a", geom.Vec(0, 0), 0)

	tests := []struct {
		name    string
		key     ecs.EntityKey
		attr    ecs.AttributeKey
		field   int
		input   string
		wantErr error
	}{
		{name: "missing entity", key: "nope", attr: position.Key, input: "1, 2", wantErr: ecs.ErrEntityNotFound},
		{name: "missing attribute", key: "a", attr: "camera", input: "1", wantErr: ErrUnknownAttribute},
		{name: "field out of range", key: "a", attr: position.Key, field: 9, input: "1, 2", wantErr: ErrNoField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetField(tt.key, tt.attr, tt.field, tt.input, state.NoMerge)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("bad input leaves entity unchanged", func(t *testing.T) {
		before, _ := s.Entities.GetEntity("a")
		assert.Error(t, s.SetField("a", position.Key, 0, "twelve", state.NoMerge))
		after, _ := s.Entities.GetEntity("a")
		assert.True(t, before.Same(after))
	})

	t.Run("vector field moves the entity", func(t *testing.T) {
		require.NoError(t, s.SetField("a", position.Key, 0, "32, 48", state.NoMerge))
		e, _ := s.Entities.GetEntity("a")
		assert.Equal(t, geom.Vec(32, 48), position.Of(e))
	})
}

func TestAddAndRemoveAttribute(t *testing.T) {
	s := newSession(t)
	addBox(t, s, "a", geom.Vec(0, 0), 0)

	assert.ErrorIs(t, s.AddAttribute("a", "unknown", state.NoMerge), ErrUnknownAttribute)
	assert.ErrorIs(t, s.AddAttribute("x", "camera", state.NoMerge), ecs.ErrEntityNotFound)

	require.NoError(t, s.AddAttribute("a", "camera", state.NoMerge))
	e, _ := s.Entities.GetEntity("a")
	assert.True(t, e.Has("camera"))
	assert.NotContains(t, s.Defaults.AvailableAttributes(e), ecs.AttributeKey("camera"))

	require.NoError(t, s.RemoveAttribute("a", "camera", state.NoMerge))
	e, _ = s.Entities.GetEntity("a")
	assert.False(t, e.Has("camera"))

	n := s.Store.HistoryLen()
	require.NoError(t, s.RemoveAttribute("a", "camera", state.NoMerge))
	assert.Equal(t, n, s.Store.HistoryLen())
}

func TestDeleteSelected(t *testing.T) {
	s := newSession(t)
	assert.False(t, s.DeleteSelected(state.NoMerge))

	addBox(t, s, "a", geom.Vec(0, 0), 0)
	require.NoError(t, s.Selection.Select("a", state.NoMerge))
	assert.True(t, s.DeleteSelected(state.NoMerge))

	_, ok := s.Entities.GetEntity("a")
	assert.False(t, ok)
	_, ok = s.Selection.Selection()
	assert.False(t, ok)
}

func TestToolsDriveTheStore(t *testing.T) {
	s := newSession(t)
	s.Tools.Current().(*tools.EntityMoveTool).Snap = false
	addBox(t, s, "a", geom.Vec(0, 0), 0)

	move := s.Tools.Current()
	move.OnStageDown(s.Viewport.Event(geom.Vec(4, 4)))
	move.OnStageMove(s.Viewport.Event(geom.Vec(14, 4)))
	move.OnStageMove(s.Viewport.Event(geom.Vec(24, 4)))
	move.OnStageUp(s.Viewport.Event(geom.Vec(24, 4)))

	e, _ := s.Entities.GetEntity("a")
	assert.Equal(t, geom.Vec(20, 0), position.Of(e))
	sel, ok := s.Selection.Selection()
	require.True(t, ok)
	assert.Equal(t, ecs.EntityKey("a"), sel.Key)

	s.Store.Undo()
	e, _ = s.Entities.GetEntity("a")
	assert.Equal(t, geom.Vec(0, 0), position.Of(e))
}

func TestSaveAndLoadMap(t *testing.T) {
	s := newSession(t)
	s.Levels.NewMap("level1")
	addBox(t, s, "a", geom.Vec(10, 20), 3)
	assert.True(t, s.Levels.Dirty())

	require.NoError(t, s.Levels.SaveMap())
	assert.False(t, s.Levels.Dirty())

	s.Levels.NewMap("other")
	require.NoError(t, s.Levels.LoadMap("level1"))
	assert.False(t, s.Store.CanUndo())

	e, ok := s.Entities.GetEntity("a")
	require.True(t, ok)
	assert.Equal(t, geom.Vec(10, 20), position.Of(e))
	d, ok := drawable.Get(e)
	require.True(t, ok)
	assert.Equal(t, 3.0, d.RenderPriority)
}

func TestCopyPaste(t *testing.T) {
	s := newSession(t)
	addBox(t, s, "crate1", geom.Vec(0, 0), 0)
	require.NoError(t, s.Selection.Select("crate1", state.NoMerge))
	require.NoError(t, s.CopyPaste.Copy())

	key, err := s.CopyPaste.Paste(geom.Vec(64, 0), s.Store.NewMergeKey())
	require.NoError(t, err)
	assert.Equal(t, ecs.EntityKey("crate2"), key)

	e, _ := s.Entities.GetEntity(key)
	assert.Equal(t, geom.Vec(64, 0), position.Of(e))
	sel, _ := s.Selection.Selection()
	assert.Equal(t, key, sel.Key)
}

func TestScriptsEditEntities(t *testing.T) {
	s := newSession(t)
	addBox(t, s, "a", geom.Vec(0, 0), 0)

	res, err := s.Scripts.Run(context.Background(), `entities.a.position.position.X = 40`)
	require.NoError(t, err)
	assert.Equal(t, []ecs.EntityKey{"a"}, res.Updated)

	e, _ := s.Entities.GetEntity("a")
	assert.Equal(t, geom.Vec(40, 0), position.Of(e))
}

func TestTextBoxUsesDefaultFont(t *testing.T) {
	s := newSession(t)
	e := s.Defaults.CreateEntity()
	d, _ := drawable.Get(e)
	d.Kind = drawable.KindText
	d.Text.Text = "hello"
	e = e.Without(collision.Key).With(drawable.Key, d)

	box, ok := s.Boxes.GetEntityBox(e)
	require.True(t, ok)
	assert.Greater(t, box.R-box.L, 0.0)
	assert.Greater(t, box.T-box.B, 0.0)
	assert.NotEmpty(t, s.Drawer.DrawEntity(e, false))
}

func TestPreloadWithoutAssets(t *testing.T) {
	s := newSession(t)
	addBox(t, s, "a", geom.Vec(0, 0), 0)
	assert.NoError(t, s.Preload(context.Background()))
	s.Poll()
}
