package levels

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/registry"
	"github.com/milk9111/duckling/state"
)

type position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func testCodecs() *registry.Registry[Codec] {
	codecs := registry.New[Codec]()
	codecs.Register("position", JSONCodec[position]())
	return codecs
}

func testState(t *testing.T) editor.State {
	t.Helper()
	st := editor.NewState()
	st.Map.Name = "level1"
	var err error
	for _, k := range []ecs.EntityKey{"zeta", "alpha", "mid"} {
		st.Entities, err = st.Entities.Add(k, ecs.NewEntity(map[string]ecs.Attribute{
			"position": position{X: 1, Y: 2},
			"custom":   RawAttribute(`{"keep":true}`),
		}))
		require.NoError(t, err)
	}
	return st
}

func TestEncodeDecodeKeepsOrderAndUnknownAttributes(t *testing.T) {
	codecs := testCodecs()
	st := testState(t)

	data, err := Encode(codecs, st)
	require.NoError(t, err)

	settings, sys, err := Decode(codecs, data)
	require.NoError(t, err)
	assert.Equal(t, st.Map, settings)
	assert.Equal(t, []ecs.EntityKey{"zeta", "alpha", "mid"}, sys.Keys())

	e, _ := sys.Get("alpha")
	pos, ok := ecs.Attr[position](e, "position")
	require.True(t, ok)
	assert.Equal(t, position{X: 1, Y: 2}, pos)
	raw, ok := ecs.Attr[RawAttribute](e, "custom")
	require.True(t, ok)
	assert.JSONEq(t, `{"keep":true}`, string(raw))

	again, err := Encode(codecs, editor.State{Entities: sys, Map: settings})
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "newer version", data: `{"version":99}`, wantErr: ErrVersion},
		{name: "duplicate key", data: `{"version":1,"entities":[{"key":"a","attributes":{}},{"key":"a","attributes":{}}]}`, wantErr: ErrDuplicateKey},
		{name: "empty key", data: `{"version":1,"entities":[{"key":"","attributes":{}}]}`, wantErr: ecs.ErrEmptyKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(testCodecs(), []byte(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, _, err := Decode(testCodecs(), []byte(`{"version":1,"entities":[{"key":"a","attributes":{"position":"nope"}}]}`))
	assert.Error(t, err)
	_, _, err = Decode(testCodecs(), []byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeDefaults(t *testing.T) {
	settings, sys, err := Decode(testCodecs(), []byte(`{"version":1,"name":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, 0, sys.Len())
	assert.Equal(t, float64(editor.DefaultGridSize), settings.GridSize)
	assert.Equal(t, geom.Vec(editor.DefaultWidth, editor.DefaultHeight), settings.Dimension)
}

func TestJSONCodecRejectsWrongType(t *testing.T) {
	_, err := JSONCodec[position]().Encode("not a position")
	assert.ErrorIs(t, err, ErrAttributeType)
}

func TestProjectDefaults(t *testing.T) {
	dir := t.TempDir()
	p, err := LoadProject(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), p.Name)
	assert.Equal(t, "resources", p.Resources)
	assert.Equal(t, "maps", p.Maps)

	require.NoError(t, SaveProject(dir, Project{Name: "demo", DefaultMap: "start"}))
	p, err = LoadProject(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", p.Name)
	assert.Equal(t, "start", p.DefaultMap)
	assert.DirExists(t, filepath.Join(dir, "prefabs"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte("name: [unclosed"), 0o644))
	_, err = LoadProject(dir)
	assert.Error(t, err)
}

func TestServiceSaveLoadDirty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveProject(dir, Project{Name: "demo"}))

	store := editor.NewStore(testState(t))
	svc := NewService(testCodecs(), store, nil)
	assert.ErrorIs(t, svc.SaveMap(), ErrNoProject)

	require.NoError(t, svc.Open(dir))
	assert.False(t, svc.Dirty())

	store.Dispatch(ecs.DeleteEntityAction{Key: "mid"}, state.NoMerge)
	assert.True(t, svc.Dirty())
	require.NoError(t, svc.SaveMap())
	assert.False(t, svc.Dirty())

	names, err := svc.Maps()
	require.NoError(t, err)
	assert.Equal(t, []string{"level1"}, names)

	svc.NewMap("other")
	assert.Equal(t, 0, store.State().Entities.Len())
	assert.False(t, store.CanUndo())

	require.NoError(t, svc.LoadMap("level1"))
	assert.Equal(t, []ecs.EntityKey{"zeta", "alpha"}, store.State().Entities.Keys())
	assert.False(t, store.CanUndo())
	assert.False(t, svc.Dirty())

	assert.ErrorIs(t, svc.LoadMap("missing"), os.ErrNotExist)
}

func TestServiceDirtyIsCachedUntilStoreChanges(t *testing.T) {
	store := editor.NewStore(testState(t))
	svc := NewService(testCodecs(), store, nil)
	base := svc.hashes

	for range 3 {
		assert.False(t, svc.Dirty())
	}
	assert.Equal(t, base, svc.hashes)

	store.Dispatch(ecs.DeleteEntityAction{Key: "mid"}, state.NoMerge)
	assert.True(t, svc.Dirty())
	assert.True(t, svc.Dirty())
	assert.Equal(t, base+1, svc.hashes)

	store.Undo()
	assert.False(t, svc.Dirty())
	assert.Equal(t, base+2, svc.hashes)
}

func TestServiceSaveNeedsName(t *testing.T) {
	dir := t.TempDir()
	store := editor.NewStore(editor.NewState())
	svc := NewService(testCodecs(), store, nil)
	require.NoError(t, svc.Open(dir))
	assert.ErrorIs(t, svc.SaveMap(), ErrNoMapName)
	assert.ErrorIs(t, svc.SaveMapAs(""), ErrNoMapName)
}

func TestServiceSaveMapAs(t *testing.T) {
	dir := t.TempDir()
	store := editor.NewStore(editor.NewState())
	svc := NewService(testCodecs(), store, nil)
	require.NoError(t, svc.Open(dir))

	require.NoError(t, svc.SaveMapAs("cave"))
	assert.Equal(t, "cave", store.State().Map.Name)
	assert.False(t, svc.Dirty())

	names, err := svc.Maps()
	require.NoError(t, err)
	assert.Equal(t, []string{"cave"}, names)

	store.Undo()
	assert.Equal(t, "", store.State().Map.Name)
}

func TestEncodeEntityFallsBackToJSON(t *testing.T) {
	attrs, err := EncodeEntity(registry.New[Codec](), ecs.NewEntity(map[string]ecs.Attribute{"n": 3}))
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage("3"), attrs["n"])
}
