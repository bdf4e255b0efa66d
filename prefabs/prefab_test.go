package prefabs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/levels"
	"github.com/milk9111/duckling/registry"
)

type size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func testCodecs() *registry.Registry[levels.Codec] {
	codecs := registry.New[levels.Codec]()
	codecs.Register("size", levels.JSONCodec[size]())
	return codecs
}

func TestLoadAndInstantiate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wall.yaml"), []byte(`
name: wall
attributes:
  size:
    w: 32
    h: 8
  tags: [solid]
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crate.yml"), []byte("attributes:\n  size: {w: 4, h: 4}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	lib := NewLibrary(testCodecs(), nil)
	require.NoError(t, lib.Load(dir))
	assert.Equal(t, []string{"crate", "wall"}, lib.Names())

	e, err := lib.Entity("wall")
	require.NoError(t, err)
	got, ok := ecs.Attr[size](e, "size")
	require.True(t, ok)
	assert.Equal(t, size{W: 32, H: 8}, got)
	tags, ok := ecs.Attr[levels.RawAttribute](e, "tags")
	require.True(t, ok)
	assert.JSONEq(t, `["solid"]`, string(tags))

	_, err = lib.Entity("ghost")
	assert.ErrorIs(t, err, ErrUnknownPrefab)
}

func TestLoadMissingDir(t *testing.T) {
	lib := NewLibrary(testCodecs(), nil)
	require.NoError(t, lib.Load(filepath.Join(t.TempDir(), "none")))
	assert.Empty(t, lib.Names())
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary(testCodecs(), nil)
	require.NoError(t, lib.Load(dir))

	e := ecs.NewEntity(map[string]ecs.Attribute{"size": size{W: 2, H: 3}})
	require.NoError(t, lib.Save("block", e))
	assert.FileExists(t, filepath.Join(dir, "block.yaml"))

	reloaded := NewLibrary(testCodecs(), nil)
	require.NoError(t, reloaded.Load(dir))
	got, err := reloaded.Entity("block")
	require.NoError(t, err)
	assert.True(t, got.Equal(e))
}
