package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct{ X, Y float64 }

func mustAdd(t *testing.T, s System, key EntityKey, e Entity) System {
	t.Helper()
	next, err := s.Add(key, e)
	require.NoError(t, err)
	return next
}

func sampleSystem(t *testing.T) System {
	s := NewSystem()
	s = mustAdd(t, s, "a", NewEntity(map[AttributeKey]Attribute{"position": point{0, 0}}))
	s = mustAdd(t, s, "b", NewEntity(map[AttributeKey]Attribute{"position": point{5, 5}}))
	s = mustAdd(t, s, "c", NewEntity(map[AttributeKey]Attribute{"position": point{9, 9}}))
	return s
}

func TestSystemInsertionOrder(t *testing.T) {
	s := sampleSystem(t)
	assert.Equal(t, []EntityKey{"a", "b", "c"}, s.Keys())
	assert.Equal(t, 0, s.Index("a"))
	assert.Equal(t, 2, s.Index("c"))
	assert.Equal(t, -1, s.Index("missing"))
}

func TestSystemAddConflict(t *testing.T) {
	s := sampleSystem(t)
	next, err := s.Add("a", Entity{})
	assert.ErrorIs(t, err, ErrKeyConflict)
	assert.True(t, next.Equal(s))

	_, err = s.Add("", Entity{})
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestSystemUpdateDoesNotTouchReceiver(t *testing.T) {
	s := sampleSystem(t)
	moved := NewEntity(map[AttributeKey]Attribute{"position": point{1, 2}})

	next, err := s.Update("b", moved)
	require.NoError(t, err)

	got, _ := next.Get("b")
	assert.True(t, got.Same(moved))
	old, _ := s.Get("b")
	assert.Equal(t, point{5, 5}, old.Attributes()["position"])
	assert.Equal(t, s.Keys(), next.Keys())

	_, err = s.Update("missing", moved)
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestSystemSame(t *testing.T) {
	s := sampleSystem(t)
	moved := NewEntity(map[AttributeKey]Attribute{"position": point{1, 2}})
	b, _ := s.Get("b")

	updated, err := s.Update("b", moved)
	require.NoError(t, err)
	unchanged, err := s.Update("b", b)
	require.NoError(t, err)
	renamed, err := s.Rename("a", "z")
	require.NoError(t, err)
	noopRename, err := s.Rename("a", "a")
	require.NoError(t, err)
	failed, err := s.Update("missing", moved)
	require.Error(t, err)

	tests := []struct {
		name  string
		other System
		want  bool
	}{
		{"itself", s, true},
		{"failed update", failed, true},
		{"delete missing", s.Delete("missing"), true},
		{"rename to itself", noopRename, true},
		{"update with same entity", unchanged, true},
		{"updated", updated, false},
		{"renamed", renamed, false},
		{"deleted", s.Delete("c"), false},
		{"equal copy", sampleSystem(t), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Same(tt.other))
		})
	}
	assert.True(t, NewSystem().Same(System{}))
}

func TestSystemRename(t *testing.T) {
	cases := []struct {
		name    string
		oldKey  EntityKey
		newKey  EntityKey
		wantErr error
		want    []EntityKey
	}{
		{"moves_in_place", "b", "z", nil, []EntityKey{"a", "z", "c"}},
		{"same_key_noop", "b", "b", nil, []EntityKey{"a", "b", "c"}},
		{"conflict", "a", "c", ErrKeyConflict, []EntityKey{"a", "b", "c"}},
		{"missing_source", "q", "z", ErrEntityNotFound, []EntityKey{"a", "b", "c"}},
		{"empty_target", "a", "", ErrEmptyKey, []EntityKey{"a", "b", "c"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := sampleSystem(t)
			before, _ := s.Get(c.oldKey)
			next, err := s.Rename(c.oldKey, c.newKey)
			if c.wantErr != nil {
				assert.ErrorIs(t, err, c.wantErr)
				assert.True(t, next.Equal(s))
			} else {
				require.NoError(t, err)
				got, ok := next.Get(c.newKey)
				require.True(t, ok)
				assert.True(t, got.Same(before))
				if c.oldKey != c.newKey {
					assert.False(t, next.Has(c.oldKey))
				}
			}
			assert.Equal(t, c.want, next.Keys())
		})
	}
}

func TestSystemDelete(t *testing.T) {
	s := sampleSystem(t)
	next := s.Delete("b")
	assert.Equal(t, []EntityKey{"a", "c"}, next.Keys())
	assert.Equal(t, 1, next.Index("c"))
	assert.Equal(t, 3, s.Len())

	same := s.Delete("missing")
	assert.True(t, same.Equal(s))
}

func TestSystemAddAfterSharedSlice(t *testing.T) {
	base := sampleSystem(t)
	left := mustAdd(t, base, "left", Entity{})
	right := mustAdd(t, base, "right", Entity{})

	assert.Equal(t, []EntityKey{"a", "b", "c", "left"}, left.Keys())
	assert.Equal(t, []EntityKey{"a", "b", "c", "right"}, right.Keys())
}

func TestSystemKeyOf(t *testing.T) {
	twin := NewEntity(map[AttributeKey]Attribute{"position": point{3, 3}})
	s := NewSystem()
	s = mustAdd(t, s, "first", twin)
	s = mustAdd(t, s, "second", NewEntity(map[AttributeKey]Attribute{"position": point{3, 3}}))

	key, ok := s.KeyOf(twin)
	require.True(t, ok)
	assert.Equal(t, EntityKey("first"), key)

	copyOfSecond := NewEntity(map[AttributeKey]Attribute{"position": point{3, 3}})
	key, ok = s.KeyOf(copyOfSecond)
	require.True(t, ok)
	assert.Equal(t, EntityKey("first"), key, "equal entities resolve to the earliest one")

	_, ok = s.KeyOf(NewEntity(map[AttributeKey]Attribute{"position": point{0, 1}}))
	assert.False(t, ok)
}

func TestSystemNewKey(t *testing.T) {
	s := NewSystem()
	s = mustAdd(t, s, "entity1", Entity{})
	s = mustAdd(t, s, "entity3", Entity{})
	assert.Equal(t, EntityKey("entity2"), s.NewKey("entity"))
	assert.Equal(t, EntityKey("wall1"), s.NewKey("wall"))
	assert.Equal(t, EntityKey("entity2"), s.NewKey(""))
}

func TestEntityWithWithout(t *testing.T) {
	e := NewEntity(map[AttributeKey]Attribute{"position": point{1, 1}})
	withCam := e.With("camera", 2.0)
	assert.False(t, e.Has("camera"))
	assert.Equal(t, []AttributeKey{"camera", "position"}, withCam.Keys())

	back := withCam.Without("camera")
	assert.True(t, back.Equal(e))
	assert.False(t, back.Same(e))
	assert.True(t, e.Without("missing").Same(e))

	p, ok := Attr[point](e, "position")
	require.True(t, ok)
	assert.Equal(t, point{1, 1}, p)
	_, ok = Attr[string](e, "position")
	assert.False(t, ok)
}

func TestReduceSystem(t *testing.T) {
	s := sampleSystem(t)
	e := NewEntity(map[AttributeKey]Attribute{"position": point{7, 7}})

	cases := []struct {
		name   string
		action any
		keys   []EntityKey
	}{
		{"add", AddEntityAction{Key: "d", Entity: e}, []EntityKey{"a", "b", "c", "d"}},
		{"add_conflict", AddEntityAction{Key: "a", Entity: e}, []EntityKey{"a", "b", "c"}},
		{"update_missing", UpdateEntityAction{Key: "x", Entity: e}, []EntityKey{"a", "b", "c"}},
		{"rename", RenameEntityAction{OldKey: "a", NewKey: "x"}, []EntityKey{"x", "b", "c"}},
		{"rename_conflict", RenameEntityAction{OldKey: "a", NewKey: "b"}, []EntityKey{"a", "b", "c"}},
		{"delete", DeleteEntityAction{Key: "c"}, []EntityKey{"a", "b"}},
		{"replace", ReplaceSystemAction{System: NewSystem()}, []EntityKey{}},
		{"unknown", struct{}{}, []EntityKey{"a", "b", "c"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			next := ReduceSystem(s, c.action)
			assert.Equal(t, c.keys, next.Keys())
			assert.Equal(t, []EntityKey{"a", "b", "c"}, s.Keys())
		})
	}
}
