package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLookup(t *testing.T) {
	cases := []struct {
		name string
		key  string
		impl int
	}{
		{"position", "position", 1},
		{"collision", "collision", 2},
		{"empty_key", "", 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := New[int]()
			r.Register(c.key, c.impl)
			got, ok := r.GetImplementation(c.key)
			require.True(t, ok)
			assert.Equal(t, c.impl, got)
		})
	}
}

func TestLookupMissIsNotAnError(t *testing.T) {
	r := New[func() string]()
	impl, ok := r.GetImplementation("camera")
	assert.False(t, ok)
	assert.Nil(t, impl)
	assert.False(t, r.Has("camera"))
}

func TestLastRegistrationWins(t *testing.T) {
	r := New[string]()
	r.Register("drawable", "first")
	handedOut, _ := r.GetImplementation("drawable")

	r.Register("drawable", "second")
	got, ok := r.GetImplementation("drawable")
	require.True(t, ok)
	assert.Equal(t, "second", got)
	assert.Equal(t, "first", handedOut, "earlier lookups keep their value")
	assert.Equal(t, 1, r.Len())
}

func TestKeysSorted(t *testing.T) {
	r := New[bool]()
	for _, k := range []string{"rotate", "action", "position"} {
		r.Register(k, true)
	}
	assert.Equal(t, []string{"action", "position", "rotate"}, r.Keys())
}

func TestNilRegistry(t *testing.T) {
	var r *Registry[int]
	r.Register("x", 1)
	_, ok := r.GetImplementation("x")
	assert.False(t, ok)
	assert.Empty(t, r.Keys())
}

func TestZeroValueRegistry(t *testing.T) {
	var r Registry[int]
	r.Register("x", 7)
	got, ok := r.GetImplementation("x")
	require.True(t, ok)
	assert.Equal(t, 7, got)
}
