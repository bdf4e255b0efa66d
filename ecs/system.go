package ecs

import (
	"slices"
	"strconv"
)

// EntityKey identifies an entity inside a System.
type EntityKey string

// System is an immutable, insertion-ordered collection of entities.
//
// Every mutator returns a new System; the receiver is never changed, so a
// System can be shared freely between history, subscribers and readers.
type System struct {
	keys     []EntityKey
	index    map[EntityKey]int
	entities map[EntityKey]Entity
}

// NewSystem returns an empty system.
func NewSystem() System {
	return System{}
}

// Len returns the number of entities.
func (s System) Len() int {
	return len(s.keys)
}

// Get returns the entity stored under key.
func (s System) Get(key EntityKey) (Entity, bool) {
	e, ok := s.entities[key]
	return e, ok
}

// Has reports whether key exists.
func (s System) Has(key EntityKey) bool {
	_, ok := s.entities[key]
	return ok
}

// Index returns the insertion position of key, or -1.
func (s System) Index(key EntityKey) int {
	i, ok := s.index[key]
	if !ok {
		return -1
	}
	return i
}

// Keys returns the entity keys in insertion order.
func (s System) Keys() []EntityKey {
	out := make([]EntityKey, len(s.keys))
	copy(out, s.keys)
	return out
}

// Entities returns the entities in insertion order.
func (s System) Entities() []Entity {
	out := make([]Entity, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.entities[k])
	}
	return out
}

// Each calls fn for every entity in insertion order until fn returns false.
func (s System) Each(fn func(key EntityKey, e Entity) bool) {
	for _, k := range s.keys {
		if !fn(k, s.entities[k]) {
			return
		}
	}
}

// KeyOf finds the key of entity. Identical values are matched first, then
// equal ones; ties resolve to the earliest inserted entity.
func (s System) KeyOf(entity Entity) (EntityKey, bool) {
	for _, k := range s.keys {
		if s.entities[k].Same(entity) {
			return k, true
		}
	}
	for _, k := range s.keys {
		if s.entities[k].Equal(entity) {
			return k, true
		}
	}
	return "", false
}

// Add appends entity under key.
func (s System) Add(key EntityKey, entity Entity) (System, error) {
	if key == "" {
		return s, ErrEmptyKey
	}
	if s.Has(key) {
		return s, ErrKeyConflict
	}
	keys := append(slices.Clip(s.keys), key)
	index := cloneMap(s.index, 1)
	index[key] = len(keys) - 1
	entities := cloneMap(s.entities, 1)
	entities[key] = entity
	return System{keys: keys, index: index, entities: entities}, nil
}

// Update replaces the entity stored under key. Order is shared with the
// receiver.
func (s System) Update(key EntityKey, entity Entity) (System, error) {
	if !s.Has(key) {
		return s, ErrEntityNotFound
	}
	entities := cloneMap(s.entities, 0)
	entities[key] = entity
	return System{keys: s.keys, index: s.index, entities: entities}, nil
}

// Rename moves the entity from oldKey to newKey, keeping its position.
func (s System) Rename(oldKey, newKey EntityKey) (System, error) {
	if newKey == "" {
		return s, ErrEmptyKey
	}
	if !s.Has(oldKey) {
		return s, ErrEntityNotFound
	}
	if oldKey == newKey {
		return s, nil
	}
	if s.Has(newKey) {
		return s, ErrKeyConflict
	}
	pos := s.index[oldKey]
	keys := slices.Clone(s.keys)
	keys[pos] = newKey

	index := cloneMap(s.index, 0)
	delete(index, oldKey)
	index[newKey] = pos

	entities := cloneMap(s.entities, 0)
	entities[newKey] = entities[oldKey]
	delete(entities, oldKey)
	return System{keys: keys, index: index, entities: entities}, nil
}

// Delete removes key. The receiver is returned unchanged when key is absent.
func (s System) Delete(key EntityKey) System {
	pos, ok := s.index[key]
	if !ok {
		return s
	}
	keys := make([]EntityKey, 0, len(s.keys)-1)
	keys = append(keys, s.keys[:pos]...)
	keys = append(keys, s.keys[pos+1:]...)

	index := make(map[EntityKey]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}
	entities := cloneMap(s.entities, 0)
	delete(entities, key)
	return System{keys: keys, index: index, entities: entities}
}

// NewKey returns the first unused key of the form prefix+n, n >= 1.
func (s System) NewKey(prefix string) EntityKey {
	if prefix == "" {
		prefix = "entity"
	}
	for n := 1; ; n++ {
		k := EntityKey(prefix + strconv.Itoa(n))
		if !s.Has(k) {
			return k
		}
	}
}

// Equal reports whether both systems hold equal entities in the same order.
func (s System) Equal(other System) bool {
	if !slices.Equal(s.keys, other.keys) {
		return false
	}
	for _, k := range s.keys {
		if !s.entities[k].Equal(other.entities[k]) {
			return false
		}
	}
	return true
}

// Same reports whether other is s or shares all of its storage, as mutators
// return when they leave a system untouched.
func (s System) Same(other System) bool {
	if len(s.keys) != len(other.keys) {
		return false
	}
	if len(s.keys) == 0 {
		return true
	}
	if &s.keys[0] != &other.keys[0] {
		return false
	}
	for _, k := range s.keys {
		if !s.entities[k].Same(other.entities[k]) {
			return false
		}
	}
	return true
}

func cloneMap[K comparable, V any](m map[K]V, extra int) map[K]V {
	out := make(map[K]V, len(m)+extra)
	for k, v := range m {
		out[k] = v
	}
	return out
}
