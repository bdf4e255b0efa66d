package ecs

import (
	"reflect"
	"sort"
)

// AttributeKey names an attribute type ("position", "collision", ...).
// It is a plain string so registries can be keyed without conversion.
type AttributeKey = string

// Attribute is the immutable payload of one attribute type. Concrete
// attribute packages store value structs here and never mutate them after
// publication.
type Attribute any

type attributes struct {
	values map[AttributeKey]Attribute
}

// Entity is an immutable bundle of attributes. The zero value is an entity
// without attributes.
type Entity struct {
	attrs *attributes
}

// NewEntity copies attrs into a new entity.
func NewEntity(attrs map[AttributeKey]Attribute) Entity {
	if len(attrs) == 0 {
		return Entity{}
	}
	values := make(map[AttributeKey]Attribute, len(attrs))
	for k, v := range attrs {
		values[k] = v
	}
	return Entity{attrs: &attributes{values: values}}
}

// Get returns the attribute stored under key.
func (e Entity) Get(key AttributeKey) (Attribute, bool) {
	if e.attrs == nil {
		return nil, false
	}
	v, ok := e.attrs.values[key]
	return v, ok
}

// Has reports whether the entity carries key.
func (e Entity) Has(key AttributeKey) bool {
	_, ok := e.Get(key)
	return ok
}

// Len returns the number of attributes.
func (e Entity) Len() int {
	if e.attrs == nil {
		return 0
	}
	return len(e.attrs.values)
}

// Keys returns the attribute keys in sorted order.
func (e Entity) Keys() []AttributeKey {
	if e.attrs == nil {
		return nil
	}
	keys := make([]AttributeKey, 0, len(e.attrs.values))
	for k := range e.attrs.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Attributes returns a copy of the attribute map.
func (e Entity) Attributes() map[AttributeKey]Attribute {
	out := make(map[AttributeKey]Attribute, e.Len())
	if e.attrs == nil {
		return out
	}
	for k, v := range e.attrs.values {
		out[k] = v
	}
	return out
}

// With returns a new entity where key holds attr.
func (e Entity) With(key AttributeKey, attr Attribute) Entity {
	values := e.Attributes()
	values[key] = attr
	return Entity{attrs: &attributes{values: values}}
}

// Without returns a new entity without key. The receiver is returned as is
// when key is absent.
func (e Entity) Without(key AttributeKey) Entity {
	if !e.Has(key) {
		return e
	}
	values := e.Attributes()
	delete(values, key)
	if len(values) == 0 {
		return Entity{}
	}
	return Entity{attrs: &attributes{values: values}}
}

// Same reports whether both values share the same underlying attributes.
func (e Entity) Same(other Entity) bool {
	return e.attrs == other.attrs
}

// Equal reports whether both entities hold equal attributes.
func (e Entity) Equal(other Entity) bool {
	if e.Same(other) {
		return true
	}
	if e.Len() != other.Len() {
		return false
	}
	for k, v := range e.Attributes() {
		ov, ok := other.Get(k)
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// Attr returns the attribute under key converted to T.
func Attr[T any](e Entity, key AttributeKey) (T, bool) {
	var zero T
	v, ok := e.Get(key)
	if !ok {
		return zero, false
	}
	cast, ok := v.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}
