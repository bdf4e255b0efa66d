package entitysystem

import (
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/registry"
)

// AttributeDefault describes how a new attribute of a type is created.
type AttributeDefault struct {
	// CreateByDefault adds the attribute to newly created entities.
	CreateByDefault bool
	New             func() ecs.Attribute
}

// AttributeDefaultService builds attributes and entities from registered defaults.
type AttributeDefaultService struct {
	defaults *registry.Registry[AttributeDefault]
}

func NewAttributeDefaultService(defaults *registry.Registry[AttributeDefault]) *AttributeDefaultService {
	return &AttributeDefaultService{defaults: defaults}
}

// CreateAttribute returns a fresh attribute of type key.
func (s *AttributeDefaultService) CreateAttribute(key ecs.AttributeKey) (ecs.Attribute, bool) {
	d, ok := s.defaults.GetImplementation(key)
	if !ok || d.New == nil {
		return nil, false
	}
	return d.New(), true
}

// CreateEntity returns an entity holding every attribute marked
// CreateByDefault.
func (s *AttributeDefaultService) CreateEntity() ecs.Entity {
	attrs := map[ecs.AttributeKey]ecs.Attribute{}
	for _, key := range s.defaults.Keys() {
		d, _ := s.defaults.GetImplementation(key)
		if d.CreateByDefault && d.New != nil {
			attrs[key] = d.New()
		}
	}
	return ecs.NewEntity(attrs)
}

// AvailableAttributes lists the attribute types that could still be added to
// e.
func (s *AttributeDefaultService) AvailableAttributes(e ecs.Entity) []ecs.AttributeKey {
	var out []ecs.AttributeKey
	for _, key := range s.defaults.Keys() {
		if !e.Has(key) {
			out = append(out, key)
		}
	}
	return out
}

// AddAttribute returns e with a default attribute of type key added. e is
// returned unchanged when key is unknown or already present.
func (s *AttributeDefaultService) AddAttribute(e ecs.Entity, key ecs.AttributeKey) ecs.Entity {
	if e.Has(key) {
		return e
	}
	attr, ok := s.CreateAttribute(key)
	if !ok {
		return e
	}
	return e.With(key, attr)
}
