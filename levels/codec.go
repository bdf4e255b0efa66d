package levels

import (
	"encoding/json"
	"fmt"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/registry"
)

// Codec converts one attribute type to and from its JSON form.
type Codec struct {
	Encode func(attr ecs.Attribute) (json.RawMessage, error)
	Decode func(raw json.RawMessage) (ecs.Attribute, error)
}

// RawAttribute holds an attribute no codec is registered for. It is written
// back unchanged so that unknown data survives a load and save.
type RawAttribute json.RawMessage

// JSONCodec stores attributes of type T with encoding/json.
func JSONCodec[T any]() Codec {
	return Codec{
		Encode: func(attr ecs.Attribute) (json.RawMessage, error) {
			v, ok := attr.(T)
			if !ok {
				var zero T
				return nil, fmt.Errorf("%w: got %T, want %T", ErrAttributeType, attr, zero)
			}
			return json.Marshal(v)
		},
		Decode: func(raw json.RawMessage) (ecs.Attribute, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// EncodeEntity encodes every attribute of e.
func EncodeEntity(codecs *registry.Registry[Codec], e ecs.Entity) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, e.Len())
	for _, key := range e.Keys() {
		attr, _ := e.Get(key)
		raw, err := encodeAttribute(codecs, key, attr)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", key, err)
		}
		out[key] = raw
	}
	return out, nil
}

func encodeAttribute(codecs *registry.Registry[Codec], key ecs.AttributeKey, attr ecs.Attribute) (json.RawMessage, error) {
	if raw, ok := attr.(RawAttribute); ok {
		return json.RawMessage(raw), nil
	}
	if c, ok := codecs.GetImplementation(key); ok && c.Encode != nil {
		return c.Encode(attr)
	}
	return json.Marshal(attr)
}

// DecodeEntity builds an entity from encoded attributes. Attributes without
// a codec are kept as RawAttribute.
func DecodeEntity(codecs *registry.Registry[Codec], attrs map[string]json.RawMessage) (ecs.Entity, error) {
	out := make(map[ecs.AttributeKey]ecs.Attribute, len(attrs))
	for key, raw := range attrs {
		c, ok := codecs.GetImplementation(key)
		if !ok || c.Decode == nil {
			out[key] = RawAttribute(append(json.RawMessage(nil), raw...))
			continue
		}
		attr, err := c.Decode(raw)
		if err != nil {
			return ecs.Entity{}, fmt.Errorf("attribute %q: %w", key, err)
		}
		out[key] = attr
	}
	return ecs.NewEntity(out), nil
}
