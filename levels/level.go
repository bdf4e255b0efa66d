// Package levels reads and writes projects and the maps inside them.
package levels

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/registry"
)

// FormatVersion is written into every map file.
const FormatVersion = 1

var (
	ErrAttributeType = errors.New("levels: attribute has unexpected type")
	ErrVersion       = errors.New("levels: unsupported map version")
	ErrDuplicateKey  = errors.New("levels: duplicate entity key")
)

type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Level is the on-disk form of a map.
type Level struct {
	Version   int      `json:"version"`
	Name      string   `json:"name"`
	Dimension Vec      `json:"dimension"`
	GridSize  float64  `json:"gridSize"`
	Entities  []Entity `json:"entities"`
}

// Entity keeps its key next to the attributes so the file preserves
// insertion order.
type Entity struct {
	Key        string                     `json:"key"`
	Attributes map[string]json.RawMessage `json:"attributes"`
}

// Encode writes the map part of st.
func Encode(codecs *registry.Registry[Codec], st editor.State) ([]byte, error) {
	lvl := Level{
		Version:   FormatVersion,
		Name:      st.Map.Name,
		Dimension: Vec{X: st.Map.Dimension.X, Y: st.Map.Dimension.Y},
		GridSize:  st.Map.GridSize,
		Entities:  make([]Entity, 0, st.Entities.Len()),
	}
	var err error
	st.Entities.Each(func(key ecs.EntityKey, e ecs.Entity) bool {
		var attrs map[string]json.RawMessage
		attrs, err = EncodeEntity(codecs, e)
		if err != nil {
			err = fmt.Errorf("levels: entity %q: %w", key, err)
			return false
		}
		lvl.Entities = append(lvl.Entities, Entity{Key: string(key), Attributes: attrs})
		return true
	})
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(lvl, "", "  ")
}

// Decode parses a map file.
func Decode(codecs *registry.Registry[Codec], data []byte) (editor.MapSettings, ecs.System, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return editor.MapSettings{}, ecs.System{}, fmt.Errorf("levels: unmarshal map: %w", err)
	}
	if lvl.Version > FormatVersion {
		return editor.MapSettings{}, ecs.System{}, fmt.Errorf("%w %d", ErrVersion, lvl.Version)
	}

	settings := editor.MapSettings{
		Name:      lvl.Name,
		Dimension: geom.Vec(lvl.Dimension.X, lvl.Dimension.Y),
		GridSize:  lvl.GridSize,
	}
	if settings.GridSize <= 0 {
		settings.GridSize = editor.DefaultGridSize
	}
	if settings.Dimension.X <= 0 || settings.Dimension.Y <= 0 {
		settings.Dimension = geom.Vec(editor.DefaultWidth, editor.DefaultHeight)
	}

	sys := ecs.NewSystem()
	for _, rec := range lvl.Entities {
		e, err := DecodeEntity(codecs, rec.Attributes)
		if err != nil {
			return editor.MapSettings{}, ecs.System{}, fmt.Errorf("levels: entity %q: %w", rec.Key, err)
		}
		sys, err = sys.Add(ecs.EntityKey(rec.Key), e)
		if errors.Is(err, ecs.ErrKeyConflict) {
			return editor.MapSettings{}, ecs.System{}, fmt.Errorf("%w %q", ErrDuplicateKey, rec.Key)
		}
		if err != nil {
			return editor.MapSettings{}, ecs.System{}, fmt.Errorf("levels: entity %q: %w", rec.Key, err)
		}
	}
	return settings, sys, nil
}
