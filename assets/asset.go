// Package assets loads the textures and fonts referenced by entities of the
// open project. Loads run in the background; their results are applied on
// the caller's goroutine by Poll so that subscribers always run on the UI
// goroutine.
package assets

import (
	"errors"
	"path"
	"path/filepath"
	"strings"

	"github.com/milk9111/duckling/ecs"
)

type Type string

const (
	TypeTexture Type = "texture"
	TypeFont    Type = "font"
)

var (
	ErrUnknownType = errors.New("assets: unknown asset type")
	ErrEmptyKey    = errors.New("assets: empty asset key")
)

// Asset identifies a resource by type and key. The key is the slash
// separated path below the resource directory without extension, e.g.
// "tiles/grass".
type Asset struct {
	Type Type   `json:"type" yaml:"type"`
	Key  string `json:"key" yaml:"key"`
}

// RequiredAssetsFunc lists the assets an attribute needs before the entity
// can be drawn.
type RequiredAssetsFunc func(e ecs.Entity) []Asset

func Texture(key string) Asset { return Asset{Type: TypeTexture, Key: CleanKey(key)} }

func Font(key string) Asset { return Asset{Type: TypeFont, Key: CleanKey(key)} }

// Extension returns the file extension used for assets of type t.
func (t Type) Extension() string {
	switch t {
	case TypeTexture:
		return ".png"
	case TypeFont:
		return ".ttf"
	}
	return ""
}

// CleanKey normalises user input into an asset key: slashes, no leading
// "resources/" and no known extension.
func CleanKey(key string) string {
	if key == "" {
		return ""
	}
	s := path.Clean(filepath.ToSlash(key))
	s = strings.TrimPrefix(s, "./")
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimPrefix(s, "resources/")
	switch strings.ToLower(path.Ext(s)) {
	case ".png", ".ttf":
		s = strings.TrimSuffix(s, path.Ext(s))
	}
	return s
}

// typeForExt maps a file extension back to the asset type it stores.
func typeForExt(ext string) (Type, bool) {
	switch strings.ToLower(ext) {
	case ".png":
		return TypeTexture, true
	case ".ttf":
		return TypeFont, true
	}
	return "", false
}
