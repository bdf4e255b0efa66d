// Package prefabs keeps the entity templates of a project. Each template is
// a YAML file in the project's prefab directory.
package prefabs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/duckling/assets"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/levels"
	"github.com/milk9111/duckling/registry"
)

var ErrUnknownPrefab = errors.New("prefabs: unknown prefab")

// Prefab is a named set of attributes in their serialised form.
type Prefab struct {
	Name       string         `yaml:"name"`
	Attributes map[string]any `yaml:"attributes"`
}

// LoadSpec reads and decodes one YAML file.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := os.ReadFile(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Library holds the prefabs of one directory.
type Library struct {
	dir     string
	codecs  *registry.Registry[levels.Codec]
	log     *zap.Logger
	prefabs map[string]Prefab
	changed <-chan string
}

func NewLibrary(codecs *registry.Registry[levels.Codec], log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{codecs: codecs, log: log.Named("prefabs"), prefabs: map[string]Prefab{}}
}

// Load replaces the library with the prefabs found in dir. Files that fail
// to parse are logged and skipped. A missing directory is an empty library.
func (l *Library) Load(dir string) error {
	l.dir = dir
	l.prefabs = map[string]Prefab{}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("prefabs: list %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !isSpecFile(e.Name()) {
			continue
		}
		l.loadFile(filepath.Join(dir, e.Name()))
	}
	return nil
}

func (l *Library) loadFile(path string) {
	p, err := LoadSpec[Prefab](path)
	if err != nil {
		l.log.Warn("skipping prefab", zap.String("file", path), zap.Error(err))
		return
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	l.prefabs[p.Name] = p
}

// Names lists the prefab names, sorted.
func (l *Library) Names() []string {
	out := make([]string, 0, len(l.prefabs))
	for name := range l.prefabs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Entity instantiates the prefab called name.
func (l *Library) Entity(name string) (ecs.Entity, error) {
	p, ok := l.prefabs[name]
	if !ok {
		return ecs.Entity{}, fmt.Errorf("%w %q", ErrUnknownPrefab, name)
	}
	raw := make(map[string]json.RawMessage, len(p.Attributes))
	for key, v := range p.Attributes {
		b, err := json.Marshal(v)
		if err != nil {
			return ecs.Entity{}, fmt.Errorf("prefabs: %s attribute %q: %w", name, key, err)
		}
		raw[key] = b
	}
	e, err := levels.DecodeEntity(l.codecs, raw)
	if err != nil {
		return ecs.Entity{}, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return e, nil
}

// Save writes e as a prefab called name and adds it to the library.
func (l *Library) Save(name string, e ecs.Entity) error {
	if l.dir == "" {
		return fmt.Errorf("prefabs: save %s: no prefab directory", name)
	}
	encoded, err := levels.EncodeEntity(l.codecs, e)
	if err != nil {
		return fmt.Errorf("prefabs: save %s: %w", name, err)
	}
	p := Prefab{Name: name, Attributes: make(map[string]any, len(encoded))}
	for key, raw := range encoded {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("prefabs: save %s attribute %q: %w", name, key, err)
		}
		p.Attributes[key] = v
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("prefabs: marshal %s: %w", name, err)
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("prefabs: save %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(l.dir, name+".yaml"), data, 0o644); err != nil {
		return fmt.Errorf("prefabs: save %s: %w", name, err)
	}
	l.prefabs[name] = p
	return nil
}

// Watch reloads prefab files as they change. Changes are applied by Poll.
func (l *Library) Watch() (*assets.Watcher, error) {
	w, err := assets.NewWatcher(l.dir, isSpecFile)
	if err != nil {
		return nil, err
	}
	changed := make(chan string, 16)
	go func() {
		defer close(changed)
		for path := range w.Events {
			changed <- path
		}
	}()
	go func() {
		for err := range w.Errors {
			l.log.Warn("watch", zap.Error(err))
		}
	}()
	l.changed = changed
	return w, nil
}

// Poll applies changes reported by Watch and returns how many files were
// reloaded.
func (l *Library) Poll() int {
	n := 0
	for l.changed != nil {
		select {
		case path, ok := <-l.changed:
			if !ok {
				l.changed = nil
				return n
			}
			if _, err := os.Stat(path); err != nil {
				continue
			}
			l.loadFile(path)
			n++
		default:
			return n
		}
	}
	return n
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
