package levels

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/registry"
	"github.com/milk9111/duckling/state"
)

const mapExt = ".json"

var ErrNoMapName = errors.New("levels: map has no name")

// Service opens projects and moves maps between disk and the session store.
type Service struct {
	codecs *registry.Registry[Codec]
	store  *editor.Store
	log    *zap.Logger

	dir       string
	project   Project
	savedHash uint64

	// dirty caches Dirty until the store publishes again.
	dirty  bool
	stale  bool
	hashes int
}

func NewService(codecs *registry.Registry[Codec], store *editor.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{codecs: codecs, store: store, log: log.Named("levels")}
	store.Subscribe(func(editor.State) { s.stale = true })
	s.markSaved()
	return s
}

// Open makes dir the current project.
func (s *Service) Open(dir string) error {
	p, err := LoadProject(dir)
	if err != nil {
		return err
	}
	s.dir, s.project = dir, p
	s.log.Info("project opened", zap.String("dir", dir), zap.String("name", p.Name))
	return nil
}

func (s *Service) Project() Project { return s.project }

// IsOpen reports whether a project is open.
func (s *Service) IsOpen() bool { return s.dir != "" }

func (s *Service) ResourceDir() string { return filepath.Join(s.dir, s.project.Resources) }

func (s *Service) PrefabDir() string { return filepath.Join(s.dir, s.project.Prefabs) }

func (s *Service) mapPath(name string) string {
	return filepath.Join(s.dir, s.project.Maps, name+mapExt)
}

// Maps lists the map names of the open project, sorted.
func (s *Service) Maps() ([]string, error) {
	if !s.IsOpen() {
		return nil, ErrNoProject
	}
	entries, err := os.ReadDir(filepath.Join(s.dir, s.project.Maps))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("levels: list maps: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != mapExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), mapExt))
	}
	sort.Strings(names)
	return names, nil
}

// NewMap starts an empty map called name. History is cleared.
func (s *Service) NewMap(name string) {
	st := editor.NewState()
	st.Map.Name = name
	s.store.Replace(st)
	s.markSaved()
}

// LoadMap replaces the session state with the map called name. History is
// cleared.
func (s *Service) LoadMap(name string) error {
	if !s.IsOpen() {
		return ErrNoProject
	}
	path := s.mapPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("levels: load %s: %w", path, err)
	}
	settings, sys, err := Decode(s.codecs, data)
	if err != nil {
		return fmt.Errorf("levels: %s: %w", path, err)
	}
	if settings.Name == "" {
		settings.Name = name
	}
	s.store.Replace(editor.State{Entities: sys, Map: settings})
	s.markSaved()
	s.log.Info("map loaded", zap.String("map", name), zap.Int("entities", sys.Len()))
	return nil
}

// SaveMap writes the current map to the open project.
func (s *Service) SaveMap() error {
	if !s.IsOpen() {
		return ErrNoProject
	}
	st := s.store.State()
	if st.Map.Name == "" {
		return ErrNoMapName
	}
	data, err := Encode(s.codecs, st)
	if err != nil {
		return err
	}
	path := s.mapPath(st.Map.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("levels: save %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("levels: save %s: %w", path, err)
	}
	s.savedHash = xxhash.Sum64(data)
	s.dirty, s.stale = false, false
	s.log.Info("map saved", zap.String("map", st.Map.Name))
	return nil
}

// SaveMapAs names the current map and saves it. Renaming is undoable like
// any other edit.
func (s *Service) SaveMapAs(name string) error {
	if name == "" {
		return ErrNoMapName
	}
	if s.store.State().Map.Name != name {
		s.store.Dispatch(editor.SetMapNameAction{Name: name}, state.NoMerge)
	}
	return s.SaveMap()
}

// Dirty reports whether the current map differs from what was last loaded
// or saved. The map is only re-encoded after the store has changed.
func (s *Service) Dirty() bool {
	if !s.stale {
		return s.dirty
	}
	h, err := s.hash(s.store.State())
	s.dirty = err != nil || h != s.savedHash
	s.stale = false
	return s.dirty
}

func (s *Service) markSaved() {
	h, err := s.hash(s.store.State())
	if err != nil {
		s.log.Warn("hash map", zap.Error(err))
		s.stale = true
		return
	}
	s.savedHash = h
	s.dirty, s.stale = false, false
}

func (s *Service) hash(st editor.State) (uint64, error) {
	data, err := Encode(s.codecs, st)
	if err != nil {
		return 0, err
	}
	s.hashes++
	return xxhash.Sum64(data), nil
}
