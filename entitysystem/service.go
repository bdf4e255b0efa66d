// Package entitysystem exposes the entity collection of an edit session as
// dispatched actions plus a snapshot stream, and the attribute driven
// services built on top of it.
package entitysystem

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/state"
)

// Service is the typed façade over the entity slice of the session store.
// Every mutation is a dispatch; reads come from the current snapshot.
type Service struct {
	store *editor.Store
	log   *zap.Logger
}

// NewService binds a service to store.
func NewService(store *editor.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log.Named("entitysystem")}
}

// EntitySystem returns the current snapshot.
func (s *Service) EntitySystem() ecs.System {
	return s.store.State().Entities
}

// GetEntity returns the entity stored under key.
func (s *Service) GetEntity(key ecs.EntityKey) (ecs.Entity, bool) {
	return s.EntitySystem().Get(key)
}

// GetKey returns the key of entity, preferring the identical value and then
// the earliest equal one.
func (s *Service) GetKey(entity ecs.Entity) (ecs.EntityKey, bool) {
	return s.EntitySystem().KeyOf(entity)
}

// NewKey returns an unused key starting with prefix.
func (s *Service) NewKey(prefix string) ecs.EntityKey {
	return s.EntitySystem().NewKey(prefix)
}

// AddEntity inserts entity under key.
func (s *Service) AddEntity(key ecs.EntityKey, entity ecs.Entity, mergeKey state.MergeKey) error {
	if key == "" {
		return ecs.ErrEmptyKey
	}
	if s.EntitySystem().Has(key) {
		return fmt.Errorf("add %q: %w", key, ecs.ErrKeyConflict)
	}
	s.store.Dispatch(ecs.AddEntityAction{Key: key, Entity: entity}, mergeKey)
	return nil
}

// UpdateEntity replaces the entity at key. Nothing is dispatched when key
// does not exist.
func (s *Service) UpdateEntity(key ecs.EntityKey, entity ecs.Entity, mergeKey state.MergeKey) error {
	if !s.EntitySystem().Has(key) {
		return fmt.Errorf("update %q: %w", key, ecs.ErrEntityNotFound)
	}
	s.store.Dispatch(ecs.UpdateEntityAction{Key: key, Entity: entity}, mergeKey)
	return nil
}

// RenameEntity moves the entity at oldKey to newKey in one transition. It is
// rejected without any state change when newKey is taken or oldKey is
// missing.
func (s *Service) RenameEntity(oldKey, newKey ecs.EntityKey, mergeKey state.MergeKey) error {
	sys := s.EntitySystem()
	switch {
	case newKey == "":
		return ecs.ErrEmptyKey
	case !sys.Has(oldKey):
		return fmt.Errorf("rename %q: %w", oldKey, ecs.ErrEntityNotFound)
	case oldKey == newKey:
		return nil
	case sys.Has(newKey):
		s.log.Debug("rename rejected", zap.String("from", string(oldKey)), zap.String("to", string(newKey)))
		return fmt.Errorf("rename %q to %q: %w", oldKey, newKey, ecs.ErrKeyConflict)
	}
	s.store.Dispatch(ecs.RenameEntityAction{OldKey: oldKey, NewKey: newKey}, mergeKey)
	return nil
}

// DeleteEntity removes key. Missing keys are ignored.
func (s *Service) DeleteEntity(key ecs.EntityKey, mergeKey state.MergeKey) {
	if !s.EntitySystem().Has(key) {
		return
	}
	s.store.Dispatch(ecs.DeleteEntityAction{Key: key}, mergeKey)
}

// Subscribe delivers the entity system after every committed change of the
// session state, synchronously and in order. Past snapshots are not replayed.
func (s *Service) Subscribe(fn func(ecs.System)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	return s.store.Subscribe(func(st editor.State) { fn(st.Entities) })
}
