package selection

import (
	"fmt"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/state"
)

// Selected is the selected entity together with its key.
type Selected struct {
	Key    ecs.EntityKey
	Entity ecs.Entity
}

// Service reads and changes the selection. The selection is part of the
// session state, so selecting is undone together with the gesture it
// belongs to.
type Service struct {
	store *editor.Store
}

func NewService(store *editor.Store) *Service {
	return &Service{store: store}
}

// Selection returns the selected entity.
func (s *Service) Selection() (Selected, bool) {
	return selected(s.store.State())
}

func selected(st editor.State) (Selected, bool) {
	if st.Selection.Empty() {
		return Selected{}, false
	}
	e, ok := st.Entities.Get(st.Selection.Entity)
	if !ok {
		return Selected{}, false
	}
	return Selected{Key: st.Selection.Entity, Entity: e}, true
}

// Select makes key the selection. Selecting the current selection again
// dispatches nothing.
func (s *Service) Select(key ecs.EntityKey, mergeKey state.MergeKey) error {
	st := s.store.State()
	if !st.Entities.Has(key) {
		return fmt.Errorf("select %q: %w", key, ecs.ErrEntityNotFound)
	}
	if st.Selection.Entity == key {
		return nil
	}
	s.store.Dispatch(editor.SelectAction{Entity: key}, mergeKey)
	return nil
}

// Deselect clears the selection.
func (s *Service) Deselect(mergeKey state.MergeKey) {
	if s.store.State().Selection.Empty() {
		return
	}
	s.store.Dispatch(editor.SelectAction{}, mergeKey)
}

// Subscribe calls fn after every committed change with the selection at
// that point.
func (s *Service) Subscribe(fn func(sel Selected, ok bool)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	return s.store.Subscribe(func(st editor.State) { fn(selected(st)) })
}
