package session

import (
	"errors"
	"fmt"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/forms"
	"github.com/milk9111/duckling/state"
)

var (
	ErrUnknownAttribute = errors.New("session: unknown attribute")
	ErrNoField          = errors.New("session: no such field")
)

// Form returns the editing form of attribute key.
func (s *Session) Form(key ecs.AttributeKey) (forms.Form, bool) {
	return s.Hooks.Forms.GetImplementation(key)
}

// SetField parses input into field i of attribute attr on entity key.
func (s *Session) SetField(key ecs.EntityKey, attr ecs.AttributeKey, i int, input string, mergeKey state.MergeKey) error {
	e, ok := s.Entities.GetEntity(key)
	if !ok {
		return fmt.Errorf("%w: %q", ecs.ErrEntityNotFound, key)
	}
	cur, ok := e.Get(attr)
	if !ok {
		return fmt.Errorf("%w: %q on %q", ErrUnknownAttribute, attr, key)
	}
	form, _ := s.Form(attr)
	if i < 0 || i >= len(form) {
		return fmt.Errorf("%w: %s[%d]", ErrNoField, attr, i)
	}
	next, err := form[i].SetText(cur, input)
	if err != nil {
		return err
	}
	return s.Entities.UpdateEntity(key, e.With(attr, next), mergeKey)
}

// AddAttribute gives entity key a default attr.
func (s *Session) AddAttribute(key ecs.EntityKey, attr ecs.AttributeKey, mergeKey state.MergeKey) error {
	e, ok := s.Entities.GetEntity(key)
	if !ok {
		return fmt.Errorf("%w: %q", ecs.ErrEntityNotFound, key)
	}
	if _, ok := s.Defaults.CreateAttribute(attr); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, attr)
	}
	if e.Has(attr) {
		return nil
	}
	return s.Entities.UpdateEntity(key, s.Defaults.AddAttribute(e, attr), mergeKey)
}

// RemoveAttribute drops attr from entity key.
func (s *Session) RemoveAttribute(key ecs.EntityKey, attr ecs.AttributeKey, mergeKey state.MergeKey) error {
	e, ok := s.Entities.GetEntity(key)
	if !ok {
		return fmt.Errorf("%w: %q", ecs.ErrEntityNotFound, key)
	}
	if !e.Has(attr) {
		return nil
	}
	return s.Entities.UpdateEntity(key, e.Without(attr), mergeKey)
}

// DeleteSelected removes the selected entity. It reports whether anything
// was selected.
func (s *Session) DeleteSelected(mergeKey state.MergeKey) bool {
	sel, ok := s.Selection.Selection()
	if !ok {
		return false
	}
	s.Entities.DeleteEntity(sel.Key, mergeKey)
	return true
}
