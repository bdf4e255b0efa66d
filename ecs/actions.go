package ecs

// Entity system actions. Each one names the transition it causes; the
// reducer below is the only place that applies them.

type AddEntityAction struct {
	Key    EntityKey
	Entity Entity
}

type UpdateEntityAction struct {
	Key    EntityKey
	Entity Entity
}

type RenameEntityAction struct {
	OldKey EntityKey
	NewKey EntityKey
}

type DeleteEntityAction struct {
	Key EntityKey
}

// ReplaceSystemAction swaps the whole collection, e.g. after loading a map.
type ReplaceSystemAction struct {
	System System
}

func (AddEntityAction) ActionType() string     { return "entity/add" }
func (UpdateEntityAction) ActionType() string  { return "entity/update" }
func (RenameEntityAction) ActionType() string  { return "entity/rename" }
func (DeleteEntityAction) ActionType() string  { return "entity/delete" }
func (ReplaceSystemAction) ActionType() string { return "entity/replace" }

// ReduceSystem applies an entity action to s. Actions that would break key
// uniqueness or reference a missing key leave s unchanged, as do actions this
// reducer does not know.
func ReduceSystem(s System, action any) System {
	switch a := action.(type) {
	case AddEntityAction:
		if next, err := s.Add(a.Key, a.Entity); err == nil {
			return next
		}
	case UpdateEntityAction:
		if next, err := s.Update(a.Key, a.Entity); err == nil {
			return next
		}
	case RenameEntityAction:
		if next, err := s.Rename(a.OldKey, a.NewKey); err == nil {
			return next
		}
	case DeleteEntityAction:
		return s.Delete(a.Key)
	case ReplaceSystemAction:
		return a.System
	}
	return s
}
