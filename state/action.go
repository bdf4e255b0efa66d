// Package state holds the single undo-aware state cell of an edit session.
package state

import "github.com/google/uuid"

// Action describes one state transition. ActionType is used for logging.
type Action interface {
	ActionType() string
}

// Reducer computes the next state. It must be pure and must not call
// Dispatch.
type Reducer[S any] func(state S, action Action) S

// MergeKey groups every dispatch of one user gesture into a single undo step.
// The zero value, NoMerge, never coalesces.
type MergeKey struct {
	id uuid.UUID
}

// NoMerge is the merge key for dispatches that always get their own undo step.
var NoMerge = MergeKey{}

// NewMergeKey mints a token distinct from every token issued before.
func NewMergeKey() MergeKey {
	return MergeKey{id: uuid.New()}
}

// IsZero reports whether k is NoMerge.
func (k MergeKey) IsZero() bool {
	return k == NoMerge
}

func (k MergeKey) String() string {
	if k.IsZero() {
		return "none"
	}
	return k.id.String()
}
