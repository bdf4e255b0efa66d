package state

import (
	"go.uber.org/zap"
)

// DefaultHistoryLimit caps the number of undo steps kept per session.
const DefaultHistoryLimit = 100

type historyEntry[S any] struct {
	prior    S
	mergeKey MergeKey
}

type subscriber[S any] struct {
	fn func(S)
}

type options struct {
	historyLimit int
	logger       *zap.Logger
	unchanged    any
}

// Option configures a Store.
type Option func(*options)

// WithHistoryLimit keeps at most n undo steps, dropping the oldest. n <= 0
// keeps everything.
func WithHistoryLimit(n int) Option {
	return func(o *options) { o.historyLimit = n }
}

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithUnchanged sets the test Dispatch uses to spot actions the reducer
// rejected. Such dispatches leave history, redo and subscribers alone. fn
// must take the store's state type; without it every dispatch is recorded.
func WithUnchanged[S any](fn func(prev, next S) bool) Option {
	return func(o *options) { o.unchanged = fn }
}

// Store is a reducer-driven state container with undo and redo.
//
// It is not safe for concurrent use: the whole editor dispatches from the UI
// goroutine only, one dispatch at a time.
type Store[S any] struct {
	reducer Reducer[S]
	current S

	history []historyEntry[S]
	redo    []S

	subs        []*subscriber[S]
	dispatching bool

	historyLimit int
	unchanged    func(prev, next S) bool
	log          *zap.Logger
}

// New creates a store holding initial.
func New[S any](initial S, reducer Reducer[S], opts ...Option) *Store[S] {
	o := options{historyLimit: DefaultHistoryLimit, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	unchanged, _ := o.unchanged.(func(prev, next S) bool)
	return &Store[S]{
		reducer:      reducer,
		current:      initial,
		historyLimit: o.historyLimit,
		unchanged:    unchanged,
		log:          o.logger.Named("store"),
	}
}

// State returns the current state value.
func (s *Store[S]) State() S {
	return s.current
}

// NewMergeKey mints a fresh merge key for a gesture.
func (s *Store[S]) NewMergeKey() MergeKey {
	return NewMergeKey()
}

// Dispatch reduces action into a new state and records history. Dispatches
// sharing the merge key of the most recent history entry collapse into it.
// When the store has a WithUnchanged test and the reducer returned the state
// as it was, nothing is recorded or published.
func (s *Store[S]) Dispatch(action Action, mergeKey MergeKey) {
	s.enter()
	defer s.leave()

	prior := s.current
	next := s.reducer(prior, action)
	if s.unchanged != nil && s.unchanged(prior, next) {
		s.log.Debug("dispatch rejected", zap.String("action", actionType(action)))
		return
	}

	coalesced := false
	if n := len(s.history); n > 0 && !mergeKey.IsZero() && s.history[n-1].mergeKey == mergeKey {
		coalesced = true
	} else {
		s.history = append(s.history, historyEntry[S]{prior: prior, mergeKey: mergeKey})
		s.trimHistory()
	}
	s.redo = nil
	s.current = next

	s.log.Debug("dispatch",
		zap.String("action", actionType(action)),
		zap.Stringer("merge_key", mergeKey),
		zap.Bool("coalesced", coalesced),
		zap.Int("history", len(s.history)),
	)
	s.publish()
}

// Undo restores the state before the most recent history entry. It does
// nothing when there is no history.
func (s *Store[S]) Undo() {
	s.enter()
	defer s.leave()

	n := len(s.history)
	if n == 0 {
		return
	}
	entry := s.history[n-1]
	s.history = s.history[:n-1]
	s.redo = append(s.redo, s.current)
	s.current = entry.prior

	s.log.Debug("undo", zap.Int("history", len(s.history)), zap.Int("redo", len(s.redo)))
	s.publish()
}

// Redo re-applies the most recently undone state. It does nothing when there
// is nothing to redo.
func (s *Store[S]) Redo() {
	s.enter()
	defer s.leave()

	n := len(s.redo)
	if n == 0 {
		return
	}
	next := s.redo[n-1]
	s.redo = s.redo[:n-1]
	// NoMerge so the next gesture never folds into a redone step.
	s.history = append(s.history, historyEntry[S]{prior: s.current, mergeKey: NoMerge})
	s.trimHistory()
	s.current = next

	s.log.Debug("redo", zap.Int("history", len(s.history)), zap.Int("redo", len(s.redo)))
	s.publish()
}

// Replace publishes next as the current state and forgets all history, as
// after loading a map.
func (s *Store[S]) Replace(next S) {
	s.enter()
	defer s.leave()

	s.current = next
	s.history = nil
	s.redo = nil
	s.log.Debug("replace")
	s.publish()
}

// ClearHistory drops undo and redo stacks without touching the state.
func (s *Store[S]) ClearHistory() {
	s.history = nil
	s.redo = nil
}

// CanUndo reports whether Undo would change the state.
func (s *Store[S]) CanUndo() bool { return len(s.history) > 0 }

// CanRedo reports whether Redo would change the state.
func (s *Store[S]) CanRedo() bool { return len(s.redo) > 0 }

// HistoryLen returns the number of undo steps.
func (s *Store[S]) HistoryLen() int { return len(s.history) }

// RedoLen returns the number of redo steps.
func (s *Store[S]) RedoLen() int { return len(s.redo) }

// Subscribe registers fn to receive every committed state, synchronously and
// in dispatch order. Past states are not replayed. The returned function
// removes the subscription and is safe to call more than once.
func (s *Store[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	sub := &subscriber[S]{fn: fn}
	s.subs = append(s.subs, sub)
	return func() {
		for i, existing := range s.subs {
			if existing == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store[S]) publish() {
	subs := s.subs
	for _, sub := range subs {
		sub.fn(s.current)
	}
}

func (s *Store[S]) trimHistory() {
	if s.historyLimit <= 0 {
		return
	}
	if over := len(s.history) - s.historyLimit; over > 0 {
		s.history = append([]historyEntry[S](nil), s.history[over:]...)
	}
}

func (s *Store[S]) enter() {
	if s.dispatching {
		panic("state: re-entrant dispatch")
	}
	s.dispatching = true
}

func (s *Store[S]) leave() {
	s.dispatching = false
}

func actionType(a Action) string {
	if a == nil {
		return "<nil>"
	}
	return a.ActionType()
}
