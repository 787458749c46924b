// Package appctx provides the mutable key-value environment ("context")
// that when-clause expressions are evaluated against, with change
// notification so dependents can re-filter reactively.
package appctx

import (
	"sort"
	"sync"
)

// View is an immutable snapshot of the store. It satisfies expr.View, so a
// snapshot can be handed straight to expression evaluation without the
// store's lock being held.
type View map[string]any

// Value returns the value for key, or nil when the key is absent.
func (v View) Value(key string) any { return v[key] }

// Changeset describes one committed mutation batch. Keys lists the affected
// keys in sorted order; Snapshot is the store state after the batch.
type Changeset struct {
	Keys     []string
	Snapshot View
}

// Subscriber receives change notifications. Subscribers run synchronously,
// in subscription order, on the mutating goroutine.
type Subscriber func(Changeset)

type subscription struct {
	id int
	fn Subscriber
}

type pending struct {
	set map[string]any
	del []string
}

// Store is a mutex-guarded context map with copy-on-write snapshots. One
// store belongs to exactly one application instance.
//
// Mutations issued while a notification round is in flight (including
// re-entrant mutations from inside a subscriber callback) are queued and
// applied after the current round completes, in issue order. Each queued
// batch produces its own notification.
type Store struct {
	mu        sync.Mutex
	values    map[string]any
	snapshot  View
	subs      []subscription
	nextSubID int
	notifying bool
	queue     []pending
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]any), snapshot: View{}}
}

// Get returns the value for key, or nil when absent.
func (s *Store) Get(key string) any {
	v, _ := s.Lookup(key)
	return v
}

// Lookup returns the value for key and whether the key is present.
func (s *Store) Lookup(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Snapshot returns the current committed state as an immutable view.
func (s *Store) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Set stores one key and notifies subscribers.
func (s *Store) Set(key string, value any) {
	s.Apply(map[string]any{key: value}, nil)
}

// Delete removes one key and notifies subscribers. Deleting an absent key
// is a no-op and produces no notification.
func (s *Store) Delete(key string) {
	s.Apply(nil, []string{key})
}

// Apply commits a batch of updates and deletions atomically with respect to
// notification: subscribers see exactly one Changeset for the whole batch.
// Keys whose value does not actually change are dropped from the changeset;
// a fully redundant batch produces no notification.
func (s *Store) Apply(set map[string]any, del []string) {
	s.mu.Lock()
	if s.notifying {
		s.queue = append(s.queue, pending{set: cloneMap(set), del: append([]string(nil), del...)})
		s.mu.Unlock()
		return
	}
	cs, ok := s.commit(set, del)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.notifying = true
	s.mu.Unlock()

	s.drain(cs)
}

// Subscribe registers a change subscriber and returns a func that removes
// it. Unsubscribing twice is harmless.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// commit applies a batch under the lock and returns the resulting changeset.
// ok is false when nothing changed.
func (s *Store) commit(set map[string]any, del []string) (Changeset, bool) {
	var changed []string
	for key, value := range set {
		old, present := s.values[key]
		if present && equalValue(old, value) {
			continue
		}
		s.values[key] = value
		changed = append(changed, key)
	}
	for _, key := range del {
		if _, present := s.values[key]; !present {
			continue
		}
		delete(s.values, key)
		changed = append(changed, key)
	}
	if len(changed) == 0 {
		return Changeset{}, false
	}
	sort.Strings(changed)
	s.snapshot = View(cloneMap(s.values))
	return Changeset{Keys: changed, Snapshot: s.snapshot}, true
}

// drain runs notification rounds until the re-entrancy queue is empty, then
// clears the notifying flag.
func (s *Store) drain(cs Changeset) {
	for {
		s.mu.Lock()
		subs := append([]subscription(nil), s.subs...)
		s.mu.Unlock()

		for _, sub := range subs {
			sub.fn(cs)
		}

		s.mu.Lock()
		for {
			if len(s.queue) == 0 {
				s.notifying = false
				s.mu.Unlock()
				return
			}
			next := s.queue[0]
			s.queue = s.queue[1:]
			var ok bool
			cs, ok = s.commit(next.set, next.del)
			if ok {
				break
			}
		}
		s.mu.Unlock()
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// equalValue reports whether two context values are identical for the
// purpose of change suppression. Incomparable values (slices, maps) always
// count as changed.
func equalValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !isScalar(a) || !isScalar(b) {
		return false
	}
	return a == b
}

func isScalar(v any) bool {
	switch v.(type) {
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
