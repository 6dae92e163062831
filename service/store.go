package service

import (
	"sync"
	"sync/atomic"

	"myregistry/domain"
)

// serviceSnapshot is the immutable published state of one service. Readers
// load it atomically and never observe a torn write; writers build a fresh
// slice and swap the pointer.
type serviceSnapshot struct {
	instances []domain.Instance
	version   uint64
}

// serviceEntry holds one service. mu serializes writers; snap is the
// replace-on-write snapshot read without any lock. dead (guarded by mu) marks
// an entry that drop has unlinked from the map: a writer that captured the
// pointer before the unlink must not commit into it.
type serviceEntry struct {
	key  domain.ServiceKey
	mu   sync.Mutex
	dead bool
	snap atomic.Pointer[serviceSnapshot]
}

func newServiceEntry(key domain.ServiceKey) *serviceEntry {
	e := &serviceEntry{key: key}
	e.snap.Store(&serviceSnapshot{})
	return e
}

// store is the authoritative in-memory map of services. The outer RWMutex
// only guards the map itself; per-service state is guarded by the entry, so
// mutations to different services never block each other.
type store struct {
	mu      sync.RWMutex
	entries map[string]*serviceEntry
}

func newStore() *store {
	return &store{entries: make(map[string]*serviceEntry)}
}

func (s *store) lookup(key domain.ServiceKey) *serviceEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key.String()]
}

func (s *store) lookupOrCreate(key domain.ServiceKey) *serviceEntry {
	if e := s.lookup(key); e != nil {
		return e
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key.String()]; ok {
		return e
	}
	e := newServiceEntry(key)
	s.entries[key.String()] = e
	return e
}

// apply runs fn over the current instance set of key under the service write
// lock. fn returns the next set (which must not alias mutable state), a flag
// telling whether the change is observable by subscribers (a heartbeat that
// only bumps LastBeat is not), and an error, in which case nothing is
// committed. On commit the snapshot is swapped and, for observable changes,
// onCommit is invoked still under the lock, so events for one service are
// emitted in commit order.
//
// When create is false and the service does not exist, fn is not run and
// apply returns nil: removals of unknown services are a no-op.
//
// A looked-up entry may lose the lock race against drop; the dead flag is
// re-checked under the lock and the write retried against a fresh entry, so
// a commit always lands in an entry reachable from the map.
func (s *store) apply(key domain.ServiceKey, create bool, fn func(current []domain.Instance) ([]domain.Instance, bool, error), onCommit func(domain.ChangeEvent)) error {
	for {
		var entry *serviceEntry
		if create {
			entry = s.lookupOrCreate(key)
		} else {
			entry = s.lookup(key)
			if entry == nil {
				return nil
			}
		}

		entry.mu.Lock()
		if entry.dead {
			entry.mu.Unlock()
			if !create {
				return nil
			}
			continue
		}

		current := entry.snap.Load()
		next, observable, err := fn(current.instances)
		if err != nil {
			entry.mu.Unlock()
			return err
		}

		committed := &serviceSnapshot{instances: next, version: current.version + 1}
		entry.snap.Store(committed)
		if observable && onCommit != nil {
			onCommit(domain.ChangeEvent{
				Key:       key,
				Instances: copyInstances(next),
				Version:   committed.version,
			})
		}
		entry.mu.Unlock()
		return nil
	}
}

// snapshot returns the current instance set of key and its version. The
// returned slice is the immutable published one and must not be mutated.
func (s *store) snapshot(key domain.ServiceKey) ([]domain.Instance, uint64, bool) {
	entry := s.lookup(key)
	if entry == nil {
		return nil, 0, false
	}
	snap := entry.snap.Load()
	return snap.instances, snap.version, true
}

// keys returns the keys of every service currently in the store.
func (s *store) keys() []domain.ServiceKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ServiceKey, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.key)
	}
	return out
}

// drop removes the service entry entirely. Subscribers observe it as a
// transition to the empty set.
//
// The entry lock is taken while still holding the map lock, so the unlink and
// the dead mark are atomic with respect to in-flight writers: a writer that
// acquires the entry first commits into a still-linked entry, one that
// acquires it after sees dead and retries. The reverse lock order never
// occurs: no writer takes the map lock while holding an entry lock.
func (s *store) drop(key domain.ServiceKey, onCommit func(domain.ChangeEvent)) bool {
	s.mu.Lock()
	entry, ok := s.entries[key.String()]
	if !ok {
		s.mu.Unlock()
		return false
	}
	entry.mu.Lock()
	entry.dead = true
	delete(s.entries, key.String())
	s.mu.Unlock()

	defer entry.mu.Unlock()
	current := entry.snap.Load()
	entry.snap.Store(&serviceSnapshot{version: current.version + 1})
	if onCommit != nil {
		onCommit(domain.ChangeEvent{Key: key, Instances: nil, Version: current.version + 1})
	}
	return true
}

// copyInstances returns a shallow copy of the slice; instances themselves are
// treated as values and never mutated in place after publication.
func copyInstances(in []domain.Instance) []domain.Instance {
	if in == nil {
		return nil
	}
	out := make([]domain.Instance, len(in))
	copy(out, in)
	return out
}

// upsertInstance returns a new set with inst replacing the element sharing
// its identity, or appended when there is none. Last writer wins on the full
// attribute set; there is never a merge.
func upsertInstance(current []domain.Instance, inst domain.Instance) []domain.Instance {
	next := make([]domain.Instance, 0, len(current)+1)
	replaced := false
	for _, existing := range current {
		if existing.Key() == inst.Key() {
			next = append(next, inst)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, inst)
	}
	return next
}

// removeInstances returns a new set without the elements whose identity
// matches one of ids. Attribute mismatches are irrelevant: only identity
// (ip, port, cluster) is compared.
func removeInstances(current []domain.Instance, ids map[string]struct{}) []domain.Instance {
	next := make([]domain.Instance, 0, len(current))
	for _, existing := range current {
		if _, gone := ids[existing.Key()]; gone {
			continue
		}
		next = append(next, existing)
	}
	return next
}
