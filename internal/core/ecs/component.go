package ecs

import "fmt"

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Name() string
	Remove(id EntityID)
}

// Store is a generic typed component store. Iteration follows insertion
// order so a turn replays identically for the same seed.
//
// Adding a new entity or removing one while an Each over the same store is
// running panics: structural changes have to be deferred until the scan ends.
type Store[T any] struct {
	name      string
	index     map[EntityID]int
	ids       []EntityID
	vals      []*T
	iterating int
}

func NewStore[T any](name string) *Store[T] {
	return &Store[T]{
		name:  name,
		index: make(map[EntityID]int, 64),
		ids:   make([]EntityID, 0, 64),
		vals:  make([]*T, 0, 64),
	}
}

func (s *Store[T]) Name() string { return s.name }

// Set attaches c to id, replacing any existing value in place.
func (s *Store[T]) Set(id EntityID, c *T) {
	if i, ok := s.index[id]; ok {
		s.vals[i] = c
		return
	}
	s.guard("insert")
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.vals = append(s.vals, c)
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.vals[i], true
}

func (s *Store[T]) Remove(id EntityID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	s.guard("remove")
	delete(s.index, id)
	copy(s.ids[i:], s.ids[i+1:])
	copy(s.vals[i:], s.vals[i+1:])
	s.ids = s.ids[:len(s.ids)-1]
	s.vals[len(s.vals)-1] = nil
	s.vals = s.vals[:len(s.vals)-1]
	for j := i; j < len(s.ids); j++ {
		s.index[s.ids[j]] = j
	}
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.ids)
}

// First returns the earliest inserted entry.
func (s *Store[T]) First() (EntityID, *T, bool) {
	if len(s.ids) == 0 {
		return 0, nil, false
	}
	return s.ids[0], s.vals[0], true
}

// IDs returns a copy of the stored entity IDs in insertion order.
func (s *Store[T]) IDs() []EntityID {
	out := make([]EntityID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Store[T]) Each(fn func(EntityID, *T)) {
	s.iterating++
	defer func() { s.iterating-- }()
	for i, id := range s.ids {
		fn(id, s.vals[i])
	}
}

func (s *Store[T]) guard(op string) {
	if s.iterating > 0 {
		panic(fmt.Sprintf("ecs: %s on store %q during iteration", op, s.name))
	}
}
