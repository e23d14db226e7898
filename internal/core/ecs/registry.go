package ecs

import "fmt"

// Registry tracks component stores by name. Destroying an entity strips it
// from every registered store in registration order.
type Registry struct {
	byName map[string]Removable
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Removable, 16)}
}

// Register adds a store. Two stores under one name is a wiring error and
// panics.
func (r *Registry) Register(store Removable) {
	name := store.Name()
	if _, dup := r.byName[name]; dup {
		panic(fmt.Sprintf("ecs: component store %q registered twice", name))
	}
	r.byName[name] = store
	r.stores = append(r.stores, store)
}

// Lookup returns the store registered under name.
func (r *Registry) Lookup(name string) (Removable, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Names lists store names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.stores))
	for i, s := range r.stores {
		out[i] = s.Name()
	}
	return out
}

func (r *Registry) Len() int { return len(r.stores) }

// RemoveAll clears id from every store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// NewRegisteredStore creates a store and registers it with w in one step.
func NewRegisteredStore[T any](w *World, name string) *Store[T] {
	s := NewStore[T](name)
	w.registry.Register(s)
	return s
}
