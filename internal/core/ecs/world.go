package ecs

// World bundles the entity pool with the store registry. Entities are not
// destroyed mid-turn: the death sweep marks them and flushes the queue once
// it has finished scanning.
type World struct {
	pool     *EntityPool
	registry *Registry
	doomed   map[EntityID]struct{}
	queue    []EntityID
}

func NewWorld() *World {
	return &World{
		pool:     NewEntityPool(),
		registry: NewRegistry(),
		doomed:   make(map[EntityID]struct{}),
	}
}

func (w *World) Pool() *EntityPool { return w.pool }

func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID { return w.pool.Create() }

func (w *World) Alive(id EntityID) bool { return w.pool.Alive(id) }

// Count returns the number of live entities.
func (w *World) Count() int { return w.pool.Live() }

// MarkForDestruction queues id for the next flush. Repeat marks are ignored.
func (w *World) MarkForDestruction(id EntityID) {
	if _, ok := w.doomed[id]; ok {
		return
	}
	w.doomed[id] = struct{}{}
	w.queue = append(w.queue, id)
}

// Pending returns the number of distinct entities waiting for the flush.
func (w *World) Pending() int { return len(w.queue) }

// FlushDestroyQueue strips and destroys every marked entity that is still
// alive, in marking order, and returns how many were destroyed.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.queue {
		delete(w.doomed, id)
		if !w.pool.Alive(id) {
			continue
		}
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
		n++
	}
	w.queue = w.queue[:0]
	return n
}
