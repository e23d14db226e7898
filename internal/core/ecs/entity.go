package ecs

import "fmt"

// EntityID packs a slot index (low 32 bits) with the slot's generation (high
// 32 bits). Slot 0 is never handed out, so the zero ID means "no entity".
type EntityID uint64

func makeID(index, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32 { return uint32(id) }

func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

func (id EntityID) IsZero() bool { return id == 0 }

func (id EntityID) String() string {
	return fmt.Sprintf("e%d.%d", id.Index(), id.Generation())
}

type slot struct {
	generation uint32
	alive      bool
}

// EntityPool hands out generational IDs. Freed slots are reused oldest
// first, which keeps a stale ID stale for as long as possible.
type EntityPool struct {
	slots []slot
	free  []uint32
	live  int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{slots: make([]slot, 1, 128)}
}

func (p *EntityPool) Create() EntityID {
	p.live++
	if len(p.free) > 0 {
		idx := p.free[0]
		p.free = p.free[1:]
		p.slots[idx].alive = true
		return makeID(idx, p.slots[idx].generation)
	}
	p.slots = append(p.slots, slot{alive: true})
	return makeID(uint32(len(p.slots)-1), 0)
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx == 0 || int(idx) >= len(p.slots) {
		return false
	}
	s := p.slots[idx]
	return s.alive && s.generation == id.Generation()
}

// Destroy frees the slot of id. Stale or unknown IDs are ignored.
func (p *EntityPool) Destroy(id EntityID) {
	if !p.Alive(id) {
		return
	}
	idx := id.Index()
	p.slots[idx].generation++
	p.slots[idx].alive = false
	p.free = append(p.free, idx)
	p.live--
}

// Live returns the number of entities currently alive.
func (p *EntityPool) Live() int { return p.live }
