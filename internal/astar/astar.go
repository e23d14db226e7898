// Package astar implements grid A* over a gamemap.Map.
//
// The open-list admission rule is intentionally loose: a neighbour is pushed
// unless an open entry for the same tile has a strictly lower f, or the closed
// list recorded a strictly lower f. Duplicates are possible, and the g carried
// into children is the parent's f. Path shapes depend on both.
package astar

import (
	"cmp"
	"math"
	"slices"

	"github.com/neontwilight/sim/internal/gamemap"
)

// DefaultMaxSteps bounds the number of node expansions per search.
const DefaultMaxSteps = 65536

const (
	cardinalCost float32 = 1.0
	diagonalCost float32 = 1.4
)

// Neighbour offsets in expansion order: W, E, N, S, then NW, NE, SW, SE.
var neighbourDeltas = [8]struct {
	dx, dy int
	cost   float32
}{
	{-1, 0, cardinalCost}, {1, 0, cardinalCost}, {0, -1, cardinalCost}, {0, 1, cardinalCost},
	{-1, -1, diagonalCost}, {1, -1, diagonalCost}, {-1, 1, diagonalCost}, {1, 1, diagonalCost},
}

// Path is the result of a search. Steps runs from start (index 0) to
// Destination. On failure Success is false and Steps is empty.
type Path struct {
	Destination int
	Success     bool
	Steps       []int
}

type node struct {
	idx     int
	f, g, h float32
}

type search struct {
	m        *gamemap.Map
	start    int
	end      int
	open     []node
	closed   map[int]float32
	parents  map[int]int
	maxSteps int
}

// Search runs A* from start to end with DefaultMaxSteps.
func Search(m *gamemap.Map, start, end int) Path {
	return SearchLimit(m, start, end, DefaultMaxSteps)
}

// SearchLimit runs A* with an explicit expansion budget. The occupancy bitmap
// is not consulted; only terrain walkability filters neighbours.
func SearchLimit(m *gamemap.Map, start, end, maxSteps int) Path {
	s := &search{
		m:        m,
		start:    start,
		end:      end,
		open:     []node{{idx: start}},
		closed:   make(map[int]float32),
		parents:  make(map[int]int),
		maxSteps: maxSteps,
	}
	return s.run()
}

func (s *search) run() Path {
	for steps := 0; len(s.open) > 0 && steps < s.maxSteps; steps++ {
		q := s.open[0]
		s.open = s.open[1:]

		if q.idx == s.end {
			return s.reconstruct()
		}

		x, y := s.m.IdxXY(q.idx)
		for _, d := range neighbourDeltas {
			nx, ny := x+d.dx, y+d.dy
			if !s.m.IsTileWalkable(nx, ny) {
				continue
			}
			s.addNode(q, s.m.XYIdx(nx, ny), d.cost+q.f)
		}

		s.closed[q.idx] = q.f
		slices.SortStableFunc(s.open, func(a, b node) int {
			return cmp.Compare(a.f, b.f)
		})
	}
	return Path{}
}

func (s *search) addNode(q node, idx int, cost float32) {
	h := s.distanceToEnd(idx)
	n := node{idx: idx, f: h + cost, g: cost, h: h}

	for _, e := range s.open {
		if e.idx == idx && e.f < n.f {
			return
		}
	}
	if f, ok := s.closed[idx]; ok && f < n.f {
		return
	}
	s.open = append(s.open, n)
	s.parents[idx] = q.idx
}

func (s *search) distanceToEnd(idx int) float32 {
	x1, y1 := s.m.IdxXY(idx)
	x2, y2 := s.m.IdxXY(s.end)
	dx := float64(x1 - x2)
	dy := float64(y1 - y2)
	return float32(math.Sqrt(dx*dx + dy*dy))
}

// reconstruct walks the parent chain from end back to start. A chain longer
// than the parent map means the links looped, which is reported as failure.
func (s *search) reconstruct() Path {
	steps := []int{s.end}
	cur := s.end
	for cur != s.start {
		parent, ok := s.parents[cur]
		if !ok || len(steps) > len(s.parents)+1 {
			return Path{}
		}
		steps = append(steps, parent)
		cur = parent
	}
	slices.Reverse(steps)
	return Path{Destination: s.end, Success: true, Steps: steps}
}
