package astar

import (
	"github.com/neontwilight/sim/internal/gamemap"
	"github.com/neontwilight/sim/internal/geom"
)

// StepToward searches from `from` to `goal` and returns the position after
// one step plus the index of the first step (-1 when there is none). When the
// first step is free and is not the goal itself, the occupancy claim moves
// from `from` onto it. A first step onto the goal is reported but never
// taken: the goal tile belongs to whoever the caller is chasing.
func StepToward(m *gamemap.Map, from geom.Point, goal int) (geom.Point, int) {
	p := Search(m, m.PointIdx(from), goal)
	if !p.Success || len(p.Steps) < 2 {
		return from, -1
	}
	next := p.Steps[1]
	if next == goal || m.IsTileBlocked(next) {
		return from, next
	}
	m.MoveBlocked(m.PointIdx(from), next)
	return m.IdxPoint(next), next
}

// PathFor returns the raw step list from `from` to `goal` without touching
// the occupancy bitmap. A failed search yields the one-tile stay path.
func PathFor(m *gamemap.Map, from, goal int) []int {
	p := Search(m, from, goal)
	if !p.Success {
		return []int{from}
	}
	return p.Steps
}

// PlayerPath is PathFor for click-to-move. The result always begins with the
// player's own tile.
func PlayerPath(m *gamemap.Map, player int, target geom.Point) []int {
	steps := PathFor(m, player, m.PointIdx(target))
	if len(steps) == 0 || steps[0] != player {
		steps = append([]int{player}, steps...)
	}
	return steps
}

// Claim takes the first step of a freshly computed path if the tile is free:
// the occupancy claim moves onto steps[1] and the new position is returned
// with stepped=true. Paths shorter than two tiles are never stepped.
func Claim(m *gamemap.Map, steps []int, from geom.Point) (geom.Point, bool) {
	if len(steps) < 2 || m.IsTileBlocked(steps[1]) {
		return from, false
	}
	m.MoveBlocked(m.PointIdx(from), steps[1])
	return m.IdxPoint(steps[1]), true
}
