package gamemap

import (
	"fmt"
	"strings"

	"github.com/neontwilight/sim/internal/geom"
)

// Viewport half-extents used when describing remembered features.
const (
	viewHalfWidth  = 20
	viewHalfHeight = 12
)

const areaDescription = "This area appears to be a town that hugs a forest."

// Compass returns the 8-way direction from a to b ("N", "SE", ...), or "here".
func Compass(a, b geom.Point) string {
	var sb strings.Builder
	switch {
	case b.Y < a.Y:
		sb.WriteString("N")
	case b.Y > a.Y:
		sb.WriteString("S")
	}
	switch {
	case b.X < a.X:
		sb.WriteString("W")
	case b.X > a.X:
		sb.WriteString("E")
	}
	if sb.Len() == 0 {
		return "here"
	}
	return sb.String()
}

// Describe builds the text shown when an agent steps onto (x,y): the terrain
// underfoot plus the nearest remembered door and wall within the viewport.
func (m *Map) Describe(x, y int) string {
	here := geom.Point{X: x, Y: y}
	var sb strings.Builder
	sb.WriteString(areaDescription)

	switch m.Tile(x, y) {
	case Grass:
		sb.WriteString(" You feel the grass under your feet.")
	case Floor:
		sb.WriteString(" You walk on paved ground of the town.")
	case FloorIndoor:
		sb.WriteString(" You entered one of the buildings.")
	case Door:
		sb.WriteString(" You stand in a doorway.")
	}

	door, doorDist := m.nearestRevealed(here, Door)
	if doorDist >= 0 {
		fmt.Fprintf(&sb, " You see a door %d away to %s.", doorDist, Compass(here, door))
	}
	wall, wallDist := m.nearestRevealed(here, Wall)
	if wallDist >= 0 {
		fmt.Fprintf(&sb, " You see a wall %d away to %s.", wallDist, Compass(here, wall))
	}
	return sb.String()
}

// nearestRevealed finds the closest remembered tile of the given terrain
// inside the viewport. Distance is -1 when none is found.
func (m *Map) nearestRevealed(from geom.Point, t Terrain) (geom.Point, int) {
	best := geom.Point{}
	bestDist := -1
	for y := from.Y - viewHalfHeight; y <= from.Y+viewHalfHeight; y++ {
		for x := from.X - viewHalfWidth; x <= from.X+viewHalfWidth; x++ {
			if !m.IsInBounds(x, y) {
				continue
			}
			idx := m.XYIdx(x, y)
			if !m.revealed[idx] || m.Tiles[idx] != t {
				continue
			}
			p := geom.Point{X: x, Y: y}
			d := geom.Chebyshev(from, p)
			if bestDist < 0 || d < bestDist {
				best, bestDist = p, d
			}
		}
	}
	return best, bestDist
}
