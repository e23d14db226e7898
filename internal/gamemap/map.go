package gamemap

import "github.com/neontwilight/sim/internal/geom"

// Terrain is a tile code. The numeric values are part of the save format.
type Terrain uint8

const (
	Floor       Terrain = 0
	Wall        Terrain = 1
	Grass       Terrain = 2
	Tree        Terrain = 3
	FloorIndoor Terrain = 4
	Door        Terrain = 5
	Mountain    Terrain = 6
)

var terrainNames = [...]string{"floor", "wall", "grass", "tree", "indoor floor", "door", "mountain"}

func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "unknown"
}

// Walkable reports whether agents may stand on this terrain.
func (t Terrain) Walkable() bool {
	switch t {
	case Floor, Grass, FloorIndoor, Door:
		return true
	}
	return false
}

// Opaque reports whether the terrain stops line of sight.
func (t Terrain) Opaque() bool {
	return t == Wall || t == Mountain
}

// Map is the tile grid. Tiles, blocked and revealed are flat arrays
// indexed y*Width+x.
//
// blocked is pathfinding occupancy only: it marks tiles an agent stands on or
// is moving into and is never a terrain property.
type Map struct {
	Width    int
	Height   int
	Tiles    []Terrain
	blocked  []bool
	revealed []bool
}

// New creates a width x height map filled with Floor.
func New(width, height int) *Map {
	n := width * height
	return &Map{
		Width:    width,
		Height:   height,
		Tiles:    make([]Terrain, n),
		blocked:  make([]bool, n),
		revealed: make([]bool, n),
	}
}

func (m *Map) XYIdx(x, y int) int { return y*m.Width + x }

func (m *Map) IdxXY(idx int) (int, int) { return idx % m.Width, idx / m.Width }

func (m *Map) IdxPoint(idx int) geom.Point {
	x, y := m.IdxXY(idx)
	return geom.Point{X: x, Y: y}
}

func (m *Map) PointIdx(p geom.Point) int { return m.XYIdx(p.X, p.Y) }

func (m *Map) Len() int { return len(m.Tiles) }

func (m *Map) IsInBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

func (m *Map) Tile(x, y int) Terrain { return m.Tiles[m.XYIdx(x, y)] }

func (m *Map) SetTile(x, y int, t Terrain) { m.Tiles[m.XYIdx(x, y)] = t }

// IsTileWalkable checks terrain only. Out-of-bounds coordinates are not walkable.
func (m *Map) IsTileWalkable(x, y int) bool {
	if !m.IsInBounds(x, y) {
		return false
	}
	return m.Tiles[m.XYIdx(x, y)].Walkable()
}

func (m *Map) SetTileBlocked(idx int) { m.blocked[idx] = true }

func (m *Map) ClearTileBlocked(idx int) { m.blocked[idx] = false }

func (m *Map) IsTileBlocked(idx int) bool { return m.blocked[idx] }

// MoveBlocked releases the occupancy claim on from and claims to.
func (m *Map) MoveBlocked(from, to int) {
	m.blocked[from] = false
	m.blocked[to] = true
}

func (m *Map) Reveal(idx int) { m.revealed[idx] = true }

func (m *Map) IsRevealed(idx int) bool { return m.revealed[idx] }

func (m *Map) BlockedTiles() []bool { return m.blocked }

func (m *Map) RevealedTiles() []bool { return m.revealed }

// IsTileValid reports whether (x,y) lies strictly inside the outer ring and is
// not currently occupied.
func (m *Map) IsTileValid(x, y int) bool {
	if x < 1 || x > m.Width-1 || y < 1 || y > m.Height-1 {
		return false
	}
	return !m.IsTileBlocked(m.XYIdx(x, y))
}

// RevealFrom ORs a visibility mask into the revealed memory. Revealed tiles
// are never cleared.
func (m *Map) RevealFrom(visible []bool) {
	for idx, v := range visible {
		if v {
			m.revealed[idx] = true
		}
	}
}

// TransparencyMask returns a fresh per-tile transparency array.
func (m *Map) TransparencyMask() []bool {
	out := make([]bool, len(m.Tiles))
	for i, t := range m.Tiles {
		out[i] = !t.Opaque()
	}
	return out
}

// Restore rebuilds a map from persisted arrays. Lengths must equal width*height.
func Restore(width, height int, tiles []Terrain, blocked, revealed []bool) *Map {
	m := New(width, height)
	copy(m.Tiles, tiles)
	copy(m.blocked, blocked)
	copy(m.revealed, revealed)
	return m
}
