package mapgen

import (
	"math/rand"
	"slices"

	"github.com/neontwilight/sim/internal/gamemap"
	"github.com/neontwilight/sim/internal/geom"
	"go.uber.org/zap"
)

// Spawn tags written by the town stage.
const (
	TagBarkeep = "Barkeep"
	TagPatron  = "Patron"
	TagTable   = "Table"
	TagChair   = "Chair"
	TagBed     = "Bed"
)

// BuildingKind is the role assigned to a placed building.
type BuildingKind int

const (
	BuildingUnassigned BuildingKind = iota
	BuildingHostel
	BuildingPub
	BuildingHovel
)

func (k BuildingKind) String() string {
	switch k {
	case BuildingHostel:
		return "hostel"
	case BuildingPub:
		return "pub"
	case BuildingHovel:
		return "hovel"
	}
	return "unassigned"
}

// Building is a placed building footprint, walls included.
type Building struct {
	Rect geom.Rect
	Kind BuildingKind
}

// TownParams tunes building placement. Size and offset ranges are half-open.
type TownParams struct {
	Trials      int
	MinRoomSize int
	RoomMin     int
	RoomMax     int
	OffsetMin   int
	OffsetMax   int
	Margin      int
}

func DefaultTownParams() TownParams {
	return TownParams{
		Trials:      240,
		MinRoomSize: 6,
		RoomMin:     6,
		RoomMax:     10,
		OffsetMin:   1,
		OffsetMax:   3,
		Margin:      2,
	}
}

// pubContents is placed in order onto free pub floor.
var pubContents = []string{TagBarkeep, TagPatron, TagPatron, TagTable, TagChair, TagTable, TagChair}

type townBuilder struct {
	params TownParams
	rng    *rand.Rand
	log    *zap.Logger
	rects  []geom.Rect
}

func (t *townBuilder) build(bm *BuilderMap) {
	m := bm.Map
	sx, sy, endX, endY := 1, 1, m.Width-1, m.Height-1
	if len(bm.Submaps) > 0 {
		s := bm.Submaps[0]
		sx, sy, endX, endY = s.X1, s.Y1, s.X2, s.Y2
	}
	for y := sy; y < endY; y++ {
		for x := sx; x < endX; x++ {
			if m.IsInBounds(x, y) {
				m.SetTile(x, y, gamemap.Floor)
			}
		}
	}

	t.rects = []geom.Rect{{X1: sx, Y1: sy, X2: endX - 1, Y2: endY - 1}}
	t.addSubrects(t.rects[0])

	var rooms []geom.Rect
	for i := 0; i < t.params.Trials; i++ {
		rect := t.randomRect()
		if rect.Width() <= t.params.MinRoomSize || rect.Height() <= t.params.MinRoomSize {
			continue
		}
		candidate := t.randomSubRect(rect)
		if t.isPossible(candidate, m, rooms) {
			rooms = append(rooms, candidate)
			t.addSubrects(rect)
		}
	}

	for _, r := range rooms {
		t.paintBuilding(m, r)
	}

	bm.Buildings = classifyBuildings(rooms)
	for _, b := range bm.Buildings {
		switch b.Kind {
		case BuildingPub:
			t.buildPub(b.Rect, bm)
		case BuildingHostel:
			buildCapsuleHotel(b.Rect, bm)
		}
	}
	t.log.Debug("town laid out",
		zap.Int("buildings", len(rooms)),
		zap.Int("rects", len(t.rects)),
	)
}

// addSubrects splits rect into four quadrants of at least one tile.
func (t *townBuilder) addSubrects(r geom.Rect) {
	halfW := max(r.Width()/2, 1)
	halfH := max(r.Height()/2, 1)
	t.rects = append(t.rects,
		geom.NewRect(r.X1, r.Y1, halfW, halfH),
		geom.NewRect(r.X1, r.Y1+halfH, halfW, halfH),
		geom.NewRect(r.X1+halfW, r.Y1, halfW, halfH),
		geom.NewRect(r.X1+halfW, r.Y1+halfH, halfW, halfH),
	)
}

func (t *townBuilder) randomRect() geom.Rect {
	if len(t.rects) == 1 {
		return t.rects[0]
	}
	return t.rects[t.rng.Intn(len(t.rects))]
}

func (t *townBuilder) between(lo, hi int) int {
	return lo + t.rng.Intn(hi-lo)
}

func (t *townBuilder) randomSubRect(r geom.Rect) geom.Rect {
	w := t.between(t.params.RoomMin, t.params.RoomMax)
	h := t.between(t.params.RoomMin, t.params.RoomMax)
	x1 := r.X1 + t.between(t.params.OffsetMin, t.params.OffsetMax)
	y1 := r.Y1 + t.between(t.params.OffsetMin, t.params.OffsetMax)
	return geom.NewRect(x1, y1, w, h)
}

// isPossible accepts a candidate when, grown by the margin, it clears every
// accepted building, stays off the outer ring, and covers only plain Floor.
func (t *townBuilder) isPossible(candidate geom.Rect, m *gamemap.Map, rooms []geom.Rect) bool {
	expanded := candidate.Expand(t.params.Margin)
	for _, r := range rooms {
		if expanded.Intersect(r) {
			return false
		}
	}
	for y := expanded.Y1; y <= expanded.Y2; y++ {
		for x := expanded.X1; x <= expanded.X2; x++ {
			if x < 1 || y < 1 || x > m.Width-2 || y > m.Height-2 {
				return false
			}
			if m.Tile(x, y) != gamemap.Floor {
				return false
			}
		}
	}
	return true
}

// paintBuilding draws the wall ring, the indoor floor and one door on a
// randomly chosen side at the centreline.
func (t *townBuilder) paintBuilding(m *gamemap.Map, r geom.Rect) {
	for y := r.Y1; y < r.Y2; y++ {
		for x := r.X1; x < r.X2; x++ {
			if m.IsInBounds(x, y) {
				m.SetTile(x, y, gamemap.Wall)
			}
		}
	}
	for y := r.Y1 + 1; y < r.Y2-1; y++ {
		for x := r.X1 + 1; x < r.X2-1; x++ {
			m.SetTile(x, y, gamemap.FloorIndoor)
		}
	}

	c := r.Center()
	switch t.rng.Intn(4) {
	case 0:
		m.SetTile(c.X, r.Y1, gamemap.Door)
	case 1:
		m.SetTile(c.X, r.Y2-1, gamemap.Door)
	case 2:
		m.SetTile(r.X1, c.Y, gamemap.Door)
	default:
		m.SetTile(r.X2-1, c.Y, gamemap.Door)
	}
}

// classifyBuildings ranks buildings by padded area, largest first. The
// largest becomes the hostel, the next the pub, the rest hovels. The result
// keeps placement order.
func classifyBuildings(rooms []geom.Rect) []Building {
	out := make([]Building, len(rooms))
	order := make([]int, len(rooms))
	for i, r := range rooms {
		out[i] = Building{Rect: r}
		order[i] = i
	}
	area := func(r geom.Rect) int { return (r.Width() + 1) * (r.Height() + 1) }
	slices.SortStableFunc(order, func(a, b int) int {
		return area(rooms[b]) - area(rooms[a])
	})
	for rank, i := range order {
		switch rank {
		case 0:
			out[i].Kind = BuildingHostel
		case 1:
			out[i].Kind = BuildingPub
		default:
			out[i].Kind = BuildingHovel
		}
	}
	return out
}

// buildPub sets the starting position at the pub centre and scatters the pub
// contents over its indoor floor, a coin flip per tile.
func (t *townBuilder) buildPub(r geom.Rect, bm *BuilderMap) {
	m := bm.Map
	c := r.Center()
	bm.StartingPosition = &c
	playerIdx := m.PointIdx(c)

	toPlace := slices.Clone(pubContents)
	for y := r.Y1; y < r.Y2; y++ {
		for x := r.X1; x < r.X2; x++ {
			if len(toPlace) == 0 {
				return
			}
			idx := m.XYIdx(x, y)
			if m.Tiles[idx] != gamemap.FloorIndoor || idx == playerIdx {
				continue
			}
			if t.rng.Intn(2) == 0 {
				bm.Spawns = append(bm.Spawns, Spawn{Idx: idx, Tag: toPlace[0]})
				toPlace = toPlace[1:]
			}
		}
	}
}

// buildCapsuleHotel partitions the hostel into 3-tile capsules with internal
// doors, one bed per capsule, and forces a front door on the south wall.
func buildCapsuleHotel(r geom.Rect, bm *BuilderMap) {
	m := bm.Map
	startX, endX := r.X1, r.X2-1
	startY, endY := r.Y1, r.Y2-1

	for x := startX; x < endX; x++ {
		dx := x - startX
		if dx > 1 && dx%3 == 0 {
			for y := startY; y < endY; y++ {
				m.SetTile(x, y, gamemap.Wall)
			}
		}
		if (dx < 4 || dx > 6) && dx%3 != 0 {
			for y := startY; y < endY; y++ {
				if dy := y - startY; dy > 1 && dy%3 == 0 {
					m.SetTile(x, y, gamemap.Wall)
				}
			}
		}
		if ((dx > 0 && dx < 4) || dx > 6) && dx%3 == 1 {
			for y := startY; y < endY; y++ {
				if (y-startY)%3 == 1 {
					bm.Spawns = append(bm.Spawns, Spawn{Idx: m.XYIdx(x, y), Tag: TagBed})
				}
			}
		}
		if dx > 1 && dx%3 == 0 {
			for y := startY; y < endY; y++ {
				if dy := y - startY; dy >= 1 && dy%3 == 1 {
					m.SetTile(x, y, gamemap.Door)
				}
			}
		}
	}

	c := r.Center()
	doorX := c.X
	if (c.X-r.X1)%3 == 0 {
		doorX++
	}
	m.SetTile(doorX, r.Y2-1, gamemap.Door)
}
