package world

import (
	"math/rand"
	"testing"

	"github.com/neontwilight/sim/internal/component"
	"github.com/neontwilight/sim/internal/data"
	"github.com/neontwilight/sim/internal/gamemap"
	"github.com/neontwilight/sim/internal/geom"
	"github.com/neontwilight/sim/internal/mapgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loadTables(t *testing.T) *data.Tables {
	t.Helper()
	tables, err := data.LoadTables(data.Paths{
		NpcList:  "../../data/yaml/npc_list.yaml",
		ItemList: "../../data/yaml/item_list.yaml",
		Map:      "../../data/yaml/map.yaml",
	})
	require.NoError(t, err)
	return tables
}

func newTestState(t *testing.T, w, h int) (*State, *Spawner) {
	t.Helper()
	s := NewState(gamemap.New(w, h), NewMessageLog(zap.NewNop()))
	return s, NewSpawner(s, loadTables(t), rand.New(rand.NewSource(1)), zap.NewNop())
}

func TestRealizeSpawns(t *testing.T) {
	s, sp := newTestState(t, 10, 10)
	m := s.Map
	spawns := []mapgen.Spawn{
		{Idx: m.XYIdx(2, 2), Tag: mapgen.TagBarkeep},
		{Idx: m.XYIdx(3, 3), Tag: mapgen.TagPatron},
		{Idx: m.XYIdx(4, 4), Tag: mapgen.TagBed},
		{Idx: m.XYIdx(5, 5), Tag: "Dragon"},
	}
	assert.Equal(t, 3, sp.Realize(spawns))

	barkeep, ok := s.ActorAt(geom.Point{X: 2, Y: 2})
	require.True(t, ok)
	assert.True(t, s.Vendors.Has(barkeep))
	assert.False(t, s.AIs.Has(barkeep))
	assert.True(t, m.IsTileBlocked(m.XYIdx(2, 2)))

	patron, ok := s.ActorAt(geom.Point{X: 3, Y: 3})
	require.True(t, ok)
	assert.True(t, s.AIs.Has(patron))
	assert.True(t, s.Conversations.Has(patron))
	f, _ := s.Factions.Get(patron)
	assert.Equal(t, component.Townsfolk, f.Kind)
	assert.True(t, m.IsTileBlocked(m.XYIdx(3, 3)))

	assert.Equal(t, []geom.Point{{X: 4, Y: 4}}, s.PropPositions(component.Bed))
	assert.False(t, m.IsTileBlocked(m.XYIdx(4, 4)), "props never block")
	assert.Equal(t, []geom.Point{{X: 2, Y: 2}}, s.VendorPositions())
}

func TestThugWearsStartingEquipment(t *testing.T) {
	s, sp := newTestState(t, 10, 10)
	thug, err := sp.SpawnNpc("thug", geom.Point{X: 1, Y: 1})
	require.NoError(t, err)

	worn := s.EquippedBy(thug)
	require.Len(t, worn, 3)
	for _, id := range worn {
		assert.False(t, s.Positions.Has(id), "worn items have no position")
		assert.True(t, s.DefBonuses.Has(id))
	}
	assert.True(t, s.SlotTaken(thug, component.SlotFeet))
	assert.False(t, s.SlotTaken(thug, component.SlotMelee))
	assert.Equal(t, 0, s.MeleeBonusOf(thug))

	knife, err := sp.SpawnEquipped("combat_knife", thug)
	require.NoError(t, err)
	assert.Equal(t, 2, s.MeleeBonusOf(thug))
	assert.Equal(t, "Combat Knife", s.NameOf(knife))

	_, err = sp.SpawnNpc("dragon", geom.Point{X: 2, Y: 2})
	assert.ErrorIs(t, err, data.ErrUnknownPrefab)
}

func TestSpawnPlayer(t *testing.T) {
	s, sp := newTestState(t, 10, 10)
	_, ok := s.Player()
	assert.False(t, ok)
	assert.Equal(t, int64(0), s.Turns())

	id := sp.SpawnPlayer(geom.Point{X: 4, Y: 5})
	got, ok := s.Player()
	require.True(t, ok)
	assert.Equal(t, id, got)

	pos, ok := s.PlayerPosition()
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 4, Y: 5}, pos)
	assert.True(t, s.Map.IsTileBlocked(s.Map.XYIdx(4, 5)))

	stats, _ := s.Stats.Get(id)
	assert.Equal(t, 20, stats.HP)
	needs, _ := s.Needs.Get(id)
	assert.Equal(t, component.Needs{Hunger: 500, Thirst: 300}, *needs)
}

func TestNearestFree(t *testing.T) {
	s, sp := newTestState(t, 10, 10)
	m := s.Map
	m.SetTile(5, 5, gamemap.Wall)
	m.SetTileBlocked(m.XYIdx(4, 4))

	p, ok := sp.NearestFree(geom.Point{X: 5, Y: 5})
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 5, Y: 4}, p, "first free tile in ring 1, row-major")

	p, ok = sp.NearestFree(geom.Point{X: 7, Y: 7})
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 7, Y: 7}, p)
}

func TestSpawnFixed(t *testing.T) {
	s, sp := newTestState(t, 12, 12)
	s.Map.SetTileBlocked(s.Map.XYIdx(5, 5))
	sp.SpawnFixed(sp.tables.Map)

	thug, ok := s.ActorAt(geom.Point{X: 4, Y: 4})
	require.True(t, ok)
	f, _ := s.Factions.Get(thug)
	assert.Equal(t, component.Enemy, f.Kind)

	knife, ok := s.ItemAt(geom.Point{X: 6, Y: 7})
	require.True(t, ok)
	mb, ok := s.MeleeBonuses.Get(knife)
	require.True(t, ok)
	assert.Equal(t, 2, mb.Bonus)
}

func TestCalendar(t *testing.T) {
	c := DefaultCalendar()
	assert.Equal(t, int64(28800), c.TimeOfDay(0))
	assert.Equal(t, "08:00:00", c.Clock(0))
	assert.Equal(t, "08:01:05", c.Clock(65))
	assert.Equal(t, "00:00:00", c.Clock(57600))
	assert.Equal(t, "08:00:00", c.Clock(86400))

	assert.Equal(t, int64(11*3600), c.UntilEvening(0))
	assert.Equal(t, int64(86400), c.UntilEvening(11*3600), "at dusk wait a full day")
	assert.Equal(t, int64(86400-3600), c.UntilEvening(12*3600))

	sec, err := ParseClock("19:00")
	require.NoError(t, err)
	assert.Equal(t, int64(68400), sec)
	sec, err = ParseClock("07:03:20")
	require.NoError(t, err)
	assert.Equal(t, int64(25400), sec)
	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("noon")
	assert.Error(t, err)
}

func TestMessageLogCap(t *testing.T) {
	l := NewMessageLog(zap.NewNop())
	assert.Equal(t, "", l.Last())
	for i := 0; i < defaultMessageCap+5; i++ {
		l.Add("m")
	}
	l.Add("last")
	assert.Len(t, l.Lines(), defaultMessageCap)
	assert.Equal(t, "last", l.Last())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Leather Jacket", DisplayName("leather jacket"))
	assert.Equal(t, "Thug", DisplayName("thug"))
}
