package game

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/neontwilight/sim/internal/component"
	"github.com/neontwilight/sim/internal/core/ecs"
	"github.com/neontwilight/sim/internal/data"
	"github.com/neontwilight/sim/internal/gamemap"
	"github.com/neontwilight/sim/internal/geom"
	"github.com/neontwilight/sim/internal/scripting"
	"github.com/neontwilight/sim/internal/world"
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
		Schema:   "../../schemas/prefabs.schema.json",
	})
	require.NoError(t, err)
	return tables
}

func newLua(t *testing.T) *scripting.Engine {
	t.Helper()
	lua, err := scripting.NewEngine("../../scripts", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(lua.Close)
	return lua
}

// newTestGame wires a session around an open floor map with no population.
func newTestGame(t *testing.T, w, h int) *Game {
	t.Helper()
	st := world.NewState(gamemap.New(w, h), world.NewMessageLog(zap.NewNop()))
	return assemble(st, loadTables(t), newLua(t), rand.New(rand.NewSource(3)), DefaultOptions(), zap.NewNop())
}

func (g *Game) placePlayer(t *testing.T, p geom.Point) ecs.EntityID {
	t.Helper()
	id := g.spawner.SpawnPlayer(p)
	g.refreshView()
	return id
}

func (g *Game) placeNpc(t *testing.T, key string, p geom.Point) ecs.EntityID {
	t.Helper()
	id, err := g.spawner.SpawnNpc(key, p)
	require.NoError(t, err)
	return id
}

// corridor walls off every row but y=1.
func corridor(g *Game) {
	m := g.Map()
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if y != 1 {
				m.SetTile(x, y, gamemap.Wall)
			}
		}
	}
	g.state.RefreshTransparency()
}

func playerPos(t *testing.T, g *Game) geom.Point {
	t.Helper()
	p, ok := g.state.PlayerPosition()
	require.True(t, ok)
	return p
}

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func TestNewBuildsPopulatedSession(t *testing.T) {
	tables := loadTables(t)
	g, err := New(DefaultOptions(), tables, newLua(t), rand.New(rand.NewSource(1)), zap.NewNop())
	require.NoError(t, err)

	m := g.Map()
	assert.Equal(t, tables.Map.Map.Width, m.Width)
	assert.Equal(t, tables.Map.Map.Height, m.Height)

	s, ok := g.PlayerStatus()
	require.True(t, ok)
	assert.True(t, s.Alive)
	assert.True(t, m.IsTileWalkable(s.Pos.X, s.Pos.Y))
	assert.True(t, m.IsTileBlocked(m.PointIdx(s.Pos)))
	assert.True(t, m.IsRevealed(m.PointIdx(s.Pos)))
	assert.Positive(t, g.State().View.VisibleCount())

	enemies := 0
	g.State().Factions.Each(func(_ ecs.EntityID, f *component.Faction) {
		if f.Kind == component.Enemy {
			enemies++
		}
	})
	assert.GreaterOrEqual(t, enemies, 1, "fixed thug spawn")
	assert.Equal(t, "08:00:00", g.Clock())
}

func TestWithMapFileOverridesNonZeroFields(t *testing.T) {
	o := DefaultOptions().withMapFile(&data.MapFile{Map: data.MapConfig{Width: 40, Gain: 0.5}})
	assert.Equal(t, 40, o.Width)
	assert.Equal(t, 60, o.Height)
	assert.Equal(t, 0.5, o.Params.Noise.Gain)
	assert.Equal(t, 5, o.Params.Noise.Octaves)

	assert.Equal(t, DefaultOptions(), DefaultOptions().withMapFile(nil))
}

func TestMovePlayerSteps(t *testing.T) {
	g := newTestGame(t, 10, 10)
	g.placePlayer(t, geom.Point{X: 2, Y: 2})

	assert.Equal(t, OutcomeMoved, g.MovePlayer(1, 0))
	m := g.Map()
	assert.Equal(t, geom.Point{X: 3, Y: 2}, playerPos(t, g))
	assert.False(t, m.IsTileBlocked(m.XYIdx(2, 2)))
	assert.True(t, m.IsTileBlocked(m.XYIdx(3, 2)))
	assert.True(t, g.State().View.IsInFOV(5, 2))
	assert.True(t, m.IsRevealed(m.XYIdx(5, 2)))

	assert.Equal(t, int64(1), g.Turns())
	assert.Contains(t, g.Messages(), m.Describe(3, 2))
	assert.Equal(t, "Time: 08:00:01", g.State().Messages.Last())
}

func TestMovePlayerIntoWallOrOffMap(t *testing.T) {
	g := newTestGame(t, 10, 10)
	g.Map().SetTile(1, 0, gamemap.Wall)
	g.state.RefreshTransparency()
	g.placePlayer(t, geom.Point{X: 0, Y: 0})

	assert.Equal(t, OutcomeNone, g.MovePlayer(1, 0))
	assert.Equal(t, OutcomeNone, g.MovePlayer(-1, 0))
	assert.Equal(t, OutcomeNone, g.MovePlayer(0, -1))
	assert.Equal(t, geom.Point{X: 0, Y: 0}, playerPos(t, g))
	assert.Zero(t, g.Turns())
}

func TestBumpEnemyAttacks(t *testing.T) {
	g := newTestGame(t, 10, 10)
	g.placePlayer(t, geom.Point{X: 2, Y: 2})
	thug := g.placeNpc(t, "thug", geom.Point{X: 3, Y: 2})

	assert.Equal(t, OutcomeAttacked, g.MovePlayer(1, 0))
	assert.Equal(t, geom.Point{X: 2, Y: 2}, playerPos(t, g))
	assert.Contains(t, g.Messages(), "Player kicked the Thug")
	assert.Equal(t, int64(1), g.Turns())

	stats, ok := g.State().Stats.Get(thug)
	require.True(t, ok)
	assert.Contains(t, []int{10, 8}, stats.HP, "a miss or a bare-handed hit")
}

func TestBumpVendorTrades(t *testing.T) {
	g := newTestGame(t, 10, 10)
	g.placePlayer(t, geom.Point{X: 2, Y: 2})
	g.placeNpc(t, "barkeep", geom.Point{X: 2, Y: 3})

	assert.Equal(t, OutcomeTraded, g.MovePlayer(0, 1))
	assert.Contains(t, g.Messages(), "Barkeep shows you the wares.")
	assert.Equal(t, geom.Point{X: 2, Y: 2}, playerPos(t, g))
}

func TestBumpTownsfolkTalks(t *testing.T) {
	g := newTestGame(t, 10, 10)
	g.placePlayer(t, geom.Point{X: 2, Y: 2})
	g.placeNpc(t, "patron", geom.Point{X: 1, Y: 1})

	assert.Equal(t, OutcomeTalked, g.MovePlayer(-1, -1))
	lines := g.Messages()
	said := false
	for _, l := range lines {
		if strings.HasSuffix(l, "says: Hola, tio!") {
			said = true
		}
	}
	assert.True(t, said, "conversation line in %v", lines)
	assert.Contains(t, lines, "  1) Tambien.")
}

func TestDeadPlayerCannotAct(t *testing.T) {
	g := newTestGame(t, 10, 10)
	id := g.placePlayer(t, geom.Point{X: 2, Y: 2})
	stats, _ := g.State().Stats.Get(id)
	stats.HP = 0

	assert.Equal(t, OutcomeNone, g.MovePlayer(1, 0))
	assert.Equal(t, geom.Point{X: 2, Y: 2}, playerPos(t, g))
	assert.Zero(t, g.Turns())
	s, _ := g.PlayerStatus()
	assert.False(t, s.Alive)
}

func TestAutoMoveWalksThePath(t *testing.T) {
	g := newTestGame(t, 12, 3)
	corridor(g)
	id := g.placePlayer(t, geom.Point{X: 1, Y: 1})
	m := g.Map()

	steps := g.PathTo(geom.Point{X: 6, Y: 1})
	assert.Equal(t, []int{m.XYIdx(2, 1), m.XYIdx(3, 1), m.XYIdx(4, 1), m.XYIdx(5, 1), m.XYIdx(6, 1)}, steps)

	moves := 0
	for len(g.AutoMoveSteps()) > 0 && moves < 10 {
		require.Equal(t, OutcomeMoved, g.AdvanceAutoMove())
		moves++
	}
	assert.Equal(t, 5, moves)
	assert.Equal(t, geom.Point{X: 6, Y: 1}, playerPos(t, g))
	assert.False(t, g.State().Paths.Has(id))
	assert.Equal(t, OutcomeNone, g.AdvanceAutoMove())
}

func TestAutoMoveStopsWhenBumping(t *testing.T) {
	g := newTestGame(t, 12, 3)
	corridor(g)
	id := g.placePlayer(t, geom.Point{X: 1, Y: 1})
	require.Len(t, g.PathTo(geom.Point{X: 6, Y: 1}), 5)
	g.placeNpc(t, "barkeep", geom.Point{X: 3, Y: 1})

	assert.Equal(t, OutcomeMoved, g.AdvanceAutoMove())
	assert.Equal(t, OutcomeTraded, g.AdvanceAutoMove())
	assert.Equal(t, geom.Point{X: 2, Y: 1}, playerPos(t, g))
	assert.False(t, g.State().Paths.Has(id))
	assert.Empty(t, g.AutoMoveSteps())
}

func TestPathToOwnTileIsEmpty(t *testing.T) {
	g := newTestGame(t, 10, 10)
	g.placePlayer(t, geom.Point{X: 4, Y: 4})
	assert.Empty(t, g.PathTo(geom.Point{X: 4, Y: 4}))
	assert.Nil(t, g.PathTo(geom.Point{X: 40, Y: 4}))
}

func TestWaitPostsClockOnce(t *testing.T) {
	g := newTestGame(t, 10, 10)
	g.placePlayer(t, geom.Point{X: 4, Y: 4})

	assert.Equal(t, int64(300), g.Wait(Minutes5))
	assert.Equal(t, int64(300), g.Turns())
	assert.Equal(t, "08:05:00", g.Clock())
	assert.Equal(t, 1, countPrefix(g.Messages(), "Time:"))

	assert.Equal(t, int64(7200), g.Wait(Hour2))
	assert.Equal(t, "10:05:00", g.Clock())
	assert.Equal(t, int64(0), g.Wait(WaitKind(99)))
}

func TestWaitTillDuskAndRest(t *testing.T) {
	g := newTestGame(t, 6, 6)
	g.placePlayer(t, geom.Point{X: 2, Y: 2})

	assert.Equal(t, int64(11*3600), g.Wait(TillDusk))
	assert.Equal(t, "19:00:00", g.Clock())
	assert.Equal(t, int64(8*3600), g.Rest())
	assert.Equal(t, "03:00:00", g.Clock())
	assert.Equal(t, int64(16*3600), g.Wait(TillDusk))
	assert.Equal(t, "19:00:00", g.Clock())
}

func TestKillsCountOnlyAgents(t *testing.T) {
	g := newTestGame(t, 10, 10)
	player := g.placePlayer(t, geom.Point{X: 1, Y: 1})
	thug := g.placeNpc(t, "thug", geom.Point{X: 7, Y: 7})
	stats, _ := g.State().Stats.Get(thug)
	stats.HP = 0

	g.EndTurn()
	assert.Equal(t, 1, g.Kills())
	assert.False(t, g.State().ECS.Alive(thug))
	assert.False(t, g.Map().IsTileBlocked(g.Map().XYIdx(7, 7)))

	ps, _ := g.State().Stats.Get(player)
	ps.HP = 0
	g.EndTurn()
	assert.Equal(t, 1, g.Kills())
	assert.Contains(t, g.Messages(), "You are DEAD!")
}

func TestPickUpEquipsThenStows(t *testing.T) {
	g := newTestGame(t, 10, 10)
	player := g.placePlayer(t, geom.Point{X: 3, Y: 3})
	first, err := g.spawner.SpawnItem("combat_knife", geom.Point{X: 3, Y: 3})
	require.NoError(t, err)
	second, err := g.spawner.SpawnItem("combat_knife", geom.Point{X: 3, Y: 3})
	require.NoError(t, err)

	st := g.State()
	require.True(t, g.PickUp())
	eq, ok := st.Equipped.Get(first)
	require.True(t, ok)
	assert.Equal(t, player, eq.Owner)
	assert.Equal(t, component.SlotMelee, eq.Slot)
	assert.False(t, st.Positions.Has(first))
	assert.Equal(t, 2, st.MeleeBonusOf(player))

	require.True(t, g.PickUp())
	assert.True(t, st.Backpack.Has(second))
	assert.False(t, st.Equipped.Has(second))

	assert.False(t, g.PickUp())
	assert.Equal(t, "There is nothing here to pick up.", st.Messages.Last())
	assert.Zero(t, g.Turns())
}

func TestNames(t *testing.T) {
	assert.Equal(t, "traded", OutcomeTraded.String())
	assert.Equal(t, "outcome(9)", Outcome(9).String())

	for k := Minutes5; k <= TillDusk; k++ {
		got, err := ParseWaitKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseWaitKind("forever")
	assert.Error(t, err)
}

func TestWaitAdvancesClockBetweenAgentPasses(t *testing.T) {
	g := newTestGame(t, 6, 6)
	g.placePlayer(t, geom.Point{X: 0, Y: 0})
	g.spawner.SpawnProp(geom.Point{X: 4, Y: 4}, component.Bed)
	patron := g.placeNpc(t, "patron", geom.Point{X: 2, Y: 2})

	g.state.AddTurns(10*3600 + 1800)
	require.Equal(t, "18:30:00", g.Clock())

	assert.Equal(t, int64(3600), g.Wait(Hour1))
	assert.Equal(t, "19:30:00", g.Clock())
	assert.True(t, g.state.Asleep.Has(patron), "agents saw dusk arrive during the wait")
}

func TestBedsAreNotReserved(t *testing.T) {
	g := newTestGame(t, 7, 7)
	g.placePlayer(t, geom.Point{X: 0, Y: 0})
	g.spawner.SpawnProp(geom.Point{X: 3, Y: 3}, component.Bed)
	a := g.placeNpc(t, "patron", geom.Point{X: 2, Y: 3})
	b := g.placeNpc(t, "patron", geom.Point{X: 4, Y: 3})

	g.state.AddTurns(11 * 3600)
	require.Equal(t, "19:00:00", g.Clock())
	g.EndTurn()

	assert.True(t, g.state.Asleep.Has(a))
	assert.True(t, g.state.Asleep.Has(b))
}
