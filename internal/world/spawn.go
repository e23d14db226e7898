package world

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/neontwilight/sim/internal/component"
	"github.com/neontwilight/sim/internal/core/ecs"
	"github.com/neontwilight/sim/internal/data"
	"github.com/neontwilight/sim/internal/geom"
	"github.com/neontwilight/sim/internal/mapgen"
	"go.uber.org/zap"
)

// Player starting numbers.
const (
	playerHP     = 20
	playerHunger = 500
	playerThirst = 300
	playerMoney  = 100
)

var propTags = map[string]component.PropKind{
	mapgen.TagTable: component.Table,
	mapgen.TagChair: component.Chair,
	mapgen.TagBed:   component.Bed,
}

var slotNames = map[string]component.EquipmentSlot{
	"melee": component.SlotMelee,
	"torso": component.SlotTorso,
	"legs":  component.SlotLegs,
	"feet":  component.SlotFeet,
}

// Spawner turns prefab keys and builder spawn tags into entities.
type Spawner struct {
	state  *State
	tables *data.Tables
	rng    *rand.Rand
	log    *zap.Logger
}

func NewSpawner(s *State, tables *data.Tables, rng *rand.Rand, log *zap.Logger) *Spawner {
	return &Spawner{state: s, tables: tables, rng: rng, log: log}
}

// Realize spawns every (tile, tag) pair in order and returns how many
// entities were created. Unknown tags are logged and skipped.
func (sp *Spawner) Realize(spawns []mapgen.Spawn) int {
	n := 0
	for _, s := range spawns {
		if err := sp.SpawnTag(sp.state.Map.IdxPoint(s.Idx), s.Tag); err != nil {
			sp.log.Warn("spawn skipped", zap.String("tag", s.Tag), zap.Int("idx", s.Idx), zap.Error(err))
			continue
		}
		n++
	}
	return n
}

// SpawnTag places a prop or an actor for a builder tag. Actor tags map to
// prefab keys by lower-casing ("Barkeep" -> "barkeep").
func (sp *Spawner) SpawnTag(p geom.Point, tag string) error {
	if kind, ok := propTags[tag]; ok {
		sp.SpawnProp(p, kind)
		return nil
	}
	_, err := sp.SpawnNpc(strings.ToLower(tag), p)
	return err
}

// SpawnProp places a piece of furniture. Props never block.
func (sp *Spawner) SpawnProp(p geom.Point, kind component.PropKind) ecs.EntityID {
	id := sp.state.ECS.CreateEntity()
	pos := p
	sp.state.Positions.Set(id, &pos)
	sp.state.Props.Set(id, &component.Prop{Kind: kind})
	return id
}

// SpawnNpc creates an actor from its prefab, claims its tile and dresses it
// in its starting equipment.
func (sp *Spawner) SpawnNpc(key string, p geom.Point) (ecs.EntityID, error) {
	prefab, err := sp.tables.Npcs.Get(key)
	if err != nil {
		return 0, err
	}
	faction := component.Townsfolk
	switch prefab.Faction {
	case "townsfolk":
	case "enemy":
		faction = component.Enemy
	default:
		return 0, fmt.Errorf("npc %q: unknown faction %q", key, prefab.Faction)
	}

	s := sp.state
	id := s.ECS.CreateEntity()
	pos := p
	s.Positions.Set(id, &pos)
	name := prefab.Name
	if len(prefab.Names) > 0 {
		name = prefab.Names[sp.rng.Intn(len(prefab.Names))]
	}
	s.Names.Set(id, &component.Name{Text: name})
	s.Factions.Set(id, &component.Faction{Kind: faction})
	s.Stats.Set(id, &component.CombatStats{
		MaxHP:   prefab.Combat.MaxHP,
		HP:      prefab.Combat.HP,
		Defense: prefab.Combat.Defense,
		Power:   prefab.Combat.Power,
	})
	if prefab.AI {
		s.AIs.Set(id, &component.AI{})
	}
	if prefab.Vendor {
		s.Vendors.Set(id, &component.Vendor{})
	}
	if c := prefab.Conversation; c != nil {
		s.Conversations.Set(id, &component.Conversation{Text: c.Text, Answers: append([]string(nil), c.Answers...)})
	}
	s.Map.SetTileBlocked(s.Map.PointIdx(p))

	for _, itemKey := range prefab.Equipment {
		if _, err := sp.SpawnEquipped(itemKey, id); err != nil {
			return id, fmt.Errorf("npc %q: %w", key, err)
		}
	}
	sp.log.Debug("npc spawned", zap.String("key", key), zap.String("name", name), zap.Int("x", p.X), zap.Int("y", p.Y))
	return id, nil
}

// SpawnItem creates an item lying on the ground at p.
func (sp *Spawner) SpawnItem(key string, p geom.Point) (ecs.EntityID, error) {
	id, err := sp.newItem(key)
	if err != nil {
		return 0, err
	}
	pos := p
	sp.state.Positions.Set(id, &pos)
	return id, nil
}

// SpawnEquipped creates an item worn by owner. Worn items have no position.
func (sp *Spawner) SpawnEquipped(key string, owner ecs.EntityID) (ecs.EntityID, error) {
	id, err := sp.newItem(key)
	if err != nil {
		return 0, err
	}
	it, _ := sp.state.Items.Get(id)
	sp.state.Equipped.Set(id, &component.Equipped{Owner: owner, Slot: it.Slot})
	return id, nil
}

func (sp *Spawner) newItem(key string) (ecs.EntityID, error) {
	prefab, err := sp.tables.Items.Get(key)
	if err != nil {
		return 0, err
	}
	slot, ok := slotNames[prefab.Slot]
	if !ok {
		return 0, fmt.Errorf("item %q: unknown slot %q", key, prefab.Slot)
	}
	s := sp.state
	id := s.ECS.CreateEntity()
	s.Names.Set(id, &component.Name{Text: prefab.Name})
	s.Items.Set(id, &component.Item{Slot: slot})
	if prefab.MeleeBonus > 0 {
		s.MeleeBonuses.Set(id, &component.MeleeBonus{Bonus: prefab.MeleeBonus})
	}
	if prefab.DefenseBonus > 0 {
		s.DefBonuses.Set(id, &component.DefenseBonus{Bonus: prefab.DefenseBonus})
	}
	return id, nil
}

// SpawnPlayer creates the player at p with the starting kit and claims the tile.
func (sp *Spawner) SpawnPlayer(p geom.Point) ecs.EntityID {
	s := sp.state
	id := s.ECS.CreateEntity()
	pos := p
	s.Positions.Set(id, &pos)
	s.Names.Set(id, &component.Name{Text: "player"})
	s.Players.Set(id, &component.Player{})
	s.Stats.Set(id, &component.CombatStats{MaxHP: playerHP, HP: playerHP, Defense: 1, Power: 1})
	s.Needs.Set(id, &component.Needs{Hunger: playerHunger, Thirst: playerThirst})
	s.Money.Set(id, &component.Money{Amount: playerMoney})
	s.GameStates.Set(id, &component.GameState{})
	s.Map.SetTileBlocked(s.Map.PointIdx(p))
	return id
}

// SpawnFixed places the map file's fixed spawns, each on the free walkable
// tile nearest its requested position.
func (sp *Spawner) SpawnFixed(f *data.MapFile) {
	for _, fs := range f.NpcSpawns {
		p, ok := sp.NearestFree(geom.Point{X: fs.X, Y: fs.Y})
		if !ok {
			sp.log.Warn("no free tile for fixed spawn", zap.String("key", fs.Key))
			continue
		}
		if _, err := sp.SpawnNpc(fs.Key, p); err != nil {
			sp.log.Warn("fixed spawn skipped", zap.String("key", fs.Key), zap.Error(err))
		}
	}
	for _, fs := range f.ItemSpawns {
		p, ok := sp.NearestWalkable(geom.Point{X: fs.X, Y: fs.Y})
		if !ok {
			continue
		}
		if _, err := sp.SpawnItem(fs.Key, p); err != nil {
			sp.log.Warn("fixed spawn skipped", zap.String("key", fs.Key), zap.Error(err))
		}
	}
}

// NearestFree scans Chebyshev rings around p for a walkable, unclaimed tile.
func (sp *Spawner) NearestFree(p geom.Point) (geom.Point, bool) {
	m := sp.state.Map
	return sp.nearest(p, func(q geom.Point) bool {
		return !m.IsTileBlocked(m.PointIdx(q))
	})
}

// NearestWalkable is NearestFree without the occupancy check.
func (sp *Spawner) NearestWalkable(p geom.Point) (geom.Point, bool) {
	return sp.nearest(p, func(geom.Point) bool { return true })
}

func (sp *Spawner) nearest(p geom.Point, ok func(geom.Point) bool) (geom.Point, bool) {
	m := sp.state.Map
	limit := m.Width
	if m.Height > limit {
		limit = m.Height
	}
	for r := 0; r <= limit; r++ {
		for y := p.Y - r; y <= p.Y+r; y++ {
			for x := p.X - r; x <= p.X+r; x++ {
				if geom.Chebyshev(p, geom.Point{X: x, Y: y}) != r {
					continue
				}
				q := geom.Point{X: x, Y: y}
				if m.IsTileWalkable(x, y) && ok(q) {
					return q, true
				}
			}
		}
	}
	return geom.Point{}, false
}
