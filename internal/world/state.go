package world

import (
	"github.com/neontwilight/sim/internal/component"
	"github.com/neontwilight/sim/internal/core/ecs"
	"github.com/neontwilight/sim/internal/fov"
	"github.com/neontwilight/sim/internal/gamemap"
	"github.com/neontwilight/sim/internal/geom"
)

// State owns the entity store, every component store and the map.
// Single-goroutine access only (turn loop), no locks needed.
type State struct {
	ECS      *ecs.World
	Map      *gamemap.Map
	View     *fov.MapData
	Messages *MessageLog
	Calendar Calendar

	Positions     *ecs.Store[component.Position]
	Names         *ecs.Store[component.Name]
	Players       *ecs.Store[component.Player]
	AIs           *ecs.Store[component.AI]
	Factions      *ecs.Store[component.Faction]
	Vendors       *ecs.Store[component.Vendor]
	Asleep        *ecs.Store[component.Asleep]
	Paths         *ecs.Store[component.Path]
	Stats         *ecs.Store[component.CombatStats]
	Needs         *ecs.Store[component.Needs]
	Money         *ecs.Store[component.Money]
	Conversations *ecs.Store[component.Conversation]
	GameStates    *ecs.Store[component.GameState]
	Props         *ecs.Store[component.Prop]
	Items         *ecs.Store[component.Item]
	Equipped      *ecs.Store[component.Equipped]
	Backpack      *ecs.Store[component.InBackpack]
	MeleeBonuses  *ecs.Store[component.MeleeBonus]
	DefBonuses    *ecs.Store[component.DefenseBonus]
}

// NewState wraps m with empty stores and a view grid whose transparency
// mirrors the map's opaque tiles.
func NewState(m *gamemap.Map, messages *MessageLog) *State {
	w := ecs.NewWorld()
	s := &State{
		ECS:      w,
		Map:      m,
		View:     fov.NewMapData(m.Width, m.Height),
		Messages: messages,
		Calendar: DefaultCalendar(),

		Positions:     ecs.NewRegisteredStore[component.Position](w, "position"),
		Names:         ecs.NewRegisteredStore[component.Name](w, "name"),
		Players:       ecs.NewRegisteredStore[component.Player](w, "player"),
		AIs:           ecs.NewRegisteredStore[component.AI](w, "ai"),
		Factions:      ecs.NewRegisteredStore[component.Faction](w, "faction"),
		Vendors:       ecs.NewRegisteredStore[component.Vendor](w, "vendor"),
		Asleep:        ecs.NewRegisteredStore[component.Asleep](w, "asleep"),
		Paths:         ecs.NewRegisteredStore[component.Path](w, "path"),
		Stats:         ecs.NewRegisteredStore[component.CombatStats](w, "combat_stats"),
		Needs:         ecs.NewRegisteredStore[component.Needs](w, "needs"),
		Money:         ecs.NewRegisteredStore[component.Money](w, "money"),
		Conversations: ecs.NewRegisteredStore[component.Conversation](w, "conversation"),
		GameStates:    ecs.NewRegisteredStore[component.GameState](w, "game_state"),
		Props:         ecs.NewRegisteredStore[component.Prop](w, "prop"),
		Items:         ecs.NewRegisteredStore[component.Item](w, "item"),
		Equipped:      ecs.NewRegisteredStore[component.Equipped](w, "equipped"),
		Backpack:      ecs.NewRegisteredStore[component.InBackpack](w, "backpack"),
		MeleeBonuses:  ecs.NewRegisteredStore[component.MeleeBonus](w, "melee_bonus"),
		DefBonuses:    ecs.NewRegisteredStore[component.DefenseBonus](w, "defense_bonus"),
	}
	s.RefreshTransparency()
	return s
}

// RefreshTransparency copies the map's opacity into the view grid.
func (s *State) RefreshTransparency() {
	mask := s.Map.TransparencyMask()
	for idx, transparent := range mask {
		x, y := s.Map.IdxXY(idx)
		s.View.SetTransparent(x, y, transparent)
	}
}

// Player returns the player entity, if one exists.
func (s *State) Player() (ecs.EntityID, bool) {
	id, _, ok := s.Players.First()
	return id, ok
}

// PlayerPosition returns the player's tile.
func (s *State) PlayerPosition() (geom.Point, bool) {
	id, ok := s.Player()
	if !ok {
		return geom.Point{}, false
	}
	p, ok := s.Positions.Get(id)
	if !ok {
		return geom.Point{}, false
	}
	return *p, true
}

// Turns returns the turn counter kept on the player; zero without a player.
func (s *State) Turns() int64 {
	id, ok := s.Player()
	if !ok {
		return 0
	}
	gs, ok := s.GameStates.Get(id)
	if !ok {
		return 0
	}
	return gs.Turns
}

// TimeOfDay returns seconds since midnight for the current turn.
func (s *State) TimeOfDay() int64 {
	return s.Calendar.TimeOfDay(s.Turns())
}

// ActorAt returns the living actor (anything with combat stats) standing on p.
func (s *State) ActorAt(p geom.Point) (ecs.EntityID, bool) {
	var found ecs.EntityID
	ecs.Each2(s.Positions, s.Stats, func(id ecs.EntityID, pos *component.Position, _ *component.CombatStats) {
		if found.IsZero() && *pos == p {
			found = id
		}
	})
	return found, !found.IsZero()
}

// PropPositions returns the tiles of every prop of the given kind.
func (s *State) PropPositions(kind component.PropKind) []geom.Point {
	var out []geom.Point
	ecs.Each2(s.Props, s.Positions, func(_ ecs.EntityID, prop *component.Prop, pos *component.Position) {
		if prop.Kind == kind {
			out = append(out, *pos)
		}
	})
	return out
}

// VendorPositions returns the tiles of every vendor.
func (s *State) VendorPositions() []geom.Point {
	var out []geom.Point
	ecs.Each2(s.Vendors, s.Positions, func(_ ecs.EntityID, _ *component.Vendor, pos *component.Position) {
		out = append(out, *pos)
	})
	return out
}

// ItemAt returns an item lying on the ground at p.
func (s *State) ItemAt(p geom.Point) (ecs.EntityID, bool) {
	var found ecs.EntityID
	ecs.Each2(s.Items, s.Positions, func(id ecs.EntityID, _ *component.Item, pos *component.Position) {
		if found.IsZero() && *pos == p {
			found = id
		}
	})
	return found, !found.IsZero()
}

// MeleeBonusOf sums the melee bonus of every item worn by owner.
func (s *State) MeleeBonusOf(owner ecs.EntityID) int {
	total := 0
	ecs.Each2(s.Equipped, s.MeleeBonuses, func(_ ecs.EntityID, eq *component.Equipped, mb *component.MeleeBonus) {
		if eq.Owner == owner {
			total += mb.Bonus
		}
	})
	return total
}

// EquippedBy lists the items worn by owner.
func (s *State) EquippedBy(owner ecs.EntityID) []ecs.EntityID {
	var out []ecs.EntityID
	s.Equipped.Each(func(id ecs.EntityID, eq *component.Equipped) {
		if eq.Owner == owner {
			out = append(out, id)
		}
	})
	return out
}

// SlotTaken reports whether owner already wears something in slot.
func (s *State) SlotTaken(owner ecs.EntityID, slot component.EquipmentSlot) bool {
	taken := false
	s.Equipped.Each(func(_ ecs.EntityID, eq *component.Equipped) {
		if eq.Owner == owner && eq.Slot == slot {
			taken = true
		}
	})
	return taken
}

// NameOf returns the display name of id, or "something" when unnamed.
func (s *State) NameOf(id ecs.EntityID) string {
	if n, ok := s.Names.Get(id); ok {
		return DisplayName(n.Text)
	}
	return "something"
}

// AddTurns advances the player's turn counter by n and returns the new
// value. Without a player it does nothing and reports false.
func (s *State) AddTurns(n int64) (int64, bool) {
	id, ok := s.Player()
	if !ok {
		return 0, false
	}
	gs, ok := s.GameStates.Get(id)
	if !ok {
		return 0, false
	}
	gs.Turns += n
	return gs.Turns, true
}
