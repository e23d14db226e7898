package system

import (
	"github.com/neontwilight/sim/internal/component"
	"github.com/neontwilight/sim/internal/core/ecs"
	"github.com/neontwilight/sim/internal/core/event"
	coresys "github.com/neontwilight/sim/internal/core/system"
	"github.com/neontwilight/sim/internal/world"
	"go.uber.org/zap"
)

// DeathSystem sweeps actors at zero hit points. Dead agents drop what they
// wear onto their tile, free the tile and are destroyed; a dead player only
// gets told. Phase 3 (Cleanup).
type DeathSystem struct {
	state *world.State
	bus   *event.Bus
	log   *zap.Logger
}

func NewDeathSystem(ws *world.State, bus *event.Bus, log *zap.Logger) *DeathSystem {
	return &DeathSystem{state: ws, bus: bus, log: log}
}

func (s *DeathSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *DeathSystem) Update() {
	st := s.state
	var dead []ecs.EntityID
	st.Stats.Each(func(id ecs.EntityID, cs *component.CombatStats) {
		if cs.HP <= 0 {
			dead = append(dead, id)
		}
	})

	for _, id := range dead {
		if st.Players.Has(id) {
			st.Messages.Add("You are DEAD!")
			continue
		}
		name := st.NameOf(id)
		if pos, ok := st.Positions.Get(id); ok {
			for _, item := range st.EquippedBy(id) {
				st.Equipped.Remove(item)
				drop := *pos
				st.Positions.Set(item, &drop)
			}
			st.Map.ClearTileBlocked(st.Map.PointIdx(*pos))
		}
		st.Messages.Add("AI "+name+" is dead", zap.String("agent", name))
		event.Emit(s.bus, event.EntityDied{EntityID: id, Name: name})
		st.ECS.MarkForDestruction(id)
	}
	if n := st.ECS.FlushDestroyQueue(); n > 0 {
		s.log.Debug("death sweep", zap.Int("destroyed", n))
	}
}
