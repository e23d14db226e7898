package system

import (
	"math/rand"

	"github.com/neontwilight/sim/internal/astar"
	"github.com/neontwilight/sim/internal/component"
	"github.com/neontwilight/sim/internal/core/ecs"
	"github.com/neontwilight/sim/internal/core/event"
	coresys "github.com/neontwilight/sim/internal/core/system"
	"github.com/neontwilight/sim/internal/geom"
	"github.com/neontwilight/sim/internal/world"
	"go.uber.org/zap"
)

// AISystem moves every agent once per turn. Positions and the occupancy
// bitmap change during the scan; everything that adds or removes a
// component is collected as an Effect and applied after the scan.
// Phase 1 (AI).
type AISystem struct {
	state *world.State
	bus   *event.Bus
	rng   *rand.Rand
	log   *zap.Logger

	pending []Effect
}

func NewAISystem(ws *world.State, bus *event.Bus, rng *rand.Rand, log *zap.Logger) *AISystem {
	return &AISystem{state: ws, bus: bus, rng: rng, log: log}
}

func (s *AISystem) Phase() coresys.Phase { return coresys.PhaseAI }

func (s *AISystem) Update() {
	s.Apply(s.Plan())
}

// agentView is what one agent's branch needs, assembled once per agent.
type agentView struct {
	id     ecs.EntityID
	pos    *component.Position
	vendor bool
	asleep bool
	path   *component.Path
}

// tickView is the per-pass context shared by every agent.
type tickView struct {
	timeOfDay int64
	player    ecs.EntityID
	playerPos geom.Point
	hasPlayer bool
	beds      []geom.Point
	vendors   []geom.Point
}

// Plan scans all agents, moving them in place, and returns the structural
// changes they asked for in scan order.
func (s *AISystem) Plan() []Effect {
	st := s.state
	s.pending = s.pending[:0]

	tv := tickView{
		timeOfDay: st.TimeOfDay(),
		beds:      st.PropPositions(component.Bed),
		vendors:   st.VendorPositions(),
	}
	tv.player, tv.hasPlayer = st.Player()
	if tv.hasPlayer {
		tv.playerPos, tv.hasPlayer = st.PlayerPosition()
	}

	ecs.Each3(st.AIs, st.Positions, st.Factions, func(id ecs.EntityID, _ *component.AI, pos *component.Position, f *component.Faction) {
		if cs, ok := st.Stats.Get(id); ok && cs.HP <= 0 {
			return
		}
		if !st.Names.Has(id) {
			return
		}
		a := agentView{
			id:     id,
			pos:    pos,
			vendor: st.Vendors.Has(id),
			asleep: st.Asleep.Has(id),
		}
		if p, ok := st.Paths.Get(id); ok {
			a.path = p
		}
		switch f.Kind {
		case component.Townsfolk:
			if !a.vendor {
				s.townsfolk(&a, &tv)
			}
		case component.Enemy:
			s.enemy(&a, &tv)
		}
	})

	out := make([]Effect, len(s.pending))
	copy(out, s.pending)
	return out
}

// townsfolk runs the daily routine: sleep through the night, walk to the
// vendor on waking, wander during the day, head to the nearest bed at dusk.
func (s *AISystem) townsfolk(a *agentView, tv *tickView) {
	cal := s.state.Calendar
	t := tv.timeOfDay
	switch {
	case t >= cal.Evening || t <= cal.Wake:
		s.seekBed(a, tv)
	case t > cal.Morning:
		if a.asleep {
			s.push(Effect{Kind: EffectWake, Agent: a.id})
		}
		if a.path != nil {
			s.push(Effect{Kind: EffectClearPath, Agent: a.id})
		}
		s.wander(a)
	default:
		if a.asleep {
			s.seekVendor(a, tv)
			return
		}
		if a.path == nil {
			return
		}
		if len(a.path.Steps) > 2 {
			s.moveAlongPath(a)
			return
		}
		s.push(Effect{Kind: EffectClearPath, Agent: a.id})
	}
}

func (s *AISystem) seekBed(a *agentView, tv *tickView) {
	if a.path != nil {
		if len(a.path.Steps) > 2 {
			s.moveAlongPath(a)
			return
		}
		s.push(Effect{Kind: EffectClearPath, Agent: a.id})
		if !a.asleep {
			s.push(Effect{Kind: EffectAttachAsleep, Agent: a.id})
		}
		return
	}
	bed, ok := nearest(*a.pos, tv.beds)
	if !ok {
		return
	}
	if geom.Chebyshev(*a.pos, bed) <= 1 {
		if !a.asleep {
			s.push(Effect{Kind: EffectAttachAsleep, Agent: a.id})
		}
		return
	}
	m := s.state.Map
	s.setupPathAndStep(a, astar.PathFor(m, m.PointIdx(*a.pos), m.PointIdx(bed)))
}

func (s *AISystem) seekVendor(a *agentView, tv *tickView) {
	vendor, ok := nearest(*a.pos, tv.vendors)
	if !ok {
		s.push(Effect{Kind: EffectWake, Agent: a.id})
		return
	}
	m := s.state.Map
	steps := astar.PathFor(m, m.PointIdx(*a.pos), m.PointIdx(vendor))
	if len(steps) < 2 {
		s.push(Effect{Kind: EffectWake, Agent: a.id})
		return
	}
	s.setupPathAndStep(a, steps)
}

// wander takes one random cardinal step, or stays put on the fifth roll.
func (s *AISystem) wander(a *agentView) {
	dest := *a.pos
	switch s.rng.Intn(5) {
	case 0:
		dest.X--
	case 1:
		dest.X++
	case 2:
		dest.Y--
	case 3:
		dest.Y++
	default:
		return
	}
	m := s.state.Map
	if !m.IsTileWalkable(dest.X, dest.Y) || m.IsTileBlocked(m.PointIdx(dest)) {
		return
	}
	m.MoveBlocked(m.PointIdx(*a.pos), m.PointIdx(dest))
	*a.pos = dest
}

// setupPathAndStep takes the first step of a fresh path when it is free and
// stages the path for attachment either way.
func (s *AISystem) setupPathAndStep(a *agentView, steps []int) {
	if len(steps) < 2 {
		return
	}
	pos, stepped := astar.Claim(s.state.Map, steps, *a.pos)
	*a.pos = pos
	s.push(Effect{Kind: EffectAttachPath, Agent: a.id, Steps: steps, Stepped: stepped})
}

// moveAlongPath steps onto Steps[1] if it is free and drops it from the
// path. Steps[0] stays the tile the path started from.
func (s *AISystem) moveAlongPath(a *agentView) {
	m := s.state.Map
	next := a.path.Steps[1]
	if geom.Chebyshev(*a.pos, m.IdxPoint(next)) != 1 {
		s.push(Effect{Kind: EffectClearPath, Agent: a.id})
		return
	}
	if m.IsTileBlocked(next) {
		return
	}
	m.MoveBlocked(m.PointIdx(*a.pos), next)
	*a.pos = m.IdxPoint(next)
	a.path.Steps = append(a.path.Steps[:1], a.path.Steps[2:]...)
}

// enemy attacks an adjacent player, otherwise closes in while the player
// can see it.
func (s *AISystem) enemy(a *agentView, tv *tickView) {
	if !tv.hasPlayer {
		return
	}
	if geom.Chebyshev(*a.pos, tv.playerPos) <= 1 {
		s.push(Effect{Kind: EffectAttack, Agent: a.id, Target: tv.player})
		return
	}
	// FOV is assumed symmetric: if the player sees this tile, the agent sees the player.
	if !s.state.View.IsInFOV(a.pos.X, a.pos.Y) {
		return
	}
	m := s.state.Map
	goal := m.PointIdx(tv.playerPos)
	pos, next := astar.StepToward(m, *a.pos, goal)
	if next == goal {
		s.push(Effect{Kind: EffectAttack, Agent: a.id, Target: tv.player})
		return
	}
	*a.pos = pos
}

func (s *AISystem) push(e Effect) {
	s.pending = append(s.pending, e)
}

// Apply commits effects in order. It must run outside any store iteration.
func (s *AISystem) Apply(effects []Effect) {
	st := s.state
	for _, e := range effects {
		if !st.ECS.Alive(e.Agent) {
			continue
		}
		switch e.Kind {
		case EffectAttachPath:
			st.Paths.Remove(e.Agent)
			st.Asleep.Remove(e.Agent)
			steps := append([]int(nil), e.Steps...)
			if e.Stepped && len(steps) > 1 {
				steps = append(steps[:1], steps[2:]...)
			}
			st.Paths.Set(e.Agent, &component.Path{Steps: steps})
		case EffectAttachAsleep:
			st.Asleep.Set(e.Agent, &component.Asleep{})
			s.log.Debug("agent asleep", zap.String("agent", st.NameOf(e.Agent)))
		case EffectClearPath:
			st.Paths.Remove(e.Agent)
		case EffectWake:
			st.Asleep.Remove(e.Agent)
		case EffectAttack:
			st.Messages.Add("AI "+st.NameOf(e.Agent)+" kicked at the player", zap.String("agent", st.NameOf(e.Agent)))
			event.Emit(s.bus, event.AttackIntent{Attacker: e.Agent, Target: e.Target})
		}
	}
}

// nearest returns the candidate with the smallest Chebyshev distance to p;
// ties go to the earlier candidate.
func nearest(p geom.Point, candidates []geom.Point) (geom.Point, bool) {
	best, bestDist := geom.Point{}, -1
	for _, c := range candidates {
		d := geom.Chebyshev(p, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}
