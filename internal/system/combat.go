package system

import (
	"fmt"
	"math/rand"

	"github.com/neontwilight/sim/internal/core/event"
	coresys "github.com/neontwilight/sim/internal/core/system"
	"github.com/neontwilight/sim/internal/scripting"
	"github.com/neontwilight/sim/internal/world"
	"go.uber.org/zap"
)

// meleeSkill is the skill level every actor attacks with.
const meleeSkill = 1

// CombatSystem resolves the attacks queued this turn through the Lua melee
// rules. Phase 2 (Combat).
type CombatSystem struct {
	state *world.State
	bus   *event.Bus
	lua   *scripting.Engine
	rng   *rand.Rand
	log   *zap.Logger
}

func NewCombatSystem(ws *world.State, bus *event.Bus, lua *scripting.Engine, rng *rand.Rand, log *zap.Logger) *CombatSystem {
	s := &CombatSystem{state: ws, bus: bus, lua: lua, rng: rng, log: log}
	event.Subscribe(bus, s.resolve)
	return s
}

func (s *CombatSystem) Phase() coresys.Phase { return coresys.PhaseCombat }

// Update makes this turn's intents readable and delivers them.
func (s *CombatSystem) Update() {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

func (s *CombatSystem) resolve(ev event.AttackIntent) {
	st := s.state
	if !st.ECS.Alive(ev.Attacker) || !st.ECS.Alive(ev.Target) {
		return
	}
	target, ok := st.Stats.Get(ev.Target)
	if !ok {
		return
	}

	rolls := make([]bool, s.lua.MeleeRolls(meleeSkill))
	for i := range rolls {
		rolls[i] = s.rng.Intn(2) == 1
	}
	attacker, victim := st.NameOf(ev.Attacker), st.NameOf(ev.Target)
	res := s.lua.ResolveMelee(scripting.MeleeContext{
		Attacker:    attacker,
		Target:      victim,
		Rolls:       rolls,
		MeleeBonus:  st.MeleeBonusOf(ev.Attacker),
		TargetHP:    target.HP,
		TargetMaxHP: target.MaxHP,
	})

	if !res.IsHit {
		st.Messages.Add(fmt.Sprintf("%s attacks %s: miss (%d/%d)", attacker, victim, res.Successes, len(rolls)),
			zap.String("attacker", attacker), zap.String("target", victim))
		return
	}
	target.HP -= res.Damage
	st.Messages.Add(fmt.Sprintf("%s hits %s for %d damage", attacker, victim, res.Damage),
		zap.String("attacker", attacker), zap.String("target", victim),
		zap.Int("damage", res.Damage), zap.Int("hp", target.HP))
}
