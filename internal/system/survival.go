package system

import (
	coresys "github.com/neontwilight/sim/internal/core/system"
	"github.com/neontwilight/sim/internal/world"
)

// SurvivalSystem drains the player's hunger and thirst by one each turn.
// Phase 4 (Survival).
type SurvivalSystem struct {
	state *world.State
}

func NewSurvivalSystem(ws *world.State) *SurvivalSystem {
	return &SurvivalSystem{state: ws}
}

func (s *SurvivalSystem) Phase() coresys.Phase { return coresys.PhaseSurvival }

func (s *SurvivalSystem) Update() {
	id, ok := s.state.Player()
	if !ok {
		return
	}
	needs, ok := s.state.Needs.Get(id)
	if !ok {
		return
	}
	needs.Hunger--
	needs.Thirst--
}
