package system

import (
	coresys "github.com/neontwilight/sim/internal/core/system"
	"github.com/neontwilight/sim/internal/world"
)

// CalendarSystem advances the turn counter by one second. Phase 5 (Calendar).
type CalendarSystem struct {
	state *world.State
}

func NewCalendarSystem(ws *world.State) *CalendarSystem {
	return &CalendarSystem{state: ws}
}

func (s *CalendarSystem) Phase() coresys.Phase { return coresys.PhaseCalendar }

func (s *CalendarSystem) Update() {
	Advance(s.state, 1)
}

// Advance adds n turns to the player's counter and posts the new time.
// Without a player it does nothing.
func Advance(ws *world.State, n int64) {
	turns, ok := ws.AddTurns(n)
	if !ok {
		return
	}
	ws.Messages.Add("Time: " + ws.Calendar.Clock(turns))
}
