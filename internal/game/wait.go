package game

import (
	"fmt"

	coresys "github.com/neontwilight/sim/internal/core/system"
	"go.uber.org/zap"
)

// WaitKind selects how long the player waits.
type WaitKind int

const (
	Minutes5 WaitKind = iota
	Minutes30
	Hour1
	Hour2
	TillDusk
)

func (k WaitKind) String() string {
	switch k {
	case Minutes5:
		return "5m"
	case Minutes30:
		return "30m"
	case Hour1:
		return "1h"
	case Hour2:
		return "2h"
	case TillDusk:
		return "dusk"
	}
	return fmt.Sprintf("wait(%d)", int(k))
}

// ParseWaitKind maps the command names used by the CLI.
func ParseWaitKind(s string) (WaitKind, error) {
	for k := Minutes5; k <= TillDusk; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown wait %q", s)
}

const restTurns = 8 * 3600

// Wait lets the world run for the chosen span and returns the turns spent.
// TillDusk waits until the evening threshold, tomorrow's once it has passed.
func (g *Game) Wait(kind WaitKind) int64 {
	var n int64
	switch kind {
	case Minutes5:
		n = 5 * 60
	case Minutes30:
		n = 30 * 60
	case Hour1:
		n = 3600
	case Hour2:
		n = 2 * 3600
	case TillDusk:
		n = g.state.Calendar.UntilEvening(g.state.Turns())
	default:
		return 0
	}
	g.pass(n)
	return n
}

// Rest sleeps for eight hours and returns the turns spent.
func (g *Game) Rest() int64 {
	g.pass(restTurns)
	return restTurns
}

// pass runs n quiet AI and combat passes, one second each, with no
// interruption. The dead are swept and the clock is posted once at the end.
func (g *Game) pass(n int64) {
	for i := int64(0); i < n; i++ {
		g.runner.TickPhase(coresys.PhaseAI)
		g.runner.TickPhase(coresys.PhaseCombat)
		g.state.AddTurns(1)
	}
	g.runner.TickPhase(coresys.PhaseCleanup)
	g.drain()
	g.state.Messages.Add("Time: "+g.Clock(), zap.Int64("turns", n))
}
