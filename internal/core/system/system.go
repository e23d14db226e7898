package system

// Phase defines execution ordering within a single turn.
type Phase int

const (
	PhaseInput    Phase = iota // 0: player command already applied
	PhaseAI                    // 1: agent scan + commit of deferred mutations
	PhaseCombat                // 2: resolve queued attacks
	PhaseCleanup               // 3: death sweep, destroy queued entities
	PhaseSurvival              // 4: hunger and thirst
	PhaseCalendar              // 5: advance the turn counter

	phaseCount
)

var phaseNames = [...]string{"input", "ai", "combat", "cleanup", "survival", "calendar"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every turn system implements.
type System interface {
	Phase() Phase
	Update()
}
