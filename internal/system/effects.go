package system

import (
	"fmt"

	"github.com/neontwilight/sim/internal/core/ecs"
)

// EffectKind tags a deferred agent mutation.
type EffectKind uint8

const (
	// EffectAttachPath replaces the agent's Path and wakes it.
	EffectAttachPath EffectKind = iota
	// EffectAttachAsleep puts the agent to sleep.
	EffectAttachAsleep
	// EffectClearPath drops the agent's Path.
	EffectClearPath
	// EffectWake removes Asleep without giving a new goal.
	EffectWake
	// EffectAttack queues a melee attack on Target.
	EffectAttack
)

func (k EffectKind) String() string {
	switch k {
	case EffectAttachPath:
		return "attach-path"
	case EffectAttachAsleep:
		return "attach-asleep"
	case EffectClearPath:
		return "clear-path"
	case EffectWake:
		return "wake"
	case EffectAttack:
		return "attack"
	}
	return fmt.Sprintf("effect(%d)", int(k))
}

// Effect is one pending change collected during the agent scan and applied
// after it. Steps and Stepped are only read for EffectAttachPath; Target
// only for EffectAttack.
type Effect struct {
	Kind    EffectKind
	Agent   ecs.EntityID
	Steps   []int
	Stepped bool // the agent already moved onto Steps[1] during the scan
	Target  ecs.EntityID
}
