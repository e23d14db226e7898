package component

import "github.com/neontwilight/sim/internal/geom"

// Pure data, zero methods on the structs below: all mutations happen in
// system functions or in the world helpers.

// Position is the tile an entity stands on.
type Position = geom.Point

// Name is the display name of an actor or item.
type Name struct {
	Text string
}

// Player marks the single player entity.
type Player struct{}

// AI marks an entity driven by the agent scheduler.
type AI struct{}

// FactionKind is either Townsfolk or Enemy.
type FactionKind uint8

const (
	Townsfolk FactionKind = iota
	Enemy
)

// Faction tags which side an agent is on.
type Faction struct {
	Kind FactionKind
}

// Vendor marks a shopkeeper the player can trade with.
type Vendor struct{}

// Asleep marks a sleeping agent. Sleeping townsfolk skip their evening
// routine and only wake in the morning window.
type Asleep struct{}

// Path holds tile indices the entity will walk along. Steps[0] is the
// tile the entity stood on when the path was computed.
type Path struct {
	Steps []int
}

// CombatStats are the hit points and melee numbers of an actor.
type CombatStats struct {
	MaxHP   int
	HP      int
	Defense int
	Power   int
}

// Needs track the player's hunger and thirst, decremented every turn.
type Needs struct {
	Hunger int
	Thirst int
}

// Money is carried coin.
type Money struct {
	Amount float64
}

// Conversation is the line a townsperson says when bumped.
type Conversation struct {
	Text    string
	Answers []string
}

// GameState is attached to the player and carries the turn counter:
// seconds elapsed since the 08:00 epoch.
type GameState struct {
	Turns int64
}
