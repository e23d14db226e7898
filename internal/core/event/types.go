package event

import "github.com/neontwilight/sim/internal/core/ecs"

// AttackIntent is queued by an agent (or the player bumping an enemy) and
// resolved by the combat system in the same turn.
type AttackIntent struct {
	Attacker ecs.EntityID
	Target   ecs.EntityID
}

// EntityDied is emitted by the death sweep before the entity is destroyed.
type EntityDied struct {
	EntityID ecs.EntityID
	Name     string
	Player   bool
}
