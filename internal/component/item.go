package component

import "github.com/neontwilight/sim/internal/core/ecs"

// EquipmentSlot names where an item is worn.
type EquipmentSlot uint8

const (
	SlotMelee EquipmentSlot = iota
	SlotTorso
	SlotLegs
	SlotFeet
)

// Item marks an entity as an item.
type Item struct {
	Slot EquipmentSlot
}

// Equipped ties an item to the actor wearing it. Equipped items have no
// Position until they are dropped.
type Equipped struct {
	Owner ecs.EntityID
	Slot  EquipmentSlot
}

// MeleeBonus adds to melee damage while equipped.
type MeleeBonus struct {
	Bonus int
}

// DefenseBonus is a fractional damage reduction while equipped.
type DefenseBonus struct {
	Bonus float64
}

// InBackpack marks a carried item that is not worn.
type InBackpack struct {
	Owner ecs.EntityID
}
