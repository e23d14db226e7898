package game

import (
	"fmt"

	"github.com/neontwilight/sim/internal/astar"
	"github.com/neontwilight/sim/internal/component"
	"github.com/neontwilight/sim/internal/core/ecs"
	"github.com/neontwilight/sim/internal/core/event"
	"github.com/neontwilight/sim/internal/geom"
	"go.uber.org/zap"
)

// Outcome tells the caller what a player command did.
type Outcome int

const (
	OutcomeNone     Outcome = iota // nothing happened, no turn passed
	OutcomeMoved                   // the player stepped onto the tile
	OutcomeAttacked                // bumped an enemy
	OutcomeTalked                  // bumped a townsperson
	OutcomeTraded                  // bumped a vendor
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeMoved:
		return "moved"
	case OutcomeAttacked:
		return "attacked"
	case OutcomeTalked:
		return "talked"
	case OutcomeTraded:
		return "traded"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MovePlayer tries to move the player by (dx,dy). Bumping into an actor
// attacks or talks instead of moving. Every outcome but OutcomeNone ends
// the turn.
func (g *Game) MovePlayer(dx, dy int) Outcome {
	if g.playerDead() {
		return OutcomeNone
	}
	st := g.state
	id, _ := st.Player()
	pos, _ := st.Positions.Get(id)
	to := pos.Add(dx, dy)
	if !st.Map.IsTileWalkable(to.X, to.Y) {
		g.log.Debug("move rejected", zap.Int("x", to.X), zap.Int("y", to.Y))
		return OutcomeNone
	}

	if other, ok := st.ActorAt(to); ok && other != id {
		out := g.bump(id, other)
		g.EndTurn()
		return out
	}
	toIdx := st.Map.PointIdx(to)
	if st.Map.IsTileBlocked(toIdx) {
		g.log.Debug("move rejected: tile claimed", zap.Int("x", to.X), zap.Int("y", to.Y))
		return OutcomeNone
	}

	st.Map.MoveBlocked(st.Map.PointIdx(*pos), toIdx)
	*pos = to
	g.refreshView()
	st.Messages.Add(st.Map.Describe(to.X, to.Y))
	g.EndTurn()
	return OutcomeMoved
}

func (g *Game) bump(player, other ecs.EntityID) Outcome {
	st := g.state
	name := st.NameOf(other)
	if f, ok := st.Factions.Get(other); ok && f.Kind == component.Enemy {
		st.Messages.Add("Player kicked the "+name, zap.String("target", name))
		event.Emit(g.bus, event.AttackIntent{Attacker: player, Target: other})
		return OutcomeAttacked
	}
	if st.Vendors.Has(other) {
		st.Messages.Add(fmt.Sprintf("%s shows you the wares.", name), zap.String("vendor", name))
		return OutcomeTraded
	}
	if c, ok := st.Conversations.Get(other); ok {
		st.Messages.Add(fmt.Sprintf("%s says: %s", name, c.Text))
		for i, a := range c.Answers {
			st.Messages.Add(fmt.Sprintf("  %d) %s", i+1, a))
		}
		return OutcomeTalked
	}
	st.Messages.Add("The man says: hola!")
	return OutcomeTalked
}

// PathTo plans a click-to-move route from the player to target and stores it
// as the player's automove path. It returns the remaining steps.
func (g *Game) PathTo(target geom.Point) []int {
	st := g.state
	id, ok := st.Player()
	if !ok || !st.Map.IsInBounds(target.X, target.Y) {
		return nil
	}
	pos, _ := st.Positions.Get(id)
	steps := astar.PlayerPath(st.Map, st.Map.PointIdx(*pos), target)
	st.Paths.Set(id, &component.Path{Steps: steps})
	return g.AutoMoveSteps()
}

// AutoMoveSteps returns the automove steps still ahead of the player. It is
// empty when there is no path or the path does not start at the player.
func (g *Game) AutoMoveSteps() []int {
	st := g.state
	id, ok := st.Player()
	if !ok {
		return nil
	}
	path, ok := st.Paths.Get(id)
	pos, _ := st.Positions.Get(id)
	if !ok || len(path.Steps) == 0 || path.Steps[0] != st.Map.PointIdx(*pos) {
		return nil
	}
	return append([]int(nil), path.Steps[1:]...)
}

// AdvanceAutoMove takes the next automove step as a regular move. The path is
// consumed one step at a time and dropped once finished or interrupted.
func (g *Game) AdvanceAutoMove() Outcome {
	st := g.state
	id, ok := st.Player()
	if !ok {
		return OutcomeNone
	}
	steps := g.AutoMoveSteps()
	if len(steps) == 0 {
		st.Paths.Remove(id)
		return OutcomeNone
	}
	pos, _ := st.Positions.Get(id)
	next := st.Map.IdxPoint(steps[0])
	out := g.MovePlayer(next.X-pos.X, next.Y-pos.Y)

	path, ok := st.Paths.Get(id)
	if !ok {
		return out
	}
	if out != OutcomeMoved || len(path.Steps) < 3 {
		st.Paths.Remove(id)
		return out
	}
	path.Steps = path.Steps[1:]
	return out
}

// PickUp takes the item lying under the player. It is worn when its slot is
// free and goes to the backpack otherwise. Picking up takes no turn.
func (g *Game) PickUp() bool {
	st := g.state
	id, ok := st.Player()
	if !ok {
		return false
	}
	pos, _ := st.Positions.Get(id)
	item, ok := st.ItemAt(*pos)
	if !ok {
		st.Messages.Add("There is nothing here to pick up.")
		return false
	}
	it, _ := st.Items.Get(item)
	name := st.NameOf(item)
	st.Positions.Remove(item)
	if !st.SlotTaken(id, it.Slot) {
		st.Equipped.Set(item, &component.Equipped{Owner: id, Slot: it.Slot})
		st.Messages.Add("You equip the "+name, zap.String("item", name))
		return true
	}
	st.Backpack.Set(item, &component.InBackpack{Owner: id})
	st.Messages.Add("You put the "+name+" in your backpack", zap.String("item", name))
	return true
}
