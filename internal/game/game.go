// Package game drives one single-player session: it builds the town, places
// the player and runs the turn pipeline in response to player commands.
package game

import (
	"fmt"
	"math/rand"

	"github.com/neontwilight/sim/internal/core/event"
	coresys "github.com/neontwilight/sim/internal/core/system"
	"github.com/neontwilight/sim/internal/data"
	"github.com/neontwilight/sim/internal/fov"
	"github.com/neontwilight/sim/internal/gamemap"
	"github.com/neontwilight/sim/internal/geom"
	"github.com/neontwilight/sim/internal/mapgen"
	"github.com/neontwilight/sim/internal/scripting"
	"github.com/neontwilight/sim/internal/system"
	"github.com/neontwilight/sim/internal/world"
	"go.uber.org/zap"
)

// Options configures a new session.
type Options struct {
	Width     int
	Height    int
	Params    mapgen.Params
	Calendar  world.Calendar
	FOVRadius int
	Start     geom.Point // used when the town has no pub
}

func DefaultOptions() Options {
	return Options{
		Width:     80,
		Height:    60,
		Params:    mapgen.DefaultParams(),
		Calendar:  world.DefaultCalendar(),
		FOVRadius: 6,
		Start:     geom.Point{X: 1, Y: 1},
	}
}

// withMapFile applies the non-zero overrides of the map data file.
func (o Options) withMapFile(f *data.MapFile) Options {
	if f == nil {
		return o
	}
	mc := f.Map
	if mc.Width > 0 {
		o.Width = mc.Width
	}
	if mc.Height > 0 {
		o.Height = mc.Height
	}
	if mc.Octaves > 0 {
		o.Params.Noise.Octaves = mc.Octaves
	}
	if mc.Gain > 0 {
		o.Params.Noise.Gain = mc.Gain
	}
	if mc.Lacuna > 0 {
		o.Params.Noise.Lacunarity = mc.Lacuna
	}
	if mc.Frequency > 0 {
		o.Params.Noise.Frequency = mc.Frequency
	}
	return o
}

// Game is one running session. Single-goroutine access only.
type Game struct {
	state   *world.State
	spawner *world.Spawner
	bus     *event.Bus
	runner  *coresys.Runner
	opts    Options
	built   *mapgen.BuilderMap
	kills   int
	log     *zap.Logger
}

// New builds the town, populates it, places the player on the starting
// position (or the free tile nearest Options.Start) and computes the first
// field of view.
func New(opts Options, tables *data.Tables, lua *scripting.Engine, rng *rand.Rand, log *zap.Logger) (*Game, error) {
	opts = opts.withMapFile(tables.Map)
	built := mapgen.Default(opts.Width, opts.Height, opts.Params, rng, log).Build()

	st := world.NewState(built.Map, world.NewMessageLog(log))
	st.Calendar = opts.Calendar
	g := assemble(st, tables, lua, rng, opts, log)
	g.built = built

	spawned := g.spawner.Realize(built.Spawns)
	start := opts.Start
	if built.StartingPosition != nil {
		start = *built.StartingPosition
	}
	p, ok := g.spawner.NearestFree(start)
	if !ok {
		return nil, fmt.Errorf("place player near %v: no free walkable tile", start)
	}
	g.spawner.SpawnPlayer(p)
	if tables.Map != nil {
		g.spawner.SpawnFixed(tables.Map)
	}
	g.refreshView()

	log.Info("session ready",
		zap.Int("entities", st.ECS.Count()),
		zap.Int("spawned", spawned),
		zap.Int("player_x", p.X),
		zap.Int("player_y", p.Y),
		zap.Int("visible", st.View.VisibleCount()),
	)
	return g, nil
}

// assemble wires the turn pipeline around an existing world.
func assemble(st *world.State, tables *data.Tables, lua *scripting.Engine, rng *rand.Rand, opts Options, log *zap.Logger) *Game {
	bus := event.NewBus()
	runner := coresys.NewRunner()
	runner.Register(system.NewAISystem(st, bus, rng, log))
	runner.Register(system.NewCombatSystem(st, bus, lua, rng, log))
	runner.Register(system.NewDeathSystem(st, bus, log))
	runner.Register(system.NewSurvivalSystem(st))
	runner.Register(system.NewCalendarSystem(st))

	g := &Game{
		state:   st,
		spawner: world.NewSpawner(st, tables, rng, log),
		bus:     bus,
		runner:  runner,
		opts:    opts,
		log:     log,
	}
	event.Subscribe(bus, func(ev event.EntityDied) {
		if !ev.Player {
			g.kills++
		}
	})
	return g
}

// refreshView recomputes the player's field of view and reveals what it sees.
func (g *Game) refreshView() {
	p, ok := g.state.PlayerPosition()
	if !ok {
		return
	}
	v := g.state.View
	v.ClearFOV()
	fov.Compute(v, p.X, p.Y, g.opts.FOVRadius, true)
	g.state.Map.RevealFrom(v.FOV)
}

// EndTurn runs every system once in phase order, then delivers the events
// raised by the death sweep.
func (g *Game) EndTurn() {
	g.runner.Tick()
	g.drain()
}

func (g *Game) drain() {
	g.bus.SwapBuffers()
	g.bus.DispatchAll()
}

func (g *Game) State() *world.State { return g.state }
func (g *Game) Map() *gamemap.Map { return g.state.Map }
func (g *Game) Spawner() *world.Spawner { return g.spawner }
func (g *Game) Seed() int64 { return g.opts.Params.Noise.Seed }
func (g *Game) Turns() int64 { return g.state.Turns() }
func (g *Game) TimeOfDay() int64 { return g.state.TimeOfDay() }
func (g *Game) Clock() string { return g.state.Calendar.Clock(g.state.Turns()) }
func (g *Game) Kills() int { return g.kills }
func (g *Game) Messages() []string { return g.state.Messages.Lines() }

// Buildings returns the placed buildings, or nil for a session not built by
// the town pipeline.
func (g *Game) Buildings() []mapgen.Building {
	if g.built == nil {
		return nil
	}
	return g.built.Buildings
}

// Status is a read-only summary of the player.
type Status struct {
	Pos    geom.Point
	HP     int
	MaxHP  int
	Hunger int
	Thirst int
	Money  float64
	Alive  bool
}

// PlayerStatus reports the player's vitals; ok is false without a player.
func (g *Game) PlayerStatus() (Status, bool) {
	st := g.state
	id, ok := st.Player()
	if !ok {
		return Status{}, false
	}
	var s Status
	if p, ok := st.Positions.Get(id); ok {
		s.Pos = *p
	}
	if cs, ok := st.Stats.Get(id); ok {
		s.HP, s.MaxHP = cs.HP, cs.MaxHP
		s.Alive = cs.HP > 0
	}
	if n, ok := st.Needs.Get(id); ok {
		s.Hunger, s.Thirst = n.Hunger, n.Thirst
	}
	if m, ok := st.Money.Get(id); ok {
		s.Money = m.Amount
	}
	return s, true
}

func (g *Game) playerDead() bool {
	id, ok := g.state.Player()
	if !ok {
		return true
	}
	cs, ok := g.state.Stats.Get(id)
	return ok && cs.HP <= 0
}

