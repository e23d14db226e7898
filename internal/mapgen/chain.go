// Package mapgen builds the town map: a fractal-noise landscape, the largest
// open rectangle inside it, and a BSP-placed set of buildings on that
// rectangle. Stages run as an ordered fold over one shared BuilderMap.
package mapgen

import (
	"fmt"
	"math/rand"

	"github.com/neontwilight/sim/internal/gamemap"
	"github.com/neontwilight/sim/internal/geom"
	"go.uber.org/zap"
)

// StageKind tags a pipeline stage.
type StageKind int

const (
	StageNoiseTerrain StageKind = iota + 1
	StageRectFinder
	StageBspTown
)

func (k StageKind) String() string {
	switch k {
	case StageNoiseTerrain:
		return "noise-terrain"
	case StageRectFinder:
		return "rect-finder"
	case StageBspTown:
		return "bsp-town"
	}
	return fmt.Sprintf("stage(%d)", int(k))
}

// canStart reports whether the stage may be used as the initial builder.
func (k StageKind) canStart() bool {
	return k == StageNoiseTerrain || k == StageBspTown
}

// Stage is one pipeline step. Only the params block matching Kind is read.
type Stage struct {
	Kind  StageKind
	Noise NoiseParams
	Town  TownParams
}

// Spawn is a pending entity placement produced by a stage.
type Spawn struct {
	Idx int
	Tag string
}

// BuilderMap is the context shared by every stage of one build.
// Submaps is nil until a stage publishes sub-regions.
type BuilderMap struct {
	Map              *gamemap.Map
	Submaps          []geom.Rect
	StartingPosition *geom.Point
	Spawns           []Spawn
	Buildings        []Building
}

// Chain is an initial stage followed by meta stages.
type Chain struct {
	initial *Stage
	metas   []Stage
	data    BuilderMap
	rng     *rand.Rand
	log     *zap.Logger
}

// NewChain creates an empty chain over a fresh width x height map.
func NewChain(width, height int, rng *rand.Rand, log *zap.Logger) *Chain {
	return &Chain{
		data: BuilderMap{Map: gamemap.New(width, height)},
		rng:  rng,
		log:  log,
	}
}

// StartWith sets the initial stage. A second call, or a stage that cannot
// produce base terrain, is a wiring error and panics.
func (c *Chain) StartWith(s Stage) *Chain {
	if c.initial != nil {
		panic("mapgen: only one initial stage is allowed")
	}
	if !s.Kind.canStart() {
		panic(fmt.Sprintf("mapgen: %s cannot be an initial stage", s.Kind))
	}
	c.initial = &s
	return c
}

// With appends a meta stage.
func (c *Chain) With(s Stage) *Chain {
	c.metas = append(c.metas, s)
	return c
}

// Build runs the initial stage then each meta stage in registration order.
// It panics if no initial stage is set.
func (c *Chain) Build() *BuilderMap {
	if c.initial == nil {
		panic("mapgen: cannot build without an initial stage")
	}
	c.run(*c.initial, true)
	for _, s := range c.metas {
		c.run(s, false)
	}
	c.log.Info("map built",
		zap.Int("width", c.data.Map.Width),
		zap.Int("height", c.data.Map.Height),
		zap.Int("buildings", len(c.data.Buildings)),
		zap.Int("spawns", len(c.data.Spawns)),
		zap.Bool("has_start", c.data.StartingPosition != nil),
	)
	return &c.data
}

func (c *Chain) run(s Stage, initial bool) {
	switch s.Kind {
	case StageNoiseTerrain:
		buildNoiseTerrain(&c.data, s.Noise)
	case StageRectFinder:
		buildLargestRect(&c.data)
	case StageBspTown:
		if !initial && c.data.Submaps == nil {
			panic("mapgen: bsp-town as a meta stage requires submaps from an earlier stage")
		}
		t := &townBuilder{params: s.Town, rng: c.rng, log: c.log}
		t.build(&c.data)
	default:
		panic(fmt.Sprintf("mapgen: unknown stage %s", s.Kind))
	}
	c.log.Debug("stage done", zap.Stringer("stage", s.Kind), zap.Int("submaps", len(c.data.Submaps)))
}

// Params configures the default chain.
type Params struct {
	Noise NoiseParams
	Town  TownParams
}

// DefaultParams mirrors the shipped configuration.
func DefaultParams() Params {
	return Params{Noise: DefaultNoiseParams(), Town: DefaultTownParams()}
}

// Default returns the standard town chain: noise terrain, largest open
// rectangle, then BSP buildings on that rectangle.
func Default(width, height int, p Params, rng *rand.Rand, log *zap.Logger) *Chain {
	return NewChain(width, height, rng, log).
		StartWith(Stage{Kind: StageNoiseTerrain, Noise: p.Noise}).
		With(Stage{Kind: StageRectFinder}).
		With(Stage{Kind: StageBspTown, Town: p.Town})
}
