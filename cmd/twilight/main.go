package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/neontwilight/sim/internal/config"
	"github.com/neontwilight/sim/internal/data"
	"github.com/neontwilight/sim/internal/game"
	"github.com/neontwilight/sim/internal/geom"
	"github.com/neontwilight/sim/internal/mapgen"
	"github.com/neontwilight/sim/internal/persist"
	"github.com/neontwilight/sim/internal/scripting"
	"github.com/neontwilight/sim/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string, seed int64) {
	fmt.Println()
	fmt.Println("\033[35;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[35;1m  │\033[0m              Neon Twilight                \033[35;1m│\033[0m")
	fmt.Println("\033[35;1m  │\033[0m        turn-based town simulation         \033[35;1m│\033[0m")
	fmt.Println("\033[35;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mSession:\033[0m %s \033[90m(seed: %d)\033[0m\n\n", name, seed)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value any) {
	s := fmt.Sprint(value)
	dotsLen := 42 - len(label) - len(s)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), s)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main session logic ────────────────────────────────────────────

func run() error {
	// 1. Flags and config
	cfgPath := "config/sim.toml"
	if p := os.Getenv("TWILIGHT_CONFIG"); p != "" {
		cfgPath = p
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the TOML config")
	seedFlag := flag.Int64("seed", 0, "override sim.seed")
	turnsFlag := flag.Int("turns", -1, "override sim.turns")
	waitFlag := flag.String("wait", "", "wait after the autopilot: 5m, 30m, 1h, 2h or dusk")
	restFlag := flag.Bool("rest", false, "rest eight hours after the autopilot")
	listFlag := flag.Bool("list", false, "list stored saves and exit")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *seedFlag != 0 {
		cfg.Sim.Seed = *seedFlag
	}
	if *turnsFlag >= 0 {
		cfg.Sim.Turns = *turnsFlag
	}
	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Save store
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
	if *listFlag {
		return listSaves(ctx, store)
	}

	printBanner(cfg.Sim.Name, seed)

	// 4. Data tables and combat scripts
	printSection("Data")
	tables, err := data.LoadTables(data.Paths{
		NpcList:  cfg.Data.NpcList,
		ItemList: cfg.Data.ItemList,
		Map:      cfg.Data.Map,
		Schema:   cfg.Data.Schema,
	})
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	printStat("NPC prefabs", tables.Npcs.Count())
	printStat("Item prefabs", tables.Items.Count())
	printStat("Fixed spawns", len(tables.Map.NpcSpawns)+len(tables.Map.ItemSpawns))

	lua, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer lua.Close()
	printOK("Combat scripts loaded")
	fmt.Println()

	// 5. Build the town
	printSection("Town")
	opts, err := sessionOptions(cfg, seed)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(seed))
	g, err := game.New(opts, tables, lua, rng, log)
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	printStat("Map", fmt.Sprintf("%dx%d", g.Map().Width, g.Map().Height))
	printStat("Buildings", len(g.Buildings()))
	printStat("Entities", g.State().ECS.Count())
	printStat("Visible tiles", g.State().View.VisibleCount())
	fmt.Println()

	// 6. Autopilot
	printSection("Session")
	printReady(fmt.Sprintf("Autopilot for %d turns from %s", cfg.Sim.Turns, g.Clock()))
	played := autopilot(ctx, g, rng, cfg.Sim.Turns)
	if *waitFlag != "" {
		kind, err := game.ParseWaitKind(*waitFlag)
		if err != nil {
			return err
		}
		g.Wait(kind)
	}
	if *restFlag {
		g.Rest()
	}

	status, _ := g.PlayerStatus()
	printStat("Turns played", played)
	printStat("Clock", g.Clock())
	printStat("Kills", g.Kills())
	printStat("HP", fmt.Sprintf("%d/%d", status.HP, status.MaxHP))
	printStat("Hunger", status.Hunger)
	printStat("Thirst", status.Thirst)
	if last := g.State().Messages.Last(); last != "" {
		printReady(last)
	}
	fmt.Println()

	// 7. Save
	return save(ctx, cfg, g, store, log)
}

// sessionOptions maps the config onto game options.
func sessionOptions(cfg *config.Config, seed int64) (game.Options, error) {
	cal, err := calendar(cfg.Clock)
	if err != nil {
		return game.Options{}, err
	}
	noiseSeed := cfg.Map.NoiseSeed
	if noiseSeed == 0 {
		noiseSeed = seed
	}
	opts := game.DefaultOptions()
	opts.Width = cfg.Map.Width
	opts.Height = cfg.Map.Height
	opts.Calendar = cal
	opts.FOVRadius = cfg.Sim.FOVRadius
	opts.Params = mapgen.Params{
		Noise: mapgen.NoiseParams{
			Seed:          noiseSeed,
			Octaves:       cfg.Map.Octaves,
			Gain:          cfg.Map.Gain,
			Lacunarity:    cfg.Map.Lacunarity,
			Frequency:     cfg.Map.Frequency,
			Scale:         cfg.Map.Scale,
			TreeThreshold: cfg.Map.TreeThreshold,
		},
		Town: mapgen.TownParams{
			Trials:      cfg.Town.Trials,
			MinRoomSize: cfg.Town.MinRoomSize,
			RoomMin:     cfg.Town.RoomMin,
			RoomMax:     cfg.Town.RoomMax,
			OffsetMin:   cfg.Town.OffsetMin,
			OffsetMax:   cfg.Town.OffsetMax,
			Margin:      cfg.Town.Margin,
		},
	}
	return opts, nil
}

func calendar(c config.ClockConfig) (world.Calendar, error) {
	var cal world.Calendar
	for _, f := range []struct {
		dst *int64
		src string
		key string
	}{
		{&cal.Epoch, c.Epoch, "epoch"},
		{&cal.Wake, c.Wake, "wake"},
		{&cal.Morning, c.Morning, "morning"},
		{&cal.Evening, c.Evening, "evening"},
	} {
		v, err := world.ParseClock(f.src)
		if err != nil {
			return cal, fmt.Errorf("clock.%s: %w", f.key, err)
		}
		*f.dst = v
	}
	return cal, nil
}

// autopilot walks the player to random nearby tiles until the turn budget
// runs out, the player dies or ctx is cancelled. It returns the turns used.
func autopilot(ctx context.Context, g *game.Game, rng *rand.Rand, turns int) int {
	played := 0
	for played < turns && ctx.Err() == nil {
		status, ok := g.PlayerStatus()
		if !ok || !status.Alive {
			break
		}
		if len(g.AutoMoveSteps()) == 0 {
			target := geom.Point{X: status.Pos.X + rng.Intn(21) - 10, Y: status.Pos.Y + rng.Intn(21) - 10}
			g.PathTo(target)
		}
		out := g.AdvanceAutoMove()
		if out == game.OutcomeNone {
			out = g.MovePlayer(rng.Intn(3)-1, rng.Intn(3)-1)
		}
		if out == game.OutcomeNone {
			// boxed in: let the world move on
			g.EndTurn()
		}
		played++
	}
	return played
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (persist.Store, error) {
	if cfg.Database.Driver == "" {
		return nil, nil
	}
	printSection("Database")
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	store, err := persist.OpenStore(openCtx, cfg.Database, cfg.Snapshot.Level, log)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	printOK(fmt.Sprintf("%s save store ready", cfg.Database.Driver))
	fmt.Println()
	return store, nil
}

func listSaves(ctx context.Context, store persist.Store) error {
	if store == nil {
		return errors.New("list saves: no database configured")
	}
	saves, err := store.ListSaves(ctx)
	if err != nil {
		return err
	}
	printSection("Saves")
	for _, s := range saves {
		printStat(s.Name, fmt.Sprintf("turn %d  %s  %s", s.Turn, shortDigest(s.Digest), s.SavedAt.Format(time.DateTime)))
	}
	return nil
}

// shortDigest trims a save digest for display. Rows written by other tools
// may carry a short or empty digest.
func shortDigest(d string) string {
	if d == "" {
		return "-"
	}
	return d[:min(12, len(d))]
}

func save(ctx context.Context, cfg *config.Config, g *game.Game, store persist.Store, log *zap.Logger) error {
	snap := persist.FromMap(g.Map(), g.Seed(), g.Turns())
	printSection("Save")
	if cfg.Snapshot.Dir != "" {
		path := filepath.Join(cfg.Snapshot.Dir, cfg.Snapshot.Name+".snap.zst")
		if err := persist.WriteFile(path, snap, cfg.Snapshot.Level); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		printOK("Snapshot written to " + path)
	}
	if store != nil {
		if err := store.SaveMap(ctx, cfg.Snapshot.Name, snap); err != nil {
			return err
		}
		printOK("Saved as " + cfg.Snapshot.Name)
	}
	printStat("Digest", snap.Header.Digest[:16])
	log.Info("session saved", zap.String("digest", snap.Header.Digest), zap.Int64("turn", snap.Header.Turn))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
