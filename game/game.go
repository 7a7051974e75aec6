// Package game runs the generation lifecycle: it spawns a roster of birds,
// drives them through the pipe environment, and evolves the parent model
// between generations.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/systems"
	"github.com/pthm-cable/flappy/telemetry"
)

// perfWindow is the number of ticks averaged by the perf collector.
const perfWindow = 600

// Options configures a Game beyond the YAML config.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string // Empty disables CSV/JSON output
	Observers []Observer
	Workers   int // 0 = GOMAXPROCS
}

// Game holds the complete training state.
type Game struct {
	cfg  *config.Config
	seed int64

	world *ecs.World

	birdMapper *ecs.Map3[components.Body, components.Vitals, components.Pilot]
	birdFilter *ecs.Filter3[components.Body, components.Vitals, components.Pilot]

	bodyMap   *ecs.Map1[components.Body]
	vitalsMap *ecs.Map1[components.Vitals]
	pilotMap  *ecs.Map1[components.Pilot]

	// Roster of the current generation, indexed by slot
	birds []ecs.Entity

	env    *systems.Environment
	rng    *rand.Rand // Generation construction only
	noise  *neural.Noise
	params systems.BirdParams

	parent      *neural.Model // Seeds the next spawn's clones
	spawnParent *neural.Model // Parent used by the current roster
	elites      []*neural.Model

	// State
	generation int
	phase      Phase
	alive      int
	ticks      int

	// Best-ever tracking
	hasBest     bool
	bestFitness float64
	bestModel   *neural.Model
	highScore   int

	observers []Observer
	logStats  bool

	parallel      *parallelState
	outputManager *telemetry.OutputManager
	hallOfFame    *telemetry.HallOfFame
	perfCollector *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
}

// NewGame validates the config and prepares the first generation's parent.
// The config is copied; later edits by the caller have no effect.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	cfg = cfg.Clone()
	cfg.ComputeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	world := ecs.NewWorld()

	rng := rand.New(rand.NewSource(opts.Seed))
	envRng := rand.New(rand.NewSource(opts.Seed + 1))

	noise := neural.NewNoise(rng)
	noise.DirectionalProb = cfg.Evolution.DirectionalProb

	root, err := neural.NewModel(cfg.Neural.LayerSizes)
	if err != nil {
		return nil, fmt.Errorf("creating root model: %w", err)
	}
	sampler := func() float64 {
		return (rng.Float64()*2 - 1) * cfg.Neural.InitScale
	}
	root.RandomizeWeights(sampler)
	root.RandomizeBiases(sampler)

	g := &Game{
		cfg:        cfg,
		seed:       opts.Seed,
		world:      world,
		birdMapper: ecs.NewMap3[components.Body, components.Vitals, components.Pilot](world),
		birdFilter: ecs.NewFilter3[components.Body, components.Vitals, components.Pilot](world),
		bodyMap:    ecs.NewMap1[components.Body](world),
		vitalsMap:  ecs.NewMap1[components.Vitals](world),
		pilotMap:   ecs.NewMap1[components.Pilot](world),
		birds:      make([]ecs.Entity, 0, cfg.Population.Size),

		env:    systems.NewEnvironment(cfg, envRng),
		rng:    rng,
		noise:  noise,
		params: systems.NewBirdParams(cfg),
		parent: root,

		observers:     opts.Observers,
		logStats:      opts.LogStats,
		parallel:      newParallelState(opts.Workers, cfg.Population.Size),
		perfCollector: telemetry.NewPerfCollector(perfWindow),
		bookmarks:     telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory),
	}

	if cfg.HallOfFame.Enabled {
		g.hallOfFame = telemetry.NewHallOfFame(cfg.HallOfFame.Size)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	return g, nil
}

// AddObserver registers an observer for subsequent ticks and generations.
func (g *Game) AddObserver(o Observer) {
	g.observers = append(g.observers, o)
}

// Config returns the validated config the game runs with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Generation returns the index of the current (or next) generation.
func (g *Game) Generation() int {
	return g.generation
}

// Phase returns the current lifecycle phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Alive returns the number of live birds in the current roster.
func (g *Game) Alive() int {
	return g.alive
}

// Ticks returns the number of ticks run in the current generation.
func (g *Game) Ticks() int {
	return g.ticks
}

// Parent returns the model the next spawn will clone.
func (g *Game) Parent() *neural.Model {
	return g.parent
}

// BestFitness returns the highest score seen over all finished generations,
// and false if no generation has finished yet.
func (g *Game) BestFitness() (float64, bool) {
	return g.bestFitness, g.hasBest
}

// BestModel returns the model that achieved BestFitness.
func (g *Game) BestModel() *neural.Model {
	return g.bestModel
}

// HighScore returns the most pipes spawned in any single generation.
func (g *Game) HighScore() int {
	return g.highScore
}

// HallOfFame returns the hall of fame, or nil when disabled.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	return g.hallOfFame
}

// Perf returns current performance statistics.
func (g *Game) Perf() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// RecordFrame records frame timing in graphical mode.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// Close stops workers, writes the hall of fame and closes output files.
func (g *Game) Close() error {
	g.stopParallelWorkers()
	if err := g.outputManager.WriteHallOfFame(g.hallOfFame); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	return g.outputManager.Close()
}
