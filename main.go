package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output per-generation stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and hall of fame")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxGenerations := flag.Int("max-generations", 0, "Stop after N generations (0 = unlimited)")
	workers := flag.Int("workers", 0, "Worker goroutines for bird evaluation (0 = GOMAXPROCS)")
	speed := flag.Int("speed", 1, "Initial ticks per frame in graphical mode")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		Workers:   *workers,
	}

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	slog.Info("starting training",
		"seed", rngSeed,
		"headless", *headless,
		"population", cfg.Population.Size,
		"elites", cfg.Population.Elites,
		"layer_sizes", cfg.Neural.LayerSizes,
		"max_generations", *maxGenerations,
	)

	if *headless {
		runHeadless(g, *maxGenerations)
	} else {
		runGraphical(g, cfg, *speed, *maxGenerations)
	}

	if best, ok := g.BestFitness(); ok {
		slog.Info("training finished",
			"generations", g.Generation(),
			"best_fitness", best,
			"high_score", g.HighScore(),
		)
	}
}

// runHeadless runs generations back to back without raylib.
func runHeadless(g *game.Game, maxGenerations int) {
	for maxGenerations <= 0 || g.Generation() < maxGenerations {
		if _, err := g.RunGeneration(); err != nil {
			slog.Error("generation failed", "generation", g.Generation(), "error", err)
			return
		}
	}
	slog.Info("max generations reached", "generation", g.Generation())
}

// runGraphical draws every frame and runs as many ticks per frame as the
// speed control allows.
func runGraphical(g *game.Game, cfg *config.Config, speed, maxGenerations int) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Flappy Evolution")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	view := ui.NewView(cfg)
	view.Controls().SetSpeed(speed)
	g.AddObserver(view)

	for !rl.WindowShouldClose() {
		view.HandleInput()

		if err := g.Update(view.Controls().TicksThisFrame()); err != nil {
			slog.Error("update failed", "error", err)
			return
		}
		g.RecordFrame()

		rl.BeginDrawing()
		view.Draw(g)
		rl.EndDrawing()

		if maxGenerations > 0 && g.Generation() >= maxGenerations {
			slog.Info("max generations reached", "generation", g.Generation())
			break
		}
	}
}
