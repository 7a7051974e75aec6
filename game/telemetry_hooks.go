package game

import (
	"log/slog"

	"github.com/pthm-cable/flappy/telemetry"
)

// generationStats aggregates a finished generation for logging and CSV output.
func (g *Game) generationStats(r GenerationResult) telemetry.GenerationStats {
	stats := telemetry.GenerationStats{
		Generation: r.Index,
		Ticks:      r.Ticks,
		Outcome:    r.Outcome.String(),
		PipeScore:  float64(g.env.Frame() / g.env.SpawnPeriod()),
		HighScore:  float64(g.highScore),
		BestEver:   g.bestFitness,
		ParentNorm: r.Next.Norm(),
		Degenerate: r.Degenerate,
	}
	stats.Apply(telemetry.SummarizeScores(r.Scores))

	if len(r.Elites) > 0 {
		var sum float64
		for _, slot := range r.Elites {
			sum += r.Scores[slot]
		}
		stats.EliteMean = sum / float64(len(r.Elites))
	}
	return stats
}

// recordGeneration logs the generation and writes it to the output files.
func (g *Game) recordGeneration(r GenerationResult) {
	if g.hallOfFame != nil {
		for _, slot := range r.Elites {
			g.hallOfFame.Consider(r.Models[slot], r.Scores[slot], r.Index, slot)
		}
	}

	for _, b := range g.bookmarks.Check(r.Stats) {
		if g.logStats {
			b.LogBookmark()
		}
		if b.Type == telemetry.BookmarkNewHighScore || b.Type == telemetry.BookmarkScoreBreakthrough {
			g.saveBookmarkSnapshot(b)
		}
	}

	perfStats := g.perfCollector.Stats()

	logEvery := max(g.cfg.Telemetry.LogEvery, 1)
	if g.logStats && r.Index%logEvery == 0 {
		r.Stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteGeneration(r.Stats); err != nil {
			slog.Error("failed to write generation", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, r.Index); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// notifyTick hands observers a snapshot of the current tick.
func (g *Game) notifyTick() {
	if len(g.observers) == 0 {
		return
	}

	view := TickView{
		Generation:  g.generation,
		Frame:       g.env.Frame(),
		Pipes:       g.env.Pipes(),
		Birds:       make([]BirdView, len(g.birds)),
		Alive:       g.alive,
		BestFitness: g.bestFitness,
		Score:       g.env.Frame() / g.env.SpawnPeriod(),
		HighScore:   g.highScore,
	}
	for _, e := range g.birds {
		pilot := g.pilotMap.Get(e)
		view.Birds[pilot.Slot] = BirdView{
			Y:     g.bodyMap.Get(e).Y,
			Alive: g.vitalsMap.Get(e).Alive,
			Elite: pilot.Elite,
		}
	}

	for _, o := range g.observers {
		o.ObserveTick(view)
	}
}

// notifyGeneration hands observers a finished generation.
func (g *Game) notifyGeneration(r GenerationResult) {
	for _, o := range g.observers {
		o.ObserveGeneration(r)
	}
}
