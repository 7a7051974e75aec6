package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/telemetry"
)

// FitnessEvaluator runs headless training runs and scores a parameter vector.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastHighScore  float64 // mean high score from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastHighScore returns the mean pipe high score from the most recent evaluation.
func (fe *FitnessEvaluator) LastHighScore() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastHighScore
}

// tailGenerations is how many final generations are averaged per run.
const tailGenerations = 5

// runResult holds the results from a single training run.
type runResult struct {
	tailMean   float64 // mean best score over the last generations
	highScore  int
	hallOfFame *telemetry.HallOfFame
	failed     bool
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean of the late-generation best scores, so
// parameters that keep improving the population win.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runTraining(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var total, highScores float64
	bestSeed := math.Inf(1)
	var bestSeedHallOfFame *telemetry.HallOfFame

	for _, r := range results {
		if r.failed {
			// Invalid parameter combinations rank last
			return math.MaxFloat64
		}
		fitness := -r.tailMean
		total += fitness
		highScores += float64(r.highScore)
		if fitness < bestSeed {
			bestSeed = fitness
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := total / n

	fe.mu.Lock()
	fe.lastHighScore = highScores / n
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.mu.Unlock()

	return avgFitness
}

// runTraining runs one headless training run.
func (fe *FitnessEvaluator) runTraining(cfg *config.Config, seed int64) runResult {
	// Each run is already one goroutine; keep bird evaluation serial.
	g, err := game.NewGame(cfg, game.Options{Seed: seed, Workers: 1})
	if err != nil {
		slog.Warn("invalid parameters", "seed", seed, "error", err)
		return runResult{failed: true}
	}
	defer g.Close()

	best := make([]float64, 0, fe.generations)
	for i := 0; i < fe.generations; i++ {
		r, err := g.RunGeneration()
		if err != nil {
			slog.Warn("training run failed", "seed", seed, "generation", i, "error", err)
			return runResult{failed: true}
		}
		best = append(best, r.Stats.BestScore)
	}

	return runResult{
		tailMean:   tailMean(best, tailGenerations),
		highScore:  g.HighScore(),
		hallOfFame: g.HallOfFame(),
	}
}

// tailMean averages the last k values (all of them if fewer).
func tailMean(values []float64, k int) float64 {
	if len(values) == 0 {
		return 0
	}
	k = min(k, len(values))
	var sum float64
	for _, v := range values[len(values)-k:] {
		sum += v
	}
	return sum / float64(k)
}
