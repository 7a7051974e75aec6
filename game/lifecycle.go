package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/evolve"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/systems"
	"github.com/pthm-cable/flappy/telemetry"
)

// SpawnGeneration resets the environment and builds a fresh roster: the
// previous generation's elites first, unchanged, then noise clones of the
// parent until the population is full. Clones are drawn in slot order.
func (g *Game) SpawnGeneration() {
	cfg := g.cfg
	g.phase = PhaseSpawning

	g.despawnRoster()
	g.env.Reset()

	g.spawnParent = g.parent
	for slot := 0; slot < cfg.Population.Size; slot++ {
		elite := slot < len(g.elites)

		var model *neural.Model
		if elite {
			model = g.elites[slot]
		} else {
			model = g.parent.CloneWithNoise(g.noise, cfg.Evolution.Eps)
		}

		body := components.Body{Y: cfg.Bird.StartY}
		vitals := components.Vitals{Alive: true}
		pilot := components.Pilot{Model: model, Slot: slot, Elite: elite}
		g.birds = append(g.birds, g.birdMapper.NewEntity(&body, &vitals, &pilot))
	}

	g.alive = cfg.Population.Size
	g.ticks = 0
	g.phase = PhaseEvaluating
}

// despawnRoster removes the previous generation's entities.
func (g *Game) despawnRoster() {
	for _, e := range g.birds {
		if g.world.Alive(e) {
			g.world.RemoveEntity(e)
		}
	}
	g.birds = g.birds[:0]
}

// Tick advances the environment once, then every live bird once.
// Returns the number of birds still alive.
func (g *Game) Tick() (int, error) {
	if g.phase != PhaseEvaluating {
		return 0, fmt.Errorf("tick during %s phase", g.phase)
	}

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseEnvironment)
	g.env.Step()

	deaths, err := g.stepBirds()
	if err != nil {
		return g.alive, fmt.Errorf("stepping birds: %w", err)
	}
	g.alive -= deaths
	g.ticks++

	g.perfCollector.StartPhase(telemetry.PhaseObserve)
	g.notifyTick()

	g.perfCollector.EndTick()
	return g.alive, nil
}

// Done reports whether the current generation has finished evaluating.
func (g *Game) Done() bool {
	return g.alive == 0 || g.ticks >= g.cfg.Population.MaxTicks
}

// Evaluate ticks until no bird is alive or the tick cap is reached.
func (g *Game) Evaluate() (Outcome, error) {
	for !g.Done() {
		if _, err := g.Tick(); err != nil {
			return OutcomeNatural, err
		}
	}
	return g.endEvaluation(), nil
}

// endEvaluation kills any survivors at the current frame.
func (g *Game) endEvaluation() Outcome {
	if g.alive == 0 {
		return OutcomeNatural
	}

	frame := g.env.Frame()
	for _, e := range g.birds {
		vitals := g.vitalsMap.Get(e)
		if vitals.Alive {
			systems.Kill(vitals, frame, g.params)
		}
	}
	slog.Warn("generation capped",
		"generation", g.generation,
		"survivors", g.alive,
		"max_ticks", g.cfg.Population.MaxTicks,
	)
	g.alive = 0
	return OutcomeCapped
}

// FinishGeneration scores the roster, selects elites, blends the population
// into the next parent and notifies observers.
func (g *Game) FinishGeneration(outcome Outcome) (GenerationResult, error) {
	cfg := g.cfg

	g.phase = PhaseScoring
	n := len(g.birds)
	models := make([]*neural.Model, n)
	scores := make([]float64, n)
	for _, e := range g.birds {
		pilot := g.pilotMap.Get(e)
		models[pilot.Slot] = pilot.Model
		scores[pilot.Slot] = g.vitalsMap.Get(e).Score
	}

	frame := g.env.Frame()
	if pipes := frame / g.env.SpawnPeriod(); pipes > g.highScore {
		g.highScore = pipes
	}

	g.phase = PhaseSelecting
	eliteSlots := evolve.SelectElites(scores, cfg.Population.Elites)
	elites := make([]*neural.Model, len(eliteSlots))
	for i, slot := range eliteSlots {
		elites[i] = models[slot]
	}

	best := evolve.Best(scores)
	if !g.hasBest || scores[best] > g.bestFitness {
		g.hasBest = true
		g.bestFitness = scores[best]
		g.bestModel = models[best]
	}

	g.phase = PhaseBlending
	degenerate := false
	next, err := neural.CombineModels(models, evolve.Phi(scores), scores, cfg.Evolution.Alpha)
	switch {
	case errors.Is(err, neural.ErrDegenerateGeneration):
		slog.Warn("degenerate generation, keeping parent", "generation", g.generation)
		next = g.parent
		degenerate = true
	case err != nil:
		return GenerationResult{}, fmt.Errorf("blending generation %d: %w", g.generation, err)
	}

	result := GenerationResult{
		Index:      g.generation,
		Models:     models,
		Scores:     scores,
		Elites:     eliteSlots,
		Parent:     g.spawnParent,
		Next:       next,
		Ticks:      g.ticks,
		Outcome:    outcome,
		Degenerate: degenerate,
	}
	result.Stats = g.generationStats(result)

	g.elites = elites
	g.parent = next
	g.generation++

	g.recordGeneration(result)
	g.notifyGeneration(result)
	return result, nil
}

// RunGeneration spawns, evaluates and finishes one generation.
func (g *Game) RunGeneration() (GenerationResult, error) {
	g.SpawnGeneration()
	outcome, err := g.Evaluate()
	if err != nil {
		return GenerationResult{}, err
	}
	return g.FinishGeneration(outcome)
}

// Run runs n generations.
func (g *Game) Run(n int) error {
	for i := 0; i < n; i++ {
		if _, err := g.RunGeneration(); err != nil {
			return err
		}
	}
	return nil
}

// Update runs up to steps ticks for a frame-driven caller, rolling over to
// the next generation whenever the current one ends. It never runs more
// than one tick per step, so pacing cannot change the tick sequence.
func (g *Game) Update(steps int) error {
	for i := 0; i < steps; i++ {
		if g.phase != PhaseEvaluating {
			g.SpawnGeneration()
		}
		if _, err := g.Tick(); err != nil {
			return err
		}
		if g.Done() {
			if _, err := g.FinishGeneration(g.endEvaluation()); err != nil {
				return err
			}
		}
	}
	return nil
}
