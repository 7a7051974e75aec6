package game

import (
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/systems"
	"github.com/pthm-cable/flappy/telemetry"
)

// Phase is a step of the generation lifecycle.
type Phase int

const (
	PhaseSpawning Phase = iota
	PhaseEvaluating
	PhaseScoring
	PhaseSelecting
	PhaseBlending
)

func (p Phase) String() string {
	switch p {
	case PhaseSpawning:
		return "spawning"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseScoring:
		return "scoring"
	case PhaseSelecting:
		return "selecting"
	case PhaseBlending:
		return "blending"
	default:
		return "unknown"
	}
}

// Outcome reports how a generation's evaluation ended.
type Outcome int

const (
	// OutcomeNatural means every bird died on its own.
	OutcomeNatural Outcome = iota
	// OutcomeCapped means the tick cap ended the generation with birds still alive.
	OutcomeCapped
)

func (o Outcome) String() string {
	if o == OutcomeCapped {
		return "capped"
	}
	return "natural"
}

// BirdView is the drawable state of one bird.
type BirdView struct {
	Y     float64
	Alive bool
	Elite bool
}

// TickView is handed to observers after every tick. Slices are copies.
type TickView struct {
	Generation  int
	Frame       int
	Pipes       []systems.Pipe
	Birds       []BirdView // by slot
	Alive       int
	BestFitness float64 // Highest score over all finished generations
	Score       int     // Pipes spawned so far this generation
	HighScore   int
}

// GenerationResult describes one finished generation.
type GenerationResult struct {
	Index   int
	Models  []*neural.Model // by slot
	Scores  []float64       // by slot
	Elites  []int           // slots, best first
	Parent  *neural.Model   // Model the noise clones were drawn from
	Next    *neural.Model   // Parent for the following generation
	Ticks   int
	Outcome Outcome

	// Degenerate is set when blending was skipped because every score was zero.
	Degenerate bool

	Stats telemetry.GenerationStats
}

// Observer receives read-only views of a run. Implementations must not
// retain or mutate the models they are handed.
type Observer interface {
	ObserveTick(TickView)
	ObserveGeneration(GenerationResult)
}
