package systems

import (
	"math/rand"

	"github.com/pthm-cable/flappy/config"
)

// Pipe is one obstacle: a column at X with a gap centered on Y.
type Pipe struct {
	X, Y float64
}

// fallbackPipe is reported when no pipe exists.
var fallbackPipe = Pipe{X: 1, Y: 0.5}

// Environment scrolls pipes past the birds one tick at a time.
// It knows nothing about individual birds.
type Environment struct {
	pipes []Pipe
	frame int
	rng   *rand.Rand

	// Cached geometry
	speed       float64
	spawnPeriod int
	pipeWidth   float64
	pipeGap     float64
	minGapY     float64
	gapSpan     float64
	birdRadius  float64
	birdOffset  float64
}

// NewEnvironment creates a reset environment. rng drives pipe gap positions only.
func NewEnvironment(cfg *config.Config, rng *rand.Rand) *Environment {
	e := &Environment{
		rng:         rng,
		speed:       cfg.Derived.PipeSpeed,
		spawnPeriod: cfg.Derived.SpawnPeriod,
		pipeWidth:   cfg.Pipe.Width,
		pipeGap:     cfg.Pipe.Gap,
		minGapY:     cfg.Pipe.MinGapY,
		gapSpan:     cfg.Pipe.GapSpan,
		birdRadius:  cfg.Bird.Radius,
		birdOffset:  cfg.Bird.Offset,
		pipes:       make([]Pipe, 0, 8),
	}
	e.Reset()
	return e
}

// Reset clears all pipes, rewinds the frame counter and spawns one pipe.
func (e *Environment) Reset() {
	e.pipes = e.pipes[:0]
	e.frame = 0
	e.Spawn()
}

// Spawn appends a pipe at the right edge with a random gap height.
func (e *Environment) Spawn() {
	e.pipes = append(e.pipes, Pipe{X: 1, Y: e.minGapY + e.gapSpan*e.rng.Float64()})
}

// Step advances one tick: scroll, drop expired pipes, spawn on schedule.
func (e *Environment) Step() {
	e.frame++

	kept := e.pipes[:0]
	for _, p := range e.pipes {
		p.X -= e.speed
		if p.X+e.pipeWidth > 0 {
			kept = append(kept, p)
		}
	}
	e.pipes = kept

	if e.frame%e.spawnPeriod == 0 {
		e.Spawn()
	}
}

// Frame returns the number of ticks since the last reset.
func (e *Environment) Frame() int {
	return e.frame
}

// SpawnPeriod returns the number of ticks between spawns.
func (e *Environment) SpawnPeriod() int {
	return e.spawnPeriod
}

// Pipes returns a copy of the live pipes in increasing X.
func (e *Environment) Pipes() []Pipe {
	return append([]Pipe(nil), e.pipes...)
}

// NextPipe returns the pipe the birds must clear next: the first whose right
// edge has not yet passed the bird column. If every pipe has passed it returns
// the first pipe, and with no pipes a centered pipe at the right edge.
func (e *Environment) NextPipe() Pipe {
	for _, p := range e.pipes {
		if p.X+e.pipeWidth >= e.birdOffset {
			return p
		}
	}
	if len(e.pipes) > 0 {
		return e.pipes[0]
	}
	return fallbackPipe
}

// IsColliding reports whether a bird at height y is out of bounds or inside
// a pipe wall. Touching a bound counts as a collision.
func (e *Environment) IsColliding(y float64) bool {
	if y <= e.birdRadius || y >= 1-e.birdRadius {
		return true
	}

	left, right := e.birdOffset-e.birdRadius, e.birdOffset+e.birdRadius
	half := e.pipeGap / 2
	for _, p := range e.pipes {
		if right > p.X && left < p.X+e.pipeWidth {
			if y < p.Y-half || y > p.Y+half {
				return true
			}
		}
	}
	return false
}
