package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/flappy/config"
)

func newTestEnv(t *testing.T) (*Environment, *config.Config) {
	t.Helper()
	cfg := config.Default()
	return NewEnvironment(cfg, rand.New(rand.NewSource(42))), cfg
}

func TestResetSpawnsOnePipe(t *testing.T) {
	env, cfg := newTestEnv(t)

	for i := 0; i < 30; i++ {
		env.Step()
	}
	env.Reset()

	pipes := env.Pipes()
	if len(pipes) != 1 {
		t.Fatalf("got %d pipes after reset, want 1", len(pipes))
	}
	if env.Frame() != 0 {
		t.Errorf("frame after reset: got %d, want 0", env.Frame())
	}
	if pipes[0].X != 1 {
		t.Errorf("pipe X: got %v, want 1", pipes[0].X)
	}
	lo, hi := cfg.Pipe.MinGapY, cfg.Pipe.MinGapY+cfg.Pipe.GapSpan
	if pipes[0].Y < lo || pipes[0].Y >= hi {
		t.Errorf("pipe Y %v outside [%v, %v)", pipes[0].Y, lo, hi)
	}
}

func TestStepScrollsPipes(t *testing.T) {
	env, cfg := newTestEnv(t)

	env.Step()
	got := env.Pipes()[0].X
	want := 1 - cfg.Derived.PipeSpeed
	if got != want {
		t.Errorf("X after one step: got %v, want %v", got, want)
	}
	if env.Frame() != 1 {
		t.Errorf("frame: got %d, want 1", env.Frame())
	}
}

func TestSpawnPeriodProducesSecondPipe(t *testing.T) {
	env, cfg := newTestEnv(t)
	period := cfg.Derived.SpawnPeriod

	for i := 0; i < period-1; i++ {
		env.Step()
	}
	if n := len(env.Pipes()); n != 1 {
		t.Fatalf("after %d steps: got %d pipes, want 1", period-1, n)
	}

	env.Step()
	pipes := env.Pipes()
	if len(pipes) != 2 {
		t.Fatalf("after %d steps: got %d pipes, want 2", period, len(pipes))
	}
	if pipes[0].X >= pipes[1].X {
		t.Errorf("pipes not in increasing X: %v", pipes)
	}
}

func TestExpiredPipesAreRemoved(t *testing.T) {
	env, cfg := newTestEnv(t)

	// Ticks until the first pipe's right edge crosses 0
	ticks := int((1+cfg.Pipe.Width)/cfg.Derived.PipeSpeed) + 1
	first := env.Pipes()[0]
	for i := 0; i < ticks; i++ {
		env.Step()
	}
	for _, p := range env.Pipes() {
		if p.X+cfg.Pipe.Width <= 0 {
			t.Errorf("expired pipe still present: %+v", p)
		}
		if p == first {
			t.Errorf("first pipe should have scrolled away")
		}
	}
}

func TestNextPipe(t *testing.T) {
	env, cfg := newTestEnv(t)
	w := cfg.Pipe.Width
	off := cfg.Bird.Offset

	tests := []struct {
		name  string
		pipes []Pipe
		want  Pipe
	}{
		{"empty", nil, Pipe{X: 1, Y: 0.5}},
		{"ahead", []Pipe{{X: 0.5, Y: 0.3}}, Pipe{X: 0.5, Y: 0.3}},
		{"straddling bird", []Pipe{{X: off - w/2, Y: 0.3}, {X: 0.6, Y: 0.7}}, Pipe{X: off - w/2, Y: 0.3}},
		{"passed", []Pipe{{X: off - w - 0.01, Y: 0.3}, {X: 0.6, Y: 0.7}}, Pipe{X: 0.6, Y: 0.7}},
		{"all passed", []Pipe{{X: -0.05, Y: 0.3}}, Pipe{X: -0.05, Y: 0.3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.pipes = append(env.pipes[:0], tt.pipes...)
			if got := env.NextPipe(); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsCollidingBounds(t *testing.T) {
	env, cfg := newTestEnv(t)
	env.pipes = env.pipes[:0]
	r := cfg.Bird.Radius
	const delta = 1e-9

	tests := []struct {
		y    float64
		want bool
	}{
		{r, true},
		{1 - r, true},
		{r + delta, false},
		{1 - r - delta, false},
		{0.5, false},
		{-0.1, true},
		{1.1, true},
	}
	for _, tt := range tests {
		if got := env.IsColliding(tt.y); got != tt.want {
			t.Errorf("IsColliding(%v): got %v, want %v", tt.y, got, tt.want)
		}
	}
}

func TestIsCollidingPipes(t *testing.T) {
	env, cfg := newTestEnv(t)
	half := cfg.Pipe.Gap / 2

	// Pipe overlapping the bird column
	env.pipes = []Pipe{{X: cfg.Bird.Offset, Y: 0.5}}
	if env.IsColliding(0.5) {
		t.Error("bird in the gap center should not collide")
	}
	if !env.IsColliding(0.5 + half + 0.01) {
		t.Error("bird above the gap should collide")
	}
	if !env.IsColliding(0.5 - half - 0.01) {
		t.Error("bird below the gap should collide")
	}

	// Pipe still ahead of the bird's right edge
	env.pipes = []Pipe{{X: cfg.Bird.Offset + cfg.Bird.Radius + 0.01, Y: 0.5}}
	if env.IsColliding(0.5 + half + 0.01) {
		t.Error("pipe ahead of the bird should not collide")
	}
}
