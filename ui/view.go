package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/telemetry"
)

// View draws the latest observed tick: pipes, birds and the stats panel.
// It implements game.Observer and keeps only copies of what it is handed.
type View struct {
	renderer *Renderer
	hud      *HUD
	perf     *PerfPanel
	network  *NetworkPanel
	controls *Controls

	width, height int32
	population    int
	pipeWidth     float32
	pipeGap       float32
	birdRadius    float32
	birdOffset    float32

	tick     game.TickView
	hasTick  bool
	last     telemetry.GenerationStats
	hasLast  bool
	showPerf bool
	showNet  bool
}

// NewView creates a view sized to the configured screen.
func NewView(cfg *config.Config) *View {
	w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	return &View{
		renderer:   NewRenderer(),
		hud:        NewHUD(10, 10, 260),
		perf:       NewPerfPanel(w-230, 16),
		network:    NewNetworkPanel(10, h-260, 300, 200),
		controls:   NewControls(float32(w-250), float32(h-40)),
		width:      w,
		height:     h,
		population: cfg.Population.Size,
		pipeWidth:  float32(cfg.Pipe.Width),
		pipeGap:    float32(cfg.Pipe.Gap),
		birdRadius: float32(cfg.Bird.Radius),
		birdOffset: float32(cfg.Bird.Offset),
	}
}

// ObserveTick records the tick for the next Draw.
func (v *View) ObserveTick(t game.TickView) {
	v.tick = t
	v.hasTick = true
}

// ObserveGeneration records the finished generation's statistics.
func (v *View) ObserveGeneration(r game.GenerationResult) {
	v.last = r.Stats
	v.hasLast = true
}

// Controls returns the pacing controls.
func (v *View) Controls() *Controls {
	return v.controls
}

// HandleInput processes keyboard input.
func (v *View) HandleInput() {
	if rl.IsKeyPressed(rl.KeyP) {
		v.showPerf = !v.showPerf
	}
	if rl.IsKeyPressed(rl.KeyN) {
		v.showNet = !v.showNet
	}
	v.controls.HandleInput()
}

// toScreen maps world coordinates (origin bottom-left, unit square) to pixels.
func (v *View) toScreen(x, y float32) (int32, int32) {
	return int32(x * float32(v.width)), int32((1 - y) * float32(v.height))
}

// Draw renders the scene. Call between rl.BeginDrawing and rl.EndDrawing.
func (v *View) Draw(g *game.Game) {
	theme := v.renderer.Theme
	rl.ClearBackground(theme.Background)

	if v.hasTick {
		v.drawPipes()
		v.drawBirds()
	}

	best, hasBest := g.BestFitness()
	data := HUDData{
		Generation:  g.Generation(),
		Alive:       g.Alive(),
		Population:  v.population,
		BestFitness: best,
		HasBest:     hasBest,
		Score:       v.tick.Score,
		HighScore:   g.HighScore(),
		FPS:         rl.GetFPS(),
		Paused:      v.controls.Paused(),
	}
	perf := g.Perf()
	data.TicksPerSec = perf.TicksPerSecond
	if v.hasLast {
		data.Last = &v.last
	}
	v.hud.Draw(data)

	if v.showPerf {
		v.perf.Draw(perf)
	}
	if v.showNet {
		v.network.Draw("Parent network", g.Parent())
	}

	v.controls.Draw()
	v.hud.DrawControls(v.height, "[Space] Pause  [,/.] Speed  [P] Perf  [N] Network  [Esc] Quit")
}

func (v *View) drawPipes() {
	theme := v.renderer.Theme
	w := int32(v.pipeWidth * float32(v.width))
	half := v.pipeGap / 2

	for _, p := range v.tick.Pipes {
		x, gapTop := v.toScreen(float32(p.X), float32(p.Y)+half)
		_, gapBottom := v.toScreen(float32(p.X), float32(p.Y)-half)

		rl.DrawRectangle(x, 0, w, gapTop, theme.PipeFill)
		rl.DrawRectangleLines(x, 0, w, gapTop, theme.PipeEdge)
		rl.DrawRectangle(x, gapBottom, w, v.height-gapBottom, theme.PipeFill)
		rl.DrawRectangleLines(x, gapBottom, w, v.height-gapBottom, theme.PipeEdge)
	}
}

func (v *View) drawBirds() {
	theme := v.renderer.Theme
	radius := v.birdRadius * float32(v.height)

	// Elites last so they stay visible in the flock
	for pass := 0; pass < 2; pass++ {
		for _, b := range v.tick.Birds {
			if !b.Alive || b.Elite != (pass == 1) {
				continue
			}
			color := theme.Bird
			if b.Elite {
				color = theme.EliteBird
			}
			x, y := v.toScreen(v.birdOffset, float32(b.Y))
			rl.DrawCircle(x, y, radius, color)
		}
	}
}
