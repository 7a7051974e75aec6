package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/telemetry"
)

// HUDData holds all the data needed to render the stats panel.
type HUDData struct {
	Generation  int
	Alive       int
	Population  int
	BestFitness float64
	HasBest     bool
	Score       int
	HighScore   int
	TicksPerSec float64
	FPS         int32
	Paused      bool

	// Last finished generation, nil before the first one ends
	Last *telemetry.GenerationStats
}

// HUD renders the stats panel in the top-left corner.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	pad := r.Theme.Padding

	height := 7*r.Theme.LineHeight + 2*pad + 24
	if data.Last != nil {
		height += 4*r.Theme.LineHeight + r.Theme.LineHeight
	}
	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + pad
	y := h.y + pad
	inner := h.width - 2*pad

	y = r.DrawSectionHeader(x, y, "Training")
	y = r.DrawLabelValue(x, y, "Generation", fmt.Sprintf("%d", data.Generation))
	y = r.DrawBar(x, y, "Alive", float32(data.Alive), float32(data.Population), inner)

	best := "-"
	if data.HasBest {
		best = fmt.Sprintf("%.1f", data.BestFitness)
	}
	y = r.DrawLabelValue(x, y, "Best fitness", best)
	y = r.DrawLabelValue(x, y, "Score", fmt.Sprintf("%d", data.Score))
	y = r.DrawLabelValue(x, y, "High score", fmt.Sprintf("%d", data.HighScore))
	y = r.DrawLabelValue(x, y, "Ticks/s", fmt.Sprintf("%.0f (%d fps)", data.TicksPerSec, data.FPS))

	if data.Last != nil {
		s := data.Last
		y = r.DrawSectionHeader(x, y+4, "Last generation")
		y = r.DrawLabelValue(x, y, "Ticks", fmt.Sprintf("%d (%s)", s.Ticks, s.Outcome))
		y = r.DrawLabelValue(x, y, "Best / mean", fmt.Sprintf("%.1f / %.1f", s.BestScore, s.MeanScore))
		y = r.DrawLabelValue(x, y, "Elite mean", fmt.Sprintf("%.1f", s.EliteMean))
		y = r.DrawLabelValue(x, y, "Parent norm", fmt.Sprintf("%.3f", s.ParentNorm))
	}

	if data.Paused {
		rl.DrawText("PAUSED", x, y+4, r.Theme.HeaderSize, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.DarkGray)
}

// PerfPanel renders the tick phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y
	p.renderer.DrawPanel(x-6, y-6, 230, int32(20+16*len(stats.PhaseAvg)+12))

	rl.DrawText(fmt.Sprintf("Tick: %s", stats.AvgTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 20

	for _, name := range stats.SortedPhases() {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 16
	}
}
