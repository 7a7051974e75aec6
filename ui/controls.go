package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Speed limits, in ticks per frame.
const (
	MinSpeed = 1
	MaxSpeed = 100
)

// Controls holds the pacing state. Speed and pause only change how many
// ticks run per drawn frame; the game still runs every tick in order.
type Controls struct {
	x, y   float32
	speed  float32
	paused bool
}

// NewControls creates controls anchored at x, y running one tick per frame.
func NewControls(x, y float32) *Controls {
	return &Controls{x: x, y: y, speed: MinSpeed}
}

// HandleInput processes keyboard shortcuts.
func (c *Controls) HandleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		c.paused = !c.paused
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		c.SetSpeed(int(c.speed) - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		c.SetSpeed(int(c.speed) + 1)
	}
}

// Draw renders the speed slider.
func (c *Controls) Draw() {
	rl.DrawText(fmt.Sprintf("Speed: %dx", int(c.speed)), int32(c.x), int32(c.y)-18, 14, rl.DarkGray)
	c.speed = gui.SliderBar(
		rl.Rectangle{X: c.x, Y: c.y, Width: 200, Height: 20},
		"", "",
		c.speed, MinSpeed, MaxSpeed,
	)
}

// SetSpeed sets ticks per frame, clamped to [MinSpeed, MaxSpeed].
func (c *Controls) SetSpeed(n int) {
	c.speed = float32(min(max(n, MinSpeed), MaxSpeed))
}

// Paused reports whether ticking is suspended.
func (c *Controls) Paused() bool {
	return c.paused
}

// TicksThisFrame returns how many ticks to run before the next draw.
func (c *Controls) TicksThisFrame() int {
	if c.paused {
		return 0
	}
	return int(c.speed)
}
