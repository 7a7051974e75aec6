// Package components defines ECS components for the simulation.
package components

import "github.com/pthm-cable/flappy/neural"

// Body is a bird's vertical state. Y is in world units, 0 at the bottom and 1 at the top.
type Body struct {
	Y, VY float64
}

// Vitals tracks a bird's trial. Score is meaningful only once Alive is false.
type Vitals struct {
	Alive  bool
	Reward float64 // Accumulated proximity reward
	Score  float64 // Fitness, fixed at death
	DiedAt int     // Environment frame of death
}

// Pilot binds a bird to the model that flies it.
type Pilot struct {
	Model *neural.Model
	Slot  int  // Index in the generation roster
	Elite bool // Carried over unchanged from the previous generation
}
