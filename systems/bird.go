// Package systems holds the simulation rules: the pipe environment and the
// per-tick bird update.
package systems

import (
	"math"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
)

// BirdParams caches the per-tick bird constants.
type BirdParams struct {
	Gravity      float64
	FlapStrength float64
	ProximityRef float64
	RewardScale  float64
}

// NewBirdParams extracts bird constants from the config.
func NewBirdParams(cfg *config.Config) BirdParams {
	return BirdParams{
		Gravity:      cfg.Physics.Gravity,
		FlapStrength: cfg.Physics.FlapStrength,
		ProximityRef: cfg.Reward.ProximityRef,
		RewardScale:  cfg.Reward.Scale,
	}
}

// StepBird advances one bird by a tick against a read-only environment and
// reports whether it died. Dead birds are left untouched.
//
// The model sees [y - gap.Y, vy] and flaps when its output is positive.
// Each tick adds 1 - |y - gap.Y|/ProximityRef to the reward; on death the
// score becomes frame + reward*RewardScale.
func StepBird(body *components.Body, vitals *components.Vitals, model *neural.Model, env *Environment, p BirdParams) (bool, error) {
	if !vitals.Alive {
		return false, nil
	}

	body.VY -= p.Gravity

	pipe := env.NextPipe()
	out, err := model.Forward([]float64{body.Y - pipe.Y, body.VY})
	if err != nil {
		return false, err
	}
	if out[0] > 0 {
		body.VY += p.FlapStrength
	}

	body.Y += body.VY

	vitals.Reward += 1 - math.Abs(body.Y-pipe.Y)/p.ProximityRef

	if env.IsColliding(body.Y) {
		Kill(vitals, env.Frame(), p)
		return true, nil
	}
	return false, nil
}

// Kill ends a bird's trial at the given frame and fixes its score.
func Kill(vitals *components.Vitals, frame int, p BirdParams) {
	vitals.Alive = false
	vitals.DiedAt = frame
	vitals.Score = float64(frame) + vitals.Reward*p.RewardScale
}
