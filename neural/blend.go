package neural

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrNoModels is returned when blending an empty population.
	ErrNoModels = errors.New("neural: no models to combine")
	// ErrDegenerateGeneration is returned when the raw scores sum to zero.
	ErrDegenerateGeneration = errors.New("neural: degenerate generation, scores sum to zero")
)

// CombineModels blends a population into one model. Every parameter of the
// result is
//
//	alpha * Σ weights[i]*param_i / Σ scores
//
// The numerator uses the rank-shaped weights while the denominator uses the
// raw scores. The result has fresh parameter storage and replaces the parent
// outright; it is not added to any previous model.
func CombineModels(models []*Model, weights, scores []float64, alpha float64) (*Model, error) {
	if len(models) == 0 {
		return nil, ErrNoModels
	}
	if len(weights) != len(models) || len(scores) != len(models) {
		return nil, fmt.Errorf("%w: %d models, %d weights, %d scores",
			ErrShapeMismatch, len(models), len(weights), len(scores))
	}
	for i, m := range models[1:] {
		if !m.SameShape(models[0]) {
			return nil, fmt.Errorf("%w: model %d has layers %v, want %v",
				ErrShapeMismatch, i+1, m.layers, models[0].layers)
		}
	}

	total := floats.Sum(scores)
	if total == 0 {
		return nil, ErrDegenerateGeneration
	}

	out := models[0].emptyLike()
	k := alpha / total
	for l := range out.W {
		for i, m := range models {
			floats.AddScaled(out.W[l].Data, weights[i], m.W[l].Data)
			floats.AddScaled(out.B[l], weights[i], m.B[l])
		}
		floats.Scale(k, out.W[l].Data)
		floats.Scale(k, out.B[l])
	}
	return out, nil
}

// Norm returns the L2 norm over all parameters.
func (m *Model) Norm() float64 {
	var sq float64
	for l := range m.W {
		w := floats.Norm(m.W[l].Data, 2)
		b := floats.Norm(m.B[l], 2)
		sq += w*w + b*b
	}
	return math.Sqrt(sq)
}
