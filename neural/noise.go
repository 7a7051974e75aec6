package neural

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// minNorm floors the norm of a directional draw so a zero vector cannot divide by zero.
const minNorm = 1e-8

// Noise draws mutation noise from a single seeded source.
// Draws happen in call order, so a fixed seed reproduces a run.
type Noise struct {
	rng *rand.Rand

	// DirectionalProb is the chance CloneWithNoise picks directional noise
	// over isotropic Gaussian noise.
	DirectionalProb float64
}

// NewNoise wraps rng with the default 50/50 strategy split.
func NewNoise(rng *rand.Rand) *Noise {
	return &Noise{rng: rng, DirectionalProb: 0.5}
}

// Uniform returns a draw from U[-1, 1).
func (n *Noise) Uniform() float64 {
	return n.rng.Float64()*2 - 1
}

// Gaussian returns a standard normal draw.
func (n *Noise) Gaussian() float64 {
	return n.rng.NormFloat64()
}

// Directional returns a vector of the given length pointing in a uniformly
// drawn direction (entries U[-1,1], then L2-normalized) with norm eps.
func (n *Noise) Directional(size int, eps float64) []float64 {
	v := make([]float64, size)
	for i := range v {
		v[i] = n.Uniform()
	}
	norm := floats.Norm(v, 2)
	if norm < minNorm {
		norm = minNorm
	}
	floats.Scale(eps/norm, v)
	return v
}

// useDirectional decides the strategy for one clone.
func (n *Noise) useDirectional() bool {
	return n.rng.Float64() < n.DirectionalProb
}

// CloneWithNoise returns a new model whose parameters are the receiver's
// plus noise of magnitude eps. Each call picks one strategy for the whole
// model: either every parameter group (each weight matrix, each bias vector)
// receives its own directional vector of norm eps, or every scalar receives
// independent N(0,1)*eps noise. The receiver is not modified.
func (m *Model) CloneWithNoise(noise *Noise, eps float64) *Model {
	child := m.Clone()
	if noise.useDirectional() {
		for l := range child.W {
			floats.Add(child.W[l].Data, noise.Directional(len(child.W[l].Data), eps))
		}
		for l := range child.B {
			floats.Add(child.B[l], noise.Directional(len(child.B[l]), eps))
		}
		return child
	}

	for l := range child.W {
		for i := range child.W[l].Data {
			child.W[l].Data[i] += noise.Gaussian() * eps
		}
	}
	for l := range child.B {
		for i := range child.B[l] {
			child.B[l][i] += noise.Gaussian() * eps
		}
	}
	return child
}
