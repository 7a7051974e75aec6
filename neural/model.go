// Package neural provides the fixed-topology feedforward networks that
// pilot the birds, and the noise and blending operations the evolution
// strategy applies to them.
package neural

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrShapeMismatch is returned when a vector or model does not match the expected topology.
	ErrShapeMismatch = errors.New("neural: shape mismatch")
	// ErrInvalidLayers is returned for a layer-size list that cannot form a network.
	ErrInvalidLayers = errors.New("neural: invalid layer sizes")
)

// Activation is an elementwise activation function.
type Activation func(float64) float64

// ReLU is the rectified-linear activation used by all hidden layers.
func ReLU(x float64) float64 {
	return math.Max(0, x)
}

// Matrix is a dense row-major matrix of fixed shape.
type Matrix struct {
	Rows, Cols int
	Data       []float64 // len == Rows*Cols
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) Matrix {
	return Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the element at row i, column j.
func (m Matrix) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

// Set assigns the element at row i, column j.
func (m Matrix) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = v
}

// Row returns a view of row i.
func (m Matrix) Row(i int) []float64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

func (m Matrix) clone() Matrix {
	return Matrix{Rows: m.Rows, Cols: m.Cols, Data: append([]float64(nil), m.Data...)}
}

// Model is a feedforward network with layer widths L[0..n].
// W[l-1] has shape L[l] x L[l-1] and B[l-1] has length L[l].
// Shapes are fixed at construction.
type Model struct {
	layers []int
	W      []Matrix
	B      [][]float64

	// Hidden-layer activation; the output layer is linear.
	activation Activation
}

// NewModel creates a zero-initialized model for the given layer widths.
func NewModel(layers []int) (*Model, error) {
	if len(layers) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 layers, got %d", ErrInvalidLayers, len(layers))
	}
	for i, n := range layers {
		if n < 1 {
			return nil, fmt.Errorf("%w: layer %d has width %d", ErrInvalidLayers, i, n)
		}
	}

	m := &Model{
		layers:     append([]int(nil), layers...),
		activation: ReLU,
	}
	m.zero()
	return m, nil
}

// MustNewModel is like NewModel but panics on error.
func MustNewModel(layers []int) *Model {
	m, err := NewModel(layers)
	if err != nil {
		panic(err)
	}
	return m
}

// zero allocates W and B with shapes derived from the layer widths.
func (m *Model) zero() {
	n := len(m.layers) - 1
	m.W = make([]Matrix, n)
	m.B = make([][]float64, n)
	for l := 1; l <= n; l++ {
		m.W[l-1] = NewMatrix(m.layers[l], m.layers[l-1])
		m.B[l-1] = make([]float64, m.layers[l])
	}
}

// emptyLike returns a zeroed model with the receiver's topology and activation.
func (m *Model) emptyLike() *Model {
	out := &Model{
		layers:     m.layers,
		activation: m.activation,
	}
	out.zero()
	return out
}

// LayerSizes returns a copy of the layer widths.
func (m *Model) LayerSizes() []int {
	return append([]int(nil), m.layers...)
}

// SetActivation replaces the hidden-layer activation.
func (m *Model) SetActivation(fn Activation) {
	m.activation = fn
}

// ParamCount returns the total number of weights and biases.
func (m *Model) ParamCount() int {
	n := 0
	for l := range m.W {
		n += len(m.W[l].Data) + len(m.B[l])
	}
	return n
}

// SameShape reports whether two models share a topology.
func (m *Model) SameShape(other *Model) bool {
	if len(m.layers) != len(other.layers) {
		return false
	}
	for i := range m.layers {
		if m.layers[i] != other.layers[i] {
			return false
		}
	}
	return true
}

// Equal reports whether two models have the same topology and identical parameters.
func (m *Model) Equal(other *Model) bool {
	if !m.SameShape(other) {
		return false
	}
	for l := range m.W {
		for i, w := range m.W[l].Data {
			if other.W[l].Data[i] != w {
				return false
			}
		}
		for i, b := range m.B[l] {
			if other.B[l][i] != b {
				return false
			}
		}
	}
	return true
}

// RandomizeWeights fills every weight with sampler() scaled by sqrt(2/fan_in)
// (He initialization), where fan_in is the width of the previous layer.
func (m *Model) RandomizeWeights(sampler func() float64) {
	for l := range m.W {
		scale := math.Sqrt(2 / float64(m.layers[l]))
		for i := range m.W[l].Data {
			m.W[l].Data[i] = sampler() * scale
		}
	}
}

// RandomizeBiases fills every bias with an unscaled sampler() draw.
func (m *Model) RandomizeBiases(sampler func() float64) {
	for l := range m.B {
		for i := range m.B[l] {
			m.B[l][i] = sampler()
		}
	}
}

// Clone creates a deep copy of the model.
func (m *Model) Clone() *Model {
	clone := &Model{
		layers:     m.layers,
		activation: m.activation,
		W:          make([]Matrix, len(m.W)),
		B:          make([][]float64, len(m.B)),
	}
	for l := range m.W {
		clone.W[l] = m.W[l].clone()
		clone.B[l] = append([]float64(nil), m.B[l]...)
	}
	return clone
}

// Forward evaluates the network. The input length must equal L[0]; the
// result has length L[n]. Hidden layers apply the activation, the output
// layer is linear.
func (m *Model) Forward(x []float64) ([]float64, error) {
	if len(x) != m.layers[0] {
		return nil, fmt.Errorf("%w: input has length %d, model expects %d", ErrShapeMismatch, len(x), m.layers[0])
	}

	a := x
	last := len(m.W) - 1
	for l := range m.W {
		w := m.W[l]
		z := make([]float64, w.Rows)
		for i := 0; i < w.Rows; i++ {
			sum := m.B[l][i]
			row := w.Row(i)
			for j, v := range a {
				sum += row[j] * v
			}
			if l < last {
				sum = m.activation(sum)
			}
			z[i] = sum
		}
		a = z
	}
	return a, nil
}
