package neural

import (
	"errors"
	"math"
	"testing"
)

func constModel(layers []int, v float64) *Model {
	m := MustNewModel(layers)
	m.RandomizeWeights(func() float64 { return v })
	m.RandomizeBiases(func() float64 { return v })
	return m
}

func TestCombineModelsFormula(t *testing.T) {
	layers := []int{2, 2, 1}
	a := constModel(layers, 1)
	b := constModel(layers, 3)
	weights := []float64{-1, 1}
	scores := []float64{10, 30}
	alpha := 0.05

	out, err := CombineModels([]*Model{a, b}, weights, scores, alpha)
	if err != nil {
		t.Fatalf("CombineModels failed: %v", err)
	}

	for l := range out.W {
		for i := range out.W[l].Data {
			want := alpha * (weights[0]*a.W[l].Data[i] + weights[1]*b.W[l].Data[i]) / 40
			if math.Abs(out.W[l].Data[i]-want) > 1e-15 {
				t.Errorf("W[%d][%d]: got %v, want %v", l, i, out.W[l].Data[i], want)
			}
		}
		for i := range out.B[l] {
			// Biases are unscaled: (-1*1 + 1*3) * 0.05 / 40
			want := alpha * 2 / 40
			if math.Abs(out.B[l][i]-want) > 1e-15 {
				t.Errorf("B[%d][%d]: got %v, want %v", l, i, out.B[l][i], want)
			}
		}
	}
}

func TestCombineModelsUsesRawScoreSum(t *testing.T) {
	layers := []int{2, 1}
	models := []*Model{constModel(layers, 1), constModel(layers, 1)}
	// The weights sum to 2 but the scores sum to 4: the result must halve.
	out, err := CombineModels(models, []float64{1, 1}, []float64{1, 3}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.B[0][0]; got != 0.5 {
		t.Errorf("got %v, want 0.5", got)
	}
}

func TestCombineModelsPreservesShapeWithoutAliasing(t *testing.T) {
	layers := []int{2, 8, 8, 1}
	models := []*Model{constModel(layers, 1), constModel(layers, 2), constModel(layers, 3)}
	snapshots := []*Model{models[0].Clone(), models[1].Clone(), models[2].Clone()}

	out, err := CombineModels(models, []float64{-1, 0, 1}, []float64{1, 2, 3}, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if !out.SameShape(models[0]) {
		t.Fatalf("layers: got %v, want %v", out.LayerSizes(), layers)
	}
	for l := range out.W {
		if out.W[l].Rows != models[0].W[l].Rows || out.W[l].Cols != models[0].W[l].Cols {
			t.Errorf("W[%d] shape differs", l)
		}
	}

	for l := range out.W {
		for i := range out.W[l].Data {
			out.W[l].Data[i] = 42
		}
		for i := range out.B[l] {
			out.B[l][i] = 42
		}
	}
	for i, m := range models {
		if !m.Equal(snapshots[i]) {
			t.Errorf("mutating the blend changed input model %d", i)
		}
	}
}

func TestCombineModelsErrors(t *testing.T) {
	small := constModel([]int{2, 1}, 1)
	big := constModel([]int{2, 2, 1}, 1)

	tests := []struct {
		name    string
		models  []*Model
		weights []float64
		scores  []float64
		want    error
	}{
		{"empty", nil, nil, nil, ErrNoModels},
		{"weight count", []*Model{small, small}, []float64{1}, []float64{1, 1}, ErrShapeMismatch},
		{"score count", []*Model{small, small}, []float64{1, 1}, []float64{1}, ErrShapeMismatch},
		{"topology", []*Model{small, big}, []float64{1, 1}, []float64{1, 1}, ErrShapeMismatch},
		{"zero scores", []*Model{small, small}, []float64{-1, 1}, []float64{0, 0}, ErrDegenerateGeneration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CombineModels(tt.models, tt.weights, tt.scores, 0.05); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestModelNorm(t *testing.T) {
	// [2,1]: two weights scaled by sqrt(2/2) and one bias, all equal to 2
	m := constModel([]int{2, 1}, 2)
	if got, want := m.Norm(), math.Sqrt(12); math.Abs(got-want) > 1e-12 {
		t.Errorf("Norm = %v, want %v", got, want)
	}
	if got := MustNewModel([]int{2, 3, 1}).Norm(); got != 0 {
		t.Errorf("zero model Norm = %v, want 0", got)
	}
}
