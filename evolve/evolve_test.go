package evolve

import (
	"math/rand"
	"testing"
)

func TestRanksTiesShareFirstOccurrence(t *testing.T) {
	scores := []float64{5, 1, 5, 3, 1}
	// ascending: 1 1 3 5 5
	want := []int{3, 0, 3, 2, 0}

	got := Ranks(scores)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank[%d]: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPhiEndpoints(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(40)
		scores := make([]float64, n)
		for i := range scores {
			scores[i] = rng.Float64() * 1000
		}
		weights := Phi(scores)

		hi, lo := 0, 0
		for i, s := range scores {
			if s > scores[hi] {
				hi = i
			}
			if s < scores[lo] {
				lo = i
			}
		}
		if weights[hi] != 1 {
			t.Errorf("n=%d: phi(max) = %v, want 1", n, weights[hi])
		}
		if weights[lo] != -1 {
			t.Errorf("n=%d: phi(min) = %v, want -1", n, weights[lo])
		}
		for i, w := range weights {
			if w < -1 || w > 1 {
				t.Errorf("n=%d: phi[%d] = %v out of [-1, 1]", n, i, w)
			}
		}
	}
}

func TestPhiIndependentOfScale(t *testing.T) {
	a := Phi([]float64{1, 2, 3, 4})
	b := Phi([]float64{10, 2000, 30000, 400000})
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("phi[%d]: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestPhiEqualScoresConstant(t *testing.T) {
	weights := Phi([]float64{7, 7, 7, 7, 7})
	for i, w := range weights {
		if w != weights[0] {
			t.Errorf("phi[%d] = %v, want %v", i, w, weights[0])
		}
	}
	if weights[0] != -1 {
		t.Errorf("all-equal scores share rank 0, got phi %v", weights[0])
	}
}

func TestPhiSmallInputs(t *testing.T) {
	if got := Phi(nil); len(got) != 0 {
		t.Errorf("Phi(nil): got %v", got)
	}
	if got := Phi([]float64{3}); len(got) != 1 || got[0] != 0 {
		t.Errorf("Phi([3]): got %v, want [0]", got)
	}
}

func TestSelectElites(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		k      int
		want   []int
	}{
		{"descending", []float64{1, 4, 2, 3}, 2, []int{1, 3}},
		{"ties keep index order", []float64{2, 5, 5, 1, 5}, 3, []int{1, 2, 4}},
		{"k exceeds length", []float64{1, 2}, 5, []int{1, 0}},
		{"zero elites", []float64{1, 2}, 0, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectElites(tt.scores, tt.k)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestBest(t *testing.T) {
	if got := Best(nil); got != -1 {
		t.Errorf("Best(nil): got %d, want -1", got)
	}
	if got := Best([]float64{3, 9, 9, 1}); got != 1 {
		t.Errorf("Best: got %d, want 1", got)
	}
}
