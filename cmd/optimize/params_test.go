package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/flappy/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-12 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestApplyToConfigClampsAndRoundsElites(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()
	cfg.Population.Size = 100

	pv.ApplyToConfig(cfg, []float64{-1, 0.2, 2, 0.104})

	if cfg.Evolution.Eps != pv.Specs[0].Min {
		t.Errorf("eps = %v, want clamped to %v", cfg.Evolution.Eps, pv.Specs[0].Min)
	}
	if cfg.Evolution.Alpha != 0.2 {
		t.Errorf("alpha = %v, want 0.2", cfg.Evolution.Alpha)
	}
	if cfg.Evolution.DirectionalProb != 1 {
		t.Errorf("directional_prob = %v, want clamped to 1", cfg.Evolution.DirectionalProb)
	}
	if cfg.Population.Elites != 10 {
		t.Errorf("elites = %d, want 10", cfg.Population.Elites)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	want := pv.DefaultVector()
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("%s: config default %v, param default %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestTailMean(t *testing.T) {
	tests := []struct {
		values []float64
		k      int
		want   float64
	}{
		{nil, 3, 0},
		{[]float64{1, 2, 3, 4}, 2, 3.5},
		{[]float64{4, 6}, 5, 5},
	}
	for _, tt := range tests {
		if got := tailMean(tt.values, tt.k); got != tt.want {
			t.Errorf("tailMean(%v, %d) = %v, want %v", tt.values, tt.k, got, tt.want)
		}
	}
}
