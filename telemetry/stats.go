// Package telemetry records per-generation statistics, timing and the best
// models of a training run.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GenerationStats holds aggregated statistics for one completed generation.
type GenerationStats struct {
	Generation int    `csv:"generation"`
	Ticks      int    `csv:"ticks"`
	Outcome    string `csv:"outcome"` // "natural" or "capped"

	// Score distribution over the whole population
	BestScore float64 `csv:"best_score"`
	MeanScore float64 `csv:"mean_score"`
	StdScore  float64 `csv:"std_score"`
	P10Score  float64 `csv:"p10_score"`
	P50Score  float64 `csv:"p50_score"`
	P90Score  float64 `csv:"p90_score"`

	EliteMean float64 `csv:"elite_mean"`

	// Pipes passed (frames / spawn period), this generation and best so far
	PipeScore float64 `csv:"pipe_score"`
	HighScore float64 `csv:"high_score"`

	BestEver   float64 `csv:"best_ever"`
	ParentNorm float64 `csv:"parent_norm"`
	Degenerate bool    `csv:"degenerate"` // Blend skipped, parent kept
}

// ScoreSummary holds distribution statistics for a score sample.
type ScoreSummary struct {
	Best, Mean, Std, P10, P50, P90 float64
}

// SummarizeScores calculates best, mean, std and percentiles.
// Returns the zero summary for an empty sample.
func SummarizeScores(scores []float64) ScoreSummary {
	if len(scores) == 0 {
		return ScoreSummary{}
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	return ScoreSummary{
		Best: sorted[len(sorted)-1],
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P50:  stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:  stat.Quantile(0.90, stat.LinInterp, sorted, nil),
	}
}

// Apply copies a summary into the score columns.
func (s *GenerationStats) Apply(sum ScoreSummary) {
	s.BestScore = sum.Best
	s.MeanScore = sum.Mean
	s.StdScore = sum.Std
	s.P10Score = sum.P10
	s.P50Score = sum.P50
	s.P90Score = sum.P90
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("ticks", s.Ticks),
		slog.String("outcome", s.Outcome),
		slog.Float64("best_score", s.BestScore),
		slog.Float64("mean_score", s.MeanScore),
		slog.Float64("p50_score", s.P50Score),
		slog.Float64("elite_mean", s.EliteMean),
		slog.Float64("pipe_score", s.PipeScore),
		slog.Float64("high_score", s.HighScore),
		slog.Float64("best_ever", s.BestEver),
		slog.Float64("parent_norm", s.ParentNorm),
		slog.Bool("degenerate", s.Degenerate),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation",
		"generation", s.Generation,
		"ticks", s.Ticks,
		"outcome", s.Outcome,
		"best_score", s.BestScore,
		"mean_score", s.MeanScore,
		"p10_score", s.P10Score,
		"p50_score", s.P50Score,
		"p90_score", s.P90Score,
		"elite_mean", s.EliteMean,
		"pipe_score", s.PipeScore,
		"high_score", s.HighScore,
		"best_ever", s.BestEver,
		"parent_norm", s.ParentNorm,
		"degenerate", s.Degenerate,
	)
}
