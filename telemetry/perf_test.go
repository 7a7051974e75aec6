package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseEnvironment)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseBirds)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseEnvironment]; !ok {
		t.Error("expected environment phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseBirds]; !ok {
		t.Error("expected birds phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseEnvironment)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Fixed durations: fast takes 10% of every tick, slow the other 90%
	for i := 0; i < 5; i++ {
		pc.record(PerfSample{
			TickDuration: 100 * time.Microsecond,
			Phases: map[string]time.Duration{
				"fast": 10 * time.Microsecond,
				"slow": 90 * time.Microsecond,
			},
		})
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	if math.Abs(fastPct-10) > 1e-9 || math.Abs(slowPct-90) > 1e-9 {
		t.Errorf("phase pct: got fast=%v%% slow=%v%%, want 10%% and 90%%", fastPct, slowPct)
	}
	if stats.PhaseAvg["slow"] != 90*time.Microsecond {
		t.Errorf("slow avg: got %v, want 90µs", stats.PhaseAvg["slow"])
	}
	if stats.AvgTickDuration != 100*time.Microsecond {
		t.Errorf("avg tick: got %v, want 100µs", stats.AvgTickDuration)
	}
}

func TestPerfCollector_WindowDropsOldSamples(t *testing.T) {
	pc := NewPerfCollector(2)

	for _, d := range []time.Duration{time.Millisecond, 10 * time.Microsecond, 30 * time.Microsecond} {
		pc.record(PerfSample{TickDuration: d, Phases: map[string]time.Duration{PhaseBirds: d}})
	}

	stats := pc.Stats()
	if stats.AvgTickDuration != 20*time.Microsecond {
		t.Errorf("avg tick: got %v, want 20µs", stats.AvgTickDuration)
	}
	if stats.MaxTickDuration != 30*time.Microsecond || stats.MinTickDuration != 10*time.Microsecond {
		t.Errorf("min/max: got %v/%v, want 10µs/30µs", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// With 16ms frames, expect ~60 FPS (allow range 40-80)
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		PhasePct: map[string]float64{
			PhaseEnvironment: 5,
			PhaseBirds:       80,
		},
	}

	row := s.ToCSV(12)
	if row.Generation != 12 {
		t.Errorf("generation: got %d, want 12", row.Generation)
	}
	if row.AvgTickUS != 250 {
		t.Errorf("avg_tick_us: got %d, want 250", row.AvgTickUS)
	}
	if row.BirdsPct != 80 || row.EnvironmentPct != 5 {
		t.Errorf("phase pct: got birds=%v environment=%v", row.BirdsPct, row.EnvironmentPct)
	}
	if row.ObservePct != 0 {
		t.Errorf("untracked phase should be 0, got %v", row.ObservePct)
	}
}

func TestPerfStatsSortedPhases(t *testing.T) {
	s := PerfStats{PhaseAvg: map[string]time.Duration{
		PhaseEnvironment: 2 * time.Microsecond,
		PhaseBirds:       9 * time.Microsecond,
		PhaseApply:       2 * time.Microsecond,
	}}

	got := s.SortedPhases()
	want := []string{PhaseBirds, PhaseApply, PhaseEnvironment}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}
