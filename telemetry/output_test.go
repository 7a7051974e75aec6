package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
)

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", om, err)
	}
	// Methods are nil-safe
	if err := om.WriteGeneration(GenerationStats{}); err != nil {
		t.Errorf("WriteGeneration on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestOutputManagerWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}

	for g := 0; g < 3; g++ {
		if err := om.WriteGeneration(GenerationStats{Generation: g, Ticks: 10 * g, Outcome: "natural"}); err != nil {
			t.Fatalf("WriteGeneration failed: %v", err)
		}
		if err := om.WritePerf(PerfStats{}, g); err != nil {
			t.Fatalf("WritePerf failed: %v", err)
		}
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}
	hof := NewHallOfFame(1)
	hof.Consider(neural.MustNewModel([]int{2, 1}), 3, 0, 0)
	if err := om.WriteHallOfFame(hof); err != nil {
		t.Fatalf("WriteHallOfFame failed: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("generations.csv has %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "generation,ticks,outcome") {
		t.Errorf("unexpected header: %s", lines[0])
	}

	for _, name := range []string{"perf.csv", "config.yaml", "hall_of_fame.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}
