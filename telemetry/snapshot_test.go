package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/flappy/neural"
)

func testWeights(t *testing.T, layers []int, v float64) neural.ModelWeights {
	t.Helper()
	m := neural.MustNewModel(layers)
	m.RandomizeWeights(func() float64 { return v })
	m.RandomizeBiases(func() float64 { return -v })
	return m.MarshalWeights()
}

func TestSnapshotSaveLoad(t *testing.T) {
	dir := t.TempDir()

	snap := &Snapshot{
		Version:     SnapshotVersion,
		RNGSeed:     12345,
		Generation:  42,
		Parent:      testWeights(t, []int{2, 3, 1}, 0.5),
		Elites:      []neural.ModelWeights{testWeights(t, []int{2, 3, 1}, 0.25)},
		BestFitness: 812.5,
		HighScore:   7,
	}

	path, err := SaveSnapshot(snap, dir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("snapshot file not created: %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if loaded.Generation != 42 || loaded.RNGSeed != 12345 || loaded.HighScore != 7 {
		t.Errorf("header mismatch: %+v", loaded)
	}

	parent, err := neural.ModelFromWeights(loaded.Parent)
	if err != nil {
		t.Fatalf("parent weights invalid: %v", err)
	}
	want, err := neural.ModelFromWeights(snap.Parent)
	if err != nil {
		t.Fatal(err)
	}
	if !parent.Equal(want) {
		t.Error("parent weights changed across save/load")
	}
	if len(loaded.Elites) != 1 {
		t.Errorf("got %d elites, want 1", len(loaded.Elites))
	}
	if loaded.Bookmark != nil {
		t.Errorf("unexpected bookmark %+v", loaded.Bookmark)
	}
}

func TestSnapshotFilename(t *testing.T) {
	dir := t.TempDir()

	snap := &Snapshot{Version: SnapshotVersion, Generation: 9, Parent: testWeights(t, []int{1, 1}, 1)}
	path, err := SaveSnapshot(snap, dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := filepath.Base(path); got != "snapshot_9.json" {
		t.Errorf("filename = %q, want snapshot_9.json", got)
	}

	snap.Bookmark = &Bookmark{Type: BookmarkNewHighScore, Generation: 9}
	path, err = SaveSnapshot(snap, dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := filepath.Base(path); got != "snapshot_9_new_high_score.json" {
		t.Errorf("filename = %q, want snapshot_9_new_high_score.json", got)
	}
}
