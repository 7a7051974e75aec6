package game

import (
	"log/slog"
	"path/filepath"

	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/telemetry"
)

// Snapshot captures the state between generations: the parent and elites
// the next spawn will use, plus best-ever tracking.
func (g *Game) Snapshot() *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		RNGSeed:     g.seed,
		Generation:  g.generation,
		Parent:      g.parent.MarshalWeights(),
		Elites:      make([]neural.ModelWeights, len(g.elites)),
		BestFitness: g.bestFitness,
		HighScore:   g.highScore,
	}
	for i, m := range g.elites {
		s.Elites[i] = m.MarshalWeights()
	}
	if g.bestModel != nil {
		mw := g.bestModel.MarshalWeights()
		s.BestModel = &mw
	}
	return s
}

// saveBookmarkSnapshot writes a snapshot tagged with the bookmark that
// triggered it into the output directory.
func (g *Game) saveBookmarkSnapshot(b telemetry.Bookmark) {
	if g.outputManager == nil {
		return
	}
	s := g.Snapshot()
	s.Bookmark = &b
	path, err := telemetry.SaveSnapshot(s, filepath.Join(g.outputManager.Dir(), "snapshots"))
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Debug("snapshot saved", "path", path, "bookmark", string(b.Type))
}
