package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkScoreBreakthrough BookmarkType = "score_breakthrough"
	BookmarkNewHighScore      BookmarkType = "new_high_score"
	BookmarkPopulationCrash   BookmarkType = "population_crash"
	BookmarkStagnation        BookmarkType = "stagnation"
	BookmarkDegenerate        BookmarkType = "degenerate"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType
	Generation  int
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting generations in a training run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []GenerationStats
	historySize int
	historyIdx  int
	historyFull bool

	highScore      float64
	recentMeanPeak float64 // peak mean score since the last crash
	stalled        int     // consecutive generations without a new BestEver
	bestEver       float64
	seen           bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{
		history:     make([]GenerationStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkScoreBreakthrough(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkNewHighScore(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPopulationCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStagnation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if stats.Degenerate {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkDegenerate,
			Generation:  stats.Generation,
			Description: "Score sum was zero, parent kept",
		})
	}

	bd.addToHistory(stats)
	if stats.MeanScore > bd.recentMeanPeak {
		bd.recentMeanPeak = stats.MeanScore
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats GenerationStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []GenerationStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkScoreBreakthrough fires when the best score doubles the rolling average.
func (bd *BookmarkDetector) checkScoreBreakthrough(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.BestScore
	}
	avg := total / float64(len(history))
	if avg <= 0 {
		return nil
	}

	if stats.BestScore > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkScoreBreakthrough,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("Best score %.1f is %.1fx average (%.1f)", stats.BestScore, stats.BestScore/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkNewHighScore(stats GenerationStats) *Bookmark {
	if stats.PipeScore <= bd.highScore {
		return nil
	}
	old := bd.highScore
	bd.highScore = stats.PipeScore
	return &Bookmark{
		Type:        BookmarkNewHighScore,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("High score raised from %.0f to %.0f pipes", old, stats.PipeScore),
	}
}

// checkPopulationCrash fires when the mean score drops >30% below its recent peak.
func (bd *BookmarkDetector) checkPopulationCrash(stats GenerationStats) *Bookmark {
	if bd.recentMeanPeak <= 0 {
		return nil
	}

	drop := 1.0 - stats.MeanScore/bd.recentMeanPeak
	if drop > 0.30 {
		oldPeak := bd.recentMeanPeak
		bd.recentMeanPeak = stats.MeanScore
		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("Mean score fell %.0f%% from peak %.1f to %.1f", drop*100, oldPeak, stats.MeanScore),
		}
	}
	return nil
}

// checkStagnation fires once when BestEver has not moved for a full history window.
func (bd *BookmarkDetector) checkStagnation(stats GenerationStats) *Bookmark {
	if !bd.seen || stats.BestEver > bd.bestEver {
		bd.seen = true
		bd.bestEver = stats.BestEver
		bd.stalled = 0
		return nil
	}

	bd.stalled++
	if bd.stalled == bd.historySize {
		return &Bookmark{
			Type:        BookmarkStagnation,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("No improvement on best fitness %.1f for %d generations", bd.bestEver, bd.stalled),
		}
	}
	return nil
}
