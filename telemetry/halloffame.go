package telemetry

import (
	"encoding/json"
	"sort"

	"github.com/pthm-cable/flappy/neural"
)

// HallEntry records one high-scoring model.
type HallEntry struct {
	Model      *neural.Model
	Fitness    float64
	Generation int
	Slot       int
}

// HallOfFame keeps the best models seen over a run, best first.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider offers a model for entry. Returns true if it was added.
// A model already present (by identity) is not added twice; elites resurface
// every generation with fresh scores.
func (hof *HallOfFame) Consider(model *neural.Model, fitness float64, generation, slot int) bool {
	for i := range hof.entries {
		if hof.entries[i].Model == model {
			if fitness <= hof.entries[i].Fitness {
				return false
			}
			hof.entries = append(hof.entries[:i], hof.entries[i+1:]...)
			break
		}
	}

	hof.entries = hof.insertEntry(hof.entries, HallEntry{
		Model:      model,
		Fitness:    fitness,
		Generation: generation,
		Slot:       slot,
	})
	return hof.contains(model)
}

func (hof *HallOfFame) contains(model *neural.Model) bool {
	for _, e := range hof.entries {
		if e.Model == model {
			return true
		}
	}
	return false
}

// insertEntry adds an entry, maintaining sorted order by fitness.
// If the hall is full, the lowest-fitness entry is removed.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) []HallEntry {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})

	// If hall is full and entry would be last (lowest), skip it
	if len(hall) >= hof.maxSize && idx >= hof.maxSize {
		return hall
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	return hall
}

// Entries returns the entries, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	return append([]HallEntry(nil), hof.entries...)
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// TopFitness returns the best fitness, or 0 if the hall is empty.
func (hof *HallOfFame) TopFitness() float64 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// hallEntryJSON is the JSON-serializable representation of a hall entry.
type hallEntryJSON struct {
	Fitness    float64             `json:"fitness"`
	Generation int                 `json:"generation"`
	Slot       int                 `json:"slot"`
	Model      neural.ModelWeights `json:"model"`
}

// MarshalJSON serializes the hall of fame to JSON.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	export := make([]hallEntryJSON, len(hof.entries))
	for i, e := range hof.entries {
		export[i] = hallEntryJSON{
			Fitness:    e.Fitness,
			Generation: e.Generation,
			Slot:       e.Slot,
			Model:      e.Model.MarshalWeights(),
		}
	}
	return json.MarshalIndent(export, "", "  ")
}
