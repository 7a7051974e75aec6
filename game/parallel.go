package game

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/systems"
	"github.com/pthm-cable/flappy/telemetry"
)

// parallelThreshold is the minimum live bird count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// birdSnapshot captures one live bird's state for the compute phase.
type birdSnapshot struct {
	Entity ecs.Entity
	Model  *neural.Model
}

// intent captures a bird's next state, applied after the compute phase.
type intent struct {
	Body   components.Body
	Vitals components.Vitals
	Died   bool
	Err    error
}

// workChunk represents a range of snapshots for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds resources for parallel bird evaluation.
type parallelState struct {
	snapshots  []birdSnapshot
	intents    []intent
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(workers, capacity int) *parallelState {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &parallelState{
		numWorkers: workers,
		snapshots:  make([]birdSnapshot, 0, capacity),
		intents:    make([]intent, 0, capacity),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(g *Game) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.computeChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// stepBirds advances every live bird by one tick and returns how many died.
// The environment is only read while birds are computed.
func (g *Game) stepBirds() (int, error) {
	// Phase A: Build snapshots and seed intents (single-threaded)
	g.perfCollector.StartPhase(telemetry.PhaseSnapshot)
	g.parallel.snapshots = g.parallel.snapshots[:0]
	g.parallel.intents = g.parallel.intents[:0]

	query := g.birdFilter.Query()
	for query.Next() {
		body, vitals, pilot := query.Get()
		if !vitals.Alive {
			continue
		}
		g.parallel.snapshots = append(g.parallel.snapshots, birdSnapshot{
			Entity: query.Entity(),
			Model:  pilot.Model,
		})
		g.parallel.intents = append(g.parallel.intents, intent{
			Body:   *body,
			Vitals: *vitals,
		})
	}

	n := len(g.parallel.snapshots)
	if n == 0 {
		return 0, nil
	}

	// Phase B: Compute - choose single or parallel based on bird count
	g.perfCollector.StartPhase(telemetry.PhaseBirds)
	if n < parallelThreshold || g.parallel.numWorkers < 2 {
		g.computeChunk(0, n)
	} else {
		g.computeParallel(n)
	}

	// Phase C: Apply intents (single-threaded)
	g.perfCollector.StartPhase(telemetry.PhaseApply)
	return g.applyIntents()
}

// computeParallel dispatches work to the worker pool.
func (g *Game) computeParallel(n int) {
	if !g.parallel.running {
		g.parallel.startWorkers(g)
	}

	numWorkers := g.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}

		g.parallel.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-g.parallel.doneChan
	}
}

// computeChunk steps a range of birds. Each intent is owned by exactly one worker.
func (g *Game) computeChunk(i0, i1 int) {
	for i := i0; i < i1; i++ {
		snap := &g.parallel.snapshots[i]
		in := &g.parallel.intents[i]
		in.Died, in.Err = systems.StepBird(&in.Body, &in.Vitals, snap.Model, g.env, g.params)
	}
}

// applyIntents writes computed state back to the ECS components.
func (g *Game) applyIntents() (int, error) {
	deaths := 0
	for i, snap := range g.parallel.snapshots {
		in := &g.parallel.intents[i]
		if in.Err != nil {
			return deaths, in.Err
		}

		*g.bodyMap.Get(snap.Entity) = in.Body
		*g.vitalsMap.Get(snap.Entity) = in.Vitals
		if in.Died {
			deaths++
		}
	}
	return deaths, nil
}

// stopParallelWorkers should be called when shutting down the game.
func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}
