package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   *Tile
	Target *core.Image // Shared output; tiles never overlap
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TileID   int
	WorkerID int
	Pixels   int
	Error    error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID          int
	renderer    *Renderer
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// NewWorkerPool creates a worker pool sized for numTiles tasks.
// numWorkers <= 0 uses one worker per CPU.
func NewWorkerPool(r *Renderer, numTiles, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, numTiles),
		resultQueue: make(chan TileResult, numTiles),
		numWorkers:  numWorkers,
	}
	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			renderer:    r,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}
	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop waits for queued tasks to drain and shuts the workers down
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()
	for task := range w.taskQueue {
		pixels, err := w.renderer.renderTileSafe(task.Tile, task.Target)
		w.resultQueue <- TileResult{
			TileID:   task.Tile.ID,
			WorkerID: w.ID,
			Pixels:   pixels,
			Error:    err,
		}
	}
}

// renderTileSafe renders a tile, turning a panic into an error so one bad
// tile cannot take down the whole render
func (r *Renderer) renderTileSafe(tile *Tile, target *core.Image) (pixels int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: tile %d %v: %v", ErrTileFailed, tile.ID, tile.Bounds, p)
		}
	}()
	return r.renderTile(tile, target), nil
}
