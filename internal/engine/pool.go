// Package engine is the Execution Engine: a bounded worker pool that turns
// a task into a sequence of process launches, honoring the generation
// protocol so a superseded worker never mutates state after a rerun or
// kill has moved on without it.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/feltlabs/weft/internal/model"
)

// taskRun is one unit of work handed to a pool worker: run taskIdx
// starting at startStep, valid only while the task's generation is gen.
type taskRun struct {
	taskIdx, startStep int
	generation         uint64
}

// Engine is a fixed-size pool of workers draining a FIFO of task-runs.
// Only whole tasks occupy a pool slot; stepping through a task's steps is a
// tight inner loop inside one worker, so intra-task sequencing never needs
// a scheduler decision between steps.
type Engine struct {
	model     *model.Model
	logsRoot  string
	killGrace time.Duration
	logger    zerolog.Logger

	queue chan taskRun
	wg    sync.WaitGroup
}

// New returns an Engine with the given worker count and starts its worker
// goroutines. queueCapacity should be at least the number of tasks: tasks,
// not steps, occupy queue and pool capacity, so the bound on live
// processes is exactly workers. Workers run until ctx is canceled and the
// queue is subsequently closed by Drain.
func New(ctx context.Context, m *model.Model, workers, queueCapacity int, logsRoot string, killGrace time.Duration, logger zerolog.Logger) *Engine {
	if workers < 1 {
		workers = 1
	}
	if queueCapacity < workers {
		queueCapacity = workers
	}
	e := &Engine{
		model:     m,
		logsRoot:  logsRoot,
		killGrace: killGrace,
		logger:    logger,
		queue:     make(chan taskRun, queueCapacity),
	}
	for i := 0; i < workers; i++ {
		e.wg.Add(1)
		go e.worker(ctx)
	}
	return e
}

// Dispatch implements model.Dispatcher. It enqueues the run, blocking only
// as long as it takes for a slot to free up in a saturated queue.
func (e *Engine) Dispatch(taskIdx, startStep int, generation uint64) {
	e.queue <- taskRun{taskIdx: taskIdx, startStep: startStep, generation: generation}
}

// TerminateProcessGroup implements model.Dispatcher. It runs the kill
// escalation protocol on its own goroutine so the caller, which may be
// holding application-level state, is never blocked by it.
func (e *Engine) TerminateProcessGroup(pgid int) {
	go terminateGroup(pgid, e.killGrace, e.logger)
}

// Drain stops accepting new work and waits for every in-flight task-run to
// finish. Callers should Kill any still-running tasks in the Model first.
func (e *Engine) Drain() {
	close(e.queue)
	e.wg.Wait()
}

func (e *Engine) worker(ctx context.Context) {
	defer e.wg.Done()
	for {
		select {
		case <-ctx.Done():
			e.drainRemaining()
			return
		case run, ok := <-e.queue:
			if !ok {
				return
			}
			e.runTask(run)
		}
	}
}

// drainRemaining discards queued runs once the context is canceled instead
// of starting new processes during shutdown.
func (e *Engine) drainRemaining() {
	for {
		select {
		case _, ok := <-e.queue:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
