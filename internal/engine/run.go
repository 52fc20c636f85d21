package engine

import (
	"fmt"
	"strings"

	"github.com/feltlabs/weft/internal/constants"
	weftErrors "github.com/feltlabs/weft/internal/errors"
)

// runTask executes the task-run procedure for run: step through the task
// from run.startStep to its last step, in order, aborting the moment the
// task's generation advances past run.generation. A panic anywhere in this
// call is recovered so one misbehaving step never takes the whole pool
// down with it; the step is left exactly where it was, to be retried on
// the next rerun.
func (e *Engine) runTask(run taskRun) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Int("task", run.taskIdx).Msg("task-run worker panic recovered")
		}
	}()

	taskIdx, gen := run.taskIdx, run.generation
	n := e.model.StepCount(taskIdx)
	taskID := e.model.TaskID(taskIdx)

	for i := run.startStep; i < n; i++ {
		if e.model.Generation(taskIdx) != gen {
			return
		}

		cmd, ok := e.model.StepCommand(taskIdx, i)
		if !ok {
			return
		}

		if strings.TrimSpace(cmd) == "" {
			if !e.model.SkipStep(taskIdx, i, gen) {
				return
			}
			continue
		}

		if !e.runStep(taskIdx, i, taskID, cmd, gen) {
			return
		}
	}
}

// runStep spawns and waits for one step's command, applying the resulting
// transition. It returns false when the caller should stop the task-run
// entirely: either the generation went stale mid-flight, or the step did
// not succeed (in which case the remaining steps are marked SKIPPED here).
func (e *Engine) runStep(taskIdx, stepIdx int, taskID, cmd string, gen uint64) bool {
	proc, err := spawn(e.model, taskIdx, stepIdx, taskID, cmd, e.logsRoot, gen, e.logger)
	if err != nil {
		spawnErr := fmt.Errorf("%w: %s", weftErrors.ErrSpawnFailed, err)
		e.model.AppendDebug(taskIdx, stepIdx, gen, spawnErr.Error())
		if !e.model.EndStep(taskIdx, stepIdx, gen, constants.StepFailed) {
			e.logger.Debug().Err(weftErrors.ErrStaleGeneration).Int("task", taskIdx).Int("step", stepIdx).Msg("abandoning spawn-failure transition")
			return false
		}
		e.model.SkipRemaining(taskIdx, stepIdx+1, gen)
		return false
	}

	if !e.model.BeginStep(taskIdx, stepIdx, gen, proc.pid, proc.pgid) {
		// The generation moved on between spawn and the transition attempt
		// (a rerun/kill raced us); nothing else will ever wait on this
		// process, so make sure it does not become an orphan.
		e.logger.Debug().Err(weftErrors.ErrStaleGeneration).Int("task", taskIdx).Int("step", stepIdx).Msg("abandoning begin-step transition")
		e.TerminateProcessGroup(proc.pgid)
		return false
	}

	status := proc.wait()

	if !e.model.EndStep(taskIdx, stepIdx, gen, status) {
		e.logger.Debug().Err(weftErrors.ErrStaleGeneration).Int("task", taskIdx).Int("step", stepIdx).Msg("abandoning end-step transition")
		return false
	}
	if status != constants.StepSuccess {
		e.model.SkipRemaining(taskIdx, stepIdx+1, gen)
		return false
	}
	return true
}
