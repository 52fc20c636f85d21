package state

import (
	"github.com/feltlabs/weft/internal/constants"
	"github.com/feltlabs/weft/internal/model"
	"github.com/feltlabs/weft/internal/workflow"
)

// Reconcile builds the initial []*model.Task for a freshly parsed workflow,
// applying each task's persisted status record (if its structural hash
// still matches):
//
//   - SUCCESS, FAILED, SKIPPED are preserved as-is.
//   - RUNNING and KILLED are reset to PENDING — the step was interrupted.
//   - PENDING is preserved.
//   - Persisted steps beyond the task's current step count are dropped.
//   - Steps missing from the persisted record default to PENDING.
func Reconcile(wf *workflow.File, persisted map[string]PersistedTask) []*model.Task {
	tasks := make([]*model.Task, len(wf.Tasks))
	for i, spec := range wf.Tasks {
		id := workflow.TaskID(spec.Name, spec.Info)
		hash := workflow.StructuralHash(spec.Steps)

		var prior []string
		if pt, ok := persisted[id]; ok && pt.StructuralHash == hash {
			prior = pt.Steps
		}

		steps := make([]*model.Step, len(spec.Steps))
		for j, stepSpec := range spec.Steps {
			steps[j] = &model.Step{
				Header:  stepSpec.Header,
				Command: stepSpec.Command,
				Status:  reconcileStatus(prior, j),
			}
		}

		tasks[i] = &model.Task{
			Name:           spec.Name,
			Info:           spec.Info,
			ID:             id,
			StructuralHash: hash,
			Steps:          steps,
		}
	}
	return tasks
}

func reconcileStatus(prior []string, idx int) constants.StepStatus {
	if idx >= len(prior) {
		return constants.StepPending
	}
	switch constants.StepStatus(prior[idx]) {
	case constants.StepSuccess, constants.StepFailed, constants.StepSkipped, constants.StepPending:
		return constants.StepStatus(prior[idx])
	case constants.StepRunning, constants.StepKilled:
		return constants.StepPending
	default:
		return constants.StepPending
	}
}

// Project converts the current Model snapshot into the map Store.Save
// expects, keyed by task id.
func Project(snap model.Snapshot) map[string]PersistedTask {
	out := make(map[string]PersistedTask, len(snap.Tasks))
	for _, ts := range snap.Tasks {
		steps := make([]string, len(ts.Steps))
		for i, s := range ts.Steps {
			steps[i] = s.Status.String()
		}
		out[ts.ID] = PersistedTask{StructuralHash: ts.StructuralHash, Steps: steps}
	}
	return out
}
