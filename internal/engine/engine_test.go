package engine

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltlabs/weft/internal/constants"
	"github.com/feltlabs/weft/internal/model"
)

func newTestEngine(t *testing.T, tasks []*model.Task, workers int) (*model.Model, *Engine, context.CancelFunc) {
	t.Helper()
	m := model.New(tasks, 100, nil)
	ctx, cancel := context.WithCancel(context.Background())
	e := New(ctx, m, workers, len(tasks), t.TempDir(), 200*time.Millisecond, zerolog.Nop())
	m.SetDispatcher(e)
	return m, e, cancel
}

func waitAllDone(t *testing.T, m *model.Model, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if m.AllDone() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for all tasks to reach a terminal state")
}

func step(header, command string) *model.Step {
	return &model.Step{Header: header, Command: command}
}

// Scenario 1: happy path, two tasks with three successful steps each.
func TestHappyPath(t *testing.T) {
	tasks := []*model.Task{
		{Name: "A", ID: "a_00000000", Steps: []*model.Step{step("s1", "echo 1"), step("s2", "echo 2"), step("s3", "echo 3")}},
		{Name: "B", ID: "b_00000000", Steps: []*model.Step{step("s1", "echo 1"), step("s2", "echo 2"), step("s3", "echo 3")}},
	}
	m, e, cancel := newTestEngine(t, tasks, 2)
	defer cancel()

	e.DispatchInitial()
	waitAllDone(t, m, 5*time.Second)

	snap := m.Snapshot()
	for _, ts := range snap.Tasks {
		for _, s := range ts.Steps {
			assert.Equal(t, constants.StepSuccess, s.Status)
		}
		logDir := e.logsRoot + "/" + ts.ID
		_, err := os.Stat(logDir)
		assert.NoError(t, err, "log directory should exist for %s", ts.ID)
	}
}

// Scenario 2: a failing step short-circuits the remainder of the task.
func TestFailureShortCircuits(t *testing.T) {
	tasks := []*model.Task{
		{Name: "X", ID: "x_00000000", Steps: []*model.Step{step("s1", "true"), step("s2", "false"), step("s3", "true")}},
	}
	m, e, cancel := newTestEngine(t, tasks, 1)
	defer cancel()

	e.DispatchInitial()
	waitAllDone(t, m, 5*time.Second)

	snap := m.Snapshot()
	steps := snap.Tasks[0].Steps
	assert.Equal(t, constants.StepSuccess, steps[0].Status)
	assert.Equal(t, constants.StepFailed, steps[1].Status)
	assert.Equal(t, constants.StepSkipped, steps[2].Status)
}

// Scenario 3: killing a running long sleep step marks it KILLED and bumps
// the generation, and once its command is shortened the task can be rerun
// to completion.
func TestKillUnderLoad(t *testing.T) {
	tasks := []*model.Task{
		{Name: "Y", ID: "y_00000000", Steps: []*model.Step{step("s1", "sleep 60")}},
	}
	m, e, cancel := newTestEngine(t, tasks, 1)
	defer cancel()

	e.DispatchInitial()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.Snapshot().Tasks[0].Steps[0].Status == constants.StepRunning {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, constants.StepRunning, m.Snapshot().Tasks[0].Steps[0].Status)

	genBefore := m.Generation(0)
	require.NoError(t, m.Kill(0))
	assert.Greater(t, m.Generation(0), genBefore)

	deadline = time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.Snapshot().Tasks[0].Steps[0].Status == constants.StepKilled {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, constants.StepKilled, m.Snapshot().Tasks[0].Steps[0].Status)

	tasks[0].Steps[0].Command = "sleep 0"
	require.NoError(t, m.Rerun(0, 0))
	waitAllDone(t, m, 3*time.Second)
}

// Scenario 4: rapid rerun of a step yields exactly one final SUCCESS, no
// crash and no interleaved writes from superseded workers.
func TestRapidRerunRace(t *testing.T) {
	tasks := []*model.Task{
		{Name: "Z", ID: "z_00000000", Steps: []*model.Step{step("s1", "sleep 0.2")}},
	}
	m, e, cancel := newTestEngine(t, tasks, 1)
	defer cancel()

	e.DispatchInitial()
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Rerun(0, 0))
		time.Sleep(20 * time.Millisecond)
	}

	waitAllDone(t, m, 5*time.Second)
	assert.Equal(t, constants.StepSuccess, m.Snapshot().Tasks[0].Steps[0].Status)
}

// Boundary: a task with zero steps is immediately all-done.
func TestZeroStepTaskIsImmediatelyDone(t *testing.T) {
	tasks := []*model.Task{{Name: "Empty", ID: "empty_00000000", Steps: nil}}
	m, _, cancel := newTestEngine(t, tasks, 1)
	defer cancel()
	assert.True(t, m.AllDone())
}

// Boundary: an empty command cell is skipped without spawning anything.
func TestEmptyCommandSkipped(t *testing.T) {
	tasks := []*model.Task{
		{Name: "E", ID: "e_00000000", Steps: []*model.Step{step("s1", "")}},
	}
	m, e, cancel := newTestEngine(t, tasks, 1)
	defer cancel()

	e.DispatchInitial()
	waitAllDone(t, m, 2*time.Second)
	assert.Equal(t, constants.StepSkipped, m.Snapshot().Tasks[0].Steps[0].Status)
}
