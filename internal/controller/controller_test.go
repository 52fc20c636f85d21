package controller

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltlabs/weft/internal/model"
)

type fakeDispatcher struct {
	dispatched []int
}

func (f *fakeDispatcher) Dispatch(taskIdx, _ int, _ uint64) { f.dispatched = append(f.dispatched, taskIdx) }
func (f *fakeDispatcher) TerminateProcessGroup(int)         {}

type fakeDrainer struct{ drained bool }

func (f *fakeDrainer) Drain() { f.drained = true }

func newTestController(t *testing.T, nTasks, nSteps int) (*Controller, *model.Model) {
	t.Helper()
	tasks := make([]*model.Task, nTasks)
	for i := range tasks {
		steps := make([]*model.Step, nSteps)
		for j := range steps {
			steps[j] = &model.Step{Header: "step", Command: "true"}
		}
		tasks[i] = &model.Task{Name: "task", Steps: steps}
	}
	m := model.New(tasks, 10, nil)
	m.SetDispatcher(&fakeDispatcher{})
	c := New(m, nil, &fakeDrainer{}, "test", 15)
	return c, m
}

func TestNewClampsTickHzBelowOneToOne(t *testing.T) {
	c := New(nil, nil, nil, "t", 0)
	assert.Equal(t, "t", c.title)
	assert.Greater(t, c.tick.Nanoseconds(), int64(0))
}

func TestHandleKeyDownMovesTaskCursor(t *testing.T) {
	c, _ := newTestController(t, 3, 2)
	_, _ = c.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, c.cursor.TaskIdx)
}

func TestHandleKeyUpDoesNotGoBelowZero(t *testing.T) {
	c, _ := newTestController(t, 3, 2)
	_, _ = c.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, c.cursor.TaskIdx)
}

func TestHandleKeyRightMovesStepCursor(t *testing.T) {
	c, _ := newTestController(t, 1, 3)
	_, _ = c.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, c.cursor.StepIdx)
}

func TestHandleKeyMovingTaskResetsScroll(t *testing.T) {
	c, _ := newTestController(t, 2, 2)
	c.cursor.OutputScroll = 5
	c.cursor.DebugScroll = 5
	_, _ = c.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, c.cursor.OutputScroll)
	assert.Equal(t, 0, c.cursor.DebugScroll)
}

func TestHandleKeyDTogglesDebugVisible(t *testing.T) {
	c, _ := newTestController(t, 1, 1)
	assert.False(t, c.cursor.DebugVisible)
	_, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.True(t, c.cursor.DebugVisible)
	_, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.False(t, c.cursor.DebugVisible)
}

func TestHandleKeyBracketsScrollOutput(t *testing.T) {
	c, _ := newTestController(t, 1, 1)
	_, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	assert.Equal(t, 1, c.cursor.OutputScroll)
	_, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	assert.Equal(t, 0, c.cursor.OutputScroll)
	_, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	assert.Equal(t, 0, c.cursor.OutputScroll, "scrolling past zero must clamp, not go negative")
}

func TestHandleKeyQQuitsAndDrains(t *testing.T) {
	c, _ := newTestController(t, 1, 1)
	drainer := &fakeDrainer{}
	c.engine = drainer

	_, cmd := c.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, drainer.drained)
	assert.True(t, c.quit)
}

func TestViewReturnsEmptyStringAfterQuit(t *testing.T) {
	c, _ := newTestController(t, 1, 1)
	c.quit = true
	assert.Empty(t, c.View())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(-5, 0, 10))
	assert.Equal(t, 10, clamp(15, 0, 10))
	assert.Equal(t, 5, clamp(5, 0, 10))
}

func TestMaxStepIdx(t *testing.T) {
	assert.Equal(t, 0, maxStepIdx(0))
	assert.Equal(t, 0, maxStepIdx(1))
	assert.Equal(t, 4, maxStepIdx(5))
}
