package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltlabs/weft/internal/model"
)

func newTailerModel(t *testing.T) *model.Model {
	t.Helper()
	tasks := []*model.Task{{Name: "A", Steps: []*model.Step{{Header: "s1", Command: "true"}}}}
	return model.New(tasks, 10, nil)
}

func TestLineTailerSplitsOnNewlines(t *testing.T) {
	m := newTailerModel(t)
	m.BeginStep(0, 0, 0, 1, 1)
	w := &lineTailer{m: m, taskIdx: 0, stepIdx: 0, gen: 0}

	n, err := w.Write([]byte("line one\nline two\n"))
	require.NoError(t, err)
	assert.Equal(t, len("line one\nline two\n"), n)

	tail := m.Snapshot().Tasks[0].Steps[0].OutputTail
	assert.Equal(t, []string{"line one", "line two"}, tail)
}

func TestLineTailerBuffersPartialLineAcrossWrites(t *testing.T) {
	m := newTailerModel(t)
	m.BeginStep(0, 0, 0, 1, 1)
	w := &lineTailer{m: m, taskIdx: 0, stepIdx: 0, gen: 0}

	_, _ = w.Write([]byte("partial "))
	_, _ = w.Write([]byte("line\n"))

	tail := m.Snapshot().Tasks[0].Steps[0].OutputTail
	assert.Equal(t, []string{"partial line"}, tail)
}

func TestLineTailerFlushAppendsTrailingPartialLine(t *testing.T) {
	m := newTailerModel(t)
	m.BeginStep(0, 0, 0, 1, 1)
	w := &lineTailer{m: m, taskIdx: 0, stepIdx: 0, gen: 0}

	_, _ = w.Write([]byte("no trailing newline"))
	tail := m.Snapshot().Tasks[0].Steps[0].OutputTail
	assert.Empty(t, tail, "a line with no newline must not appear before Flush")

	w.Flush()
	tail = m.Snapshot().Tasks[0].Steps[0].OutputTail
	assert.Equal(t, []string{"no trailing newline"}, tail)
}

func TestLineTailerFlushOnEmptyBufferIsNoop(t *testing.T) {
	m := newTailerModel(t)
	w := &lineTailer{m: m, taskIdx: 0, stepIdx: 0, gen: 0}
	w.Flush()
	assert.Empty(t, m.Snapshot().Tasks[0].Steps[0].OutputTail)
}

func TestLineTailerTrimsCarriageReturn(t *testing.T) {
	m := newTailerModel(t)
	m.BeginStep(0, 0, 0, 1, 1)
	w := &lineTailer{m: m, taskIdx: 0, stepIdx: 0, gen: 0}

	_, _ = w.Write([]byte("windows line\r\n"))
	tail := m.Snapshot().Tasks[0].Steps[0].OutputTail
	assert.Equal(t, []string{"windows line"}, tail)
}

func TestLineTailerStaleGenerationIsANoop(t *testing.T) {
	m := newTailerModel(t)
	// Generation 0 is current; write under a stale generation 1.
	w := &lineTailer{m: m, taskIdx: 0, stepIdx: 0, gen: 1}

	_, _ = w.Write([]byte("should be dropped\n"))
	assert.Empty(t, m.Snapshot().Tasks[0].Steps[0].OutputTail)
}
