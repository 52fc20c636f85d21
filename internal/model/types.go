package model

import (
	"time"

	"github.com/feltlabs/weft/internal/constants"
)

// Step is one shell command inside a task, plus the runtime fields that
// are only meaningful while it is RUNNING.
type Step struct {
	Header  string
	Command string
	Status  constants.StepStatus

	OutputTail *RingBuffer
	DebugTail  *RingBuffer

	PID, PGID          int
	StartedAt, EndedAt time.Time

	// Generation is the task generation this step's current (or most
	// recent) run was dispatched under.
	Generation uint64
}

// Task is one workflow row: a stable identity, a structural hash guarding
// persisted-state reuse, and its ordered steps.
type Task struct {
	Name, Info     string
	ID             string
	StructuralHash string
	Steps          []*Step

	// Generation increments on every rerun/kill. A worker captures it at
	// dispatch time and must find it unchanged before mutating state.
	Generation uint64
}

// frontier returns the index of the first non-terminal step, or len(Steps)
// if every step is terminal. Callers must hold the Model lock.
func (t *Task) frontier() int {
	for i, s := range t.Steps {
		if !s.Status.IsTerminal() {
			return i
		}
	}
	return len(t.Steps)
}

// allDone reports whether every step in t is terminal.
func (t *Task) allDone() bool {
	for _, s := range t.Steps {
		if !s.Status.IsTerminal() {
			return false
		}
	}
	return true
}
