// Package model owns the canonical task/step state: statuses, output and
// debug tails, and the generation counters that defeat zombie-writer races
// between the Execution Engine's workers and user-issued rerun/kill
// commands.
//
// All mutation flows through a single mutex. The one operation that would
// naturally want a re-entrant lock — a status transition that needs to
// schedule the next step — is instead split into two phases: compute the
// next action while holding the lock, then perform it (enqueue a dispatch,
// signal a process group) after releasing it. See Rerun and Kill.
package model

import (
	"sync"
	"time"

	"github.com/feltlabs/weft/internal/clock"
	"github.com/feltlabs/weft/internal/constants"
	weftErrors "github.com/feltlabs/weft/internal/errors"
)

var zeroTime time.Time

// Dispatcher is the Execution Engine's contract with the Model. The Model
// calls it only after releasing its own lock, so the Engine is free to take
// its own locks or block without risking a deadlock against the Model.
type Dispatcher interface {
	// Dispatch enqueues a task-run for taskIdx starting at step startStep,
	// tagged with generation. The engine must abort the run without
	// mutating the Model if it later observes the task's generation has
	// advanced past generation.
	Dispatch(taskIdx, startStep int, generation uint64)

	// TerminateProcessGroup asynchronously signals the process group pgid,
	// escalating from a soft to a hard signal after a grace period. It
	// must not block the caller.
	TerminateProcessGroup(pgid int)
}

// Model is the single point of truth for every task and step.
type Model struct {
	mu         sync.Mutex
	tasks      []*Task
	dispatcher Dispatcher
	clock      clock.Clock
	tailLines  int
	dirtyCh    chan struct{}
}

// New constructs a Model over tasks. tailLines bounds each step's in-memory
// output/debug ring buffers.
func New(tasks []*Task, tailLines int, c clock.Clock) *Model {
	if c == nil {
		c = clock.RealClock{}
	}
	for _, t := range tasks {
		for _, s := range t.Steps {
			if s.OutputTail == nil {
				s.OutputTail = NewRingBuffer(tailLines)
			}
			if s.DebugTail == nil {
				s.DebugTail = NewRingBuffer(tailLines)
			}
		}
	}
	return &Model{
		tasks:     tasks,
		clock:     c,
		tailLines: tailLines,
		dirtyCh:   make(chan struct{}, 1),
	}
}

// SetDispatcher wires the Execution Engine in. Must be called before any
// Rerun/Kill.
func (m *Model) SetDispatcher(d Dispatcher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatcher = d
}

// Changed returns a channel that receives a value whenever the Model's
// state mutates. Sends are non-blocking and coalesce: a receiver that is
// slow to drain still only ever sees "something changed since you last
// looked", never a backlog.
func (m *Model) Changed() <-chan struct{} {
	return m.dirtyCh
}

func (m *Model) markDirty() {
	select {
	case m.dirtyCh <- struct{}{}:
	default:
	}
}

// TaskCount returns the number of tasks.
func (m *Model) TaskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// StepCount returns the number of steps in task taskIdx, or 0 if out of range.
func (m *Model) StepCount(taskIdx int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if taskIdx < 0 || taskIdx >= len(m.tasks) {
		return 0
	}
	return len(m.tasks[taskIdx].Steps)
}

// Generation returns the current generation of task taskIdx.
func (m *Model) Generation(taskIdx int) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if taskIdx < 0 || taskIdx >= len(m.tasks) {
		return 0
	}
	return m.tasks[taskIdx].Generation
}

// TaskID returns the stable task id for taskIdx.
func (m *Model) TaskID(taskIdx int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if taskIdx < 0 || taskIdx >= len(m.tasks) {
		return ""
	}
	return m.tasks[taskIdx].ID
}

// StepCommand returns the command configured for (taskIdx, stepIdx).
func (m *Model) StepCommand(taskIdx, stepIdx int) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stepLocked(taskIdx, stepIdx)
	if !ok {
		return "", false
	}
	return s.Command, true
}

func (m *Model) stepLocked(taskIdx, stepIdx int) (*Step, bool) {
	if taskIdx < 0 || taskIdx >= len(m.tasks) {
		return nil, false
	}
	t := m.tasks[taskIdx]
	if stepIdx < 0 || stepIdx >= len(t.Steps) {
		return nil, false
	}
	return t.Steps[stepIdx], true
}

// Snapshot returns a fully detached, immutable view of every task for
// rendering. The lock is held only long enough to copy data out.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := Snapshot{Tasks: make([]TaskSnapshot, len(m.tasks))}
	for i, t := range m.tasks {
		ts := TaskSnapshot{
			Name:           t.Name,
			Info:           t.Info,
			ID:             t.ID,
			StructuralHash: t.StructuralHash,
			Frontier:       t.frontier(),
			Steps:          make([]StepSnapshot, len(t.Steps)),
		}
		for j, s := range t.Steps {
			ts.Steps[j] = StepSnapshot{
				Header:     s.Header,
				Command:    s.Command,
				Status:     s.Status,
				OutputTail: s.OutputTail.Lines(),
				DebugTail:  s.DebugTail.Lines(),
				StartedAt:  s.StartedAt,
				EndedAt:    s.EndedAt,
			}
		}
		out.Tasks[i] = ts
	}
	return out
}

// AllDone reports whether every step of every task is terminal.
func (m *Model) AllDone() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if !t.allDone() {
			return false
		}
	}
	return true
}

// Rerun increments taskIdx's generation, resets steps [stepIdx, end) to
// PENDING, terminates any currently-running step in the task, and enqueues
// a fresh task-run starting at stepIdx. Steps before stepIdx, including any
// SUCCESS among them, are untouched.
func (m *Model) Rerun(taskIdx, stepIdx int) error {
	m.mu.Lock()
	if taskIdx < 0 || taskIdx >= len(m.tasks) {
		m.mu.Unlock()
		return weftErrors.ErrTaskIndexRange
	}
	t := m.tasks[taskIdx]
	if stepIdx < 0 || stepIdx >= len(t.Steps) {
		m.mu.Unlock()
		return weftErrors.ErrStepIndexRange
	}

	var runningPGID int
	for i := stepIdx; i < len(t.Steps); i++ {
		s := t.Steps[i]
		if s.Status == constants.StepRunning {
			runningPGID = s.PGID
		}
		s.Status = constants.StepPending
		s.PID, s.PGID = 0, 0
		s.StartedAt, s.EndedAt = zeroTime, zeroTime
	}

	t.Generation++
	gen := t.Generation
	dispatcher := m.dispatcher
	m.mu.Unlock()

	m.markDirty()

	if dispatcher == nil {
		return nil
	}
	if runningPGID != 0 {
		dispatcher.TerminateProcessGroup(runningPGID)
	}
	dispatcher.Dispatch(taskIdx, stepIdx, gen)
	return nil
}

// Kill terminates the currently-running step of taskIdx, if any. It
// increments the generation and commits KILLED for that step immediately;
// the Engine only needs to deliver the signal. A worker for the superseded
// run observes the generation mismatch and exits without writing anything.
func (m *Model) Kill(taskIdx int) error {
	m.mu.Lock()
	if taskIdx < 0 || taskIdx >= len(m.tasks) {
		m.mu.Unlock()
		return weftErrors.ErrTaskIndexRange
	}
	t := m.tasks[taskIdx]

	runningIdx := -1
	for i, s := range t.Steps {
		if s.Status == constants.StepRunning {
			runningIdx = i
			break
		}
	}
	if runningIdx == -1 {
		m.mu.Unlock()
		return nil
	}

	t.Generation++
	s := t.Steps[runningIdx]
	pgid := s.PGID
	s.Status = constants.StepKilled
	s.EndedAt = m.clock.Now()
	s.PID, s.PGID = 0, 0
	dispatcher := m.dispatcher
	m.mu.Unlock()

	m.markDirty()

	if dispatcher != nil && pgid != 0 {
		dispatcher.TerminateProcessGroup(pgid)
	}
	return nil
}

// BeginStep transitions stepIdx from PENDING to RUNNING, recording pid/pgid
// and the start time. It is a no-op if gen no longer matches the task's
// generation. Returns whether the transition was applied.
func (m *Model) BeginStep(taskIdx, stepIdx int, gen uint64, pid, pgid int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, s, ok := m.taskStepLocked(taskIdx, stepIdx)
	if !ok || t.Generation != gen {
		return false
	}
	s.Status = constants.StepRunning
	s.PID, s.PGID = pid, pgid
	s.StartedAt = m.clock.Now()
	s.EndedAt = zeroTime
	s.Generation = gen
	m.markDirtyLocked()
	return true
}

// EndStep transitions stepIdx to a terminal status (SUCCESS/FAILED/KILLED).
// A no-op if gen is stale.
func (m *Model) EndStep(taskIdx, stepIdx int, gen uint64, status constants.StepStatus) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, s, ok := m.taskStepLocked(taskIdx, stepIdx)
	if !ok || t.Generation != gen {
		return false
	}
	s.Status = status
	s.EndedAt = m.clock.Now()
	s.PID, s.PGID = 0, 0
	m.markDirtyLocked()
	return true
}

// SkipStep marks stepIdx SKIPPED directly from PENDING: either an empty
// command, or short-circuited because a prior step did not succeed.
// A no-op if gen is stale.
func (m *Model) SkipStep(taskIdx, stepIdx int, gen uint64) bool {
	return m.EndStep(taskIdx, stepIdx, gen, constants.StepSkipped)
}

// SkipRemaining marks every step from fromIdx onward SKIPPED, used after a
// non-success terminal status short-circuits the rest of a task.
// Stale-generation steps are silently left alone.
func (m *Model) SkipRemaining(taskIdx, fromIdx int, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if taskIdx < 0 || taskIdx >= len(m.tasks) {
		return
	}
	t := m.tasks[taskIdx]
	if t.Generation != gen {
		return
	}
	changed := false
	for i := fromIdx; i < len(t.Steps); i++ {
		s := t.Steps[i]
		if s.Status == constants.StepPending {
			s.Status = constants.StepSkipped
			changed = true
		}
	}
	if changed {
		m.markDirtyLocked()
	}
}

// AppendOutput appends line to stepIdx's output tail. A no-op if gen is stale.
func (m *Model) AppendOutput(taskIdx, stepIdx int, gen uint64, line string) {
	m.appendTail(taskIdx, stepIdx, gen, line, false)
}

// AppendDebug appends line to stepIdx's debug tail. A no-op if gen is stale.
func (m *Model) AppendDebug(taskIdx, stepIdx int, gen uint64, line string) {
	m.appendTail(taskIdx, stepIdx, gen, line, true)
}

func (m *Model) appendTail(taskIdx, stepIdx int, gen uint64, line string, debug bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, s, ok := m.taskStepLocked(taskIdx, stepIdx)
	if !ok || t.Generation != gen {
		return
	}
	if debug {
		s.DebugTail.Append(line)
	} else {
		s.OutputTail.Append(line)
	}
	m.markDirtyLocked()
}

func (m *Model) taskStepLocked(taskIdx, stepIdx int) (*Task, *Step, bool) {
	if taskIdx < 0 || taskIdx >= len(m.tasks) {
		return nil, nil, false
	}
	t := m.tasks[taskIdx]
	if stepIdx < 0 || stepIdx >= len(t.Steps) {
		return nil, nil, false
	}
	return t, t.Steps[stepIdx], true
}

// markDirtyLocked signals Changed while the lock is already held. The send
// itself is non-blocking so it never risks stalling a caller that holds m.mu.
func (m *Model) markDirtyLocked() {
	select {
	case m.dirtyCh <- struct{}{}:
	default:
	}
}
