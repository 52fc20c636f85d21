package model

import (
	"time"

	"github.com/feltlabs/weft/internal/constants"
)

// StepSnapshot is an immutable, render-ready view of one step.
type StepSnapshot struct {
	Header     string
	Command    string
	Status     constants.StepStatus
	OutputTail []string
	DebugTail  []string
	StartedAt  time.Time
	EndedAt    time.Time
}

// TaskSnapshot is an immutable, render-ready view of one task.
type TaskSnapshot struct {
	Name           string
	Info           string
	ID             string
	StructuralHash string
	Frontier       int
	Steps          []StepSnapshot
}

// Snapshot is a fully detached copy of the Model's state, safe to read
// without the Model lock. The View renders exclusively from one of these.
type Snapshot struct {
	Tasks []TaskSnapshot
}
