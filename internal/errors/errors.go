// Package errors provides centralized sentinel errors for weft.
//
// All error types can be checked using errors.Is(). This package MUST NOT
// import any other internal package — only the standard library.
package errors

import "errors"

// Sentinel errors for error categorization across the engine, model, store
// and workflow loader.
var (
	// ErrWorkflowNotFound indicates the workflow file path does not exist.
	ErrWorkflowNotFound = errors.New("workflow file not found")

	// ErrWorkflowParse indicates the workflow file could not be parsed.
	ErrWorkflowParse = errors.New("workflow parse failed")

	// ErrWorkflowSchema indicates a workflow violated the expected schema
	// (duplicate or empty task names, a CSV header without TaskName and Info,
	// an empty YAML task list, etc). Unknown YAML keys are rejected by the
	// decoder and reported as ErrWorkflowParse.
	ErrWorkflowSchema = errors.New("workflow schema violation")

	// ErrStaleGeneration indicates a worker observed a generation bump and
	// must abandon its write. This is never surfaced to the user; it is the
	// mechanism, not a failure.
	ErrStaleGeneration = errors.New("stale generation")

	// ErrTaskIndexRange indicates a task index supplied by the controller is
	// out of range of the loaded task list.
	ErrTaskIndexRange = errors.New("task index out of range")

	// ErrStepIndexRange indicates a step index supplied by the controller is
	// out of range of a task's step list.
	ErrStepIndexRange = errors.New("step index out of range")

	// ErrStoreCorrupt indicates the persisted state file failed to parse and
	// is being treated as empty.
	ErrStoreCorrupt = errors.New("state file corrupt")

	// ErrSpawnFailed indicates a step's command could not be started (fork
	// failure, command not found, working directory missing).
	ErrSpawnFailed = errors.New("spawn failed")
)
