package cliapp

import (
	"errors"

	weftErrors "github.com/feltlabs/weft/internal/errors"
)

// Exit codes for the weft CLI.
const (
	// ExitSuccess indicates a clean quit.
	ExitSuccess = 0
	// ExitLoadError indicates the workflow path was missing or failed to parse.
	ExitLoadError = 1
	// ExitRuntimeError indicates an unexpected error after the workflow loaded.
	ExitRuntimeError = 2
)

// ExitCodeForError maps an error returned from Execute to a process exit
// code: workflow load errors are 1, everything else unexpected is 2.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, weftErrors.ErrWorkflowNotFound) ||
		errors.Is(err, weftErrors.ErrWorkflowParse) ||
		errors.Is(err, weftErrors.ErrWorkflowSchema) {
		return ExitLoadError
	}
	return ExitRuntimeError
}
