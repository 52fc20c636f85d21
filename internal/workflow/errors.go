package workflow

import (
	"fmt"

	weftErrors "github.com/feltlabs/weft/internal/errors"
)

// ParseError wraps a line/row-level workflow parse failure with the
// underlying sentinel so callers can still errors.Is against it.
type ParseError struct {
	Path   string
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Detail, e.Err)
}

// Unwrap exposes the wrapped sentinel for errors.Is/errors.As.
func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(path, detail string, cause error) *ParseError {
	err := &ParseError{Path: path, Detail: detail, Err: weftErrors.ErrWorkflowParse}
	if cause != nil {
		err.Detail = fmt.Sprintf("%s (%v)", detail, cause)
	}
	return err
}

func newSchemaError(path, detail string) *ParseError {
	return &ParseError{Path: path, Detail: detail, Err: weftErrors.ErrWorkflowSchema}
}
