// Package workflow parses CSV and YAML workflow files into task descriptors
// and derives the stable identifiers the rest of weft keys persisted state
// and log paths on.
package workflow

// StepSpec is one column of a task: the display header and the command to
// run. Command may be empty, meaning the step is a no-op (SKIPPED).
type StepSpec struct {
	Header  string
	Command string
}

// TaskSpec is one parsed row: a name, free-form info, and its ordered steps.
type TaskSpec struct {
	Name  string
	Info  string
	Steps []StepSpec
}

// File is the full parsed workflow: the step headers in column order (for
// YAML, the top-level "steps" list if given, otherwise the union across
// tasks in first-appearance order; for CSV, the header row) and the tasks.
type File struct {
	StepHeaders []string
	Tasks       []TaskSpec
}
