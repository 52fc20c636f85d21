package workflow

import (
	"encoding/csv"
	"io"
	"os"

	weftErrors "github.com/feltlabs/weft/internal/errors"
)

// LoadCSV parses a workflow file whose first row is
// "TaskName,Info,<step1>,<step2>,..." and whose subsequent rows are tasks.
// A cell is a shell command; an empty cell (or a missing trailing cell)
// means the step is a no-op. Multiline cells follow standard CSV quoting.
func LoadCSV(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, weftErrors.ErrWorkflowNotFound
		}
		return nil, newParseError(path, "open", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may have fewer trailing cells than the header

	header, err := r.Read()
	if err != nil {
		return nil, newParseError(path, "read header row", err)
	}
	if len(header) < 2 {
		return nil, newSchemaError(path, "header must contain at least TaskName and Info columns")
	}

	stepHeaders := header[2:]
	wf := &File{StepHeaders: append([]string(nil), stepHeaders...)}

	rowNum := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newParseError(path, "read row", err)
		}
		rowNum++

		if len(row) == 0 {
			continue
		}

		name := row[0]
		if name == "" {
			return nil, newSchemaError(path, "row has empty TaskName")
		}
		var info string
		if len(row) > 1 {
			info = row[1]
		}

		steps := make([]StepSpec, len(stepHeaders))
		for i, h := range stepHeaders {
			var cmd string
			if idx := i + 2; idx < len(row) {
				cmd = row[idx]
			}
			steps[i] = StepSpec{Header: h, Command: cmd}
		}

		wf.Tasks = append(wf.Tasks, TaskSpec{Name: name, Info: info, Steps: steps})
	}

	if err := validateUniqueNames(path, wf.Tasks); err != nil {
		return nil, err
	}
	return wf, nil
}

func validateUniqueNames(path string, tasks []TaskSpec) error {
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.Name]; ok {
			return newSchemaError(path, "duplicate task name \""+t.Name+"\"")
		}
		seen[t.Name] = struct{}{}
	}
	return nil
}
