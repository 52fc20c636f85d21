package workflow

import (
	"os"

	"gopkg.in/yaml.v3"

	weftErrors "github.com/feltlabs/weft/internal/errors"
)

// rawTask mirrors the YAML schema for one task entry. Steps is kept as a
// yaml.Node (rather than a map) so document order is preserved; Go maps do
// not remember key order and step order matters when the top-level "steps"
// list is omitted and must be inferred from first appearance.
type rawTask struct {
	Name        string    `yaml:"name"`
	Info        string    `yaml:"info"`
	Description string    `yaml:"description"`
	Steps       yaml.Node `yaml:"steps"`
}

type rawFile struct {
	Steps []string  `yaml:"steps"`
	Tasks []rawTask `yaml:"tasks"`
}

// LoadYAML parses the optional YAML workflow form. Unknown top-level or
// per-task keys are rejected. The step column order is taken from the
// top-level "steps" list when present, otherwise inferred from the order
// step names first appear across tasks.
func LoadYAML(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, weftErrors.ErrWorkflowNotFound
		}
		return nil, newParseError(path, "open", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var raw rawFile
	if err := dec.Decode(&raw); err != nil {
		return nil, newParseError(path, "decode yaml", err)
	}

	if len(raw.Tasks) == 0 {
		return nil, newSchemaError(path, "tasks list is empty")
	}

	perTask := make([]map[string]string, len(raw.Tasks))
	order := append([]string(nil), raw.Steps...)
	seen := make(map[string]struct{}, len(order))
	for _, h := range order {
		seen[h] = struct{}{}
	}

	for i, t := range raw.Tasks {
		if t.Name == "" {
			return nil, newSchemaError(path, "task missing required \"name\"")
		}

		cmds, stepOrder, err := decodeStepsNode(path, &t.Steps)
		if err != nil {
			return nil, err
		}
		perTask[i] = cmds

		if len(raw.Steps) == 0 {
			for _, h := range stepOrder {
				if _, ok := seen[h]; !ok {
					seen[h] = struct{}{}
					order = append(order, h)
				}
			}
		}
	}

	wf := &File{StepHeaders: order}
	if err := validateUniqueYAMLNames(path, raw.Tasks); err != nil {
		return nil, err
	}

	for i, t := range raw.Tasks {
		info := t.Info
		if t.Description != "" {
			info = t.Description
		}

		steps := make([]StepSpec, len(order))
		for j, h := range order {
			steps[j] = StepSpec{Header: h, Command: perTask[i][h]}
		}

		wf.Tasks = append(wf.Tasks, TaskSpec{Name: t.Name, Info: info, Steps: steps})
	}

	return wf, nil
}

// decodeStepsNode walks a task's "steps" mapping node in document order,
// returning the command for each step name (null/absent values map to "")
// and the order step names were declared in, for inference purposes.
func decodeStepsNode(path string, node *yaml.Node) (map[string]string, []string, error) {
	cmds := make(map[string]string)
	var order []string

	if node.Kind == 0 {
		return cmds, order, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, nil, newSchemaError(path, "task \"steps\" must be a mapping")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		val := node.Content[i+1]

		var name string
		if err := key.Decode(&name); err != nil {
			return nil, nil, newParseError(path, "decode step name", err)
		}

		var cmd string
		if val.Tag != "!!null" {
			if err := val.Decode(&cmd); err != nil {
				return nil, nil, newParseError(path, "decode step command for \""+name+"\"", err)
			}
		}

		cmds[name] = cmd
		order = append(order, name)
	}

	return cmds, order, nil
}

func validateUniqueYAMLNames(path string, tasks []rawTask) error {
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.Name]; ok {
			return newSchemaError(path, "duplicate task name \""+t.Name+"\"")
		}
		seen[t.Name] = struct{}{}
	}
	return nil
}
