package workflow

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load parses path as YAML if its extension is .yaml/.yml, CSV otherwise.
func Load(path string) (*File, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return LoadCSV(path)
	}
}

// yamlTask and yamlDoc mirror rawFile/rawTask but with plain string-keyed
// step maps, used only for marshaling (order is preserved separately via
// File.StepHeaders since yaml.v3 marshals map[string]string unordered by
// key when re-read, which is fine: the written document still round-trips
// through LoadYAML, which re-derives order from the top-level "steps" list).
type yamlTask struct {
	Name  string            `yaml:"name"`
	Info  string            `yaml:"info,omitempty"`
	Steps map[string]string `yaml:"steps"`
}

type yamlDoc struct {
	Steps []string   `yaml:"steps"`
	Tasks []yamlTask `yaml:"tasks"`
}

// ToYAML renders wf in the YAML workflow schema and writes it to destPath.
func ToYAML(wf *File, destPath string) error {
	doc := yamlDoc{Steps: wf.StepHeaders}
	for _, t := range wf.Tasks {
		steps := make(map[string]string, len(t.Steps))
		for _, s := range t.Steps {
			steps[s.Header] = s.Command
		}
		doc.Tasks = append(doc.Tasks, yamlTask{Name: t.Name, Info: t.Info, Steps: steps})
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}
	return os.WriteFile(destPath, out, 0o644) //nolint:gosec // workflow output, not a secret
}
