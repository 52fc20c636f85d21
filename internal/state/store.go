// Package state persists step statuses across restarts: a sibling JSON file
// next to the workflow, written atomically and selectively reused only for
// tasks whose structural hash still matches the freshly parsed workflow.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/feltlabs/weft/internal/constants"
	weftErrors "github.com/feltlabs/weft/internal/errors"
)

// PersistedTask is one task's durable projection.
type PersistedTask struct {
	StructuralHash string   `json:"structural_hash"`
	Steps          []string `json:"steps"`
}

// document is the on-disk shape of the state file.
type document struct {
	Version int                      `json:"version"`
	Tasks   map[string]PersistedTask `json:"tasks"`
}

// Store reads and writes the state file sibling to a workflow file.
type Store struct {
	path string
}

// New returns a Store for the workflow at workflowPath, using the sibling
// file ".<basename>.state.json" per weft's external interface.
func New(workflowPath string) *Store {
	dir := filepath.Dir(workflowPath)
	base := filepath.Base(workflowPath)
	return &Store{path: filepath.Join(dir, "."+base+".state.json")}
}

// Load reads the state file and returns only the tasks whose persisted
// structural hash matches currentHashes[task_id]. Tasks absent from
// currentHashes, or whose hash differs, are omitted — selective
// invalidation, not whole-file invalidation. A missing or unreadable file
// yields an empty map and no error; a malformed file yields an empty map
// together with ErrStoreCorrupt.
func (s *Store) Load(currentHashes map[string]string) (map[string]PersistedTask, error) {
	raw, err := os.ReadFile(s.path) //nolint:gosec // path is derived from the workflow path, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]PersistedTask{}, nil
		}
		return map[string]PersistedTask{}, nil
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return map[string]PersistedTask{}, weftErrors.ErrStoreCorrupt
	}

	out := make(map[string]PersistedTask, len(doc.Tasks))
	for id, want := range currentHashes {
		pt, ok := doc.Tasks[id]
		if !ok || pt.StructuralHash != want {
			continue
		}
		out[id] = pt
	}
	return out, nil
}

// Save writes the full projection of tasks atomically: temp file in the
// same directory, fsync, then rename over the target. A crash at any point
// leaves either the previous file or the new one intact, never a partial
// write.
func (s *Store) Save(tasks map[string]PersistedTask) error {
	doc := document{Version: constants.StateFileVersion, Tasks: tasks}
	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return atomicWrite(s.path, data)
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp state file: %w", err)
	}
	return nil
}
