package workflow

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var idSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// TaskID derives the stable identifier used in log directory paths and
// persisted-state keys: a sanitized form of name, followed by an underscore
// and the first 8 hex characters of sha256(name || "\x00" || info). The
// hash suffix keeps two tasks with the same display name from colliding and
// keeps the id stable when rows are reordered in the workflow file.
func TaskID(name, info string) string {
	sanitized := idSanitizer.ReplaceAllString(name, "-")
	sanitized = strings.Trim(sanitized, "-")
	if sanitized == "" {
		sanitized = "task"
	}

	sum := sha256.Sum256([]byte(name + "\x00" + info))
	return sanitized + "_" + hex.EncodeToString(sum[:])[:8]
}

// StructuralHash digests a task's ordered (header, command) pairs so that
// renaming a step column or editing a command invalidates persisted state
// for that task alone; editing a different task's row never perturbs this
// task's hash.
func StructuralHash(steps []StepSpec) string {
	h := sha256.New()
	for _, s := range steps {
		_, _ = h.Write([]byte(s.Header))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(s.Command))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
