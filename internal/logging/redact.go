package logging

import (
	"io"
	"regexp"

	"github.com/rs/zerolog"
)

// RedactedValue replaces any sensitive match found in log output.
const RedactedValue = "[REDACTED]"

// sensitivePatterns catches the credential shapes most likely to leak through
// a step's stdout/stderr into weft's own log stream: API keys, bearer tokens
// and PEM private key blocks. Workflow step output is free text written by
// whatever command the user configured, so unlike structured field names we
// can only pattern-match the bytes themselves.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // reused across every log write
	regexp.MustCompile(`sk-ant-api[a-zA-Z0-9_-]+`),
	regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{20,}`),
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*["']?([a-zA-Z0-9_-]{16,})["']?`),
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_-]{20,}`),
	regexp.MustCompile(`(?i)authorization\s*[:=]\s*["']?[a-zA-Z0-9_-]{20,}["']?`),
	regexp.MustCompile(`(?i)(secret|password|credential|passwd|pwd)\s*[:=]\s*["']?[^\s"']{8,}["']?`),
	regexp.MustCompile(`(?i)-----BEGIN[A-Z\s]+PRIVATE KEY-----`),
}

// FilterSensitiveValue replaces every sensitive-pattern match in value with
// RedactedValue.
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// SensitiveDataHook is a zerolog.Hook that flags log events whose message
// contains a sensitive pattern. Zerolog hooks cannot rewrite the message
// text in place, so the actual redaction happens in FilteringWriter; this
// hook only marks the event for anyone scanning the log stream.
type SensitiveDataHook struct{}

// NewSensitiveDataHook returns a SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements zerolog.Hook.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// FilteringWriter wraps an io.Writer, redacting sensitive patterns from
// every write before it reaches disk.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter wraps w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It returns len(p) on success regardless of the
// filtered length, satisfying the io.Writer contract for callers that treat
// a short count as an error.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err := fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}
