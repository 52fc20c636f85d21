package cliapp

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/feltlabs/weft/internal/logging"
)

// globalLogger is set once by run (the root command's RunE) after config is
// loaded, and read by the rest of the process thereafter.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI-wide logger access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // protects globalLogger
)

// Logger returns the logger initialized for this run. Safe for concurrent
// use; returns a zero-value (discarding) logger if called before the root
// command's run has set it.
func Logger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

func setLogger(verbose, quiet bool, logsDir string) zerolog.Logger {
	l := logging.Init(verbose, quiet, logsDir)
	globalLoggerMu.Lock()
	globalLogger = l
	globalLoggerMu.Unlock()
	return l
}
