// Package logging builds weft's own diagnostic logger: zerolog writing to a
// console (when attached to a TTY) or JSON (otherwise), mirrored into a
// rotated file under the configured logs directory, with a hook and writer
// that keep credential-shaped substrings out of the persisted log.
//
// This is deliberately separate from the per-step stdout/stderr capture in
// internal/engine, which persists a workflow step's own output verbatim —
// that is the content the dashboard exists to show the user, not a
// diagnostic stream weft needs to protect.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileName    = "weft.log"
	logMaxSizeMB   = 10
	logMaxBackups  = 3
	logMaxAgeDays  = 28
	logCompress    = true
)

// Init builds weft's diagnostic logger. verbose raises the level to Debug;
// quiet lowers it to Warn; logsDir is the configured logs directory, under
// which "weft.log" is rotated. If the log file cannot be created, logging
// continues on the console alone.
func Init(verbose, quiet bool, logsDir string) zerolog.Logger {
	zerolog.TimestampFieldName = "ts"
	zerolog.MessageFieldName = "msg"

	level := selectLevel(verbose, quiet)
	hook := NewSensitiveDataHook()
	console := selectConsole()

	fileWriter, err := openLogFile(logsDir)
	var w io.Writer = console
	if err == nil {
		w = zerolog.MultiLevelWriter(console, fileWriter)
	}

	return zerolog.New(w).Level(level).Hook(hook).With().Timestamp().Logger()
}

func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

func selectConsole() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return os.Stderr
}

func openLogFile(logsDir string) (io.Writer, error) {
	if err := os.MkdirAll(logsDir, 0o750); err != nil {
		return nil, err
	}
	lj := &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, logFileName),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   logCompress,
	}
	return NewFilteringWriter(lj), nil
}
