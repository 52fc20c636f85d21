package cliapp

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdHelp(t *testing.T) {
	cmd := newRootCmd(context.Background(), BuildInfo{Version: "test"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "weft")
	assert.Contains(t, output, "--workers")
	assert.Contains(t, output, "--verbose")
	assert.Contains(t, output, "--quiet")
	assert.Contains(t, output, "--to-yaml")
}

func TestRootCmdVersion(t *testing.T) {
	cmd := newRootCmd(context.Background(), BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "1.2.3")
	assert.Contains(t, output, "abc123")
	assert.Contains(t, output, "2026-01-01")
}

func TestRootCmdVerboseQuietMutuallyExclusive(t *testing.T) {
	cmd := newRootCmd(context.Background(), BuildInfo{})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--verbose", "--quiet", "/nonexistent-workflow.csv"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")
	assert.Contains(t, err.Error(), "quiet")
}

func TestRootCmdRequiresExactlyOneArg(t *testing.T) {
	cmd := newRootCmd(context.Background(), BuildInfo{})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	assert.Error(t, cmd.Execute())
}

func TestLoggerDefaultsToZeroValueBeforeExecute(t *testing.T) {
	// Package state from other tests in this file may have already set
	// globalLogger; Logger() must never panic regardless.
	assert.NotPanics(t, func() { Logger() })
}
