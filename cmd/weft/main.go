// Package main provides the entry point for the weft CLI.
package main

import (
	"context"
	"os"

	"github.com/feltlabs/weft/internal/cliapp"
)

// Build info variables set via ldflags during build.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=$(git rev-parse HEAD)"
//
//nolint:gochecknoglobals // Required for ldflags injection at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx := context.Background()
	err := cliapp.Execute(ctx, cliapp.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	if err != nil {
		os.Exit(cliapp.ExitCodeForError(err))
	}
}
