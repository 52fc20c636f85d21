// Package cliapp wires weft's cobra root command: flag parsing, layered
// config, logger construction, workflow loading, and handoff into the
// bubbletea program.
package cliapp

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/feltlabs/weft/internal/config"
	"github.com/feltlabs/weft/internal/constants"
	"github.com/feltlabs/weft/internal/controller"
	"github.com/feltlabs/weft/internal/engine"
	"github.com/feltlabs/weft/internal/model"
	"github.com/feltlabs/weft/internal/state"
	"github.com/feltlabs/weft/internal/workflow"
)

// BuildInfo carries version metadata set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type rootFlags struct {
	workers int
	title   string
	toYAML  string
	verbose bool
	quiet   bool
}

// Execute builds and runs the root command against os.Args-equivalent
// parsing performed internally by cobra.
func Execute(ctx context.Context, info BuildInfo) error {
	cmd := newRootCmd(ctx, info)
	return cmd.Execute()
}

func newRootCmd(ctx context.Context, info BuildInfo) *cobra.Command {
	flags := &rootFlags{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "weft <workflow-path>",
		Short:   "weft runs parallel shell-command workflows behind a live dashboard",
		Version: fmt.Sprintf("%s (%s, %s)", info.Version, info.Commit, info.Date),
		Args:    cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(ctx, v, flags, args[0])
		},
	}

	cmd.Flags().IntVar(&flags.workers, "workers", 0, "bounded worker pool size (default: logical CPUs)")
	cmd.Flags().StringVar(&flags.title, "title", "", "dashboard title (default: workflow file name)")
	cmd.Flags().StringVar(&flags.toYAML, "to-yaml", "", "convert the CSV workflow to YAML at this path and exit")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug-level logging")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress non-essential logging")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	return cmd
}

func run(ctx context.Context, v *viper.Viper, flags *rootFlags, workflowPath string) error {
	if flags.workers > 0 {
		v.Set("workers", flags.workers)
	}
	if flags.title != "" {
		v.Set("title", flags.title)
	}

	cfg, err := config.Load(v, workflowPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := setLogger(flags.verbose, flags.quiet, cfg.LogsDir)

	wf, err := workflow.Load(workflowPath)
	if err != nil {
		return err
	}

	if flags.toYAML != "" {
		return workflow.ToYAML(wf, flags.toYAML)
	}

	title := cfg.Title
	if title == "" {
		title = filepath.Base(workflowPath)
	}

	store := state.New(workflowPath)
	currentHashes := make(map[string]string, len(wf.Tasks))
	for _, t := range wf.Tasks {
		currentHashes[workflow.TaskID(t.Name, t.Info)] = workflow.StructuralHash(t.Steps)
	}
	persisted, err := store.Load(currentHashes)
	if err != nil {
		logger.Debug().Err(err).Msg("state file unreadable, starting fresh")
	}

	tasks := state.Reconcile(wf, persisted)
	m := model.New(tasks, cfg.TailLines, nil)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	killGrace := time.Duration(cfg.KillGraceSeconds) * time.Second
	eng := engine.New(runCtx, m, cfg.Workers, len(tasks), cfg.LogsDir, killGrace, logger)
	m.SetDispatcher(eng)
	eng.DispatchInitial()

	ctrl := controller.New(m, store, eng, title, constants.DefaultTickHz)
	program := tea.NewProgram(ctrl, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
