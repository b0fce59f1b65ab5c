package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/quantral/quantral/internal/config"
	"github.com/quantral/quantral/internal/render"
	"github.com/quantral/quantral/internal/worksheet"
	"github.com/quantral/quantral/pkg/problem"
)

// SolveOptions holds options for the solve command.
type SolveOptions struct {
	Sets  []string // SYM=VALUE input overrides
	Watch bool     // Re-solve on worksheet changes
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(getCfg func(context.Context) *config.Config, getLog func(context.Context) *slog.Logger) *cobra.Command {
	opts := &SolveOptions{}
	cmd := &cobra.Command{
		Use:   "solve <worksheet>",
		Short: "Solve a worksheet",
		Long: `Load a worksheet, resolve its equations, and print every variable
with its value. Inputs can be overridden from the command line, and
watch mode re-solves whenever the worksheet or one of its subproblem
files changes.`,
		Example: `  # Solve a worksheet
  quantral solve pipe.yaml

  # Override an input
  quantral solve pipe.yaml --set "P=1500{psi}"

  # Re-solve on every save
  quantral solve pipe.yaml --watch

  # Machine-readable output
  quantral solve pipe.yaml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg(cmd.Context())
			logger := getLog(cmd.Context())

			run := func() error {
				return solveOnce(cmd, args[0], opts.Sets, cfg, logger)
			}
			if opts.Watch {
				return watchAndSolve(cmd, args[0], run)
			}
			return run()
		},
	}

	cmd.Flags().StringArrayVar(&opts.Sets, "set", nil, "Override an input (SYM=VALUE, repeatable)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-solve when the worksheet changes")
	return cmd
}

func solveOnce(cmd *cobra.Command, path string, sets []string, cfg *config.Config, logger *slog.Logger) error {
	ws, err := worksheet.Load(path)
	if err != nil {
		return err
	}
	p, err := ws.Build()
	if err != nil {
		return err
	}

	for _, s := range sets {
		sym, val, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q: want SYM=VALUE", s)
		}
		q, err := worksheet.ParseQuantity(val)
		if err != nil {
			return fmt.Errorf("invalid --set %q: %w", s, err)
		}
		if err := p.Set(sym, q); err != nil {
			return err
		}
	}

	snap, err := p.Solve(problem.SolveOptions{
		MaxIterations: cfg.Solver.MaxIterations,
		StrictRange:   cfg.Solver.StrictRange,
		Logger:        logger,
	})
	if err != nil {
		var ue *problem.UnsolvableError
		if errors.As(err, &ue) {
			render.Unsolvable(cmd.ErrOrStderr(), ue)
		}
		return err
	}

	return render.Snapshot(cmd.OutOrStdout(), snap, cfg.Output.Format)
}

// watchAndSolve runs the solve, then re-runs it whenever a YAML file in
// the worksheet's directory changes. Solve failures are reported but do
// not stop watching.
func watchAndSolve(cmd *cobra.Command, path string, run func() error) error {
	if err := run(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory rather than the file: editors replace files
	// on save, which drops a file-level watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", dir)

	var debounce *time.Timer
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			ext := filepath.Ext(event.Name)
			if ext != ".yaml" && ext != ".yml" {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Change detected: %s\n", filepath.Base(event.Name))
				if err := run(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Watcher error: %v\n", err)
		}
	}
}
