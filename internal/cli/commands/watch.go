package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resolverkit/resolverkit/internal/cli/config"
	"github.com/resolverkit/resolverkit/internal/cli/ui"
	"github.com/resolverkit/resolverkit/internal/compiler/build"
	"github.com/resolverkit/resolverkit/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var (
		verbose bool
		output  string
		delay   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild artifacts whenever a handler changes",
		Long: `Build once, then watch the input directory and rebuild the artifacts each
time a handler file is written, created, renamed or removed. Changes arriving
within the debounce delay are compiled together. A failing handler is reported
and the previous artifacts are left untouched.

Examples:
  # Watch with settings from resolverkit.yml
  resolverkit watch

  # Log every event and compiler step
  resolverkit watch --verbose
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			plain := noColor(cmd)

			cfg, err := loadConfig(cmd)
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), plain))
				return reported(err)
			}
			if output != "" {
				cfg.Output.Dir = output
			}

			logger := newLogger(verbose)
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, cmd.OutOrStdout(), cfg, delay, plain, logger)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default: output.dir from config)")
	cmd.Flags().DurationVar(&delay, "delay", watch.DefaultDelay, "Debounce delay before rebuilding")

	return cmd
}

// runWatch builds once, then rebuilds on every debounced change until ctx is done
func runWatch(ctx context.Context, out io.Writer, cfg *config.Config, delay time.Duration, plain bool, logger *zap.Logger) error {
	compiler := build.NewCompiler(cfg.BuildOptions(), logger)

	rebuild := func() {
		start := time.Now()
		report, err := compiler.BuildProject(ctx, projectOptions(cfg, false))
		if err != nil {
			fmt.Fprint(out, ui.CompileError(err, plain))
			return
		}
		printReport(out, report, cfg.Output.Dir, false, plain, time.Since(start))
	}

	rebuild()

	watcher, err := watch.NewFileWatcher(watch.Options{
		Root:       cfg.Input.Dir,
		Extensions: cfg.Input.Extensions,
		Ignored:    []string{cfg.Output.Dir},
		Delay:      delay,
	}, func(files []string) error {
		color.New(color.FgCyan).Fprintf(out, "\n%d file(s) changed, rebuilding...\n", len(files))
		rebuild()
		return nil
	}, logger)
	if err != nil {
		return err
	}

	fmt.Fprint(out, ui.Info(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", cfg.Input.Dir), plain))
	return watcher.Run(ctx)
}
