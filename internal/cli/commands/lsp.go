package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resolverkit/resolverkit/internal/compiler/build"
	"github.com/resolverkit/resolverkit/internal/lsp"
)

// NewLSPCommand creates the lsp command
func NewLSPCommand() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the handler diagnostics language server",
		Long: `Start a Language Server Protocol server on stdin/stdout.

The server compiles each open handler file as it changes and publishes the
compiler's errors as diagnostics. Stdout carries the protocol, so logs go to
--log-file when one is given and are discarded otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger, err := newFileLogger(logFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			compiler := build.NewCompiler(cfg.BuildOptions(), logger.Named("compiler"))
			return lsp.NewServer(compiler, Version, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Write server logs to this file")
	return cmd
}

// newFileLogger logs at debug level to path, or nowhere when path is empty
func newFileLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
