package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/resolverkit/resolverkit/internal/cli/config"
	"github.com/resolverkit/resolverkit/internal/cli/ui"
	"github.com/resolverkit/resolverkit/internal/compiler/build"
	"github.com/resolverkit/resolverkit/internal/compiler/errors"
)

type buildOptions struct {
	json    bool
	verbose bool
	output  string
	force   bool
}

// buildOutput is the --json document for build and check
type buildOutput struct {
	Success    bool              `json:"success"`
	Skipped    bool              `json:"skipped,omitempty"`
	BuildID    string            `json:"build_id,omitempty"`
	OutputDir  string            `json:"output_dir,omitempty"`
	Artifacts  []string          `json:"artifacts,omitempty"`
	Removed    []string          `json:"removed,omitempty"`
	DurationMS int64             `json:"duration_ms"`
	Errors     errors.ErrorList  `json:"errors,omitempty"`
	Message    string            `json:"message,omitempty"`
	Metrics    *buildMetricsJSON `json:"metrics,omitempty"`
}

type buildMetricsJSON struct {
	Files       int `json:"files"`
	Stages      int `json:"stages"`
	DataSources int `json:"data_sources"`
}

// NewBuildCommand creates the build command
func NewBuildCommand() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile resolver handlers and write the generated artifacts",
		Long: `Compile every handler file in the input directory and write the artifacts.

The build process:
  1. Lexical analysis and parsing of each handler
  2. Validation of the import and export shape
  3. Splitting each handler into pipeline stages
  4. Generation of pipeline code, the GraphQL schema and the CDK construct

Nothing is written when any handler fails. A build whose sources and settings
match the previous manifest is skipped unless --force is given.`,
		Example: `  # Build with settings from resolverkit.yml
  resolverkit build

  # Show each compilation step
  resolverkit build --verbose

  # Output the result or errors as JSON (useful for tooling)
  resolverkit build --json

  # Write to a custom directory, ignoring the manifest
  resolverkit build -o cdk/generated --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Output the result and errors in JSON format")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show detailed build output")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (default: output.dir from config)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Rewrite artifacts even if sources are unchanged")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *buildOptions) error {
	start := time.Now()
	out := cmd.OutOrStdout()
	plain := noColor(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		if opts.json {
			return reported(writeJSON(out, buildOutput{Message: err.Error()}, err))
		}
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), plain))
		return reported(err)
	}
	if opts.output != "" {
		cfg.Output.Dir = opts.output
	}

	logger := newLogger(opts.verbose)
	defer logger.Sync()

	compiler := build.NewCompiler(cfg.BuildOptions(), logger)
	report, err := compiler.BuildProject(cmd.Context(), projectOptions(cfg, opts.force))
	if err != nil {
		if opts.json {
			return reported(writeJSON(out, failureOutput(err, start), err))
		}
		fmt.Fprint(cmd.ErrOrStderr(), ui.CompileError(err, plain))
		return reported(err)
	}

	if opts.json {
		return writeJSON(out, successOutput(report, cfg.Output.Dir, start), nil)
	}

	printReport(out, report, cfg.Output.Dir, opts.verbose, plain, time.Since(start))
	return nil
}

func projectOptions(cfg *config.Config, force bool) build.ProjectOptions {
	return build.ProjectOptions{
		InputDir:   cfg.Input.Dir,
		Extensions: cfg.Input.Extensions,
		OutputDir:  cfg.Output.Dir,
		Settings:   cfg.Settings(),
		Force:      force,
	}
}

func printReport(w io.Writer, report *build.Report, outputDir string, verbose, plain bool, elapsed time.Duration) {
	if report.Skipped {
		fmt.Fprint(w, ui.Info(fmt.Sprintf("Artifacts in %s are up to date (build %s); use --force to rebuild", outputDir, report.Manifest.BuildID), plain))
		return
	}

	metrics := report.Result.Metrics
	ui.WriteSuccess(w, fmt.Sprintf("Built %d resolver(s) into %s in %s", metrics.TotalFiles, outputDir, elapsed.Round(time.Millisecond)), plain)

	summary := ui.NewKeyValueTable(w, plain)
	summary.AddRow("Stages", fmt.Sprint(metrics.Stages))
	summary.AddRow("Data sources", fmt.Sprint(metrics.DataSources))
	summary.AddRow("Artifacts", fmt.Sprint(metrics.Artifacts))
	summary.AddRow("Build id", report.Manifest.BuildID)
	summary.Render()

	for _, conflict := range report.Result.Plan.Conflicts {
		fmt.Fprint(w, ui.Warning(fmt.Sprintf("%s declares data source %q as %s; keeping %s",
			conflict.Resolver, conflict.Name, conflict.Ignored, conflict.Kept), plain))
	}

	if verbose {
		for _, path := range report.Result.ArtifactPaths() {
			fmt.Fprintf(w, "  %s\n", path)
		}
		for _, path := range report.Removed {
			fmt.Fprintf(w, "  - %s (removed)\n", path)
		}
	}
}

func successOutput(report *build.Report, outputDir string, start time.Time) buildOutput {
	result := buildOutput{
		Success:    true,
		Skipped:    report.Skipped,
		BuildID:    report.Manifest.BuildID,
		OutputDir:  outputDir,
		Artifacts:  report.Manifest.Artifacts,
		Removed:    report.Removed,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if report.Result != nil {
		result.Metrics = &buildMetricsJSON{
			Files:       report.Result.Metrics.TotalFiles,
			Stages:      report.Result.Metrics.Stages,
			DataSources: report.Result.Metrics.DataSources,
		}
	}
	return result
}

func failureOutput(err error, start time.Time) buildOutput {
	result := buildOutput{DurationMS: time.Since(start).Milliseconds()}
	if list := errors.Collect(err); len(list) > 0 {
		result.Errors = list
	} else {
		result.Message = err.Error()
	}
	return result
}

// writeJSON encodes v and returns cause, or the encoding error
func writeJSON(w io.Writer, v any, cause error) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return cause
}
