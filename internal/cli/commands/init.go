package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/resolverkit/resolverkit/internal/cli/config"
	"github.com/resolverkit/resolverkit/internal/cli/ui"
)

// askInit fills cfg interactively; replaced in tests
var askInit = surveyInit

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	var (
		yes   bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create resolverkit.yml and the handler directory",
		Long: `Write a resolverkit.yml in the current directory. Without --yes the
input and output directories, helper module and construct name are asked for
interactively; with --yes the defaults are used.`,
		Example: `  # Answer prompts
  resolverkit init

  # Accept every default
  resolverkit init --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			plain := noColor(cmd)
			path := config.FileName + ".yml"

			if !force && config.InProject() {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}

			cfg := config.Default()
			if !yes {
				if err := askInit(cfg); err != nil {
					return err
				}
			}

			if err := config.Write(path, cfg); err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), plain))
				return reported(err)
			}
			if err := os.MkdirAll(cfg.Input.Dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", cfg.Input.Dir, err)
			}

			out := cmd.OutOrStdout()
			ui.WriteSuccess(out, fmt.Sprintf("Created %s", path), plain)
			fmt.Fprintf(out, "\nAdd handlers as %s, then run: resolverkit build\n",
				filepath.Join(cfg.Input.Dir, "<Type>.<field>"+cfg.Input.Extensions[0]))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Use defaults without prompting")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing resolverkit.yml")

	return cmd
}

func surveyInit(cfg *config.Config) error {
	questions := []*survey.Question{
		{
			Name:     "input",
			Prompt:   &survey.Input{Message: "Handler directory:", Default: cfg.Input.Dir},
			Validate: survey.Required,
		},
		{
			Name:     "output",
			Prompt:   &survey.Input{Message: "Output directory:", Default: cfg.Output.Dir},
			Validate: survey.Required,
		},
		{
			Name:     "helper",
			Prompt:   &survey.Input{Message: "Helper module handlers import:", Default: cfg.Compiler.HelperModule},
			Validate: survey.Required,
		},
		{
			Name:   "construct",
			Prompt: &survey.Input{Message: "CDK construct name:", Default: cfg.Scaffold.ConstructName},
			Validate: survey.ComposeValidators(survey.Required, func(ans interface{}) error {
				if s, ok := ans.(string); ok && strings.ContainsAny(s, " -.") {
					return fmt.Errorf("construct name must be a TypeScript identifier")
				}
				return nil
			}),
		},
	}

	answers := struct {
		Input     string `survey:"input"`
		Output    string `survey:"output"`
		Helper    string `survey:"helper"`
		Construct string `survey:"construct"`
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	cfg.Input.Dir = answers.Input
	cfg.Output.Dir = answers.Output
	cfg.Compiler.HelperModule = answers.Helper
	cfg.Scaffold.ConstructName = answers.Construct
	return nil
}
