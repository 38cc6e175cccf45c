package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/resolverkit/resolverkit/internal/cli/ui"
	"github.com/resolverkit/resolverkit/internal/compiler/build"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
)

type checkOptions struct {
	json     bool
	verbose  bool
	resolver string
}

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate and parse resolver handlers without writing artifacts",
		Long: `Validate every handler in the input directory and print the resolvers,
their pipeline stages and data sources. No files are written.`,
		Example: `  # List every resolver
  resolverkit check

  # Show the stages and fields of one resolver
  resolverkit check --resolver Mutation.addUser

  # Print the parsed resolvers as JSON
  resolverkit check --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Output parsed resolvers or errors in JSON format")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show detailed compiler output")
	cmd.Flags().StringVarP(&opts.resolver, "resolver", "r", "", "Show one resolver, as Type.field")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	start := time.Now()
	out := cmd.OutOrStdout()
	plain := noColor(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), plain))
		return reported(err)
	}

	logger := newLogger(opts.verbose)
	defer logger.Sync()

	batch, err := build.LoadBatch(cfg.Input.Dir, cfg.Input.Extensions)
	if err != nil {
		return err
	}

	resolvers, err := build.NewCompiler(cfg.BuildOptions(), logger).Parse(cmd.Context(), batch)
	if err != nil {
		if opts.json {
			return reported(writeJSON(out, failureOutput(err, start), err))
		}
		fmt.Fprint(cmd.ErrOrStderr(), ui.CompileError(err, plain))
		return reported(err)
	}

	if opts.resolver != "" {
		resolver := findResolver(resolvers, opts.resolver)
		if resolver == nil {
			fmt.Fprint(cmd.ErrOrStderr(), ui.ResolverNotFoundError(opts.resolver, resolverNames(resolvers), plain))
			return reported(fmt.Errorf("resolver %s not found", opts.resolver))
		}
		if opts.json {
			return writeJSON(out, resolver, nil)
		}
		return printResolver(out, resolver, plain)
	}

	if opts.json {
		return writeJSON(out, resolvers, nil)
	}

	table := ui.NewTable(out, []string{"RESOLVER", "FILE", "STAGES", "DATA SOURCES"}, &ui.TableOptions{NoColor: plain})
	for _, resolver := range resolvers {
		table.AddRow(
			resolver.Address.String(),
			filepath.Base(resolver.Source),
			stageNames(resolver),
			dataSourceNames(resolver),
		)
	}
	table.Render()
	ui.WriteSuccess(out, fmt.Sprintf("%d resolver(s) OK", len(resolvers)), plain)
	return nil
}

func findResolver(resolvers []*ir.ParsedResolver, name string) *ir.ParsedResolver {
	for _, resolver := range resolvers {
		if resolver.Address.String() == name {
			return resolver
		}
	}
	return nil
}

func resolverNames(resolvers []*ir.ParsedResolver) []string {
	names := make([]string, len(resolvers))
	for i, resolver := range resolvers {
		names[i] = resolver.Address.String()
	}
	return names
}

func stageNames(resolver *ir.ParsedResolver) string {
	if len(resolver.PipelineFunctions) == 0 {
		return "-"
	}
	names := make([]string, len(resolver.PipelineFunctions))
	for i, fn := range resolver.PipelineFunctions {
		names[i] = fn.Name + "." + fn.MethodName
	}
	return strings.Join(names, " → ")
}

func dataSourceNames(resolver *ir.ParsedResolver) string {
	if len(resolver.ReferencedDataSources) == 0 {
		return "-"
	}
	names := make([]string, len(resolver.ReferencedDataSources))
	for i, ds := range resolver.ReferencedDataSources {
		names[i] = fmt.Sprintf("%s (%s)", ds.DataSourceName, ds.Kind)
	}
	return strings.Join(names, ", ")
}

// printResolver shows one resolver's types with their GraphQL form and its stages
func printResolver(w io.Writer, resolver *ir.ParsedResolver, plain bool) error {
	info := ui.NewKeyValueTable(w, plain)
	info.AddRow("Resolver", resolver.Address.String())
	info.AddRow("Source", resolver.Source)
	info.Render()

	for _, def := range []ir.TypeDefinition{resolver.RequestType, resolver.ResponseType} {
		fmt.Fprintf(w, "\n%s\n", def.Name)
		fields := ui.NewTable(w, []string{"FIELD", "TYPE", "GRAPHQL"}, &ui.TableOptions{NoColor: plain})
		for _, field := range def.Fields {
			gql, err := field.GraphQLType()
			if err != nil {
				return err
			}
			typ := field.Type
			if field.IsArray {
				typ += "[]"
			}
			name := field.Name
			if field.IsOptional {
				name += "?"
			}
			fields.AddRow(name, typ, gql)
		}
		fields.Render()
	}

	fmt.Fprintln(w)
	stages := ui.NewTable(w, []string{"#", "STAGE", "DATA SOURCE", "OPERATION", "BINDS"}, &ui.TableOptions{NoColor: plain})
	for i, fn := range resolver.PipelineFunctions {
		binds := fn.ResultBinding
		if binds == "" {
			binds = "-"
		}
		stages.AddRow(fmt.Sprint(i+1), fn.Name, fn.DataSource.DataSourceName, fn.Operation.Name, binds)
	}
	stages.Render()
	return nil
}
