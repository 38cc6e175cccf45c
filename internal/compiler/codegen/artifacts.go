// Package codegen generates the build artifacts of a compiled resolver batch:
// per-stage pipeline functions, top-level pass-through resolvers, the merged
// GraphQL schema and the infrastructure construct.
package codegen

import (
	"github.com/resolverkit/resolverkit/internal/compiler/handler"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
)

// Default artifact file names
const (
	DefaultSchemaFileName   = "schema.graphql"
	DefaultScaffoldFileName = "resolver-constructs.ts"
)

// Artifact is one generated file, relative to the output directory
type Artifact struct {
	Path    string `json:"path"`
	Content string `json:"-"`
}

// Options configures artifact generation
type Options struct {
	SchemaFileName   string
	ScaffoldFileName string
	Scaffold         ScaffoldOptions
}

func (o Options) withDefaults() Options {
	if o.SchemaFileName == "" {
		o.SchemaFileName = DefaultSchemaFileName
	}
	if o.ScaffoldFileName == "" {
		o.ScaffoldFileName = DefaultScaffoldFileName
	}
	o.Scaffold = o.Scaffold.withDefaults()
	return o
}

// Output is everything generated for a batch
type Output struct {
	Artifacts []Artifact
	Plan      *ScaffoldPlan
}

// Generate produces every artifact for resolvers, which must already be in batch order.
// Per resolver: each stage file in stage order, then the resolver file; then the schema
// and the construct.
func Generate(resolvers []*ir.ParsedResolver, opts Options) (*Output, error) {
	opts = opts.withDefaults()

	schema, err := GenerateSchema(resolvers)
	if err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, 0, 2)
	for _, resolver := range resolvers {
		for _, fn := range resolver.PipelineFunctions {
			artifacts = append(artifacts, Artifact{
				Path:    handler.FunctionFileName(resolver.Address, fn.Name),
				Content: GenerateFunctionCode(fn),
			})
		}
		artifacts = append(artifacts, Artifact{
			Path:    handler.ResolverFileName(resolver.Address),
			Content: GenerateResolverCode(),
		})
	}

	plan := PlanDataSources(resolvers)
	artifacts = append(artifacts,
		Artifact{Path: opts.SchemaFileName, Content: schema},
		Artifact{Path: opts.ScaffoldFileName, Content: GenerateScaffold(resolvers, plan, opts.Scaffold)},
	)

	return &Output{Artifacts: artifacts, Plan: plan}, nil
}
