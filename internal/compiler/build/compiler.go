// Package build compiles a batch of resolver handler files into generated artifacts.
// Files are lexed, parsed, validated and lowered to IR in parallel; generation then
// consumes the resolvers in batch order.
package build

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/codegen"
	"github.com/resolverkit/resolverkit/internal/compiler/errors"
	"github.com/resolverkit/resolverkit/internal/compiler/handler"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
	"github.com/resolverkit/resolverkit/internal/compiler/lexer"
	"github.com/resolverkit/resolverkit/internal/compiler/parser"
	"github.com/resolverkit/resolverkit/internal/compiler/validator"
)

// Options configures a Compiler
type Options struct {
	// HelperModule is the sanctioned import; empty selects validator.DefaultHelperModule
	HelperModule string
	// Parallelism bounds concurrent file compilation; 0 uses runtime.NumCPU
	Parallelism int
	Codegen     codegen.Options
}

// Metrics tracks timing and counts for one compilation
type Metrics struct {
	TotalFiles       int
	Stages           int
	DataSources      int
	Artifacts        int
	ParseDuration    time.Duration
	GenerateDuration time.Duration
	TotalDuration    time.Duration
}

// Result is the output of a successful compilation
type Result struct {
	Resolvers []*ir.ParsedResolver
	Artifacts []codegen.Artifact
	Plan      *codegen.ScaffoldPlan
	Metrics   Metrics
}

// ArtifactPaths returns the artifact paths in generation order
func (r *Result) ArtifactPaths() []string {
	paths := make([]string, len(r.Artifacts))
	for i, artifact := range r.Artifacts {
		paths[i] = artifact.Path
	}
	return paths
}

// Compiler turns batches into artifacts
type Compiler struct {
	opts      Options
	validator *validator.Validator
	logger    *zap.Logger
}

// NewCompiler creates a compiler; a nil logger discards log output
func NewCompiler(opts Options, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}
	return &Compiler{
		opts:      opts,
		validator: validator.New(opts.HelperModule),
		logger:    logger,
	}
}

// Compile parses every source and generates the batch's artifacts.
// The first failing file in batch order aborts the build and nothing is generated.
func (c *Compiler) Compile(ctx context.Context, batch *Batch) (*Result, error) {
	start := time.Now()

	resolvers, err := c.Parse(ctx, batch)
	if err != nil {
		return nil, err
	}
	parsed := time.Now()

	output, err := codegen.Generate(resolvers, c.opts.Codegen)
	if err != nil {
		return nil, err
	}

	for _, conflict := range output.Plan.Conflicts {
		c.logger.Warn("conflicting data source kind ignored",
			zap.String("data_source", conflict.Name),
			zap.String("kept", string(conflict.Kept)),
			zap.String("ignored", string(conflict.Ignored)),
			zap.String("resolver", conflict.Resolver))
	}

	result := &Result{
		Resolvers: resolvers,
		Artifacts: output.Artifacts,
		Plan:      output.Plan,
		Metrics: Metrics{
			TotalFiles:       batch.Len(),
			DataSources:      len(output.Plan.DataSources),
			Artifacts:        len(output.Artifacts),
			ParseDuration:    parsed.Sub(start),
			GenerateDuration: time.Since(parsed),
			TotalDuration:    time.Since(start),
		},
	}
	for _, resolver := range resolvers {
		result.Metrics.Stages += len(resolver.PipelineFunctions)
	}

	c.logger.Debug("compiled batch",
		zap.Int("files", result.Metrics.TotalFiles),
		zap.Int("stages", result.Metrics.Stages),
		zap.Int("data_sources", result.Metrics.DataSources),
		zap.Duration("duration", result.Metrics.TotalDuration))

	return result, nil
}

// Parse lowers every source of the batch to IR, returning resolvers in batch order.
// Once a file fails, files after it in batch order are skipped; files before it
// still run so the reported error is always the first one in batch order.
func (c *Compiler) Parse(ctx context.Context, batch *Batch) ([]*ir.ParsedResolver, error) {
	sources := batch.sources
	resolvers := make([]*ir.ParsedResolver, len(sources))
	errs := make([]error, len(sources))

	var mu sync.Mutex
	firstFailure := len(sources)
	skip := func(i int) bool {
		mu.Lock()
		defer mu.Unlock()
		return i > firstFailure
	}
	fail := func(i int) {
		mu.Lock()
		defer mu.Unlock()
		firstFailure = min(firstFailure, i)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Parallelism)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if skip(i) {
				return nil
			}
			resolver, err := c.CompileSource(src)
			if err != nil {
				errs[i] = err
				fail(i)
				return nil
			}
			resolvers[i] = resolver
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, err := range errs {
		if err != nil {
			c.logger.Debug("handler failed", zap.String("file", sources[i].Path), zap.Error(err))
			return nil, err
		}
	}
	return resolvers, nil
}

// CompileSource lexes, parses, validates and lowers a single handler file
func (c *Compiler) CompileSource(src Source) (*ir.ParsedResolver, error) {
	tokens, lexErrs := lexer.New(src.Content).ScanTokens()
	if len(lexErrs) > 0 {
		list := make(errors.ErrorList, 0, len(lexErrs))
		for _, e := range lexErrs {
			loc := ast.SourceLocation{Line: e.Line, Column: e.Column}
			list = append(list, errors.NewLexicalError(loc, e.Message, e.Lexeme))
		}
		return nil, withSource(list, src)
	}

	file, parseErrs := parser.New(tokens).Parse()
	if len(parseErrs) > 0 {
		list := make(errors.ErrorList, 0, len(parseErrs))
		for _, e := range parseErrs {
			list = append(list, errors.NewUnexpectedToken(e.Location, e.Message, e.Token.Lexeme))
		}
		return nil, withSource(list, src)
	}

	validated, err := c.validator.Validate(file)
	if err != nil {
		return nil, annotate(err, src)
	}

	resolver, err := handler.Parse(src.Path, src.Content, file, validated)
	if err != nil {
		return nil, annotate(err, src)
	}

	c.logger.Debug("parsed handler",
		zap.String("file", src.Path),
		zap.String("resolver", resolver.Address.String()),
		zap.Int("stages", len(resolver.PipelineFunctions)),
		zap.Int("data_sources", len(resolver.ReferencedDataSources)))

	return resolver, nil
}

func withSource(list errors.ErrorList, src Source) error {
	for _, e := range list {
		e.WithFile(src.Path).WithSource(src.Content)
	}
	if len(list) == 1 {
		return list[0]
	}
	return list
}

// annotate attaches file and source context to compiler errors; others pass through
func annotate(err error, src Source) error {
	if list := errors.Collect(err); len(list) > 0 {
		return withSource(list, src)
	}
	return err
}
