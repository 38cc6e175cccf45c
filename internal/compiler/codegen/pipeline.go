package codegen

import (
	"github.com/resolverkit/resolverkit/internal/compiler/emit"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
)

// utilImport is the first line of every generated pipeline function
const utilImport = "import { util } from '@aws-appsync/utils';"

// GenerateResolverCode returns the top-level pass-through resolver: the request
// starts the pipeline with an empty object and the response returns the last stage's result
func GenerateResolverCode() string {
	w := emit.NewWriter()
	w.Block("export function request(ctx)", "", func() {
		w.Line("return {};")
	})
	w.BlankLine()
	w.Block("export function response(ctx)", "", func() {
		w.Line("return ctx.prev.result;")
	})
	return w.String()
}

// GenerateFunctionCode returns one pipeline stage. The request body is the stage's
// statements in order, ending with the operation return; the response forwards errors.
func GenerateFunctionCode(fn ir.PipelineFunctionDef) string {
	w := emit.NewWriter()
	w.Line(utilImport)
	w.BlankLine()
	w.Block("export function request(ctx)", "", func() {
		for _, stmt := range fn.Statements {
			w.Lines(stmt.Text)
		}
	})
	w.BlankLine()
	w.Block("export function response(ctx)", "", func() {
		w.Block("if (ctx.error)", "", func() {
			w.Line("util.error(ctx.error.message, ctx.error.type);")
		})
		w.Line("return ctx.result;")
	})
	return w.String()
}
