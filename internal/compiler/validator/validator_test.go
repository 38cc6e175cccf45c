package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/errors"
	"github.com/resolverkit/resolverkit/internal/compiler/lexer"
	"github.com/resolverkit/resolverkit/internal/compiler/parser"
)

func parse(t *testing.T, source string) *ast.SourceFile {
	t.Helper()
	tokens, lexErrors := lexer.New(source).ScanTokens()
	require.Empty(t, lexErrors)
	file, parseErrors := parser.New(tokens).Parse()
	require.Empty(t, parseErrors)
	return file
}

func TestValidateAcceptsHandlerForms(t *testing.T) {
	tests := []struct {
		name   string
		source string
		async  bool
	}{
		{
			name: "arrow function",
			source: `import resolver from 'als-resolver-tools';
export const handler = (input: Req): Res => { return input; };`,
		},
		{
			name: "async arrow function",
			source: `import resolver from 'als-resolver-tools';
export const handler = async (input: Req): Promise<Res> => { return input; };`,
			async: true,
		},
		{
			name: "function expression",
			source: `import resolver from 'als-resolver-tools';
export const handler = function (input: Req): Res { return input; };`,
		},
		{
			name: "function declaration",
			source: `import resolver from 'als-resolver-tools';
export function handler(input: Req): Res { return input; }`,
		},
		{
			name: "exported types alongside the handler",
			source: `import resolver from 'als-resolver-tools';
export type Req = { id: string };
export interface Res { id: string }
const helper = (x: string) => x;
export const handler = (input: Req): Res => { return input; };`,
		},
		{
			name: "other exports alongside the handler",
			source: `import resolver from 'als-resolver-tools';
export const TABLE = 'users';
export function format(id: string) { return id; }
const LIMIT = 10;
export { LIMIT };
export const handler = (input: Req): Res => { return input; };`,
		},
		{
			name: "namespace helper import",
			source: `import * as resolver from 'als-resolver-tools';
export const handler = (input: Req): Res => { return input; };`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New("").Validate(parse(t, tt.source))
			require.NoError(t, err)
			assert.Equal(t, "resolver", result.HelperName)
			require.NotNil(t, result.Handler)
			assert.Len(t, result.Handler.Params, 1)
			assert.Len(t, result.Handler.Body, 1)
			assert.Equal(t, tt.async, result.Handler.Async)
		})
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   errors.ErrorCode
	}{
		{
			name:   "missing import",
			source: `export const handler = (input: Req): Res => input;`,
			code:   errors.ErrMissingImport,
		},
		{
			name: "wrong import",
			source: `import resolver from '../resolver';
export const handler = (input: Req): Res => input;`,
			code: errors.ErrWrongImport,
		},
		{
			name: "multiple imports",
			source: `import resolver from 'als-resolver-tools';
import lodash from 'lodash';
export const handler = (input: Req): Res => input;`,
			code: errors.ErrMultipleImports,
		},
		{
			name: "type-only namespace import",
			source: `import type * as resolver from 'als-resolver-tools';
export const handler = (input: Req): Res => input;`,
			code: errors.ErrMissingHelperBinding,
		},
		{
			name: "named import only",
			source: `import { getLambdaDataSource } from 'als-resolver-tools';
export const handler = (input: Req): Res => input;`,
			code: errors.ErrMissingHelperBinding,
		},
		{
			name: "missing handler",
			source: `import resolver from 'als-resolver-tools';
const handler = (input: Req): Res => input;`,
			code: errors.ErrMissingHandler,
		},
		{
			name: "multiple handlers",
			source: `import resolver from 'als-resolver-tools';
export const handler = (input: Req): Res => input;
export function handler(input: Req): Res { return input; }`,
			code: errors.ErrMultipleHandlers,
		},
		{
			name: "handler not a function",
			source: `import resolver from 'als-resolver-tools';
export const handler = { run: true };`,
			code: errors.ErrHandlerNotFunction,
		},
		{
			name: "handler exported through a pattern",
			source: `import resolver from 'als-resolver-tools';
export const { handler } = handlers;`,
			code: errors.ErrUnexpectedExport,
		},
		{
			name: "default export",
			source: `import resolver from 'als-resolver-tools';
const handler = (input: Req): Res => input;
export default handler;`,
			code: errors.ErrUnexpectedExport,
		},
		{
			name: "export list",
			source: `import resolver from 'als-resolver-tools';
const handler = (input: Req): Res => input;
export { handler };`,
			code: errors.ErrUnexpectedExport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(DefaultHelperModule).Validate(parse(t, tt.source))
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err), "expected validation error, got %v", err)

			compilerErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, compilerErr.Code)
		})
	}
}

func TestValidateCustomHelperModule(t *testing.T) {
	source := `import tools from '@acme/resolvers';
export const handler = (input: Req): Res => input;`

	result, err := New("@acme/resolvers").Validate(parse(t, source))
	require.NoError(t, err)
	assert.Equal(t, "tools", result.HelperName)

	_, err = New("").Validate(parse(t, source))
	require.Error(t, err)
	compilerErr, _ := errors.As(err)
	assert.Equal(t, errors.ErrWrongImport, compilerErr.Code)
	assert.Equal(t, DefaultHelperModule, compilerErr.Expected)
}

func TestValidateExpressionBodyHandler(t *testing.T) {
	source := `import resolver from 'als-resolver-tools';
export const handler = (input: Req): Res => ({ id: input.id });`

	result, err := New("").Validate(parse(t, source))
	require.NoError(t, err)
	assert.Empty(t, result.Handler.Body)
}
