package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/errors"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
	"github.com/resolverkit/resolverkit/internal/compiler/lexer"
	"github.com/resolverkit/resolverkit/internal/compiler/parser"
)

func parseFile(t *testing.T, source string) *ast.SourceFile {
	t.Helper()
	tokens, lexErrors := lexer.New(source).ScanTokens()
	require.Empty(t, lexErrors)
	file, parseErrors := parser.New(tokens).Parse()
	require.Empty(t, parseErrors)
	return file
}

func TestCollectTypes(t *testing.T) {
	source := `type Id = string;
type User = { id: string; name?: string };
export interface Page { items: string[]; total: number }
type Flags = { enabled: boolean; weights: Array<number> };
`
	table := CollectTypes(parseFile(t, source), source)
	assert.Equal(t, []string{"Flags", "Page", "User"}, table.Names())

	user, err := table.Resolve(&ast.TypeReference{Name: "User"}, ir.AnonymousRequestType)
	require.NoError(t, err)
	assert.Equal(t, []ir.FieldDefinition{
		{Name: "id", Type: "string"},
		{Name: "name", Type: "string", IsOptional: true},
	}, user.Fields)

	page, err := table.Resolve(&ast.TypeReference{Name: "Page"}, ir.AnonymousResponseType)
	require.NoError(t, err)
	assert.Equal(t, ir.FieldDefinition{Name: "items", Type: "string", IsArray: true}, page.Fields[0])

	flags, err := table.Resolve(&ast.TypeReference{Name: "Flags"}, ir.AnonymousResponseType)
	require.NoError(t, err)
	assert.Equal(t, ir.FieldDefinition{Name: "weights", Type: "number", IsArray: true}, flags.Fields[1])
}

func TestResolveUnresolved(t *testing.T) {
	source := `type Id = string;
type User = { id: string };
`
	table := CollectTypes(parseFile(t, source), source)

	_, err := table.Resolve(&ast.TypeReference{Name: "Id"}, ir.AnonymousRequestType)
	require.Error(t, err)
	assert.True(t, errors.IsUnresolvedType(err))

	compilerErr, _ := errors.As(err)
	assert.Contains(t, compilerErr.Suggestion, "User")
}

func TestScalarOf(t *testing.T) {
	tests := []struct {
		source  string
		scalar  string
		isArray bool
		ok      bool
	}{
		{"string", "string", false, true},
		{"number[]", "number", true, true},
		{"Array<boolean>", "boolean", true, true},
		{"string[][]", "", false, false},
		{"Date", "", false, false},
		{"string | number", "", false, false},
		{"'a'", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			source := "type T = { f: " + tt.source + " };"
			alias := parseFile(t, source).Statements[0].(*ast.TypeAliasDecl)
			member := alias.Type.(*ast.TypeLiteral).Members[0]

			scalar, isArray, ok := scalarOf(member.Type)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.scalar, scalar)
				assert.Equal(t, tt.isArray, isArray)
			}
		})
	}
}

func TestUnwrapPromise(t *testing.T) {
	inner := &ast.TypeReference{Name: "Res"}
	assert.Same(t, inner, unwrapPromise(&ast.TypeReference{Name: "Promise", TypeArgs: []ast.TypeNode{inner}}))
	assert.Same(t, inner, unwrapPromise(inner))
}
