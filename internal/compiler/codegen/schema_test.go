package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/resolverkit/resolverkit/internal/compiler/ir"
)

func addUserResolver() *ir.ParsedResolver {
	return &ir.ParsedResolver{
		Address: ir.ResolverAddress{TypeName: "Mutation", FieldName: "addUser"},
		ReferencedDataSources: []ir.DataSourceRef{
			{VariableName: "getUserId", DataSourceName: "getUserId", Kind: ir.DataSourceLambda},
			{VariableName: "userStore", DataSourceName: "userStore", Kind: ir.DataSourceDynamoDB},
		},
		PipelineFunctions: []ir.PipelineFunctionDef{
			{
				Name:       "getUserId",
				MethodName: "invoke",
				DataSource: ir.DataSourceRef{VariableName: "getUserId", DataSourceName: "getUserId", Kind: ir.DataSourceLambda},
				Operation:  ir.Operation{Name: "Invoke", Fields: []ir.OperationField{{Key: "payload", Value: "{ username }"}}},
				Statements: []ir.Statement{
					{Text: "const { username } = ctx.args.input;", Origin: ir.OriginBinding},
					{Text: "return {\n  operation: 'Invoke',\n  payload: { username },\n};", Origin: ir.OriginOperation},
				},
			},
			{
				Name:       "userStore",
				MethodName: "put",
				DataSource: ir.DataSourceRef{VariableName: "userStore", DataSourceName: "userStore", Kind: ir.DataSourceDynamoDB},
				Statements: []ir.Statement{
					{Text: "const userId = ctx.prev.result;", Origin: ir.OriginBinding},
					{Text: "const processedId = `${userId}${userId}`;", Origin: ir.OriginSource},
					{Text: "return {\n  operation: 'PutItem',\n};", Origin: ir.OriginOperation},
				},
			},
		},
		RequestType: ir.TypeDefinition{
			Name:   "AddUserRequest",
			Fields: []ir.FieldDefinition{{Name: "username", Type: "string"}},
		},
		ResponseType: ir.TypeDefinition{
			Name:   "AddUserResponse",
			Fields: []ir.FieldDefinition{{Name: "userId", Type: "string"}},
		},
	}
}

func parseSchema(t *testing.T, sdl string) *ast.SchemaDocument {
	t.Helper()
	doc, err := parser.ParseSchema(&ast.Source{Name: "schema.graphql", Input: sdl})
	require.NoError(t, err, "generated schema does not parse:\n%s", sdl)
	return doc
}

func TestGenerateSchemaAddUser(t *testing.T) {
	sdl, err := GenerateSchema([]*ir.ParsedResolver{addUserResolver()})
	require.NoError(t, err)

	doc := parseSchema(t, sdl)
	require.Len(t, doc.Definitions, 3)

	request := doc.Definitions.ForName("AddUserRequest")
	require.NotNil(t, request)
	assert.Equal(t, ast.InputObject, request.Kind)
	assert.Equal(t, "String!", request.Fields.ForName("username").Type.String())

	response := doc.Definitions.ForName("AddUserResponse")
	require.NotNil(t, response)
	assert.Equal(t, ast.Object, response.Kind)

	mutation := doc.Definitions.ForName("Mutation")
	require.NotNil(t, mutation)
	field := mutation.Fields.ForName("addUser")
	require.NotNil(t, field)
	assert.Equal(t, "AddUserResponse", field.Type.String())
	require.Len(t, field.Arguments, 1)
	assert.Equal(t, "input", field.Arguments[0].Name)
	assert.Equal(t, "AddUserRequest", field.Arguments[0].Type.String())

	assert.Contains(t, sdl, "input AddUserRequest")
	assert.Contains(t, sdl, "type AddUserResponse")
	assert.Contains(t, sdl, "addUser(input: AddUserRequest): AddUserResponse")
}

func TestGenerateSchemaMergesSameNameTypes(t *testing.T) {
	first := &ir.ParsedResolver{
		Address:      ir.ResolverAddress{TypeName: "Query", FieldName: "getA"},
		RequestType:  ir.TypeDefinition{Name: "GetARequest", Fields: []ir.FieldDefinition{{Name: "id", Type: "string"}}},
		ResponseType: ir.TypeDefinition{Name: "Result", Fields: []ir.FieldDefinition{{Name: "a", Type: "string"}}},
	}
	second := &ir.ParsedResolver{
		Address:      ir.ResolverAddress{TypeName: "Query", FieldName: "getB"},
		RequestType:  ir.TypeDefinition{Name: "GetBRequest", Fields: []ir.FieldDefinition{{Name: "id", Type: "string"}}},
		ResponseType: ir.TypeDefinition{Name: "Result", Fields: []ir.FieldDefinition{{Name: "b", Type: "number", IsArray: true}}},
	}

	builder := NewSchemaBuilder()
	require.NoError(t, builder.Add(first))
	require.NoError(t, builder.Add(second))

	names := make([]string, 0)
	for _, def := range builder.Document().Definitions {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"GetARequest", "Result", "Query", "GetBRequest"}, names)

	result := builder.Document().Definitions.ForName("Result")
	require.Len(t, result.Fields, 2)
	assert.Equal(t, "a", result.Fields[0].Name)
	assert.Equal(t, "b", result.Fields[1].Name)
	assert.Equal(t, "[Float!]!", result.Fields[1].Type.String())

	query := builder.Document().Definitions.ForName("Query")
	assert.Len(t, query.Fields, 2)

	parseSchema(t, builder.String())
}

func TestGenerateSchemaKeepsDuplicateFields(t *testing.T) {
	resolver := func(field string) *ir.ParsedResolver {
		return &ir.ParsedResolver{
			Address:      ir.ResolverAddress{TypeName: "Query", FieldName: field},
			RequestType:  ir.TypeDefinition{Name: "Req", Fields: []ir.FieldDefinition{{Name: "id", Type: "string"}}},
			ResponseType: ir.TypeDefinition{Name: "Result", Fields: []ir.FieldDefinition{{Name: "id", Type: "string"}}},
		}
	}

	builder := NewSchemaBuilder()
	require.NoError(t, builder.Add(resolver("one")))
	require.NoError(t, builder.Add(resolver("two")))

	assert.Len(t, builder.Document().Definitions.ForName("Result").Fields, 2)
	assert.Len(t, builder.Document().Definitions.ForName("Req").Fields, 2)
}

func TestGenerateSchemaRejectsUnnamedTypes(t *testing.T) {
	resolver := addUserResolver()
	resolver.ResponseType.Name = ""

	_, err := GenerateSchema([]*ir.ParsedResolver{resolver})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mutation.addUser: response type")

	_, err = GenerateSchema([]*ir.ParsedResolver{{
		RequestType:  ir.TypeDefinition{Name: "Req"},
		ResponseType: ir.TypeDefinition{Name: "Res"},
	}})
	assert.Error(t, err)
}

func TestFieldType(t *testing.T) {
	tests := []struct {
		field ir.FieldDefinition
		want  string
	}{
		{ir.FieldDefinition{Name: "a", Type: "string"}, "String!"},
		{ir.FieldDefinition{Name: "b", Type: "string", IsOptional: true}, "String"},
		{ir.FieldDefinition{Name: "c", Type: "number", IsArray: true}, "[Float!]!"},
		{ir.FieldDefinition{Name: "d", Type: "boolean", IsArray: true, IsOptional: true}, "[Boolean]!"},
	}

	for _, tt := range tests {
		typ, err := FieldType(tt.field)
		require.NoError(t, err)
		assert.Equal(t, tt.want, typ.String())

		viaIR, err := tt.field.GraphQLType()
		require.NoError(t, err)
		assert.Equal(t, viaIR, typ.String())
	}

	_, err := FieldType(ir.FieldDefinition{Name: "e", Type: "Date"})
	assert.Error(t, err)
}
