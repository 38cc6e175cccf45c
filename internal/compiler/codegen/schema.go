package codegen

import (
	"bytes"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/resolverkit/resolverkit/internal/compiler/ir"
)

// InputArgumentName is the single argument every generated root field takes
const InputArgumentName = "input"

// SchemaBuilder merges the schema definitions contributed by each resolver.
// Definitions are keyed by type name; a repeated name appends its fields to the
// first definition, without deduplication. Output order is first appearance.
type SchemaBuilder struct {
	doc   *ast.SchemaDocument
	index map[string]*ast.Definition
}

// NewSchemaBuilder creates an empty schema builder
func NewSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{
		doc:   &ast.SchemaDocument{},
		index: make(map[string]*ast.Definition),
	}
}

// Add contributes the request input, the response type and the root field of one resolver
func (b *SchemaBuilder) Add(resolver *ir.ParsedResolver) error {
	if resolver.Address.TypeName == "" || resolver.Address.FieldName == "" {
		return fmt.Errorf("resolver %q: type and field names are required", resolver.Address)
	}
	requestFields, err := fieldList(resolver.RequestType)
	if err != nil {
		return fmt.Errorf("%s: request type: %w", resolver.Address, err)
	}
	responseFields, err := fieldList(resolver.ResponseType)
	if err != nil {
		return fmt.Errorf("%s: response type: %w", resolver.Address, err)
	}

	b.merge(ast.InputObject, resolver.RequestType.Name, requestFields)
	b.merge(ast.Object, resolver.ResponseType.Name, responseFields)
	b.merge(ast.Object, resolver.Address.TypeName, ast.FieldList{
		{
			Name: resolver.Address.FieldName,
			Arguments: ast.ArgumentDefinitionList{
				{Name: InputArgumentName, Type: ast.NamedType(resolver.RequestType.Name, nil)},
			},
			Type: ast.NamedType(resolver.ResponseType.Name, nil),
		},
	})
	return nil
}

// Document returns the merged schema document
func (b *SchemaBuilder) Document() *ast.SchemaDocument {
	return b.doc
}

// String prints the merged document as GraphQL SDL
func (b *SchemaBuilder) String() string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(b.doc)
	return buf.String()
}

func (b *SchemaBuilder) merge(kind ast.DefinitionKind, name string, fields ast.FieldList) {
	if def, ok := b.index[name]; ok {
		def.Fields = append(def.Fields, fields...)
		return
	}
	def := &ast.Definition{Kind: kind, Name: name, Fields: fields}
	b.index[name] = def
	b.doc.Definitions = append(b.doc.Definitions, def)
}

// GenerateSchema builds the merged SDL document for resolvers, in the given order
func GenerateSchema(resolvers []*ir.ParsedResolver) (string, error) {
	builder := NewSchemaBuilder()
	for _, resolver := range resolvers {
		if err := builder.Add(resolver); err != nil {
			return "", err
		}
	}
	return builder.String(), nil
}

// fieldList maps IR fields onto schema field definitions
func fieldList(def ir.TypeDefinition) (ast.FieldList, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("type definition has no name")
	}
	fields := make(ast.FieldList, 0, len(def.Fields))
	for _, field := range def.Fields {
		typ, err := FieldType(field)
		if err != nil {
			return nil, err
		}
		fields = append(fields, &ast.FieldDefinition{Name: field.Name, Type: typ})
	}
	return fields, nil
}

// FieldType maps a field onto its schema type: S! or S when optional,
// and always a non-null list for arrays, [S!]! or [S]!
func FieldType(field ir.FieldDefinition) (*ast.Type, error) {
	scalar, ok := ir.ScalarTypes[field.Type]
	if !ok {
		return nil, fmt.Errorf("field %q: unknown scalar type %q", field.Name, field.Type)
	}

	inner := ast.NonNullNamedType(scalar, nil)
	if field.IsOptional {
		inner = ast.NamedType(scalar, nil)
	}
	if field.IsArray {
		return ast.NonNullListType(inner, nil), nil
	}
	return inner, nil
}
