// Package ir defines the intermediate representation produced by the handler parser
// and consumed by the schema, pipeline and scaffold generators.
package ir

import (
	"fmt"
	"sort"
	"strings"
)

// ScalarTypes maps handler scalar type names to GraphQL scalar names
var ScalarTypes = map[string]string{
	"string":  "String",
	"number":  "Float",
	"boolean": "Boolean",
}

// ScalarNames returns the supported handler scalar names in sorted order
func ScalarNames() []string {
	names := make([]string, 0, len(ScalarTypes))
	for name := range ScalarTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldDefinition is one field of a structural request or response type
type FieldDefinition struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	IsOptional bool   `json:"isOptional,omitempty"`
	IsArray    bool   `json:"isArray,omitempty"`
}

// TypeDefinition is a named structural record
type TypeDefinition struct {
	Name   string            `json:"name"`
	Fields []FieldDefinition `json:"fields"`
}

// Anonymous type names given to inline request and response literals
const (
	AnonymousRequestType  = "AnonymousRequestType"
	AnonymousResponseType = "AnonymousResponseType"
)

// DataSourceKind identifies the backing service of a data source
type DataSourceKind string

const (
	// DataSourceLambda is a function invoked with a payload
	DataSourceLambda DataSourceKind = "lambda"
	// DataSourceDynamoDB is a key-value table
	DataSourceDynamoDB DataSourceKind = "dynamodb"
)

// AcquisitionMethods maps helper acquisition methods to the kind they acquire
var AcquisitionMethods = map[string]DataSourceKind{
	"getLambdaDataSource":   DataSourceLambda,
	"getDynamoDbDataSource": DataSourceDynamoDB,
}

// DataSourceRef records a handler-local binding of a variable to a named data source
type DataSourceRef struct {
	VariableName   string         `json:"variableName"`
	DataSourceName string         `json:"dataSourceName"`
	Kind           DataSourceKind `json:"kind"`
}

// StatementOrigin tags where a stage statement came from
type StatementOrigin string

const (
	// OriginSource is business logic carried over from the handler body
	OriginSource StatementOrigin = "source"
	// OriginBinding is a synthesized binding from the pipeline context
	OriginBinding StatementOrigin = "binding"
	// OriginOperation is the synthesized operation return
	OriginOperation StatementOrigin = "operation"
)

// Statement is one line-oriented fragment of a stage's request body
type Statement struct {
	Text   string          `json:"text"`
	Origin StatementOrigin `json:"origin"`
}

// OperationField is one key of a synthesized operation object
type OperationField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Operation is the structured form of a stage's synthesized return expression
type Operation struct {
	Name   string           `json:"name"`
	Fields []OperationField `json:"fields"`
}

// Lines renders the operation as a return statement, one entry per line
func (o Operation) Lines() []string {
	lines := make([]string, 0, len(o.Fields)+3)
	lines = append(lines, "return {", fmt.Sprintf("  operation: '%s',", o.Name))
	for _, field := range o.Fields {
		lines = append(lines, fmt.Sprintf("  %s: %s,", field.Key, field.Value))
	}
	return append(lines, "};")
}

// PipelineFunctionDef is one pipeline stage produced by an invocation on a data source
type PipelineFunctionDef struct {
	Name          string        `json:"name"`
	MethodName    string        `json:"methodName"`
	DataSource    DataSourceRef `json:"dataSource"`
	Args          []string      `json:"args"`
	ResultBinding string        `json:"resultBinding,omitempty"`
	Operation     Operation     `json:"operation"`
	Statements    []Statement   `json:"statements"`
}

// Lines returns every statement line of the stage's request body, in order
func (f PipelineFunctionDef) Lines() []string {
	var lines []string
	for _, stmt := range f.Statements {
		lines = append(lines, strings.Split(stmt.Text, "\n")...)
	}
	return lines
}

// SourceStatements returns the statements carried over from the handler body
func (f PipelineFunctionDef) SourceStatements() []string {
	out := make([]string, 0, len(f.Statements))
	for _, stmt := range f.Statements {
		if stmt.Origin == OriginSource {
			out = append(out, stmt.Text)
		}
	}
	return out
}

// ResolverAddress identifies the schema operation a handler implements
type ResolverAddress struct {
	TypeName  string `json:"typeName"`
	FieldName string `json:"fieldName"`
}

// String returns Type.field
func (a ResolverAddress) String() string {
	return a.TypeName + "." + a.FieldName
}

// ParsedResolver is the aggregate IR for one handler file
type ParsedResolver struct {
	Address               ResolverAddress       `json:"address"`
	ReferencedDataSources []DataSourceRef       `json:"referencedDataSources"`
	PipelineFunctions     []PipelineFunctionDef `json:"pipelineFunctions"`
	RequestType           TypeDefinition        `json:"requestType"`
	ResponseType          TypeDefinition        `json:"responseType"`
	Source                string                `json:"source"`
	TrailingStatements    []string              `json:"trailingStatements,omitempty"`
}

// GraphQLType renders the field's schema type, e.g. "String!" or "[Float!]!"
func (f FieldDefinition) GraphQLType() (string, error) {
	scalar, ok := ScalarTypes[f.Type]
	if !ok {
		return "", fmt.Errorf("unknown scalar type %q (expected one of %s)", f.Type, strings.Join(ScalarNames(), ", "))
	}
	inner := scalar
	if !f.IsOptional {
		inner += "!"
	}
	if f.IsArray {
		return "[" + inner + "]!", nil
	}
	return inner, nil
}
