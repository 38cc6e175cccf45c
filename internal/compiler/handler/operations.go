package handler

import (
	"fmt"
	"sort"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/errors"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
)

// emptyPlaceholder is emitted where an operation field has no source to populate it
const emptyPlaceholder = "{}"

// operationSynth builds the operation a stage returns from the invocation's arguments
type operationSynth func(call *invocation) (ir.Operation, error)

// operations is the (kind, method) synthesis table
var operations = map[ir.DataSourceKind]map[string]operationSynth{
	ir.DataSourceDynamoDB: {
		"get":    keyedOperation("GetItem"),
		"put":    putItem,
		"delete": keyedOperation("DeleteItem"),
	},
	ir.DataSourceLambda: {
		"invoke": invoke,
	},
}

// invocation is a detected `<variable>.<method>(args)` call on a bound data source
type invocation struct {
	ref    ir.DataSourceRef
	method string
	call   *ast.CallExpr
	src    sourceText
}

func (c *invocation) callName() string {
	return c.ref.VariableName + "." + c.method
}

// objectArg returns the i-th argument when it is an object literal
func (c *invocation) objectArg(i int) (*ast.ObjectLit, bool) {
	if i >= len(c.call.Args) {
		return nil, false
	}
	obj, ok := ast.Unwrap(c.call.Args[i]).(*ast.ObjectLit)
	return obj, ok
}

// toMapValues wraps an object literal for a DynamoDB attribute map
func (c *invocation) toMapValues(obj *ast.ObjectLit) string {
	return fmt.Sprintf("util.dynamodb.toMapValues(%s)", c.src.objectLiteral(obj))
}

// synthesizeOperation looks up and applies the (kind, method) table
func synthesizeOperation(call *invocation) (ir.Operation, error) {
	methods := operations[call.ref.Kind]
	synth, ok := methods[call.method]
	if !ok {
		return ir.Operation{}, errors.NewUnsupportedOperation(call.call.Loc, string(call.ref.Kind), call.method, supportedMethods(call.ref.Kind))
	}
	return synth(call)
}

// supportedMethods lists the methods a data source kind accepts, sorted
func supportedMethods(kind ir.DataSourceKind) []string {
	methods := make([]string, 0, len(operations[kind]))
	for method := range operations[kind] {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

// keyedOperation is GetItem or DeleteItem; a single object-literal argument becomes the key
func keyedOperation(name string) operationSynth {
	return func(call *invocation) (ir.Operation, error) {
		key := emptyPlaceholder
		if obj, ok := call.objectArg(0); ok && len(call.call.Args) == 1 {
			key = call.toMapValues(obj)
		}
		return ir.Operation{
			Name:   name,
			Fields: []ir.OperationField{{Key: "key", Value: key}},
		}, nil
	}
}

// putItem requires exactly two object literals: key, then attribute values
func putItem(call *invocation) (ir.Operation, error) {
	if len(call.call.Args) != 2 {
		return ir.Operation{}, errors.NewMalformedArguments(call.call.Loc, call.callName(),
			fmt.Sprintf("expected 2 object literal arguments, found %d", len(call.call.Args))).
			WithExamples(call.callName() + "({ id }, { name, email })")
	}

	key, keyOK := call.objectArg(0)
	values, valuesOK := call.objectArg(1)
	if !keyOK || !valuesOK {
		return ir.Operation{}, errors.NewMalformedArguments(call.call.Loc, call.callName(),
			"both arguments must be object literals").
			WithExamples(call.callName() + "({ id }, { name, email })")
	}

	return ir.Operation{
		Name: "PutItem",
		Fields: []ir.OperationField{
			{Key: "key", Value: call.toMapValues(key)},
			{Key: "attributeValues", Value: call.toMapValues(values)},
		},
	}, nil
}

// invoke passes a single object-literal argument through as the payload
func invoke(call *invocation) (ir.Operation, error) {
	payload := emptyPlaceholder
	if obj, ok := call.objectArg(0); ok && len(call.call.Args) == 1 {
		payload = call.src.objectLiteral(obj)
	}
	return ir.Operation{
		Name:   "Invoke",
		Fields: []ir.OperationField{{Key: "payload", Value: payload}},
	}, nil
}
