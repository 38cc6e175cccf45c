package errors

import (
	"fmt"
	"strings"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
)

// Type error codes (TYP200-299)
const (
	// ErrUnresolvedType indicates a named type with no local declaration
	ErrUnresolvedType ErrorCode = "TYP200"
	// ErrUnknownScalar indicates a field type outside the scalar table
	ErrUnknownScalar ErrorCode = "TYP201"
)

// NewUnresolvedType creates a TYP200 error
func NewUnresolvedType(loc ast.SourceLocation, name string, available []string) *CompilerError {
	err := newError(
		ErrUnresolvedType,
		"unresolved_type",
		CategoryType,
		SeverityError,
		fmt.Sprintf("Type '%s' is not declared in this file", name),
		loc,
	)
	if len(available) > 0 {
		err.WithSuggestion(fmt.Sprintf("Declared types: %s", strings.Join(available, ", ")))
	} else {
		err.WithSuggestion(fmt.Sprintf("Declare it with: type %s = { ... }", name))
	}
	return err
}

// NewUnknownScalar creates a TYP201 error
func NewUnknownScalar(loc ast.SourceLocation, typeName, field, actual string, supported []string) *CompilerError {
	return newError(
		ErrUnknownScalar,
		"unknown_scalar",
		CategoryType,
		SeverityError,
		fmt.Sprintf("Field '%s' of '%s' has unsupported type '%s'", field, typeName, actual),
		loc,
	).WithExpected(strings.Join(supported, " | ")).
		WithActual(actual)
}
