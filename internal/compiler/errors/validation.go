package errors

import (
	"fmt"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
)

// Validation error codes (VAL100-199)
const (
	// ErrWrongImport indicates the single import targets an unsanctioned module
	ErrWrongImport ErrorCode = "VAL100"
	// ErrMissingImport indicates the helper module is never imported
	ErrMissingImport ErrorCode = "VAL101"
	// ErrMultipleImports indicates more than one import declaration
	ErrMultipleImports ErrorCode = "VAL102"
	// ErrMissingHelperBinding indicates the helper import has no default binding
	ErrMissingHelperBinding ErrorCode = "VAL103"
	// ErrMissingHandler indicates no exported handler binding
	ErrMissingHandler ErrorCode = "VAL104"
	// ErrMultipleHandlers indicates handler is exported more than once
	ErrMultipleHandlers ErrorCode = "VAL105"
	// ErrHandlerNotFunction indicates handler is not bound to a function
	ErrHandlerNotFunction ErrorCode = "VAL106"
	// ErrUnexpectedExport indicates handler is exported as default, by list or through a pattern
	ErrUnexpectedExport ErrorCode = "VAL107"
	// ErrHandlerParameters indicates the handler does not take exactly one parameter
	ErrHandlerParameters ErrorCode = "VAL108"
	// ErrMissingTypeAnnotation indicates a missing request or response annotation
	ErrMissingTypeAnnotation ErrorCode = "VAL109"
	// ErrAmbiguousDataSource indicates a variable bound to two different data sources
	ErrAmbiguousDataSource ErrorCode = "VAL110"
)

// NewWrongImport creates a VAL100 error
func NewWrongImport(loc ast.SourceLocation, module, sanctioned string) *CompilerError {
	return newError(
		ErrWrongImport,
		"wrong_import",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("Import from '%s' is not allowed in a resolver handler", module),
		loc,
	).WithExpected(sanctioned).
		WithActual(module).
		WithSuggestion(fmt.Sprintf("Import the resolver helper from '%s'", sanctioned))
}

// NewMissingImport creates a VAL101 error
func NewMissingImport(loc ast.SourceLocation, sanctioned string) *CompilerError {
	return newError(
		ErrMissingImport,
		"missing_import",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("Resolver handler must import '%s'", sanctioned),
		loc,
	).WithExamples(fmt.Sprintf("import resolver from '%s';", sanctioned))
}

// NewMultipleImports creates a VAL102 error
func NewMultipleImports(loc ast.SourceLocation, count int) *CompilerError {
	return newError(
		ErrMultipleImports,
		"multiple_imports",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("Resolver handler must contain exactly one import, found %d", count),
		loc,
	).WithSuggestion("Remove every import except the resolver helper")
}

// NewMissingHelperBinding creates a VAL103 error
func NewMissingHelperBinding(loc ast.SourceLocation, sanctioned string) *CompilerError {
	return newError(
		ErrMissingHelperBinding,
		"missing_helper_binding",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("Import of '%s' must bind the default export or a namespace", sanctioned),
		loc,
	).WithExamples(fmt.Sprintf("import resolver from '%s';", sanctioned))
}

// NewMissingHandler creates a VAL104 error
func NewMissingHandler(loc ast.SourceLocation) *CompilerError {
	return newError(
		ErrMissingHandler,
		"missing_handler",
		CategoryValidation,
		SeverityError,
		"Resolver file must export a function named 'handler'",
		loc,
	).WithExamples(
		"export const handler = (input: Request): Response => { ... };",
		"export function handler(input: Request): Response { ... }",
	)
}

// NewMultipleHandlers creates a VAL105 error
func NewMultipleHandlers(loc ast.SourceLocation) *CompilerError {
	return newError(
		ErrMultipleHandlers,
		"multiple_handlers",
		CategoryValidation,
		SeverityError,
		"Resolver file exports 'handler' more than once",
		loc,
	).WithSuggestion("Keep a single exported handler per resolver file")
}

// NewHandlerNotFunction creates a VAL106 error
func NewHandlerNotFunction(loc ast.SourceLocation, actual string) *CompilerError {
	return newError(
		ErrHandlerNotFunction,
		"handler_not_function",
		CategoryValidation,
		SeverityError,
		"Exported 'handler' must be a function",
		loc,
	).WithExpected("arrow function, function expression or function declaration").
		WithActual(actual)
}

// NewUnexpectedExport creates a VAL107 error
func NewUnexpectedExport(loc ast.SourceLocation, name string) *CompilerError {
	return newError(
		ErrUnexpectedExport,
		"unexpected_export",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("Unsupported export '%s'; 'handler' must be exported by name where it is declared", name),
		loc,
	).WithSuggestion("Declare it as export const handler = ... or export function handler(...)")
}

// NewHandlerParameters creates a VAL108 error
func NewHandlerParameters(loc ast.SourceLocation, count int) *CompilerError {
	return newError(
		ErrHandlerParameters,
		"handler_parameters",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("Handler must take exactly one parameter, found %d", count),
		loc,
	).WithExpected("1").
		WithActual(fmt.Sprintf("%d", count))
}

// NewMissingTypeAnnotation creates a VAL109 error; what is "request" or "response"
func NewMissingTypeAnnotation(loc ast.SourceLocation, what string) *CompilerError {
	return newError(
		ErrMissingTypeAnnotation,
		"missing_type_annotation",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("Handler %s type must be annotated", what),
		loc,
	).WithExamples("export const handler = (input: Request): Response => { ... };")
}

// NewAmbiguousDataSource creates a VAL110 error
func NewAmbiguousDataSource(loc ast.SourceLocation, variable, first, second string) *CompilerError {
	return newError(
		ErrAmbiguousDataSource,
		"ambiguous_data_source",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("Variable '%s' is bound to data source '%s' and to '%s'", variable, first, second),
		loc,
	).WithSuggestion("Use a distinct variable name for each data source")
}
