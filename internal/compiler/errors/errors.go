// Package errors provides structured error handling for the resolver compiler.
// It defines error codes, categories, and formatting for both human-readable
// terminal output and machine-parseable JSON.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
)

// ErrorCode represents a unique error code in the resolver compiler
type ErrorCode string

// ErrorCategory represents the category of compiler error
type ErrorCategory string

const (
	// CategorySyntax represents lexer and parser errors (SYN001-099)
	CategorySyntax ErrorCategory = "syntax"
	// CategoryValidation represents handler shape errors (VAL100-199)
	CategoryValidation ErrorCategory = "validation"
	// CategoryType represents type resolution and scalar mapping errors (TYP200-299)
	CategoryType ErrorCategory = "type"
	// CategoryOperation represents unsupported data-source operations (OPR300-399)
	CategoryOperation ErrorCategory = "operation"
	// CategoryArguments represents malformed operation arguments (ARG400-499)
	CategoryArguments ErrorCategory = "arguments"
	// CategoryAddress represents resolver address errors (ADR500-599)
	CategoryAddress ErrorCategory = "address"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates an error that prevents compilation
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates a warning that suggests potential issues
	SeverityWarning ErrorSeverity = "warning"
)

// ErrorContext provides source code context for an error
type ErrorContext struct {
	// Current is the line of code where the error occurred
	Current string `json:"current"`
	// SourceLines is a snippet of source code (before, error line, after)
	SourceLines []string `json:"source_lines"`
	// FirstLine is the line number of SourceLines[0]
	FirstLine int `json:"first_line"`
}

// CompilerError represents a structured compiler error
type CompilerError struct {
	// Code is the unique error code (e.g., "VAL101", "SYN001")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the error severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary error message
	Message string `json:"message"`
	// Location is the source location of the error
	Location ast.SourceLocation `json:"location"`
	// File is the source file name (optional)
	File string `json:"file,omitempty"`
	// Context provides source code context
	Context *ErrorContext `json:"context,omitempty"`
	// Expected describes what was expected (optional)
	Expected string `json:"expected,omitempty"`
	// Actual describes what was actually found (optional)
	Actual string `json:"actual,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
	// Examples provides example fixes (optional)
	Examples []string `json:"examples,omitempty"`
}

// Error implements the error interface
func (e *CompilerError) Error() string {
	return FormatCompact(e)
}

// Format returns a human-readable error message for terminal output
func (e *CompilerError) Format() string {
	return FormatError(e)
}

// ToJSON returns the error as a JSON string
func (e *CompilerError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithFile sets the source file name for the error
func (e *CompilerError) WithFile(file string) *CompilerError {
	e.File = file
	return e
}

// WithSource attaches the error line and up to one line either side of it
func (e *CompilerError) WithSource(source string) *CompilerError {
	lines := strings.Split(source, "\n")
	line := e.Location.Line
	if line < 1 || line > len(lines) {
		return e
	}
	start := max(line-2, 0)
	end := min(line+1, len(lines))
	e.Context = &ErrorContext{
		Current:     lines[line-1],
		SourceLines: lines[start:end],
		FirstLine:   start + 1,
	}
	return e
}

// WithExpected sets the expected value for the error
func (e *CompilerError) WithExpected(expected string) *CompilerError {
	e.Expected = expected
	return e
}

// WithActual sets the actual value for the error
func (e *CompilerError) WithActual(actual string) *CompilerError {
	e.Actual = actual
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *CompilerError) WithSuggestion(suggestion string) *CompilerError {
	e.Suggestion = suggestion
	return e
}

// WithExamples sets example fixes for the error
func (e *CompilerError) WithExamples(examples ...string) *CompilerError {
	e.Examples = examples
	return e
}

// ErrorList is a collection of compiler errors
type ErrorList []*CompilerError

// Error implements the error interface
func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	return FormatErrorList(el)
}

// Unwrap exposes the individual errors to errors.Is and errors.As
func (el ErrorList) Unwrap() []error {
	errs := make([]error, len(el))
	for i, err := range el {
		errs[i] = err
	}
	return errs
}

// HasErrors returns true if the list contains any errors (excludes warnings)
func (el ErrorList) HasErrors() bool {
	for _, err := range el {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// WithFile sets the source file name on every error in the list
func (el ErrorList) WithFile(file string) ErrorList {
	for _, err := range el {
		err.WithFile(file)
	}
	return el
}

// ToJSON returns all errors as a JSON array
func (el ErrorList) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ErrorCount returns the number of errors by severity
func (el ErrorList) ErrorCount() (errors, warnings int) {
	for _, err := range el {
		switch err.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return
}

// newError creates a new CompilerError with the given parameters
func newError(
	code ErrorCode,
	typ string,
	category ErrorCategory,
	severity ErrorSeverity,
	message string,
	loc ast.SourceLocation,
) *CompilerError {
	return &CompilerError{
		Code:     code,
		Type:     typ,
		Category: category,
		Severity: severity,
		Message:  message,
		Location: loc,
	}
}

// As returns the first CompilerError in err's chain
func As(err error) (*CompilerError, bool) {
	var compilerErr *CompilerError
	if stderrors.As(err, &compilerErr) {
		return compilerErr, true
	}
	return nil, false
}

// Collect flattens err into an ErrorList; errors that are not compiler errors are dropped
func Collect(err error) ErrorList {
	var list ErrorList
	if stderrors.As(err, &list) {
		return list
	}
	if compilerErr, ok := As(err); ok {
		return ErrorList{compilerErr}
	}
	return nil
}

func hasCategory(err error, category ErrorCategory) bool {
	compilerErr, ok := As(err)
	return ok && compilerErr.Category == category
}

func hasCode(err error, code ErrorCode) bool {
	compilerErr, ok := As(err)
	return ok && compilerErr.Code == code
}

// IsSyntax reports whether err is a lexer or parser failure
func IsSyntax(err error) bool { return hasCategory(err, CategorySyntax) }

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool { return hasCategory(err, CategoryValidation) }

// IsUnresolvedType reports whether err is an UnresolvedTypeError
func IsUnresolvedType(err error) bool { return hasCode(err, ErrUnresolvedType) }

// IsUnknownScalar reports whether err is an UnknownScalarError
func IsUnknownScalar(err error) bool { return hasCode(err, ErrUnknownScalar) }

// IsUnsupportedOperation reports whether err is an UnsupportedOperationError
func IsUnsupportedOperation(err error) bool { return hasCategory(err, CategoryOperation) }

// IsMalformedArguments reports whether err is a MalformedArgumentsError
func IsMalformedArguments(err error) bool { return hasCategory(err, CategoryArguments) }

// IsInvalidAddress reports whether err is an InvalidAddressError
func IsInvalidAddress(err error) bool { return hasCategory(err, CategoryAddress) }
