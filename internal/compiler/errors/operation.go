package errors

import (
	"fmt"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
)

// Operation error codes (OPR300-399)
const (
	// ErrUnsupportedOperation indicates an unknown (kind, method) pair on a data source
	ErrUnsupportedOperation ErrorCode = "OPR300"
	// ErrUnsupportedAcquisition indicates an unknown helper acquisition method
	ErrUnsupportedAcquisition ErrorCode = "OPR301"
)

// Argument error codes (ARG400-499)
const (
	// ErrMalformedArguments indicates a recognized operation called with the wrong arguments
	ErrMalformedArguments ErrorCode = "ARG400"
)

// Address error codes (ADR500-599)
const (
	// ErrInvalidAddress indicates a file name that is not <Type>.<field>.<ext>
	ErrInvalidAddress ErrorCode = "ADR500"
)

// NewUnsupportedOperation creates an OPR300 error
func NewUnsupportedOperation(loc ast.SourceLocation, kind, method string, supported []string) *CompilerError {
	err := newError(
		ErrUnsupportedOperation,
		"unsupported_operation",
		CategoryOperation,
		SeverityError,
		fmt.Sprintf("Unsupported operation '%s' on %s data source", method, kind),
		loc,
	).WithActual(method)
	if len(supported) > 0 {
		err.WithExpected(fmt.Sprintf("one of %v", supported))
	}
	return err
}

// NewUnsupportedAcquisition creates an OPR301 error
func NewUnsupportedAcquisition(loc ast.SourceLocation, helper, method string) *CompilerError {
	return newError(
		ErrUnsupportedAcquisition,
		"unsupported_acquisition",
		CategoryOperation,
		SeverityError,
		fmt.Sprintf("Unsupported data source acquisition '%s.%s'", helper, method),
		loc,
	).WithExpected("getLambdaDataSource or getDynamoDbDataSource").
		WithActual(method)
}

// NewMalformedArguments creates an ARG400 error
func NewMalformedArguments(loc ast.SourceLocation, call, reason string) *CompilerError {
	return newError(
		ErrMalformedArguments,
		"malformed_arguments",
		CategoryArguments,
		SeverityError,
		fmt.Sprintf("Malformed arguments to '%s': %s", call, reason),
		loc,
	)
}

// NewInvalidAddress creates an ADR500 error
func NewInvalidAddress(fileName string, parts int) *CompilerError {
	return newError(
		ErrInvalidAddress,
		"invalid_address",
		CategoryAddress,
		SeverityError,
		fmt.Sprintf("File name '%s' must have the form <TypeName>.<fieldName>.<ext>", fileName),
		ast.SourceLocation{Line: 1, Column: 1},
	).WithExpected("2 dot-separated parts before the extension").
		WithActual(fmt.Sprintf("%d", parts)).
		WithExamples("Mutation.addUser.ts", "Query.getUser.ts")
}
