package errors

import (
	"fmt"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
)

// Syntax error codes (SYN001-099)
const (
	// ErrUnexpectedToken indicates the parser could not continue at a token
	ErrUnexpectedToken ErrorCode = "SYN001"
	// ErrLexical indicates the lexer rejected part of the source
	ErrLexical ErrorCode = "SYN002"
)

// NewUnexpectedToken creates a SYN001 error from a parser diagnostic
func NewUnexpectedToken(loc ast.SourceLocation, message, near string) *CompilerError {
	err := newError(
		ErrUnexpectedToken,
		"unexpected_token",
		CategorySyntax,
		SeverityError,
		message,
		loc,
	)
	if near != "" {
		err.WithActual(fmt.Sprintf("'%s'", near))
	}
	return err.WithSuggestion("Handler files support a narrow TypeScript subset; simplify the statement")
}

// NewLexicalError creates a SYN002 error from a lexer diagnostic
func NewLexicalError(loc ast.SourceLocation, message, lexeme string) *CompilerError {
	return newError(
		ErrLexical,
		"lexical_error",
		CategorySyntax,
		SeverityError,
		message,
		loc,
	).WithActual(fmt.Sprintf("'%s'", lexeme))
}
