package lexer

import "fmt"

// TokenType represents the type of a token in a resolver handler source file
type TokenType int

const (
	// TOKEN_EOF marks the end of the token stream.
	TOKEN_EOF TokenType = iota
	// TOKEN_ERROR represents a lexical error encountered during scanning.
	TOKEN_ERROR

	// Keywords - Modules
	TOKEN_IMPORT  // import
	TOKEN_FROM    // from
	TOKEN_EXPORT  // export
	TOKEN_DEFAULT // default

	// Keywords - Declarations
	TOKEN_CONST     // const
	TOKEN_LET       // let
	TOKEN_VAR       // var
	TOKEN_TYPE      // type
	TOKEN_INTERFACE // interface
	TOKEN_FUNCTION  // function

	// Keywords - Control flow
	TOKEN_RETURN // return
	TOKEN_IF     // if
	TOKEN_ELSE   // else
	TOKEN_THROW  // throw
	TOKEN_ASYNC  // async
	TOKEN_AWAIT  // await
	TOKEN_NEW    // new
	TOKEN_AS     // as

	// Literals
	TOKEN_IDENTIFIER       // username, resolver, etc.
	TOKEN_NUMBER_LITERAL   // 42, 3.14
	TOKEN_STRING_LITERAL   // 'hello', "hello"
	TOKEN_TEMPLATE_LITERAL // `${a}${b}`
	TOKEN_TRUE             // true
	TOKEN_FALSE            // false
	TOKEN_NULL             // null
	TOKEN_UNDEFINED        // undefined

	// Operators - Single character
	TOKEN_BANG     // !
	TOKEN_QUESTION // ?
	TOKEN_COLON    // :
	TOKEN_DOT      // .
	TOKEN_COMMA    // ,
	TOKEN_EQUALS   // =
	TOKEN_PLUS     // +
	TOKEN_MINUS    // -
	TOKEN_STAR     // *
	TOKEN_SLASH    // /
	TOKEN_PERCENT  // %
	TOKEN_LT       // <
	TOKEN_GT       // >
	TOKEN_PIPE     // |
	TOKEN_AMP      // &

	// Operators - Multi character
	TOKEN_ARROW           // =>
	TOKEN_EQ              // ==
	TOKEN_STRICT_EQ       // ===
	TOKEN_NEQ             // !=
	TOKEN_STRICT_NEQ      // !==
	TOKEN_LTE             // <=
	TOKEN_GTE             // >=
	TOKEN_DOUBLE_PIPE     // ||
	TOKEN_DOUBLE_AMP      // &&
	TOKEN_DOUBLE_QUESTION // ??
	TOKEN_OPTIONAL_CHAIN  // ?.
	TOKEN_ELLIPSIS        // ...

	// Delimiters
	TOKEN_LBRACE    // {
	TOKEN_RBRACE    // }
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_LBRACKET  // [
	TOKEN_RBRACKET  // ]
	TOKEN_SEMICOLON // ;
)

// TokenTypeNames maps token types to their string representations
var TokenTypeNames = map[TokenType]string{
	TOKEN_EOF:              "EOF",
	TOKEN_ERROR:            "ERROR",
	TOKEN_IMPORT:           "IMPORT",
	TOKEN_FROM:             "FROM",
	TOKEN_EXPORT:           "EXPORT",
	TOKEN_DEFAULT:          "DEFAULT",
	TOKEN_CONST:            "CONST",
	TOKEN_LET:              "LET",
	TOKEN_VAR:              "VAR",
	TOKEN_TYPE:             "TYPE",
	TOKEN_INTERFACE:        "INTERFACE",
	TOKEN_FUNCTION:         "FUNCTION",
	TOKEN_RETURN:           "RETURN",
	TOKEN_IF:               "IF",
	TOKEN_ELSE:             "ELSE",
	TOKEN_THROW:            "THROW",
	TOKEN_ASYNC:            "ASYNC",
	TOKEN_AWAIT:            "AWAIT",
	TOKEN_NEW:              "NEW",
	TOKEN_AS:               "AS",
	TOKEN_IDENTIFIER:       "IDENTIFIER",
	TOKEN_NUMBER_LITERAL:   "NUMBER_LITERAL",
	TOKEN_STRING_LITERAL:   "STRING_LITERAL",
	TOKEN_TEMPLATE_LITERAL: "TEMPLATE_LITERAL",
	TOKEN_TRUE:             "TRUE",
	TOKEN_FALSE:            "FALSE",
	TOKEN_NULL:             "NULL",
	TOKEN_UNDEFINED:        "UNDEFINED",
	TOKEN_BANG:             "BANG",
	TOKEN_QUESTION:         "QUESTION",
	TOKEN_COLON:            "COLON",
	TOKEN_DOT:              "DOT",
	TOKEN_COMMA:            "COMMA",
	TOKEN_EQUALS:           "EQUALS",
	TOKEN_PLUS:             "PLUS",
	TOKEN_MINUS:            "MINUS",
	TOKEN_STAR:             "STAR",
	TOKEN_SLASH:            "SLASH",
	TOKEN_PERCENT:          "PERCENT",
	TOKEN_LT:               "LT",
	TOKEN_GT:               "GT",
	TOKEN_PIPE:             "PIPE",
	TOKEN_AMP:              "AMP",
	TOKEN_ARROW:            "ARROW",
	TOKEN_EQ:               "EQ",
	TOKEN_STRICT_EQ:        "STRICT_EQ",
	TOKEN_NEQ:              "NEQ",
	TOKEN_STRICT_NEQ:       "STRICT_NEQ",
	TOKEN_LTE:              "LTE",
	TOKEN_GTE:              "GTE",
	TOKEN_DOUBLE_PIPE:      "DOUBLE_PIPE",
	TOKEN_DOUBLE_AMP:       "DOUBLE_AMP",
	TOKEN_DOUBLE_QUESTION:  "DOUBLE_QUESTION",
	TOKEN_OPTIONAL_CHAIN:   "OPTIONAL_CHAIN",
	TOKEN_ELLIPSIS:         "ELLIPSIS",
	TOKEN_LBRACE:           "LBRACE",
	TOKEN_RBRACE:           "RBRACE",
	TOKEN_LPAREN:           "LPAREN",
	TOKEN_RPAREN:           "RPAREN",
	TOKEN_LBRACKET:         "LBRACKET",
	TOKEN_RBRACKET:         "RBRACKET",
	TOKEN_SEMICOLON:        "SEMICOLON",
}

// String returns the string representation of a TokenType
func (t TokenType) String() string {
	if name, ok := TokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", t)
}

// Token represents a single lexical token in handler source code
type Token struct {
	Type    TokenType   // The type of the token
	Lexeme  string      // The raw text of the token
	Literal interface{} // The parsed value (for literals)
	Line    int         // Line number (1-indexed)
	Column  int         // Column number (1-indexed)
	Start   int         // Byte offset of the first character
	End     int         // Byte offset one past the last character
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s '%s' (%v) at %d:%d",
			t.Type.String(), t.Lexeme, t.Literal, t.Line, t.Column)
	}
	return fmt.Sprintf("%s '%s' at %d:%d",
		t.Type.String(), t.Lexeme, t.Line, t.Column)
}

// Keywords maps reserved words to their token types
var Keywords = map[string]TokenType{
	// Modules
	"import":  TOKEN_IMPORT,
	"from":    TOKEN_FROM,
	"export":  TOKEN_EXPORT,
	"default": TOKEN_DEFAULT,

	// Declarations
	"const":     TOKEN_CONST,
	"let":       TOKEN_LET,
	"var":       TOKEN_VAR,
	"type":      TOKEN_TYPE,
	"interface": TOKEN_INTERFACE,
	"function":  TOKEN_FUNCTION,

	// Control flow
	"return": TOKEN_RETURN,
	"if":     TOKEN_IF,
	"else":   TOKEN_ELSE,
	"throw":  TOKEN_THROW,
	"async":  TOKEN_ASYNC,
	"await":  TOKEN_AWAIT,
	"new":    TOKEN_NEW,
	"as":     TOKEN_AS,

	// Literals
	"true":      TOKEN_TRUE,
	"false":     TOKEN_FALSE,
	"null":      TOKEN_NULL,
	"undefined": TOKEN_UNDEFINED,
}

// contextualKeywords are keywords that are also valid identifiers in
// property, parameter and type positions.
var contextualKeywords = map[TokenType]bool{
	TOKEN_FROM:    true,
	TOKEN_TYPE:    true,
	TOKEN_ASYNC:   true,
	TOKEN_AS:      true,
	TOKEN_DEFAULT: true,
}

// IsContextualKeyword reports whether t may also be used as a plain identifier
func IsContextualKeyword(t TokenType) bool {
	return contextualKeywords[t]
}

// LexError represents an error encountered during lexical analysis
type LexError struct {
	Message string // Error message
	Line    int    // Line number where error occurred
	Column  int    // Column number where error occurred
	Lexeme  string // The problematic text
}

// Error implements the error interface
func (e LexError) Error() string {
	return fmt.Sprintf("Lexical error at %d:%d: %s (near '%s')",
		e.Line, e.Column, e.Message, e.Lexeme)
}
