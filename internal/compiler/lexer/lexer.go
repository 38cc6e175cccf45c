// Package lexer provides lexical analysis for resolver handler source files.
// It tokenizes the narrow TypeScript subset accepted by the compiler into a
// stream of tokens for the parser. Every token carries its byte span so the
// parser can recover verbatim source text for statements it carries through.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes handler source code.
//
// Thread Safety: Lexer instances are NOT thread-safe. Each goroutine must
// create its own Lexer instance via New(), which is what the batch compiler
// does when it parses files in parallel.
type Lexer struct {
	source  string     // Source code to tokenize
	start   int        // Start position of current token
	current int        // Current position in source
	line    int        // Current line number (1-indexed)
	column  int        // Current column number (1-indexed)
	tokens  []Token    // Collected tokens
	errors  []LexError // Collected errors

	// Position of the token being scanned
	startLine   int
	startColumn int
}

// New creates a new Lexer for the given source code
func New(source string) *Lexer {
	return &Lexer{
		source:  source,
		start:   0,
		current: 0,
		line:    1,
		column:  1,
		tokens:  make([]Token, 0),
		errors:  make([]LexError, 0),
	}
}

// ScanTokens tokenizes the entire source and returns tokens and errors
func (l *Lexer) ScanTokens() ([]Token, []LexError) {
	for !l.isAtEnd() {
		l.start = l.current
		l.startLine = l.line
		l.startColumn = l.column
		l.scanToken()
	}

	l.tokens = append(l.tokens, Token{
		Type:   TOKEN_EOF,
		Lexeme: "",
		Line:   l.line,
		Column: l.column,
		Start:  len(l.source),
		End:    len(l.source),
	})

	return l.tokens, l.errors
}

// scanToken processes the next token.
//
//nolint:gocyclo,cyclop // Lexer dispatch function - complexity is inherent to the pattern
func (l *Lexer) scanToken() {
	c := l.advance()

	switch {
	case c == '(' || c == ')' || c == '{' || c == '}' || c == '[' || c == ']' || c == ';':
		l.scanDelimiter(c)
	case c == ',' || c == '+' || c == '-' || c == '*' || c == '%' || c == ':':
		l.scanSimpleOperator(c)
	case c == '!' || c == '=' || c == '<' || c == '>' || c == '|' || c == '&' ||
		c == '?' || c == '.' || c == '/':
		l.scanCompoundOperator(c)
	case c == '"' || c == '\'':
		l.string(c)
	case c == '`':
		l.template()
	case c == ' ' || c == '\r' || c == '\t':
		// Ignore whitespace
	case c == '\n':
		l.newline()
	default:
		l.scanDefault(c)
	}
}

// scanDelimiter handles delimiter tokens: ( ) { } [ ] ;
func (l *Lexer) scanDelimiter(c byte) {
	switch c {
	case '(':
		l.addToken(TOKEN_LPAREN)
	case ')':
		l.addToken(TOKEN_RPAREN)
	case '{':
		l.addToken(TOKEN_LBRACE)
	case '}':
		l.addToken(TOKEN_RBRACE)
	case '[':
		l.addToken(TOKEN_LBRACKET)
	case ']':
		l.addToken(TOKEN_RBRACKET)
	case ';':
		l.addToken(TOKEN_SEMICOLON)
	}
}

// scanSimpleOperator handles single-character operators: , + - * % :
func (l *Lexer) scanSimpleOperator(c byte) {
	switch c {
	case ',':
		l.addToken(TOKEN_COMMA)
	case '+':
		l.addToken(TOKEN_PLUS)
	case '-':
		l.addToken(TOKEN_MINUS)
	case '*':
		l.addToken(TOKEN_STAR)
	case '%':
		l.addToken(TOKEN_PERCENT)
	case ':':
		l.addToken(TOKEN_COLON)
	}
}

// scanCompoundOperator dispatches to specific multi-character operator handlers
func (l *Lexer) scanCompoundOperator(c byte) {
	switch c {
	case '!':
		l.scanBangToken()
	case '=':
		l.scanEqualsToken()
	case '<':
		l.scanLessThanToken()
	case '>':
		l.scanGreaterThanToken()
	case '|':
		l.scanPipeToken()
	case '&':
		l.scanAmpersandToken()
	case '?':
		l.scanQuestionToken()
	case '.':
		l.scanDotToken()
	case '/':
		l.scanSlashToken()
	}
}

// scanBangToken handles !, != and !==
func (l *Lexer) scanBangToken() {
	if l.match('=') {
		if l.match('=') {
			l.addToken(TOKEN_STRICT_NEQ)
		} else {
			l.addToken(TOKEN_NEQ)
		}
	} else {
		l.addToken(TOKEN_BANG)
	}
}

// scanEqualsToken handles =, ==, === and =>
func (l *Lexer) scanEqualsToken() {
	if l.match('=') {
		if l.match('=') {
			l.addToken(TOKEN_STRICT_EQ)
		} else {
			l.addToken(TOKEN_EQ)
		}
	} else if l.match('>') {
		l.addToken(TOKEN_ARROW)
	} else {
		l.addToken(TOKEN_EQUALS)
	}
}

// scanLessThanToken handles < and <=
func (l *Lexer) scanLessThanToken() {
	if l.match('=') {
		l.addToken(TOKEN_LTE)
	} else {
		l.addToken(TOKEN_LT)
	}
}

// scanGreaterThanToken handles > and >=. Shift operators are never produced
// so nested generic arguments like Array<Array<string>> close cleanly.
func (l *Lexer) scanGreaterThanToken() {
	if l.match('=') {
		l.addToken(TOKEN_GTE)
	} else {
		l.addToken(TOKEN_GT)
	}
}

// scanPipeToken handles | and ||
func (l *Lexer) scanPipeToken() {
	if l.match('|') {
		l.addToken(TOKEN_DOUBLE_PIPE)
	} else {
		l.addToken(TOKEN_PIPE)
	}
}

// scanAmpersandToken handles & and &&
func (l *Lexer) scanAmpersandToken() {
	if l.match('&') {
		l.addToken(TOKEN_DOUBLE_AMP)
	} else {
		l.addToken(TOKEN_AMP)
	}
}

// scanQuestionToken handles ?, ?. and ??
func (l *Lexer) scanQuestionToken() {
	if l.peek() == '.' && !l.isDigit(l.peekNext()) {
		l.advance()
		l.addToken(TOKEN_OPTIONAL_CHAIN)
	} else if l.match('?') {
		l.addToken(TOKEN_DOUBLE_QUESTION)
	} else {
		l.addToken(TOKEN_QUESTION)
	}
}

// scanDotToken handles ., ... and numbers starting with .
func (l *Lexer) scanDotToken() {
	if l.isDigit(l.peek()) {
		l.number()
	} else if l.peek() == '.' && l.peekNext() == '.' {
		l.advance()
		l.advance()
		l.addToken(TOKEN_ELLIPSIS)
	} else {
		l.addToken(TOKEN_DOT)
	}
}

// scanSlashToken handles /, // comments and /* */ comments
func (l *Lexer) scanSlashToken() {
	if l.match('/') {
		l.comment()
	} else if l.match('*') {
		l.blockComment()
	} else {
		l.addToken(TOKEN_SLASH)
	}
}

// scanDefault handles the default case: numbers, identifiers, or errors
func (l *Lexer) scanDefault(c byte) {
	if l.isDigit(c) {
		l.number()
	} else if l.isAlpha(c) {
		l.identifier()
	} else {
		r, size := utf8.DecodeRuneInString(l.source[l.current-1:])
		// One column per character, however many bytes it spans.
		l.current += size - 1
		l.addError(fmt.Sprintf("Unexpected character: '%c'", r))
	}
}

// comment handles single-line comments starting with //
func (l *Lexer) comment() {
	for l.peek() != '\n' && !l.isAtEnd() {
		l.advance()
	}
}

// blockComment handles /* ... */ comments
func (l *Lexer) blockComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		if l.advance() == '\n' {
			l.newline()
		}
	}

	l.addError("Unterminated block comment")
}

// string handles single and double quoted string literals
func (l *Lexer) string(quote byte) {
	value := strings.Builder{}

	for !l.isAtEnd() && l.peek() != quote {
		if l.peek() == '\n' {
			l.addError(fmt.Sprintf("Unterminated string starting at %d:%d", l.startLine, l.startColumn))
			return
		}
		if l.peek() == '\\' {
			l.advance() // consume backslash
			if l.isAtEnd() {
				break
			}

			escaped := l.advance()
			switch escaped {
			case 'n':
				value.WriteByte('\n')
			case 't':
				value.WriteByte('\t')
			case 'r':
				value.WriteByte('\r')
			case '\\', '\'', '"', '`':
				value.WriteByte(escaped)
			default:
				// Unknown escape sequence - keep as-is
				value.WriteByte('\\')
				value.WriteByte(escaped)
			}
			continue
		}
		value.WriteByte(l.advance())
	}

	if l.isAtEnd() {
		l.addError(fmt.Sprintf("Unterminated string starting at %d:%d", l.startLine, l.startColumn))
		return
	}

	// Consume closing quote
	l.advance()
	l.addTokenWithLiteral(TOKEN_STRING_LITERAL, value.String())
}

// template handles backtick template literals including ${...} substitutions.
// The whole literal becomes one token; its raw text is kept verbatim.
func (l *Lexer) template() {
	depth := 0

	for !l.isAtEnd() {
		c := l.peek()
		switch {
		case c == '\\':
			l.advance()
			if !l.isAtEnd() {
				if l.advance() == '\n' {
					l.newline()
				}
			}
			continue
		case c == '`' && depth == 0:
			l.advance()
			raw := l.source[l.start+1 : l.current-1]
			l.addTokenWithLiteral(TOKEN_TEMPLATE_LITERAL, raw)
			return
		case c == '$' && l.peekNext() == '{':
			l.advance()
			depth++
		case c == '{' && depth > 0:
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == '\n':
			l.advance()
			l.newline()
			continue
		}
		l.advance()
	}

	l.addError(fmt.Sprintf("Unterminated template literal starting at %d:%d", l.startLine, l.startColumn))
}

// number handles integer and decimal literals
func (l *Lexer) number() {
	for l.isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}

	if l.peek() == '.' && l.isDigit(l.peekNext()) {
		l.advance() // consume .
		for l.isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if !l.isDigit(l.peek()) {
			l.addError("Invalid number: expected digits after exponent")
			return
		}
		for l.isDigit(l.peek()) {
			l.advance()
		}
	}

	lexeme := l.source[l.start:l.current]
	value, err := strconv.ParseFloat(strings.ReplaceAll(lexeme, "_", ""), 64)
	if err != nil {
		l.addError(fmt.Sprintf("Invalid number literal: %s", lexeme))
		return
	}
	l.addTokenWithLiteral(TOKEN_NUMBER_LITERAL, value)
}

// identifier handles identifiers and keywords
func (l *Lexer) identifier() {
	for l.isAlphaNumeric(l.peek()) {
		l.advance()
	}

	text := l.source[l.start:l.current]

	tokenType, isKeyword := Keywords[text]
	if !isKeyword {
		tokenType = TOKEN_IDENTIFIER
	}

	switch tokenType {
	case TOKEN_TRUE:
		l.addTokenWithLiteral(tokenType, true)
	case TOKEN_FALSE:
		l.addTokenWithLiteral(tokenType, false)
	default:
		l.addToken(tokenType)
	}
}

// Helper methods

// isAtEnd checks if we've reached the end of the source
func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance consumes and returns the current character
func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	c := l.source[l.current]
	l.current++
	l.column++
	return c
}

// newline records a consumed line break
func (l *Lexer) newline() {
	l.line++
	l.column = 1
}

// match checks if the current character matches expected and consumes it
func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() {
		return false
	}
	if l.source[l.current] != expected {
		return false
	}
	l.current++
	l.column++
	return true
}

// peek returns the current character without consuming it
func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

// peekNext returns the next character without consuming
func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

// isDigit checks if a character is a digit
func (l *Lexer) isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isAlpha checks if a character can start an identifier
func (l *Lexer) isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		c == '_' || c == '$'
}

// isAlphaNumeric checks if a character can continue an identifier
func (l *Lexer) isAlphaNumeric(c byte) bool {
	return l.isAlpha(c) || l.isDigit(c)
}

// addToken adds a token with the current lexeme
func (l *Lexer) addToken(tokenType TokenType) {
	l.addTokenWithLiteral(tokenType, nil)
}

// addTokenWithLiteral adds a token with a literal value
func (l *Lexer) addTokenWithLiteral(tokenType TokenType, literal interface{}) {
	token := Token{
		Type:    tokenType,
		Lexeme:  l.source[l.start:l.current],
		Literal: literal,
		Line:    l.startLine,
		Column:  l.startColumn,
		Start:   l.start,
		End:     l.current,
	}
	l.tokens = append(l.tokens, token)
}

// addError records a lexical error
func (l *Lexer) addError(message string) {
	lexeme := ""
	if l.start < len(l.source) {
		end := l.current
		if end > l.start+20 {
			end = l.start + 20
		}
		lexeme = l.source[l.start:end]
	}

	l.errors = append(l.errors, LexError{
		Message: message,
		Line:    l.startLine,
		Column:  l.startColumn,
		Lexeme:  lexeme,
	})
}

// IsKeyword checks if a string is a reserved word of the handler grammar
func IsKeyword(s string) bool {
	_, ok := Keywords[s]
	return ok
}

// IsValidIdentifier checks if a string is a valid identifier
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}

	first := rune(s[0])
	if !unicode.IsLetter(first) && first != '_' && first != '$' {
		return false
	}

	for _, r := range s[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			return false
		}
	}

	return !IsKeyword(s)
}
