package parser

import (
	"fmt"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/lexer"
)

// Parser transforms a stream of tokens into an Abstract Syntax Tree (AST)
type Parser struct {
	tokens  []lexer.Token
	current int
	errors  []ParseError
}

// New creates a new parser for the given token stream
func New(tokens []lexer.Token) *Parser {
	return &Parser{
		tokens:  tokens,
		current: 0,
		errors:  make([]ParseError, 0),
	}
}

// Parse parses the token stream and returns the AST and any errors
func (p *Parser) Parse() (*ast.SourceFile, []ParseError) {
	file := &ast.SourceFile{
		Statements: make([]ast.StmtNode, 0),
		Loc:        ast.SourceLocation{Line: 1, Column: 1},
	}

	for !p.isAtEnd() {
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		if stmt := p.parseTopLevel(); stmt != nil {
			file.Statements = append(file.Statements, stmt)
		}
	}
	file.Span = ast.Span{Start: 0, End: p.peek().End}

	return file, p.errors
}

// parseTopLevel parses one top-level statement, recovering from errors inside it
func (p *Parser) parseTopLevel() (stmt ast.StmtNode) {
	start := p.current
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			stmt = nil
			p.synchronize(start)
		}
	}()
	return p.parseStatement()
}

// parseStatement dispatches on the leading token of a statement
func (p *Parser) parseStatement() ast.StmtNode {
	switch p.peek().Type {
	case lexer.TOKEN_IMPORT:
		return p.parseImport()
	case lexer.TOKEN_EXPORT:
		return p.parseExport()
	case lexer.TOKEN_CONST, lexer.TOKEN_LET, lexer.TOKEN_VAR:
		return p.parseVarStatement(nil)
	case lexer.TOKEN_TYPE:
		if p.peekNext().Type == lexer.TOKEN_IDENTIFIER {
			return p.parseTypeAlias(nil)
		}
	case lexer.TOKEN_INTERFACE:
		return p.parseInterface(nil)
	case lexer.TOKEN_FUNCTION:
		return p.parseFunctionDecl(nil)
	case lexer.TOKEN_ASYNC:
		if p.peekNext().Type == lexer.TOKEN_FUNCTION {
			return p.parseFunctionDecl(nil)
		}
	case lexer.TOKEN_RETURN:
		return p.parseReturnStatement()
	case lexer.TOKEN_IF:
		return p.parseIfStatement()
	case lexer.TOKEN_THROW:
		return p.parseThrowStatement()
	case lexer.TOKEN_LBRACE:
		return p.parseBlock()
	}
	return p.parseExpressionStatement()
}

// parseImport parses the supported import forms
func (p *Parser) parseImport() ast.StmtNode {
	importToken := p.advance()
	decl := &ast.ImportDecl{
		Named: make([]string, 0),
		Loc:   ast.TokenLocation(importToken),
	}

	if p.check(lexer.TOKEN_STRING_LITERAL) {
		decl.Module = p.advance().Literal.(string)
		p.match(lexer.TOKEN_SEMICOLON)
		decl.Span = ast.TokenSpan(importToken, p.previous())
		return decl
	}

	if p.check(lexer.TOKEN_TYPE) && p.peekNext().Type != lexer.TOKEN_FROM && p.peekNext().Type != lexer.TOKEN_COMMA {
		p.advance()
		decl.TypeOnly = true
	}

	switch {
	case p.check(lexer.TOKEN_LBRACE):
		decl.Named = p.parseImportSpecifiers()
	case p.check(lexer.TOKEN_STAR):
		decl.Namespace = p.parseNamespaceImport()
	default:
		decl.DefaultName = p.consumeIdentifier("Expected import binding").Lexeme
		if p.match(lexer.TOKEN_COMMA) {
			if p.check(lexer.TOKEN_STAR) {
				decl.Namespace = p.parseNamespaceImport()
			} else {
				decl.Named = p.parseImportSpecifiers()
			}
		}
	}

	p.expect(lexer.TOKEN_FROM, "Expected 'from' in import declaration")
	decl.Module = p.expect(lexer.TOKEN_STRING_LITERAL, "Expected module specifier string").Literal.(string)
	p.match(lexer.TOKEN_SEMICOLON)
	decl.Span = ast.TokenSpan(importToken, p.previous())
	return decl
}

// parseImportSpecifiers parses { a, b as c } and returns the local names
func (p *Parser) parseImportSpecifiers() []string {
	p.expect(lexer.TOKEN_LBRACE, "Expected '{'")
	names := make([]string, 0)
	for !p.check(lexer.TOKEN_RBRACE) {
		if p.check(lexer.TOKEN_TYPE) && p.peekNext().Type == lexer.TOKEN_IDENTIFIER {
			p.advance()
		}
		name := p.consumeName("Expected imported name").Lexeme
		if p.match(lexer.TOKEN_AS) {
			name = p.consumeIdentifier("Expected local name after 'as'").Lexeme
		}
		names = append(names, name)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}
	p.expect(lexer.TOKEN_RBRACE, "Expected '}' after import specifiers")
	return names
}

func (p *Parser) parseNamespaceImport() string {
	p.expect(lexer.TOKEN_STAR, "Expected '*'")
	p.expect(lexer.TOKEN_AS, "Expected 'as' after '*'")
	return p.consumeIdentifier("Expected namespace name").Lexeme
}

// parseExport parses `export <declaration>`, `export default <expr>` and `export { ... }`
func (p *Parser) parseExport() ast.StmtNode {
	exportToken := p.advance()

	switch p.peek().Type {
	case lexer.TOKEN_CONST, lexer.TOKEN_LET, lexer.TOKEN_VAR:
		return p.parseVarStatement(&exportToken)
	case lexer.TOKEN_TYPE:
		return p.parseTypeAlias(&exportToken)
	case lexer.TOKEN_INTERFACE:
		return p.parseInterface(&exportToken)
	case lexer.TOKEN_FUNCTION, lexer.TOKEN_ASYNC:
		return p.parseFunctionDecl(&exportToken)
	case lexer.TOKEN_DEFAULT:
		p.advance()
		value := p.parseExpression()
		p.match(lexer.TOKEN_SEMICOLON)
		return &ast.ExportDefaultDecl{
			Value: value,
			Loc:   ast.TokenLocation(exportToken),
			Span:  ast.TokenSpan(exportToken, p.previous()),
		}
	case lexer.TOKEN_LBRACE:
		p.advance()
		names := make([]string, 0)
		for !p.check(lexer.TOKEN_RBRACE) {
			name := p.consumeName("Expected exported name").Lexeme
			if p.match(lexer.TOKEN_AS) {
				name = p.consumeName("Expected exported name after 'as'").Lexeme
			}
			names = append(names, name)
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
		p.expect(lexer.TOKEN_RBRACE, "Expected '}' after export list")
		p.match(lexer.TOKEN_SEMICOLON)
		return &ast.ExportListDecl{
			Names: names,
			Loc:   ast.TokenLocation(exportToken),
			Span:  ast.TokenSpan(exportToken, p.previous()),
		}
	}

	p.fail(p.peek(), fmt.Sprintf("Unsupported export form: %s", p.peek().Lexeme))
	return nil
}

// parseVarStatement parses const/let/var with one or more declarators
func (p *Parser) parseVarStatement(exportToken *lexer.Token) *ast.VarStmt {
	kindToken := p.advance()
	first := startToken(exportToken, kindToken)

	stmt := &ast.VarStmt{
		Kind:     kindToken.Lexeme,
		Decls:    make([]*ast.VarDecl, 0, 1),
		Exported: exportToken != nil,
		Loc:      ast.TokenLocation(first),
	}

	for {
		declStart := p.peek()
		decl := &ast.VarDecl{
			Target: p.parseBindingTarget(),
			Loc:    ast.TokenLocation(declStart),
		}
		if p.match(lexer.TOKEN_COLON) {
			decl.Type = p.parseType()
		}
		if p.match(lexer.TOKEN_EQUALS) {
			decl.Init = p.parseAssignment()
		} else if kindToken.Type == lexer.TOKEN_CONST {
			p.fail(p.peek(), "Missing initializer in const declaration")
		}
		decl.Span = ast.TokenSpan(declStart, p.previous())
		stmt.Decls = append(stmt.Decls, decl)

		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}

	p.match(lexer.TOKEN_SEMICOLON)
	stmt.Span = ast.TokenSpan(first, p.previous())
	return stmt
}

// parseBindingTarget parses an identifier or a flat object destructuring pattern
func (p *Parser) parseBindingTarget() ast.BindingNode {
	if !p.check(lexer.TOKEN_LBRACE) {
		nameToken := p.consumeIdentifier("Expected variable name")
		return &ast.BindingIdent{
			Name: nameToken.Lexeme,
			Loc:  ast.TokenLocation(nameToken),
			Span: ast.TokenSpan(nameToken, nameToken),
		}
	}

	open := p.advance()
	pattern := &ast.ObjectPattern{
		Properties: make([]*ast.PatternProperty, 0),
		Loc:        ast.TokenLocation(open),
	}
	for !p.check(lexer.TOKEN_RBRACE) {
		if p.match(lexer.TOKEN_ELLIPSIS) {
			name := p.consumeIdentifier("Expected rest binding name").Lexeme
			pattern.Properties = append(pattern.Properties, &ast.PatternProperty{Key: name, Alias: name, Rest: true})
		} else {
			key := p.consumeName("Expected property name in destructuring pattern").Lexeme
			prop := &ast.PatternProperty{Key: key, Alias: key}
			if p.match(lexer.TOKEN_COLON) {
				if p.check(lexer.TOKEN_LBRACE) {
					p.fail(p.peek(), "Nested destructuring is not supported")
				}
				prop.Alias = p.consumeIdentifier("Expected local name in destructuring pattern").Lexeme
			}
			if p.match(lexer.TOKEN_EQUALS) {
				prop.Default = p.parseAssignment()
			}
			pattern.Properties = append(pattern.Properties, prop)
		}
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}
	closeToken := p.expect(lexer.TOKEN_RBRACE, "Expected '}' after destructuring pattern")
	pattern.Span = ast.TokenSpan(open, closeToken)
	return pattern
}

// parseTypeAlias parses `type Name = <type>`
func (p *Parser) parseTypeAlias(exportToken *lexer.Token) *ast.TypeAliasDecl {
	typeToken := p.advance()
	first := startToken(exportToken, typeToken)
	name := p.consumeIdentifier("Expected type alias name").Lexeme
	if p.check(lexer.TOKEN_LT) {
		p.fail(p.peek(), "Generic type aliases are not supported")
	}
	p.expect(lexer.TOKEN_EQUALS, "Expected '=' after type alias name")
	aliased := p.parseType()
	p.match(lexer.TOKEN_SEMICOLON)

	return &ast.TypeAliasDecl{
		Name:     name,
		Type:     aliased,
		Exported: exportToken != nil,
		Loc:      ast.TokenLocation(first),
		Span:     ast.TokenSpan(first, p.previous()),
	}
}

// parseInterface parses `interface Name { members }`
func (p *Parser) parseInterface(exportToken *lexer.Token) *ast.InterfaceDecl {
	interfaceToken := p.advance()
	first := startToken(exportToken, interfaceToken)
	name := p.consumeIdentifier("Expected interface name").Lexeme
	if !p.check(lexer.TOKEN_LBRACE) {
		p.fail(p.peek(), "Expected '{' after interface name")
	}
	literal := p.parseTypeLiteral()

	return &ast.InterfaceDecl{
		Name:     name,
		Members:  literal.Members,
		Exported: exportToken != nil,
		Loc:      ast.TokenLocation(first),
		Span:     ast.TokenSpan(first, p.previous()),
	}
}

// parseFunctionDecl parses `[async] function name(params): Ret { body }`
func (p *Parser) parseFunctionDecl(exportToken *lexer.Token) *ast.FunctionDecl {
	first := startToken(exportToken, p.peek())
	async := p.match(lexer.TOKEN_ASYNC)
	p.expect(lexer.TOKEN_FUNCTION, "Expected 'function'")
	name := p.consumeIdentifier("Expected function name").Lexeme

	decl := &ast.FunctionDecl{
		Name:     name,
		Params:   p.parseParams(),
		Async:    async,
		Exported: exportToken != nil,
		Loc:      ast.TokenLocation(first),
	}
	if p.match(lexer.TOKEN_COLON) {
		decl.ReturnType = p.parseType()
	}
	decl.Body = p.parseBlock()
	decl.Span = ast.TokenSpan(first, p.previous())
	return decl
}

// parseParams parses a parenthesized parameter list
func (p *Parser) parseParams() []*ast.Param {
	p.expect(lexer.TOKEN_LPAREN, "Expected '(' before parameters")
	params := make([]*ast.Param, 0)
	for !p.check(lexer.TOKEN_RPAREN) {
		start := p.peek()
		param := &ast.Param{
			Target: p.parseBindingTarget(),
			Loc:    ast.TokenLocation(start),
		}
		param.Optional = p.match(lexer.TOKEN_QUESTION)
		if p.match(lexer.TOKEN_COLON) {
			param.Type = p.parseType()
		}
		if p.match(lexer.TOKEN_EQUALS) {
			param.Default = p.parseAssignment()
		}
		param.Span = ast.TokenSpan(start, p.previous())
		params = append(params, param)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}
	p.expect(lexer.TOKEN_RPAREN, "Expected ')' after parameters")
	return params
}

// parseBlock parses { statements }
func (p *Parser) parseBlock() *ast.BlockStmt {
	open := p.expect(lexer.TOKEN_LBRACE, "Expected '{'")
	block := &ast.BlockStmt{
		Statements: make([]ast.StmtNode, 0),
		Loc:        ast.TokenLocation(open),
	}
	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		block.Statements = append(block.Statements, p.parseStatement())
	}
	closeToken := p.expect(lexer.TOKEN_RBRACE, "Expected '}' to close block")
	block.Span = ast.TokenSpan(open, closeToken)
	return block
}

// parseReturnStatement parses return statements
func (p *Parser) parseReturnStatement() ast.StmtNode {
	returnToken := p.advance()
	stmt := &ast.ReturnStmt{Loc: ast.TokenLocation(returnToken)}
	if !p.check(lexer.TOKEN_SEMICOLON) && !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		stmt.Value = p.parseExpression()
	}
	p.match(lexer.TOKEN_SEMICOLON)
	stmt.Span = ast.TokenSpan(returnToken, p.previous())
	return stmt
}

// parseIfStatement parses if / else if / else
func (p *Parser) parseIfStatement() ast.StmtNode {
	ifToken := p.advance()
	p.expect(lexer.TOKEN_LPAREN, "Expected '(' after 'if'")
	condition := p.parseExpression()
	p.expect(lexer.TOKEN_RPAREN, "Expected ')' after if condition")

	stmt := &ast.IfStmt{
		Condition: condition,
		Then:      p.parseStatement(),
		Loc:       ast.TokenLocation(ifToken),
	}
	if p.match(lexer.TOKEN_ELSE) {
		stmt.Else = p.parseStatement()
	}
	stmt.Span = ast.TokenSpan(ifToken, p.previous())
	return stmt
}

func (p *Parser) parseThrowStatement() ast.StmtNode {
	throwToken := p.advance()
	value := p.parseExpression()
	p.match(lexer.TOKEN_SEMICOLON)
	return &ast.ThrowStmt{
		Value: value,
		Loc:   ast.TokenLocation(throwToken),
		Span:  ast.TokenSpan(throwToken, p.previous()),
	}
}

func (p *Parser) parseExpressionStatement() ast.StmtNode {
	start := p.peek()
	expr := p.parseExpression()
	p.match(lexer.TOKEN_SEMICOLON)
	return &ast.ExprStmt{
		Expr: expr,
		Loc:  ast.TokenLocation(start),
		Span: ast.TokenSpan(start, p.previous()),
	}
}

// startToken returns the export keyword when present, otherwise fallback
func startToken(exportToken *lexer.Token, fallback lexer.Token) lexer.Token {
	if exportToken != nil {
		return *exportToken
	}
	return fallback
}

// Helper methods

// peek returns the current token without consuming it
func (p *Parser) peek() lexer.Token {
	if len(p.tokens) == 0 {
		return lexer.Token{Type: lexer.TOKEN_EOF}
	}
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

// peekNext returns the token after the current one
func (p *Parser) peekNext() lexer.Token {
	if p.current+1 >= len(p.tokens) {
		return lexer.Token{Type: lexer.TOKEN_EOF}
	}
	return p.tokens[p.current+1]
}

// previous returns the most recently consumed token
func (p *Parser) previous() lexer.Token {
	if len(p.tokens) == 0 || p.current == 0 {
		return lexer.Token{Type: lexer.TOKEN_EOF}
	}
	return p.tokens[p.current-1]
}

// advance consumes the current token and returns it
func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

// check returns true if the current token matches the given type
func (p *Parser) check(tokenType lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tokenType
}

// match consumes the token if it matches any of the given types
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes a token of the given type or bails out with message
func (p *Parser) expect(tokenType lexer.TokenType, message string) lexer.Token {
	if p.check(tokenType) {
		return p.advance()
	}
	p.fail(p.peek(), message)
	return lexer.Token{Type: lexer.TOKEN_ERROR}
}

// consumeIdentifier accepts identifiers and contextual keywords used as names
func (p *Parser) consumeIdentifier(message string) lexer.Token {
	token := p.peek()
	if token.Type == lexer.TOKEN_IDENTIFIER || lexer.IsContextualKeyword(token.Type) {
		return p.advance()
	}
	p.fail(token, message)
	return lexer.Token{Type: lexer.TOKEN_ERROR}
}

// consumeName accepts any identifier-shaped token, keywords included (property names)
func (p *Parser) consumeName(message string) lexer.Token {
	token := p.peek()
	if !p.isAtEnd() && isNameToken(token) {
		return p.advance()
	}
	p.fail(token, message)
	return lexer.Token{Type: lexer.TOKEN_ERROR}
}

func isNameToken(token lexer.Token) bool {
	return token.Type == lexer.TOKEN_IDENTIFIER || lexer.IsKeyword(token.Lexeme)
}

// isAtEnd returns true if we've reached the end of the token stream
func (p *Parser) isAtEnd() bool {
	return p.current >= len(p.tokens) || p.tokens[p.current].Type == lexer.TOKEN_EOF
}

// Error handling

// error records a parse error
func (p *Parser) error(token lexer.Token, message string) {
	p.errors = append(p.errors, NewParseError(message, token))
}

// fail records a parse error and unwinds to the enclosing recovery point
func (p *Parser) fail(token lexer.Token, message string) {
	p.error(token, message)
	panic(bailout{})
}

// synchronize skips to the next token that begins a line at column 1,
// which is where top-level statements start in handler files
func (p *Parser) synchronize(start int) {
	if p.current == start {
		p.advance()
	}
	for !p.isAtEnd() {
		if p.peek().Column == 1 {
			return
		}
		p.advance()
	}
}

// tryParse runs fn speculatively; on failure the parser is rewound and ok is false
func tryParse[T any](p *Parser, fn func() T) (result T, ok bool) {
	savedCurrent, savedErrors := p.current, len(p.errors)
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.current = savedCurrent
			p.errors = p.errors[:savedErrors]
			var zero T
			result, ok = zero, false
		}
	}()
	return fn(), true
}
