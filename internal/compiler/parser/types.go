package parser

import (
	"fmt"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/lexer"
)

// Type grammar:
// type        → "|"? postfixType ( "|" postfixType )*
// postfixType → primaryType ( "[" "]" )*
// primaryType → name typeArgs? | literal | typeLiteral | "(" type ")"

// parseType parses a type annotation
func (p *Parser) parseType() ast.TypeNode {
	start := p.peek()
	p.match(lexer.TOKEN_PIPE)

	first := p.parsePostfixType()
	if !p.check(lexer.TOKEN_PIPE) {
		return first
	}

	union := &ast.UnionType{
		Types: []ast.TypeNode{first},
		Loc:   ast.TokenLocation(start),
	}
	for p.match(lexer.TOKEN_PIPE) {
		union.Types = append(union.Types, p.parsePostfixType())
	}
	union.Span = ast.TokenSpan(start, p.previous())
	return union
}

func (p *Parser) parsePostfixType() ast.TypeNode {
	start := p.peek()
	typ := p.parsePrimaryType()
	for p.check(lexer.TOKEN_LBRACKET) && p.peekNext().Type == lexer.TOKEN_RBRACKET {
		p.advance()
		closeToken := p.advance()
		typ = &ast.ArrayType{
			Element: typ,
			Loc:     ast.TokenLocation(start),
			Span:    ast.Span{Start: start.Start, End: closeToken.End},
		}
	}
	return typ
}

func (p *Parser) parsePrimaryType() ast.TypeNode {
	token := p.peek()

	switch token.Type {
	case lexer.TOKEN_LBRACE:
		return p.parseTypeLiteral()
	case lexer.TOKEN_LPAREN:
		p.advance()
		inner := p.parseType()
		p.expect(lexer.TOKEN_RPAREN, "Expected ')' after type")
		return inner
	case lexer.TOKEN_STRING_LITERAL, lexer.TOKEN_NUMBER_LITERAL, lexer.TOKEN_TRUE,
		lexer.TOKEN_FALSE, lexer.TOKEN_NULL, lexer.TOKEN_UNDEFINED:
		p.advance()
		return &ast.LiteralType{
			Raw:  token.Lexeme,
			Loc:  ast.TokenLocation(token),
			Span: ast.TokenSpan(token, token),
		}
	}

	if token.Type != lexer.TOKEN_IDENTIFIER && !lexer.IsContextualKeyword(token.Type) {
		p.fail(token, fmt.Sprintf("Unexpected token '%s', expected type", token.Lexeme))
	}

	p.advance()
	ref := &ast.TypeReference{
		Name:     token.Lexeme,
		TypeArgs: make([]ast.TypeNode, 0),
		Loc:      ast.TokenLocation(token),
	}
	for p.match(lexer.TOKEN_DOT) {
		ref.Name += "." + p.consumeName("Expected name after '.' in type").Lexeme
	}
	if p.match(lexer.TOKEN_LT) {
		ref.TypeArgs = append(ref.TypeArgs, p.parseType())
		for p.match(lexer.TOKEN_COMMA) {
			ref.TypeArgs = append(ref.TypeArgs, p.parseType())
		}
		p.expect(lexer.TOKEN_GT, "Expected '>' after type arguments")
	}
	ref.Span = ast.TokenSpan(token, p.previous())
	return ref
}

// parseTypeLiteral parses { name: type; other?: type }
func (p *Parser) parseTypeLiteral() *ast.TypeLiteral {
	open := p.expect(lexer.TOKEN_LBRACE, "Expected '{'")
	literal := &ast.TypeLiteral{
		Members: make([]*ast.PropertySignature, 0),
		Loc:     ast.TokenLocation(open),
	}

	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		nameToken := p.peek()
		var name string
		if nameToken.Type == lexer.TOKEN_STRING_LITERAL {
			name = p.advance().Literal.(string)
		} else {
			name = p.consumeName("Expected property name in type").Lexeme
		}

		member := &ast.PropertySignature{
			Name: name,
			Loc:  ast.TokenLocation(nameToken),
		}
		member.Optional = p.match(lexer.TOKEN_QUESTION)
		if p.check(lexer.TOKEN_LPAREN) || p.check(lexer.TOKEN_LT) {
			p.fail(p.peek(), "Method signatures are not supported in types")
		}
		p.expect(lexer.TOKEN_COLON, "Expected ':' after property name in type")
		member.Type = p.parseType()
		member.Span = ast.TokenSpan(nameToken, p.previous())
		literal.Members = append(literal.Members, member)

		if !p.match(lexer.TOKEN_SEMICOLON, lexer.TOKEN_COMMA) && !p.check(lexer.TOKEN_RBRACE) {
			// members on separate lines need no separator
			if p.peek().Line == p.previous().Line {
				p.fail(p.peek(), "Expected ';' or ',' between type members")
			}
		}
	}

	closeToken := p.expect(lexer.TOKEN_RBRACE, "Expected '}' after type members")
	literal.Span = ast.TokenSpan(open, closeToken)
	return literal
}
