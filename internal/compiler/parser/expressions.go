package parser

import (
	"fmt"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/lexer"
)

// Expression parsing using precedence climbing
//
// Expression grammar (from lowest to highest precedence):
// expression  → assignment
// assignment  → arrowFunction | conditional ( "=" assignment )?
// conditional → binary ( "?" assignment ":" assignment )?
// binary      → unary ( binaryOp unary | "as" type )*      [see binaryPrecedence]
// unary       → ( "!" | "-" | "+" ) unary | "await" unary | postfix
// postfix     → primary ( "." name | "?." name | "[" expression "]" | typeArgs? "(" arguments? ")" | "!" )*
// primary     → literal | template | IDENTIFIER | "(" expression ")" | arrayLiteral | objectLiteral
//             | functionExpression | "new" postfix

// binaryPrecedence returns the binding power of a binary operator token, 0 if not binary
func binaryPrecedence(t lexer.TokenType) int {
	switch t {
	case lexer.TOKEN_DOUBLE_QUESTION:
		return 1
	case lexer.TOKEN_DOUBLE_PIPE:
		return 2
	case lexer.TOKEN_DOUBLE_AMP:
		return 3
	case lexer.TOKEN_PIPE:
		return 4
	case lexer.TOKEN_AMP:
		return 5
	case lexer.TOKEN_EQ, lexer.TOKEN_NEQ, lexer.TOKEN_STRICT_EQ, lexer.TOKEN_STRICT_NEQ:
		return 6
	case lexer.TOKEN_LT, lexer.TOKEN_GT, lexer.TOKEN_LTE, lexer.TOKEN_GTE, lexer.TOKEN_AS:
		return 7
	case lexer.TOKEN_PLUS, lexer.TOKEN_MINUS:
		return 8
	case lexer.TOKEN_STAR, lexer.TOKEN_SLASH, lexer.TOKEN_PERCENT:
		return 9
	}
	return 0
}

// parseExpression is the entry point for expression parsing
func (p *Parser) parseExpression() ast.ExprNode {
	return p.parseAssignment()
}

// parseAssignment handles arrow functions and assignment expressions
func (p *Parser) parseAssignment() ast.ExprNode {
	if fn := p.tryArrowFunction(); fn != nil {
		return fn
	}

	start := p.peek()
	expr := p.parseConditional()

	if p.check(lexer.TOKEN_EQUALS) {
		equals := p.advance()
		switch ast.Unwrap(expr).(type) {
		case *ast.Identifier, *ast.MemberExpr, *ast.IndexExpr:
		default:
			p.fail(equals, "Invalid assignment target")
		}
		value := p.parseAssignment()
		return &ast.AssignExpr{
			Target: expr,
			Value:  value,
			Loc:    ast.TokenLocation(start),
			Span:   ast.Span{Start: start.Start, End: value.Range().End},
		}
	}

	return expr
}

// parseConditional handles cond ? a : b
func (p *Parser) parseConditional() ast.ExprNode {
	start := p.peek()
	expr := p.parseBinary(1)

	if !p.match(lexer.TOKEN_QUESTION) {
		return expr
	}
	then := p.parseAssignment()
	p.expect(lexer.TOKEN_COLON, "Expected ':' in conditional expression")
	otherwise := p.parseAssignment()

	return &ast.ConditionalExpr{
		Condition: expr,
		Then:      then,
		Else:      otherwise,
		Loc:       ast.TokenLocation(start),
		Span:      ast.Span{Start: start.Start, End: otherwise.Range().End},
	}
}

// parseBinary climbs operator precedence starting at minPrec
func (p *Parser) parseBinary(minPrec int) ast.ExprNode {
	start := p.peek()
	left := p.parseUnary()

	for {
		operator := p.peek()
		prec := binaryPrecedence(operator.Type)
		if p.isAtEnd() || prec == 0 || prec < minPrec {
			return left
		}
		p.advance()

		if operator.Type == lexer.TOKEN_AS {
			target := p.parseType()
			left = &ast.AsExpr{
				Value: left,
				Type:  target,
				Loc:   ast.TokenLocation(start),
				Span:  ast.Span{Start: start.Start, End: target.Range().End},
			}
			continue
		}

		right := p.parseBinary(prec + 1)
		left = &ast.BinaryExpr{
			Left:     left,
			Operator: operator.Lexeme,
			Right:    right,
			Loc:      ast.TokenLocation(start),
			Span:     ast.Span{Start: start.Start, End: right.Range().End},
		}
	}
}

// parseUnary handles prefix operators and await
func (p *Parser) parseUnary() ast.ExprNode {
	start := p.peek()

	if p.match(lexer.TOKEN_BANG, lexer.TOKEN_MINUS, lexer.TOKEN_PLUS) {
		operand := p.parseUnary()
		return &ast.UnaryExpr{
			Operator: start.Lexeme,
			Operand:  operand,
			Loc:      ast.TokenLocation(start),
			Span:     ast.Span{Start: start.Start, End: operand.Range().End},
		}
	}

	if p.match(lexer.TOKEN_AWAIT) {
		value := p.parseUnary()
		return &ast.AwaitExpr{
			Value: value,
			Loc:   ast.TokenLocation(start),
			Span:  ast.Span{Start: start.Start, End: value.Range().End},
		}
	}

	return p.parsePostfix(p.parsePrimary(), true)
}

// parsePostfix handles member access, indexing, calls and non-null assertions.
// allowCalls is false for the callee of a new expression.
func (p *Parser) parsePostfix(expr ast.ExprNode, allowCalls bool) ast.ExprNode {
	for {
		loc := expr.Location()
		start := expr.Range().Start

		switch {
		case p.match(lexer.TOKEN_DOT):
			name := p.consumeName("Expected property name after '.'")
			expr = &ast.MemberExpr{
				Object:   expr,
				Property: name.Lexeme,
				Loc:      loc,
				Span:     ast.Span{Start: start, End: name.End},
			}

		case p.match(lexer.TOKEN_OPTIONAL_CHAIN):
			switch {
			case p.check(lexer.TOKEN_LPAREN) && allowCalls:
				args, closeToken := p.parseArguments()
				expr = &ast.CallExpr{Callee: expr, Args: args, Optional: true, Loc: loc, Span: ast.Span{Start: start, End: closeToken.End}}
			case p.match(lexer.TOKEN_LBRACKET):
				index := p.parseExpression()
				closeToken := p.expect(lexer.TOKEN_RBRACKET, "Expected ']' after index")
				expr = &ast.IndexExpr{Object: expr, Index: index, Optional: true, Loc: loc, Span: ast.Span{Start: start, End: closeToken.End}}
			default:
				name := p.consumeName("Expected property name after '?.'")
				expr = &ast.MemberExpr{Object: expr, Property: name.Lexeme, Optional: true, Loc: loc, Span: ast.Span{Start: start, End: name.End}}
			}

		case p.match(lexer.TOKEN_LBRACKET):
			index := p.parseExpression()
			closeToken := p.expect(lexer.TOKEN_RBRACKET, "Expected ']' after index")
			expr = &ast.IndexExpr{
				Object: expr,
				Index:  index,
				Loc:    loc,
				Span:   ast.Span{Start: start, End: closeToken.End},
			}

		case allowCalls && p.check(lexer.TOKEN_LPAREN):
			args, closeToken := p.parseArguments()
			expr = &ast.CallExpr{
				Callee: expr,
				Args:   args,
				Loc:    loc,
				Span:   ast.Span{Start: start, End: closeToken.End},
			}

		case allowCalls && p.check(lexer.TOKEN_LT):
			typeArgs, ok := tryParse(p, p.parseCallTypeArguments)
			if !ok {
				return expr
			}
			args, closeToken := p.parseArguments()
			expr = &ast.CallExpr{
				Callee:   expr,
				TypeArgs: typeArgs,
				Args:     args,
				Loc:      loc,
				Span:     ast.Span{Start: start, End: closeToken.End},
			}

		case p.check(lexer.TOKEN_BANG) && p.peek().Start == p.previous().End:
			bang := p.advance()
			expr = &ast.NonNullExpr{
				Value: expr,
				Loc:   loc,
				Span:  ast.Span{Start: start, End: bang.End},
			}

		default:
			return expr
		}
	}
}

// parseCallTypeArguments parses <T, U> and requires a following '('
func (p *Parser) parseCallTypeArguments() []ast.TypeNode {
	p.expect(lexer.TOKEN_LT, "Expected '<'")
	args := []ast.TypeNode{p.parseType()}
	for p.match(lexer.TOKEN_COMMA) {
		args = append(args, p.parseType())
	}
	p.expect(lexer.TOKEN_GT, "Expected '>' after type arguments")
	if !p.check(lexer.TOKEN_LPAREN) {
		p.fail(p.peek(), "Expected '(' after type arguments")
	}
	return args
}

// parseArguments parses ( args ) and returns the closing token
func (p *Parser) parseArguments() ([]ast.ExprNode, lexer.Token) {
	p.expect(lexer.TOKEN_LPAREN, "Expected '('")
	args := make([]ast.ExprNode, 0)
	for !p.check(lexer.TOKEN_RPAREN) {
		args = append(args, p.parseElement())
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}
	closeToken := p.expect(lexer.TOKEN_RPAREN, "Expected ')' after arguments")
	return args, closeToken
}

// parseElement parses an argument or array element, which may be a spread
func (p *Parser) parseElement() ast.ExprNode {
	if !p.check(lexer.TOKEN_ELLIPSIS) {
		return p.parseAssignment()
	}
	dots := p.advance()
	value := p.parseAssignment()
	return &ast.SpreadElement{
		Value: value,
		Loc:   ast.TokenLocation(dots),
		Span:  ast.Span{Start: dots.Start, End: value.Range().End},
	}
}

// parsePrimary parses literals, identifiers and bracketed forms
func (p *Parser) parsePrimary() ast.ExprNode {
	token := p.peek()
	loc := ast.TokenLocation(token)
	span := ast.TokenSpan(token, token)

	switch token.Type {
	case lexer.TOKEN_STRING_LITERAL:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LiteralString, Value: token.Literal, Raw: token.Lexeme, Loc: loc, Span: span}
	case lexer.TOKEN_NUMBER_LITERAL:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LiteralNumber, Value: token.Literal, Raw: token.Lexeme, Loc: loc, Span: span}
	case lexer.TOKEN_TRUE, lexer.TOKEN_FALSE:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LiteralBool, Value: token.Literal, Raw: token.Lexeme, Loc: loc, Span: span}
	case lexer.TOKEN_NULL:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LiteralNull, Raw: token.Lexeme, Loc: loc, Span: span}
	case lexer.TOKEN_UNDEFINED:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LiteralUndefined, Raw: token.Lexeme, Loc: loc, Span: span}
	case lexer.TOKEN_TEMPLATE_LITERAL:
		p.advance()
		raw, _ := token.Literal.(string)
		return &ast.TemplateLit{Raw: raw, Loc: loc, Span: span}
	case lexer.TOKEN_LPAREN:
		p.advance()
		inner := p.parseExpression()
		closeToken := p.expect(lexer.TOKEN_RPAREN, "Expected ')' after expression")
		return &ast.ParenExpr{Inner: inner, Loc: loc, Span: ast.TokenSpan(token, closeToken)}
	case lexer.TOKEN_LBRACKET:
		return p.parseArrayLiteral()
	case lexer.TOKEN_LBRACE:
		return p.parseObjectLiteral()
	case lexer.TOKEN_FUNCTION:
		return p.parseFunctionExpression()
	case lexer.TOKEN_ASYNC:
		if p.peekNext().Type == lexer.TOKEN_FUNCTION {
			return p.parseFunctionExpression()
		}
		p.advance()
		return &ast.Identifier{Name: token.Lexeme, Loc: loc, Span: span}
	case lexer.TOKEN_NEW:
		p.advance()
		callee := p.parsePostfix(p.parsePrimary(), false)
		expr := &ast.NewExpr{Callee: callee, Args: make([]ast.ExprNode, 0), Loc: loc, Span: ast.Span{Start: token.Start, End: callee.Range().End}}
		if p.check(lexer.TOKEN_LPAREN) {
			args, closeToken := p.parseArguments()
			expr.Args = args
			expr.Span.End = closeToken.End
		}
		return expr
	case lexer.TOKEN_IDENTIFIER:
		p.advance()
		return &ast.Identifier{Name: token.Lexeme, Loc: loc, Span: span}
	}

	if lexer.IsContextualKeyword(token.Type) {
		p.advance()
		return &ast.Identifier{Name: token.Lexeme, Loc: loc, Span: span}
	}

	if p.isAtEnd() {
		p.fail(token, "Unexpected end of input, expected expression")
	}
	p.fail(token, fmt.Sprintf("Unexpected token '%s', expected expression", token.Lexeme))
	return nil
}

// parseArrayLiteral parses [a, b, ...c]
func (p *Parser) parseArrayLiteral() ast.ExprNode {
	open := p.advance()
	elements := make([]ast.ExprNode, 0)
	for !p.check(lexer.TOKEN_RBRACKET) {
		elements = append(elements, p.parseElement())
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}
	closeToken := p.expect(lexer.TOKEN_RBRACKET, "Expected ']' after array elements")
	return &ast.ArrayLit{
		Elements: elements,
		Loc:      ast.TokenLocation(open),
		Span:     ast.TokenSpan(open, closeToken),
	}
}

// parseObjectLiteral parses { a, b: 1, 'c': 2, [k]: v, ...rest }
func (p *Parser) parseObjectLiteral() ast.ExprNode {
	open := p.advance()
	object := &ast.ObjectLit{
		Properties: make([]*ast.Property, 0),
		Loc:        ast.TokenLocation(open),
	}

	for !p.check(lexer.TOKEN_RBRACE) {
		object.Properties = append(object.Properties, p.parseProperty())
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}

	closeToken := p.expect(lexer.TOKEN_RBRACE, "Expected '}' after object literal")
	object.Span = ast.TokenSpan(open, closeToken)
	return object
}

func (p *Parser) parseProperty() *ast.Property {
	start := p.peek()
	prop := &ast.Property{Loc: ast.TokenLocation(start)}

	switch {
	case p.match(lexer.TOKEN_ELLIPSIS):
		prop.Spread = true
		prop.Value = p.parseAssignment()
		prop.Span = ast.Span{Start: start.Start, End: prop.Value.Range().End}
		return prop

	case p.match(lexer.TOKEN_LBRACKET):
		prop.Computed = p.parseExpression()
		p.expect(lexer.TOKEN_RBRACKET, "Expected ']' after computed property name")

	case p.check(lexer.TOKEN_STRING_LITERAL):
		prop.Key = p.advance().Literal.(string)

	case p.check(lexer.TOKEN_NUMBER_LITERAL):
		prop.Key = p.advance().Lexeme

	default:
		keyToken := p.consumeName("Expected property name")
		prop.Key = keyToken.Lexeme
		if !p.check(lexer.TOKEN_COLON) {
			if p.check(lexer.TOKEN_LPAREN) {
				p.fail(p.peek(), "Method shorthand in object literals is not supported")
			}
			prop.Shorthand = true
			prop.Value = &ast.Identifier{
				Name: keyToken.Lexeme,
				Loc:  ast.TokenLocation(keyToken),
				Span: ast.TokenSpan(keyToken, keyToken),
			}
			prop.Span = ast.TokenSpan(keyToken, keyToken)
			return prop
		}
	}

	p.expect(lexer.TOKEN_COLON, "Expected ':' after property name")
	prop.Value = p.parseAssignment()
	prop.Span = ast.Span{Start: start.Start, End: prop.Value.Range().End}
	return prop
}

// parseFunctionExpression parses [async] function [name](params): Ret { body }
func (p *Parser) parseFunctionExpression() ast.ExprNode {
	start := p.peek()
	fn := &ast.FunctionExpr{
		Async: p.match(lexer.TOKEN_ASYNC),
		Loc:   ast.TokenLocation(start),
	}
	p.expect(lexer.TOKEN_FUNCTION, "Expected 'function'")
	if p.check(lexer.TOKEN_IDENTIFIER) {
		fn.Name = p.advance().Lexeme
	}
	fn.Params = p.parseParams()
	if p.match(lexer.TOKEN_COLON) {
		fn.ReturnType = p.parseType()
	}
	fn.Body = p.parseBlock()
	fn.Span = ast.TokenSpan(start, p.previous())
	return fn
}

// arrowHead is everything of an arrow function up to and including '=>'
type arrowHead struct {
	start      lexer.Token
	async      bool
	params     []*ast.Param
	returnType ast.TypeNode
}

// tryArrowFunction parses an arrow function when one starts at the current token.
// Only the head is speculative; once '=>' is seen the body is parsed normally.
func (p *Parser) tryArrowFunction() ast.ExprNode {
	switch p.peek().Type {
	case lexer.TOKEN_LPAREN, lexer.TOKEN_ASYNC:
	case lexer.TOKEN_IDENTIFIER:
		if p.peekNext().Type != lexer.TOKEN_ARROW {
			return nil
		}
	default:
		return nil
	}

	head, ok := tryParse(p, p.parseArrowHead)
	if !ok {
		return nil
	}

	fn := &ast.FunctionExpr{
		Params:     head.params,
		ReturnType: head.returnType,
		Async:      head.async,
		Arrow:      true,
		Loc:        ast.TokenLocation(head.start),
	}
	if p.check(lexer.TOKEN_LBRACE) {
		fn.Body = p.parseBlock()
	} else {
		fn.ExprBody = p.parseAssignment()
	}
	fn.Span = ast.TokenSpan(head.start, p.previous())
	return fn
}

func (p *Parser) parseArrowHead() arrowHead {
	head := arrowHead{start: p.peek()}

	if p.check(lexer.TOKEN_ASYNC) && p.peekNext().Type != lexer.TOKEN_ARROW {
		p.advance()
		head.async = true
	}

	if p.check(lexer.TOKEN_LPAREN) {
		head.params = p.parseParams()
		if p.match(lexer.TOKEN_COLON) {
			head.returnType = p.parseType()
		}
	} else {
		nameToken := p.consumeIdentifier("Expected arrow function parameter")
		head.params = []*ast.Param{{
			Target: &ast.BindingIdent{Name: nameToken.Lexeme, Loc: ast.TokenLocation(nameToken), Span: ast.TokenSpan(nameToken, nameToken)},
			Loc:    ast.TokenLocation(nameToken),
			Span:   ast.TokenSpan(nameToken, nameToken),
		}}
	}

	p.expect(lexer.TOKEN_ARROW, "Expected '=>'")
	return head
}
