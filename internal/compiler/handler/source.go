package handler

import (
	"strings"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/lexer"
)

// sourceText slices node text out of the handler file
type sourceText string

// text returns the node's source exactly as written
func (s sourceText) text(node ast.Node) string {
	span := node.Range()
	if span.Start < 0 || span.End > len(s) || span.Start > span.End {
		return ""
	}
	return string(s[span.Start:span.End])
}

// statement returns a statement's text with its continuation lines
// re-indented relative to the line the statement starts on
func (s sourceText) statement(node ast.Node) string {
	text := s.text(node)
	lines := strings.Split(text, "\n")
	if len(lines) > 1 {
		indent := s.indentAt(node.Range().Start)
		for i := 1; i < len(lines); i++ {
			line := strings.TrimRight(lines[i], " \t\r")
			if strings.HasPrefix(line, indent) {
				line = line[len(indent):]
			} else {
				line = strings.TrimLeft(line, " \t")
			}
			lines[i] = line
		}
	}
	lines[0] = strings.TrimRight(lines[0], " \t\r")

	text = strings.Join(lines, "\n")
	if !strings.HasSuffix(text, ";") && !strings.HasSuffix(text, "}") {
		text += ";"
	}
	return text
}

// indentAt returns the leading whitespace of the line containing offset
func (s sourceText) indentAt(offset int) string {
	lineStart := strings.LastIndexByte(string(s[:offset]), '\n') + 1
	end := lineStart
	for end < len(s) && (s[end] == ' ' || s[end] == '\t') {
		end++
	}
	return string(s[lineStart:end])
}

// objectLiteral renders an object literal on one line, one source property per entry
func (s sourceText) objectLiteral(obj *ast.ObjectLit) string {
	if len(obj.Properties) == 0 {
		return "{}"
	}
	props := make([]string, 0, len(obj.Properties))
	for _, prop := range obj.Properties {
		span := prop.Span
		props = append(props, strings.TrimSpace(string(s[span.Start:span.End])))
	}
	return "{ " + strings.Join(props, ", ") + " }"
}

// identifiers returns the names referenced in a fragment of handler code.
// Property names after '.' are skipped; template interpolations are scanned.
func identifiers(code string) map[string]bool {
	names := make(map[string]bool)
	collectIdentifiers(code, names)
	return names
}

func collectIdentifiers(code string, names map[string]bool) {
	tokens, _ := lexer.New(code).ScanTokens()
	for i, token := range tokens {
		switch token.Type {
		case lexer.TOKEN_IDENTIFIER:
			if i > 0 && (tokens[i-1].Type == lexer.TOKEN_DOT || tokens[i-1].Type == lexer.TOKEN_OPTIONAL_CHAIN) {
				continue
			}
			if isPropertyKey(tokens, i) {
				continue
			}
			names[token.Lexeme] = true
		case lexer.TOKEN_TEMPLATE_LITERAL:
			raw, _ := token.Literal.(string)
			for _, expr := range interpolations(raw) {
				collectIdentifiers(expr, names)
			}
		}
	}
}

// isPropertyKey reports whether tokens[i] is the key of a `key: value` object member
func isPropertyKey(tokens []lexer.Token, i int) bool {
	if i == 0 || i+1 >= len(tokens) || tokens[i+1].Type != lexer.TOKEN_COLON {
		return false
	}
	prev := tokens[i-1].Type
	return prev == lexer.TOKEN_LBRACE || prev == lexer.TOKEN_COMMA
}

// interpolations returns the ${...} expressions of a raw template body
func interpolations(raw string) []string {
	var exprs []string
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' {
			i++
			continue
		}
		if raw[i] != '$' || i+1 >= len(raw) || raw[i+1] != '{' {
			continue
		}
		depth := 1
		start := i + 2
		j := start
		for ; j < len(raw) && depth > 0; j++ {
			switch raw[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
		}
		if depth == 0 {
			exprs = append(exprs, raw[start:j-1])
		}
		i = j - 1
	}
	return exprs
}
