package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatError renders e for a terminal: a header naming the code and
// position, the surrounding source with a caret under the offending column,
// then any expected/actual values, suggestion and examples.
func FormatError(e *CompilerError) string {
	var b strings.Builder
	writeHeader(&b, e)
	writeSnippet(&b, e)
	writeDetails(&b, e)
	return b.String()
}

func writeHeader(b *strings.Builder, e *CompilerError) {
	fmt.Fprintf(b, "%s %s [%s] in %s", severityIcon(e.Severity), categoryDisplayName(e.Category), e.Code, fileName(e))
	if e.Location.Line > 0 {
		fmt.Fprintf(b, ":%d:%d", e.Location.Line, e.Location.Column)
	}
	b.WriteByte('\n')
}

// writeSnippet prints the context lines behind a numbered gutter; without
// context only the message is printed.
func writeSnippet(b *strings.Builder, e *CompilerError) {
	if e.Context == nil || len(e.Context.SourceLines) == 0 {
		fmt.Fprintf(b, "  %s\n", e.Message)
		return
	}

	first := e.Context.FirstLine
	if first == 0 {
		first = e.Location.Line - 1
	}
	width := len(strconv.Itoa(first + len(e.Context.SourceLines) - 1))
	gutter := strings.Repeat(" ", width)

	for i, line := range e.Context.SourceLines {
		lineNum := first + i
		fmt.Fprintf(b, "  %*d | %s\n", width, lineNum, line)
		if lineNum == e.Location.Line {
			fmt.Fprintf(b, "  %s | %s^ %s\n", gutter, caretIndent(line, e.Location.Column), e.Message)
		}
	}
}

// caretIndent reproduces the whitespace before column so tabs stay aligned
func caretIndent(line string, column int) string {
	var indent strings.Builder
	for i, r := range []rune(line) {
		if i >= column-1 {
			break
		}
		if r == '\t' {
			indent.WriteRune('\t')
		} else {
			indent.WriteRune(' ')
		}
	}
	return indent.String()
}

func writeDetails(b *strings.Builder, e *CompilerError) {
	if e.Expected != "" || e.Actual != "" {
		b.WriteByte('\n')
		if e.Expected != "" {
			fmt.Fprintf(b, "  Expected: %s\n", e.Expected)
		}
		if e.Actual != "" {
			fmt.Fprintf(b, "  Actual:   %s\n", e.Actual)
		}
	}

	if e.Suggestion != "" {
		fmt.Fprintf(b, "\n💡 %s\n", e.Suggestion)
	}

	if len(e.Examples) > 0 {
		b.WriteString("\nExamples:\n")
		for i, example := range e.Examples {
			fmt.Fprintf(b, "  %d. %s\n", i+1, example)
		}
	}
}

// FormatErrorList renders a summary line followed by every error in order
func FormatErrorList(list ErrorList) string {
	if len(list) == 0 {
		return "no errors"
	}

	errCount, warnCount := list.ErrorCount()
	parts := make([]string, 0, len(list))
	for _, e := range list {
		parts = append(parts, FormatError(e))
	}

	return fmt.Sprintf("Compilation failed with %d error(s), %d warning(s)\n\n", errCount, warnCount) +
		strings.Join(parts, "\n"+strings.Repeat("─", 60)+"\n\n")
}

// FormatCompact renders e on one line as file:line:col: severity: message [code]
func FormatCompact(e *CompilerError) string {
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]",
		fileName(e), e.Location.Line, e.Location.Column,
		e.Severity, e.Message, e.Code)
}

func fileName(e *CompilerError) string {
	if e.File == "" {
		return "<source>"
	}
	return e.File
}

func severityIcon(severity ErrorSeverity) string {
	if severity == SeverityWarning {
		return "⚠️ "
	}
	return "❌"
}

var categoryNames = map[ErrorCategory]string{
	CategorySyntax:     "Syntax Error",
	CategoryValidation: "Validation Error",
	CategoryType:       "Type Error",
	CategoryOperation:  "Unsupported Operation",
	CategoryArguments:  "Malformed Arguments",
	CategoryAddress:    "Invalid Address",
}

func categoryDisplayName(category ErrorCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "Compiler Error"
}
