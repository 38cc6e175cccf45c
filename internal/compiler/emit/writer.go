// Package emit provides an indent-aware block writer for generated JavaScript
// and TypeScript sources.
package emit

import (
	"bytes"
	"fmt"
	"strings"
)

// DefaultIndent is the indentation unit of generated sources
const DefaultIndent = "  "

// Writer accumulates generated source one line at a time
type Writer struct {
	buf    *bytes.Buffer
	indent int
	unit   string
}

// NewWriter creates a writer indenting with DefaultIndent
func NewWriter() *Writer {
	return &Writer{
		buf:  &bytes.Buffer{},
		unit: DefaultIndent,
	}
}

// Line writes a formatted line at the current indentation
func (w *Writer) Line(format string, args ...interface{}) *Writer {
	if format == "" {
		w.buf.WriteString("\n")
		return w
	}

	w.buf.WriteString(strings.Repeat(w.unit, w.indent))
	if len(args) > 0 {
		w.buf.WriteString(fmt.Sprintf(format, args...))
	} else {
		w.buf.WriteString(format)
	}
	w.buf.WriteString("\n")
	return w
}

// Lines writes pre-rendered lines verbatim at the current indentation.
// Embedded newlines start new lines; empty lines are written without indentation.
func (w *Writer) Lines(lines ...string) *Writer {
	for _, line := range lines {
		for _, part := range strings.Split(line, "\n") {
			if part == "" {
				w.buf.WriteString("\n")
				continue
			}
			w.buf.WriteString(strings.Repeat(w.unit, w.indent))
			w.buf.WriteString(part)
			w.buf.WriteString("\n")
		}
	}
	return w
}

// BlankLine writes an empty line
func (w *Writer) BlankLine() *Writer {
	w.buf.WriteString("\n")
	return w
}

// Block writes `<header> {`, the indented body and a closing line of `}<suffix>`
func (w *Writer) Block(header, suffix string, body func()) *Writer {
	if header == "" {
		w.Line("{")
	} else {
		w.Line("%s {", header)
	}
	w.indent++
	body()
	w.indent--
	return w.Line("}%s", suffix)
}

// String returns everything written so far
func (w *Writer) String() string {
	return w.buf.String()
}
