// Package errors formats lex, parse, and compile failures that are
// anchored to a source span.
package errors

import (
	"fmt"
	"strings"

	"github.com/plzero/plzero/internal/lexer"
)

// Error is a diagnostic message anchored to a span of the source.
type Error struct {
	Message string
	Span    lexer.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.Begin.Line, e.Span.Begin.Column, e.Message)
}

// New constructs an Error.
func New(span lexer.Span, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Span: span}
}

// Format renders e with a caret pointing at its span's starting column
// within the offending source line.
func (e *Error) Format(source string) string {
	var out strings.Builder

	fmt.Fprintf(&out, "error at %d:%d: %s\n", e.Span.Begin.Line, e.Span.Begin.Column, e.Message)

	line := sourceLine(source, e.Span.Begin.Line)
	if line == "" {
		return out.String()
	}

	out.WriteString(line)
	out.WriteString("\n")
	col := e.Span.Begin.Column
	if col < 1 {
		col = 1
	}
	out.WriteString(strings.Repeat(" ", col-1))
	out.WriteString("^")

	return out.String()
}

func sourceLine(source string, line int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// List accumulates compile errors that do not abort compilation.
type List []*Error

func (l List) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}
