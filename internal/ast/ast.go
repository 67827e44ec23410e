// Package ast defines the abstract syntax tree node types for plzero.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/plzero/plzero/internal/lexer"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	// String renders the node back into source form (unparsing), used
	// both for debugging and for the round-trip testable property.
	String() string

	// Span returns the node's position in the source.
	Span() lexer.Span
}

// Statement is a node that performs an action without itself being a value.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that evaluates to an integer.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of the tree: a sequence of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) Span() lexer.Span {
	if len(p.Statements) == 0 {
		return lexer.Span{}
	}
	return lexer.Span{Begin: p.Statements[0].Span().Begin, End: p.Statements[len(p.Statements)-1].Span().End}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for i, stmt := range p.Statements {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(stmt.String())
	}
	return out.String()
}

// Identifier names a constant, variable, function, or parameter.
type Identifier struct {
	SourceSpan lexer.Span
	Value      string
}

func (i *Identifier) expressionNode()   {}
func (i *Identifier) Span() lexer.Span  { return i.SourceSpan }
func (i *Identifier) String() string    { return i.Value }

// IntegerLiteral is a signed integer constant appearing in source.
type IntegerLiteral struct {
	SourceSpan lexer.Span
	Value      int64
}

func (il *IntegerLiteral) expressionNode()  {}
func (il *IntegerLiteral) Span() lexer.Span { return il.SourceSpan }
func (il *IntegerLiteral) String() string   { return fmt.Sprintf("%d", il.Value) }

// PrefixOperator distinguishes the two unary prefix operators.
type PrefixOperator int

const (
	PrefixNot PrefixOperator = iota
	PrefixNeg
)

func (op PrefixOperator) String() string {
	switch op {
	case PrefixNot:
		return "!"
	case PrefixNeg:
		return "-"
	default:
		return "?"
	}
}

// PrefixExpression is `!e` or `-e`.
type PrefixExpression struct {
	SourceSpan lexer.Span
	Operator   PrefixOperator
	Right      Expression
}

func (pe *PrefixExpression) expressionNode()  {}
func (pe *PrefixExpression) Span() lexer.Span { return pe.SourceSpan }
func (pe *PrefixExpression) String() string {
	return fmt.Sprintf("(%s%s)", pe.Operator, pe.Right.String())
}

// InfixOperator enumerates the binary operators.
type InfixOperator int

const (
	InfixEq InfixOperator = iota
	InfixNe
	InfixLt
	InfixGt
	InfixLtEq
	InfixGtEq
	InfixAdd
	InfixSub
	InfixMul
	InfixDiv
)

func (op InfixOperator) String() string {
	switch op {
	case InfixEq:
		return "=="
	case InfixNe:
		return "!="
	case InfixLt:
		return "<"
	case InfixGt:
		return ">"
	case InfixLtEq:
		return "<="
	case InfixGtEq:
		return ">="
	case InfixAdd:
		return "+"
	case InfixSub:
		return "-"
	case InfixMul:
		return "*"
	case InfixDiv:
		return "/"
	default:
		return "?"
	}
}

// InfixExpression is `left op right`.
type InfixExpression struct {
	SourceSpan lexer.Span
	Operator   InfixOperator
	Left       Expression
	Right      Expression
}

func (ie *InfixExpression) expressionNode()  {}
func (ie *InfixExpression) Span() lexer.Span { return ie.SourceSpan }
func (ie *InfixExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", ie.Left.String(), ie.Operator, ie.Right.String())
}

// CallExpression invokes a named function (built-in or user-defined) with
// a fixed argument list.
type CallExpression struct {
	SourceSpan lexer.Span
	Function   *Identifier
	Arguments  []Expression
}

func (ce *CallExpression) expressionNode()  {}
func (ce *CallExpression) Span() lexer.Span { return ce.SourceSpan }
func (ce *CallExpression) String() string {
	args := make([]string, len(ce.Arguments))
	for i, a := range ce.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", ce.Function.Value, strings.Join(args, ", "))
}

// IfExpression yields the value of whichever branch ran, or 0 when the
// condition is false and there is no else branch.
type IfExpression struct {
	SourceSpan  lexer.Span
	Condition   Expression
	Consequence []Statement
	Alternative []Statement // nil when absent
}

func (ie *IfExpression) expressionNode()  {}
func (ie *IfExpression) Span() lexer.Span { return ie.SourceSpan }
func (ie *IfExpression) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(ie.Condition.String())
	out.WriteString(" { ")
	out.WriteString(joinStatements(ie.Consequence))
	out.WriteString(" }")
	if ie.Alternative != nil {
		out.WriteString(" else { ")
		out.WriteString(joinStatements(ie.Alternative))
		out.WriteString(" }")
	}
	return out.String()
}

// WhileExpression always yields 0.
type WhileExpression struct {
	SourceSpan lexer.Span
	Condition  Expression
	Body       []Statement
}

func (we *WhileExpression) expressionNode()  {}
func (we *WhileExpression) Span() lexer.Span { return we.SourceSpan }
func (we *WhileExpression) String() string {
	return fmt.Sprintf("while %s { %s }", we.Condition.String(), joinStatements(we.Body))
}

func joinStatements(stmts []Statement) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}
