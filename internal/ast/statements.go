package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/plzero/plzero/internal/lexer"
)

// EmptyStatement is a bare `;` with no effect.
type EmptyStatement struct {
	SourceSpan lexer.Span
}

func (es *EmptyStatement) statementNode()  {}
func (es *EmptyStatement) Span() lexer.Span { return es.SourceSpan }
func (es *EmptyStatement) String() string   { return ";" }

// ConstBinding pairs a name with its initializer. The compiler, not the
// parser, rejects initializers that aren't integer literals.
type ConstBinding struct {
	Name  *Identifier
	Value Expression
}

// ConstStatement declares one or more compile-time constants.
type ConstStatement struct {
	SourceSpan lexer.Span
	Bindings   []ConstBinding
}

func (cs *ConstStatement) statementNode()  {}
func (cs *ConstStatement) Span() lexer.Span { return cs.SourceSpan }
func (cs *ConstStatement) String() string {
	parts := make([]string, len(cs.Bindings))
	for i, b := range cs.Bindings {
		parts[i] = fmt.Sprintf("%s = %s", b.Name.Value, b.Value.String())
	}
	return fmt.Sprintf("const %s;", strings.Join(parts, ", "))
}

// VarBinding pairs a name with its (possibly defaulted) initializer.
type VarBinding struct {
	Name        *Identifier
	Initializer Expression
}

// VarStatement declares one or more variables, each initialized either
// explicitly or to the literal 0.
type VarStatement struct {
	SourceSpan lexer.Span
	Bindings   []VarBinding
}

func (vs *VarStatement) statementNode()  {}
func (vs *VarStatement) Span() lexer.Span { return vs.SourceSpan }
func (vs *VarStatement) String() string {
	parts := make([]string, len(vs.Bindings))
	for i, b := range vs.Bindings {
		parts[i] = fmt.Sprintf("%s = %s", b.Name.Value, b.Initializer.String())
	}
	return fmt.Sprintf("var %s;", strings.Join(parts, ", "))
}

// FunctionStatement declares a named, nested function.
type FunctionStatement struct {
	SourceSpan lexer.Span
	Name       *Identifier
	Parameters []*Identifier
	Body       []Statement
}

func (fs *FunctionStatement) statementNode()  {}
func (fs *FunctionStatement) Span() lexer.Span { return fs.SourceSpan }
func (fs *FunctionStatement) String() string {
	params := make([]string, len(fs.Parameters))
	for i, p := range fs.Parameters {
		params[i] = p.Value
	}
	var body bytes.Buffer
	body.WriteString(joinStatements(fs.Body))
	return fmt.Sprintf("fn %s(%s) { %s }", fs.Name.Value, strings.Join(params, ", "), body.String())
}

// AssignStatement assigns to an already-declared variable. Compound
// assignment operators are desugared by the parser before this node is
// constructed.
type AssignStatement struct {
	SourceSpan lexer.Span
	Name       *Identifier
	Value      Expression
}

func (as *AssignStatement) statementNode()  {}
func (as *AssignStatement) Span() lexer.Span { return as.SourceSpan }
func (as *AssignStatement) String() string {
	return fmt.Sprintf("%s = %s;", as.Name.Value, as.Value.String())
}

// ReturnStatement returns Value, or 0 when Value is nil.
type ReturnStatement struct {
	SourceSpan lexer.Span
	Value      Expression // nil when bare `return;`
}

func (rs *ReturnStatement) statementNode()  {}
func (rs *ReturnStatement) Span() lexer.Span { return rs.SourceSpan }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", rs.Value.String())
}

// ExpressionStatement wraps an expression evaluated for its value and
// (sometimes) its side effects.
type ExpressionStatement struct {
	SourceSpan lexer.Span
	Expression Expression
}

func (es *ExpressionStatement) statementNode()  {}
func (es *ExpressionStatement) Span() lexer.Span { return es.SourceSpan }
func (es *ExpressionStatement) String() string {
	return fmt.Sprintf("%s;", es.Expression.String())
}
