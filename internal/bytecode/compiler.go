package bytecode

import (
	"github.com/plzero/plzero/internal/ast"
	"github.com/plzero/plzero/internal/builtins"
	"github.com/plzero/plzero/internal/errors"
	"github.com/plzero/plzero/internal/lexer"
	"github.com/plzero/plzero/internal/symbols"
)

// Option configures a Compiler at construction time.
type Option func(*Compiler)

// WithBuiltins overrides the built-in registry a program compiles
// against. Mainly useful for tests that want to exercise the
// shadowing-a-builtin compile error without the full default set.
func WithBuiltins(registry *builtins.Registry) Option {
	return func(c *Compiler) { c.builtins = registry }
}

// Compiler performs a single pass over an AST, emitting a linear
// instruction vector while maintaining a scoped name table and
// forward-patching branch and frame-size placeholders.
type Compiler struct {
	names    *symbols.NameTable
	builtins *builtins.Registry

	code []Instruction
	errs errors.List
}

// New constructs a Compiler with a fresh name table.
func New(opts ...Option) *Compiler {
	c := &Compiler{names: symbols.New(), builtins: builtins.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles program into a code vector. On any compile error the
// (possibly partial) vector is discarded and the accumulated errors are
// returned.
func Compile(program *ast.Program, opts ...Option) ([]Instruction, error) {
	return New(opts...).compile(program)
}

func (c *Compiler) compile(program *ast.Program) ([]Instruction, error) {
	dx := int64(3)

	frameSlot := c.emitPlaceholder()
	c.emit(withA(Lit, 0))

	for _, stmt := range program.Statements {
		c.compileStatement(stmt, 0, &dx)
	}

	if len(c.errs) > 0 {
		return nil, c.errs
	}

	c.emit(simple(Ret))
	c.code[frameSlot] = withA(Int, dx)
	return c.code, nil
}

func (c *Compiler) cp() int64 { return int64(len(c.code)) }

func (c *Compiler) emit(inst Instruction) int {
	c.code = append(c.code, inst)
	return len(c.code) - 1
}

func (c *Compiler) emitPlaceholder() int { return c.emit(simple(None)) }

func (c *Compiler) errorf(span lexer.Span, format string, args ...any) {
	c.errs = append(c.errs, errors.New(span, format, args...))
}

// compileBlock compiles a then/else/while body as a block scope: its own
// one-word saved-bp header plus locals declared within it, rolled back
// out of the name table on exit.
func (c *Compiler) compileBlock(stmts []ast.Statement, level int) {
	dx := int64(1)
	tx0 := c.names.Tx()

	c.emit(simple(EnterScope))
	frameSlot := c.emitPlaceholder()

	for _, stmt := range stmts {
		c.compileStatement(stmt, level+1, &dx)
	}

	c.emit(simple(LeaveScope))
	c.code[frameSlot] = withA(Int, dx)

	c.names.Rollback(c.names.Tx() - tx0)
}

func (c *Compiler) compileStatement(stmt ast.Statement, level int, dx *int64) {
	switch s := stmt.(type) {
	case *ast.EmptyStatement:
		// nothing to emit

	case *ast.ConstStatement:
		for _, b := range s.Bindings {
			lit, ok := b.Value.(*ast.IntegerLiteral)
			if !ok {
				c.errorf(b.Value.Span(), "only integer can assign to constant, but got %s", b.Value.String())
				continue
			}
			c.names.AddConstant(b.Name.Value, level, lit.Value)
		}

	case *ast.VarStatement:
		for _, b := range s.Bindings {
			c.compileExpression(b.Initializer, level)
			c.names.AddVariable(b.Name.Value, level, *dx)
			c.emit(withAB(Sto, 0, *dx))
			*dx++
		}

	case *ast.FunctionStatement:
		c.compileFunction(s, level)

	case *ast.AssignStatement:
		c.compileExpression(s.Value, level)
		entry, ok, err := c.names.FindKind(s.Name.Value, symbols.Variable)
		if err != nil {
			c.errorf(s.Span(), "%s", err)
			return
		}
		if !ok {
			c.errorf(s.Span(), "variable is undefined: %s", s.Name.Value)
			return
		}
		c.emit(withAB(Sto, int64(level)-int64(entry.Level), entry.Addr))

	case *ast.ReturnStatement:
		if s.Value != nil {
			c.compileExpression(s.Value, level)
		} else {
			c.emit(withA(Lit, 0))
		}
		c.emit(simple(Ret))

	case *ast.ExpressionStatement:
		c.compileExpression(s.Expression, level)
	}
}

func (c *Compiler) compileFunction(s *ast.FunctionStatement, level int) {
	if _, ok := c.builtins.Lookup(s.Name.Value); ok {
		c.errorf(s.Span(), "cannot shadow builtin: %s", s.Name.Value)
		return
	}

	jmpSlot := c.emitPlaceholder()

	c.names.AddProcedure(s.Name.Value, level)
	procIndex := c.names.Tx()
	tx0 := c.names.Tx()

	for i, param := range s.Parameters {
		c.names.AddVariable(param.Value, level+1, int64(-1-i))
	}

	c.names.SetValue(procIndex, c.cp())

	fnDx := int64(3)
	frameSlot := c.emitPlaceholder()
	c.emit(withA(Lit, 0))

	for _, bodyStmt := range s.Body {
		c.compileStatement(bodyStmt, level+1, &fnDx)
	}

	c.emit(simple(Ret))
	c.code[frameSlot] = withA(Int, fnDx)
	c.code[jmpSlot] = withA(Jmp, c.cp())

	c.names.Rollback(c.names.Tx() - tx0)
}

func (c *Compiler) compileExpression(expr ast.Expression, level int) {
	switch e := expr.(type) {
	case *ast.Identifier:
		entry, ok := c.names.Find(e.Value)
		if !ok {
			c.errorf(e.Span(), "identifier is not defined: %s", e.Value)
			return
		}
		switch entry.Kind {
		case symbols.Constant, symbols.Procedure:
			c.emit(withA(Lit, entry.Value))
		case symbols.Variable:
			c.emit(withAB(Lod, int64(level)-int64(entry.Level), entry.Addr))
		}

	case *ast.IntegerLiteral:
		c.emit(withA(Lit, e.Value))

	case *ast.InfixExpression:
		c.compileExpression(e.Left, level)
		c.compileExpression(e.Right, level)
		c.emit(simple(infixOpcode(e.Operator)))

	case *ast.PrefixExpression:
		switch e.Operator {
		case ast.PrefixNot:
			c.compileExpression(e.Right, level)
			c.emit(simple(Not))
		case ast.PrefixNeg:
			c.emit(withA(Lit, 0))
			c.compileExpression(e.Right, level)
			c.emit(simple(Sub))
		}

	case *ast.CallExpression:
		c.compileCall(e, level)

	case *ast.IfExpression:
		c.compileIf(e, level)

	case *ast.WhileExpression:
		c.compileWhile(e, level)
	}
}

func (c *Compiler) compileCall(e *ast.CallExpression, level int) {
	if id, ok := c.builtins.Lookup(e.Function.Value); ok {
		for i := len(e.Arguments) - 1; i >= 0; i-- {
			c.compileExpression(e.Arguments[i], level)
		}
		c.emit(withAB(Builtin, int64(id), int64(len(e.Arguments))))
		return
	}

	entry, ok, err := c.names.FindKind(e.Function.Value, symbols.Procedure)
	if err != nil {
		c.errorf(e.Span(), "%s", err)
		return
	}
	if !ok {
		c.errorf(e.Span(), "call to undefined procedure: %s", e.Function.Value)
		return
	}

	rlevel := int64(level) - int64(entry.Level)
	for i := len(e.Arguments) - 1; i >= 0; i-- {
		c.compileExpression(e.Arguments[i], level)
	}
	c.emit(withA(Lit, entry.Value))
	c.emit(withA(Cal, rlevel))
	c.emit(withA(CallClean, int64(len(e.Arguments))))
}

func (c *Compiler) compileIf(e *ast.IfExpression, level int) {
	c.compileExpression(e.Condition, level)

	jpcA := c.emitPlaceholder()
	c.compileBlock(e.Consequence, level)

	jmpB := c.emitPlaceholder()
	c.code[jpcA] = withA(Jpc, c.cp())

	if e.Alternative == nil {
		c.emit(withA(Lit, 0))
	} else {
		c.compileBlock(e.Alternative, level)
	}
	c.code[jmpB] = withA(Jmp, c.cp())
}

func (c *Compiler) compileWhile(e *ast.WhileExpression, level int) {
	loopTop := c.cp()
	c.compileExpression(e.Condition, level)

	jpc := c.emitPlaceholder()
	c.compileBlock(e.Body, level)
	c.emit(withA(Jmp, loopTop))
	c.code[jpc] = withA(Jpc, c.cp())
	c.emit(withA(Lit, 0))
}

func infixOpcode(op ast.InfixOperator) Opcode {
	switch op {
	case ast.InfixAdd:
		return Add
	case ast.InfixSub:
		return Sub
	case ast.InfixMul:
		return Mul
	case ast.InfixDiv:
		return Div
	case ast.InfixEq:
		return Eq
	case ast.InfixNe:
		return Ne
	case ast.InfixLt:
		return Lt
	case ast.InfixLtEq:
		return Le
	case ast.InfixGt:
		return Gt
	case ast.InfixGtEq:
		return Ge
	default:
		panic("unreachable infix operator")
	}
}
