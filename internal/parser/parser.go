// Package parser implements a recursive-descent parser with Pratt-style
// expression parsing for plzero source.
package parser

import (
	"strconv"

	"github.com/plzero/plzero/internal/ast"
	"github.com/plzero/plzero/internal/errors"
	"github.com/plzero/plzero/internal/lexer"
)

// Operator precedence, low to high. Matches the Suffix(call) level being
// the tightest-binding operator in the grammar.
const (
	LOWEST int = iota
	EQUALS
	LESSGREATER
	SUM
	PRODUCT
	PREFIX
	SUFFIX
)

var infixTable = map[lexer.TokenType]struct {
	precedence int
	op         ast.InfixOperator
}{
	lexer.EQ:       {EQUALS, ast.InfixEq},
	lexer.NEQ:      {EQUALS, ast.InfixNe},
	lexer.LT:       {LESSGREATER, ast.InfixLt},
	lexer.GT:       {LESSGREATER, ast.InfixGt},
	lexer.LTEQ:     {LESSGREATER, ast.InfixLtEq},
	lexer.GTEQ:     {LESSGREATER, ast.InfixGtEq},
	lexer.PLUS:     {SUM, ast.InfixAdd},
	lexer.MINUS:    {SUM, ast.InfixSub},
	lexer.ASTERISK: {PRODUCT, ast.InfixMul},
	lexer.SLASH:    {PRODUCT, ast.InfixDiv},
}

var compoundAssignOps = map[lexer.TokenType]ast.InfixOperator{
	lexer.PLUS_ASSIGN:  ast.InfixAdd,
	lexer.MINUS_ASSIGN: ast.InfixSub,
	lexer.STAR_ASSIGN:  ast.InfixMul,
	lexer.SLASH_ASSIGN: ast.InfixDiv,
}

// Parser turns a token stream into an AST. It holds one token of
// lookahead beyond the current token.
type Parser struct {
	l *lexer.Lexer

	cur, peek lexer.Token
	prevEnd   lexer.Position
}

// New primes the parser with the first two tokens. A lex error on either
// of them is reported as the first parse error.
func New(input string) (*Parser, error) {
	p := &Parser{l: lexer.New(input)}

	var err error
	if p.cur, err = p.l.Next(); err != nil {
		return nil, toParseError(err)
	}
	if p.peek, err = p.l.Next(); err != nil {
		return nil, toParseError(err)
	}
	return p, nil
}

// Parse is the toolchain's single entry point: lex, then parse the whole
// program. The first error encountered aborts parsing.
func Parse(input string) (*ast.Program, error) {
	p, err := New(input)
	if err != nil {
		return nil, err
	}

	var stmts []ast.Statement
	for p.cur.Type != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return &ast.Program{Statements: stmts}, nil
}

func toParseError(err error) error {
	if le, ok := err.(*lexer.LexError); ok {
		return errors.New(le.Span, "%s", le.Message)
	}
	return err
}

func (p *Parser) advance() error {
	p.prevEnd = p.cur.Span.End
	p.cur = p.peek

	next, err := p.l.Next()
	if err != nil {
		return toParseError(err)
	}
	p.peek = next
	return nil
}

func (p *Parser) expect(tt lexer.TokenType) error {
	if p.cur.Type != tt {
		return errors.New(p.cur.Span, "expected %s, got %s", tt, p.cur.Type)
	}
	return p.advance()
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	begin := p.cur.Span.Begin

	var kind ast.Statement
	var err error

	switch {
	case p.cur.Type == lexer.SEMICOLON:
		kind = &ast.EmptyStatement{}
	case p.cur.Type == lexer.CONST:
		kind, err = p.parseConst()
	case p.cur.Type == lexer.VAR:
		kind, err = p.parseVar()
	case p.cur.Type == lexer.FUNCTION:
		kind, err = p.parseFunction()
	case p.cur.Type == lexer.RETURN:
		kind, err = p.parseReturn()
	case p.cur.Type == lexer.IDENT && isAssignStart(p.peek.Type):
		kind, err = p.parseAssign()
	default:
		kind, err = p.parseExprStatement()
	}
	if err != nil {
		return nil, err
	}

	for p.cur.Type == lexer.SEMICOLON {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	span := lexer.Span{Begin: begin, End: p.prevEnd}
	setSpan(kind, span)
	return kind, nil
}

func isAssignStart(tt lexer.TokenType) bool {
	if tt == lexer.ASSIGN {
		return true
	}
	_, ok := compoundAssignOps[tt]
	return ok
}

// setSpan back-fills the span now that the statement's full extent
// (including any defaulted values) is known.
func setSpan(stmt ast.Statement, span lexer.Span) {
	switch s := stmt.(type) {
	case *ast.EmptyStatement:
		s.SourceSpan = span
	case *ast.ConstStatement:
		s.SourceSpan = span
	case *ast.VarStatement:
		s.SourceSpan = span
	case *ast.FunctionStatement:
		s.SourceSpan = span
	case *ast.AssignStatement:
		s.SourceSpan = span
	case *ast.ReturnStatement:
		s.SourceSpan = span
	case *ast.ExpressionStatement:
		s.SourceSpan = span
	}
}

func (p *Parser) parseConst() (ast.Statement, error) {
	if err := p.advance(); err != nil { // consume 'const'
		return nil, err
	}

	var bindings []ast.ConstBinding
	for {
		if p.cur.Type != lexer.IDENT {
			return nil, errors.New(p.cur.Span, "const declaration needs an identifier, got %s", p.cur.Type)
		}
		nameTok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}

		if err := p.expect(lexer.ASSIGN); err != nil {
			return nil, err
		}

		value, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}

		bindings = append(bindings, ast.ConstBinding{
			Name:  &ast.Identifier{Value: nameTok.Literal, SourceSpan: nameTok.Span},
			Value: value,
		})

		if p.cur.Type == lexer.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	return &ast.ConstStatement{Bindings: bindings}, nil
}

func (p *Parser) parseVar() (ast.Statement, error) {
	if err := p.advance(); err != nil { // consume 'var'
		return nil, err
	}

	var bindings []ast.VarBinding
	for {
		if p.cur.Type != lexer.IDENT {
			return nil, errors.New(p.cur.Span, "var declaration needs an identifier, got %s", p.cur.Type)
		}
		nameTok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}

		var init ast.Expression
		if p.cur.Type == lexer.ASSIGN {
			if err := p.advance(); err != nil {
				return nil, err
			}
			var err error
			init, err = p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
		} else {
			init = &ast.IntegerLiteral{Value: 0, SourceSpan: nameTok.Span}
		}

		bindings = append(bindings, ast.VarBinding{
			Name:        &ast.Identifier{Value: nameTok.Literal, SourceSpan: nameTok.Span},
			Initializer: init,
		})

		if p.cur.Type == lexer.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	return &ast.VarStatement{Bindings: bindings}, nil
}

func (p *Parser) parseFunction() (ast.Statement, error) {
	if err := p.advance(); err != nil { // consume 'fn'
		return nil, err
	}

	if p.cur.Type != lexer.IDENT {
		return nil, errors.New(p.cur.Span, "expected function name, got %s", p.cur.Type)
	}
	nameTok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}

	if err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var params []*ast.Identifier
	if p.cur.Type == lexer.IDENT {
		for {
			if p.cur.Type != lexer.IDENT {
				return nil, errors.New(p.cur.Span, "function parameter must be an identifier, got %s", p.cur.Type)
			}
			params = append(params, &ast.Identifier{Value: p.cur.Literal, SourceSpan: p.cur.Span})
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Type == lexer.COMMA {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}

	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	body, err := p.parseBlockStatements()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionStatement{
		Name:       &ast.Identifier{Value: nameTok.Literal, SourceSpan: nameTok.Span},
		Parameters: params,
		Body:       body,
	}, nil
}

func (p *Parser) parseBlockStatements() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for p.cur.Type != lexer.EOF && p.cur.Type != lexer.RBRACE {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if err := p.advance(); err != nil { // consume '}'
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parseAssign() (ast.Statement, error) {
	nameTok := p.cur
	if err := p.advance(); err != nil { // consume identifier
		return nil, err
	}

	opTok := p.cur
	if err := p.advance(); err != nil { // consume assignment operator
		return nil, err
	}

	rhs, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	name := &ast.Identifier{Value: nameTok.Literal, SourceSpan: nameTok.Span}

	var value ast.Expression = rhs
	if op, ok := compoundAssignOps[opTok.Type]; ok {
		value = &ast.InfixExpression{
			Operator:   op,
			Left:       &ast.Identifier{Value: nameTok.Literal, SourceSpan: nameTok.Span},
			Right:      rhs,
			SourceSpan: lexer.Span{Begin: nameTok.Span.Begin, End: p.prevEnd},
		}
	}

	return &ast.AssignStatement{Name: name, Value: value}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	if err := p.advance(); err != nil { // consume 'return'
		return nil, err
	}

	if p.cur.Type == lexer.SEMICOLON {
		return &ast.ReturnStatement{}, nil
	}

	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Value: expr}, nil
}

func (p *Parser) parseExprStatement() (ast.Statement, error) {
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Expression: expr}, nil
}

func (p *Parser) tokenPrecedence(tt lexer.TokenType) int {
	if entry, ok := infixTable[tt]; ok {
		return entry.precedence
	}
	if tt == lexer.LPAREN {
		return SUFFIX
	}
	return LOWEST
}

func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	begin := p.cur.Span.Begin

	var left ast.Expression
	var err error

	switch p.cur.Type {
	case lexer.INT:
		// The lexer already validated this literal fits an int64 (or
		// reported a LexError before it ever reached p.cur), so the parse
		// here cannot fail.
		value, _ := strconv.ParseInt(p.cur.Literal, 10, 64)
		span := p.cur.Span
		left = &ast.IntegerLiteral{Value: value, SourceSpan: span}
		err = p.advance()

	case lexer.IDENT:
		span := p.cur.Span
		left = &ast.Identifier{Value: p.cur.Literal, SourceSpan: span}
		err = p.advance()

	case lexer.BANG:
		if err = p.advance(); err != nil {
			break
		}
		var right ast.Expression
		right, err = p.parseExpression(PREFIX)
		left = &ast.PrefixExpression{Operator: ast.PrefixNot, Right: right}

	case lexer.MINUS:
		if err = p.advance(); err != nil {
			break
		}
		var right ast.Expression
		right, err = p.parseExpression(PREFIX)
		left = &ast.PrefixExpression{Operator: ast.PrefixNeg, Right: right}

	case lexer.LPAREN:
		if err = p.advance(); err != nil {
			break
		}
		left, err = p.parseExpression(LOWEST)
		if err != nil {
			break
		}
		err = p.expect(lexer.RPAREN)

	case lexer.IF:
		left, err = p.parseIfExpression()

	case lexer.WHILE:
		left, err = p.parseWhileExpression()

	default:
		return nil, errors.New(p.cur.Span, "unexpected token in expression position: %s", p.cur.Type)
	}
	if err != nil {
		return nil, err
	}

	setExprSpan(left, lexer.Span{Begin: begin, End: p.prevEnd})

	for p.cur.Type != lexer.SEMICOLON && precedence < p.tokenPrecedence(p.cur.Type) {
		opTok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}

		if entry, ok := infixTable[opTok.Type]; ok {
			right, err := p.parseExpression(entry.precedence)
			if err != nil {
				return nil, err
			}
			left = &ast.InfixExpression{
				Operator:   entry.op,
				Left:       left,
				Right:      right,
				SourceSpan: lexer.Span{Begin: begin, End: p.prevEnd},
			}
			continue
		}

		if opTok.Type == lexer.LPAREN {
			ident, ok := left.(*ast.Identifier)
			if !ok {
				return nil, errors.New(opTok.Span, "only an identifier can be called, got %s", left.String())
			}
			args, err := p.parseCallArguments()
			if err != nil {
				return nil, err
			}
			left = &ast.CallExpression{
				Function:   ident,
				Arguments:  args,
				SourceSpan: lexer.Span{Begin: begin, End: p.prevEnd},
			}
			continue
		}

		return nil, errors.New(opTok.Span, "unexpected infix token: %s", opTok.Type)
	}

	return left, nil
}

func (p *Parser) parseCallArguments() ([]ast.Expression, error) {
	var args []ast.Expression

	if p.cur.Type.BeginsExpression() {
		for {
			arg, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.cur.Type == lexer.COMMA {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}

	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseIfExpression() (ast.Expression, error) {
	if err := p.advance(); err != nil { // consume 'if'
		return nil, err
	}

	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	then, err := p.parseBlockStatements()
	if err != nil {
		return nil, err
	}

	var alt []ast.Statement
	if p.cur.Type == lexer.ELSE {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect(lexer.LBRACE); err != nil {
			return nil, err
		}
		alt, err = p.parseBlockStatements()
		if err != nil {
			return nil, err
		}
		if alt == nil {
			// Distinguish a present-but-empty else block from no else
			// clause at all: both compile and ast.String() key off nilness.
			alt = []ast.Statement{}
		}
	}

	return &ast.IfExpression{Condition: cond, Consequence: then, Alternative: alt}, nil
}

func (p *Parser) parseWhileExpression() (ast.Expression, error) {
	if err := p.advance(); err != nil { // consume 'while'
		return nil, err
	}

	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatements()
	if err != nil {
		return nil, err
	}

	return &ast.WhileExpression{Condition: cond, Body: body}, nil
}

func setExprSpan(expr ast.Expression, span lexer.Span) {
	switch e := expr.(type) {
	case *ast.Identifier:
		e.SourceSpan = span
	case *ast.IntegerLiteral:
		e.SourceSpan = span
	case *ast.PrefixExpression:
		e.SourceSpan = span
	case *ast.InfixExpression:
		e.SourceSpan = span
	case *ast.CallExpression:
		e.SourceSpan = span
	case *ast.IfExpression:
		e.SourceSpan = span
	case *ast.WhileExpression:
		e.SourceSpan = span
	}
}
