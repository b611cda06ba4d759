package parser

import (
	"math"

	"github.com/saltlang/saltc/lang/ast"
	"github.com/saltlang/saltc/lang/numlit"
	"github.com/saltlang/saltc/lang/token"
	"github.com/saltlang/saltc/lang/typetab"
)

// binopPriority is the precedence table:
//
//	as > * / > + - > << >> > < > <= >= > == != > & > ^ > | > && > || > assignment
//
// Each entry carries a left and right binding power; the assignment family
// is right-associative (so `a = b = c` groups as `a = (b = c)`).
var binopPriority = map[token.Kind]struct{ left, right int }{
	token.AS: {12, 12},

	token.MUL: {11, 11}, token.DIV: {11, 11},

	token.ADD: {10, 10}, token.SUB: {10, 10},

	token.SHL: {9, 9}, token.SHR: {9, 9},

	token.LANGLE: {8, 8}, token.RANGLE: {8, 8},
	token.LE: {8, 8}, token.GE: {8, 8},

	token.EQ: {7, 7}, token.NEQ: {7, 7},

	token.AMP: {6, 6},

	token.CARAT: {5, 5},

	token.BAR: {4, 4},

	token.AND: {3, 3},

	token.OR: {2, 2},

	token.ASSIGN:       {1, 0},
	token.ADD_ASSIGN:   {1, 0},
	token.SUB_ASSIGN:   {1, 0},
	token.MUL_ASSIGN:   {1, 0},
	token.DIV_ASSIGN:   {1, 0},
	token.MOD_ASSIGN:   {1, 0},
	token.AND_ASSIGN:   {1, 0},
	token.OR_ASSIGN:    {1, 0},
	token.TILDE_ASSIGN: {1, 0},
	token.XOR_ASSIGN:   {1, 0},
	token.SHL_ASSIGN:   {1, 0},
	token.SHR_ASSIGN:   {1, 0},
}

var opSpelling = map[token.Kind]string{
	token.AS: "as", token.MUL: "*", token.DIV: "/",
	token.ADD: "+", token.SUB: "-",
	token.SHL: "<<", token.SHR: ">>",
	token.LANGLE: "<", token.RANGLE: ">", token.LE: "<=", token.GE: ">=",
	token.EQ: "==", token.NEQ: "!=",
	token.AMP: "&", token.CARAT: "^", token.BAR: "|",
	token.AND: "&&", token.OR: "||",
	token.ASSIGN: "=", token.ADD_ASSIGN: "+=", token.SUB_ASSIGN: "-=",
	token.MUL_ASSIGN: "*=", token.DIV_ASSIGN: "/=", token.MOD_ASSIGN: "%=",
	token.AND_ASSIGN: "&=", token.OR_ASSIGN: "|=", token.TILDE_ASSIGN: "~=",
	token.XOR_ASSIGN: "^=", token.SHL_ASSIGN: "<<=", token.SHR_ASSIGN: ">>=",
}

// parseExpr parses one expression: a primary followed by zero or more
// binary operators, via precedence climbing. EOL is deliberately never
// skipped by the cursor (see skipTrivia), so a newline after a primary
// simply fails to match any entry in binopPriority and the climb stops
// there, terminating the statement.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(priority int) ast.Expr {
	left := p.parsePrimary()

	for {
		opTok := p.cur()
		prio, ok := binopPriority[opTok.Kind]
		if !ok || prio.left <= priority {
			break
		}
		p.advance()

		var right ast.Expr
		if opTok.Kind == token.AS {
			right = p.parseTypeNode()
		} else {
			right = p.parseBinary(prio.right)
		}
		left = p.makeBinary(opTok, left, right)
	}
	return left
}

// makeBinary computes the result TypeInstance immediately: "as" takes the
// RHS's type; otherwise the higher-ranked operand wins, with pointer
// operations preserving the pointer's TypeInstance.
func (p *Parser) makeBinary(opTok token.Token, left, right ast.Expr) ast.Expr {
	var resultType typetab.TypeInstance
	switch {
	case opTok.Kind == token.AS:
		resultType = right.Type()
	case left.Type().IsPointer():
		resultType = left.Type()
	case right.Type().IsPointer():
		resultType = right.Type()
	default:
		resultType = higherRank(left.Type(), right.Type())
	}

	line, col := left.Pos()
	return &ast.Binary{
		Base:  ast.NewBase(line, col, resultType),
		Op:    opSpelling[opTok.Kind],
		Left:  left,
		Right: right,
	}
}

func higherRank(a, b typetab.TypeInstance) typetab.TypeInstance {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

func (p *Parser) parseTypeNode() ast.Expr {
	tok := p.expect(token.TYPE)
	ti := p.resolveTypeToken(tok)
	return &ast.Type{Base: ast.NewBase(tok.Line(), tok.Col(), ti), Instance: ti}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case token.SUB:
		p.advance()
		numTok := p.cur()
		if numTok.Kind != token.NUMBER {
			p.errorf(tok.Pos, "'-' must be immediately followed by a number literal")
			return p.errorValue(tok)
		}
		p.advance()
		return p.parseNumberLiteral(numTok, true)

	case token.NUMBER:
		p.advance()
		return p.parseNumberLiteral(tok, false)

	case token.CHAR, token.STRING:
		p.advance()
		typ := typetab.Of(typetab.CHAR)
		if tok.Kind == token.STRING {
			typ = typetab.PointerTo(typetab.CHAR, 1)
		}
		return &ast.Value{Base: ast.NewBase(tok.Line(), tok.Col(), typ), Raw: tok.Data}

	case token.TRUE, token.FALSE:
		p.advance()
		v := uint64(0)
		if tok.Kind == token.TRUE {
			v = 1
		}
		return &ast.Value{Base: ast.NewBase(tok.Line(), tok.Col(), typetab.Of(typetab.BOOL)), Raw: tok.Kind.String(), Int: v}

	case token.NULL:
		p.advance()
		ti := typetab.PointerTo(typetab.VOID, 1)
		return &ast.Value{Base: ast.NewBase(tok.Line(), tok.Col(), ti), Raw: "null", Int: 0}

	case token.INF, token.NAN:
		p.advance()
		f := math.Inf(1)
		if tok.Kind == token.NAN {
			f = math.NaN()
		}
		return &ast.Value{Base: ast.NewBase(tok.Line(), tok.Col(), typetab.Of(typetab.DOUBLE)), Raw: tok.Kind.String(), Float: f}

	case token.IDENT:
		return p.parseIdentOrCall()

	case token.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e

	case token.IF:
		return p.parseIf()

	case token.REPEAT:
		return p.parseRepeat()

	case token.RETURN:
		return p.parseReturn()

	case token.LET:
		return p.parseNewVariable()

	case token.MUL:
		p.advance()
		inner := p.parsePrimary()
		return p.makeDeref(tok, inner)

	case token.ERROR:
		// the lexer already reported this token (illegal byte or literal
		// overflow); stand in a typed poison and keep parsing.
		p.advance()
		return p.errorValue(tok)
	}

	p.errorf(tok.Pos, "unexpected token %s", tok.Kind)
	panic(errPanicMode)
}

func (p *Parser) errorValue(tok token.Token) ast.Expr {
	return &ast.Value{Base: ast.NewBase(tok.Line(), tok.Col(), typetab.Of(typetab.ERROR)), Raw: tok.Data}
}

// parseNumberLiteral re-derives the typed value from the lexer's validated
// literal text. Int literals default to `long`, float literals to `double`;
// both widen/narrow via the usual implicit-conversion rules when used in a
// smaller-typed context.
func (p *Parser) parseNumberLiteral(tok token.Token, negative bool) ast.Expr {
	res, err := numlit.Parse(tok.Data)
	if err != nil {
		p.errorf(tok.Pos, "%s", err)
		return p.errorValue(tok)
	}
	if res.IsFloat {
		f := res.Float
		if negative {
			f = -f
		}
		return &ast.Value{Base: ast.NewBase(tok.Line(), tok.Col(), typetab.Of(typetab.DOUBLE)), Raw: tok.Data, Float: f}
	}
	v := res.Int
	if negative {
		v = uint64(-int64(v))
	}
	return &ast.Value{Base: ast.NewBase(tok.Line(), tok.Col(), typetab.Of(typetab.LONG)), Raw: tok.Data, Int: v}
}

func (p *Parser) parseIdentOrCall() ast.Expr {
	tok := p.expect(token.IDENT)
	name := tok.Data

	if p.cur().Kind == token.LPAREN {
		p.advance()
		var args []ast.Expr
		if p.cur().Kind != token.RPAREN {
			args = append(args, p.parseExpr())
			for p.accept(token.COMMA) {
				args = append(args, p.parseExpr())
			}
		}
		p.expect(token.RPAREN)

		ret := typetab.Of(typetab.ERROR)
		if sig, ok := p.functions[name]; !ok {
			p.errorf(tok.Pos, "no function exists named %s", name)
		} else {
			ret = sig.Return
			if len(args) != len(sig.Params) {
				p.errorf(tok.Pos, "function %s expects %d argument(s), got %d", name, len(sig.Params), len(args))
			}
		}
		return &ast.Call{Base: ast.NewBase(tok.Line(), tok.Col(), ret), Callee: name, Args: args}
	}

	ti, ok := p.scopes.lookup(name)
	if !ok {
		p.errorf(tok.Pos, "undefined identifier %s", name)
		ti = typetab.Of(typetab.ERROR)
	}
	return &ast.Variable{Base: ast.NewBase(tok.Line(), tok.Col(), ti), Name: name}
}

// parseIf parses `if_expr := "if" expression "then" expression "else" expression`.
// The merge type is the higher-rank of the two arms, matching the PHI
// unification the emitter applies at codegen.
func (p *Parser) parseIf() ast.Expr {
	tok := p.expect(token.IF)
	cond := p.parseExpr()
	p.expect(token.THEN)
	thenE := p.parseExpr()
	p.expect(token.ELSE)
	elseE := p.parseExpr()

	return &ast.If{
		Base: ast.NewBase(tok.Line(), tok.Col(), higherRank(thenE.Type(), elseE.Type())),
		Cond: cond, Then: thenE, Else: elseE,
	}
}

// parseRepeat parses `repeat_expr := "repeat" expression ":" expression`.
func (p *Parser) parseRepeat() ast.Expr {
	tok := p.expect(token.REPEAT)
	count := p.parseExpr()
	p.expect(token.COLON)
	body := p.parseExpr()

	return &ast.Repeat{
		Base:  ast.NewBase(tok.Line(), tok.Col(), body.Type()),
		Count: count, Body: body,
	}
}

// parseReturn parses `return_expr := "return" expression?`. ExpectedReturn
// starts at the RETURN sentinel and is overwritten by the enclosing
// function's codegen.
func (p *Parser) parseReturn() ast.Expr {
	tok := p.expect(token.RETURN)
	var payload ast.Expr
	switch p.cur().Kind {
	case token.EOL, token.EOF:
		// bare return
	default:
		payload = p.parseExpr()
	}
	return &ast.Return{
		Base:           ast.NewBase(tok.Line(), tok.Col(), typetab.Of(typetab.NEVER)),
		Payload:        payload,
		ExpectedReturn: typetab.Of(typetab.RETURN),
	}
}

// parseNewVariable parses a local declaration: `"let" IDENT "=" expression`.
// Unlike a parameter, a `let` binding has no syntactic type: its
// TypeInstance is inferred from the initializer and entered into the
// current (innermost) scope immediately, so later statements in the same
// body can reference it.
func (p *Parser) parseNewVariable() ast.Expr {
	tok := p.expect(token.LET)
	nameTok := p.expect(token.IDENT)
	p.expect(token.ASSIGN)
	init := p.parseExpr()

	if p.scopes.empty() {
		p.errorf(tok.Pos, "'let' is only valid inside a function body")
	} else if !p.scopes.declare(nameTok.Data, init.Type()) {
		p.errorf(nameTok.Pos, "variable %q redefined", nameTok.Data)
	}

	return &ast.NewVariable{
		Base:        ast.NewBase(tok.Line(), tok.Col(), init.Type()),
		Name:        nameTok.Data,
		Initializer: init,
	}
}

// makeDeref builds a Deref node; its TypeInstance has one fewer pointer
// layer than inner's.
func (p *Parser) makeDeref(tok token.Token, inner ast.Expr) ast.Expr {
	it := inner.Type()
	var result typetab.TypeInstance
	switch {
	case !it.IsPointer():
		p.errorf(tok.Pos, "cannot dereference non-pointer type %s", it)
		result = typetab.Of(typetab.ERROR)
	case it.Layers > 1:
		result = typetab.PointerTo(it.Pointee, it.Layers-1)
	default:
		result = typetab.Of(it.Pointee)
	}
	return &ast.Deref{Base: ast.NewBase(tok.Line(), tok.Col(), result), Ptr: inner}
}
