package parser

import (
	"github.com/saltlang/saltc/lang/ast"
	"github.com/saltlang/saltc/lang/token"
	"github.com/saltlang/saltc/lang/typetab"
)

// parseDeclaration parses a function signature:
//
//	declaration := "fn" IDENT "(" (TYPE IDENT ("," TYPE IDENT)*)? ")" ("->" TYPE)?
func (p *Parser) parseDeclaration() *ast.Declaration {
	fnTok := p.expect(token.FN)
	nameTok := p.expect(token.IDENT)
	p.expect(token.LPAREN)

	var params []*ast.Variable
	if p.cur().Kind != token.RPAREN {
		params = append(params, p.parseParam())
		for p.accept(token.COMMA) {
			params = append(params, p.parseParam())
		}
	}
	p.expect(token.RPAREN)

	ret := typetab.Of(typetab.VOID)
	if p.accept(token.ARROW) {
		retTok := p.expect(token.TYPE)
		ret = p.resolveTypeToken(retTok)
	}

	return &ast.Declaration{
		Name:       nameTok.Data,
		Params:     params,
		ReturnType: ret,
		Line:       fnTok.Line(),
		Col:        fnTok.Col(),
	}
}

func (p *Parser) parseParam() *ast.Variable {
	typeTok := p.expect(token.TYPE)
	ti := p.resolveTypeToken(typeTok)
	if ti.Type == typetab.VOID {
		p.errorf(typeTok.Pos, "parameter cannot have void type")
	}
	nameTok := p.expect(token.IDENT)
	return &ast.Variable{
		Base: ast.NewBase(nameTok.Line(), nameTok.Col(), ti),
		Name: nameTok.Data,
	}
}

// resolveTypeToken converts a lexed TYPE token (base name plus a pointer-
// layer count fused in by the lexer) to a TypeInstance.
func (p *Parser) resolveTypeToken(tok token.Token) typetab.TypeInstance {
	base, ok := typetab.Lookup(tok.Data)
	if !ok {
		p.errorf(tok.Pos, "unknown type %q", tok.Data)
		return typetab.Of(typetab.ERROR)
	}
	if tok.Count > 0 {
		return typetab.PointerTo(base, tok.Count)
	}
	return typetab.Of(base)
}

// parseFunction parses a full function:
//
//	function := declaration ":" newline body
//
// Parameters are entered into a fresh innermost scope before the body is
// parsed, so Variable nodes inside the body resolve correctly.
func (p *Parser) parseFunction() *ast.Function {
	decl := p.parseDeclaration()
	// register before the body parses so recursive calls resolve
	p.registerSignature(decl)
	p.expect(token.COLON)
	p.expect(token.EOL)
	p.skipEOLs()

	p.scopes.push()
	for _, param := range decl.Params {
		if !p.scopes.declare(param.Name, param.Type()) {
			line, col := param.Pos()
			p.errorf(token.MakePos(line, col), "parameter %q redefined", param.Name)
		}
	}
	body := p.parseBody()
	p.scopes.pop()

	return &ast.Function{Decl: decl, Body: body}
}

// parseBody parses the statement sequence at indent level 1, stopping at
// the first line whose leading-TAB count returns to 0: a body opens at
// indent level 1 and closes when the indentation does.
func (p *Parser) parseBody() []ast.Expr {
	var body []ast.Expr
	for {
		level := 0
		for p.cur().Kind == token.TAB {
			level++
			p.advance()
		}
		if level == 0 {
			break
		}
		if level != 1 {
			p.warnf(p.cur().Pos, "unexpected indent level %d inside function body", level)
		}

		expr := p.parseExpr()
		body = append(body, expr)

		if p.cur().Kind == token.EOL {
			p.advance()
		}
		p.skipEOLs()

		if p.cur().Kind == token.EOF {
			break
		}
	}
	return body
}
