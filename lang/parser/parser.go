// Package parser implements the recursive-descent, Pratt-precedence parser:
// it consumes a token.Token sequence and produces an ast.Program plus the
// table of declared functions, resolving variable types against a scope
// stack as it goes. The grammar is indentation- and newline-sensitive, so
// EOL and TAB tokens are grammar, not trivia.
package parser

import (
	"errors"

	"github.com/saltlang/saltc/lang/ast"
	"github.com/saltlang/saltc/lang/token"
	"github.com/saltlang/saltc/lang/typetab"
)

// funcSig is one named_functions entry: the information needed to validate
// a call site structurally (arity and per-parameter conversion target).
type funcSig struct {
	Params []typetab.TypeInstance
	Return typetab.TypeInstance
}

// Parser consumes one file's token stream.
type Parser struct {
	file  string
	toks  []token.Token
	pos   int
	diags *token.DiagnosticList

	scopes    *scopeStack
	functions map[string]funcSig
}

// New constructs a Parser over toks (as produced by lang/lexer.Lex),
// reporting diagnostics into diags.
func New(file string, toks []token.Token, diags *token.DiagnosticList) *Parser {
	p := &Parser{
		file:      file,
		toks:      toks,
		diags:     diags,
		scopes:    newScopeStack(),
		functions: make(map[string]funcSig),
	}
	p.skipTrivia()
	return p
}

// errPanicMode unwinds parseTopLevel on a hard syntax error; recovered
// at the top-level Parse loop, which then resynchronizes to the next
// plausible declaration start.
var errPanicMode = errors.New("parser: panic mode")

func (p *Parser) cur() token.Token { return p.toks[p.pos] }

func (p *Parser) advance() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.skipTrivia()
}

// skipTrivia consumes WS and comment tokens, which carry no grammatical
// meaning once the lexer has fused indentation into TAB tokens. EOL and TAB
// are never skipped here: both are load-bearing for the newline-termination
// and indentation rules.
func (p *Parser) skipTrivia() {
	for p.pos < len(p.toks)-1 {
		switch p.cur().Kind {
		case token.WS, token.LINE_COMMENT, token.BLOCK_COMMENT_START, token.BLOCK_COMMENT_END:
			p.pos++
			continue
		}
		break
	}
}

// skipEOLs consumes any run of blank (EOL-only) lines.
func (p *Parser) skipEOLs() {
	for p.cur().Kind == token.EOL {
		p.advance()
	}
}

func (p *Parser) errorf(pos token.Pos, format string, args ...any) {
	p.diags.Add(p.file, pos, token.ErrorLevel, format, args...)
}

func (p *Parser) warnf(pos token.Pos, format string, args ...any) {
	p.diags.Add(p.file, pos, token.Warning, format, args...)
}

// expect consumes the current token if it has kind k, else reports a
// diagnostic and enters panic mode.
func (p *Parser) expect(k token.Kind) token.Token {
	tok := p.cur()
	if tok.Kind != k {
		p.errorf(tok.Pos, "expected %s, found %s", k, tok.Kind)
		panic(errPanicMode)
	}
	p.advance()
	return tok
}

// accept consumes the current token and reports true if it has kind k.
func (p *Parser) accept(k token.Kind) bool {
	if p.cur().Kind == k {
		p.advance()
		return true
	}
	return false
}

// syncToDecl advances until a plausible declaration start: the FN or EXTERN
// keyword, or EOF.
func (p *Parser) syncToDecl() {
	for {
		switch p.cur().Kind {
		case token.FN, token.EXTERN, token.EOF:
			return
		}
		p.advance()
	}
}

// Parse consumes the entire token stream and returns the resulting program.
// Diagnostics (syntax errors, undefined identifiers, redefinitions) are
// reported into the Parser's DiagnosticList as encountered; Parse itself
// only returns a non-nil error for conditions that make the whole file
// unusable (currently: none; recovery is per-declaration).
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	p.skipEOLs()
	for p.cur().Kind != token.EOF {
		p.parseTopLevel(prog)
		p.skipEOLs()
	}
	return prog, nil
}

func (p *Parser) parseTopLevel(prog *ast.Program) {
	defer func() {
		if r := recover(); r != nil {
			if r == errPanicMode {
				p.syncToDecl()
				return
			}
			panic(r)
		}
	}()

	switch p.cur().Kind {
	case token.EXTERN:
		p.advance()
		decl := p.parseDeclaration()
		p.registerSignature(decl)
		prog.Externs = append(prog.Externs, decl)

	case token.FN:
		fn := p.parseFunction()
		prog.Functions = append(prog.Functions, fn)

	default:
		tok := p.cur()
		p.errorf(tok.Pos, "expected 'fn' or 'extern', found %s", tok.Kind)
		panic(errPanicMode)
	}
}

func (p *Parser) registerSignature(decl *ast.Declaration) {
	if _, exists := p.functions[decl.Name]; exists {
		p.errorf(token.MakePos(decl.Line, decl.Col), "function %q redefined", decl.Name)
		return
	}
	params := make([]typetab.TypeInstance, len(decl.Params))
	for i, v := range decl.Params {
		params[i] = v.Type()
	}
	p.functions[decl.Name] = funcSig{Params: params, Return: decl.ReturnType}
}
