// Package lexer implements the compound-token state machine: a byte-stream
// scanner that produces a positioned token.Token sequence, including
// multi-character operator/assignment fusion, line/column tracking, and
// comment/string/character-literal modes.
//
// Multi-character operators are not recognized by lookahead. The scanner
// emits single-character symbol tokens, and after each append the fusion
// step (fuse.go) inspects the previous token in the output and may merge
// the two.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/saltlang/saltc/lang/numlit"
	"github.com/saltlang/saltc/lang/token"
)

// mode is the lexer's internal state.
type mode int

const (
	modeNormal mode = iota
	modeCharLiteral
	modeStringLiteral
	modeLineComment
)

// FatalError is returned by Lex when the source contains an unrecoverable
// problem: an unterminated string or character literal at EOF.
type FatalError struct {
	File string
	Pos  token.Pos
	Msg  string
}

func (e *FatalError) Error() string {
	line, col := e.Pos.LineCol()
	return fmt.Sprintf("%s:%d:%d: fatal: %s", e.File, line, col, e.Msg)
}

// Lexer tokenizes one source file.
type Lexer struct {
	file  string
	src   []byte
	diags *token.DiagnosticList

	mode mode

	cur       rune // current character, -1 at EOF
	off       int  // byte offset of cur
	roff      int  // byte offset just past cur
	line, col int  // 1-based position of cur
}

// New constructs a Lexer over src, reporting non-fatal diagnostics (illegal
// bytes, literal overflow) into diags.
func New(file string, src []byte, diags *token.DiagnosticList) *Lexer {
	l := &Lexer{file: file, src: src, diags: diags, line: 1, col: 0}
	l.advance()
	return l
}

func (l *Lexer) advance() {
	if l.roff >= len(l.src) {
		l.off = len(l.src)
		l.cur = -1
		return
	}

	if l.cur == '\n' {
		l.line++
		l.col = 0
	}

	l.off = l.roff
	r, w := rune(l.src[l.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(l.src[l.roff:])
	}
	l.roff += w
	l.cur = r
	l.col++
}

func (l *Lexer) peekByte() byte {
	if l.roff < len(l.src) {
		return l.src[l.roff]
	}
	return 0
}

func (l *Lexer) pos() token.Pos { return token.MakePos(l.line, l.col) }

func (l *Lexer) warnf(pos token.Pos, format string, args ...any) {
	l.diags.Add(l.file, pos, token.Warning, format, args...)
}

func (l *Lexer) errorf(pos token.Pos, format string, args ...any) {
	l.diags.Add(l.file, pos, token.ErrorLevel, format, args...)
}

// Lex tokenizes the entire source file, returning the full token sequence
// (always ending with a single EOF token) and a FatalError if one was
// encountered. All other problems are recoverable diagnostics recorded in
// diags, and lexing continues.
func (l *Lexer) Lex() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, fatal := l.next()
		if fatal != nil {
			return toks, fatal
		}
		toks = append(toks, tok)
		l.fuse(&toks)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

var singleCharSymbols = map[rune]token.Kind{
	'+': token.ADD, '-': token.SUB, '*': token.MUL, '/': token.DIV,
	'%': token.MODULO, '!': token.EXCL, '&': token.AMP, '|': token.BAR,
	'~': token.TILDE, '<': token.LANGLE, '>': token.RANGLE, '=': token.ASSIGN,
	'(': token.LPAREN, ')': token.RPAREN, ':': token.COLON, ',': token.COMMA,
	'.': token.DOT, '[': token.LSQUARE, ']': token.RSQUARE, '^': token.CARAT,
}

// next scans exactly one raw token: a whole identifier/keyword/number run,
// a whole char/string literal, a whole line comment, or a single symbol
// character. Multi-character operators are assembled later, by fuse.
func (l *Lexer) next() (token.Token, error) {
	switch l.mode {
	case modeCharLiteral:
		return l.scanQuoted('\'', token.CHAR)
	case modeStringLiteral:
		return l.scanQuoted('"', token.STRING)
	case modeLineComment:
		return l.scanLineComment()
	}

	pos := l.pos()

	switch {
	case l.cur == -1:
		return token.New(token.EOF, "", 0, pos), nil

	case l.cur == '\n':
		l.advance()
		return token.New(token.EOL, "", 0, pos), nil

	case l.cur == '\t':
		l.advance()
		return token.New(token.TAB, "", 0, pos), nil

	case l.cur == ' ':
		l.advance()
		return token.New(token.WS, "", 0, pos), nil

	case l.cur == '#':
		l.mode = modeLineComment
		return l.scanLineComment()

	case isLetter(l.cur):
		word := l.ident()
		kind := token.LookupWord(word)
		if kind == token.TYPE {
			return token.New(token.TYPE, word, 0, pos), nil
		}
		if kind == token.IDENT {
			return token.New(token.IDENT, word, 0, pos), nil
		}
		return token.New(kind, "", 0, pos), nil

	case isDigit(l.cur) || (l.cur == '.' && isDigit(rune(l.peekByte()))):
		return l.scanNumber(pos)

	case l.cur == '\'':
		l.advance()
		l.mode = modeCharLiteral
		return l.scanQuoted('\'', token.CHAR)

	case l.cur == '"':
		l.advance()
		l.mode = modeStringLiteral
		return l.scanQuoted('"', token.STRING)
	}

	if kind, ok := singleCharSymbols[l.cur]; ok {
		l.advance()
		return token.New(kind, "", 0, pos), nil
	}

	bad := l.cur
	l.advance()
	l.errorf(pos, "illegal character %q", bad)
	return token.New(token.ERROR, string(bad), 0, pos), nil
}

func (l *Lexer) ident() string {
	start := l.off
	for isLetter(l.cur) || isDigit(l.cur) {
		l.advance()
	}
	return string(l.src[start:l.off])
}

func (l *Lexer) scanNumber(pos token.Pos) (token.Token, error) {
	start := l.off
	isHex := false
	if l.cur == '0' && (lower(l.peekByteRune()) == 'x' || lower(l.peekByteRune()) == 'o' || lower(l.peekByteRune()) == 'b') {
		isHex = lower(l.peekByteRune()) == 'x'
		l.advance() // '0'
		l.advance() // radix letter
	}
	digit := isDigit
	if isHex {
		digit = isHexDigit
	}
	for digit(l.cur) || l.cur == '_' {
		l.advance()
	}
	if l.cur == '.' && isDigit(rune(l.peekByte())) {
		l.advance()
		for isDigit(l.cur) || l.cur == '_' {
			l.advance()
		}
	}
	if lower(l.cur) == 'e' {
		save := l.off
		l.advance()
		if l.cur == '+' || l.cur == '-' {
			l.advance()
		}
		if isDigit(l.cur) {
			for isDigit(l.cur) {
				l.advance()
			}
		} else {
			// not actually an exponent; accept the (rare) malformed
			// literal and let numlit report it.
			_ = save
		}
	}

	lit := string(l.src[start:l.off])
	res, err := numlit.Parse(lit)
	if err != nil {
		l.errorf(pos, "%s", err)
		return token.New(token.ERROR, lit, 0, pos), nil
	}
	if res.IsFloat {
		return token.New(token.NUMBER, lit, 1, pos), nil
	}
	return token.New(token.NUMBER, lit, 0, pos), nil
}

// scanQuoted accumulates byte-verbatim content until the matching quote.
// Escape sequences are not interpreted in this revision of the language.
func (l *Lexer) scanQuoted(quote rune, kind token.Kind) (token.Token, error) {
	startPos := l.pos()
	start := l.off
	for l.cur != quote {
		if l.cur == -1 {
			l.mode = modeNormal
			return token.Token{}, &FatalError{File: l.file, Pos: startPos, Msg: "unterminated " + kindName(kind) + " literal"}
		}
		l.advance()
	}
	content := string(l.src[start:l.off])
	l.advance() // consume closing quote
	l.mode = modeNormal
	return token.New(kind, content, 0, startPos), nil
}

func kindName(k token.Kind) string {
	if k == token.CHAR {
		return "character"
	}
	return "string"
}

// scanLineComment consumes until newline or EOF, either of which returns
// the lexer to normal mode.
func (l *Lexer) scanLineComment() (token.Token, error) {
	pos := l.pos()
	start := l.off
	for l.cur != '\n' && l.cur != -1 {
		l.advance()
	}
	l.mode = modeNormal
	return token.New(token.LINE_COMMENT, string(l.src[start:l.off]), 0, pos), nil
}

func (l *Lexer) peekByteRune() rune {
	return rune(l.peekByte())
}

func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

func lower(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
