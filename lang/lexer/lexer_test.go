package lexer_test

import (
	"testing"

	"github.com/saltlang/saltc/lang/lexer"
	"github.com/saltlang/saltc/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	var diags token.DiagnosticList
	l := lexer.New("test.sl", []byte(src), &diags)
	toks, err := l.Lex()
	require.NoError(t, err)
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestFusionIncrementDecrement(t *testing.T) {
	assert.Equal(t, []token.Kind{token.INCREMENT, token.EOF}, kinds(lexAll(t, "++")))
	assert.Equal(t, []token.Kind{token.DECREMENT, token.EOF}, kinds(lexAll(t, "--")))
}

func TestFusionCompoundAssign(t *testing.T) {
	toks := lexAll(t, "<<=")
	assert.Equal(t, []token.Kind{token.SHL_ASSIGN, token.EOF}, kinds(toks))
}

func TestFusionArrow(t *testing.T) {
	assert.Equal(t, []token.Kind{token.ARROW, token.EOF}, kinds(lexAll(t, "->")))
}

func TestFusionUnsignedType(t *testing.T) {
	toks := lexAll(t, "unsigned int")
	require.Len(t, toks, 2)
	assert.Equal(t, token.TYPE, toks[0].Kind)
	assert.Equal(t, "uint", toks[0].Data)
}

func TestFusionPointerLayers(t *testing.T) {
	toks := lexAll(t, "int**")
	require.Len(t, toks, 2)
	assert.Equal(t, token.TYPE, toks[0].Kind)
	assert.Equal(t, "int", toks[0].Data)
	assert.Equal(t, 2, toks[0].Count)
}

func TestFourSpacesCollapseToTab(t *testing.T) {
	toks := lexAll(t, "    x")
	require.Len(t, toks, 3)
	assert.Equal(t, token.TAB, toks[0].Kind)
	assert.Equal(t, token.IDENT, toks[1].Kind)
}

func TestThreeSpacesStayWS(t *testing.T) {
	toks := lexAll(t, "   x")
	require.Len(t, toks, 5)
	assert.Equal(t, []token.Kind{token.WS, token.WS, token.WS, token.IDENT}, kinds(toks[:4]))
}

func TestNumberLiteralKindsIntVsFloat(t *testing.T) {
	toks := lexAll(t, "42 3.14")
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, token.NUMBER, toks[0].Kind)
	assert.Equal(t, 0, toks[0].Count)
	// toks[1] is WS
	assert.Equal(t, token.NUMBER, toks[2].Kind)
	assert.Equal(t, 1, toks[2].Count)
}

func TestCharAndStringLiteralsByteVerbatim(t *testing.T) {
	toks := lexAll(t, `"hi" 'a'`)
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "hi", toks[0].Data)
	// toks[1] is WS
	assert.Equal(t, token.CHAR, toks[2].Kind)
	assert.Equal(t, "a", toks[2].Data)
}

func TestUnterminatedStringIsFatal(t *testing.T) {
	var diags token.DiagnosticList
	l := lexer.New("test.sl", []byte(`"oops`), &diags)
	_, err := l.Lex()
	require.Error(t, err)
	var fe *lexer.FatalError
	require.ErrorAs(t, err, &fe)
}

func TestLineTracking(t *testing.T) {
	toks := lexAll(t, "x\ny")
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, 1, toks[0].Line())
	// toks[1] is EOL, toks[2] should be on line 2
	yTok := toks[2]
	assert.Equal(t, token.IDENT, yTok.Kind)
	assert.Equal(t, 2, yTok.Line())
}

// A fused token's column is the first consumed character's column.
func TestFusedTokenKeepsFirstColumn(t *testing.T) {
	toks := lexAll(t, "a != b")
	require.GreaterOrEqual(t, len(toks), 3)
	neq := toks[2]
	assert.Equal(t, token.NEQ, neq.Kind)
	assert.Equal(t, 3, neq.Col())
}

func TestFusionEqualEqual(t *testing.T) {
	assert.Equal(t, []token.Kind{token.EQ, token.EOF}, kinds(lexAll(t, "==")))
}

func TestLegacySlashSlashEntersLineComment(t *testing.T) {
	var diags token.DiagnosticList
	l := lexer.New("test.sl", []byte("// old style\nx"), &diags)
	toks, err := l.Lex()
	require.NoError(t, err)
	assert.NotEmpty(t, diags.All())
	found := false
	for _, tk := range toks {
		if tk.Kind == token.IDENT && tk.Data == "x" {
			found = true
		}
	}
	assert.True(t, found)
}
