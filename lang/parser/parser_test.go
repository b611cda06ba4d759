package parser_test

import (
	"testing"

	"github.com/saltlang/saltc/lang/ast"
	"github.com/saltlang/saltc/lang/lexer"
	"github.com/saltlang/saltc/lang/parser"
	"github.com/saltlang/saltc/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) (*ast.Program, *token.DiagnosticList) {
	t.Helper()
	var diags token.DiagnosticList
	toks, err := lexer.New("test.sl", []byte(src), &diags).Lex()
	require.NoError(t, err)
	prog, err := parser.New("test.sl", toks, &diags).Parse()
	require.NoError(t, err)
	return prog, &diags
}

func TestParseTripleFunction(t *testing.T) {
	prog, diags := parseSrc(t, "fn triple(int x) -> int:\n\treturn x * 3\n")
	require.False(t, diags.HasErrors())
	require.Len(t, prog.Functions, 1)
	fn := prog.Functions[0]
	assert.Equal(t, "triple", fn.Decl.Name)
	require.Len(t, fn.Decl.Params, 1)
	assert.Equal(t, "x", fn.Decl.Params[0].Name)
	require.Len(t, fn.Body, 1)
	ret, ok := fn.Body[0].(*ast.Return)
	require.True(t, ok)
	bin, ok := ret.Payload.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", bin.Op)
}

func TestParsePtrsumFunction(t *testing.T) {
	prog, diags := parseSrc(t, "fn ptrsum(int* p) -> int:\n\treturn *p + *(p + 1)\n")
	require.False(t, diags.HasErrors())
	require.Len(t, prog.Functions, 1)
	fn := prog.Functions[0]
	assert.True(t, fn.Decl.Params[0].Type().IsPointer())
}

func TestParsePrecedenceGrouping(t *testing.T) {
	// "x * y + z" should group as (x*y) + z given * binds tighter than +.
	prog, _ := parseSrc(t, "fn f(int x, int y, int z) -> int:\n\treturn x * y + z\n")
	require.Len(t, prog.Functions, 1)
	ret := prog.Functions[0].Body[0].(*ast.Return)
	top, ok := ret.Payload.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", top.Op)
	_, leftIsMul := top.Left.(*ast.Binary)
	assert.True(t, leftIsMul)
}

func TestUndefinedFunctionCallReportsError(t *testing.T) {
	_, diags := parseSrc(t, "fn f() -> int:\n\treturn g(1)\n")
	assert.True(t, diags.HasErrors())
}

func TestIfExprParsesCondThenElse(t *testing.T) {
	prog, diags := parseSrc(t, "fn f() -> int:\n\treturn if 1 then 2 else 3\n")
	require.False(t, diags.HasErrors())
	ret := prog.Functions[0].Body[0].(*ast.Return)
	ifE, ok := ret.Payload.(*ast.If)
	require.True(t, ok)
	assert.NotNil(t, ifE.Cond)
	assert.NotNil(t, ifE.Then)
	assert.NotNil(t, ifE.Else)
}

// A literal past the u64 range is reported at the token's position,
// replaced by a typed poison, and parsing continues to the end of the
// function.
func TestOverflowLiteralRecovers(t *testing.T) {
	prog, diags := parseSrc(t, "fn f() -> long:\n\treturn 18446744073709551616\n")
	assert.True(t, diags.HasErrors())
	require.Len(t, prog.Functions, 1)
	require.Len(t, prog.Functions[0].Body, 1)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	prog, diags := parseSrc(t, "fn f(int a, int b) -> int:\n\ta = b = 1\n\treturn a\n")
	require.False(t, diags.HasErrors())
	top, ok := prog.Functions[0].Body[0].(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "=", top.Op)
	inner, ok := top.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "=", inner.Op)
}

func TestLetBindingEntersScope(t *testing.T) {
	prog, diags := parseSrc(t, "fn f() -> long:\n\tlet x = 1\n\treturn x\n")
	require.False(t, diags.HasErrors())
	require.Len(t, prog.Functions[0].Body, 2)
	ret := prog.Functions[0].Body[1].(*ast.Return)
	v, ok := ret.Payload.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)
}

func TestNegativeNumberLiteral(t *testing.T) {
	prog, diags := parseSrc(t, "fn f() -> long:\n\treturn -5\n")
	require.False(t, diags.HasErrors())
	ret := prog.Functions[0].Body[0].(*ast.Return)
	v, ok := ret.Payload.(*ast.Value)
	require.True(t, ok)
	assert.Equal(t, "5", v.Raw)
	assert.Equal(t, int64(-5), int64(v.Int))
}

func TestMinusBeforeNonNumberIsError(t *testing.T) {
	_, diags := parseSrc(t, "fn f(int x) -> int:\n\treturn -x\n")
	assert.True(t, diags.HasErrors())
}

func TestExternDeclaration(t *testing.T) {
	prog, diags := parseSrc(t, "extern fn print(void* s)\n")
	require.False(t, diags.HasErrors())
	require.Len(t, prog.Externs, 1)
	assert.Equal(t, "print", prog.Externs[0].Name)
}
