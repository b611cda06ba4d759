package irgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltlang/saltc/lang/irgen"
	"github.com/saltlang/saltc/lang/lexer"
	"github.com/saltlang/saltc/lang/parser"
	"github.com/saltlang/saltc/lang/token"
)

func compile(t *testing.T, src string) (string, *token.DiagnosticList) {
	t.Helper()
	var diags token.DiagnosticList
	toks, err := lexer.New("test.sl", []byte(src), &diags).Lex()
	require.NoError(t, err)
	prog, err := parser.New("test.sl", toks, &diags).Parse()
	require.NoError(t, err)

	e := irgen.New("test.sl", "test", irgen.Options{EntryPoint: "main"}, &diags)
	mod, err := e.Emit(prog)
	require.NoError(t, err)
	return mod.String(), &diags
}

// triple(x) multiplies its argument by the constant 3 and the function
// verifies (no unterminated blocks).
func TestScenarioTripleFunction(t *testing.T) {
	ir, diags := compile(t, "fn triple(int x) -> int:\n\treturn x * 3\n")
	require.False(t, diags.HasErrors())
	assert.Contains(t, ir, "define i32 @triple(i32")
	assert.Contains(t, ir, "mul")
	assert.Contains(t, ir, "ret i32")
}

// ptrsum loads through p and through p+1 (offset by sizeof(int) = 4 bytes)
// and adds the two loads.
func TestScenarioPtrsumFunction(t *testing.T) {
	ir, diags := compile(t, "fn ptrsum(int* p) -> int:\n\treturn *p + *(p + 1)\n")
	require.False(t, diags.HasErrors())
	assert.Contains(t, ir, "define i32 @ptrsum(i32*")
	assert.Equal(t, 2, strings.Count(ir, "load i32,"))
	assert.Contains(t, ir, "mul")
	assert.Contains(t, ir, "add")
}

// An empty body warns and still returns a (poison) value of the declared
// return type rather than leaving the function unterminated.
func TestScenarioEmptyBodyWarnsAndReturnsPoison(t *testing.T) {
	ir, diags := compile(t, "fn f() -> int:\n")
	found := false
	for _, d := range diags.All() {
		if d.Level == token.Warning && strings.Contains(d.Message, "does not end with a return") {
			found = true
		}
	}
	assert.True(t, found)
	assert.Contains(t, ir, "ret i32")
}

// Calling an undeclared function is an error, recorded during parsing
// (before the emitter ever runs), and does not panic the pipeline.
func TestScenarioUndefinedCalleeIsError(t *testing.T) {
	_, diags := compile(t, "fn f() -> int:\n\treturn g(1)\n")
	assert.True(t, diags.HasErrors())
}

// Every fully-typed function emitted must pass verification: every block
// ends in a terminator, including both arms and the merge block of an if.
func TestIfExpressionAllBlocksTerminated(t *testing.T) {
	ir, diags := compile(t, "fn f(int x) -> int:\n\treturn if x then 1 else 2\n")
	require.False(t, diags.HasErrors())
	// both arms are long literals, so the merge PHI unifies at i64 and the
	// return truncates back to the declared i32.
	assert.Contains(t, ir, "phi i64")
	assert.Contains(t, ir, "br i1")
}

func TestVoidFunctionImplicitReturn(t *testing.T) {
	ir, diags := compile(t, "extern fn print(void* s)\nfn f() -> void:\n\tprint(null)\n")
	require.False(t, diags.HasErrors())
	assert.Contains(t, ir, "ret void")
}

func TestLetAllocatesSlotAndAssignmentStores(t *testing.T) {
	ir, diags := compile(t, "fn f() -> long:\n\tlet x = 1\n\tx = x + 2\n\treturn x\n")
	require.False(t, diags.HasErrors())
	assert.Contains(t, ir, "alloca i64")
	assert.Contains(t, ir, "store i64")
	assert.Contains(t, ir, "ret i64")
}

// A compound assignment desugars to load, apply the underlying operator,
// store.
func TestCompoundAssignDesugars(t *testing.T) {
	ir, diags := compile(t, "fn f() -> long:\n\tlet x = 1\n\tx += 2\n\treturn x\n")
	require.False(t, diags.HasErrors())
	assert.Contains(t, ir, "add i64")
	assert.Contains(t, ir, "store i64")
}

// A comparison initializer carries its operands' promoted type in the AST,
// so the i1 result must be widened to the declared slot type before the
// store.
func TestLetComparisonInitializerConvertsToSlotType(t *testing.T) {
	ir, diags := compile(t, "fn f(long x, long y) -> long:\n\tlet b = x < y\n\treturn b\n")
	require.False(t, diags.HasErrors())
	assert.Contains(t, ir, "icmp slt")
	assert.Contains(t, ir, "store i64")
	assert.NotContains(t, ir, "store i1 ")
}

func TestShiftAssignUsesArithmeticShiftForSigned(t *testing.T) {
	ir, diags := compile(t, "fn f() -> long:\n\tlet x = 16\n\tx >>= 2\n\treturn x\n")
	require.False(t, diags.HasErrors())
	assert.Contains(t, ir, "ashr")
}

func TestExplicitCastIntToPointer(t *testing.T) {
	ir, diags := compile(t, "fn f(long n) -> int*:\n\treturn n as int*\n")
	require.False(t, diags.HasErrors())
	assert.Contains(t, ir, "inttoptr")
}

func TestImplicitIntToFloatOnReturn(t *testing.T) {
	ir, diags := compile(t, "fn f() -> double:\n\treturn 1\n")
	require.False(t, diags.HasErrors())
	assert.Contains(t, ir, "ret double")
}

// Pointer comparisons reduce both sides to a word integer and compare
// unsigned.
func TestPointerComparisonGoesThroughWordInt(t *testing.T) {
	ir, diags := compile(t, "fn f(int* p) -> bool:\n\treturn p == null\n")
	require.False(t, diags.HasErrors())
	assert.Contains(t, ir, "ptrtoint")
	assert.Contains(t, ir, "icmp eq")
}

func TestDivisionByLiteralZeroWarns(t *testing.T) {
	_, diags := compile(t, "fn f() -> long:\n\treturn 1 / 0\n")
	require.False(t, diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Level == token.Warning && strings.Contains(d.Message, "division by literal zero") {
			found = true
		}
	}
	assert.True(t, found)
}

// The repeat lowering still leaves every block terminated, even though its
// exit test is the known-buggy constant comparison.
func TestRepeatAllBlocksTerminated(t *testing.T) {
	ir, diags := compile(t, "fn main() -> void:\n\trepeat 3: main()\n\treturn\n")
	require.False(t, diags.HasErrors())
	assert.Contains(t, ir, "phi i32")
	assert.Contains(t, ir, "ret void")
}

// The factorial example from the language's documentation: recursion, a
// conditional expression with a comparison, and the unreachable trailing
// return sentinel.
func TestFactorialRecursion(t *testing.T) {
	src := "fn factorial(long n) -> long:\n" +
		"\tif n <= 1 then 1 else n * factorial(n - 1)\n" +
		"\treturn 1\n"
	ir, diags := compile(t, src)
	require.False(t, diags.HasErrors())
	assert.Contains(t, ir, "define i64 @factorial(i64")
	assert.Contains(t, ir, "call i64 @factorial")
	assert.Contains(t, ir, "icmp sle")
	assert.Contains(t, ir, "phi i64")
}

func TestEntryPointSeenTracksMainDefinition(t *testing.T) {
	var diags token.DiagnosticList
	toks, err := lexer.New("test.sl", []byte("fn main() -> void:\n\treturn\n"), &diags).Lex()
	require.NoError(t, err)
	prog, err := parser.New("test.sl", toks, &diags).Parse()
	require.NoError(t, err)

	e := irgen.New("test.sl", "test", irgen.Options{EntryPoint: "main"}, &diags)
	_, err = e.Emit(prog)
	require.NoError(t, err)
	assert.True(t, e.EntryPointSeen())
}
