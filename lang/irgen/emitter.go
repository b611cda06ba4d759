// Package irgen implements the single IR-emission pass: it walks an
// ast.Program and builds an LLVM module via github.com/llir/llvm's pure-Go
// IR builders, dispatching on each expression's concrete type with one
// exhaustive switch rather than per-node virtual methods. A recorded error
// substitutes a typed poison value and emission keeps going, so one run
// surfaces as many diagnostics as possible.
package irgen

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/saltlang/saltc/lang/ast"
	"github.com/saltlang/saltc/lang/token"
	"github.com/saltlang/saltc/lang/typetab"
)

// Options configures one Emitter run.
type Options struct {
	// EntryPoint is the function name whose presence is required for a
	// successful compilation; "main" unless overridden.
	EntryPoint string
}

// FatalError reports a condition that aborts the whole run rather than
// accumulating as a Diagnostic. The only source in this package is a failed
// function verification.
type FatalError struct {
	Func string
	Msg  string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("llvm error in function %s: %s", e.Func, e.Msg)
}

// Emitter holds the state threaded through one module's worth of codegen:
// the module under construction, the named_functions/named_strings caches,
// and the current function/block/scope-stack cursor.
type Emitter struct {
	file  string
	opts  Options
	diags *token.DiagnosticList

	mod     *ir.Module
	funcs   map[string]*ir.Func
	decls   map[string]*ast.Declaration
	strings *swiss.Map[string, *ir.Global]

	scopes []*swiss.Map[string, *ir.InstAlloca]

	fn        *ir.Func
	block     *ir.Block
	entrySeen bool
	nextStrID int
	callID    int
}

// New constructs an Emitter that will diagnose into diags and name the
// produced module moduleName.
func New(file, moduleName string, opts Options, diags *token.DiagnosticList) *Emitter {
	if opts.EntryPoint == "" {
		opts.EntryPoint = "main"
	}
	mod := ir.NewModule()
	mod.SourceFilename = moduleName
	return &Emitter{
		file:    file,
		opts:    opts,
		diags:   diags,
		mod:     mod,
		funcs:   make(map[string]*ir.Func),
		decls:   make(map[string]*ast.Declaration),
		strings: swiss.NewMap[string, *ir.Global](8),
	}
}

// Emit lowers prog into the Emitter's module, declaring every extern first
// (so calls to an extern resolve wherever it is declared) and then
// defining every function body in source order; a defined function's
// prototype exists only once its own definition is reached, so a call to a
// function defined later in the file does not resolve. It stops and returns an
// error at the first fatal condition.
func (e *Emitter) Emit(prog *ast.Program) (*ir.Module, error) {
	for _, decl := range prog.Externs {
		e.ensureProto(decl)
	}
	for _, fn := range prog.Functions {
		if err := e.emitFunction(fn); err != nil {
			return nil, err
		}
	}
	return e.mod, nil
}

// EntryPointSeen reports whether a function named Options.EntryPoint was
// defined during Emit; the driver requires this before linking.
func (e *Emitter) EntryPointSeen() bool { return e.entrySeen }

func (e *Emitter) pushScope() {
	e.scopes = append(e.scopes, swiss.NewMap[string, *ir.InstAlloca](8))
}

func (e *Emitter) popScope() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

func (e *Emitter) declareSlot(name string, slot *ir.InstAlloca) {
	e.scopes[len(e.scopes)-1].Put(name, slot)
}

func (e *Emitter) lookupSlot(name string) (*ir.InstAlloca, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok := e.scopes[i].Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

// poison stands in for a value whose computation failed: an undef of the
// expected type, letting emission continue past an already-reported error.
func (e *Emitter) poison(ti typetab.TypeInstance) value.Value {
	return undefOf(ti.Backend())
}

func (e *Emitter) errorAt(n interface{ Pos() (int, int) }, format string, args ...any) {
	line, col := n.Pos()
	e.diags.Add(e.file, token.MakePos(line, col), token.ErrorLevel, format, args...)
}

func (e *Emitter) warnAt(n interface{ Pos() (int, int) }, format string, args ...any) {
	line, col := n.Pos()
	e.diags.Add(e.file, token.MakePos(line, col), token.Warning, format, args...)
}

func (e *Emitter) warn(format string, args ...any) {
	e.diags.Add(e.file, token.Pos(0), token.Warning, format, args...)
}

// verifyFunc is a minimal stand-in for LLVM's verifyFunction: llir/llvm
// performs no verification of its own, so the one invariant this package
// checks before accepting a function is that every block it built ends in a
// terminator.
func (e *Emitter) verifyFunc(f *ir.Func) error {
	for _, blk := range f.Blocks {
		if blk.Term == nil {
			return fmt.Errorf("block %%%s has no terminator", blk.LocalIdent.Name())
		}
	}
	return nil
}
