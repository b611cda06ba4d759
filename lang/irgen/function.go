package irgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/saltlang/saltc/lang/ast"
	"github.com/saltlang/saltc/lang/typetab"
)

// ensureProto returns the declared *ir.Func for decl, building its prototype
// on first reference. The prototype is shared between an extern and a later
// matching definition.
func (e *Emitter) ensureProto(decl *ast.Declaration) *ir.Func {
	if f, ok := e.funcs[decl.Name]; ok {
		return f
	}
	params := make([]*ir.Param, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = ir.NewParam(p.Name, p.Type().Backend())
	}
	f := e.mod.NewFunc(decl.Name, decl.ReturnType.Backend(), params...)
	e.funcs[decl.Name] = f
	e.decls[decl.Name] = decl
	return f
}

// emitFunction lowers one defined function: entry block, per-parameter
// stack slots in one fresh innermost scope, the body in order, an implicit
// terminator if the body doesn't already end in one, and a verification
// pass.
func (e *Emitter) emitFunction(fn *ast.Function) error {
	f := e.ensureProto(fn.Decl)
	if len(f.Blocks) > 0 {
		e.errorAt(fn.Decl, "function %q redefined", fn.Decl.Name)
		return nil
	}

	entry := f.NewBlock("entry")
	e.fn = f
	e.block = entry
	e.callID = 0
	e.pushScope()

	for i, param := range f.Params {
		slot := entry.NewAlloca(param.Typ)
		entry.NewStore(param, slot)
		e.declareSlot(fn.Decl.Params[i].Name, slot)
	}

	expected := fn.Decl.ReturnType
	for _, stmt := range fn.Body {
		if ret, ok := stmt.(*ast.Return); ok {
			ret.ExpectedReturn = expected
		}
		e.emitExpr(stmt)
	}

	if !endsInReturn(fn.Body) {
		if expected.Type == typetab.VOID {
			e.block.NewRet(nil)
		} else {
			e.block.NewRet(e.poison(expected))
			e.warnAt(fn.Decl, "%s does not end with a return instruction", fn.Decl.Name)
		}
	}

	e.popScope()

	if err := e.verifyFunc(f); err != nil {
		return &FatalError{Func: fn.Decl.Name, Msg: err.Error()}
	}

	if fn.Decl.Name == e.opts.EntryPoint {
		e.entrySeen = true
	}
	return nil
}

func endsInReturn(body []ast.Expr) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(*ast.Return)
	return ok
}

// emitCall implements Call codegen. Arity is already checked by the parser
// against the declared signature, so a
// missing callee here would indicate an internal inconsistency rather than
// a source error; per-argument conversion still runs here since the parser
// only records each parameter's declared type, not whether the argument
// actually converts to it.
func (e *Emitter) emitCall(c *ast.Call) value.Value {
	fn, ok := e.funcs[c.Callee]
	if !ok {
		e.errorAt(c, "no function exists named %s", c.Callee)
		return e.poison(c.Type())
	}
	decl := e.decls[c.Callee]
	if len(c.Args) != len(decl.Params) {
		e.errorAt(c, "function %s expects %d argument(s), got %d", c.Callee, len(decl.Params), len(c.Args))
		return e.poison(c.Type())
	}

	args := make([]value.Value, len(c.Args))
	for i, argExpr := range c.Args {
		av := e.emitExpr(argExpr)
		paramTi := decl.Params[i].Type()
		converted := e.convertImplicit(av, paramTi, argExpr.Type().Type.Signed)
		if converted == nil {
			e.errorAt(argExpr, "argument %d to %s has incompatible type %s", i+1, c.Callee, argExpr.Type())
			converted = e.poison(paramTi)
		}
		args[i] = converted
	}

	call := e.block.NewCall(fn, args...)
	if decl.ReturnType.Type != typetab.VOID {
		name := "calltmp"
		if e.callID > 0 {
			name = fmt.Sprintf("calltmp%d", e.callID)
		}
		e.callID++
		call.LocalName = name
	}
	return call
}

// emitReturn lowers a return expression. ExpectedReturn still holding the
// RETURN sentinel means the node was reached before any enclosing Function
// assigned the real expected type; such a return emits no terminator at
// all. Every Return actually emitted from a function body has
// ExpectedReturn overwritten first, in emitFunction's body loop.
func (e *Emitter) emitReturn(n *ast.Return) value.Value {
	expected := n.ExpectedReturn
	if expected.Type == typetab.RETURN {
		return e.poison(typetab.Of(typetab.VOID))
	}

	if n.Payload == nil {
		if expected.Type != typetab.VOID {
			e.errorAt(n, "missing return value, %s expected", expected)
			e.block.NewRet(e.poison(expected))
			return e.poison(typetab.Of(typetab.VOID))
		}
		e.block.NewRet(nil)
		return e.poison(typetab.Of(typetab.VOID))
	}

	payloadTi := n.Payload.Type()
	res := e.emitExpr(n.Payload)

	if expected.Type == typetab.VOID && payloadTi.Type == typetab.VOID {
		e.block.NewRet(nil)
		return e.poison(typetab.Of(typetab.VOID))
	}

	if !payloadTi.Equal(expected) {
		converted := e.convertImplicit(res, expected, payloadTi.Type.Signed)
		if converted != nil {
			res = converted
		} else {
			e.errorAt(n, "returning %s when %s was expected", payloadTi, expected)
			res = e.poison(expected)
		}
	}

	if expected.Type == typetab.VOID {
		e.block.NewRet(nil)
	} else {
		e.block.NewRet(res)
	}
	return e.poison(typetab.Of(typetab.VOID))
}
