package irgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/saltlang/saltc/lang/ast"
	"github.com/saltlang/saltc/lang/typetab"
)

// emitExpr is the single codegen dispatch point lang/ast's package doc
// describes: one exhaustive type switch over the ten Expr variants, no
// per-node virtual methods.
func (e *Emitter) emitExpr(expr ast.Expr) value.Value {
	switch n := expr.(type) {
	case *ast.Value:
		return e.emitValue(n)
	case *ast.Variable:
		return e.emitVariable(n)
	case *ast.Binary:
		return e.emitBinary(n)
	case *ast.If:
		return e.emitIf(n)
	case *ast.Repeat:
		return e.emitRepeat(n)
	case *ast.Call:
		return e.emitCall(n)
	case *ast.Type:
		return e.poison(n.Instance)
	case *ast.Deref:
		return e.emitDeref(n)
	case *ast.Return:
		return e.emitReturn(n)
	case *ast.NewVariable:
		return e.emitNewVariable(n)
	}
	panic(fmt.Sprintf("irgen: unhandled ast node %T", expr))
}

func (e *Emitter) emitValue(v *ast.Value) value.Value {
	ti := v.Type()
	switch {
	case ti.IsPointer() && ti.Pointee == typetab.CHAR:
		return e.internString(v.Raw)
	case ti.IsPointer():
		return constant.NewNull(ti.Backend().(*types.PointerType))
	case ti.Type == typetab.CHAR || ti.Type == typetab.UCHAR:
		var b byte
		if len(v.Raw) > 0 {
			b = v.Raw[0]
		}
		return constant.NewInt(types.I8, int64(b))
	case typetab.IsFloat(ti.Type):
		return constant.NewFloat(ti.Backend().(*types.FloatType), v.Float)
	default:
		it, _ := ti.Backend().(*types.IntType)
		if it == nil {
			return e.poison(ti)
		}
		return constant.NewInt(it, int64(v.Int))
	}
}

func (e *Emitter) emitVariable(n *ast.Variable) value.Value {
	slot, ok := e.lookupSlot(n.Name)
	if !ok {
		e.errorAt(n, "could not resolve variable %q", n.Name)
		return e.poison(n.Type())
	}
	return e.block.NewLoad(n.Type().Backend(), slot)
}

// emitDeref loads through a pointer value; a Type() of VOID means the static
// type resolved to a pointer with no element type to load, so dereferencing
// void* requires an `as` cast first.
func (e *Emitter) emitDeref(n *ast.Deref) value.Value {
	ptrVal := e.emitExpr(n.Ptr)
	switch n.Type().Type {
	case typetab.VOID:
		e.errorAt(n, "attempting to dereference wrong type, cast to a pointer type using 'as' first")
		return e.poison(n.Type())
	case typetab.ERROR:
		// already reported at parse time
		return e.poison(n.Type())
	}
	return e.block.NewLoad(n.Type().Backend(), ptrVal)
}

// emitNewVariable implements `let`: the initializer is evaluated, a stack
// slot is allocated at the current insertion point, and the name is bound
// in the innermost scope.
func (e *Emitter) emitNewVariable(n *ast.NewVariable) value.Value {
	initVal := e.emitExpr(n.Initializer)
	converted := e.convertImplicit(initVal, n.Type(), n.Initializer.Type().Type.Signed)
	if converted == nil {
		e.errorAt(n, "cannot initialize %q with type %s", n.Name, n.Initializer.Type())
		converted = e.poison(n.Type())
	}
	slot := e.block.NewAlloca(n.Type().Backend())
	e.block.NewStore(converted, slot)
	e.declareSlot(n.Name, slot)
	return converted
}

// internString returns a pointer to a deduplicated, nul-terminated global
// constant for content, creating it on first use, so equal string literals
// share one emission per module.
func (e *Emitter) internString(content string) value.Value {
	if g, ok := e.strings.Get(content); ok {
		return e.stringPtr(g)
	}
	data := constant.NewCharArrayFromString(content + "\x00")
	name := fmt.Sprintf(".str.%d", e.nextStrID)
	e.nextStrID++
	g := e.mod.NewGlobalDef(name, data)
	g.Immutable = true
	e.strings.Put(content, g)
	return e.stringPtr(g)
}

func (e *Emitter) stringPtr(g *ir.Global) value.Value {
	zero := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(g.ContentType, g, zero, zero)
}
