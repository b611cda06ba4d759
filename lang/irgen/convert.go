package irgen

import (
	"math"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/saltlang/saltc/lang/typetab"
)

func undefOf(t types.Type) value.Value { return constant.NewUndef(t) }

// bitSize returns the bit width of an integer backend type, 0 otherwise.
func bitSize(t types.Type) int {
	if it, ok := t.(*types.IntType); ok {
		return int(it.BitSize)
	}
	return 0
}

// convertImplicit inspects v's *actual* LLVM type (not a separately tracked
// salt type) to decide what conversion, if any, is needed, and returns nil
// when the conversion isn't one of the implicit rules. signed describes v's
// source type and only matters for extend/float direction. Deriving the
// "current type" from v.Type() rather than from a caller-supplied
// TypeInstance is what lets a comparison's native i1 result convert
// correctly even though the AST node that produced it carries its operands'
// promoted numeric type, not bool.
func (e *Emitter) convertImplicit(v value.Value, to typetab.TypeInstance, signed bool) value.Value {
	if v == nil {
		return nil
	}
	from := v.Type()
	target := to.Backend()
	if types.Equal(from, target) {
		return v
	}

	switch cur := from.(type) {
	case *types.IntType:
		switch {
		case to.Type == typetab.BOOL:
			zero := constant.NewInt(cur, 0)
			return e.block.NewICmp(enum.IPredNE, v, zero)
		case typetab.IsInteger(to.Type) && !to.IsPointer():
			toBits, fromBits := bitSize(target), int(cur.BitSize)
			switch {
			case toBits > fromBits:
				if signed {
					return e.block.NewSExt(v, target)
				}
				return e.block.NewZExt(v, target)
			case toBits < fromBits:
				return e.block.NewTrunc(v, target)
			default:
				return v
			}
		case typetab.IsFloat(to.Type):
			if signed {
				return e.block.NewSIToFP(v, target)
			}
			return e.block.NewUIToFP(v, target)
		}
		return nil

	case *types.FloatType:
		switch {
		case to.Type == typetab.BOOL:
			zero := constant.NewFloat(cur, 0)
			return e.block.NewFCmp(enum.FPredONE, v, zero)
		case typetab.IsFloat(to.Type):
			if to.Type.Size > sizeOfFloat(cur) {
				return e.block.NewFPExt(v, target)
			}
			return e.block.NewFPTrunc(v, target)
		case typetab.IsInteger(to.Type) && !to.IsPointer():
			e.checkFloatOverflow(v, to)
			if to.Type.Signed {
				return e.block.NewFPToSI(v, target)
			}
			return e.block.NewFPToUI(v, target)
		}
		return nil

	case *types.PointerType:
		switch {
		case to.Type == typetab.BOOL:
			word := e.block.NewPtrToInt(v, types.I64)
			zero := constant.NewInt(types.I64, 0)
			return e.block.NewICmp(enum.IPredNE, word, zero)
		}
		return nil
	}
	return nil
}

// convertExplicit layers the `as`-only rules on top of convertImplicit:
// anything casts to void as a void-typed poison, and any integer/float can
// be cast to a pointer by first widening to a word-sized integer and then
// reinterpreting the bits.
func (e *Emitter) convertExplicit(v value.Value, to typetab.TypeInstance, signed bool) value.Value {
	if to.Type == typetab.VOID && !to.IsPointer() {
		return undefOf(types.Void)
	}
	if imp := e.convertImplicit(v, to, signed); imp != nil {
		return imp
	}
	if v == nil {
		return nil
	}
	if !to.IsPointer() {
		return nil
	}
	switch v.Type().(type) {
	case *types.FloatType:
		word := typetab.Of(typetab.USIZE)
		asInt := e.convertImplicit(v, word, signed)
		if asInt == nil {
			return nil
		}
		return e.convertExplicit(asInt, to, false)
	case *types.IntType:
		word := typetab.Of(typetab.USIZE)
		if signed {
			word = typetab.Of(typetab.SSIZE)
		}
		extended := e.convertImplicit(v, word, signed)
		if extended == nil {
			extended = v
		}
		return e.block.NewIntToPtr(extended, to.Backend())
	}
	return nil
}

func sizeOfFloat(t *types.FloatType) int {
	switch t.Kind {
	case types.FloatKindFloat:
		return 4
	case types.FloatKindDouble:
		return 8
	}
	return 0
}

// checkFloatOverflow warns when a compile-time float constant would not fit
// the destination integer range; the conversion still happens, the constant
// just gets flagged.
func (e *Emitter) checkFloatOverflow(v value.Value, to typetab.TypeInstance) {
	cf, ok := v.(*constant.Float)
	if !ok || cf.NaN || cf.X == nil {
		return
	}
	f, _ := cf.X.Float64()
	bits := bitSize(to.Backend())
	if bits == 0 {
		return
	}
	if to.Type.Signed {
		limit := math.Pow(2, float64(bits-1))
		if f >= limit || f < -limit {
			e.warn("constant %g overflows %s", f, to)
		}
		return
	}
	limit := math.Pow(2, float64(bits))
	if f >= limit || f < 0 {
		e.warn("constant %g overflows %s", f, to)
	}
}
