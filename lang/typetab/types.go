// Package typetab implements the canonical, process-wide registry of
// primitive types. Types are singletons: two TypeInstance values compare
// structurally, but the *Type they reference compares by identity.
package typetab

import (
	"fmt"

	"github.com/llir/llvm/ir/types"
)

// Type is a canonical, process-wide primitive type. Equality is identity:
// always compare *Type pointers, never Type values.
type Type struct {
	Name    string
	Backend types.Type // opaque backend-IR type handle
	Rank    int        // promotion order; 0 for non-arithmetic sentinels
	Signed  bool       // meaningful only for integer types
	Size    int        // size in bytes, for pointer-offset scaling; 0 for sentinels
}

func (t *Type) String() string { return t.Name }

// Sentinel and primitive types, ranked for promotion: sentinels (ERROR, NEVER,
// RETURN, VOID) sit at rank 0; integers rank by width with unsigned just
// above signed of the same width; floats rank above all integers; pointers
// rank above floats.
var (
	ERROR  = &Type{Name: "<error>", Backend: types.Void, Rank: 0}
	NEVER  = &Type{Name: "<never>", Backend: types.Void, Rank: 0}
	RETURN = &Type{Name: "<return>", Backend: types.Void, Rank: 0}
	VOID   = &Type{Name: "void", Backend: types.Void, Rank: 0}

	BOOL = &Type{Name: "bool", Backend: types.I1, Rank: 1, Signed: false, Size: 1}

	CHAR  = &Type{Name: "char", Backend: types.I8, Rank: 2, Signed: true, Size: 1}
	UCHAR = &Type{Name: "uchar", Backend: types.I8, Rank: 3, Signed: false, Size: 1}

	SHORT  = &Type{Name: "short", Backend: types.I16, Rank: 4, Signed: true, Size: 2}
	USHORT = &Type{Name: "ushort", Backend: types.I16, Rank: 5, Signed: false, Size: 2}

	INT  = &Type{Name: "int", Backend: types.I32, Rank: 6, Signed: true, Size: 4}
	UINT = &Type{Name: "uint", Backend: types.I32, Rank: 7, Signed: false, Size: 4}

	LONG  = &Type{Name: "long", Backend: types.I64, Rank: 8, Signed: true, Size: 8}
	ULONG = &Type{Name: "ulong", Backend: types.I64, Rank: 9, Signed: false, Size: 8}

	// SSIZE/USIZE are word-sized; this revision emits for 64-bit targets
	// only, so both lower to i64.
	SSIZE = &Type{Name: "ssize", Backend: types.I64, Rank: 10, Signed: true, Size: 8}
	USIZE = &Type{Name: "usize", Backend: types.I64, Rank: 11, Signed: false, Size: 8}

	FLOAT  = &Type{Name: "float", Backend: types.Float, Rank: 12, Signed: true, Size: 4}
	DOUBLE = &Type{Name: "double", Backend: types.Double, Rank: 13, Signed: true, Size: 8}

	// POINTER is the sentinel "is a pointer" type; the pointed-to type and
	// layer count live in TypeInstance, not here. Its own i8* Backend is a
	// placeholder: TypeInstance.Backend builds the typed pointer (e.g. i32**)
	// from Pointee and Layers.
	POINTER = &Type{Name: "pointer", Backend: types.NewPointer(types.I8), Rank: 14, Signed: false, Size: 8}
)

// byName indexes every non-pointer, non-sentinel primitive by its source
// spelling, used by the lexer/parser to resolve TYPE tokens.
var byName = map[string]*Type{
	"void": VOID, "bool": BOOL,
	"char": CHAR, "uchar": UCHAR,
	"short": SHORT, "ushort": USHORT,
	"int": INT, "uint": UINT,
	"long": LONG, "ulong": ULONG,
	"ssize": SSIZE, "usize": USIZE,
	"float": FLOAT, "double": DOUBLE,
}

// Lookup resolves a primitive type by its source spelling. ok is false for
// unknown names (the caller should use ERROR and report a diagnostic).
func Lookup(name string) (t *Type, ok bool) {
	t, ok = byName[name]
	return t, ok
}

// IsInteger reports whether t is one of the integer primitives.
func IsInteger(t *Type) bool {
	switch t {
	case BOOL, CHAR, UCHAR, SHORT, USHORT, INT, UINT, LONG, ULONG, SSIZE, USIZE:
		return true
	}
	return false
}

// IsFloat reports whether t is FLOAT or DOUBLE.
func IsFloat(t *Type) bool { return t == FLOAT || t == DOUBLE }

// IsSentinel reports whether t never participates in arithmetic (ERROR,
// NEVER, RETURN, VOID).
func IsSentinel(t *Type) bool {
	return t == ERROR || t == NEVER || t == RETURN || t == VOID
}

// TypeInstance is a fully qualified reference to a primitive or
// pointer-to-primitive type. For non-pointer types,
// Pointee is nil and Layers is 0. For pointer types, Type is POINTER,
// Pointee is the ultimately pointed-to non-pointer type, and Layers >= 1.
//
// Equality is structural (unlike *Type, which is canonical/identity-based).
type TypeInstance struct {
	Type    *Type
	Pointee *Type
	Layers  int
}

// Of wraps a non-pointer canonical type in a TypeInstance.
func Of(t *Type) TypeInstance { return TypeInstance{Type: t} }

// PointerTo builds the TypeInstance for a `layers`-deep pointer to pointee.
func PointerTo(pointee *Type, layers int) TypeInstance {
	if layers <= 0 {
		panic("typetab: PointerTo requires layers >= 1")
	}
	return TypeInstance{Type: POINTER, Pointee: pointee, Layers: layers}
}

// Equal reports structural equality between two TypeInstances.
func (ti TypeInstance) Equal(other TypeInstance) bool {
	return ti.Type == other.Type && ti.Pointee == other.Pointee && ti.Layers == other.Layers
}

// IsPointer reports whether ti denotes a pointer type.
func (ti TypeInstance) IsPointer() bool { return ti.Type == POINTER }

func (ti TypeInstance) String() string {
	if !ti.IsPointer() {
		return ti.Type.String()
	}
	stars := ""
	for i := 0; i < ti.Layers; i++ {
		stars += "*"
	}
	return fmt.Sprintf("%s%s", ti.Pointee, stars)
}

// Backend returns the backend-IR type handle for ti: the pointee's wrapped
// layers deep for pointers, or the type's own handle otherwise.
func (ti TypeInstance) Backend() types.Type {
	if !ti.IsPointer() {
		return ti.Type.Backend
	}
	bt := ti.Pointee.Backend
	if ti.Pointee == VOID {
		// void* lowers to i8*: LLVM has no pointer-to-void.
		bt = types.I8
	}
	for i := 0; i < ti.Layers; i++ {
		bt = types.NewPointer(bt)
	}
	return bt
}

// ElemSize returns the size in bytes used to scale pointer arithmetic on ti:
// the pointee's size, unless ti has more than one pointer layer, in which
// case the pointer's own size is used instead. The multi-layer rule is a
// known oddity of the language; callers rely on it as-is.
func (ti TypeInstance) ElemSize() int {
	if !ti.IsPointer() {
		return ti.Type.Size
	}
	if ti.Layers > 1 {
		return POINTER.Size
	}
	return ti.Pointee.Size
}

// Rank reports the promotion rank to use for ti: the pointer sentinel's rank
// for any pointer instance, the type's own rank otherwise.
func (ti TypeInstance) Rank() int {
	if ti.IsPointer() {
		return POINTER.Rank
	}
	return ti.Type.Rank
}
