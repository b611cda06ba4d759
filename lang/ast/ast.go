// Package ast defines the typed abstract syntax tree produced by the parser.
// Every node is a plain tagged struct with no behavior of its own: the
// single emission pass (lang/irgen) dispatches on the concrete type with one
// exhaustive type switch. This keeps the tree free of any dependency on the
// backend.
package ast

import "github.com/saltlang/saltc/lang/typetab"

// Expr is the sum type of the ten expression variants. The unexported
// marker method keeps the set closed to this package.
type Expr interface {
	exprNode()
	Pos() (line, col int)
	Type() typetab.TypeInstance
}

// Base carries the fields every expression has: position and resolved type.
// Embedded (by name) in every concrete node.
type Base struct {
	Line, Col int
	Typ       typetab.TypeInstance
}

func (b Base) Pos() (line, col int)       { return b.Line, b.Col }
func (b Base) Type() typetab.TypeInstance { return b.Typ }

// Value is an integer/float/string/char literal.
type Value struct {
	Base
	// Raw is the literal's source text (numbers) or content (char/string).
	Raw string
	// Int/Float hold the parsed value for NUMBER literals; meaningless for
	// string/char literals, which are carried entirely in Raw.
	Int   uint64
	Float float64
}

func (*Value) exprNode() {}

// Variable is a name reference resolved against the active scope stack at
// parse time.
type Variable struct {
	Base
	Name string
}

func (*Variable) exprNode() {}

// Binary is a two-operand expression tagged with its source operator.
type Binary struct {
	Base
	Op          string // operator spelling, e.g. "+", "as", "="
	Left, Right Expr
}

func (*Binary) exprNode() {}

// If is a three-armed conditional expression; Else is mandatory in this
// language (no statement-only if).
type If struct {
	Base
	Cond, Then, Else Expr
}

func (*If) exprNode() {}

// Repeat is a fixed-count loop: Count evaluates once, Body runs that many
// times. The known-buggy lowering (no loop counter re-entered into scope) is
// implemented in lang/irgen, not here; this node is a faithful structural
// record of the source.
type Repeat struct {
	Base
	Count, Body Expr
}

func (*Repeat) exprNode() {}

// Call invokes a named function with positional arguments.
type Call struct {
	Base
	Callee string
	Args   []Expr
}

func (*Call) exprNode() {}

// Type is a syntactic type reference, used only as the RHS of `as`.
type Type struct {
	Base
	Instance typetab.TypeInstance
}

func (*Type) exprNode() {}

// Deref dereferences a pointer expression; its own Type has one fewer
// pointer layer than Ptr's.
type Deref struct {
	Base
	Ptr Expr
}

func (*Deref) exprNode() {}

// Return yields from the enclosing function. Payload is nil for a bare
// `return`. ExpectedReturn is filled in by the enclosing Function's codegen,
// not by the parser; it starts as typetab.Of(typetab.RETURN), the sentinel
// meaning "no function context has claimed this return yet".
type Return struct {
	Base
	Payload        Expr
	ExpectedReturn typetab.TypeInstance
}

func (*Return) exprNode() {}

// NewVariable declares a local, allocating a stack slot at codegen time.
type NewVariable struct {
	Base
	Name        string
	Initializer Expr
}

func (*NewVariable) exprNode() {}

// NewBase constructs the common fields shared by every node; exported so the
// parser package can build nodes without repeating the field list at every
// call site.
func NewBase(line, col int, typ typetab.TypeInstance) Base {
	return Base{Line: line, Col: col, Typ: typ}
}

// SetType overwrites a node's resolved type in place; the parser uses this
// when a type is only known after the rest of the node's children have been
// parsed (e.g. Deref, whose type depends on Ptr's already-parsed type).
func SetType(e Expr, typ typetab.TypeInstance) {
	switch n := e.(type) {
	case *Value:
		n.Typ = typ
	case *Variable:
		n.Typ = typ
	case *Binary:
		n.Typ = typ
	case *If:
		n.Typ = typ
	case *Repeat:
		n.Typ = typ
	case *Call:
		n.Typ = typ
	case *Type:
		n.Typ = typ
	case *Deref:
		n.Typ = typ
	case *Return:
		n.Typ = typ
	case *NewVariable:
		n.Typ = typ
	}
}

// Declaration is a function signature: identifier, ordered parameters, and
// return type.
type Declaration struct {
	Name       string
	Params     []*Variable
	ReturnType typetab.TypeInstance
	Line, Col  int
}

// Pos returns the declaration's source position, matching the accessor the
// expression nodes expose.
func (d *Declaration) Pos() (line, col int) { return d.Line, d.Col }

// Function is a declaration plus its ordered body. A Declaration with no
// Function (an extern) has no body to codegen, only a prototype.
type Function struct {
	Decl *Declaration
	Body []Expr
}

// Program is the parser's top-level output: every extern declaration and
// every defined function in source order.
type Program struct {
	Externs   []*Declaration
	Functions []*Function
}
