// Package ast defines the expression and statement nodes of the Luz
// language. Luz is expression-oriented: statements are expressions, and
// blocks evaluate to the value of their last expression.
package ast

import (
	"math/big"

	"github.com/luz-lang/luz/pkg/token"
)

// Node is the interface for all AST nodes.
type Node interface {
	nodeType() string
}

// Program is a parsed source file: the top-level statement sequence.
type Program struct {
	Stmts []Node
}

func (n *Program) nodeType() string { return "Program" }

// NumLit is a numeric literal, inf included.
type NumLit struct {
	Value float64
}

func (n *NumLit) nodeType() string { return "NumLit" }

// XLLit is a big-integer literal.
type XLLit struct {
	Value *big.Int
}

func (n *XLLit) nodeType() string { return "XLLit" }

// StrLit is a plain string literal with escapes resolved.
type StrLit struct {
	Value string
}

func (n *StrLit) nodeType() string { return "StrLit" }

// InterpStr is a string literal containing {expr} interpolation sites. The
// decoded text is re-tokenised and evaluated in the current scope each time
// the literal is reached.
type InterpStr struct {
	Raw string
}

func (n *InterpStr) nodeType() string { return "InterpStr" }

// BoolLit is true or false.
type BoolLit struct {
	Value bool
}

func (n *BoolLit) nodeType() string { return "BoolLit" }

// NullLit is the null literal.
type NullLit struct{}

func (n *NullLit) nodeType() string { return "NullLit" }

// Ident is a variable reference.
type Ident struct {
	Name string
}

func (n *Ident) nodeType() string { return "Ident" }

// Binary is a binary operation. Op is the operator's token type; the range
// operators build ran/xran values, `has` tests membership.
type Binary struct {
	Op    token.Type
	Left  Node
	Right Node
}

func (n *Binary) nodeType() string { return "Binary" }

// Unary is a unary operation: + - ! ~.
type Unary struct {
	Op      token.Type
	Operand Node
}

func (n *Unary) nodeType() string { return "Unary" }

// Intrinsic is a prefix operator keyword applied to an operand: lenof,
// sizeof, typeof, copyof, firstof, lastof, log, logln. Operand is nil for a
// bare log/logln.
type Intrinsic struct {
	Op      token.Type
	Operand Node
}

func (n *Intrinsic) nodeType() string { return "Intrinsic" }

// Input is a get/getln read. Prompt is optional.
type Input struct {
	Op     token.Type
	Prompt Node
}

func (n *Input) nodeType() string { return "Input" }

// LValue is an assignable place: a name followed by an optional index chain.
type LValue struct {
	Name  string
	Chain []Node
}

func (n *LValue) nodeType() string { return "LValue" }

// Assign is plain or compound assignment into an l-value.
type Assign struct {
	Target *LValue
	Op     token.Type
	Value  Node
}

func (n *Assign) nodeType() string { return "Assign" }

// ConstDecl declares a constant binding.
type ConstDecl struct {
	Name  string
	Value Node
}

func (n *ConstDecl) nodeType() string { return "ConstDecl" }

// Swap exchanges the values of two l-values.
type Swap struct {
	A *LValue
	B *LValue
}

func (n *Swap) nodeType() string { return "Swap" }

// Update is a prefix or postfix ++/-- on an l-value.
type Update struct {
	Target *LValue
	Op     token.Type // token.Incr or token.Decr
	Prefix bool
}

func (n *Update) nodeType() string { return "Update" }

// Index is a read access: container[i] or container.N. Range indices slice.
type Index struct {
	Object Node
	Index  Node
}

func (n *Index) nodeType() string { return "Index" }

// AggLit is an arr, vec, or set literal. When Count is non-nil the literal
// is a length-replication form: Body is re-evaluated once per index.
type AggLit struct {
	Kind  token.Type // token.LBracket (arr), token.VecOpen (vec), token.SetOpen (set)
	Elems []Node
	Body  []Node // replication element block
	Count Node   // replication length expression
}

func (n *AggLit) nodeType() string { return "AggLit" }

// Cast is `expr as tag` or `expr as typeof other`.
type Cast struct {
	Value Node
	Tag   string
	TagOf Node
}

func (n *Cast) nodeType() string { return "Cast" }

// CondBranch is one arm of an if/else-if chain.
type CondBranch struct {
	Cond Node
	Body []Node
}

// If is the conditional expression. A chain without a taken branch
// evaluates to null.
type If struct {
	Branches []CondBranch
	Else     []Node
}

func (n *If) nodeType() string { return "If" }

// LoopShape selects one of the three loop forms.
type LoopShape int

const (
	LoopInfinite LoopShape = iota
	LoopWhile
	LoopForIn
)

// Loop is the unified loop construct.
type Loop struct {
	Shape LoopShape
	Var   string // for-in binding name
	Iter  Node   // for-in iterable
	Cond  Node   // while condition, re-evaluated each iteration
	Body  []Node
}

func (n *Loop) nodeType() string { return "Loop" }

// Break exits the innermost loop, optionally carrying a value.
type Break struct {
	Value Node
}

func (n *Break) nodeType() string { return "Break" }

// Continue skips to the next iteration of the innermost loop.
type Continue struct{}

func (n *Continue) nodeType() string { return "Continue" }

// Del removes a variable or an element of one.
type Del struct {
	Target *LValue
}

func (n *Del) nodeType() string { return "Del" }

// Unimplemented marks a reserved construct (fn, return). Reaching one at
// evaluation time raises UnimplementedFeature; parsing it in a dead branch
// is harmless.
type Unimplemented struct {
	What string
}

func (n *Unimplemented) nodeType() string { return "Unimplemented" }
