package ast

import (
	"fmt"
	"strconv"
	"strings"

	"hscript/internal/source"
)

// Expr is one of *Equality, *Term, *Factor, *Unary, *Primary.
//
// Term is the multiplicative layer and Factor the additive one.
type Expr interface {
	expr()
	ExprSpan() source.Span
}

// EqOp enumerates equality operators.
type EqOp uint8

const (
	EqOpEq  EqOp = iota // ==
	EqOpNeq             // !=
)

// TermOp enumerates multiplicative operators.
type TermOp uint8

const (
	TermOpMul TermOp = iota // *
	TermOpDiv               // /
	TermOpRem               // %
)

// FactorOp enumerates additive operators.
type FactorOp uint8

const (
	FactorOpAdd FactorOp = iota // +
	FactorOpSub                 // -
)

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	UnaryOpNot UnaryOp = iota // !
	UnaryOpNeg                // -
)

func (op EqOp) String() string {
	switch op {
	case EqOpEq:
		return "=="
	case EqOpNeq:
		return "!="
	}
	return fmt.Sprintf("EqOp(%d)", uint8(op))
}

func (op TermOp) String() string {
	switch op {
	case TermOpMul:
		return "*"
	case TermOpDiv:
		return "/"
	case TermOpRem:
		return "%"
	}
	return fmt.Sprintf("TermOp(%d)", uint8(op))
}

func (op FactorOp) String() string {
	switch op {
	case FactorOpAdd:
		return "+"
	case FactorOpSub:
		return "-"
	}
	return fmt.Sprintf("FactorOp(%d)", uint8(op))
}

func (op UnaryOp) String() string {
	switch op {
	case UnaryOpNot:
		return "!"
	case UnaryOpNeg:
		return "-"
	}
	return fmt.Sprintf("UnaryOp(%d)", uint8(op))
}

type Equality struct {
	Left  Expr
	Op    EqOp
	Right Expr
	Span  source.Span
}

type Term struct {
	Left  Expr
	Op    TermOp
	Right Expr
	Span  source.Span
}

type Factor struct {
	Left  Expr
	Op    FactorOp
	Right Expr
	Span  source.Span
}

type Unary struct {
	Op   UnaryOp
	X    Expr
	Span source.Span
}

// Primary wraps an identifier or a string literal.
type Primary struct {
	Value PrimaryValue
}

// PrimaryValue is *Ident or *StrLit.
type PrimaryValue interface {
	primary()
	ValueSpan() source.Span
}

type Ident struct {
	Name string
	Span source.Span
}

// StrLit holds the decoded content of a quoted literal.
type StrLit struct {
	Content string
	Span    source.Span
}

func (*Equality) expr() {}
func (*Term) expr()     {}
func (*Factor) expr()   {}
func (*Unary) expr()    {}
func (*Primary) expr()  {}

func (e *Equality) ExprSpan() source.Span { return e.Span }
func (e *Term) ExprSpan() source.Span     { return e.Span }
func (e *Factor) ExprSpan() source.Span   { return e.Span }
func (e *Unary) ExprSpan() source.Span    { return e.Span }
func (e *Primary) ExprSpan() source.Span {
	if e.Value == nil {
		return source.Span{}
	}
	return e.Value.ValueSpan()
}

func (*Ident) primary()                  {}
func (*StrLit) primary()                 {}
func (i *Ident) ValueSpan() source.Span  { return i.Span }
func (s *StrLit) ValueSpan() source.Span { return s.Span }

// Var builds a primary identifier.
func Var(name string) *Primary { return &Primary{Value: &Ident{Name: name}} }

// Str builds a primary string literal.
func Str(content string) *Primary { return &Primary{Value: &StrLit{Content: content}} }

// FormatExpr prints e as an S-expression, e.g. (== a (- (* b c) d)).
// String literals are Go-quoted.
func FormatExpr(e Expr) string {
	var sb strings.Builder
	formatExpr(&sb, e)
	return sb.String()
}

func formatExpr(sb *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Equality:
		formatBinary(sb, n.Op.String(), n.Left, n.Right)
	case *Term:
		formatBinary(sb, n.Op.String(), n.Left, n.Right)
	case *Factor:
		formatBinary(sb, n.Op.String(), n.Left, n.Right)
	case *Unary:
		sb.WriteByte('(')
		sb.WriteString(n.Op.String())
		sb.WriteByte(' ')
		formatExpr(sb, n.X)
		sb.WriteByte(')')
	case *Primary:
		switch v := n.Value.(type) {
		case *Ident:
			sb.WriteString(v.Name)
		case *StrLit:
			sb.WriteString(strconv.Quote(v.Content))
		default:
			fmt.Fprintf(sb, "<bad primary %T>", v)
		}
	default:
		fmt.Fprintf(sb, "<bad expr %T>", e)
	}
}

func formatBinary(sb *strings.Builder, op string, l, r Expr) {
	sb.WriteByte('(')
	sb.WriteString(op)
	sb.WriteByte(' ')
	formatExpr(sb, l)
	sb.WriteByte(' ')
	formatExpr(sb, r)
	sb.WriteByte(')')
}
