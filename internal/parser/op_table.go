package parser

import "hscript/internal/ast"

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precEquality       = 1 // == !=
	precAdditive       = 2 // + -   (слой Factor)
	precMultiplicative = 3 // * / % (слой Term)
)

type binaryOp struct {
	text string
	prec int
	eq   ast.EqOp
	fac  ast.FactorOp
	term ast.TermOp
}

// binaryOps проверяются по порядку: двухсимвольные раньше односимвольных.
var binaryOps = []binaryOp{
	{text: "==", prec: precEquality, eq: ast.EqOpEq},
	{text: "!=", prec: precEquality, eq: ast.EqOpNeq},
	{text: "+", prec: precAdditive, fac: ast.FactorOpAdd},
	{text: "-", prec: precAdditive, fac: ast.FactorOpSub},
	{text: "*", prec: precMultiplicative, term: ast.TermOpMul},
	{text: "/", prec: precMultiplicative, term: ast.TermOpDiv},
	{text: "%", prec: precMultiplicative, term: ast.TermOpRem},
}

// peekBinaryOp возвращает оператор в текущей позиции (после пробелов), не съедая его.
func (p *Parser) peekBinaryOp() (binaryOp, bool) {
	fork := p.c.Fork()
	fork.SkipSpace()
	for _, op := range binaryOps {
		if fork.HasPrefix(op.text) {
			return op, true
		}
	}
	return binaryOp{}, false
}

// makeBinary строит узел слоя, которому принадлежит оператор.
func makeBinary(op binaryOp, left, right ast.Expr) ast.Expr {
	sp := left.ExprSpan().Cover(right.ExprSpan())
	switch op.prec {
	case precEquality:
		return &ast.Equality{Left: left, Op: op.eq, Right: right, Span: sp}
	case precAdditive:
		return &ast.Factor{Left: left, Op: op.fac, Right: right, Span: sp}
	case precMultiplicative:
		return &ast.Term{Left: left, Op: op.term, Right: right, Span: sp}
	}
	panic("parser: unknown operator precedence")
}
