package parser

import (
	"hscript/internal/ast"
	"hscript/internal/diag"
	"hscript/internal/lexer"
)

// parseExprRequired: выражение обязательно; Mismatch превращается в SYN2007.
func (p *Parser) parseExprRequired() (ast.Expr, error) {
	e, err := p.parseBinaryExpr(precEquality)
	if lexer.IsMismatch(err) {
		return nil, p.errHere(diag.SynExpectExpression, "expected expression, found %s", p.describeNext())
	}
	return e, err
}

// parseBinaryExpr: precedence climbing, все слои левоассоциативны.
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinaryExpr(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.peekBinaryOp()
		if !ok || op.prec < minPrec {
			break
		}
		p.c.SkipSpace()
		p.c.TakeString(op.text)

		// левоассоциативность: справа только более сильные операторы
		right, err := p.parseBinaryExpr(op.prec + 1)
		if lexer.IsMismatch(err) {
			return nil, p.errHere(diag.SynExpectExpression, "expected expression after '%s', found %s", op.text, p.describeNext())
		}
		if err != nil {
			return nil, err
		}
		left = makeBinary(op, left, right)
	}
	return left, nil
}

// parseUnaryExpr: ('!' | '-')* primary
func (p *Parser) parseUnaryExpr() (ast.Expr, error) {
	m := p.c.Mark()
	p.c.SkipSpace()
	start := p.c.Mark()

	var op ast.UnaryOp
	switch {
	case p.c.HasPrefix("!") && !p.c.HasPrefix("!="):
		op = ast.UnaryOpNot
	case p.c.HasPrefix("-"):
		op = ast.UnaryOpNeg
	default:
		p.c.Reset(m)
		return p.parsePrimaryExpr()
	}
	p.c.Advance()

	if err := p.enter(p.c.SpanFrom(start)); err != nil {
		return nil, err
	}
	defer p.leave()

	x, err := p.parseUnaryExpr()
	if lexer.IsMismatch(err) {
		return nil, p.errHere(diag.SynExpectExpression, "expected expression after '%s', found %s", op, p.describeNext())
	}
	if err != nil {
		return nil, err
	}
	sp := p.c.SpanFrom(start)
	return &ast.Unary{Op: op, X: x, Span: sp}, nil
}

// parsePrimaryExpr: идентификатор или строковый литерал. Чисел в грамматике нет.
func (p *Parser) parsePrimaryExpr() (ast.Expr, error) {
	name, sp, err := lexer.ScanIdent(&p.c)
	if err == nil {
		return &ast.Primary{Value: &ast.Ident{Name: name, Span: sp}}, nil
	}
	if !lexer.IsMismatch(err) {
		return nil, err
	}
	content, sp, err := lexer.ScanStrLit(&p.c)
	if err != nil {
		return nil, err
	}
	return &ast.Primary{Value: &ast.StrLit{Content: content, Span: sp}}, nil
}
