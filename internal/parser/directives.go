package parser

import (
	"hscript/internal/ast"
	"hscript/internal/diag"
	"hscript/internal/lexer"
)

// parseCommand разбирает директиву: '#' имя [аргумент].
// Грамматика аргумента берётся из реестра директив по имени.
func (p *Parser) parseCommand() (*ast.Command, error) {
	start := p.c.Mark()
	if !p.c.TakeChar('#') {
		return nil, lexer.ErrMismatch
	}
	name, nameSpan, err := lexer.ScanIdent(&p.c)
	if lexer.IsMismatch(err) {
		return nil, p.errHere(diag.SynExpectDirectiveName, "expected directive name after '#', found %s", p.describeNext())
	}
	if err != nil {
		return nil, err
	}

	cmd := &ast.Command{Name: name, NameSpan: nameSpan, Kind: p.dirs.ArgKind(name)}
	switch cmd.Kind {
	case ast.ArgString:
		content, sp, err := lexer.ScanStrLit(&p.c)
		if lexer.IsMismatch(err) {
			return nil, p.errHere(diag.SynExpectStringLit, "expected string literal after #%s, found %s", name, p.describeNext())
		}
		if err != nil {
			return nil, err
		}
		cmd.Arg = ast.StrLit{Content: content, Span: sp}
	case ast.ArgExpr:
		cond, err := p.parseExprRequired()
		if err != nil {
			return nil, err
		}
		cmd.Cond = cond
	case ast.ArgNone:
	}
	cmd.Span = p.c.SpanFrom(start)
	return cmd, nil
}
