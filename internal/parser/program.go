package parser

import (
	"hscript/internal/ast"
	"hscript/internal/diag"
	"hscript/internal/lexer"
)

// parseProgram: основной цикл верхнего уровня, parseDecl до EOF.
func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	start := p.c.Mark()
	for {
		p.c.SkipSpace()
		if p.c.EOF() {
			break
		}
		d, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, d)
	}
	prog.Span = p.c.SpanFrom(start)
	return prog, nil
}

// parseDecl выбирает директиву или тег по первому символу.
func (p *Parser) parseDecl() (ast.Decl, error) {
	switch {
	case p.c.HasPrefix("#"):
		return p.parseCommand()
	case p.c.HasPrefix("</"):
		m := p.c.Mark()
		p.c.TakeString("</")
		name, _, _ := lexer.ScanHTMLIdent(&p.c)
		sp := p.c.SpanFrom(m)
		return nil, p.errAt(diag.SynUnexpectedClosingTag, sp, "unexpected closing tag </%s> with no open tag", name)
	case p.c.HasPrefix("<"):
		tag, err := p.parseTag()
		if err != nil {
			return nil, err
		}
		return tag, nil
	}
	return nil, p.errHere(diag.SynExpectDecl, "expected directive or tag, found %s", p.describeNext())
}
