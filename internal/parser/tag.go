package parser

import (
	"strings"
	"unicode"

	"hscript/internal/ast"
	"hscript/internal/diag"
	"hscript/internal/lexer"
)

// parseTag разбирает тег целиком:
// '<' имя атрибуты ( '/>' | '>' дети ( '</' имя '>' | неявное закрытие ) ).
// Без '<': ErrMismatch; после '<' любые ошибки фатальны.
func (p *Parser) parseTag() (*ast.Tag, error) {
	start := p.c.Mark()
	if !p.c.TakeChar('<') {
		return nil, lexer.ErrMismatch
	}
	if err := p.enter(p.c.SpanFrom(start)); err != nil {
		return nil, err
	}
	defer p.leave()

	if p.atSpace() {
		return nil, p.errHere(diag.SynExpectTagName, "expected tag-name after '<', found %s", p.describeNext())
	}
	name, nameSpan, err := lexer.ScanHTMLIdent(&p.c)
	if lexer.IsMismatch(err) {
		return nil, p.errHere(diag.SynExpectTagName, "expected tag-name after '<', found %s", p.describeNext())
	}
	tag := &ast.Tag{Name: name, NameSpan: nameSpan}

	if err := p.parseAttributes(tag); err != nil {
		return nil, err
	}

	if p.c.TakeChar('/') {
		if !p.c.TakeChar('>') {
			return nil, p.errHere(diag.SynExpectRightAngle, "expected '>' after '/' in <%s", name)
		}
		tag.Closing = ast.ClosingInline
		tag.Span = p.c.SpanFrom(start)
		return tag, nil
	}
	p.c.TakeChar('>')
	openSpan := p.c.SpanFrom(start)

	if err := p.parseChildren(tag); err != nil {
		if de, ok := diag.AsError(err); ok && de.Code == diag.SynExpectClosingTag && len(de.Notes) == 0 {
			de.WithNote(openSpan, "<"+name+"> opened here")
		}
		return nil, err
	}
	tag.Span = p.c.SpanFrom(start)
	return tag, nil
}

// parseAttributes читает атрибуты до '>' или '/'.
func (p *Parser) parseAttributes(tag *ast.Tag) error {
	for {
		p.c.SkipSpace()
		r, ok := p.c.Peek()
		if !ok {
			return p.errHere(diag.SynExpectRightAngle, "expected '>' to finish <%s, found end of input", tag.Name)
		}
		if r == '>' || r == '/' {
			return nil
		}
		attr, err := p.parseAttribute()
		if lexer.IsMismatch(err) {
			return p.errHere(diag.SynExpectAttribute, "expected attribute in <%s, found %s", tag.Name, p.describeNext())
		}
		if err != nil {
			return err
		}
		tag.Attributes = append(tag.Attributes, attr)
	}
}

// parseAttribute: имя [ '=' "значение" ]. Значение берётся как есть, без escape.
func (p *Parser) parseAttribute() (ast.Attribute, error) {
	name, nameSpan, err := lexer.ScanHTMLIdent(&p.c)
	if err != nil {
		return ast.Attribute{}, err
	}
	attr := ast.Attribute{Name: name, Span: nameSpan}

	m := p.c.Mark()
	p.c.SkipSpace()
	if !p.c.TakeChar('=') {
		p.c.Reset(m)
		return attr, nil
	}
	p.c.SkipSpace()
	if !p.c.TakeChar('"') {
		return attr, p.errHere(diag.SynExpectStringLit, "expected string literal for attribute %q, found %s", name, p.describeNext())
	}
	attr.Value = p.c.TakeWhile(func(r rune) bool { return r != '"' })
	if !p.c.TakeChar('"') {
		return attr, p.errHere(diag.SynExpectQuote, "expected '\"' to close value of attribute %q", name)
	}
	attr.HasValue = true
	attr.Span = p.c.SpanFrom(lexer.Mark(nameSpan.Start))
	return attr, nil
}

// parseChildren читает детей до закрывающего тега.
// Свой </name> (без учёта регистра ASCII): Explicit и поглощается;
// чужой </other>: Implicit и остаётся предку.
func (p *Parser) parseChildren(tag *ast.Tag) error {
	for {
		m := p.c.Mark()
		if p.c.EOF() {
			return p.errHere(diag.SynExpectClosingTag, "expected closing tag </%s>, found end of input", tag.Name)
		}

		if p.c.HasPrefix("</") {
			closeName, fork, err := p.scanClosingTag()
			if err != nil {
				return err
			}
			if strings.EqualFold(closeName, tag.Name) {
				p.c.Commit(fork)
				tag.Closing = ast.ClosingExplicit
				return nil
			}
			// чужой закрывающий тег не трогаем
			p.c.Reset(m)
			tag.Closing = ast.ClosingImplicit
			return nil
		}

		if p.c.HasPrefix("<") {
			child, err := p.parseTag()
			if err != nil {
				return err
			}
			tag.Children = append(tag.Children, child)
			continue
		}

		// текст дословно до следующего '<', пробельный тоже
		text := p.c.TakeWhile(func(r rune) bool { return r != '<' })
		tag.Children = append(tag.Children, ast.Text{Value: text, Span: p.c.SpanFrom(m)})
	}
}

// scanClosingTag speculatively reads </name> on a fork. The main cursor does
// not move; the caller commits the fork when the name matches.
func (p *Parser) scanClosingTag() (string, lexer.Cursor, error) {
	fork := p.c.Fork()
	fork.TakeString("</")
	if r, ok := fork.Peek(); ok && unicode.IsSpace(r) {
		return "", fork, diag.Errorf(diag.SynExpectTagName, fork.Here(), "expected tag-name after '</'")
	}
	name, _, err := lexer.ScanHTMLIdent(&fork)
	if lexer.IsMismatch(err) {
		return "", fork, diag.Errorf(diag.SynExpectTagName, fork.Here(), "expected tag-name after '</'")
	}
	fork.SkipSpace()
	if !fork.TakeChar('>') {
		return "", fork, diag.Errorf(diag.SynExpectRightAngle, fork.Here(), "expected '>' to finish </%s", name)
	}
	return name, fork, nil
}
