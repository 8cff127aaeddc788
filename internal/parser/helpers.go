package parser

import (
	"fmt"
	"unicode"

	"hscript/internal/diag"
	"hscript/internal/source"
)

// errHere: фатальная ошибка в текущей позиции курсора.
func (p *Parser) errHere(code diag.Code, format string, args ...any) *diag.Error {
	return diag.Errorf(code, p.c.Here(), format, args...)
}

// errAt: фатальная ошибка с явным спаном.
func (p *Parser) errAt(code diag.Code, sp source.Span, format string, args ...any) *diag.Error {
	return diag.Errorf(code, sp, format, args...)
}

// enter увеличивает глубину рекурсии; ошибка, если превышен лимит.
func (p *Parser) enter(sp source.Span) error {
	if p.depth >= p.opts.maxDepth() {
		return p.errAt(diag.SynNestingTooDeep, sp, "nesting too deep (limit %d)", p.opts.maxDepth())
	}
	p.depth++
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// describeNext renders the next character for messages.
func (p *Parser) describeNext() string {
	r, ok := p.c.Peek()
	if !ok {
		return "end of input"
	}
	return fmt.Sprintf("%q", r)
}

// atSpace reports whether the next character is whitespace.
func (p *Parser) atSpace() bool {
	r, ok := p.c.Peek()
	return ok && unicode.IsSpace(r)
}
