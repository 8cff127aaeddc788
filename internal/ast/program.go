package ast

import "hscript/internal/source"

// Decl is *Command or *Tag.
type Decl interface {
	decl()
	DeclSpan() source.Span
}

// ArgKind says which argument grammar a directive uses.
type ArgKind uint8

const (
	ArgString ArgKind = iota // #include "nav.html"
	ArgExpr                  // #if user == "admin"
	ArgNone                  // #end
)

func (k ArgKind) String() string {
	switch k {
	case ArgString:
		return "string"
	case ArgExpr:
		return "expr"
	case ArgNone:
		return "none"
	}
	return "unknown"
}

// Command is a directive such as #include "nav.html". Exactly one of Arg and
// Cond is meaningful, as selected by Kind.
type Command struct {
	Name     string
	Kind     ArgKind
	Arg      StrLit
	Cond     Expr
	Span     source.Span
	NameSpan source.Span
}

func (*Command) decl()                   {}
func (c *Command) DeclSpan() source.Span { return c.Span }
func (*Tag) decl()                       {}
func (t *Tag) DeclSpan() source.Span     { return t.Span }

// Program is the flat list of top-level declarations.
type Program struct {
	Decls []Decl
	Span  source.Span
}

// Tags returns the top-level tags, skipping directives.
func (p *Program) Tags() []*Tag {
	out := make([]*Tag, 0, len(p.Decls))
	for _, d := range p.Decls {
		if t, ok := d.(*Tag); ok {
			out = append(out, t)
		}
	}
	return out
}

// Commands returns the top-level directives in order.
func (p *Program) Commands() []*Command {
	var out []*Command
	for _, d := range p.Decls {
		if c, ok := d.(*Command); ok {
			out = append(out, c)
		}
	}
	return out
}
