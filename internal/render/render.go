package render

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"hscript/internal/ast"
	"hscript/internal/diag"
	"hscript/internal/lexer"
)

// Options controls layout. The zero value renders compactly.
type Options struct {
	// Indent, when non-empty, enables one-child-per-line layout.
	Indent string
}

// Renderer serialises trees with fixed options.
type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Tag renders t compactly to w.
func Tag(w io.Writer, t *ast.Tag) error {
	return New(Options{}).Tags(w, []*ast.Tag{t})
}

// String renders t compactly.
func String(t *ast.Tag) (string, error) {
	var sb strings.Builder
	if err := Tag(&sb, t); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Tags renders a sequence of top-level tags compactly.
func Tags(w io.Writer, tags []*ast.Tag) error {
	return New(Options{}).Tags(w, tags)
}

// Program renders a program whose directives were already expanded.
// Any remaining Command is an RND5002 error.
func Program(w io.Writer, prog *ast.Program) error {
	return New(Options{}).Program(w, prog)
}

// Program renders prog; see the package-level Program.
func (r *Renderer) Program(w io.Writer, prog *ast.Program) error {
	tags := make([]*ast.Tag, 0, len(prog.Decls))
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *ast.Tag:
			tags = append(tags, n)
		case *ast.Command:
			return diag.Errorf(diag.RndUnresolvedDirective, n.Span, "unresolved directive #%s", n.Name)
		default:
			return fmt.Errorf("render: unexpected declaration %T", d)
		}
	}
	return r.Tags(w, tags)
}

// Tags validates and renders tags in order.
func (r *Renderer) Tags(w io.Writer, tags []*ast.Tag) error {
	for _, t := range tags {
		if err := Validate(t); err != nil {
			return err
		}
	}
	out := NewWriter(r.opts.Indent)
	for _, t := range tags {
		r.writeTag(out, t, r.opts.Indent != "")
		if r.opts.Indent != "" {
			out.Newline()
		}
	}
	return out.Flush(w)
}

// String renders a single tag.
func (r *Renderer) String(t *ast.Tag) (string, error) {
	var sb strings.Builder
	if err := r.Tags(&sb, []*ast.Tag{t}); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *Renderer) writeTag(w *Writer, t *ast.Tag, pretty bool) {
	write := w.WriteRaw
	if pretty {
		write = w.WriteString
	}
	write("<" + t.Name)
	for _, a := range t.Attributes {
		w.WriteRaw(" " + a.Name)
		if a.HasValue {
			w.WriteRaw(`="` + a.Value + `"`)
		}
	}

	switch t.Closing {
	case ast.ClosingInline:
		w.WriteRaw("/>")
		return
	case ast.ClosingExplicit, ast.ClosingImplicit:
		w.WriteRaw(">")
	}

	if pretty && breakable(t) {
		w.IndentPush()
		for _, ch := range t.Children {
			tag, ok := ch.(*ast.Tag)
			if !ok {
				continue
			}
			w.Newline()
			r.writeTag(w, tag, true)
		}
		w.IndentPop()
		w.Newline()
		w.WriteString("</" + t.Name + ">")
		return
	}

	for _, ch := range t.Children {
		switch n := ch.(type) {
		case ast.Text:
			w.WriteRaw(n.Value)
		case *ast.Tag:
			r.writeTag(w, n, false)
		}
	}
	if t.Closing == ast.ClosingExplicit {
		w.WriteRaw("</" + t.Name + ">")
	}
}

// breakable reports whether t may be laid out one child per line: every
// child is a tag that ends with its own closing punctuation or a
// whitespace-only text, and at least one child is a tag.
func breakable(t *ast.Tag) bool {
	if t.Closing != ast.ClosingExplicit {
		return false
	}
	tags := 0
	for _, ch := range t.Children {
		switch n := ch.(type) {
		case ast.Text:
			if !isBlank(n.Value) {
				return false
			}
		case *ast.Tag:
			if n.Closing == ast.ClosingImplicit {
				return false
			}
			tags++
		default:
			return false
		}
	}
	return tags > 0
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

// Validate checks that t can be rendered into text that parses back:
// names follow the tag identifier grammar, attribute values contain no '"'
// and text contains no '<'. Inline tags must have no children.
func Validate(t *ast.Tag) error {
	var err error
	t.Walk(func(tag *ast.Tag) bool {
		if err != nil {
			return false
		}
		err = validateOne(tag)
		return err == nil
	})
	return err
}

func validateOne(t *ast.Tag) error {
	if !lexer.ValidHTMLIdent(t.Name) {
		return diag.Errorf(diag.RndInvalidTag, t.Span, "invalid tag name %q", t.Name)
	}
	for _, a := range t.Attributes {
		if !lexer.ValidHTMLIdent(a.Name) {
			return diag.Errorf(diag.RndInvalidTag, a.Span, "invalid attribute name %q in <%s>", a.Name, t.Name)
		}
		if strings.ContainsRune(a.Value, '"') {
			return diag.Errorf(diag.RndInvalidTag, a.Span, "attribute %s of <%s> contains '\"'", a.Name, t.Name)
		}
	}
	switch t.Closing {
	case ast.ClosingInline:
		if len(t.Children) > 0 {
			return diag.Errorf(diag.RndInvalidTag, t.Span, "inline tag <%s/> cannot have children", t.Name)
		}
	case ast.ClosingExplicit, ast.ClosingImplicit:
	default:
		return diag.Errorf(diag.RndInvalidTag, t.Span, "tag <%s> has unknown closing %v", t.Name, t.Closing)
	}
	for _, ch := range t.Children {
		switch n := ch.(type) {
		case ast.Text:
			// парсер обрывает текст на первом '<'
			if strings.ContainsRune(n.Value, '<') {
				return diag.Errorf(diag.RndInvalidTag, n.Span, "text in <%s> contains '<'", t.Name)
			}
		case *ast.Tag:
		default:
			return diag.Errorf(diag.RndInvalidTag, t.Span, "tag <%s> has unknown child %T", t.Name, ch)
		}
	}
	return nil
}
