package ast

import (
	"fmt"

	"hscript/internal/source"
)

// Closing describes how a tag ended.
type Closing uint8

const (
	// ClosingExplicit: the tag consumed its own </name>.
	ClosingExplicit Closing = iota
	// ClosingInline: self-closed <name/>, never has children.
	ClosingInline
	// ClosingImplicit: a foreign close tag ended the children; it was left
	// for an ancestor and nothing is rendered for this tag's end.
	ClosingImplicit
)

func (c Closing) String() string {
	switch c {
	case ClosingExplicit:
		return "explicit"
	case ClosingInline:
		return "inline"
	case ClosingImplicit:
		return "implicit"
	}
	return fmt.Sprintf("Closing(%d)", uint8(c))
}

// Attribute is name or name="value". HasValue distinguishes the bare form
// from an explicitly empty value.
type Attribute struct {
	Name     string
	Value    string
	HasValue bool
	Span     source.Span
}

// Child is either *Tag or Text.
type Child interface {
	child()
	ChildSpan() source.Span
}

// Text is a raw run of content between tags; no entity decoding happens.
type Text struct {
	Value string
	Span  source.Span
}

func (Text) child()                   {}
func (t Text) ChildSpan() source.Span { return t.Span }

// Tag is an element with ordered, possibly duplicated attributes.
type Tag struct {
	Name       string
	Attributes []Attribute
	Children   []Child
	Closing    Closing
	// Span covers the open tag through the close tag (or the last child).
	Span source.Span
	// NameSpan covers the name in the open tag.
	NameSpan source.Span
}

func (*Tag) child()                   {}
func (t *Tag) ChildSpan() source.Span { return t.Span }

// Lookup returns the first attribute called name.
func (t *Tag) Lookup(name string) (Attribute, bool) {
	for _, a := range t.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Walk visits t and then every nested tag depth-first. Returning false from
// fn skips the children of that tag.
func (t *Tag) Walk(fn func(*Tag) bool) {
	if t == nil || !fn(t) {
		return
	}
	for _, ch := range t.Children {
		if nested, ok := ch.(*Tag); ok {
			nested.Walk(fn)
		}
	}
}
