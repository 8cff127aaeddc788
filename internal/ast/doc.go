// Package ast holds the document tree produced by the parser and consumed by
// the renderer: tags with attributes and children, directives and the small
// expression language used in directive arguments.
//
// The tree is plain owned values. A Tag owns its attributes and children, and
// nothing is shared between nodes. The same shape comes out of the parser and
// out of the builder (NewTag, Attr, Child), so the renderer does not care
// where a tree came from.
//
// Every closed set of variants (Child, Decl, Expr, PrimaryValue) is an
// interface with an unexported marker method; consumers switch on the concrete
// type and treat the default branch as an internal error.
package ast
