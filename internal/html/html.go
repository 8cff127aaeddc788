// Package html is a small element prelude over the ast builder:
//
//	html.Body(
//		html.Header(html.P(html.T("Welcome"))),
//		html.Main(html.H1(html.T("Index"))),
//	)
//
// Every constructor returns an explicit-closing tag; chain ast.Tag methods for
// attributes and other closings.
package html

import "hscript/internal/ast"

// T is ast.T.
func T(s string) ast.Text { return ast.T(s) }

func el(name string, children []ast.Child) *ast.Tag {
	return ast.NewTag(name).Child(children...)
}

// Container elements.
func Div(children ...ast.Child) *ast.Tag      { return el("div", children) }
func A(children ...ast.Child) *ast.Tag        { return el("a", children) }
func Img(children ...ast.Child) *ast.Tag      { return el("img", children) }
func Ul(children ...ast.Child) *ast.Tag       { return el("ul", children) }
func Li(children ...ast.Child) *ast.Tag       { return el("li", children) }
func Ol(children ...ast.Child) *ast.Tag       { return el("ol", children) }
func Table(children ...ast.Child) *ast.Tag    { return el("table", children) }
func Tr(children ...ast.Child) *ast.Tag       { return el("tr", children) }
func Td(children ...ast.Child) *ast.Tag       { return el("td", children) }
func Th(children ...ast.Child) *ast.Tag       { return el("th", children) }
func Tbody(children ...ast.Child) *ast.Tag    { return el("tbody", children) }
func Thead(children ...ast.Child) *ast.Tag    { return el("thead", children) }
func Tfoot(children ...ast.Child) *ast.Tag    { return el("tfoot", children) }
func Form(children ...ast.Child) *ast.Tag     { return el("form", children) }
func Input(children ...ast.Child) *ast.Tag    { return el("input", children) }
func Button(children ...ast.Child) *ast.Tag   { return el("button", children) }
func Textarea(children ...ast.Child) *ast.Tag { return el("textarea", children) }
func Select(children ...ast.Child) *ast.Tag   { return el("select", children) }
func Header(children ...ast.Child) *ast.Tag   { return el("header", children) }
func Footer(children ...ast.Child) *ast.Tag   { return el("footer", children) }
func Main(children ...ast.Child) *ast.Tag     { return el("main", children) }
func Body(children ...ast.Child) *ast.Tag     { return el("body", children) }
func Nav(children ...ast.Child) *ast.Tag      { return el("nav", children) }
func Section(children ...ast.Child) *ast.Tag  { return el("section", children) }
func Article(children ...ast.Child) *ast.Tag  { return el("article", children) }

// Text elements.
func H1(children ...ast.Child) *ast.Tag     { return el("h1", children) }
func H2(children ...ast.Child) *ast.Tag     { return el("h2", children) }
func H3(children ...ast.Child) *ast.Tag     { return el("h3", children) }
func H4(children ...ast.Child) *ast.Tag     { return el("h4", children) }
func H5(children ...ast.Child) *ast.Tag     { return el("h5", children) }
func H6(children ...ast.Child) *ast.Tag     { return el("h6", children) }
func P(children ...ast.Child) *ast.Tag      { return el("p", children) }
func Pre(children ...ast.Child) *ast.Tag    { return el("pre", children) }
func Span(children ...ast.Child) *ast.Tag   { return el("span", children) }
func Strong(children ...ast.Child) *ast.Tag { return el("strong", children) }
func Em(children ...ast.Child) *ast.Tag     { return el("em", children) }
func Code(children ...ast.Child) *ast.Tag   { return el("code", children) }
func Title(children ...ast.Child) *ast.Tag  { return el("title", children) }
func Label(children ...ast.Child) *ast.Tag  { return el("label", children) }

// Text wraps s in a text element: Text("p", "hello") is <p>hello</p>.
func Text(name, s string) *ast.Tag { return ast.NewTag(name).Text(s) }

// Br is an inline line break.
func Br() *ast.Tag { return ast.NewTag("br").Inline() }

// Link is <a href="href">children</a>.
func Link(href string, children ...ast.Child) *ast.Tag {
	return ast.NewTag("a").Attr("href", href).Child(children...)
}
