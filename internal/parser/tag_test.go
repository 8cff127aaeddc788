package parser

import (
	"strings"
	"testing"

	"hscript/internal/ast"
	"hscript/internal/diag"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want *ast.Tag
	}{
		{
			name: "explicit",
			src:  `<div id="x">hi</div>`,
			want: ast.NewTag("div").Attr("id", "x").Text("hi"),
		},
		{
			name: "inline",
			src:  `<img/>`,
			want: ast.NewTag("img").Inline(),
		},
		{
			name: "inline with attributes and spaces",
			src:  `<input type="checkbox" checked />`,
			want: ast.NewTag("input").Attr("type", "checkbox").Flag("checked").Inline(),
		},
		{
			name: "implicit close left for ancestor",
			src:  `<ul><li>one</ul>`,
			want: ast.NewTag("ul").Child(ast.NewTag("li").Text("one").Close(ast.ClosingImplicit)),
		},
		{
			name: "case insensitive close",
			src:  `<div>x</DIV>`,
			want: ast.NewTag("div").Text("x"),
		},
		{
			name: "duplicate attributes keep order",
			src:  `<p class="a" data-x="" class="b">t</p>`,
			want: ast.NewTag("p").Attr("class", "a").Attr("data-x", "").Attr("class", "b").Text("t"),
		},
		{
			name: "whitespace between tags kept as text",
			src:  "<ul>\n  <li> one </li>\n  <li>two</li>\n</ul>",
			want: ast.NewTag("ul").
				Text("\n  ").Child(ast.NewTag("li").Text(" one ")).
				Text("\n  ").Child(ast.NewTag("li").Text("two")).
				Text("\n"),
		},
		{
			name: "whitespace before first child",
			src:  "<pre>  <b>x</b></pre>",
			want: ast.NewTag("pre").Text("  ").Child(ast.NewTag("b").Text("x")),
		},
		{
			name: "whitespace only body",
			src:  "<p> \t</p>",
			want: ast.NewTag("p").Text(" \t"),
		},
		{
			name: "whitespace before foreign close stays in open child",
			src:  "<ul><li><b/>\n</ul>",
			want: ast.NewTag("ul").Child(
				ast.NewTag("li").Child(ast.NewTag("b").Inline()).Text("\n").Close(ast.ClosingImplicit),
			),
		},
		{
			name: "text around nested tag",
			src:  "<p>Hello, <b>world</b>!\n</p>",
			want: ast.NewTag("p").Text("Hello, ").Child(ast.NewTag("b").Text("world")).Text("!\n"),
		},
		{
			name: "raw attribute value",
			src:  `<a title="a\nb & c">x</a>`,
			want: ast.NewTag("a").Attr("title", `a\nb & c`).Text("x"),
		},
		{
			name: "empty element",
			src:  `<br></br>`,
			want: ast.NewTag("br"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParseTag(t, tt.src)
			if d := diffTrees(tt.want, got); d != "" {
				t.Fatalf("tree mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestParseTagSpans(t *testing.T) {
	src := `<div id="x">hi</div>`
	tag := mustParseTag(t, src)
	if tag.Span.Start != 0 || int(tag.Span.End) != len(src) {
		t.Fatalf("tag span = %v", tag.Span)
	}
	if got := src[tag.NameSpan.Start:tag.NameSpan.End]; got != "div" {
		t.Fatalf("name span covers %q", got)
	}
	attr := tag.Attributes[0]
	if got := src[attr.Span.Start:attr.Span.End]; got != `id="x"` {
		t.Fatalf("attribute span covers %q", got)
	}
	txt := tag.Children[0].(ast.Text)
	if got := src[txt.Span.Start:txt.Span.End]; got != "hi" {
		t.Fatalf("text span covers %q", got)
	}
}

func TestWhitespaceTextSpans(t *testing.T) {
	src := "<ul>\n  <li>a</li>\n</ul>"
	tag := mustParseTag(t, src)
	if len(tag.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(tag.Children))
	}
	for _, i := range []int{0, 2} {
		txt := tag.Children[i].(ast.Text)
		if got := src[txt.Span.Start:txt.Span.End]; got != txt.Value {
			t.Fatalf("child %d span covers %q, value %q", i, got, txt.Value)
		}
	}
}

func TestParseTagErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{src: `<div class=>`, code: diag.SynExpectStringLit},
		{src: `<div class="x>`, code: diag.SynExpectQuote},
		{src: `< >`, code: diag.SynExpectTagName},
		{src: `<div %>`, code: diag.SynExpectAttribute},
		{src: `<div`, code: diag.SynExpectRightAngle},
		{src: `<img / >`, code: diag.SynExpectRightAngle},
		{src: `<div>text`, code: diag.SynExpectClosingTag},
		{src: `<div><p>text</p>`, code: diag.SynExpectClosingTag},
		{src: `<div></ >`, code: diag.SynExpectTagName},
		{src: `<div></div`, code: diag.SynExpectRightAngle},
		{src: `<p>a < b</p>`, code: diag.SynExpectTagName},
		{src: `text`, code: diag.SynExpectDecl},
	}
	for _, tt := range tests {
		_, err := ParseTagString(tt.src, Options{})
		expectCode(t, tt.src, err, tt.code)
	}
}

func TestUnclosedTagNotesOpenTag(t *testing.T) {
	src := "<main>\n  <p>body</p>\n"
	_, err := ParseTagString(src, Options{})
	de := expectCode(t, src, err, diag.SynExpectClosingTag)
	if len(de.Notes) != 1 {
		t.Fatalf("expected a note at the open tag, got %+v", de.Notes)
	}
	n := de.Notes[0]
	if got := src[n.Span.Start:n.Span.End]; got != "<main>" {
		t.Fatalf("note span covers %q", got)
	}
	if !strings.Contains(de.Message, "</main>") {
		t.Fatalf("message should name the tag: %q", de.Message)
	}
}

func TestNestingLimit(t *testing.T) {
	deep := strings.Repeat("<b>", 20) + strings.Repeat("</b>", 20)
	if _, err := ParseTagString(deep, Options{MaxDepth: 20}); err != nil {
		t.Fatalf("depth 20 within limit: %v", err)
	}
	_, err := ParseTagString(deep, Options{MaxDepth: 19})
	expectCode(t, "deep", err, diag.SynNestingTooDeep)

	huge := strings.Repeat("<b>", DefaultMaxDepth+1)
	_, err = ParseTagString(huge, Options{})
	expectCode(t, "huge", err, diag.SynNestingTooDeep)
}
