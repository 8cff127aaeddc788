package parser

import (
	"testing"

	"hscript/internal/ast"
	"hscript/internal/diag"
	"hscript/internal/directive"
	"hscript/internal/source"
	"hscript/internal/testkit"
)

func TestParseProgram(t *testing.T) {
	src := `#include "nav.html"
<main>
  #if user == "admin"
</main>
#if user == "admin"
  <p>hi</p>
#else
  <p>bye</p>
#end
<img/>
`
	got := mustParse(t, src)
	want := &ast.Program{Decls: []ast.Decl{
		&ast.Command{Name: "include", Kind: ast.ArgString, Arg: ast.StrLit{Content: "nav.html"}},
		ast.NewTag("main").Text("\n  #if user == \"admin\"\n"),
		&ast.Command{Name: "if", Kind: ast.ArgExpr, Cond: &ast.Equality{
			Left: ast.Var("user"), Op: ast.EqOpEq, Right: ast.Str("admin"),
		}},
		ast.NewTag("p").Text("hi"),
		&ast.Command{Name: "else", Kind: ast.ArgNone},
		ast.NewTag("p").Text("bye"),
		&ast.Command{Name: "end", Kind: ast.ArgNone},
		ast.NewTag("img").Inline(),
	}}
	if d := diffTrees(want, got); d != "" {
		t.Fatalf("program mismatch (-want +got):\n%s", d)
	}
}

func TestParseDirective(t *testing.T) {
	prog := mustParse(t, `#include "nav.html"`)
	cmd, ok := prog.Decls[0].(*ast.Command)
	if !ok {
		t.Fatalf("expected command, got %T", prog.Decls[0])
	}
	if cmd.Name != "include" || cmd.Arg.Content != "nav.html" {
		t.Fatalf("unexpected command %+v", cmd)
	}
	src := `#include "nav.html"`
	if got := src[cmd.Arg.Span.Start:cmd.Arg.Span.End]; got != `"nav.html"` {
		t.Fatalf("argument span covers %q", got)
	}
}

func TestUnknownDirectiveTakesString(t *testing.T) {
	prog := mustParse(t, `#layout "base.html"`)
	cmd := prog.Decls[0].(*ast.Command)
	if cmd.Kind != ast.ArgString || cmd.Arg.Content != "base.html" {
		t.Fatalf("unexpected command %+v", cmd)
	}
}

func TestCustomRegistry(t *testing.T) {
	reg := directive.DefaultRegistry()
	reg.Add(directive.Spec{Name: "unless", Arg: ast.ArgExpr, Role: directive.RoleOpen})
	prog, _, err := ParseString("x.html", `#unless ready #end`, Options{Directives: reg})
	if err != nil {
		t.Fatal(err)
	}
	if got := ast.FormatExpr(prog.Decls[0].(*ast.Command).Cond); got != "ready" {
		t.Fatalf("condition = %s", got)
	}
	if len(prog.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(prog.Decls))
	}
}

func TestParseProgramErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{src: `hello`, code: diag.SynExpectDecl},
		{src: `<p>x</p> tail`, code: diag.SynExpectDecl},
		{src: `</ul>`, code: diag.SynUnexpectedClosingTag},
		{src: `<ul><li>x</ul></ul>`, code: diag.SynUnexpectedClosingTag},
		{src: `#`, code: diag.SynExpectDirectiveName},
		{src: `#1x "a"`, code: diag.SynExpectDirectiveName},
		{src: `#include nav`, code: diag.SynExpectStringLit},
		{src: `#include "nav`, code: diag.LexUnterminatedString},
		{src: `#if`, code: diag.SynExpectExpression},
		{src: `#if a == `, code: diag.SynExpectExpression},
	}
	for _, tt := range tests {
		_, _, err := ParseString("t.html", tt.src, Options{})
		expectCode(t, tt.src, err, tt.code)
	}
}

func TestParseFileReports(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad.html", []byte("<div>"))
	bag := diag.NewBag(8)
	res := ParseFile(fs, id, Options{Reporter: diag.BagReporter{Bag: bag}})
	if res.Err == nil || res.Program != nil {
		t.Fatalf("expected failure, got %+v", res)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynExpectClosingTag {
		t.Fatalf("unexpected diagnostics %+v", bag.Items())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatal("note at the open tag must reach the bag")
	}
}

func TestEmptyProgram(t *testing.T) {
	prog := mustParse(t, "  \n\t ")
	if len(prog.Decls) != 0 {
		t.Fatalf("expected no declarations, got %d", len(prog.Decls))
	}
}

func TestSpanInvariants(t *testing.T) {
	inputs := []string{
		`<p>hello</p>`,
		`#include "nav.html" <div class="a" hidden><br/>text<i>x</I></div>`,
		"<ul>\n  <li>one\n  <li>two\n</ul>\n#if a == \"b\" <p/> #end",
		`<a href="/">home</a><b/>`,
	}
	for _, src := range inputs {
		prog, fs, err := ParseString("inv.html", src, Options{})
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		if err := testkit.CheckSpanInvariants(prog, fs.Get(prog.Span.File)); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}
