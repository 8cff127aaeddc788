package ast

import (
	"testing"
)

func TestBuilderChains(t *testing.T) {
	tag := NewTag("ul").
		Attr("class", "nav").
		Flag("hidden").
		Attr("class", "").
		Child(NewTag("li").Text("one").Close(ClosingImplicit), nil).
		Child((*Tag)(nil)).
		Text("tail")

	if tag.Closing != ClosingExplicit {
		t.Fatalf("default closing = %v", tag.Closing)
	}
	if len(tag.Attributes) != 3 {
		t.Fatalf("duplicates must be preserved, got %d attributes", len(tag.Attributes))
	}
	if a := tag.Attributes[1]; a.Name != "hidden" || a.HasValue {
		t.Fatalf("flag attribute = %+v", a)
	}
	if a := tag.Attributes[2]; !a.HasValue || a.Value != "" {
		t.Fatalf("empty value must keep HasValue: %+v", a)
	}
	if a, ok := tag.Lookup("class"); !ok || a.Value != "nav" {
		t.Fatalf("Lookup returned %+v", a)
	}
	if len(tag.Children) != 2 {
		t.Fatalf("nil children must be skipped, got %d", len(tag.Children))
	}
	if txt, ok := tag.Children[1].(Text); !ok || txt.Value != "tail" {
		t.Fatalf("unexpected text child %#v", tag.Children[1])
	}
}

func TestWalk(t *testing.T) {
	tree := NewTag("html").Child(
		NewTag("head").Child(NewTag("title").Text("x")),
		NewTag("body").Child(NewTag("img").Inline()),
	)
	var names []string
	tree.Walk(func(tag *Tag) bool {
		names = append(names, tag.Name)
		return tag.Name != "head"
	})
	want := []string{"html", "head", "body", "img"}
	if len(names) != len(want) {
		t.Fatalf("Walk visited %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Walk visited %v, want %v", names, want)
		}
	}
}

func TestFormatExpr(t *testing.T) {
	e := &Equality{
		Left: Var("a"),
		Op:   EqOpEq,
		Right: &Factor{
			Left:  &Term{Left: Var("b"), Op: TermOpMul, Right: Var("c")},
			Op:    FactorOpSub,
			Right: &Unary{Op: UnaryOpNot, X: Str("d\"")},
		},
	}
	const want = `(== a (- (* b c) (! "d\"")))`
	if got := FormatExpr(e); got != want {
		t.Fatalf("FormatExpr = %s, want %s", got, want)
	}
}

func TestProgramSplits(t *testing.T) {
	p := &Program{Decls: []Decl{
		&Command{Name: "include", Arg: StrLit{Content: "nav.html"}},
		NewTag("main"),
		&Command{Name: "end", Kind: ArgNone},
	}}
	if len(p.Tags()) != 1 || len(p.Commands()) != 2 {
		t.Fatalf("Tags=%d Commands=%d", len(p.Tags()), len(p.Commands()))
	}
}
