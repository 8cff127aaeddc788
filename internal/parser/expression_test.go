package parser

import (
	"strings"
	"testing"

	"hscript/internal/ast"
	"hscript/internal/diag"
)

func TestParseExprPrecedence(t *testing.T) {
	got, err := ParseExprString("a == b * c - d", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &ast.Equality{
		Left: ast.Var("a"),
		Op:   ast.EqOpEq,
		Right: &ast.Factor{
			Left:  &ast.Term{Left: ast.Var("b"), Op: ast.TermOpMul, Right: ast.Var("c")},
			Op:    ast.FactorOpSub,
			Right: ast.Var("d"),
		},
	}
	if d := diffTrees(ast.Expr(want), got); d != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", d)
	}
}

func TestParseExprShapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{src: `a`, want: `a`},
		{src: `"x"`, want: `"x"`},
		{src: `a + b + c`, want: `(+ (+ a b) c)`},
		{src: `a / b % c * d`, want: `(* (% (/ a b) c) d)`},
		{src: `a == b != c`, want: `(!= (== a b) c)`},
		{src: `!a == -b`, want: `(== (! a) (- b))`},
		{src: `!!a`, want: `(! (! a))`},
		{src: `-!a * b`, want: `(* (- (! a)) b)`},
		{src: `role != "admin"`, want: `(!= role "admin")`},
		{src: `a+b*c`, want: `(+ a (* b c))`},
		{src: `is-admin == "\u{79}es"`, want: `(== is-admin "yes")`},
		{src: "  a\n  ==\n  b  ", want: `(== a b)`},
	}
	for _, tt := range tests {
		e, err := ParseExprString(tt.src, Options{})
		if err != nil {
			t.Fatalf("%q: %v", tt.src, err)
		}
		if got := ast.FormatExpr(e); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestParseExprErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{src: ``, code: diag.SynExpectExpression},
		{src: `a ==`, code: diag.SynExpectExpression},
		{src: `!`, code: diag.SynExpectExpression},
		{src: `a * )`, code: diag.SynExpectExpression},
		{src: `42`, code: diag.SynExpectExpression},
		{src: `a b`, code: diag.SynExpectExpression},
		{src: `"open`, code: diag.LexUnterminatedString},
		{src: `"\q" == a`, code: diag.LexInvalidEscape},
	}
	for _, tt := range tests {
		_, err := ParseExprString(tt.src, Options{})
		expectCode(t, tt.src, err, tt.code)
	}
}

func TestUnaryNestingLimit(t *testing.T) {
	src := strings.Repeat("!", 40) + "a"
	if _, err := ParseExprString(src, Options{MaxDepth: 40}); err != nil {
		t.Fatalf("within limit: %v", err)
	}
	_, err := ParseExprString(src, Options{MaxDepth: 39})
	expectCode(t, src, err, diag.SynNestingTooDeep)
}

func TestExprSpans(t *testing.T) {
	src := `left == "right"`
	e, err := ParseExprString(src, Options{})
	if err != nil {
		t.Fatal(err)
	}
	sp := e.ExprSpan()
	if sp.Start != 0 || int(sp.End) != len(src) {
		t.Fatalf("expression span %v", sp)
	}
	eq := e.(*ast.Equality)
	lit := eq.Right.(*ast.Primary).Value.(*ast.StrLit)
	if got := src[lit.Span.Start:lit.Span.End]; got != `"right"` {
		t.Fatalf("literal span covers %q", got)
	}
}
