package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"hscript/internal/ast"
	"hscript/internal/diag"
	"hscript/internal/source"
)

// ignoreSpans сравнивает деревья без учёта позиций.
var ignoreSpans = cmpopts.IgnoreTypes(source.Span{})

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, _, err := ParseString("test.html", src, Options{})
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return prog
}

func mustParseTag(t *testing.T, src string) *ast.Tag {
	t.Helper()
	tag, err := ParseTagString(src, Options{})
	if err != nil {
		t.Fatalf("parse tag %q: %v", src, err)
	}
	return tag
}

func expectCode(t *testing.T, src string, err error, want diag.Code) *diag.Error {
	t.Helper()
	de, ok := diag.AsError(err)
	if !ok {
		t.Fatalf("%q: expected *diag.Error %s, got %v", src, want.ID(), err)
	}
	if de.Code != want {
		t.Fatalf("%q: got %s (%s), want %s", src, de.Code.ID(), de.Message, want.ID())
	}
	return de
}

func diffTrees(want, got any) string {
	return cmp.Diff(want, got, ignoreSpans)
}
