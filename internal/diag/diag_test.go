package diag

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"hscript/internal/source"
)

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexUnterminatedString: "LEX1001",
		SynExpectClosingTag:   "SYN2008",
		DirIncludeCycle:       "DIR3003",
		IOLoadFileError:       "IO4001",
		RndInvalidTag:         "RND5001",
		UnknownCode:           "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%v.ID() = %q, want %q", code, got, want)
		}
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(3)
	bag.Add(NewError(SynExpectTagName, source.Span{File: 1, Start: 5, End: 6}, "b"))
	bag.Add(New(SevWarning, RndLossyClosing, source.Span{File: 0, Start: 9, End: 9}, "c"))
	bag.Add(NewError(LexInvalidEscape, source.Span{File: 0, Start: 2, End: 4}, "a"))
	if bag.Add(NewError(LexInvalidEscape, source.Span{}, "overflow")) {
		t.Fatal("expected Add to refuse items past the limit")
	}
	bag.Sort()
	var got []string
	for _, d := range bag.Items() {
		got = append(got, d.Message)
	}
	if strings.Join(got, ",") != "a,c,b" {
		t.Fatalf("unexpected order %v", got)
	}
	if !bag.HasErrors() || bag.Count(SevWarning) != 1 || bag.Count(SevError) != 2 {
		t.Fatal("expected two errors and one warning")
	}
	if bag.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", bag.Dropped())
	}
}

func TestBagDropBelow(t *testing.T) {
	bag := NewBag(8)
	bag.Add(LossyClosing("li", source.Span{Start: 1, End: 3}))
	bag.Add(New(SevWarning, DirUnknown, source.Span{Start: 5, End: 9}, "unknown directive"))
	bag.Add(NewError(RndInvalidTag, source.Span{Start: 9, End: 9}, "bad tag"))

	if d := bag.Items()[0]; d.Severity != SevInfo || d.Code != RndLossyClosing {
		t.Fatalf("lossy closing must be an RND5004 info, got %+v", d)
	}
	bag.DropBelow(SevWarning)
	if bag.Len() != 2 || bag.Count(SevInfo) != 0 {
		t.Fatalf("info must be dropped, got %+v", bag.Items())
	}
	bag.DropBelow(SevError)
	if bag.Len() != 1 || bag.Items()[0].Code != RndInvalidTag {
		t.Fatalf("only the error must remain, got %+v", bag.Items())
	}
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]Severity{"": SevInfo, "info": SevInfo, "WARN": SevWarning, "warning": SevWarning, "error": SevError}
	for in, want := range cases {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Errorf("ParseSeverity(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("expected an error for unknown severity")
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(10)
	sp := source.Span{Start: 1, End: 2}
	bag.Add(NewError(SynExpectTagName, sp, "one"))
	bag.Add(NewError(SynExpectTagName, sp, "two"))
	bag.Add(NewError(SynExpectAttribute, sp, "three"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 items after dedup, got %d", bag.Len())
	}
}

func TestErrorWrapping(t *testing.T) {
	open := source.Span{Start: 0, End: 5}
	base := Errorf(SynExpectClosingTag, source.Span{Start: 12, End: 12}, "unclosed tag %q", "div").
		WithNote(open, "tag opened here")
	wrapped := fmt.Errorf("render page: %w", base)

	de, ok := AsError(wrapped)
	if !ok {
		t.Fatal("expected AsError to unwrap *Error")
	}
	if de.Code != SynExpectClosingTag {
		t.Fatalf("unexpected code %v", de.Code)
	}
	d := de.Diagnostic()
	if d.Severity != SevError || len(d.Notes) != 1 || d.Notes[0].Span != open {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if !strings.HasPrefix(base.Error(), "SYN2008: unclosed tag \"div\"") {
		t.Fatalf("unexpected message %q", base.Error())
	}
	if _, ok := AsError(errors.New("plain")); ok {
		t.Fatal("plain errors must not convert")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(4)
	r := BagReporter{Bag: bag}
	b := ReportWarning(r, RndLossyClosing, source.Span{}, "lossy").WithNote(source.Span{}, "here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected a single diagnostic, got %d", bag.Len())
	}
	if got := bag.Items()[0]; got.Severity != SevWarning || len(got.Notes) != 1 {
		t.Fatalf("unexpected diagnostic %+v", got)
	}
}

func TestReportErr(t *testing.T) {
	bag := NewBag(4)
	r := BagReporter{Bag: bag}
	ReportErr(r, Errorf(LexEscapeMissingBrace, source.Span{Start: 3, End: 4}, "missing brace"))
	ReportErr(r, errors.New("disk on fire"))
	ReportErr(r, nil)
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(items))
	}
	if items[0].Code != LexEscapeMissingBrace || items[1].Code != IOLoadFileError {
		t.Fatalf("unexpected codes %v %v", items[0].Code, items[1].Code)
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/proj")
	id := fs.AddVirtual("/proj/page.hs", []byte("<div>\n  <p>\n"))
	d := NewError(SynExpectClosingTag, source.Span{File: id, Start: 12, End: 12}, "unclosed tag \"div\"").
		WithNote(source.Span{File: id, Start: 0, End: 5}, "tag opened here")

	got := ShortString(fs, []Diagnostic{d})
	want := "page.hs:3:1: ERROR SYN2008: unclosed tag \"div\"\n" +
		"  note: page.hs:1:1: tag opened here\n"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
