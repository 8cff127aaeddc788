package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"hscript/internal/diag"
	"hscript/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("<p class=\"x>\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.hs", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.LexUnterminatedString, source.Span{File: fileID, Start: 9, End: 12}, "unterminated string literal"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/src/test.hs"},
		{name: "Relative path", mode: PathModeRelative, contains: "src/test.hs:1:10"},
		{name: "Basename only", mode: PathModeBasename, contains: "test.hs:1:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR LEX1001:") {
				t.Errorf("Expected severity and code in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.hs", []byte("<p class=\"x>\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.LexUnterminatedString, source.Span{File: fileID, Start: 9, End: 12}, "unterminated string literal"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})

	want := "test.hs:1:10: ERROR LEX1001: unterminated string literal\n" +
		" 1 | <p class=\"x>\n" +
		"   |          ^~~\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Pretty() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("wide.hs", []byte("<i>日本x"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynExpectClosingTag, source.Span{File: fileID, Start: 9, End: 10}, "expected closing tag"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	if want := "   |        ^"; lines[2] != want {
		t.Errorf("caret line = %q, want %q", lines[2], want)
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("notes.hs", []byte("<div>\n  <p>text\n"))

	d := diag.NewError(diag.SynExpectClosingTag, source.Span{File: fileID, Start: 16, End: 16}, "expected </p>, found end of input").
		WithNote(source.Span{File: fileID, Start: 8, End: 11}, "tag opened here")
	bag := diag.NewBag(10)
	bag.Add(d)

	var withNotes, withoutNotes bytes.Buffer
	Pretty(&withNotes, bag, fs, PrettyOpts{ShowNotes: true})
	Pretty(&withoutNotes, bag, fs, PrettyOpts{ShowNotes: false})

	if !strings.Contains(withNotes.String(), "note: notes.hs:2:3: tag opened here") {
		t.Errorf("expected note line, got:\n%s", withNotes.String())
	}
	if strings.Contains(withoutNotes.String(), "note:") {
		t.Errorf("notes must be hidden, got:\n%s", withoutNotes.String())
	}
}

func TestPrettyContext(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("ctx.hs", []byte("<a>\n<b>\n<c>\n<d>\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.DirUnknown, source.Span{File: fileID, Start: 8, End: 11}, "unknown directive"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	out := buf.String()

	for _, want := range []string{"WARNING DIR3001:", " 2 | <b>", " 3 | <c>", " 4 | <d>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, " 1 | <a>") {
		t.Errorf("line 1 is outside the context window:\n%s", out)
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("c.hs", []byte("<p"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynExpectRightAngle, source.Span{File: fileID, Start: 2, End: 2}, "expected '>'"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{Color: false})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output contains escape codes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output lacks escape codes: %q", colored.String())
	}
}
