package lexer

import (
	"testing"

	"hscript/internal/diag"
)

func TestScanStrLitDecodes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `"\u{48}\u{65}\u{6c}\u{6c}\u{6f}"`, want: "Hello"},
		{in: `"\x41"`, want: "A"},
		{in: `"\n\t\\\""`, want: "\n\t\\\""},
		{in: `  "nav.html" rest`, want: "nav.html"},
		{in: `"\U{1F600}"`, want: "\U0001F600"},
		{in: `"\u{e9}t\u{E9}"`, want: "été"},
		{in: `""`, want: ""},
		{in: `"привет"`, want: "привет"},
	}
	for _, tt := range tests {
		c := NewCursor(createFile(tt.in))
		got, sp, err := ScanStrLit(&c)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.in, got, tt.want)
		}
		if src := c.Source(sp); src[0] != '"' || src[len(src)-1] != '"' {
			t.Errorf("%s: span should cover the quotes, got %q", tt.in, src)
		}
	}
}

func TestScanStrLitErrors(t *testing.T) {
	tests := []struct {
		in   string
		code diag.Code
	}{
		{in: `"abc`, code: diag.LexUnterminatedString},
		{in: "\"abc\ndef\"", code: diag.LexUnterminatedString},
		{in: `"abc\`, code: diag.LexUnterminatedString},
		{in: `"\q"`, code: diag.LexInvalidEscape},
		{in: `"\u{41"`, code: diag.LexEscapeMissingBrace},
		{in: `"\u41"`, code: diag.LexEscapeMissingBrace},
		{in: `"\u{12345}"`, code: diag.LexEscapeMissingBrace},
		{in: `"\U{110000}"`, code: diag.LexInvalidCodepoint},
		{in: `"\u{D800}"`, code: diag.LexInvalidCodepoint},
		{in: `"\u{}"`, code: diag.LexInvalidCodepoint},
		{in: `"\xZZ"`, code: diag.LexInvalidCodepoint},
		{in: `"\x4`, code: diag.LexUnterminatedString},
	}
	for _, tt := range tests {
		c := NewCursor(createFile(tt.in))
		_, _, err := ScanStrLit(&c)
		de, ok := diag.AsError(err)
		if !ok {
			t.Fatalf("%s: expected *diag.Error, got %v", tt.in, err)
		}
		if de.Code != tt.code {
			t.Errorf("%s: got %s, want %s", tt.in, de.Code.ID(), tt.code.ID())
		}
	}
}

func TestScanStrLitMismatch(t *testing.T) {
	c := NewCursor(createFile("  nav.html"))
	_, _, err := ScanStrLit(&c)
	if !IsMismatch(err) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if c.Off != 0 {
		t.Fatalf("mismatch consumed input up to %d", c.Off)
	}
}
