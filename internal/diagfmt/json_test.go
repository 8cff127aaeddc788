package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"hscript/internal/diag"
	"hscript/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.hs", []byte("<div>\n  <p title=\"oops\n</div>"))

	bag := diag.NewBag(10)
	d := diag.NewError(diag.LexUnterminatedString, source.Span{File: fileID, Start: 17, End: 22}, "unterminated string literal").
		WithNote(source.Span{File: fileID, Start: 8, End: 10}, "in this tag")
	bag.Add(d)

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}

	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "LEX1001",
			Message:  "unterminated string literal",
			Location: LocationJSON{File: "test.hs", StartByte: 17, EndByte: 22, StartLine: 2, StartCol: 12, EndLine: 2, EndCol: 17},
			Notes: []NoteJSON{{
				Message:  "in this tag",
				Location: LocationJSON{File: "test.hs", StartByte: 8, EndByte: 10, StartLine: 2, StartCol: 3, EndLine: 2, EndCol: 5},
			}},
		}},
	}
	if diff := cmp.Diff(want, output); diff != "" {
		t.Errorf("JSON() mismatch (-want +got):\n%s", diff)
	}
}

// TestJSONWithoutPositions проверяет, что line/col опускаются
func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.hs", []byte("#bogus"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.DirUnknown, source.Span{File: fileID, Start: 1, End: 6}, "unknown directive #bogus").
		WithNote(source.Span{File: fileID, Start: 0, End: 1}, "here"))

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: PathModeBasename})
	if err != nil {
		t.Fatal(err)
	}
	loc := out.Diagnostics[0].Location
	if loc.StartLine != 0 || loc.StartCol != 0 {
		t.Errorf("positions must be omitted, got %+v", loc)
	}
	if len(out.Diagnostics[0].Notes) != 0 {
		t.Errorf("notes must be omitted without IncludeNotes")
	}
}

// TestJSONMaxLimit проверяет обрезку вывода
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.hs", []byte("test content"))

	bag := diag.NewBag(10)
	for i := range 5 {
		bag.Add(diag.NewError(diag.SynExpectDecl, source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, "expected declaration"))
	}

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 3})
	if err != nil {
		t.Fatal(err)
	}
	if out.Count != 3 || len(out.Diagnostics) != 3 {
		t.Errorf("Expected 3 diagnostics (limited), got count=%d len=%d", out.Count, len(out.Diagnostics))
	}
}

// TestJSONPathModes проверяет различные режимы путей
func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	fileID := fs.AddVirtual("/home/user/project/src/main.hs", []byte("test"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynExpectDecl, source.Span{File: fileID, Start: 0, End: 1}, "Error"))

	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAbsolute, "/home/user/project/src/main.hs"},
		{PathModeRelative, "src/main.hs"},
		{PathModeBasename, "main.hs"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: tt.mode})
			if err != nil {
				t.Fatal(err)
			}
			if got := out.Diagnostics[0].Location.File; got != tt.want {
				t.Errorf("File = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSarif(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("page.hs", []byte("<p>\n</q>"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynExpectClosingTag, source.Span{File: fileID, Start: 4, End: 8}, "expected </p>").
		WithNote(source.Span{File: fileID, Start: 0, End: 3}, "opened here"))
	bag.Add(diag.New(diag.SevWarning, diag.DirUnknown, source.Span{File: fileID, Start: 0, End: 1}, "unknown"))

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolVersion: "0.1.0", InvocationArgs: []string{"check"}}); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected envelope: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "hscript" {
		t.Errorf("driver name = %q", run.Tool.Driver.Name)
	}
	gotRules := make([]string, 0, len(run.Tool.Driver.Rules))
	for _, r := range run.Tool.Driver.Rules {
		gotRules = append(gotRules, r.ID)
	}
	if diff := cmp.Diff([]string{"SYN2008", "DIR3001"}, gotRules); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
	first := run.Results[0]
	if first.Level != "error" || first.Locations[0].PhysicalLocation.Region.StartLine != 2 {
		t.Errorf("unexpected first result: %+v", first)
	}
	if len(first.RelatedLocations) != 1 || first.RelatedLocations[0].Message.Text != "opened here" {
		t.Errorf("note not carried as related location: %+v", first.RelatedLocations)
	}
	if run.Results[1].Level != "warning" {
		t.Errorf("second level = %q", run.Results[1].Level)
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Errorf("run with errors must not be successful")
	}
}
