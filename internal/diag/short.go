package diag

import (
	"fmt"
	"io"
	"strings"

	"hscript/internal/source"
)

// FormatShortDiagnostics renders diagnostics in a compact one-line-per-entry
// form, "path:line:col: SEVERITY CODE: message", followed by indented notes.
// It is used by golden tests and by --format short.
func FormatShortDiagnostics(w io.Writer, fs *source.FileSet, diags []Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n", position(fs, d.Primary), d.Severity, d.Code.ID(), d.Message); err != nil {
			return err
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  note: %s: %s\n", position(fs, n.Span), n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// ShortString is FormatShortDiagnostics into a string.
func ShortString(fs *source.FileSet, diags []Diagnostic) string {
	var sb strings.Builder
	_ = FormatShortDiagnostics(&sb, fs, diags)
	return sb.String()
}

func position(fs *source.FileSet, sp source.Span) string {
	if fs == nil {
		return sp.String()
	}
	f := fs.Get(sp.File)
	if f == nil {
		return sp.String()
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.FormatPath("relative", fs.BaseDir()), start.Line, start.Col)
}
