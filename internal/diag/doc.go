// Package diag defines the diagnostic model shared by the lexer, the parser,
// the directive expander and the renderer.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form such as
//     SYN2008 (codes.go).
//   - Message – short human oriented text.
//   - Primary – the source.Span pointing at the problem.
//   - Notes – optional secondary spans, e.g. "tag opened here".
//
// # Fatal errors
//
// Parsing is all-or-nothing: the first failure aborts the whole call. Such
// failures travel as *Error values through ordinary Go error returns and are
// converted to a Diagnostic (Error.Diagnostic) only when they reach a Bag.
//
// # Emitting diagnostics
//
// Non-fatal findings go through a Reporter. ReportBuilder (ReportError,
// ReportWarning) lets producers chain WithNote before Emit. Info-level
// RND5004 reports are built whole by LossyClosing.
// BagReporter aggregates into a Bag, which supports sorting,
// deduplication and a severity floor (DropBelow, fed by --min-severity).
// The Bag counts diagnostics refused past its limit. Rendering lives in
// internal/diagfmt.
package diag
