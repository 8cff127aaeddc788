// Package render serialises document trees back to HTML text.
//
// Output is deterministic: attributes are written in stored order, Inline
// tags end with "/>", Explicit tags get their own closing tag and Implicit
// tags get none. Text is written verbatim, whitespace-only runs included,
// so compact output of a parsed tree reproduces its source between tags.
//
// With Options.Indent set, tags whose children are explicitly or inline
// closed tags (plus whitespace-only text) are laid out one child per line.
// That layout replaces the original whitespace between those children, so
// pretty output is stable under reparse but not a byte-exact round trip.
//
// Зависимости: internal/ast, internal/diag, internal/lexer (валидация имён).
package render
