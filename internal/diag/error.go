package diag

import (
	"errors"
	"fmt"

	"hscript/internal/source"
)

// Error is a fatal, positioned failure produced by the lexer, the parser or
// the directive expander. A single Error aborts the whole operation.
type Error struct {
	Code    Code
	Message string
	Span    source.Span
	Notes   []Note
}

// Errorf creates a fatal error at sp with a formatted message.
func Errorf(code Code, sp source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Span: sp, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (at %s)", e.Code.ID(), e.Message, e.Span)
}

// WithNote attaches secondary context and returns the same error.
func (e *Error) WithNote(sp source.Span, msg string) *Error {
	e.Notes = append(e.Notes, Note{Span: sp, Msg: msg})
	return e
}

// Diagnostic converts the error into a SevError diagnostic.
func (e *Error) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     e.Code,
		Message:  e.Message,
		Primary:  e.Span,
		Notes:    append([]Note(nil), e.Notes...),
	}
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
