package lexer

import (
	"hscript/internal/source"
)

// ScanIdent reads a directive or expression identifier after optional
// whitespace. It returns ErrMismatch without consuming anything when the
// first character is not a letter.
func ScanIdent(c *Cursor) (string, source.Span, error) {
	return scanWord(c, isIdentStartRune, isIdentContinueRune)
}

// ScanHTMLIdent reads a tag or attribute name after optional whitespace.
func ScanHTMLIdent(c *Cursor) (string, source.Span, error) {
	return scanWord(c, isHTMLIdentStart, isHTMLIdentContinue)
}

func scanWord(c *Cursor, start, cont func(rune) bool) (string, source.Span, error) {
	begin := c.Mark()
	c.SkipSpace()
	m := c.Mark()
	r, ok := c.Peek()
	if !ok || !start(r) {
		c.Reset(begin)
		return "", c.Here(), ErrMismatch
	}
	c.Advance()
	c.TakeWhile(cont)
	sp := c.SpanFrom(m)
	return c.Source(sp), sp, nil
}

// ValidIdent reports whether s is a complete directive/expression identifier.
func ValidIdent(s string) bool {
	return validWord(s, isIdentStartRune, isIdentContinueRune)
}

// ValidHTMLIdent reports whether s is a complete tag or attribute name.
func ValidHTMLIdent(s string) bool {
	return validWord(s, isHTMLIdentStart, isHTMLIdentContinue)
}

func validWord(s string, start, cont func(rune) bool) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !start(r) {
			return false
		}
		if i > 0 && !cont(r) {
			return false
		}
	}
	return true
}
