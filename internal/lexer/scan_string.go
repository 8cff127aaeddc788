package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"hscript/internal/diag"
	"hscript/internal/source"
)

// ScanStrLit decodes a double-quoted string literal after optional
// whitespace. Supported escapes: \n \r \t \\ \" \u{1-4 hex} \U{1-8 hex} \xHH.
// A missing opening quote is ErrMismatch; everything after it is fatal.
func ScanStrLit(c *Cursor) (string, source.Span, error) {
	begin := c.Mark()
	c.SkipSpace()
	start := c.Mark()
	if !c.TakeChar('"') {
		c.Reset(begin)
		return "", c.Here(), ErrMismatch
	}

	var sb strings.Builder
	for {
		r, ok := c.Peek()
		// голые \r и \n не потребляются: их ловит проверка закрывающей кавычки
		if !ok || r == '\r' || r == '\n' || r == '"' {
			break
		}
		escStart := c.Mark()
		c.Advance()
		if r != '\\' {
			sb.WriteRune(r)
			continue
		}
		if err := scanEscape(c, escStart, &sb); err != nil {
			return "", c.SpanFrom(start), err
		}
	}

	if !c.TakeChar('"') {
		sp := c.SpanFrom(start)
		return "", sp, diag.Errorf(diag.LexUnterminatedString, sp, "unterminated string literal")
	}
	return sb.String(), c.SpanFrom(start), nil
}

// scanEscape decodes the escape following an already consumed backslash.
func scanEscape(c *Cursor, escStart Mark, sb *strings.Builder) error {
	r, ok := c.Advance()
	if !ok {
		sp := c.SpanFrom(escStart)
		return diag.Errorf(diag.LexUnterminatedString, sp, "unterminated string literal")
	}
	switch r {
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case '\\':
		sb.WriteByte('\\')
	case '"':
		sb.WriteByte('"')
	case 'u':
		return scanBracedCodepoint(c, escStart, 4, sb)
	case 'U':
		return scanBracedCodepoint(c, escStart, 8, sb)
	case 'x':
		// ровно два символа; что это hex, проверяем уже после
		digits := c.Mark()
		for range 2 {
			if _, ok := c.Advance(); !ok {
				sp := c.SpanFrom(escStart)
				return diag.Errorf(diag.LexUnterminatedString, sp, "unterminated string literal")
			}
		}
		return writeCodepoint(c, escStart, c.SpanFrom(digits), sb)
	default:
		sp := c.SpanFrom(escStart)
		return diag.Errorf(diag.LexInvalidEscape, sp, "invalid escape sequence %q", c.Source(sp))
	}
	return nil
}

func scanBracedCodepoint(c *Cursor, escStart Mark, maxDigits int, sb *strings.Builder) error {
	if !c.TakeChar('{') {
		sp := c.SpanFrom(escStart)
		return diag.Errorf(diag.LexEscapeMissingBrace, sp, "expected '{' in unicode escape")
	}
	digits := c.Mark()
	for n := 0; n < maxDigits; n++ {
		r, ok := c.Peek()
		if !ok || !isHex(r) {
			break
		}
		c.Advance()
	}
	digitSpan := c.SpanFrom(digits)
	if !c.TakeChar('}') {
		sp := c.SpanFrom(escStart)
		return diag.Errorf(diag.LexEscapeMissingBrace, sp, "expected '}' after at most %d hex digits", maxDigits)
	}
	return writeCodepoint(c, escStart, digitSpan, sb)
}

// writeCodepoint re-reads the hex digits under digitSpan and appends the rune.
func writeCodepoint(c *Cursor, escStart Mark, digitSpan source.Span, sb *strings.Builder) error {
	hex := c.Source(digitSpan)
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) { // #nosec G115 -- ParseUint bitSize 32
		sp := c.SpanFrom(escStart)
		return diag.Errorf(diag.LexInvalidCodepoint, sp, "invalid unicode codepoint %q", c.Source(sp))
	}
	sb.WriteRune(rune(v)) // #nosec G115 -- validated above
	return nil
}
