package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"hscript/internal/source"

	"fortio.org/safecast"
)

// Cursor представляет собой позицию в файле.
// Cursor передаётся по значению, поэтому копия (Fork) двигается независимо от оригинала.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	Limit uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{
		File:  f,
		Off:   0,
		Limit: limit,
	}
}

func (c *Cursor) limit() uint32 {
	if c.Limit != 0 {
		return c.Limit
	}
	lenFileContent, err := safecast.Conv[uint32](len(c.File.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return lenFileContent
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit()
}

// Peek returns the next character without consuming it; ok is false at end of input.
func (c *Cursor) Peek() (r rune, ok bool) {
	r, _ = c.peekRune()
	return r, !c.EOF()
}

// PeekByte читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) PeekByte() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// HasPrefix reports whether the remaining input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	rest := c.rest()
	return len(rest) >= len(s) && string(rest[:len(s)]) == s
}

// Advance consumes one character and returns it; ok is false at end of input.
func (c *Cursor) Advance() (r rune, ok bool) {
	r, sz := c.peekRune()
	if sz == 0 {
		return 0, false
	}
	c.Off += sz
	return r, true
}

// TakeWhile consumes the maximal, possibly empty, run of characters
// satisfying pred and returns it.
func (c *Cursor) TakeWhile(pred func(rune) bool) string {
	start := c.Off
	for {
		r, sz := c.peekRune()
		if sz == 0 || !pred(r) {
			break
		}
		c.Off += sz
	}
	return string(c.File.Content[start:c.Off])
}

// TakeChar consumes r if it is the next character.
func (c *Cursor) TakeChar(r rune) bool {
	got, sz := c.peekRune()
	if sz == 0 || got != r {
		return false
	}
	c.Off += sz
	return true
}

// TakeString consumes s if the remaining input starts with it.
func (c *Cursor) TakeString(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	c.Off += uint32(len(s)) // #nosec G115 -- bounded by the remaining input
	return true
}

// SkipSpace пропускает пробельные символы (unicode.IsSpace).
func (c *Cursor) SkipSpace() {
	c.TakeWhile(unicode.IsSpace)
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Here returns an empty span at the current position.
func (c *Cursor) Here() source.Span {
	return source.Span{File: c.File.ID, Start: c.Off, End: c.Off}
}

// Source returns the verbatim text covered by sp.
func (c *Cursor) Source(sp source.Span) string {
	end := min(sp.End, c.limit())
	if sp.Start >= end {
		return ""
	}
	return string(c.File.Content[sp.Start:end])
}

// Fork returns an independent copy for speculative parsing.
// The original cursor is untouched until Commit.
func (c *Cursor) Fork() Cursor {
	return *c
}

// Commit moves the cursor to the position reached by fork.
func (c *Cursor) Commit(fork Cursor) {
	c.Off = fork.Off
}

func (c *Cursor) rest() []byte {
	if c.EOF() {
		return nil
	}
	return c.File.Content[c.Off:c.limit()]
}

func (c *Cursor) peekRune() (r rune, size uint32) {
	if c.EOF() {
		return 0, 0
	}
	b := c.File.Content[c.Off]
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(c.File.Content[c.Off:c.limit()])
	return r, uint32(sz) // #nosec G115 -- sz <= utf8.UTFMax
}
