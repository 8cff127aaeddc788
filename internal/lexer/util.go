package lexer

import (
	"errors"
	"unicode"
)

// ErrMismatch означает, что продукция не начинается в этой позиции.
// Это не ошибка разбора: вызывающий пробует следующую альтернативу.
var ErrMismatch = errors.New("mismatch")

// IsMismatch reports whether err is (or wraps) ErrMismatch.
func IsMismatch(err error) bool {
	return errors.Is(err, ErrMismatch)
}

// ===== Классификаторы =====

// Идентификаторы директив и выражений: Unicode-буква, затем буквы/цифры/_/-.
func isIdentStartRune(r rune) bool {
	return unicode.IsLetter(r)
}
func isIdentContinueRune(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Имена тегов и атрибутов: только ASCII.
func isHTMLIdentStart(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
func isHTMLIdentContinue(r rune) bool {
	return isHTMLIdentStart(r) || r == '-' || r == '_'
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'f') ||
		(r >= 'A' && r <= 'F')
}
