package diag

import (
	"fmt"
	"strings"
)

// Severity ранжирует находки по тому, что они значат для вывода шаблона.
type Severity uint8

const (
	// SevInfo: вывод корректен, но не повторяет исходник
	// (RND5004 для неявно закрытых тегов).
	SevInfo Severity = iota
	// SevWarning: файл отрендерен, часть шаблона пропущена.
	SevWarning
	// SevError: вывод для файла не пишется.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity разбирает значение --min-severity. Пустая строка: info.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(name) {
	case "", "info":
		return SevInfo, nil
	case "warn", "warning":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return SevInfo, fmt.Errorf("unsupported severity %q (must be info, warning or error)", name)
}
