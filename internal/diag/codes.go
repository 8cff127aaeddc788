package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические (строковые литералы)
	LexInfo               Code = 1000
	LexUnterminatedString Code = 1001
	LexInvalidEscape      Code = 1002
	LexEscapeMissingBrace Code = 1003
	LexInvalidCodepoint   Code = 1004

	// Синтаксические
	SynInfo                 Code = 2000
	SynExpectDecl           Code = 2001
	SynExpectTagName        Code = 2002
	SynExpectAttribute      Code = 2003
	SynExpectRightAngle     Code = 2004
	SynExpectQuote          Code = 2005
	SynExpectStringLit      Code = 2006
	SynExpectExpression     Code = 2007
	SynExpectClosingTag     Code = 2008
	SynNestingTooDeep       Code = 2009
	SynExpectDirectiveName  Code = 2010
	SynUnexpectedClosingTag Code = 2011

	// Директивы (внешний исполнитель)
	DirInfo             Code = 3000
	DirUnknown          Code = 3001
	DirIncludeNotFound  Code = 3002
	DirIncludeCycle     Code = 3003
	DirIncludeTooDeep   Code = 3004
	DirUnbalanced       Code = 3005
	DirConditionFailed  Code = 3006
	DirMissingEvaluator Code = 3007

	IOLoadFileError Code = 4001

	RndInvalidTag          Code = 5001
	RndUnresolvedDirective Code = 5002
	RndNotIdempotent       Code = 5003
	RndLossyClosing        Code = 5004
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		LexInfo:                 "Lexical information",
		LexUnterminatedString:   "Unterminated string literal",
		LexInvalidEscape:        "Invalid escape sequence",
		LexEscapeMissingBrace:   "Invalid escape sequence: missing closing brace",
		LexInvalidCodepoint:     "Invalid escape sequence: invalid codepoint",
		SynInfo:                 "Syntax information",
		SynExpectDecl:           "Expected directive or tag",
		SynExpectTagName:        "Expected tag name",
		SynExpectAttribute:      "Expected attribute",
		SynExpectRightAngle:     "Expected '>'",
		SynExpectQuote:          "Expected '\"'",
		SynExpectStringLit:      "Expected string literal",
		SynExpectExpression:     "Expected expression",
		SynExpectClosingTag:     "Expected closing tag",
		SynNestingTooDeep:       "Tag nesting too deep",
		SynExpectDirectiveName:  "Expected directive name",
		SynUnexpectedClosingTag: "Unexpected closing tag",
		DirInfo:                 "Directive information",
		DirUnknown:              "Unknown directive",
		DirIncludeNotFound:      "Included file not found",
		DirIncludeCycle:         "Include cycle detected",
		DirIncludeTooDeep:       "Includes nested too deep",
		DirUnbalanced:           "Unbalanced conditional directive",
		DirConditionFailed:      "Condition evaluation failed",
		DirMissingEvaluator:     "No condition evaluator configured",
		IOLoadFileError:         "I/O load file error",
		RndInvalidTag:           "Tag cannot be rendered",
		RndUnresolvedDirective:  "Directive left unresolved at render time",
		RndNotIdempotent:        "Render is not idempotent",
		RndLossyClosing:         "Implicit closing does not round-trip",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("DIR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("RND%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
