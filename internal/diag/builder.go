package diag

import "hscript/internal/source"

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// LoadFailure: файл шаблона не прочитан, позиции нет.
func LoadFailure(err error) Diagnostic {
	return NewError(IOLoadFileError, source.Span{}, "failed to load file: "+err.Error())
}

// LossyClosing: информационная RND5004 на имени неявно закрытого тега.
// Рендер корректен, но </name> в выводе не появится.
func LossyClosing(tag string, nameSpan source.Span) Diagnostic {
	return New(SevInfo, RndLossyClosing, nameSpan,
		"<"+tag+"> has no closing tag of its own; it ends with its parent")
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
