package render

import "io"

// Writer accumulates output and tracks indentation for pretty layout.
type Writer struct {
	buf         []byte
	indent      string
	indentLevel int
	atLineStart bool
}

// NewWriter creates a writer; indent is repeated once per nesting level.
func NewWriter(indent string) *Writer {
	return &Writer{indent: indent, atLineStart: true}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) writeIndent() {
	if !w.atLineStart || w.indent == "" {
		w.atLineStart = false
		return
	}
	for range w.indentLevel {
		w.buf = append(w.buf, w.indent...)
	}
	w.atLineStart = false
}

// WriteString writes s, indenting first if at the start of a line.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// WriteRaw writes s verbatim with no indentation.
func (w *Writer) WriteRaw(s string) {
	if s == "" {
		return
	}
	w.buf = append(w.buf, s...)
	w.atLineStart = false
}

// Newline writes a newline if the output doesn't already end with one.
func (w *Writer) Newline() {
	if len(w.buf) > 0 && w.buf[len(w.buf)-1] != '\n' {
		w.buf = append(w.buf, '\n')
	}
	w.atLineStart = true
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// Flush writes the buffer to dst and resets it.
func (w *Writer) Flush(dst io.Writer) error {
	_, err := dst.Write(w.buf)
	w.buf = w.buf[:0]
	return err
}
