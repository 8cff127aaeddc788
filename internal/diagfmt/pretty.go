package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"hscript/internal/diag"
	"hscript/internal/source"
)

type palette struct {
	err, warn, info, gutter, caret, note, path *color.Color
}

func newPalette(on bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
		path:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.gutter, p.caret, p.note, p.path} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	fmt.Fprintf(w, "%s: %s %s\n",
		p.path.Sprint(location(fs, d.Primary, opts.PathMode)),
		p.severity(d.Severity).Sprintf("%s %s:", d.Severity, d.Code.ID()),
		d.Message)
	writeSnippet(w, fs, d.Primary, opts.Context, p)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		writeSnippet(w, fs, n.Span, 0, p)
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if fs == nil || fs.Get(sp.File) == nil {
		return sp.String()
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, sp.File, mode), start.Line, start.Col)
}

// writeSnippet печатает строки вокруг sp и подчёркивание под первой строкой span.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, ctx int8, p palette) {
	if fs == nil {
		return
	}
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	lines := uint32(len(f.LineIdx)) + 1
	if ctx < 0 {
		ctx = 0
	}
	from, to := uint32(1), start.Line+uint32(ctx)
	if start.Line > uint32(ctx) {
		from = start.Line - uint32(ctx)
	}
	if to > lines {
		to = lines
	}
	gw := len(strconv.FormatUint(uint64(to), 10))
	pad := strings.Repeat(" ", gw)

	for ln := from; ln <= to; ln++ {
		text := detab(f.GetLine(ln))
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gw, ln), text)
		if ln != start.Line {
			continue
		}
		lo := clampCol(start.Col, text)
		hi := len(text)
		if end.Line == start.Line {
			hi = clampCol(end.Col, text)
		}
		width := runewidth.StringWidth(text[lo:max(lo, hi)])
		if width < 1 {
			width = 1
		}
		mark := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%s |", pad), strings.Repeat(" ", runewidth.StringWidth(text[:lo])), p.caret.Sprint(mark))
	}
}

// clampCol переводит 1-based байтовую колонку в индекс строки.
func clampCol(col uint32, line string) int {
	if col == 0 {
		return 0
	}
	i := int(col - 1)
	if i > len(line) {
		return len(line)
	}
	return i
}

// detab заменяет табы одним пробелом, чтобы байтовые колонки совпадали с экранными.
func detab(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
