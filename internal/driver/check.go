package driver

import (
	"bytes"
	"context"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"hscript/internal/ast"
	"hscript/internal/diag"
	"hscript/internal/observ"
	"hscript/internal/parser"
	"hscript/internal/render"
	"hscript/internal/source"
)

// CheckResult is the outcome of a render round trip.
type CheckResult struct {
	Path     string
	FileSet  *source.FileSet
	Bag      *diag.Bag
	First    []byte
	Second   []byte
	Diff     string // пусто, если рендер идемпотентен
	Implicit int    // число неявно закрытых тегов
	Timing   observ.Report
}

// OK reports whether the round trip succeeded without errors.
func (r *CheckResult) OK() bool {
	return r != nil && !r.Bag.HasErrors() && r.Diff == ""
}

// Check parses → expands → renders path, re-parses the output and renders it
// again. A mismatch between the two renders is RND5003 with a line diff;
// every implicitly closed tag is reported as RND5004 info.
func Check(ctx context.Context, path string, opts Options) (*CheckResult, error) {
	timer := observ.NewTimer()
	ex, err := expandFile(ctx, path, opts, timer)
	if err != nil {
		return nil, err
	}
	res := &CheckResult{Path: path, FileSet: ex.fs, Bag: ex.bag}
	defer func() { res.Timing = timer.Report() }()
	if ex.result == nil {
		return res, nil
	}
	reporter := &diag.BagReporter{Bag: ex.bag}

	for _, t := range ex.result.Tags {
		t.Walk(func(n *ast.Tag) bool {
			if n.Closing == ast.ClosingImplicit {
				res.Implicit++
				ex.bag.Add(diag.LossyClosing(n.Name, n.NameSpan))
			}
			return true
		})
	}

	r := render.New(render.Options{Indent: opts.Indent})
	phase := timer.Begin("render")
	var first bytes.Buffer
	err = r.Tags(&first, ex.result.Tags)
	timer.End(phase, "first")
	if err != nil {
		diag.ReportErr(reporter, err)
		return res, nil
	}
	res.First = first.Bytes()

	phase = timer.Begin("reparse")
	outID := ex.fs.AddRendered(ex.key, res.First)
	prog, err := parser.ParseProgram(ex.fs.Get(outID), opts.parserOptions())
	timer.End(phase, "")
	if err != nil {
		b := diag.ReportError(reporter, diag.RndNotIdempotent, rootSpan(ex), "rendered output does not parse back")
		if de, ok := diag.AsError(err); ok {
			b = b.WithNote(de.Span, de.Error())
		}
		b.Emit()
		return res, nil
	}

	phase = timer.Begin("render")
	var second bytes.Buffer
	err = r.Program(&second, prog)
	timer.End(phase, "second")
	if err != nil {
		diag.ReportErr(reporter, err)
		return res, nil
	}
	res.Second = second.Bytes()

	if !bytes.Equal(res.First, res.Second) {
		res.Diff = LineDiff(string(res.First), string(res.Second))
		diag.ReportError(reporter, diag.RndNotIdempotent, rootSpan(ex), "render is not idempotent").Emit()
	}
	return res, nil
}

func rootSpan(ex *expansion) source.Span {
	if ex.root != nil {
		return ex.root.Span
	}
	return source.Span{}
}

// CheckDir runs Check over every template under dir in parallel.
func CheckDir(ctx context.Context, dir string, opts Options) ([]CheckResult, error) {
	files, err := listTemplateFiles(dir, opts.ext())
	if err != nil {
		return nil, err
	}
	results := make([]CheckResult, len(files))
	err = forEachFile(ctx, files, opts.Jobs, func(ctx context.Context, i int, path string) error {
		res, err := Check(ctx, path, opts)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			bag := diag.NewBag(opts.maxDiagnostics())
			bag.Add(diag.LoadFailure(err))
			results[i] = CheckResult{Path: path, FileSet: source.NewFileSet(), Bag: bag}
			return nil
		}
		results[i] = *res
		return nil
	})
	return results, err
}

// LineDiff renders a line-oriented diff of a and b with -/+ prefixes.
// Single-line inputs are diffed by characters as [-old-]{+new+}.
func LineDiff(a, b string) string {
	dmp := diffpatch.New()
	var sb strings.Builder
	sb.WriteString("--- first\n+++ second\n")

	if !strings.Contains(a, "\n") && !strings.Contains(b, "\n") {
		for _, d := range dmp.DiffMain(a, b, false) {
			switch d.Type {
			case diffpatch.DiffDelete:
				sb.WriteString("[-" + d.Text + "-]")
			case diffpatch.DiffInsert:
				sb.WriteString("{+" + d.Text + "+}")
			default:
				sb.WriteString(d.Text)
			}
		}
		sb.WriteString("\n")
		return sb.String()
	}

	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix = "-"
		case diffpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
