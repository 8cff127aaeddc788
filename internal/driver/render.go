package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"

	"hscript/internal/ast"
	"hscript/internal/cond"
	"hscript/internal/diag"
	"hscript/internal/directive"
	"hscript/internal/observ"
	"hscript/internal/render"
	"hscript/internal/source"
)

// RenderResult is the outcome of rendering one root template.
type RenderResult struct {
	Path     string
	FileSet  *source.FileSet
	Bag      *diag.Bag
	Output   []byte // nil, если были ошибки
	Includes []string
	Cached   bool
	OutPath  string // заполняется RenderDir при записи
	Timing   observ.Report
}

// expansion: корневой файл после разбора и раскрытия директив.
type expansion struct {
	fs     *source.FileSet
	key    string
	root   *ast.Program
	result *directive.Result // nil, если что-то упало; причина в bag
	bag    *diag.Bag
}

// expandFile loads path, parses it and expands its directives. Only a failure
// to read the root file or a cancelled ctx is returned as error.
func expandFile(ctx context.Context, path string, opts Options, timer *observ.Timer) (*expansion, error) {
	key, err := unitKey(path)
	if err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	fs.SetNormalizeNFC(opts.NFC)
	loader := NewFileLoader(fs, opts)
	bag := diag.NewBag(opts.maxDiagnostics())
	reporter := &diag.BagReporter{Bag: bag}
	ex := &expansion{fs: fs, key: key, bag: bag}

	if _, statErr := os.Stat(key); statErr != nil {
		return nil, statErr
	}

	opts.emit(path, StageParse, StatusWorking, nil, 0)
	phase := timer.Begin("parse")
	unit, err := loader.LoadPath(key)
	timer.End(phase, "")
	if err != nil {
		if _, ok := diag.AsError(err); !ok {
			return nil, err
		}
		diag.ReportErr(reporter, err)
		return ex, nil
	}
	ex.root = unit.Program

	opts.emit(path, StageExpand, StatusWorking, nil, 0)
	phase = timer.Begin("expand")
	expander := directive.NewExpander(directive.Config{
		Registry:        opts.registry(),
		Loader:          loader,
		Evaluator:       cond.New(opts.Vars),
		MaxIncludeDepth: opts.MaxIncludeDepth,
		Reporter:        reporter,
		Logger:          opts.logger(),
	})
	res, err := expander.Expand(ctx, unit.Program, key)
	timer.End(phase, "")
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		diag.ReportErr(reporter, err)
		return ex, nil
	}
	ex.result = res
	return ex, nil
}

// Render renders one root template. Diagnostics go to the result's bag; the
// error return is for unreadable roots and cancellation.
func Render(ctx context.Context, path string, opts Options) (*RenderResult, error) {
	log := opts.logger()
	key, err := unitKey(path)
	if err != nil {
		return nil, err
	}

	cacheKey := renderKey(key, opts)
	if opts.Cache != nil {
		var payload DiskPayload
		ok, getErr := opts.Cache.Get(cacheKey, &payload)
		if getErr != nil {
			log.Warn("render cache read failed", "path", key, "err", getErr)
		}
		if ok && payload.Root == key && payload.VarsHash == varsDigest(opts.Vars) && payloadFresh(&payload, opts.NFC) {
			log.Debug("render cache hit", "path", key)
			return &RenderResult{
				Path:     path,
				FileSet:  source.NewFileSet(),
				Bag:      diag.NewBag(opts.maxDiagnostics()),
				Output:   payload.Output,
				Includes: payload.Includes,
				Cached:   true,
			}, nil
		}
		log.Debug("render cache miss", "path", key)
	}

	timer := observ.NewTimer()
	ex, err := expandFile(ctx, path, opts, timer)
	if err != nil {
		return nil, err
	}
	res := &RenderResult{Path: path, FileSet: ex.fs, Bag: ex.bag}
	if ex.result == nil {
		res.Timing = timer.Report()
		return res, nil
	}
	res.Includes = ex.result.Includes

	opts.emit(path, StageRender, StatusWorking, nil, 0)
	phase := timer.Begin("render")
	var buf bytes.Buffer
	err = render.New(render.Options{Indent: opts.Indent}).Tags(&buf, ex.result.Tags)
	timer.End(phase, "")
	res.Timing = timer.Report()
	if err != nil {
		diag.ReportErr(&diag.BagReporter{Bag: ex.bag}, err)
		return res, nil
	}
	res.Output = buf.Bytes()

	if opts.Cache != nil && ex.bag.Len() == 0 {
		if putErr := opts.Cache.Put(cacheKey, makePayload(ex, opts, res.Output)); putErr != nil {
			log.Warn("render cache write failed", "path", key, "err", putErr)
		}
	}
	return res, nil
}

func makePayload(ex *expansion, opts Options, output []byte) *DiskPayload {
	deps := append([]string{ex.key}, ex.result.Includes...)
	hashes := make([]Digest, 0, len(deps))
	for _, dep := range deps {
		var h Digest
		if f, ok := ex.fs.GetByPath(dep); ok {
			h = Digest(f.Hash)
		}
		hashes = append(hashes, h)
	}
	return &DiskPayload{
		Schema:    diskCacheSchemaVersion,
		Root:      ex.key,
		VarsHash:  varsDigest(opts.Vars),
		Deps:      deps,
		DepHashes: hashes,
		Includes:  ex.result.Includes,
		Output:    output,
	}
}

// ListRoots returns the non-partial templates under dir, sorted.
func ListRoots(dir string, opts Options) ([]string, error) {
	files, err := listTemplateFiles(dir, opts.ext())
	if err != nil {
		return nil, err
	}
	roots := files[:0]
	for _, f := range files {
		if !isPartial(f) {
			roots = append(roots, f)
		}
	}
	return roots, nil
}

// RenderDir renders every non-partial template under dir in parallel. When
// outDir is set, each error-free output is written atomically to the same
// relative path under outDir.
func RenderDir(ctx context.Context, dir, outDir string, opts Options) ([]RenderResult, error) {
	roots, err := ListRoots(dir, opts)
	if err != nil {
		return nil, err
	}
	for _, path := range roots {
		opts.emit(path, StageParse, StatusQueued, nil, 0)
	}

	results := make([]RenderResult, len(roots))
	err = forEachFile(ctx, roots, opts.Jobs, func(ctx context.Context, i int, path string) error {
		start := time.Now()
		res, err := Render(ctx, path, opts)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			bag := diag.NewBag(opts.maxDiagnostics())
			bag.Add(diag.LoadFailure(err))
			results[i] = RenderResult{Path: path, FileSet: source.NewFileSet(), Bag: bag}
			opts.emit(path, StageParse, StatusError, err, time.Since(start))
			return nil
		}
		results[i] = *res
		if res.Output == nil {
			opts.emit(path, StageRender, StatusError, nil, time.Since(start))
			return nil
		}
		if outDir == "" {
			opts.emit(path, StageRender, StatusDone, nil, time.Since(start))
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out := filepath.Join(outDir, rel)
		opts.emit(path, StageWrite, StatusWorking, nil, 0)
		if err := WriteOutput(out, res.Output); err != nil {
			opts.emit(path, StageWrite, StatusError, err, time.Since(start))
			return err
		}
		results[i].OutPath = out
		opts.emit(path, StageWrite, StatusDone, nil, time.Since(start))
		opts.logger().Debug("wrote output", "path", out, "bytes", len(res.Output), "cached", res.Cached)
		return nil
	})
	return results, err
}

// WriteOutput atomically replaces path with data, creating parent dirs.
func WriteOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}
