package driver

import (
	"hscript/internal/ast"
	"hscript/internal/diag"
	"hscript/internal/observ"
	"hscript/internal/parser"
	"hscript/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Program *ast.Program // nil, если разбор упал
	Bag     *diag.Bag
	Timing  observ.Report
}

// Parse loads and parses one template. Only a load failure is returned as
// error; parse errors land in the bag.
func Parse(filePath string, opts Options) (*ParseResult, error) {
	timer := observ.NewTimer()
	fs := source.NewFileSet()
	fs.SetNormalizeNFC(opts.NFC)

	phase := timer.Begin("load")
	fileID, err := fs.Load(filePath)
	timer.End(phase, "")
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(opts.maxDiagnostics())
	popts := opts.parserOptions()
	popts.Reporter = &diag.BagReporter{Bag: bag}

	phase = timer.Begin("parse")
	result := parser.ParseFile(fs, fileID, popts)
	timer.End(phase, "")

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Program: result.Program,
		Bag:     bag,
		Timing:  timer.Report(),
	}, nil
}
