package parser

import (
	"hscript/internal/ast"
	"hscript/internal/diag"
	"hscript/internal/directive"
	"hscript/internal/lexer"
	"hscript/internal/source"
)

// DefaultMaxDepth bounds tag and unary nesting.
const DefaultMaxDepth = 512

type Options struct {
	// MaxDepth ограничивает вложенность тегов и унарных операторов; 0 означает DefaultMaxDepth.
	MaxDepth int
	// Directives выбирает грамматику аргумента по имени директивы; nil означает DefaultRegistry.
	Directives *directive.Registry
	// Reporter получает фатальную ошибку ParseFile (опционально).
	Reporter diag.Reporter
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

type Result struct {
	Program *ast.Program
	Err     error
}

// Parser: состояние парсера на один файл
type Parser struct {
	c     lexer.Cursor
	opts  Options
	dirs  *directive.Registry
	depth int
}

func newParser(f *source.File, opts Options) *Parser {
	dirs := opts.Directives
	if dirs == nil {
		dirs = directive.DefaultRegistry()
	}
	return &Parser{
		c:    lexer.NewCursor(f),
		opts: opts,
		dirs: dirs,
	}
}

// ParseFile: входная точка для разбора одного файла из FileSet.
// Фатальная ошибка также уходит в opts.Reporter.
func ParseFile(fs *source.FileSet, id source.FileID, opts Options) Result {
	f := fs.Get(id)
	if f == nil {
		err := diag.Errorf(diag.IOLoadFileError, source.Span{File: id}, "unknown file id %d", id)
		diag.ReportErr(opts.Reporter, err)
		return Result{Err: err}
	}
	prog, err := ParseProgram(f, opts)
	if err != nil {
		diag.ReportErr(opts.Reporter, err)
	}
	return Result{Program: prog, Err: err}
}

// ParseProgram parses a whole document: a flat list of directives and tags.
// The first failure aborts the parse and is returned as *diag.Error.
func ParseProgram(f *source.File, opts Options) (*ast.Program, error) {
	p := newParser(f, opts)
	return p.parseProgram()
}

// ParseTag parses one tag after optional whitespace. Input after the tag is
// left alone.
func ParseTag(f *source.File, opts Options) (*ast.Tag, error) {
	p := newParser(f, opts)
	p.c.SkipSpace()
	tag, err := p.parseTag()
	if lexer.IsMismatch(err) {
		return nil, p.errHere(diag.SynExpectDecl, "expected tag")
	}
	return tag, err
}

// ParseExpr parses a condition expression that must span the whole input.
func ParseExpr(f *source.File, opts Options) (ast.Expr, error) {
	p := newParser(f, opts)
	e, err := p.parseExprRequired()
	if err != nil {
		return nil, err
	}
	p.c.SkipSpace()
	if !p.c.EOF() {
		return nil, p.errHere(diag.SynExpectExpression, "unexpected input after expression")
	}
	return e, nil
}

// ParseString parses src as a virtual file named name.
func ParseString(name, src string, opts Options) (*ast.Program, *source.FileSet, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(src))
	prog, err := ParseProgram(fs.Get(id), opts)
	return prog, fs, err
}

// ParseTagString is ParseTag over an in-memory buffer.
func ParseTagString(src string, opts Options) (*ast.Tag, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<tag>", []byte(src))
	return ParseTag(fs.Get(id), opts)
}

// ParseExprString is ParseExpr over an in-memory buffer.
func ParseExprString(src string, opts Options) (ast.Expr, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<expr>", []byte(src))
	return ParseExpr(fs.Get(id), opts)
}
