package driver

import (
	"log/slog"

	"hscript/internal/cond"
	"hscript/internal/directive"
	"hscript/internal/parser"
)

// DefaultExt is the template extension used by the *Dir entry points.
const DefaultExt = ".html"

// Options configures parsing, expansion and rendering. The zero value is usable.
type Options struct {
	MaxDiagnostics  int
	MaxDepth        int // parser nesting limit, 0 means parser.DefaultMaxDepth
	MaxIncludeDepth int // 0 means directive.DefaultMaxIncludeDepth
	IncludeDirs     []string
	NFC             bool
	Vars            cond.Vars
	Indent          string // непустой: построчный вывод
	Ext             string
	Jobs            int
	Cache           *DiskCache
	Registry        *directive.Registry
	Logger          *slog.Logger
	Progress        ProgressSink // события RenderDir/Render; nil: молча
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 256
	}
	return o.MaxDiagnostics
}

func (o Options) ext() string {
	if o.Ext == "" {
		return DefaultExt
	}
	return o.Ext
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) registry() *directive.Registry {
	if o.Registry == nil {
		return directive.DefaultRegistry()
	}
	return o.Registry
}

func (o Options) parserOptions() parser.Options {
	return parser.Options{MaxDepth: o.MaxDepth, Directives: o.registry()}
}
