package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"hscript/internal/directive"
	"hscript/internal/parser"
	"hscript/internal/source"
)

// FileLoader resolves #include targets on disk and parses them into one
// shared FileSet. Targets are looked up next to the including file first,
// then in each include dir. Units are keyed by clean absolute path and parsed
// once.
type FileLoader struct {
	fs    *source.FileSet
	dirs  []string
	popts parser.Options
	log   *slog.Logger

	mu    sync.Mutex
	units map[string]directive.Unit
}

// NewFileLoader creates a loader over fs.
func NewFileLoader(fs *source.FileSet, opts Options) *FileLoader {
	return &FileLoader{
		fs:    fs,
		dirs:  opts.IncludeDirs,
		popts: opts.parserOptions(),
		log:   opts.logger(),
		units: make(map[string]directive.Unit),
	}
}

// Load implements directive.Loader.
func (l *FileLoader) Load(ctx context.Context, name, from string) (directive.Unit, error) {
	if err := ctx.Err(); err != nil {
		return directive.Unit{}, err
	}
	for _, cand := range l.candidates(name, from) {
		info, err := os.Stat(cand)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return directive.Unit{}, err
		}
		if info.IsDir() {
			continue
		}
		return l.LoadPath(cand)
	}
	return directive.Unit{}, fmt.Errorf("%w: %q", directive.ErrNotFound, name)
}

func (l *FileLoader) candidates(name, from string) []string {
	if filepath.IsAbs(name) {
		return []string{name}
	}
	out := make([]string, 0, 1+len(l.dirs))
	if from != "" {
		out = append(out, filepath.Join(filepath.Dir(from), name))
	}
	for _, d := range l.dirs {
		out = append(out, filepath.Join(d, name))
	}
	return out
}

// LoadPath loads and parses path; the result is cached by its key.
func (l *FileLoader) LoadPath(path string) (directive.Unit, error) {
	key, err := unitKey(path)
	if err != nil {
		return directive.Unit{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if u, ok := l.units[key]; ok {
		return u, nil
	}

	id, err := l.fs.Load(key)
	if err != nil {
		return directive.Unit{}, err
	}
	prog, err := parser.ParseProgram(l.fs.Get(id), l.popts)
	if err != nil {
		return directive.Unit{}, err
	}
	l.log.Debug("loaded template", "path", key, "decls", len(prog.Decls))
	u := directive.Unit{Key: key, Program: prog}
	l.units[key] = u
	return u, nil
}

func unitKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
